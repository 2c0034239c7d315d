package models

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// NamespaceType identifies the format of a configuration namespace as
// declared on the Apollo config server. The type determines both the
// namespace name used on the wire and how the payload is interpreted.
type NamespaceType string

const (
	// Properties is the default Apollo namespace format: a flat set of
	// key/value pairs. On the wire the namespace is addressed by its bare
	// name, without a type suffix.
	Properties NamespaceType = "properties"

	// XML namespaces carry their whole document under the "content" key.
	XML NamespaceType = "xml"

	// JSON namespaces carry their whole document under the "content" key
	// and can be decoded into a caller-provided structure.
	JSON NamespaceType = "json"

	// YML is the ".yml" spelling of a YAML namespace.
	YML NamespaceType = "yml"

	// YAML namespaces carry their whole document under the "content" key
	// and can be decoded into a caller-provided structure.
	YAML NamespaceType = "yaml"

	// TXT namespaces hold free-form text under the "content" key.
	TXT NamespaceType = "txt"
)

// contentKey is where the Apollo server places the raw document body for
// every non-properties namespace.
const contentKey = "content"

// Configurations is the key/value mapping held by a namespace.
type Configurations map[string]string

// Namespace is one named bucket of configuration as returned by the
// authoritative /configs endpoint of the config server.
type Namespace struct {
	// AppID is the application the namespace belongs to.
	AppID string `json:"appId"`

	// Cluster is the cluster the configuration was released for.
	Cluster string `json:"cluster"`

	// Name is the local namespace name, without any type suffix
	// (e.g. "application", not "application.yaml").
	Name string `json:"namespaceName"`

	// Type is the declared namespace format. Empty is treated as
	// Properties everywhere.
	Type NamespaceType `json:"-"`

	// Configurations holds the released key/value pairs. For
	// non-properties namespaces the server stores the whole document
	// under the "content" key.
	Configurations Configurations `json:"configurations"`

	// ReleaseKey is the opaque server-assigned version token of the
	// release this snapshot was taken from.
	ReleaseKey string `json:"releaseKey"`
}

// WireName returns the namespace name as it must appear in request paths:
// the bare name for properties namespaces, "name.type" for everything else.
func WireName(name string, t NamespaceType) string {
	if t == "" || t == Properties {
		return name
	}
	return fmt.Sprintf("%s.%s", name, t)
}

// Value returns the configuration value for key and whether it is present.
func (n Namespace) Value(key string) (string, bool) {
	v, ok := n.Configurations[key]
	return v, ok
}

// Content returns the raw document body of a non-properties namespace, or
// the empty string if the namespace has no "content" key.
func (n Namespace) Content() string {
	return n.Configurations[contentKey]
}

// Unmarshal decodes the namespace body into v. JSON namespaces are decoded
// with encoding/json, YAML and YML with yaml.v3. Properties namespaces and
// raw formats (xml, txt) cannot be decoded this way and return an error;
// use Value or Content for those.
func (n Namespace) Unmarshal(v any) error {
	switch n.Type {
	case JSON:
		if err := json.Unmarshal([]byte(n.Content()), v); err != nil {
			return fmt.Errorf("decode json namespace %q: %w", n.Name, err)
		}
		return nil
	case YAML, YML:
		if err := yaml.Unmarshal([]byte(n.Content()), v); err != nil {
			return fmt.Errorf("decode yaml namespace %q: %w", n.Name, err)
		}
		return nil
	default:
		return fmt.Errorf("namespace %q has non-decodable type %q", n.Name, n.Type)
	}
}
