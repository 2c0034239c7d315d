package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Apollo struct {
		ServerURL      string   `json:"server_url"`
		AppID          string   `json:"app_id"`
		Cluster        string   `json:"cluster"`
		Secret         string   `json:"secret"`
		IP             string   `json:"ip"`
		RequestTimeout Duration `json:"request_timeout"`
		PollTimeout    Duration `json:"poll_timeout"`
	} `json:"apollo,omitempty"`

	Snapshot struct {
		Dir string `json:"dir"`
	} `json:"snapshot,omitempty"`

	Watcher struct {
		Interval   Duration `json:"interval"`
		Namespaces []string `json:"namespaces"`
	} `json:"watcher,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Apollo: Apollo{
			ServerURL:      jsonCfg.Apollo.ServerURL,
			AppID:          jsonCfg.Apollo.AppID,
			Cluster:        jsonCfg.Apollo.Cluster,
			Secret:         jsonCfg.Apollo.Secret,
			IP:             jsonCfg.Apollo.IP,
			RequestTimeout: time.Duration(jsonCfg.Apollo.RequestTimeout),
			PollTimeout:    time.Duration(jsonCfg.Apollo.PollTimeout),
		},
		Snapshot: Snapshot{
			Dir: jsonCfg.Snapshot.Dir,
		},
		Watcher: Watcher{
			Interval:   time.Duration(jsonCfg.Watcher.Interval),
			Namespaces: jsonCfg.Watcher.Namespaces,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
