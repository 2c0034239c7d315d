package models

// InitialNotificationID is the notification id sent for a namespace the
// client has never polled. The server answers the first poll for such a
// namespace immediately with its current id.
const InitialNotificationID int64 = -1

// Notification pairs a namespace with the server-assigned, monotonically
// increasing notification id of its latest release. It is both the request
// payload of the long-poll endpoint (carrying the ids the client knows)
// and its response payload (carrying the ids the server knows).
type Notification struct {
	// NamespaceName is the wire name of the namespace
	// (type-suffixed for non-properties namespaces).
	NamespaceName string `json:"namespaceName"`

	// NotificationID is the server-side revision counter for the
	// namespace. Higher means newer; ids never move backwards.
	NotificationID int64 `json:"notificationId"`
}
