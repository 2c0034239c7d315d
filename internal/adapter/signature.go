package adapter

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"
)

// signature computes the Apollo access-key signature: a base64-encoded
// HMAC-SHA1 over "timestamp\nuri", where uri is the request path including
// the query string and timestamp is unix milliseconds as a decimal string.
func signature(timestamp, uri, secret string) string {
	stringToSign := timestamp + "\n" + uri
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write([]byte(stringToSign))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// authHeaders returns the Authorization and Timestamp headers for a request
// to uri, or an empty map when no secret is configured (the server then
// expects unsigned requests).
func authHeaders(appID, secret, uri string, now time.Time) map[string]string {
	if secret == "" {
		return map[string]string{}
	}

	ms := strconv.FormatInt(now.UnixMilli(), 10)
	return map[string]string{
		"Authorization": fmt.Sprintf("Apollo %s:%s", appID, signature(ms, uri, secret)),
		"Timestamp":     ms,
	}
}
