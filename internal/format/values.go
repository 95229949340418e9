package format

import (
	"strings"
	"time"
)

// Timestamp formats t as RFC 3339 in loc. A nil or zero t is blank.
func Timestamp(t *time.Time, loc *time.Location) string {
	if t == nil || t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(time.RFC3339)
}

// TxURL links a transaction hash on a block explorer host
// ("etherscan.io" or "https://ropsten.etherscan.io")
func TxURL(host, hash string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" || hash == "" {
		return ""
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}
	return host + "/tx/" + hash
}
