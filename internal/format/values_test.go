package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp(t *testing.T) {
	assert.Equal(t, "", Timestamp(nil, time.UTC))
	assert.Equal(t, "", Timestamp(&time.Time{}, time.UTC))

	ts := time.Date(2020, 1, 2, 10, 1, 0, 0, time.UTC)
	assert.Equal(t, "2020-01-02T10:01:00Z", Timestamp(&ts, time.UTC))

	berlin := time.FixedZone("CET", 3600)
	assert.Equal(t, "2020-01-02T11:01:00+01:00", Timestamp(&ts, berlin))
}

func TestTxURL(t *testing.T) {
	assert.Equal(t, "https://etherscan.io/tx/0xabc", TxURL("etherscan.io", "0xabc"))
	assert.Equal(t, "http://localhost:8545/tx/0xabc", TxURL("http://localhost:8545/", "0xabc"))
	assert.Equal(t, "", TxURL("", "0xabc"))
	assert.Equal(t, "", TxURL("etherscan.io", ""))
}
