package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a client at a loopback UDP listener and returns a
// function that reads the next datagram.
func newTestClient(t *testing.T, cfg Config) (*Client, func() string) {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	cfg.Enabled = true
	cfg.Address = pc.LocalAddr().String()

	client, err := NewClient(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	read := func() string {
		buf := make([]byte, 512)
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, err := pc.ReadFrom(buf)
		require.NoError(t, err)
		return string(buf[:n])
	}
	return client, read
}

func TestClientEmitsDatagrams(t *testing.T) {
	client, read := newTestClient(t, Config{Prefix: "lookalike"})

	client.Count("jobs.completed", 3, nil)
	assert.Equal(t, "lookalike.jobs.completed:3|c", read())

	client.Gauge("queue.depth", 12.5, nil)
	assert.Equal(t, "lookalike.queue.depth:12.5|g", read())

	client.Timing("jobs.duration", 250*time.Millisecond, nil)
	assert.Equal(t, "lookalike.jobs.duration:250|ms", read())
}

func TestClientTagOrderingAndOverride(t *testing.T) {
	client, read := newTestClient(t, Config{
		Prefix:     "lookalike",
		GlobalTags: map[string]string{"env": "test", "service": "api"},
	})

	client.Count("jobs.completed", 1, nil)
	assert.Equal(t, "lookalike.jobs.completed:1|c|#env:test,service:api", read())

	// Per-call tags win on key collision and interleave sorted.
	client.Count("jobs.completed", 1, map[string]string{"env": "ci", "vendor": "ocean"})
	assert.Equal(t, "lookalike.jobs.completed:1|c|#env:ci,service:api,vendor:ocean", read())
}

func TestClientSanitizesMetricNames(t *testing.T) {
	client, read := newTestClient(t, Config{})

	client.Count("jobs / lookalike..completed.", 1, nil)
	assert.Equal(t, "jobs___lookalike.completed:1|c", read())
}

func TestDisabledClientIsNoOp(t *testing.T) {
	client, err := NewClient(Config{Enabled: false, Address: "127.0.0.1:8125"})
	require.NoError(t, err)

	assert.False(t, client.Enabled())
	client.Count("jobs.completed", 1, nil)
	assert.NoError(t, client.Close())
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client

	assert.False(t, client.Enabled())
	client.Count("jobs.completed", 1, nil)
	client.Gauge("queue.depth", 1, nil)
	client.Timing("jobs.duration", time.Second, nil)
	assert.NoError(t, client.Close())
}
