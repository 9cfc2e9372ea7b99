package statsd

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listen starts a UDP agent and returns a client pointed at it plus a reader
// for the next received line.
func listen(t *testing.T, cfg Config) (*Client, func() string) {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = pc.Close() })

	cfg.Address = pc.LocalAddr().String()
	client, err := NewClient(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return client, func() string {
		t.Helper()
		buf := make([]byte, 1024)
		require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
		n, _, err := pc.ReadFrom(buf)
		require.NoError(t, err)
		return string(buf[:n])
	}
}

func TestClient_EmitsPrefixedLinesWithServiceTags(t *testing.T) {
	client, next := listen(t, Config{Env: "staging"})

	client.Count("alert.transition", 1, map[string]string{"transition": "create", "result": "success"})
	assert.Equal(t,
		"fleet_alerts.alert.transition:1|c|#env:staging,result:success,service:fleet-alerts,transition:create",
		next())

	client.Gauge("alert.list.total", 42, map[string]string{"scope": "owner"})
	assert.Equal(t, "fleet_alerts.alert.list.total:42|g|#env:staging,scope:owner,service:fleet-alerts", next())

	client.Timing("alert.duration", 1500*time.Microsecond, nil)
	assert.Equal(t, "fleet_alerts.alert.duration:1.5|ms|#env:staging,service:fleet-alerts", next())
}

func TestClient_CustomPrefixAndTagOverride(t *testing.T) {
	client, next := listen(t, Config{Prefix: " .fleet.. ", Service: "intake"})

	client.Count("alert.transition", 2, map[string]string{"service": "override", " ": "dropped"})
	assert.Equal(t, "fleet.alert.transition:2|c|#service:override", next())
}

func TestClient_CloseDropsLaterWrites(t *testing.T) {
	client, _ := listen(t, Config{})
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	assert.NotPanics(t, func() { client.Count("alert.transition", 1, nil) })

	var nilClient *Client
	assert.NotPanics(t, func() { nilClient.Gauge("alert.list.total", 1, nil) })
	assert.NoError(t, nilClient.Close())
}

func TestNewClient_Errors(t *testing.T) {
	_, err := NewClient(Config{Address: "  "})
	require.Error(t, err)

	_, err = NewClient(Config{Address: "bad address"})
	require.ErrorContains(t, err, "statsd dial")
}

func TestCleanName(t *testing.T) {
	tests := map[string]string{
		" alert..transition. ": "alert.transition",
		"alert/duration":       "alert_duration",
		"bad|name:x":           "bad_name_x",
		"...":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanName(in), in)
	}
}

func TestLine_SanitisesTagsAndSkipsEmptyNames(t *testing.T) {
	c := &Client{prefix: "p", base: map[string]string{"service": "fleet-alerts"}}

	got := c.line("alert.transition", "1", "c", map[string]string{"error_class": "a|b,c#d"})
	assert.Equal(t, "p.alert.transition:1|c|#error_class:a_b_c_d,service:fleet-alerts", got)
	assert.Empty(t, c.line(" . ", "1", "c", nil))
}
