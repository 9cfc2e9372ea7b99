package statsd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"net"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Sink describes the minimal interface required to emit StatsD-style metrics.
type Sink interface {
	Count(name string, value int64, tags map[string]string)
	Gauge(name string, value float64, tags map[string]string)
	Timing(name string, value time.Duration, tags map[string]string)
}

// Defaults applied by NewClient.
const (
	DefaultPrefix  = "fleet_alerts"
	DefaultService = "fleet-alerts"
	dialTimeout    = 5 * time.Second
)

// Config describes the StatsD agent and the tags stamped on every line.
type Config struct {
	Address string // host:port of the agent; required
	Prefix  string // metric namespace; DefaultPrefix when blank
	Service string // "service" tag; DefaultService when blank
	Env     string // optional "env" tag
	Logger  *slog.Logger
}

// Client emits DogStatsD lines over UDP. It is safe for concurrent use and a nil
// *Client discards everything.
type Client struct {
	prefix string
	base   map[string]string
	logger *slog.Logger

	mu   sync.Mutex
	conn net.Conn
}

var _ Sink = (*Client)(nil)

// NewClient dials the agent. UDP dialing only resolves the address, so an
// agent that is down does not fail startup.
func NewClient(cfg Config) (*Client, error) {
	address := strings.TrimSpace(cfg.Address)
	if address == "" {
		return nil, errors.New("statsd address is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	prefix := cleanName(cfg.Prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	service := strings.TrimSpace(cfg.Service)
	if service == "" {
		service = DefaultService
	}
	base := map[string]string{"service": service}
	if env := strings.TrimSpace(cfg.Env); env != "" {
		base["env"] = env
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", address)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", address, err)
	}

	return &Client{
		prefix: prefix,
		base:   base,
		logger: logger.With("component", "statsd"),
		conn:   conn,
	}, nil
}

// Count increments a counter.
func (c *Client) Count(name string, value int64, tags map[string]string) {
	c.send(name, strconv.FormatInt(value, 10), "c", tags)
}

// Gauge sets a gauge to value.
func (c *Client) Gauge(name string, value float64, tags map[string]string) {
	c.send(name, strconv.FormatFloat(value, 'f', -1, 64), "g", tags)
}

// Timing records value in milliseconds.
func (c *Client) Timing(name string, value time.Duration, tags map[string]string) {
	ms := float64(value) / float64(time.Millisecond)
	c.send(name, strconv.FormatFloat(ms, 'f', -1, 64), "ms", tags)
}

// Close releases the UDP socket. Later writes are dropped.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *Client) send(name, value, kind string, tags map[string]string) {
	if c == nil {
		return
	}
	line := c.line(name, value, kind, tags)
	if line == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return
	}
	if _, err := c.conn.Write([]byte(line)); err != nil {
		c.logger.Debug("statsd write failed", "metric", name, "error", err)
	}
}

// line renders "<prefix>.<name>:<value>|<kind>|#k:v,..." with tags sorted by key.
// Local tags override the client's base tags.
func (c *Client) line(name, value, kind string, tags map[string]string) string {
	metric := cleanName(name)
	if metric == "" {
		return ""
	}

	merged := maps.Clone(c.base)
	if merged == nil {
		merged = make(map[string]string, len(tags))
	}
	for k, v := range tags {
		if k = cleanTag(k); k != "" {
			merged[k] = cleanTag(v)
		}
	}

	var b strings.Builder
	if c.prefix != "" {
		b.WriteString(c.prefix)
		b.WriteByte('.')
	}
	b.WriteString(metric)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte('|')
	b.WriteString(kind)

	for i, k := range slices.Sorted(maps.Keys(merged)) {
		if i == 0 {
			b.WriteString("|#")
		} else {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(merged[k])
	}
	return b.String()
}

var nameReplacer = strings.NewReplacer(" ", "_", "/", "_", ":", "_", "|", "_", "@", "_", "#", "_")

// cleanName makes a dotted metric name safe for the line protocol and drops
// empty segments, so " alert..transition. " becomes "alert.transition".
func cleanName(name string) string {
	parts := strings.FieldsFunc(nameReplacer.Replace(strings.TrimSpace(name)), func(r rune) bool {
		return r == '.'
	})
	return strings.Join(parts, ".")
}

var tagReplacer = strings.NewReplacer("|", "_", ",", "_", "#", "_", "\n", "_")

func cleanTag(s string) string {
	return tagReplacer.Replace(strings.TrimSpace(s))
}
