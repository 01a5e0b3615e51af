// Package statsd emits StatsD-line-protocol metrics over UDP.
package statsd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sort"
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

// Config describes how to connect to a StatsD-compatible sink.
type Config struct {
	Enabled    bool
	Address    string
	Prefix     string
	Logger     *slog.Logger
	GlobalTags map[string]string
}

const dialTimeout = 5 * time.Second

// Client emits metrics over UDP using the StatsD line protocol.
// A nil *Client is a no-op sink, so callers never need to guard emission.
type Client struct {
	prefix   string
	baseTags []string // pre-sanitized "k:v" pairs applied to every datagram

	logger *slog.Logger

	mu   sync.Mutex
	conn net.Conn // nil once closed or when the client is disabled
}

var _ Sink = (*Client)(nil)

// NewClient dials the configured StatsD endpoint. A disabled config (or an
// empty address) yields a client that silently drops every metric.
func NewClient(cfg Config) (*Client, error) {
	c := &Client{
		prefix:   strings.Trim(strings.TrimSpace(cfg.Prefix), "."),
		baseTags: tagPairs(cfg.GlobalTags),
		logger:   cfg.Logger,
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	addr := strings.TrimSpace(cfg.Address)
	if !cfg.Enabled || addr == "" {
		return c, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(ctx, "udp", addr)
	if err != nil {
		return nil, fmt.Errorf("statsd dial %s: %w", addr, err)
	}
	c.conn = conn
	return c, nil
}

// Enabled reports whether the client actively emits metrics.
func (c *Client) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Count increments a counter metric.
func (c *Client) Count(name string, value int64, tags map[string]string) {
	if c == nil {
		return
	}
	c.emit(name, strconv.FormatInt(value, 10), "c", tags)
}

// Gauge records the current value for a gauge metric.
func (c *Client) Gauge(name string, value float64, tags map[string]string) {
	if c == nil {
		return
	}
	c.emit(name, formatFloat(value), "g", tags)
}

// Timing records a timing metric using milliseconds.
func (c *Client) Timing(name string, value time.Duration, tags map[string]string) {
	if c == nil {
		return
	}
	ms := float64(value) / float64(time.Millisecond)
	c.emit(name, formatFloat(ms), "ms", tags)
}

// Close releases the underlying UDP connection if one was established.
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

func (c *Client) emit(name, value, unit string, tags map[string]string) {
	metric := sanitizeName(name)
	if metric == "" {
		return
	}
	if c.prefix != "" {
		metric = c.prefix + "." + metric
	}

	var b strings.Builder
	b.WriteString(metric)
	b.WriteByte(':')
	b.WriteString(value)
	b.WriteByte('|')
	b.WriteString(unit)
	writeTags(&b, c.baseTags, tags)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return
	}
	if _, err := c.conn.Write([]byte(b.String())); err != nil {
		c.logger.Debug("statsd write failed", "error", err)
	}
}

// sanitizeName maps a free-form metric name onto the dotted StatsD namespace:
// spaces and slashes become underscores, runs of dots collapse.
func sanitizeName(name string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/':
			return '_'
		default:
			return r
		}
	}, strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(mapped))
	prevDot := true // leading dots are dropped
	for _, r := range mapped {
		if r == '.' {
			if prevDot {
				continue
			}
			prevDot = true
		} else {
			prevDot = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSuffix(b.String(), ".")
}

// writeTags appends the DogStatsD tag section. Per-call tags override the
// client's base tags on key collision; keys are emitted in sorted order.
func writeTags(b *strings.Builder, base []string, local map[string]string) {
	pairs := base
	if len(local) > 0 {
		merged := make(map[string]string, len(base)+len(local))
		for _, p := range base {
			k, v, _ := strings.Cut(p, ":")
			merged[k] = v
		}
		for k, v := range local {
			if key := strings.TrimSpace(k); key != "" {
				merged[key] = strings.TrimSpace(v)
			}
		}
		pairs = make([]string, 0, len(merged))
		for k, v := range merged {
			pairs = append(pairs, k+":"+v)
		}
		sort.Strings(pairs)
	}

	if len(pairs) == 0 {
		return
	}
	b.WriteString("|#")
	b.WriteString(strings.Join(pairs, ","))
}

// tagPairs flattens a tag map into sorted "k:v" pairs, dropping blank keys.
func tagPairs(tags map[string]string) []string {
	if len(tags) == 0 {
		return nil
	}
	pairs := make([]string, 0, len(tags))
	for k, v := range tags {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		pairs = append(pairs, key+":"+strings.TrimSpace(v))
	}
	sort.Strings(pairs)
	return pairs
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
