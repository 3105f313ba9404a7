// Package redis builds the shared go-redis client and exports its pool stats.
package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"authflow/internal/platform/config"
)

// Client wraps the go-redis client with a readiness check and pool metrics.
type Client struct {
	*redis.Client
}

// New connects to cfg.URL and pings it. It returns nil, nil when no URL is
// configured so callers fall back to in-memory stores.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() //nolint:errcheck // best-effort cleanup on init failure
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &Client{Client: client}, nil
}

// Health pings redis.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// PoolCollector exposes go-redis pool statistics as prometheus metrics. It
// reads the stats on every scrape.
type PoolCollector struct {
	stats func() *redis.PoolStats

	once                                 sync.Once
	hits, misses, timeouts, stale, total *prometheus.Desc
	idle                                 *prometheus.Desc
}

func NewPoolCollector(c *Client) *PoolCollector {
	return &PoolCollector{stats: c.PoolStats}
}

func (p *PoolCollector) init() {
	p.once.Do(func() {
		p.hits = prometheus.NewDesc("authflow_redis_pool_hits_total", "Number of times a connection was found in the pool", nil, nil)
		p.misses = prometheus.NewDesc("authflow_redis_pool_misses_total", "Number of times a connection was not found in the pool", nil, nil)
		p.timeouts = prometheus.NewDesc("authflow_redis_pool_timeouts_total", "Number of times a connection was not obtained due to timeout", nil, nil)
		p.stale = prometheus.NewDesc("authflow_redis_pool_stale_conns_total", "Number of stale connections removed from the pool", nil, nil)
		p.total = prometheus.NewDesc("authflow_redis_pool_total_conns", "Number of total connections in the pool", nil, nil)
		p.idle = prometheus.NewDesc("authflow_redis_pool_idle_conns", "Number of idle connections in the pool", nil, nil)
	})
}

func (p *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	p.init()
	ch <- p.hits
	ch <- p.misses
	ch <- p.timeouts
	ch <- p.stale
	ch <- p.total
	ch <- p.idle
}

func (p *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	p.init()
	s := p.stats()
	ch <- prometheus.MustNewConstMetric(p.hits, prometheus.CounterValue, float64(s.Hits))
	ch <- prometheus.MustNewConstMetric(p.misses, prometheus.CounterValue, float64(s.Misses))
	ch <- prometheus.MustNewConstMetric(p.timeouts, prometheus.CounterValue, float64(s.Timeouts))
	ch <- prometheus.MustNewConstMetric(p.stale, prometheus.CounterValue, float64(s.StaleConns))
	ch <- prometheus.MustNewConstMetric(p.total, prometheus.GaugeValue, float64(s.TotalConns))
	ch <- prometheus.MustNewConstMetric(p.idle, prometheus.GaugeValue, float64(s.IdleConns))
}
