package audit

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"
)

// StatsReader provides read access to the ClickHouse guardrail_events table.
type StatsReader struct {
	conn   driver.Conn
	logger *zap.Logger
}

// NewStatsReader opens a ClickHouse connection for stats queries.
func NewStatsReader(dsn string, logger *zap.Logger) (*StatsReader, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("NewStatsReader: %w", err)
	}
	if opts.TLS == nil {
		opts.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("NewStatsReader: %w", err)
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("NewStatsReader: %w", err)
	}

	return &StatsReader{conn: conn, logger: logger}, nil
}

// Close closes the ClickHouse connection.
func (r *StatsReader) Close() error {
	return r.conn.Close()
}

// Stats aggregates guardrail events by type and rule. An unavailable table
// yields zero stats rather than an error.
func (r *StatsReader) Stats(ctx context.Context) Stats {
	stats := newStats()

	rows, err := r.conn.Query(ctx, `
		SELECT event_type, rule, count() AS cnt
		FROM guardrail_events
		GROUP BY event_type, rule
	`)
	if err != nil {
		r.logger.Warn("clickhouse stats query failed", zap.Error(err))
		return stats
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var eventType, rule string
		var cnt uint64
		if err := rows.Scan(&eventType, &rule, &cnt); err != nil {
			r.logger.Warn("clickhouse stats scan failed", zap.Error(err))
			continue
		}
		stats.addN(eventType, rule, int(cnt))
	}

	return stats
}
