package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/assetsync/internal/infrastructure/metrics"
)

type queryStartKey struct{}

type queryStart struct {
	at        time.Time
	operation string
	table     string
}

// metricsTracer records query counts, durations and errors.
type metricsTracer struct {
	m *metrics.Metrics
}

func (t metricsTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	op, table := sqlLabels(data.SQL)
	return context.WithValue(ctx, queryStartKey{}, queryStart{at: time.Now(), operation: op, table: table})
}

func (t metricsTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}

	t.m.DBQueries.WithLabelValues(start.operation, start.table).Inc()
	t.m.DBDuration.WithLabelValues(start.operation, start.table).Observe(time.Since(start.at).Seconds())

	if data.Err != nil && data.Err != pgx.ErrNoRows {
		t.m.DBErrors.WithLabelValues(start.operation).Inc()
	}
}

// sqlLabels extracts the statement verb and first table name of query.
func sqlLabels(query string) (operation, table string) {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown", ""
	}

	operation = strings.ToLower(fields[0])

	for i, f := range fields[:len(fields)-1] {
		switch strings.ToUpper(f) {
		case "FROM", "INTO", "UPDATE":
			return operation, strings.Trim(fields[i+1], "(),;")
		}
	}

	return operation, ""
}
