package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chaofengh/stock-price-analyze-Backend/internal/domain/models"
	drepo "github.com/chaofengh/stock-price-analyze-Backend/internal/domain/repository"
	pkgch "github.com/chaofengh/stock-price-analyze-Backend/pkg/clickhouse"
	applogger "github.com/chaofengh/stock-price-analyze-Backend/pkg/logger"
)

// ClickHouseBars serves daily bars from the warehouse.
type ClickHouseBars struct {
	ch     *pkgch.Client
	table  string
	logger *applogger.Logger
}

// NewClickHouseBars creates a BarSource over a daily-bars table.
func NewClickHouseBars(ch *pkgch.Client, table string, logger *applogger.Logger) *ClickHouseBars {
	if table == "" {
		table = "stockscan.daily_bars"
	}
	return &ClickHouseBars{ch: ch, table: table, logger: logger}
}

func (s *ClickHouseBars) GetDailyBars(ctx context.Context, symbol string, lookbackDays int) ([]models.Bar, error) {
	since := time.Now().UTC().AddDate(0, 0, -lookbackDays)
	q := fmt.Sprintf(`
        SELECT ts, open, high, low, close, volume
        FROM %s
        WHERE symbol = ? AND ts >= ?
        ORDER BY ts ASC
    `, s.table)

	rows, err := s.ch.DB().QueryContext(ctx, q, symbol, since)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("clickhouse daily_bars query error",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("%w: query bars for %s: %v", drepo.ErrDataUnavailable, symbol, err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, lookbackDays)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("%w: scan bar for %s: %v", drepo.ErrDataUnavailable, symbol, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows for %s: %v", drepo.ErrDataUnavailable, symbol, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no bars for %s", drepo.ErrDataUnavailable, symbol)
	}
	return out, nil
}

// ClickHouseEventArchive persists published scan events, best-effort.
type ClickHouseEventArchive struct {
	ch    *pkgch.Client
	table string
}

// NewClickHouseEventArchive creates an AlertSink that appends events to
// the archive table.
func NewClickHouseEventArchive(ch *pkgch.Client, table string) drepo.AlertSink {
	if table == "" {
		table = "stockscan.scan_events"
	}
	return &ClickHouseEventArchive{ch: ch, table: table}
}

func (a *ClickHouseEventArchive) PublishEvents(ctx context.Context, sequence uint64, evs []models.Event) error {
	if len(evs) == 0 {
		return nil
	}
	values := make([]string, 0, len(evs))
	args := make([]interface{}, 0, len(evs)*8)
	for _, ev := range evs {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			sequence,
			ev.Symbol,
			ev.Timestamp,
			string(ev.Kind),
			ev.Price,
			ev.BandValue,
			ev.Meta.RunLength,
			ev.Meta.RunEnd,
		)
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (sequence, symbol, ts, kind, price, band_value, run_length, run_end) VALUES %s",
		a.table, strings.Join(values, ","),
	)
	if _, err := a.ch.DB().ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("archive events: %w", err)
	}
	return nil
}

func (a *ClickHouseEventArchive) Close() error { return nil }
