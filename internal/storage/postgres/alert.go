package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"spotmap/internal/aggregation"
	"spotmap/internal/domain"
	"spotmap/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const alertColumns = `id, spot_id, alert_type, severity, metadata, ts`

type AlertRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAlertRepo(pool *pgxpool.Pool, logger *slog.Logger) *AlertRepo {
	return &AlertRepo{pool: pool, logger: logger}
}

func scanAlert(row rowScanner) (*domain.Alert, error) {
	var (
		a   domain.Alert
		raw []byte
	)
	if err := row.Scan(&a.ID, &a.SpotID, &a.AlertType, &a.Severity, &raw, &a.Timestamp); err != nil {
		return nil, err
	}
	a.Metadata = domain.Metadata{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &a.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &a, nil
}

func (p *AlertRepo) Create(ctx context.Context, alert *domain.Alert) error {
	const op = "postgres.Alert.Create"

	if alert == nil || alert.SpotID == uuid.Nil {
		return fmt.Errorf("%s: %w", op, e.ErrValidation)
	}
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.Timestamp.IsZero() {
		alert.Timestamp = time.Now().UTC()
	}
	if alert.Metadata == nil {
		alert.Metadata = domain.Metadata{}
	}

	metadata, err := json.Marshal(alert.Metadata)
	if err != nil {
		return fmt.Errorf("%s: encode metadata: %w", op, e.ErrValidation)
	}

	const query = `
		INSERT INTO alerts (id, spot_id, alert_type, severity, metadata, ts)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = conn(ctx, p.pool).Exec(ctx, query,
		alert.ID,
		alert.SpotID,
		alert.AlertType,
		alert.Severity,
		metadata,
		alert.Timestamp,
	)
	if err != nil {
		p.logger.Error("db exec failed",
			slog.String("op", op),
			slog.Any("error", err),
			slog.String("spot_id", alert.SpotID.String()),
		)
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *AlertRepo) ListAll(ctx context.Context) ([]*domain.Alert, error) {
	return p.list(ctx, "postgres.Alert.ListAll",
		`SELECT `+alertColumns+` FROM alerts ORDER BY ts DESC, id`)
}

func (p *AlertRepo) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]*domain.Alert, error) {
	return p.list(ctx, "postgres.Alert.ListBySpot",
		`SELECT `+alertColumns+` FROM alerts WHERE spot_id = $1 ORDER BY ts DESC, id`, spotID)
}

// ListByTimeRange is inclusive on both ends.
func (p *AlertRepo) ListByTimeRange(ctx context.Context, start, end time.Time) ([]*domain.Alert, error) {
	return p.list(ctx, "postgres.Alert.ListByTimeRange",
		`SELECT `+alertColumns+` FROM alerts WHERE ts >= $1 AND ts <= $2 ORDER BY ts DESC, id`, start, end)
}

func (p *AlertRepo) ListRecent(ctx context.Context, limit int) ([]*domain.Alert, error) {
	const op = "postgres.Alert.ListRecent"

	if limit <= 0 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidArgument)
	}
	return p.list(ctx, op,
		`SELECT `+alertColumns+` FROM alerts ORDER BY ts DESC, id LIMIT $1`, limit)
}

func (p *AlertRepo) list(ctx context.Context, op, query string, args ...any) ([]*domain.Alert, error) {
	rows, err := conn(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	alerts := make([]*domain.Alert, 0)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return alerts, nil
}

func (p *AlertRepo) CountByType(ctx context.Context) ([]domain.AlertTypeCount, error) {
	const op = "postgres.Alert.CountByType"

	const query = `
		SELECT alert_type, COUNT(*)
		FROM alerts
		GROUP BY alert_type
		ORDER BY alert_type
	`

	rows, err := conn(ctx, p.pool).Query(ctx, query)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	counts := make([]domain.AlertTypeCount, 0, len(domain.AlertTypes))
	for rows.Next() {
		var c domain.AlertTypeCount
		if err := rows.Scan(&c.AlertType, &c.Count); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return counts, nil
}

// ScanSamples streams (timestamp, severity) of every stored alert into fn.
func (p *AlertRepo) ScanSamples(ctx context.Context, fn func(aggregation.Sample)) error {
	const op = "postgres.Alert.ScanSamples"

	rows, err := conn(ctx, p.pool).Query(ctx, `SELECT ts, severity FROM alerts`)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s aggregation.Sample
		if err := rows.Scan(&s.Timestamp, &s.Severity); err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return e.WrapError(ctx, op, err)
		}
		fn(s)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}
