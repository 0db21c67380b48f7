package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spotmap/internal/domain"
	"spotmap/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const spotColumns = `
	id,
	title,
	description,
	category,
	ST_AsGeoJSON(geo_point, 15)::json AS location,
	author,
	created_at,
	updated_at`

type SpotRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewSpotRepo(pool *pgxpool.Pool, logger *slog.Logger) *SpotRepo {
	return &SpotRepo{pool: pool, logger: logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSpot reads spotColumns followed by extra. The location arrives as
// GeoJSON and goes through Point's decoder, so stored coordinates are
// range-checked on the way out too.
func scanSpot(row rowScanner, extra ...any) (*domain.Spot, error) {
	var s domain.Spot
	dest := []any{
		&s.ID,
		&s.Title,
		&s.Description,
		&s.Category,
		&s.Location,
		&s.Author,
		&s.CreatedAt,
		&s.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &s, nil
}

func (p *SpotRepo) Create(ctx context.Context, spot *domain.Spot) error {
	const op = "postgres.Spot.Create"

	if spot == nil {
		return fmt.Errorf("%s: %w", op, e.ErrValidation)
	}
	if spot.ID == uuid.Nil {
		spot.ID = uuid.New()
	}
	if spot.CreatedAt.IsZero() {
		spot.CreatedAt = time.Now().UTC()
	}
	if spot.UpdatedAt.IsZero() {
		spot.UpdatedAt = spot.CreatedAt
	}
	if spot.Category == "" {
		spot.Category = domain.CategoryOther
	}

	const query = `
		INSERT INTO spots (id, title, description, category, geo_point, author, created_at, updated_at)
		VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7, $8, $9)
	`

	_, err := conn(ctx, p.pool).Exec(ctx, query,
		spot.ID,
		spot.Title,
		spot.Description,
		spot.Category,
		spot.Location.Lng,
		spot.Location.Lat,
		spot.Author,
		spot.CreatedAt,
		spot.UpdatedAt,
	)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	return nil
}

func (p *SpotRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Spot, error) {
	const op = "postgres.Spot.Get"

	query := `SELECT ` + spotColumns + ` FROM spots WHERE id = $1`

	spot, err := scanSpot(conn(ctx, p.pool).QueryRow(ctx, query, id))
	if err != nil {
		wrapped := e.WrapError(ctx, op, err)
		if !errors.Is(wrapped, e.ErrNotFound) {
			p.logger.Error("db queryrow scan failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		}
		return nil, wrapped
	}

	return spot, nil
}

// Update changes only the non-nil fields of patch in a single statement, so the
// location and its GiST index entry move together with the rest of the row.
func (p *SpotRepo) Update(ctx context.Context, id uuid.UUID, patch domain.SpotPatch) (*domain.Spot, error) {
	const op = "postgres.Spot.Update"

	var lng, lat *float64
	if patch.Location != nil {
		lng, lat = &patch.Location.Lng, &patch.Location.Lat
	}
	var category *string
	if patch.Category != nil {
		c := string(*patch.Category)
		category = &c
	}
	if patch.UpdatedAt.IsZero() {
		patch.UpdatedAt = time.Now().UTC()
	}

	query := `
		UPDATE spots
		SET title       = COALESCE($2, title),
			description = COALESCE($3, description),
			category    = COALESCE($4, category),
			geo_point   = CASE
				WHEN $5::double precision IS NULL THEN geo_point
				ELSE ST_SetSRID(ST_MakePoint($5::double precision, $6::double precision), 4326)::geography
			END,
			updated_at  = $7
		WHERE id = $1
		RETURNING ` + spotColumns

	spot, err := scanSpot(conn(ctx, p.pool).QueryRow(ctx, query,
		id,
		patch.Title,
		patch.Description,
		category,
		lng,
		lat,
		patch.UpdatedAt,
	))
	if err != nil {
		wrapped := e.WrapError(ctx, op, err)
		if !errors.Is(wrapped, e.ErrNotFound) {
			p.logger.Error("db update failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		}
		return nil, wrapped
	}

	return spot, nil
}

func (p *SpotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.Spot.Delete"

	cmd, err := conn(ctx, p.pool).Exec(ctx, `DELETE FROM spots WHERE id = $1`, id)
	if err != nil {
		p.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err), slog.String("id", id.String()))
		return e.WrapError(ctx, op, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	return nil
}

// FindNear returns spots within radiusM meters of center, nearest first.
func (p *SpotRepo) FindNear(ctx context.Context, center domain.Point, radiusM float64) ([]domain.NearbySpot, error) {
	const op = "postgres.Spot.FindNear"

	if radiusM <= 0 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrInvalidArgument)
	}

	// geography keeps ST_DWithin and ST_Distance in meters
	query := `
		WITH center AS (
			SELECT ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography AS g
		)
		SELECT ` + spotColumns + `,
			ST_Distance(spots.geo_point, center.g) AS distance_m
		FROM spots, center
		WHERE ST_DWithin(spots.geo_point, center.g, $3)
		ORDER BY distance_m, spots.id
	`

	rows, err := conn(ctx, p.pool).Query(ctx, query, center.Lng, center.Lat, radiusM)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]domain.NearbySpot, 0, 8)
	for rows.Next() {
		var dist float64
		spot, err := scanSpot(rows, &dist)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		out = append(out, domain.NearbySpot{Spot: *spot, DistanceM: dist})
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return out, nil
}

func (p *SpotRepo) List(ctx context.Context, filter domain.SpotFilter) ([]*domain.Spot, error) {
	const op = "postgres.Spot.List"

	var category *string
	if filter.Category != nil {
		c := string(*filter.Category)
		category = &c
	}

	query := `
		SELECT ` + spotColumns + `
		FROM spots
		WHERE ($1::text IS NULL OR category = $1)
		  AND ($2::text = '' OR author = $2)
		ORDER BY created_at, id
	`

	rows, err := conn(ctx, p.pool).Query(ctx, query, category, filter.Author)
	if err != nil {
		p.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	spots := make([]*domain.Spot, 0)
	for rows.Next() {
		spot, err := scanSpot(rows)
		if err != nil {
			p.logger.Error("row scan failed", slog.String("op", op), slog.Any("error", err))
			return nil, e.WrapError(ctx, op, err)
		}
		spots = append(spots, spot)
	}
	if err := rows.Err(); err != nil {
		p.logger.Error("rows err", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}

	return spots, nil
}
