package unit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxRepository keeps the documents in Postgres instead of the data
// directory. Same bytes contract as the file store: the doc column holds the
// document verbatim and shape normalization stays with the callers.
//
// Schema:
//
//	unit_documents        (unit_id text, kind text, doc jsonb, updated_at timestamptz,
//	                       PRIMARY KEY (unit_id, kind))
//	unit_document_backups (unit_id text, kind text, doc jsonb, saved_at timestamptz,
//	                       PRIMARY KEY (unit_id, kind, saved_at))
//
// Global documents (promo codes, global settings) use unit_id = ''.
type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Postgres-backed document repository.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) loadDoc(ctx context.Context, unitID, kind string) (json.RawMessage, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("doc").
		From("public.unit_documents").
		Where(squirrel.Eq{"unit_id": unitID, "kind": kind}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load document query failed: %w", err)
	}

	var doc json.RawMessage
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load %s document for %q failed: %w", kind, unitID, err)
	}
	return doc, nil
}

func (r *pgxRepository) LoadPrices(ctx context.Context, unit string) (json.RawMessage, error) {
	return r.loadDoc(ctx, SanitizeID(unit), KindPrices)
}

func (r *pgxRepository) LoadOccupancy(ctx context.Context, unit string) (json.RawMessage, error) {
	return r.loadDoc(ctx, SanitizeID(unit), KindOccupancy)
}

func (r *pgxRepository) LoadOffers(ctx context.Context, unit string) (json.RawMessage, error) {
	return r.loadDoc(ctx, SanitizeID(unit), KindOffers)
}

func (r *pgxRepository) LoadPromoCodes(ctx context.Context) (json.RawMessage, error) {
	return r.loadDoc(ctx, "", KindPromoCodes)
}

func (r *pgxRepository) LoadSettings(ctx context.Context, unit string) (json.RawMessage, json.RawMessage, error) {
	global, err := r.loadDoc(ctx, "", KindSettings)
	if err != nil {
		return nil, nil, err
	}
	override, err := r.loadDoc(ctx, SanitizeID(unit), KindSettings)
	if err != nil {
		return nil, nil, err
	}
	return global, override, nil
}

func (r *pgxRepository) LoadIntegrations(ctx context.Context, unit string) (json.RawMessage, error) {
	return r.loadDoc(ctx, SanitizeID(unit), KindIntegrations)
}

func (r *pgxRepository) SavePrices(ctx context.Context, unit string, doc json.RawMessage) error {
	if !json.Valid(doc) {
		return ErrBadDocument
	}
	unitID := SanitizeID(unit)
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	// Point-in-time backup of the current document, if one exists.
	backup, args, err := psql.Insert("public.unit_document_backups").
		Columns("unit_id", "kind", "doc", "saved_at").
		Select(squirrel.Select("unit_id", "kind", "doc", "now()").
			From("public.unit_documents").
			Where(squirrel.Eq{"unit_id": unitID, "kind": KindPrices})).
		ToSql()
	if err != nil {
		return fmt.Errorf("build price backup query failed: %w", err)
	}
	if _, err := r.pool.Exec(ctx, backup, args...); err != nil {
		// Two writers backing up within the same instant collide on the
		// backup PK; the snapshot already exists, so the write proceeds.
		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
			return fmt.Errorf("backup prices for %q failed: %w", unitID, err)
		}
	}

	upsert, args, err := psql.Insert("public.unit_documents").
		Columns("unit_id", "kind", "doc", "updated_at").
		Values(unitID, KindPrices, doc, squirrel.Expr("now()")).
		Suffix("ON CONFLICT (unit_id, kind) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save prices query failed: %w", err)
	}
	if _, err := r.pool.Exec(ctx, upsert, args...); err != nil {
		return fmt.Errorf("save prices for %q failed: %w", unitID, err)
	}
	return nil
}

func (r *pgxRepository) ListUnits(ctx context.Context) ([]string, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("DISTINCT unit_id").
		From("public.unit_documents").
		Where(squirrel.NotEq{"unit_id": ""}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list units query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list units failed: %w", err)
	}
	defer rows.Close()

	var units []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unit id failed: %w", err)
		}
		units = append(units, id)
	}
	return units, rows.Err()
}

func (r *pgxRepository) LoadFeedState(ctx context.Context, unit, platform string) (json.RawMessage, error) {
	return r.loadDoc(ctx, SanitizeID(unit), KindFeedState+":"+SanitizeID(platform))
}

func (r *pgxRepository) SaveFeedState(ctx context.Context, unit, platform string, doc json.RawMessage) error {
	if !json.Valid(doc) {
		return ErrBadDocument
	}
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	upsert, args, err := psql.Insert("public.unit_documents").
		Columns("unit_id", "kind", "doc", "updated_at").
		Values(SanitizeID(unit), KindFeedState+":"+SanitizeID(platform), doc, squirrel.Expr("now()")).
		Suffix("ON CONFLICT (unit_id, kind) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("build save feed state query failed: %w", err)
	}
	if _, err := r.pool.Exec(ctx, upsert, args...); err != nil {
		return fmt.Errorf("save feed state failed: %w", err)
	}
	return nil
}
