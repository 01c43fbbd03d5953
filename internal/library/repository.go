package library

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)

	CreateRender(ctx context.Context, render *Render) error
	GetRender(ctx context.Context, id string) (*Render, error)
	ListRenders(ctx context.Context, limit int) ([]*Render, error)
	UpdateRenderStatus(ctx context.Context, id, status, errorMsg string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) CreateAsset(ctx context.Context, a *Asset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (id, filename, path, media_type, duration, has_audio, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Filename, a.Path, a.MediaType, a.Duration, boolToInt(a.HasAudio), a.Size, a.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetAsset(ctx context.Context, id string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, filename, path, media_type, duration, has_audio, size, created_at
		FROM assets WHERE id = ?
	`, id)
	return scanAsset(row)
}

func (r *SQLiteRepository) ListAssets(ctx context.Context) ([]*Asset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, path, media_type, duration, has_audio, size, created_at
		FROM assets ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*Asset
	for rows.Next() {
		var a Asset
		var hasAudio int
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Filename, &a.Path, &a.MediaType, &a.Duration, &hasAudio, &a.Size, &createdAt); err != nil {
			return nil, err
		}
		a.HasAudio = hasAudio == 1
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

func scanAsset(row *sql.Row) (*Asset, error) {
	var a Asset
	var hasAudio int
	var createdAt string
	err := row.Scan(&a.ID, &a.Filename, &a.Path, &a.MediaType, &a.Duration, &hasAudio, &a.Size, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.HasAudio = hasAudio == 1
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

func (r *SQLiteRepository) CreateRender(ctx context.Context, rec *Render) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO renders (id, project_id, profile, status, output_path, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.ProjectID, rec.Profile, rec.Status, rec.OutputPath, nullString(rec.Error),
		rec.CreatedAt.Format(time.RFC3339), rec.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetRender(ctx context.Context, id string) (*Render, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, project_id, profile, status, output_path, error, created_at, updated_at
		FROM renders WHERE id = ?
	`, id)
	return scanRender(row)
}

func (r *SQLiteRepository) ListRenders(ctx context.Context, limit int) ([]*Render, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, profile, status, output_path, error, created_at, updated_at
		FROM renders ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var renders []*Render
	for rows.Next() {
		var rec Render
		var errMsg sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.Profile, &rec.Status, &rec.OutputPath, &errMsg, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		rec.Error = errMsg.String
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		renders = append(renders, &rec)
	}
	return renders, rows.Err()
}

func scanRender(row *sql.Row) (*Render, error) {
	var rec Render
	var errMsg sql.NullString
	var createdAt, updatedAt string
	err := row.Scan(&rec.ID, &rec.ProjectID, &rec.Profile, &rec.Status, &rec.OutputPath, &errMsg, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	rec.Error = errMsg.String
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}

func (r *SQLiteRepository) UpdateRenderStatus(ctx context.Context, id, status, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE renders SET status = ?, error = ?, updated_at = ? WHERE id = ?
	`, status, nullString(errorMsg), time.Now().UTC().Format(time.RFC3339), id)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
