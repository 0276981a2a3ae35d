package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"resumeparser/internal/model"
	"resumeparser/internal/repository"
)

// ResumePostgres implements repository.ResumeRepository with database/sql and parameterized queries.
type ResumePostgres struct {
	db *sql.DB
}

func NewResumePostgres(db *sql.DB) *ResumePostgres {
	return &ResumePostgres{db: db}
}

var _ repository.ResumeRepository = (*ResumePostgres)(nil)

func (r *ResumePostgres) Create(ctx context.Context, res *model.Resume) (*model.Resume, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	const qResume = `
		INSERT INTO resumes (id, title, filename, storage_path, size, content_type, extraction_strategy, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, title, filename, storage_path, size, content_type, extraction_strategy, uploaded_at
	`
	var out model.Resume
	if err := tx.QueryRowContext(ctx, qResume,
		res.ID,
		res.Title,
		res.Filename,
		res.StoragePath,
		res.Size,
		res.ContentType,
		res.ExtractionStrategy,
		res.UploadedAt,
	).Scan(
		&out.ID,
		&out.Title,
		&out.Filename,
		&out.StoragePath,
		&out.Size,
		&out.ContentType,
		&out.ExtractionStrategy,
		&out.UploadedAt,
	); err != nil {
		return nil, err
	}

	const qText = `INSERT INTO parsed_texts (resume_id, content, updated_at) VALUES ($1, $2, $3)`
	if _, err := tx.ExecContext(ctx, qText, out.ID, res.Text, res.UploadedAt); err != nil {
		return nil, fmt.Errorf("insert parsed text: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	out.Text = res.Text
	return &out, nil
}

func (r *ResumePostgres) FindByID(ctx context.Context, id string) (*model.Resume, error) {
	const q = `
		SELECT r.id, r.title, r.filename, r.storage_path, r.size, r.content_type,
		       r.extraction_strategy, r.uploaded_at, COALESCE(p.content, '')
		FROM resumes r
		LEFT JOIN parsed_texts p ON p.resume_id = r.id
		WHERE r.id = $1
	`
	var out model.Resume
	if err := r.db.QueryRowContext(ctx, q, id).Scan(
		&out.ID,
		&out.Title,
		&out.Filename,
		&out.StoragePath,
		&out.Size,
		&out.ContentType,
		&out.ExtractionStrategy,
		&out.UploadedAt,
		&out.Text,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ResumePostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Resume], error) {
	const qCount = `SELECT COUNT(*) FROM resumes`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT id, title, filename, storage_path, size, content_type, extraction_strategy, uploaded_at
		FROM resumes
		ORDER BY uploaded_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Resume, 0)
	for rows.Next() {
		var res model.Resume
		if err := rows.Scan(
			&res.ID,
			&res.Title,
			&res.Filename,
			&res.StoragePath,
			&res.Size,
			&res.ContentType,
			&res.ExtractionStrategy,
			&res.UploadedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Resume]{Items: items, Total: total}, nil
}

// Delete relies on ON DELETE CASCADE to drop the parsed text.
func (r *ResumePostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM resumes WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *ResumePostgres) UpdateParsedText(ctx context.Context, id, text, strategy string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	const qResume = `UPDATE resumes SET extraction_strategy = $2 WHERE id = $1`
	res, err := tx.ExecContext(ctx, qResume, id, strategy)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	const qText = `
		INSERT INTO parsed_texts (resume_id, content, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (resume_id) DO UPDATE SET content = EXCLUDED.content, updated_at = EXCLUDED.updated_at
	`
	if _, err := tx.ExecContext(ctx, qText, id, text); err != nil {
		return fmt.Errorf("upsert parsed text: %w", err)
	}

	return tx.Commit()
}
