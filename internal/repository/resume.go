package repository

import (
	"context"

	"resumeparser/internal/model"
)

// ResumeRepository is persistence for resume records and their parsed text.
// No business logic here; strictly SQL.
type ResumeRepository interface {
	// Create inserts the resume row and its parsed text in one transaction.
	Create(ctx context.Context, r *model.Resume) (*model.Resume, error)

	// FindByID returns a resume with its parsed text. It returns sql.ErrNoRows when missing.
	FindByID(ctx context.Context, id string) (*model.Resume, error)

	// List returns a page of resumes without their text, newest first.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Resume], error)

	// Delete removes a resume and its parsed text. Missing rows are not an error.
	Delete(ctx context.Context, id string) error

	// UpdateParsedText replaces the stored text and the strategy that produced it.
	UpdateParsedText(ctx context.Context, id, text, strategy string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
