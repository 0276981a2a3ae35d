package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumeparser/internal/events"
	"resumeparser/internal/model"
	"resumeparser/internal/repository"
	"resumeparser/internal/segment"
	"resumeparser/internal/storage"
)

// ResumeDetail is a stored resume with the sections recomputed from its parsed text.
type ResumeDetail struct {
	model.Resume
	Sections model.Sections `json:"sections"`
}

// ResumeListResult is the service-level DTO for paginated resumes.
type ResumeListResult struct {
	Items []model.Resume `json:"data"`
	Total int            `json:"total"`
}

// ResumeService manages uploaded resumes kept in object storage and the database.
type ResumeService interface {
	// Upload extracts the PDF, stores it, and records it with its text. Storage is rolled back
	// when the database write fails.
	Upload(ctx context.Context, data []byte, filename, title string) (*ResumeDetail, error)

	// List returns resumes using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ResumeListResult, error)

	// Get returns a resume with its parsed text and sections.
	Get(ctx context.Context, id string) (*ResumeDetail, error)

	// Delete removes a resume from storage and the database.
	Delete(ctx context.Context, id string) error

	// Reparse downloads the stored PDF, runs extraction again and saves the new text.
	Reparse(ctx context.Context, id string) (*ResumeDetail, error)

	// DownloadURL returns a presigned link to the stored PDF.
	DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error)
}

type resumeService struct {
	base
	store storage.Storage
	repo  repository.ResumeRepository
}

func NewResumeService(store storage.Storage, repo repository.ResumeRepository, ext Extractor, opts ...Option) ResumeService {
	return &resumeService{base: newBase(ext, opts), store: store, repo: repo}
}

func (s *resumeService) Upload(ctx context.Context, data []byte, filename, title string) (*ResumeDetail, error) {
	if err := s.validatePDF(data); err != nil {
		return nil, err
	}

	res := s.extractor.Extract(ctx, data)

	id := uuid.New().String()
	key := path.Join("resumes", id+".pdf")

	objInfo, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: "application/pdf",
		Metadata: map[string]string{
			"original-filename": filename,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	}

	stored, err := s.repo.Create(ctx, &model.Resume{
		ID:                 id,
		Title:              title,
		Filename:           filename,
		StoragePath:        objInfo.Key,
		Size:               int64(len(data)),
		ContentType:        "application/pdf",
		ExtractionStrategy: res.Strategy,
		UploadedAt:         s.now(),
		Text:               res.Text,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.publish(ctx, events.RoutingResumeParsed, s.parsedEvent(stored.ID, filename, res))

	return detail(stored), nil
}

func (s *resumeService) List(ctx context.Context, limit, offset int) (*ResumeListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ResumeListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *resumeService) Get(ctx context.Context, id string) (*ResumeDetail, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return detail(r), nil
}

// Delete removes the object first; the row is kept when storage fails so the key is not lost.
func (s *resumeService) Delete(ctx context.Context, id string) error {
	r, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, r.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}

func (s *resumeService) Reparse(ctx context.Context, id string) (*ResumeDetail, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	body, _, err := s.store.Get(ctx, r.StoragePath)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("download from storage: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read stored object: %w", err)
	}

	res := s.extractor.Extract(ctx, data)
	if err := s.repo.UpdateParsedText(ctx, id, res.Text, res.Strategy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	s.publish(ctx, events.RoutingResumeParsed, s.parsedEvent(id, r.Filename, res))

	r.Text = res.Text
	r.ExtractionStrategy = res.Strategy
	return detail(r), nil
}

func (s *resumeService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, r.StoragePath, expiry)
}

func (s *resumeService) find(ctx context.Context, id string) (*model.Resume, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func detail(r *model.Resume) *ResumeDetail {
	return &ResumeDetail{Resume: *r, Sections: segment.Segment(r.Text)}
}
