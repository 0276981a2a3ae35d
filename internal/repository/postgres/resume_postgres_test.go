package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/model"
	"resumeparser/internal/repository"
)

var resumeColumns = []string{"id", "title", "filename", "storage_path", "size", "content_type", "extraction_strategy", "uploaded_at"}

func newMock(t *testing.T) (*ResumePostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewResumePostgres(db), mock
}

func TestResumePostgres_Create(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	now := time.Now().UTC()
	res := &model.Resume{
		ID:                 "test-uuid",
		Title:              "Backend CV",
		Filename:           "cv.pdf",
		StoragePath:        "resumes/test-uuid.pdf",
		Size:               2048,
		ContentType:        "application/pdf",
		ExtractionStrategy: "layout",
		UploadedAt:         now,
		Text:               "Jane Doe\nExperience:\nGo",
	}

	t.Run("commits both rows", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO resumes").
			WithArgs(res.ID, res.Title, res.Filename, res.StoragePath, res.Size, res.ContentType, res.ExtractionStrategy, res.UploadedAt).
			WillReturnRows(sqlmock.NewRows(resumeColumns).
				AddRow(res.ID, res.Title, res.Filename, res.StoragePath, res.Size, res.ContentType, res.ExtractionStrategy, res.UploadedAt))
		mock.ExpectExec("INSERT INTO parsed_texts").
			WithArgs(res.ID, res.Text, res.UploadedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		out, err := repo.Create(ctx, res)

		require.NoError(t, err)
		assert.Equal(t, res.ID, out.ID)
		assert.Equal(t, res.Text, out.Text)
		assert.Equal(t, "layout", out.ExtractionStrategy)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when text insert fails", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO resumes").
			WillReturnRows(sqlmock.NewRows(resumeColumns).
				AddRow(res.ID, res.Title, res.Filename, res.StoragePath, res.Size, res.ContentType, res.ExtractionStrategy, res.UploadedAt))
		mock.ExpectExec("INSERT INTO parsed_texts").WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		out, err := repo.Create(ctx, res)

		assert.Nil(t, out)
		assert.ErrorContains(t, err, "insert parsed text")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestResumePostgres_FindByID(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(append(append([]string{}, resumeColumns...), "content")).
			AddRow("test-id", "CV", "cv.pdf", "resumes/test-id.pdf", 100, "application/pdf", "pages", time.Now(), "parsed body")

		mock.ExpectQuery("SELECT (.+) FROM resumes r LEFT JOIN parsed_texts p (.+) WHERE r.id = ?").
			WithArgs("test-id").
			WillReturnRows(rows)

		res, err := repo.FindByID(ctx, "test-id")

		require.NoError(t, err)
		assert.Equal(t, "test-id", res.ID)
		assert.Equal(t, "parsed body", res.Text)
		assert.Equal(t, "pages", res.ExtractionStrategy)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM resumes").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		res, err := repo.FindByID(ctx, "missing")

		assert.Nil(t, res)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResumePostgres_List(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM resumes").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows(resumeColumns).
		AddRow("id-1", "A", "a.pdf", "resumes/id-1.pdf", 10, "application/pdf", "layout", time.Now()).
		AddRow("id-2", "B", "b.pdf", "resumes/id-2.pdf", 20, "application/pdf", "content-stream", time.Now())
	mock.ExpectQuery("SELECT (.+) FROM resumes ORDER BY uploaded_at DESC").
		WithArgs(10, 0).
		WillReturnRows(rows)

	result, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "id-1", result.Items[0].ID)
	assert.Empty(t, result.Items[0].Text)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResumePostgres_Delete(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("DELETE FROM resumes WHERE id = ?").
		WithArgs("id-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), "id-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResumePostgres_UpdateParsedText(t *testing.T) {
	repo, mock := newMock(t)
	ctx := context.Background()

	t.Run("upserts text", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE resumes SET extraction_strategy").
			WithArgs("id-1", "pages").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO parsed_texts (.+) ON CONFLICT").
			WithArgs("id-1", "new text").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.UpdateParsedText(ctx, "id-1", "new text", "pages"))
	})

	t.Run("missing resume", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE resumes SET extraction_strategy").
			WithArgs("missing", "pages").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.UpdateParsedText(ctx, "missing", "x", "pages"), sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
