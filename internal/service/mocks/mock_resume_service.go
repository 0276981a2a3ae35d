package mocks

import (
	"context"
	"time"

	"resumeparser/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockResumeService struct {
	mock.Mock
}

func (m *MockResumeService) Upload(ctx context.Context, data []byte, filename, title string) (*service.ResumeDetail, error) {
	args := m.Called(ctx, data, filename, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResumeDetail), args.Error(1)
}

func (m *MockResumeService) List(ctx context.Context, limit, offset int) (*service.ResumeListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResumeListResult), args.Error(1)
}

func (m *MockResumeService) Get(ctx context.Context, id string) (*service.ResumeDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResumeDetail), args.Error(1)
}

func (m *MockResumeService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockResumeService) Reparse(ctx context.Context, id string) (*service.ResumeDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ResumeDetail), args.Error(1)
}

func (m *MockResumeService) DownloadURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}
