package mocks

import (
	"context"

	"resumeparser/internal/model"
	"resumeparser/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockResumeRepository struct {
	mock.Mock
}

func (m *MockResumeRepository) Create(ctx context.Context, r *model.Resume) (*model.Resume, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resume), args.Error(1)
}

func (m *MockResumeRepository) FindByID(ctx context.Context, id string) (*model.Resume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resume), args.Error(1)
}

func (m *MockResumeRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Resume], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Resume]), args.Error(1)
}

func (m *MockResumeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockResumeRepository) UpdateParsedText(ctx context.Context, id, text, strategy string) error {
	args := m.Called(ctx, id, text, strategy)
	return args.Error(0)
}
