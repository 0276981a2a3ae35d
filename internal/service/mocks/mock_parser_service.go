package mocks

import (
	"context"

	"resumeparser/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockParserService struct {
	mock.Mock
}

func (m *MockParserService) Parse(ctx context.Context, data []byte, filename string) (*service.ParseResult, error) {
	args := m.Called(ctx, data, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ParseResult), args.Error(1)
}

func (m *MockParserService) Analyze(ctx context.Context, data []byte, filename, jobDescription string) (*service.AnalyzeResult, error) {
	args := m.Called(ctx, data, filename, jobDescription)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalyzeResult), args.Error(1)
}
