package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docingest/internal/model"
	"docingest/internal/service"
)

type MockProjectFileService struct {
	mock.Mock
}

func (m *MockProjectFileService) Upload(ctx context.Context, projectID string, files []service.FileUpload) ([]model.TextDocument, error) {
	args := m.Called(ctx, projectID, files)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TextDocument), args.Error(1)
}

func (m *MockProjectFileService) ListTexts(ctx context.Context, projectID string, limit, offset int) (*service.TextListResult, error) {
	args := m.Called(ctx, projectID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TextListResult), args.Error(1)
}

func (m *MockProjectFileService) Export(ctx context.Context, projectID string) ([]byte, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockProjectFileService) DeleteText(ctx context.Context, projectID, textID string) error {
	args := m.Called(ctx, projectID, textID)
	return args.Error(0)
}

func (m *MockProjectFileService) ClearTags(ctx context.Context, projectID string) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}
