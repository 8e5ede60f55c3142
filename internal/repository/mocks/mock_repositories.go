package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docingest/internal/model"
	"docingest/internal/repository"
)

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

type MockTextRepository struct {
	mock.Mock
}

func (m *MockTextRepository) CreateBatch(ctx context.Context, sources []model.SourceFile, texts []model.TextDocument) error {
	args := m.Called(ctx, sources, texts)
	return args.Error(0)
}

func (m *MockTextRepository) FindByID(ctx context.Context, id string) (*model.TextDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TextDocument), args.Error(1)
}

func (m *MockTextRepository) ListByProject(ctx context.Context, projectID string, pq repository.PageQuery) (*repository.PageResult[model.TextDocument], error) {
	args := m.Called(ctx, projectID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.TextDocument]), args.Error(1)
}

func (m *MockTextRepository) AllByProject(ctx context.Context, projectID string) ([]model.TextDocument, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TextDocument), args.Error(1)
}

func (m *MockTextRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTextRepository) ClearTags(ctx context.Context, projectID string) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}
