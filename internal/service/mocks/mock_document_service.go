package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/model"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/repository"
	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Upload(ctx context.Context, in service.UploadInput, opts service.UploadOptions) (*service.UploadResult, error) {
	args := m.Called(ctx, in, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockDocumentService) UploadBatch(ctx context.Context, files []service.UploadInput, opts service.BatchOptions) ([]service.UploadResult, error) {
	args := m.Called(ctx, files, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.UploadResult), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, storageID string) (service.DeleteOutcome, error) {
	args := m.Called(ctx, storageID)
	return args.Get(0).(service.DeleteOutcome), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, f repository.Filter, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, f, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Search(ctx context.Context, text string, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, text, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) GetByStorageID(ctx context.Context, storageID string) (*model.Document, error) {
	args := m.Called(ctx, storageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Stats(ctx context.Context) (map[model.Category]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[model.Category]int), args.Error(1)
}
