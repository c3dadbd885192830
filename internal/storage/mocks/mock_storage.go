package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/Rohini2302/SkEnterprises-Project-sub001/internal/storage"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Put(ctx context.Context, folder, filename string, r io.Reader, opt storage.PutOptions) (storage.ObjectInfo, error) {
	args := m.Called(ctx, folder, filename, r, opt)
	if f, ok := args.Get(0).(func(context.Context, string, string, io.Reader, storage.PutOptions) storage.ObjectInfo); ok {
		return f(ctx, folder, filename, r, opt), args.Error(1)
	}
	return args.Get(0).(storage.ObjectInfo), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, storageID string) (bool, error) {
	args := m.Called(ctx, storageID)
	return args.Bool(0), args.Error(1)
}
