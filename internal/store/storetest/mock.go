package storetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"io.winapps.clubconsole/internal/store"
)

type MockDocuments struct {
	mock.Mock
}

func (m *MockDocuments) Create(ctx context.Context, collection string, fields store.Fields) (string, error) {
	args := m.Called(ctx, collection, fields)
	return args.String(0), args.Error(1)
}

func (m *MockDocuments) List(ctx context.Context, collection string) ([]store.Document, error) {
	args := m.Called(ctx, collection)
	docs, _ := args.Get(0).([]store.Document)
	return docs, args.Error(1)
}

func (m *MockDocuments) Update(ctx context.Context, collection, id string, fields store.Fields) error {
	args := m.Called(ctx, collection, id, fields)
	return args.Error(0)
}

func (m *MockDocuments) Delete(ctx context.Context, collection, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

type MockObjects struct {
	mock.Mock
}

func (m *MockObjects) Upload(ctx context.Context, objectPath, contentType string, data []byte) error {
	args := m.Called(ctx, objectPath, contentType, data)
	return args.Error(0)
}

func (m *MockObjects) URL(ctx context.Context, objectPath string) (string, error) {
	args := m.Called(ctx, objectPath)
	return args.String(0), args.Error(1)
}

func (m *MockObjects) Delete(ctx context.Context, urlOrPath string) error {
	args := m.Called(ctx, urlOrPath)
	return args.Error(0)
}
