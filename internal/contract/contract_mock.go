package contract

import (
	"context"
	"io"

	"github.com/huangsam/slipstat/schema"
	"github.com/stretchr/testify/mock"
)

// MockRecordSource is a mock implementation of RecordSource for testing.
type MockRecordSource struct {
	mock.Mock
}

var _ RecordSource = &MockRecordSource{} // Compile-time check

// Describe implements the RecordSource interface.
func (m *MockRecordSource) Describe() string {
	args := m.Called()
	return args.String(0)
}

// Names implements the RecordSource interface.
func (m *MockRecordSource) Names(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

// Load implements the RecordSource interface.
func (m *MockRecordSource) Load(ctx context.Context, name string) (schema.GameRecord, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(schema.GameRecord), args.Error(1)
}

// MockReplayDecoder is a mock implementation of ReplayDecoder for testing.
type MockReplayDecoder struct {
	mock.Mock
}

var _ ReplayDecoder = &MockReplayDecoder{} // Compile-time check

// Decode implements the ReplayDecoder interface.
func (m *MockReplayDecoder) Decode(r io.Reader) (*schema.Game, error) {
	args := m.Called(r)
	game, _ := args.Get(0).(*schema.Game)
	return game, args.Error(1)
}
