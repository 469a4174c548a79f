package tiles_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/address-tiles/internal/domain"
	"github.com/address-tiles/internal/pkg/errors"
	"github.com/address-tiles/internal/worker/tiles"
)

const testGroup = "test-group"

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ConsumePending(ctx context.Context, stream, group, consumer string, count int64) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs []string) error {
	args := m.Called(ctx, stream, group, messageIDs)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// MockRecomputer is a mock of tiles.Recomputer
type MockRecomputer struct {
	mock.Mock
}

func (m *MockRecomputer) RecomputeStreets(ctx context.Context, ids []uuid.UUID) (*domain.BatchReport, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchReport), args.Error(1)
}

func (m *MockRecomputer) RecomputePoints(ctx context.Context, ids []uuid.UUID) (*domain.BatchReport, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchReport), args.Error(1)
}

func (m *MockRecomputer) RecomputeBal(ctx context.Context, balID uuid.UUID) (*domain.BatchReport, error) {
	args := m.Called(ctx, balID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BatchReport), args.Error(1)
}

func message(t *testing.T, id string, event *domain.TilesRecomputeEvent) domain.StreamMessage {
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

func reportOf(results ...domain.RecomputeResult) *domain.BatchReport {
	r := &domain.BatchReport{}
	for _, res := range results {
		r.Add(res)
	}
	return r
}

func TestProcessBatch_EmptyQueue(t *testing.T) {
	streams := &MockStreamRepository{}
	rec := &MockRecomputer{}
	w := tiles.NewRecomputeWorker(streams, rec, testGroup, 10, zap.NewNop())

	streams.On("ConsumeBatch", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(10)).
		Return([]domain.StreamMessage{}, nil)

	processed, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)
	streams.AssertNotCalled(t, "AckMessages", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessBatch_RecomputesAndPublishes(t *testing.T) {
	streams := &MockStreamRepository{}
	rec := &MockRecomputer{}
	w := tiles.NewRecomputeWorker(streams, rec, testGroup, 10, zap.NewNop())

	streetID := uuid.New()
	addrID := uuid.New()
	balID := uuid.New()
	event1 := &domain.TilesRecomputeEvent{EventID: uuid.New(), StreetIDs: []uuid.UUID{streetID}, AddressIDs: []uuid.UUID{addrID}}
	event2 := &domain.TilesRecomputeEvent{EventID: uuid.New(), BalID: &balID}

	streams.On("ConsumeBatch", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(10)).
		Return([]domain.StreamMessage{
			message(t, "1-0", event1),
			{ID: "2-0", Data: "{broken"},
			message(t, "3-0", event2),
		}, nil)

	rec.On("RecomputeStreets", mock.Anything, []uuid.UUID{streetID}).
		Return(reportOf(domain.RecomputeResult{Kind: domain.EntityStreet, ID: streetID, Success: true}), nil)
	rec.On("RecomputePoints", mock.Anything, []uuid.UUID{addrID}).
		Return(reportOf(domain.RecomputeResult{Kind: domain.EntityAddress, ID: addrID, Error: "ADDRESS_NOT_FOUND"}), nil)
	rec.On("RecomputeBal", mock.Anything, balID).Return(nil, errors.ErrDatabaseError)

	var published []*domain.TilesDoneEvent
	streams.On("PublishToStream", mock.Anything, domain.StreamTilesDone, mock.Anything).
		Run(func(args mock.Arguments) {
			published = append(published, args.Get(2).(*domain.TilesDoneEvent))
		}).
		Return(nil)
	streams.On("AckMessages", mock.Anything, domain.StreamTilesRecompute, testGroup, []string{"1-0", "2-0", "3-0"}).
		Return(nil)

	processed, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, processed)

	require.Len(t, published, 2)
	assert.Equal(t, event1.EventID, published[0].EventID)
	assert.Equal(t, 1, published[0].Report.SuccessCount)
	assert.Equal(t, 1, published[0].Report.ErrorCount)
	assert.Empty(t, published[0].Error)

	assert.Equal(t, event2.EventID, published[1].EventID)
	assert.Contains(t, published[1].Error, "DATABASE_ERROR")

	streams.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestProcessBatch_PublishFailureRetriedFromPending(t *testing.T) {
	streams := &MockStreamRepository{}
	rec := &MockRecomputer{}
	w := tiles.NewRecomputeWorker(streams, rec, testGroup, 5, zap.NewNop())

	streetID := uuid.New()
	event := &domain.TilesRecomputeEvent{EventID: uuid.New(), StreetIDs: []uuid.UUID{streetID}}
	msg := message(t, "1-0", event)

	streams.On("ConsumeBatch", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(5)).
		Return([]domain.StreamMessage{msg}, nil).Once()
	rec.On("RecomputeStreets", mock.Anything, []uuid.UUID{streetID}).Return(reportOf(), nil)
	streams.On("PublishToStream", mock.Anything, domain.StreamTilesDone, mock.Anything).Return(errors.ErrCacheError).Once()
	streams.On("AckMessages", mock.Anything, domain.StreamTilesRecompute, testGroup, []string{}).Return(nil).Once()

	processed, err := w.ProcessBatch(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, processed)

	// Следующая пачка перечитывает неподтвержденное сообщение из pending
	streams.On("ConsumePending", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(5)).
		Return([]domain.StreamMessage{msg}, nil).Once()
	streams.On("PublishToStream", mock.Anything, domain.StreamTilesDone, mock.Anything).Return(nil).Once()
	streams.On("AckMessages", mock.Anything, domain.StreamTilesRecompute, testGroup, []string{"1-0"}).Return(nil).Once()

	processed, err = w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	// Pending пуст: воркер возвращается к новым сообщениям
	streams.On("ConsumePending", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(5)).
		Return([]domain.StreamMessage{}, nil).Once()
	processed, err = w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)

	streams.On("ConsumeBatch", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(5)).
		Return([]domain.StreamMessage{}, nil).Once()
	processed, err = w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)

	streams.AssertExpectations(t)
	rec.AssertNumberOfCalls(t, "RecomputeStreets", 2)
}

func TestStart_DrainsPendingBeforeNewMessages(t *testing.T) {
	streams := &MockStreamRepository{}
	rec := &MockRecomputer{}
	w := tiles.NewRecomputeWorker(streams, rec, testGroup, 5, zap.NewNop())

	streetID := uuid.New()
	leftover := message(t, "7-0", &domain.TilesRecomputeEvent{EventID: uuid.New(), StreetIDs: []uuid.UUID{streetID}})

	streams.On("CreateConsumerGroup", mock.Anything, domain.StreamTilesRecompute, testGroup).Return(nil)
	streams.On("ConsumePending", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(5)).
		Return([]domain.StreamMessage{leftover}, nil).Once()
	streams.On("ConsumePending", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(5)).
		Return([]domain.StreamMessage{}, nil).Once()
	streams.On("ConsumeBatch", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(5)).
		Return([]domain.StreamMessage{}, nil)
	rec.On("RecomputeStreets", mock.Anything, []uuid.UUID{streetID}).Return(reportOf(), nil)
	streams.On("PublishToStream", mock.Anything, domain.StreamTilesDone, mock.Anything).Return(nil)
	streams.On("AckMessages", mock.Anything, domain.StreamTilesRecompute, testGroup, []string{"7-0"}).Return(nil)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	time.Sleep(300 * time.Millisecond)
	require.NoError(t, w.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	streams.AssertExpectations(t)
	rec.AssertExpectations(t)
}

func TestProcessBatch_EmptyEventIsSkipped(t *testing.T) {
	streams := &MockStreamRepository{}
	rec := &MockRecomputer{}
	w := tiles.NewRecomputeWorker(streams, rec, testGroup, 5, zap.NewNop())

	streams.On("ConsumeBatch", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(5)).
		Return([]domain.StreamMessage{message(t, "1-0", &domain.TilesRecomputeEvent{EventID: uuid.New()})}, nil)
	streams.On("AckMessages", mock.Anything, domain.StreamTilesRecompute, testGroup, []string{"1-0"}).Return(nil)

	_, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	rec.AssertNotCalled(t, "RecomputeStreets", mock.Anything, mock.Anything)
	streams.AssertExpectations(t)
}

func TestStart_StopsOnStop(t *testing.T) {
	streams := &MockStreamRepository{}
	rec := &MockRecomputer{}
	w := tiles.NewRecomputeWorker(streams, rec, testGroup, 5, zap.NewNop())

	streams.On("CreateConsumerGroup", mock.Anything, domain.StreamTilesRecompute, testGroup).Return(nil)
	streams.On("ConsumePending", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(5)).
		Return([]domain.StreamMessage{}, nil)
	streams.On("ConsumeBatch", mock.Anything, domain.StreamTilesRecompute, testGroup, mock.Anything, int64(5)).
		Return([]domain.StreamMessage{}, nil)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, w.Stop())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestStart_ConsumerGroupFailure(t *testing.T) {
	streams := &MockStreamRepository{}
	w := tiles.NewRecomputeWorker(streams, &MockRecomputer{}, testGroup, 5, zap.NewNop())

	streams.On("CreateConsumerGroup", mock.Anything, domain.StreamTilesRecompute, testGroup).Return(errors.ErrInternalServer)

	err := w.Start(context.Background())
	assert.ErrorIs(t, err, errors.ErrInternalServer)
}
