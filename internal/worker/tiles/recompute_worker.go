package tiles

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/address-tiles/internal/domain"
	"github.com/address-tiles/internal/domain/repository"
	"github.com/address-tiles/internal/worker"
)

const (
	emptyQueueSleep = 100 * time.Millisecond
	errorSleep      = time.Second
)

// Recomputer - пересчет тайлов, которым пользуется воркер
type Recomputer interface {
	RecomputeStreets(ctx context.Context, ids []uuid.UUID) (*domain.BatchReport, error)
	RecomputePoints(ctx context.Context, ids []uuid.UUID) (*domain.BatchReport, error)
	RecomputeBal(ctx context.Context, balID uuid.UUID) (*domain.BatchReport, error)
}

// RecomputeWorker читает события stream:tiles:recompute, пересчитывает
// перечисленные улицы и точки и публикует отчет в stream:tiles:done
type RecomputeWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	recomputer   Recomputer
	consumerName string
	maxBatchSize int64

	// pending - следующая пачка читается из собственного pending-списка
	// потребителя (сообщения без ACK после сбоя публикации или рестарта)
	pending bool
}

func NewRecomputeWorker(
	streamRepo repository.StreamRepository,
	recomputer Recomputer,
	consumerGroup string,
	maxBatchSize int,
	logger *zap.Logger,
) *RecomputeWorker {
	hostname, _ := os.Hostname()
	if maxBatchSize < 1 {
		maxBatchSize = 1
	}

	return &RecomputeWorker{
		BaseWorker:   worker.NewBaseWorker("tiles-recompute", consumerGroup, logger),
		streamRepo:   streamRepo,
		recomputer:   recomputer,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		maxBatchSize: int64(maxBatchSize),
	}
}

func (w *RecomputeWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting tiles recompute worker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int64("max_batch_size", w.maxBatchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamTilesRecompute, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	w.pending = true

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			w.Pause(ctx, errorSleep)
			continue
		}

		if processed == 0 {
			w.Pause(ctx, emptyQueueSleep)
		}
	}
}

// ProcessBatch читает пачку событий, обрабатывает их по очереди и подтверждает.
// Пока pending-список потребителя не пуст, читает из него, иначе новые сообщения.
// Возвращает количество прочитанных сообщений.
func (w *RecomputeWorker) ProcessBatch(ctx context.Context) (int, error) {
	logger := w.Logger()

	messages, err := w.consume(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to consume batch: %w", err)
	}
	if len(messages) == 0 {
		if w.pending {
			w.pending = false
			logger.Debug("Pending list drained")
		}
		return 0, nil
	}

	logger.Info("Processing batch",
		zap.Int("message_count", len(messages)),
		zap.Bool("pending", w.pending))

	var publishFailed int
	ackIDs := make([]string, 0, len(messages))
	for _, msg := range messages {
		event, err := parseEvent(msg)
		if err != nil {
			// Битое сообщение подтверждаем, чтобы оно не застревало в pending
			logger.Warn("Failed to parse message, skipping",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			ackIDs = append(ackIDs, msg.ID)
			continue
		}

		done := w.handleEvent(ctx, event)
		if err := w.streamRepo.PublishToStream(ctx, domain.StreamTilesDone, done); err != nil {
			// Без ACK сообщение остается в pending и перечитывается следующей пачкой
			logger.Error("Failed to publish done event",
				zap.String("event_id", event.EventID.String()),
				zap.Error(err))
			publishFailed++
			continue
		}
		ackIDs = append(ackIDs, msg.ID)
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamTilesRecompute, w.ConsumerGroup(), ackIDs); err != nil {
		logger.Error("Failed to ack messages", zap.Error(err))
		w.pending = true
	}

	if publishFailed > 0 {
		w.pending = true
		return len(messages), fmt.Errorf("failed to publish %d done events", publishFailed)
	}

	return len(messages), nil
}

func (w *RecomputeWorker) consume(ctx context.Context) ([]domain.StreamMessage, error) {
	if w.pending {
		return w.streamRepo.ConsumePending(ctx, domain.StreamTilesRecompute, w.ConsumerGroup(), w.consumerName, w.maxBatchSize)
	}
	return w.streamRepo.ConsumeBatch(ctx, domain.StreamTilesRecompute, w.ConsumerGroup(), w.consumerName, w.maxBatchSize)
}

// handleEvent пересчитывает все, на что ссылается событие, в один отчет
func (w *RecomputeWorker) handleEvent(ctx context.Context, event *domain.TilesRecomputeEvent) *domain.TilesDoneEvent {
	report := &domain.BatchReport{}
	done := &domain.TilesDoneEvent{EventID: event.EventID, Report: report}

	merge := func(r *domain.BatchReport, err error) {
		if r != nil {
			for _, res := range r.Results {
				report.Add(res)
			}
		}
		if err != nil && done.Error == "" {
			done.Error = err.Error()
		}
	}

	if event.BalID != nil {
		merge(w.recomputer.RecomputeBal(ctx, *event.BalID))
	}
	if len(event.StreetIDs) > 0 {
		merge(w.recomputer.RecomputeStreets(ctx, event.StreetIDs))
	}
	if len(event.AddressIDs) > 0 {
		merge(w.recomputer.RecomputePoints(ctx, event.AddressIDs))
	}

	w.Logger().Info("Recompute event handled",
		zap.String("event_id", event.EventID.String()),
		zap.Int("success", report.SuccessCount),
		zap.Int("errors", report.ErrorCount))

	return done
}

func parseEvent(msg domain.StreamMessage) (*domain.TilesRecomputeEvent, error) {
	if msg.Data == "" {
		return nil, fmt.Errorf("missing 'data' field")
	}

	var event domain.TilesRecomputeEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.IsEmpty() {
		return nil, fmt.Errorf("event references no entities")
	}
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}

	return &event, nil
}
