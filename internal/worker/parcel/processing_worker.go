package parcel

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/landsearch-microservice/internal/domain"
	"github.com/landsearch-microservice/internal/domain/repository"
	"github.com/landsearch-microservice/internal/pkg/metrics"
	"github.com/landsearch-microservice/internal/usecase"
	"github.com/landsearch-microservice/internal/usecase/dto"
	"github.com/landsearch-microservice/internal/worker"
)

// ProcessingWorker consumes extraction events, builds parcel geometry
// and stages the result for review. Every event gets a response on the
// processed stream, failed extractions included.
type ProcessingWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	parcelUC     *usecase.ParcelUseCase
	consumerName string
	maxRetries   int
}

// NewProcessingWorker creates a new ProcessingWorker
func NewProcessingWorker(
	streamRepo repository.StreamRepository,
	parcelUC *usecase.ParcelUseCase,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *ProcessingWorker {
	// Consumer name must be unique per process (hostname + PID)
	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("%s-%d", hostname, os.Getpid())

	return &ProcessingWorker{
		BaseWorker:   worker.NewBaseWorker("parcel-processing", consumerGroup, logger),
		streamRepo:   streamRepo,
		parcelUC:     parcelUC,
		consumerName: consumerName,
		maxRetries:   maxRetries,
	}
}

// Start runs the worker until the context is cancelled
func (w *ProcessingWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ProcessingWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamParcelExtracted, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	msgChan, err := w.streamRepo.ConsumeStream(
		ctx,
		domain.StreamParcelExtracted,
		w.ConsumerGroup(),
		w.consumerName,
	)
	if err != nil {
		logger.Error("Failed to consume stream", zap.Error(err))
		return fmt.Errorf("failed to consume stream: %w", err)
	}

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case msg, ok := <-msgChan:
			if !ok {
				logger.Warn("Message channel closed")
				return fmt.Errorf("message channel closed")
			}

			if err := w.processMessage(ctx, msg); err != nil {
				logger.Error("Failed to process message",
					zap.String("message_id", msg.ID),
					zap.Error(err))
				// Leave the message pending for redelivery
				continue
			}

			if err := w.streamRepo.AckMessage(ctx, domain.StreamParcelExtracted, w.ConsumerGroup(), msg.ID); err != nil {
				logger.Error("Failed to acknowledge message",
					zap.String("message_id", msg.ID),
					zap.Error(err))
			}
		}
	}
}

// processMessage handles one extraction event. A nil return means the
// message can be acknowledged, whatever the processing outcome was.
func (w *ProcessingWorker) processMessage(ctx context.Context, msg domain.StreamMessage) error {
	logger := w.Logger()

	var event domain.ParcelExtractedEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Error("Failed to unmarshal event",
			zap.String("message_id", msg.ID),
			zap.String("raw_data", msg.Data),
			zap.Error(err))
		metrics.StreamEventsTotal.WithLabelValues("invalid").Inc()
		// Ack and skip, there is no upload to answer to
		return nil
	}

	logger.Info("Processing extraction event",
		zap.String("upload_id", event.UploadID.String()),
		zap.String("file_name", event.FileName),
		zap.Bool("has_geometry", event.HasGeometry()))

	req := dto.ProcessRequest{
		UserID:   event.UserID,
		UploadID: event.UploadID.String(),
		FileName: event.FileName,
		Document: event.Document,
	}

	resp, err := w.parcelUC.Process(ctx, req)
	if err != nil {
		// The failed upload was recorded as a staging row already;
		// tell the extraction service what happened
		metrics.StreamEventsTotal.WithLabelValues("failed").Inc()
		w.publishResult(ctx, &domain.ParcelProcessedEvent{
			UploadID: event.UploadID,
			UserID:   event.UserID,
			FileName: event.FileName,
			Status:   domain.ParcelStatusFailed,
			Error:    err.Error(),
		})
		return nil
	}

	metrics.StreamEventsTotal.WithLabelValues("processed").Inc()
	w.publishResult(ctx, &domain.ParcelProcessedEvent{
		UploadID: event.UploadID,
		UserID:   event.UserID,
		ParcelID: resp.Parcel.ID,
		FileName: event.FileName,
		Status:   domain.ParcelStatusUnprocessed,
	})

	logger.Info("Extraction event processed",
		zap.String("upload_id", event.UploadID.String()),
		zap.String("parcel_id", resp.Parcel.ID),
		zap.Int("skipped_points", len(resp.SkippedPoints)))

	return nil
}

// publishResult publishes the processing outcome to the processed stream
func (w *ProcessingWorker) publishResult(ctx context.Context, event *domain.ParcelProcessedEvent) {
	if err := w.streamRepo.PublishToStream(ctx, domain.StreamParcelProcessed, event); err != nil {
		w.Logger().Error("Failed to publish processed event",
			zap.String("upload_id", event.UploadID.String()),
			zap.Error(err))
	}
}
