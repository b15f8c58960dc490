package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// NotifyWorker drains the notification outbox and delivers rendered messages
// through the configured Notifier. Failed deliveries are retried with
// exponential backoff; exhausted tasks are marked failed.
type NotifyWorker struct {
	store        domain.Store
	notifier     domain.Notifier
	retryPolicy  RetryPolicy
	pollInterval time.Duration
	batchSize    int
	logger       zerolog.Logger
}

func NewNotifyWorker(store domain.Store, notifier domain.Notifier, retry RetryPolicy, pollInterval time.Duration, logger *zerolog.Logger) *NotifyWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}

	var log zerolog.Logger
	if logger != nil {
		log = logger.With().Str("component", "notify_worker").Logger()
	}

	return &NotifyWorker{
		store:        store,
		notifier:     notifier,
		retryPolicy:  retry,
		pollInterval: pollInterval,
		batchSize:    20,
		logger:       log,
	}
}

// Run polls the outbox until the context is canceled.
func (w *NotifyWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info().Dur("poll_interval", w.pollInterval).Msg("notify worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("notify worker stopped")
			return
		case <-ticker.C:
			w.ProcessPending(ctx)
		}
	}
}

// ProcessPending handles one batch of due tasks.
func (w *NotifyWorker) ProcessPending(ctx context.Context) {
	tasks, err := w.store.GetPendingNotifyTasks(ctx, w.batchSize)
	if err != nil {
		w.logger.Error().Err(err).Msg("failed to fetch pending notify tasks")
		return
	}

	for _, task := range tasks {
		w.processTask(ctx, task)
	}
}

func (w *NotifyWorker) processTask(ctx context.Context, task models.NotifyTask) {
	text, err := renderMessage(task)
	if err != nil {
		// Непарсящийся payload не станет лучше от повторов.
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("bad notify payload")
		_ = w.store.UpdateNotifyTaskStatus(ctx, task.ID, "failed", err.Error(), nil)
		return
	}

	if err := w.notifier.Notify(ctx, text); err != nil {
		attempt := int(task.RetryCount) + 1
		if attempt >= w.retryPolicy.MaxRetries {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("notify task failed permanently")
			_ = w.store.UpdateNotifyTaskStatus(ctx, task.ID, "failed", err.Error(), nil)
			return
		}
		nextRetry := time.Now().Add(w.retryPolicy.NextDelay(attempt))
		w.logger.Warn().Err(err).Int64("task_id", task.ID).Time("next_retry", nextRetry).Msg("notify task scheduled for retry")
		_ = w.store.UpdateNotifyTaskStatus(ctx, task.ID, "retry", err.Error(), &nextRetry)
		return
	}

	if err := w.store.UpdateNotifyTaskStatus(ctx, task.ID, "completed", "", nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("failed to mark notify task completed")
	}
}

func renderMessage(task models.NotifyTask) (string, error) {
	switch task.TaskType {
	case events.EventBookingCreated, events.EventBookingApproved, events.EventBookingRejected:
		var p events.BookingEventPayload
		if err := json.Unmarshal([]byte(task.Payload), &p); err != nil {
			return "", fmt.Errorf("decode booking payload: %w", err)
		}
		switch task.TaskType {
		case events.EventBookingCreated:
			return fmt.Sprintf("Новая заявка #%d: вещь «%s» (%s — %s), владелец %d",
				p.BookingID, p.ItemName, p.Start.Format("02.01.2006 15:04"), p.End.Format("02.01.2006 15:04"), p.OwnerID), nil
		case events.EventBookingApproved:
			return fmt.Sprintf("Заявка #%d на вещь «%s» подтверждена", p.BookingID, p.ItemName), nil
		default:
			return fmt.Sprintf("Заявка #%d на вещь «%s» отклонена", p.BookingID, p.ItemName), nil
		}
	case events.EventCommentAdded:
		var p events.CommentEventPayload
		if err := json.Unmarshal([]byte(task.Payload), &p); err != nil {
			return "", fmt.Errorf("decode comment payload: %w", err)
		}
		return fmt.Sprintf("Новый отзыв #%d о вещи %d от пользователя %d", p.CommentID, p.ItemID, p.AuthorID), nil
	default:
		return "", fmt.Errorf("unknown task type: %s", task.TaskType)
	}
}
