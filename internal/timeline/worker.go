// Package timeline records activity-feed events off the request path.
// Writes are fire-and-forget: a full buffer drops the event rather than
// slowing the request down.
package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/litepay/litepay/internal/models"
)

// EventStore is the persistence surface the worker needs.
type EventStore interface {
	SaveTimelineEvent(ctx context.Context, event *models.TimelineEvent) error
}

// Worker drains timeline events from a buffered channel into the store.
type Worker struct {
	events chan models.TimelineEvent
	store  EventStore
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewWorker creates a worker with the given buffer size.
func NewWorker(store EventStore, bufferSize int) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		events: make(chan models.TimelineEvent, bufferSize),
		store:  store,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the drain goroutine.
func (w *Worker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.ctx.Done():
				slog.Info("draining timeline events before shutdown", "remaining", len(w.events))
				for len(w.events) > 0 {
					event := <-w.events
					if err := w.store.SaveTimelineEvent(context.Background(), &event); err != nil {
						slog.Error("failed to save timeline event during shutdown", "error", err, "type", event.Type)
					}
				}
				return
			case event := <-w.events:
				if err := w.store.SaveTimelineEvent(w.ctx, &event); err != nil {
					slog.Error("failed to save timeline event", "error", err, "type", event.Type)
				}
			}
		}
	}()
}

// Record queues an event for persistence. Never blocks; if the buffer is
// full the event is dropped with a warning.
func (w *Worker) Record(event models.TimelineEvent) {
	select {
	case w.events <- event:
	default:
		slog.Warn("timeline buffer full, dropping event", "type", event.Type)
	}
}

// Shutdown stops the worker after draining queued events.
func (w *Worker) Shutdown() {
	w.cancel()
	w.wg.Wait()
	close(w.events)
}

// Describe renders the human-readable summary for an event type.
func Describe(eventType models.EventType, actorName, subject string) string {
	switch eventType {
	case models.EventExpenseAdded:
		return fmt.Sprintf("%s added the expense %q", actorName, subject)
	case models.EventExpenseUpdated:
		return fmt.Sprintf("%s updated the expense %q", actorName, subject)
	case models.EventExpenseDeleted:
		return fmt.Sprintf("%s deleted the expense %q", actorName, subject)
	case models.EventGroupCreated:
		return fmt.Sprintf("%s created the group %q", actorName, subject)
	case models.EventMemberAdded:
		return fmt.Sprintf("%s joined %q", actorName, subject)
	case models.EventMemberRemoved:
		return fmt.Sprintf("%s left %q", actorName, subject)
	case models.EventInvitationAccepted:
		return fmt.Sprintf("%s accepted an invitation to %q", actorName, subject)
	}
	return ""
}
