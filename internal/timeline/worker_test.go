package timeline

import (
	"context"
	"sync"
	"testing"

	"github.com/litepay/litepay/internal/models"
)

type memoryStore struct {
	mu     sync.Mutex
	events []models.TimelineEvent
}

func (m *memoryStore) SaveTimelineEvent(_ context.Context, event *models.TimelineEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return nil
}

func (m *memoryStore) saved() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func TestWorkerPersistsRecordedEvents(t *testing.T) {
	store := &memoryStore{}
	worker := NewWorker(store, 8)
	worker.Start()

	for i := 0; i < 5; i++ {
		worker.Record(models.TimelineEvent{
			UserID: "user-1",
			Type:   models.EventExpenseAdded,
		})
	}

	worker.Shutdown()

	if got := store.saved(); got != 5 {
		t.Errorf("Expected 5 events persisted, got %d", got)
	}
}

func TestWorkerDropsWhenBufferFull(t *testing.T) {
	store := &memoryStore{}
	// Never started: the buffer only drains on shutdown.
	worker := NewWorker(store, 2)

	for i := 0; i < 10; i++ {
		worker.Record(models.TimelineEvent{Type: models.EventGroupCreated})
	}

	worker.Start()
	worker.Shutdown()

	if got := store.saved(); got != 2 {
		t.Errorf("Expected only the buffered 2 events, got %d", got)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		eventType models.EventType
		want      string
	}{
		{models.EventExpenseAdded, `Alice added the expense "Rent"`},
		{models.EventExpenseUpdated, `Alice updated the expense "Rent"`},
		{models.EventExpenseDeleted, `Alice deleted the expense "Rent"`},
		{models.EventGroupCreated, `Alice created the group "Rent"`},
		{models.EventMemberAdded, `Alice joined "Rent"`},
		{models.EventMemberRemoved, `Alice left "Rent"`},
		{models.EventInvitationAccepted, `Alice accepted an invitation to "Rent"`},
		{models.EventType("unknown"), ""},
	}

	for _, tt := range tests {
		if got := Describe(tt.eventType, "Alice", "Rent"); got != tt.want {
			t.Errorf("Describe(%s) = %q, want %q", tt.eventType, got, tt.want)
		}
	}
}
