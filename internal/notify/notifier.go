// Package notify buffers transient user notifications until the browser
// collects them.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sports-central-api/internal/models"
)

// DefaultCapacity bounds how many undelivered notifications are kept
const DefaultCapacity = 50

// Notifier is a bounded queue of notifications. When full, the oldest
// notification is dropped.
type Notifier struct {
	mu       sync.Mutex
	items    []models.Notification
	capacity int
	now      func() time.Time
	log      zerolog.Logger
}

// New creates a Notifier holding at most capacity undelivered notifications
func New(capacity int, log zerolog.Logger) *Notifier {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Notifier{
		items:    make([]models.Notification, 0, capacity),
		capacity: capacity,
		now:      time.Now,
		log:      log.With().Str("component", "notifier").Logger(),
	}
}

// Success queues a success notification
func (n *Notifier) Success(message string) {
	n.push(models.NotificationSuccess, message)
}

// Error queues an error notification
func (n *Notifier) Error(message string) {
	n.push(models.NotificationError, message)
}

// Info queues an informational notification
func (n *Notifier) Info(message string) {
	n.push(models.NotificationInfo, message)
}

func (n *Notifier) push(level models.NotificationLevel, message string) {
	item := models.Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: n.now(),
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.items) == n.capacity {
		n.log.Debug().Str("dropped", n.items[0].Message).Msg("Notification queue full")
		n.items = append(n.items[:0], n.items[1:]...)
	}
	n.items = append(n.items, item)
}

// Drain returns all pending notifications in arrival order and empties the queue
func (n *Notifier) Drain() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]models.Notification, len(n.items))
	copy(out, n.items)
	n.items = n.items[:0]
	return out
}

// Pending returns the number of undelivered notifications
func (n *Notifier) Pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.items)
}
