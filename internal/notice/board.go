// Package notice turns failed remote operations into dismissible notices.
package notice

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrNoticeNotFound = errors.New("notice not found")

// MaxNotices bounds how many undismissed notices a board keeps; the oldest
// are dropped first.
const MaxNotices = 50

type Notice struct {
	ID        string    `json:"id"`
	Operation string    `json:"operation"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type Board struct {
	logger *zap.SugaredLogger

	mu      sync.Mutex
	notices []Notice
}

func NewBoard(logger *zap.SugaredLogger) *Board {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Board{logger: logger}
}

// Post records a failed operation and logs it.
func (b *Board) Post(operation string, err error) Notice {
	n := Notice{
		ID:        uuid.NewString(),
		Operation: operation,
		Message:   err.Error(),
		CreatedAt: time.Now().UTC(),
	}
	b.logger.Errorw("operation failed", "operation", operation, "notice_id", n.ID, "error", err)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
	if len(b.notices) > MaxNotices {
		b.notices = append([]Notice(nil), b.notices[len(b.notices)-MaxNotices:]...)
	}
	return n
}

func (b *Board) List() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Notice{}, b.notices...)
}

func (b *Board) Dismiss(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, n := range b.notices {
		if n.ID == id {
			b.notices = append(b.notices[:i], b.notices[i+1:]...)
			return nil
		}
	}
	return ErrNoticeNotFound
}
