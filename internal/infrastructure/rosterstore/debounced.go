package rosterstore

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/team-sheet/internal/domain/roster"
	"github.com/riskibarqy/team-sheet/internal/platform/debounce"
	"github.com/riskibarqy/team-sheet/internal/platform/logging"
)

// Debounced defers saves to next until no new snapshot has arrived for the
// quiet window, then writes only the latest one.
type Debounced struct {
	next   roster.Store
	writer *debounce.Writer[roster.Snapshot]
}

func NewDebounced(next roster.Store, delay time.Duration, logger *logging.Logger) *Debounced {
	if logger == nil {
		logger = logging.Default()
	}

	writer := debounce.New(delay, next.Save, debounce.WithErrorHandler(func(err error) {
		logger.Error("deferred roster save failed", "error", err)
	}))
	return &Debounced{next: next, writer: writer}
}

func (s *Debounced) Load(ctx context.Context) (roster.Snapshot, bool, error) {
	return s.next.Load(ctx)
}

// Save only schedules the write; write errors surface from Flush or Close.
func (s *Debounced) Save(_ context.Context, snapshot roster.Snapshot) error {
	if err := s.writer.Schedule(snapshot); err != nil {
		return crerr.Wrap(err, "schedule roster save")
	}
	return nil
}

func (s *Debounced) Flush(ctx context.Context) error {
	return s.writer.Flush(ctx)
}

func (s *Debounced) Close(ctx context.Context) error {
	return s.writer.Close(ctx)
}

func (s *Debounced) Pending() bool {
	return s.writer.Pending()
}
