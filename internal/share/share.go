package share

import (
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/spigell/pathfinder/internal/report"
)

// DefaultCopiedTTL is how long the copied acknowledgment stays visible.
const DefaultCopiedTTL = 2 * time.Second

// Sharer copies the report summary to the system clipboard.
type Sharer struct {
	mu     sync.Mutex
	copied bool
	// shares counts successful copies so an outdated timer cannot clear a newer flag.
	shares int
	ttl    time.Duration
	logger *zap.Logger
	// Write puts text on the clipboard.
	Write func(text string) error
}

func New(ttl time.Duration, log *zap.Logger) *Sharer {
	if ttl <= 0 {
		ttl = DefaultCopiedTTL
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Sharer{
		ttl:    ttl,
		logger: log,
		Write:  clipboard.WriteAll,
	}
}

// Share places the summary of r on the clipboard and raises the copied flag.
// A clipboard failure is logged and otherwise ignored: the flag is left untouched
// and false is returned.
func (s *Sharer) Share(r *report.Report) bool {
	text := report.ShareSummary(r)
	if text == "" {
		return false
	}

	if err := s.Write(text); err != nil {
		s.logger.Warn("copying report summary to clipboard", zap.Error(err))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.copied = true
	s.shares++
	current := s.shares
	time.AfterFunc(s.ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.shares == current {
			s.copied = false
		}
	})

	s.logger.Debug("report summary copied", zap.Int("length", len(text)))
	return true
}

// Copied reports whether a summary was copied within the last TTL.
func (s *Sharer) Copied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copied
}
