package journal

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/calm-companion/backend/internal/model/journal"
	"github.com/zhouzirui/calm-companion/backend/internal/service/schedule"
)

const (
	baseFeedbackDelay   = 1500 * time.Millisecond
	maxFeedbackJitterMS = 1000
	// DefaultRecentLimit is how many entries the journal page shows.
	DefaultRecentLimit = 3
)

// Options carries the injectable collaborators.
type Options struct {
	Scheduler schedule.Scheduler
	Picker    schedule.Picker
	Now       func() time.Time
}

// Service keeps journal entries for the lifetime of the process only.
type Service struct {
	mu         sync.RWMutex
	entries    []*journal.Entry // newest first
	latest     string
	generation int
	pending    bool

	scheduler schedule.Scheduler
	picker    schedule.Picker
	now       func() time.Time
}

// NewService creates an empty journal.
func NewService(opts Options) *Service {
	if opts.Scheduler == nil {
		opts.Scheduler = schedule.TimerScheduler{}
	}
	if opts.Picker == nil {
		opts.Picker = schedule.NewRandPicker()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		scheduler: opts.Scheduler,
		picker:    opts.Picker,
		now:       opts.Now,
	}
}

// Save records an entry and schedules its feedback. Blank text is ignored.
func (s *Service) Save(_ context.Context, text string) (*journal.Entry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	entry := &journal.Entry{
		ID:        uuid.NewString(),
		CreatedAt: s.now().UTC(),
		Content:   text,
	}

	s.mu.Lock()
	s.entries = append([]*journal.Entry{entry}, s.entries...)
	s.generation++
	gen := s.generation
	s.pending = true
	s.mu.Unlock()

	delay := FeedbackDelay(s.picker)
	s.scheduler.After(delay, func() {
		s.deliverFeedback(entry.ID, gen, text)
	})

	log.Printf("[journal] saved entry=%s theme=%s", entry.ID, ThemeFor(text))
	out := *entry
	return &out, nil
}

// FeedbackDelay returns the simulated review time, 1.5s to 2.5s.
func FeedbackDelay(picker schedule.Picker) time.Duration {
	return baseFeedbackDelay + time.Duration(picker.IntN(maxFeedbackJitterMS+1))*time.Millisecond
}

// SelectFeedback picks a reply from the pool of the entry's theme.
func (s *Service) SelectFeedback(text string) string {
	pool := feedbackPools[ThemeFor(text)]
	return pool[s.picker.IntN(len(pool))]
}

func (s *Service) deliverFeedback(entryID string, gen int, text string) {
	feedback := s.SelectFeedback(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == entryID {
			e.Feedback = feedback
			break
		}
	}
	// An older entry's feedback must not replace a newer one on screen.
	if gen == s.generation {
		s.latest = feedback
		s.pending = false
	}
}

// Recent returns up to limit entries, newest first. limit <= 0 uses the default.
func (s *Service) Recent(limit int) []journal.Entry {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit > len(s.entries) {
		limit = len(s.entries)
	}
	out := make([]journal.Entry, 0, limit)
	for _, e := range s.entries[:limit] {
		out = append(out, *e)
	}
	return out
}

// Count returns how many entries were saved since start-up.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// LatestFeedback returns the feedback for the most recent save, if it arrived.
func (s *Service) LatestFeedback() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.latest != "" && !s.pending
}

// Pending reports whether feedback for the latest save is still being prepared.
func (s *Service) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}
