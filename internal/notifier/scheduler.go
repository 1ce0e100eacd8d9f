package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitnudge/internal/clock"
	"github.com/julianstephens/habitnudge/internal/logger"
	"github.com/julianstephens/habitnudge/internal/models"
)

// ScheduledNudge is a pending delivery.
type ScheduledNudge struct {
	Token        string
	HabitID      string
	FireAt       time.Time
	Notification Notification

	timer *time.Timer
}

// Scheduler delivers nudge decisions through a Sender, either right away or
// after a delay. At most one nudge is pending per habit.
type Scheduler struct {
	mu      sync.Mutex
	sender  Sender
	clock   clock.Clock
	pending map[string]*ScheduledNudge
}

func NewScheduler(sender Sender, clk clock.Clock) *Scheduler {
	return &Scheduler{
		sender:  sender,
		clock:   clk,
		pending: make(map[string]*ScheduledNudge),
	}
}

// Schedule delivers d after delay and returns a token identifying the
// delivery. A delay of zero or less sends immediately; a send failure is
// returned and no token is issued. Scheduling a habit replaces any nudge
// already pending for it.
func (s *Scheduler) Schedule(ctx context.Context, d models.NudgeDecision, delay time.Duration) (string, error) {
	if d.HabitID == "" {
		return "", errors.New("cannot schedule a nudge without a habit id")
	}

	token := uuid.NewString()
	n := FromDecision(token, d)

	if delay <= 0 {
		s.Cancel(d.HabitID)
		if err := s.sender.Send(ctx, n); err != nil {
			return "", err
		}
		return token, nil
	}

	entry := &ScheduledNudge{
		Token:        token,
		HabitID:      d.HabitID,
		FireAt:       s.clock.Now().Add(delay),
		Notification: n,
	}
	bg := context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.pending[d.HabitID]; ok {
		prev.timer.Stop()
	}
	entry.timer = time.AfterFunc(delay, func() { s.fire(bg, entry) })
	s.pending[d.HabitID] = entry
	return token, nil
}

func (s *Scheduler) fire(ctx context.Context, entry *ScheduledNudge) {
	s.mu.Lock()
	current, ok := s.pending[entry.HabitID]
	if !ok || current.Token != entry.Token {
		s.mu.Unlock()
		return
	}
	delete(s.pending, entry.HabitID)
	s.mu.Unlock()

	if err := s.sender.Send(ctx, entry.Notification); err != nil {
		logger.Warn("Failed to deliver scheduled nudge", "habit", entry.HabitID, "error", err)
	}
}

// Cancel drops the pending nudge for habitID. It reports whether one was pending.
func (s *Scheduler) Cancel(habitID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[habitID]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(s.pending, habitID)
	return true
}

// CancelAll drops every pending nudge and returns how many were dropped.
func (s *Scheduler) CancelAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.pending)
	for id, entry := range s.pending {
		entry.timer.Stop()
		delete(s.pending, id)
	}
	return n
}

// Next returns the pending nudge that fires first.
func (s *Scheduler) Next() (ScheduledNudge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next *ScheduledNudge
	for _, entry := range s.pending {
		if next == nil || entry.FireAt.Before(next.FireAt) {
			next = entry
		}
	}
	if next == nil {
		return ScheduledNudge{}, false
	}
	out := *next
	out.timer = nil
	return out, true
}

func (s *Scheduler) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
