package notifier

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/habitnudge/internal/clock"
	"github.com/julianstephens/habitnudge/internal/constants"
	"github.com/julianstephens/habitnudge/internal/models"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Notification
	err  error
	done chan struct{}
}

func (r *recordingSender) Send(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, n)
	if r.done != nil {
		r.done <- struct{}{}
	}
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

var schedNow = time.Date(2026, 3, 11, 18, 0, 0, 0, time.UTC)

func decision(id string, u models.Urgency) models.NudgeDecision {
	return models.NudgeDecision{
		ShouldNudge: true,
		HabitID:     id,
		HabitName:   "Habit " + id,
		Urgency:     u,
		Template:    string(u) + "_supportive_1",
		Message:     "go do " + id,
	}
}

func TestFromDecision(t *testing.T) {
	n := FromDecision("tok", decision("h1", models.UrgencyModerate))
	if n.Title != constants.AppTitle+" — Habit h1" {
		t.Errorf("Title = %q", n.Title)
	}
	if n.Sound {
		t.Error("moderate nudge requested sound")
	}
	if n.NudgeID != "tok" || n.HabitID != "h1" || n.Body != "go do h1" {
		t.Errorf("notification = %+v", n)
	}
	if !FromDecision("tok", decision("h1", models.UrgencyCritical)).Sound {
		t.Error("critical nudge did not request sound")
	}
}

func TestScheduleImmediate(t *testing.T) {
	rec := &recordingSender{}
	s := NewScheduler(rec, clock.Fixed(schedNow))

	token, err := s.Schedule(context.Background(), decision("h1", models.UrgencyGentle), 0)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	if token == "" {
		t.Error("Schedule() returned empty token")
	}
	if rec.count() != 1 || rec.sent[0].NudgeID != token {
		t.Errorf("sent = %+v", rec.sent)
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d after immediate send", s.Count())
	}
}

func TestScheduleSendFailure(t *testing.T) {
	rec := &recordingSender{err: errors.New("tray offline")}
	s := NewScheduler(rec, clock.Fixed(schedNow))

	token, err := s.Schedule(context.Background(), decision("h1", models.UrgencyGentle), 0)
	if err == nil {
		t.Fatal("Schedule() succeeded with failing sender")
	}
	if token != "" {
		t.Errorf("token = %q on failure", token)
	}
}

func TestScheduleRequiresHabit(t *testing.T) {
	s := NewScheduler(&recordingSender{}, clock.Fixed(schedNow))
	if _, err := s.Schedule(context.Background(), models.NudgeDecision{}, 0); err == nil {
		t.Error("Schedule() accepted a decision without habit id")
	}
}

func TestScheduleDelayed(t *testing.T) {
	rec := &recordingSender{done: make(chan struct{}, 1)}
	s := NewScheduler(rec, clock.Fixed(schedNow))

	token, err := s.Schedule(context.Background(), decision("h1", models.UrgencyModerate), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	next, ok := s.Next()
	if !ok || next.Token != token || !next.FireAt.Equal(schedNow.Add(10*time.Millisecond)) {
		t.Errorf("Next() = %+v, %v", next, ok)
	}

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("delayed nudge never fired")
	}
	if rec.sent[0].NudgeID != token {
		t.Errorf("fired token = %q, want %q", rec.sent[0].NudgeID, token)
	}
	deadline := time.Now().Add(time.Second)
	for s.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d after firing", s.Count())
	}
}

func TestScheduleReplacesAndCancels(t *testing.T) {
	rec := &recordingSender{}
	s := NewScheduler(rec, clock.Fixed(schedNow))
	ctx := context.Background()

	first, _ := s.Schedule(ctx, decision("h1", models.UrgencyGentle), time.Hour)
	second, _ := s.Schedule(ctx, decision("h1", models.UrgencyCritical), 2*time.Hour)
	if _, err := s.Schedule(ctx, decision("h2", models.UrgencyGentle), 30*time.Minute); err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Error("tokens are not unique")
	}
	if s.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", s.Count())
	}

	next, _ := s.Next()
	if next.HabitID != "h2" {
		t.Errorf("Next() = %s, want h2", next.HabitID)
	}

	if !s.Cancel("h2") {
		t.Error("Cancel(h2) = false")
	}
	if s.Cancel("h2") {
		t.Error("second Cancel(h2) = true")
	}
	next, _ = s.Next()
	if next.Token != second || next.Notification.Urgency != models.UrgencyCritical {
		t.Errorf("Next() = %+v, want replacement for h1", next)
	}

	if n := s.CancelAll(); n != 1 {
		t.Errorf("CancelAll() = %d, want 1", n)
	}
	if _, ok := s.Next(); ok {
		t.Error("Next() found a nudge after CancelAll")
	}
	if rec.count() != 0 {
		t.Errorf("cancelled nudges were sent: %+v", rec.sent)
	}
}

func TestWriterSender(t *testing.T) {
	var buf bytes.Buffer
	n := FromDecision("tok", decision("h1", models.UrgencyCritical))
	if err := NewWriterSender(&buf).Send(context.Background(), n); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"[critical]", "(sound)", "Habit h1", "go do h1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
