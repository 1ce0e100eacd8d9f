package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// WriterSender prints notifications instead of delivering them. It backs dry runs.
type WriterSender struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSender(w io.Writer) *WriterSender {
	return &WriterSender{w: w}
}

func (s *WriterSender) Send(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sound := ""
	if n.Sound {
		sound = " (sound)"
	}
	_, err := fmt.Fprintf(s.w, "[%s]%s %s\n  %s\n", n.Urgency, sound, n.Title, n.Body)
	return err
}
