// Package notifier delivers nudge decisions to the user and keeps track of
// nudges that are scheduled but not yet delivered.
package notifier

import (
	"context"

	"github.com/julianstephens/habitnudge/internal/constants"
	"github.com/julianstephens/habitnudge/internal/models"
)

// Notification is a single message ready for delivery.
type Notification struct {
	// NudgeID identifies the nudge history entry this notification belongs to.
	NudgeID  string         `json:"nudge_id"`
	HabitID  string         `json:"habit_id"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Urgency  models.Urgency `json:"urgency"`
	Template string         `json:"template"`
	Sound    bool           `json:"sound"`
}

// Sender delivers notifications.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// FromDecision builds the notification for a nudge decision.
// Critical nudges ask for sound.
func FromDecision(nudgeID string, d models.NudgeDecision) Notification {
	return Notification{
		NudgeID:  nudgeID,
		HabitID:  d.HabitID,
		Title:    constants.AppTitle + " — " + d.HabitName,
		Body:     d.Message,
		Urgency:  d.Urgency,
		Template: d.Template,
		Sound:    d.Urgency == models.UrgencyCritical,
	}
}
