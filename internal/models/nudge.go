package models

import "time"

type Urgency string

const (
	UrgencyGentle   Urgency = "gentle"
	UrgencyModerate Urgency = "moderate"
	UrgencyCritical Urgency = "critical"
)

// Urgencies lists every urgency level from lowest to highest.
var Urgencies = []Urgency{UrgencyGentle, UrgencyModerate, UrgencyCritical}

// Rank orders urgency levels: critical > moderate > gentle. Unknown levels rank 0.
func (u Urgency) Rank() int {
	switch u {
	case UrgencyGentle:
		return 1
	case UrgencyModerate:
		return 2
	case UrgencyCritical:
		return 3
	default:
		return 0
	}
}

type Tone string

const (
	ToneSupportive Tone = "supportive"
	ToneSharp      Tone = "sharp"
	ToneHumorous   Tone = "humorous"
	ToneChallenge  Tone = "challenge"
)

func (t Tone) Valid() bool {
	switch t {
	case ToneSupportive, ToneSharp, ToneHumorous, ToneChallenge:
		return true
	}
	return false
}

// NudgeHistoryEntry records a nudge that was sent
type NudgeHistoryEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	HabitID      string    `json:"habit_id"`
	TemplateUsed string    `json:"template_used"`
	SentAt       time.Time `json:"sent_at"`
	WasActedUpon bool      `json:"was_acted_upon"`
}

// NudgeDecision is the engine's output for a single habit in one evaluation cycle.
type NudgeDecision struct {
	ShouldNudge bool    `json:"should_nudge"`
	HabitID     string  `json:"habit_id"`
	HabitName   string  `json:"habit_name"`
	Urgency     Urgency `json:"urgency"`
	Score       float64 `json:"score"`
	Template    string  `json:"template"`
	Message     string  `json:"message"`
}
