package sqlstore

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitnudge/internal/models"
)

func (s *Store) AddNudge(entry models.NudgeHistoryEntry) error {
	if entry.HabitID == "" {
		return fmt.Errorf("nudge history entry requires a habit id")
	}
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}

	_, err := s.exec(`
		INSERT INTO nudge_history (id, user_id, habit_id, template_used, sent_at, was_acted_upon)
		VALUES (?, ?, ?, ?, ?, ?)`,
		newID(entry.ID), entry.UserID, entry.HabitID, entry.TemplateUsed, formatTime(entry.SentAt), entry.WasActedUpon)
	if err != nil {
		return fmt.Errorf("failed to record nudge for habit %s: %w", entry.HabitID, err)
	}
	return nil
}

func (s *Store) MarkNudgeActedUpon(id string) error {
	res, err := s.exec(`UPDATE nudge_history SET was_acted_upon = ? WHERE id = ?`, true, id)
	if err != nil {
		return fmt.Errorf("failed to acknowledge nudge %s: %w", id, err)
	}
	return requireAffected(res, "nudge", id)
}

func (s *Store) GetNudgesSince(since time.Time) ([]models.NudgeHistoryEntry, error) {
	rows, err := s.query(`
		SELECT id, user_id, habit_id, template_used, sent_at, was_acted_upon
		FROM nudge_history
		WHERE sent_at >= ?
		ORDER BY sent_at DESC, id`, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.NudgeHistoryEntry{}
	for rows.Next() {
		var e models.NudgeHistoryEntry
		var sentAt string
		if err := rows.Scan(&e.ID, &e.UserID, &e.HabitID, &e.TemplateUsed, &sentAt, &e.WasActedUpon); err != nil {
			return nil, err
		}
		if e.SentAt, err = parseTime(sentAt); err != nil {
			return nil, fmt.Errorf("failed to parse sent_at for nudge %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) CountNudgesSince(since time.Time) (int, error) {
	var n int
	err := s.queryRow(`SELECT COUNT(*) FROM nudge_history WHERE sent_at >= ?`, formatTime(since)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count nudges: %w", err)
	}
	return n, nil
}
