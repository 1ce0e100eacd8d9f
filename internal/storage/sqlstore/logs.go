package sqlstore

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitnudge/internal/models"
)

const logColumns = `id, habit_id, date, count, completed_at, nudge_id, notes`

func scanLog(row scanner) (models.HabitLog, error) {
	var l models.HabitLog
	var completedAt string
	if err := row.Scan(&l.ID, &l.HabitID, &l.Date, &l.Count, &completedAt, &l.NudgeID, &l.Notes); err != nil {
		return models.HabitLog{}, err
	}
	t, err := parseTime(completedAt)
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to parse completed_at for log %s: %w", l.ID, err)
	}
	l.CompletedAt = t
	return l, nil
}

func (s *Store) AddHabitLog(log models.HabitLog) error {
	if log.HabitID == "" {
		return fmt.Errorf("habit log requires a habit id")
	}
	if log.Date == "" {
		return fmt.Errorf("habit log requires a date")
	}
	if log.Count == 0 {
		log.Count = 1
	}
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now()
	}

	_, err := s.exec(`
		INSERT INTO habit_logs (`+logColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		newID(log.ID), log.HabitID, log.Date, log.Count, formatTime(log.CompletedAt), log.NudgeID, log.Notes)
	if err != nil {
		return fmt.Errorf("failed to add log for habit %s: %w", log.HabitID, err)
	}
	return nil
}

func (s *Store) collectLogs(query string, args ...any) ([]models.HabitLog, error) {
	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.HabitLog{}
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) GetHabitLogs(habitID, startDay, endDay string) ([]models.HabitLog, error) {
	return s.collectLogs(`
		SELECT `+logColumns+` FROM habit_logs
		WHERE habit_id = ? AND date >= ? AND date <= ?
		ORDER BY date, completed_at`, habitID, startDay, endDay)
}

func (s *Store) GetLogsSince(startDay string) ([]models.HabitLog, error) {
	return s.collectLogs(`
		SELECT `+logColumns+` FROM habit_logs
		WHERE date >= ?
		ORDER BY date, completed_at`, startDay)
}
