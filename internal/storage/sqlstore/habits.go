package sqlstore

import (
	"fmt"
	"time"

	"github.com/julianstephens/habitnudge/internal/models"
)

const habitColumns = `id, user_id, name, display_name, category, target_count, target_unit,
	preferred_time, days_of_week, created_at, active`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var category, preferred, days, createdAt string

	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.DisplayName, &category, &h.TargetCount,
		&h.TargetUnit, &preferred, &days, &createdAt, &h.Active)
	if err != nil {
		return models.Habit{}, err
	}

	h.Category = models.Category(category)
	h.PreferredTime = models.PreferredTime(preferred)
	if h.DaysOfWeek, err = decodeDays(days); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse days_of_week for habit %s: %w", h.ID, err)
	}
	if h.CreatedAt, err = parseTime(createdAt); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
	}
	return h, nil
}

func (s *Store) AddHabit(habit models.Habit) error {
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}
	if err := habit.Validate(); err != nil {
		return err
	}

	_, err := s.exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.UserID, habit.Name, habit.DisplayName, string(habit.Category),
		habit.TargetCount, habit.TargetUnit, string(habit.PreferredTime),
		encodeDays(habit.DaysOfWeek), formatTime(habit.CreatedAt), habit.Active)
	if err != nil {
		return fmt.Errorf("failed to add habit %s: %w", habit.Name, err)
	}
	return nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	h, err := scanHabit(s.queryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
	if err != nil {
		return models.Habit{}, notFound(err, "habit", id)
	}
	return h, nil
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	h, err := scanHabit(s.queryRow(`SELECT `+habitColumns+` FROM habits WHERE name = ?`, name))
	if err != nil {
		return models.Habit{}, notFound(err, "habit", name)
	}
	return h, nil
}

func (s *Store) GetAllHabits(includeInactive bool) ([]models.Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	var args []any
	if !includeInactive {
		query += ` WHERE active = ?`
		args = append(args, true)
	}
	query += ` ORDER BY created_at, name`

	rows, err := s.query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	if err := habit.Validate(); err != nil {
		return err
	}

	res, err := s.exec(`
		UPDATE habits SET
			user_id = ?, name = ?, display_name = ?, category = ?, target_count = ?,
			target_unit = ?, preferred_time = ?, days_of_week = ?, active = ?
		WHERE id = ?`,
		habit.UserID, habit.Name, habit.DisplayName, string(habit.Category), habit.TargetCount,
		habit.TargetUnit, string(habit.PreferredTime), encodeDays(habit.DaysOfWeek), habit.Active,
		habit.ID)
	if err != nil {
		return fmt.Errorf("failed to update habit %s: %w", habit.ID, err)
	}
	return requireAffected(res, "habit", habit.ID)
}

func (s *Store) DeactivateHabit(id string) error {
	res, err := s.exec(`UPDATE habits SET active = ? WHERE id = ?`, false, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate habit %s: %w", id, err)
	}
	return requireAffected(res, "habit", id)
}

func (s *Store) DeleteHabit(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, q := range []string{
		`DELETE FROM nudge_history WHERE habit_id = ?`,
		`DELETE FROM habit_logs WHERE habit_id = ?`,
	} {
		if _, err := tx.Exec(s.rebind(q), id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to delete habit %s: %w", id, err)
		}
	}

	res, err := tx.Exec(s.rebind(`DELETE FROM habits WHERE id = ?`), id)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete habit %s: %w", id, err)
	}
	if err := requireAffected(res, "habit", id); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
