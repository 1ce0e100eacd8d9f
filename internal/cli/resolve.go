package cli

import (
	"fmt"

	"github.com/julianstephens/habitnudge/internal/models"
	"github.com/julianstephens/habitnudge/internal/storage"
)

// FindHabit looks a habit up by name, falling back to its id.
func (c *Context) FindHabit(ref string) (models.Habit, error) {
	h, err := c.Store.GetHabitByName(ref)
	if err == nil {
		return h, nil
	}
	if h, idErr := c.Store.GetHabit(ref); idErr == nil {
		return h, nil
	}
	return models.Habit{}, fmt.Errorf("habit %q not found: %w", ref, storage.ErrNotFound)
}
