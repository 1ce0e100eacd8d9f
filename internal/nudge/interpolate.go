package nudge

import (
	"math"
	"strconv"
	"strings"

	"github.com/julianstephens/habitnudge/internal/models"
)

// Interpolate replaces every {key} token whose key is present in vars.
// Unknown tokens are left as-is. Substituted values are not rescanned.
func Interpolate(template string, vars map[string]string) string {
	var b strings.Builder
	b.Grow(len(template))

	for i := 0; i < len(template); {
		if template[i] != '{' {
			b.WriteByte(template[i])
			i++
			continue
		}
		end := strings.IndexByte(template[i+1:], '}')
		if end >= 0 {
			if v, ok := vars[template[i+1:i+1+end]]; ok {
				b.WriteString(v)
				i += end + 2
				continue
			}
		}
		b.WriteByte('{')
		i++
	}
	return b.String()
}

// Vars builds the placeholder values for a habit's nudge message.
func Vars(userName string, h models.HabitWithProgress) map[string]string {
	return map[string]string{
		"name":        userName,
		"habit_name":  h.Habit.Label(),
		"streak":      strconv.Itoa(h.CurrentStreak),
		"progress":    strconv.Itoa(int(math.Round(h.TodayProgress * 100))),
		"target":      strconv.FormatFloat(h.TargetCount, 'f', -1, 64),
		"target_unit": h.TargetUnit,
	}
}
