// Package config loads the TOML configuration file.
package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/julianstephens/habitnudge/internal/errors"
	"github.com/julianstephens/habitnudge/internal/models"
	"github.com/julianstephens/habitnudge/internal/nudge"
	"github.com/julianstephens/habitnudge/internal/utils"
)

const (
	SenderTray   = "tray"
	SenderStdout = "stdout"
)

// FileConfig represents the TOML configuration file. Unset keys are nil and
// fall back to defaults.
type FileConfig struct {
	Nudge     NudgeConfig     `toml:"nudge"`
	Profile   ProfileConfig   `toml:"profile"`
	Wellbeing WellbeingConfig `toml:"wellbeing"`
	Runner    RunnerConfig    `toml:"runner"`
	Notify    NotifyConfig    `toml:"notify"`
}

type NudgeConfig struct {
	MaxPerDay                   *int      `toml:"max_per_day"`
	Cooldown                    *Duration `toml:"cooldown"`
	DismissedCooldownMultiplier *float64  `toml:"dismissed_cooldown_multiplier"`
	GentleThreshold             *float64  `toml:"gentle_threshold"`
	ModerateThreshold           *float64  `toml:"moderate_threshold"`
	MinUrgency                  *float64  `toml:"min_urgency"`
	QuietHoursStart             *int      `toml:"quiet_hours_start"`
	QuietHoursEnd               *int      `toml:"quiet_hours_end"`
	// Templates is a path to a JSON template file replacing the built-in set.
	Templates *string `toml:"templates"`
	Seed      *uint64 `toml:"seed"`
}

type ProfileConfig struct {
	UserID              *string  `toml:"user_id"`
	UserName            *string  `toml:"user_name"`
	PreferredTone       *string  `toml:"preferred_tone"`
	AuthorityResistance *float64 `toml:"authority_resistance"`
	SelfEfficacy        *float64 `toml:"self_efficacy"`
}

type WellbeingConfig struct {
	CognitiveReadiness *float64 `toml:"cognitive_readiness"`
	SleepScore         *float64 `toml:"sleep_score"`
	StressLevel        *float64 `toml:"stress_level"`
}

type RunnerConfig struct {
	Interval *Duration `toml:"interval"`
	Timezone *string   `toml:"timezone"`
}

type NotifyConfig struct {
	Sender *string `toml:"sender"`
	DryRun *bool   `toml:"dry_run"`
}

// Duration is a time.Duration written as a Go duration string ("2h30m").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Load reads a TOML config from the given path. Missing file is not an error.
func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("%w: unknown key %q", apperrors.ErrInvalidConfig, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// NudgePolicy overlays the [nudge] section on nudge.DefaultConfig.
func (c FileConfig) NudgePolicy() nudge.Config {
	p := nudge.DefaultConfig()
	n := c.Nudge
	if n.MaxPerDay != nil {
		p.MaxNudgesPerDay = *n.MaxPerDay
	}
	if n.Cooldown != nil {
		p.Cooldown = n.Cooldown.Duration
	}
	if n.DismissedCooldownMultiplier != nil {
		p.DismissedCooldownMultiplier = *n.DismissedCooldownMultiplier
	}
	if n.GentleThreshold != nil {
		p.GentleThreshold = *n.GentleThreshold
	}
	if n.ModerateThreshold != nil {
		p.ModerateThreshold = *n.ModerateThreshold
	}
	if n.MinUrgency != nil {
		p.MinUrgency = *n.MinUrgency
	}
	if n.QuietHoursStart != nil {
		p.QuietHoursStart = *n.QuietHoursStart
	}
	if n.QuietHoursEnd != nil {
		p.QuietHoursEnd = *n.QuietHoursEnd
	}
	return p
}

func (c FileConfig) UserProfile() nudge.Profile {
	p := nudge.Profile{
		AuthorityResistance: c.Profile.AuthorityResistance,
		SelfEfficacy:        c.Profile.SelfEfficacy,
	}
	if c.Profile.UserName != nil {
		p.UserName = *c.Profile.UserName
	}
	if c.Profile.PreferredTone != nil {
		p.PreferredTone = models.Tone(*c.Profile.PreferredTone)
	}
	return p
}

func (c FileConfig) UserID() string {
	if c.Profile.UserID != nil {
		return *c.Profile.UserID
	}
	return ""
}

func (c FileConfig) WellbeingSignals() nudge.Wellbeing {
	return nudge.Wellbeing{
		CognitiveReadiness: c.Wellbeing.CognitiveReadiness,
		SleepScore:         c.Wellbeing.SleepScore,
		StressLevel:        c.Wellbeing.StressLevel,
	}
}

// Interval returns the configured evaluation interval, or zero when unset.
func (c FileConfig) Interval() time.Duration {
	if c.Runner.Interval != nil {
		return c.Runner.Interval.Duration
	}
	return 0
}

func (c FileConfig) Timezone() string {
	if c.Runner.Timezone != nil {
		return *c.Runner.Timezone
	}
	return "Local"
}

func (c FileConfig) Sender() string {
	if c.Notify.Sender != nil {
		return *c.Notify.Sender
	}
	return SenderTray
}

func (c FileConfig) DryRun() bool {
	return c.Notify.DryRun != nil && *c.Notify.DryRun
}

// Validate rejects out-of-range values. Wellbeing signals are checked here
// because the urgency scorer trusts them.
func (c FileConfig) Validate() error {
	if err := c.NudgePolicy().Validate(); err != nil {
		return err
	}
	if c.Nudge.Templates != nil && *c.Nudge.Templates == "" {
		return fmt.Errorf("%w: nudge.templates is empty", apperrors.ErrInvalidConfig)
	}

	if t := c.Profile.PreferredTone; t != nil && !models.Tone(*t).Valid() {
		return fmt.Errorf("%w: unknown preferred_tone %q", apperrors.ErrInvalidConfig, *t)
	}
	checks := []struct {
		name     string
		v        *float64
		min, max float64
	}{
		{"profile.authority_resistance", c.Profile.AuthorityResistance, 0, 1},
		{"profile.self_efficacy", c.Profile.SelfEfficacy, 0, 1},
		{"wellbeing.cognitive_readiness", c.Wellbeing.CognitiveReadiness, 0, 100},
		{"wellbeing.sleep_score", c.Wellbeing.SleepScore, 0, 100},
		{"wellbeing.stress_level", c.Wellbeing.StressLevel, 1, 5},
	}
	for _, ch := range checks {
		if ch.v != nil && (*ch.v < ch.min || *ch.v > ch.max) {
			return fmt.Errorf("%w: %s must be between %g and %g, got %g", apperrors.ErrInvalidConfig, ch.name, ch.min, ch.max, *ch.v)
		}
	}

	if c.Runner.Interval != nil && c.Runner.Interval.Duration < time.Second {
		return fmt.Errorf("%w: runner.interval must be at least 1s", apperrors.ErrInvalidConfig)
	}
	if c.Runner.Timezone != nil && !utils.ValidateTimezone(*c.Runner.Timezone) {
		return fmt.Errorf("%w: unknown timezone %q", apperrors.ErrInvalidConfig, *c.Runner.Timezone)
	}
	if s := c.Notify.Sender; s != nil && *s != SenderTray && *s != SenderStdout {
		return fmt.Errorf("%w: notify.sender must be %q or %q", apperrors.ErrInvalidConfig, SenderTray, SenderStdout)
	}
	return nil
}

// Encode writes the effective configuration, defaults filled in, as TOML.
func (c FileConfig) Encode(w io.Writer) error {
	p := c.NudgePolicy()
	eff := FileConfig{
		Nudge: NudgeConfig{
			MaxPerDay:                   &p.MaxNudgesPerDay,
			Cooldown:                    &Duration{p.Cooldown},
			DismissedCooldownMultiplier: &p.DismissedCooldownMultiplier,
			GentleThreshold:             &p.GentleThreshold,
			ModerateThreshold:           &p.ModerateThreshold,
			MinUrgency:                  &p.MinUrgency,
			QuietHoursStart:             &p.QuietHoursStart,
			QuietHoursEnd:               &p.QuietHoursEnd,
			Templates:                   c.Nudge.Templates,
			Seed:                        c.Nudge.Seed,
		},
		Profile:   c.Profile,
		Wellbeing: c.Wellbeing,
		Runner:    c.Runner,
		Notify:    c.Notify,
	}
	return toml.NewEncoder(w).Encode(eff)
}
