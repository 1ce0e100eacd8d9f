package nudge

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/julianstephens/habitnudge/internal/constants"
	apperrors "github.com/julianstephens/habitnudge/internal/errors"
	"github.com/julianstephens/habitnudge/internal/models"
)

//go:embed templates.json
var defaultTemplates []byte

// Template is a message template with placeholder tokens such as {name}.
type Template struct {
	ID       string      `json:"id"`
	Tone     models.Tone `json:"tone"`
	Template string      `json:"template"`
}

// Pools holds the templates available for each urgency level.
type Pools map[models.Urgency][]Template

// DefaultPools returns the bundled template catalogue.
func DefaultPools() (Pools, error) {
	return ParsePools(defaultTemplates)
}

// LoadPools reads a template catalogue from a JSON file.
func LoadPools(path string) (Pools, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates file: %w", err)
	}
	return ParsePools(data)
}

// ParsePools decodes and validates a JSON template catalogue keyed by urgency.
func ParsePools(data []byte) (Pools, error) {
	var raw map[models.Urgency][]Template
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	p := Pools(raw)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that every urgency level has at least one well-formed template.
func (p Pools) Validate() error {
	for _, u := range models.Urgencies {
		pool := p[u]
		if len(pool) == 0 {
			return fmt.Errorf("%w: urgency %q", apperrors.ErrEmptyTemplatePool, u)
		}
		for i, t := range pool {
			if t.ID == "" {
				return fmt.Errorf("%w: %s template %d has no id", apperrors.ErrInvalidConfig, u, i)
			}
			if !t.Tone.Valid() {
				return fmt.Errorf("%w: template %s has unknown tone %q", apperrors.ErrInvalidConfig, t.ID, t.Tone)
			}
			if t.Template == "" {
				return fmt.Errorf("%w: template %s is empty", apperrors.ErrInvalidConfig, t.ID)
			}
		}
	}
	return nil
}

// RandSource picks a uniform index in [0, n). *rand.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// NewRand returns a goroutine-safe RandSource. A zero seed draws one at random.
func NewRand(seed uint64) RandSource {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// TemplateContext carries the personalization signals that steer tone.
type TemplateContext struct {
	Urgency             models.Urgency
	PreferredTone       models.Tone
	AuthorityResistance *float64
	SelfEfficacy        *float64
}

// TargetTone resolves the tone a template should have. It starts from the
// preferred tone (supportive when unset); high authority resistance switches
// to humorous and high self-efficacy to challenge, the latter taking priority.
func TargetTone(ctx TemplateContext) models.Tone {
	tone := models.ToneSupportive
	if ctx.PreferredTone != "" {
		tone = ctx.PreferredTone
	}
	if ctx.AuthorityResistance != nil && *ctx.AuthorityResistance > constants.AuthorityResistanceThreshold {
		tone = models.ToneHumorous
	}
	if ctx.SelfEfficacy != nil && *ctx.SelfEfficacy > constants.SelfEfficacyThreshold {
		tone = models.ToneChallenge
	}
	return tone
}

// Selector picks templates from validated pools.
type Selector struct {
	pools Pools
	rng   RandSource
}

// NewSelector validates pools and binds them to rng. A nil rng gets a randomly seeded source.
func NewSelector(pools Pools, rng RandSource) (*Selector, error) {
	if err := pools.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(0)
	}
	return &Selector{pools: pools, rng: rng}, nil
}

// Select returns a template of the target tone for the context's urgency,
// falling back to the whole pool when no template has that tone.
func (s *Selector) Select(ctx TemplateContext) (Template, error) {
	pool := s.pools[ctx.Urgency]
	if len(pool) == 0 {
		return Template{}, fmt.Errorf("%w: urgency %q", apperrors.ErrEmptyTemplatePool, ctx.Urgency)
	}

	tone := TargetTone(ctx)
	var matching []Template
	for _, t := range pool {
		if t.Tone == tone {
			matching = append(matching, t)
		}
	}
	if len(matching) == 0 {
		matching = pool
	}
	return matching[s.rng.IntN(len(matching))], nil
}
