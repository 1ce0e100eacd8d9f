package nudge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/julianstephens/habitnudge/internal/errors"
	"github.com/julianstephens/habitnudge/internal/models"
)

// fixedRand always returns the same index, clamped to n.
type fixedRand int

func (f fixedRand) IntN(n int) int {
	return min(int(f), n-1)
}

func TestDefaultPools(t *testing.T) {
	pools, err := DefaultPools()
	if err != nil {
		t.Fatalf("DefaultPools() error = %v", err)
	}
	for _, u := range models.Urgencies {
		if len(pools[u]) == 0 {
			t.Errorf("default pool for %s is empty", u)
		}
	}
	seen := map[string]bool{}
	for _, pool := range pools {
		for _, tmpl := range pool {
			if seen[tmpl.ID] {
				t.Errorf("duplicate template id %q", tmpl.ID)
			}
			seen[tmpl.ID] = true
		}
	}
}

func TestTargetTone(t *testing.T) {
	tests := []struct {
		name string
		ctx  TemplateContext
		want models.Tone
	}{
		{"default is supportive", TemplateContext{Urgency: models.UrgencyCritical}, models.ToneSupportive},
		{"preference", TemplateContext{Urgency: models.UrgencyGentle, PreferredTone: models.ToneSharp}, models.ToneSharp},
		{
			"authority resistance overrides preference",
			TemplateContext{PreferredTone: models.ToneSharp, AuthorityResistance: f64(0.61)},
			models.ToneHumorous,
		},
		{
			"resistance at threshold ignored",
			TemplateContext{PreferredTone: models.ToneSharp, AuthorityResistance: f64(0.6)},
			models.ToneSharp,
		},
		{
			"self-efficacy overrides preference",
			TemplateContext{PreferredTone: models.ToneSupportive, SelfEfficacy: f64(0.8)},
			models.ToneChallenge,
		},
		{
			"self-efficacy has final priority",
			TemplateContext{AuthorityResistance: f64(0.9), SelfEfficacy: f64(0.9)},
			models.ToneChallenge,
		},
		{
			"self-efficacy at threshold ignored",
			TemplateContext{AuthorityResistance: f64(0.9), SelfEfficacy: f64(0.7)},
			models.ToneHumorous,
		},
		{
			"low signals keep preference",
			TemplateContext{PreferredTone: models.ToneHumorous, AuthorityResistance: f64(0.1), SelfEfficacy: f64(0.1)},
			models.ToneHumorous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TargetTone(tt.ctx); got != tt.want {
				t.Errorf("TargetTone() = %s, want %s", got, tt.want)
			}
		})
	}
}

func testPools() Pools {
	return Pools{
		models.UrgencyGentle: {
			{ID: "g1", Tone: models.ToneSupportive, Template: "g1"},
			{ID: "g2", Tone: models.ToneSupportive, Template: "g2"},
			{ID: "g3", Tone: models.ToneHumorous, Template: "g3"},
		},
		models.UrgencyModerate: {
			{ID: "m1", Tone: models.ToneChallenge, Template: "m1"},
		},
		models.UrgencyCritical: {
			{ID: "c1", Tone: models.ToneSharp, Template: "c1"},
			{ID: "c2", Tone: models.ToneSharp, Template: "c2"},
		},
	}
}

func TestSelector_Select(t *testing.T) {
	sel, err := NewSelector(testPools(), fixedRand(1))
	if err != nil {
		t.Fatalf("NewSelector() error = %v", err)
	}

	tests := []struct {
		name   string
		ctx    TemplateContext
		wantID string
	}{
		{"second supportive template", TemplateContext{Urgency: models.UrgencyGentle}, "g2"},
		{"only humorous template", TemplateContext{Urgency: models.UrgencyGentle, PreferredTone: models.ToneHumorous}, "g3"},
		{"fallback to whole pool", TemplateContext{Urgency: models.UrgencyGentle, PreferredTone: models.ToneSharp}, "g2"},
		{"fallback on single-entry pool", TemplateContext{Urgency: models.UrgencyModerate, SelfEfficacy: f64(0)}, "m1"},
		{"critical has no supportive template", TemplateContext{Urgency: models.UrgencyCritical}, "c2"},
		{"high self-efficacy", TemplateContext{Urgency: models.UrgencyModerate, SelfEfficacy: f64(0.9)}, "m1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sel.Select(tt.ctx)
			if err != nil {
				t.Fatalf("Select() error = %v", err)
			}
			if got.ID != tt.wantID {
				t.Errorf("Select() = %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestSelector_SeededIsDeterministic(t *testing.T) {
	pools, err := DefaultPools()
	if err != nil {
		t.Fatalf("DefaultPools() error = %v", err)
	}
	a, _ := NewSelector(pools, NewRand(42))
	b, _ := NewSelector(pools, NewRand(42))

	ctx := TemplateContext{Urgency: models.UrgencyGentle, PreferredTone: models.ToneSupportive}
	for i := 0; i < 20; i++ {
		x, _ := a.Select(ctx)
		y, _ := b.Select(ctx)
		if x.ID != y.ID {
			t.Fatalf("draw %d: %s != %s with identical seeds", i, x.ID, y.ID)
		}
		if x.Tone != models.ToneSupportive {
			t.Fatalf("draw %d: tone %s, want supportive", i, x.Tone)
		}
	}
}

func TestNewSelector_RejectsBadPools(t *testing.T) {
	missing := testPools()
	delete(missing, models.UrgencyModerate)

	empty := testPools()
	empty[models.UrgencyCritical] = nil

	badTone := testPools()
	badTone[models.UrgencyGentle] = []Template{{ID: "x", Tone: "angry", Template: "x"}}

	noID := testPools()
	noID[models.UrgencyGentle] = []Template{{Tone: models.ToneSharp, Template: "x"}}

	tests := []struct {
		name      string
		pools     Pools
		wantEmpty bool
	}{
		{"missing urgency", missing, true},
		{"empty pool", empty, true},
		{"unknown tone", badTone, false},
		{"missing id", noID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSelector(tt.pools, fixedRand(0))
			if err == nil {
				t.Fatal("NewSelector() = nil error, want error")
			}
			if !apperrors.IsPrecondition(err) {
				t.Errorf("NewSelector() error %v is not a precondition violation", err)
			}
			if got := errors.Is(err, apperrors.ErrEmptyTemplatePool); got != tt.wantEmpty {
				t.Errorf("errors.Is(err, ErrEmptyTemplatePool) = %v, want %v", got, tt.wantEmpty)
			}
		})
	}
}

func TestLoadPools(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "templates.json")
	data := `{
		"gentle":   [{"id": "g", "tone": "supportive", "template": "hi {name}"}],
		"moderate": [{"id": "m", "tone": "challenge", "template": "go {name}"}],
		"critical": [{"id": "c", "tone": "sharp", "template": "now {name}"}]
	}`
	if err := os.WriteFile(good, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	pools, err := LoadPools(good)
	if err != nil {
		t.Fatalf("LoadPools() error = %v", err)
	}
	if pools[models.UrgencyCritical][0].ID != "c" {
		t.Errorf("LoadPools() critical = %+v", pools[models.UrgencyCritical])
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"gentle": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPools(bad); !errors.Is(err, apperrors.ErrEmptyTemplatePool) {
		t.Errorf("LoadPools() error = %v, want ErrEmptyTemplatePool", err)
	}

	if _, err := LoadPools(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadPools() on missing file = nil error")
	}
}
