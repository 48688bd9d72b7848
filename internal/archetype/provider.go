// Package archetype supplies archetype definitions to the scoring engine.
//
// The engine never talks to storage directly: it receives a Provider. The
// static provider carries the built-in set; Cached composes a storage-backed
// provider with memoization and graceful fallback, so a lookup failure never
// fails an analysis request.
package archetype

import (
	"sync"

	"github.com/calder/axial/internal/models"
)

// Provider resolves archetype names to their definitions.
type Provider interface {
	Definitions() (map[string]models.ArchetypeDefinition, error)
}

// StaticProvider serves the built-in archetype set.
type StaticProvider struct{}

// NewStaticProvider returns a provider over the built-in definitions.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// Definitions returns the built-in set. It never fails.
func (*StaticProvider) Definitions() (map[string]models.ArchetypeDefinition, error) {
	return builtinDefinitions(), nil
}

// builtinDefinitions returns a fresh copy of the fallback archetype set.
func builtinDefinitions() map[string]models.ArchetypeDefinition {
	return map[string]models.ArchetypeDefinition{
		models.ArchetypeReactiveCompliance: {
			Name:        models.ArchetypeReactiveCompliance,
			Description: "Controls exist mainly to satisfy external pressure; maturity is driven by audits rather than strategy.",
			Strengths:   []string{"Responds quickly to audit findings", "Clear external accountability"},
			Weaknesses:  []string{"Little proactive risk reduction", "Controls decay between audits"},
			PeerComparison: "Below the peer median on most axes; typical of organisations early in their maturity journey.",
		},
		models.ArchetypePaperDragon: {
			Name:        models.ArchetypePaperDragon,
			Description: "Impressive declared posture with weak operational follow-through; friction outweighs demonstrated trust.",
			Strengths:   []string{"Strong policy and documentation culture", "Good governance vocabulary"},
			Weaknesses:  []string{"Declared controls are not evidenced in practice", "High friction for day-to-day operations"},
			PeerComparison: "Declared scores near the peer top quartile, verified scores near the bottom.",
		},
		models.ArchetypeCyberSovereign: {
			Name:        models.ArchetypeCyberSovereign,
			Description: "Mature, evidence-backed posture across the board; security is a business capability, not a cost centre.",
			Strengths:   []string{"Evidence-backed controls across axes", "Low friction relative to maturity"},
			Weaknesses:  []string{"Risk of complacency at the top of the scale"},
			PeerComparison: "Comfortably above the peer top quartile on trust index.",
		},
		models.ArchetypeResilientOptimiser: {
			Name:        models.ArchetypeResilientOptimiser,
			Description: "Solid, balanced maturity with pragmatic trade-offs; improving steadily without gold-plating.",
			Strengths:   []string{"Balanced axis profile", "Realistic self-assessment"},
			Weaknesses:  []string{"No single standout capability", "Improvement pace depends on sustained investment"},
			PeerComparison: "Around the peer median with a healthier-than-average gap vector.",
		},
	}
}

// Cached memoizes a delegate provider and falls back to the built-in set when
// the delegate fails. Safe for concurrent use.
type Cached struct {
	delegate Provider

	mu     sync.Mutex
	loaded map[string]models.ArchetypeDefinition
}

// NewCached wraps a delegate provider. A nil delegate behaves like the static
// provider.
func NewCached(delegate Provider) *Cached {
	if delegate == nil {
		delegate = NewStaticProvider()
	}
	return &Cached{delegate: delegate}
}

// Definitions returns the delegate's definitions, memoized after the first
// successful load. On delegate failure the built-in set is returned instead,
// so archetype lookup can never fail an analysis.
func (c *Cached) Definitions() (map[string]models.ArchetypeDefinition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded != nil {
		return c.loaded, nil
	}

	defs, err := c.delegate.Definitions()
	if err != nil || len(defs) == 0 {
		return builtinDefinitions(), nil
	}

	// Backfill any built-in archetype the delegate does not know about, so
	// classification always finds its chosen name.
	for name, def := range builtinDefinitions() {
		if _, ok := defs[name]; !ok {
			defs[name] = def
		}
	}
	c.loaded = defs
	return c.loaded, nil
}
