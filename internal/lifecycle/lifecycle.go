// Package lifecycle implements reproduction validation, personality
// blending with mutation, knowledge inheritance, maturity gating, and
// aging curves — design doc component L. Grounded on the original
// simulation's reproduction.rs (exact validation order and thresholds,
// integer-roll mutation in [-1000,1000] scaled by a configurable
// range, tier-0/1-only knowledge inheritance, the 80%/90%-of-lifespan
// aging breakpoints), ported into the teacher's idiom with the
// integer roll producing an exact fixedpoint.Decimal fraction instead
// of a floating-point mutation, preserving the no-binary-float
// invariant the original's own rust_decimal use already honored.
package lifecycle

import (
	"fmt"

	"github.com/talgya/emergence/internal/agent"
	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/knowledge"
	"github.com/talgya/emergence/internal/prng"
)

const (
	ReproductionMinHealth     = 50
	ReproductionEnergyCost    = 30
	ImmatureEnergyCap         = 60
	ImmatureGatherYieldPct    = 50
	DefaultMaturityTicks      = 200
)

var reproductionRelationshipThreshold = fixedpoint.FromPer10000(7000) // 0.7

// BlendPersonality averages each of parentA/parentB's traits and applies
// an independent mutation roll per trait, in [-mutationRange,
// +mutationRange], clamping the result to [0, 1].
func BlendPersonality(parentA, parentB agent.Personality, mutationRange fixedpoint.Decimal, rng *prng.Source) agent.Personality {
	blend := func(a, b fixedpoint.Decimal) fixedpoint.Decimal {
		avg, _ := a.Add(b).Div(fixedpoint.FromInt(2))
		roll := int64(rng.IntN(2001)) - 1000 // [-1000, 1000]
		mutationFrac := fixedpoint.FromMicro(roll * (fixedpoint.Scale / 1000))
		mutation := mutationFrac.Mul(mutationRange)
		return avg.Add(mutation).Clamp(fixedpoint.Zero, fixedpoint.One)
	}
	return agent.Personality{
		Curiosity:       blend(parentA.Curiosity, parentB.Curiosity),
		Cooperation:     blend(parentA.Cooperation, parentB.Cooperation),
		Aggression:      blend(parentA.Aggression, parentB.Aggression),
		RiskTolerance:   blend(parentA.RiskTolerance, parentB.RiskTolerance),
		Industriousness: blend(parentA.Industriousness, parentB.Industriousness),
		Sociability:     blend(parentA.Sociability, parentB.Sociability),
		Honesty:         blend(parentA.Honesty, parentB.Honesty),
		Loyalty:         blend(parentA.Loyalty, parentB.Loyalty),
	}
}

// InheritKnowledge returns the concepts a child inherits: the
// intersection of both parents' known sets, filtered to seed-curriculum
// levels 0-1 only (design doc §4.L — advanced concepts are never
// inherited, even if both parents know them).
func InheritKnowledge(parentAKnown, parentBKnown map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for concept := range parentAKnown {
		if _, inB := parentBKnown[concept]; !inB {
			continue
		}
		level := knowledge.SeedLevelOf(concept)
		if level >= 0 && level <= 1 {
			out[concept] = struct{}{}
		}
	}
	return out
}

// IsMature reports whether an agent born at bornAtTick has reached
// maturity by currentTick. maturityTicks == 0 always means mature (seed
// agents).
func IsMature(bornAtTick, currentTick, maturityTicks uint64) bool {
	if maturityTicks == 0 {
		return true
	}
	if currentTick < bornAtTick {
		return true
	}
	return currentTick-bornAtTick >= maturityTicks
}

// restrictedActionsForImmature is the set of action kinds an immature
// agent may not perform — design doc §4.L. Represented as action-name
// strings so this package has no dependency on an actions package.
var restrictedActionsForImmature = map[string]struct{}{
	"build": {}, "repair": {}, "demolish": {}, "improve_route": {},
	"trade_offer": {}, "trade_accept": {}, "trade_reject": {}, "form_group": {},
	"teach": {}, "farm_plant": {}, "farm_harvest": {}, "craft": {}, "mine": {},
	"smelt": {}, "write": {}, "read": {}, "claim": {}, "legislate": {},
	"enforce": {}, "reproduce": {}, "steal": {}, "attack": {}, "intimidate": {},
	"propose": {}, "vote": {}, "marry": {}, "divorce": {}, "conspire": {}, "freeform": {},
}

// IsActionRestrictedForImmature reports whether an immature agent may
// not perform action.
func IsActionRestrictedForImmature(action string) bool {
	_, restricted := restrictedActionsForImmature[action]
	return restricted
}

// EnergyCap computes the maximum energy an agent of age (in ticks) and
// lifespan may hold: 100 before 80% of lifespan, linearly declining to
// 50 by end of life.
func EnergyCap(age, lifespan uint64) int64 {
	threshold := lifespan * 80 / 100
	if age <= threshold {
		return 100
	}
	ageBeyond := age - threshold
	oldAgeWindow := lifespan - threshold
	if oldAgeWindow == 0 {
		return 100
	}
	decline := ageBeyond * 50 / oldAgeWindow
	if decline > 50 {
		decline = 50
	}
	return 100 - int64(decline)
}

// MovementCostMultiplier returns 1.5 once an agent passes 90% of
// lifespan, else 1.0.
func MovementCostMultiplier(age, lifespan uint64) fixedpoint.Decimal {
	threshold := lifespan
	if lifespan > 0 {
		threshold = lifespan * 90 / 100
	}
	if age >= threshold {
		return fixedpoint.FromPer10000(15000) // 1.5
	}
	return fixedpoint.One
}

// CanAddAgent reports whether the population cap still allows a new
// agent.
func CanAddAgent(currentPopulation, maxPopulation uint64) bool {
	return currentPopulation < maxPopulation
}

// ReproductionContext bundles everything ValidateReproduction needs.
type ReproductionContext struct {
	InitiatorSex                      agent.Sex
	PartnerSex                        agent.Sex
	InitiatorHealth                   fixedpoint.Decimal
	InitiatorEnergy                   fixedpoint.Decimal
	PartnerHealth                     fixedpoint.Decimal
	PartnerEnergy                     fixedpoint.Decimal
	RelationshipInitiatorToPartner    fixedpoint.Decimal
	RelationshipPartnerToInitiator    fixedpoint.Decimal
	CoLocated                         bool
	CurrentPopulation                 uint64
	MaxPopulation                     uint64
}

// ValidateReproduction enforces design doc §4.L's preconditions in the
// original's exact order: co-location, opposite sex, mutual
// relationship > 0.7, both health > 50, both energy >= 30, population
// under cap.
func ValidateReproduction(ctx ReproductionContext) error {
	if !ctx.CoLocated {
		return fmt.Errorf("lifecycle: agents are not at the same location")
	}
	if ctx.InitiatorSex == ctx.PartnerSex {
		return fmt.Errorf("lifecycle: reproduction requires one male and one female partner")
	}
	if ctx.RelationshipInitiatorToPartner.Cmp(reproductionRelationshipThreshold) <= 0 {
		return fmt.Errorf("lifecycle: initiator's relationship with partner is %s, needs to exceed %s", ctx.RelationshipInitiatorToPartner, reproductionRelationshipThreshold)
	}
	if ctx.RelationshipPartnerToInitiator.Cmp(reproductionRelationshipThreshold) <= 0 {
		return fmt.Errorf("lifecycle: partner's relationship with initiator is %s, needs to exceed %s", ctx.RelationshipPartnerToInitiator, reproductionRelationshipThreshold)
	}
	if ctx.InitiatorHealth.Cmp(fixedpoint.FromInt(ReproductionMinHealth)) <= 0 {
		return fmt.Errorf("lifecycle: initiator health is %s, needs to exceed %d", ctx.InitiatorHealth, ReproductionMinHealth)
	}
	if ctx.PartnerHealth.Cmp(fixedpoint.FromInt(ReproductionMinHealth)) <= 0 {
		return fmt.Errorf("lifecycle: partner health is %s, needs to exceed %d", ctx.PartnerHealth, ReproductionMinHealth)
	}
	if ctx.InitiatorEnergy.Cmp(fixedpoint.FromInt(ReproductionEnergyCost)) < 0 {
		return fmt.Errorf("lifecycle: initiator energy is %s, needs at least %d", ctx.InitiatorEnergy, ReproductionEnergyCost)
	}
	if ctx.PartnerEnergy.Cmp(fixedpoint.FromInt(ReproductionEnergyCost)) < 0 {
		return fmt.Errorf("lifecycle: partner energy is %s, needs at least %d", ctx.PartnerEnergy, ReproductionEnergyCost)
	}
	if !CanAddAgent(ctx.CurrentPopulation, ctx.MaxPopulation) {
		return fmt.Errorf("lifecycle: population cap reached: %d/%d", ctx.CurrentPopulation, ctx.MaxPopulation)
	}
	return nil
}

// GenerateChildName returns the default display name for a newborn.
func GenerateChildName(firstParent, secondParent string) string {
	return fmt.Sprintf("Child of %s and %s", firstParent, secondParent)
}
