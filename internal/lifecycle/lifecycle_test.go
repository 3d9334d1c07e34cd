package lifecycle

import (
	"testing"

	"github.com/talgya/emergence/internal/agent"
	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/prng"
)

func TestBlendPersonalityStaysInBounds(t *testing.T) {
	rng := prng.New(42)
	a := agent.Personality{Curiosity: fixedpoint.FromInt(1), Aggression: fixedpoint.Zero}
	b := agent.Personality{Curiosity: fixedpoint.Zero, Aggression: fixedpoint.FromInt(1)}

	for i := 0; i < 50; i++ {
		child := BlendPersonality(a, b, fixedpoint.FromPer10000(1000), rng)
		if child.Curiosity.Cmp(fixedpoint.Zero) < 0 || child.Curiosity.Cmp(fixedpoint.One) > 0 {
			t.Fatalf("curiosity out of bounds: %s", child.Curiosity)
		}
		if child.Aggression.Cmp(fixedpoint.Zero) < 0 || child.Aggression.Cmp(fixedpoint.One) > 0 {
			t.Fatalf("aggression out of bounds: %s", child.Aggression)
		}
	}
}

func TestInheritKnowledgeExcludesAdvancedConcepts(t *testing.T) {
	parentA := map[string]struct{}{"gather_food": {}, "metalworking": {}, "exist": {}}
	parentB := map[string]struct{}{"gather_food": {}, "metalworking": {}, "exist": {}}

	got := InheritKnowledge(parentA, parentB)
	if _, ok := got["gather_food"]; !ok {
		t.Fatalf("expected gather_food (level 1) to be inherited")
	}
	if _, ok := got["exist"]; !ok {
		t.Fatalf("expected exist (level 0) to be inherited")
	}
	if _, ok := got["metalworking"]; ok {
		t.Fatalf("expected metalworking (level 5) to be excluded from inheritance")
	}
}

func TestIsMatureRespectsThreshold(t *testing.T) {
	if IsMature(100, 150, 200) {
		t.Fatalf("expected immature at 50 ticks old with a 200-tick maturity")
	}
	if !IsMature(100, 300, 200) {
		t.Fatalf("expected mature at 200 ticks old")
	}
	if !IsMature(0, 0, 0) {
		t.Fatalf("expected maturityTicks=0 to always be mature")
	}
}

func TestEnergyCapDeclinesNearEndOfLife(t *testing.T) {
	if got := EnergyCap(50, 100); got != 100 {
		t.Fatalf("expected full energy cap before 80%% of lifespan, got %d", got)
	}
	if got := EnergyCap(100, 100); got != 50 {
		t.Fatalf("expected minimum energy cap at end of life, got %d", got)
	}
	if got := EnergyCap(90, 100); got <= 50 || got >= 100 {
		t.Fatalf("expected a declining intermediate cap, got %d", got)
	}
}

func TestValidateReproductionRejectsSameSex(t *testing.T) {
	ctx := ReproductionContext{
		InitiatorSex: agent.SexMale, PartnerSex: agent.SexMale,
		InitiatorHealth: fixedpoint.FromInt(100), PartnerHealth: fixedpoint.FromInt(100),
		InitiatorEnergy: fixedpoint.FromInt(100), PartnerEnergy: fixedpoint.FromInt(100),
		RelationshipInitiatorToPartner: fixedpoint.FromInt(1), RelationshipPartnerToInitiator: fixedpoint.FromInt(1),
		CoLocated: true, CurrentPopulation: 5, MaxPopulation: 100,
	}
	if err := ValidateReproduction(ctx); err == nil {
		t.Fatalf("expected same-sex reproduction to be rejected")
	}
}

func TestValidateReproductionAcceptsValidContext(t *testing.T) {
	ctx := ReproductionContext{
		InitiatorSex: agent.SexMale, PartnerSex: agent.SexFemale,
		InitiatorHealth: fixedpoint.FromInt(100), PartnerHealth: fixedpoint.FromInt(100),
		InitiatorEnergy: fixedpoint.FromInt(100), PartnerEnergy: fixedpoint.FromInt(100),
		RelationshipInitiatorToPartner: fixedpoint.FromInt(1), RelationshipPartnerToInitiator: fixedpoint.FromInt(1),
		CoLocated: true, CurrentPopulation: 5, MaxPopulation: 100,
	}
	if err := ValidateReproduction(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
