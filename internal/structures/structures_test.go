package structures

import (
	"testing"

	"github.com/talgya/emergence/internal/ids"
	"github.com/talgya/emergence/internal/world"
)

func TestApplyDecayCollapsesAndSalvages(t *testing.T) {
	s := NewStructure(KindCampfire, ids.NewLocationID(), ids.NewAgentID(), 0)
	var tick uint64
	collapsed := false
	for tick = 1; tick < 1000 && !collapsed; tick++ {
		sv, c := ApplyDecay(s, world.WeatherStorm, tick)
		if c {
			collapsed = true
			if len(sv) == 0 {
				t.Fatalf("expected non-empty salvage on collapse")
			}
		}
	}
	if !collapsed {
		t.Fatalf("expected campfire to eventually collapse under storm decay")
	}
	if s.IsStanding() {
		t.Fatalf("collapsed structure must not report IsStanding")
	}
	if s.Durability < 0 {
		t.Fatalf("durability must not go negative, got %d", s.Durability)
	}
}

func TestStructureEffectsAtLocationAggregates(t *testing.T) {
	loc := ids.NewLocationID()
	builder := ids.NewAgentID()
	hut := NewStructure(KindBasicHut, loc, builder, 0)
	fire := NewStructure(KindCampfire, loc, builder, 0)
	pit := NewStructure(KindStoragePit, loc, builder, 0)

	eff := StructureEffectsAtLocation([]*Structure{hut, fire, pit})
	if !eff.WeatherProtection {
		t.Fatalf("expected weather protection from the hut")
	}
	if !eff.HasShelter || !eff.HasFire {
		t.Fatalf("expected shelter and fire flags set")
	}
	if eff.TotalStorageSlots != Blueprints[KindStoragePit].Properties.StorageSlots {
		t.Fatalf("expected storage slots summed, got %d", eff.TotalStorageSlots)
	}
	if eff.BestRestBonusPct != Blueprints[KindBasicHut].Properties.RestBonusPct {
		t.Fatalf("expected best rest bonus to be the hut's, got %d", eff.BestRestBonusPct)
	}
}

func TestRepairCostProportional(t *testing.T) {
	s := NewStructure(KindBasicHut, ids.NewLocationID(), ids.NewAgentID(), 0)
	bp := Blueprints[KindBasicHut]
	s.Durability = bp.MaxDurability / 2

	cost := RepairCost(s)
	for resource, original := range s.MaterialsUsed {
		got, ok := cost[resource]
		if !ok {
			t.Fatalf("expected repair cost entry for %s", resource)
		}
		// Half durability missing -> roughly half the material cost.
		half := original.Micro() / 2
		if got.Micro() < half-original.Micro()/10 || got.Micro() > half+original.Micro()/10 {
			t.Fatalf("expected roughly half cost for %s, got %s of %s", resource, got, original)
		}
	}
}
