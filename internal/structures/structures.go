// Package structures provides structure blueprints, decay, salvage,
// repair, and location-effect aggregation — design doc component F.
// Grounded on the teacher's social.Settlement infrastructure levels
// (WallLevel/RoadLevel/MarketLevel) for the blueprint-table idiom, and
// on other_examples' GoCodeAlone-EvoSim civilization.go Structure type
// (per-type MaxHealth/Capacity/MaintenanceCost table, decay-per-tick
// update loop) for the decay/collapse/salvage shape — that file is
// reference material only (not a complete example repo / not a
// teacher), cited here for the structure-table technique.
package structures

import (
	"fmt"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
	"github.com/talgya/emergence/internal/world"
)

// Kind enumerates the 13 structure types of design doc §4.F.
type Kind uint8

const (
	KindCampfire Kind = iota
	KindLeanTo
	KindBasicHut
	KindStoragePit
	KindWorkshop
	KindGranary
	KindWell
	KindWatchtower
	KindPalisade
	KindTemple
	KindMarketStall
	KindForge
	KindBridge
)

// Category groups structures for access-control and display purposes.
type Category uint8

const (
	CategoryShelter Category = iota
	CategoryStorage
	CategoryProduction
	CategoryDefense
	CategoryCivic
	CategoryInfrastructure
)

// Properties are the structure's gameplay effects, aggregated at a
// location by StructureEffectsAtLocation.
type Properties struct {
	RestBonusPct       int
	WeatherProtection  bool
	StorageSlots       int
	ProductionType     string
	ProductionRate     fixedpoint.Decimal
}

// Blueprint is the static table entry for one structure Kind.
type Blueprint struct {
	Category           Category
	MaterialCosts      map[string]fixedpoint.Decimal
	RequiredKnowledge  []string
	MaxDurability      int
	DecayPerTick       fixedpoint.Decimal
	Capacity           int
	Properties         Properties
}

// Blueprints is the static table of all 13 structure types.
var Blueprints = map[Kind]Blueprint{
	KindCampfire: {
		Category:      CategoryCivic,
		MaterialCosts: map[string]fixedpoint.Decimal{"wood": fixedpoint.FromInt(5)},
		MaxDurability: 40, DecayPerTick: fixedpoint.FromMicro(400_000), Capacity: 0,
		Properties: Properties{WeatherProtection: false, ProductionType: "warmth"},
	},
	KindLeanTo: {
		Category:      CategoryShelter,
		MaterialCosts: map[string]fixedpoint.Decimal{"wood": fixedpoint.FromInt(10)},
		MaxDurability: 60, DecayPerTick: fixedpoint.FromMicro(300_000), Capacity: 2,
		Properties: Properties{RestBonusPct: 10, WeatherProtection: true},
	},
	KindBasicHut: {
		Category:          CategoryShelter,
		MaterialCosts:     map[string]fixedpoint.Decimal{"wood": fixedpoint.FromInt(30), "stone": fixedpoint.FromInt(10)},
		RequiredKnowledge:  []string{"basic_construction"},
		MaxDurability: 120, DecayPerTick: fixedpoint.FromMicro(200_000), Capacity: 4,
		Properties: Properties{RestBonusPct: 25, WeatherProtection: true},
	},
	KindStoragePit: {
		Category:      CategoryStorage,
		MaterialCosts: map[string]fixedpoint.Decimal{"wood": fixedpoint.FromInt(15)},
		MaxDurability: 80, DecayPerTick: fixedpoint.FromMicro(150_000), Capacity: 0,
		Properties: Properties{StorageSlots: 20},
	},
	KindWorkshop: {
		Category:          CategoryProduction,
		MaterialCosts:     map[string]fixedpoint.Decimal{"wood": fixedpoint.FromInt(40), "stone": fixedpoint.FromInt(20)},
		RequiredKnowledge:  []string{"basic_crafting"},
		MaxDurability: 100, DecayPerTick: fixedpoint.FromMicro(250_000), Capacity: 2,
		Properties: Properties{ProductionType: "tools", ProductionRate: fixedpoint.FromMicro(500_000)},
	},
	KindGranary: {
		Category:          CategoryStorage,
		MaterialCosts:     map[string]fixedpoint.Decimal{"wood": fixedpoint.FromInt(35), "stone": fixedpoint.FromInt(10)},
		RequiredKnowledge:  []string{"basic_construction"},
		MaxDurability: 100, DecayPerTick: fixedpoint.FromMicro(150_000), Capacity: 0,
		Properties: Properties{StorageSlots: 60},
	},
	KindWell: {
		Category:      CategoryInfrastructure,
		MaterialCosts: map[string]fixedpoint.Decimal{"stone": fixedpoint.FromInt(25)},
		MaxDurability: 150, DecayPerTick: fixedpoint.FromMicro(100_000), Capacity: 0,
		Properties: Properties{ProductionType: "water", ProductionRate: fixedpoint.FromInt(2)},
	},
	KindWatchtower: {
		Category:          CategoryDefense,
		MaterialCosts:     map[string]fixedpoint.Decimal{"wood": fixedpoint.FromInt(30), "stone": fixedpoint.FromInt(40)},
		RequiredKnowledge:  []string{"basic_engineering"},
		MaxDurability: 140, DecayPerTick: fixedpoint.FromMicro(200_000), Capacity: 2,
	},
	KindPalisade: {
		Category:          CategoryDefense,
		MaterialCosts:     map[string]fixedpoint.Decimal{"wood": fixedpoint.FromInt(60)},
		RequiredKnowledge:  []string{"basic_construction"},
		MaxDurability: 160, DecayPerTick: fixedpoint.FromMicro(250_000), Capacity: 0,
	},
	KindTemple: {
		Category:          CategoryCivic,
		MaterialCosts:     map[string]fixedpoint.Decimal{"stone": fixedpoint.FromInt(80), "wood": fixedpoint.FromInt(20)},
		RequiredKnowledge:  []string{"architecture"},
		MaxDurability: 200, DecayPerTick: fixedpoint.FromMicro(100_000), Capacity: 20,
		Properties: Properties{RestBonusPct: 5},
	},
	KindMarketStall: {
		Category:      CategoryProduction,
		MaterialCosts: map[string]fixedpoint.Decimal{"wood": fixedpoint.FromInt(20)},
		MaxDurability: 70, DecayPerTick: fixedpoint.FromMicro(300_000), Capacity: 2,
		Properties: Properties{ProductionType: "trade_goods"},
	},
	KindForge: {
		Category:          CategoryProduction,
		MaterialCosts:     map[string]fixedpoint.Decimal{"stone": fixedpoint.FromInt(50), "metal": fixedpoint.FromInt(15)},
		RequiredKnowledge:  []string{"metalworking"},
		MaxDurability: 130, DecayPerTick: fixedpoint.FromMicro(200_000), Capacity: 1,
		Properties: Properties{ProductionType: "tools_advanced", ProductionRate: fixedpoint.FromInt(1)},
	},
	KindBridge: {
		Category:          CategoryInfrastructure,
		MaterialCosts:     map[string]fixedpoint.Decimal{"wood": fixedpoint.FromInt(70), "metal": fixedpoint.FromInt(10)},
		RequiredKnowledge:  []string{"bridge_building"},
		MaxDurability: 180, DecayPerTick: fixedpoint.FromMicro(150_000), Capacity: 0,
	},
}

// Structure is a built instance of a Kind at a Location.
type Structure struct {
	ID             ids.StructureID
	Kind           Kind
	Location       ids.LocationID
	Builder        ids.AgentID
	Owner          ids.AgentID
	BuiltAtTick    uint64
	DestroyedAtTick *uint64
	MaterialsUsed  map[string]fixedpoint.Decimal
	Durability     int
	decayAccum     fixedpoint.Decimal
	Occupants      map[ids.AgentID]struct{}
	AccessList     map[ids.AgentID]struct{} // empty/nil = open to all
}

// NewStructure instantiates a Structure at MaxDurability for its Kind.
func NewStructure(kind Kind, loc ids.LocationID, builder ids.AgentID, tick uint64) *Structure {
	bp := Blueprints[kind]
	materials := make(map[string]fixedpoint.Decimal, len(bp.MaterialCosts))
	for k, v := range bp.MaterialCosts {
		materials[k] = v
	}
	return &Structure{
		ID:            ids.NewStructureID(),
		Kind:          kind,
		Location:      loc,
		Builder:       builder,
		Owner:         builder,
		BuiltAtTick:   tick,
		MaterialsUsed: materials,
		Durability:    bp.MaxDurability,
		Occupants:     make(map[ids.AgentID]struct{}),
	}
}

// IsStanding reports whether the structure has positive durability and
// has not been destroyed — the predicate used by location-effect
// aggregation.
func (s *Structure) IsStanding() bool {
	return s.Durability > 0 && s.DestroyedAtTick == nil
}

var (
	weatherFactor = map[world.Weather]fixedpoint.Decimal{
		world.WeatherClear:   fixedpoint.One,
		world.WeatherDrought: fixedpoint.One,
		world.WeatherRain:    fixedpoint.One,
		world.WeatherSnow:    fixedpoint.FromMicro(1_500_000),
		world.WeatherStorm:   fixedpoint.FromMicro(2_000_000),
	}
	occupiedFactor = fixedpoint.FromMicro(750_000)
)

// ApplyDecay accumulates one tick of decay, collapsing the structure
// when durability reaches zero and returning the salvage yield (30% of
// original materials, per design doc §4.F).
func ApplyDecay(s *Structure, weather world.Weather, tick uint64) (salvage map[string]fixedpoint.Decimal, collapsed bool) {
	if !s.IsStanding() {
		return nil, false
	}
	bp := Blueprints[s.Kind]
	occFactor := fixedpoint.One
	if len(s.Occupants) > 0 {
		occFactor = occupiedFactor
	}
	effective := bp.DecayPerTick.Mul(weatherFactor[weather]).Mul(occFactor)
	s.decayAccum = s.decayAccum.Add(effective)
	loss := int(s.decayAccum.Floor())
	if loss <= 0 {
		return nil, false
	}
	s.decayAccum = s.decayAccum.Sub(fixedpoint.FromInt(int64(loss)))
	s.Durability -= loss
	if s.Durability > 0 {
		return nil, false
	}
	s.Durability = 0
	s.DestroyedAtTick = &tick
	salvage = make(map[string]fixedpoint.Decimal, len(s.MaterialsUsed))
	thirtyPct := fixedpoint.FromMicro(300_000)
	for resource, qty := range s.MaterialsUsed {
		salvage[resource] = qty.Mul(thirtyPct)
	}
	return salvage, true
}

// RepairCost returns, for each material originally spent, the
// proportional cost to restore the missing durability — design doc
// §4.F: cost_per_resource = original * d / D (integer).
func RepairCost(s *Structure) map[string]fixedpoint.Decimal {
	bp := Blueprints[s.Kind]
	missing := bp.MaxDurability - s.Durability
	if missing <= 0 {
		return map[string]fixedpoint.Decimal{}
	}
	out := make(map[string]fixedpoint.Decimal, len(s.MaterialsUsed))
	for resource, original := range s.MaterialsUsed {
		cost := original.Mul(fixedpoint.FromInt(int64(missing)))
		q, err := cost.Div(fixedpoint.FromInt(int64(bp.MaxDurability)))
		if err != nil {
			continue
		}
		out[resource] = fixedpoint.FromInt(q.Floor())
	}
	return out
}

// Repair restores s to MaxDurability for its Kind; callers are
// responsible for having paid RepairCost through the ledger first.
func Repair(s *Structure) error {
	if !s.IsStanding() {
		return fmt.Errorf("structures: cannot repair a collapsed structure")
	}
	s.Durability = Blueprints[s.Kind].MaxDurability
	s.decayAccum = fixedpoint.Zero
	return nil
}

// LocationEffects is the aggregated effect of every standing structure
// at a location — design doc §4.F.
type LocationEffects struct {
	WeatherProtection bool
	BestRestBonusPct  int
	TotalStorageSlots int
	HasShelter        bool
	HasFire           bool
	Production        map[string]fixedpoint.Decimal
}

// StructureEffectsAtLocation walks structures (already filtered to one
// location by the caller's registry) and aggregates their effects.
func StructureEffectsAtLocation(standing []*Structure) LocationEffects {
	eff := LocationEffects{Production: make(map[string]fixedpoint.Decimal)}
	for _, s := range standing {
		if !s.IsStanding() {
			continue
		}
		bp := Blueprints[s.Kind]
		if bp.Properties.WeatherProtection {
			eff.WeatherProtection = true
		}
		if bp.Properties.RestBonusPct > eff.BestRestBonusPct {
			eff.BestRestBonusPct = bp.Properties.RestBonusPct
		}
		eff.TotalStorageSlots += bp.Properties.StorageSlots
		if s.Kind == KindLeanTo || s.Kind == KindBasicHut {
			eff.HasShelter = true
		}
		if s.Kind == KindCampfire {
			eff.HasFire = true
		}
		if bp.Properties.ProductionType != "" && bp.Properties.ProductionRate.Sign() > 0 {
			eff.Production[bp.Properties.ProductionType] = eff.Production[bp.Properties.ProductionType].Add(bp.Properties.ProductionRate)
		}
	}
	return eff
}

// Registry owns all Structures, keyed by id.
type Registry struct {
	byID  map[ids.StructureID]*Structure
	order []ids.StructureID
}

// NewRegistry returns an empty structure registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[ids.StructureID]*Structure)}
}

// Add registers a new structure.
func (r *Registry) Add(s *Structure) {
	r.byID[s.ID] = s
	r.order = append(r.order, s.ID)
}

// Get looks up a structure by id.
func (r *Registry) Get(id ids.StructureID) (*Structure, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// AtLocation returns every structure registered at loc, in registration
// order.
func (r *Registry) AtLocation(loc ids.LocationID) []*Structure {
	var out []*Structure
	for _, id := range r.order {
		s := r.byID[id]
		if s.Location == loc {
			out = append(out, s)
		}
	}
	return out
}

// HasAccess reports whether agentID may use s — an empty/nil AccessList
// means open to all, matching design doc §3's structure shape.
func (s *Structure) HasAccess(agentID ids.AgentID) bool {
	if len(s.AccessList) == 0 {
		return true
	}
	_, ok := s.AccessList[agentID]
	return ok
}
