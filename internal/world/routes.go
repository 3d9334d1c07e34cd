package world

import (
	"fmt"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// PathType is the ordered quality level of a route, None..Highway —
// design doc §3/§4.E.
type PathType uint8

const (
	PathNone PathType = iota
	PathDirtTrail
	PathWornPath
	PathRoad
	PathHighway
)

// baseTravelCost is the per-path-type travel cost table, §4.E.
var baseTravelCost = map[PathType]int{
	PathNone:      8,
	PathDirtTrail: 5,
	PathWornPath:  3,
	PathRoad:      2,
	PathHighway:   1,
}

// weatherTravelModifier is the additive travel-cost modifier by weather,
// §4.E. Storm has no modifier here because it instead blocks traversal
// entirely (see EffectiveTravelCost).
var weatherTravelModifier = map[Weather]int{
	WeatherClear:   0,
	WeatherDrought: 0,
	WeatherRain:    1,
	WeatherSnow:    2,
}

// baseDecayPerTick is the base route-durability decay rate by path
// type, §4.E.
var baseDecayPerTick = map[PathType]fixedpoint.Decimal{
	PathNone:      fixedpoint.Zero,
	PathDirtTrail: fixedpoint.FromMicro(100_000),
	PathWornPath:  fixedpoint.FromMicro(200_000),
	PathRoad:      fixedpoint.FromMicro(300_000),
	PathHighway:   fixedpoint.FromMicro(500_000),
}

// weatherDecayMultiplier scales decay by weather, §4.E.
var weatherDecayMultiplier = map[Weather]fixedpoint.Decimal{
	WeatherClear:   fixedpoint.One,
	WeatherDrought: fixedpoint.One,
	WeatherRain:    fixedpoint.One,
	WeatherSnow:    fixedpoint.FromMicro(1_500_000),
	WeatherStorm:   fixedpoint.FromMicro(2_000_000),
}

// upgradeMaterialCost is the material table for each upgrade target,
// §4.E. Only wood/stone/metal appear as cost resource ids; any resource
// naming scheme works so long as callers use these ids consistently.
type materialCost struct {
	Wood, Stone, Metal fixedpoint.Decimal
}

var upgradeMaterialCost = map[PathType]materialCost{
	PathDirtTrail: {Wood: fixedpoint.FromInt(10)},
	PathWornPath:  {Wood: fixedpoint.FromInt(20), Stone: fixedpoint.FromInt(10)},
	PathRoad:      {Wood: fixedpoint.FromInt(50), Stone: fixedpoint.FromInt(30)},
	PathHighway:   {Wood: fixedpoint.FromInt(100), Stone: fixedpoint.FromInt(80), Metal: fixedpoint.FromInt(20)},
}

func (m materialCost) forEach(f func(resource string, qty fixedpoint.Decimal)) {
	if m.Wood.Sign() > 0 {
		f("wood", m.Wood)
	}
	if m.Stone.Sign() > 0 {
		f("stone", m.Stone)
	}
	if m.Metal.Sign() > 0 {
		f("metal", m.Metal)
	}
}

const maxDurability = 100

// ACL controls who may traverse a route — design doc §3 "ACL".
type ACL struct {
	AllowedAgents map[ids.AgentID]struct{}
	AllowedGroups map[ids.GroupID]struct{}
	DeniedAgents  map[ids.AgentID]struct{}
	Public        bool
	TollCost      *fixedpoint.Decimal
}

// Allows evaluates the ACL for an agent with group memberships groups —
// design doc §4.E evaluation order.
func (a *ACL) Allows(agentID ids.AgentID, groups map[ids.GroupID]struct{}) bool {
	if a == nil {
		return true
	}
	if a.Public {
		return true
	}
	if a.DeniedAgents != nil {
		if _, denied := a.DeniedAgents[agentID]; denied {
			return false
		}
	}
	if a.AllowedAgents != nil {
		if _, ok := a.AllowedAgents[agentID]; ok {
			return true
		}
	}
	if a.AllowedGroups != nil {
		for g := range groups {
			if _, ok := a.AllowedGroups[g]; ok {
				return true
			}
		}
	}
	return false
}

// Route is a directed, weighted edge between two Locations — design doc
// §3 "Route".
type Route struct {
	ID             ids.RouteID
	From, To       ids.LocationID
	CostTicks      int
	PathType       PathType
	Durability     int
	decayAccum     fixedpoint.Decimal
	ACL            *ACL
	Bidirectional  bool
	BuiltBy        *ids.AgentID
	BuiltAtTick    uint64
}

// NewRoute creates a fresh None-grade route (no durability, base cost).
func NewRoute(from, to ids.LocationID, bidirectional bool, builtBy *ids.AgentID, tick uint64) *Route {
	return &Route{
		ID:            ids.NewRouteID(),
		From:          from,
		To:            to,
		CostTicks:     baseTravelCost[PathNone],
		PathType:      PathNone,
		Durability:    0,
		Bidirectional: bidirectional,
		BuiltBy:       builtBy,
		BuiltAtTick:   tick,
	}
}

// EffectiveTravelCost returns the travel cost for traversing r under the
// given weather, or (0, false) if the weather blocks travel (Storm) —
// design doc §4.E.
func EffectiveTravelCost(r *Route, weather Weather) (cost int, ok bool) {
	if weather == WeatherStorm {
		return 0, false
	}
	return baseTravelCost[r.PathType] + weatherTravelModifier[weather], true
}

// upgradeChain maps each path type to the next grade, in order.
var upgradeChain = map[PathType]PathType{
	PathNone:      PathDirtTrail,
	PathDirtTrail: PathWornPath,
	PathWornPath:  PathRoad,
	PathRoad:      PathHighway,
}

// ErrAlreadyHighway is returned when upgrading a route already at the
// top grade.
var ErrAlreadyHighway = fmt.Errorf("world: route is already Highway grade")

// ErrMissingEngineeringKnowledge is returned when upgrading to Road or
// Highway without basic_engineering or bridge_building — §4.E.
var ErrMissingEngineeringKnowledge = fmt.Errorf("world: Road/Highway upgrades require basic_engineering or bridge_building knowledge")

// UpgradeRequirement describes the next upgrade step's cost and
// knowledge gate, for callers to check before paying through the
// ledger.
type UpgradeRequirement struct {
	Target            PathType
	Materials         materialCost
	RequiresEngineering bool
}

// NextUpgrade describes what upgrading r would require, or an error if
// already at Highway.
func NextUpgrade(r *Route) (UpgradeRequirement, error) {
	target, ok := upgradeChain[r.PathType]
	if !ok {
		return UpgradeRequirement{}, ErrAlreadyHighway
	}
	return UpgradeRequirement{
		Target:              target,
		Materials:            upgradeMaterialCost[target],
		RequiresEngineering: target == PathRoad || target == PathHighway,
	}, nil
}

// Upgrade advances r to the next path grade. Callers must have already
// validated and paid the NextUpgrade materials through the ledger and checked
// builder knowledge for Road/Highway; Upgrade itself re-checks the
// knowledge gate given the builder's known set.
func Upgrade(r *Route, builderKnowledge map[string]struct{}) error {
	req, err := NextUpgrade(r)
	if err != nil {
		return err
	}
	if req.RequiresEngineering {
		_, hasBasic := builderKnowledge["basic_engineering"]
		_, hasBridge := builderKnowledge["bridge_building"]
		if !hasBasic && !hasBridge {
			return ErrMissingEngineeringKnowledge
		}
	}
	r.PathType = req.Target
	r.Durability = maxDurability
	r.decayAccum = fixedpoint.Zero
	return nil
}

// Repair restores r to full durability without changing its path type.
func Repair(r *Route) {
	if r.PathType == PathNone {
		return
	}
	r.Durability = maxDurability
	r.decayAccum = fixedpoint.Zero
}

// ApplyRouteDecay accumulates one tick of decay into r, degrading the
// path type by one grade when durability reaches zero — design doc
// §4.E.
func ApplyRouteDecay(r *Route, weather Weather) {
	if r.PathType == PathNone {
		return
	}
	decay := baseDecayPerTick[r.PathType].Mul(weatherDecayMultiplier[weather])
	r.decayAccum = r.decayAccum.Add(decay)
	loss := int(r.decayAccum.Floor())
	if loss <= 0 {
		return
	}
	r.decayAccum = r.decayAccum.Sub(fixedpoint.FromInt(int64(loss)))
	r.Durability -= loss
	for r.Durability <= 0 {
		degradeOneLevel(r)
		if r.PathType == PathNone {
			break
		}
	}
}

// degradeOneLevel drops r to the previous path grade, resetting
// durability and the decay accumulator for the new grade.
func degradeOneLevel(r *Route) {
	switch r.PathType {
	case PathHighway:
		r.PathType = PathRoad
	case PathRoad:
		r.PathType = PathWornPath
	case PathWornPath:
		r.PathType = PathDirtTrail
	case PathDirtTrail:
		r.PathType = PathNone
	}
	r.decayAccum = fixedpoint.Zero
	if r.PathType == PathNone {
		r.Durability = 0
	} else {
		r.Durability = maxDurability
	}
}
