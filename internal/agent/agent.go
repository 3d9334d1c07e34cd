// Package agent provides the Agent identity/state data model — design
// doc §3 "Agent" and "AgentState". Grounded on the teacher's
// internal/agents/types.go (Agent struct shape, Sex enum, inline
// fixed-size inventory idiom) generalized from the teacher's 15-good
// economy to the spec's open resource-id map and its fixed-point
// personality/relationship scores.
package agent

import (
	"sort"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// Sex is biological sex for demographic and reproduction rules.
type Sex uint8

const (
	SexMale Sex = iota
	SexFemale
)

// Personality holds the eight clamped-[0,1] traits of spec.md §3.
type Personality struct {
	Curiosity        fixedpoint.Decimal
	Cooperation      fixedpoint.Decimal
	Aggression       fixedpoint.Decimal
	RiskTolerance    fixedpoint.Decimal
	Industriousness  fixedpoint.Decimal
	Sociability      fixedpoint.Decimal
	Honesty          fixedpoint.Decimal
	Loyalty          fixedpoint.Decimal
}

// unit clamps d to [0,1].
func unit(d fixedpoint.Decimal) fixedpoint.Decimal {
	return d.Clamp(fixedpoint.Zero, fixedpoint.One)
}

// Clamp bounds every trait to [0,1], the invariant spec.md §8 requires
// hold after every tick.
func (p Personality) Clamp() Personality {
	return Personality{
		Curiosity:       unit(p.Curiosity),
		Cooperation:     unit(p.Cooperation),
		Aggression:      unit(p.Aggression),
		RiskTolerance:   unit(p.RiskTolerance),
		Industriousness: unit(p.Industriousness),
		Sociability:     unit(p.Sociability),
		Honesty:         unit(p.Honesty),
		Loyalty:         unit(p.Loyalty),
	}
}

// Agent is the immutable identity portion of spec.md §3.
type Agent struct {
	ID          ids.AgentID
	Name        string
	Sex         Sex
	BornAtTick  uint64
	ParentA     *ids.AgentID
	ParentB     *ids.AgentID
	Generation  uint32
	Personality Personality
}

// Inventory is a sparse resource-id -> quantity container, capacity
// bounded by CarryCapacity — design doc component D.
type Inventory map[string]fixedpoint.Decimal

// Total sums every quantity currently held.
func (inv Inventory) Total() fixedpoint.Decimal {
	total := fixedpoint.Zero
	for _, q := range inv {
		total = total.Add(q)
	}
	return total
}

// SortedResources returns resource ids in deterministic sorted order —
// spec.md §5 forbids hash-based iteration order in state.
func (inv Inventory) SortedResources() []string {
	keys := make([]string, 0, len(inv))
	for k := range inv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether the inventory holds at least qty of resource.
func (inv Inventory) Has(resource string, qty fixedpoint.Decimal) bool {
	have, ok := inv[resource]
	if !ok {
		return qty.Sign() <= 0
	}
	return have.Cmp(qty) >= 0
}

// Destination describes in-progress travel along a route.
type Destination struct {
	Location ids.LocationID
	Route    ids.RouteID
	Progress fixedpoint.Decimal // 0..1 fraction of the route traversed
}

// AgentState is the mutable, tick-updated half of spec.md §3.
type AgentState struct {
	AgentID        ids.AgentID
	Location       ids.LocationID
	Destination    *Destination
	Energy         fixedpoint.Decimal // 0..100
	Health         fixedpoint.Decimal // 0..100
	Hunger         fixedpoint.Decimal
	Thirst         fixedpoint.Decimal
	Age            uint64 // ticks since BornAtTick, maintained by lifecycle
	Inventory      Inventory
	CarryCapacity  fixedpoint.Decimal
	Knowledge      map[string]struct{}
	Skills         map[string]Skill
	Goals          []string
	Relationships  map[ids.AgentID]fixedpoint.Decimal // see socialgraph for the canonical copy
	Groups         map[ids.GroupID]struct{}
	Alive          bool
	Lifespan       uint64 // ticks; consumed by the lifecycle package's aging curve
}

// Skill tracks a named capability's level and accumulated experience.
type Skill struct {
	Level fixedpoint.Decimal
	XP    fixedpoint.Decimal
}

// NewAgentState returns a freshly spawned agent's mutable state at the
// given location with full vitals.
func NewAgentState(agentID ids.AgentID, loc ids.LocationID, carryCapacity fixedpoint.Decimal) *AgentState {
	return &AgentState{
		AgentID:       agentID,
		Location:      loc,
		Energy:        fixedpoint.FromInt(100),
		Health:        fixedpoint.FromInt(100),
		Inventory:     make(Inventory),
		CarryCapacity: carryCapacity,
		Knowledge:     make(map[string]struct{}),
		Skills:        make(map[string]Skill),
		Relationships: make(map[ids.AgentID]fixedpoint.Decimal),
		Groups:        make(map[ids.GroupID]struct{}),
		Alive:         true,
	}
}

// KnowsAny reports whether the agent knows at least one of ids.
func (s *AgentState) KnowsAny(idsList ...string) bool {
	for _, id := range idsList {
		if _, ok := s.Knowledge[id]; ok {
			return true
		}
	}
	return false
}

// Knows reports whether the agent knows every id given.
func (s *AgentState) Knows(idsList ...string) bool {
	for _, id := range idsList {
		if _, ok := s.Knowledge[id]; !ok {
			return false
		}
	}
	return true
}
