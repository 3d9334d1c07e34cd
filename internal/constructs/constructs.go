// Package constructs implements the social-construct registry — design
// doc component M. Emergent institutions (religions, governments,
// economic systems, family units, cultural traditions) with an
// append-only evolution history. Ported from the original simulation's
// constructs.rs (register/disband/add_member/remove_member/
// update_property/merge/schism semantics, including merge's
// larger-absorbs-smaller tie-break and schism's member-subset split),
// into the teacher's idiom: a Registry map keyed by the module's own
// ids.ConstructID rather than a bare uuid.Uuid.
package constructs

import (
	"fmt"

	"github.com/talgya/emergence/internal/ids"
)

// Category classifies a construct for analytics and perception.
type Category uint8

const (
	CategoryReligion Category = iota
	CategoryGovernance
	CategoryEconomic
	CategoryFamily
	CategoryCultural
)

// EventType is the kind of change recorded in a construct's history.
type EventType uint8

const (
	EventFounded EventType = iota
	EventMemberJoined
	EventMemberLeft
	EventPropertyChanged
	EventLeaderChanged
	EventSchism
	EventMerged
	EventDisbanded
)

// Event is one append-only entry in a construct's evolution history —
// never removed or edited once appended, per design doc invariant.
type Event struct {
	Tick        uint64
	Type        EventType
	Description string
	AgentID     *ids.AgentID
}

// Construct is one emergent social institution.
type Construct struct {
	ID               ids.ConstructID
	Name             string
	Category         Category
	FoundedBy        *ids.AgentID
	FoundedAtTick    uint64
	DisbandedAtTick  *uint64
	Adherents        map[ids.AgentID]struct{}
	Properties       map[string]string
	EvolutionHistory []Event
}

// IsActive reports whether the construct has not been disbanded.
func (c *Construct) IsActive() bool { return c.DisbandedAtTick == nil }

// AdherentCount returns the number of current members.
func (c *Construct) AdherentCount() int { return len(c.Adherents) }

// Registry holds every construct in the simulation.
type Registry struct {
	constructs map[ids.ConstructID]*Construct
	order      []ids.ConstructID
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{constructs: make(map[ids.ConstructID]*Construct)}
}

// Register creates and stores a new construct, adding founder (if any)
// as its first adherent and recording a Founded event.
func (r *Registry) Register(name string, category Category, founder *ids.AgentID, tick uint64, initialProperties map[string]string) ids.ConstructID {
	id := ids.NewConstructID()
	adherents := make(map[ids.AgentID]struct{})
	founderDesc := "(system)"
	if founder != nil {
		adherents[*founder] = struct{}{}
		founderDesc = founder.String()
	}
	if initialProperties == nil {
		initialProperties = make(map[string]string)
	}
	c := &Construct{
		ID: id, Name: name, Category: category, FoundedBy: founder, FoundedAtTick: tick,
		Adherents: adherents, Properties: initialProperties,
		EvolutionHistory: []Event{{Tick: tick, Type: EventFounded, Description: "Founded by " + founderDesc, AgentID: founder}},
	}
	r.constructs[id] = c
	r.order = append(r.order, id)
	return id
}

// Get returns the construct for id.
func (r *Registry) Get(id ids.ConstructID) (*Construct, bool) {
	c, ok := r.constructs[id]
	return c, ok
}

func (r *Registry) mustGet(id ids.ConstructID) (*Construct, error) {
	c, ok := r.constructs[id]
	if !ok {
		return nil, fmt.Errorf("constructs: construct %s not found", id)
	}
	return c, nil
}

// Disband marks a construct disbanded and clears its adherents.
func (r *Registry) Disband(id ids.ConstructID, tick uint64, agentID *ids.AgentID) error {
	c, err := r.mustGet(id)
	if err != nil {
		return err
	}
	if c.DisbandedAtTick != nil {
		return fmt.Errorf("constructs: construct %s is already disbanded", id)
	}
	c.DisbandedAtTick = &tick
	c.Adherents = make(map[ids.AgentID]struct{})
	c.EvolutionHistory = append(c.EvolutionHistory, Event{Tick: tick, Type: EventDisbanded, Description: "Construct disbanded", AgentID: agentID})
	return nil
}

// AddMember adds agentID as an adherent of id.
func (r *Registry) AddMember(id ids.ConstructID, agentID ids.AgentID, tick uint64) error {
	c, err := r.mustGet(id)
	if err != nil {
		return err
	}
	if c.DisbandedAtTick != nil {
		return fmt.Errorf("constructs: cannot join disbanded construct %s", id)
	}
	c.Adherents[agentID] = struct{}{}
	c.EvolutionHistory = append(c.EvolutionHistory, Event{Tick: tick, Type: EventMemberJoined, Description: fmt.Sprintf("Agent %s joined", agentID), AgentID: &agentID})
	return nil
}

// RemoveMember removes agentID from id's adherents. Idempotent: no
// error if the agent was not a member.
func (r *Registry) RemoveMember(id ids.ConstructID, agentID ids.AgentID, tick uint64) error {
	c, err := r.mustGet(id)
	if err != nil {
		return err
	}
	delete(c.Adherents, agentID)
	c.EvolutionHistory = append(c.EvolutionHistory, Event{Tick: tick, Type: EventMemberLeft, Description: fmt.Sprintf("Agent %s left", agentID), AgentID: &agentID})
	return nil
}

// UpdateProperty upserts a property on id, recording the change.
func (r *Registry) UpdateProperty(id ids.ConstructID, key, value string, tick uint64, agentID *ids.AgentID) error {
	c, err := r.mustGet(id)
	if err != nil {
		return err
	}
	if c.DisbandedAtTick != nil {
		return fmt.Errorf("constructs: cannot update disbanded construct %s", id)
	}
	c.Properties[key] = value
	c.EvolutionHistory = append(c.EvolutionHistory, Event{Tick: tick, Type: EventPropertyChanged, Description: fmt.Sprintf("Property %q set to %q", key, value), AgentID: agentID})
	return nil
}

// ByCategory returns every construct matching category, in registration
// order.
func (r *Registry) ByCategory(category Category) []*Construct {
	var out []*Construct
	for _, id := range r.order {
		c := r.constructs[id]
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// AgentConstructs returns every construct agentID belongs to.
func (r *Registry) AgentConstructs(agentID ids.AgentID) []*Construct {
	var out []*Construct
	for _, id := range r.order {
		c := r.constructs[id]
		if _, ok := c.Adherents[agentID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// ActiveCount returns the number of non-disbanded constructs.
func (r *Registry) ActiveCount() int {
	count := 0
	for _, id := range r.order {
		if r.constructs[id].IsActive() {
			count++
		}
	}
	return count
}

// Merge absorbs the smaller construct (by adherent count) into the
// larger, disbanding the smaller. Ties favor constructA as survivor.
// Returns the surviving construct's id.
func (r *Registry) Merge(constructA, constructB ids.ConstructID, tick uint64, agentID *ids.AgentID) (ids.ConstructID, error) {
	if constructA == constructB {
		return ids.ConstructID{}, fmt.Errorf("constructs: cannot merge a construct with itself")
	}
	a, err := r.mustGet(constructA)
	if err != nil {
		return ids.ConstructID{}, err
	}
	b, err := r.mustGet(constructB)
	if err != nil {
		return ids.ConstructID{}, err
	}

	survivorID, victimID := constructA, constructB
	if b.AdherentCount() > a.AdherentCount() {
		survivorID, victimID = constructB, constructA
	}

	victim, err := r.mustGet(victimID)
	if err != nil {
		return ids.ConstructID{}, err
	}
	if victim.DisbandedAtTick != nil {
		return ids.ConstructID{}, fmt.Errorf("constructs: construct %s is already disbanded", victimID)
	}
	mergedMembers := make([]ids.AgentID, 0, len(victim.Adherents))
	for member := range victim.Adherents {
		mergedMembers = append(mergedMembers, member)
	}
	mergedName := victim.Name

	if err := r.Disband(victimID, tick, agentID); err != nil {
		return ids.ConstructID{}, err
	}

	survivor, err := r.mustGet(survivorID)
	if err != nil {
		return ids.ConstructID{}, err
	}
	if survivor.DisbandedAtTick != nil {
		return ids.ConstructID{}, fmt.Errorf("constructs: construct %s is already disbanded", survivorID)
	}
	for _, member := range mergedMembers {
		survivor.Adherents[member] = struct{}{}
	}
	survivor.EvolutionHistory = append(survivor.EvolutionHistory, Event{
		Tick: tick, Type: EventMerged, Description: fmt.Sprintf("Merged with %q (%s)", mergedName, victimID), AgentID: agentID,
	})
	return survivorID, nil
}

// Schism removes splinterMembers from original and creates a new
// construct named splinterName containing exactly those members.
func (r *Registry) Schism(originalID ids.ConstructID, splinterName string, splinterMembers map[ids.AgentID]struct{}, tick uint64, agentID *ids.AgentID) (ids.ConstructID, error) {
	original, err := r.mustGet(originalID)
	if err != nil {
		return ids.ConstructID{}, err
	}
	if original.DisbandedAtTick != nil {
		return ids.ConstructID{}, fmt.Errorf("constructs: cannot split disbanded construct %s", originalID)
	}
	if len(splinterMembers) == 0 {
		return ids.ConstructID{}, fmt.Errorf("constructs: schism requires at least one splinter member")
	}

	for member := range splinterMembers {
		delete(original.Adherents, member)
	}
	category := original.Category
	original.EvolutionHistory = append(original.EvolutionHistory, Event{
		Tick: tick, Type: EventSchism, Description: fmt.Sprintf("Schism: %q split off", splinterName), AgentID: agentID,
	})

	splinterID := ids.NewConstructID()
	members := make(map[ids.AgentID]struct{}, len(splinterMembers))
	for member := range splinterMembers {
		members[member] = struct{}{}
	}
	splinter := &Construct{
		ID: splinterID, Name: splinterName, Category: category, FoundedBy: agentID, FoundedAtTick: tick,
		Adherents: members, Properties: make(map[string]string),
		EvolutionHistory: []Event{{Tick: tick, Type: EventFounded, Description: fmt.Sprintf("Founded via schism from construct %s", originalID), AgentID: agentID}},
	}
	r.constructs[splinterID] = splinter
	r.order = append(r.order, splinterID)
	return splinterID, nil
}
