package world

import (
	"sort"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// ResourceNode is one harvestable resource at a Location — design doc
// §3 "base resource nodes". Grounded on the teacher's Hex.Resources
// map[ResourceType]float64, generalized to an open resource-id string
// and exact decimal quantities.
type ResourceNode struct {
	Available    fixedpoint.Decimal
	RegenPerTick fixedpoint.Decimal
	MaxCapacity  fixedpoint.Decimal
}

// Regenerate applies one tick of regrowth, bounded by MaxCapacity.
func (n *ResourceNode) Regenerate() {
	n.Available = n.Available.Add(n.RegenPerTick).Clamp(fixedpoint.Zero, n.MaxCapacity)
}

// Deplete removes qty from the node, bounded at zero. Returns the
// amount actually removed (less than qty if the node ran dry).
func (n *ResourceNode) Deplete(qty fixedpoint.Decimal) fixedpoint.Decimal {
	taken := qty
	if n.Available.Cmp(taken) < 0 {
		taken = n.Available
	}
	n.Available = n.Available.Sub(taken)
	return taken
}

// Location is a node in the world graph — design doc §3 "Location".
type Location struct {
	ID            ids.LocationID
	Name          string
	Region        string
	Kind          string
	Capacity      int
	Resources     map[string]*ResourceNode
	DiscoveredBy  map[ids.AgentID]struct{}
}

// NewLocation builds an empty Location ready to receive resource nodes.
func NewLocation(name, region, kind string, capacity int) *Location {
	return &Location{
		ID:           ids.NewLocationID(),
		Name:         name,
		Region:       region,
		Kind:         kind,
		Capacity:     capacity,
		Resources:    make(map[string]*ResourceNode),
		DiscoveredBy: make(map[ids.AgentID]struct{}),
	}
}

// Discover marks the location as known to agent.
func (l *Location) Discover(agentID ids.AgentID) {
	l.DiscoveredBy[agentID] = struct{}{}
}

// SortedResourceIDs returns the location's resource ids in deterministic
// sorted order — spec.md §5 forbids hash-iteration order in state.
func (l *Location) SortedResourceIDs() []string {
	keys := make([]string, 0, len(l.Resources))
	for k := range l.Resources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Registry owns all Locations, keyed by id — design doc §3 "Ownership
// summary": registries are the sole owner, everyone else references by
// id.
type Registry struct {
	byID map[ids.LocationID]*Location
	order []ids.LocationID
}

// NewRegistry returns an empty location registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[ids.LocationID]*Location)}
}

// Add registers a new location.
func (r *Registry) Add(l *Location) {
	r.byID[l.ID] = l
	r.order = append(r.order, l.ID)
}

// Get looks up a location by id.
func (r *Registry) Get(id ids.LocationID) (*Location, bool) {
	l, ok := r.byID[id]
	return l, ok
}

// All returns every location in registration order (deterministic,
// insertion-ordered — never a Go map iteration).
func (r *Registry) All() []*Location {
	out := make([]*Location, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
