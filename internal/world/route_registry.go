package world

import "github.com/talgya/emergence/internal/ids"

// RouteRegistry owns all Routes, keyed by id — same ownership model as
// Registry for Locations (design doc §3 "Ownership summary").
type RouteRegistry struct {
	byID  map[ids.RouteID]*Route
	order []ids.RouteID
}

// NewRouteRegistry returns an empty route registry.
func NewRouteRegistry() *RouteRegistry {
	return &RouteRegistry{byID: make(map[ids.RouteID]*Route)}
}

// Add registers a new route.
func (r *RouteRegistry) Add(route *Route) {
	r.byID[route.ID] = route
	r.order = append(r.order, route.ID)
}

// Get looks up a route by id.
func (r *RouteRegistry) Get(id ids.RouteID) (*Route, bool) {
	rt, ok := r.byID[id]
	return rt, ok
}

// All returns every route in registration order.
func (r *RouteRegistry) All() []*Route {
	out := make([]*Route, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// FromLocation returns every route whose From (or To, if Bidirectional)
// equals loc, in registration order.
func (r *RouteRegistry) FromLocation(loc ids.LocationID) []*Route {
	var out []*Route
	for _, id := range r.order {
		rt := r.byID[id]
		if rt.From == loc || (rt.Bidirectional && rt.To == loc) {
			out = append(out, rt)
		}
	}
	return out
}
