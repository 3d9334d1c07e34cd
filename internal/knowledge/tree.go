// Package knowledge provides the per-agent known set, the prerequisite
// DAG (tech tree), probabilistic discovery, and teaching — design doc
// component G. Grounded on the teacher's static-table idiom
// (agents/archetype.go's archetypeTemplates map) generalized from a
// fixed behavior-template table to an open, runtime-extensible DAG, as
// component H (innovation) requires.
package knowledge

import "fmt"

// Item is one node in the tech tree — design doc §3 "Knowledge item".
type Item struct {
	ID            string
	Name          string
	Era           string
	Prerequisites []string
	Description   string
	Unlocks       string
}

// Tree is the prerequisite DAG. Items may be added but never removed —
// design doc §3 invariant.
type Tree struct {
	items map[string]Item
	order []string // insertion order, for deterministic enumeration
}

// NewTree returns an empty tech tree.
func NewTree() *Tree {
	return &Tree{items: make(map[string]Item)}
}

// Has reports whether id exists in the tree.
func (t *Tree) Has(id string) bool {
	_, ok := t.items[id]
	return ok
}

// Get returns the item for id.
func (t *Tree) Get(id string) (Item, bool) {
	it, ok := t.items[id]
	return it, ok
}

// All returns every item in insertion order (deterministic).
func (t *Tree) All() []Item {
	out := make([]Item, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.items[id])
	}
	return out
}

// Add inserts item into the tree, rejecting it if any prerequisite is
// unknown or if adding it would introduce a cycle — design doc §3
// invariant "every prerequisite id exists... the DAG is acyclic".
func (t *Tree) Add(item Item) error {
	if t.Has(item.ID) {
		return fmt.Errorf("knowledge: item %q already exists", item.ID)
	}
	for _, prereq := range item.Prerequisites {
		if !t.Has(prereq) {
			return fmt.Errorf("knowledge: prerequisite %q of %q does not exist in the tree", prereq, item.ID)
		}
	}
	// Acyclic by construction: every prerequisite must already be present
	// before item is added, so a new item can never be its own ancestor.
	t.items[item.ID] = item
	t.order = append(t.order, item.ID)
	return nil
}

// SeedTree returns a tech tree pre-populated with the seed-knowledge
// curriculum of design doc §4.G, levels 0-5 cumulative.
func SeedTree() *Tree {
	t := NewTree()
	for _, level := range seedCurriculum {
		for _, item := range level {
			if err := t.Add(item); err != nil {
				// The static curriculum is constructed by hand below and is
				// guaranteed acyclic and prerequisite-complete; a failure here
				// is a programming error in this file, not a runtime
				// condition a caller can recover from.
				panic(fmt.Sprintf("knowledge: seed curriculum is malformed: %v", err))
			}
		}
	}
	return t
}

// seedCurriculum is levels 0 through 5, cumulative, matching design doc
// §4.G: "Level 0 = {exist, perceive, move, basic_communication};
// subsequent levels add survival, building, social, metalworking, etc."
var seedCurriculum = [][]Item{
	{ // Level 0
		{ID: "exist", Name: "Exist", Era: "seed"},
		{ID: "perceive", Name: "Perceive", Era: "seed"},
		{ID: "move", Name: "Move", Era: "seed"},
		{ID: "basic_communication", Name: "Basic Communication", Era: "seed"},
	},
	{ // Level 1
		{ID: "gather_food", Name: "Gather Food", Era: "seed", Prerequisites: []string{"move"}},
		{ID: "forage_water", Name: "Forage Water", Era: "seed", Prerequisites: []string{"move"}},
		{ID: "basic_shelter", Name: "Basic Shelter", Era: "seed", Prerequisites: []string{"perceive"}},
	},
	{ // Level 2
		{ID: "build_campfire", Name: "Build Campfire", Era: "survival", Prerequisites: []string{"basic_shelter"}},
		{ID: "basic_construction", Name: "Basic Construction", Era: "survival", Prerequisites: []string{"basic_shelter"}},
		{ID: "social_bonding", Name: "Social Bonding", Era: "survival", Prerequisites: []string{"basic_communication"}},
	},
	{ // Level 3
		{ID: "basic_crafting", Name: "Basic Crafting", Era: "building", Prerequisites: []string{"basic_construction"}},
		{ID: "basic_engineering", Name: "Basic Engineering", Era: "building", Prerequisites: []string{"basic_construction"}},
		{ID: "group_formation", Name: "Group Formation", Era: "social", Prerequisites: []string{"social_bonding"}},
	},
	{ // Level 4
		{ID: "architecture", Name: "Architecture", Era: "building", Prerequisites: []string{"basic_engineering"}},
		{ID: "bridge_building", Name: "Bridge Building", Era: "building", Prerequisites: []string{"basic_engineering"}},
		{ID: "governance", Name: "Governance", Era: "social", Prerequisites: []string{"group_formation"}},
	},
	{ // Level 5
		{ID: "metalworking", Name: "Metalworking", Era: "metalworking", Prerequisites: []string{"basic_crafting"}},
		{ID: "trade_economics", Name: "Trade Economics", Era: "social", Prerequisites: []string{"governance"}},
	},
}

// SeedLevelOf returns the index (0-5) of the curriculum level that first
// defines id, or -1 if id is not a seed-curriculum item (e.g. a
// runtime-discovered or innovation-registered node). Levels above 5
// collapse to 5, per design doc §4.G.
func SeedLevelOf(id string) int {
	for levelIdx, level := range seedCurriculum {
		for _, item := range level {
			if item.ID == id {
				if levelIdx > 5 {
					return 5
				}
				return levelIdx
			}
		}
	}
	return -1
}

// CanDiscover reports whether concept can be discovered given known —
// design doc §4.G: exists in the tree, not already known, every
// prerequisite known.
func CanDiscover(t *Tree, concept string, known map[string]struct{}) bool {
	item, ok := t.Get(concept)
	if !ok {
		return false
	}
	if _, already := known[concept]; already {
		return false
	}
	for _, prereq := range item.Prerequisites {
		if _, ok := known[prereq]; !ok {
			return false
		}
	}
	return true
}

// AvailableDiscoveries returns every concept id in the tree currently
// discoverable given known, in deterministic tree-insertion order.
func AvailableDiscoveries(t *Tree, known map[string]struct{}) []string {
	var out []string
	for _, id := range t.order {
		if CanDiscover(t, id, known) {
			out = append(out, id)
		}
	}
	return out
}
