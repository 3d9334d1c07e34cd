// Package propaganda implements the propaganda board — design doc
// component O. Location-bound public declarations that shape how
// newcomers perceive local culture and norms without mechanically
// enforcing anything. Ported from the original simulation's
// propaganda.rs (post/counter-propaganda/auto-expire/influence-
// aggregation/reach semantics), into the teacher's idiom: a Board
// holding posts in a map plus an insertion-order slice and per-location/
// per-author index maps, the same layered-index shape
// internal/knowledge/tree.go uses for its prerequisite lookups.
package propaganda

import (
	"fmt"
	"sort"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// Type classifies a propaganda post.
type Type uint8

const (
	TypeDeclaration Type = iota
	TypeRecruitment
	TypeWarning
	TypeTribute
	TypeHistory
	TypeDoctrine
)

// DefaultExpiryTicks is the post lifetime used when AutoExpire is
// called without an explicit override.
const DefaultExpiryTicks uint64 = 500

// counterPropagandaPenalty is how much a counter-post weakens an
// opposing post's influence.
var counterPropagandaPenalty = fixedpoint.FromPer10000(1500) // 0.15

// Post is a persistent declaration anchored to a location.
type Post struct {
	ID                  ids.PropagandaPostID
	Author              ids.AgentID
	Location            ids.LocationID
	TickPosted          uint64
	Type                Type
	Content             string
	AssociatedConstruct *ids.ConstructID
	InfluenceStrength   fixedpoint.Decimal
	Expired             bool
}

// Influence aggregates the total pull of every active post at a
// location sharing a (construct, type) pairing.
type Influence struct {
	SourceType          Type
	ContentSummary      string
	TotalInfluence      fixedpoint.Decimal
	AssociatedConstruct *ids.ConstructID
	PostCount           uint32
}

// Params bundles the arguments to Post/CounterPropaganda.
type Params struct {
	Author              ids.AgentID
	Location            ids.LocationID
	Tick                uint64
	Type                Type
	Content             string
	AssociatedConstruct *ids.ConstructID
	InfluenceStrength   fixedpoint.Decimal
}

// Board is the central registry of every propaganda post.
type Board struct {
	posts         map[ids.PropagandaPostID]*Post
	order         []ids.PropagandaPostID
	locationIndex map[ids.LocationID][]ids.PropagandaPostID
	authorIndex   map[ids.AgentID][]ids.PropagandaPostID
	visitLog      map[ids.LocationID]map[ids.AgentID]uint64
}

// New returns an empty board.
func New() *Board {
	return &Board{
		posts:         make(map[ids.PropagandaPostID]*Post),
		locationIndex: make(map[ids.LocationID][]ids.PropagandaPostID),
		authorIndex:   make(map[ids.AgentID][]ids.PropagandaPostID),
		visitLog:      make(map[ids.LocationID]map[ids.AgentID]uint64),
	}
}

func clampInfluence(value fixedpoint.Decimal) fixedpoint.Decimal {
	return value.Clamp(fixedpoint.Zero, fixedpoint.One)
}

// Post creates a new propaganda post, clamping its influence strength
// to [0,1], and returns the new post's id.
func (b *Board) Post(p Params) ids.PropagandaPostID {
	id := ids.NewPropagandaPostID()
	post := &Post{
		ID: id, Author: p.Author, Location: p.Location, TickPosted: p.Tick,
		Type: p.Type, Content: p.Content, AssociatedConstruct: p.AssociatedConstruct,
		InfluenceStrength: clampInfluence(p.InfluenceStrength),
	}
	b.posts[id] = post
	b.order = append(b.order, id)
	b.locationIndex[p.Location] = append(b.locationIndex[p.Location], id)
	b.authorIndex[p.Author] = append(b.authorIndex[p.Author], id)
	return id
}

// PostsAtLocation returns every active post at location, in posting
// order.
func (b *Board) PostsAtLocation(location ids.LocationID) []*Post {
	var out []*Post
	for _, id := range b.locationIndex[location] {
		if post := b.posts[id]; !post.Expired {
			out = append(out, post)
		}
	}
	return out
}

// PostsByAuthor returns every post (expired or not) made by author.
func (b *Board) PostsByAuthor(author ids.AgentID) []*Post {
	var out []*Post
	for _, id := range b.authorIndex[author] {
		out = append(out, b.posts[id])
	}
	return out
}

// PostsByType returns every active post of the given type.
func (b *Board) PostsByType(t Type) []*Post {
	var out []*Post
	for _, id := range b.order {
		post := b.posts[id]
		if !post.Expired && post.Type == t {
			out = append(out, post)
		}
	}
	return out
}

// PostsForConstruct returns every active post linked to constructID.
func (b *Board) PostsForConstruct(constructID ids.ConstructID) []*Post {
	var out []*Post
	for _, id := range b.order {
		post := b.posts[id]
		if post.Expired || post.AssociatedConstruct == nil {
			continue
		}
		if *post.AssociatedConstruct == constructID {
			out = append(out, post)
		}
	}
	return out
}

// Expire manually marks postID expired.
func (b *Board) Expire(postID ids.PropagandaPostID) error {
	post, ok := b.posts[postID]
	if !ok {
		return fmt.Errorf("propaganda: post %s not found", postID)
	}
	post.Expired = true
	return nil
}

// AutoExpire expires every non-expired post older than maxAgeTicks
// (DefaultExpiryTicks when maxAgeTicks is nil), returning the number
// of posts newly expired.
func (b *Board) AutoExpire(currentTick uint64, maxAgeTicks *uint64) uint32 {
	maxAge := DefaultExpiryTicks
	if maxAgeTicks != nil {
		maxAge = *maxAgeTicks
	}
	threshold := uint64(0)
	if currentTick > maxAge {
		threshold = currentTick - maxAge
	}
	var count uint32
	for _, id := range b.order {
		post := b.posts[id]
		if !post.Expired && post.TickPosted < threshold {
			post.Expired = true
			count++
		}
	}
	return count
}

type groupKey struct {
	construct *ids.ConstructID
	kind      Type
}

// InfluenceOnNewcomer aggregates active-post influence at location,
// grouped by (construct, type), in first-seen order.
func (b *Board) InfluenceOnNewcomer(location ids.LocationID) []Influence {
	active := b.PostsAtLocation(location)
	if len(active) == 0 {
		return nil
	}

	var order []groupKey
	totals := make(map[groupKey]*Influence)
	for _, post := range active {
		key := groupKey{construct: post.AssociatedConstruct, kind: post.Type}
		entry, ok := totals[key]
		if !ok {
			entry = &Influence{SourceType: post.Type, AssociatedConstruct: post.AssociatedConstruct, ContentSummary: post.Content}
			totals[key] = entry
			order = append(order, key)
		}
		entry.TotalInfluence = entry.TotalInfluence.Add(post.InfluenceStrength)
		entry.PostCount++
	}

	out := make([]Influence, 0, len(order))
	for _, key := range order {
		out = append(out, *totals[key])
	}
	return out
}

// CounterPropaganda weakens every active opposing post at the target
// location (same construct or same type, different author) by
// counterPropagandaPenalty, then posts the counter-message. Returns the
// new post's id and the number of posts weakened.
func (b *Board) CounterPropaganda(p Params) (ids.PropagandaPostID, uint32) {
	var weakened uint32
	for _, id := range b.locationIndex[p.Location] {
		post := b.posts[id]
		if post.Expired || post.Author == p.Author {
			continue
		}
		matchesConstruct := p.AssociatedConstruct != nil && post.AssociatedConstruct != nil && *post.AssociatedConstruct == *p.AssociatedConstruct
		matchesType := post.Type == p.Type
		if matchesConstruct || matchesType {
			post.InfluenceStrength = clampInfluence(post.InfluenceStrength.Sub(counterPropagandaPenalty))
			weakened++
		}
	}
	return b.Post(p), weakened
}

// LocationRanking is one entry in MostPropagandizedLocations's result.
type LocationRanking struct {
	Location ids.LocationID
	Count    uint32
}

// MostPropagandizedLocations returns every location with active posts,
// descending by active post count, ties broken by LocationID for
// determinism.
func (b *Board) MostPropagandizedLocations() []LocationRanking {
	counts := make(map[ids.LocationID]uint32)
	var locOrder []ids.LocationID
	for _, id := range b.order {
		post := b.posts[id]
		if post.Expired {
			continue
		}
		if _, seen := counts[post.Location]; !seen {
			locOrder = append(locOrder, post.Location)
		}
		counts[post.Location]++
	}
	sort.SliceStable(locOrder, func(i, j int) bool {
		if counts[locOrder[i]] != counts[locOrder[j]] {
			return counts[locOrder[i]] > counts[locOrder[j]]
		}
		return locOrder[i].Compare(locOrder[j]) < 0
	})
	out := make([]LocationRanking, 0, len(locOrder))
	for _, loc := range locOrder {
		out = append(out, LocationRanking{Location: loc, Count: counts[loc]})
	}
	return out
}

// RecordVisit records agentID's first visit to location at tick; later
// calls for the same (location, agent) are no-ops.
func (b *Board) RecordVisit(location ids.LocationID, agentID ids.AgentID, tick uint64) {
	visits, ok := b.visitLog[location]
	if !ok {
		visits = make(map[ids.AgentID]uint64)
		b.visitLog[location] = visits
	}
	if _, ok := visits[agentID]; !ok {
		visits[agentID] = tick
	}
}

// PropagandaReach counts agents who visited postID's location at or
// after it was posted.
func (b *Board) PropagandaReach(postID ids.PropagandaPostID) uint32 {
	post, ok := b.posts[postID]
	if !ok {
		return 0
	}
	var count uint32
	for _, visitTick := range b.visitLog[post.Location] {
		if visitTick >= post.TickPosted {
			count++
		}
	}
	return count
}
