// Package diffusion tracks how knowledge spreads through the population
// over time -- design doc component T. Provides adoption curves,
// penetration metrics, resistance tracking, diffusion speed, and
// identification of knowledge hoarders and innovation leaders. Ported
// from the original simulation's diffusion.rs into the teacher's idiom:
// adoption/rejection records held in maps plus insertion-order slices,
// the pattern already used throughout this module, in place of both the
// original's HashMaps (unordered) and its BTreeMaps (sorted-key order).
// Rates are represented with internal/fixedpoint.Decimal rather than the
// original's f64, consistent with this module's determinism invariant
// that no binary float crosses a result boundary.
package diffusion

import (
	"sort"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// Source describes how an agent acquired a piece of knowledge.
type Source uint8

const (
	SourceIndependent Source = iota
	SourceTaught
	SourceObserved
	SourceInherited
	SourceTrade
)

// Event is one adoption: agentID learned knowledgeID at tick via source.
type Event struct {
	KnowledgeID string
	AgentID     ids.AgentID
	Tick        uint64
	Source      Source
	Teacher     *ids.AgentID // set when Source == SourceTaught
}

// ResistanceRecord is one exposure that did not result in adoption.
type ResistanceRecord struct {
	KnowledgeID string
	AgentID     ids.AgentID
	Tick        uint64
	Reason      string
}

// TickCount pairs a tick with the cumulative adopters as of that tick.
type TickCount struct {
	Tick       uint64
	Cumulative uint32
}

// AdoptionCurve describes how a single knowledge item spread over time.
type AdoptionCurve struct {
	KnowledgeID       string
	FirstAdoptionTick uint64
	AdoptionByTick    []TickCount
	TotalAdopters     uint32
	PeakAdoptionRate  uint32
}

// SourceBreakdown counts adoptions of a knowledge item by source.
type SourceBreakdown struct {
	Independent uint32
	Taught      uint32
	Observed    uint32
	Inherited   uint32
	Trade       uint32
}

type perTickCounts struct {
	counts map[uint64]uint32
	order  []uint64
}

func (p *perTickCounts) add(tick uint64) {
	if p.counts == nil {
		p.counts = make(map[uint64]uint32)
	}
	if _, seen := p.counts[tick]; !seen {
		p.order = append(p.order, tick)
		sort.Slice(p.order, func(i, j int) bool { return p.order[i] < p.order[j] })
	}
	p.counts[tick]++
}

// Tracker is the central accumulator for knowledge diffusion.
type Tracker struct {
	adoptions        map[string][]Event
	adoptionOrder    []string
	rejections       map[string][]ResistanceRecord
	rejectionOrder   []string
	currentHolders   map[string]map[ids.AgentID]struct{}
	holderOrder      map[string][]ids.AgentID
	adoptionsPerTick map[string]*perTickCounts
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{
		adoptions:        make(map[string][]Event),
		rejections:       make(map[string][]ResistanceRecord),
		currentHolders:   make(map[string]map[ids.AgentID]struct{}),
		holderOrder:      make(map[string][]ids.AgentID),
		adoptionsPerTick: make(map[string]*perTickCounts),
	}
}

// RecordAdoption stores event as an adoption, updates the current-holder
// set, and updates the per-tick adoption count.
func (tr *Tracker) RecordAdoption(event Event) {
	kid := event.KnowledgeID

	holders, ok := tr.currentHolders[kid]
	if !ok {
		holders = make(map[ids.AgentID]struct{})
		tr.currentHolders[kid] = holders
	}
	if _, already := holders[event.AgentID]; !already {
		holders[event.AgentID] = struct{}{}
		tr.holderOrder[kid] = append(tr.holderOrder[kid], event.AgentID)
	}

	counts, ok := tr.adoptionsPerTick[kid]
	if !ok {
		counts = &perTickCounts{}
		tr.adoptionsPerTick[kid] = counts
	}
	counts.add(event.Tick)

	if _, ok := tr.adoptions[kid]; !ok {
		tr.adoptionOrder = append(tr.adoptionOrder, kid)
	}
	tr.adoptions[kid] = append(tr.adoptions[kid], event)
}

// RecordRejection stores record as a resistance event.
func (tr *Tracker) RecordRejection(record ResistanceRecord) {
	kid := record.KnowledgeID
	if _, ok := tr.rejections[kid]; !ok {
		tr.rejectionOrder = append(tr.rejectionOrder, kid)
	}
	tr.rejections[kid] = append(tr.rejections[kid], record)
}

// GetAdoptionCurve builds the adoption curve for knowledgeID, or false if
// no adoptions have been recorded for it.
func (tr *Tracker) GetAdoptionCurve(knowledgeID string) (AdoptionCurve, bool) {
	counts, ok := tr.adoptionsPerTick[knowledgeID]
	if !ok || len(counts.order) == 0 {
		return AdoptionCurve{}, false
	}

	var cumulative uint32
	var peak uint32
	byTick := make([]TickCount, 0, len(counts.order))
	for _, tick := range counts.order {
		count := counts.counts[tick]
		cumulative += count
		byTick = append(byTick, TickCount{Tick: tick, Cumulative: cumulative})
		if count > peak {
			peak = count
		}
	}

	return AdoptionCurve{
		KnowledgeID:       knowledgeID,
		FirstAdoptionTick: counts.order[0],
		AdoptionByTick:    byTick,
		TotalAdopters:     cumulative,
		PeakAdoptionRate:  peak,
	}, true
}

// AdoptionRate returns the new-adopters-per-tick rate for knowledgeID
// over the windowSize ticks ending at currentTick.
func (tr *Tracker) AdoptionRate(knowledgeID string, currentTick, windowSize uint64) fixedpoint.Decimal {
	if windowSize == 0 {
		return fixedpoint.Zero
	}
	counts, ok := tr.adoptionsPerTick[knowledgeID]
	if !ok {
		return fixedpoint.Zero
	}
	windowStart := saturatingSub(currentTick, windowSize)
	var totalInWindow uint64
	for _, tick := range counts.order {
		if tick > windowStart && tick <= currentTick {
			totalInWindow += uint64(counts.counts[tick])
		}
	}
	rate, _ := fixedpoint.FromInt(int64(totalInWindow)).Div(fixedpoint.FromInt(int64(windowSize)))
	return rate
}

// PopulationPenetration returns the fraction of totalLiving agents who
// currently hold knowledgeID.
func (tr *Tracker) PopulationPenetration(knowledgeID string, totalLiving uint32) fixedpoint.Decimal {
	if totalLiving == 0 {
		return fixedpoint.Zero
	}
	holderCount := len(tr.holderOrder[knowledgeID])
	penetration, _ := fixedpoint.FromInt(int64(holderCount)).Div(fixedpoint.FromInt(int64(totalLiving)))
	return penetration
}

// DiffusionSpeed returns the ticks from first adoption to 50% population
// penetration, or false if that threshold hasn't been reached.
func (tr *Tracker) DiffusionSpeed(knowledgeID string, totalLiving uint32) (uint64, bool) {
	if totalLiving == 0 {
		return 0, false
	}
	counts, ok := tr.adoptionsPerTick[knowledgeID]
	if !ok || len(counts.order) == 0 {
		return 0, false
	}

	halfPop := totalLiving / 2
	if halfPop == 0 {
		return 0, true
	}

	var cumulative uint32
	firstTick := counts.order[0]
	for _, tick := range counts.order {
		cumulative += counts.counts[tick]
		if cumulative >= halfPop {
			return tick - firstTick, true
		}
	}
	return 0, false
}

// GetKnowledgeHoarders returns every agent holding at least one knowledge
// item known by fewer than thresholdRatio of the population, mapped to
// the rare items they hold.
func (tr *Tracker) GetKnowledgeHoarders(thresholdRatio fixedpoint.Decimal, totalLiving uint32) map[ids.AgentID][]string {
	result := make(map[ids.AgentID][]string)
	if totalLiving == 0 {
		return result
	}

	var kids []string
	for kid := range tr.currentHolders {
		kids = append(kids, kid)
	}
	sort.Strings(kids)

	for _, kid := range kids {
		holders := tr.holderOrder[kid]
		ratio, _ := fixedpoint.FromInt(int64(len(holders))).Div(fixedpoint.FromInt(int64(totalLiving)))
		if ratio.Cmp(thresholdRatio) < 0 {
			for _, agent := range holders {
				result[agent] = append(result[agent], kid)
			}
		}
	}
	return result
}

// ResistanceRate returns the fraction of exposures (adoptions +
// rejections) to knowledgeID that resulted in rejection.
func (tr *Tracker) ResistanceRate(knowledgeID string) fixedpoint.Decimal {
	adoptionCount := len(tr.adoptions[knowledgeID])
	rejectionCount := len(tr.rejections[knowledgeID])
	total := adoptionCount + rejectionCount
	if total == 0 {
		return fixedpoint.Zero
	}
	rate, _ := fixedpoint.FromInt(int64(rejectionCount)).Div(fixedpoint.FromInt(int64(total)))
	return rate
}

// SpeedRank pairs a knowledge item with its diffusion speed.
type SpeedRank struct {
	KnowledgeID string
	Speed       uint64
}

// GetFastestSpreading returns every item that has reached 50% population
// penetration, fastest first.
func (tr *Tracker) GetFastestSpreading(totalLiving uint32) []SpeedRank {
	var kids []string
	for kid := range tr.adoptionsPerTick {
		kids = append(kids, kid)
	}
	sort.Strings(kids)

	var out []SpeedRank
	for _, kid := range kids {
		if speed, ok := tr.DiffusionSpeed(kid, totalLiving); ok {
			out = append(out, SpeedRank{KnowledgeID: kid, Speed: speed})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Speed < out[j].Speed })
	return out
}

// ResistanceRank pairs a knowledge item with its resistance rate.
type ResistanceRank struct {
	KnowledgeID string
	Rate        fixedpoint.Decimal
}

// GetSlowestSpreading returns every knowledge item with at least one
// recorded adoption or rejection, ranked by descending resistance rate.
func (tr *Tracker) GetSlowestSpreading() []ResistanceRank {
	seen := make(map[string]struct{})
	var kids []string
	for _, kid := range tr.adoptionOrder {
		if _, ok := seen[kid]; !ok {
			seen[kid] = struct{}{}
			kids = append(kids, kid)
		}
	}
	for _, kid := range tr.rejectionOrder {
		if _, ok := seen[kid]; !ok {
			seen[kid] = struct{}{}
			kids = append(kids, kid)
		}
	}
	sort.Strings(kids)

	out := make([]ResistanceRank, len(kids))
	for i, kid := range kids {
		out[i] = ResistanceRank{KnowledgeID: kid, Rate: tr.ResistanceRate(kid)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate.Cmp(out[j].Rate) > 0 })
	return out
}

// AdoptionBySource returns the source breakdown for knowledgeID.
func (tr *Tracker) AdoptionBySource(knowledgeID string) SourceBreakdown {
	var breakdown SourceBreakdown
	for _, event := range tr.adoptions[knowledgeID] {
		switch event.Source {
		case SourceIndependent:
			breakdown.Independent++
		case SourceTaught:
			breakdown.Taught++
		case SourceObserved:
			breakdown.Observed++
		case SourceInherited:
			breakdown.Inherited++
		case SourceTrade:
			breakdown.Trade++
		}
	}
	return breakdown
}

// LeaderCount pairs an agent with their independent-discovery count.
type LeaderCount struct {
	Agent ids.AgentID
	Count uint32
}

// GetInnovationLeaders ranks agents by number of independent discoveries,
// most first.
func (tr *Tracker) GetInnovationLeaders() []LeaderCount {
	counts := make(map[ids.AgentID]uint32)
	var order []ids.AgentID
	for _, kid := range tr.adoptionOrder {
		for _, event := range tr.adoptions[kid] {
			if event.Source != SourceIndependent {
				continue
			}
			if _, ok := counts[event.AgentID]; !ok {
				order = append(order, event.AgentID)
			}
			counts[event.AgentID]++
		}
	}
	out := make([]LeaderCount, len(order))
	for i, agent := range order {
		out[i] = LeaderCount{Agent: agent, Count: counts[agent]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// AdoptionCount, RejectionCount, and CurrentHolderCount report simple
// counts for knowledgeID.
func (tr *Tracker) AdoptionCount(knowledgeID string) int { return len(tr.adoptions[knowledgeID]) }
func (tr *Tracker) RejectionCount(knowledgeID string) int {
	return len(tr.rejections[knowledgeID])
}
func (tr *Tracker) CurrentHolderCount(knowledgeID string) int {
	return len(tr.holderOrder[knowledgeID])
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
