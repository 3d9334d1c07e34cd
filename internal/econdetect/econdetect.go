// Package econdetect implements the economic-system detection layer --
// design doc component S. A passive analysis layer over recorded trades
// and resource transfers: currency detection, employment and taxation
// pattern detection, market-location detection, overall economic-model
// classification (subsistence/barter/market/command/feudal), and Gini
// coefficient wealth-distribution analysis. Ported from the original
// simulation's economy_detection.rs into the teacher's idiom. Resources
// are represented as plain strings, matching internal/trade's convention
// rather than the original's closed Resource enum.
package econdetect

import (
	"sort"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// Indicator names a detected economic phenomenon.
type Indicator uint8

const (
	IndicatorBarter Indicator = iota
	IndicatorCurrencyAdoption
	IndicatorEmployment
	IndicatorTaxation
	IndicatorLending
	IndicatorMarketFormation
	IndicatorMonopoly
	IndicatorCommunal
)

// Event is a recorded economic phenomenon for observer analytics.
type Event struct {
	Tick          uint64
	Indicator     Indicator
	AgentsInvolved []ids.AgentID
	Details       string
}

// Model is the overall economic model classification.
type Model uint8

const (
	ModelSubsistence Model = iota
	ModelBarter
	ModelMarketEconomy
	ModelCommandEconomy
	ModelFeudal
)

const (
	minTradesForCurrency  = 5
	marketTradeThreshold  = 3
	minTradesForCandidate = 3
)

var (
	currencyThreshold  = fixedpoint.FromPer10000(6000) // 0.6
	candidateThreshold = fixedpoint.FromPer10000(4000) // 0.4
)

type tradeRecord struct {
	tick     uint64
	agentA   ids.AgentID
	agentB   ids.AgentID
	gave     map[string]uint32
	received map[string]uint32
	location ids.LocationID
}

type transferRecord struct {
	tick      uint64
	fromAgent ids.AgentID
	toAgent   ids.AgentID
	resources map[string]uint32
}

// Detector observes trades and transfers within a rolling tick window
// and derives economic pattern classifications from them.
type Detector struct {
	trades     []tradeRecord
	transfers  []transferRecord
	events     []Event
	windowSize uint64
}

// New returns a detector that looks back windowSize ticks when analyzing
// patterns.
func New(windowSize uint64) *Detector {
	return &Detector{windowSize: windowSize}
}

// RecordTrade logs a trade where agentA gave gave and received received.
func (d *Detector) RecordTrade(tick uint64, agentA, agentB ids.AgentID, gave, received map[string]uint32, location ids.LocationID) {
	d.trades = append(d.trades, tradeRecord{tick: tick, agentA: agentA, agentB: agentB, gave: gave, received: received, location: location})
}

// RecordResourceTransfer logs a non-trade transfer (gift, tax, tribute).
func (d *Detector) RecordResourceTransfer(tick uint64, fromAgent, toAgent ids.AgentID, resources map[string]uint32) {
	d.transfers = append(d.transfers, transferRecord{tick: tick, fromAgent: fromAgent, toAgent: toAgent, resources: resources})
}

// ResourceRatio pairs a resource with the fraction of trades it appeared in.
type ResourceRatio struct {
	Resource string
	Ratio    fixedpoint.Decimal
}

// DetectCurrency returns resources appearing on either side of more than
// 60% of trades within the window, sorted by descending frequency. If
// fewer than minTradesForCurrency trades fall in the window, returns nil.
func (d *Detector) DetectCurrency(currentTick uint64) []ResourceRatio {
	return d.resourceRatios(currentTick, minTradesForCurrency, currencyThreshold)
}

// GetCurrencyCandidates uses a lower 40% threshold and a lower trade-count
// floor, for exploratory analysis.
func (d *Detector) GetCurrencyCandidates(currentTick uint64) []ResourceRatio {
	return d.resourceRatios(currentTick, minTradesForCandidate, candidateThreshold)
}

func (d *Detector) resourceRatios(currentTick uint64, minTrades int, threshold fixedpoint.Decimal) []ResourceRatio {
	windowStart := saturatingSub(currentTick, d.windowSize)
	var recent []tradeRecord
	for _, tr := range d.trades {
		if tr.tick >= windowStart {
			recent = append(recent, tr)
		}
	}
	if len(recent) < minTrades {
		return nil
	}

	counts := make(map[string]uint32)
	var order []string
	for _, tr := range recent {
		seen := make(map[string]struct{})
		for r := range tr.gave {
			seen[r] = struct{}{}
		}
		for r := range tr.received {
			seen[r] = struct{}{}
		}
		for r := range seen {
			if _, ok := counts[r]; !ok {
				order = append(order, r)
			}
			counts[r]++
		}
	}
	sort.Strings(order)

	tradeCount := fixedpoint.FromInt(int64(len(recent)))
	var candidates []ResourceRatio
	for _, r := range order {
		ratio, _ := fixedpoint.FromInt(int64(counts[r])).Div(tradeCount)
		if ratio.Cmp(threshold) > 0 {
			candidates = append(candidates, ResourceRatio{Resource: r, Ratio: ratio})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Ratio.Cmp(candidates[j].Ratio) > 0 })
	return candidates
}

// EmploymentPair is a detected employer/employee relationship.
type EmploymentPair struct {
	Employer ids.AgentID
	Employee ids.AgentID
}

// DetectEmployment returns (employer, employee) pairs where the employer
// transferred resources to the employee 3 or more times in the window.
func (d *Detector) DetectEmployment(currentTick uint64) []EmploymentPair {
	windowStart := saturatingSub(currentTick, d.windowSize)
	type key struct {
		from, to ids.AgentID
	}
	counts := make(map[key]uint32)
	var order []key
	for _, tr := range d.transfers {
		if tr.tick < windowStart {
			continue
		}
		k := key{from: tr.fromAgent, to: tr.toAgent}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
		}
		counts[k]++
	}
	var out []EmploymentPair
	for _, k := range order {
		if counts[k] >= 3 {
			out = append(out, EmploymentPair{Employer: k.from, Employee: k.to})
		}
	}
	return out
}

// TaxationRecord names a collector and the distinct agents who paid them.
type TaxationRecord struct {
	Collector ids.AgentID
	Payers    []ids.AgentID
}

// DetectTaxation returns collectors who received transfers from 3 or
// more distinct payers within the window.
func (d *Detector) DetectTaxation(currentTick uint64) []TaxationRecord {
	windowStart := saturatingSub(currentTick, d.windowSize)
	payerSets := make(map[ids.AgentID]map[ids.AgentID]struct{})
	var collectorOrder []ids.AgentID
	var payerOrder = make(map[ids.AgentID][]ids.AgentID)

	for _, tr := range d.transfers {
		if tr.tick < windowStart {
			continue
		}
		set, ok := payerSets[tr.toAgent]
		if !ok {
			set = make(map[ids.AgentID]struct{})
			payerSets[tr.toAgent] = set
			collectorOrder = append(collectorOrder, tr.toAgent)
		}
		if _, seen := set[tr.fromAgent]; !seen {
			set[tr.fromAgent] = struct{}{}
			payerOrder[tr.toAgent] = append(payerOrder[tr.toAgent], tr.fromAgent)
		}
	}

	var out []TaxationRecord
	for _, collector := range collectorOrder {
		payers := payerOrder[collector]
		if len(payers) >= 3 {
			out = append(out, TaxationRecord{Collector: collector, Payers: payers})
		}
	}
	return out
}

// MarketLocation names a location and its trade count within the window.
type MarketLocation struct {
	Location ids.LocationID
	Count    uint32
}

// DetectMarket returns locations with at least marketTradeThreshold
// trades within the window.
func (d *Detector) DetectMarket(currentTick uint64) []MarketLocation {
	windowStart := saturatingSub(currentTick, d.windowSize)
	counts := make(map[ids.LocationID]uint32)
	var order []ids.LocationID
	for _, tr := range d.trades {
		if tr.tick < windowStart {
			continue
		}
		if _, ok := counts[tr.location]; !ok {
			order = append(order, tr.location)
		}
		counts[tr.location]++
	}
	var out []MarketLocation
	for _, loc := range order {
		if counts[loc] >= marketTradeThreshold {
			out = append(out, MarketLocation{Location: loc, Count: counts[loc]})
		}
	}
	return out
}

// ClassifyEconomicModel derives the overall economic model: no trades in
// the window is Subsistence; taxation with a collector holding 5 or more
// payers is Feudal; any taxation otherwise is CommandEconomy; a detected
// currency is MarketEconomy; otherwise Barter.
func (d *Detector) ClassifyEconomicModel(currentTick uint64) Model {
	windowStart := saturatingSub(currentTick, d.windowSize)
	var recentTradeCount int
	for _, tr := range d.trades {
		if tr.tick >= windowStart {
			recentTradeCount++
		}
	}
	if recentTradeCount == 0 {
		return ModelSubsistence
	}

	taxation := d.DetectTaxation(currentTick)
	if len(taxation) > 0 {
		maxPayers := 0
		for _, t := range taxation {
			if len(t.Payers) > maxPayers {
				maxPayers = len(t.Payers)
			}
		}
		if maxPayers >= 5 {
			return ModelFeudal
		}
		return ModelCommandEconomy
	}

	if len(d.DetectCurrency(currentTick)) > 0 {
		return ModelMarketEconomy
	}
	return ModelBarter
}

// GetWealthDistribution computes the Gini coefficient of agentWealth:
// 0 is perfect equality, 1 is maximum inequality.
func (d *Detector) GetWealthDistribution(agentWealth map[ids.AgentID]uint32) fixedpoint.Decimal {
	n := len(agentWealth)
	if n == 0 {
		return fixedpoint.Zero
	}
	values := make([]uint32, 0, n)
	var totalWealth uint64
	for _, v := range agentWealth {
		values = append(values, v)
		totalWealth += uint64(v)
	}
	if totalWealth == 0 {
		return fixedpoint.Zero
	}

	var sumAbsDiff uint64
	for i, vi := range values {
		for _, vj := range values[i+1:] {
			var diff uint64
			if vi >= vj {
				diff = uint64(vi - vj)
			} else {
				diff = uint64(vj - vi)
			}
			sumAbsDiff += diff * 2
		}
	}

	denominator := fixedpoint.FromInt(2).Mul(fixedpoint.FromInt(int64(n))).Mul(fixedpoint.FromInt(int64(totalWealth)))
	if denominator.IsZero() {
		return fixedpoint.Zero
	}
	gini, _ := fixedpoint.FromInt(int64(sumAbsDiff)).Div(denominator)
	return gini
}

// GetTradeVolume returns trade counts per tick within the window.
func (d *Detector) GetTradeVolume(currentTick uint64) map[uint64]uint32 {
	windowStart := saturatingSub(currentTick, d.windowSize)
	volume := make(map[uint64]uint32)
	for _, tr := range d.trades {
		if tr.tick >= windowStart {
			volume[tr.tick]++
		}
	}
	return volume
}

// TotalTrades and TotalTransfers report the number of recorded events.
func (d *Detector) TotalTrades() int    { return len(d.trades) }
func (d *Detector) TotalTransfers() int { return len(d.transfers) }

// Events returns every recorded economic event.
func (d *Detector) Events() []Event { return d.events }

// RecordEvent appends a detected economic event.
func (d *Detector) RecordEvent(event Event) { d.events = append(d.events, event) }

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
