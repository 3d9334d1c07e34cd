// Package justice implements the crime and punishment observation layer --
// design doc component R. Records crimes and punishments as they occur,
// then derives crime/detection/punishment/recidivism rates and classifies
// the emergent justice pattern (no justice, self-policing, vigilante,
// centralized, court system). Ported from the original simulation's
// crime_justice.rs into the teacher's idiom: records held in maps plus
// insertion-order slices, the pattern already used by internal/constructs,
// internal/propaganda, internal/diplomacy, and internal/deception.
package justice

import (
	"fmt"
	"sort"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// CrimeType categorizes a criminal act.
type CrimeType uint8

const (
	CrimeTheft CrimeType = iota
	CrimeAssault
	CrimeMurder
	CrimeDeception
	CrimeTrespass
	CrimeRuleViolation
)

// PunishmentType categorizes a punishment applied to an offender.
type PunishmentType uint8

const (
	PunishmentExile PunishmentType = iota
	PunishmentResourceConfiscation
	PunishmentPhysical
	PunishmentSocialShaming
	PunishmentImprisonment
	PunishmentRestitution
)

// Pattern is the overall justice system detected from punishment behavior.
type Pattern uint8

const (
	PatternNoJustice Pattern = iota
	PatternSelfPolicing
	PatternVigilanteJustice
	PatternCentralizedPolicing
	PatternCourtSystem
)

// CrimeRecord is one recorded criminal act.
type CrimeRecord struct {
	ID          ids.CrimeID
	Tick        uint64
	Type        CrimeType
	Perpetrator ids.AgentID
	Victim      *ids.AgentID
	Location    *ids.LocationID
	Detected    bool
	Punished    bool
}

// PunishmentRecord is one punishment applied against a crime.
type PunishmentRecord struct {
	CrimeID    ids.CrimeID
	PunishedBy ids.AgentID
	Tick       uint64
	Type       PunishmentType
	Details    string
}

type policingAction struct {
	agentID ids.AgentID
	tick    uint64
}

// Tracker accumulates crimes, punishments, and policing signals, and
// derives rates and justice-pattern classifications from them.
type Tracker struct {
	crimes             map[ids.CrimeID]*CrimeRecord
	crimeOrder         []ids.CrimeID
	punishments        map[ids.CrimeID][]PunishmentRecord
	policingActions    []policingAction
	agentCrimeCount    map[ids.AgentID]uint32
	agentPunishCount   map[ids.AgentID]uint32
	agentPunishOrder   []ids.AgentID
	punishmentVoters   map[ids.AgentID]struct{}
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{
		crimes:           make(map[ids.CrimeID]*CrimeRecord),
		punishments:      make(map[ids.CrimeID][]PunishmentRecord),
		agentCrimeCount:  make(map[ids.AgentID]uint32),
		agentPunishCount: make(map[ids.AgentID]uint32),
		punishmentVoters: make(map[ids.AgentID]struct{}),
	}
}

// RecordCrime stores record and increments the perpetrator's crime count.
func (tr *Tracker) RecordCrime(record CrimeRecord) ids.CrimeID {
	tr.crimes[record.ID] = &record
	tr.crimeOrder = append(tr.crimeOrder, record.ID)
	tr.agentCrimeCount[record.Perpetrator]++
	return record.ID
}

// RecordPunishment marks punishment.CrimeID as punished and records the
// punishment. Returns an error if the crime is not known.
func (tr *Tracker) RecordPunishment(punishment PunishmentRecord) error {
	crime, ok := tr.crimes[punishment.CrimeID]
	if !ok {
		return fmt.Errorf("justice: crime %v not found for punishment", punishment.CrimeID)
	}
	crime.Punished = true
	tr.punishments[punishment.CrimeID] = append(tr.punishments[punishment.CrimeID], punishment)
	if _, seen := tr.agentPunishCount[punishment.PunishedBy]; !seen {
		tr.agentPunishOrder = append(tr.agentPunishOrder, punishment.PunishedBy)
	}
	tr.agentPunishCount[punishment.PunishedBy]++
	return nil
}

// RecordPolicingAction logs a patrol/investigation/enforcement action.
func (tr *Tracker) RecordPolicingAction(agentID ids.AgentID, tick uint64) {
	tr.policingActions = append(tr.policingActions, policingAction{agentID: agentID, tick: tick})
}

// RecordPunishmentVote notes that voter participated in a formal
// punishment decision -- the signal used to detect a court system.
func (tr *Tracker) RecordPunishmentVote(voter ids.AgentID) {
	tr.punishmentVoters[voter] = struct{}{}
}

// GetCrimeRate returns the average crimes per tick within
// [currentTick-windowSize, currentTick]. Zero windowSize yields zero.
func (tr *Tracker) GetCrimeRate(currentTick, windowSize uint64) fixedpoint.Decimal {
	if windowSize == 0 {
		return fixedpoint.Zero
	}
	windowStart := saturatingSub(currentTick, windowSize)
	var count int64
	for _, id := range tr.crimeOrder {
		c := tr.crimes[id]
		if c.Tick >= windowStart && c.Tick <= currentTick {
			count++
		}
	}
	rate, _ := fixedpoint.FromInt(count).Div(fixedpoint.FromInt(int64(windowSize)))
	return rate
}

// GetDetectionRate returns the fraction of recorded crimes that were
// detected, in [0,1].
func (tr *Tracker) GetDetectionRate() fixedpoint.Decimal {
	total := len(tr.crimeOrder)
	if total == 0 {
		return fixedpoint.Zero
	}
	var detected int64
	for _, id := range tr.crimeOrder {
		if tr.crimes[id].Detected {
			detected++
		}
	}
	rate, _ := fixedpoint.FromInt(detected).Div(fixedpoint.FromInt(int64(total)))
	return rate
}

// GetPunishmentRate returns the fraction of detected crimes that were
// punished, in [0,1].
func (tr *Tracker) GetPunishmentRate() fixedpoint.Decimal {
	var detectedCount, punishedCount int64
	for _, id := range tr.crimeOrder {
		c := tr.crimes[id]
		if !c.Detected {
			continue
		}
		detectedCount++
		if c.Punished {
			punishedCount++
		}
	}
	if detectedCount == 0 {
		return fixedpoint.Zero
	}
	rate, _ := fixedpoint.FromInt(punishedCount).Div(fixedpoint.FromInt(detectedCount))
	return rate
}

// GetRecidivismRate returns the fraction of punished agents who commit a
// further crime after their latest punishment, in [0,1].
func (tr *Tracker) GetRecidivismRate() fixedpoint.Decimal {
	punishedAgents := make(map[ids.AgentID]struct{})
	var punishedOrder []ids.AgentID
	for _, id := range tr.crimeOrder {
		c := tr.crimes[id]
		if c.Punished {
			if _, seen := punishedAgents[c.Perpetrator]; !seen {
				punishedAgents[c.Perpetrator] = struct{}{}
				punishedOrder = append(punishedOrder, c.Perpetrator)
			}
		}
	}
	if len(punishedOrder) == 0 {
		return fixedpoint.Zero
	}

	var recidivists int64
	for _, agent := range punishedOrder {
		var latestPunishedTick uint64
		for _, id := range tr.crimeOrder {
			c := tr.crimes[id]
			if c.Perpetrator == agent && c.Punished && c.Tick > latestPunishedTick {
				latestPunishedTick = c.Tick
			}
		}
		committedAfter := false
		for _, id := range tr.crimeOrder {
			c := tr.crimes[id]
			if c.Perpetrator == agent && c.Tick > latestPunishedTick {
				committedAfter = true
				break
			}
		}
		if committedAfter {
			recidivists++
		}
	}

	rate, _ := fixedpoint.FromInt(recidivists).Div(fixedpoint.FromInt(int64(len(punishedOrder))))
	return rate
}

// ClassifyJusticeSystem derives the overall justice pattern: no
// punishment at all is NoJustice; any recorded punishment vote makes it
// CourtSystem; victims administering the majority of punishments makes
// it SelfPolicing; a top-3 set of punishers administering the majority
// (with more than 3 distinct punishers total) makes it
// CentralizedPolicing; otherwise VigilanteJustice.
func (tr *Tracker) ClassifyJusticeSystem() Pattern {
	var total uint64
	for _, id := range tr.agentPunishOrder {
		total += uint64(tr.agentPunishCount[id])
	}
	if total == 0 {
		return PatternNoJustice
	}

	if len(tr.punishmentVoters) > 0 {
		return PatternCourtSystem
	}

	halfTotal := total / 2
	if tr.countVictimPunishments() > halfTotal {
		return PatternSelfPolicing
	}

	type punisherCount struct {
		agent ids.AgentID
		count uint32
	}
	sorted := make([]punisherCount, len(tr.agentPunishOrder))
	for i, id := range tr.agentPunishOrder {
		sorted[i] = punisherCount{agent: id, count: tr.agentPunishCount[id]}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].count > sorted[j].count })

	var top3 uint64
	for i := 0; i < len(sorted) && i < 3; i++ {
		top3 += uint64(sorted[i].count)
	}
	if top3 > halfTotal && len(sorted) > 3 {
		return PatternCentralizedPolicing
	}

	return PatternVigilanteJustice
}

func (tr *Tracker) countVictimPunishments() uint64 {
	var count uint64
	for _, id := range tr.crimeOrder {
		crime, ok := tr.crimes[id]
		if !ok || crime.Victim == nil {
			continue
		}
		for _, p := range tr.punishments[id] {
			if p.PunishedBy == *crime.Victim {
				count++
			}
		}
	}
	return count
}

// CrimeCount pairs a crime type with its observed frequency.
type CrimeCount struct {
	Type  CrimeType
	Count uint32
}

// GetMostCommonCrimes returns crime types sorted by descending frequency.
func (tr *Tracker) GetMostCommonCrimes() []CrimeCount {
	counts := make(map[CrimeType]uint32)
	var order []CrimeType
	for _, id := range tr.crimeOrder {
		t := tr.crimes[id].Type
		if _, seen := counts[t]; !seen {
			order = append(order, t)
		}
		counts[t]++
	}
	result := make([]CrimeCount, len(order))
	for i, t := range order {
		result[i] = CrimeCount{Type: t, Count: counts[t]}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result
}

// OffenderCount pairs an agent with their total crime count.
type OffenderCount struct {
	Agent ids.AgentID
	Count uint32
}

// GetSerialOffenders returns every agent with 3 or more recorded crimes.
func (tr *Tracker) GetSerialOffenders() []OffenderCount {
	var out []OffenderCount
	seen := make(map[ids.AgentID]struct{})
	for _, id := range tr.crimeOrder {
		agent := tr.crimes[id].Perpetrator
		if _, ok := seen[agent]; ok {
			continue
		}
		seen[agent] = struct{}{}
		if count := tr.agentCrimeCount[agent]; count >= 3 {
			out = append(out, OffenderCount{Agent: agent, Count: count})
		}
	}
	return out
}

// LocationCount pairs a location with its crime count, for hotspot
// analysis.
type LocationCount struct {
	Location ids.LocationID
	Count    uint32
}

// CrimeByLocation returns crime counts per location, in first-seen
// order.
func (tr *Tracker) CrimeByLocation() []LocationCount {
	counts := make(map[ids.LocationID]uint32)
	var order []ids.LocationID
	for _, id := range tr.crimeOrder {
		loc := tr.crimes[id].Location
		if loc == nil {
			continue
		}
		if _, seen := counts[*loc]; !seen {
			order = append(order, *loc)
		}
		counts[*loc]++
	}
	out := make([]LocationCount, len(order))
	for i, loc := range order {
		out[i] = LocationCount{Location: loc, Count: counts[loc]}
	}
	return out
}

// TotalCrimes returns the number of crimes recorded.
func (tr *Tracker) TotalCrimes() int { return len(tr.crimeOrder) }

// GetCrime looks up a crime record by id.
func (tr *Tracker) GetCrime(id ids.CrimeID) (*CrimeRecord, bool) {
	c, ok := tr.crimes[id]
	return c, ok
}

// GetPunishmentsForCrime returns every punishment recorded against id.
func (tr *Tracker) GetPunishmentsForCrime(id ids.CrimeID) []PunishmentRecord {
	return tr.punishments[id]
}

func saturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
