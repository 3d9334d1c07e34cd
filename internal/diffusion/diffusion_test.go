package diffusion

import (
	"testing"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

func TestRecordAdoptionBasic(t *testing.T) {
	tr := New()
	agent := ids.NewAgentID()
	tr.RecordAdoption(Event{KnowledgeID: "fire", AgentID: agent, Tick: 1, Source: SourceIndependent})
	if tr.AdoptionCount("fire") != 1 {
		t.Fatalf("expected 1 adoption")
	}
	if tr.CurrentHolderCount("fire") != 1 {
		t.Fatalf("expected 1 current holder")
	}
}

func TestRecordMultipleAdoptionsSameTick(t *testing.T) {
	tr := New()
	a, b, c := ids.NewAgentID(), ids.NewAgentID(), ids.NewAgentID()
	tr.RecordAdoption(Event{KnowledgeID: "fire", AgentID: a, Tick: 5, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "fire", AgentID: b, Tick: 5, Source: SourceTaught, Teacher: &a})
	tr.RecordAdoption(Event{KnowledgeID: "fire", AgentID: c, Tick: 5, Source: SourceObserved})

	if tr.AdoptionCount("fire") != 3 {
		t.Fatalf("expected 3 adoptions")
	}
	if tr.CurrentHolderCount("fire") != 3 {
		t.Fatalf("expected 3 current holders")
	}
}

func TestAdoptionCurveGeneration(t *testing.T) {
	tr := New()
	agents := make([]ids.AgentID, 5)
	for i := range agents {
		agents[i] = ids.NewAgentID()
	}
	tr.RecordAdoption(Event{KnowledgeID: "wheel", AgentID: agents[0], Tick: 1, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "wheel", AgentID: agents[1], Tick: 3, Source: SourceTaught, Teacher: &agents[0]})
	tr.RecordAdoption(Event{KnowledgeID: "wheel", AgentID: agents[2], Tick: 3, Source: SourceObserved})
	tr.RecordAdoption(Event{KnowledgeID: "wheel", AgentID: agents[3], Tick: 5, Source: SourceTaught, Teacher: &agents[1]})
	tr.RecordAdoption(Event{KnowledgeID: "wheel", AgentID: agents[4], Tick: 5, Source: SourceTrade})

	curve, ok := tr.GetAdoptionCurve("wheel")
	if !ok {
		t.Fatalf("expected an adoption curve for wheel")
	}
	if curve.FirstAdoptionTick != 1 {
		t.Fatalf("expected first adoption tick 1, got %d", curve.FirstAdoptionTick)
	}
	if curve.TotalAdopters != 5 {
		t.Fatalf("expected 5 total adopters, got %d", curve.TotalAdopters)
	}
	if curve.PeakAdoptionRate != 2 {
		t.Fatalf("expected peak adoption rate of 2, got %d", curve.PeakAdoptionRate)
	}
	if len(curve.AdoptionByTick) != 3 {
		t.Fatalf("expected 3 distinct ticks, got %d", len(curve.AdoptionByTick))
	}
}

func TestAdoptionCurveNonexistentReturnsFalse(t *testing.T) {
	tr := New()
	if _, ok := tr.GetAdoptionCurve("nonexistent"); ok {
		t.Fatalf("expected no curve for unknown knowledge")
	}
}

func TestPopulationPenetrationCalculation(t *testing.T) {
	tr := New()
	a, b := ids.NewAgentID(), ids.NewAgentID()
	tr.RecordAdoption(Event{KnowledgeID: "fire", AgentID: a, Tick: 1, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "fire", AgentID: b, Tick: 2, Source: SourceTaught, Teacher: &a})

	want := fixedpoint.FromPer10000(2000)
	if got := tr.PopulationPenetration("fire", 10); got.Cmp(want) != 0 {
		t.Fatalf("expected 20%% penetration, got %s", got)
	}
}

func TestPopulationPenetrationZeroPopulation(t *testing.T) {
	tr := New()
	if got := tr.PopulationPenetration("fire", 0); got.Cmp(fixedpoint.Zero) != 0 {
		t.Fatalf("expected 0 penetration for an empty population")
	}
}

func TestDiffusionSpeedBasic(t *testing.T) {
	tr := New()
	agents := make([]ids.AgentID, 6)
	for i := range agents {
		agents[i] = ids.NewAgentID()
	}
	tr.RecordAdoption(Event{KnowledgeID: "pottery", AgentID: agents[0], Tick: 10, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "pottery", AgentID: agents[1], Tick: 12, Source: SourceTaught, Teacher: &agents[0]})
	tr.RecordAdoption(Event{KnowledgeID: "pottery", AgentID: agents[2], Tick: 14, Source: SourceObserved})
	tr.RecordAdoption(Event{KnowledgeID: "pottery", AgentID: agents[3], Tick: 16, Source: SourceTaught, Teacher: &agents[1]})
	tr.RecordAdoption(Event{KnowledgeID: "pottery", AgentID: agents[4], Tick: 18, Source: SourceTrade})
	tr.RecordAdoption(Event{KnowledgeID: "pottery", AgentID: agents[5], Tick: 20, Source: SourceObserved})

	speed, ok := tr.DiffusionSpeed("pottery", 10)
	if !ok || speed != 8 {
		t.Fatalf("expected diffusion speed of 8, got %d (ok=%v)", speed, ok)
	}
}

func TestDiffusionSpeedNotReached(t *testing.T) {
	tr := New()
	tr.RecordAdoption(Event{KnowledgeID: "rare_item", AgentID: ids.NewAgentID(), Tick: 1, Source: SourceIndependent})
	if _, ok := tr.DiffusionSpeed("rare_item", 100); ok {
		t.Fatalf("expected diffusion speed not reached")
	}
}

func TestKnowledgeHoardersDetection(t *testing.T) {
	tr := New()
	hoarder := ids.NewAgentID()
	tr.RecordAdoption(Event{KnowledgeID: "rare_tech", AgentID: hoarder, Tick: 1, Source: SourceIndependent})
	for i := 0; i < 8; i++ {
		tr.RecordAdoption(Event{KnowledgeID: "common_tech", AgentID: ids.NewAgentID(), Tick: 1, Source: SourceIndependent})
	}

	threshold := fixedpoint.FromPer10000(2000)
	hoarders := tr.GetKnowledgeHoarders(threshold, 10)
	items, ok := hoarders[hoarder]
	if !ok {
		t.Fatalf("expected %v to be classified as a hoarder", hoarder)
	}
	found := false
	for _, item := range items {
		if item == "rare_tech" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected rare_tech among hoarder's items, got %+v", items)
	}
}

func TestResistanceRateCalculation(t *testing.T) {
	tr := New()
	a, b, c, d := ids.NewAgentID(), ids.NewAgentID(), ids.NewAgentID(), ids.NewAgentID()
	tr.RecordAdoption(Event{KnowledgeID: "controversial", AgentID: a, Tick: 1, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "controversial", AgentID: b, Tick: 2, Source: SourceTaught, Teacher: &a})
	tr.RecordRejection(ResistanceRecord{KnowledgeID: "controversial", AgentID: c, Tick: 2})
	tr.RecordRejection(ResistanceRecord{KnowledgeID: "controversial", AgentID: d, Tick: 3})

	want := fixedpoint.FromPer10000(5000)
	if got := tr.ResistanceRate("controversial"); got.Cmp(want) != 0 {
		t.Fatalf("expected resistance rate of 0.5, got %s", got)
	}
}

func TestResistanceRateNoExposures(t *testing.T) {
	tr := New()
	if got := tr.ResistanceRate("nothing"); got.Cmp(fixedpoint.Zero) != 0 {
		t.Fatalf("expected resistance rate of 0 with no exposures")
	}
}

func TestAdoptionBySourceBreakdown(t *testing.T) {
	tr := New()
	a, b, c, d, e := ids.NewAgentID(), ids.NewAgentID(), ids.NewAgentID(), ids.NewAgentID(), ids.NewAgentID()
	tr.RecordAdoption(Event{KnowledgeID: "tool", AgentID: a, Tick: 1, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "tool", AgentID: b, Tick: 2, Source: SourceTaught, Teacher: &a})
	tr.RecordAdoption(Event{KnowledgeID: "tool", AgentID: c, Tick: 3, Source: SourceObserved})
	tr.RecordAdoption(Event{KnowledgeID: "tool", AgentID: d, Tick: 4, Source: SourceInherited})
	tr.RecordAdoption(Event{KnowledgeID: "tool", AgentID: e, Tick: 5, Source: SourceTrade})

	breakdown := tr.AdoptionBySource("tool")
	if breakdown.Independent != 1 || breakdown.Taught != 1 || breakdown.Observed != 1 || breakdown.Inherited != 1 || breakdown.Trade != 1 {
		t.Fatalf("expected each source counted once, got %+v", breakdown)
	}
}

func TestInnovationLeadersRanking(t *testing.T) {
	tr := New()
	genius := ids.NewAgentID()
	average := ids.NewAgentID()
	learner := ids.NewAgentID()

	tr.RecordAdoption(Event{KnowledgeID: "fire", AgentID: genius, Tick: 1, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "wheel", AgentID: genius, Tick: 5, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "pottery", AgentID: genius, Tick: 10, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "rope", AgentID: average, Tick: 3, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "fire", AgentID: learner, Tick: 2, Source: SourceTaught, Teacher: &genius})

	leaders := tr.GetInnovationLeaders()
	if len(leaders) != 2 {
		t.Fatalf("expected 2 innovation leaders, got %d", len(leaders))
	}
	if leaders[0].Agent != genius || leaders[0].Count != 3 {
		t.Fatalf("expected genius to rank first with 3, got %+v", leaders[0])
	}
}

func TestAdoptionRateOverWindow(t *testing.T) {
	tr := New()
	agents := make([]ids.AgentID, 4)
	for i := range agents {
		agents[i] = ids.NewAgentID()
	}
	tr.RecordAdoption(Event{KnowledgeID: "bronze", AgentID: agents[0], Tick: 8, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "bronze", AgentID: agents[1], Tick: 9, Source: SourceTaught, Teacher: &agents[0]})
	tr.RecordAdoption(Event{KnowledgeID: "bronze", AgentID: agents[2], Tick: 10, Source: SourceObserved})
	tr.RecordAdoption(Event{KnowledgeID: "bronze", AgentID: agents[3], Tick: 10, Source: SourceTrade})

	want := fixedpoint.FromPer10000(8000)
	if got := tr.AdoptionRate("bronze", 10, 5); got.Cmp(want) != 0 {
		t.Fatalf("expected adoption rate of 0.8, got %s", got)
	}
}

func TestAdoptionRateZeroWindow(t *testing.T) {
	tr := New()
	if got := tr.AdoptionRate("anything", 10, 0); got.Cmp(fixedpoint.Zero) != 0 {
		t.Fatalf("expected adoption rate of 0 for a zero window")
	}
}

func TestFastestSpreadingOrdering(t *testing.T) {
	tr := New()
	a1, a2 := ids.NewAgentID(), ids.NewAgentID()
	tr.RecordAdoption(Event{KnowledgeID: "fast_item", AgentID: a1, Tick: 1, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "fast_item", AgentID: a2, Tick: 3, Source: SourceTaught, Teacher: &a1})

	b1, b2 := ids.NewAgentID(), ids.NewAgentID()
	tr.RecordAdoption(Event{KnowledgeID: "slow_item", AgentID: b1, Tick: 2, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "slow_item", AgentID: b2, Tick: 10, Source: SourceTaught, Teacher: &b1})

	fastest := tr.GetFastestSpreading(4)
	if len(fastest) != 2 {
		t.Fatalf("expected both items to reach 50%% of 4, got %d", len(fastest))
	}
	if fastest[0].KnowledgeID != "fast_item" || fastest[0].Speed != 2 {
		t.Fatalf("expected fast_item first with speed 2, got %+v", fastest[0])
	}
}

func TestSlowestSpreadingByResistance(t *testing.T) {
	tr := New()
	a, b, c := ids.NewAgentID(), ids.NewAgentID(), ids.NewAgentID()
	tr.RecordAdoption(Event{KnowledgeID: "hated_item", AgentID: a, Tick: 1, Source: SourceIndependent})
	tr.RecordRejection(ResistanceRecord{KnowledgeID: "hated_item", AgentID: b, Tick: 2})
	tr.RecordRejection(ResistanceRecord{KnowledgeID: "hated_item", AgentID: c, Tick: 3})
	tr.RecordRejection(ResistanceRecord{KnowledgeID: "hated_item", AgentID: ids.NewAgentID(), Tick: 4})

	tr.RecordAdoption(Event{KnowledgeID: "liked_item", AgentID: b, Tick: 1, Source: SourceIndependent})
	tr.RecordAdoption(Event{KnowledgeID: "liked_item", AgentID: c, Tick: 2, Source: SourceTaught, Teacher: &b})

	slowest := tr.GetSlowestSpreading()
	if len(slowest) == 0 || slowest[0].KnowledgeID != "hated_item" {
		t.Fatalf("expected hated_item to rank first by resistance, got %+v", slowest)
	}
	want := fixedpoint.FromPer10000(7500)
	if slowest[0].Rate.Cmp(want) != 0 {
		t.Fatalf("expected resistance rate of 0.75, got %s", slowest[0].Rate)
	}
}

func TestRejectionRecordingAndCount(t *testing.T) {
	tr := New()
	tr.RecordRejection(ResistanceRecord{KnowledgeID: "strange_idea", AgentID: ids.NewAgentID(), Tick: 5, Reason: "personality mismatch"})
	if tr.RejectionCount("strange_idea") != 1 {
		t.Fatalf("expected 1 rejection recorded")
	}
}
