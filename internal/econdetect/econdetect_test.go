package econdetect

import (
	"testing"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

func TestRecordTradeIncrementsCount(t *testing.T) {
	d := New(100)
	a, b, loc := ids.NewAgentID(), ids.NewAgentID(), ids.NewLocationID()
	d.RecordTrade(1, a, b, map[string]uint32{"wood": 5}, map[string]uint32{"stone": 3}, loc)
	if d.TotalTrades() != 1 {
		t.Fatalf("expected 1 trade recorded")
	}
}

func TestRecordTransferIncrementsCount(t *testing.T) {
	d := New(100)
	a, b := ids.NewAgentID(), ids.NewAgentID()
	d.RecordResourceTransfer(1, a, b, map[string]uint32{"food_berry": 10})
	if d.TotalTransfers() != 1 {
		t.Fatalf("expected 1 transfer recorded")
	}
}

func TestDetectCurrencyInsufficientTrades(t *testing.T) {
	d := New(100)
	if candidates := d.DetectCurrency(50); len(candidates) != 0 {
		t.Fatalf("expected no currency candidates with too few trades")
	}
}

func TestDetectCurrencySingleDominantResource(t *testing.T) {
	d := New(100)
	loc := ids.NewLocationID()
	for i := uint64(0); i < 8; i++ {
		d.RecordTrade(i, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"currency_token": 5}, map[string]uint32{"wood": 3}, loc)
	}
	for i := uint64(8); i < 10; i++ {
		d.RecordTrade(i, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"stone": 5}, map[string]uint32{"food_berry": 3}, loc)
	}
	candidates := d.DetectCurrency(20)
	if len(candidates) == 0 {
		t.Fatalf("expected at least 1 currency candidate")
	}
	found := false
	for _, c := range candidates {
		if c.Resource == "currency_token" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected currency_token among candidates, got %+v", candidates)
	}
}

func TestDetectCurrencyNoDominantResource(t *testing.T) {
	d := New(100)
	loc := ids.NewLocationID()
	pairs := [][2]string{{"wood", "stone"}, {"stone", "food_berry"}, {"food_berry", "food_fish"}, {"food_fish", "water"}}
	for i, pair := range pairs {
		d.RecordTrade(uint64(i), ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{pair[0]: 5}, map[string]uint32{pair[1]: 3}, loc)
	}
	for i := uint64(4); i < 8; i++ {
		d.RecordTrade(i, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"fiber": 2}, map[string]uint32{"clay": 4}, loc)
	}
	if candidates := d.DetectCurrency(20); len(candidates) != 0 {
		t.Fatalf("expected no dominant currency among diverse trades, got %+v", candidates)
	}
}

func TestDetectMarketHighVolumeLocation(t *testing.T) {
	d := New(100)
	marketLoc, quietLoc := ids.NewLocationID(), ids.NewLocationID()
	for i := uint64(0); i < 5; i++ {
		d.RecordTrade(i, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"wood": 5}, map[string]uint32{"stone": 3}, marketLoc)
	}
	d.RecordTrade(1, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"wood": 5}, map[string]uint32{"stone": 3}, quietLoc)

	markets := d.DetectMarket(20)
	if len(markets) != 1 || markets[0].Location != marketLoc {
		t.Fatalf("expected exactly the market location to be classified as a market, got %+v", markets)
	}
}

func TestDetectMarketNoMarkets(t *testing.T) {
	d := New(100)
	loc := ids.NewLocationID()
	for i := uint64(0); i < 2; i++ {
		d.RecordTrade(i, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"wood": 5}, map[string]uint32{"stone": 3}, loc)
	}
	if markets := d.DetectMarket(20); len(markets) != 0 {
		t.Fatalf("expected no markets below the trade threshold")
	}
}

func TestDetectEmploymentRepeatedTransfers(t *testing.T) {
	d := New(100)
	employer, employee := ids.NewAgentID(), ids.NewAgentID()
	for i := uint64(0); i < 4; i++ {
		d.RecordResourceTransfer(i, employer, employee, map[string]uint32{"food_berry": 5})
	}
	employment := d.DetectEmployment(20)
	if len(employment) != 1 || employment[0].Employer != employer || employment[0].Employee != employee {
		t.Fatalf("expected an employer/employee pair, got %+v", employment)
	}
}

func TestDetectEmploymentInsufficientTransfers(t *testing.T) {
	d := New(100)
	employer, employee := ids.NewAgentID(), ids.NewAgentID()
	for i := uint64(0); i < 2; i++ {
		d.RecordResourceTransfer(i, employer, employee, map[string]uint32{"food_berry": 5})
	}
	if employment := d.DetectEmployment(20); len(employment) != 0 {
		t.Fatalf("expected no employment detected below the transfer threshold")
	}
}

func TestDetectTaxationMultiplePayers(t *testing.T) {
	d := New(100)
	collector := ids.NewAgentID()
	for i := uint64(0); i < 4; i++ {
		d.RecordResourceTransfer(i, ids.NewAgentID(), collector, map[string]uint32{"food_berry": 3})
	}
	taxation := d.DetectTaxation(20)
	if len(taxation) != 1 || taxation[0].Collector != collector || len(taxation[0].Payers) != 4 {
		t.Fatalf("expected taxation detected with 4 payers, got %+v", taxation)
	}
}

func TestDetectTaxationInsufficientPayers(t *testing.T) {
	d := New(100)
	collector := ids.NewAgentID()
	for i := uint64(0); i < 2; i++ {
		d.RecordResourceTransfer(i, ids.NewAgentID(), collector, map[string]uint32{"food_berry": 3})
	}
	if taxation := d.DetectTaxation(20); len(taxation) != 0 {
		t.Fatalf("expected no taxation below the payer threshold")
	}
}

func TestClassifySubsistenceNoTrades(t *testing.T) {
	d := New(100)
	if got := d.ClassifyEconomicModel(50); got != ModelSubsistence {
		t.Fatalf("expected Subsistence, got %v", got)
	}
}

func TestClassifyBarterEconomy(t *testing.T) {
	d := New(100)
	loc := ids.NewLocationID()
	for i := uint64(0); i < 3; i++ {
		d.RecordTrade(i, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"wood": 5}, map[string]uint32{"stone": 3}, loc)
	}
	if got := d.ClassifyEconomicModel(20); got != ModelBarter {
		t.Fatalf("expected Barter, got %v", got)
	}
}

func TestClassifyMarketEconomyWithCurrency(t *testing.T) {
	d := New(100)
	loc := ids.NewLocationID()
	for i := uint64(0); i < 8; i++ {
		d.RecordTrade(i, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"currency_token": 5}, map[string]uint32{"wood": 3}, loc)
	}
	for i := uint64(8); i < 10; i++ {
		d.RecordTrade(i, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"stone": 5}, map[string]uint32{"food_berry": 3}, loc)
	}
	if got := d.ClassifyEconomicModel(20); got != ModelMarketEconomy {
		t.Fatalf("expected MarketEconomy, got %v", got)
	}
}

func TestGiniPerfectEquality(t *testing.T) {
	d := New(100)
	wealth := map[ids.AgentID]uint32{ids.NewAgentID(): 100, ids.NewAgentID(): 100, ids.NewAgentID(): 100}
	if got := d.GetWealthDistribution(wealth); got.Cmp(fixedpoint.Zero) != 0 {
		t.Fatalf("expected Gini of 0 for perfect equality, got %s", got)
	}
}

func TestGiniMaximumInequality(t *testing.T) {
	d := New(100)
	wealth := map[ids.AgentID]uint32{ids.NewAgentID(): 300, ids.NewAgentID(): 0, ids.NewAgentID(): 0}
	gini := d.GetWealthDistribution(wealth)
	twoThirds, _ := fixedpoint.FromInt(2).Div(fixedpoint.FromInt(3))
	diff := gini.Sub(twoThirds).Abs()
	if diff.Cmp(fixedpoint.FromPer10000(100)) >= 0 {
		t.Fatalf("expected Gini within 0.01 of 2/3, got %s", gini)
	}
}

func TestGiniEmptyPopulation(t *testing.T) {
	d := New(100)
	if got := d.GetWealthDistribution(map[ids.AgentID]uint32{}); got.Cmp(fixedpoint.Zero) != 0 {
		t.Fatalf("expected Gini of 0 for an empty population")
	}
}

func TestGiniZeroWealth(t *testing.T) {
	d := New(100)
	wealth := map[ids.AgentID]uint32{ids.NewAgentID(): 0, ids.NewAgentID(): 0}
	if got := d.GetWealthDistribution(wealth); got.Cmp(fixedpoint.Zero) != 0 {
		t.Fatalf("expected Gini of 0 when total wealth is zero")
	}
}

func TestTradeVolumePerTick(t *testing.T) {
	d := New(100)
	loc := ids.NewLocationID()
	for i := 0; i < 3; i++ {
		d.RecordTrade(5, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"wood": 5}, map[string]uint32{"stone": 3}, loc)
	}
	for i := 0; i < 2; i++ {
		d.RecordTrade(10, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"wood": 5}, map[string]uint32{"stone": 3}, loc)
	}
	volume := d.GetTradeVolume(20)
	if volume[5] != 3 || volume[10] != 2 {
		t.Fatalf("expected trade volume {5:3, 10:2}, got %+v", volume)
	}
}

func TestCurrencyCandidatesLowerThreshold(t *testing.T) {
	d := New(100)
	loc := ids.NewLocationID()
	for i := uint64(0); i < 3; i++ {
		d.RecordTrade(i, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"currency_token": 5}, map[string]uint32{"wood": 3}, loc)
	}
	for i := uint64(3); i < 6; i++ {
		d.RecordTrade(i, ids.NewAgentID(), ids.NewAgentID(), map[string]uint32{"stone": 5}, map[string]uint32{"food_berry": 3}, loc)
	}
	candidates := d.GetCurrencyCandidates(20)
	found := false
	for _, c := range candidates {
		if c.Resource == "currency_token" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected currency_token among the lower-threshold candidates, got %+v", candidates)
	}
}
