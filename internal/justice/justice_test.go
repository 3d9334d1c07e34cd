package justice

import (
	"testing"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

func makeCrime(crimeType CrimeType, perp ids.AgentID, victim *ids.AgentID, location *ids.LocationID, tick uint64, detected bool) CrimeRecord {
	return CrimeRecord{
		ID: ids.NewCrimeID(), Tick: tick, Type: crimeType, Perpetrator: perp,
		Victim: victim, Location: location, Detected: detected,
	}
}

func makePunishment(crimeID ids.CrimeID, punishedBy ids.AgentID, tick uint64, t PunishmentType) PunishmentRecord {
	return PunishmentRecord{CrimeID: crimeID, PunishedBy: punishedBy, Tick: tick, Type: t, Details: "test punishment"}
}

func TestRecordCrimeIncrementsCount(t *testing.T) {
	tr := New()
	perp := ids.NewAgentID()
	victim := ids.NewAgentID()
	loc := ids.NewLocationID()

	tr.RecordCrime(makeCrime(CrimeTheft, perp, &victim, &loc, 10, true))

	if tr.TotalCrimes() != 1 {
		t.Fatalf("expected 1 crime recorded")
	}
	if tr.agentCrimeCount[perp] != 1 {
		t.Fatalf("expected perpetrator crime count of 1")
	}
}

func TestRecordPunishmentMarksCrime(t *testing.T) {
	tr := New()
	perp := ids.NewAgentID()
	punisher := ids.NewAgentID()

	crimeID := tr.RecordCrime(makeCrime(CrimeAssault, perp, nil, nil, 10, true))
	if err := tr.RecordPunishment(makePunishment(crimeID, punisher, 15, PunishmentExile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	crime, ok := tr.GetCrime(crimeID)
	if !ok || !crime.Punished {
		t.Fatalf("expected the crime to be marked punished")
	}
}

func TestRecordPunishmentUnknownCrimeFails(t *testing.T) {
	tr := New()
	punisher := ids.NewAgentID()
	if err := tr.RecordPunishment(makePunishment(ids.NewCrimeID(), punisher, 15, PunishmentExile)); err == nil {
		t.Fatalf("expected an error for an unknown crime id")
	}
}

func TestCrimeRateCalculation(t *testing.T) {
	tr := New()
	perp := ids.NewAgentID()
	for i := uint64(1); i <= 10; i++ {
		tr.RecordCrime(makeCrime(CrimeTheft, perp, nil, nil, i, true))
	}
	rate := tr.GetCrimeRate(10, 10)
	if rate.Cmp(fixedpoint.One) != 0 {
		t.Fatalf("expected crime rate of 1.0, got %s", rate)
	}
}

func TestCrimeRateZeroWindow(t *testing.T) {
	tr := New()
	if rate := tr.GetCrimeRate(10, 0); rate.Cmp(fixedpoint.Zero) != 0 {
		t.Fatalf("expected crime rate of 0 for a zero window")
	}
}

func TestDetectionRateHalfDetected(t *testing.T) {
	tr := New()
	for i := uint64(0); i < 4; i++ {
		tr.RecordCrime(makeCrime(CrimeTheft, ids.NewAgentID(), nil, nil, i, i < 2))
	}
	want := fixedpoint.FromPer10000(5000)
	if rate := tr.GetDetectionRate(); rate.Cmp(want) != 0 {
		t.Fatalf("expected detection rate of 0.5, got %s", rate)
	}
}

func TestDetectionRateNoCrimes(t *testing.T) {
	tr := New()
	if rate := tr.GetDetectionRate(); rate.Cmp(fixedpoint.Zero) != 0 {
		t.Fatalf("expected detection rate of 0 with no crimes")
	}
}

func TestPunishmentRateAllPunished(t *testing.T) {
	tr := New()
	punisher := ids.NewAgentID()
	for i := uint64(0); i < 3; i++ {
		crimeID := tr.RecordCrime(makeCrime(CrimeAssault, ids.NewAgentID(), nil, nil, i, true))
		if err := tr.RecordPunishment(makePunishment(crimeID, punisher, i+1, PunishmentRestitution)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if rate := tr.GetPunishmentRate(); rate.Cmp(fixedpoint.One) != 0 {
		t.Fatalf("expected punishment rate of 1.0, got %s", rate)
	}
}

func TestPunishmentRateNonePunished(t *testing.T) {
	tr := New()
	for i := uint64(0); i < 3; i++ {
		tr.RecordCrime(makeCrime(CrimeTheft, ids.NewAgentID(), nil, nil, i, true))
	}
	if rate := tr.GetPunishmentRate(); rate.Cmp(fixedpoint.Zero) != 0 {
		t.Fatalf("expected punishment rate of 0, got %s", rate)
	}
}

func TestRecidivismRateRepeatOffender(t *testing.T) {
	tr := New()
	perp := ids.NewAgentID()
	punisher := ids.NewAgentID()

	crime1 := tr.RecordCrime(makeCrime(CrimeTheft, perp, nil, nil, 1, true))
	if err := tr.RecordPunishment(makePunishment(crime1, punisher, 2, PunishmentRestitution)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr.RecordCrime(makeCrime(CrimeTheft, perp, nil, nil, 5, true))

	if rate := tr.GetRecidivismRate(); rate.Cmp(fixedpoint.One) != 0 {
		t.Fatalf("expected recidivism rate of 1.0, got %s", rate)
	}
}

func TestRecidivismRateNoRepeat(t *testing.T) {
	tr := New()
	punisher := ids.NewAgentID()
	for i := uint64(0); i < 2; i++ {
		perp := ids.NewAgentID()
		crimeID := tr.RecordCrime(makeCrime(CrimeTheft, perp, nil, nil, i, true))
		if err := tr.RecordPunishment(makePunishment(crimeID, punisher, i+1, PunishmentExile)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if rate := tr.GetRecidivismRate(); rate.Cmp(fixedpoint.Zero) != 0 {
		t.Fatalf("expected recidivism rate of 0, got %s", rate)
	}
}

func TestClassifyNoJustice(t *testing.T) {
	tr := New()
	if got := tr.ClassifyJusticeSystem(); got != PatternNoJustice {
		t.Fatalf("expected NoJustice, got %v", got)
	}
}

func TestClassifySelfPolicing(t *testing.T) {
	tr := New()
	for i := uint64(0); i < 5; i++ {
		perp := ids.NewAgentID()
		victim := ids.NewAgentID()
		crimeID := tr.RecordCrime(makeCrime(CrimeTheft, perp, &victim, nil, i, true))
		if err := tr.RecordPunishment(makePunishment(crimeID, victim, i+1, PunishmentRestitution)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := tr.ClassifyJusticeSystem(); got != PatternSelfPolicing {
		t.Fatalf("expected SelfPolicing, got %v", got)
	}
}

func TestClassifyVigilanteJustice(t *testing.T) {
	tr := New()
	for i := uint64(0); i < 10; i++ {
		perp := ids.NewAgentID()
		victim := ids.NewAgentID()
		punisher := ids.NewAgentID()
		crimeID := tr.RecordCrime(makeCrime(CrimeAssault, perp, &victim, nil, i, true))
		if err := tr.RecordPunishment(makePunishment(crimeID, punisher, i+1, PunishmentPhysical)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := tr.ClassifyJusticeSystem(); got != PatternVigilanteJustice {
		t.Fatalf("expected VigilanteJustice, got %v", got)
	}
}

func TestClassifyCentralizedPolicing(t *testing.T) {
	tr := New()
	sheriff := ids.NewAgentID()
	for i := uint64(0); i < 10; i++ {
		perp := ids.NewAgentID()
		crimeID := tr.RecordCrime(makeCrime(CrimeTheft, perp, nil, nil, i, true))
		if err := tr.RecordPunishment(makePunishment(crimeID, sheriff, i+1, PunishmentResourceConfiscation)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for i := uint64(10); i < 14; i++ {
		perp := ids.NewAgentID()
		other := ids.NewAgentID()
		crimeID := tr.RecordCrime(makeCrime(CrimeTheft, perp, nil, nil, i, true))
		if err := tr.RecordPunishment(makePunishment(crimeID, other, i+1, PunishmentSocialShaming)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := tr.ClassifyJusticeSystem(); got != PatternCentralizedPolicing {
		t.Fatalf("expected CentralizedPolicing, got %v", got)
	}
}

func TestClassifyCourtSystem(t *testing.T) {
	tr := New()
	punisher := ids.NewAgentID()
	crimeID := tr.RecordCrime(makeCrime(CrimeMurder, ids.NewAgentID(), nil, nil, 1, true))
	if err := tr.RecordPunishment(makePunishment(crimeID, punisher, 2, PunishmentExile)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr.RecordPunishmentVote(ids.NewAgentID())
	if got := tr.ClassifyJusticeSystem(); got != PatternCourtSystem {
		t.Fatalf("expected CourtSystem, got %v", got)
	}
}

func TestMostCommonCrimesSorted(t *testing.T) {
	tr := New()
	for i := uint64(0); i < 5; i++ {
		tr.RecordCrime(makeCrime(CrimeTheft, ids.NewAgentID(), nil, nil, i, true))
	}
	for i := uint64(5); i < 7; i++ {
		tr.RecordCrime(makeCrime(CrimeAssault, ids.NewAgentID(), nil, nil, i, true))
	}
	tr.RecordCrime(makeCrime(CrimeDeception, ids.NewAgentID(), nil, nil, 8, true))

	common := tr.GetMostCommonCrimes()
	if len(common) != 3 {
		t.Fatalf("expected 3 distinct crime types, got %d", len(common))
	}
	if common[0].Type != CrimeTheft || common[0].Count != 5 {
		t.Fatalf("expected theft to be most common with count 5, got %+v", common[0])
	}
	if common[1].Type != CrimeAssault || common[1].Count != 2 {
		t.Fatalf("expected assault second with count 2, got %+v", common[1])
	}
	if common[2].Type != CrimeDeception || common[2].Count != 1 {
		t.Fatalf("expected deception third with count 1, got %+v", common[2])
	}
}

func TestSerialOffendersThreshold(t *testing.T) {
	tr := New()
	serial := ids.NewAgentID()
	casual := ids.NewAgentID()
	for i := uint64(0); i < 4; i++ {
		tr.RecordCrime(makeCrime(CrimeTheft, serial, nil, nil, i, true))
	}
	for i := uint64(4); i < 6; i++ {
		tr.RecordCrime(makeCrime(CrimeTheft, casual, nil, nil, i, true))
	}
	offenders := tr.GetSerialOffenders()
	if len(offenders) != 1 {
		t.Fatalf("expected exactly 1 serial offender, got %d", len(offenders))
	}
	if offenders[0].Agent != serial || offenders[0].Count != 4 {
		t.Fatalf("expected the serial offender's count to be 4, got %+v", offenders[0])
	}
}

func TestCrimeByLocationHotspots(t *testing.T) {
	tr := New()
	locA := ids.NewLocationID()
	locB := ids.NewLocationID()
	for i := uint64(0); i < 5; i++ {
		tr.RecordCrime(makeCrime(CrimeTheft, ids.NewAgentID(), nil, &locA, i, true))
	}
	for i := uint64(5); i < 7; i++ {
		tr.RecordCrime(makeCrime(CrimeAssault, ids.NewAgentID(), nil, &locB, i, true))
	}

	hotspots := tr.CrimeByLocation()
	counts := make(map[ids.LocationID]uint32)
	for _, h := range hotspots {
		counts[h.Location] = h.Count
	}
	if counts[locA] != 5 {
		t.Fatalf("expected 5 crimes at locA, got %d", counts[locA])
	}
	if counts[locB] != 2 {
		t.Fatalf("expected 2 crimes at locB, got %d", counts[locB])
	}
}

func TestCrimeByLocationNoLocation(t *testing.T) {
	tr := New()
	tr.RecordCrime(makeCrime(CrimeDeception, ids.NewAgentID(), nil, nil, 1, true))
	if hotspots := tr.CrimeByLocation(); len(hotspots) != 0 {
		t.Fatalf("expected no hotspots when no crime has a location")
	}
}
