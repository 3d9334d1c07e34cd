// Package ids defines opaque, totally-ordered, time-ordered identifier
// types for every entity kind in the simulation — design doc component B.
//
// Each kind wraps a UUIDv7 (RFC 9562), which embeds a millisecond
// timestamp in its high bits, so ids sort chronologically without a
// separate sequence counter. Grounded on the teacher's use of
// google/uuid (listed but unused in its go.mod); NewV7 is the better
// fit for "time-ordered 128-bit unique value" than the teacher's bare
// uint64 counters.
package ids

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// rawID is embedded by every concrete id type below.
type rawID struct {
	u uuid.UUID
}

func newRaw() rawID {
	u, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails if the system entropy source is broken, which
		// indicates an unrecoverable environment — not a case this
		// simulation can meaningfully continue past.
		panic(fmt.Errorf("ids: generate uuidv7: %w", err))
	}
	return rawID{u: u}
}

func (r rawID) String() string { return r.u.String() }

// Compare orders two raw ids consistently with their embedded timestamps.
func (r rawID) Compare(other rawID) int { return bytes.Compare(r.u[:], other.u[:]) }

func (r rawID) IsZero() bool { return r.u == uuid.Nil }

func (r rawID) MarshalJSON() ([]byte, error) { return []byte(`"` + r.u.String() + `"`), nil }

func (r *rawID) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		r.u = uuid.Nil
		return nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return fmt.Errorf("ids: parse %q: %w", s, err)
	}
	r.u = u
	return nil
}

// MarshalText renders the id in its canonical string form, letting
// encoding/json use concrete id types as map keys (json.Marshal only
// accepts string-kinded or encoding.TextMarshaler keys).
func (r rawID) MarshalText() ([]byte, error) { return []byte(r.u.String()), nil }

// UnmarshalText parses the canonical string form back into the id,
// the map-key counterpart to MarshalText.
func (r *rawID) UnmarshalText(b []byte) error {
	return r.UnmarshalJSON([]byte(`"` + string(b) + `"`))
}

func parseRaw(s string) (rawID, error) {
	if s == "" {
		return rawID{}, nil
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return rawID{}, fmt.Errorf("ids: parse %q: %w", s, err)
	}
	return rawID{u: u}, nil
}

// One opaque id type per entity kind. Each type is a distinct Go type so
// ids from different registries cannot be compared or confused by the
// type system.

type AgentID struct{ rawID }
type LocationID struct{ rawID }
type RouteID struct{ rawID }
type StructureID struct{ rawID }
type GroupID struct{ rawID }
type TradeID struct{ rawID }
type EventID struct{ rawID }
type ConstructID struct{ rawID }
type ConflictID struct{ rawID }
type AllianceID struct{ rawID }
type TreatyID struct{ rawID }
type TributeID struct{ rawID }
type CrimeID struct{ rawID }
type PunishmentID struct{ rawID }
type PropagandaPostID struct{ rawID }
type DeceptionRecordID struct{ rawID }

// Compare overrides rawID's promoted Compare on each concrete type so
// same-kind ids can be compared directly without exposing rawID.
func (a AgentID) Compare(other AgentID) int           { return bytes.Compare(a.u[:], other.u[:]) }
func (l LocationID) Compare(other LocationID) int     { return bytes.Compare(l.u[:], other.u[:]) }
func (r RouteID) Compare(other RouteID) int           { return bytes.Compare(r.u[:], other.u[:]) }
func (s StructureID) Compare(other StructureID) int   { return bytes.Compare(s.u[:], other.u[:]) }
func (g GroupID) Compare(other GroupID) int           { return bytes.Compare(g.u[:], other.u[:]) }
func (t TradeID) Compare(other TradeID) int           { return bytes.Compare(t.u[:], other.u[:]) }
func (e EventID) Compare(other EventID) int           { return bytes.Compare(e.u[:], other.u[:]) }
func (c ConstructID) Compare(other ConstructID) int   { return bytes.Compare(c.u[:], other.u[:]) }
func (c ConflictID) Compare(other ConflictID) int     { return bytes.Compare(c.u[:], other.u[:]) }
func (a AllianceID) Compare(other AllianceID) int     { return bytes.Compare(a.u[:], other.u[:]) }
func (t TreatyID) Compare(other TreatyID) int         { return bytes.Compare(t.u[:], other.u[:]) }
func (t TributeID) Compare(other TributeID) int       { return bytes.Compare(t.u[:], other.u[:]) }
func (c CrimeID) Compare(other CrimeID) int           { return bytes.Compare(c.u[:], other.u[:]) }
func (p PunishmentID) Compare(other PunishmentID) int { return bytes.Compare(p.u[:], other.u[:]) }
func (p PropagandaPostID) Compare(other PropagandaPostID) int {
	return bytes.Compare(p.u[:], other.u[:])
}
func (d DeceptionRecordID) Compare(other DeceptionRecordID) int {
	return bytes.Compare(d.u[:], other.u[:])
}

func NewAgentID() AgentID                   { return AgentID{newRaw()} }
func NewLocationID() LocationID             { return LocationID{newRaw()} }
func NewRouteID() RouteID                   { return RouteID{newRaw()} }
func NewStructureID() StructureID           { return StructureID{newRaw()} }
func NewGroupID() GroupID                   { return GroupID{newRaw()} }
func NewTradeID() TradeID                   { return TradeID{newRaw()} }
func NewEventID() EventID                   { return EventID{newRaw()} }
func NewConstructID() ConstructID           { return ConstructID{newRaw()} }
func NewConflictID() ConflictID             { return ConflictID{newRaw()} }
func NewAllianceID() AllianceID             { return AllianceID{newRaw()} }
func NewTreatyID() TreatyID                 { return TreatyID{newRaw()} }
func NewTributeID() TributeID               { return TributeID{newRaw()} }
func NewCrimeID() CrimeID                   { return CrimeID{newRaw()} }
func NewPunishmentID() PunishmentID         { return PunishmentID{newRaw()} }
func NewPropagandaPostID() PropagandaPostID { return PropagandaPostID{newRaw()} }
func NewDeceptionRecordID() DeceptionRecordID {
	return DeceptionRecordID{newRaw()}
}

func ParseAgentID(s string) (AgentID, error)     { r, err := parseRaw(s); return AgentID{r}, err }
func ParseLocationID(s string) (LocationID, error) {
	r, err := parseRaw(s)
	return LocationID{r}, err
}
func ParseRouteID(s string) (RouteID, error) { r, err := parseRaw(s); return RouteID{r}, err }
func ParseStructureID(s string) (StructureID, error) {
	r, err := parseRaw(s)
	return StructureID{r}, err
}
func ParseGroupID(s string) (GroupID, error) { r, err := parseRaw(s); return GroupID{r}, err }
func ParseTradeID(s string) (TradeID, error) { r, err := parseRaw(s); return TradeID{r}, err }
func ParseConstructID(s string) (ConstructID, error) {
	r, err := parseRaw(s)
	return ConstructID{r}, err
}
