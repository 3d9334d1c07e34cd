// Package comms is the visibility-filtered message router — design doc
// component N. Ported from the original simulation's communication.rs
// (Public/Whisper/Conspire/LocationAnnouncement routing, retention with
// LocationAnnouncement exemption, and the curiosity-scaled eavesdrop
// roll), into the teacher's idiom with the router holding an
// insertion-ordered slice keyed by ids.EventID-shaped message ids
// instead of a bare uuid map, matching internal/world.Registry's
// insertion-order convention.
package comms

import (
	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

// Visibility determines who may retrieve a message.
type Visibility uint8

const (
	VisibilityPublic Visibility = iota
	VisibilityWhisper
	VisibilityConspire
	VisibilityLocationAnnouncement
)

// Message is one routed communication.
type Message struct {
	ID            ids.EventID
	Sender        ids.AgentID
	Tick          uint64
	Content       string
	Visibility    Visibility
	WhisperTarget ids.AgentID   // set when Visibility == VisibilityWhisper
	ConspireGroup []ids.AgentID // set when Visibility == VisibilityConspire
	Location      *ids.LocationID
}

// Stats tracks aggregate message counts by visibility type.
type Stats struct {
	TotalMessages     uint32
	PublicCount       uint32
	WhisperCount      uint32
	ConspireCount     uint32
	EavesdroppedCount uint32
}

// Router stores every live message and answers per-agent,
// per-location, and per-tick visibility queries.
type Router struct {
	messages map[ids.EventID]Message
	order    []ids.EventID
	stats    Stats
}

// New returns an empty router.
func New() *Router {
	return &Router{messages: make(map[ids.EventID]Message)}
}

// Send stores message and updates visibility-type statistics.
func (r *Router) Send(message Message) {
	switch message.Visibility {
	case VisibilityPublic, VisibilityLocationAnnouncement:
		r.stats.PublicCount++
	case VisibilityWhisper:
		r.stats.WhisperCount++
	case VisibilityConspire:
		r.stats.ConspireCount++
	}
	r.stats.TotalMessages++
	r.messages[message.ID] = message
	r.order = append(r.order, message.ID)
}

// MessagesForAgent returns every message agentID should see at tick
// given their current location: public/location-announcement messages
// at that location, whispers targeting them, and conspire messages
// naming them.
func (r *Router) MessagesForAgent(agentID ids.AgentID, location ids.LocationID, tick uint64) []Message {
	var out []Message
	for _, id := range r.order {
		msg := r.messages[id]
		switch msg.Visibility {
		case VisibilityPublic:
			if msg.Tick == tick && msg.Location != nil && *msg.Location == location {
				out = append(out, msg)
			}
		case VisibilityWhisper:
			if msg.Tick == tick && msg.WhisperTarget == agentID {
				out = append(out, msg)
			}
		case VisibilityConspire:
			if msg.Tick == tick && containsAgent(msg.ConspireGroup, agentID) {
				out = append(out, msg)
			}
		case VisibilityLocationAnnouncement:
			if msg.Location != nil && *msg.Location == location {
				out = append(out, msg)
			}
		}
	}
	return out
}

// PublicMessagesAtLocation returns only public messages at location for
// tick.
func (r *Router) PublicMessagesAtLocation(location ids.LocationID, tick uint64) []Message {
	var out []Message
	for _, id := range r.order {
		msg := r.messages[id]
		if msg.Visibility == VisibilityPublic && msg.Tick == tick && msg.Location != nil && *msg.Location == location {
			out = append(out, msg)
		}
	}
	return out
}

// PrivateMessagesBetween returns whisper messages sent in either
// direction between agentA and agentB, in send order.
func (r *Router) PrivateMessagesBetween(agentA, agentB ids.AgentID) []Message {
	var out []Message
	for _, id := range r.order {
		msg := r.messages[id]
		if msg.Visibility != VisibilityWhisper {
			continue
		}
		if (msg.Sender == agentA && msg.WhisperTarget == agentB) || (msg.Sender == agentB && msg.WhisperTarget == agentA) {
			out = append(out, msg)
		}
	}
	return out
}

// ConspireMessagesForGroup returns conspire messages whose group is a
// superset of group.
func (r *Router) ConspireMessagesForGroup(group []ids.AgentID) []Message {
	var out []Message
	for _, id := range r.order {
		msg := r.messages[id]
		if msg.Visibility != VisibilityConspire {
			continue
		}
		if isSubsetOf(group, msg.ConspireGroup) {
			out = append(out, msg)
		}
	}
	return out
}

// Stats returns the router's running statistics.
func (r *Router) Stats() Stats { return r.stats }

// ClearOldMessages purges messages sent before currentTick-retentionTicks,
// exempting LocationAnnouncement messages, which persist indefinitely.
func (r *Router) ClearOldMessages(currentTick, retentionTicks uint64) {
	cutoff := uint64(0)
	if currentTick > retentionTicks {
		cutoff = currentTick - retentionTicks
	}
	var kept []ids.EventID
	for _, id := range r.order {
		msg := r.messages[id]
		if msg.Visibility == VisibilityLocationAnnouncement || msg.Tick >= cutoff {
			kept = append(kept, id)
			continue
		}
		delete(r.messages, id)
	}
	r.order = kept
}

// eavesdropFactor/maxChance implement the design doc §4.N formula:
// chance = min(curiosity * 0.05, 0.15).
var (
	eavesdropFactor = fixedpoint.FromPer10000(500)  // 0.05
	eavesdropMax    = fixedpoint.FromPer10000(1500) // 0.15
)

// EavesdropCheck attempts to intercept a stored whisper. roll must be a
// draw in [0,10000) from the caller's prng.Source.Per10000(). Returns
// the message and true on a successful intercept.
func (r *Router) EavesdropCheck(messageID ids.EventID, eavesdropperID ids.AgentID, eavesdropperLocation ids.LocationID, curiosity fixedpoint.Decimal, roll int64) (Message, bool) {
	msg, ok := r.messages[messageID]
	if !ok || msg.Visibility != VisibilityWhisper {
		return Message{}, false
	}
	if msg.Location == nil || *msg.Location != eavesdropperLocation {
		return Message{}, false
	}
	if eavesdropperID == msg.Sender || eavesdropperID == msg.WhisperTarget {
		return Message{}, false
	}

	chance := curiosity.Mul(eavesdropFactor)
	if chance.Cmp(eavesdropMax) > 0 {
		chance = eavesdropMax
	}
	threshold := chance.Mul(fixedpoint.FromInt(10000)).Floor()
	if roll >= threshold {
		return Message{}, false
	}
	r.stats.EavesdroppedCount++
	return msg, true
}

// MessageCount returns the number of live stored messages.
func (r *Router) MessageCount() int { return len(r.messages) }

func containsAgent(group []ids.AgentID, agentID ids.AgentID) bool {
	for _, a := range group {
		if a == agentID {
			return true
		}
	}
	return false
}

// isSubsetOf reports whether every member of sub is present in super.
func isSubsetOf(sub, super []ids.AgentID) bool {
	for _, member := range sub {
		if !containsAgent(super, member) {
			return false
		}
	}
	return true
}
