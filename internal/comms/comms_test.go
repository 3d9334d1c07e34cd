package comms

import (
	"testing"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

func TestMessagesForAgentFiltersByVisibility(t *testing.T) {
	r := New()
	sender := ids.NewAgentID()
	target := ids.NewAgentID()
	bystander := ids.NewAgentID()
	loc := ids.NewLocationID()

	whisper := Message{ID: ids.NewEventID(), Sender: sender, Tick: 5, Content: "psst", Visibility: VisibilityWhisper, WhisperTarget: target, Location: &loc}
	public := Message{ID: ids.NewEventID(), Sender: sender, Tick: 5, Content: "hear ye", Visibility: VisibilityPublic, Location: &loc}
	r.Send(whisper)
	r.Send(public)

	targetMsgs := r.MessagesForAgent(target, loc, 5)
	if len(targetMsgs) != 2 {
		t.Fatalf("expected target to see both whisper and public, got %d", len(targetMsgs))
	}

	bystanderMsgs := r.MessagesForAgent(bystander, loc, 5)
	if len(bystanderMsgs) != 1 {
		t.Fatalf("expected bystander to see only the public message, got %d", len(bystanderMsgs))
	}
	if bystanderMsgs[0].Visibility != VisibilityPublic {
		t.Fatalf("expected the visible message to be public")
	}
}

func TestConspireMessagesForGroupRequiresSubset(t *testing.T) {
	r := New()
	a, b, c := ids.NewAgentID(), ids.NewAgentID(), ids.NewAgentID()
	msg := Message{ID: ids.NewEventID(), Sender: a, Tick: 1, Visibility: VisibilityConspire, ConspireGroup: []ids.AgentID{a, b, c}}
	r.Send(msg)

	if got := r.ConspireMessagesForGroup([]ids.AgentID{a, b}); len(got) != 1 {
		t.Fatalf("expected a subset query to match, got %d", len(got))
	}
	stranger := ids.NewAgentID()
	if got := r.ConspireMessagesForGroup([]ids.AgentID{a, stranger}); len(got) != 0 {
		t.Fatalf("expected a non-subset query to not match, got %d", len(got))
	}
}

func TestClearOldMessagesExemptsLocationAnnouncements(t *testing.T) {
	r := New()
	loc := ids.NewLocationID()
	old := Message{ID: ids.NewEventID(), Tick: 1, Visibility: VisibilityPublic, Location: &loc}
	announcement := Message{ID: ids.NewEventID(), Tick: 1, Visibility: VisibilityLocationAnnouncement, Location: &loc}
	r.Send(old)
	r.Send(announcement)

	r.ClearOldMessages(100, 10)
	if r.MessageCount() != 1 {
		t.Fatalf("expected only the announcement to survive retention, got %d", r.MessageCount())
	}
}

func TestEavesdropCheckExcludesSenderAndTargetAndScalesWithCuriosity(t *testing.T) {
	r := New()
	sender := ids.NewAgentID()
	target := ids.NewAgentID()
	eavesdropper := ids.NewAgentID()
	loc := ids.NewLocationID()

	msg := Message{ID: ids.NewEventID(), Sender: sender, Tick: 1, Visibility: VisibilityWhisper, WhisperTarget: target, Location: &loc}
	r.Send(msg)

	if _, ok := r.EavesdropCheck(msg.ID, sender, loc, fixedpoint.FromInt(10), 0); ok {
		t.Fatalf("sender should never eavesdrop on their own whisper")
	}
	if _, ok := r.EavesdropCheck(msg.ID, target, loc, fixedpoint.FromInt(10), 0); ok {
		t.Fatalf("the intended target is not eavesdropping")
	}

	// curiosity=10 -> chance capped at 0.15 -> threshold 1500/10000.
	if _, ok := r.EavesdropCheck(msg.ID, eavesdropper, loc, fixedpoint.FromInt(10), 1499); !ok {
		t.Fatalf("expected a roll just under the capped threshold to succeed")
	}
	if _, ok := r.EavesdropCheck(msg.ID, eavesdropper, loc, fixedpoint.FromInt(10), 1500); ok {
		t.Fatalf("expected a roll at the capped threshold to fail")
	}
	if r.Stats().EavesdroppedCount != 1 {
		t.Fatalf("expected exactly one successful eavesdrop recorded, got %d", r.Stats().EavesdroppedCount)
	}
}
