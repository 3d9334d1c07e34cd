package ledger

import (
	"testing"

	"github.com/talgya/emergence/internal/fixedpoint"
	"github.com/talgya/emergence/internal/ids"
)

func TestRecordAgentTransferBalances(t *testing.T) {
	l := New()
	from := ids.NewAgentID()
	to := ids.NewAgentID()

	if err := l.RecordAgentTransfer(TransferParams{
		Tick: 5, Resource: "wood", Quantity: fixedpoint.FromInt(4),
		From: from, To: to, Reason: "trade",
	}); err != nil {
		t.Fatalf("record transfer: %v", err)
	}

	if len(l.Entries()) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(l.Entries()))
	}

	res := l.VerifyConservation(5)
	if !res.Balanced {
		t.Fatalf("expected balanced, got imbalance on %s delta %s", res.Resource, res.Delta)
	}
}

func TestVerifyConservationDetectsImbalance(t *testing.T) {
	l := New()
	from := ids.NewAgentID()
	// Manually break conservation: single debit entry, no matching credit.
	l.entries = append(l.entries, Entry{
		Tick: 1, Resource: "stone", Quantity: fixedpoint.FromInt(3),
		Direction: Debit, Party: AgentParty(from),
	})
	res := l.VerifyConservation(1)
	if res.Balanced {
		t.Fatalf("expected imbalance to be detected")
	}
	if res.Resource != "stone" {
		t.Fatalf("expected imbalance on stone, got %s", res.Resource)
	}
}

func TestRecordAgentTransferRejectsNonPositive(t *testing.T) {
	l := New()
	err := l.RecordAgentTransfer(TransferParams{
		Tick: 1, Resource: "wood", Quantity: fixedpoint.Zero,
		From: ids.NewAgentID(), To: ids.NewAgentID(),
	})
	if err == nil {
		t.Fatalf("expected error for zero quantity transfer")
	}
}
