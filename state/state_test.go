package state

import (
	"testing"

	"github.com/gonzalop/lwmqtt/lightweight"
)

func TestOutboundQoS1Lattice(t *testing.T) {
	var tr Tracker

	s, status := tr.UpdateStatePublish(1, lightweight.QoS1, OpSend)
	if status != lightweight.StatusSuccess || s != PubAckPending {
		t.Fatalf("after send: state=%v status=%v, want PubAckPending success", s, status)
	}

	s, status = tr.UpdateStateAck(1, lightweight.PacketTypePubAck, OpReceive)
	if status != lightweight.StatusSuccess || s != PublishDone {
		t.Fatalf("after recv PUBACK: state=%v status=%v, want PublishDone success", s, status)
	}

	if _, ok := tr.Find(1, OriginatorSend); ok {
		t.Fatalf("record should have been released on PublishDone")
	}
}

func TestOutboundQoS2Lattice(t *testing.T) {
	var tr Tracker

	s, _ := tr.UpdateStatePublish(7, lightweight.QoS2, OpSend)
	if s != PubRecPending {
		t.Fatalf("after send: state=%v, want PubRecPending", s)
	}

	s, status := tr.UpdateStateAck(7, lightweight.PacketTypePubRec, OpReceive)
	if status != lightweight.StatusSuccess || s != PubRelSend {
		t.Fatalf("after recv PUBREC: state=%v status=%v, want PubRelSend success", s, status)
	}

	s, status = tr.UpdateStateAck(7, lightweight.PacketTypePubRel, OpSend)
	if status != lightweight.StatusSuccess || s != PubCompPending {
		t.Fatalf("after send PUBREL: state=%v status=%v, want PubCompPending success", s, status)
	}

	s, status = tr.UpdateStateAck(7, lightweight.PacketTypePubComp, OpReceive)
	if status != lightweight.StatusSuccess || s != PublishDone {
		t.Fatalf("after recv PUBCOMP: state=%v status=%v, want PublishDone success", s, status)
	}
}

func TestInboundQoS1Lattice(t *testing.T) {
	var tr Tracker

	s, _ := tr.UpdateStatePublish(3, lightweight.QoS1, OpReceive)
	if s != PubAckSend {
		t.Fatalf("after recv PUBLISH: state=%v, want PubAckSend", s)
	}

	s, status := tr.UpdateStateAck(3, lightweight.PacketTypePubAck, OpSend)
	if status != lightweight.StatusSuccess || s != PublishDone {
		t.Fatalf("after send PUBACK: state=%v status=%v, want PublishDone success", s, status)
	}
}

func TestInboundQoS2Lattice(t *testing.T) {
	var tr Tracker

	s, _ := tr.UpdateStatePublish(4, lightweight.QoS2, OpReceive)
	if s != PubRecSend {
		t.Fatalf("after recv PUBLISH: state=%v, want PubRecSend", s)
	}

	s, status := tr.UpdateStateAck(4, lightweight.PacketTypePubRec, OpSend)
	if status != lightweight.StatusSuccess || s != PubRelPending {
		t.Fatalf("after send PUBREC: state=%v status=%v, want PubRelPending success", s, status)
	}

	s, status = tr.UpdateStateAck(4, lightweight.PacketTypePubRel, OpReceive)
	if status != lightweight.StatusSuccess || s != PubCompSend {
		t.Fatalf("after recv PUBREL: state=%v status=%v, want PubCompSend success", s, status)
	}

	s, status = tr.UpdateStateAck(4, lightweight.PacketTypePubComp, OpSend)
	if status != lightweight.StatusSuccess || s != PublishDone {
		t.Fatalf("after send PUBCOMP: state=%v status=%v, want PublishDone success", s, status)
	}
}

func TestDuplicateInboundQoS2PublishIsIdempotent(t *testing.T) {
	var tr Tracker

	tr.UpdateStatePublish(4, lightweight.QoS2, OpReceive)
	tr.UpdateStateAck(4, lightweight.PacketTypePubRec, OpSend) // -> PubRelPending

	// Duplicate PUBLISH for the same id arrives again before the PUBREL.
	s, status := tr.UpdateStatePublish(4, lightweight.QoS2, OpReceive)
	if status != lightweight.StatusSuccess || s != PubRelPending {
		t.Fatalf("duplicate PUBLISH: state=%v status=%v, want PubRelPending success (idempotent)", s, status)
	}

	if tr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (no new record created)", tr.Len())
	}
}

func TestUnknownPacketIDAckIsBadResponse(t *testing.T) {
	var tr Tracker
	_, status := tr.UpdateStateAck(99, lightweight.PacketTypePubAck, OpReceive)
	if status != lightweight.StatusBadResponse {
		t.Fatalf("status = %v, want StatusBadResponse", status)
	}
}

func TestIllegalTransitionReturnsStateNull(t *testing.T) {
	var tr Tracker
	tr.UpdateStatePublish(1, lightweight.QoS1, OpSend) // -> PubAckPending

	// A PUBCOMP makes no sense for a QoS 1 outbound publish.
	s, status := tr.UpdateStateAck(1, lightweight.PacketTypePubComp, OpReceive)
	if status != lightweight.StatusSuccess {
		t.Fatalf("status = %v, want StatusSuccess (StateNull is a valid outcome, not an error)", status)
	}
	if s != StateNull {
		t.Fatalf("state = %v, want StateNull", s)
	}
}

func TestIndependentRecordsForDistinctPacketIDs(t *testing.T) {
	var tr Tracker
	tr.UpdateStatePublish(1, lightweight.QoS1, OpSend)
	tr.UpdateStatePublish(2, lightweight.QoS1, OpSend)

	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}

	s, status := tr.UpdateStateAck(1, lightweight.PacketTypePubAck, OpReceive)
	if status != lightweight.StatusSuccess || s != PublishDone {
		t.Fatalf("closing id 1: state=%v status=%v", s, status)
	}
	if tr.Len() != 1 {
		t.Fatalf("Len() after closing id 1 = %d, want 1", tr.Len())
	}
	if _, ok := tr.Find(2, OriginatorSend); !ok {
		t.Fatalf("id 2's record should be untouched by closing id 1")
	}
}

func TestAbandonReleasesRecord(t *testing.T) {
	var tr Tracker
	tr.UpdateStatePublish(5, lightweight.QoS1, OpSend)
	tr.Abandon(5, OriginatorSend)
	if _, ok := tr.Find(5, OriginatorSend); ok {
		t.Fatalf("record should have been released by Abandon")
	}
}

func TestTrackerCapacity(t *testing.T) {
	var tr Tracker
	for i := uint16(1); i <= MaxInFlight; i++ {
		if _, status := tr.UpdateStatePublish(i, lightweight.QoS1, OpSend); status != lightweight.StatusSuccess {
			t.Fatalf("reserving id %d: status = %v", i, status)
		}
	}
	if _, status := tr.UpdateStatePublish(MaxInFlight+1, lightweight.QoS1, OpSend); status != lightweight.StatusNoMemory {
		t.Fatalf("status at capacity = %v, want StatusNoMemory", status)
	}
}
