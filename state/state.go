// Package state tracks the QoS acknowledgement sequence of every in-flight
// PUBLISH on one MQTT connection: a fixed-capacity, index-addressed slot
// table with no pointer cycles and no dynamic growth.
package state

import "github.com/gonzalop/lwmqtt/lightweight"

// MaxInFlight is the compile-time bound on concurrently in-flight QoS ≥ 1
// exchanges (outbound and inbound combined) on a single connection. The
// number of packet ids a single cooperative connection keeps unacked at
// once is small in practice, so a fixed slot table comfortably covers it.
const MaxInFlight = 10

// Operation distinguishes who performed the wire operation being recorded:
// whether this event is this side sending a packet, or receiving one.
// It is orthogonal to Originator, which tracks which side owns the
// original PUBLISH.
type Operation uint8

const (
	OpSend Operation = iota
	OpReceive
)

// Originator records which side produced the original PUBLISH that a
// record is tracking the acknowledgement sequence for.
type Originator uint8

const (
	// OriginatorSend: this side sent the PUBLISH (outbound QoS ≥ 1).
	OriginatorSend Originator = iota
	// OriginatorReceive: this side received the PUBLISH (inbound QoS ≥ 1).
	OriginatorReceive
)

// PublishState is a stage in a QoS ≥ 1 PUBLISH's acknowledgement sequence.
type PublishState uint8

const (
	Invalid PublishState = iota
	PublishSend
	PubAckPending
	PubRecPending
	PubRelPending
	PubCompPending
	PubAckSend
	PubRecSend
	PubRelSend
	PubCompSend
	PublishDone
	StateNull
)

var stateNames = [...]string{
	Invalid:        "invalid",
	PublishSend:    "publish-send",
	PubAckPending:  "puback-pending",
	PubRecPending:  "pubrec-pending",
	PubRelPending:  "pubrel-pending",
	PubCompPending: "pubcomp-pending",
	PubAckSend:     "puback-send",
	PubRecSend:     "pubrec-send",
	PubRelSend:     "pubrel-send",
	PubCompSend:    "pubcomp-send",
	PublishDone:    "publish-done",
	StateNull:      "state-null",
}

func (s PublishState) String() string {
	if int(s) < len(stateNames) && stateNames[s] != "" {
		return stateNames[s]
	}
	return "unknown"
}

// Record is the tracked state of one in-flight PUBLISH.
type Record struct {
	PacketID   uint16
	QoS        lightweight.QoS
	State      PublishState
	Originator Originator
}

type slot struct {
	inUse bool
	rec   Record
}

// Tracker is a fixed-capacity, index-addressed table of in-flight publish
// records. Its backing array is a struct field, not a heap allocation
// made on demand, so a Tracker embedded by value in a connection context
// never grows after construction.
type Tracker struct {
	slots [MaxInFlight]slot
}

// find returns the index of the record for (packetID, originator), or -1.
func (t *Tracker) find(packetID uint16, originator Originator) int {
	for i := range t.slots {
		if t.slots[i].inUse && t.slots[i].rec.PacketID == packetID && t.slots[i].rec.Originator == originator {
			return i
		}
	}
	return -1
}

func (t *Tracker) freeSlot() int {
	for i := range t.slots {
		if !t.slots[i].inUse {
			return i
		}
	}
	return -1
}

// Find returns the record for (packetID, originator) and whether it exists.
func (t *Tracker) Find(packetID uint16, originator Originator) (Record, bool) {
	i := t.find(packetID, originator)
	if i < 0 {
		return Record{}, false
	}
	return t.slots[i].rec, true
}

// Len reports the number of in-flight records currently tracked.
func (t *Tracker) Len() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].inUse {
			n++
		}
	}
	return n
}

// release removes a record from the table, freeing its slot.
func (t *Tracker) release(i int) {
	t.slots[i] = slot{}
}

// UpdateStatePublish records the effect of sending or receiving a PUBLISH
// with the given QoS, and returns the state the record lands in:
//
//	outbound (OpSend, OriginatorSend)    QoS1 -> PubAckPending, QoS2 -> PubRecPending
//	inbound  (OpReceive, OriginatorReceive) QoS1 -> PubAckSend, QoS2 -> PubRecSend
//
// Calling this for QoS0 is a caller error: records are created only for
// QoS ≥ 1.
//
// A duplicate inbound QoS 2 PUBLISH for a packet id already parked in
// PubRelPending is accepted idempotently: the existing state is returned
// unchanged and no new record is created. The caller (the engine) uses
// this to suppress a second invocation of the user callback.
func (t *Tracker) UpdateStatePublish(packetID uint16, qos lightweight.QoS, op Operation) (PublishState, lightweight.Status) {
	if packetID == 0 || qos == lightweight.QoS0 {
		return StateNull, lightweight.StatusBadParameter
	}

	originator := originatorFor(op)

	if i := t.find(packetID, originator); i >= 0 {
		existing := t.slots[i].rec
		if originator == OriginatorReceive && qos == lightweight.QoS2 && existing.State == PubRelPending {
			return existing.State, lightweight.StatusSuccess
		}
		// Any other repeat of a first-hop PUBLISH for an id still in
		// flight has no legal next state.
		return StateNull, lightweight.StatusSuccess
	}

	var initial PublishState
	switch {
	case op == OpSend && qos == lightweight.QoS1:
		initial = PubAckPending
	case op == OpSend && qos == lightweight.QoS2:
		initial = PubRecPending
	case op == OpReceive && qos == lightweight.QoS1:
		initial = PubAckSend
	case op == OpReceive && qos == lightweight.QoS2:
		initial = PubRecSend
	default:
		return StateNull, lightweight.StatusBadParameter
	}

	i := t.freeSlot()
	if i < 0 {
		return StateNull, lightweight.StatusNoMemory
	}
	t.slots[i] = slot{inUse: true, rec: Record{PacketID: packetID, QoS: qos, State: initial, Originator: originator}}
	return initial, lightweight.StatusSuccess
}

// UpdateStateAck records the effect of sending or receiving an ack-family
// packet (PUBACK, PUBREC, PUBREL, PUBCOMP) for packetID, and returns the
// resulting state. packetType is one of lightweight.PacketTypePubAck,
// PacketTypePubRec, PacketTypePubRel, PacketTypePubComp.
//
// If no record exists for packetID under the originator implied by
// packetType+op, this returns StateNull with lightweight.StatusBadResponse:
// an ack for an id the tracker never opened a record for is a protocol
// violation by the peer. If a record exists but the transition is not
// legal, this returns StateNull with lightweight.StatusSuccess; the
// caller (the engine) is responsible for surfacing that as
// StatusIllegalState.
func (t *Tracker) UpdateStateAck(packetID uint16, packetType uint8, op Operation) (PublishState, lightweight.Status) {
	originator := ackOriginator(packetType, op)

	i := t.find(packetID, originator)
	if i < 0 {
		return StateNull, lightweight.StatusBadResponse
	}
	rec := &t.slots[i].rec

	next, ok := transition(rec.State, rec.QoS, packetType, op)
	if !ok {
		return StateNull, lightweight.StatusSuccess
	}

	if next == PublishDone {
		t.release(i)
		return PublishDone, lightweight.StatusSuccess
	}

	rec.State = next
	return next, lightweight.StatusSuccess
}

func originatorFor(op Operation) Originator {
	if op == OpSend {
		return OriginatorSend
	}
	return OriginatorReceive
}

// ackOriginator determines which original-PUBLISH side an ack-family
// packet event belongs to. A PUBACK/PUBCOMP we receive, or a PUBREC we
// receive, acknowledges a PUBLISH *we* sent (OriginatorSend). A
// PUBACK/PUBREC/PUBCOMP we send acknowledges a PUBLISH we received
// (OriginatorReceive). PUBREL is the odd one out: a PUBREL we receive
// continues a PUBLISH we received (OriginatorReceive); a PUBREL we send
// continues a PUBLISH we sent (OriginatorSend).
func ackOriginator(packetType uint8, op Operation) Originator {
	switch packetType {
	case lightweight.PacketTypePubRel:
		if op == OpReceive {
			return OriginatorReceive
		}
		return OriginatorSend
	default: // PUBACK, PUBREC, PUBCOMP
		if op == OpReceive {
			return OriginatorSend
		}
		return OriginatorReceive
	}
}

// transition implements the legal state/ack adjacency for each QoS.
func transition(current PublishState, qos lightweight.QoS, packetType uint8, op Operation) (PublishState, bool) {
	switch {
	// Outbound QoS 1: PubAckPending -> (recv PUBACK) -> Done.
	case qos == lightweight.QoS1 && current == PubAckPending &&
		packetType == lightweight.PacketTypePubAck && op == OpReceive:
		return PublishDone, true

	// Outbound QoS 2: PubRecPending -> (recv PUBREC) -> PubRelSend.
	case qos == lightweight.QoS2 && current == PubRecPending &&
		packetType == lightweight.PacketTypePubRec && op == OpReceive:
		return PubRelSend, true

	// Outbound QoS 2: PubRelSend -> (send PUBREL) -> PubCompPending.
	case qos == lightweight.QoS2 && current == PubRelSend &&
		packetType == lightweight.PacketTypePubRel && op == OpSend:
		return PubCompPending, true

	// Outbound QoS 2: PubCompPending -> (recv PUBCOMP) -> Done.
	case qos == lightweight.QoS2 && current == PubCompPending &&
		packetType == lightweight.PacketTypePubComp && op == OpReceive:
		return PublishDone, true

	// Inbound QoS 1: PubAckSend -> (send PUBACK) -> Done.
	case qos == lightweight.QoS1 && current == PubAckSend &&
		packetType == lightweight.PacketTypePubAck && op == OpSend:
		return PublishDone, true

	// Inbound QoS 2: PubRecSend -> (send PUBREC) -> PubRelPending.
	case qos == lightweight.QoS2 && current == PubRecSend &&
		packetType == lightweight.PacketTypePubRec && op == OpSend:
		return PubRelPending, true

	// Inbound QoS 2: PubRelPending -> (recv PUBREL) -> PubCompSend.
	case qos == lightweight.QoS2 && current == PubRelPending &&
		packetType == lightweight.PacketTypePubRel && op == OpReceive:
		return PubCompSend, true

	// Inbound QoS 2: PubCompSend -> (send PUBCOMP) -> Done.
	case qos == lightweight.QoS2 && current == PubCompSend &&
		packetType == lightweight.PacketTypePubComp && op == OpSend:
		return PublishDone, true

	default:
		return StateNull, false
	}
}

// Abandon forces a record straight to PublishDone without a legal ack,
// used by the engine when an outbound PUBLISH send fails outright, so
// the packet id is freed for reuse on a retried publish.
func (t *Tracker) Abandon(packetID uint16, originator Originator) {
	if i := t.find(packetID, originator); i >= 0 {
		t.release(i)
	}
}
