package lightweight

import (
	"bytes"
	"testing"
)

func serializeAndDecodePublish(t *testing.T, info *PublishInfo) (*PublishInfo, uint16, Status) {
	t.Helper()
	_, total, status := GetPublishPacketSize(info)
	if status != StatusSuccess {
		t.Fatalf("GetPublishPacketSize status = %v", status)
	}
	buf := make([]byte, total)
	n, status := SerializePublish(info, buf)
	if status != StatusSuccess {
		t.Fatalf("SerializePublish status = %v", status)
	}
	if n != total {
		t.Fatalf("wrote %d bytes, want %d", n, total)
	}

	header, consumed, status := DecodeFixedHeader(buf)
	if status != StatusSuccess {
		t.Fatalf("DecodeFixedHeader status = %v", status)
	}
	pkt := &Packet{Header: header, Payload: buf[consumed : consumed+header.RemainingLength]}

	out := &PublishInfo{}
	id, status := DeserializePublish(pkt, out)
	return out, id, status
}

func TestPublishRoundTripQoS0(t *testing.T) {
	in := &PublishInfo{Topic: "sensors/temp", Payload: []byte("21.5"), QoS: QoS0}
	out, id, status := serializeAndDecodePublish(t, in)
	if status != StatusSuccess {
		t.Fatalf("status = %v", status)
	}
	if id != 0 {
		t.Fatalf("packet id = %d, want 0 for QoS 0", id)
	}
	if out.Topic != in.Topic || !bytes.Equal(out.Payload, in.Payload) || out.QoS != in.QoS {
		t.Fatalf("round trip mismatch: got %+v, want topic/payload/qos matching %+v", out, in)
	}
}

func TestPublishRoundTripQoS2(t *testing.T) {
	in := &PublishInfo{
		Topic:    "alerts/fire",
		Payload:  []byte{0x01, 0x02, 0x03},
		QoS:      QoS2,
		Retain:   true,
		Dup:      true,
		PacketID: 42,
	}
	out, id, status := serializeAndDecodePublish(t, in)
	if status != StatusSuccess {
		t.Fatalf("status = %v", status)
	}
	if id != 42 {
		t.Fatalf("packet id = %d, want 42", id)
	}
	if out.Topic != in.Topic || !bytes.Equal(out.Payload, in.Payload) ||
		out.QoS != in.QoS || out.Retain != in.Retain || out.Dup != in.Dup {
		t.Fatalf("round trip mismatch: got %+v, want matching %+v", out, in)
	}
}

func TestPublishQoS0DupIsIllegal(t *testing.T) {
	info := &PublishInfo{Topic: "t", QoS: QoS0, Dup: true}
	if _, _, status := GetPublishPacketSize(info); status != StatusBadParameter {
		t.Fatalf("status = %v, want StatusBadParameter", status)
	}
}

func TestPublishQoSGreaterThan2Illegal(t *testing.T) {
	info := &PublishInfo{Topic: "t", QoS: 3, PacketID: 1}
	if _, _, status := GetPublishPacketSize(info); status != StatusBadParameter {
		t.Fatalf("status = %v, want StatusBadParameter", status)
	}
}

func TestPublishQoS1RequiresPacketID(t *testing.T) {
	info := &PublishInfo{Topic: "t", QoS: QoS1, PacketID: 0}
	if _, _, status := GetPublishPacketSize(info); status != StatusBadParameter {
		t.Fatalf("status = %v, want StatusBadParameter", status)
	}
}

func TestPublishTopicWithNULRejected(t *testing.T) {
	info := &PublishInfo{Topic: "a\x00b", QoS: QoS0}
	if _, _, status := GetPublishPacketSize(info); status != StatusBadParameter {
		t.Fatalf("status = %v, want StatusBadParameter", status)
	}
}

func TestDeserializePublishRejectsDupQoS0(t *testing.T) {
	// Hand-craft a malformed packet: QoS 0 with DUP set.
	buf := []byte{(PacketTypePublish << 4) | publishFlagDup, 4, 0, 2, 'h', 'i'}
	header, consumed, status := DecodeFixedHeader(buf)
	if status != StatusSuccess {
		t.Fatalf("DecodeFixedHeader status = %v", status)
	}
	pkt := &Packet{Header: header, Payload: buf[consumed : consumed+header.RemainingLength]}
	out := &PublishInfo{}
	if _, status := DeserializePublish(pkt, out); status != StatusBadResponse {
		t.Fatalf("status = %v, want StatusBadResponse", status)
	}
}

func TestSerializePublishNoMemoryBuffer(t *testing.T) {
	info := &PublishInfo{Topic: "t", Payload: []byte("x"), QoS: QoS1, PacketID: 1}
	buf := make([]byte, 2)
	if _, status := SerializePublish(info, buf); status != StatusNoMemory {
		t.Fatalf("status = %v, want StatusNoMemory", status)
	}
}
