package mqtt

import "github.com/gonzalop/lwmqtt/lightweight"

// ApplicationCallbacks is the caller-supplied clock and event sink a
// Context drives. GetTimeMs is called synchronously from within Connect,
// Publish, Subscribe, Unsubscribe, Ping, Disconnect, and ProcessLoop;
// OnEvent only from within ProcessLoop. Neither is ever called from a
// goroutine the Context itself creates.
type ApplicationCallbacks interface {
	// GetTimeMs returns a free-running millisecond clock. Comparisons
	// against values it returns must tolerate 32-bit wraparound; the
	// engine always compares with unsigned subtraction for that reason.
	GetTimeMs() uint32

	// OnEvent is called once for every PUBLISH, PUBACK, PUBCOMP, SUBACK,
	// and UNSUBACK the process loop receives and fully handles, including
	// a PUBLISH it also automatically acknowledges. PUBREC, PUBREL, and
	// PINGRESP are handled without an event, and a duplicate QoS 2 PUBLISH
	// is not reported a second time. publish is non-nil only when
	// info.Type is lightweight.PacketTypePublish; packetID is 0 for a
	// PUBLISH with QoS 0, which carries no packet identifier on the wire.
	OnEvent(info lightweight.PacketInfo, packetID uint16, publish *lightweight.PublishInfo)
}
