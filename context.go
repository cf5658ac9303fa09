package mqtt

import (
	"github.com/gonzalop/lwmqtt/lightweight"
	"github.com/gonzalop/lwmqtt/state"
)

// ConnStatus is the coarse connection lifecycle state of a Context.
type ConnStatus uint8

const (
	NotConnected ConnStatus = iota
	Connected
	Disconnecting
)

// Context is one MQTT connection. It is not safe for concurrent use: every
// method must be called from a single goroutine, the same one that owns
// buf's backing array. A Context holds no goroutines, timers, or
// dynamically-sized state of its own — its only variable-size field is the
// caller-supplied buf, borrowed for the lifetime of the Context and
// reused for every packet it builds or receives.
//
// There is no reconnection and no session persistence. A non-success
// Status from ProcessLoop ends that call but does not by itself disable
// the Context; a lost connection (StatusRecvFailed, StatusSendFailed,
// StatusKeepAliveTimeout) or a failed Connect is recovered from only by
// building a new Context (or calling Init on the same one again) against
// a fresh Transport.
type Context struct {
	transport Transport
	callbacks ApplicationCallbacks
	buf       []byte

	status       ConnStatus
	nextPacketID uint16

	keepAliveIntervalSec uint16
	pingRespTimeoutMs    uint32
	lastPacketTime       uint32
	pingReqSendTime      uint32
	waitingForPingResp   bool
	controlPacketSent    bool

	tracker state.Tracker
}

// Init prepares ctx to drive a new connection over transport. buf is
// borrowed for the lifetime of the Context; its capacity bounds the
// largest packet Init's caller can send or receive.
func (c *Context) Init(transport Transport, callbacks ApplicationCallbacks, buf []byte) lightweight.Status {
	if transport == nil || callbacks == nil || len(buf) == 0 {
		return lightweight.StatusBadParameter
	}
	*c = Context{
		transport:         transport,
		callbacks:         callbacks,
		buf:               buf,
		nextPacketID:      1,
		pingRespTimeoutMs: 1000,
	}
	return lightweight.StatusSuccess
}

// Status reports the Context's current connection lifecycle state.
func (c *Context) Status() ConnStatus {
	return c.status
}

// SetPingRespTimeoutMs overrides the default 1000ms window ProcessLoop
// waits for PINGRESP before returning StatusKeepAliveTimeout. Call it
// after Init and before the first ProcessLoop, if the default does not
// suit the transport's latency.
func (c *Context) SetPingRespTimeoutMs(ms uint32) {
	c.pingRespTimeoutMs = ms
}

// NextPacketID returns the current packet identifier and advances the
// counter, skipping zero: identifiers are allocated 1, 2, 3, ..., 0xFFFF,
// 1, 2, ... — zero is never a valid MQTT packet identifier.
func (c *Context) NextPacketID() uint16 {
	id := c.nextPacketID
	c.nextPacketID++
	if c.nextPacketID == 0 {
		c.nextPacketID = 1
	}
	return id
}

// sendAll writes every byte of buf to the transport, retrying on short
// writes, and records the send as keep-alive activity.
func (c *Context) sendAll(buf []byte) lightweight.Status {
	sent := 0
	for sent < len(buf) {
		n, err := c.transport.Send(buf[sent:])
		if err != nil || n <= 0 || n > len(buf)-sent {
			return lightweight.StatusSendFailed
		}
		sent += n
	}
	c.lastPacketTime = c.callbacks.GetTimeMs()
	c.controlPacketSent = true
	return lightweight.StatusSuccess
}

// readExact fills dst completely, retrying on short reads. It is used
// only once a header has already announced exactly how many body bytes
// are coming, so it busy-waits on zero-progress reads rather than
// treating them as "try again later" the way the header reader does.
func (c *Context) readExact(dst []byte) lightweight.Status {
	read := 0
	for read < len(dst) {
		n, err := c.transport.Recv(dst[read:])
		if err != nil {
			return lightweight.StatusRecvFailed
		}
		if n < 0 || n > len(dst)-read {
			return lightweight.StatusRecvFailed
		}
		read += n
	}
	return lightweight.StatusSuccess
}

// readBody reads a packet body of the given length into the front of
// ctx.buf and wraps it with header into a Packet. Callers must consume
// the returned Packet's Payload before the buffer is reused.
func (c *Context) readBody(info lightweight.PacketInfo) (*lightweight.Packet, lightweight.Status) {
	if info.RemainingLength > len(c.buf) {
		return nil, lightweight.StatusNoMemory
	}
	body := c.buf[:info.RemainingLength]
	if status := c.readExact(body); status != lightweight.StatusSuccess {
		return nil, status
	}
	return &lightweight.Packet{
		Header: lightweight.FixedHeader{
			PacketType:      info.Type,
			Flags:           info.Flags,
			RemainingLength: info.RemainingLength,
		},
		Payload: body,
	}, lightweight.StatusSuccess
}

func (c *Context) notify(h lightweight.FixedHeader, packetID uint16, publish *lightweight.PublishInfo) {
	c.callbacks.OnEvent(lightweight.PacketInfo{
		Type:            h.PacketType,
		Flags:           h.Flags,
		RemainingLength: h.RemainingLength,
	}, packetID, publish)
}
