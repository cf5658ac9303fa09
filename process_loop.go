package mqtt

import (
	"github.com/gonzalop/lwmqtt/lightweight"
	"github.com/gonzalop/lwmqtt/state"
)

// ProcessLoop drives the connection for up to timeoutMs milliseconds,
// measured by ApplicationCallbacks.GetTimeMs. Each iteration: reads at
// most one incoming packet (moving straight on to the keep-alive check,
// without blocking, when none is available), dispatches it — which may involve
// sending an automatic acknowledgement — and then checks keep-alive
// timing. A timeoutMs of 0 still runs exactly one iteration; the timeout
// is checked after the iteration runs, never before.
//
// ProcessLoop returns as soon as any phase reports a status other than
// StatusSuccess. A non-success Status ends that call only; ProcessLoop may
// be called again on the same Context. After StatusRecvFailed,
// StatusSendFailed, or StatusKeepAliveTimeout the transport itself is
// usually no longer usable.
func (c *Context) ProcessLoop(timeoutMs uint32) lightweight.Status {
	start := c.callbacks.GetTimeMs()
	for {
		if status := c.loopIteration(); status != lightweight.StatusSuccess {
			return status
		}
		if c.callbacks.GetTimeMs()-start >= timeoutMs {
			return lightweight.StatusSuccess
		}
	}
}

func (c *Context) loopIteration() lightweight.Status {
	c.controlPacketSent = false

	info, status := lightweight.GetIncomingPacketTypeAndLength(c.transport.Recv)
	switch status {
	case lightweight.StatusNoDataAvailable:
		return c.keepAlive()
	case lightweight.StatusSuccess:
		// fall through to body read + dispatch
	default:
		return status
	}

	pkt, status := c.readBody(info)
	if status != lightweight.StatusSuccess {
		return status
	}
	if status := c.dispatch(pkt); status != lightweight.StatusSuccess {
		return status
	}
	return c.keepAlive()
}

func (c *Context) dispatch(pkt *lightweight.Packet) lightweight.Status {
	switch pkt.Header.PacketType {
	case lightweight.PacketTypePublish:
		return c.handlePublish(pkt)

	case lightweight.PacketTypePubAck, lightweight.PacketTypePubComp:
		return c.handleTerminalAck(pkt)

	case lightweight.PacketTypePubRec:
		return c.handlePubRec(pkt)

	case lightweight.PacketTypePubRel:
		return c.handlePubRel(pkt)

	case lightweight.PacketTypeSubAck:
		return c.handleSubAck(pkt)

	case lightweight.PacketTypeUnsubAck:
		id, status := lightweight.DeserializeAck(pkt, nil, nil)
		if status != lightweight.StatusSuccess {
			return status
		}
		c.notify(pkt.Header, id, nil)
		return lightweight.StatusSuccess

	case lightweight.PacketTypePingResp:
		if pkt.Header.RemainingLength != 0 {
			return lightweight.StatusBadResponse
		}
		c.waitingForPingResp = false
		return lightweight.StatusSuccess

	default:
		return lightweight.StatusBadResponse
	}
}

func (c *Context) handlePublish(pkt *lightweight.Packet) lightweight.Status {
	var pub lightweight.PublishInfo
	id, status := lightweight.DeserializePublish(pkt, &pub)
	if status != lightweight.StatusSuccess {
		return status
	}

	if pub.QoS == lightweight.QoS0 {
		c.notify(pkt.Header, 0, &pub)
		return lightweight.StatusSuccess
	}

	newState, status := c.tracker.UpdateStatePublish(id, pub.QoS, state.OpReceive)
	if status != lightweight.StatusSuccess {
		return status
	}
	if newState == state.StateNull {
		return lightweight.StatusIllegalState
	}

	// A duplicate QoS 2 PUBLISH for an id already parked in PubRelPending
	// is reported back as PubRelPending unchanged: don't re-invoke the
	// callback, but do re-send the ack the peer may not have received
	// the first time.
	duplicate := pub.QoS == lightweight.QoS2 && newState == state.PubRelPending
	if !duplicate {
		c.notify(pkt.Header, id, &pub)
	}

	ackType := uint8(lightweight.PacketTypePubAck)
	if pub.QoS == lightweight.QoS2 {
		ackType = lightweight.PacketTypePubRec
	}
	if status := c.sendAutomaticAck(ackType, id); status != lightweight.StatusSuccess {
		return status
	}

	if duplicate {
		return lightweight.StatusSuccess
	}

	finalState, status := c.tracker.UpdateStateAck(id, ackType, state.OpSend)
	if status != lightweight.StatusSuccess {
		return status
	}
	if finalState == state.StateNull {
		return lightweight.StatusIllegalState
	}
	return lightweight.StatusSuccess
}

// handleTerminalAck handles PUBACK (closes an outbound QoS 1 publish) and
// PUBCOMP (closes an outbound QoS 2 publish).
func (c *Context) handleTerminalAck(pkt *lightweight.Packet) lightweight.Status {
	id, status := lightweight.DeserializeAck(pkt, nil, nil)
	if status != lightweight.StatusSuccess {
		return status
	}
	newState, status := c.tracker.UpdateStateAck(id, pkt.Header.PacketType, state.OpReceive)
	if status != lightweight.StatusSuccess {
		return status
	}
	if newState == state.StateNull {
		return lightweight.StatusIllegalState
	}
	c.notify(pkt.Header, id, nil)
	return lightweight.StatusSuccess
}

// handlePubRec continues an outbound QoS 2 publish: PUBREC arrives, the
// engine automatically replies PUBREL.
func (c *Context) handlePubRec(pkt *lightweight.Packet) lightweight.Status {
	id, status := lightweight.DeserializeAck(pkt, nil, nil)
	if status != lightweight.StatusSuccess {
		return status
	}
	newState, status := c.tracker.UpdateStateAck(id, lightweight.PacketTypePubRec, state.OpReceive)
	if status != lightweight.StatusSuccess {
		return status
	}
	if newState == state.StateNull {
		return lightweight.StatusIllegalState
	}

	if status := c.sendAutomaticAck(lightweight.PacketTypePubRel, id); status != lightweight.StatusSuccess {
		return status
	}

	finalState, status := c.tracker.UpdateStateAck(id, lightweight.PacketTypePubRel, state.OpSend)
	if status != lightweight.StatusSuccess {
		return status
	}
	if finalState == state.StateNull {
		return lightweight.StatusIllegalState
	}
	return lightweight.StatusSuccess
}

// handlePubRel continues an inbound QoS 2 publish: PUBREL arrives, the
// engine automatically replies PUBCOMP and the exchange is done.
func (c *Context) handlePubRel(pkt *lightweight.Packet) lightweight.Status {
	id, status := lightweight.DeserializeAck(pkt, nil, nil)
	if status != lightweight.StatusSuccess {
		return status
	}
	newState, status := c.tracker.UpdateStateAck(id, lightweight.PacketTypePubRel, state.OpReceive)
	if status != lightweight.StatusSuccess {
		return status
	}
	if newState == state.StateNull {
		return lightweight.StatusIllegalState
	}

	if status := c.sendAutomaticAck(lightweight.PacketTypePubComp, id); status != lightweight.StatusSuccess {
		return status
	}

	finalState, status := c.tracker.UpdateStateAck(id, lightweight.PacketTypePubComp, state.OpSend)
	if status != lightweight.StatusSuccess {
		return status
	}
	if finalState == state.StateNull {
		return lightweight.StatusIllegalState
	}
	return lightweight.StatusSuccess
}

func (c *Context) handleSubAck(pkt *lightweight.Packet) lightweight.Status {
	var subAck lightweight.SubAckInfo
	id, status := lightweight.DeserializeAck(pkt, nil, &subAck)
	if status != lightweight.StatusSuccess {
		return status
	}
	c.notify(pkt.Header, id, nil)
	return lightweight.StatusSuccess
}

// sendAutomaticAck serializes and sends a PUBACK/PUBREC/PUBREL/PUBCOMP
// from within the process loop. Per the acknowledgement contract, any
// serialization failure here is reported as StatusSendFailed rather than
// the raw lightweight.Status the serializer returned: from the caller's
// perspective a packet that could not be built never left, same as one
// the transport refused.
func (c *Context) sendAutomaticAck(packetType uint8, packetID uint16) lightweight.Status {
	n, status := lightweight.SerializeAck(packetType, packetID, c.buf)
	if status != lightweight.StatusSuccess {
		return lightweight.StatusSendFailed
	}
	return c.sendAll(c.buf[:n])
}

// keepAlive checks whether a PINGREQ is due or overdue. keepAliveIntervalSec
// of 0 (set from ConnectInfo.KeepAliveSecs during Connect) disables
// keep-alive entirely, per MQTT 3.1.1 section 3.1.2.10.
func (c *Context) keepAlive() lightweight.Status {
	if c.keepAliveIntervalSec == 0 {
		return lightweight.StatusSuccess
	}

	now := c.callbacks.GetTimeMs()

	if c.waitingForPingResp {
		if now-c.pingReqSendTime >= c.pingRespTimeoutMs {
			return lightweight.StatusKeepAliveTimeout
		}
		return lightweight.StatusSuccess
	}

	intervalMs := uint32(c.keepAliveIntervalSec) * 1000
	if now-c.lastPacketTime >= intervalMs {
		return c.sendPingReq(now)
	}
	return lightweight.StatusSuccess
}
