package mqtt

import (
	"github.com/gonzalop/lwmqtt/lightweight"
	"github.com/gonzalop/lwmqtt/state"
)

// Publish serializes and sends a PUBLISH packet. For QoS 1 and QoS 2,
// info.PacketID must be non-zero (ordinarily the caller's last
// NextPacketID call) and a state record is reserved before the bytes go
// out; if the send then fails, the record is released immediately so the
// same identifier can be reused by a later Publish call rather than being
// permanently stranded waiting for an ack that was never sent.
func (c *Context) Publish(info *lightweight.PublishInfo) lightweight.Status {
	tracked := info.QoS > lightweight.QoS0
	if tracked {
		if info.PacketID == 0 {
			return lightweight.StatusBadParameter
		}
		if _, status := c.tracker.UpdateStatePublish(info.PacketID, info.QoS, state.OpSend); status != lightweight.StatusSuccess {
			return status
		}
	}

	n, status := lightweight.SerializePublish(info, c.buf)
	if status != lightweight.StatusSuccess {
		if tracked {
			c.tracker.Abandon(info.PacketID, state.OriginatorSend)
		}
		return status
	}

	if status := c.sendAll(c.buf[:n]); status != lightweight.StatusSuccess {
		if tracked {
			c.tracker.Abandon(info.PacketID, state.OriginatorSend)
		}
		return status
	}
	return lightweight.StatusSuccess
}

// Subscribe serializes and sends a SUBSCRIBE packet. The resulting SUBACK
// is delivered to ApplicationCallbacks.OnEvent by a later ProcessLoop
// call; Subscribe itself does not wait for it.
func (c *Context) Subscribe(info *lightweight.SubscribeInfo) lightweight.Status {
	n, status := lightweight.SerializeSubscribe(info, c.buf)
	if status != lightweight.StatusSuccess {
		return status
	}
	return c.sendAll(c.buf[:n])
}

// Unsubscribe serializes and sends an UNSUBSCRIBE packet. As with
// Subscribe, the UNSUBACK arrives through a later ProcessLoop call.
func (c *Context) Unsubscribe(info *lightweight.UnsubscribeInfo) lightweight.Status {
	n, status := lightweight.SerializeUnsubscribe(info, c.buf)
	if status != lightweight.StatusSuccess {
		return status
	}
	return c.sendAll(c.buf[:n])
}

// Ping sends a PINGREQ outside of the automatic keep-alive schedule
// ProcessLoop otherwise drives. It arms the same waitingForPingResp
// bookkeeping ProcessLoop's keep-alive phase uses, so a subsequent
// ProcessLoop call will correctly time out if no PINGRESP arrives.
func (c *Context) Ping() lightweight.Status {
	return c.sendPingReq(c.callbacks.GetTimeMs())
}

func (c *Context) sendPingReq(now uint32) lightweight.Status {
	n, status := lightweight.SerializePingreq(c.buf)
	if status != lightweight.StatusSuccess {
		return lightweight.StatusSendFailed
	}
	if status := c.sendAll(c.buf[:n]); status != lightweight.StatusSuccess {
		return status
	}
	c.waitingForPingResp = true
	c.pingReqSendTime = now
	return lightweight.StatusSuccess
}
