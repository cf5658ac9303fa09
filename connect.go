package mqtt

import "github.com/gonzalop/lwmqtt/lightweight"

// Connect serializes and sends a CONNECT packet, then waits for CONNACK.
// Unlike ProcessLoop, Connect's header read blocks (spins) until a byte
// arrives or the transport reports a fatal error: a handshake has no
// useful notion of "no data right now, try later" the way the steady-state
// loop does, since there is nothing else for the caller to do until the
// connection is either accepted or refused.
//
// On StatusServerRefused the returned sessionPresent reflects whatever
// CONNACK carried; use ConnectError(returnCode) to translate a refusal
// into a sentinel error, where returnCode is available from the decoded
// CONNACK (callers that need the raw code should use DeserializeAck
// directly rather than Connect).
func (c *Context) Connect(info *lightweight.ConnectInfo) (sessionPresent bool, status lightweight.Status) {
	n, status := lightweight.SerializeConnect(info, c.buf)
	if status != lightweight.StatusSuccess {
		return false, status
	}
	if status := c.sendAll(c.buf[:n]); status != lightweight.StatusSuccess {
		return false, status
	}

	pkt, status := c.readPacketBlocking()
	if status != lightweight.StatusSuccess {
		return false, status
	}
	if pkt.Header.PacketType != lightweight.PacketTypeConnAck {
		return false, lightweight.StatusBadResponse
	}

	var connAck lightweight.ConnAckInfo
	if _, status := lightweight.DeserializeAck(pkt, &connAck, nil); status != lightweight.StatusSuccess {
		return false, status
	}
	if connAck.ReturnCode != lightweight.ConnAckAccepted {
		return connAck.SessionPresent, lightweight.StatusServerRefused
	}

	c.status = Connected
	c.keepAliveIntervalSec = info.KeepAliveSecs
	c.lastPacketTime = c.callbacks.GetTimeMs()
	return connAck.SessionPresent, lightweight.StatusSuccess
}

// readPacketBlocking reads one full packet, spinning past
// StatusNoDataAvailable instead of surfacing it. Only Connect uses this;
// ProcessLoop's read phase must observe StatusNoDataAvailable directly so
// it can fall through to the keep-alive phase on an idle connection.
func (c *Context) readPacketBlocking() (*lightweight.Packet, lightweight.Status) {
	for {
		info, status := lightweight.GetIncomingPacketTypeAndLength(c.transport.Recv)
		switch status {
		case lightweight.StatusNoDataAvailable:
			continue
		case lightweight.StatusSuccess:
			return c.readBody(info)
		default:
			return nil, status
		}
	}
}

// Disconnect sends DISCONNECT. The Context must not be used again
// afterward except through a fresh Init: there is no reconnection.
func (c *Context) Disconnect() lightweight.Status {
	n, status := lightweight.SerializeDisconnect(c.buf)
	if status != lightweight.StatusSuccess {
		return status
	}
	c.status = Disconnecting
	if status := c.sendAll(c.buf[:n]); status != lightweight.StatusSuccess {
		return status
	}
	c.status = NotConnected
	return lightweight.StatusSuccess
}
