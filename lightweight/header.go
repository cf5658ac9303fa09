package lightweight

// appendFixedHeader writes the fixed header (packet type + flags byte,
// followed by the variable-byte-integer remaining length) to dst at
// offset and returns the number of bytes written.
func appendFixedHeader(dst []byte, offset int, packetType, flags uint8, remainingLength int) int {
	dst[offset] = (packetType << 4) | (flags & 0x0F)
	return 1 + encodeRemainingLength(dst, offset+1, remainingLength)
}

// fixedHeaderSize returns the number of bytes a fixed header with the
// given remaining length would occupy (1 type/flags byte + the
// variable-byte-integer encoding of remainingLength).
func fixedHeaderSize(remainingLength int) int {
	return 1 + encodedVarIntLen(remainingLength)
}

// DecodeFixedHeader decodes a fixed header already sitting in buf at
// offset 0. It is used when a whole packet (header + body) has already
// been buffered by the caller; ReceiveFunc-driven decoding during
// ProcessLoop instead uses GetIncomingPacketTypeAndLength, below, which
// tolerates one byte at a time.
func DecodeFixedHeader(buf []byte) (header FixedHeader, consumed int, status Status) {
	if len(buf) < 1 {
		return FixedHeader{}, 0, StatusBadResponse
	}
	first := buf[0]
	length, n, status := decodeRemainingLength(buf, 1)
	if status != StatusSuccess {
		return FixedHeader{}, 0, status
	}
	return FixedHeader{
		PacketType:      first >> 4,
		Flags:           first & 0x0F,
		RemainingLength: length,
	}, 1 + n, StatusSuccess
}

// ReceiveFunc matches the Transport.Recv signature: it reads up to
// len(buf) bytes into buf and returns the number of bytes actually read.
// A return of (0, nil) means no data is available right now, not EOF; a
// non-nil error is a fatal I/O error for that call.
type ReceiveFunc func(buf []byte) (int, error)

// GetIncomingPacketTypeAndLength reads exactly one fixed-header byte via
// recv, then reads the variable-byte remaining-length field one byte at
// a time. It does not read the variable header or payload.
//
// Returns StatusNoDataAvailable if the first recv call returns zero
// bytes, StatusRecvFailed if any recv call returns a fatal error, and
// StatusBadResponse on a malformed remaining length.
func GetIncomingPacketTypeAndLength(recv ReceiveFunc) (PacketInfo, Status) {
	var one [1]byte

	n, err := recv(one[:])
	if err != nil {
		return PacketInfo{}, StatusRecvFailed
	}
	if n == 0 {
		return PacketInfo{}, StatusNoDataAvailable
	}

	first := one[0]
	decoder := newRemainingLengthDecoder()
	for {
		n, err := recv(one[:])
		if err != nil {
			return PacketInfo{}, StatusRecvFailed
		}
		if n == 0 {
			// A partial remaining-length with no more bytes available yet
			// is indistinguishable, at this layer, from a malformed one:
			// once the first header byte is read, this reader runs to
			// completion rather than resuming a partial read across calls.
			return PacketInfo{}, StatusBadResponse
		}
		done, status := decoder.feed(one[0])
		if status != StatusSuccess {
			return PacketInfo{}, status
		}
		if done {
			break
		}
	}

	return PacketInfo{
		Type:            first >> 4,
		Flags:           first & 0x0F,
		RemainingLength: decoder.value,
	}, StatusSuccess
}
