package lightweight

func validateSubscribeInfo(info *SubscribeInfo) Status {
	if info == nil || info.PacketID == 0 || len(info.Subscriptions) == 0 {
		return StatusBadParameter
	}
	for _, s := range info.Subscriptions {
		if !s.QoS.Valid() || s.TopicFilter == "" || containsNUL(s.TopicFilter) {
			return StatusBadParameter
		}
	}
	return StatusSuccess
}

// GetSubscribePacketSize computes the remaining length and total size, in
// bytes, of the SUBSCRIBE packet info would serialize to.
func GetSubscribePacketSize(info *SubscribeInfo) (remainingLength, totalSize int, status Status) {
	if status = validateSubscribeInfo(info); status != StatusSuccess {
		return 0, 0, status
	}
	remainingLength = 2
	for _, s := range info.Subscriptions {
		remainingLength += 2 + len(s.TopicFilter) + 1
	}
	if remainingLength > MaxRemainingLength {
		return 0, 0, StatusBadParameter
	}
	totalSize = fixedHeaderSize(remainingLength) + remainingLength
	return remainingLength, totalSize, StatusSuccess
}

// SerializeSubscribe writes a SUBSCRIBE packet for info into buf. Per
// MQTT 3.1.1 section 3.8.1, the fixed header flags for SUBSCRIBE are
// always 0b0010.
func SerializeSubscribe(info *SubscribeInfo, buf []byte) (int, Status) {
	remainingLength, totalSize, status := GetSubscribePacketSize(info)
	if status != StatusSuccess {
		return 0, status
	}
	if len(buf) < totalSize {
		return 0, StatusNoMemory
	}

	offset := appendFixedHeader(buf, 0, PacketTypeSubscribe, 0x02, remainingLength)
	offset += appendUint16(buf, offset, info.PacketID)
	for _, s := range info.Subscriptions {
		offset += appendString(buf, offset, s.TopicFilter)
		buf[offset] = uint8(s.QoS)
		offset++
	}
	return offset, StatusSuccess
}

func validateUnsubscribeInfo(info *UnsubscribeInfo) Status {
	if info == nil || info.PacketID == 0 || len(info.TopicFilters) == 0 {
		return StatusBadParameter
	}
	for _, f := range info.TopicFilters {
		if f == "" || containsNUL(f) {
			return StatusBadParameter
		}
	}
	return StatusSuccess
}

// GetUnsubscribePacketSize computes the remaining length and total size,
// in bytes, of the UNSUBSCRIBE packet info would serialize to.
func GetUnsubscribePacketSize(info *UnsubscribeInfo) (remainingLength, totalSize int, status Status) {
	if status = validateUnsubscribeInfo(info); status != StatusSuccess {
		return 0, 0, status
	}
	remainingLength = 2
	for _, f := range info.TopicFilters {
		remainingLength += 2 + len(f)
	}
	if remainingLength > MaxRemainingLength {
		return 0, 0, StatusBadParameter
	}
	totalSize = fixedHeaderSize(remainingLength) + remainingLength
	return remainingLength, totalSize, StatusSuccess
}

// SerializeUnsubscribe writes an UNSUBSCRIBE packet for info into buf.
// Per MQTT 3.1.1 section 3.10.1, the fixed header flags are always
// 0b0010.
func SerializeUnsubscribe(info *UnsubscribeInfo, buf []byte) (int, Status) {
	remainingLength, totalSize, status := GetUnsubscribePacketSize(info)
	if status != StatusSuccess {
		return 0, status
	}
	if len(buf) < totalSize {
		return 0, StatusNoMemory
	}

	offset := appendFixedHeader(buf, 0, PacketTypeUnsubscribe, 0x02, remainingLength)
	offset += appendUint16(buf, offset, info.PacketID)
	for _, f := range info.TopicFilters {
		offset += appendString(buf, offset, f)
	}
	return offset, StatusSuccess
}
