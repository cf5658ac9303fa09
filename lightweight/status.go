// Package lightweight implements the MQTT 3.1.1 wire codec: pure functions
// that serialize control packets into a caller-supplied buffer and
// deserialize control packets already held in memory. Nothing in this
// package performs I/O or allocates on the hot path beyond the occasional
// bounded slice returned to the caller; every serializer writes directly
// into the destination buffer the caller owns.
package lightweight

// Status is the result of every fallible operation in this package (and,
// by extension, in the state and mqtt packages built on top of it).
type Status uint8

const (
	// StatusSuccess indicates the operation completed normally.
	StatusSuccess Status = iota

	// StatusBadParameter indicates a null input, zero packet id, invalid
	// QoS, or other malformed caller input.
	StatusBadParameter

	// StatusNoMemory indicates the caller-supplied buffer is too small for
	// the packet being built.
	StatusNoMemory

	// StatusSendFailed indicates a transport send returned an error or made
	// zero progress.
	StatusSendFailed

	// StatusRecvFailed indicates a transport recv returned a fatal error.
	StatusRecvFailed

	// StatusBadResponse indicates wire bytes failed validation: reserved
	// bits set, a malformed remaining-length, or an unexpected packet type.
	StatusBadResponse

	// StatusServerRefused indicates a CONNACK carried a non-zero return code.
	StatusServerRefused

	// StatusNoDataAvailable is the non-fatal case where recv returned no
	// bytes. Used internally by the process loop; never returned to an
	// application callback as a terminal failure.
	StatusNoDataAvailable

	// StatusKeepAliveTimeout indicates PINGRESP was not received within the
	// configured ping response timeout.
	StatusKeepAliveTimeout

	// StatusIllegalState indicates the publish state tracker could not
	// produce a valid next state for the given event.
	StatusIllegalState
)

var statusNames = [...]string{
	StatusSuccess:          "success",
	StatusBadParameter:     "bad parameter",
	StatusNoMemory:         "no memory",
	StatusSendFailed:       "send failed",
	StatusRecvFailed:       "recv failed",
	StatusBadResponse:      "bad response",
	StatusServerRefused:    "server refused",
	StatusNoDataAvailable:  "no data available",
	StatusKeepAliveTimeout: "keep-alive timeout",
	StatusIllegalState:     "illegal state",
}

// String renders the status name used in logs and error messages.
func (s Status) String() string {
	if int(s) < len(statusNames) && statusNames[s] != "" {
		return statusNames[s]
	}
	return "unknown status"
}

// Error lets Status double as an error for callers that prefer the
// idiomatic `if err != nil` style over comparing against StatusSuccess.
func (s Status) Error() string {
	return s.String()
}

// OK reports whether the status represents successful completion.
func (s Status) OK() bool {
	return s == StatusSuccess
}
