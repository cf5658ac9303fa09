package mqtt

import (
	"errors"
	"fmt"

	"github.com/gonzalop/lwmqtt/lightweight"
)

// EngineError wraps a non-success lightweight.Status together with an
// optional underlying cause, for ambient callers that want to use Go's
// usual errors.Is/errors.As wrapping instead of comparing Status values
// directly. The core packages never construct one of these themselves;
// they return lightweight.Status, which already satisfies error.
type EngineError struct {
	Status lightweight.Status
	Err    error
}

func (e *EngineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mqtt: %s: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("mqtt: %s", e.Status)
}

func (e *EngineError) Unwrap() error { return e.Err }

// Sentinel errors for the five MQTT 3.1.1 CONNACK refusal codes, for
// callers that want to switch on cause rather than on the raw return
// code byte.
var (
	ErrUnacceptableProtocolVersion = errors.New("mqtt: unacceptable protocol version")
	ErrIdentifierRejected          = errors.New("mqtt: identifier rejected")
	ErrServerUnavailable           = errors.New("mqtt: server unavailable")
	ErrBadUsernameOrPassword       = errors.New("mqtt: bad username or password")
	ErrNotAuthorized               = errors.New("mqtt: not authorized")
)

// ConnectError translates a CONNACK return code into one of the sentinel
// errors above, or nil for ConnAckAccepted and any code this library does
// not recognize.
func ConnectError(returnCode uint8) error {
	switch returnCode {
	case lightweight.ConnAckRefusedUnacceptableProtocol:
		return ErrUnacceptableProtocolVersion
	case lightweight.ConnAckRefusedIdentifierRejected:
		return ErrIdentifierRejected
	case lightweight.ConnAckRefusedServerUnavailable:
		return ErrServerUnavailable
	case lightweight.ConnAckRefusedBadUsernameOrPassword:
		return ErrBadUsernameOrPassword
	case lightweight.ConnAckRefusedNotAuthorized:
		return ErrNotAuthorized
	default:
		return nil
	}
}
