package mqtt

// Transport is the caller-supplied byte pipe a Context drives. It is
// deliberately as small as the lightweight package's ReceiveFunc: Send and
// Recv behave exactly like a non-blocking socket.
//
// Recv must return (0, nil) when no data is currently available, never
// block waiting for bytes, and return a non-nil error only for a fatal,
// unrecoverable condition (closed connection, broken pipe). Send must
// return the number of bytes actually accepted; returning fewer bytes
// than len(buf) is treated as a short write and retried with the
// remainder, not as an error.
//
// A Context never holds more than one Transport at a time and never
// calls it from more than one goroutine.
type Transport interface {
	Send(buf []byte) (int, error)
	Recv(buf []byte) (int, error)
}
