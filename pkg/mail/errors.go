package mail

import "fmt"

// Dispatch steps reported in TransportError.Op.
const (
	OpResolve = "resolve"
	OpSubject = "subject"
	OpAddress = "address"
	OpSend    = "send"
)

// TransportError is returned by Dispatcher.Send for failures that are not
// connectivity problems. Connectivity problems never produce an error.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("mail %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
