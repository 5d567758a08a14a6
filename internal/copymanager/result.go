package copymanager

import "fmt"

// ErrorKind classifies a failed copy.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindIO
	KindExitCode
	KindCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindIO:
		return "io"
	case KindExitCode:
		return "exit_code"
	case KindCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// CancelledMessage is the error text of every cancelled copy.
const CancelledMessage = "Copy cancelled"

// Result is the outcome of one copy.
type Result struct {
	Success     bool
	Destination string
	Kind        ErrorKind
	Error       string
	Bytes       int64
}

func succeeded(dst string, size int64) Result {
	return Result{Success: true, Destination: dst, Kind: KindNone, Bytes: size}
}

func failed(dst string, kind ErrorKind, msg string) Result {
	return Result{Success: false, Destination: dst, Kind: kind, Error: msg}
}

func cancelled(dst string) Result {
	return failed(dst, KindCancelled, CancelledMessage)
}
