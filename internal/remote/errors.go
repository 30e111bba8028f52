package remote

import (
	"errors"
	"fmt"
)

type Kind int

const (
	// NetworkFailure means the request never produced an HTTP response.
	NetworkFailure Kind = iota + 1
	// ServerRejection means the server answered with a non-2xx status.
	ServerRejection
	// InvalidResponse means a 2xx answer could not be read as an envelope.
	InvalidResponse
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case ServerRejection:
		return "server rejection"
	case InvalidResponse:
		return "invalid response"
	default:
		return "unknown"
	}
}

type Op string

const (
	OpList   Op = "list"
	OpGet    Op = "get"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpPatch  Op = "patch"
	OpRemove Op = "remove"
)

// Error is returned by every Collection call that did not succeed. It is
// tagged with the resource and operation so callers can choose a message.
type Error struct {
	Resource string
	Op       Op
	Kind     Kind
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	switch {
	case e.Status != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: %s: status %d: %s", e.Op, e.Resource, e.Kind, e.Status, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s %s: %s: status %d", e.Op, e.Resource, e.Kind, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Resource, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s", e.Op, e.Resource, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a remote Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == kind
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var re *Error
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
