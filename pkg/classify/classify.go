// Package classify turns a raw response body into a typed Result.
//
// A body is routed to one of two shapes: the success payload the endpoint was
// asked for, or the error envelope the upstream service uses. Routing is a
// property of the endpoint family, not trial and error:
//
//   - ErrorFirst suits APIs whose error envelope cannot be mistaken for a
//     success payload; the error shape is tried first and the success shape is
//     parsed only when it does not match.
//   - Marker suits APIs whose success and error bodies overlap; a literal
//     substring picks the shape before any parsing.
//
// A body that fits neither shape is an *UnparseableError, never an empty
// success value.
package classify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/codeGROOVE-dev/metastats/pkg/result"
)

// PreviewLimit is the number of characters of a body kept for diagnostics.
const PreviewLimit = 200

// ErrUnparseable matches any *UnparseableError via errors.Is.
var ErrUnparseable = errors.New("unparseable response")

// UnparseableError reports a body that matched neither shape.
type UnparseableError struct {
	Err     error  // why the routed parse failed
	Preview string // first PreviewLimit characters of the body
	Status  int    // HTTP status the body arrived with, 0 if unknown
}

func (e *UnparseableError) Error() string {
	return fmt.Sprintf("unparseable response (HTTP %d): %v; body: %q", e.Status, e.Err, e.Preview)
}

func (e *UnparseableError) Unwrap() error { return e.Err }

// Is reports whether target is ErrUnparseable.
func (*UnparseableError) Is(target error) bool { return target == ErrUnparseable }

// Checker is implemented by shapes with members that must be present.
// Check runs after a successful decode and rejects bodies that decoded
// cleanly but lack those members.
type Checker interface {
	Check() error
}

// Parser is a non-panicking try-parse for a single shape.
type Parser[T any] func(body []byte) (T, error)

// JSON is the Parser for any shape decoded by encoding/json.
// When *T implements Checker the check must pass as well.
func JSON[T any](body []byte) (T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		var zero T
		return zero, err
	}
	if c, ok := any(&v).(Checker); ok {
		if err := c.Check(); err != nil {
			var zero T
			return zero, err
		}
	}
	return v, nil
}

// Route names the shape a body is sent to.
type Route uint8

const (
	// FailureFirst tries the failure shape and falls back to the success shape.
	FailureFirst Route = iota
	// ToSuccess parses only the success shape.
	ToSuccess
	// ToFailure parses only the failure shape.
	ToFailure
)

func (r Route) String() string {
	switch r {
	case ToSuccess:
		return "success"
	case ToFailure:
		return "failure"
	default:
		return "failure-first"
	}
}

// Router inspects a raw body and picks a Route.
type Router func(body []byte) Route

// ErrorFirst routes every body to FailureFirst.
func ErrorFirst(_ []byte) Route { return FailureFirst }

// Marker routes bodies containing marker to the success shape and
// everything else to the failure shape.
func Marker(marker string) Router {
	m := []byte(marker)
	return func(body []byte) Route {
		if bytes.Contains(body, m) {
			return ToSuccess
		}
		return ToFailure
	}
}

// Classifier binds a router to a success and a failure shape.
type Classifier[S, E any] struct {
	Route   Router
	Success Parser[S]
	Failure Parser[E]
}

// Classify decodes body into a Result. status is carried into any
// *UnparseableError for diagnostics and plays no part in routing.
func (c Classifier[S, E]) Classify(status int, body []byte) (result.Result[S, E], error) {
	route := FailureFirst
	if c.Route != nil {
		route = c.Route(body)
	}

	switch route {
	case ToSuccess:
		s, err := c.Success(body)
		if err != nil {
			return result.Result[S, E]{}, unparseable(status, body, err)
		}
		return result.OK[S, E](s), nil
	case ToFailure:
		e, err := c.Failure(body)
		if err != nil {
			return result.Result[S, E]{}, unparseable(status, body, err)
		}
		return result.Err[S](e), nil
	default:
		e, ferr := c.Failure(body)
		if ferr == nil {
			return result.Err[S](e), nil
		}
		s, serr := c.Success(body)
		if serr != nil {
			return result.Result[S, E]{}, unparseable(status, body,
				fmt.Errorf("%w (error envelope: %w)", serr, ferr))
		}
		return result.OK[S, E](s), nil
	}
}

func unparseable(status int, body []byte, err error) *UnparseableError {
	return &UnparseableError{Status: status, Err: err, Preview: Preview(body)}
}

// Preview returns at most PreviewLimit characters of body.
func Preview(body []byte) string {
	n := 0
	for i := 0; i < len(body); {
		if n == PreviewLimit {
			return string(body[:i])
		}
		_, size := utf8.DecodeRune(body[i:])
		i += size
		n++
	}
	return string(body)
}
