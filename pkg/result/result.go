// Package result provides a two-variant tagged union for API responses.
//
// Every endpoint returns a Result instead of an error when the upstream
// service answered with a recognized error payload:
//
//	res, err := metastats.PageInfo(ctx, "acme")
//	if err != nil {
//	    return err // config, transport, or unparseable body
//	}
//	if page, ok := res.Success(); ok {
//	    fmt.Println(page.Name)
//	}
//	if apiErr, ok := res.Failure(); ok {
//	    fmt.Println(apiErr.Code, apiErr.Message)
//	}
package result

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Result holds exactly one of a success value S or a failure value E.
// The zero Result is invalid; build one with OK or Err.
type Result[S, E any] struct {
	value S
	fail  E
	tag   tag
}

type tag uint8

const (
	tagNone tag = iota
	tagSuccess
	tagFailure
)

// OK builds a Result holding a success value.
func OK[S, E any](v S) Result[S, E] {
	return Result[S, E]{value: v, tag: tagSuccess}
}

// Err builds a Result holding a failure value.
func Err[S, E any](e E) Result[S, E] {
	return Result[S, E]{fail: e, tag: tagFailure}
}

// IsSuccess reports whether r holds a success value.
func (r Result[S, E]) IsSuccess() bool { return r.tag == tagSuccess }

// IsFailure reports whether r holds a failure value.
func (r Result[S, E]) IsFailure() bool { return r.tag == tagFailure }

// Valid reports whether r was built with OK or Err.
func (r Result[S, E]) Valid() bool { return r.tag != tagNone }

// Success returns the success value and true, or the zero S and false.
func (r Result[S, E]) Success() (S, bool) {
	if r.tag != tagSuccess {
		var zero S
		return zero, false
	}
	return r.value, true
}

// Failure returns the failure value and true, or the zero E and false.
func (r Result[S, E]) Failure() (E, bool) {
	if r.tag != tagFailure {
		var zero E
		return zero, false
	}
	return r.fail, true
}

// MustSuccess returns the success value and panics on a failure Result.
func (r Result[S, E]) MustSuccess() S {
	if r.tag != tagSuccess {
		panic(fmt.Sprintf("result: MustSuccess on %s result", r.tag))
	}
	return r.value
}

// Match calls exactly one of onSuccess or onFailure.
func Match[S, E, T any](r Result[S, E], onSuccess func(S) T, onFailure func(E) T) T {
	if r.tag == tagSuccess {
		return onSuccess(r.value)
	}
	if r.tag != tagFailure {
		panic("result: Match on zero Result")
	}
	return onFailure(r.fail)
}

func (t tag) String() string {
	switch t {
	case tagSuccess:
		return "success"
	case tagFailure:
		return "failure"
	default:
		return "zero"
	}
}

// envelope is the JSON form of a Result, used by the command output.
type envelope[S, E any] struct {
	Success *S `json:"success,omitempty"`
	Failure *E `json:"failure,omitempty"`
}

// MarshalJSON encodes r as {"success": ...} or {"failure": ...}.
func (r Result[S, E]) MarshalJSON() ([]byte, error) {
	switch r.tag {
	case tagSuccess:
		return json.Marshal(envelope[S, E]{Success: &r.value})
	case tagFailure:
		return json.Marshal(envelope[S, E]{Failure: &r.fail})
	default:
		return nil, errors.New("result: marshal zero Result")
	}
}
