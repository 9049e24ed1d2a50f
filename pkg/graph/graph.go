// Package graph models the Facebook Graph API payloads used by metastats and
// classifies raw Graph responses into typed results.
//
// Every Graph error arrives as {"error": {...}}, a key no success payload
// carries, so Graph bodies are classified error-first.
package graph

import (
	"fmt"

	"github.com/codeGROOVE-dev/metastats/pkg/classify"
	"github.com/codeGROOVE-dev/metastats/pkg/result"
)

// DefaultURL is the Graph API host.
const DefaultURL = "https://graph.facebook.com"

// Result is the outcome of a Graph call that reached the API.
type Result[S any] = result.Result[S, *Error]

// Classify decodes a Graph response body as either an error envelope or the
// success shape parsed by success.
func Classify[S any](status int, body []byte, success classify.Parser[S]) (Result[S], error) {
	c := classify.Classifier[S, *Error]{
		Route:   classify.ErrorFirst,
		Success: success,
		Failure: decodeError,
	}
	return c.Classify(status, body)
}

// ClassifyAs is Classify with the standard JSON parser for S.
func ClassifyAs[S any](status int, body []byte) (Result[S], error) {
	return Classify(status, body, classify.JSON[S])
}

func missing(field string) error {
	return fmt.Errorf("missing required field %q", field)
}
