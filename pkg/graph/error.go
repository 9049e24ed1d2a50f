package graph

import (
	"encoding/json"
	"fmt"

	"github.com/codeGROOVE-dev/metastats/pkg/wire"
)

// Error is a Graph API error.
// https://developers.facebook.com/docs/graph-api/guides/error-handling
type Error struct {
	// A human-readable description of the error.
	Message string `json:"message"`
	// Error type, e.g. "OAuthException".
	Type string `json:"type"`
	// Error code, e.g. 190 for an invalid access token.
	Code int `json:"code"`
	// Additional information about the error.
	SubCode int `json:"error_subcode,omitempty"`
	// Dialog title and message meant for end users, localized by the API.
	UserTitle   string `json:"error_user_title,omitempty"`
	UserMessage string `json:"error_user_msg,omitempty"`
	// Internal support identifier to quote when reporting a bug.
	FBTraceID string `json:"fbtrace_id"`
	// Whether the same call may succeed if retried.
	IsTransient bool `json:"is_transient"`
}

func (e *Error) Error() string {
	if e.FBTraceID != "" {
		return fmt.Sprintf("graph API error %d (%s): %s [fbtrace_id=%s]", e.Code, e.Type, e.Message, e.FBTraceID)
	}
	return fmt.Sprintf("graph API error %d (%s): %s", e.Code, e.Type, e.Message)
}

// Temporary reports whether the API marked the error as transient.
func (e *Error) Temporary() bool { return e.IsTransient }

// InvalidToken reports whether the access token was rejected.
func (e *Error) InvalidToken() bool { return e.Code == 190 }

// errorEnvelope mirrors {"error": {...}} with pointers on required members
// so that absence can be told apart from zero.
type errorEnvelope struct {
	Error *struct {
		Message     *string   `json:"message"`
		Type        *string   `json:"type"`
		Code        *wire.Int `json:"code"`
		SubCode     wire.Int  `json:"error_subcode"`
		UserTitle   string    `json:"error_user_title"`
		UserMessage string    `json:"error_user_msg"`
		FBTraceID   string    `json:"fbtrace_id"`
		IsTransient wire.Bool `json:"is_transient"`
	} `json:"error"`
}

func decodeError(body []byte) (*Error, error) {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	e := env.Error
	switch {
	case e == nil:
		return nil, missing("error")
	case e.Message == nil:
		return nil, missing("error.message")
	case e.Type == nil:
		return nil, missing("error.type")
	case e.Code == nil:
		return nil, missing("error.code")
	}
	return &Error{
		Message:     *e.Message,
		Type:        *e.Type,
		Code:        int(*e.Code),
		SubCode:     int(e.SubCode),
		UserTitle:   e.UserTitle,
		UserMessage: e.UserMessage,
		FBTraceID:   e.FBTraceID,
		IsTransient: bool(e.IsTransient),
	}, nil
}

// MarshalEnvelope encodes e the way the API sends it.
func (e *Error) MarshalEnvelope() ([]byte, error) {
	return json.Marshal(struct {
		Error *Error `json:"error"`
	}{e})
}
