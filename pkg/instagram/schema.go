package instagram

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/codeGROOVE-dev/metastats/pkg/wire"
)

// ErrUserNotFound is wrapped by the parse error for {"data":{"user":null}},
// which the endpoint returns for unknown handles.
var ErrUserNotFound = errors.New("user not found")

// ProfileInfo is the public view of a profile.
// Its JSON form is the upstream envelope, so it round-trips through Classify.
type ProfileInfo struct {
	InternalID         string
	ID                 string
	Username           string
	FullName           string
	Biography          string
	CategoryName       *string // nil for personal accounts
	ExternalURL        string
	FollowedByCount    int
	FollowCount        int
	MediaCount         int
	HighlightReelCount int
	IsVerified         bool
	IsPrivate          bool
}

type profileEnvelope struct {
	Data *struct {
		User *userInfo `json:"user"`
	} `json:"data"`
	Status string `json:"status"`
}

type userInfo struct {
	EimuID                   string    `json:"eimu_id"`
	ID                       string    `json:"id,omitempty"`
	Username                 string    `json:"username,omitempty"`
	FullName                 string    `json:"full_name"`
	Biography                string    `json:"biography"`
	CategoryName             *string   `json:"category_name"`
	ExternalURL              string    `json:"external_url,omitempty"`
	EdgeFollowedBy           count     `json:"edge_followed_by"`
	EdgeFollow               count     `json:"edge_follow"`
	EdgeOwnerToTimelineMedia count     `json:"edge_owner_to_timeline_media"`
	HighlightReelCount       wire.Int  `json:"highlight_reel_count"`
	IsVerified               wire.Bool `json:"is_verified"`
	IsPrivate                wire.Bool `json:"is_private"`
}

type count struct {
	Count wire.Int `json:"count"`
}

// UnmarshalJSON decodes the {"data":{"user":{...}},"status":...} envelope.
func (p *ProfileInfo) UnmarshalJSON(b []byte) error {
	var env profileEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	if env.Data == nil {
		return errors.New(`missing required field "data"`)
	}
	u := env.Data.User
	if u == nil {
		return fmt.Errorf(`missing required field "data.user": %w`, ErrUserNotFound)
	}
	*p = ProfileInfo{
		InternalID:         u.EimuID,
		ID:                 u.ID,
		Username:           u.Username,
		FullName:           u.FullName,
		Biography:          u.Biography,
		CategoryName:       u.CategoryName,
		ExternalURL:        u.ExternalURL,
		FollowedByCount:    int(u.EdgeFollowedBy.Count),
		FollowCount:        int(u.EdgeFollow.Count),
		MediaCount:         int(u.EdgeOwnerToTimelineMedia.Count),
		HighlightReelCount: int(u.HighlightReelCount),
		IsVerified:         bool(u.IsVerified),
		IsPrivate:          bool(u.IsPrivate),
	}
	return nil
}

// MarshalJSON encodes p as a successful upstream envelope.
func (p ProfileInfo) MarshalJSON() ([]byte, error) {
	u := &userInfo{
		EimuID:                   p.InternalID,
		ID:                       p.ID,
		Username:                 p.Username,
		FullName:                 p.FullName,
		Biography:                p.Biography,
		CategoryName:             p.CategoryName,
		ExternalURL:              p.ExternalURL,
		EdgeFollowedBy:           count{Count: wire.Int(p.FollowedByCount)},
		EdgeFollow:               count{Count: wire.Int(p.FollowCount)},
		EdgeOwnerToTimelineMedia: count{Count: wire.Int(p.MediaCount)},
		HighlightReelCount:       wire.Int(p.HighlightReelCount),
		IsVerified:               wire.Bool(p.IsVerified),
		IsPrivate:                wire.Bool(p.IsPrivate),
	}
	env := profileEnvelope{Status: "ok"}
	env.Data = &struct {
		User *userInfo `json:"user"`
	}{User: u}
	return json.Marshal(env)
}

// ProfileError is the endpoint's error body, e.g.
// {"message":"Please wait a few minutes before you try again.","require_login":true,"status":"fail"}.
type ProfileError struct {
	Message      string `json:"message"`
	RequireLogin bool   `json:"require_login"`
	RolloutFlag  bool   `json:"igweb_rollout"`
	Status       string `json:"status"`
}

func (e *ProfileError) Error() string {
	if e.RequireLogin {
		return fmt.Sprintf("instagram %s: %s (login required)", e.Status, e.Message)
	}
	return fmt.Sprintf("instagram %s: %s", e.Status, e.Message)
}

type rawProfileError struct {
	Message      *string   `json:"message"`
	RequireLogin wire.Bool `json:"require_login"`
	RolloutFlag  wire.Bool `json:"igweb_rollout"`
	Status       *string   `json:"status"`
}

func decodeError(body []byte) (*ProfileError, error) {
	var raw rawProfileError
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	if raw.Message == nil {
		return nil, errors.New(`missing required field "message"`)
	}
	if raw.Status == nil {
		return nil, errors.New(`missing required field "status"`)
	}
	return &ProfileError{
		Message:      *raw.Message,
		RequireLogin: bool(raw.RequireLogin),
		RolloutFlag:  bool(raw.RolloutFlag),
		Status:       *raw.Status,
	}, nil
}
