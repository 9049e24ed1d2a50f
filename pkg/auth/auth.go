// Package auth resolves Meta app credentials, exchanges them for an app
// access token, and supplies Instagram session cookies.
package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/codeGROOVE-dev/metastats/pkg/graph"
)

// Environment variables consulted when no explicit value is given.
const (
	EnvClientID     = "META_CLIENT_ID"
	EnvClientSecret = "META_CLIENT_SECRET"
	EnvVersion      = "META_VERSION"
	EnvGrantType    = "META_GRANT_TYPE"
	EnvTokenURL     = "META_TOKEN_URL"
	EnvAccessToken  = "META_ACCESS_TOKEN"
)

// DefaultGrantType is the OAuth grant used for app access tokens.
const DefaultGrantType = "client_credentials"

// ErrConfigMissing matches any *ConfigMissingError via errors.Is.
var ErrConfigMissing = errors.New("configuration missing")

// ConfigMissingError reports a required setting with no value.
type ConfigMissingError struct {
	Name string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("%s not set in environment", e.Name)
}

// Is reports whether target is ErrConfigMissing.
func (*ConfigMissingError) Is(target error) bool { return target == ErrConfigMissing }

// Credentials identify a Meta app.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Version      string
	GrantType    string
	TokenURL     string
}

// Resolve fills every empty field of explicit from the environment.
// ClientID, ClientSecret and Version are required; GrantType and TokenURL
// have defaults.
func Resolve(explicit Credentials) (Credentials, error) {
	c := explicit
	var err error
	if c.ClientID, err = Lookup(EnvClientID, c.ClientID); err != nil {
		return Credentials{}, err
	}
	if c.ClientSecret, err = Lookup(EnvClientSecret, c.ClientSecret); err != nil {
		return Credentials{}, err
	}
	if c.Version, err = Lookup(EnvVersion, c.Version); err != nil {
		return Credentials{}, err
	}
	if c.GrantType == "" {
		c.GrantType = os.Getenv(EnvGrantType)
	}
	if c.GrantType == "" {
		c.GrantType = DefaultGrantType
	}
	if c.TokenURL == "" {
		c.TokenURL = os.Getenv(EnvTokenURL)
	}
	if c.TokenURL == "" {
		c.TokenURL = graph.TokenURL(c.Version)
	}
	return c, nil
}

// Lookup returns explicit when set, otherwise the named environment
// variable. An empty result is a *ConfigMissingError.
func Lookup(name, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	return "", &ConfigMissingError{Name: name}
}
