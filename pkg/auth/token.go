package auth

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/codeGROOVE-dev/metastats/pkg/classify"
	"github.com/codeGROOVE-dev/metastats/pkg/graph"
	"github.com/codeGROOVE-dev/metastats/pkg/result"
	"github.com/codeGROOVE-dev/metastats/pkg/transport"
)

// Token is an app access token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Exchange trades app credentials for an access token.
//
// A Graph error envelope returned by the token endpoint is a failure Result;
// a request that never completed is a *transport.Error; anything else is a
// *classify.UnparseableError carrying the reply's status and a preview of its
// body.
//
// The exchange is a form POST (oauth2 client credentials). The Graph token
// endpoint accepts it as well as the GET form with query parameters.
func Exchange(ctx context.Context, hc *http.Client, creds Credentials) (graph.Result[Token], error) {
	cfg := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	if creds.GrantType != "" && creds.GrantType != DefaultGrantType {
		cfg.EndpointParams = url.Values{"grant_type": {creds.GrantType}}
	}
	rec := &recorder{}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, rec.wrap(hc))

	tok, err := cfg.Token(ctx)
	if err == nil {
		return result.OK[Token, *graph.Error](Token{AccessToken: tok.AccessToken, TokenType: tok.TokenType}), nil
	}

	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		// The endpoint answered with a non-2xx status; its body is either a
		// Graph error envelope or unparseable.
		return graph.Classify(status, re.Body, func([]byte) (Token, error) {
			return Token{}, re
		})
	}

	var ue *url.Error
	if errors.As(err, &ue) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return graph.Result[Token]{}, &transport.Error{URL: creds.TokenURL, Err: err}
	}

	// A 2xx reply without a usable token.
	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}
	return graph.Result[Token]{}, &classify.UnparseableError{Status: status, Err: err, Preview: classify.Preview(rec.body)}
}

// maxTokenBody matches the limit oauth2 applies when reading token replies.
const maxTokenBody = 1 << 20

// recorder keeps the status and body of the last token reply, which oauth2
// discards when a 2xx reply cannot be decoded.
type recorder struct {
	base   http.RoundTripper
	body   []byte
	status int
}

// wrap returns a copy of hc that records through r.
func (r *recorder) wrap(hc *http.Client) *http.Client {
	c := &http.Client{}
	if hc != nil {
		*c = *hc
	}
	r.base = c.Transport
	if r.base == nil {
		r.base = http.DefaultTransport
	}
	c.Transport = r
	return c
}

func (r *recorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := r.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenBody))
	resp.Body.Close() //nolint:errcheck // read-only body
	if err != nil {
		return nil, err
	}
	r.status = resp.StatusCode
	r.body = body
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
