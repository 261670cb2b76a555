// Package session owns the login session: the bearer token, the user profile,
// and how the token reaches outbound requests.
package session

import (
	"errors"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoCredential is returned by Credential.Token when no session is live.
var ErrNoCredential = errors.New("no session token")

// Credential is the ambient bearer token shared by every outbound request.
// Only the Manager writes it.
type Credential struct {
	mu  sync.RWMutex
	tok *oauth2.Token
}

// NewCredential returns an empty credential.
func NewCredential() *Credential {
	return &Credential{}
}

// Token implements oauth2.TokenSource.
func (c *Credential) Token() (*oauth2.Token, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tok == nil {
		return nil, ErrNoCredential
	}
	tok := *c.tok
	return &tok, nil
}

// Present reports whether a token is held.
func (c *Credential) Present() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tok != nil
}

// Apply sets the Authorization header from the current token, or removes it
// when there is none.
func (c *Credential) Apply(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tok == nil {
		req.Header.Del("Authorization")
		return
	}
	c.tok.SetAuthHeader(req)
}

func (c *Credential) set(tok *oauth2.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if tok == nil {
		c.tok = nil
		return
	}
	cp := *tok
	c.tok = &cp
}

// Client returns a copy of base whose transport applies the credential.
// A nil base uses http.DefaultClient.
func (c *Credential) Client(base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	cp := *base
	cp.Transport = &Transport{Credential: c, Base: base.Transport}
	return &cp
}

// Transport is an http.RoundTripper that applies a Credential to each request.
type Transport struct {
	Credential *Credential
	Base       http.RoundTripper
}

// RoundTrip implements http.RoundTripper. The caller's request is not modified.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	t.Credential.Apply(r)
	return t.base().RoundTrip(r)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
