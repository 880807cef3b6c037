// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package earthdata resolves NASA Earthdata Login credentials and
// authorizes ASF download requests. Credentials come from the process
// environment (EDL_TOKEN, or ASF_USERNAME plus ASF_PASSWORD) with the
// .secrets/ key files as fallback.
package earthdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/pdiddy/sar-ingest/internal/secrets"
)

// ErrNoCredentials indicates neither a bearer token nor a username/password
// pair is available. This is a hard configuration error reported before any
// network activity.
var ErrNoCredentials = errors.New("no Earthdata credentials: set EDL_TOKEN or ASF_USERNAME/ASF_PASSWORD")

// verifyURL is the endpoint probed by Session.Verify. Declared as a var so
// tests can substitute an httptest server.
var verifyURL = "https://urs.earthdata.nasa.gov/api/users/user"

// Credentials holds one of the two supported authentication shapes.
type Credentials struct {
	Token    string
	Username string
	Password string
}

// Method names the authentication shape in use, for logging.
func (c Credentials) Method() string {
	if c.Token != "" {
		return "token"
	}
	return "basic"
}

// LoadCredentials resolves credentials from the environment and the secrets
// directory. Token authentication is preferred when both shapes are present.
func LoadCredentials(secretsDir string) (Credentials, error) {
	loaded, err := secrets.Load(secretsDir)
	if err != nil {
		return Credentials{}, err
	}

	c := Credentials{
		Token:    secrets.FirstEnvOr(loaded, "edl-token", "EDL_TOKEN"),
		Username: secrets.FirstEnvOr(loaded, "asf-username", "ASF_USERNAME"),
		Password: secrets.FirstEnvOr(loaded, "asf-password", "ASF_PASSWORD"),
	}

	if c.Token == "" && (c.Username == "" || c.Password == "") {
		return Credentials{}, ErrNoCredentials
	}
	return c, nil
}

// Session decorates outgoing requests with Earthdata authentication.
type Session struct {
	creds  Credentials
	client *http.Client
}

// NewSession builds a session around the given credentials and HTTP client.
func NewSession(creds Credentials, client *http.Client) *Session {
	return &Session{creds: creds, client: client}
}

// Authorize attaches the credentials to req: a Bearer header for token
// authentication, HTTP basic auth otherwise.
func (s *Session) Authorize(req *http.Request) {
	if s.creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.creds.Token)
		return
	}
	req.SetBasicAuth(s.creds.Username, s.creds.Password)
}

// Verify probes the Earthdata profile endpoint without transferring any
// product data. It distinguishes authentication rejection from transport
// failure so the auth-check mode can report precisely.
func (s *Session) Verify(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, verifyURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	s.Authorize(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("Earthdata probe failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("Earthdata rejected %s credentials (HTTP %d)", s.creds.Method(), resp.StatusCode)
	default:
		return fmt.Errorf("Earthdata probe returned HTTP %d", resp.StatusCode)
	}
}
