package auth

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/asthiranalyticsyt/Asthir-story/errs"
)

// encoding tags how a record was stored so a refresh writes it back the same way
type encoding int

const (
	encodingGob encoding = iota
	encodingJSON
)

// record is the gob form of a stored credential
type record struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
	ClientID     string
	ClientSecret string
}

// jsonRecord is the authorized-user JSON form. Token may arrive under either
// the "token" or "access_token" key.
type jsonRecord struct {
	Token        string `json:"token"`
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Expiry       string `json:"expiry,omitempty"`
}

// Credential is one account's authorization, resolved from either stored form
type Credential struct {
	Account      string
	Path         string
	Token        *oauth2.Token
	ClientID     string
	ClientSecret string

	enc encoding
}

// Store loads and refreshes per-account credential records from a directory
type Store struct {
	now func() time.Time
	// tokenURL overrides the Google token endpoint, for tests
	tokenURL string
}

// NewStore creates a credential store
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Load reads one credential record. The record is tried as a gob binary
// first, then as an authorized-user JSON object; a file that is neither
// is an invalid credential.
func (s *Store) Load(path string) (*Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.InvalidCredential("auth.Load", err, fmt.Sprintf("read %s", path))
	}

	account := filepath.Base(path)

	var rec record
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err == nil && rec.AccessToken != "" {
		return &Credential{
			Account: account,
			Path:    path,
			Token: &oauth2.Token{
				AccessToken:  rec.AccessToken,
				RefreshToken: rec.RefreshToken,
				TokenType:    rec.TokenType,
				Expiry:       rec.Expiry,
			},
			ClientID:     rec.ClientID,
			ClientSecret: rec.ClientSecret,
			enc:          encodingGob,
		}, nil
	}

	var jr jsonRecord
	if err := json.Unmarshal(data, &jr); err != nil {
		return nil, errs.InvalidCredential("auth.Load", err, fmt.Sprintf("invalid credentials in %s", path))
	}
	access := jr.Token
	if access == "" {
		access = jr.AccessToken
	}
	if access == "" && jr.RefreshToken == "" {
		return nil, errs.InvalidCredential("auth.Load", nil, fmt.Sprintf("invalid credentials in %s", path))
	}

	var expiry time.Time
	if jr.Expiry != "" {
		if t, err := time.Parse(time.RFC3339, jr.Expiry); err == nil {
			expiry = t
		}
	}

	return &Credential{
		Account: account,
		Path:    path,
		Token: &oauth2.Token{
			AccessToken:  access,
			RefreshToken: jr.RefreshToken,
			TokenType:    "Bearer",
			Expiry:       expiry,
		},
		ClientID:     jr.ClientID,
		ClientSecret: jr.ClientSecret,
		enc:          encodingJSON,
	}, nil
}

// expired reports whether the token needs refreshing before use. A zero
// expiry means the record carries no expiry and the token is used as-is.
func (s *Store) expired(c *Credential) bool {
	if c.Token.Expiry.IsZero() {
		return false
	}
	return c.Token.Expiry.Before(s.now())
}

// EnsureFresh refreshes an expired credential in place when a refresh token
// is available, persisting the updated record back to its file. An expired
// credential without a refresh token cannot be recovered.
func (s *Store) EnsureFresh(ctx context.Context, c *Credential) error {
	if !s.expired(c) {
		return nil
	}
	if c.Token.RefreshToken == "" {
		return errs.CredentialExpired("auth.EnsureFresh",
			fmt.Sprintf("%s: token expired and no refresh token available", c.Account))
	}

	fresh, err := s.oauthConfig(c).TokenSource(ctx, c.Token).Token()
	if err != nil {
		return errs.InvalidCredential("auth.EnsureFresh", err, fmt.Sprintf("%s: token refresh failed", c.Account))
	}
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = c.Token.RefreshToken
	}
	c.Token = fresh

	// Best effort: the refreshed token is still usable this run even if the
	// record could not be rewritten.
	_ = s.persist(c)
	return nil
}

// Client returns an HTTP client that authorizes requests with the credential
// and transparently refreshes mid-upload if needed.
func (s *Store) Client(ctx context.Context, c *Credential) *http.Client {
	return s.oauthConfig(c).Client(ctx, c.Token)
}

func (s *Store) oauthConfig(c *Credential) *oauth2.Config {
	conf := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     google.Endpoint,
	}
	if s.tokenURL != "" {
		conf.Endpoint = oauth2.Endpoint{TokenURL: s.tokenURL}
	}
	return conf
}

// persist writes the credential back to its file in the original encoding
func (s *Store) persist(c *Credential) error {
	var buf bytes.Buffer
	switch c.enc {
	case encodingGob:
		rec := record{
			AccessToken:  c.Token.AccessToken,
			RefreshToken: c.Token.RefreshToken,
			TokenType:    c.Token.TokenType,
			Expiry:       c.Token.Expiry,
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
		}
		if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
			return err
		}
	case encodingJSON:
		jr := jsonRecord{
			Token:        c.Token.AccessToken,
			RefreshToken: c.Token.RefreshToken,
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			Expiry:       c.Token.Expiry.Format(time.RFC3339),
		}
		data, err := json.MarshalIndent(jr, "", "  ")
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	return os.WriteFile(c.Path, buf.Bytes(), 0600)
}
