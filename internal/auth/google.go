// Package auth contains the federated identity verifier. Google login
// clients obtain an OAuth access token on their own and hand it to this
// backend, which exchanges it for a verified identity assertion by
// calling Google's userinfo endpoint. No authorization-code flow is
// implemented here.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"
)

// DefaultUserInfoURL is Google's userinfo endpoint for OAuth2 v3 tokens.
const DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// ErrGoogleVerification is returned for any failure to turn a Google
// access token into a usable identity: network errors, non-200
// responses, undecodable bodies, or a payload missing required fields.
var ErrGoogleVerification = errors.New("could not verify google credentials")

// GoogleUserInfo is the subset of the userinfo payload the auth core
// needs. Email, GivenName and FamilyName are all required; a response
// missing any of them fails verification.
type GoogleUserInfo struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// GoogleVerifier calls the userinfo endpoint with a client-supplied
// access token. URL is overridable so tests can point it at a local
// httptest server.
type GoogleVerifier struct {
	URL    string
	Client *http.Client
}

// NewGoogleVerifier builds a verifier for the given endpoint URL; an
// empty URL selects the real Google endpoint.
func NewGoogleVerifier(endpoint string) *GoogleVerifier {
	if endpoint == "" {
		endpoint = DefaultUserInfoURL
	}
	return &GoogleVerifier{
		URL:    endpoint,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify exchanges the access token for the holder's identity. The token
// travels as a query parameter, matching how the userinfo endpoint is
// documented to accept it.
func (v *GoogleVerifier) Verify(ctx context.Context, accessToken string) (*GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		v.URL+"?access_token="+url.QueryEscape(accessToken), nil)
	if err != nil {
		return nil, ErrGoogleVerification
	}
	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, ErrGoogleVerification
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrGoogleVerification
	}
	var info GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, ErrGoogleVerification
	}
	if info.Email == "" || info.GivenName == "" || info.FamilyName == "" {
		return nil, ErrGoogleVerification
	}
	return &info, nil
}
