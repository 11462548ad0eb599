package crm

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const (
	// DefaultAudience is the login endpoint used when an organization has
	// no authorization record for an account.
	DefaultAudience = "https://login.salesforce.com"

	tokenPath      = "/services/oauth2/token"
	jwtBearerGrant = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// assertionLifetime bounds the validity of the signed assertion, not
	// of the session it is exchanged for.
	assertionLifetime = 3 * time.Minute
)

// Session is an authenticated CRM API session: an instance endpoint plus
// the access token to call it with.
type Session struct {
	InstanceURL string
	AccessToken string
}

// HTTPClient returns an http.Client that attaches the session's bearer
// token to every request.
func (s *Session) HTTPClient(ctx context.Context, timeout time.Duration) *http.Client {
	token := &oauth2.Token{
		AccessToken: s.AccessToken,
		TokenType:   "Bearer",
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	client.Timeout = timeout
	return client
}

// SessionBroker exchanges the service credential plus an account
// principal for a short-lived CRM session via the JWT bearer flow.
type SessionBroker struct {
	clientID        string
	privateKey      *rsa.PrivateKey
	defaultAudience string
	httpClient      *http.Client
}

// NewSessionBroker parses the service private key (PEM, PKCS#1 or
// PKCS#8) and returns a broker signing assertions with it.
// defaultAudience may be empty, in which case DefaultAudience applies.
func NewSessionBroker(clientID, privateKeyPEM, defaultAudience string, requestTimeout time.Duration) (*SessionBroker, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("failed to parse CRM private key: %w", err)
	}
	if defaultAudience == "" {
		defaultAudience = DefaultAudience
	}
	return &SessionBroker{
		clientID:        clientID,
		privateKey:      key,
		defaultAudience: defaultAudience,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

// GetConnection builds a signed assertion for principal and exchanges
// it at tokenEndpoint for a session. An empty audience falls back to
// the broker's default audience; an empty tokenEndpoint falls back to
// the audience. Any auth or transport failure is returned as an error;
// callers treat it as "this account could not be synced this run" and
// continue with other accounts.
func (b *SessionBroker) GetConnection(ctx context.Context, principal, audience, tokenEndpoint string) (*Session, error) {
	if audience == "" {
		audience = b.defaultAudience
	}
	if tokenEndpoint == "" {
		tokenEndpoint = audience
	}

	assertion, err := b.buildAssertion(principal, audience)
	if err != nil {
		return nil, fmt.Errorf("failed to build assertion for %s: %w", principal, err)
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrant)
	form.Set("assertion", assertion)

	endpoint := strings.TrimSuffix(tokenEndpoint, "/") + tokenPath
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token exchange failed for %s: %w", principal, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned status %d for %s: %s", resp.StatusCode, principal, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		InstanceURL string `json:"instance_url"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" || tokenResp.InstanceURL == "" {
		return nil, fmt.Errorf("token response missing access_token or instance_url for %s", principal)
	}

	return &Session{
		InstanceURL: tokenResp.InstanceURL,
		AccessToken: tokenResp.AccessToken,
	}, nil
}

// buildAssertion signs the time-boxed bearer assertion for principal
func (b *SessionBroker) buildAssertion(principal, audience string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    b.clientID,
		Subject:   principal,
		Audience:  jwt.ClaimStrings{audience},
		ExpiresAt: jwt.NewNumericDate(now.Add(assertionLifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(b.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}
	return signed, nil
}
