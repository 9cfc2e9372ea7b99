package oidc

// Package oidc verifies bearer tokens issued by an OIDC provider.

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/target/fleet-alerts/internal/domain/auth"
	"golang.org/x/oauth2"
)

// VerifierConfig holds configuration for the OIDC token verifier.
type VerifierConfig struct {
	ClientID     string
	DiscoveryURL string
	// UserInfo fills a missing email or group list from the userinfo endpoint,
	// presenting the bearer token as the access token.
	UserInfo   bool
	HTTPClient *http.Client // Optional, defaults to a 30s timeout client
}

// Verifier checks ID tokens presented as bearer credentials.
type Verifier struct {
	httpClient *http.Client
	useInfo    bool

	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier
}

// NewVerifier performs discovery against the issuer and returns a verifier bound to its key set.
func NewVerifier(ctx context.Context, config VerifierConfig) (*Verifier, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.DiscoveryURL == "" {
		return nil, errors.New("discovery URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
	op, err := gooidc.NewProvider(ctx, issuerFromDiscoveryURL(config.DiscoveryURL))
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}

	return &Verifier{
		httpClient:   httpClient,
		useInfo:      config.UserInfo,
		oidcProvider: op,
		verifier:     op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
	}, nil
}

// NewStaticVerifier builds a verifier from pinned public keys, without discovery.
func NewStaticVerifier(issuer, clientID string, keys ...crypto.PublicKey) *Verifier {
	ks := &gooidc.StaticKeySet{PublicKeys: keys}
	return &Verifier{
		httpClient: http.DefaultClient,
		verifier:   gooidc.NewVerifier(issuer, ks, &gooidc.Config{ClientID: clientID}),
	}
}

// Verify checks the token signature, issuer, audience and expiry, then maps its claims.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (domainauth.Identity, error) {
	if rawToken == "" {
		return domainauth.Identity{}, errors.New("token is required")
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, v.httpClient)

	idTok, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("verify token: %w", err)
	}
	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return domainauth.Identity{}, fmt.Errorf("parse token claims: %w", claimsErr)
	}
	f := mapIDTokenClaims(claims)

	if v.useInfo && v.oidcProvider != nil && (f.email == "" || len(f.groups) == 0) {
		if fillErr := v.fillFromUserInfo(ctx, rawToken, &f); fillErr != nil {
			return domainauth.Identity{}, fmt.Errorf("get user info: %w", fillErr)
		}
	}
	if f.userID == "" {
		return domainauth.Identity{}, errors.New("token has no subject")
	}

	return domainauth.Identity{
		UserID:    f.userID,
		Email:     f.email,
		Groups:    f.groups,
		ExpiresAt: idTok.Expiry,
	}, nil
}

// UserInfo represents the user information from the OIDC userinfo endpoint.
type UserInfo struct {
	Subject        string   `json:"sub"`
	SamAccountName string   `json:"samaccountname"`
	Mail           string   `json:"mail"`
	Email          string   `json:"email"`
	MemberOf       []string `json:"memberof"`
	Groups         []string `json:"groups"`
}

func (v *Verifier) fillFromUserInfo(ctx context.Context, accessToken string, f *idFields) error {
	ui, err := v.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return fmt.Errorf("fetch user info: %w", err)
	}
	var info UserInfo
	if claimsErr := ui.Claims(&info); claimsErr != nil {
		return fmt.Errorf("decode user info: %w", claimsErr)
	}
	fillFromUserInfoClaims(f, info)
	return nil
}

type idFields struct {
	userID string
	email  string
	groups []string
}

// idTokenClaims covers both standard OIDC and AD/ADFS claim shapes.
type idTokenClaims struct {
	Sub            string   `json:"sub"`
	SamAccountName string   `json:"samaccountname"`
	Mail           string   `json:"mail"`
	Email          string   `json:"email"`
	MemberOf       []string `json:"memberof"`
	Groups         []string `json:"groups"`
}

// mapIDTokenClaims maps raw claims into idFields, preferring the AD shape.
func mapIDTokenClaims(c idTokenClaims) idFields {
	return idFields{
		userID: firstNonEmpty(c.SamAccountName, c.Sub),
		email:  firstNonEmpty(c.Mail, c.Email),
		groups: firstNonEmptyList(c.MemberOf, c.Groups),
	}
}

// fillFromUserInfoClaims fills missing fields only.
func fillFromUserInfoClaims(f *idFields, ui UserInfo) {
	if f.userID == "" {
		f.userID = firstNonEmpty(ui.SamAccountName, ui.Subject)
	}
	if f.email == "" {
		f.email = firstNonEmpty(ui.Mail, ui.Email)
	}
	if len(f.groups) == 0 {
		f.groups = firstNonEmptyList(ui.MemberOf, ui.Groups)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}

// issuerFromDiscoveryURL accepts either an issuer or its well-known configuration URL.
func issuerFromDiscoveryURL(u string) string {
	issuer := strings.TrimSuffix(u, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	return strings.TrimSuffix(issuer, ".well-known/openid-configuration")
}
