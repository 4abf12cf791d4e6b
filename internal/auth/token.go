package auth

import (
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Token is the time-boxed artifact produced by a successful exchange.
//
// A Token is usable for an API call only while now < ExpiresAt and its
// granted scopes cover the scopes the call requires. Tokens are values;
// the shared mutable state lives in the flow's slot, not here.
type Token struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	Scopes       []string  `json:"scope"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Valid reports whether the token can authenticate an API call at the given time.
func (t Token) Valid(now time.Time) bool {
	return t.AccessToken != "" && now.Before(t.ExpiresAt)
}

// Empty reports whether the token holds no access token at all.
func (t Token) Empty() bool {
	return t.AccessToken == ""
}

// HasScopes reports whether the token's granted scopes cover every requested scope.
//
// A token missing a required scope is unusable regardless of expiry.
func (t Token) HasScopes(scopes ...string) bool {
	granted := make(map[string]struct{}, len(t.Scopes))
	for _, s := range t.Scopes {
		granted[s] = struct{}{}
	}
	for _, s := range scopes {
		if _, ok := granted[s]; !ok {
			return false
		}
	}
	return true
}

// fromOAuth2 converts an [oauth2.Token] into a Token.
//
// Granted scopes come from the token response's space-joined scope field
// when the provider echoes one, otherwise the requested scopes are assumed.
func fromOAuth2(tok *oauth2.Token, requested []string) Token {
	scopes := requested
	if raw, ok := tok.Extra("scope").(string); ok && raw != "" {
		scopes = strings.Fields(raw)
	}

	expiry := tok.Expiry
	if expiry.IsZero() {
		expiry = time.Now().Add(time.Hour)
	}

	return Token{
		AccessToken:  tok.AccessToken,
		TokenType:    tok.TokenType,
		Scopes:       scopes,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    expiry,
	}
}
