package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strings"
	"testing"
)

func TestPKCECredential(t *testing.T) {
	t.Run("Verifier Length", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			cred, err := NewPKCECredential("client")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if n := len(cred.Verifier()); n < 43 || n > 128 {
				t.Errorf("verifier length %d outside [43, 128]", n)
			}
		}
	})

	t.Run("Challenge Derivation", func(t *testing.T) {
		cred, err := NewPKCECredential("client")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		sum := sha256.Sum256([]byte(cred.Verifier()))
		want := base64.RawURLEncoding.EncodeToString(sum[:])
		if cred.Challenge() != want {
			t.Errorf("challenge %q is not base64url(sha256(verifier)) %q", cred.Challenge(), want)
		}
	})

	t.Run("Unique Verifiers", func(t *testing.T) {
		a, _ := NewPKCECredential("client")
		b, _ := NewPKCECredential("client")
		if a.Verifier() == b.Verifier() {
			t.Error("expected distinct verifiers per credential")
		}
	})

	t.Run("Missing Client ID", func(t *testing.T) {
		if _, err := NewPKCECredential(""); err == nil {
			t.Error("expected error for missing client_id")
		}
	})
}

func TestPKCEAuthURL(t *testing.T) {
	cred, err := NewPKCECredential("test_client_id")
	if err != nil {
		t.Fatalf("failed to create credential: %v", err)
	}

	conf := NewConfig("http://localhost:3000/callback", "user-library-read", "user-read-private")
	flow := NewPKCEFlow(cred, conf, nil)

	authURL := flow.AuthURL(false)
	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("failed to parse auth URL: %v", err)
	}
	query := parsed.Query()

	t.Run("Contains State", func(t *testing.T) {
		if query.Get("state") != conf.State {
			t.Errorf("expected state %q, got %q", conf.State, query.Get("state"))
		}
	})

	t.Run("Contains Challenge", func(t *testing.T) {
		if query.Get("code_challenge") != cred.Challenge() {
			t.Error("auth URL should carry the S256 code challenge")
		}
		if query.Get("code_challenge_method") != "S256" {
			t.Error("auth URL should declare the S256 challenge method")
		}
	})

	t.Run("No Client Secret", func(t *testing.T) {
		if strings.Contains(authURL, "client_secret") {
			t.Error("PKCE auth URL must not contain a client secret")
		}
	})

	t.Run("Contains Scopes", func(t *testing.T) {
		if !strings.Contains(query.Get("scope"), "user-library-read") {
			t.Errorf("expected scopes in auth URL, got %q", query.Get("scope"))
		}
	})

	t.Run("Show Dialog", func(t *testing.T) {
		withDialog, err := url.Parse(flow.AuthURL(true))
		if err != nil {
			t.Fatalf("failed to parse auth URL: %v", err)
		}
		if withDialog.Query().Get("show_dialog") != "true" {
			t.Error("expected show_dialog=true")
		}
		if query.Get("show_dialog") != "" {
			t.Error("show_dialog should be absent by default")
		}
	})
}
