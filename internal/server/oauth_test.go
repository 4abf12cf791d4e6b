package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tired-Fox/rataify-sub001/internal/auth"
	"github.com/Tired-Fox/rataify-sub001/internal/shared"
)

// callbackFlow is a minimal auth.Flow for handler tests: the exchange is
// recorded instead of hitting a provider.
type callbackFlow struct {
	state       string
	tok         auth.Token
	exchanges   int
	exchangeErr error
}

func (f *callbackFlow) ID() string          { return "stub" }
func (f *callbackFlow) AuthURL(bool) string { return "" }
func (f *callbackFlow) Refresh(context.Context) error { return nil }
func (f *callbackFlow) Token() auth.Token   { return f.tok }
func (f *callbackFlow) SetToken(t auth.Token) { f.tok = t }
func (f *callbackFlow) Scopes() []string    { return nil }
func (f *callbackFlow) State() string       { return f.state }

func (f *callbackFlow) RequestAccessToken(_ context.Context, code string) error {
	f.exchanges++
	if f.exchangeErr != nil {
		return f.exchangeErr
	}
	f.tok = auth.Token{AccessToken: "exchanged-" + code, ExpiresAt: time.Now().Add(time.Hour)}
	return nil
}

func receiveResult(t *testing.T, h *OAuthHandler) OAuthResult {
	t.Helper()
	select {
	case result := <-h.Result():
		return result
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a callback result")
		return OAuthResult{}
	}
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Successful Callback", func(t *testing.T) {
		flow := &callbackFlow{state: "expected-state"}
		handler := NewOAuthHandler(flow)

		req := httptest.NewRequest(http.MethodGet, "/callback?state=expected-state&code=AQA-code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", rec.Code)
		}
		if flow.exchanges != 1 {
			t.Errorf("expected one exchange, got %d", flow.exchanges)
		}

		result := receiveResult(t, handler)
		if result.Error() != nil {
			t.Fatalf("expected success result, got %v", result.Error())
		}
		if result.Token.AccessToken != "exchanged-AQA-code" {
			t.Errorf("expected the exchanged token, got %q", result.Token.AccessToken)
		}
	})

	t.Run("State Mismatch", func(t *testing.T) {
		flow := &callbackFlow{state: "expected-state"}
		handler := NewOAuthHandler(flow)

		req := httptest.NewRequest(http.MethodGet, "/callback?state=forged&code=AQA-code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if flow.exchanges != 0 {
			t.Error("a mismatched state must never reach the token exchange")
		}
		if result := receiveResult(t, handler); !errors.Is(result.Error(), shared.ErrStateMismatch) {
			t.Errorf("expected ErrStateMismatch, got %v", result.Error())
		}
	})

	t.Run("Consent Denied", func(t *testing.T) {
		flow := &callbackFlow{state: "expected-state"}
		handler := NewOAuthHandler(flow)

		req := httptest.NewRequest(http.MethodGet,
			"/callback?state=expected-state&error=access_denied&error_description=User+denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}
		if flow.exchanges != 0 {
			t.Error("a denied consent must not reach the token exchange")
		}
		if result := receiveResult(t, handler); !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
	})

	t.Run("Exchange Failure", func(t *testing.T) {
		flow := &callbackFlow{state: "expected-state", exchangeErr: shared.ErrAuthFailed}
		handler := NewOAuthHandler(flow)

		req := httptest.NewRequest(http.MethodGet, "/callback?state=expected-state&code=bad", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("expected 500, got %d", rec.Code)
		}
		if result := receiveResult(t, handler); !errors.Is(result.Error(), shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", result.Error())
		}
	})

	t.Run("Second Callback Rejected", func(t *testing.T) {
		flow := &callbackFlow{state: "expected-state"}
		handler := NewOAuthHandler(flow)

		first := httptest.NewRequest(http.MethodGet, "/callback?state=expected-state&code=AQA-code", nil)
		handler.ServeHTTP(httptest.NewRecorder(), first)

		second := httptest.NewRequest(http.MethodGet, "/callback?state=expected-state&code=replayed", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, second)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400 for a replayed callback, got %d", rec.Code)
		}
		if flow.exchanges != 1 {
			t.Errorf("expected the replay to skip the exchange, got %d exchanges", flow.exchanges)
		}
	})
}
