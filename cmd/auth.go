package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Tired-Fox/rataify-sub001/internal/auth"
	"github.com/Tired-Fox/rataify-sub001/internal/server"
	"github.com/Tired-Fox/rataify-sub001/internal/shared"
	"github.com/urfave/cli/v3"
)

// loginTimeout bounds how long the callback listener waits for the
// user to finish the consent screen.
const loginTimeout = 5 * time.Minute

// AuthLogin runs the interactive authorization flow: starts the local
// callback listener, opens the consent URL in the browser, and waits for
// the redirect to deliver the authorization code.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	flow, err := r.requireFlow()
	if err != nil {
		return err
	}

	authURL := flow.AuthURL(cmd.Bool("show-dialog"))
	if authURL == "" {
		// Client credentials has no consent screen; construction already
		// performed the exchange.
		return r.writePlainln("✓ Authenticated (client credentials, no login required)")
	}

	handler := server.NewOAuthHandler(flow)
	router := server.NewBasicRouter()
	router.Handler(handler)

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Errorf("callback server error: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	r.logger.Infof("listening for OAuth callback on %s", addr)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser: %v", err)
		r.writePlainln("Open this URL to authorize:\n%s", authURL)
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		r.logger.Info("authentication successful")
		return r.writePlainln("✓ Authenticated, token expires at %s", result.Token.ExpiresAt.Format(time.RFC1123))
	case <-time.After(loginTimeout):
		return fmt.Errorf("%w: timed out waiting for OAuth callback", shared.ErrAuthFailed)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AuthStatus reports the current token state without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	flow, err := r.requireFlow()
	if err != nil {
		return err
	}

	tok := flow.Token()
	r.writePlainln("Flow: %s", flow.ID())

	if tok.Empty() {
		return r.writePlainln("Authentication: ✗ No token, run `rataify auth login`")
	}

	if tok.Valid(time.Now()) {
		r.writePlainln("Authentication: ✓ Token valid until %s", tok.ExpiresAt.Format(time.RFC1123))
	} else if tok.RefreshToken != "" {
		r.writePlainln("Authentication: ~ Token expired, will refresh on next call")
	} else {
		r.writePlainln("Authentication: ✗ Token expired, run `rataify auth login`")
	}

	if len(tok.Scopes) > 0 {
		r.writePlainln("Scopes: %v", tok.Scopes)
	}
	return nil
}

// AuthLogout clears the in-memory token and removes the cache entry.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	flow, err := r.requireFlow()
	if err != nil {
		return err
	}

	flow.SetToken(auth.Token{})
	if err := r.cache.Remove(flow.ID()); err != nil {
		return err
	}

	r.logger.Info("cleared cached credentials")
	return r.writePlainln("✓ Logged out")
}
