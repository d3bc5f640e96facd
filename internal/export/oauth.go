package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

const (
	callbackAddr = "localhost:8080"
	callbackPath = "/oauth/callback"
	authTimeout  = 5 * time.Minute
)

// Authorizer obtains a Google Sheets OAuth2 token for the export
// command, caching it on disk so the browser flow runs once.
type Authorizer struct {
	oauth     *oauth2.Config
	tokenFile string
}

// NewAuthorizer creates an authorizer for the given OAuth2 client.
// tokenFile is where the obtained token is cached; empty disables
// caching.
func NewAuthorizer(clientID, clientSecret, tokenFile string) *Authorizer {
	return &Authorizer{
		tokenFile: tokenFile,
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  "http://" + callbackAddr + callbackPath,
			Scopes:       []string{sheets.SpreadsheetsScope},
		},
	}
}

// Token returns a valid token: the cached one when still usable, a
// refreshed one when expired, or a fresh one from the interactive
// browser flow.
func (a *Authorizer) Token(ctx context.Context) (*oauth2.Token, error) {
	cached, err := a.loadCachedToken()
	if err != nil {
		slog.Info("No cached export token, starting browser sign-in")
		return a.interactiveFlow(ctx)
	}

	if cached.Valid() {
		return cached, nil
	}

	slog.Info("Cached export token expired, refreshing")
	refreshed, err := a.oauth.TokenSource(ctx, cached).Token()
	if err != nil {
		slog.Warn("Token refresh failed, starting browser sign-in", "error", err)
		return a.interactiveFlow(ctx)
	}

	a.cacheToken(refreshed)
	return refreshed, nil
}

// interactiveFlow opens a local callback listener and walks the user
// through Google's consent page in their browser.
func (a *Authorizer) interactiveFlow(ctx context.Context) (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errCh <- fmt.Errorf("consent page returned no authorization code")
			fmt.Fprint(w, "Sign-in failed. Close this tab and rerun tagsnap export auth.")
			return
		}
		codeCh <- code
		fmt.Fprint(w, "Signed in. You can close this tab and return to tagsnap.")
	})

	server := &http.Server{Addr: callbackAddr, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errCh <- fmt.Errorf("callback listener failed: %w", err)
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	// AccessTypeOffline so Google returns a refresh token we can cache.
	authURL := a.oauth.AuthCodeURL("tagsnap-export", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	slog.Info("Authorize tagsnap to write to Google Sheets", "url", authURL)
	slog.Info("Waiting for the browser sign-in to finish")

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("sign-in not completed within %s", authTimeout)
	}

	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	a.cacheToken(token)
	return token, nil
}

// loadCachedToken reads the token cached by a previous sign-in.
func (a *Authorizer) loadCachedToken() (*oauth2.Token, error) {
	if a.tokenFile == "" {
		return nil, os.ErrNotExist
	}

	data, err := os.ReadFile(a.tokenFile) // #nosec G304
	if err != nil {
		return nil, err
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(data, token); err != nil {
		return nil, fmt.Errorf("corrupt token cache %s: %w", a.tokenFile, err)
	}
	return token, nil
}

// cacheToken persists the token for future runs. Failure is logged,
// not returned; the caller already holds a usable token.
func (a *Authorizer) cacheToken(token *oauth2.Token) {
	if a.tokenFile == "" {
		return
	}

	if err := os.MkdirAll(filepath.Dir(a.tokenFile), 0700); err != nil {
		slog.Warn("Could not create token cache directory", "error", err)
		return
	}

	data, err := json.Marshal(token)
	if err != nil {
		slog.Warn("Could not encode token cache", "error", err)
		return
	}

	if err := os.WriteFile(a.tokenFile, data, 0600); err != nil {
		slog.Warn("Could not write token cache", "error", err, "file", a.tokenFile)
		return
	}
	slog.Info("Export token cached", "file", a.tokenFile)
}
