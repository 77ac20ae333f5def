// Package googleauth builds authenticated Sheets and Gmail services from an
// installed-app OAuth client. The first run walks the operator through the
// consent flow on the console; the obtained token is cached in a local file
// and refreshed silently afterwards.
package googleauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/skylineglobal/invoice-mailer/internal/config"
)

// Services authenticates once and returns handles to both APIs. The same
// session backs every call in the batch.
func Services(ctx context.Context, cfg *config.Config) (*sheets.Service, *gmail.Service, error) {
	client, err := httpClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	sheetsSvc, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, nil, fmt.Errorf("Services: sheets service: %w", err)
	}

	gmailSvc, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, nil, fmt.Errorf("Services: gmail service: %w", err)
	}

	return sheetsSvc, gmailSvc, nil
}

// httpClient assembles an oauth2-backed HTTP client from the client secrets
// file plus the cached token, running the console consent flow when no usable
// token exists yet.
func httpClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	secrets, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("httpClient: read client secrets %q: %w", cfg.CredentialsFile, err)
	}

	oauthCfg, err := google.ConfigFromJSON(secrets, cfg.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("httpClient: parse client secrets: %w", err)
	}

	tok, err := TokenFromFile(cfg.TokenFile)
	if err != nil {
		tok, err = tokenFromConsent(ctx, oauthCfg)
		if err != nil {
			return nil, err
		}
		if err := SaveToken(cfg.TokenFile, tok); err != nil {
			return nil, err
		}
	}

	// The client refreshes an expired token transparently using the refresh
	// token, so a cached token stays usable across runs.
	return oauthCfg.Client(ctx, tok), nil
}

// tokenFromConsent prints the consent URL and exchanges the pasted code for
// a token. Console interaction keeps the flow usable over SSH.
func tokenFromConsent(ctx context.Context, oauthCfg *oauth2.Config) (*oauth2.Token, error) {
	url := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the authorization code:\n%v\n", url)

	var code string
	if _, err := fmt.Scan(&code); err != nil {
		return nil, fmt.Errorf("tokenFromConsent: read authorization code: %w", err)
	}

	tok, err := oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("tokenFromConsent: exchange code: %w", err)
	}
	return tok, nil
}

// TokenFromFile loads a cached OAuth token.
func TokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("TokenFromFile: open %q: %w", path, err)
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("TokenFromFile: decode %q: %w", path, err)
	}
	return tok, nil
}

// SaveToken caches a token for later runs. The file is written 0600 since it
// grants access to the operator's mail and sheets.
func SaveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("SaveToken: create %q: %w", path, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("SaveToken: encode token: %w", err)
	}
	return nil
}
