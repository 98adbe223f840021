package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/johnquangdev/meeting-insights/pkg/config"
)

// ZoomProvider handles the Zoom OAuth2 authorization-code flow
type ZoomProvider struct {
	config     *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
}

// ZoomUserInfo represents the profile returned by /v2/users/me
type ZoomUserInfo struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// NewZoomProvider creates a new Zoom OAuth provider. httpClient may be nil.
func NewZoomProvider(cfg config.ZoomConfig, httpClient *http.Client) *ZoomProvider {
	authBase := strings.TrimRight(cfg.AuthBaseURL, "/")
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   authBase + "/oauth/authorize",
			TokenURL:  authBase + "/oauth/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &ZoomProvider{
		config:     oauthConfig,
		apiBaseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		httpClient: httpClient,
	}
}

// GetAuthURL returns the OAuth authorization URL
func (z *ZoomProvider) GetAuthURL(state string) string {
	return z.config.AuthCodeURL(state)
}

// ExchangeCode exchanges the authorization code for tokens
func (z *ZoomProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := z.config.Exchange(z.withClient(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	return token, nil
}

// RefreshToken trades a refresh token for a new token pair. A rejection by
// Zoom surfaces as *oauth2.RetrieveError in the chain.
func (z *ZoomProvider) RefreshToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	token := &oauth2.Token{
		RefreshToken: refreshToken,
	}

	tokenSource := z.config.TokenSource(z.withClient(ctx), token)
	newToken, err := tokenSource.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	return newToken, nil
}

// GetUserInfo retrieves the connected Zoom user using the access token
func (z *ZoomProvider) GetUserInfo(ctx context.Context, accessToken string) (*ZoomUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, z.apiBaseURL+"/v2/users/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := z.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("failed to get user info: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var userInfo ZoomUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user info: %w", err)
	}

	return &userInfo, nil
}

func (z *ZoomProvider) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, z.httpClient)
}
