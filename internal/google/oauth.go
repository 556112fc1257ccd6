package google

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DefaultRedirectURL is the loopback redirect used by desktop OAuth clients.
const DefaultRedirectURL = "http://127.0.0.1"

// PlaygroundRedirectURL is the redirect used by the OAuth 2.0 Playground.
const PlaygroundRedirectURL = "https://developers.google.com/oauthplayground"

// AuthURL returns the consent URL for clientID requesting offline access to
// DefaultOAuthScopes, so that the redirect carries a code that can be
// exchanged for a refresh token. An empty redirectURL uses DefaultRedirectURL.
func AuthURL(clientID, redirectURL, state string) (string, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return "", fmt.Errorf("client ID is required")
	}
	if redirectURL == "" {
		redirectURL = DefaultRedirectURL
	}
	if state == "" {
		state = "calassist"
	}

	conf := oauthConfig(clientID, redirectURL)
	return conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

func oauthConfig(clientID, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    clientID,
		Endpoint:    google.Endpoint,
		RedirectURL: redirectURL,
		Scopes:      DefaultOAuthScopes,
	}
}

// LooksLikeClientID reports whether id has the shape of a Google OAuth client ID.
func LooksLikeClientID(id string) bool {
	return strings.HasSuffix(strings.TrimSpace(id), ".apps.googleusercontent.com")
}
