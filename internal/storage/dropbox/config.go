package dropbox

import "time"

const (
	defaultTokenURL   = "https://api.dropboxapi.com/oauth2/token"
	defaultAPIURL     = "https://api.dropboxapi.com"
	defaultContentURL = "https://content.dropboxapi.com"

	defaultRootFolder      = "/orders"
	defaultRefreshInterval = 3 * time.Hour
	defaultHTTPTimeout     = 15 * time.Second
)

// Config holds the OAuth app credentials and endpoints for the Dropbox
// backend. Zero-valued endpoints and intervals fall back to defaults;
// tests point the URLs at a fake server.
type Config struct {
	AppKey       string
	AppSecret    string
	RefreshToken string

	TokenURL   string
	APIURL     string
	ContentURL string

	RootFolder      string
	RefreshInterval time.Duration
	HTTPTimeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.TokenURL == "" {
		c.TokenURL = defaultTokenURL
	}
	if c.APIURL == "" {
		c.APIURL = defaultAPIURL
	}
	if c.ContentURL == "" {
		c.ContentURL = defaultContentURL
	}
	if c.RootFolder == "" {
		c.RootFolder = defaultRootFolder
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = defaultRefreshInterval
	}
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = defaultHTTPTimeout
	}
	return c
}
