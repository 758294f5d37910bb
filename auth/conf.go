package auth

import "golang.org/x/oauth2/clientcredentials"

// Conf holds the credentials used to authorise calls to the document store.
// A static AccessToken wins over the client credential flow.
type Conf struct {
	AccessToken  string   `json:"access_token"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURL      string   `json:"auth_url"`
	Scopes       []string `json:"scopes"`
}

// Enabled reports whether any bearer credential is configured.
func (c Conf) Enabled() bool {
	return c.AccessToken != "" || c.ClientID != ""
}

func (c *Conf) toOauth2Config() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.AuthURL,
		Scopes:       c.Scopes,
	}
}
