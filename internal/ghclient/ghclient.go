package ghclient

import (
	"net/http"
	"time"

	"github.com/gmkornilov/chessbot/internal/config"
	"github.com/google/go-github/v62/github"
	"github.com/pkg/errors"
)

const requestTimeout = 10 * time.Second

// NewClient returns a token authenticated API client. GITHUB_ENTERPRISE_URL switches
// it to a GitHub Enterprise instance.
func NewClient(cfg *config.Configuration) (*github.Client, error) {
	httpClient := &http.Client{Timeout: requestTimeout}
	client := github.NewClient(httpClient).WithAuthToken(cfg.Github.Token)

	if cfg.Github.EnterpriseURL == "" {
		return client, nil
	}

	client, err := client.WithEnterpriseURLs(cfg.Github.EnterpriseURL, cfg.Github.EnterpriseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "can't use enterprise url %s", cfg.Github.EnterpriseURL)
	}
	return client, nil
}
