package version

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/nulzo/inference-gateway/internal/httpclient"
)

// Version is overridden at build time with -ldflags "-X .../internal/version.Version=v1.2.3".
var Version = "v0.0.0"

// DefaultAPIBase is the GitHub REST endpoint queried for releases.
const DefaultAPIBase = "https://api.github.com"

type release struct {
	TagName string `json:"tag_name"`
}

// Update describes a newer published release.
type Update struct {
	Current string
	Latest  string
}

// Checker compares the running build against the latest GitHub release.
type Checker struct {
	client     httpclient.HTTPClient
	apiBase    string
	repository string
	current    string
}

func NewChecker(client httpclient.HTTPClient, repository string) *Checker {
	return &Checker{
		client:     client,
		apiBase:    DefaultAPIBase,
		repository: repository,
		current:    Version,
	}
}

// Check returns the newer release, or nil when the build is current.
func (c *Checker) Check(ctx context.Context) (*Update, error) {
	current, err := version.NewVersion(c.current)
	if err != nil {
		return nil, fmt.Errorf("invalid build version %q: %w", c.current, err)
	}

	var rel release
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(c.apiBase, "/"), c.repository)
	headers := map[string]string{"Accept": "application/vnd.github+json"}
	if err := httpclient.SendRequest(ctx, c.client, http.MethodGet, url, headers, nil, &rel); err != nil {
		return nil, err
	}

	latest, err := version.NewVersion(rel.TagName)
	if err != nil {
		return nil, fmt.Errorf("invalid release tag %q: %w", rel.TagName, err)
	}

	if !current.LessThan(latest) {
		return nil, nil
	}
	return &Update{Current: c.current, Latest: rel.TagName}, nil
}
