// Package updater checks GitHub Releases for a newer botboard build.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/botboard-io/botboard/internal/buildinfo"
)

// ReleasesURL is the latest-release endpoint queried by Check.
const ReleasesURL = "https://api.github.com/repos/botboard-io/botboard/releases/latest"

// Release is the subset of a GitHub release we read.
type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Result is the outcome of a release check.
type Result struct {
	Available      bool
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
}

// Checker queries a releases endpoint.
type Checker struct {
	URL     string
	Client  *http.Client
	Current string
}

// NewChecker returns a Checker for the running build.
func NewChecker() *Checker {
	return &Checker{
		URL:     ReleasesURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Current: buildinfo.Version,
	}
}

// Check fetches the latest release. A development build ("dev" or any
// unparseable version) is always considered out of date.
func (c *Checker) Check(ctx context.Context) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "botboard/"+c.Current)

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch releases: %w", err)
	}
	defer resp.Body.Close()

	result := &Result{CurrentVersion: c.Current}
	if resp.StatusCode == http.StatusNotFound {
		return result, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("releases API returned %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	latest, err := ParseVersion(release.TagName)
	if err != nil {
		return nil, fmt.Errorf("parse latest version %q: %w", release.TagName, err)
	}
	result.LatestVersion = latest.String()
	result.ReleaseURL = release.HTMLURL

	current, err := ParseVersion(c.Current)
	if err != nil {
		result.Available = true
		return result, nil
	}
	result.Available = current.Less(latest)
	return result, nil
}
