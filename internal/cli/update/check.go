package update

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	userAgent   = "mcloud-cli"
	releasesURL = "https://github.com/model-cloud/mcloud/releases"
)

// Overridable for tests.
var releaseAPIURL = "https://api.github.com/repos/model-cloud/mcloud/releases/latest"

// Release is the subset of the GitHub release payload we read.
type Release struct {
	TagName string `json:"tag_name"`
	Name    string `json:"name"`
	HTMLURL string `json:"html_url"`
}

// GetLatestVersion fetches the latest released version tag.
func GetLatestVersion() (string, error) {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	req, err := http.NewRequest("GET", releaseAPIURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var release Release
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return release.TagName, nil
}

// CheckForUpdate reports whether a newer version than currentVersion is
// available, and which.
func CheckForUpdate(currentVersion string) (bool, string, error) {
	latestVersion, err := GetLatestVersion()
	if err != nil {
		return false, "", err
	}

	return isNewer(currentVersion, latestVersion), latestVersion, nil
}

// isNewer returns true if latest differs from current. Development
// builds always report an available update.
func isNewer(current, latest string) bool {
	current = strings.TrimPrefix(current, "v")
	latest = strings.TrimPrefix(latest, "v")

	if current == "dev" {
		return true
	}

	return current != latest
}

// PrintUpdateNotification prints a notice when a newer release exists.
// Errors are swallowed; the check must never block a command.
func PrintUpdateNotification(currentVersion string) {
	updateAvailable, latestVersion, err := CheckForUpdate(currentVersion)
	if err != nil {
		return
	}

	if updateAvailable {
		fmt.Fprintf(os.Stderr, "New version %s -> %s. Download: %s\n\n", currentVersion, latestVersion, releasesURL)
	}
}
