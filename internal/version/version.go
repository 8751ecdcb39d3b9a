// Package version reports build metadata injected with -ldflags:
//
//	-X github.com/krakowski/BombermanVR/internal/version.BuildDate=2026-03-01
package version

import (
	"errors"
	"fmt"
	"time"
)

var (
	BuildDate   string // YYYY-MM-DD (UTC)
	BuildCommit string
	BuildBranch string
	BuildCI     string
)

// ErrNoBuildDate is returned when the binary was built without a date.
var ErrNoBuildDate = errors.New("BuildDate is empty")

// Build numbers count days since the first arena release.
var buildEpoch = time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

// VersionInfo is the payload of /version.
type VersionInfo struct {
	BuildID    int    `json:"build_id"`
	BuildDate  string `json:"build_date"`
	Commit     string `json:"commit,omitempty"`
	Branch     string `json:"branch,omitempty"`
	CI         string `json:"ci,omitempty"`
	Calculated bool   `json:"calculated"`
	Error      string `json:"error,omitempty"`
}

func CalculateBuildID() (int, error) {
	return buildID(BuildDate)
}

func buildID(date string) (int, error) {
	if date == "" {
		return 0, ErrNoBuildDate
	}

	t, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		return 0, fmt.Errorf("invalid BuildDate %q: %w", date, err)
	}

	if t.Before(buildEpoch) {
		return 0, fmt.Errorf("BuildDate %s is before epoch", date)
	}

	// Both dates are UTC midnight, so whole hours divide evenly.
	return int(t.Sub(buildEpoch).Hours() / 24), nil
}

// Info returns structured version information.
func Info() VersionInfo {
	info := VersionInfo{
		BuildDate: BuildDate,
		Commit:    BuildCommit,
		Branch:    BuildBranch,
		CI:        BuildCI,
	}

	id, err := CalculateBuildID()
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.BuildID = id
	info.Calculated = true
	return info
}

// String is the one-line build banner logged at startup.
func String() string {
	info := Info()

	if !info.Calculated {
		return fmt.Sprintf("arena build unknown (%s)", info.Error)
	}

	return fmt.Sprintf(
		"arena build %d (%s) commit[%s] branch[%s] ci[%s]",
		info.BuildID,
		info.BuildDate,
		coalesce(info.Commit, "unknown"),
		coalesce(info.Branch, "unknown"),
		coalesce(info.CI, "local"),
	)
}

func coalesce(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
