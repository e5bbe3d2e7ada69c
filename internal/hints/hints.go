// Package hints turns common failures into one actionable line. Hints are
// formatted as "\n  hint: <text>" so the CLI can append them to errors.
package hints

import (
	"strings"

	"github.com/alnah/go-report2pdf/internal/fileutil"
)

// IsInContainer reports whether the process runs in Docker or similar.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowser returns hints for a browser that failed to start or load a
// page. getenv is os.Getenv in production.
func ForBrowser(getenv func(string) string) string {
	var hints []string

	inCI := getenv("CI") != "" ||
		getenv("GITHUB_ACTIONS") != "" ||
		getenv("GITLAB_CI") != "" ||
		getenv("JENKINS_URL") != ""
	browserBin := getenv("ROD_BROWSER_BIN")

	// The launcher drops the sandbox only for CI=true or a custom binary.
	if (inCI || IsInContainer() || getenv("REPORT2PDF_CONTAINER") == "1") && getenv("CI") != "true" && browserBin == "" {
		hints = append(hints, "set CI=true to run Chrome without its sandbox in Docker/CI")
	}
	if browserBin == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use an installed Chrome")
	}
	hints = append(hints, "run 'report2pdf doctor' to check the setup")
	return formatHints(hints)
}

// ForTimeout returns a hint for a render that ran out of time.
func ForTimeout() string {
	return format("long reports need more time, use --timeout 2m")
}

// ForServerTimeout returns a hint for a capture that never reached the
// preview server.
func ForServerTimeout(url string) string {
	return format("start 'report2pdf serve' first or raise --server-timeout; polled " + url)
}

// ForConfigNotFound returns hints for a config that was not found. Given
// the paths tried, it suggests the user config location.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-report2pdf") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns a hint for output files that could not be
// written.
func ForOutputDirectory() string {
	return format("check the output directory is writable")
}

// ForStyleNotFound lists the available styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForBandsMissing returns a hint for PDF pages without their bands.
func ForBandsMissing() string {
	return format("compare with 'report2pdf layout --yaml' and check the page CSS keeps header and footer inside the margins")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
