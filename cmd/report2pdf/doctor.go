package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-report2pdf/internal/assets"
	"github.com/alnah/go-report2pdf/internal/diagram"
	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/fonts"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"`
	Chrome   chromeInfo `json:"chrome"`
	Env      envInfo    `json:"environment"`
	System   systemInfo `json:"system"`
	Report   reportInfo `json:"report"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// chromeInfo holds Chrome/Chromium detection results.
type chromeInfo struct {
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	BrowserBin    string `json:"rod_browser_bin"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// reportInfo holds checks of the embedded report and its fonts.
type reportInfo struct {
	AssetsLoaded  bool `json:"assets_loaded"`
	DocumentValid bool `json:"document_valid"`
	Sections      int  `json:"sections"`
	Diagrams      int  `json:"diagrams"`
	FontsLoaded   bool `json:"fonts_loaded"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(env.Getenv, env.AssetLoader)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(getenv func(string) string, loader assets.AssetLoader) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			BrowserBin: getenv("ROD_BROWSER_BIN"),
		},
	}

	checkEnvironment(result, getenv)
	checkChrome(result)
	checkSystem(result)
	checkAssets(result, loader)
	checkReport(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}
	return result
}

// checkChrome detects Chrome/Chromium installation.
func checkChrome(result *doctorResult) {
	chromePath := result.Env.BrowserBin
	if chromePath == "" {
		var found bool
		chromePath, found = launcher.LookPath()
		if !found {
			result.Errors = append(result.Errors,
				"Chrome/Chromium not found. Install Chrome or set ROD_BROWSER_BIN")
			return
		}
	}

	if _, err := os.Stat(chromePath); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Chrome not found at %s", chromePath))
		return
	}

	result.Chrome.Found = true
	result.Chrome.Path = chromePath

	out, err := exec.Command(chromePath, "--version").Output() // #nosec G204 -- path from LookPath or ROD_BROWSER_BIN
	if err == nil {
		result.Chrome.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Could not get Chrome version: %v", err))
	}

	// Mirrors process.NewLauncher: CI and ROD_BROWSER_BIN disable the sandbox.
	result.Chrome.Sandbox = !result.Env.CI && result.Env.BrowserBin == ""
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	if result.Env.Container && result.Env.BrowserBin == "" && getenv("CI") != "true" {
		result.Warnings = append(result.Warnings,
			"Container detected but ROD_BROWSER_BIN not set; Chrome will run with its sandbox")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	if getenv("REPORT2PDF_CONTAINER") == "1" {
		return true, "REPORT2PDF_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp directory used for printing is writable.
func checkSystem(result *doctorResult) {
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "report2pdf-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Temp directory not writable: %s", tmpDir))
		return
	}
	_ = os.Remove(testFile)
	result.System.TempWritable = true
}

// checkAssets loads the stylesheet and every page template.
func checkAssets(result *doctorResult, loader assets.AssetLoader) {
	if _, err := loader.LoadStyle(assets.DefaultStyleName); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Stylesheet failed to load: %v", err))
		return
	}
	for _, name := range []string{assets.TemplateWeb, assets.TemplatePaged, assets.TemplateMeasure, assets.TemplateViewer} {
		if _, err := loader.LoadTemplate(name); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Template %q failed to load: %v", name, err))
			return
		}
	}
	result.Report.AssetsLoaded = true
}

// checkReport validates the embedded report and loads the measuring fonts.
func checkReport(result *doctorResult) {
	doc, err := document.Default()
	if err == nil {
		err = doc.Validate(diagram.Exists)
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Embedded report invalid: %v", err))
	} else {
		result.Report.DocumentValid = true
		result.Report.Sections = len(doc.Sections)
	}
	result.Report.Diagrams = len(diagram.Names())

	for _, s := range []fonts.Style{fonts.Regular, fonts.Bold, fonts.Mono} {
		if _, err := fonts.NewFace(s, 12); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Font %d failed to load: %v", s, err))
			return
		}
	}
	result.Report.FontsLoaded = true
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "report2pdf doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Chrome/Chromium")
	if r.Chrome.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Chrome.Path)
		if r.Chrome.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Chrome.Version)
		}
		if r.Chrome.Sandbox {
			fmt.Fprintln(w, "  [OK] Sandbox: enabled")
		} else {
			fmt.Fprintln(w, "  [OK] Sandbox: disabled")
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Report")
	if r.Report.AssetsLoaded {
		fmt.Fprintln(w, "  [OK] Stylesheet and templates: loaded")
	} else {
		fmt.Fprintln(w, "  [ERROR] Stylesheet and templates: missing")
	}
	if r.Report.DocumentValid {
		fmt.Fprintf(w, "  [OK] Embedded report: %d sections\n", r.Report.Sections)
	} else {
		fmt.Fprintln(w, "  [ERROR] Embedded report: invalid")
	}
	fmt.Fprintf(w, "  [OK] Built-in diagrams: %d\n", r.Report.Diagrams)
	if r.Report.FontsLoaded {
		fmt.Fprintln(w, "  [OK] Fonts: loaded")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to render")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
