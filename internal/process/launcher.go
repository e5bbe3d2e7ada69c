package process

import (
	"os"

	"github.com/go-rod/rod/lib/launcher"
)

// NewLauncher configures a headless Chrome launcher. ROD_BROWSER_BIN picks
// a pre-installed browser (containers); sandboxing is disabled in CI and
// containers.
func NewLauncher() *launcher.Launcher {
	l := launcher.New().Headless(true)

	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	return l
}

// Kill tears down the whole Chrome process tree of l.
func Kill(l *launcher.Launcher) {
	if l == nil {
		return
	}
	if pid := l.PID(); pid > 0 {
		KillProcessGroup(pid)
	}
	l.Kill()
	l.Cleanup()
}
