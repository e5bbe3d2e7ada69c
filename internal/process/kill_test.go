package process

// Notes:
// - KillProcessGroup: only an invalid PID is used; PID 0 would target the
//   test's own process group. Real teardown is covered by the browser
//   integration tests.
// - NewLauncher: flags derived from the environment, no browser is started.

import "testing"

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

func TestKill_Nil(t *testing.T) {
	t.Parallel()

	Kill(nil)
}

func TestNewLauncher_ContainerBinary(t *testing.T) {
	t.Setenv("ROD_BROWSER_BIN", "/usr/bin/chromium")
	t.Setenv("CI", "")

	l := NewLauncher()
	if !l.Has("no-sandbox") {
		t.Error("no-sandbox not set with ROD_BROWSER_BIN")
	}
	if !l.Has("headless") {
		t.Error("launcher is not headless")
	}
}
