//go:build !windows

package process

import "syscall"

// KillProcessGroup sends SIGKILL to the whole process group of pid so that
// Chrome's renderer and GPU children die with the browser.
func KillProcessGroup(pid int) {
	// Best effort: launcher.Kill() still runs after this.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
