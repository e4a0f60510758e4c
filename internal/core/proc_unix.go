//go:build unix

package core

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// setProcessGroup puts the tool in its own process group so that an
// interrupt kills it and every JVM it forked. A background group reading the
// terminal would be stopped by SIGTTIN, so with a terminal on stdin the tool
// stays in our group; the terminal then delivers Ctrl-C to both. It reports
// whether a group was created.
func setProcessGroup(cmd *exec.Cmd) bool {
	if f, ok := cmd.Stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return false
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return true
}

func killProcess(cmd *exec.Cmd, group bool) {
	if cmd.Process == nil {
		return
	}
	if group {
		if err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL); err == nil {
			return
		}
	}
	_ = cmd.Process.Kill()
}
