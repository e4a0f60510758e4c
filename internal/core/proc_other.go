//go:build !unix

package core

import "os/exec"

func setProcessGroup(*exec.Cmd) bool { return false }

func killProcess(cmd *exec.Cmd, _ bool) {
	if cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
