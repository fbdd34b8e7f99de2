//go:build !windows

package platform

import "os/exec"

func configureCommand(*exec.Cmd) {}
