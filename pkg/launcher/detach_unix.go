//go:build unix

package launcher

import "syscall"

// detachedProcAttr starts the child in its own session so it has no
// controlling terminal and is not signalled with the launcher's process group.
func detachedProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
