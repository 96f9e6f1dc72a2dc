//go:build unix

package guard

import (
	"errors"
	"syscall"
)

// Alive probes pid with a zero signal. EPERM means the process exists but
// belongs to someone else, which still counts as alive.
func Alive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

func detachedSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
