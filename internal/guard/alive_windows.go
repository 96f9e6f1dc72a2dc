//go:build windows

package guard

import (
	"os"
	"syscall"
)

// Alive reports whether pid can be opened. On Windows os.FindProcess
// performs a real OpenProcess call and fails for missing pids.
func Alive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	_ = p.Release()
	return true
}

func detachedSysProcAttr() *syscall.SysProcAttr {
	const detachedProcess = 0x00000008
	return &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | detachedProcess,
	}
}
