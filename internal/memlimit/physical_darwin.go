//go:build darwin

package memlimit

import "golang.org/x/sys/unix"

func physical() int64 {
	total, err := unix.SysctlUint64("hw.memsize")
	if err != nil {
		return 0
	}
	return int64(total)
}
