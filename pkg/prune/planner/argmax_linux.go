//go:build linux

package planner

import "golang.org/x/sys/unix"

// argLimit returns the kernel argv byte budget. Linux sizes it at a quarter
// of the stack soft limit, floored at 128 KiB.
func argLimit() int {
	const floor = 128 * 1024

	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_STACK, &rlim); err != nil {
		return floor
	}

	limit := int(rlim.Cur / 4)
	if limit < floor {
		return floor
	}
	return limit
}
