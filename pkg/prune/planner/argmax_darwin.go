//go:build darwin

package planner

import "golang.org/x/sys/unix"

// argLimit returns the kernel argv byte budget from kern.argmax.
func argLimit() int {
	const fallback = 128 * 1024

	n, err := unix.SysctlUint32("kern.argmax")
	if err != nil || n == 0 {
		return fallback
	}
	return int(n)
}
