//go:build !linux && !darwin

package planner

// argLimit returns a conservative argv byte budget for platforms without a
// discovery mechanism. 128 KiB is the floor POSIX-like systems guarantee.
func argLimit() int {
	return 128 * 1024
}
