// Package memlimit reports how much memory the process may use.
package memlimit

import (
	"math"
	"runtime/debug"
)

// Fallback is used when neither a Go memory limit nor the physical memory
// size can be determined.
const Fallback int64 = 1 << 30

// Max returns the maximum memory the process is allowed to use: the Go
// runtime soft limit (GOMEMLIMIT / debug.SetMemoryLimit) when one is set,
// otherwise the physical memory of the host.
func Max() int64 {
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit != math.MaxInt64 {
		return limit
	}
	if total := physical(); total > 0 {
		return total
	}
	return Fallback
}

// Budget returns total/divisor, never less than 1.
func Budget(total, divisor int64) int64 {
	if divisor <= 0 {
		divisor = 1
	}
	return max(total/divisor, 1)
}
