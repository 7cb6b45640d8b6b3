//go:build !linux && !darwin

package memlimit

func physical() int64 { return 0 }
