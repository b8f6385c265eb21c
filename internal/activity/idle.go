package activity

import (
	"context"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// SystemIdleMS returns milliseconds since the last user input, or 0 on
// any failure. Probe failures are never surfaced as errors.
func SystemIdleMS() int64 {
	switch runtime.GOOS {
	case "darwin":
		return darwinIdleMS()
	case "linux":
		return linuxIdleMS()
	default:
		return 0
	}
}

// darwinIdleMS reads HIDIdleTime (nanoseconds) from ioreg.
func darwinIdleMS() int64 {
	out, err := runProbe("ioreg", "-c", "IOHIDSystem")
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "HIDIdleTime") {
			continue
		}
		_, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		ns, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			continue
		}
		return ns / 1_000_000
	}
	return 0
}

// linuxIdleMS shells out to xprintidle, which prints idle milliseconds.
func linuxIdleMS() int64 {
	out, err := runProbe("xprintidle")
	if err != nil {
		return 0
	}
	ms, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0
	}
	return ms
}

func runProbe(name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
