package check

import (
	"os/exec"
	"runtime"
)

// execLookPath is swapped out in tests.
var execLookPath = exec.LookPath

// idleProbeTool names the external tool the idle probe shells out to
// on this platform.
func idleProbeTool() (string, bool) {
	switch runtime.GOOS {
	case "darwin":
		return "ioreg", true
	case "linux":
		return "xprintidle", true
	default:
		return "", false
	}
}
