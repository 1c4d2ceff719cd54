//go:build linux

package ptypane

import (
	"fmt"
	"os"
)

// processCWD resolves a process's current working directory by reading
// the /proc/<pid>/cwd symlink.
func processCWD(pid int) (string, bool) {
	path, err := os.Readlink(fmt.Sprintf("/proc/%d/cwd", pid))
	if err != nil {
		return "", false
	}
	return path, true
}
