//go:build darwin

package ptypane

import (
	"bufio"
	"os/exec"
	"strconv"
	"strings"
)

// processCWD resolves a process's current working directory on macOS.
// There is no /proc on Darwin and the libproc vnode-path-info API that
// would answer this natively requires cgo, which this module avoids; we
// shell out to lsof instead, which every macOS install ships with and
// which reports exactly the "cwd" file descriptor we need.
func processCWD(pid int) (string, bool) {
	cmd := exec.Command("lsof", "-a", "-p", strconv.Itoa(pid), "-d", "cwd", "-Fn")
	out, err := cmd.Output()
	if err != nil {
		return "", false
	}

	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "n") && len(line) > 1 {
			return line[1:], true
		}
	}
	return "", false
}
