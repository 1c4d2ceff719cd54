//go:build !linux && !darwin

package ptypane

// processCWD is unsupported on platforms without /proc or lsof; CWD
// tracking falls back to OSC 7 and screen scraping alone.
func processCWD(pid int) (string, bool) { return "", false }
