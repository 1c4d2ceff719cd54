package ptypane

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/AryaLabsHQ/agentree/internal/terminal"
)

// cwdRevertThreshold is how many consecutive ticks a shallower or
// equal-depth scraped candidate must persist before it's adopted — about
// 4 seconds at the host's 250ms tick cadence. Prevents flicker when a
// deeper transient path (e.g. a completion menu) briefly disappears.
const cwdRevertThreshold = 16

// scrapeRows is how many top grid rows the screen-scraper inspects.
const scrapeRows = 8

// tickCWD runs the three-signal fusion once: OSC 7, then screen scraping
// (with debounce), then process introspection — in that priority, each
// one short-circuiting the rest when it produces a candidate.
func (p *Pane) tickCWD() {
	var osc string
	var haveOSC bool
	p.WithVT(func(vt *terminal.VirtualTerminal) {
		osc, haveOSC = vt.ReportedCWD()
	})

	if haveOSC && osc != p.cwd {
		p.cwd = osc
		p.shallowRevertCount = 0
		return
	}

	if p.ScrapeCWD {
		if cand, ok := p.scrapeCandidate(); ok {
			p.applyScrapeDebounce(cand)
			return
		}
	}

	if p.pid != 0 {
		if path, ok := processCWD(p.pid); ok && path != p.cwd {
			p.cwd = path
		}
	}
}

func (p *Pane) scrapeCandidate() (string, bool) {
	var best string
	var found bool
	bestDepth := -1

	p.WithVT(func(vt *terminal.VirtualTerminal) {
		limit := scrapeRows
		if vt.Rows() < limit {
			limit = vt.Rows()
		}
		for y := 0; y < limit; y++ {
			cand, ok := extractPathCandidate(vt.RowText(y), p.homeDir)
			if !ok {
				continue
			}
			depth := pathDepth(cand)
			if depth > bestDepth {
				bestDepth = depth
				best = cand
				found = true
			}
		}
	})

	return best, found
}

// applyScrapeDebounce implements the debounce policy: the same path as the
// current cwd resets the counter without adopting; strictly deeper adopts
// immediately;
// shallower-or-equal increments a counter and only adopts once it
// reaches cwdRevertThreshold.
func (p *Pane) applyScrapeDebounce(candidate string) {
	if candidate == p.cwd {
		p.shallowRevertCount = 0
		return
	}
	if pathDepth(candidate) > pathDepth(p.cwd) {
		p.cwd = candidate
		p.shallowRevertCount = 0
		return
	}
	p.shallowRevertCount++
	if p.shallowRevertCount >= cwdRevertThreshold {
		p.cwd = candidate
		p.shallowRevertCount = 0
	}
}

func pathDepth(path string) int {
	clean := strings.Trim(filepath.Clean(path), string(filepath.Separator))
	if clean == "" || clean == "." {
		return 0
	}
	return len(strings.Split(clean, string(filepath.Separator)))
}

func isPathChar(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '/', b == '.', b == '_', b == '-', b == '+', b == '@':
		return true
	}
	return false
}

// extractPathCandidate finds the first "~/" or "/" in line, takes the
// longest run of path characters from there, trims a trailing slash, and
// accepts it only if it names an existing directory.
func extractPathCandidate(line, home string) (string, bool) {
	line = strings.TrimSpace(line)

	tildeIdx := strings.Index(line, "~/")
	slashIdx := strings.IndexByte(line, '/')

	var start int
	expandHome := false
	switch {
	case tildeIdx >= 0 && (slashIdx < 0 || tildeIdx <= slashIdx):
		start = tildeIdx
		expandHome = true
	case slashIdx >= 0:
		start = slashIdx
	default:
		return "", false
	}

	rest := line[start:]
	end := 0
	for end < len(rest) && isPathChar(rest[end]) {
		end++
	}
	token := strings.TrimRight(rest[:end], "/")
	if token == "" {
		return "", false
	}

	var path string
	if expandHome {
		if home == "" {
			return "", false
		}
		path = filepath.Join(home, strings.TrimPrefix(token, "~"))
	} else {
		path = token
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return path, true
}
