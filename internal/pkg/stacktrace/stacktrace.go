package stacktrace

import "strings"

// InternalPaths extracts the frames of a raw stack trace that point into
// this repository's internal packages, shortened to internal/<path>:<line>.
// It keeps panic logs readable without dumping the full runtime stack.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")
	paths := make([]string, 0, len(lines))

	for i := 0; i < len(lines)-1; i++ {
		line := strings.TrimSpace(lines[i+1])
		if !strings.Contains(line, "/internal/") || !strings.Contains(line, ".go") {
			continue
		}

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		end := strings.Index(line[idx:], " ")
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}

		short := line[:end]
		if at := strings.Index(short, "/internal/"); at != -1 {
			paths = append(paths, short[at+1:])
		}
	}

	return paths
}
