package gitops

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ParseStatus converts porcelain status output into a FileChangeSet. Each
// line is a fixed-width two-character code, a separator and a path; lines
// shorter than four characters are skipped as malformed.
func ParseStatus(output string) FileChangeSet {
	files := FileChangeSet{
		Modified:  []string{},
		Added:     []string{},
		Deleted:   []string{},
		Untracked: []string{},
		Staged:    []string{},
		Unstaged:  []string{},
	}

	for _, line := range strings.Split(output, "\n") {
		if len(line) < 4 {
			continue
		}

		index, worktree := line[0], line[1]
		path := strings.TrimSpace(line[3:])
		if strings.HasPrefix(path, `"`) && strings.HasSuffix(path, `"`) {
			path = path[1 : len(path)-1]
		}

		switch index {
		case 'M':
			files.Modified = append(files.Modified, path)
			files.Staged = append(files.Staged, path)
		case 'A':
			files.Added = append(files.Added, path)
			files.Staged = append(files.Staged, path)
		case 'D':
			files.Deleted = append(files.Deleted, path)
			files.Staged = append(files.Staged, path)
		}

		switch worktree {
		case 'M':
			if !lo.Contains(files.Modified, path) {
				files.Modified = append(files.Modified, path)
			}
			files.Unstaged = append(files.Unstaged, path)
		case 'D':
			if !lo.Contains(files.Deleted, path) {
				files.Deleted = append(files.Deleted, path)
			}
			files.Unstaged = append(files.Unstaged, path)
		}

		if index == '?' && worktree == '?' {
			files.Untracked = append(files.Untracked, path)
		}
	}

	return files
}

// ParseAheadBehind parses "rev-list --left-right --count" output, a pair of
// integers separated by whitespace. Anything else yields (0, 0): divergence
// info is best-effort.
func ParseAheadBehind(output string) (int, int) {
	counts := strings.Fields(strings.TrimSpace(output))
	if len(counts) != 2 {
		return 0, 0
	}

	ahead, err := strconv.Atoi(counts[0])
	if err != nil {
		return 0, 0
	}
	behind, err := strconv.Atoi(counts[1])
	if err != nil {
		return 0, 0
	}

	return ahead, behind
}
