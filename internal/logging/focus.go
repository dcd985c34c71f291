package logging

import "strings"

// MatchModule reports whether module is selected by patterns. A pattern is
// either an exact module name or a subtree such as "workflow.*", which
// matches "workflow" and every module below it. "*" matches everything and
// an empty pattern list selects every module.
func MatchModule(patterns []string, module string) bool {
	if len(patterns) == 0 {
		return true
	}
	module = strings.TrimSpace(module)
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		switch {
		case pattern == "":
		case pattern == "*":
			return true
		case strings.HasSuffix(pattern, ".*"):
			root := strings.TrimSuffix(pattern, ".*")
			if module == root || strings.HasPrefix(module, root+".") {
				return true
			}
		case pattern == module:
			return true
		}
	}
	return false
}
