package dataset

import "strings"

// IsList reports whether a cell is written in list form: a bracketed
// "[a, b]" literal or several newline-separated lines.
func IsList(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return true
	}
	return strings.Contains(s, "\n")
}

// SplitList parses a list-valued cell. Bracketed cells are split on commas
// and each item is stripped of surrounding quotes; otherwise the cell is
// split into non-empty lines. A plain scalar yields a single member.
func SplitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		var items []string
		for _, item := range strings.Split(s[1:len(s)-1], ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			item = strings.Trim(item, `"'`)
			items = append(items, item)
		}
		return items
	}

	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r", ""), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
