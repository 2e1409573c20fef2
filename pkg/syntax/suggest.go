package syntax

import "strings"

// minSharedPrefix is the shortest common prefix that makes two names similar.
const minSharedPrefix = 3

// Suggest returns the names in funcs that resemble name: either contains the
// other case-insensitively, or they share a prefix of at least three
// characters. Duplicates are dropped and source order is kept.
func Suggest(name string, funcs []FunctionInfo) []string {
	want := strings.ToLower(name)
	if want == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, f := range funcs {
		got := strings.ToLower(f.Name)
		if got == "" || seen[f.Name] {
			continue
		}
		if strings.Contains(got, want) || strings.Contains(want, got) || sharedPrefix(got, want) >= minSharedPrefix {
			seen[f.Name] = true
			out = append(out, f.Name)
		}
	}
	return out
}

func sharedPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}
