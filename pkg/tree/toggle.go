package tree

import "strings"

// Toggle returns a new list with id removed if present, else appended.
// Relative order of the remaining elements is preserved; the input list is
// never mutated.
func Toggle(list []string, id string) []string {
	for i, v := range list {
		if v != id {
			continue
		}
		out := make([]string, 0, len(list)-1)
		out = append(out, list[:i]...)
		out = append(out, list[i+1:]...)
		return out
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, id)
	return out
}

// Tokenize splits a search term on whitespace, drops empty tokens, and
// lowercases the rest. Tokens are handed to the caller-supplied search
// predicate; the engine never matches them itself.
func Tokenize(term string) []string {
	fields := strings.Fields(term)
	if len(fields) == 0 {
		return nil
	}
	tokens := make([]string, len(fields))
	for i, f := range fields {
		tokens[i] = strings.ToLower(f)
	}
	return tokens
}
