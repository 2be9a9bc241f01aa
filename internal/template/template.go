// Package template implements the {{placeholder}} substitution used for
// document filename patterns and agent prompt templates.
//
// Placeholders are double-brace tokens whose name is looked up verbatim
// (after trimming surrounding whitespace) in a string map. Substitution in
// generated documents themselves happens server-side via the Docs API; this
// package only handles the strings the studio renders locally.
package template

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var placeholderRe = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Render substitutes every {{name}} token with values[name]. Tokens without
// a corresponding entry are left untouched so a later pass (or the Docs API)
// can still see them.
func Render(pattern string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(pattern, func(tok string) string {
		name := strings.TrimSpace(tok[2 : len(tok)-2])
		if v, ok := values[name]; ok {
			return v
		}
		return tok
	})
}

// RenderStrict is Render, but it fails when any placeholder is unresolved.
// Agent prompts use this so a typo in a template is reported instead of
// silently sent to the model.
func RenderStrict(pattern string, values map[string]string) (string, error) {
	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(pattern, func(tok string) string {
		name := strings.TrimSpace(tok[2 : len(tok)-2])
		if v, ok := values[name]; ok {
			return v
		}
		missing = append(missing, name)
		return tok
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("unresolved placeholders: %s", strings.Join(dedupe(missing), ", "))
	}
	return out, nil
}

// Placeholders returns the distinct placeholder names in pattern, sorted.
func Placeholders(pattern string) []string {
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(pattern, -1) {
		names = append(names, strings.TrimSpace(m[1]))
	}
	sort.Strings(names)
	return dedupe(names)
}

// dedupe removes adjacent duplicates from a sorted slice.
func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
