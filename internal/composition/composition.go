// Package composition parses Unimod elemental-composition strings.
package composition

import (
	"regexp"
	"strconv"
)

// Composition strings are whitespace-separated tokens, each an element
// symbol optionally followed by a parenthesized signed count, e.g.
// "H(-1) N O(2)" or "2H(4) 13C(1)" for isotopes.
var formulaRegex = regexp.MustCompile(`(\w+)(?:\(([0-9-]+)\))?`)

// Parse converts a composition string into a mapping from element symbol to
// signed count. A symbol with no parenthesized count means count 1. A symbol
// appearing more than once keeps its last count. Empty or unparseable input
// yields an empty map.
func Parse(composition string) map[string]int {
	formula := make(map[string]int)

	for _, m := range formulaRegex.FindAllStringSubmatch(composition, -1) {
		count := 1
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			count = n
		}
		formula[m[1]] = count
	}

	return formula
}
