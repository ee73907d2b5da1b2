// Package rules keeps the ordered list of Python formatting rules.
package rules

import (
	"fmt"
	"slices"

	"github.com/donaldgifford/pyfmt/internal/formatter"
)

var formatRules []formatter.FormatRule

// RegisterFormatRule adds a formatting rule to the registry. Rules run in
// the order they are registered; registering a second rule under a name
// already taken panics.
func RegisterFormatRule(r formatter.FormatRule) {
	for _, existing := range formatRules {
		if existing.Name() == r.Name() {
			panic(fmt.Sprintf("rules: format rule %q registered twice", r.Name()))
		}
	}
	formatRules = append(formatRules, r)
}

// FormatRules returns a copy of the registered rules in execution order.
func FormatRules() []formatter.FormatRule {
	return slices.Clone(formatRules)
}
