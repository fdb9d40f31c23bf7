// Package rules bundles authored conditions and consequences into the
// when/then units that dialogue content serializes alongside the variable
// tree: a choice gate, a conditional branch or a consequence block.
package rules

import (
	"log/slog"

	"github.com/lmarchant/dialogue-state/pkg/actions"
	"github.com/lmarchant/dialogue-state/pkg/conditions"
	"github.com/lmarchant/dialogue-state/pkg/vars"
)

// Rule gates a set of consequences behind a set of conditions. The When set
// is AND-reduced; an empty When always triggers.
type Rule struct {
	Name string                 `json:"name,omitempty"`
	When []conditions.Operation `json:"when,omitempty"`
	Then []actions.Action       `json:"then,omitempty"`
}

// Triggered reports whether every condition in the When set holds.
func (r Rule) Triggered(root *vars.Group, logger *slog.Logger) bool {
	return conditions.EvaluateAll(root, r.When, logger)
}

// Apply runs the Then set in order. It does not re-check When.
func (r Rule) Apply(root *vars.Group, logger *slog.Logger) {
	actions.ApplyAll(root, r.Then, logger)
}

// ApplyTriggered evaluates every rule against root and applies the ones
// whose conditions hold, returning the names of the applied rules in order.
// Conditions are evaluated against the state as left by earlier rules.
func ApplyTriggered(root *vars.Group, rules []Rule, logger *slog.Logger) []string {
	var applied []string
	for _, r := range rules {
		if !r.Triggered(root, logger) {
			continue
		}
		r.Apply(root, logger)
		applied = append(applied, r.Name)
	}
	return applied
}

// Project is the authored file format consumed by the validator and the
// console: one variable tree plus the rules that reference into it.
type Project struct {
	Document *vars.Document `json:"document"`
	Rules    []Rule         `json:"rules,omitempty"`
}
