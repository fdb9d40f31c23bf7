// Package conditions implements side-effect-free condition evaluation
// against a variable tree. Evaluation is fail-closed: an unresolvable
// reference, a type mismatch or a bad operand never silently passes — it
// evaluates to false and emits a warning diagnostic.
package conditions

import (
	"log/slog"
	"strings"

	"github.com/lmarchant/dialogue-state/pkg/vars"
)

// Comparator selects how a resolved value is compared to the stored operand.
// Which comparators are meaningful depends on the resolved leaf's kind.
type Comparator string

const (
	Equal          Comparator = "equal"
	NotEqual       Comparator = "not_equal"
	Greater        Comparator = "greater"
	GreaterOrEqual Comparator = "greater_or_equal"
	Less           Comparator = "less"
	LessOrEqual    Comparator = "less_or_equal"

	IsTrue  Comparator = "is_true"
	IsFalse Comparator = "is_false"

	Contains   Comparator = "contains"
	StartsWith Comparator = "starts_with"
	EndsWith   Comparator = "ends_with"
)

// Operation is a single authored condition: a reference plus a comparator
// and per-kind operand fields. Only the operand matching the resolved
// leaf's kind is consulted.
type Operation struct {
	Ref        vars.Ref   `json:"ref"`
	Comparator Comparator `json:"comparator"`

	IntValue    int     `json:"int_value,omitempty"`
	FloatValue  float64 `json:"float_value,omitempty"`
	BoolValue   bool    `json:"bool_value,omitempty"`
	StringValue string  `json:"string_value,omitempty"`
	EnumValue   string  `json:"enum_value,omitempty"`
}

// Evaluate resolves the operation's reference against root and compares the
// resolved leaf's current value to the stored operand, dispatching on the
// leaf's kind. Unresolvable references, composites without a scalar value
// and unsupported comparator/kind pairs all evaluate to false.
func Evaluate(root *vars.Group, op Operation, logger *slog.Logger) bool {
	if logger == nil {
		logger = slog.Default()
	}

	resolved, stage := op.Ref.Resolve(root)
	if resolved == nil {
		logger.Warn("condition reference did not resolve",
			"id", op.Ref.ID, "path", op.Ref.Path, "comparator", op.Comparator)
		return false
	}

	leaf, ok := resolved.(*vars.Leaf)
	if !ok {
		logger.Warn("condition target has no scalar value",
			"path", resolved.Path(), "kind", resolved.Kind(), "resolved_by", stage)
		return false
	}

	switch leaf.Kind() {
	case vars.KindInt:
		return compareOrdered(leaf.Int(), op.IntValue, op.Comparator, logger, leaf)
	case vars.KindFloat:
		return compareOrdered(leaf.Float(), op.FloatValue, op.Comparator, logger, leaf)
	case vars.KindBool:
		return compareBool(leaf, op, logger)
	case vars.KindString:
		return compareString(leaf, op, logger)
	case vars.KindEnum:
		return compareEnum(leaf, op, logger)
	}

	logger.Warn("condition target has unsupported kind",
		"path", leaf.Path(), "kind", leaf.Kind())
	return false
}

// EvaluateAll AND-reduces a set of operations, short-circuiting on the
// first false. An empty set is vacuously true.
func EvaluateAll(root *vars.Group, ops []Operation, logger *slog.Logger) bool {
	for _, op := range ops {
		if !Evaluate(root, op, logger) {
			return false
		}
	}
	return true
}

func compareOrdered[T int | float64](current, operand T, cmp Comparator, logger *slog.Logger, leaf *vars.Leaf) bool {
	switch cmp {
	case Equal:
		return current == operand
	case NotEqual:
		return current != operand
	case Greater:
		return current > operand
	case GreaterOrEqual:
		return current >= operand
	case Less:
		return current < operand
	case LessOrEqual:
		return current <= operand
	}
	logger.Warn("comparator not supported for numeric value",
		"path", leaf.Path(), "comparator", cmp)
	return false
}

func compareBool(leaf *vars.Leaf, op Operation, logger *slog.Logger) bool {
	switch op.Comparator {
	case IsTrue:
		return leaf.Bool()
	case IsFalse:
		return !leaf.Bool()
	case Equal:
		return leaf.Bool() == op.BoolValue
	case NotEqual:
		return leaf.Bool() != op.BoolValue
	}
	logger.Warn("comparator not supported for bool value",
		"path", leaf.Path(), "comparator", op.Comparator)
	return false
}

// compareString uses ordinal (byte-exact, culture-independent) comparison.
func compareString(leaf *vars.Leaf, op Operation, logger *slog.Logger) bool {
	current := leaf.Str()
	operand := op.StringValue
	switch op.Comparator {
	case Equal:
		return current == operand
	case NotEqual:
		return current != operand
	case Contains:
		return strings.Contains(current, operand)
	case StartsWith:
		return strings.HasPrefix(current, operand)
	case EndsWith:
		return strings.HasSuffix(current, operand)
	}
	logger.Warn("comparator not supported for string value",
		"path", leaf.Path(), "comparator", op.Comparator)
	return false
}

// compareEnum matches symbolic names flexibly. An empty operand is an
// authoring error, not a wildcard: it evaluates to false and is logged.
func compareEnum(leaf *vars.Leaf, op Operation, logger *slog.Logger) bool {
	if op.EnumValue == "" {
		logger.Warn("condition has empty enum operand",
			"path", leaf.Path(), "comparator", op.Comparator)
		return false
	}
	matched := vars.EnumNamesEqual(leaf.EnumName(), op.EnumValue)
	switch op.Comparator {
	case Equal:
		return matched
	case NotEqual:
		return !matched
	}
	logger.Warn("comparator not supported for enum value",
		"path", leaf.Path(), "comparator", op.Comparator)
	return false
}
