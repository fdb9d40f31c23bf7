// Package actions implements the mutation side of the evaluation engine:
// type-dispatched writes to a variable tree, including arithmetic on quest
// objective progress. Apply never panics across its boundary — every
// failure degrades to a no-op plus a warning diagnostic.
package actions

import (
	"log/slog"

	"github.com/lmarchant/dialogue-state/pkg/vars"
)

// Kind selects which mutation an action performs.
type Kind string

const (
	SetInt                  Kind = "set_int"
	IncInt                  Kind = "inc_int"
	SetBool                 Kind = "set_bool"
	ToggleBool              Kind = "toggle_bool"
	SetString               Kind = "set_string"
	SetEnum                 Kind = "set_enum"
	SetQuestStatus          Kind = "set_quest_status"
	SetObjectiveProgress    Kind = "set_objective_progress"
	ModifyObjectiveProgress Kind = "modify_objective_progress"
)

// ArithmeticOp is the operator used by ModifyObjectiveProgress.
type ArithmeticOp string

const (
	Add      ArithmeticOp = "add"
	Subtract ArithmeticOp = "subtract"
	Multiply ArithmeticOp = "multiply"
	Divide   ArithmeticOp = "divide"
)

// Action is a single authored consequence. Only the fields relevant to its
// Kind are consulted.
type Action struct {
	Kind Kind     `json:"kind"`
	Ref  vars.Ref `json:"ref"`

	IntValue    int    `json:"int_value,omitempty"`
	BoolValue   bool   `json:"bool_value,omitempty"`
	StringValue string `json:"string_value,omitempty"`
	EnumValue   string `json:"enum_value,omitempty"`
	Status      string `json:"status,omitempty"`

	ObjectiveIndex int          `json:"objective_index,omitempty"`
	Amount         int          `json:"amount,omitempty"`
	Op             ArithmeticOp `json:"op,omitempty"`
	ClampToTarget  bool         `json:"clamp_to_target,omitempty"`
}

// Apply resolves the action's reference against root and performs the
// mutation for its kind. Side effects are confined to the resolved
// variable's value and, for objective-progress kinds, the parent quest's
// status; no other state is touched.
func Apply(root *vars.Group, a Action, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	switch a.Kind {
	case SetInt, IncInt:
		applyInt(root, a, logger)
	case SetBool, ToggleBool:
		applyBool(root, a, logger)
	case SetString:
		applyString(root, a, logger)
	case SetEnum:
		applyEnum(root, a, logger)
	case SetQuestStatus:
		applyQuestStatus(root, a, logger)
	case SetObjectiveProgress, ModifyObjectiveProgress:
		applyObjectiveProgress(root, a, logger)
	default:
		logger.Warn("unknown action kind", "kind", a.Kind, "id", a.Ref.ID, "path", a.Ref.Path)
	}
}

// ApplyAll applies actions in order. Each action resolves independently, so
// one bad reference skips only its own mutation.
func ApplyAll(root *vars.Group, acts []Action, logger *slog.Logger) {
	for _, a := range acts {
		Apply(root, a, logger)
	}
}

// resolveLeaf resolves the reference and requires the given leaf kind.
func resolveLeaf(root *vars.Group, a Action, kind vars.Kind, logger *slog.Logger) *vars.Leaf {
	resolved, _ := a.Ref.Resolve(root)
	if resolved == nil {
		logger.Warn("action reference did not resolve",
			"kind", a.Kind, "id", a.Ref.ID, "path", a.Ref.Path)
		return nil
	}
	leaf, ok := resolved.(*vars.Leaf)
	if !ok || leaf.Kind() != kind {
		logger.Warn("action target has wrong type",
			"kind", a.Kind, "path", resolved.Path(), "got", resolved.Kind(), "want", kind)
		return nil
	}
	return leaf
}

func applyInt(root *vars.Group, a Action, logger *slog.Logger) {
	leaf := resolveLeaf(root, a, vars.KindInt, logger)
	if leaf == nil {
		return
	}
	if a.Kind == IncInt {
		leaf.SetInt(leaf.Int() + a.IntValue)
		return
	}
	leaf.SetInt(a.IntValue)
}

func applyBool(root *vars.Group, a Action, logger *slog.Logger) {
	leaf := resolveLeaf(root, a, vars.KindBool, logger)
	if leaf == nil {
		return
	}
	if a.Kind == ToggleBool {
		leaf.SetBool(!leaf.Bool())
		return
	}
	leaf.SetBool(a.BoolValue)
}

func applyString(root *vars.Group, a Action, logger *slog.Logger) {
	leaf := resolveLeaf(root, a, vars.KindString, logger)
	if leaf == nil {
		return
	}
	leaf.SetStr(a.StringValue)
}

func applyEnum(root *vars.Group, a Action, logger *slog.Logger) {
	leaf := resolveLeaf(root, a, vars.KindEnum, logger)
	if leaf == nil {
		return
	}
	if err := leaf.SetEnumName(a.EnumValue); err != nil {
		logger.Warn("action enum operand did not parse",
			"kind", a.Kind, "path", leaf.Path(), "operand", a.EnumValue)
	}
}

// applyQuestStatus prefers a quest composite but tolerates a bare status
// enum leaf, for resilience against stale or mistyped references. When the
// primary resolution lands on the wrong type, one secondary attempt
// re-resolves by path before giving up.
func applyQuestStatus(root *vars.Group, a Action, logger *slog.Logger) {
	status, ok := vars.ParseQuestStatus(a.Status)
	if !ok {
		logger.Warn("action status operand did not parse",
			"kind", a.Kind, "operand", a.Status, "id", a.Ref.ID, "path", a.Ref.Path)
		return
	}

	resolved, stage := a.Ref.Resolve(root)
	if target := questStatusTarget(resolved); target != nil {
		target(status)
		return
	}
	if resolved != nil && stage == vars.ResolvedByID && a.Ref.Path != "" {
		fallback := vars.Ref{Path: a.Ref.Path}
		secondary, _ := fallback.Resolve(root)
		if target := questStatusTarget(secondary); target != nil {
			logger.Warn("quest status reference recovered via path fallback",
				"kind", a.Kind, "id", a.Ref.ID, "path", a.Ref.Path)
			target(status)
			return
		}
	}

	logger.Warn("action target is not a quest or status leaf",
		"kind", a.Kind, "id", a.Ref.ID, "path", a.Ref.Path)
}

// questStatusTarget returns a setter when v can receive a quest status:
// a quest composite or an enum leaf of the QuestStatus type.
func questStatusTarget(v vars.Variable) func(vars.QuestStatus) {
	switch t := v.(type) {
	case *vars.Quest:
		return t.SetStatus
	case *vars.Leaf:
		if t.Kind() == vars.KindEnum && t.Enum() == vars.QuestStatusType {
			return func(s vars.QuestStatus) { _ = t.SetEnumName(string(s)) }
		}
	}
	return nil
}

func applyObjectiveProgress(root *vars.Group, a Action, logger *slog.Logger) {
	resolved, _ := a.Ref.Resolve(root)
	if resolved == nil {
		logger.Warn("action reference did not resolve",
			"kind", a.Kind, "id", a.Ref.ID, "path", a.Ref.Path)
		return
	}
	quest, ok := resolved.(*vars.Quest)
	if !ok {
		logger.Warn("action target is not a quest",
			"kind", a.Kind, "path", resolved.Path(), "got", resolved.Kind())
		return
	}

	objectives := quest.Objectives()
	if a.ObjectiveIndex < 0 || a.ObjectiveIndex >= len(objectives) {
		logger.Warn("objective index out of range",
			"kind", a.Kind, "path", quest.Path(), "index", a.ObjectiveIndex, "count", len(objectives))
		return
	}
	objective := objectives[a.ObjectiveIndex]

	switch a.Kind {
	case SetObjectiveProgress:
		objective.SetProgress(a.IntValue)
	case ModifyObjectiveProgress:
		if a.Op == Divide && a.Amount == 0 {
			logger.Warn("objective progress division by zero skipped",
				"path", quest.Path(), "index", a.ObjectiveIndex)
			return
		}
		result, ok := applyArithmetic(objective.Progress(), a.Amount, a.Op)
		if !ok {
			logger.Warn("unknown arithmetic operator",
				"path", quest.Path(), "index", a.ObjectiveIndex, "op", a.Op)
			return
		}
		if a.ClampToTarget {
			result = clamp(result, 0, max(0, objective.Target()))
		}
		objective.SetProgress(result)
	}

	checkQuestCompletion(quest, logger)
}

// applyArithmetic combines current progress with the operand. Division by
// zero is guarded by the caller before this is reached. An empty operator
// means Add, for compatibility with older authored content.
func applyArithmetic(current, amount int, op ArithmeticOp) (int, bool) {
	switch op {
	case Add, "":
		return current + amount, true
	case Subtract:
		return current - amount, true
	case Multiply:
		return current * amount, true
	case Divide:
		return current / amount, true
	}
	return current, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// checkQuestCompletion transitions a quest to ReadyToTurnIn once every
// objective has reached its target. Completed is reserved for the explicit
// hand-in, so an already-completed quest is left alone.
func checkQuestCompletion(quest *vars.Quest, logger *slog.Logger) {
	if !quest.AllObjectivesComplete() {
		return
	}
	if quest.Status() == vars.QuestCompleted || quest.Status() == vars.QuestReadyToTurnIn {
		return
	}
	quest.SetStatus(vars.QuestReadyToTurnIn)
	logger.Info("quest objectives complete", "path", quest.Path(), "status", quest.Status())
}
