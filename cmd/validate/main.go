package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lmarchant/dialogue-state/pkg/actions"
	"github.com/lmarchant/dialogue-state/pkg/conditions"
	"github.com/lmarchant/dialogue-state/pkg/rules"
	"github.com/lmarchant/dialogue-state/pkg/vars"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <project.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &ProjectValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Project file is valid!")
}

// ProjectValidator checks a project file for the invariants the runtime
// relies on: unique IDs, unique sibling keys, resolvable references and
// parseable enum operands.
type ProjectValidator struct {
	errors []string
}

func (v *ProjectValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	if !strings.HasSuffix(filename, ".json") {
		return fmt.Errorf("project file must have .json extension: %s", filename)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var p rules.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("file %s failed JSON unmarshaling: %w", filename, err)
	}

	v.validateProject(&p)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}

	return nil
}

func (v *ProjectValidator) addError(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf("  - "+format, args...))
}

func (v *ProjectValidator) validateProject(p *rules.Project) {
	if p.Document == nil {
		v.addError("project has no document")
		return
	}

	for _, err := range p.Document.Validate() {
		v.addError("%v", err)
	}

	root := p.Document.Root
	for i, rule := range p.Rules {
		label := rule.Name
		if label == "" {
			label = fmt.Sprintf("rule %d", i)
		}
		for j, op := range rule.When {
			v.validateOperation(root, op, fmt.Sprintf("%s when[%d]", label, j))
		}
		for j, a := range rule.Then {
			v.validateAction(root, a, fmt.Sprintf("%s then[%d]", label, j))
		}
	}
}

func (v *ProjectValidator) validateOperation(root *vars.Group, op conditions.Operation, where string) {
	if !op.Ref.IsValid() {
		v.addError("%s: reference is empty", where)
		return
	}
	resolved, _ := op.Ref.Resolve(root)
	if resolved == nil {
		v.addError("%s: reference does not resolve (id=%q path=%q)", where, op.Ref.ID, op.Ref.Path)
		return
	}
	leaf, ok := resolved.(*vars.Leaf)
	if !ok {
		v.addError("%s: target %q has no scalar value", where, resolved.Path())
		return
	}
	if leaf.Kind() == vars.KindEnum {
		if op.EnumValue == "" {
			v.addError("%s: enum operand is empty", where)
		} else if !leaf.Enum().Contains(op.EnumValue) {
			v.addError("%s: enum operand %q is not a declared name", where, op.EnumValue)
		}
	}
}

func (v *ProjectValidator) validateAction(root *vars.Group, a actions.Action, where string) {
	if !a.Ref.IsValid() {
		v.addError("%s: reference is empty", where)
		return
	}
	resolved, _ := a.Ref.Resolve(root)
	if resolved == nil {
		v.addError("%s: reference does not resolve (id=%q path=%q)", where, a.Ref.ID, a.Ref.Path)
		return
	}

	switch a.Kind {
	case actions.SetEnum:
		leaf, ok := resolved.(*vars.Leaf)
		if !ok || leaf.Kind() != vars.KindEnum {
			v.addError("%s: target %q is not an enum leaf", where, resolved.Path())
			return
		}
		if !leaf.Enum().Contains(a.EnumValue) {
			v.addError("%s: enum operand %q is not a declared name", where, a.EnumValue)
		}

	case actions.SetQuestStatus:
		if _, ok := vars.ParseQuestStatus(a.Status); !ok {
			v.addError("%s: status operand %q is not a quest status", where, a.Status)
		}

	case actions.SetObjectiveProgress, actions.ModifyObjectiveProgress:
		quest, ok := resolved.(*vars.Quest)
		if !ok {
			v.addError("%s: target %q is not a quest", where, resolved.Path())
			return
		}
		if a.ObjectiveIndex < 0 || a.ObjectiveIndex >= len(quest.Objectives()) {
			v.addError("%s: objective index %d out of range (quest has %d objectives)",
				where, a.ObjectiveIndex, len(quest.Objectives()))
		}
		if a.Kind == actions.ModifyObjectiveProgress && a.Op == actions.Divide && a.Amount == 0 {
			v.addError("%s: division by zero", where)
		}
	}
}
