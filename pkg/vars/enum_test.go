package vars

import "testing"

func TestEnumType_Parse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"exact", "ReadyToTurnIn", "ReadyToTurnIn", true},
		{"case insensitive", "readytoturnin", "ReadyToTurnIn", true},
		{"snake case", "ready_to_turn_in", "ReadyToTurnIn", true},
		{"kebab case", "ready-to-turn-in", "ReadyToTurnIn", true},
		{"spaces", "Ready To Turn In", "ReadyToTurnIn", true},
		{"not started snake", "not_started", "NotStarted", true},
		{"unknown name", "Abandoned", "", false},
		{"empty is an authoring error", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := QuestStatusType.Parse(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Parse(%q) = (%q, %t), want (%q, %t)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEnumNamesEqual(t *testing.T) {
	if !EnumNamesEqual("ReadyToTurnIn", "ready_to_turn_in") {
		t.Error("Expected flexible equality across naming conventions")
	}
	if EnumNamesEqual("NotStarted", "InProgress") {
		t.Error("Expected distinct names to compare unequal")
	}
	if EnumNamesEqual("", "NotStarted") {
		t.Error("Expected empty name to never match")
	}
}

func TestLeaf_SetEnumName(t *testing.T) {
	leaf := NewEnum("status", QuestStatusType, "NotStarted")

	if err := leaf.SetEnumName("in_progress"); err != nil {
		t.Fatalf("SetEnumName failed: %v", err)
	}
	if leaf.EnumName() != "InProgress" {
		t.Errorf("Expected canonical name, got %q", leaf.EnumName())
	}

	if err := leaf.SetEnumName("NoSuchState"); err == nil {
		t.Error("Expected error for undeclared name")
	}
	if leaf.EnumName() != "InProgress" {
		t.Errorf("Expected value unchanged after failed parse, got %q", leaf.EnumName())
	}
}
