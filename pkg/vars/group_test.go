package vars

import (
	"errors"
	"testing"
)

func TestGroup_AddChildIdempotent(t *testing.T) {
	g := NewGroup("items")
	leaf := NewInt("gold", 0)

	g.AddChild(leaf)
	g.AddChild(leaf)

	if len(g.Children()) != 1 {
		t.Fatalf("Expected 1 child after double add, got %d", len(g.Children()))
	}
	if leaf.Parent() != g {
		t.Error("Expected parent link to be set by AddChild")
	}
}

func TestGroup_RemoveChild(t *testing.T) {
	g := NewGroup("items")
	leaf := NewInt("gold", 0)
	g.AddChild(leaf)

	if !g.RemoveChild(leaf) {
		t.Fatal("Expected RemoveChild to report removal")
	}
	if len(g.Children()) != 0 {
		t.Errorf("Expected empty child list, got %d", len(g.Children()))
	}
	if leaf.Parent() != nil {
		t.Error("Expected parent link cleared on remove")
	}
	if g.RemoveChild(leaf) {
		t.Error("Expected second RemoveChild to report false")
	}
}

func TestGroup_FindByPath(t *testing.T) {
	root := NewGroup("")
	quests := root.EnsureGroup("quests")
	quest := NewQuest("fetch_sword", "Fetch the Sword")
	quests.AddChild(quest)
	root.EnsureGroup("flags").AddChild(NewBool("met_blacksmith", true))

	tests := []struct {
		name string
		path string
		want Variable
	}{
		{"exact match", "quests/fetch_sword", quest},
		{"case insensitive segments", "Quests/Fetch_Sword", quest},
		{"leading and trailing slashes", "/quests/fetch_sword/", quest},
		{"missing segment", "quests/slay_dragon", nil},
		{"descends past leaf", "flags/met_blacksmith/nope", nil},
		{"empty path", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := root.FindByPath(tt.path); got != tt.want {
				t.Errorf("FindByPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestGroup_FindByPath_SiblingKeysDisambiguate(t *testing.T) {
	root := NewGroup("")
	a := root.EnsureGroup("zone_a")
	b := root.EnsureGroup("zone_b")
	gold := NewInt("gold", 1)
	silver := NewInt("gold", 2)
	a.AddChild(gold)
	b.AddChild(silver)

	if got := root.FindByPath("zone_a/gold"); got != gold {
		t.Errorf("Expected zone_a/gold to resolve to the zone_a leaf")
	}
	if got := root.FindByPath("zone_b/gold"); got != silver {
		t.Errorf("Expected zone_b/gold to resolve to the zone_b leaf")
	}
}

func TestGroup_EnsureGroupIdempotent(t *testing.T) {
	root := NewGroup("")

	first := root.EnsureGroup("quests", "side")
	second := root.EnsureGroup("quests", "side")

	if first != second {
		t.Error("Expected EnsureGroup to return the same group on repeat calls")
	}
	if len(root.Children()) != 1 {
		t.Errorf("Expected 1 top-level group, got %d", len(root.Children()))
	}
	if first.Path() != "quests/side" {
		t.Errorf("EnsureGroup path = %q, want %q", first.Path(), "quests/side")
	}
}

func TestGroup_RebuildParentLinks(t *testing.T) {
	root := NewGroup("")
	quests := root.EnsureGroup("quests")
	quest := NewQuest("fetch_sword", "Fetch the Sword")
	quest.AddObjective(NewObjective("find_it", "", 3))

	// Simulate a structural edit that bypasses AddChild.
	quests.children = append(quests.children, quest)

	if quest.Parent() != nil {
		t.Fatal("Precondition: direct list manipulation leaves parent unset")
	}

	root.RebuildParentLinks()

	if quest.Parent() != quests {
		t.Error("Expected rebuild to restore quest parent")
	}
	if got := quest.Objectives()[0].Path(); got != "quests/fetch_sword/find_it" {
		t.Errorf("Objective path after rebuild = %q", got)
	}
}

func TestCanMove_NoSelfAncestry(t *testing.T) {
	root := NewGroup("")
	outer := root.EnsureGroup("outer")
	inner := outer.EnsureGroup("inner")
	innermost := inner.EnsureGroup("innermost")
	sibling := root.EnsureGroup("sibling")

	tests := []struct {
		name    string
		dragged Variable
		target  *Group
		want    bool
	}{
		{"into own descendant", outer, innermost, false},
		{"into itself", outer, outer, false},
		{"into direct child", outer, inner, false},
		{"into sibling", outer, sibling, true},
		{"leaf-ward move up", innermost, root, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanMove(tt.dragged, tt.target); got != tt.want {
				t.Errorf("CanMove = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestMoveChild(t *testing.T) {
	root := NewGroup("")
	from := root.EnsureGroup("from")
	to := root.EnsureGroup("to")
	leaf := NewInt("gold", 5)
	from.AddChild(leaf)

	if err := MoveChild(leaf, to); err != nil {
		t.Fatalf("MoveChild failed: %v", err)
	}
	if len(from.Children()) != 0 {
		t.Error("Expected old parent to release the child")
	}
	if leaf.Parent() != to {
		t.Error("Expected new parent link after move")
	}
	if leaf.Path() != "to/gold" {
		t.Errorf("Path after move = %q, want %q", leaf.Path(), "to/gold")
	}
}

func TestMoveChild_RejectsCycle(t *testing.T) {
	root := NewGroup("")
	outer := root.EnsureGroup("outer")
	inner := outer.EnsureGroup("inner")

	err := MoveChild(outer, inner)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("Expected ErrCycle, got %v", err)
	}
	if outer.Parent() != root {
		t.Error("Expected tree unchanged after rejected move")
	}
	if inner.Parent() != outer {
		t.Error("Expected tree unchanged after rejected move")
	}
}
