package vars

import "testing"

func buildRefTree() (*Group, *Quest) {
	root := NewGroup("")
	quests := root.EnsureGroup("quests")
	quest := NewQuest("fetch_sword", "Fetch the Sword")
	quests.AddChild(quest)
	return root, quest
}

func TestRef_ResolveByID(t *testing.T) {
	root, quest := buildRefTree()

	ref := RefTo(quest)
	resolved, stage := ref.Resolve(root)
	if resolved != quest {
		t.Fatalf("Resolve returned %v, want the quest", resolved)
	}
	if stage != ResolvedByID {
		t.Errorf("Resolve stage = %v, want ResolvedByID", stage)
	}
}

func TestRef_StaleIDFallsBackToPath(t *testing.T) {
	root, quest := buildRefTree()

	ref := Ref{ID: "stale-guid", Path: "quests/fetch_sword"}
	resolved, stage := ref.Resolve(root)
	if resolved != quest {
		t.Fatalf("Resolve returned %v, want the quest via path fallback", resolved)
	}
	if stage != ResolvedByPath {
		t.Errorf("Resolve stage = %v, want ResolvedByPath", stage)
	}
}

func TestRef_IDSurvivesRename(t *testing.T) {
	root, quest := buildRefTree()
	ref := Ref{ID: quest.ID(), Path: "quests/fetch_sword"}

	quest.SetKey("retrieve_sword")

	resolved, stage := ref.Resolve(root)
	if resolved != quest {
		t.Fatal("Expected ID address to survive a rename")
	}
	if stage != ResolvedByID {
		t.Errorf("Resolve stage = %v, want ResolvedByID", stage)
	}
}

func TestRef_ResolveFailed(t *testing.T) {
	root, _ := buildRefTree()

	tests := []struct {
		name string
		ref  Ref
	}{
		{"both addresses stale", Ref{ID: "stale", Path: "no/such/path"}},
		{"empty reference", Ref{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, stage := tt.ref.Resolve(root)
			if resolved != nil || stage != ResolveFailed {
				t.Errorf("Resolve = (%v, %v), want (nil, ResolveFailed)", resolved, stage)
			}
		})
	}
}

func TestRef_IsValid(t *testing.T) {
	if (Ref{}).IsValid() {
		t.Error("Empty ref must be invalid")
	}
	if !(Ref{ID: "x"}).IsValid() {
		t.Error("ID-only ref must be valid")
	}
	if !(Ref{Path: "a/b"}).IsValid() {
		t.Error("Path-only ref must be valid")
	}
}
