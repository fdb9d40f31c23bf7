package vars

import (
	"testing"
)

func TestVariable_IDStability(t *testing.T) {
	leaf := NewInt("gold", 10)

	first := leaf.ID()
	if first == "" {
		t.Fatal("Expected lazily generated ID to be non-empty")
	}

	for i := 0; i < 5; i++ {
		if got := leaf.ID(); got != first {
			t.Fatalf("ID changed on repeated access: %q != %q", got, first)
		}
	}
}

func TestVariable_Path(t *testing.T) {
	root := NewGroup("")
	quests := root.EnsureGroup("quests")
	quest := NewQuest("fetch_sword", "Fetch the Sword")
	quests.AddChild(quest)
	objective := NewObjective("find_it", "Find the sword", 3)
	quest.AddObjective(objective)

	tests := []struct {
		name string
		v    Variable
		want string
	}{
		{"root with empty key", root, ""},
		{"first level group", quests, "quests"},
		{"nested quest", quest, "quests/fetch_sword"},
		{"objective under quest", objective, "quests/fetch_sword/find_it"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVariable_DisplayNameFallback(t *testing.T) {
	leaf := NewBool("met_blacksmith", false)
	if got := leaf.DisplayName(); got != "Met Blacksmith" {
		t.Errorf("DisplayName() = %q, want %q", got, "Met Blacksmith")
	}

	leaf.SetDisplayName("The Blacksmith")
	if got := leaf.DisplayName(); got != "The Blacksmith" {
		t.Errorf("DisplayName() = %q, want explicit name to win", got)
	}
}

func TestWalk_PreOrder(t *testing.T) {
	root := NewGroup("")
	a := NewGroup("a")
	b := NewGroup("b")
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(NewInt("x", 1))

	var visited []string
	Walk(root, func(v Variable) {
		visited = append(visited, v.Key())
	})

	want := []string{"", "a", "x", "b"}
	if len(visited) != len(want) {
		t.Fatalf("Walk visited %d nodes, want %d", len(visited), len(want))
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("Walk order[%d] = %q, want %q", i, visited[i], want[i])
		}
	}
}

func TestFindByID(t *testing.T) {
	root := NewGroup("")
	quests := root.EnsureGroup("quests")
	quest := NewQuest("fetch_sword", "Fetch the Sword")
	quests.AddChild(quest)

	if got := root.FindByID(quest.ID()); got != quest {
		t.Errorf("FindByID returned %v, want the quest node", got)
	}
	if got := root.FindByID("no-such-id"); got != nil {
		t.Errorf("FindByID for unknown ID = %v, want nil", got)
	}
}
