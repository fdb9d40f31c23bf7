package vars

import "strings"

// EnumType declares a closed set of symbolic names for enum leaves.
// Matching against authored names is flexible: exact case-insensitive first,
// then normalized ignoring whitespace, underscores and hyphens, so
// "ReadyToTurnIn", "ready_to_turn_in" and "ready-to-turn-in" are equivalent.
type EnumType struct {
	Name  string   `json:"name"`
	Names []string `json:"names"`
}

// Parse resolves an authored name to its canonical declared form.
// An empty input never parses; callers treat that as an authoring error.
func (t *EnumType) Parse(s string) (string, bool) {
	if t == nil || s == "" {
		return "", false
	}
	for _, name := range t.Names {
		if strings.EqualFold(name, s) {
			return name, true
		}
	}
	norm := normalizeEnumName(s)
	for _, name := range t.Names {
		if normalizeEnumName(name) == norm {
			return name, true
		}
	}
	return "", false
}

// Contains reports whether s matches any declared name under flexible matching.
func (t *EnumType) Contains(s string) bool {
	_, ok := t.Parse(s)
	return ok
}

// EnumNamesEqual compares two symbolic names under flexible matching.
func EnumNamesEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return normalizeEnumName(a) == normalizeEnumName(b)
}

// normalizeEnumName lowercases and strips whitespace, underscores and hyphens.
func normalizeEnumName(s string) string {
	var out strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '\t', '_', '-':
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r = r + ('a' - 'A')
		}
		out.WriteRune(r)
	}
	return out.String()
}

// QuestStatus is the lifecycle state of a quest.
type QuestStatus string

const (
	QuestNotStarted    QuestStatus = "NotStarted"
	QuestInProgress    QuestStatus = "InProgress"
	QuestCompleted     QuestStatus = "Completed"
	QuestReadyToTurnIn QuestStatus = "ReadyToTurnIn"
)

// QuestStatusType is the built-in enum type used by quest status leaves.
var QuestStatusType = &EnumType{
	Name: "QuestStatus",
	Names: []string{
		string(QuestNotStarted),
		string(QuestInProgress),
		string(QuestCompleted),
		string(QuestReadyToTurnIn),
	},
}

// ParseQuestStatus resolves an authored status name under flexible matching.
func ParseQuestStatus(s string) (QuestStatus, bool) {
	name, ok := QuestStatusType.Parse(s)
	if !ok {
		return "", false
	}
	return QuestStatus(name), true
}
