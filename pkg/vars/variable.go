// Package vars implements the typed, hierarchical variable tree that backs
// branching dialogue and quest content: groups, typed leaves, quest/objective
// composites, stable-ID addressing and reference resolution.
package vars

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind identifies which member of the closed value set a tree node holds.
type Kind string

const (
	KindInt       Kind = "int"
	KindFloat     Kind = "float"
	KindBool      Kind = "bool"
	KindString    Kind = "string"
	KindEnum      Kind = "enum"
	KindGroup     Kind = "group"
	KindQuest     Kind = "quest"
	KindObjective Kind = "objective"
)

// Variable is any addressable node in the state tree. IDs are globally
// unique and stable for the lifetime of a document; keys are unique among
// siblings and form the segments of the human-readable path address.
type Variable interface {
	// ID returns the stable identifier, generating it on first access.
	// Once generated it never changes.
	ID() string
	// Key is the parent-relative path segment.
	Key() string
	SetKey(key string)
	// DisplayName is the human label, falling back to a title-cased key.
	DisplayName() string
	SetDisplayName(name string)
	// Kind reports the node's value kind, fixed at construction.
	Kind() Kind
	// Parent is a back-reference to the containing node. It is not an
	// ownership link; ownership lives in the container's child list.
	Parent() Variable
	// Children returns the ordered direct children. Leaves return nil.
	Children() []Variable
	// Path is the slash-joined key sequence from root to self, skipping
	// nodes with empty keys.
	Path() string

	setParent(p Variable)
}

var titleCaser = cases.Title(language.English)

// node carries the identity fields shared by every tree node.
type node struct {
	id          string
	key         string
	displayName string
	parent      Variable
}

func (n *node) ID() string {
	if n.id == "" {
		n.id = uuid.NewString()
	}
	return n.id
}

func (n *node) Key() string { return n.key }

func (n *node) SetKey(key string) { n.key = key }

func (n *node) DisplayName() string {
	if n.displayName != "" {
		return n.displayName
	}
	return titleCaser.String(strings.ReplaceAll(n.key, "_", " "))
}

func (n *node) SetDisplayName(name string) { n.displayName = name }

func (n *node) Parent() Variable { return n.parent }

func (n *node) setParent(p Variable) { n.parent = p }

func (n *node) Path() string {
	if n.parent == nil {
		return n.key
	}
	parentPath := n.parent.Path()
	if n.key == "" {
		return parentPath
	}
	if parentPath == "" {
		return n.key
	}
	return parentPath + "/" + n.key
}

// FindByID searches root and its entire subtree for the node with the given
// ID, pre-order. Returns nil if no node matches.
func FindByID(root Variable, id string) Variable {
	if root == nil || id == "" {
		return nil
	}
	if root.ID() == id {
		return root
	}
	for _, child := range root.Children() {
		if found := FindByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits root and every descendant pre-order, self before children.
func Walk(root Variable, visit func(v Variable)) {
	if root == nil {
		return
	}
	visit(root)
	for _, child := range root.Children() {
		Walk(child, visit)
	}
}
