package vars

import (
	"errors"
	"strings"
)

// ErrCycle is returned when a structural edit would make a group a
// descendant of itself. This indicates a tooling bug in the caller, so it
// surfaces as an error rather than a logged no-op.
var ErrCycle = errors.New("vars: move would make group a descendant of itself")

// Group is an ordered container of child variables. Order is significant:
// it drives display and index-based references (e.g. objective indices).
type Group struct {
	node
	children []Variable
}

// NewGroup creates an empty group.
func NewGroup(key string) *Group {
	return &Group{node: node{key: key}}
}

func (g *Group) Kind() Kind { return KindGroup }

func (g *Group) Children() []Variable { return g.children }

// AddChild appends v to the child list and takes ownership of its parent
// link. Adding a child that is already present is a no-op.
func (g *Group) AddChild(v Variable) {
	if v == nil {
		return
	}
	for _, child := range g.children {
		if child == v {
			return
		}
	}
	g.children = append(g.children, v)
	v.setParent(g)
}

// RemoveChild removes v from the direct child list and clears its parent
// link. Returns false if v was not a direct child.
func (g *Group) RemoveChild(v Variable) bool {
	for i, child := range g.children {
		if child == v {
			g.children = append(g.children[:i], g.children[i+1:]...)
			v.setParent(nil)
			return true
		}
	}
	return false
}

// CanMove reports whether v may be moved into target. A move is rejected
// when target is v itself or any descendant of v.
func CanMove(v Variable, target *Group) bool {
	if v == nil || target == nil {
		return false
	}
	var t Variable = target
	for t != nil {
		if t == v {
			return false
		}
		t = t.Parent()
	}
	return true
}

// MoveChild detaches v from its current parent group and appends it to
// target, atomically with respect to parent links. Returns ErrCycle when
// the move would create self-ancestry.
func MoveChild(v Variable, target *Group) error {
	if !CanMove(v, target) {
		return ErrCycle
	}
	if parent, ok := v.Parent().(*Group); ok {
		parent.RemoveChild(v)
	}
	target.AddChild(v)
	return nil
}

// FindByPath descends the tree one case-insensitive key segment at a time,
// starting from g's children. It returns nil the moment a segment fails to
// match; there is no backtracking and no wildcard support.
func (g *Group) FindByPath(path string) Variable {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil
	}
	var current Variable = g
	for _, segment := range segments {
		var next Variable
		for _, child := range current.Children() {
			if strings.EqualFold(child.Key(), segment) {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// EnsureGroup descends the given path segments from g, creating any missing
// group along the way, and returns the final group. Idempotent: calling it
// again with the same path returns the same group.
func (g *Group) EnsureGroup(segments ...string) *Group {
	current := g
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		var next *Group
		for _, child := range current.children {
			if sub, ok := child.(*Group); ok && strings.EqualFold(sub.Key(), segment) {
				next = sub
				break
			}
		}
		if next == nil {
			next = NewGroup(segment)
			current.AddChild(next)
		}
		current = next
	}
	return current
}

// RebuildParentLinks reassigns every descendant's parent pointer from the
// authoritative child lists. Must be called after any structural change
// that bypasses AddChild/RemoveChild, e.g. deserialization or bulk edits.
func (g *Group) RebuildParentLinks() {
	rebuildParents(g, g.parent)
}

func rebuildParents(v Variable, parent Variable) {
	v.setParent(parent)
	for _, child := range v.Children() {
		rebuildParents(child, v)
	}
}

// FindByID searches g and its subtree for a node with the given ID.
func (g *Group) FindByID(id string) Variable {
	return FindByID(g, id)
}

func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
