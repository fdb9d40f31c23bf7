package vars

// Ref is a durable address for one variable: a stable ID plus an optional
// human-readable slash path fallback. The ID survives renames and moves;
// the path survives ID drift (asset merges, authoring bugs) but breaks on
// rename or move.
type Ref struct {
	ID   string `json:"id,omitempty"`
	Path string `json:"path,omitempty"`
}

// RefTo builds a reference to v, snapshotting both its ID and current path.
func RefTo(v Variable) Ref {
	if v == nil {
		return Ref{}
	}
	return Ref{ID: v.ID(), Path: v.Path()}
}

// IsValid reports whether the reference carries at least one address.
func (r Ref) IsValid() bool {
	return r.ID != "" || r.Path != ""
}

// ResolveStage reports which addressing mechanism satisfied a resolution.
type ResolveStage int

const (
	ResolveFailed ResolveStage = iota
	ResolvedByID
	ResolvedByPath
)

func (s ResolveStage) String() string {
	switch s {
	case ResolvedByID:
		return "id"
	case ResolvedByPath:
		return "path"
	}
	return "failed"
}

// Resolve looks the reference up against root: tree-wide ID search first,
// then path descent. It never panics; a miss returns (nil, ResolveFailed).
func (r Ref) Resolve(root *Group) (Variable, ResolveStage) {
	if root == nil {
		return nil, ResolveFailed
	}
	if r.ID != "" {
		if found := root.FindByID(r.ID); found != nil {
			return found, ResolvedByID
		}
	}
	if r.Path != "" {
		if found := root.FindByPath(r.Path); found != nil {
			return found, ResolvedByPath
		}
	}
	return nil, ResolveFailed
}
