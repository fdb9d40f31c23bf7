package vars

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is one persisted variable tree: the unit of storage and of the
// HTTP API. The root group has an empty key so it contributes no path
// segment.
type Document struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name,omitempty"`
	Root      *Group    `json:"root"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewDocument creates an empty document with a fresh ID and root group.
func NewDocument(name string) *Document {
	return &Document{
		ID:        uuid.New(),
		Name:      name,
		Root:      NewGroup(""),
		CreatedAt: time.Now(),
	}
}

// UnmarshalJSON decodes the document and restores the parent-link invariant,
// which deserialization necessarily bypasses.
func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	var aux alias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*d = Document(aux)
	if d.Root != nil {
		d.Root.RebuildParentLinks()
	}
	return nil
}

// Validate checks the document's structural invariants: IDs unique across
// the whole tree and keys unique among siblings. Violations are returned as
// a list so authoring tools can report them all at once.
func (d *Document) Validate() []error {
	var errs []error
	if d.Root == nil {
		return errs
	}
	seenIDs := make(map[string]string)
	Walk(d.Root, func(v Variable) {
		if prev, dup := seenIDs[v.ID()]; dup {
			errs = append(errs, &DuplicateIDError{ID: v.ID(), PathA: prev, PathB: v.Path()})
		} else {
			seenIDs[v.ID()] = v.Path()
		}
		seenKeys := make(map[string]bool)
		for _, child := range v.Children() {
			k := strings.ToLower(child.Key())
			if seenKeys[k] {
				errs = append(errs, &DuplicateKeyError{Parent: v.Path(), Key: child.Key()})
			}
			seenKeys[k] = true
		}
	})
	return errs
}
