package vars

import "fmt"

// DuplicateIDError reports two nodes sharing one stable ID, which makes
// ID-based references ambiguous.
type DuplicateIDError struct {
	ID    string
	PathA string
	PathB string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate variable ID %q at %q and %q", e.ID, e.PathA, e.PathB)
}

// DuplicateKeyError reports two siblings sharing one key (case-insensitive),
// which makes path resolution ambiguous.
type DuplicateKeyError struct {
	Parent string
	Key    string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate sibling key %q under %q", e.Key, e.Parent)
}
