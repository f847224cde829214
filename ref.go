package mqsprite

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
)

// AssetKind tags an AssetRef with the entity kind it identifies.
type AssetKind uint8

const (
	KindPart AssetKind = iota
	KindComposite
	KindFolder
)

// String returns the lowercase kind name.
func (k AssetKind) String() string {
	switch k {
	case KindPart:
		return "part"
	case KindComposite:
		return "composite"
	case KindFolder:
		return "folder"
	}
	return "unknown"
}

// AssetRef is an opaque typed identifier for one Folder, Part or
// Composite. It is the only way entities reference one another — no
// entity holds a pointer to another entity.
//
// The zero value is the null ref (no identity). Use Equal for semantic
// comparison: Go's == also compares the kind tag of null refs, which
// Equal deliberately ignores.
type AssetRef struct {
	UUID uuid.UUID
	Kind AssetKind
}

// IsNull reports whether the ref carries no identity.
func (r AssetRef) IsNull() bool {
	return r.UUID == uuid.Nil
}

// Equal reports whether two refs identify the same entity: both null,
// or same identity and same kind. A part ref and a composite ref with
// the same UUID are not equal.
func (r AssetRef) Equal(other AssetRef) bool {
	if r.IsNull() && other.IsNull() {
		return true
	}
	return r.UUID == other.UUID && r.Kind == other.Kind
}

// Less orders refs by identity bytes only, ignoring the kind tag. Used
// for deterministic container ordering, not semantic comparison.
func (r AssetRef) Less(other AssetRef) bool {
	return bytes.Compare(r.UUID[:], other.UUID[:]) < 0
}

// String returns the braced text form ("{xxxxxxxx-xxxx-...}") that the
// archive documents use for entity keys and cross-references.
func (r AssetRef) String() string {
	return "{" + r.UUID.String() + "}"
}

// parseRef parses a UUID string (braced or bare) into a ref of the
// given kind.
func parseRef(s string, kind AssetKind) (AssetRef, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return AssetRef{}, fmt.Errorf("invalid asset id %q: %w", s, ErrInvalidDocument)
	}
	return AssetRef{UUID: id, Kind: kind}, nil
}
