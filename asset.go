package mqsprite

// Point is an integer pixel coordinate. Anchors and pivots are points
// in a frame's own coordinate space (origin top-left, Y down).
type Point struct {
	X, Y int
}

// MaxPivots is the number of pivot slots every frame carries. A mode
// declares how many of them are in use (NumPivots); the remaining
// slots stay at (0,0).
const MaxPivots = 4

// NoParent is the sentinel index for "no parent": a composite with no
// root child, or a child at the root of its composite's tree.
const NoParent = -1

// AssetHeader carries the identity fields shared by every asset kind.
// Embed it; the fields promote onto the concrete type.
type AssetHeader struct {
	Ref    AssetRef // identity; Kind always matches the owning collection
	Name   string
	Parent AssetRef // owning folder, or null for top-level assets
}

// Header returns the shared identity fields. It is the single
// capability the Asset interface requires.
func (h *AssetHeader) Header() *AssetHeader { return h }

// Asset is the capability shared by *Folder, *Part and *Composite:
// identity, name and parent folder. Model.Asset resolves any ref to
// this interface regardless of kind.
type Asset interface {
	Header() *AssetHeader
}

// Folder is a pure grouping node. Membership is implicit: an asset
// belongs to a folder when its Parent ref resolves to it. Folders keep
// no child list of their own.
type Folder struct {
	AssetHeader
}

// Part is a sprite with one or more named animation modes.
type Part struct {
	AssetHeader

	// Properties is a free-form string the editor attaches to the part.
	Properties string

	// Modes maps mode name to animation data. Mode names are unique
	// per part.
	Modes map[string]*Mode
}

// NewPart returns an empty part with an initialized mode table.
func NewPart() *Part {
	return &Part{Modes: make(map[string]*Mode)}
}

// Mode is one named animation clip of a Part: a fixed frame size, a
// pivot count, a playback rate and an ordered frame sequence.
type Mode struct {
	Width, Height   int // pixel dimensions of every frame, both > 0
	NumPivots       int // pivot slots in use, 0..MaxPivots
	FramesPerSecond int

	// Frames holds the clip in sequence order. Its length is the
	// mode's frame count; every frame's raster matches Width×Height.
	Frames []Frame
}

// Frame is one image of a mode: an anchor point, the decoded raster
// and the pivot points.
type Frame struct {
	Anchor Point

	// Raster is the decoded frame image. Ownership is shared — the
	// load-time registry and any number of frames may reference the
	// same raster.
	Raster *Raster

	// Pivots holds all pivot slots; slots at index >= the mode's
	// NumPivots are (0,0).
	Pivots [MaxPivots]Point
}

// Composite is a hierarchical arrangement of part instances forming a
// rigged object.
type Composite struct {
	AssetHeader

	Properties string

	// Root is the index of the root child within ChildNames, or
	// NoParent for an empty composite.
	Root int

	// ChildNames lists child names in serialization/iteration order.
	// A child's position in this list is its index.
	ChildNames []string

	// Children maps child name to the child record.
	Children map[string]*Child
}

// NewComposite returns an empty composite with an initialized child
// table and no root.
func NewComposite() *Composite {
	return &Composite{Root: NoParent, Children: make(map[string]*Child)}
}

// Child is one part instantiation inside a composite.
type Child struct {
	Parent      int      // index of the parent child, or NoParent at the root
	ParentPivot int      // pivot slot on the parent this child attaches to
	Z           int      // draw order
	Part        AssetRef // the part this child instantiates
	Children    []int    // indices of this child's own children
	Index       int      // this child's position in the composite's ChildNames
}
