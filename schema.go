package mqsprite

import (
	"fmt"
	"sort"
	"strings"
)

// The schema mapper converts between document-tree values (the
// map[string]any / []any shapes encoding/json produces) and the three
// entity kinds. It performs no I/O; the model feeds it parsed JSON on
// load and marshals its output on save.

// ProjectFileVersion is the single supported envelope schema version.
// Loading any other version fails — there is no migration logic.
const ProjectFileVersion = 1

const (
	dataEntryName  = "data.json"
	prefsEntryName = "prefs.json"
	imageExt       = ".png"
)

// Reserved part-document key: everything else that maps to a JSON
// object is a mode.
const propertiesKey = "properties"

// --- Document accessors ---

func docString(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}

func docInt(obj map[string]any, key string) int {
	f, _ := obj[key].(float64)
	return int(f)
}

// docParent reads an optional parent UUID field; absence yields the
// null ref.
func docParent(obj map[string]any, key string, kind AssetKind) (AssetRef, error) {
	v, ok := obj[key]
	if !ok {
		return AssetRef{}, nil
	}
	s, ok := v.(string)
	if !ok {
		return AssetRef{}, fmt.Errorf("%q is not a string: %w", key, ErrInvalidDocument)
	}
	return parseRef(s, kind)
}

// underscored is the save-side name normalization: spaces become
// underscores so derived entry names stay filesystem-safe.
func underscored(s string) string {
	return strings.ReplaceAll(s, " ", "_")
}

// --- Folder ---

func folderFromDoc(obj map[string]any, f *Folder) error {
	f.Name = docString(obj, "name")
	parent, err := docParent(obj, "parent", KindFolder)
	if err != nil {
		return err
	}
	f.Parent = parent
	return nil
}

func folderToDoc(f *Folder) map[string]any {
	doc := map[string]any{"name": f.Name}
	if !f.Parent.IsNull() {
		doc["parent"] = f.Parent.String()
	}
	return doc
}

// --- Part ---

// partFromDoc maps a part document, resolving each frame's image name
// against the raster registry. Any key other than name, parent and
// properties whose value is a non-empty JSON object is a mode.
func partFromDoc(obj map[string]any, images map[string]*Raster, p *Part) error {
	p.Name = docString(obj, "name")
	parent, err := docParent(obj, "parent", KindFolder)
	if err != nil {
		return err
	}
	p.Parent = parent

	if p.Modes == nil {
		p.Modes = make(map[string]*Mode)
	}
	for key, val := range obj {
		if key == propertiesKey {
			p.Properties = docString(obj, propertiesKey)
			continue
		}
		modeObj, ok := val.(map[string]any)
		if !ok || len(modeObj) == 0 {
			continue // name, parent, and anything else non-object
		}
		mode, err := modeFromDoc(modeObj, images)
		if err != nil {
			return fmt.Errorf("mode %q: %w", key, err)
		}
		p.Modes[key] = mode
	}
	return nil
}

func modeFromDoc(obj map[string]any, images map[string]*Raster) (*Mode, error) {
	m := &Mode{
		Width:           docInt(obj, "width"),
		Height:          docInt(obj, "height"),
		NumPivots:       docInt(obj, "numPivots"),
		FramesPerSecond: docInt(obj, "framesPerSecond"),
	}
	if m.Width <= 0 || m.Height <= 0 {
		return nil, fmt.Errorf("dimensions %dx%d: %w", m.Width, m.Height, ErrInvalidDocument)
	}
	if m.NumPivots < 0 || m.NumPivots > MaxPivots {
		return nil, fmt.Errorf("numPivots %d outside 0..%d: %w", m.NumPivots, MaxPivots, ErrInvalidDocument)
	}

	numFrames := docInt(obj, "numFrames")
	frameArr, _ := obj["frames"].([]any)
	if len(frameArr) != numFrames {
		return nil, fmt.Errorf("frames array has %d entries, numFrames is %d: %w",
			len(frameArr), numFrames, ErrInvalidDocument)
	}

	m.Frames = make([]Frame, 0, numFrames)
	for i, v := range frameArr {
		frameObj, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("frame %d is not an object: %w", i, ErrInvalidDocument)
		}
		frame, err := frameFromDoc(frameObj, m, images)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		m.Frames = append(m.Frames, frame)
	}
	return m, nil
}

func frameFromDoc(obj map[string]any, m *Mode, images map[string]*Raster) (Frame, error) {
	frame := Frame{
		Anchor: Point{docInt(obj, "ax"), docInt(obj, "ay")},
	}

	imageName := docString(obj, "image")
	raster, ok := images[imageName]
	if !ok {
		return Frame{}, fmt.Errorf("image %q: %w", imageName, ErrDanglingImage)
	}
	if raster.Width != m.Width || raster.Height != m.Height {
		return Frame{}, fmt.Errorf("image %q is %dx%d, mode is %dx%d: %w",
			imageName, raster.Width, raster.Height, m.Width, m.Height, ErrInvalidDocument)
	}
	frame.Raster = raster

	for p := 0; p < m.NumPivots; p++ {
		frame.Pivots[p] = Point{
			docInt(obj, fmt.Sprintf("p%dx", p)),
			docInt(obj, fmt.Sprintf("p%dy", p)),
		}
	}
	// Slots beyond NumPivots keep the (0,0) zero value.
	return frame, nil
}

// partToDoc maps a part to its document and registers every referenced
// raster with the collector, which derives the entry names.
func partToDoc(p *Part, col *imageCollector) map[string]any {
	doc := map[string]any{"name": p.Name}
	if p.Properties != "" {
		doc[propertiesKey] = p.Properties
	}
	if !p.Parent.IsNull() {
		doc["parent"] = p.Parent.String()
	}

	partFixed := underscored(p.Name)
	for _, modeName := range sortedKeys(p.Modes) {
		m := p.Modes[modeName]
		modeFixed := underscored(modeName)

		frames := make([]any, 0, len(m.Frames))
		for i := range m.Frames {
			fr := &m.Frames[i]
			frameDoc := map[string]any{
				"ax":    fr.Anchor.X,
				"ay":    fr.Anchor.Y,
				"image": col.nameFor(fr.Raster, partFixed, modeFixed, i),
			}
			for pv := 0; pv < m.NumPivots; pv++ {
				frameDoc[fmt.Sprintf("p%dx", pv)] = fr.Pivots[pv].X
				frameDoc[fmt.Sprintf("p%dy", pv)] = fr.Pivots[pv].Y
			}
			frames = append(frames, frameDoc)
		}

		doc[modeName] = map[string]any{
			"width":           m.Width,
			"height":          m.Height,
			"numFrames":       len(m.Frames),
			"numPivots":       m.NumPivots,
			"framesPerSecond": m.FramesPerSecond,
			"frames":          frames,
		}
	}
	return doc
}

// --- Composite ---

func compositeFromDoc(obj map[string]any, c *Composite) error {
	c.Root = docInt(obj, "root")
	c.Name = docString(obj, "name")
	c.Properties = docString(obj, propertiesKey)
	parent, err := docParent(obj, "parent", KindFolder)
	if err != nil {
		return err
	}
	c.Parent = parent

	if c.Children == nil {
		c.Children = make(map[string]*Child)
	}
	childArr, _ := obj["parts"].([]any)
	for index, v := range childArr {
		childObj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("child %d is not an object: %w", index, ErrInvalidDocument)
		}
		name := docString(childObj, "name")
		partRef, err := parseRef(docString(childObj, "part"), KindPart)
		if err != nil {
			return fmt.Errorf("child %q: %w", name, err)
		}
		child := &Child{
			Parent:      docInt(childObj, "parent"),
			ParentPivot: docInt(childObj, "parentPivot"),
			Z:           docInt(childObj, "z"),
			Part:        partRef,
			Index:       index,
		}
		if indices, ok := childObj["children"].([]any); ok {
			child.Children = make([]int, 0, len(indices))
			for _, ci := range indices {
				f, _ := ci.(float64)
				child.Children = append(child.Children, int(f))
			}
		}
		c.ChildNames = append(c.ChildNames, name)
		c.Children[name] = child
	}

	return validateCompositeTree(c)
}

// validateCompositeTree checks that root, every parent index and every
// child index resolve to valid positions (or the NoParent sentinel
// where allowed).
func validateCompositeTree(c *Composite) error {
	n := len(c.ChildNames)
	if c.Root != NoParent && (c.Root < 0 || c.Root >= n) {
		return fmt.Errorf("root index %d outside 0..%d: %w", c.Root, n-1, ErrInvalidDocument)
	}
	for _, name := range c.ChildNames {
		child := c.Children[name]
		if child.Parent != NoParent && (child.Parent < 0 || child.Parent >= n) {
			return fmt.Errorf("child %q: parent index %d outside 0..%d: %w",
				name, child.Parent, n-1, ErrInvalidDocument)
		}
		for _, ci := range child.Children {
			if ci < 0 || ci >= n {
				return fmt.Errorf("child %q: child index %d outside 0..%d: %w",
					name, ci, n-1, ErrInvalidDocument)
			}
		}
	}
	return nil
}

// compositeToDoc maps a composite to its document. The composite name
// and child names are normalized; child records are emitted in
// ChildNames order.
func compositeToDoc(c *Composite) map[string]any {
	doc := map[string]any{
		"root":        c.Root,
		propertiesKey: c.Properties,
		"name":        underscored(c.Name),
	}
	if !c.Parent.IsNull() {
		doc["parent"] = c.Parent.String()
	}

	children := make([]any, 0, len(c.ChildNames))
	for _, name := range c.ChildNames {
		child := c.Children[name]
		indices := make([]any, 0, len(child.Children))
		for _, ci := range child.Children {
			indices = append(indices, ci)
		}
		children = append(children, map[string]any{
			"name":        underscored(name),
			"parent":      child.Parent,
			"parentPivot": child.ParentPivot,
			"z":           child.Z,
			"part":        child.Part.String(),
			"children":    indices,
		})
	}
	doc["parts"] = children
	return doc
}

// --- Image name derivation ---

// imageCollector derives deterministic image entry names on save and
// de-duplicates rasters by identity: a raster shared by several frames
// is encoded once, under the name of the first frame that declared it.
type imageCollector struct {
	byName map[string]*Raster
	names  map[*Raster]string
}

func newImageCollector() *imageCollector {
	return &imageCollector{
		byName: make(map[string]*Raster),
		names:  make(map[*Raster]string),
	}
}

// nameFor returns the entry name for a raster, registering it if this
// is the first reference. Names follow {part}_{mode}_{frame:03d}.png;
// a normalization collision gets a numeric suffix.
func (col *imageCollector) nameFor(r *Raster, partFixed, modeFixed string, frame int) string {
	if name, ok := col.names[r]; ok {
		return name
	}
	name := fmt.Sprintf("%s_%s_%03d%s", partFixed, modeFixed, frame, imageExt)
	for i := 2; ; i++ {
		if _, taken := col.byName[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s_%s_%03d_%d%s", partFixed, modeFixed, frame, i, imageExt)
	}
	col.names[r] = name
	col.byName[name] = r
	return name
}

// sortedNames returns the registered entry names in sorted order.
func (col *imageCollector) sortedNames() []string {
	names := make([]string, 0, len(col.byName))
	for name := range col.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
