package mqsprite

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Model is the project aggregate: it owns every loaded folder, part
// and composite, keyed by ref, plus the file path the project was
// loaded from or saved to. Collaborators hold refs, never long-lived
// entity pointers of their own.
//
// A Model is not safe for concurrent use. Load, Save and graph
// mutation must be externally serialized by the caller.
type Model struct {
	folders    map[AssetRef]*Folder
	parts      map[AssetRef]*Part
	composites map[AssetRef]*Composite
	fileName   string

	settings Settings
	log      *zap.Logger
}

// NewModel returns an empty model with in-memory settings and a no-op
// logger.
func NewModel() *Model {
	return &Model{
		folders:    make(map[AssetRef]*Folder),
		parts:      make(map[AssetRef]*Part),
		composites: make(map[AssetRef]*Composite),
		settings:   MemorySettings{},
		log:        zap.NewNop(),
	}
}

// SetLogger replaces the model's logger. Non-fatal load diagnostics
// (the prefs.json warning path) go through it.
func (m *Model) SetLogger(log *zap.Logger) {
	if log != nil {
		m.log = log
	}
}

// SetSettings replaces the preferences store the prefs.json sidecar
// merges into.
func (m *Model) SetSettings(s Settings) {
	if s != nil {
		m.settings = s
	}
}

// Settings returns the preferences store.
func (m *Model) Settings() Settings { return m.settings }

// FileName returns the path of the last successful Load or Save, or ""
// for a fresh or cleared model.
func (m *Model) FileName() string { return m.fileName }

// Clear drops every entity and forgets the associated file path.
func (m *Model) Clear() {
	m.folders = make(map[AssetRef]*Folder)
	m.parts = make(map[AssetRef]*Part)
	m.composites = make(map[AssetRef]*Composite)
	m.fileName = ""
}

// CreateRef returns a fresh unique ref of the given kind.
func (m *Model) CreateRef(kind AssetKind) AssetRef {
	return AssetRef{UUID: uuid.New(), Kind: kind}
}

// --- Lookup ---

// Asset resolves a ref of any kind to the shared Asset capability, or
// nil if the ref does not resolve.
func (m *Model) Asset(ref AssetRef) Asset {
	switch ref.Kind {
	case KindPart:
		if p, ok := m.parts[ref]; ok {
			return p
		}
	case KindComposite:
		if c, ok := m.composites[ref]; ok {
			return c
		}
	case KindFolder:
		if f, ok := m.folders[ref]; ok {
			return f
		}
	}
	return nil
}

// HasAsset reports whether the ref resolves to a loaded entity.
func (m *Model) HasAsset(ref AssetRef) bool { return m.Asset(ref) != nil }

// Part returns the part for the ref, or nil.
func (m *Model) Part(ref AssetRef) *Part { return m.parts[ref] }

// Composite returns the composite for the ref, or nil.
func (m *Model) Composite(ref AssetRef) *Composite { return m.composites[ref] }

// Folder returns the folder for the ref, or nil.
func (m *Model) Folder(ref AssetRef) *Folder { return m.folders[ref] }

func (m *Model) HasPart(ref AssetRef) bool      { return m.parts[ref] != nil }
func (m *Model) HasComposite(ref AssetRef) bool { return m.composites[ref] != nil }
func (m *Model) HasFolder(ref AssetRef) bool    { return m.folders[ref] != nil }

// FindPartByName returns the first part with the given name. Names are
// not unique; which match wins is unspecified.
func (m *Model) FindPartByName(name string) *Part {
	for _, p := range m.parts {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FindCompositeByName returns the first composite with the given name,
// first match in unspecified order.
func (m *Model) FindCompositeByName(name string) *Composite {
	for _, c := range m.composites {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindFolderByName returns the first folder with the given name, first
// match in unspecified order.
func (m *Model) FindFolderByName(name string) *Folder {
	for _, f := range m.folders {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// --- Insertion ---

// InsertFolder adds a folder to the model, forcing the ref kind tag to
// match the collection.
func (m *Model) InsertFolder(f *Folder) {
	f.Ref.Kind = KindFolder
	m.folders[f.Ref] = f
}

// InsertPart adds a part to the model.
func (m *Model) InsertPart(p *Part) {
	p.Ref.Kind = KindPart
	m.parts[p.Ref] = p
}

// InsertComposite adds a composite to the model.
func (m *Model) InsertComposite(c *Composite) {
	c.Ref.Kind = KindComposite
	m.composites[c.Ref] = c
}

// Folders returns all folders sorted by ref identity.
func (m *Model) Folders() []*Folder {
	out := make([]*Folder, 0, len(m.folders))
	for _, ref := range sortedRefs(m.folders) {
		out = append(out, m.folders[ref])
	}
	return out
}

// Parts returns all parts sorted by ref identity.
func (m *Model) Parts() []*Part {
	out := make([]*Part, 0, len(m.parts))
	for _, ref := range sortedRefs(m.parts) {
		out = append(out, m.parts[ref])
	}
	return out
}

// Composites returns all composites sorted by ref identity.
func (m *Model) Composites() []*Composite {
	out := make([]*Composite, 0, len(m.composites))
	for _, ref := range sortedRefs(m.composites) {
		out = append(out, m.composites[ref])
	}
	return out
}

func sortedRefs[T any](m map[AssetRef]T) []AssetRef {
	refs := make([]AssetRef, 0, len(m))
	for ref := range m {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Less(refs[j]) })
	return refs
}

// --- Load ---

// Load reads a project archive and replaces the model's state. On any
// failure the returned error carries a human-readable reason and the
// model's prior state is untouched: the new graph is staged in local
// collections and committed only on full success. (Preferences merged
// from prefs.json go to the external settings store and are not part
// of that guarantee.)
func (m *Model) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("Cannot open file: %w", err)
	}
	defer f.Close()

	ar, err := ReadArchive(f)
	if err != nil {
		return fmt.Errorf("Cannot read project file: %w", err)
	}

	dataEntry, ok := ar.Get(dataEntryName)
	if !ok {
		return errors.New("Internal data.json is missing")
	}

	// The text payload is zero-padded to the block boundary; its
	// logical length is the offset of the first zero byte.
	dataLen := textLength(dataEntry.Data)
	if dataLen == 0 {
		return errors.New("Internal data.json is empty")
	}

	var root any
	if err := json.Unmarshal(dataEntry.Data[:dataLen], &root); err != nil {
		return fmt.Errorf("Internal data.json parse error: %v", err)
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return errors.New("Internal data.json is not a valid json object")
	}

	version, ok := obj["version"]
	if !ok {
		return errors.New("Internal data.json has no version field")
	}
	if v, isNum := version.(float64); !isNum || v != float64(ProjectFileVersion) {
		return fmt.Errorf("Internal data.json has an invalid version: %w", ErrUnsupportedVersion)
	}

	m.mergePrefsEntry(ar)

	images, err := decodeImages(ar)
	if err != nil {
		return err
	}

	// Stage the new graph; commit only when every fragment mapped.
	folders := make(map[AssetRef]*Folder)
	parts := make(map[AssetRef]*Part)
	composites := make(map[AssetRef]*Composite)

	if section, ok := obj["folders"].(map[string]any); ok {
		for key, v := range section {
			fragment, ok := v.(map[string]any)
			if !ok {
				return fmt.Errorf("folder %q: %w", key, ErrInvalidDocument)
			}
			ref, err := parseRef(key, KindFolder)
			if err != nil {
				return err
			}
			folder := &Folder{}
			folder.Ref = ref
			if err := folderFromDoc(fragment, folder); err != nil {
				return fmt.Errorf("folder %q: %w", key, err)
			}
			folders[ref] = folder
		}
	}

	if section, ok := obj["parts"].(map[string]any); ok {
		for key, v := range section {
			fragment, ok := v.(map[string]any)
			if !ok {
				return fmt.Errorf("part %q: %w", key, ErrInvalidDocument)
			}
			ref, err := parseRef(key, KindPart)
			if err != nil {
				return err
			}
			part := NewPart()
			part.Ref = ref
			if err := partFromDoc(fragment, images, part); err != nil {
				return fmt.Errorf("part %q: %w", key, err)
			}
			parts[ref] = part
		}
	}

	if section, ok := obj["comps"].(map[string]any); ok {
		for key, v := range section {
			fragment, ok := v.(map[string]any)
			if !ok {
				return fmt.Errorf("composite %q: %w", key, ErrInvalidDocument)
			}
			ref, err := parseRef(key, KindComposite)
			if err != nil {
				return err
			}
			comp := NewComposite()
			comp.Ref = ref
			if err := compositeFromDoc(fragment, comp); err != nil {
				return fmt.Errorf("composite %q: %w", key, err)
			}
			composites[ref] = comp
		}
	}

	m.folders = folders
	m.parts = parts
	m.composites = composites
	m.fileName = path
	return nil
}

// mergePrefsEntry merges the optional prefs.json sidecar into the
// settings store. Malformed sidecar content only logs a warning — a
// corrupt preferences fragment must not fail the load.
func (m *Model) mergePrefsEntry(ar *Archive) {
	entry, ok := ar.Get(prefsEntryName)
	if !ok {
		return
	}
	prefsLen := textLength(entry.Data)
	var root any
	if err := json.Unmarshal(entry.Data[:prefsLen], &root); err != nil {
		m.log.Warn("Internal prefs.json parse error", zap.Error(err))
		return
	}
	obj, ok := root.(map[string]any)
	if !ok {
		m.log.Warn("Internal prefs.json is not a valid json object")
		return
	}
	mergePrefs(obj, m.settings)
}

// decodeImages decodes every image entry into the raster registry,
// keyed by entry name. Any decode failure aborts the load.
func decodeImages(ar *Archive) (map[string]*Raster, error) {
	images := make(map[string]*Raster)
	for _, name := range ar.Names() {
		if !strings.HasSuffix(name, imageExt) {
			continue
		}
		entry, _ := ar.Get(name)
		raster, err := DecodeRaster(entry.Payload())
		if err != nil {
			return nil, fmt.Errorf("cannot decode image %q: %w", name, err)
		}
		images[name] = raster
	}
	return images, nil
}

// --- Save ---

// Save writes the project as an archive: the versioned envelope, the
// preferences sidecar, and every referenced raster encoded exactly
// once (de-duplicated by identity). Output is deterministic — entities
// are emitted sorted by ref, image entries sorted by name — so the
// same graph always produces the same bytes. The archive is written to
// a temporary file beside the destination and renamed into place, so a
// failed save never leaves a truncated project file.
func (m *Model) Save(path string) error {
	col := newImageCollector()

	data := map[string]any{"version": ProjectFileVersion}

	foldersDoc := make(map[string]any, len(m.folders))
	for _, ref := range sortedRefs(m.folders) {
		foldersDoc[ref.String()] = folderToDoc(m.folders[ref])
	}
	data["folders"] = foldersDoc

	partsDoc := make(map[string]any, len(m.parts))
	for _, ref := range sortedRefs(m.parts) {
		partsDoc[ref.String()] = partToDoc(m.parts[ref], col)
	}
	data["parts"] = partsDoc

	compsDoc := make(map[string]any, len(m.composites))
	for _, ref := range sortedRefs(m.composites) {
		compsDoc[ref.String()] = compositeToDoc(m.composites[ref])
	}
	data["comps"] = compsDoc

	ar := NewArchive()

	dataJSON, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", dataEntryName, err)
	}
	ar.Add(dataEntryName, append(dataJSON, '\n'))

	prefsJSON, err := json.MarshalIndent(prefsToDoc(m.settings), "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", prefsEntryName, err)
	}
	ar.Add(prefsEntryName, append(prefsJSON, '\n'))

	for _, name := range col.sortedNames() {
		encoded, err := col.byName[name].Encode()
		if err != nil {
			return fmt.Errorf("encode image %q: %w", name, err)
		}
		ar.Add(name, encoded)
	}

	if err := writeArchiveAtomic(ar, path); err != nil {
		return err
	}
	m.fileName = path
	return nil
}

// writeArchiveAtomic writes the archive to a temporary file in the
// destination directory and renames it into place on success.
func writeArchiveAtomic(ar *Archive, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mqsprite-*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if err := WriteArchive(ar, tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write project file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write project file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
