// Package mqsprite is the persistence core of the MQ-Sprite 2D
// sprite/animation authoring tool.
//
// It implements the project archive format — a tar-style container that
// packages a versioned JSON envelope together with PNG-compressed frame
// images — and the in-memory asset graph (folders, parts, composites)
// that the format serializes. Editors, preview widgets and command
// stacks are external collaborators: they hold a [Model], mutate it
// through its insertion API, and ask it to [Model.Load] and
// [Model.Save] whole projects.
//
// # Quick start
//
//	model := mqsprite.NewModel()
//	if err := model.Load("hero.mqs"); err != nil {
//		log.Fatal(err)
//	}
//	part := model.FindPartByName("hero")
//	idle := part.Modes["idle"]
//	fmt.Println(len(idle.Frames), "frames at", idle.FramesPerSecond, "fps")
//
// # Asset graph
//
// Every entity is identified by an [AssetRef], a 128-bit UUID plus a
// kind tag. Entities reference each other only through refs; the model
// owns the entities themselves. [Model.Asset] resolves any ref to the
// [Asset] capability shared by all three kinds.
//
// # Archive format
//
// A project file is an uncompressed, 512-byte-block container holding a
// required data.json envelope, an optional prefs.json preferences
// sidecar, and one PNG entry per unique frame image. See [ReadArchive]
// and [WriteArchive] for the container itself, [Raster] for the pixel
// payloads. Saves are atomic: the archive is written to a temporary
// file and renamed into place.
//
// # Preview helpers
//
// [ModePlayer] steps a mode's frames at its declared rate, and
// [FrameImage] bridges decoded rasters into [Ebitengine] images for
// editors that preview animations. Neither renders anything on its own.
//
// [Ebitengine]: https://ebitengine.org
package mqsprite
