package mqsprite

import "errors"

// Sentinel errors for the failure classes a load or save can hit.
// Callers match with errors.Is; the wrapped message carries the detail
// (entry name, mode name, offending index).
var (
	// ErrArchiveCorrupt reports an unreadable or truncated container:
	// a short header, a bad checksum, or a payload cut off mid-block.
	ErrArchiveCorrupt = errors.New("archive is corrupt")

	// ErrImageCorrupt reports PNG data that failed to decode. Fatal for
	// the whole load — frame dimension checks need valid rasters.
	ErrImageCorrupt = errors.New("image data is corrupt")

	// ErrUnsupportedVersion reports an envelope whose version field is
	// not ProjectFileVersion. There is no migration path.
	ErrUnsupportedVersion = errors.New("unsupported project version")

	// ErrDanglingImage reports a frame whose image entry name is not
	// present in the archive.
	ErrDanglingImage = errors.New("dangling image reference")

	// ErrInvalidDocument reports structural validation failures in the
	// envelope: frame-count or dimension mismatches, out-of-range
	// pivot counts, bad composite child indices, malformed fragments.
	ErrInvalidDocument = errors.New("invalid document")
)
