package mqsprite

import (
	"fmt"
	"io"
	"strconv"
)

// The container is a minimal tar-style format: a 512-byte header block
// per entry followed by the payload, zero-padded to a whole number of
// 512-byte blocks, terminated by two zero blocks. No compression.

const blockSize = 512

// Header field offsets (ustar layout).
const (
	hdrName     = 0   // 100 bytes, NUL-terminated entry name
	hdrMode     = 100 // 8 bytes, octal
	hdrUID      = 108 // 8 bytes, octal
	hdrGID      = 116 // 8 bytes, octal
	hdrSize     = 124 // 12 bytes, octal payload length
	hdrMtime    = 136 // 12 bytes, octal
	hdrChecksum = 148 // 8 bytes, octal, computed with the field spaced out
	hdrTypeflag = 156 // 1 byte, '0' for regular files
	hdrMagic    = 257 // "ustar\x00" + "00"
)

// Entry is one named payload in an archive.
type Entry struct {
	Name string

	// Size is the declared payload length. Binary consumers (images)
	// slice to it; see Payload.
	Size int

	// Data is the payload padded with trailing zero bytes to a block
	// boundary. Text consumers locate their logical length by scanning
	// for the first zero byte (see textLength) — the format carries no
	// in-band length prefix for them.
	Data []byte
}

// Payload returns the declared-length slice of the entry data.
func (e Entry) Payload() []byte {
	return e.Data[:e.Size]
}

// Archive is an ordered mapping from entry name to payload.
type Archive struct {
	entries []Entry
	index   map[string]int
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{index: make(map[string]int)}
}

// Add appends an entry, padding the payload to a block boundary. Adding
// a name that already exists replaces the previous payload in place —
// last wins, matching read semantics for colliding names.
func (a *Archive) Add(name string, payload []byte) {
	padded := make([]byte, roundUpBlock(len(payload)))
	copy(padded, payload)
	e := Entry{Name: name, Size: len(payload), Data: padded}
	if i, ok := a.index[name]; ok {
		a.entries[i] = e
		return
	}
	a.index[name] = len(a.entries)
	a.entries = append(a.entries, e)
}

// Get returns the entry with the given name.
func (a *Archive) Get(name string) (Entry, bool) {
	i, ok := a.index[name]
	if !ok {
		return Entry{}, false
	}
	return a.entries[i], true
}

// Has reports whether an entry with the given name exists.
func (a *Archive) Has(name string) bool {
	_, ok := a.index[name]
	return ok
}

// Names returns the entry names in archive order.
func (a *Archive) Names() []string {
	names := make([]string, len(a.entries))
	for i, e := range a.entries {
		names[i] = e.Name
	}
	return names
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

func roundUpBlock(n int) int {
	return (n + blockSize - 1) / blockSize * blockSize
}

// textLength returns the logical length of a zero-padded text payload:
// the index of the first zero byte, or 0 when no zero byte exists.
func textLength(b []byte) int {
	for i, c := range b {
		if c == 0 {
			return i
		}
	}
	return 0
}

// ReadArchive reads a container stream into an archive. Entries are
// recovered in archive order. A truncated stream, a bad header
// checksum or an unparsable size field fail with ErrArchiveCorrupt.
func ReadArchive(r io.Reader) (*Archive, error) {
	a := NewArchive()
	var hdr [blockSize]byte
	for {
		n, err := io.ReadFull(r, hdr[:])
		if err == io.EOF && n == 0 {
			return a, nil // no terminator; tolerated
		}
		if err != nil {
			return nil, fmt.Errorf("%w: truncated header", ErrArchiveCorrupt)
		}
		if isZeroBlock(hdr[:]) {
			return a, nil
		}

		name := cstring(hdr[hdrName : hdrName+100])
		size, err := parseOctal(hdr[hdrSize : hdrSize+12])
		if err != nil {
			return nil, fmt.Errorf("%w: bad size field for %q", ErrArchiveCorrupt, name)
		}
		want, err := parseOctal(hdr[hdrChecksum : hdrChecksum+8])
		if err != nil || headerChecksum(hdr[:]) != want {
			return nil, fmt.Errorf("%w: bad checksum for %q", ErrArchiveCorrupt, name)
		}

		padded := make([]byte, roundUpBlock(int(size)))
		if _, err := io.ReadFull(r, padded); err != nil {
			return nil, fmt.Errorf("%w: truncated payload for %q", ErrArchiveCorrupt, name)
		}

		if i, ok := a.index[name]; ok {
			a.entries[i] = Entry{Name: name, Size: int(size), Data: padded}
			continue
		}
		a.index[name] = len(a.entries)
		a.entries = append(a.entries, Entry{Name: name, Size: int(size), Data: padded})
	}
}

// WriteArchive writes the archive to w in entry order. Every header
// field is fixed (mtime zero, mode 0644), so identical input produces
// byte-identical output.
func WriteArchive(a *Archive, w io.Writer) error {
	for _, e := range a.entries {
		hdr, err := makeHeader(e.Name, e.Size)
		if err != nil {
			return err
		}
		if _, err := w.Write(hdr); err != nil {
			return err
		}
		if _, err := w.Write(e.Data); err != nil {
			return err
		}
	}
	// Terminator: two zero blocks.
	var zero [2 * blockSize]byte
	_, err := w.Write(zero[:])
	return err
}

func makeHeader(name string, size int) ([]byte, error) {
	if len(name) > 100 {
		return nil, fmt.Errorf("entry name %q exceeds 100 bytes", name)
	}
	hdr := make([]byte, blockSize)
	copy(hdr[hdrName:], name)
	putOctal(hdr[hdrMode:hdrMode+8], 0o644)
	putOctal(hdr[hdrUID:hdrUID+8], 0)
	putOctal(hdr[hdrGID:hdrGID+8], 0)
	putOctal(hdr[hdrSize:hdrSize+12], int64(size))
	putOctal(hdr[hdrMtime:hdrMtime+12], 0)
	hdr[hdrTypeflag] = '0'
	copy(hdr[hdrMagic:], "ustar\x0000")

	sum := headerChecksum(hdr)
	copy(hdr[hdrChecksum:hdrChecksum+8], fmt.Sprintf("%06o\x00 ", sum))
	return hdr, nil
}

// headerChecksum sums all header bytes with the checksum field treated
// as spaces.
func headerChecksum(hdr []byte) int64 {
	var sum int64
	for i, c := range hdr {
		if i >= hdrChecksum && i < hdrChecksum+8 {
			sum += ' '
		} else {
			sum += int64(c)
		}
	}
	return sum
}

func putOctal(field []byte, v int64) {
	// Width leaves room for the terminating NUL.
	s := strconv.FormatInt(v, 8)
	for len(s) < len(field)-1 {
		s = "0" + s
	}
	copy(field, s)
}

func parseOctal(field []byte) (int64, error) {
	start := 0
	for start < len(field) && (field[start] == ' ' || field[start] == 0) {
		start++
	}
	end := start
	for end < len(field) && field[end] >= '0' && field[end] <= '7' {
		end++
	}
	if start == end {
		return 0, fmt.Errorf("empty octal field")
	}
	return strconv.ParseInt(string(field[start:end]), 8, 64)
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func isZeroBlock(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
