package mqsprite

import (
	"bytes"
	"errors"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	ar := NewArchive()
	ar.Add("data.json", []byte(`{"version": 1}`))
	ar.Add("hero_idle_000.png", bytes.Repeat([]byte{0xAB}, 700))
	ar.Add("prefs.json", []byte(`{}`))

	var buf bytes.Buffer
	if err := WriteArchive(ar, &buf); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	got, err := ReadArchive(&buf)
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	if got.Len() != 3 {
		t.Fatalf("entries = %d, want 3", got.Len())
	}

	// Entries come back in archive order.
	wantOrder := []string{"data.json", "hero_idle_000.png", "prefs.json"}
	for i, name := range got.Names() {
		if name != wantOrder[i] {
			t.Errorf("entry %d = %q, want %q", i, name, wantOrder[i])
		}
	}

	e, ok := got.Get("hero_idle_000.png")
	if !ok {
		t.Fatal("image entry missing")
	}
	if e.Size != 700 {
		t.Errorf("declared size = %d, want 700", e.Size)
	}
	if len(e.Data) != 1024 {
		t.Errorf("padded length = %d, want 1024", len(e.Data))
	}
	if !bytes.Equal(e.Payload(), bytes.Repeat([]byte{0xAB}, 700)) {
		t.Error("payload mismatch")
	}
	for _, b := range e.Data[700:] {
		if b != 0 {
			t.Fatal("padding is not zero bytes")
		}
	}
}

func TestArchiveWriteDeterministic(t *testing.T) {
	build := func() []byte {
		ar := NewArchive()
		ar.Add("data.json", []byte(`{"version": 1}`))
		ar.Add("a.png", []byte{1, 2, 3})
		var buf bytes.Buffer
		if err := WriteArchive(ar, &buf); err != nil {
			t.Fatalf("WriteArchive: %v", err)
		}
		return buf.Bytes()
	}
	if !bytes.Equal(build(), build()) {
		t.Error("identical input produced different output bytes")
	}
}

func TestArchiveAddOverwrites(t *testing.T) {
	ar := NewArchive()
	ar.Add("data.json", []byte("first"))
	ar.Add("data.json", []byte("second"))

	if ar.Len() != 1 {
		t.Fatalf("entries = %d, want 1", ar.Len())
	}
	e, _ := ar.Get("data.json")
	if string(e.Payload()) != "second" {
		t.Errorf("payload = %q, want %q", e.Payload(), "second")
	}
}

func TestArchiveTruncated(t *testing.T) {
	ar := NewArchive()
	ar.Add("data.json", bytes.Repeat([]byte{'x'}, 600))
	var buf bytes.Buffer
	if err := WriteArchive(ar, &buf); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	// Cut the stream inside the payload.
	_, err := ReadArchive(bytes.NewReader(buf.Bytes()[:blockSize+100]))
	if !errors.Is(err, ErrArchiveCorrupt) {
		t.Errorf("truncated payload: err = %v, want ErrArchiveCorrupt", err)
	}

	// Cut the stream inside the header.
	_, err = ReadArchive(bytes.NewReader(buf.Bytes()[:200]))
	if !errors.Is(err, ErrArchiveCorrupt) {
		t.Errorf("truncated header: err = %v, want ErrArchiveCorrupt", err)
	}
}

func TestArchiveBadChecksum(t *testing.T) {
	ar := NewArchive()
	ar.Add("data.json", []byte("payload"))
	var buf bytes.Buffer
	if err := WriteArchive(ar, &buf); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	raw := buf.Bytes()
	raw[0] ^= 0xFF // corrupt the name without fixing the checksum

	_, err := ReadArchive(bytes.NewReader(raw))
	if !errors.Is(err, ErrArchiveCorrupt) {
		t.Errorf("err = %v, want ErrArchiveCorrupt", err)
	}
}

func TestArchiveMissingTerminatorTolerated(t *testing.T) {
	ar := NewArchive()
	ar.Add("data.json", []byte("payload"))
	var buf bytes.Buffer
	if err := WriteArchive(ar, &buf); err != nil {
		t.Fatalf("WriteArchive: %v", err)
	}

	// Drop the two terminator blocks.
	raw := buf.Bytes()[:buf.Len()-2*blockSize]
	got, err := ReadArchive(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("ReadArchive: %v", err)
	}
	if got.Len() != 1 {
		t.Errorf("entries = %d, want 1", got.Len())
	}
}

func TestTextLength(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"padded text", append([]byte("hello"), 0, 0, 0), 5},
		{"zero first byte", []byte{0, 'h', 'i'}, 0},
		{"all zero", make([]byte, blockSize), 0},
		{"no zero byte at all", []byte("hello"), 0},
	}
	for _, tt := range tests {
		if got := textLength(tt.data); got != tt.want {
			t.Errorf("%s: textLength = %d, want %d", tt.name, got, tt.want)
		}
	}
}
