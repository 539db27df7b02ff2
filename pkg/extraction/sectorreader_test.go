package extraction

import (
	"bytes"
	"io"
	"testing"
)

// alignedOnlyReader is an io.ReaderAt that rejects reads not aligned to its
// sector size, mimicking a raw volume device.
type alignedOnlyReader struct {
	contents   []byte
	sectorSize int64
	t          *testing.T
}

// ReadAt implements io.ReaderAt.ReadAt.
func (r *alignedOnlyReader) ReadAt(buffer []byte, offset int64) (int, error) {
	if offset%r.sectorSize != 0 || int64(len(buffer))%r.sectorSize != 0 {
		r.t.Fatalf("unaligned device read: offset=%d length=%d", offset, len(buffer))
	}
	if offset >= int64(len(r.contents)) {
		return 0, io.EOF
	}
	count := copy(buffer, r.contents[offset:])
	if count < len(buffer) {
		return count, io.EOF
	}
	return count, nil
}

// testDeviceContents generates deterministic device contents.
func testDeviceContents(length int) []byte {
	contents := make([]byte, length)
	for i := range contents {
		contents[i] = byte(i % 251)
	}
	return contents
}

// TestSectorReaderInvalidSize tests sector size validation.
func TestSectorReaderInvalidSize(t *testing.T) {
	for _, size := range []int64{0, -512, 100} {
		if _, err := NewSectorReader(bytes.NewReader(nil), size); err == nil {
			t.Error("creation succeeded with invalid sector size:", size)
		}
	}
}

// TestSectorReaderUnalignedReads tests arbitrary-offset reads against a
// device that only accepts aligned access.
func TestSectorReaderUnalignedReads(t *testing.T) {
	contents := testDeviceContents(4096 * 3)
	device := &alignedOnlyReader{contents: contents, sectorSize: 512, t: t}
	reader, err := NewSectorReader(device, 512)
	if err != nil {
		t.Fatal("unable to create sector reader:", err)
	}

	cases := []struct {
		offset int64
		length int
	}{
		{0, 512},
		{1, 100},
		{511, 2},
		{512, 512},
		{1000, 3000},
		{4095, 4097},
	}
	for _, c := range cases {
		buffer := make([]byte, c.length)
		count, err := reader.ReadAt(buffer, c.offset)
		if err != nil {
			t.Fatalf("read failed at offset %d: %v", c.offset, err)
		}
		if count != c.length {
			t.Fatalf("short read at offset %d: %d != %d", c.offset, count, c.length)
		}
		if !bytes.Equal(buffer, contents[c.offset:c.offset+int64(c.length)]) {
			t.Errorf("contents mismatch at offset %d", c.offset)
		}
	}
}

// TestSectorReaderEOF tests end-of-device behavior.
func TestSectorReaderEOF(t *testing.T) {
	contents := testDeviceContents(1024)
	device := &alignedOnlyReader{contents: contents, sectorSize: 512, t: t}
	reader, err := NewSectorReader(device, 512)
	if err != nil {
		t.Fatal("unable to create sector reader:", err)
	}

	// A read crossing the end of the device yields the available bytes and
	// EOF.
	buffer := make([]byte, 512)
	count, err := reader.ReadAt(buffer, 800)
	if err != io.EOF {
		t.Error("expected EOF for read crossing device end, got:", err)
	}
	if count != 224 {
		t.Error("unexpected byte count for read crossing device end:", count)
	}
	if !bytes.Equal(buffer[:count], contents[800:]) {
		t.Error("contents mismatch for read crossing device end")
	}

	// A read past the end of the device yields EOF.
	if count, err := reader.ReadAt(buffer, 2048); err != io.EOF || count != 0 {
		t.Error("unexpected result for read past device end:", count, err)
	}
}
