package inventory

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/roach88/invgui/internal/item"
)

// Persisted format tags.
const (
	// FormatTag is written by Serialize.
	FormatTag byte = 4
	// LegacyFormatTag marks data that carries a capacities blob before the
	// item sequence. The blob is skipped on load.
	LegacyFormatTag byte = 3
)

// maxBlobLen bounds a single length prefix so corrupt data cannot force
// huge allocations.
const maxBlobLen = 1 << 24

// Serialize writes v in the persisted store format:
//
//	uuid_high:i64 uuid_low:i64 tag:u8
//	count:i32 { len:i32 bytes }*count
//
// All integers are big-endian. Empty slots are zero-length blobs; occupied
// slots hold item.Marshal output. Capacities are not written.
func (v *Virtual) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)

	hi := binary.BigEndian.Uint64(v.id[0:8])
	lo := binary.BigEndian.Uint64(v.id[8:16])
	if err := binary.Write(bw, binary.BigEndian, int64(hi)); err != nil {
		return fmt.Errorf("serialize inventory: %w", err)
	}
	if err := binary.Write(bw, binary.BigEndian, int64(lo)); err != nil {
		return fmt.Errorf("serialize inventory: %w", err)
	}
	if err := bw.WriteByte(FormatTag); err != nil {
		return fmt.Errorf("serialize inventory: %w", err)
	}

	blobs := make([][]byte, len(v.items))
	for i, s := range v.items {
		if s == nil {
			continue
		}
		data, err := item.Marshal(s)
		if err != nil {
			return fmt.Errorf("serialize inventory: slot %d: %w", i, err)
		}
		blobs[i] = data
	}
	if err := writeBlobs(bw, blobs); err != nil {
		return fmt.Errorf("serialize inventory: %w", err)
	}
	return bw.Flush()
}

// MarshalBinary returns the persisted form of v.
func (v *Virtual) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Deserialize reads a Virtual written by Serialize, or in the legacy
// format. Every slot gets the default capacity, raised where a stored stack
// holds more than that.
func Deserialize(r io.Reader, opts ...Option) (*Virtual, error) {
	cr := &countingReader{r: r}

	var hi, lo int64
	if err := binary.Read(cr, binary.BigEndian, &hi); err != nil {
		return nil, cr.fail(err)
	}
	if err := binary.Read(cr, binary.BigEndian, &lo); err != nil {
		return nil, cr.fail(err)
	}
	var id uuid.UUID
	binary.BigEndian.PutUint64(id[0:8], uint64(hi))
	binary.BigEndian.PutUint64(id[8:16], uint64(lo))

	var tag [1]byte
	if _, err := io.ReadFull(cr, tag[:]); err != nil {
		return nil, cr.fail(err)
	}
	switch tag[0] {
	case FormatTag:
	case LegacyFormatTag:
		if _, err := cr.readBlob(); err != nil {
			return nil, err
		}
	default:
		return nil, cr.fail(fmt.Errorf("unknown format tag %d", tag[0]))
	}

	blobs, err := cr.readBlobs()
	if err != nil {
		return nil, err
	}

	items := make([]*item.Stack, len(blobs))
	caps := make([]int, len(blobs))
	for i, blob := range blobs {
		caps[i] = item.DefaultMaxStack
		if len(blob) == 0 {
			continue
		}
		s, err := item.Unmarshal(blob)
		if err != nil {
			return nil, &DecodeError{Offset: cr.n, Err: fmt.Errorf("slot %d: %w", i, err)}
		}
		items[i] = s
		caps[i] = max(caps[i], s.Amount)
	}

	v, err := NewVirtual(id, len(items), items, caps, opts...)
	if err != nil {
		return nil, &DecodeError{Offset: cr.n, Err: err}
	}
	return v, nil
}

// UnmarshalVirtual decodes data written by MarshalBinary.
func UnmarshalVirtual(data []byte, opts ...Option) (*Virtual, error) {
	return Deserialize(bytes.NewReader(data), opts...)
}

func writeBlobs(w io.Writer, blobs [][]byte) error {
	if err := binary.Write(w, binary.BigEndian, int32(len(blobs))); err != nil {
		return err
	}
	for _, b := range blobs {
		if err := binary.Write(w, binary.BigEndian, int32(len(b))); err != nil {
			return err
		}
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// countingReader tracks the read offset for error reporting.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (c *countingReader) fail(err error) error {
	if errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return &DecodeError{Offset: c.n, Err: err}
}

func (c *countingReader) readLen() (int, error) {
	var n int32
	if err := binary.Read(c, binary.BigEndian, &n); err != nil {
		return 0, c.fail(err)
	}
	if n < 0 || n > maxBlobLen {
		return 0, c.fail(fmt.Errorf("invalid length %d", n))
	}
	return int(n), nil
}

func (c *countingReader) readBlob() ([]byte, error) {
	n, err := c.readLen()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c, buf); err != nil {
		return nil, c.fail(err)
	}
	return buf, nil
}

func (c *countingReader) readBlobs() ([][]byte, error) {
	count, err := c.readLen()
	if err != nil {
		return nil, err
	}
	blobs := make([][]byte, 0, min(count, 1024))
	for i := 0; i < count; i++ {
		b, err := c.readBlob()
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, b)
	}
	return blobs, nil
}
