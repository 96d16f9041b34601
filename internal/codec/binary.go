package codec

import (
	"encoding/binary"
	"fmt"
	"sort"

	"localkms/internal/domain"
)

// binaryRevision is bumped whenever the binary layout changes.
const binaryRevision uint16 = 1

// Binary is the compact binary snapshot encoding.
//
// Layout, all integers little-endian:
//
//	revision  u16
//	count     u64
//	entries   u64
//	per entry, ascending by version:
//	  version u64
//	  datalen u64
//	  data    [datalen]byte
//	  created u64
type Binary struct{}

func (Binary) Encode(snap domain.Snapshot) ([]byte, error) {
	versions := make([]uint64, 0, len(snap.Store))
	size := 2 + 8 + 8
	for version, rec := range snap.Store {
		versions = append(versions, version)
		size += 8 + 8 + len(rec.Data) + 8
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] < versions[j] })

	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint16(out, binaryRevision)
	out = binary.LittleEndian.AppendUint64(out, snap.Count)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(versions)))
	for _, version := range versions {
		rec := snap.Store[version]
		out = binary.LittleEndian.AppendUint64(out, version)
		out = binary.LittleEndian.AppendUint64(out, uint64(len(rec.Data)))
		out = append(out, rec.Data...)
		out = binary.LittleEndian.AppendUint64(out, rec.Created)
	}
	return out, nil
}

func (Binary) Decode(data []byte) (domain.Snapshot, error) {
	cur := cursor{buf: data}

	revision, err := cur.uint16()
	if err != nil {
		return domain.Snapshot{}, err
	}
	if revision > binaryRevision {
		return domain.Snapshot{}, fmt.Errorf("%w: %d", ErrRevision, revision)
	}

	count, err := cur.uint64()
	if err != nil {
		return domain.Snapshot{}, err
	}
	entries, err := cur.uint64()
	if err != nil {
		return domain.Snapshot{}, err
	}

	snap := domain.Snapshot{
		Count: count,
		Store: make(map[uint64]domain.KeyRecord, entries),
	}
	for i := uint64(0); i < entries; i++ {
		version, err := cur.uint64()
		if err != nil {
			return domain.Snapshot{}, err
		}
		datalen, err := cur.uint64()
		if err != nil {
			return domain.Snapshot{}, err
		}
		payload, err := cur.bytes(datalen)
		if err != nil {
			return domain.Snapshot{}, err
		}
		created, err := cur.uint64()
		if err != nil {
			return domain.Snapshot{}, err
		}
		snap.Store[version] = domain.KeyRecord{Data: payload, Created: created}
	}
	if cur.remaining() != 0 {
		return domain.Snapshot{}, fmt.Errorf("%w: %d trailing bytes", ErrMalformed, cur.remaining())
	}
	return snap, nil
}

// cursor walks a byte slice with bounds checking.
type cursor struct {
	buf []byte
	off int
}

func (c *cursor) remaining() int { return len(c.buf) - c.off }

func (c *cursor) uint16() (uint16, error) {
	if c.remaining() < 2 {
		return 0, fmt.Errorf("%w: truncated", ErrMalformed)
	}
	v := binary.LittleEndian.Uint16(c.buf[c.off:])
	c.off += 2
	return v, nil
}

func (c *cursor) uint64() (uint64, error) {
	if c.remaining() < 8 {
		return 0, fmt.Errorf("%w: truncated", ErrMalformed)
	}
	v := binary.LittleEndian.Uint64(c.buf[c.off:])
	c.off += 8
	return v, nil
}

func (c *cursor) bytes(n uint64) ([]byte, error) {
	if n > uint64(c.remaining()) {
		return nil, fmt.Errorf("%w: truncated", ErrMalformed)
	}
	out := append([]byte(nil), c.buf[c.off:c.off+int(n)]...)
	c.off += int(n)
	return out, nil
}

var _ Codec = Binary{}
