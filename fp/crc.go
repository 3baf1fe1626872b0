package fp

import (
	"encoding/binary"
	"hash/crc32"
)

// WriteCRC32 folds f's raw representation into a running CRC32 hash, little-
// endian, matching the wire format's byte order requirement.
func (f Fixed) WriteCRC32(h hash32Writer) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(f))
	h.Write(buf[:])
}

// hash32Writer is satisfied by hash.Hash32 (and hash.Hash in general);
// defined locally to avoid importing "hash" just for the interface name.
type hash32Writer interface {
	Write(p []byte) (n int, err error)
}

// CRC32 computes the CRC32 checksum of f in isolation. Mostly useful for
// tests; production checksums chain many fields through WriteCRC32 into one
// running hash (see the snapshot and collider packages).
func (f Fixed) CRC32() uint32 {
	h := crc32.NewIEEE()
	f.WriteCRC32(h)
	return h.Sum32()
}
