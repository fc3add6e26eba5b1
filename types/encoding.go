package types

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// encoder builds the canonical recursive length-prefix encoding used for
// both persistence and wire framing (spec §6): every field is emitted as a
// length-prefixed byte string, and an encoded list is itself a
// length-prefixed concatenation of its encoded elements. This keeps the
// format trivially self-delimiting without a schema compiler, the same
// deliberate simplicity the teacher's config/log packages favor over
// generated code.
type encoder struct {
	bytes_ []byte
}

func newEncoder() *encoder { return &encoder{} }

func (e *encoder) bytes(b []byte) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(b)))
	e.bytes_ = append(e.bytes_, lenBuf[:]...)
	e.bytes_ = append(e.bytes_, b...)
}

func (e *encoder) uint64(v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	e.bytes_ = append(e.bytes_, buf[:]...)
}

func (e *encoder) list(items [][]byte) {
	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(items)))
	e.bytes_ = append(e.bytes_, lenBuf[:]...)
	for _, item := range items {
		e.bytes(item)
	}
}

// decoder walks a buffer produced by encoder in lock-step, used by the
// round-trip tests and by any component that needs to re-derive fields from
// an on-disk or on-wire record rather than re-deriving the hash only.
type decoder struct {
	buf []byte
	pos int
}

func newDecoder(buf []byte) *decoder { return &decoder{buf: buf} }

func (d *decoder) uint64() uint64 {
	v := binary.BigEndian.Uint64(d.buf[d.pos : d.pos+8])
	d.pos += 8
	return v
}

func (d *decoder) bytes() []byte {
	n := d.uint64()
	b := d.buf[d.pos : d.pos+int(n)]
	d.pos += int(n)
	return append([]byte(nil), b...)
}

func (d *decoder) listLen() uint64 { return d.uint64() }

// list reads a length-prefixed list of byte strings, the counterpart to
// encoder.list.
func (d *decoder) list() [][]byte {
	n := d.listLen()
	items := make([][]byte, n)
	for i := range items {
		items[i] = d.bytes()
	}
	return items
}

func (d *decoder) hash() Hash {
	var h Hash
	copy(h[:], d.bytes())
	return h
}

func (d *decoder) address() Address {
	var a Address
	copy(a[:], d.bytes())
	return a
}

// hashRLP is the canonical Keccak-256 hash over a canonically-encoded
// payload, per spec §6 ("hashes are Keccak-256 over that encoding").
func hashRLP(encoded []byte) Hash {
	h := sha3.NewLegacyKeccak256()
	h.Write(encoded)
	var out Hash
	h.Sum(out[:0])
	return out
}
