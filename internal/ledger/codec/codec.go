// Package codec reads and writes the little-endian, length-prefixed binary layout
// used for instruction arguments and account data.
//
// Integers are fixed-width little-endian, bool is one byte (0 or 1), strings and
// byte vectors carry a u32 length prefix, and optional values carry a one-byte
// presence flag followed by the value when present.
package codec

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"

	"rwagate/pkg/domain"
)

// DiscriminatorLength is the width of instruction and account-type tags.
const DiscriminatorLength = 8

// Discriminator is an 8-byte tag selecting an instruction or account type.
type Discriminator [DiscriminatorLength]byte

// Tag returns sha256(preimage)[:8].
func Tag(preimage string) Discriminator {
	sum := sha256.Sum256([]byte(preimage))
	var d Discriminator
	copy(d[:], sum[:DiscriminatorLength])
	return d
}

// ErrShortBuffer is returned when input ends before a value is complete.
var ErrShortBuffer = errors.New("codec: unexpected end of input")

// Writer appends encoded values to a growing buffer.
type Writer struct {
	buf []byte
}

func NewWriter(capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity)}
}

func (w *Writer) Bytes() []byte { return w.buf }
func (w *Writer) Len() int      { return len(w.buf) }

func (w *Writer) Discriminator(d Discriminator) { w.buf = append(w.buf, d[:]...) }
func (w *Writer) U8(v uint8)                    { w.buf = append(w.buf, v) }
func (w *Writer) U32(v uint32)                  { w.buf = binary.LittleEndian.AppendUint32(w.buf, v) }
func (w *Writer) U64(v uint64)                  { w.buf = binary.LittleEndian.AppendUint64(w.buf, v) }
func (w *Writer) I64(v int64)                   { w.U64(uint64(v)) }
func (w *Writer) Address(a domain.Address)      { w.buf = append(w.buf, a[:]...) }
func (w *Writer) Raw(b []byte)                  { w.buf = append(w.buf, b...) }

func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
		return
	}
	w.U8(0)
}

func (w *Writer) String(s string) {
	w.U32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *Writer) OptionU64(v *uint64) {
	w.Bool(v != nil)
	if v != nil {
		w.U64(*v)
	}
}

func (w *Writer) OptionBool(v *bool) {
	w.Bool(v != nil)
	if v != nil {
		w.Bool(*v)
	}
}

func (w *Writer) OptionString(v *string) {
	w.Bool(v != nil)
	if v != nil {
		w.String(*v)
	}
}

// Reader consumes encoded values from a buffer. The first error is sticky: once a
// read fails every subsequent read returns zero values and Err reports the failure.
type Reader struct {
	buf []byte
	off int
	err error
}

func NewReader(b []byte) *Reader {
	return &Reader{buf: b}
}

func (r *Reader) Err() error { return r.err }

// Remaining is the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.off }

func (r *Reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || r.Remaining() < n {
		r.err = ErrShortBuffer
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) Discriminator() Discriminator {
	var d Discriminator
	copy(d[:], r.take(DiscriminatorLength))
	return d
}

func (r *Reader) U8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *Reader) U32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *Reader) U64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *Reader) I64() int64 { return int64(r.U64()) }

func (r *Reader) Bool() bool {
	v := r.U8()
	if r.err == nil && v > 1 {
		r.err = fmt.Errorf("codec: invalid bool byte %d", v)
		return false
	}
	return v == 1
}

func (r *Reader) Address() domain.Address {
	var a domain.Address
	copy(a[:], r.take(domain.AddressLength))
	return a
}

func (r *Reader) Raw(n int) []byte {
	return append([]byte(nil), r.take(n)...)
}

func (r *Reader) String() string {
	n := r.U32()
	if r.err != nil {
		return ""
	}
	if uint64(n) > uint64(r.Remaining()) {
		r.err = ErrShortBuffer
		return ""
	}
	b := r.take(int(n))
	if !utf8.Valid(b) {
		r.err = errors.New("codec: string is not valid UTF-8")
		return ""
	}
	return string(b)
}

func (r *Reader) OptionU64() *uint64 {
	if !r.Bool() {
		return nil
	}
	v := r.U64()
	if r.err != nil {
		return nil
	}
	return &v
}

func (r *Reader) OptionBool() *bool {
	if !r.Bool() {
		return nil
	}
	v := r.Bool()
	if r.err != nil {
		return nil
	}
	return &v
}

func (r *Reader) OptionString() *string {
	if !r.Bool() {
		return nil
	}
	v := r.String()
	if r.err != nil {
		return nil
	}
	return &v
}
