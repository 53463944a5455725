package codec

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rwagate/pkg/domain"
)

func TestTag(t *testing.T) {
	cases := map[string]string{
		"global:transfer_hook":                "dc39dc987e7d61a8",
		"spl-transfer-hook-interface:execute": "692565c54bfb661a",
		"account:AssetDetails":                "23cb85d99991e246",
	}
	for preimage, want := range cases {
		d := Tag(preimage)
		assert.Equal(t, want, hex.EncodeToString(d[:]), preimage)
	}
}

func TestWriterLayout(t *testing.T) {
	w := NewWriter(0)
	w.U8(1)
	w.U32(2)
	w.U64(3)
	w.Bool(true)
	w.String("ab")

	expected := []byte{
		1,
		2, 0, 0, 0,
		3, 0, 0, 0, 0, 0, 0, 0,
		1,
		2, 0, 0, 0, 'a', 'b',
	}
	assert.Equal(t, expected, w.Bytes())
}

func TestOptions(t *testing.T) {
	v := uint64(2000)
	b := false
	s := "ipfs://x"

	w := NewWriter(0)
	w.OptionU64(&v)
	w.OptionBool(nil)
	w.OptionBool(&b)
	w.OptionString(&s)
	w.OptionU64(nil)

	r := NewReader(w.Bytes())
	gotV := r.OptionU64()
	gotNil := r.OptionBool()
	gotB := r.OptionBool()
	gotS := r.OptionString()
	gotNilU := r.OptionU64()
	require.NoError(t, r.Err())
	assert.Equal(t, 0, r.Remaining())

	require.NotNil(t, gotV)
	assert.Equal(t, v, *gotV)
	assert.Nil(t, gotNil)
	require.NotNil(t, gotB)
	assert.False(t, *gotB)
	require.NotNil(t, gotS)
	assert.Equal(t, s, *gotS)
	assert.Nil(t, gotNilU)
}

func TestReaderErrors(t *testing.T) {
	t.Run("short input is sticky", func(t *testing.T) {
		r := NewReader([]byte{1, 2})
		_ = r.U64()
		assert.ErrorIs(t, r.Err(), ErrShortBuffer)
		assert.Equal(t, uint8(0), r.U8())
	})

	t.Run("string length beyond input", func(t *testing.T) {
		r := NewReader([]byte{0xff, 0xff, 0xff, 0x7f, 'a'})
		assert.Equal(t, "", r.String())
		assert.ErrorIs(t, r.Err(), ErrShortBuffer)
	})

	t.Run("bool must be 0 or 1", func(t *testing.T) {
		r := NewReader([]byte{2})
		r.Bool()
		assert.Error(t, r.Err())
	})

	t.Run("invalid utf8", func(t *testing.T) {
		r := NewReader([]byte{1, 0, 0, 0, 0xff})
		_ = r.String()
		assert.Error(t, r.Err())
	})
}

func TestAddressRoundTrip(t *testing.T) {
	var a domain.Address
	for i := range a {
		a[i] = byte(i)
	}
	w := NewWriter(32)
	w.Address(a)
	r := NewReader(w.Bytes())
	assert.Equal(t, a, r.Address())
	require.NoError(t, r.Err())
}
