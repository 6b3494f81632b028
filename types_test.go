package stdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	valid := map[string]Type{
		"U1":   {Kind: U1},
		"R8":   {Kind: R8},
		"N1":   {Kind: N1},
		"Dn":   {Kind: Dn},
		"Vn":   {Kind: Vn},
		"KxU2": {Kind: U2, Array: true},
		"K0N1": {Kind: N1, Array: true},
		"KnCn": {Kind: Cn, Array: true},
		"KxSn": {Kind: Sn, Array: true},
	}
	for tag, want := range valid {
		got, err := ParseType(tag)
		require.NoError(t, err, tag)
		assert.Equal(t, want, got, tag)
	}

	for _, tag := range []string{"", "X9", "Kx", "KxVn", "KyU1", "KxKxU1", "B0", "u1"} {
		_, err := ParseType(tag)
		assert.ErrorIs(t, err, ErrUnsupportedType, tag)
	}

	assert.Panics(t, func() { MustParseType("Q4") })
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "KxN1", MustParseType("K0N1").String())
	assert.Equal(t, "Cn", Type{Kind: Cn}.String())
	assert.Equal(t, "Kind(200)", Kind(200).String())
}

func TestKindSize(t *testing.T) {
	sizes := map[Kind]int{U1: 1, I1: 1, B1: 1, C1: 1, U2: 2, I2: 2, U4: 4, I4: 4, R4: 4, U8: 8, I8: 8, R8: 8, N1: 0, Cn: 0, Vn: 0}
	for k, size := range sizes {
		assert.Equal(t, size, k.Size(), k.String())
	}
	assert.True(t, Dn.IsVarLen())
	assert.False(t, Vn.IsVarLen())
	assert.False(t, N1.IsPrimitive())
}

func TestVnVocabulary(t *testing.T) {
	want := []Kind{B0, U1, U2, U4, I1, I2, I4, R4, R8, Cn, Bn, Dn, N1}
	require.Len(t, vnTypes, len(want))
	for i, k := range want {
		assert.Equal(t, k, vnTypes[i])
		code, ok := vnCode(k)
		require.True(t, ok)
		assert.Equal(t, byte(i), code)
	}
	_, ok := vnCode(U8)
	assert.False(t, ok)
}
