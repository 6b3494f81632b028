package stdf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fieldList builds schema fields from alternating name/tag pairs.
func fieldList(pairs ...string) []Field {
	out := make([]Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Field{Name: pairs[i], Type: MustParseType(pairs[i+1])})
	}
	return out
}

func testSchema(t testing.TB) *Table {
	t.Helper()
	tbl, err := NewTable([]Entry{
		{Name: "FAR", Typ: 0, Sub: 10, Fields: fieldList("CPU_TYPE", "U1", "STDF_VER", "U1")},
		{Name: "T1U", Typ: 11, Sub: 1, Fields: fieldList("UNSIGNED_1", "U1", "UNSIGNED_2", "U2", "UNSIGNED_4", "U4")},
		{Name: "T1I", Typ: 11, Sub: 2, Fields: fieldList("SIGNED_1", "I1", "SIGNED_2", "I2", "SIGNED_4", "I4")},
		{Name: "T1F", Typ: 11, Sub: 3, Fields: fieldList("FLOAT", "R4", "DOUBLE", "R8")},
		{Name: "T1N", Typ: 11, Sub: 4, Fields: fieldList("NIBBLE_1", "N1", "NIBBLE_2", "N1")},
		{Name: "TCn", Typ: 11, Sub: 5, Fields: fieldList("STRING_1", "Cn", "STRING_2", "Cn", "STRING_7", "Cn")},
		{Name: "TBn", Typ: 11, Sub: 6, Fields: fieldList("BYTE_1", "Bn", "BYTE_2", "Bn", "BYTE_7", "Bn")},
		{Name: "TN3", Typ: 11, Sub: 7, Fields: fieldList("NIBBLE_1", "N1", "NIBBLE_2", "N1", "NIBBLE_3", "N1", "AFTER", "U1")},
		{Name: "T8", Typ: 11, Sub: 8, Fields: fieldList("U", "U8", "I", "I8", "S", "Sn", "C", "C1", "B", "B1")},
		{Name: "SDR", Typ: 1, Sub: 80, Fields: fieldList("HEAD_NUM", "U1", "SITE_GRP", "U1", "SITE_CNT", "U1", "SITE_NUM", "KxU1", "HAND_TYP", "Cn")},
		{Name: "FTR", Typ: 15, Sub: 20, Fields: fieldList(
			"TEST_NUM", "U4", "RTN_ICNT", "U2", "PGM_ICNT", "U2",
			"RTN_INDX", "KxU2", "RTN_STAT", "KxN1", "PGM_INDX", "KxU2", "PGM_STAT", "KxN1",
			"FAIL_PIN", "Dn", "VECT_NAM", "Cn")},
		{Name: "PLR", Typ: 1, Sub: 63, Fields: fieldList("GRP_CNT", "U2", "GRP_INDX", "KxU2", "PGM_CHAR", "KxCn")},
		{Name: "GDR", Typ: 50, Sub: 10, Fields: fieldList("GEN_DATA", "Vn")},
	})
	require.NoError(t, err)
	return tbl
}

// rawRecord builds a record from its header values and body bytes.
func rawRecord(order ByteOrder, typ, sub uint8, body ...byte) []byte {
	h := Header{Len: uint16(len(body)), Typ: typ, Sub: sub}
	return append(h.AppendTo(nil, order), body...)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
