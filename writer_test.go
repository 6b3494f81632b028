package stdf

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/suite"
)

var errSink = errors.New("sink failed")

// failingWriter accepts n bytes, then fails every write.
type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if len(p) > w.n {
		k := w.n
		w.n = 0
		return k, errSink
	}
	w.n -= len(p)
	return len(p), nil
}

// closingBuffer records whether Close was called.
type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closingBuffer) Close() error {
	b.closed = true
	return nil
}

type WriterTestSuite struct {
	suite.Suite
	schema *Table
	buf    *bytes.Buffer
	writer *Writer
}

// SetupTest runs before each test in the suite, ensuring a clean state.
func (s *WriterTestSuite) SetupTest() {
	s.schema = testSchema(s.T())
	s.buf = &bytes.Buffer{}
	var err error
	s.writer, err = NewWriter(s.buf, s.schema)
	s.Require().NoError(err)
}

func (s *WriterTestSuite) TestConstructors() {
	_, err := NewWriter(nil, s.schema)
	s.ErrorIs(err, ErrNilIO)
	_, err = NewWriter(&bytes.Buffer{}, nil)
	s.ErrorIs(err, ErrNilSchema)
}

func (s *WriterTestSuite) TestWriteRecords() {
	s.Require().NoError(s.writer.WriteRecord("T1N", Map{"NIBBLE_1": 0xD, "NIBBLE_2": 0x7}))
	s.Require().NoError(s.writer.WriteRecord("TCn", Map{"STRING_1": "hidup"}))

	n, err := s.writer.Result()
	s.Require().NoError(err)
	want := concat(
		rawRecord(LE, 11, 4, 0x7D),
		rawRecord(LE, 11, 5, 0x05, 0x68, 0x69, 0x64, 0x75, 0x70),
	)
	s.Equal(want, s.buf.Bytes())
	s.EqualValues(len(want), n)
	s.Equal(2, s.writer.Records())
}

func (s *WriterTestSuite) TestFollowsFAR() {
	s.Require().NoError(s.writer.WriteRecord("FAR", Map{"CPU_TYPE": CPUSun, "STDF_VER": 4}))
	s.Equal(BE, s.writer.Order())
	s.Require().NoError(s.writer.WriteRecord("T1U", Map{"UNSIGNED_1": 0x81, "UNSIGNED_2": 0x8001, "UNSIGNED_4": 0x80000001}))
	s.Require().NoError(s.writer.Flush())

	want := concat(
		rawRecord(LE, 0, 10, CPUSun, 4),
		rawRecord(BE, 11, 1, 0x81, 0x80, 0x01, 0x80, 0x00, 0x00, 0x01),
	)
	s.Equal(want, s.buf.Bytes())
}

func (s *WriterTestSuite) TestPutUnknown() {
	rec := &Record{Name: UnknownName, Header: Header{Len: 2, Typ: 99, Sub: 9}, Fields: NewFields(0), Raw: []byte{0xCA, 0xFE}}
	s.Require().NoError(s.writer.Put(rec))
	s.Equal(rawRecord(LE, 99, 9, 0xCA, 0xFE), s.buf.Bytes())

	rec.Raw = make([]byte, MaxBodyLen+1)
	s.ErrorIs(s.writer.Put(rec), ErrLengthOverflow)
}

func (s *WriterTestSuite) TestCopy() {
	data := sampleStream()
	n, err := Copy(s.writer, Open(data, s.schema))
	s.Require().NoError(err)
	s.Equal(4, n)
	s.Require().NoError(s.writer.Flush())
	s.Equal(data, s.buf.Bytes())
}

func (s *WriterTestSuite) TestCopyStartOrder() {
	data := rawRecord(BE, 11, 1, 1, 0x01, 0x02)
	_, err := Copy(s.writer, Open(data, s.schema).WithByteOrder(BE))
	s.Require().NoError(err)
	s.Equal(data, s.buf.Bytes())
}

func (s *WriterTestSuite) TestCopyReportsReadError() {
	data := concat(rawRecord(LE, 11, 4, 0x7D), []byte{9, 0})
	n, err := Copy(s.writer, Open(data, s.schema))
	s.ErrorIs(err, ErrTruncatedHeader)
	s.Equal(1, n)
}

func (s *WriterTestSuite) TestEncodeErrorIsNotSticky() {
	err := s.writer.WriteRecord("NOPE", Map{})
	s.ErrorIs(err, ErrUnknownRecord)
	s.NoError(s.writer.Err())

	s.NoError(s.writer.WriteRecord("T1N", Map{"NIBBLE_1": 1}))
	s.Equal(rawRecord(LE, 11, 4, 0x01), s.buf.Bytes())
}

func (s *WriterTestSuite) TestErrorHandling() {
	s.Run("ShortWriteIsSticky", func() {
		w, err := NewWriter(&failingWriter{n: 3}, s.schema)
		s.Require().NoError(err)

		// buffered, so the failure surfaces on Flush
		s.Require().NoError(w.WriteRecord("T1N", Map{"NIBBLE_1": 1, "NIBBLE_2": 2}))
		err = w.Flush()
		s.Require().ErrorIs(err, errSink)

		s.ErrorIs(w.WriteRecord("T1N", Map{"NIBBLE_1": 1}), errSink)
		s.ErrorIs(w.Put(&Record{Name: "T1N", Fields: NewFields(0)}), errSink)
		_, err = w.Result()
		s.ErrorIs(err, errSink)
	})

	s.Run("CloseClosesSink", func() {
		sink := &closingBuffer{}
		w, err := NewWriter(sink, s.schema)
		s.Require().NoError(err)
		s.Require().NoError(w.WriteRecord("T1N", Map{"NIBBLE_1": 1}))
		s.Require().NoError(w.Close())
		s.True(sink.closed)
		s.Equal(rawRecord(LE, 11, 4, 0x01), sink.Bytes())
	})
}

func (s *WriterTestSuite) TestRoundTripThroughReader() {
	writes := []struct {
		name   string
		fields Map
	}{
		{"FAR", Map{"CPU_TYPE": CPUSun, "STDF_VER": 4}},
		{"SDR", Map{"HEAD_NUM": 1, "SITE_GRP": 2, "SITE_CNT": 3, "SITE_NUM": []uint8{1, 2, 3}, "HAND_TYP": "hh"}},
		{"GDR", Map{"GEN_DATA": []GenValue{{Kind: B0}, {Kind: I4, Value: int32(-7)}, {Kind: Dn, Value: Bits{Count: 3, Data: []byte{5}}}}}},
		{"T1F", Map{"FLOAT": float32(0.25), "DOUBLE": 1e300}},
	}
	for _, w := range writes {
		s.Require().NoError(s.writer.WriteRecord(w.name, w.fields))
	}
	s.Require().NoError(s.writer.Flush())

	r := Open(s.buf.Bytes(), s.schema)
	for _, w := range writes {
		rec, err := r.Next()
		s.Require().NoError(err)
		s.Equal(w.name, rec.Name)
		s.Equal(len(w.fields), rec.Fields.Len())
	}
	_, err := r.Next()
	s.Equal(io.EOF, err)
	s.Equal(BE, r.Order())
}

func TestWriter(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}
