package aigateway

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkReader returns its input in fixed-size slices to simulate
// records arriving split across network reads.
type chunkReader struct {
	data  string
	pos   int
	chunk int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	end := r.pos + r.chunk
	if end > len(r.data) {
		end = len(r.data)
	}
	n := copy(p, r.data[r.pos:end])
	r.pos += n
	return n, nil
}

func collectRecords(t *testing.T, r io.Reader) []string {
	t.Helper()
	reader := newStreamReader(r)
	var records []string
	for {
		record, err := reader.Next()
		if err == io.EOF {
			return records
		}
		require.NoError(t, err)
		records = append(records, record)
	}
}

func TestStreamReader_WholeRecords(t *testing.T) {
	input := "data: {\"a\":1}\n\ndata: {\"b\":2}\n\ndata: [DONE]\n\n"
	records := collectRecords(t, strings.NewReader(input))
	assert.Equal(t, []string{`{"a":1}`, `{"b":2}`, "[DONE]"}, records)
}

func TestStreamReader_RecordsSplitAcrossReads(t *testing.T) {
	input := "data: {\"delta\":\"hello world\"}\n\ndata: {\"delta\":\"!\"}\n\ndata: [DONE]\n\n"
	// 3-byte reads guarantee every record is split multiple times and
	// the partial line is buffered rather than discarded.
	records := collectRecords(t, &chunkReader{data: input, chunk: 3})
	assert.Equal(t, []string{`{"delta":"hello world"}`, `{"delta":"!"}`, "[DONE]"}, records)
}

func TestStreamReader_SkipsCommentsAndBlankLines(t *testing.T) {
	input := ": keep-alive\n\nevent: message\ndata: {\"x\":1}\n\n\n\ndata: [DONE]\n\n"
	records := collectRecords(t, strings.NewReader(input))
	assert.Equal(t, []string{`{"x":1}`, "[DONE]"}, records)
}

func TestStreamReader_CRLFLineEndings(t *testing.T) {
	input := "data: {\"x\":1}\r\n\r\ndata: [DONE]\r\n"
	records := collectRecords(t, strings.NewReader(input))
	assert.Equal(t, []string{`{"x":1}`, "[DONE]"}, records)
}

func TestStreamReader_TrailingRecordWithoutNewline(t *testing.T) {
	input := "data: {\"x\":1}\n\ndata: [DONE]"
	records := collectRecords(t, strings.NewReader(input))
	assert.Equal(t, []string{`{"x":1}`, "[DONE]"}, records)
}

func TestStreamReader_EmptyStream(t *testing.T) {
	records := collectRecords(t, strings.NewReader(""))
	assert.Empty(t, records)
}

func TestDecodeDelta(t *testing.T) {
	delta, ok := decodeDelta(`{"choices":[{"delta":{"content":"hi"}}]}`)
	assert.True(t, ok)
	assert.Equal(t, "hi", delta)

	_, ok = decodeDelta(`{"choices":[{"delta":`)
	assert.False(t, ok, "malformed record must be reported, not panic")

	delta, ok = decodeDelta(`{"choices":[]}`)
	assert.True(t, ok)
	assert.Empty(t, delta)
}
