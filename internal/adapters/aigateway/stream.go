package aigateway

import (
	"bytes"
	"io"
)

// streamDoneSentinel terminates a chunked completion stream.
const streamDoneSentinel = "[DONE]"

// streamReader incrementally parses a server-sent-event byte stream
// into "data:" records. Partial lines are held in the buffer until the
// next network read completes them; nothing is ever discarded.
type streamReader struct {
	r       io.Reader
	pending []byte
	eof     bool
}

func newStreamReader(r io.Reader) *streamReader {
	return &streamReader{r: r}
}

// Next returns the payload of the next data record, or io.EOF once the
// stream is exhausted.
func (s *streamReader) Next() (string, error) {
	for {
		if record, ok := s.scanRecord(); ok {
			return record, nil
		}
		if s.eof {
			// Flush a trailing record that arrived without a final
			// newline before reporting end of stream.
			if record, ok := s.takeLine(s.pending); ok {
				s.pending = nil
				return record, nil
			}
			return "", io.EOF
		}
		if err := s.fill(); err != nil {
			return "", err
		}
	}
}

// scanRecord consumes complete lines from the buffer. It reports false
// when more data is needed, leaving the partial line in place.
func (s *streamReader) scanRecord() (string, bool) {
	for {
		idx := bytes.IndexByte(s.pending, '\n')
		if idx < 0 {
			return "", false
		}
		line := s.pending[:idx]
		s.pending = s.pending[idx+1:]
		if record, ok := s.takeLine(line); ok {
			return record, true
		}
	}
}

// takeLine extracts the payload from one complete line. Blank lines and
// non-data SSE fields (event:, id:, comments) are skipped.
func (s *streamReader) takeLine(line []byte) (string, bool) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return "", false
	}
	payload, ok := bytes.CutPrefix(line, []byte("data:"))
	if !ok {
		return "", false
	}
	return string(bytes.TrimSpace(payload)), true
}

func (s *streamReader) fill() error {
	buf := make([]byte, 4096)
	n, err := s.r.Read(buf)
	if n > 0 {
		s.pending = append(s.pending, buf[:n]...)
	}
	if err == io.EOF {
		s.eof = true
		return nil
	}
	return err
}
