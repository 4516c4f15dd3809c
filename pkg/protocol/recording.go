package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// maxRecordingLine bounds one JSON line of a recording.
const maxRecordingLine = 4 << 20

// RecordingWriter appends frames to a JSON-lines recording.
type RecordingWriter struct {
	enc    *json.Encoder
	frames uint64
}

// NewRecordingWriter creates a writer on w.
func NewRecordingWriter(w io.Writer) *RecordingWriter {
	return &RecordingWriter{enc: json.NewEncoder(w)}
}

// Write appends one frame. Frames without an id are numbered in order.
func (w *RecordingWriter) Write(f FrameData) error {
	w.frames++
	if f.FrameID == 0 {
		f.FrameID = w.frames
	}
	return w.enc.Encode(f)
}

// ReadRecording reads every frame of a JSON-lines recording. Blank lines
// are ignored.
func ReadRecording(r io.Reader) ([]FrameData, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), maxRecordingLine)

	var frames []FrameData
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var f FrameData
		if err := json.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("recording line %d: %w", line, err)
		}
		frames = append(frames, f)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	return frames, nil
}
