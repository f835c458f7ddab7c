package pipeline

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/yoockh/voicetranslate/internal/utils"
)

// Blob is one finalized recording.
type Blob struct {
	Data     []byte
	MIMEType string
}

func (b *Blob) Empty() bool { return b == nil || len(b.Data) == 0 }

// Microphone opens a capture. Open may block on a permission prompt.
type Microphone interface {
	Open(ctx context.Context) (Capture, error)
}

// Capture is a live hardware input. Close releases every underlying track and makes
// a pending ReadChunk return io.EOF.
type Capture interface {
	ReadChunk() ([]byte, error)
	Close() error
}

// Encoder finalizes captured chunks, in arrival order, into one blob.
type Encoder interface {
	Encode(chunks [][]byte) (*Blob, error)
}

type RecorderStatus string

const (
	RecorderIdle      RecorderStatus = "idle"
	RecorderRecording RecorderStatus = "recording"
	RecorderStopped   RecorderStatus = "stopped"
)

// take is the state of one recording; only its reader goroutine appends to chunks.
type take struct {
	capture Capture
	done    chan struct{}

	mu     sync.Mutex
	chunks [][]byte
	err    error
}

func (t *take) read() {
	defer close(t.done)
	for {
		chunk, err := t.capture.ReadChunk()
		if len(chunk) > 0 {
			t.mu.Lock()
			t.chunks = append(t.chunks, chunk)
			t.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.mu.Lock()
				t.err = err
				t.mu.Unlock()
			}
			return
		}
	}
}

// Recorder owns the microphone for one recording at a time.
type Recorder struct {
	mic Microphone
	enc Encoder

	mu     sync.Mutex
	status RecorderStatus
	cur    *take
}

func NewRecorder(mic Microphone, enc Encoder) *Recorder {
	return &Recorder{mic: mic, enc: enc, status: RecorderIdle}
}

func (r *Recorder) Status() RecorderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Start discards any previous recording and begins a new one.
func (r *Recorder) Start(ctx context.Context) error {
	const op = "Recorder.Start"

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cur != nil {
		return utils.E(utils.CodeConflict, op, "already recording", nil)
	}

	c, err := r.mic.Open(ctx)
	if err != nil {
		return utils.E(utils.CodePermissionDenied, op, "Microphone access is required.", err)
	}

	t := &take{capture: c, done: make(chan struct{})}
	r.cur = t
	r.status = RecorderRecording
	go t.read()
	return nil
}

// Stop releases the capture and finalizes the recording. It returns (nil, nil) when
// not recording, so a recording yields at most one blob.
func (r *Recorder) Stop() (*Blob, error) {
	const op = "Recorder.Stop"

	t := r.detach(RecorderStopped)
	if t == nil {
		return nil, nil
	}
	closeErr := t.capture.Close()
	<-t.done

	t.mu.Lock()
	chunks, readErr := t.chunks, t.err
	t.mu.Unlock()

	if readErr != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "audio capture failed", readErr)
	}
	if closeErr != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to release microphone", closeErr)
	}

	blob, err := r.enc.Encode(chunks)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "Error processing audio.", err)
	}
	return blob, nil
}

// Release drops an active capture without producing a blob. Safe to call at any time.
func (r *Recorder) Release() {
	t := r.detach(RecorderIdle)
	if t == nil {
		return
	}
	_ = t.capture.Close()
	<-t.done
}

func (r *Recorder) detach(next RecorderStatus) *take {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.cur
	if t == nil {
		return nil
	}
	r.cur = nil
	r.status = next
	return t
}

// Chunks returns a copy of the chunks captured so far by the active recording.
func (r *Recorder) Chunks() [][]byte {
	r.mu.Lock()
	t := r.cur
	r.mu.Unlock()
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([][]byte(nil), t.chunks...)
}
