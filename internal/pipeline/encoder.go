package pipeline

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavFormatPCM = 1

// ConcatEncoder joins chunks that are already encoded (e.g. by a browser MediaRecorder).
type ConcatEncoder struct {
	MIMEType string
}

func (e ConcatEncoder) Encode(chunks [][]byte) (*Blob, error) {
	return &Blob{Data: bytes.Join(chunks, nil), MIMEType: e.MIMEType}, nil
}

// WAVEncoder wraps 16-bit little-endian PCM chunks in a RIFF/WAV container.
type WAVEncoder struct {
	SampleRate  int
	NumChannels int
}

func (e WAVEncoder) Encode(chunks [][]byte) (*Blob, error) {
	samples := pcm16ToInts(chunks)
	if len(samples) == 0 {
		// no header-only blobs: an empty recording stays empty
		return &Blob{MIMEType: "audio/wav"}, nil
	}

	// wav.Encoder needs an io.WriteSeeker to patch the header sizes
	f, err := os.CreateTemp("", "recording-*.wav")
	if err != nil {
		return nil, fmt.Errorf("create wav file: %w", err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	enc := wav.NewEncoder(f, e.SampleRate, 16, e.NumChannels, wavFormatPCM)
	if err := enc.Write(&audio.IntBuffer{
		Data: samples,
		Format: &audio.Format{
			NumChannels: e.NumChannels,
			SampleRate:  e.SampleRate,
		},
		SourceBitDepth: 16,
	}); err != nil {
		return nil, fmt.Errorf("write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close wav encoder: %w", err)
	}

	data, err := os.ReadFile(f.Name())
	if err != nil {
		return nil, fmt.Errorf("read wav file: %w", err)
	}
	return &Blob{Data: data, MIMEType: "audio/wav"}, nil
}

func pcm16ToInts(chunks [][]byte) []int {
	var out []int
	for _, c := range chunks {
		for i := 0; i+1 < len(c); i += 2 {
			out = append(out, int(int16(binary.LittleEndian.Uint16(c[i:]))))
		}
	}
	return out
}

// EncodePCM16 serializes samples as 16-bit little-endian PCM, the chunk format
// WAVEncoder expects.
func EncodePCM16(samples []int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}
