package pipeline

import (
	"bytes"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWAVEncoder_RoundTrip(t *testing.T) {
	samples := []int16{0, 1200, -1200, 32767, -32768}
	chunks := [][]byte{EncodePCM16(samples[:2]), EncodePCM16(samples[2:])}

	blob, err := WAVEncoder{SampleRate: 16000, NumChannels: 1}.Encode(chunks)
	require.NoError(t, err)
	assert.Equal(t, "audio/wav", blob.MIMEType)
	require.True(t, bytes.HasPrefix(blob.Data, []byte("RIFF")))

	dec := wav.NewDecoder(bytes.NewReader(blob.Data))
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.EqualValues(t, 16000, dec.SampleRate)
	assert.EqualValues(t, 1, dec.NumChans)
	require.Len(t, buf.Data, len(samples))
	for i, s := range samples {
		assert.Equal(t, int(s), buf.Data[i])
	}
}

func TestWAVEncoder_EmptyRecording(t *testing.T) {
	blob, err := WAVEncoder{SampleRate: 16000, NumChannels: 1}.Encode(nil)
	require.NoError(t, err)
	assert.True(t, blob.Empty())
}

func TestPCM16_OddTrailingByteDropped(t *testing.T) {
	got := pcm16ToInts([][]byte{{0x01, 0x00, 0xff}})
	assert.Equal(t, []int{1}, got)
}
