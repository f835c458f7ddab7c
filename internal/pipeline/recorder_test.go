package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/voicetranslate/internal/utils"
)

func TestRecorder_StopJoinsChunksInOrder(t *testing.T) {
	mic := &fakeMic{chunks: [][]byte{[]byte("ab"), []byte("cd"), []byte("ef")}}
	r := NewRecorder(mic, ConcatEncoder{MIMEType: "audio/webm"})

	require.NoError(t, r.Start(context.Background()))
	assert.Equal(t, RecorderRecording, r.Status())
	require.Eventually(t, func() bool { return len(r.Chunks()) == 3 }, time.Second, 5*time.Millisecond)

	blob, err := r.Stop()
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(blob.Data))
	assert.Equal(t, "audio/webm", blob.MIMEType)
	assert.Equal(t, RecorderStopped, r.Status())
	assert.EqualValues(t, 1, mic.last().closes.Load())
}

func TestRecorder_StopWhenIdleIsNoop(t *testing.T) {
	r := NewRecorder(&fakeMic{}, ConcatEncoder{})

	blob, err := r.Stop()
	assert.NoError(t, err)
	assert.Nil(t, blob)
	assert.Equal(t, RecorderIdle, r.Status())
}

func TestRecorder_SingleBlobPerRecording(t *testing.T) {
	mic := &fakeMic{chunks: [][]byte{[]byte("x")}}
	r := NewRecorder(mic, ConcatEncoder{})

	require.NoError(t, r.Start(context.Background()))
	first, err := r.Stop()
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := r.Stop()
	assert.NoError(t, err)
	assert.Nil(t, second)
}

func TestRecorder_StartWhileRecordingConflicts(t *testing.T) {
	r := NewRecorder(&fakeMic{}, ConcatEncoder{})
	require.NoError(t, r.Start(context.Background()))
	defer r.Release()

	err := r.Start(context.Background())
	assert.True(t, utils.IsCode(err, utils.CodeConflict))
}

func TestRecorder_MicRefused(t *testing.T) {
	r := NewRecorder(&fakeMic{err: errors.New("NotAllowedError")}, ConcatEncoder{})

	err := r.Start(context.Background())
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodePermissionDenied))
	assert.Equal(t, "Microphone access is required.", utils.Message(err))
	assert.Equal(t, RecorderIdle, r.Status())
}

func TestRecorder_ReleaseDropsCapture(t *testing.T) {
	mic := &fakeMic{}
	r := NewRecorder(mic, ConcatEncoder{})
	require.NoError(t, r.Start(context.Background()))

	r.Release()
	r.Release()

	assert.Equal(t, RecorderIdle, r.Status())
	assert.EqualValues(t, 1, mic.last().closes.Load())
	blob, err := r.Stop()
	assert.NoError(t, err)
	assert.Nil(t, blob)
}
