package pipeline

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoockh/voicetranslate/internal/utils"
)

func newAudio(s string) (*Audio, *countingBody) {
	b := &countingBody{Reader: strings.NewReader(s)}
	return &Audio{Body: b, ContentType: "audio/mpeg"}, b
}

func TestPlayer_NewPlaybackReleasesPreviousOnce(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out)

	first, firstBody := newAudio("one")
	require.NoError(t, p.Play(context.Background(), first, nil))
	second, _ := newAudio("two")
	require.NoError(t, p.Play(context.Background(), second, nil))

	hs := out.opened()
	require.Len(t, hs, 2)
	assert.EqualValues(t, 1, hs[0].closes.Load())
	assert.EqualValues(t, 1, firstBody.closes.Load())
	assert.EqualValues(t, 0, hs[1].closes.Load())
	assert.True(t, p.Playing())

	assert.True(t, p.Release())
	assert.False(t, p.Release())
	assert.EqualValues(t, 1, hs[0].closes.Load())
	assert.EqualValues(t, 1, hs[1].closes.Load())
}

func TestPlayer_NaturalEndReleasesAndReports(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out)

	done := make(chan error, 1)
	a, _ := newAudio("ID3")
	require.NoError(t, p.Play(context.Background(), a, func(err error) { done <- err }))

	h := out.opened()[0]
	assert.Equal(t, "ID3", string(h.data))
	h.finish <- nil

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("done not called")
	}
	assert.False(t, p.Playing())
	assert.False(t, p.Release())
	assert.EqualValues(t, 1, h.closes.Load())
}

func TestPlayer_DeviceErrorReported(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out)

	done := make(chan error, 1)
	a, _ := newAudio("ID3")
	require.NoError(t, p.Play(context.Background(), a, func(err error) { done <- err }))
	out.opened()[0].finish <- errors.New("device lost")

	err := <-done
	assert.True(t, utils.IsCode(err, utils.CodePlayback))
}

func TestPlayer_StopSuppressesDone(t *testing.T) {
	out := &fakeOutput{}
	p := NewPlayer(out)

	called := make(chan struct{}, 1)
	a, _ := newAudio("ID3")
	require.NoError(t, p.Play(context.Background(), a, func(error) { called <- struct{}{} }))

	p.Stop()
	assert.False(t, p.Playing())
	select {
	case <-called:
		t.Fatal("done called after Stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPlayer_OpenRejected(t *testing.T) {
	p := NewPlayer(&fakeOutput{err: errors.New("no device")})

	a, body := newAudio("ID3")
	err := p.Play(context.Background(), a, nil)
	require.Error(t, err)
	assert.True(t, utils.IsCode(err, utils.CodePlayback))
	assert.Equal(t, "Audio playback failed", utils.Message(err))
	assert.EqualValues(t, 1, body.closes.Load())
	assert.False(t, p.Playing())
}

func TestValidateAudio(t *testing.T) {
	t.Run("keeps peeked bytes", func(t *testing.T) {
		a, _ := newAudio("ID3tag")
		got, err := validateAudio(a)
		require.NoError(t, err)
		data, err := io.ReadAll(got.Body)
		require.NoError(t, err)
		assert.Equal(t, "ID3tag", string(data))
	})

	t.Run("empty stream", func(t *testing.T) {
		a, body := newAudio("")
		_, err := validateAudio(a)
		assert.True(t, utils.IsCode(err, utils.CodeInvalidAudio))
		assert.EqualValues(t, 1, body.closes.Load())
	})

	t.Run("not audio", func(t *testing.T) {
		a, _ := newAudio(`{"error":"oops"}`)
		a.ContentType = "application/json"
		_, err := validateAudio(a)
		assert.True(t, utils.IsCode(err, utils.CodeInvalidAudio))
	})

	t.Run("nil", func(t *testing.T) {
		_, err := validateAudio(nil)
		assert.True(t, utils.IsCode(err, utils.CodeInvalidAudio))
	})
}
