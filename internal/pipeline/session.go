package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/voicetranslate/internal/models"
	"github.com/yoockh/voicetranslate/internal/utils"
)

type Status string

const (
	StatusIdle         Status = "idle"
	StatusRecording    Status = "recording"
	StatusTranscribing Status = "transcribing"
	StatusSynthesizing Status = "synthesizing"
	StatusPlaying      Status = "playing"
	StatusError        Status = "error"
)

// state is one variant of the session. Each variant carries only the data valid in it.
type state interface {
	status() Status
	sessionID() uuid.UUID
}

type idleState struct{}

type recordingState struct{ id uuid.UUID }

type transcribingState struct{ id uuid.UUID }

type synthesizingState struct {
	id     uuid.UUID
	result models.TranslationResult
}

type playingState struct {
	id     uuid.UUID
	result models.TranslationResult
}

type errorState struct {
	id  uuid.UUID
	err error
}

func (idleState) status() Status { return StatusIdle }
func (recordingState) status() Status { return StatusRecording }
func (transcribingState) status() Status { return StatusTranscribing }
func (synthesizingState) status() Status { return StatusSynthesizing }
func (playingState) status() Status { return StatusPlaying }
func (errorState) status() Status { return StatusError }

func (idleState) sessionID() uuid.UUID { return uuid.Nil }
func (s recordingState) sessionID() uuid.UUID { return s.id }
func (s transcribingState) sessionID() uuid.UUID { return s.id }
func (s synthesizingState) sessionID() uuid.UUID { return s.id }
func (s playingState) sessionID() uuid.UUID { return s.id }
func (s errorState) sessionID() uuid.UUID { return s.id }

// Snapshot is a read-only view of the session for observers.
type Snapshot struct {
	Status         Status
	SessionID      uuid.UUID
	Transcript     string
	SourceLanguage string
	Err            error
}

type Options struct {
	Recorder    *Recorder
	Transcriber Transcriber
	Synthesizer Synthesizer
	Player      *Player
	Language    string
	Logger      *logrus.Logger

	// OnChange receives every transition. It runs under the session lock and must not
	// call back into the Session.
	OnChange func(Snapshot)
}

// Session drives one user's record, translate, speak loop.
type Session struct {
	rec      *Recorder
	tr       Transcriber
	synth    Synthesizer
	player   *Player
	lang     string
	log      *logrus.Entry
	onChange func(Snapshot)

	mu     sync.Mutex
	st     state
	last   *models.TranslationResult
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSession(o Options) *Session {
	l := o.Logger
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &Session{
		rec:      o.Recorder,
		tr:       o.Transcriber,
		synth:    o.Synthesizer,
		player:   o.Player,
		lang:     o.Language,
		log:      l.WithField("component", "session"),
		onChange: o.OnChange,
		st:       idleState{},
	}
}

// Start begins a new recording. It is rejected while another stage is active.
// Starting from Error acknowledges it.
func (s *Session) Start(ctx context.Context) error {
	const op = "Session.Start"

	s.mu.Lock()
	switch s.st.(type) {
	case idleState, errorState:
	default:
		s.mu.Unlock()
		return utils.E(utils.CodeConflict, op, "A translation is already in progress.", nil)
	}
	id := uuid.New()
	s.player.Release()
	s.set(recordingState{id: id})
	s.mu.Unlock()

	// Open may wait on a permission prompt; the lock is not held across it.
	err := s.rec.Start(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(id) {
		s.rec.Release()
		s.discard(id, "recording start")
		return nil
	}
	if err != nil {
		s.fail(id, err)
		return err
	}
	return nil
}

// Stop finalizes the recording and hands it to transcription. It is a no-op unless
// recording.
func (s *Session) Stop(ctx context.Context) error {
	s.mu.Lock()
	rs, ok := s.st.(recordingState)
	if !ok {
		s.mu.Unlock()
		return nil
	}
	id := rs.id
	s.set(transcribingState{id: id})
	s.mu.Unlock()

	blob, err := s.rec.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(id) {
		s.discard(id, "recording stop")
		return nil
	}
	if err != nil {
		s.fail(id, err)
		return err
	}

	runCtx := s.beginRun(ctx)
	go func() {
		defer s.wg.Done()
		s.transcribe(runCtx, id, blob)
	}()
	return nil
}

// Replay speaks the last translation again.
func (s *Session) Replay(ctx context.Context) error {
	const op = "Session.Replay"

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.(idleState); !ok {
		return utils.E(utils.CodeConflict, op, "A translation is already in progress.", nil)
	}
	if s.last == nil {
		return utils.E(utils.CodeInvalidArgument, op, "No translation to play.", nil)
	}

	id := uuid.New()
	res := *s.last
	s.set(synthesizingState{id: id, result: res})

	runCtx := s.beginRun(ctx)
	go func() {
		defer s.wg.Done()
		s.speak(runCtx, id, res)
	}()
	return nil
}

// StopPlayback halts playback and returns to Idle.
func (s *Session) StopPlayback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.(playingState); !ok {
		return
	}
	s.player.Stop()
	s.set(idleState{})
}

// Acknowledge clears an error.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.(errorState); ok {
		s.set(idleState{})
	}
}

// Reset abandons any in-flight run and releases every held resource. Late results of
// the abandoned run are discarded.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endRun()
	s.rec.Release()
	s.player.Release()
	if _, ok := s.st.(idleState); !ok {
		s.set(idleState{})
	}
}

// Close resets the session and waits for the abandoned run to return.
func (s *Session) Close() {
	s.Reset()
	s.Wait()
}

// Wait blocks until the in-flight run, if any, has returned.
func (s *Session) Wait() { s.wg.Wait() }

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) transcribe(ctx context.Context, id uuid.UUID, blob *Blob) {
	res, err := s.tr.Transcribe(ctx, blob, s.lang)
	if err == nil && res == nil {
		err = utils.E(utils.CodeMalformedResponse, "Session.transcribe", "Error during transcription.", nil)
	}

	s.mu.Lock()
	if !s.current(id) {
		s.mu.Unlock()
		s.discard(id, "transcription")
		return
	}
	if err != nil {
		s.fail(id, err)
		s.mu.Unlock()
		return
	}
	s.last = res
	s.set(synthesizingState{id: id, result: *res})
	s.mu.Unlock()

	s.speak(ctx, id, *res)
}

func (s *Session) speak(ctx context.Context, id uuid.UUID, res models.TranslationResult) {
	a, err := s.synth.Synthesize(ctx, res.DestinationTranscript)
	if err == nil {
		a, err = validateAudio(a)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.current(id) {
		if a != nil {
			_ = a.Body.Close()
		}
		s.discard(id, "synthesis")
		return
	}
	if err != nil {
		s.fail(id, err)
		return
	}

	if err := s.player.Play(ctx, a, func(perr error) { s.finishPlayback(id, perr) }); err != nil {
		s.fail(id, err)
		return
	}
	s.set(playingState{id: id, result: res})
}

func (s *Session) finishPlayback(id uuid.UUID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.(playingState); !ok || !s.current(id) {
		return
	}
	if err != nil {
		s.fail(id, err)
		return
	}
	s.set(idleState{})
}

// beginRun must be called with s.mu held.
func (s *Session) beginRun(ctx context.Context) context.Context {
	s.endRun()
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	return runCtx
}

func (s *Session) endRun() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// fail moves to Error and releases the microphone and the output device.
func (s *Session) fail(id uuid.UUID, err error) {
	s.endRun()
	s.rec.Release()
	s.player.Release()
	s.log.WithFields(logrus.Fields{
		"session_id": id.String(),
		"state":      s.st.status(),
		"code":       utils.CodeOf(err),
	}).WithError(err).Error("pipeline failed")
	s.set(errorState{id: id, err: err})
}

func (s *Session) current(id uuid.UUID) bool {
	return s.st.sessionID() == id
}

func (s *Session) discard(id uuid.UUID, stage string) {
	s.log.WithFields(logrus.Fields{
		"session_id": id.String(),
		"stage":      stage,
	}).Warn("discarding stale result")
}

func (s *Session) set(next state) {
	s.st = next
	snap := s.snapshot()
	s.log.WithFields(logrus.Fields{
		"session_id": snap.SessionID.String(),
		"state":      snap.Status,
	}).Debug("state changed")
	if s.onChange != nil {
		s.onChange(snap)
	}
}

func (s *Session) snapshot() Snapshot {
	snap := Snapshot{Status: s.st.status(), SessionID: s.st.sessionID()}
	switch st := s.st.(type) {
	case synthesizingState:
		snap.Transcript = st.result.DestinationTranscript
		snap.SourceLanguage = st.result.SourceLanguage
	case playingState:
		snap.Transcript = st.result.DestinationTranscript
		snap.SourceLanguage = st.result.SourceLanguage
	case errorState:
		snap.Err = st.err
	case idleState:
		if s.last != nil {
			snap.Transcript = s.last.DestinationTranscript
			snap.SourceLanguage = s.last.SourceLanguage
		}
	}
	return snap
}
