package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yoockh/voicetranslate/internal/logger"
	"github.com/yoockh/voicetranslate/internal/pipeline"
	"github.com/yoockh/voicetranslate/internal/pipeline/portaudio"
	"github.com/yoockh/voicetranslate/internal/utils"
)

const usage = `commands:
  r  start recording
  s  stop recording and translate
  p  stop playback
  t  play the last translation again
  a  dismiss an error
  q  quit`

func main() {
	_ = godotenv.Load()

	server := flag.String("server", "http://localhost:8080", "voicetranslate server base URL")
	lang := flag.String("lang", "English", "destination language")
	player := flag.String("player", "ffplay", "audio player command, fed mp3 on stdin")
	sampleRate := flag.Int("sample-rate", 16000, "microphone sample rate in Hz")
	flag.Parse()

	log := logger.NewText(os.Stderr, os.Getenv("LOG_LEVEL"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := pipeline.NewFFPlayOutput()
	if *player != "ffplay" {
		out = &pipeline.ExecOutput{Command: *player, Args: []string{"-"}}
	}

	client := pipeline.NewClient(*server)
	session := pipeline.NewSession(pipeline.Options{
		Recorder: pipeline.NewRecorder(
			&portaudio.Microphone{SampleRate: *sampleRate},
			pipeline.WAVEncoder{SampleRate: *sampleRate, NumChannels: 1},
		),
		Transcriber: client,
		Synthesizer: client,
		Player:      pipeline.NewPlayer(out),
		Language:    *lang,
		Logger:      log,
		OnChange:    printSnapshot,
	})
	defer session.Close()

	fmt.Println(usage)

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			var err error
			switch line {
			case "r":
				err = session.Start(ctx)
			case "s":
				err = session.Stop(ctx)
			case "p":
				session.StopPlayback()
			case "t":
				err = session.Replay(ctx)
			case "a":
				session.Acknowledge()
			case "q":
				return
			case "":
			default:
				fmt.Println(usage)
			}
			if err != nil && utils.IsCode(err, utils.CodeConflict) {
				fmt.Println("busy:", utils.Message(err))
			} else if err != nil && utils.IsCode(err, utils.CodeInvalidArgument) {
				fmt.Println(utils.Message(err))
			}
		}
	}
}

func printSnapshot(s pipeline.Snapshot) {
	switch s.Status {
	case pipeline.StatusRecording:
		fmt.Println("recording... (s to stop)")
	case pipeline.StatusTranscribing:
		fmt.Println("translating...")
	case pipeline.StatusSynthesizing:
		fmt.Printf("[%s] %s\n", s.SourceLanguage, s.Transcript)
	case pipeline.StatusPlaying:
		fmt.Println("playing...")
	case pipeline.StatusError:
		fmt.Println("error:", utils.Message(s.Err))
	case pipeline.StatusIdle:
		fmt.Println("ready")
	}
}
