package transcription

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"moving-quotes-go/internal/logger"
)

// AudioExtensions are the file types sent for transcription.
var AudioExtensions = []string{".m4a", ".mp3", ".mp4", ".wav", ".webm"}

func IsAudio(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range AudioExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ArtifactPath swaps the audio extension for .txt.
func ArtifactPath(audioPath string) string {
	return strings.TrimSuffix(audioPath, filepath.Ext(audioPath)) + ".txt"
}

type Failure struct {
	AudioPath string `json:"audio_path"`
	Error     string `json:"error"`
}

type Report struct {
	Written  []string  `json:"written"`
	Failures []Failure `json:"failures"`
}

// ProcessRecordings transcribes every audio file in dir and writes the text
// next to it. Files that fail are logged and skipped; only a directory read
// error stops the run.
func ProcessRecordings(ctx context.Context, dir string, tr Transcriber, log *logger.Logger) (Report, error) {
	l := log.WithComponent("recordings")

	f, err := os.Open(dir)
	if err != nil {
		return Report{}, fmt.Errorf("open dir: %w", err)
	}
	entries, err := f.ReadDir(-1)
	f.Close()
	if err != nil {
		return Report{}, fmt.Errorf("read dir: %w", err)
	}

	var rep Report
	for _, e := range entries {
		if !e.Type().IsRegular() || !IsAudio(e.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		audioPath := filepath.Join(dir, e.Name())
		l.WithField("file_name", e.Name()).Info("processing recording")

		out, err := transcribeOne(ctx, tr, audioPath)
		if err != nil {
			l.WithFields(logrus.Fields{"file_name": e.Name(), "error": err.Error()}).Error("transcription failed, skipping")
			rep.Failures = append(rep.Failures, Failure{AudioPath: audioPath, Error: err.Error()})
			continue
		}
		l.WithField("output_path", out).Info("transcription saved")
		rep.Written = append(rep.Written, out)
	}
	return rep, nil
}

func transcribeOne(ctx context.Context, tr Transcriber, audioPath string) (string, error) {
	text, err := tr.Transcribe(ctx, audioPath)
	if err != nil {
		return "", err
	}
	out := ArtifactPath(audioPath)
	if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}
