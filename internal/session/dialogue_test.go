package session

import (
	"context"
	"image"
	"sync"
	"testing"

	"github.com/ironsheep/docscan/internal/dialogue"
	"github.com/ironsheep/docscan/internal/ocr"
	"github.com/ironsheep/docscan/internal/remote"
	"github.com/ironsheep/docscan/internal/speech"
	"github.com/sirupsen/logrus"
)

type heardResult struct {
	text string
	err  error
}

// answeringListener replies to recognition sessions from a script, then
// hears nothing until the session is stopped.
type answeringListener struct {
	mu     sync.Mutex
	script []heardResult
	calls  int
}

func (l *answeringListener) Listen(ctx context.Context, lang string) (string, error) {
	l.mu.Lock()
	l.calls++
	if len(l.script) > 0 {
		r := l.script[0]
		l.script = l.script[1:]
		l.mu.Unlock()
		return r.text, r.err
	}
	l.mu.Unlock()

	<-ctx.Done()
	return "", &speech.RecognitionError{Code: speech.CodeAborted}
}

func (l *answeringListener) sessions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// withDialogue builds the real confirmation dialogue over the harness
// channel, reading back transcript.
func withDialogue(transcript string) func(*speech.Channel, *logrus.Entry) Confirmer {
	return func(ch *speech.Channel, log *logrus.Entry) Confirmer {
		cfg := dialogue.DefaultConfig()
		cfg.WindowMS = 1000
		cfg.RestartDelayMS = 5
		rec := ocr.RecognizerFunc(func(ctx context.Context, img image.Image) (string, error) {
			return transcript, nil
		})
		return dialogue.New(cfg, rec, ch, speech.DefaultConfig().Policy(), log)
	}
}

func TestControllerDialogue_SpokenNoReturnsToScanning(t *testing.T) {
	li := &answeringListener{script: []heardResult{{text: "아니오"}}}
	created := false
	h := buildHarness(t, li, withDialogue("임대차 계약서"),
		func(ctx context.Context, text string) (*remote.Document, error) {
			created = true
			return nil, nil
		})

	j := h.captureOne(t)
	if h.ctrl.process(context.Background(), j) {
		t.Fatal("a spoken No must not commit")
	}

	if h.ctrl.State() != StateScanning {
		t.Errorf("state: got %v, want scanning", h.ctrl.State())
	}
	if _, frozen, unfreezes := h.source.snapshot(); frozen || unfreezes != 1 {
		t.Errorf("source frozen=%v unfreezes=%d, want unfrozen once", frozen, unfreezes)
	}
	if created {
		t.Error("document created after a spoken No")
	}
	if !h.speaker.said(dialogue.Prompt("임대차 계약서")) {
		t.Error("transcript was not read back")
	}
	if !h.speaker.said(noticeRetake) {
		t.Error("retake notice not spoken")
	}
}

func TestControllerDialogue_NoSpeechListensAgain(t *testing.T) {
	li := &answeringListener{script: []heardResult{
		{err: &speech.RecognitionError{Code: speech.CodeNoSpeech}},
		{text: "네"},
	}}
	h := buildHarness(t, li, withDialogue("임대차 계약서"),
		func(ctx context.Context, text string) (*remote.Document, error) {
			return &remote.Document{ID: 7, Title: "계약서"}, nil
		})

	j := h.captureOne(t)
	if !h.ctrl.process(context.Background(), j) {
		t.Fatalf("answer after a silent session did not commit, states %v", h.events.states())
	}
	if n := li.sessions(); n != 2 {
		t.Errorf("recognition sessions: got %d, want 2", n)
	}

	// The restart happens inside the confirmation state.
	confirming := false
	for _, s := range h.events.states() {
		switch s {
		case StateAwaitingConfirmation.String():
			confirming = true
		case StateScanning.String():
			if confirming {
				t.Fatalf("returned to scanning during the restart: %v", h.events.states())
			}
		case StateCommitting.String():
			confirming = false
		}
	}
	if res, ok := h.ctrl.Result(); !ok || res.DocumentID != 7 {
		t.Errorf("result: %+v, %v", res, ok)
	}
}
