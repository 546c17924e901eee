package dialogue

import (
	"context"
	"errors"
	"image"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ironsheep/docscan/internal/ocr"
	"github.com/ironsheep/docscan/internal/speech"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type listenResult struct {
	text string
	err  error
}

// scriptedMedium plays back listen results in order. Once the script is
// exhausted Listen blocks until ctx ends.
type scriptedMedium struct {
	mu       sync.Mutex
	spoken   []string
	script   []listenResult
	listens  int
	speakErr error
}

func (m *scriptedMedium) Speak(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spoken = append(m.spoken, text)
	return m.speakErr
}

func (m *scriptedMedium) Listen(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.listens++
	if len(m.script) > 0 {
		r := m.script[0]
		m.script = m.script[1:]
		m.mu.Unlock()
		return r.text, r.err
	}
	m.mu.Unlock()

	<-ctx.Done()
	return "", &speech.RecognitionError{Code: speech.CodeAborted}
}

func fixedText(text string, err error) ocr.Recognizer {
	return ocr.RecognizerFunc(func(ctx context.Context, img image.Image) (string, error) {
		return text, err
	})
}

func newTestDialogue(rec ocr.Recognizer, m Medium) *Dialogue {
	cfg := DefaultConfig()
	cfg.WindowMS = 300
	cfg.RestartDelayMS = 5
	logger, _ := test.NewNullLogger()
	return New(cfg, rec, m, speech.NewPolicy(speech.DefaultRecoverableCodes()...), logrus.NewEntry(logger))
}

var page = image.NewGray(image.Rect(0, 0, 10, 14))

func TestConfirm_No(t *testing.T) {
	m := &scriptedMedium{script: []listenResult{{text: "아니오"}}}
	var phases []Phase
	out := newTestDialogue(fixedText("계약서 본문", nil), m).Confirm(context.Background(), page, func(p Phase) {
		phases = append(phases, p)
	})

	if out.Verdict != VerdictNo || !out.Valid() {
		t.Fatalf("got %+v, want a valid No", out)
	}
	if out.Transcript != "계약서 본문" || out.Heard != "아니오" {
		t.Errorf("transcript/heard: %q / %q", out.Transcript, out.Heard)
	}
	if len(phases) != 2 || phases[0] != PhaseTranscribing || phases[1] != PhaseConfirming {
		t.Errorf("phases: %v", phases)
	}
	if len(m.spoken) != 1 || !strings.Contains(m.spoken[0], "계약서 본문") {
		t.Errorf("read-back: %v", m.spoken)
	}
}

func TestConfirm_RestartsAfterNoSpeech(t *testing.T) {
	m := &scriptedMedium{script: []listenResult{
		{err: &speech.RecognitionError{Code: speech.CodeNoSpeech}},
		{text: ""},
		{text: "음"},
		{text: "네 맞아요"},
	}}
	out := newTestDialogue(fixedText("본문", nil), m).Confirm(context.Background(), page, nil)

	if out.Verdict != VerdictYes {
		t.Fatalf("got %+v, want Yes", out)
	}
	if m.listens != 4 {
		t.Errorf("listens: got %d, want 4 in one window", m.listens)
	}
}

func TestConfirm_NonRecoverableError(t *testing.T) {
	fail := &speech.RecognitionError{Code: speech.CodeNotAllowed}
	m := &scriptedMedium{script: []listenResult{{err: fail}}}
	out := newTestDialogue(fixedText("본문", nil), m).Confirm(context.Background(), page, nil)

	if out.Verdict != VerdictUnknown || out.Reason != ReasonListen {
		t.Fatalf("got %+v, want Unknown(%s)", out, ReasonListen)
	}
	if !errors.Is(out.Err, fail) {
		t.Errorf("Err: got %v", out.Err)
	}
}

func TestConfirm_Timeout(t *testing.T) {
	m := &scriptedMedium{script: []listenResult{{text: "글쎄"}}}
	start := time.Now()
	out := newTestDialogue(fixedText("본문", nil), m).Confirm(context.Background(), page, nil)

	if out.Verdict != VerdictUnknown || out.Reason != ReasonTimeout {
		t.Fatalf("got %+v, want Unknown(%s)", out, ReasonTimeout)
	}
	if out.Heard != "글쎄" {
		t.Errorf("heard: %q", out.Heard)
	}
	if elapsed := time.Since(start); elapsed < 250*time.Millisecond {
		t.Errorf("returned after %v, before the window closed", elapsed)
	}
}

func TestConfirm_RecognitionFailure(t *testing.T) {
	tests := []struct {
		name string
		text string
		err  error
	}{
		{"error", "", errors.New("service down")},
		{"empty", "   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &scriptedMedium{}
			var phases []Phase
			out := newTestDialogue(fixedText(tt.text, tt.err), m).Confirm(context.Background(), page, func(p Phase) {
				phases = append(phases, p)
			})

			if out.Verdict != VerdictUnknown || out.Reason != ReasonRecognition {
				t.Fatalf("got %+v, want Unknown(%s)", out, ReasonRecognition)
			}
			if len(m.spoken) != 0 || m.listens != 0 {
				t.Error("confirmation must not start after a recognition failure")
			}
			if len(phases) != 1 {
				t.Errorf("phases: %v", phases)
			}
		})
	}
}

func TestConfirm_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := &scriptedMedium{}
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	out := newTestDialogue(fixedText("본문", nil), m).Confirm(ctx, page, nil)
	if out.Verdict != VerdictUnknown || out.Reason != ReasonCancelled {
		t.Fatalf("got %+v, want Unknown(%s)", out, ReasonCancelled)
	}
}

func TestConfirm_ChannelStopped(t *testing.T) {
	m := &scriptedMedium{speakErr: speech.ErrStopped}
	out := newTestDialogue(fixedText("본문", nil), m).Confirm(context.Background(), page, nil)

	if out.Reason != ReasonCancelled {
		t.Fatalf("got %+v, want Unknown(%s)", out, ReasonCancelled)
	}
}

func TestConfirm_LongTextIsTruncated(t *testing.T) {
	m := &scriptedMedium{script: []listenResult{{text: "yes"}}}
	long := strings.Repeat("나", 900)
	out := newTestDialogue(fixedText(long, nil), m).Confirm(context.Background(), page, nil)

	if out.Verdict != VerdictYes {
		t.Fatalf("got %+v", out)
	}
	if out.Transcript != long {
		t.Error("outcome must carry the full transcript")
	}
	if !strings.Contains(m.spoken[0], ReadSuffix) || strings.Contains(m.spoken[0], strings.Repeat("나", 601)) {
		t.Error("read-back was not truncated to 600 runes")
	}
}
