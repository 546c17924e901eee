package dialogue

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultYesKeywords(), DefaultNoKeywords())

	tests := []struct {
		heard string
		want  Verdict
		ok    bool
	}{
		{"맞아요", VerdictYes, true},
		{"네 맞습니다", VerdictYes, true},
		{"OK", VerdictYes, true},
		{"  Okay  ", VerdictYes, true},
		{"아니오", VerdictNo, true},
		{"아니예요", VerdictNo, true},
		{"아니 네", VerdictNo, true},
		{"네 아니", VerdictYes, true},
		{"다시 찍어 주세요", VerdictNo, true},
		{"재 촬영", VerdictNo, true},
		{"맞 아 요", VerdictYes, true},
		{"음", VerdictUnknown, false},
		{"", VerdictUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.heard, func(t *testing.T) {
			got, ok := c.Classify(tt.heard)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Classify(%q) = %v, %v; want %v, %v", tt.heard, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestClassify_LongerKeywordWinsTie(t *testing.T) {
	c := NewClassifier([]string{"no way"}, []string{"no"})

	if got, _ := c.Classify("No way!"); got != VerdictYes {
		t.Errorf("got %v, want the longer keyword's verdict", got)
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("가", 700)

	got := Truncate(long, 600, ReadSuffix)
	if !strings.HasSuffix(got, ReadSuffix) {
		t.Error("missing suffix")
	}
	if n := len([]rune(strings.TrimSuffix(got, ReadSuffix))); n != 600 {
		t.Errorf("kept %d runes, want 600", n)
	}

	if got := Truncate("짧은 글", 600, ReadSuffix); got != "짧은 글" {
		t.Errorf("short text changed: %q", got)
	}
	if got := Truncate(long, 0, ReadSuffix); got != long {
		t.Error("max 0 should not truncate")
	}
}

func TestOutcome_Valid(t *testing.T) {
	tests := []struct {
		name string
		o    Outcome
		want bool
	}{
		{"zero", Outcome{}, false},
		{"yes", Yes("t", "네"), true},
		{"no", No("t", "아니"), true},
		{"unknown", Unknown(ReasonTimeout), true},
		{"unknown without reason", Outcome{Verdict: VerdictUnknown}, false},
		{"yes with reason", Outcome{Verdict: VerdictYes, Reason: ReasonTimeout}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.o.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
