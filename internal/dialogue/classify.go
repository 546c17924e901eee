package dialogue

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultYesKeywords are the affirmative answers.
func DefaultYesKeywords() []string {
	return []string{"네", "예", "맞아", "맞아요", "맞습니다", "그래", "좋아", "오케이", "ok", "okay", "yes", "정확해", "맞다"}
}

// DefaultNoKeywords are the negative answers.
func DefaultNoKeywords() []string {
	return []string{"아니", "아니야", "아니요", "아니오", "틀려", "틀렸어", "다시", "재촬영", "no", "노"}
}

// Classifier maps a spoken answer to a verdict by keyword.
type Classifier struct {
	keywords []keyword
}

type keyword struct {
	text    string
	runes   int
	verdict Verdict
}

// NewClassifier builds a classifier from affirmative and negative keyword
// lists. Keywords are normalized the same way as transcripts.
func NewClassifier(yes, no []string) *Classifier {
	c := &Classifier{}
	add := func(words []string, v Verdict) {
		for _, w := range words {
			w = normalize(w)
			if w == "" {
				continue
			}
			c.keywords = append(c.keywords, keyword{text: w, runes: utf8.RuneCountInString(w), verdict: v})
		}
	}
	add(yes, VerdictYes)
	add(no, VerdictNo)
	return c
}

// Classify returns VerdictYes or VerdictNo for the keyword that occurs
// first in the transcript. When two keywords start at the same position
// the longer one wins. The second result is false if nothing matched.
func (c *Classifier) Classify(transcript string) (Verdict, bool) {
	norm := normalize(transcript)
	if norm == "" {
		return VerdictUnknown, false
	}

	best, bestAt := -1, -1
	for i, kw := range c.keywords {
		at := strings.Index(norm, kw.text)
		if at < 0 {
			continue
		}
		if best < 0 || at < bestAt || (at == bestAt && kw.runes > c.keywords[best].runes) {
			best, bestAt = i, at
		}
	}

	if best < 0 {
		return VerdictUnknown, false
	}
	return c.keywords[best].verdict, true
}

// normalize lower-cases s and drops all whitespace.
func normalize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// Truncate shortens text to at most max runes and appends suffix when it
// had to cut. max <= 0 disables truncation.
func Truncate(text string, max int, suffix string) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + suffix
}

// Prompt is the read-back question for a recognized text.
func Prompt(text string) string {
	return "인식된 내용입니다. " + text + " . 정확하면 ‘맞아요’라고, 틀리면 ‘아니에요’ 또는 ‘다시’라고 말씀해 주세요. 이제 대답을 기다립니다."
}
