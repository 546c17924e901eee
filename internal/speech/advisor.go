package speech

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Advisor decides whether an alignment advisory may be spoken now.
//
// An advisory is dropped unless the cooldown has expired, the same key has
// not been spoken within the repeat gap, the channel is idle, and the
// global minimum gap since the previous advisory has passed.
type Advisor struct {
	ch  *Channel
	cfg Config

	mu            sync.Mutex
	limiter       *rate.Limiter
	lastKey       string
	lastKeyAt     time.Time
	cooldownUntil time.Time
}

// NewAdvisor creates an advisor speaking through ch.
func NewAdvisor(ch *Channel, cfg Config) *Advisor {
	limit := rate.Inf
	if cfg.MinGapMS > 0 {
		limit = rate.Every(ms(cfg.MinGapMS))
	}
	return &Advisor{
		ch:      ch,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Offer speaks text for key if every limit allows it at now, and reports
// whether it was spoken. An empty text is never spoken.
func (a *Advisor) Offer(key, text string, now time.Time) bool {
	if text == "" {
		return false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if now.Before(a.cooldownUntil) {
		return false
	}
	if key == a.lastKey && now.Sub(a.lastKeyAt) < ms(a.cfg.RepeatGapMS) {
		return false
	}
	if a.ch.Busy() {
		return false
	}
	r := a.limiter.ReserveN(now, 1)
	if !r.OK() || r.DelayFrom(now) > 0 {
		r.CancelAt(now)
		return false
	}
	if !a.ch.Announce(text) {
		// Nothing was spoken, so the gap has not started.
		r.CancelAt(now)
		return false
	}

	a.lastKey = key
	a.lastKeyAt = now
	a.cooldownUntil = now.Add(ms(a.cfg.CooldownMS))
	return true
}

// Hold blocks advisories until now plus the cooldown.
func (a *Advisor) Hold(now time.Time) {
	a.mu.Lock()
	if until := now.Add(ms(a.cfg.CooldownMS)); until.After(a.cooldownUntil) {
		a.cooldownUntil = until
	}
	a.mu.Unlock()
}

// Reset forgets the last advisory key and cooldown.
func (a *Advisor) Reset() {
	a.mu.Lock()
	a.lastKey = ""
	a.lastKeyAt = time.Time{}
	a.cooldownUntil = time.Time{}
	a.mu.Unlock()
}
