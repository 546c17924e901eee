package camera

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DirSource is a Source that replays image files from a directory in
// lexical order. It stands in for a camera device in the CLI and tests.
type DirSource struct {
	cfg   Config
	cache *FrameCache
	log   *logrus.Entry
	now   func() time.Time

	mu      sync.Mutex
	files   []string
	next    int
	started bool
	closed  bool
	frozen  bool
	last    FramePair
	hasLast bool
}

// NewDirSource creates a source over cfg.Dir.
func NewDirSource(cfg Config, log *logrus.Entry) *DirSource {
	return &DirSource{
		cfg:   cfg,
		cache: NewFrameCache(),
		log:   log,
		now:   time.Now,
	}
}

// Start lists the frame files. It fails with ErrNoFrames when the
// directory holds no supported images.
func (s *DirSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return fmt.Errorf("failed to open frame directory: %w", err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif":
			files = append(files, filepath.Join(s.cfg.Dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: %s", ErrNoFrames, s.cfg.Dir)
	}
	sort.Strings(files)

	s.files = files
	s.next = 0
	s.started = true
	s.log.WithField("frames", len(files)).Debug("frame source started")
	return nil
}

// Next returns the next frame pair. After the last file it wraps around
// when Loop is set and returns io.EOF otherwise.
func (s *DirSource) Next(ctx context.Context) (FramePair, error) {
	if err := ctx.Err(); err != nil {
		return FramePair{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.closed:
		return FramePair{}, ErrClosed
	case !s.started:
		return FramePair{}, ErrNotStarted
	case s.frozen && s.hasLast:
		return s.last, nil
	}

	if s.next >= len(s.files) {
		if !s.cfg.Loop {
			return FramePair{}, io.EOF
		}
		s.next = 0
	}

	path := s.files[s.next]
	s.next++

	img, err := s.cache.Load(path)
	if err != nil {
		return FramePair{}, err
	}

	s.last = Pair(img, s.cfg.AnalysisWidth, s.now())
	s.hasLast = true
	return s.last, nil
}

// Freeze pins the current frame.
func (s *DirSource) Freeze() {
	s.mu.Lock()
	s.frozen = true
	s.mu.Unlock()
}

// Unfreeze resumes advancing frames.
func (s *DirSource) Unfreeze() {
	s.mu.Lock()
	s.frozen = false
	s.mu.Unlock()
}

// Frozen reports whether the source is frozen.
func (s *DirSource) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// Close releases cached frames. It is safe to call more than once.
func (s *DirSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.cache.Clear()
	s.log.Debug("frame source closed")
	return nil
}
