// Package pngchart draws chart specs as PNG files with go-chart.
// Every surface is a directory, every chart instance one file in it.
package pngchart

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/mpapenbr/lapcompare/log"
	"github.com/mpapenbr/lapcompare/pkg/chart"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 400
)

type (
	Option  func(*Surface)
	Surface struct {
		mu     sync.Mutex
		dir    string
		width  int
		height int
		seq    int
		live   []*Instance
		log    *log.Logger
	}
	Instance struct {
		path     string
		surface  *Surface
		disposed bool
	}
)

func WithSize(width, height int) Option {
	return func(s *Surface) {
		if width > 0 {
			s.width = width
		}
		if height > 0 {
			s.height = height
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Surface) {
		s.log = l
	}
}

// New creates the directory dir if needed.
func New(dir string, opts ...Option) (*Surface, error) {
	ret := &Surface{
		dir:    dir,
		width:  DefaultWidth,
		height: DefaultHeight,
		log:    log.Default().Named("render.png"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return ret, nil
}

func (s *Surface) Dir() string {
	return s.dir
}

// Clear removes every chart of the directory, including files left by
// earlier surfaces on the same directory.
func (s *Surface) Clear() error {
	s.mu.Lock()
	live := slices.Clone(s.live)
	s.mu.Unlock()
	var errs []error
	for _, inst := range live {
		errs = append(errs, inst.Dispose())
	}
	stale, err := filepath.Glob(filepath.Join(s.dir, "*.png"))
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	for _, f := range stale {
		if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		s.log.Debug("stale chart removed", log.String("file", f))
	}
	s.mu.Lock()
	if len(s.live) == 0 {
		s.seq = 0
	}
	s.mu.Unlock()
	return errors.Join(errs...)
}

func (s *Surface) Add(ctx context.Context, spec *chart.Spec) (chart.Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	path := filepath.Join(s.dir, fmt.Sprintf("%02d-%s.png", s.seq, slug(spec.Title)))
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := Draw(spec, s.width, s.height, f); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("draw %q: %w", spec.Title, err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	inst := &Instance{path: path, surface: s}
	s.live = append(s.live, inst)
	s.log.Debug("chart written", log.String("file", path), log.Int("series", len(spec.Series)))
	return inst, nil
}

func (i *Instance) Path() string {
	return i.path
}

// Dispose removes the file of the chart.
func (i *Instance) Dispose() error {
	s := i.surface
	s.mu.Lock()
	defer s.mu.Unlock()
	if i.disposed {
		return nil
	}
	i.disposed = true
	for idx, inst := range s.live {
		if inst == i {
			s.live = append(s.live[:idx], s.live[idx+1:]...)
			break
		}
	}
	if len(s.live) == 0 {
		s.seq = 0
	}
	if err := os.Remove(i.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(title string) string {
	ret := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if ret == "" {
		return "chart"
	}
	return ret
}
