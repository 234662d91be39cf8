// Package chartrec provides an in-memory chart.Surface which records what
// would have been drawn.
package chartrec

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mpapenbr/lapcompare/pkg/chart"
)

var ErrAddFailed = errors.New("add failed")

type (
	Option  func(*Surface)
	Surface struct {
		mu      sync.Mutex
		name    string
		nextID  int
		live    []*Instance
		events  []string
		failAdd bool
	}
	Instance struct {
		ID       int
		Spec     *chart.Spec
		surface  *Surface
		disposed bool
	}
)

// WithFailingAdd makes every Add call return ErrAddFailed.
func WithFailingAdd() Option {
	return func(s *Surface) {
		s.failAdd = true
	}
}

func New(name string, opts ...Option) *Surface {
	ret := &Surface{name: name}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *Surface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inst := range s.live {
		inst.disposed = true
	}
	s.live = nil
	s.events = append(s.events, "clear")
	return nil
}

//nolint:whitespace // can't make both editor and linter happy
func (s *Surface) Add(ctx context.Context, spec *chart.Spec) (
	chart.Instance, error,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAdd {
		return nil, ErrAddFailed
	}
	s.nextID++
	inst := &Instance{ID: s.nextID, Spec: spec, surface: s}
	s.live = append(s.live, inst)
	s.events = append(s.events, fmt.Sprintf("add %d %s", inst.ID, spec.Title))
	return inst, nil
}

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
	s.events = append(s.events, fmt.Sprintf("dispose %d", i.ID))
	return nil
}

func (i *Instance) Disposed() bool {
	i.surface.mu.Lock()
	defer i.surface.mu.Unlock()
	return i.disposed
}

// Live returns the specs of all charts currently shown.
func (s *Surface) Live() []*chart.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret := make([]*chart.Spec, len(s.live))
	for i, inst := range s.live {
		ret[i] = inst.Spec
	}
	return ret
}

// Events returns the recorded operations, e.g. "clear", "add 1 speed", "dispose 1".
func (s *Surface) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

func (s *Surface) Name() string {
	return s.name
}
