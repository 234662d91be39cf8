// Package compare drives a lap comparison from user input to drawn charts.
package compare

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/mpapenbr/lapcompare/log"
	"github.com/mpapenbr/lapcompare/pkg/chart"
	"github.com/mpapenbr/lapcompare/pkg/client"
	"github.com/mpapenbr/lapcompare/pkg/input"
	"github.com/mpapenbr/lapcompare/pkg/model"
)

const TooFewLapsMessage = "Enter at least 2 lap IDs separated by commas."

var ErrComparisonPending = errors.New("a comparison is already in progress")

// Comparer fetches comparison results, usually *client.Client.
type Comparer interface {
	Compare(ctx context.Context, req *model.CompareRequest) (*model.ComparisonResult, error)
}

// Notifier shows messages to the user.
type Notifier interface {
	Notify(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

type Option func(*View)

func WithAssembler(a *chart.Assembler) Option {
	return func(v *View) {
		v.assembler = a
	}
}

func WithNotifier(n Notifier) Option {
	return func(v *View) {
		v.notifier = n
	}
}

func WithParseMode(mode input.Mode) Option {
	return func(v *View) {
		v.parseMode = mode
	}
}

// WithChannels restricts the comparison to these channels.
func WithChannels(channels []string) Option {
	return func(v *View) {
		v.channels = channels
	}
}

func WithLogger(l *log.Logger) Option {
	return func(v *View) {
		v.log = l
	}
}

// View owns the delta chart and the channel overlay region of the
// comparison page. Only one comparison runs at a time.
type View struct {
	comparer  Comparer
	assembler *chart.Assembler
	deltas    chart.Surface
	channels  []string
	overlays  chart.Surface
	notifier  Notifier
	parseMode input.Mode
	log       *log.Logger

	mu         sync.Mutex
	pending    bool
	deltaChart chart.Instance
}

func NewView(comparer Comparer, deltas, overlays chart.Surface, opts ...Option) *View {
	ret := &View{
		comparer:  comparer,
		deltas:    deltas,
		overlays:  overlays,
		parseMode: input.ModeDropFalsy,
		log:       log.Default().Named("compare"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.assembler == nil {
		ret.assembler = chart.NewAssembler(chart.WithAssemblerLogger(ret.log.Named("assembler")))
	}
	if ret.notifier == nil {
		ret.notifier = NotifierFunc(func(msg string) {
			ret.log.Warn("notification", log.String("msg", msg))
		})
	}
	return ret
}

// Run parses raw, requests the comparison and shows the result.
// Failures are reported to the notifier and returned. The display is only
// touched after a complete result was received.
func (v *View) Run(ctx context.Context, raw string) error {
	if !v.begin() {
		return ErrComparisonPending
	}
	defer v.end()

	ids, err := input.ParseComparison(raw, v.parseMode)
	if err != nil {
		v.notifier.Notify(TooFewLapsMessage)
		return err
	}
	runLog := v.log.With(log.String("run", uuid.NewString()), log.Ints("laps", ids))
	runLog.Debug("requesting comparison")

	result, err := v.comparer.Compare(ctx, &model.CompareRequest{LapIDs: ids, Channels: v.channels})
	if err != nil {
		runLog.Info("comparison failed", log.ErrorField(err))
		v.notifier.Notify(client.UserMessage(err, client.GenericMessage))
		return err
	}
	return v.show(ctx, runLog, result)
}

// Show displays an already available result, e.g. one read from a file.
func (v *View) Show(ctx context.Context, result *model.ComparisonResult) error {
	if !v.begin() {
		return ErrComparisonPending
	}
	defer v.end()
	return v.show(ctx, v.log.With(log.String("run", uuid.NewString())), result)
}

func (v *View) show(ctx context.Context, l *log.Logger, result *model.ComparisonResult) error {
	plan := v.assembler.Assemble(result)
	if err := v.showDelta(ctx, plan.DeltaChart); err != nil {
		return err
	}
	if err := v.overlays.Clear(); err != nil {
		return fmt.Errorf("clear overlays: %w", err)
	}
	for _, spec := range plan.ChannelCharts {
		if _, err := v.overlays.Add(ctx, spec); err != nil {
			return fmt.Errorf("add overlay %q: %w", spec.Title, err)
		}
	}
	l.Info("comparison shown",
		log.Bool("delta", plan.DeltaChart != nil),
		log.Int("overlays", len(plan.ChannelCharts)))
	return nil
}

// showDelta disposes the current delta chart before a new one is created.
// Without a spec the delta region is cleared.
func (v *View) showDelta(ctx context.Context, spec *chart.Spec) error {
	if err := v.disposeDelta(); err != nil {
		return err
	}
	if spec == nil {
		return v.deltas.Clear()
	}
	inst, err := v.deltas.Add(ctx, spec)
	if err != nil {
		return fmt.Errorf("add delta chart: %w", err)
	}
	v.mu.Lock()
	v.deltaChart = inst
	v.mu.Unlock()
	return nil
}

func (v *View) disposeDelta() error {
	v.mu.Lock()
	inst := v.deltaChart
	v.deltaChart = nil
	v.mu.Unlock()
	if inst == nil {
		return nil
	}
	if err := inst.Dispose(); err != nil {
		return fmt.Errorf("dispose delta chart: %w", err)
	}
	return nil
}

// Dispose releases the delta chart held by the view.
func (v *View) Dispose() error {
	return v.disposeDelta()
}

func (v *View) begin() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pending {
		return false
	}
	v.pending = true
	return true
}

func (v *View) end() {
	v.mu.Lock()
	v.pending = false
	v.mu.Unlock()
}
