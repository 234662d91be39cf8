package compare

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/lapcompare/log"
	"github.com/mpapenbr/lapcompare/pkg/chart"
	"github.com/mpapenbr/lapcompare/pkg/cmd/cmdutil"
	view "github.com/mpapenbr/lapcompare/pkg/compare"
	"github.com/mpapenbr/lapcompare/pkg/config"
	"github.com/mpapenbr/lapcompare/pkg/input"
	"github.com/mpapenbr/lapcompare/pkg/model"
)

var (
	appConfig   config.Config // holds processed config values
	interactive bool
)

func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [lapIds]",
		Short: "compares laps and writes delta and channel overlay charts",
		Long: `Compares the given laps (comma separated, the first one is the reference).
Charts are written as PNG files into <out>/delta and <out>/channels.
With --interactive every line read from stdin starts a new comparison.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context(), strings.Join(args, ","))
		},
	}
	cmd.Flags().BoolVar(&appConfig.KeepZeroIDs,
		"keep-zero-ids",
		false,
		"keep lap id 0 instead of dropping it like the web client")
	cmd.Flags().StringVar(&appConfig.AxisSource,
		"axis-source",
		"first-lap",
		"lap providing the x axis of overlays (first-lap, first-with-data)")
	cmd.Flags().StringSliceVar(&appConfig.Channels,
		"channels",
		nil,
		"restrict the comparison to these channels")
	cmd.Flags().StringVar(&appConfig.FromFile,
		"from-file",
		"",
		"read the comparison result from this JSON file instead of the API")
	cmd.Flags().BoolVarP(&interactive,
		"interactive",
		"i",
		false,
		"read lap id lists from stdin, one comparison per line")
	return cmd
}

// ParseMode returns the lap id parse mode selected by flags.
func ParseMode(cfg *config.Config) input.Mode {
	if cfg.KeepZeroIDs {
		return input.ModeDropInvalid
	}
	return input.ModeDropFalsy
}

// ReadResult reads a stored comparison result.
func ReadResult(file string) (*model.ComparisonResult, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	var ret model.ComparisonResult
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return &ret, nil
}

//nolint:funlen // by design
func runCompare(ctx context.Context, raw string) error {
	logger := cmdutil.SetupLogger().Named("cmd.compare")
	defer cmdutil.SetupTelemetry(ctx)()

	axisSource, err := chart.ParseAxisSource(appConfig.AxisSource)
	if err != nil {
		return err
	}
	deltaSurface, err := cmdutil.NewSurface("delta")
	if err != nil {
		return err
	}
	channelSurface, err := cmdutil.NewSurface("channels")
	if err != nil {
		return err
	}
	opts := []view.Option{
		view.WithAssembler(chart.NewAssembler(
			chart.WithAxisSource(axisSource),
			chart.WithAssemblerLogger(logger.Named("assembler")))),
		view.WithParseMode(ParseMode(&appConfig)),
		view.WithChannels(appConfig.Channels),
		view.WithNotifier(view.NotifierFunc(func(msg string) {
			fmt.Fprintln(os.Stderr, msg)
		})),
		view.WithLogger(logger),
	}

	// the charts are the output of this command, so the view is not disposed
	if appConfig.FromFile != "" {
		result, err := ReadResult(appConfig.FromFile)
		if err != nil {
			return err
		}
		v := view.NewView(nil, deltaSurface, channelSurface, opts...)
		return v.Show(ctx, result)
	}

	cli, err := cmdutil.NewClient(ctx)
	if err != nil {
		return err
	}
	if err := cmdutil.WaitForAPI(ctx); err != nil {
		return err
	}
	v := view.NewView(cli, deltaSurface, channelSurface, opts...)
	if !interactive {
		if err := v.Run(ctx, raw); err != nil {
			return err
		}
		logger.Info("charts written", log.String("dir", config.OutputDir))
		return nil
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stderr, "lap ids> ")
	for scanner.Scan() {
		err := v.Run(ctx, scanner.Text())
		switch {
		case err == nil:
			logger.Info("charts written", log.String("dir", config.OutputDir))
		case errors.Is(err, context.Canceled):
			return err
		default:
			logger.Debug("comparison not shown", log.ErrorField(err))
		}
		fmt.Fprint(os.Stderr, "lap ids> ")
	}
	return scanner.Err()
}
