package lap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/lapcompare/log"
	"github.com/mpapenbr/lapcompare/pkg/chart"
	"github.com/mpapenbr/lapcompare/pkg/cmd/cmdutil"
	"github.com/mpapenbr/lapcompare/pkg/config"
	"github.com/mpapenbr/lapcompare/pkg/model"
)

var summary bool

func NewLapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lap lapId [lapId...]",
		Short: "renders one chart per channel of the given laps",
		Long: `Fetches the telemetry of each lap and writes one PNG per channel
into <out>/lap-<id>.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderLaps(cmd.Context(), args)
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print min/max/avg per channel")
	return cmd
}

func renderLaps(ctx context.Context, args []string) error {
	logger := cmdutil.SetupLogger().Named("cmd.lap")
	defer cmdutil.SetupTelemetry(ctx)()

	cli, err := cmdutil.NewClient(ctx)
	if err != nil {
		return err
	}
	if err := cmdutil.WaitForAPI(ctx); err != nil {
		return err
	}
	laps := cli.TelemetryCache(
		cmdutil.ParseDuration("cache-expiration", config.CacheExpiration, time.Minute))
	for _, arg := range args {
		lapID, err := strconv.Atoi(arg)
		if err != nil {
			return fmt.Errorf("invalid lap id %q: %w", arg, err)
		}
		lap, err := laps.Get(ctx, lapID)
		if err != nil {
			return fmt.Errorf("lap %d: %w", lapID, err)
		}
		if err := lap.Validate(); err != nil {
			logger.Warn("inconsistent telemetry",
				log.Int("lap", lapID), log.ErrorField(err))
		}
		surface, err := cmdutil.NewSurface(fmt.Sprintf("lap-%d", lapID))
		if err != nil {
			return err
		}
		renderer := chart.NewChannelRenderer(surface,
			chart.WithRendererLogger(logger.Named("renderer")))
		if err := renderer.Render(ctx, lap); err != nil {
			return err
		}
		logger.Info("lap rendered",
			log.Int("lap", lapID),
			log.Int("channels", len(lap.Channels)),
			log.String("dir", surface.Dir()))
		if summary {
			if err := WriteSummary(os.Stdout, lap); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteSummary prints a table with min, max and average of each channel.
func WriteSummary(w io.Writer, lap *model.LapTelemetry) error {
	fmt.Fprintf(w, "Lap %d\n", lap.LapID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CHANNEL\tUNIT\tMIN\tMAX\tAVG")
	for _, s := range model.Summarize(lap) {
		if s.Avg == nil {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\n", s.Name, s.Unit)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%s\n",
			s.Name, s.Unit, *s.Min, *s.Max, s.Avg.StringFixed(2))
	}
	return tw.Flush()
}
