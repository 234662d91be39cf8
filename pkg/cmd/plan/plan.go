package plan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/mpapenbr/lapcompare/pkg/chart"
	"github.com/mpapenbr/lapcompare/pkg/cmd/cmdutil"
	compareCmd "github.com/mpapenbr/lapcompare/pkg/cmd/compare"
	"github.com/mpapenbr/lapcompare/pkg/config"
	"github.com/mpapenbr/lapcompare/pkg/input"
	"github.com/mpapenbr/lapcompare/pkg/model"
)

var (
	appConfig config.Config
	path      string
)

func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [lapIds]",
		Short: "prints the chart descriptors of a comparison as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPlan(cmd.Context(), os.Stdout, strings.Join(args, ","))
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
	cmd.Flags().StringVar(&path,
		"path",
		"",
		"JSONPath expression selecting parts of the plan (e.g. $.channelCharts[*].title)")
	return cmd
}

func printPlan(ctx context.Context, w io.Writer, raw string) error {
	cmdutil.SetupLogger()
	defer cmdutil.SetupTelemetry(ctx)()

	axisSource, err := chart.ParseAxisSource(appConfig.AxisSource)
	if err != nil {
		return err
	}
	result, err := fetchResult(ctx, raw)
	if err != nil {
		return err
	}
	plan := chart.NewAssembler(chart.WithAxisSource(axisSource)).Assemble(result)
	return WritePlan(w, plan, path)
}

func fetchResult(ctx context.Context, raw string) (*model.ComparisonResult, error) {
	if appConfig.FromFile != "" {
		return compareCmd.ReadResult(appConfig.FromFile)
	}
	ids, err := input.ParseComparison(raw, compareCmd.ParseMode(&appConfig))
	if err != nil {
		return nil, err
	}
	cli, err := cmdutil.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if err := cmdutil.WaitForAPI(ctx); err != nil {
		return nil, err
	}
	return cli.Compare(ctx, &model.CompareRequest{LapIDs: ids, Channels: appConfig.Channels})
}

// WritePlan writes plan as indented JSON. If expr is not empty only the
// values matching this JSONPath expression are written.
func WritePlan(w io.Writer, plan *chart.RenderPlan, expr string) error {
	var out any = plan
	if expr != "" {
		x, err := jp.ParseString(expr)
		if err != nil {
			return fmt.Errorf("invalid path %q: %w", expr, err)
		}
		data, err := json.Marshal(plan)
		if err != nil {
			return err
		}
		doc, err := oj.Parse(data)
		if err != nil {
			return err
		}
		out = x.Get(doc)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
