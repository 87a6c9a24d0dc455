package cli

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/EnviroLens/internal/application/reporting"
	"github.com/turtacn/EnviroLens/internal/domain/dataset"
	"github.com/turtacn/EnviroLens/pkg/errors"
)

// Default output paths.
const (
	DefaultReportPath = "envirolens-report.xlsx"
	DefaultChartPath  = "envirolens-chart.png"
)

// NewExportCmd writes the analytics payload as an XLSX workbook.
func NewExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the analytics as an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := buildReport(cmd)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := reporting.WriteWorkbook(&buf, rep); err != nil {
				return err
			}
			if err := writeFile(out, buf.Bytes()); err != nil {
				return err
			}
			PrintSuccess(cmd, "workbook written to "+out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", DefaultReportPath, "output .xlsx path")
	return cmd
}

// NewChartCmd writes yearly production by type as a PNG line chart.
func NewChartCmd() *cobra.Command {
	var out, name string
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Plot yearly production by type as a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := buildReport(cmd)
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := reporting.WriteProductionChart(&buf, rep, name); err != nil {
				return err
			}
			if err := writeFile(out, buf.Bytes()); err != nil {
				return err
			}
			PrintSuccess(cmd, "chart written to "+out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", DefaultChartPath, "output .png path")
	cmd.Flags().StringVar(&name, "dataset", dataset.MineralExtraction, "dataset to plot (mineral_extraction or timber_production)")
	return cmd
}

func buildReport(cmd *cobra.Command) (*reporting.Report, error) {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return nil, err
	}
	app, err := NewApp(cmd.Context(), cliCtx.Config, cliCtx.Logger)
	if err != nil {
		return nil, err
	}
	defer app.Close()

	body, err := app.Service.Data(cmd.Context(), false)
	if err != nil {
		return nil, err
	}
	return reporting.Parse(body)
}

// writeFile only touches the filesystem once rendering has succeeded.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, errors.CodeExportFailed, "failed to write output").WithDetail(path)
	}
	return nil
}

//Personal.AI order the ending
