package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/EnviroLens/internal/application/reporting"
)

// NewAnalyzeCmd runs the pipeline once and prints the result.
func NewAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [dataset]",
		Short: "Run the analytics pipeline once and print the result",
		Long: "Runs every dataset plugin, or only the named dataset, and prints the\n" +
			"same payload GET /api/data returns.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			app, err := NewApp(cmd.Context(), cliCtx.Config, cliCtx.Logger)
			if err != nil {
				return err
			}
			defer app.Close()

			var body []byte
			if len(args) == 1 {
				body, err = app.Service.Dataset(cmd.Context(), args[0])
				if err == nil {
					body, err = json.Marshal(map[string]json.RawMessage{args[0]: body})
				}
			} else {
				body, err = app.Service.Data(cmd.Context(), false)
			}
			if err != nil {
				return err
			}
			return printPayload(cmd, cliCtx.OutputFormat, body)
		},
	}
}

func printPayload(cmd *cobra.Command, format string, body []byte) error {
	if format == OutputJSON {
		return printJSON(cmd, json.RawMessage(body))
	}
	rep, err := reporting.Parse(body)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if format == OutputTable {
		rows := make([][]string, 0, len(rep.Sections))
		for _, s := range rep.Sections {
			rows = append(rows, []string{s.Name, statusOf(s), strconv.FormatBool(s.Synth), strconv.Itoa(len(s.Insights))})
		}
		fmt.Fprint(out, FormatTable([]string{"DATASET", "STATUS", "SYNTHETIC", "INSIGHTS"}, rows))
		return nil
	}

	for _, s := range rep.Sections {
		header := s.Title()
		var tags []string
		if s.Status != "" {
			tags = append(tags, s.Status)
		}
		if s.Synth {
			tags = append(tags, "synthetic")
		}
		if len(tags) > 0 {
			header += " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Fprintln(out, header)
		if s.Error != "" {
			fmt.Fprintf(out, "  error: %s\n", s.Error)
		}
		for _, line := range s.Insights {
			fmt.Fprintf(out, "  - %s\n", line)
		}
		fmt.Fprintln(out)
	}
	if len(rep.Recommendations) > 0 {
		fmt.Fprintln(out, "Recommendations")
		for _, r := range rep.Recommendations {
			fmt.Fprintf(out, "  - %s\n", r)
		}
	}
	return nil
}

func statusOf(s reporting.Section) string {
	if s.Status == "" {
		return "ok"
	}
	return s.Status
}

//Personal.AI order the ending
