package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"robotdriver/application/inspect"
	"robotdriver/application/plan"
	"robotdriver/application/pricing"
	"robotdriver/infrastructure/htmlscope"
	"robotdriver/infrastructure/storage"

	"github.com/spf13/cobra"
)

func newPlanCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Work with declarative browser plans",
	}

	var report string
	var headful bool
	runCmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Execute a JSON or YAML plan file and print the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := storage.LoadPlan(args[0])
			if err != nil {
				return err
			}
			if headful {
				headless := false
				p.Headless = &headless
			}

			session, err := app.newLauncher(app.cfg, app.logger).Launch(cmd.Context(), p.IsHeadless())
			if err != nil {
				return fmt.Errorf("failed to open browser: %w", err)
			}
			defer session.Close()

			res := plan.NewExecutor(nil, nil, app.logger).Execute(cmd.Context(), session.Page(), p)
			if report != "" {
				if err := storage.SaveReport(report, res); err != nil {
					return fmt.Errorf("failed to save report: %w", err)
				}
			}
			if err := printJSON(cmd, res); err != nil {
				return err
			}
			if !res.OK {
				return fail()
			}
			return nil
		},
	}
	runCmd.Flags().StringVar(&report, "report", "", "also write the result to this JSON file")
	runCmd.Flags().BoolVar(&headful, "headful", false, "show the browser window")

	cmd.AddCommand(runCmd)
	return cmd
}

func newDescribeCommand(app *App) *cobra.Command {
	var depth int
	cmd := &cobra.Command{
		Use:   "describe <url>",
		Short: "Print the pruned accessibility tree of a page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if depth < 0 {
				return fmt.Errorf("--depth must not be negative")
			}
			session, err := app.newLauncher(app.cfg, app.logger).Launch(cmd.Context(), app.cfg.Browser.Headless)
			if err != nil {
				return fmt.Errorf("failed to open browser: %w", err)
			}
			defer session.Close()

			desc, err := inspect.Describe(cmd.Context(), session.Page(), args[0], depth)
			if err != nil {
				return err
			}
			return printJSON(cmd, desc)
		},
	}
	cmd.Flags().IntVar(&depth, "depth", inspect.DefaultDepth, "levels below the root to keep")
	return cmd
}

func newExtractCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <html-file>",
		Short: "Find the price in a saved HTML page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := htmlscope.FromReader(f)
			if err != nil {
				return err
			}
			price, ok, err := pricing.ExtractFromScope(doc)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Fail: price not found")
				return fail()
			}
			app.logger.WithField("file", args[0]).Debug("price extracted")
			fmt.Fprintln(cmd.OutOrStdout(), price)
			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
