package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recto-project/recto/internal/cli/ui"
	"github.com/recto-project/recto/internal/config"
	"github.com/recto-project/recto/internal/query"
	"github.com/recto-project/recto/internal/source"
)

var checkNoColor bool

func init() {
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "Disable colored output")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and queries file",
	Long:  "Load recto.yml, compile every metadata query, and report the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		status := ui.NewStatus(cmd.OutOrStdout(), checkNoColor)

		cfg, err := config.Load()
		if err != nil {
			status.Fail("configuration: %v", err)
			return fmt.Errorf("configuration is invalid")
		}
		status.OK("configuration loaded")

		spec, err := config.LoadQueries(cfg.Solr.Queries)
		if err != nil {
			status.Fail("queries: %v", err)
			return fmt.Errorf("queries file is invalid")
		}
		status.OK("queries file %s loaded", cfg.Solr.Queries)

		engine := query.NewEngine()
		table := ui.NewTable(cmd.OutOrStdout(), []string{"KEY", "QUERY", "STATUS"}, checkNoColor)

		failures := 0
		for _, key := range spec.Keys() {
			expr, _ := spec.Get(key)

			var compileErr error
			if source.IsParameterized(key) {
				_, compileErr = engine.CompileWithArg(expr, source.URIArg)
			} else {
				_, compileErr = engine.Compile(expr)
			}

			result := "ok"
			if compileErr != nil {
				result = compileErr.Error()
				failures++
			}
			table.AddRow(key, expr, result)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		table.Render()
		fmt.Fprintln(cmd.OutOrStdout())

		if failures > 0 {
			status.Fail("%d of %d queries failed to compile", failures, spec.Len())
			return fmt.Errorf("queries file is invalid")
		}
		status.OK("all %d queries compiled", spec.Len())
		return nil
	},
}
