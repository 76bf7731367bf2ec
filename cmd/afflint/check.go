package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"afflint/internal/diag"
	"afflint/internal/diagfmt"
	"afflint/internal/driver"
	"afflint/internal/project"
	"afflint/internal/source"
)

var checkCmd = &cobra.Command{
	Use:          "check [files...]",
	Short:        "Validate chart files and print diagnostics",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	checkCmd.Flags().Int("jobs", 0, "number of files checked in parallel (0 = NumCPU)")
	checkCmd.Flags().Bool("cache", false, "reuse cached diagnostics for unchanged files")
	checkCmd.Flags().Bool("notes", true, "show related locations")
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	jobs, _ := cmd.Flags().GetInt("jobs")
	useCache, _ := cmd.Flags().GetBool("cache")
	showNotes, _ := cmd.Flags().GetBool("notes")
	colorMode, _ := cmd.Flags().GetString("color")
	configPath, _ := cmd.Flags().GetString("config")
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")

	cfg, err := loadConfig(configPath, args[0])
	if err != nil {
		return err
	}
	if maxDiags > 0 {
		cfg.MaxDiagnostics = maxDiags
	}

	var cache *driver.DiskCache
	if useCache {
		cache, err = driver.OpenDiskCache("afflint")
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
	}

	fs := source.NewFileSet()
	results, err := driver.CheckPaths(cmd.Context(), fs, args, driver.Options{
		Config: cfg,
		Jobs:   jobs,
		Cache:  cache,
	})
	if err != nil {
		return err
	}

	hasErrors := false
	for _, res := range results {
		if res.Bag.HasErrors() {
			hasErrors = true
		}
		if err := renderResult(cmd, res, fs, format, showNotes, colorMode); err != nil {
			return err
		}
	}

	if hasErrors {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func renderResult(cmd *cobra.Command, res driver.Result, fs *source.FileSet, format string, showNotes bool, colorMode string) error {
	switch format {
	case "json":
		return diagfmt.JSON(cmd.OutOrStdout(), res.Bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     showNotes,
		})
	case "short":
		if out := diag.FormatGoldenDiagnostics(res.Bag.Items(), fs, showNotes); out != "" {
			fmt.Fprintln(cmd.OutOrStdout(), out)
		}
		return nil
	case "pretty":
		diagfmt.Pretty(cmd.OutOrStdout(), res.Bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(colorMode, os.Stdout),
			ShowNotes: showNotes,
			Context:   true,
		})
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// loadConfig resolves the policy: an explicit --config path wins, otherwise
// afflint.toml next to the first chart, otherwise defaults.
func loadConfig(explicit, firstChart string) (*project.Config, error) {
	if explicit != "" {
		return project.Load(explicit)
	}
	return project.Load(filepath.Join(filepath.Dir(firstChart), project.ConfigFileName))
}
