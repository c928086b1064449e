package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	analysisPath  string
	configPath    string
	strictNames   bool
	workers       int
	maxIncidents  int
	maxLocations  int
	locationGlobs string
	violationIDs  string
	categories    string
	maxEffort     int
	logLevel      string
	outputPath    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "kantra-impact",
		Short: "Per-file impact view of Konveyor analysis output",
		Long: `kantra-impact inverts a Konveyor analysis report so it can be read per file.

Konveyor groups findings by rule set and violation. kantra-impact builds a
reverse index from each affected location to the rule sets, violations and
incidents reported there.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&analysisPath, "analysis", "", "Path to Konveyor analysis output.yaml or its directory")
	flags.StringVar(&configPath, "config", "", "Path to config file (default: .kantra-impact.yaml in cwd or home)")
	flags.BoolVar(&strictNames, "strict", false, "Fail when same-named rule sets report at the same location")
	flags.IntVar(&workers, "workers", 1, "Rule set folding concurrency (1 = sequential)")
	flags.IntVar(&maxIncidents, "max-incidents", 0, "Refuse reports with more incidents (0 = no limit)")
	flags.IntVar(&maxLocations, "max-locations", 0, "Refuse reports with more locations (0 = no limit)")
	flags.StringVar(&locationGlobs, "location", "", "Comma-separated location globs (URI or file path)")
	flags.StringVar(&violationIDs, "violation-ids", "", "Comma-separated violation IDs to include")
	flags.StringVar(&categories, "categories", "", "Comma-separated categories: mandatory, optional, potential")
	flags.IntVar(&maxEffort, "max-effort", 0, "Maximum effort level (0 = no limit)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	locationsCmd := &cobra.Command{
		Use:   "locations",
		Short: "List every location that has incidents",
		Args:  cobra.NoArgs,
		RunE:  runLocations,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show rule sets, violations and incidents per location",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-location counts and build timing",
		Args:  cobra.NoArgs,
		RunE:  runSummary,
	}

	htmlCmd := &cobra.Command{
		Use:   "html",
		Short: "Write an HTML impact report",
		Args:  cobra.NoArgs,
		RunE:  runHTML,
	}
	htmlCmd.Flags().StringVar(&outputPath, "output", "impact.html", "Output file or directory")

	rootCmd.AddCommand(locationsCmd, showCmd, summaryCmd, htmlCmd)
	return rootCmd
}
