package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tsanders/kantra-impact/pkg/config"
	"github.com/tsanders/kantra-impact/pkg/impact"
	"github.com/tsanders/kantra-impact/pkg/logging"
	"github.com/tsanders/kantra-impact/pkg/report"
	"github.com/tsanders/kantra-impact/pkg/ux"
	"github.com/tsanders/kantra-impact/pkg/violation"
)

// session carries what every command needs after flag resolution.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return &session{cfg: cfg, logger: logger}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// resolveConfig loads the config file and applies flags the user set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	flags := cmd.Flags()
	if flags.Changed("analysis") {
		cfg.Paths.Analysis = analysisPath
	}
	if flags.Changed("strict") {
		cfg.Index.StrictRuleSetNames = strictNames
	}
	if flags.Changed("workers") {
		cfg.Index.Workers = workers
	}
	if flags.Changed("max-incidents") {
		cfg.Limits.MaxIncidents = maxIncidents
	}
	if flags.Changed("max-locations") {
		cfg.Limits.MaxLocations = maxLocations
	}
	if flags.Changed("location") {
		cfg.Filters.Locations = splitList(locationGlobs)
	}
	if flags.Changed("violation-ids") {
		cfg.Filters.ViolationIDs = splitList(violationIDs)
	}
	if flags.Changed("categories") {
		cfg.Filters.Categories = splitList(categories)
	}
	if flags.Changed("max-effort") {
		cfg.Filters.MaxEffort = maxEffort
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	if cfg.Paths.Analysis == "" {
		return nil, fmt.Errorf("no analysis file given\n\n" +
			"To fix:\n" +
			"  - Pass --analysis path/to/output.yaml\n" +
			"  - Or set paths.analysis in .kantra-impact.yaml")
	}
	return cfg, nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (s *session) filterOptions() impact.FilterOptions {
	return impact.FilterOptions{
		Locations:    s.cfg.Filters.Locations,
		ViolationIDs: s.cfg.Filters.ViolationIDs,
		Categories:   s.cfg.Filters.Categories,
		MaxEffort:    s.cfg.Filters.MaxEffort,
	}
}

func (s *session) hasFilters() bool {
	f := s.cfg.Filters
	return len(f.Locations) > 0 || len(f.ViolationIDs) > 0 || len(f.Categories) > 0 || f.MaxEffort > 0
}

func (s *session) loadReport() (*violation.Report, error) {
	var spinner *ux.Spinner
	if ux.IsTerminal() {
		spinner = ux.NewSpinner(fmt.Sprintf("Loading analysis from %s...", s.cfg.Paths.Analysis))
		spinner.Start()
	}

	start := time.Now()
	rep, err := violation.LoadReport(s.cfg.Paths.Analysis)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis: %w", err)
	}

	s.logger.Debug("analysis loaded",
		zap.String("path", s.cfg.Paths.Analysis),
		zap.Int("rulesets", len(rep.RuleSets)),
		zap.Int("incidents", rep.IncidentCount()),
		zap.Duration("elapsed", time.Since(start)))
	return rep, nil
}

// buildIndex builds and filters the index, logging every diagnostic.
func (s *session) buildIndex(rep *violation.Report) (*impact.Index, time.Duration, error) {
	start := time.Now()
	idx, err := impact.Build(rep, impact.Options{
		MaxIncidents:       s.cfg.Limits.MaxIncidents,
		MaxLocations:       s.cfg.Limits.MaxLocations,
		StrictRuleSetNames: s.cfg.Index.StrictRuleSetNames,
		Workers:            s.cfg.Index.Workers,
	})
	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, explainBuildError(err)
	}

	s.logDiagnostics(idx.Diagnostics())
	s.logger.Debug("index built",
		zap.Int("locations", idx.Len()),
		zap.Int("incidents", idx.IncidentCount()),
		zap.Int("workers", s.cfg.Index.Workers),
		zap.Duration("elapsed", elapsed))

	if !s.hasFilters() {
		return idx, elapsed, nil
	}

	filtered, err := idx.Filter(s.filterOptions())
	if err != nil {
		return nil, elapsed, fmt.Errorf("failed to filter index: %w", err)
	}
	s.logger.Debug("index filtered",
		zap.Int("locations", filtered.Len()),
		zap.Int("incidents", filtered.IncidentCount()))
	return filtered, elapsed, nil
}

func (s *session) logDiagnostics(diags []impact.Diagnostic) {
	for _, d := range diags {
		switch d.Kind {
		case impact.DiagMalformedIncident:
			s.logger.Warn("skipped incident without location",
				zap.String("ruleset", d.RuleSet),
				zap.Int("ruleset_index", d.RuleSetIndex),
				zap.String("violation", d.Violation),
				zap.Int("incident", d.Incident))
		case impact.DiagRuleSetOverwritten:
			s.logger.Warn("rule set view replaced by a later rule set with the same name",
				zap.String("ruleset", d.RuleSet),
				zap.Int("ruleset_index", d.RuleSetIndex),
				zap.Int("previous_index", d.PreviousIndex),
				zap.String("location", d.Location))
		default:
			s.logger.Warn(d.String())
		}
	}
}

// explainBuildError adds guidance for errors a user can act on.
func explainBuildError(err error) error {
	var conflict *impact.ConflictError
	switch {
	case errors.As(err, &conflict):
		return fmt.Errorf("%w\n\n"+
			"Conflicts:\n%s\n\n"+
			"To fix:\n"+
			"  - Give each rule set a unique name\n"+
			"  - Or drop --strict to keep the last rule set for each location", err, indent(conflict.ConflictList()))
	case errors.Is(err, impact.ErrOversizedInput):
		return fmt.Errorf("%w\n\n"+
			"To fix:\n"+
			"  - Raise --max-incidents / --max-locations\n"+
			"  - Or set them to 0 to disable the limit", err)
	default:
		return fmt.Errorf("failed to build impact index: %w", err)
	}
}

func indent(lines string) string {
	return "  " + strings.ReplaceAll(lines, "\n", "\n  ")
}

func runLocations(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	rep, err := s.loadReport()
	if err != nil {
		return err
	}

	var locations []string
	if s.hasFilters() {
		idx, _, err := s.buildIndex(rep)
		if err != nil {
			return err
		}
		locations = idx.Locations()
	} else {
		locations = impact.LocationNames(rep)
	}

	for _, location := range locations {
		fmt.Println(location)
	}
	s.logger.Debug("locations listed", zap.Int("count", len(locations)))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	rep, err := s.loadReport()
	if err != nil {
		return err
	}
	idx, _, err := s.buildIndex(rep)
	if err != nil {
		return err
	}

	if idx.Len() == 0 {
		ux.PrintWarning("No locations matched.")
		return nil
	}

	return idx.Walk(func(location string, rs *violation.RuleSet) error {
		ux.PrintSection(location)
		fmt.Printf("  %s %s\n", ux.Bold(rs.Name), ux.Dim(rs.Description))
		for _, id := range sortedIDs(rs.Violations) {
			v := rs.Violations[id]
			fmt.Printf("    %s [%s] %s incidents\n", id, ux.FormatCategory(v.Category), ux.FormatCount(len(v.Incidents)))
			if v.Description != "" {
				fmt.Printf("      %s\n", v.Description)
			}
			for _, inc := range v.Incidents {
				if inc.LineNumber > 0 {
					fmt.Printf("      - %s:%d %s\n", inc.GetFilePath(), inc.LineNumber, firstLine(inc.Message))
				} else {
					fmt.Printf("      - %s %s\n", inc.GetFilePath(), firstLine(inc.Message))
				}
			}
		}
		return nil
	})
}

func runSummary(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	rep, err := s.loadReport()
	if err != nil {
		return err
	}
	idx, elapsed, err := s.buildIndex(rep)
	if err != nil {
		return err
	}

	ux.PrintHeader("Impact Summary")

	rows := [][]string{{ux.Bold("Location"), ux.Bold("Rule sets"), ux.Bold("Violations"), ux.Bold("Incidents")}}
	for _, sum := range idx.Summaries() {
		rows = append(rows, []string{
			sum.Location,
			fmt.Sprintf("%d", sum.RuleSets),
			fmt.Sprintf("%d", sum.Violations),
			ux.FormatCount(sum.Incidents),
		})
	}
	ux.PrintSummaryTable(rows)

	ux.PrintSection("Totals")
	ux.PrintInfo("Locations: %d", idx.Len())
	ux.PrintInfo("Incidents: %s", ux.FormatCount(idx.IncidentCount()))
	ux.PrintInfo("Build time: %s", ux.FormatDuration(elapsed))
	if diags := idx.Diagnostics(); len(diags) > 0 {
		ux.PrintWarning("%d diagnostics (see log)", len(diags))
	}
	return nil
}

func runHTML(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	rep, err := s.loadReport()
	if err != nil {
		return err
	}
	idx, _, err := s.buildIndex(rep)
	if err != nil {
		return err
	}

	opts := report.Options{
		Source:      s.cfg.Paths.Analysis,
		GeneratedAt: time.Now(),
	}
	var bar *progressbar.ProgressBar
	if ux.IsTerminal() && idx.Len() > 0 {
		bar = ux.NewProgressBar(idx.Len(), "Rendering locations")
		opts.Progress = func(string) { _ = bar.Add(1) }
	}

	path, err := report.WriteHTML(idx, outputPath, opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("failed to write HTML report: %w", err)
	}

	ux.PrintSuccess("Wrote %s (%d locations, %d incidents)", path, idx.Len(), idx.IncidentCount())
	return nil
}

func sortedIDs(violations map[string]violation.Violation) []string {
	ids := make([]string, 0, len(violations))
	for id := range violations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return line
}
