// Package report provides HTML report generation for impact indexes.
package report

import (
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tsanders/kantra-impact/pkg/impact"
	"github.com/tsanders/kantra-impact/pkg/violation"
)

// DefaultFileName is used when the output path is a directory.
const DefaultFileName = "impact.html"

// Options controls HTML rendering.
type Options struct {
	// Title is shown in the page header.
	Title string

	// Source names the analysis file the index was built from.
	Source string

	// GeneratedAt is printed in the header when non-zero.
	GeneratedAt time.Time

	// Progress, when set, is called once per rendered location.
	Progress func(location string)
}

// TemplateData holds all data needed for the HTML template
type TemplateData struct {
	Title           string
	Source          string
	GeneratedAt     string
	TotalLocations  int
	TotalRuleSets   int
	TotalViolations int
	TotalIncidents  int
	CategoryCounts  map[string]int
	Diagnostics     []string
	Locations       []LocationData
}

// LocationData is one affected location and what was reported there.
type LocationData struct {
	Location  string
	FilePath  string
	Incidents int
	RuleSets  []RuleSetData
}

// RuleSetData is one rule set view at a location.
type RuleSetData struct {
	Name        string
	Description string
	Violations  []ViolationData
}

// ViolationData is one violation as seen from a location.
type ViolationData struct {
	ID          string
	Description string
	Category    string
	Effort      string
	Complexity  string
	Labels      []string
	Incidents   []violation.Incident
}

// WriteHTML renders idx into path. A directory path gets DefaultFileName.
// It returns the file written.
func WriteHTML(idx *impact.Index, path string, opts Options) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFileName)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create HTML file: %w", err)
	}
	defer f.Close()

	if err := GenerateHTML(f, idx, opts); err != nil {
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write HTML file: %w", err)
	}
	return path, nil
}

// GenerateHTML renders idx as a standalone HTML page.
func GenerateHTML(w io.Writer, idx *impact.Index, opts Options) error {
	tmpl, err := template.New("impact").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	data := prepareTemplateData(idx, opts)
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// prepareTemplateData flattens the index into sorted template rows.
func prepareTemplateData(idx *impact.Index, opts Options) *TemplateData {
	data := &TemplateData{
		Title:          opts.Title,
		Source:         opts.Source,
		TotalLocations: idx.Len(),
		TotalIncidents: idx.IncidentCount(),
		CategoryCounts: make(map[string]int),
	}
	if data.Title == "" {
		data.Title = "Migration Impact"
	}
	if !opts.GeneratedAt.IsZero() {
		data.GeneratedAt = opts.GeneratedAt.Format(time.RFC1123)
	}

	for _, d := range idx.Diagnostics() {
		data.Diagnostics = append(data.Diagnostics, d.String())
	}

	for _, location := range idx.Locations() {
		view := idx.Report(location)
		loc := LocationData{
			Location: location,
			FilePath: (&violation.Incident{URI: location}).GetFilePath(),
		}

		for _, rs := range view.RuleSets {
			rsData := RuleSetData{Name: rs.Name, Description: rs.Description}
			for _, id := range sortedViolationIDs(rs.Violations) {
				v := rs.Violations[id]
				vData := ViolationData{
					ID:          id,
					Description: v.Description,
					Category:    v.Category,
					Complexity:  v.Complexity(),
					Labels:      v.Labels,
					Incidents:   v.Incidents,
				}
				if effort, ok := v.EffortValue(); ok {
					vData.Effort = fmt.Sprintf("%d", effort)
				}
				if v.Category != "" {
					data.CategoryCounts[v.Category] += len(v.Incidents)
				}
				loc.Incidents += len(v.Incidents)
				data.TotalViolations++
				rsData.Violations = append(rsData.Violations, vData)
			}
			data.TotalRuleSets++
			loc.RuleSets = append(loc.RuleSets, rsData)
		}

		data.Locations = append(data.Locations, loc)
		if opts.Progress != nil {
			opts.Progress(location)
		}
	}

	return data
}

func sortedViolationIDs(violations map[string]violation.Violation) []string {
	ids := make([]string, 0, len(violations))
	for id := range violations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// templateFuncs returns custom template functions
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return s[:length] + "..."
		},
		"categoryColor": func(category string) string {
			switch category {
			case "mandatory":
				return "#C9190B" // red
			case "optional":
				return "#F0AB00" // yellow
			case "potential":
				return "#2B9AF3" // blue
			default:
				return "#6A6E73" // gray
			}
		},
		"formatDiff": func(message string) template.HTML {
			return template.HTML(formatMessageAsDiff(message))
		},
		"highlightLine": func(codeSnip string, lineNumber int) template.HTML {
			return template.HTML(highlightLineInCode(codeSnip, lineNumber))
		},
	}
}

// formatMessageAsDiff renders Before/After sections of an incident message
// side by side. Messages without both markers are escaped as plain text.
func formatMessageAsDiff(message string) string {
	description, rest, ok := strings.Cut(message, "Before:")
	if !ok {
		return fmt.Sprintf("<div>%s</div>", template.HTMLEscapeString(message))
	}
	beforeCode, afterCode, ok := strings.Cut(rest, "After:")
	if !ok {
		return fmt.Sprintf("<div>%s</div>", template.HTMLEscapeString(message))
	}

	description = strings.TrimSpace(description)
	beforeCode = trimFence(beforeCode)
	afterCode = trimFence(afterCode)

	var html strings.Builder

	if description != "" {
		html.WriteString(fmt.Sprintf("<div class='diff-description'>%s</div>", template.HTMLEscapeString(description)))
	}

	html.WriteString("<div class='diff-container'>")

	// Before pane (removal - red)
	html.WriteString("<div class='diff-pane before-pane'>")
	html.WriteString("<div class='diff-header'>Before</div>")
	html.WriteString(fmt.Sprintf("<pre><code>%s</code></pre>", template.HTMLEscapeString(beforeCode)))
	html.WriteString("</div>")

	// After pane (addition - green)
	html.WriteString("<div class='diff-pane after-pane'>")
	html.WriteString("<div class='diff-header'>After</div>")
	html.WriteString(fmt.Sprintf("<pre><code>%s</code></pre>", template.HTMLEscapeString(afterCode)))
	html.WriteString("</div>")

	html.WriteString("</div>")

	return html.String()
}

// trimFence strips surrounding whitespace and a markdown code fence,
// including a language tag on the opening fence.
func trimFence(code string) string {
	code = strings.TrimSpace(code)
	if strings.HasPrefix(code, "```") {
		code = strings.TrimPrefix(code, "```")
		if nl := strings.IndexByte(code, '\n'); nl >= 0 && !strings.ContainsAny(code[:nl], " \t") {
			code = code[nl+1:]
		}
	}
	code = strings.TrimSuffix(code, "```")
	return strings.TrimSpace(code)
}

// highlightLineInCode highlights the specific line number in a code snippet
func highlightLineInCode(codeSnip string, targetLine int) string {
	if codeSnip == "" {
		return ""
	}

	lines := strings.Split(strings.TrimRight(codeSnip, "\n"), "\n")
	var html strings.Builder

	html.WriteString("<pre class='code-snippet'><code>")

	for _, line := range lines {
		// Konveyor snippets prefix each line with its number: " 123  content"
		var lineNum int
		trimmed := strings.TrimLeft(line, " ")
		if trimmed != "" {
			_, _ = fmt.Sscanf(trimmed, "%d", &lineNum)
		}

		if lineNum == targetLine && lineNum > 0 {
			html.WriteString(fmt.Sprintf("<span class='highlighted-line'>%s</span>\n", template.HTMLEscapeString(line)))
		} else {
			html.WriteString(fmt.Sprintf("%s\n", template.HTMLEscapeString(line)))
		}
	}

	html.WriteString("</code></pre>")
	return html.String()
}
