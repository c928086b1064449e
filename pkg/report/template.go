package report

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}</title>
    <style>
        * {
            margin: 0;
            padding: 0;
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif;
            background-color: #f5f5f5;
            color: #333;
            line-height: 1.6;
        }

        #app {
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
        }

        header {
            background: white;
            padding: 20px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            margin-bottom: 20px;
        }

        header h1 {
            font-size: 24px;
            color: #2c3e50;
        }

        header p {
            font-size: 14px;
            color: #7f8c8d;
        }

        .dashboard {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 15px;
            margin-bottom: 20px;
        }

        .metric-card {
            background: white;
            padding: 20px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            text-align: center;
        }

        .metric-value {
            font-size: 32px;
            font-weight: bold;
            color: #2c3e50;
            margin-bottom: 5px;
        }

        .metric-label {
            font-size: 14px;
            color: #7f8c8d;
        }

        .category-badge {
            display: inline-block;
            padding: 2px 8px;
            border-radius: 3px;
            color: white;
            font-size: 12px;
            font-weight: 600;
            margin-right: 6px;
        }

        .diagnostics {
            background: #fff8e1;
            border-left: 4px solid #f0ab00;
            padding: 15px 20px;
            border-radius: 8px;
            margin-bottom: 20px;
            font-size: 13px;
        }

        .diagnostics ul {
            margin-left: 20px;
        }

        .location {
            background: white;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            margin-bottom: 15px;
            overflow: hidden;
        }

        .location > summary {
            padding: 15px 20px;
            cursor: pointer;
            font-weight: 600;
            color: #2c3e50;
            display: flex;
            justify-content: space-between;
        }

        .location-body {
            padding: 0 20px 20px;
        }

        .ruleset h3 {
            font-size: 15px;
            color: #2c3e50;
            margin: 12px 0 4px;
        }

        .ruleset-description {
            font-size: 13px;
            color: #7f8c8d;
        }

        .violation {
            border-top: 1px solid #ecf0f1;
            padding: 10px 0;
        }

        .violation-id {
            font-family: 'Monaco', 'Courier New', monospace;
            font-size: 13px;
            font-weight: 600;
        }

        .violation-meta {
            font-size: 12px;
            color: #7f8c8d;
        }

        .label {
            background-color: #ecf0f1;
            padding: 2px 6px;
            border-radius: 3px;
            font-size: 12px;
            font-family: 'Monaco', 'Courier New', monospace;
            color: #2c3e50;
        }

        .incident {
            margin: 8px 0 0 12px;
            font-size: 13px;
        }

        .line-number {
            color: #e74c3c;
            font-weight: 600;
            font-size: 12px;
        }

        .diff-description {
            margin-bottom: 12px;
            color: #555;
        }

        .diff-container {
            display: grid;
            grid-template-columns: 1fr 1fr;
            gap: 10px;
            padding: 15px;
            background-color: #fafafa;
            margin: 12px 0;
        }

        .diff-pane {
            border-radius: 4px;
            overflow: hidden;
            border: 1px solid #ddd;
        }

        .diff-header {
            padding: 8px 12px;
            font-weight: 600;
            font-size: 12px;
        }

        .before-pane .diff-header {
            background-color: #fadbd8;
            color: #c0392b;
            border-bottom: 2px solid #e74c3c;
        }

        .after-pane .diff-header {
            background-color: #c8e6c9;
            color: #1b5e20;
            border-bottom: 2px solid #27ae60;
        }

        .diff-pane pre {
            margin: 0;
            padding: 12px;
            overflow-x: auto;
            font-size: 12px;
            line-height: 1.5;
        }

        .before-pane pre {
            background-color: #ffeef0;
        }

        .after-pane pre {
            background-color: #e8f5e9;
        }

        .code-snippet {
            background: #2c3e50;
            color: #ecf0f1;
            padding: 12px;
            border-radius: 4px;
            overflow-x: auto;
            font-family: 'Monaco', 'Courier New', 'Consolas', monospace;
            font-size: 12px;
            line-height: 1.5;
            margin: 8px 0;
        }

        .highlighted-line {
            background: #3d2a1f;
            border-left: 3px solid #f0ab00;
            display: block;
            margin-left: -12px;
            padding-left: 9px;
            margin-right: -12px;
            padding-right: 12px;
        }

        @media (max-width: 768px) {
            .diff-container {
                grid-template-columns: 1fr;
            }
        }
    </style>
</head>
<body>
<div id="app">
    <header>
        <h1>{{.Title}}</h1>
        {{if .Source}}<p>Analysis: {{.Source}}</p>{{end}}
        {{if .GeneratedAt}}<p>Generated {{.GeneratedAt}}</p>{{end}}
    </header>

    <div class="dashboard">
        <div class="metric-card">
            <div class="metric-value">{{.TotalLocations}}</div>
            <div class="metric-label">Locations</div>
        </div>
        <div class="metric-card">
            <div class="metric-value">{{.TotalRuleSets}}</div>
            <div class="metric-label">Rule Set Views</div>
        </div>
        <div class="metric-card">
            <div class="metric-value">{{.TotalViolations}}</div>
            <div class="metric-label">Violations</div>
        </div>
        <div class="metric-card">
            <div class="metric-value">{{.TotalIncidents}}</div>
            <div class="metric-label">Incidents</div>
        </div>
        {{range $category, $count := .CategoryCounts}}
        <div class="metric-card">
            <div class="metric-value" style="color: {{categoryColor $category}}">{{$count}}</div>
            <div class="metric-label">{{$category}} incidents</div>
        </div>
        {{end}}
    </div>

    {{if .Diagnostics}}
    <div class="diagnostics">
        <strong>Diagnostics</strong>
        <ul>
            {{range .Diagnostics}}<li>{{.}}</li>
            {{end}}
        </ul>
    </div>
    {{end}}

    {{range .Locations}}
    <details class="location">
        <summary>
            <span title="{{.Location}}">{{truncate .FilePath 120}}</span>
            <span>{{.Incidents}} incidents</span>
        </summary>
        <div class="location-body">
            {{range .RuleSets}}
            <div class="ruleset">
                <h3>{{.Name}}</h3>
                {{if .Description}}<div class="ruleset-description">{{.Description}}</div>{{end}}
                {{range .Violations}}
                <div class="violation">
                    <div>
                        {{if .Category}}<span class="category-badge" style="background-color: {{categoryColor .Category}}">{{.Category}}</span>{{end}}
                        <span class="violation-id">{{.ID}}</span>
                    </div>
                    <div>{{.Description}}</div>
                    <div class="violation-meta">
                        {{if .Effort}}effort {{.Effort}} ({{.Complexity}}){{end}}
                        {{range .Labels}}<span class="label">{{.}}</span> {{end}}
                    </div>
                    {{range .Incidents}}
                    <div class="incident">
                        {{if .LineNumber}}<span class="line-number">line {{.LineNumber}}</span>{{end}}
                        {{formatDiff .Message}}
                        {{highlightLine .CodeSnip .LineNumber}}
                    </div>
                    {{end}}
                </div>
                {{end}}
            </div>
            {{end}}
        </div>
    </details>
    {{end}}
</div>
</body>
</html>
`
