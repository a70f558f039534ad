package templates

import _ "embed"

// ReportTemplate is the HTML shell the run report body is rendered into.
//
//go:embed report.html
var ReportTemplate string
