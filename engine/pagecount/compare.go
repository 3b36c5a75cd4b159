package pagecount

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Result is one engine's answer for one file
type Result struct {
	Engine string
	Pages  int
	Err    error
}

// Report collects every engine's result for one file
type Report struct {
	Path    string
	Results []Result
}

// Compare asks every counter for the page count of path. Counters run in
// order; one failing does not stop the others.
func Compare(path, password string, counters ...Counter) Report {
	report := Report{Path: path, Results: make([]Result, 0, len(counters))}
	for _, c := range counters {
		pages, err := c.PageCount(path, password)
		if err != nil {
			Logger.Warn("Engine failed to count pages", "engine", c.Name(), "path", path, "error", err)
		} else {
			Logger.Debug("Engine counted pages", "engine", c.Name(), "path", path, "pages", pages)
		}
		report.Results = append(report.Results, Result{Engine: c.Name(), Pages: pages, Err: err})
	}
	return report
}

// Pages returns the agreed page count; ok is false if no engine succeeded
// or successful engines disagree
func (r Report) Pages() (pages int, ok bool) {
	seen := false
	for _, res := range r.Results {
		if res.Err != nil {
			continue
		}
		if seen && res.Pages != pages {
			return 0, false
		}
		pages, seen = res.Pages, true
	}
	return pages, seen
}

// Agree reports whether at least one engine succeeded and all successful
// engines returned the same count
func (r Report) Agree() bool {
	_, ok := r.Pages()
	return ok
}

// Write prints the report as a table
func (r Report) Write(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Engine", "Pages", "Error"})
	table.SetAutoWrapText(false)
	table.SetCaption(true, r.Path)
	for _, res := range r.Results {
		if res.Err != nil {
			table.Append([]string{res.Engine, "-", res.Err.Error()})
			continue
		}
		table.Append([]string{res.Engine, strconv.Itoa(res.Pages), ""})
	}
	if pages, ok := r.Pages(); ok {
		table.SetFooter([]string{"agreed", strconv.Itoa(pages), ""})
	} else {
		table.SetFooter([]string{"agreed", "no", ""})
	}
	table.Render()
}
