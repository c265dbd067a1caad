package catalog

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const reportRule = "**********"

// WriteReport prints a run result, one line per discrepancy, followed by a summary.
func WriteReport(w io.Writer, res *Result, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s CATALOG CHECK %s\n", reportRule, reportRule)
	fmt.Fprintf(&b, "%s %s (run %s)\n\n", res.StartedAt.In(loc).Format("2006-01-02 15:04:05 MST"), loc, res.RunID)

	for _, d := range res.Discrepancies {
		b.WriteString(FormatDiscrepancy(d))
		b.WriteByte('\n')
	}
	if len(res.Discrepancies) > 0 {
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "%s SCRAPING COMPLETED. %d ISSUE(S) FOUND %s\n", reportRule, res.IssueCount(), reportRule)
	if res.IssueCount() == 0 {
		b.WriteString("catalog and database agree\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatDiscrepancy renders one discrepancy as a single report line.
func FormatDiscrepancy(d Discrepancy) string {
	switch d.Kind {
	case NewCourse:
		return fmt.Sprintf("NEW COURSE: %d %s", d.CourseNumber, d.Title)
	case StaleCourse:
		return fmt.Sprintf("STALE COURSE: %d %s", d.CourseNumber, d.Title)
	default:
		return fmt.Sprintf("%d %s changed: db=%v scraped=%v",
			d.CourseNumber, strings.ToUpper(d.Field), d.Old, d.New)
	}
}
