package catalog

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/yigit/castor/internal/pkg/apperrors"
)

// Build decodes the catalog payload into course records sorted by course
// number. Ineligible courses are dropped before any normalization; a course
// that fails decoding or normalization is logged and skipped so one bad entry
// does not abort the run. Only a payload that is not a JSON array is an error.
func (r Rules) Build(payload []byte, lgr zerolog.Logger) ([]CourseRecord, error) {
	entries, err := DecodeCatalog(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrParse, err)
	}

	records := make([]CourseRecord, 0, len(entries))
	for _, entry := range entries {
		course, err := DecodeCourse(entry)
		number := course.CourseNumber.String()
		if !r.IsEligible(number) {
			lgr.Debug().Str("course_number", number).Msg("Skipping course outside tracked program")
			continue
		}
		if err != nil {
			lgr.Warn().Err(err).Str("course_number", number).Msg("Skipping malformed catalog course")
			continue
		}

		sessions := course.Sessions()
		rec, err := r.FromRaw(number, sessions)
		if err != nil {
			lgr.Warn().Err(err).Str("course_number", number).Msg("Skipping malformed catalog course")
			continue
		}
		warnSessionDrift(lgr, rec, sessions)
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CourseNumber < records[j].CourseNumber
	})

	// Course numbers must stay unique for the merge in Diff.
	out := records[:0]
	for _, rec := range records {
		if len(out) > 0 && out[len(out)-1].CourseNumber == rec.CourseNumber {
			lgr.Warn().Int("course_number", rec.CourseNumber).Msg("Duplicate catalog course, keeping first entry")
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// warnSessionDrift flags courses whose later sessions disagree with the first
// session on title or credits, since only the first one is kept.
func warnSessionDrift(lgr zerolog.Logger, rec CourseRecord, sessions []RawOffering) {
	for _, s := range sessions[1:] {
		title, terr := NormalizeTitle(s.Title)
		credits, cerr := NormalizeCredits(s.Credits.String())
		if terr == nil && cerr == nil && title == rec.Title && credits == rec.Credits {
			continue
		}
		lgr.Warn().
			Int("course_number", rec.CourseNumber).
			Str("term", s.TermShortDescription).
			Str("kept_title", rec.Title).
			Str("session_title", s.Title).
			Msg("Catalog sessions disagree on title or credits, using first session")
		return
	}
}
