package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yigit/castor/internal/app/models"
	"github.com/yigit/castor/internal/pkg/apperrors"
)

// Credit bounds accepted for a single course.
const (
	MinCredits = 1
	MaxCredits = 16
)

// CourseRecord is the canonical form of one scraped course. Quarters and
// Prerequisites are always deduplicated and sorted ascending.
type CourseRecord struct {
	CourseNumber  int
	Title         string
	Credits       int
	Quarters      []int
	Prerequisites []int
}

// FromRaw normalizes every session of one course into a CourseRecord. Title and
// credits are taken from the first session; quarters and prerequisites are
// collected across all of them.
func (r Rules) FromRaw(number string, sessions []RawOffering) (CourseRecord, error) {
	n, err := strconv.Atoi(strings.TrimSpace(number))
	if err != nil {
		return CourseRecord{}, apperrors.NewNormalizationError(number, "course_number",
			fmt.Sprintf("course number %q is not an integer", number))
	}
	if len(sessions) == 0 {
		return CourseRecord{}, apperrors.NewNormalizationError(number, "offerings",
			fmt.Sprintf("course %d has no offerings", n))
	}

	first := sessions[0]
	title, err := NormalizeTitle(first.Title)
	if err != nil {
		return CourseRecord{}, apperrors.NewNormalizationError(number, "title",
			fmt.Sprintf("course %d: %v", n, err))
	}

	credits, err := NormalizeCredits(first.Credits.String())
	if err != nil {
		return CourseRecord{}, apperrors.NewNormalizationError(number, "credits",
			fmt.Sprintf("course %d: %v", n, err))
	}

	labels := make([]string, 0, len(sessions))
	for _, s := range sessions {
		labels = append(labels, s.TermShortDescription)
	}
	quarters, err := r.NormalizeQuarters(labels)
	if err != nil {
		return CourseRecord{}, apperrors.NewNormalizationError(number, "quarters",
			fmt.Sprintf("course %d: %v", n, err))
	}

	return CourseRecord{
		CourseNumber:  n,
		Title:         title,
		Credits:       credits,
		Quarters:      quarters,
		Prerequisites: r.ExtractPrereqs(sessions),
	}, nil
}

// NormalizeTitle strips leading punctuation, capitalizes each word and repairs
// a trailing roman numeral "II" that capitalization turned into "Ii".
func NormalizeTitle(title string) (string, error) {
	start := strings.IndexFunc(title, isAlnum)
	if start < 0 {
		return "", fmt.Errorf("title %q has no alphanumeric characters", title)
	}

	words := strings.Fields(title[start:])
	for i, w := range words {
		words[i] = capitalize(w)
	}
	out := strings.Join(words, " ")

	if strings.HasSuffix(out, "Ii") {
		out = strings.TrimSuffix(out, "i") + "I"
	}
	return out, nil
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// NormalizeCredits parses a credit value. Variable credit ranges such as "1-16"
// resolve to their lower bound.
func NormalizeCredits(credits string) (int, error) {
	credits = strings.TrimSpace(credits)
	n, err := strconv.Atoi(credits)
	if err != nil {
		end := strings.IndexFunc(credits, func(r rune) bool { return r < '0' || r > '9' })
		if end == 0 {
			return 0, fmt.Errorf("credits %q do not start with a number", credits)
		}
		if end > 0 {
			credits = credits[:end]
		}
		if n, err = strconv.Atoi(credits); err != nil {
			return 0, fmt.Errorf("credits %q: %w", credits, err)
		}
	}

	if n < MinCredits || n > MaxCredits {
		return 0, fmt.Errorf("credits %d outside %d-%d", n, MinCredits, MaxCredits)
	}
	return n, nil
}

// NormalizeQuarters maps session term labels to quarter codes, deduplicated and sorted.
func (r Rules) NormalizeQuarters(labels []string) ([]int, error) {
	qtrs := make([]int, 0, len(labels))
	for _, label := range labels {
		q, err := r.QuarterCode(label)
		if err != nil {
			return nil, err
		}
		qtrs = append(qtrs, q)
	}
	return models.SortedInts(qtrs), nil
}

// ExtractPrereqs collects the prerequisites of every session, keeping only
// tracked-subject courses that are themselves eligible.
func (r Rules) ExtractPrereqs(sessions []RawOffering) []int {
	var prereqs []int
	for _, s := range sessions {
		if s.Prereqs == nil {
			continue
		}
		for _, p := range s.Prereqs.CoursePrereq {
			if p.PrereqSubjectCode != r.subject || !r.IsEligible(p.PrereqCourseNumber.String()) {
				continue
			}
			n, _ := strconv.Atoi(strings.TrimSpace(p.PrereqCourseNumber.String()))
			prereqs = append(prereqs, n)
		}
	}
	return models.SortedInts(prereqs)
}
