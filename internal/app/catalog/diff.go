package catalog

import (
	"fmt"
	"slices"
	"sort"

	"github.com/yigit/castor/internal/app/models"
)

// Kind classifies a discrepancy between the catalog and the database.
type Kind int

const (
	// NewCourse is in the catalog but not in the database.
	NewCourse Kind = iota
	// StaleCourse is in the database but no longer in the catalog.
	StaleCourse
	// FieldChanged is in both, with at least one field that differs.
	FieldChanged
)

func (k Kind) String() string {
	switch k {
	case NewCourse:
		return "NEW_COURSE"
	case StaleCourse:
		return "STALE_COURSE"
	case FieldChanged:
		return "FIELD_CHANGED"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Compared field names
const (
	FieldTitle         = "title"
	FieldCredits       = "credits"
	FieldQuarters      = "quarters"
	FieldPrerequisites = "prerequisites"
)

// Discrepancy is a single difference between scraped and stored data. For
// FieldChanged, Old holds the stored value and New the scraped one.
type Discrepancy struct {
	Kind         Kind
	CourseNumber int
	Title        string
	Field        string
	Old          any
	New          any
}

// Diff merges the scraped records against the stored courses and reports every
// difference. prereqs maps a stored course number to its prerequisite numbers.
// Both inputs are sorted by course number before the merge; the originals are
// left untouched.
func Diff(scraped []CourseRecord, persisted []models.Course, prereqs map[int][]int) ([]Discrepancy, int) {
	scraped = slices.Clone(scraped)
	sort.SliceStable(scraped, func(i, j int) bool { return scraped[i].CourseNumber < scraped[j].CourseNumber })
	persisted = slices.Clone(persisted)
	sort.SliceStable(persisted, func(i, j int) bool { return persisted[i].CourseNumber < persisted[j].CourseNumber })

	var out []Discrepancy
	i, j := 0, 0
	for i < len(scraped) && j < len(persisted) {
		s, p := scraped[i], persisted[j]
		switch {
		case s.CourseNumber < p.CourseNumber:
			out = append(out, newCourse(s))
			i++
		case s.CourseNumber > p.CourseNumber:
			out = append(out, staleCourse(p))
			j++
		default:
			out = append(out, compare(s, p, prereqs[p.CourseNumber])...)
			i++
			j++
		}
	}

	// One side is exhausted; whatever remains on the other has no counterpart.
	for ; i < len(scraped); i++ {
		out = append(out, newCourse(scraped[i]))
	}
	for ; j < len(persisted); j++ {
		out = append(out, staleCourse(persisted[j]))
	}

	return out, len(out)
}

func newCourse(s CourseRecord) Discrepancy {
	return Discrepancy{Kind: NewCourse, CourseNumber: s.CourseNumber, Title: s.Title}
}

func staleCourse(p models.Course) Discrepancy {
	return Discrepancy{Kind: StaleCourse, CourseNumber: p.CourseNumber, Title: p.Title}
}

func compare(s CourseRecord, p models.Course, storedPrereqs []int) []Discrepancy {
	var out []Discrepancy
	changed := func(field string, stored, fresh any) {
		out = append(out, Discrepancy{
			Kind:         FieldChanged,
			CourseNumber: s.CourseNumber,
			Title:        p.Title,
			Field:        field,
			Old:          stored,
			New:          fresh,
		})
	}

	if s.Title != p.Title {
		changed(FieldTitle, p.Title, s.Title)
	}
	if s.Credits != p.Credits {
		changed(FieldCredits, p.Credits, s.Credits)
	}
	if stored, fresh := models.SortedInts(p.Qtrs), models.SortedInts(s.Quarters); !slices.Equal(stored, fresh) {
		changed(FieldQuarters, stored, fresh)
	}
	if stored, fresh := models.SortedInts(storedPrereqs), models.SortedInts(s.Prerequisites); !slices.Equal(stored, fresh) {
		changed(FieldPrerequisites, stored, fresh)
	}
	return out
}
