package repositories

import (
	"context"

	"github.com/yigit/castor/internal/app/models"
)

// CourseStore is the course and prerequisite storage shared by the Postgres
// and SQLite repositories.
type CourseStore interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListPrereqs(ctx context.Context) (map[int][]int, error)
	PrereqsFor(ctx context.Context, courseNumber int) ([]int, error)
	UpsertCourse(ctx context.Context, course *models.Course) error
	ReplacePrereqs(ctx context.Context, courseNumber int, prereqs []int) error
}

var (
	_ CourseStore = (*CourseRepository)(nil)
	_ CourseStore = (*SQLiteCourseRepository)(nil)
)

// groupPrereqs folds (course, prereq) rows into a per-course sorted list
func groupPrereqs(rows []models.Prereq) map[int][]int {
	grouped := make(map[int][]int)
	for _, r := range rows {
		grouped[r.CourseNumber] = append(grouped[r.CourseNumber], r.PrereqNumber)
	}
	for n, list := range grouped {
		grouped[n] = models.SortedInts(list)
	}
	return grouped
}
