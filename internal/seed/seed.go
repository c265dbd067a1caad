package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/yigit/castor/internal/app/models"
)

// CourseWriter is the part of the course store used by the seeder.
type CourseWriter interface {
	UpsertCourse(ctx context.Context, course *models.Course) error
	PrereqsFor(ctx context.Context, courseNumber int) ([]int, error)
	ReplacePrereqs(ctx context.Context, courseNumber int, prereqs []int) error
}

// FixtureCourse is one course entry of a seed file.
type FixtureCourse struct {
	models.Course `yaml:",inline"`
	Prereqs       []int `yaml:"prereqs"`
}

// Fixture is the content of a seed file.
type Fixture struct {
	Courses []FixtureCourse `yaml:"courses"`
}

// LoadFixture reads a YAML seed file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading fixture %s: %w", path, err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("error parsing fixture %s: %w", path, err)
	}
	return &fixture, nil
}

// Apply upserts every fixture course, then replaces the prerequisite sets that
// differ from the stored ones once all courses exist. Failures are collected so
// one bad entry does not stop the rest.
func Apply(ctx context.Context, writer CourseWriter, fixture *Fixture, lgr zerolog.Logger) error {
	lgr.Info().Int("courses", len(fixture.Courses)).Msg("Seeding courses...")
	var finalErr error

	failed := make(map[int]bool)
	for i := range fixture.Courses {
		course := &fixture.Courses[i].Course
		if err := writer.UpsertCourse(ctx, course); err != nil {
			lgr.Error().Err(err).Int("course_number", course.CourseNumber).Msg("Error seeding course")
			finalErr = errors.Join(finalErr, err)
			failed[course.CourseNumber] = true
		}
	}

	replaced := 0
	for _, fc := range fixture.Courses {
		if failed[fc.CourseNumber] {
			continue
		}

		stored, err := writer.PrereqsFor(ctx, fc.CourseNumber)
		if err != nil {
			lgr.Error().Err(err).Int("course_number", fc.CourseNumber).Msg("Error reading stored prerequisites")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if slices.Equal(stored, models.SortedInts(fc.Prereqs)) {
			continue
		}

		if err := writer.ReplacePrereqs(ctx, fc.CourseNumber, fc.Prereqs); err != nil {
			lgr.Error().Err(err).Int("course_number", fc.CourseNumber).Msg("Error seeding prerequisites")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		replaced++
	}

	if finalErr == nil {
		lgr.Info().Int("prereq_sets_replaced", replaced).Msg("Seed data applied.")
	}
	return finalErr
}
