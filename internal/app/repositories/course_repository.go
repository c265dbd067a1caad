package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yigit/castor/internal/app/models"
	"github.com/yigit/castor/internal/db"
	"github.com/yigit/castor/internal/pkg/apperrors"
	"github.com/yigit/castor/internal/pkg/dberrors"
)

// CourseRepository handles course and prerequisite rows in Postgres
type CourseRepository struct {
	db *db.PostgresDB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(database *db.PostgresDB) *CourseRepository {
	return &CourseRepository{
		db: database,
	}
}

// ListCourses retrieves all courses ordered by course number
func (r *CourseRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	query := `
		SELECT course_number, title, credits, qtrs, required
		FROM courses
		ORDER BY course_number
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.CourseNumber,
			&course.Title,
			&course.Credits,
			&course.Qtrs,
			&course.Required,
		); err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		course.Qtrs = models.SortedInts(course.Qtrs)
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// ListPrereqs retrieves every prerequisite grouped by owning course
func (r *CourseRepository) ListPrereqs(ctx context.Context) (map[int][]int, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT course_number, prereq_number
		FROM prereqs
		ORDER BY course_number, prereq_number
	`)
	if err != nil {
		return nil, fmt.Errorf("error listing prerequisites: %w", err)
	}

	pairs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Prereq])
	if err != nil {
		return nil, fmt.Errorf("error scanning prerequisites: %w", err)
	}

	return groupPrereqs(pairs), nil
}

// PrereqsFor retrieves the prerequisite numbers of one course
func (r *CourseRepository) PrereqsFor(ctx context.Context, courseNumber int) ([]int, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT prereq_number
		FROM prereqs
		WHERE course_number = $1
		ORDER BY prereq_number
	`, courseNumber)
	if err != nil {
		return nil, fmt.Errorf("error retrieving prerequisites of %d: %w", courseNumber, err)
	}

	prereqs, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("error scanning prerequisites of %d: %w", courseNumber, err)
	}

	if len(prereqs) == 0 {
		var exists bool
		err := r.db.Pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM courses WHERE course_number = $1)`, courseNumber).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("error checking course %d: %w", courseNumber, err)
		}
		if !exists {
			return nil, apperrors.ErrCourseNotFound
		}
	}
	return models.SortedInts(prereqs), nil
}

// UpsertCourse inserts a course or updates the stored one with the same number
func (r *CourseRepository) UpsertCourse(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (course_number, title, credits, qtrs, required)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (course_number) DO UPDATE
		SET title = EXCLUDED.title,
		    credits = EXCLUDED.credits,
		    qtrs = EXCLUDED.qtrs,
		    required = EXCLUDED.required
	`

	_, err := r.db.Pool.Exec(ctx, query,
		course.CourseNumber, course.Title, course.Credits, models.SortedInts(course.Qtrs), course.Required)
	if dberrors.IsDuplicateConstraintError(err, "courses_title_key") {
		return fmt.Errorf("%w: title %q is already used by another course", apperrors.ErrValidationFailed, course.Title)
	}
	if err != nil {
		return fmt.Errorf("error upserting course %d: %w", course.CourseNumber, err)
	}

	return nil
}

// ReplacePrereqs swaps the prerequisite set of a course in one transaction
func (r *CourseRepository) ReplacePrereqs(ctx context.Context, courseNumber int, prereqs []int) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM prereqs WHERE course_number = $1`, courseNumber); err != nil {
			return fmt.Errorf("error clearing prerequisites of %d: %w", courseNumber, err)
		}

		for _, p := range models.SortedInts(prereqs) {
			_, err := tx.Exec(ctx,
				`INSERT INTO prereqs (course_number, prereq_number) VALUES ($1, $2)`,
				courseNumber, p)
			if dberrors.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: %d requires %d", apperrors.ErrUnknownPrereq, courseNumber, p)
			}
			if err != nil {
				return fmt.Errorf("error inserting prerequisite %d of %d: %w", p, courseNumber, err)
			}
		}
		return nil
	})
}
