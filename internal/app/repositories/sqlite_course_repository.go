package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yigit/castor/internal/app/models"
	"github.com/yigit/castor/internal/pkg/apperrors"
	"github.com/yigit/castor/internal/pkg/dberrors"
)

// SQLiteCourseRepository handles course and prerequisite rows in a local
// SQLite file. Quarter sets live in a comma-separated text column.
type SQLiteCourseRepository struct {
	db *sql.DB
}

// NewSQLiteCourseRepository creates a course repository on an opened SQLite database
func NewSQLiteCourseRepository(database *sql.DB) *SQLiteCourseRepository {
	return &SQLiteCourseRepository{db: database}
}

// ListCourses retrieves all courses ordered by course number
func (r *SQLiteCourseRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT course_number, title, credits, qtrs, required
		FROM courses
		ORDER BY course_number
	`)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var (
			course models.Course
			qtrs   string
		)
		if err := rows.Scan(&course.CourseNumber, &course.Title, &course.Credits, &qtrs, &course.Required); err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		if course.Qtrs, err = models.ParseQuarters(qtrs); err != nil {
			return nil, fmt.Errorf("course %d: %w", course.CourseNumber, err)
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

// ListPrereqs retrieves every prerequisite grouped by owning course
func (r *SQLiteCourseRepository) ListPrereqs(ctx context.Context) (map[int][]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT course_number, prereq_number FROM prereqs`)
	if err != nil {
		return nil, fmt.Errorf("error listing prerequisites: %w", err)
	}
	defer rows.Close()

	var pairs []models.Prereq
	for rows.Next() {
		var p models.Prereq
		if err := rows.Scan(&p.CourseNumber, &p.PrereqNumber); err != nil {
			return nil, fmt.Errorf("error scanning prerequisite: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groupPrereqs(pairs), nil
}

// PrereqsFor retrieves the prerequisite numbers of one course
func (r *SQLiteCourseRepository) PrereqsFor(ctx context.Context, courseNumber int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT prereq_number FROM prereqs WHERE course_number = ?`, courseNumber)
	if err != nil {
		return nil, fmt.Errorf("error retrieving prerequisites of %d: %w", courseNumber, err)
	}
	defer rows.Close()

	var prereqs []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("error scanning prerequisite of %d: %w", courseNumber, err)
		}
		prereqs = append(prereqs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(prereqs) == 0 {
		var exists bool
		err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM courses WHERE course_number = ?)`, courseNumber).Scan(&exists)
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
func (r *SQLiteCourseRepository) UpsertCourse(ctx context.Context, course *models.Course) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO courses (course_number, title, credits, qtrs, required)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (course_number) DO UPDATE
		SET title = excluded.title,
		    credits = excluded.credits,
		    qtrs = excluded.qtrs,
		    required = excluded.required
	`, course.CourseNumber, course.Title, course.Credits, models.FormatQuarters(course.Qtrs), course.Required)
	if dberrors.IsSQLiteUniqueViolation(err) {
		return fmt.Errorf("%w: title %q is already used by another course", apperrors.ErrValidationFailed, course.Title)
	}
	if err != nil {
		return fmt.Errorf("error upserting course %d: %w", course.CourseNumber, err)
	}
	return nil
}

// ReplacePrereqs swaps the prerequisite set of a course in one transaction
func (r *SQLiteCourseRepository) ReplacePrereqs(ctx context.Context, courseNumber int, prereqs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM prereqs WHERE course_number = ?`, courseNumber); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("error clearing prerequisites of %d: %w", courseNumber, err)
	}

	for _, p := range models.SortedInts(prereqs) {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO prereqs (course_number, prereq_number) VALUES (?, ?)`, courseNumber, p)
		if err != nil {
			_ = tx.Rollback()
			if dberrors.IsSQLiteForeignKeyViolation(err) {
				return fmt.Errorf("%w: %d requires %d", apperrors.ErrUnknownPrereq, courseNumber, p)
			}
			return fmt.Errorf("error inserting prerequisite %d of %d: %w", p, courseNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
