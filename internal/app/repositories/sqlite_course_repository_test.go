package repositories

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/castor/internal/app/models"
	"github.com/yigit/castor/internal/db"
	"github.com/yigit/castor/internal/pkg/apperrors"
)

func newSQLiteRepo(t *testing.T) *SQLiteCourseRepository {
	t.Helper()
	database, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.EnsureSQLiteSchema(context.Background(), database))
	return NewSQLiteCourseRepository(database)
}

func TestSQLiteCourseRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	courses := []models.Course{
		{CourseNumber: 261, Title: "Data Structures", Credits: 4, Qtrs: []int{3, 0, 1}, Required: true},
		{CourseNumber: 161, Title: "Intro To Computer Science I", Credits: 4, Qtrs: []int{0, 1, 2, 3}, Required: true},
		{CourseNumber: 290, Title: "Web Development", Credits: 4, Qtrs: []int{}},
	}
	for i := range courses {
		require.NoError(t, repo.UpsertCourse(ctx, &courses[i]))
	}
	require.NoError(t, repo.ReplacePrereqs(ctx, 261, []int{161}))
	require.NoError(t, repo.ReplacePrereqs(ctx, 290, []int{261, 161, 161}))

	got, err := repo.ListCourses(ctx)
	require.NoError(t, err)
	want := []models.Course{
		{CourseNumber: 161, Title: "Intro To Computer Science I", Credits: 4, Qtrs: []int{0, 1, 2, 3}, Required: true},
		{CourseNumber: 261, Title: "Data Structures", Credits: 4, Qtrs: []int{0, 1, 3}, Required: true},
		{CourseNumber: 290, Title: "Web Development", Credits: 4, Qtrs: []int{}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListCourses mismatch (-want +got):\n%s", diff)
	}

	prereqs, err := repo.ListPrereqs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int][]int{261: {161}, 290: {161, 261}}, prereqs)

	single, err := repo.PrereqsFor(ctx, 290)
	require.NoError(t, err)
	assert.Equal(t, []int{161, 261}, single)

	none, err := repo.PrereqsFor(ctx, 161)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.PrereqsFor(ctx, 999)
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestSQLiteCourseRepository_UpsertUpdates(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	course := models.Course{CourseNumber: 325, Title: "Analysis Of Algorithms", Credits: 4, Qtrs: []int{0}}
	require.NoError(t, repo.UpsertCourse(ctx, &course))

	course.Credits = 3
	course.Qtrs = []int{1, 3}
	require.NoError(t, repo.UpsertCourse(ctx, &course))

	got, err := repo.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Credits)
	assert.Equal(t, []int{1, 3}, got[0].Qtrs)
}

func TestSQLiteCourseRepository_DuplicateTitle(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	require.NoError(t, repo.UpsertCourse(ctx, &models.Course{CourseNumber: 161, Title: "Intro", Credits: 4}))
	err := repo.UpsertCourse(ctx, &models.Course{CourseNumber: 162, Title: "Intro", Credits: 4})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSQLiteCourseRepository_UnknownPrereq(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	require.NoError(t, repo.UpsertCourse(ctx, &models.Course{CourseNumber: 161, Title: "Intro", Credits: 4}))
	require.NoError(t, repo.UpsertCourse(ctx, &models.Course{CourseNumber: 261, Title: "Data Structures", Credits: 4}))
	require.NoError(t, repo.ReplacePrereqs(ctx, 261, []int{161}))

	err := repo.ReplacePrereqs(ctx, 261, []int{161, 999})
	assert.ErrorIs(t, err, apperrors.ErrUnknownPrereq)

	// the failed replacement must leave the previous set intact
	prereqs, err := repo.PrereqsFor(ctx, 261)
	require.NoError(t, err)
	assert.Equal(t, []int{161}, prereqs)
}
