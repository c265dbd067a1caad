package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_Schema(t *testing.T) {
	database, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer database.Close()

	ctx := context.Background()
	require.NoError(t, EnsureSQLiteSchema(ctx, database))
	// idempotent
	require.NoError(t, EnsureSQLiteSchema(ctx, database))

	var fk int
	require.NoError(t, database.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	_, err = database.ExecContext(ctx, `INSERT INTO prereqs (course_number, prereq_number) VALUES (290, 161)`)
	assert.Error(t, err, "prereq rows must reference existing courses")

	_, err = database.ExecContext(ctx, `INSERT INTO courses (course_number, title, credits) VALUES (161, 'Intro', 20)`)
	assert.Error(t, err, "credits above 16 must be rejected")
}
