package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/castor/internal/pkg/apperrors"
)

func TestReconciler_ZeroIssues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(samplePage(samplePayload)))
	}))
	defer srv.Close()

	lgr, logs := testLogger(t)
	rules := DefaultRules()
	rec := NewReconciler(rules, NewFetcher(catalogConfig(srv.URL), srv.Client()), matchingStore(), lgr)

	res, err := rec.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, res.IssueCount())
	assert.Equal(t, 5, res.Scraped)
	assert.Equal(t, 5, res.Persisted)
	assert.NotEqual(t, uuid.Nil, res.RunID)
	assert.False(t, res.FinishedAt.Before(res.StartedAt))
	assert.Contains(t, logs.String(), res.RunID.String())
}

func TestReconciler_ReportsChanges(t *testing.T) {
	store := matchingStore()
	store.courses[0].Credits = 3 // 290
	store.courses = store.courses[:4]
	store.prereqs[162] = nil

	lgr, _ := testLogger(t)
	rec := NewReconciler(DefaultRules(), &fakeSource{payload: samplePayload}, store, lgr)

	res, err := rec.Run(context.Background())
	require.NoError(t, err)

	got := make([]string, 0, res.IssueCount())
	for _, d := range res.Discrepancies {
		got = append(got, fmt.Sprintf("%s %d %s", d.Kind, d.CourseNumber, d.Field))
	}
	assert.Equal(t, []string{
		"FIELD_CHANGED 162 prerequisites",
		"FIELD_CHANGED 290 credits",
		"NEW_COURSE 399 ",
	}, got)
}

func TestReconciler_FetchFailureIsFatal(t *testing.T) {
	lgr, _ := testLogger(t)
	src := &fakeSource{err: fmt.Errorf("%w: connection refused", apperrors.ErrFetch)}
	store := matchingStore()

	res, err := NewReconciler(DefaultRules(), src, store, lgr).Run(context.Background())

	assert.Nil(t, res)
	assert.ErrorIs(t, err, apperrors.ErrFetch)
	assert.Equal(t, 1, src.calls)
}

func TestReconciler_ParseFailureIsFatal(t *testing.T) {
	lgr, _ := testLogger(t)
	src := &fakeSource{payload: `[{"SubjectCode":"CS","CourseNumber":`}

	res, err := NewReconciler(DefaultRules(), src, matchingStore(), lgr).Run(context.Background())

	assert.Nil(t, res)
	assert.ErrorIs(t, err, apperrors.ErrParse)
}

func TestReconciler_StoreFailure(t *testing.T) {
	lgr, _ := testLogger(t)
	boom := errors.New("connection reset")

	store := matchingStore()
	store.coursesErr = boom
	_, err := NewReconciler(DefaultRules(), &fakeSource{payload: samplePayload}, store, lgr).Run(context.Background())
	assert.ErrorIs(t, err, boom)

	store = matchingStore()
	store.prereqsErr = boom
	_, err = NewReconciler(DefaultRules(), &fakeSource{payload: samplePayload}, store, lgr).Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestReconciler_UsesClock(t *testing.T) {
	lgr, _ := testLogger(t)
	rec := NewReconciler(DefaultRules(), &fakeSource{payload: `[]`}, &fakeStore{}, lgr)
	fixed := time.Date(2025, 9, 24, 8, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	res, err := rec.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixed, res.StartedAt)
	assert.Zero(t, res.IssueCount())
}
