package catalog

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yigit/castor/internal/app/models"
)

// samplePayload mirrors the catalog JSON: unsorted, mixing single-object and
// array shapes, and carrying entries the rules must drop.
const samplePayload = `[{"SubjectCode":"CS","CourseNumber":"161","Offerings":{"CourseOffering":[
   {"CourseNumber":"161","TermShortDescription":"F25","Credits":"4","Title":"INTRO TO COMPUTER SCIENCE I"},
   {"CourseNumber":"161","TermShortDescription":"W26","Credits":"4","Title":"INTRO TO COMPUTER SCIENCE I"}]}},
 {"SubjectCode":"CS","CourseNumber":"290","Offerings":{"CourseOffering":[
   {"CourseNumber":"290","TermShortDescription":"F25","Credits":"4","Title":"web development",
    "Prereqs":{"CoursePrereq":[
      {"PrereqSubjectCode":"CS","PrereqCourseNumber":"162"},
      {"PrereqSubjectCode":"MTH","PrereqCourseNumber":"112"},
      {"PrereqSubjectCode":"CS","PrereqCourseNumber":"161H"}]}},
   {"CourseNumber":"290","TermShortDescription":"Su26","Credits":"4","Title":"web development",
    "Prereqs":{"CoursePrereq":{"PrereqSubjectCode":"CS","PrereqCourseNumber":"161"}}}]}},
 {"SubjectCode":"CS","CourseNumber":"162","Offerings":{"CourseOffering":
   {"CourseNumber":"162","TermShortDescription":"Sp26","Credits":4,"Title":"*INTRO TO COMPUTER SCIENCE II",
    "Prereqs":{"CoursePrereq":{"PrereqSubjectCode":"CS","PrereqCourseNumber":"161"}}}}},
 {"SubjectCode":"CS","CourseNumber":"161H","Offerings":{"CourseOffering":
   {"CourseNumber":"161H","TermShortDescription":"F25","Credits":"4","Title":"honors intro"}}},
 {"SubjectCode":"CS","CourseNumber":"101","Offerings":{"CourseOffering":
   {"CourseNumber":"101","TermShortDescription":"F25","Credits":"4","Title":"computers: applications"}}},
 {"SubjectCode":"CS","CourseNumber":"225","Offerings":{"CourseOffering":
   {"CourseNumber":"225","TermShortDescription":"W26","Credits":"4","Title":"discrete structures in computer science"}}},
 {"SubjectCode":"CS","CourseNumber":"340","Offerings":{"CourseOffering":
   {"CourseNumber":"340","TermShortDescription":"Q25","Credits":"4","Title":"introduction to databases"}}},
 {"SubjectCode":"CS","CourseNumber":"599","Offerings":{"CourseOffering":
   {"CourseNumber":"599","TermShortDescription":"F25","Credits":"4","Title":"graduate topics"}}},
 {"SubjectCode":"CS","CourseNumber":399,"Offerings":{"CourseOffering":
   {"CourseNumber":399,"TermShortDescription":"F25","Credits":"1-16","Title":"special topics"}}}
]`

// sampleRecords is what Build should produce from samplePayload.
func sampleRecords() []CourseRecord {
	return []CourseRecord{
		{CourseNumber: 161, Title: "Intro To Computer Science I", Credits: 4, Quarters: []int{0, 3}, Prerequisites: []int{}},
		{CourseNumber: 162, Title: "Intro To Computer Science II", Credits: 4, Quarters: []int{1}, Prerequisites: []int{161}},
		{CourseNumber: 225, Title: "Discrete Structures In Computer Science", Credits: 4, Quarters: []int{0}, Prerequisites: []int{}},
		{CourseNumber: 290, Title: "Web Development", Credits: 4, Quarters: []int{2, 3}, Prerequisites: []int{161, 162}},
		{CourseNumber: 399, Title: "Special Topics", Credits: 1, Quarters: []int{3}, Prerequisites: []int{}},
	}
}

// matchingStore holds the stored counterpart of sampleRecords, deliberately
// out of order and with unsorted sets.
func matchingStore() *fakeStore {
	return &fakeStore{
		courses: []models.Course{
			{CourseNumber: 290, Title: "Web Development", Credits: 4, Qtrs: []int{3, 2}},
			{CourseNumber: 161, Title: "Intro To Computer Science I", Credits: 4, Qtrs: []int{3, 0}, Required: true},
			{CourseNumber: 162, Title: "Intro To Computer Science II", Credits: 4, Qtrs: []int{1}, Required: true},
			{CourseNumber: 225, Title: "Discrete Structures In Computer Science", Credits: 4, Qtrs: []int{0}, Required: true},
			{CourseNumber: 399, Title: "Special Topics", Credits: 1, Qtrs: []int{3}},
		},
		prereqs: map[int][]int{
			162: {161},
			290: {162, 161},
		},
	}
}

// decodeAll decodes every entry of a payload, failing the test on any error.
func decodeAll(t *testing.T, payload string) []RawCourse {
	t.Helper()
	entries, err := DecodeCatalog([]byte(payload))
	if err != nil {
		t.Fatalf("DecodeCatalog: %v", err)
	}
	courses := make([]RawCourse, 0, len(entries))
	for _, e := range entries {
		c, err := DecodeCourse(e)
		if err != nil {
			t.Fatalf("DecodeCourse: %v", err)
		}
		courses = append(courses, c)
	}
	return courses
}

func samplePage(payload string) string {
	return `<!DOCTYPE html>
<html><head><title>Ecampus Schedule of Classes</title>
<!-- layout: legacy -->
</head><body>
<table id="courses"><tr><td>CS 161</td></tr></table>
<!--` + payload + `-->
</body></html>`
}

type fakeStore struct {
	courses    []models.Course
	prereqs    map[int][]int
	coursesErr error
	prereqsErr error
}

func (s *fakeStore) ListCourses(context.Context) ([]models.Course, error) {
	return s.courses, s.coursesErr
}

func (s *fakeStore) ListPrereqs(context.Context) (map[int][]int, error) {
	return s.prereqs, s.prereqsErr
}

type fakeSource struct {
	payload string
	err     error
	calls   int
}

func (s *fakeSource) Fetch(context.Context) (string, error) {
	s.calls++
	return s.payload, s.err
}

func testLogger(t *testing.T) (zerolog.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return zerolog.New(&buf).Level(zerolog.DebugLevel), &buf
}
