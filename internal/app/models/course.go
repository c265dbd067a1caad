package models

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Course represents a course stored in the planner database.
type Course struct {
	CourseNumber int    `json:"courseNumber" db:"course_number" yaml:"course_number"`
	Title        string `json:"title" db:"title" yaml:"title"`
	Credits      int    `json:"credits" db:"credits" yaml:"credits"`
	Qtrs         []int  `json:"qtrs" db:"qtrs" yaml:"qtrs"`
	Required     bool   `json:"required" db:"required" yaml:"required"`
}

// Prereq links a course to one of its prerequisite courses.
type Prereq struct {
	CourseNumber int `json:"courseNumber" db:"course_number"`
	PrereqNumber int `json:"prereqNumber" db:"prereq_number"`
}

// SortedInts returns a sorted copy of values with duplicates removed
func SortedInts(values []int) []int {
	out := make([]int, 0, len(values))
	seen := make(map[int]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// FormatQuarters encodes quarter codes as comma-separated text for stores without array columns
func FormatQuarters(qtrs []int) string {
	parts := make([]string, 0, len(qtrs))
	for _, q := range SortedInts(qtrs) {
		parts = append(parts, strconv.Itoa(q))
	}
	return strings.Join(parts, ",")
}

// ParseQuarters decodes the text produced by FormatQuarters
func ParseQuarters(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}

	var qtrs []int
	for _, part := range strings.Split(s, ",") {
		q, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid quarter code %q: %w", part, err)
		}
		if !Quarter(q).Valid() {
			return nil, fmt.Errorf("quarter code %d out of range", q)
		}
		qtrs = append(qtrs, q)
	}
	return SortedInts(qtrs), nil
}
