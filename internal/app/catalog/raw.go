package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/yigit/castor/internal/pkg/apperrors"
)

// RawCourse is one course entry of the catalog payload.
type RawCourse struct {
	SubjectCode  Text `json:"SubjectCode"`
	CourseNumber Text `json:"CourseNumber"`
	Offerings    struct {
		CourseOffering OneOrMany[RawOffering] `json:"CourseOffering"`
	} `json:"Offerings"`
}

// Sessions returns every scheduled offering of the course.
func (c RawCourse) Sessions() []RawOffering {
	return c.Offerings.CourseOffering
}

// RawOffering is a single session of a course in one term.
type RawOffering struct {
	CourseNumber         Text        `json:"CourseNumber"`
	TermShortDescription string      `json:"TermShortDescription"`
	Credits              Text        `json:"Credits"`
	Title                string      `json:"Title"`
	Prereqs              *RawPrereqs `json:"Prereqs,omitempty"`
}

// RawPrereqs wraps the prerequisite list of an offering. Offerings gated by
// something other than courses (placement tests) carry no block at all.
type RawPrereqs struct {
	CoursePrereq OneOrMany[RawPrereq] `json:"CoursePrereq"`
}

// RawPrereq references one prerequisite course.
type RawPrereq struct {
	PrereqSubjectCode  string `json:"PrereqSubjectCode"`
	PrereqCourseNumber Text   `json:"PrereqCourseNumber"`
}

// OneOrMany decodes a JSON value that is either a single object or an array of
// them. null decodes to an empty list.
type OneOrMany[T any] []T

// UnmarshalJSON implements json.Unmarshaler
func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = nil
		return nil
	}

	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*o = items
		return nil
	}

	var item T
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*o = OneOrMany[T]{item}
	return nil
}

// Text is a scalar the catalog emits either as a JSON string or a bare number.
type Text string

// UnmarshalJSON implements json.Unmarshaler
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*t = Text(n.String())
		return nil
	}
}

func (t Text) String() string { return string(t) }

// DecodeCatalog splits the payload embedded in the catalog page into its
// course entries. Only the top-level array is checked; entries are decoded
// one at a time by DecodeCourse.
func DecodeCatalog(payload []byte) ([]json.RawMessage, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DecodeCourse decodes one course entry. When a field has the wrong shape the
// returned course still carries the course number if that much could be read,
// and the error is a normalization error for that course.
func DecodeCourse(entry json.RawMessage) (RawCourse, error) {
	var course RawCourse
	err := json.Unmarshal(entry, &course)
	if err == nil {
		return course, nil
	}

	var head struct {
		CourseNumber Text `json:"CourseNumber"`
	}
	if json.Unmarshal(entry, &head) != nil {
		head.CourseNumber = ""
	}
	return RawCourse{CourseNumber: head.CourseNumber}, apperrors.NewNormalizationError(
		head.CourseNumber.String(), "entry",
		fmt.Sprintf("course %q could not be decoded: %v", head.CourseNumber, err))
}
