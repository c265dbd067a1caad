package models

// Schedule is a user's multi-quarter plan, bounded by a start and an end term.
type Schedule struct {
	ID        int64   `json:"id" db:"id"`
	UserID    int64   `json:"userId" db:"user_id"`
	Name      string  `json:"name" db:"name"`
	StartQtr  Quarter `json:"startQtr" db:"start_qtr"`
	EndQtr    Quarter `json:"endQtr" db:"end_qtr"`
	StartYear int     `json:"startYear" db:"start_year"`
	EndYear   int     `json:"endYear" db:"end_year"`
}

// CourseSchedule places one course in one term of a schedule.
type CourseSchedule struct {
	ID           int64   `json:"id" db:"id"`
	ScheduleID   int64   `json:"scheduleId" db:"schedule_id"`
	CourseNumber int     `json:"courseNumber" db:"course_number"`
	Year         int     `json:"year" db:"year"`
	Qtr          Quarter `json:"qtr" db:"qtr"`
}
