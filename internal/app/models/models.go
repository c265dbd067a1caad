package models

import "fmt"

// Quarter is an academic quarter code as stored in the database
type Quarter int

// Quarter constants, ordered as they fall within a calendar year
const (
	Winter Quarter = 0
	Spring Quarter = 1
	Summer Quarter = 2
	Fall   Quarter = 3
)

// Valid reports whether q is one of the four quarter codes
func (q Quarter) Valid() bool {
	return q >= Winter && q <= Fall
}

func (q Quarter) String() string {
	switch q {
	case Winter:
		return "Winter"
	case Spring:
		return "Spring"
	case Summer:
		return "Summer"
	case Fall:
		return "Fall"
	default:
		return fmt.Sprintf("Quarter(%d)", int(q))
	}
}
