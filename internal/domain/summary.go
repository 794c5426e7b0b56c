package domain

import "time"

// DepartmentSummary holds the statistics of one department.
type DepartmentSummary struct {
	Male        int                 `json:"male"`
	Female      int                 `json:"female"`
	AgeRange    string              `json:"ageRange"`
	Hair        *OrderedMap[int]    `json:"hair"`
	AddressUser *OrderedMap[string] `json:"addressUser"`
}

// NewDepartmentSummary returns a zeroed summary with an unset age range.
func NewDepartmentSummary() *DepartmentSummary {
	return &DepartmentSummary{
		Hair:        NewOrderedMap[int](),
		AddressUser: NewOrderedMap[string](),
	}
}

// Total is the number of records counted for the department.
func (d *DepartmentSummary) Total() int {
	return d.Male + d.Female
}

// Summary maps department name to its statistics in first-seen order.
type Summary = OrderedMap[*DepartmentSummary]

// NewSummary returns an empty summary.
func NewSummary() *Summary {
	return NewOrderedMap[*DepartmentSummary]()
}

// SkippedRecord identifies an input record left out of a summary.
type SkippedRecord struct {
	Index  int    `json:"index"`
	ID     int    `json:"id"`
	Reason string `json:"reason"`
}

// Snapshot is the outcome of one successful fetch cycle.
type Snapshot struct {
	CycleID   string          `json:"cycleId"`
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetchedAt"`
	Records   int             `json:"records"`
	Skipped   []SkippedRecord `json:"skipped"`
	Summary   *Summary        `json:"summary"`
}
