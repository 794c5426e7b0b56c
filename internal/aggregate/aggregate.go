// Package aggregate folds user records into per-department statistics.
package aggregate

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spec-kit/department-summary/internal/domain"
)

// Policy decides what happens to records that fail validation.
type Policy string

const (
	// PolicySkip leaves malformed records out and reports them.
	PolicySkip Policy = "skip"
	// PolicyReject fails the whole batch on the first malformed record.
	PolicyReject Policy = "reject"
)

// ErrMalformedRecord is wrapped by every RecordError.
var ErrMalformedRecord = errors.New("malformed record")

// ParsePolicy maps a configuration value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicySkip, PolicyReject:
		return p, nil
	case "":
		return PolicySkip, nil
	default:
		return "", fmt.Errorf("unknown malformed-record policy %q", s)
	}
}

// RecordError identifies the input record that aborted a batch.
type RecordError struct {
	Index int
	ID    int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record %d (id %d): %v", e.Index, e.ID, e.Err)
}

func (e *RecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}

// Result is the outcome of one aggregation pass.
type Result struct {
	Summary   *domain.Summary
	Processed int
	Skipped   []domain.SkippedRecord
}

// Summarize groups users by department in input order.
//
// For every valid record the department entry is created on first sight,
// gender is tallied as male only for the exact label "male", the age
// bracket of the first record of a department sticks, hair colors are
// counted and the postal code is stored under first+last name with the
// latest record winning.
func Summarize(users []domain.UserRecord, policy Policy) (Result, error) {
	res := Result{Summary: domain.NewSummary()}

	for i, u := range users {
		if err := u.Validate(); err != nil {
			if policy == PolicyReject {
				return Result{}, &RecordError{Index: i, ID: u.ID, Err: err}
			}
			res.Skipped = append(res.Skipped, domain.SkippedRecord{Index: i, ID: u.ID, Reason: err.Error()})
			continue
		}

		dept, ok := res.Summary.Get(u.Department())
		if !ok {
			dept = domain.NewDepartmentSummary()
			res.Summary.Set(u.Department(), dept)
		}

		if u.Gender == domain.GenderMale {
			dept.Male++
		} else {
			dept.Female++
		}

		if dept.AgeRange == "" {
			dept.AgeRange = AgeBracket(u.Age)
		}

		count, _ := dept.Hair.Get(u.HairColor())
		dept.Hair.Set(u.HairColor(), count+1)

		dept.AddressUser.Set(u.DisplayKey(), u.PostalCode())

		res.Processed++
	}

	return res, nil
}

// AgeBracket returns the decade label of age, e.g. 34 -> "30-39".
func AgeBracket(age int) string {
	low := age / 10 * 10
	if age < 0 && age%10 != 0 {
		low -= 10
	}
	return strconv.Itoa(low) + "-" + strconv.Itoa(low+9)
}
