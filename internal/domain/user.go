package domain

import "errors"

// Gender label counted as male. Every other value is tallied as female.
const GenderMale = "male"

var (
	ErrMissingCompany    = errors.New("company missing")
	ErrMissingDepartment = errors.New("company.department missing")
	ErrMissingAddress    = errors.New("company.address missing")
	ErrMissingPostalCode = errors.New("company.address.postalCode missing")
	ErrMissingHair       = errors.New("hair missing")
	ErrMissingHairColor  = errors.New("hair.color missing")
	ErrNegativeAge       = errors.New("age is negative")
)

// UserRecord is a user as delivered by the upstream directory.
type UserRecord struct {
	ID        int      `json:"id"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Gender    string   `json:"gender"`
	Age       int      `json:"age"`
	Hair      *Hair    `json:"hair,omitempty"`
	Company   *Company `json:"company,omitempty"`
}

// Hair describes a user's hair.
type Hair struct {
	Color *string `json:"color"`
	Type  string `json:"type,omitempty"`
}

// Company is the organizational descriptor of a user.
type Company struct {
	Department *string  `json:"department"`
	Name       string   `json:"name,omitempty"`
	Title      string   `json:"title,omitempty"`
	Address    *Address `json:"address,omitempty"`
}

// Address is the company location of a user.
type Address struct {
	Address    string  `json:"address,omitempty"`
	City       string  `json:"city,omitempty"`
	State      string  `json:"state,omitempty"`
	PostalCode *string `json:"postalCode"`
}

// StringPtr returns a pointer to s, for building records in code.
func StringPtr(s string) *string {
	return &s
}

// Validate reports the first field the aggregation cannot do without.
// Only presence is checked: an empty department, postal code or hair color
// is a valid value. Gender and names are never checked.
func (u UserRecord) Validate() error {
	switch {
	case u.Company == nil:
		return ErrMissingCompany
	case u.Company.Department == nil:
		return ErrMissingDepartment
	case u.Company.Address == nil:
		return ErrMissingAddress
	case u.Company.Address.PostalCode == nil:
		return ErrMissingPostalCode
	case u.Hair == nil:
		return ErrMissingHair
	case u.Hair.Color == nil:
		return ErrMissingHairColor
	case u.Age < 0:
		return ErrNegativeAge
	}
	return nil
}

// Department returns the grouping key. Callers must Validate first.
func (u UserRecord) Department() string {
	return *u.Company.Department
}

// PostalCode returns the company postal code. Callers must Validate first.
func (u UserRecord) PostalCode() string {
	return *u.Company.Address.PostalCode
}

// HairColor returns the hair color. Callers must Validate first.
func (u UserRecord) HairColor() string {
	return *u.Hair.Color
}

// DisplayKey is first and last name joined without a separator.
func (u UserRecord) DisplayKey() string {
	return u.FirstName + u.LastName
}
