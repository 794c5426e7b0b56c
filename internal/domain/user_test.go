package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func validUser() UserRecord {
	return UserRecord{
		ID:        1,
		FirstName: "Ana",
		LastName:  "Lee",
		Gender:    "female",
		Age:       23,
		Hair:      &Hair{Color: StringPtr("Black")},
		Company: &Company{
			Department: StringPtr("Engineering"),
			Address:    &Address{PostalCode: StringPtr("90210")},
		},
	}
}

func TestUserRecord_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(u *UserRecord)
		want   error
	}{
		{"valid", func(u *UserRecord) {}, nil},
		{"no company", func(u *UserRecord) { u.Company = nil }, ErrMissingCompany},
		{"no department", func(u *UserRecord) { u.Company.Department = nil }, ErrMissingDepartment},
		{"empty department is fine", func(u *UserRecord) { u.Company.Department = StringPtr("") }, nil},
		{"no address", func(u *UserRecord) { u.Company.Address = nil }, ErrMissingAddress},
		{"no postal code", func(u *UserRecord) { u.Company.Address.PostalCode = nil }, ErrMissingPostalCode},
		{"empty postal code is fine", func(u *UserRecord) { u.Company.Address.PostalCode = StringPtr("") }, nil},
		{"no hair", func(u *UserRecord) { u.Hair = nil }, ErrMissingHair},
		{"no hair color", func(u *UserRecord) { u.Hair.Color = nil }, ErrMissingHairColor},
		{"empty hair color is fine", func(u *UserRecord) { u.Hair.Color = StringPtr("") }, nil},
		{"negative age", func(u *UserRecord) { u.Age = -1 }, ErrNegativeAge},
		{"unknown gender is fine", func(u *UserRecord) { u.Gender = "other" }, nil},
		{"empty names are fine", func(u *UserRecord) { u.FirstName, u.LastName = "", "" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(&u)
			if err := u.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUserRecord_DisplayKey(t *testing.T) {
	u := validUser()
	if got := u.DisplayKey(); got != "AnaLee" {
		t.Fatalf("DisplayKey() = %q, want AnaLee", got)
	}
}

func TestUserRecord_DecodeTracksPresence(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{"empty strings", `{"hair":{"color":""},"company":{"department":"","address":{"postalCode":""}}}`, nil},
		{"null department", `{"hair":{"color":"Red"},"company":{"department":null,"address":{"postalCode":"1"}}}`, ErrMissingDepartment},
		{"absent postal code", `{"hair":{"color":"Red"},"company":{"department":"Legal","address":{}}}`, ErrMissingPostalCode},
		{"absent hair color", `{"hair":{},"company":{"department":"Legal","address":{"postalCode":"1"}}}`, ErrMissingHairColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var u UserRecord
			if err := json.Unmarshal([]byte(tt.json), &u); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if err := u.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
