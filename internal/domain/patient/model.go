package patient

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Patient is the parent or guardian account that owns children.
type Patient struct {
	ID                uuid.UUID `db:"id" json:"id"`
	Name              string    `db:"name" json:"name"`
	Email             string    `db:"email" json:"email"`
	Phone             string    `db:"phone" json:"phone"`
	PreferredPharmacy *string   `db:"preferred_pharmacy" json:"preferredPharmacy,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"createdAt"`
}

// Child belongs to exactly one Patient.
type Child struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	PatientID           uuid.UUID `db:"patient_id" json:"patientId"`
	Name                string    `db:"name" json:"name"`
	DateOfBirth         Date      `db:"date_of_birth" json:"dateOfBirth"`
	MedicalRecordNumber string    `db:"medical_record_number" json:"medicalRecordNumber"`
	CurrentWeight       *float64  `db:"current_weight" json:"currentWeight,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
}

// PatientWithChildren is the read view returned for single-patient lookups.
type PatientWithChildren struct {
	Patient
	Children []*Child `json:"children"`
}

const dateLayout = "2006-01-02"

// Date is a calendar date: "YYYY-MM-DD" on the wire, DATE in the
// database. The embedded time is midnight UTC.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

// Scan implements sql.Scanner so a DATE column reads into a Date.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		d.Time = v
		return nil
	case string:
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", v, err)
		}
		d.Time = t
		return nil
	case nil:
		d.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

// Value implements driver.Valuer for writes.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}
