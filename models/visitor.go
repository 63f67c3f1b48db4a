package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Visitor lifecycle statuses. The transition is one-way:
// checked-in -> checked-out, exactly once.
const (
	StatusCheckedIn  = "checked-in"
	StatusCheckedOut = "checked-out"
)

// ID document types accepted at the kiosk.
var AllowedIDTypes = map[string]bool{
	"aadhar":   true,
	"pan":      true,
	"passport": true,
	"voter":    true,
	"other":    true,
	"none":     true,
}

type VisitorRecord struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Badge code printed on the visitor pass (ULID, assigned on create).
	ReferenceCode string `gorm:"uniqueIndex;size:26" json:"referenceCode"`

	Name        string `gorm:"size:255" json:"name"`
	Mobile      string `gorm:"size:10;index:idx_visitors_mobile_day" json:"mobile"`
	IDType      string `gorm:"size:32;default:none" json:"idType"`
	IDNumber    string `gorm:"size:64" json:"idNumber"`
	Purpose     string `gorm:"size:255" json:"purpose"`
	Address     string `gorm:"size:512" json:"address"`
	Designation string `gorm:"size:255" json:"designation"`
	ImageName   string `gorm:"size:255" json:"imageName"`
	ImageURL    string `gorm:"size:512" json:"imageUrl"`

	CheckInTime time.Time `gorm:"column:check_in_time;index" json:"checkInTime"`

	// Calendar day of the check-in, kept denormalized so the
	// one-open-record-per-mobile-per-day probe hits idx_visitors_mobile_day
	// instead of a DATE() scan over check_in_time.
	CheckInDay datatypes.Date `gorm:"column:check_in_day;index:idx_visitors_mobile_day" json:"-"`

	CheckOutTime *time.Time `gorm:"column:check_out_time" json:"checkOutTime,omitempty"`

	// OpenSlot holds mobile+day while the record is open and is NULLed at
	// checkout. Its unique index makes a second concurrent same-day
	// check-in fail at insert time; NULLs never collide, so checked-out
	// visitors can return the same day.
	OpenSlot *string `gorm:"column:open_mobile_day;uniqueIndex;size:21" json:"-"`

	Status string `gorm:"size:16;index" json:"status"`
}

func (VisitorRecord) TableName() string {
	return "visitors"
}

func (v *VisitorRecord) BeforeCreate(tx *gorm.DB) error {
	if v.ReferenceCode == "" {
		v.ReferenceCode = ulid.Make().String()
	}
	return nil
}

// IsOpen reports whether the record is still awaiting checkout.
func (v *VisitorRecord) IsOpen() bool {
	return v.Status == StatusCheckedIn
}

// DayOf truncates t to its calendar day in t's location.
func DayOf(t time.Time) datatypes.Date {
	return datatypes.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()))
}

// OpenSlotFor derives the open-slot key for a mobile on a calendar day.
func OpenSlotFor(mobile string, day datatypes.Date) string {
	return mobile + "_" + time.Time(day).Format("2006-01-02")
}
