package services

import (
	"errors"
	"testing"
	"time"

	"visitor-backend/models"
)

func openRecord(mobile string, at time.Time) *models.VisitorRecord {
	slot := models.OpenSlotFor(mobile, models.DayOf(at))
	return &models.VisitorRecord{
		Name:        "A",
		Mobile:      mobile,
		IDType:      "none",
		Purpose:     "meeting",
		ImageName:   "x.jpg",
		ImageURL:    "http://x",
		CheckInTime: at,
		CheckInDay:  models.DayOf(at),
		OpenSlot:    &slot,
		Status:      models.StatusCheckedIn,
	}
}

func TestCreateRejectsMalformedRecord(t *testing.T) {
	st := NewVisitorStore(newTestDB(t))

	tests := []struct {
		name   string
		mutate func(*models.VisitorRecord)
		field  string
	}{
		{"missing name", func(v *models.VisitorRecord) { v.Name = "" }, "name"},
		{"missing purpose", func(v *models.VisitorRecord) { v.Purpose = "  " }, "purpose"},
		{"missing image name", func(v *models.VisitorRecord) { v.ImageName = "" }, "imageName"},
		{"missing image url", func(v *models.VisitorRecord) { v.ImageURL = "" }, "imageUrl"},
		{"short mobile", func(v *models.VisitorRecord) { v.Mobile = "12345" }, "mobile"},
		{"alpha mobile", func(v *models.VisitorRecord) { v.Mobile = "abcdefghij" }, "mobile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := openRecord("9876543210", baseTime)
			tt.mutate(v)
			err := st.Create(v)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("field = %q, want %q", vErr.Field, tt.field)
			}
		})
	}
}

func TestOpenSlotUniquePerMobileAndDay(t *testing.T) {
	st := NewVisitorStore(newTestDB(t))

	if err := st.Create(openRecord("9876543210", baseTime)); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// A second open record for the same mobile and day collides on the
	// open_mobile_day unique index even without going through the
	// lifecycle probe.
	if err := st.Create(openRecord("9876543210", baseTime.Add(time.Hour))); err == nil {
		t.Fatal("duplicate open slot must be rejected by the database")
	}

	// Other mobiles and other days have their own slots.
	if err := st.Create(openRecord("9123456780", baseTime)); err != nil {
		t.Errorf("different mobile: %v", err)
	}
	if err := st.Create(openRecord("9876543210", baseTime.AddDate(0, 0, 1))); err != nil {
		t.Errorf("next day: %v", err)
	}
}

func TestCheckOutFreesOpenSlot(t *testing.T) {
	svc := newTestVisitorService(t)
	st := svc.Store

	if _, err := svc.CheckIn(validCheckIn("9876543210")); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	svc.Now = func() time.Time { return baseTime.Add(time.Hour) }
	closed, _, err := svc.CheckOut("9876543210")
	if err != nil {
		t.Fatalf("CheckOut: %v", err)
	}
	if closed.OpenSlot != nil {
		t.Error("checkout must clear the open slot on the returned record")
	}

	stored, err := st.GetByID(closed.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.OpenSlot != nil {
		t.Error("checkout must clear the persisted open slot")
	}

	// The freed slot admits a same-day re-entry at the database level.
	if err := st.Create(openRecord("9876543210", baseTime.Add(2*time.Hour))); err != nil {
		t.Errorf("re-entry after checkout: %v", err)
	}
}
