package services

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"visitor-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	// Every pooled connection to :memory: is a distinct database; pin
	// the pool to one connection so all queries see the same schema.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.Admin{}, &models.VisitorRecord{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// baseTime is a Monday morning; tests derive all clocks from it.
var baseTime = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func validCheckIn(mobile string) CheckInInput {
	return CheckInInput{
		Name:      "A",
		Mobile:    mobile,
		Purpose:   "meeting",
		ImageName: "x.jpg",
		ImageURL:  "http://x",
	}
}

func seedVisitor(t *testing.T, db *gorm.DB, mobile, name, purpose string, checkIn time.Time, checkOut *time.Time) *models.VisitorRecord {
	t.Helper()

	status := models.StatusCheckedIn
	var slot *string
	if checkOut != nil {
		status = models.StatusCheckedOut
	} else {
		s := models.OpenSlotFor(mobile, models.DayOf(checkIn))
		slot = &s
	}
	v := &models.VisitorRecord{
		Name:         name,
		Mobile:       mobile,
		IDType:       "none",
		Purpose:      purpose,
		ImageName:    "x.jpg",
		ImageURL:     "http://x",
		CheckInTime:  checkIn,
		CheckInDay:   models.DayOf(checkIn),
		CheckOutTime: checkOut,
		OpenSlot:     slot,
		Status:       status,
	}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed visitor: %v", err)
	}
	return v
}
