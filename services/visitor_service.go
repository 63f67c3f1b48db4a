package services

import (
	"errors"
	"strings"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"visitor-backend/models"
	"visitor-backend/utils"
)

// VisitorService is the check-in/check-out lifecycle engine. All state
// transitions run inside a transaction so a concurrent writer either sees
// the committed record or fails cleanly, never both.
type VisitorService struct {
	DB    *gorm.DB
	Store *VisitorStore

	// Now is the clock; tests swap it out.
	Now func() time.Time
}

func NewVisitorService(db *gorm.DB) *VisitorService {
	return &VisitorService{DB: db, Store: NewVisitorStore(db), Now: time.Now}
}

// CheckInInput is the kiosk form payload after binding.
type CheckInInput struct {
	Name        string
	Mobile      string
	IDType      string
	IDNumber    string
	Purpose     string
	Address     string
	Designation string
	ImageName   string
	ImageURL    string
}

func (in *CheckInInput) trim() {
	in.Name = strings.TrimSpace(in.Name)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.IDType = strings.TrimSpace(in.IDType)
	in.IDNumber = strings.TrimSpace(in.IDNumber)
	in.Purpose = strings.TrimSpace(in.Purpose)
	in.Address = strings.TrimSpace(in.Address)
	in.Designation = strings.TrimSpace(in.Designation)
	in.ImageName = strings.TrimSpace(in.ImageName)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
}

func (in *CheckInInput) validate() error {
	required := []struct {
		field, value string
	}{
		{"name", in.Name},
		{"mobile", in.Mobile},
		{"purpose", in.Purpose},
		{"imageName", in.ImageName},
		{"imageUrl", in.ImageURL},
	}
	for _, r := range required {
		if r.value == "" {
			return requiredField(r.field)
		}
	}
	if !utils.IsValidMobile(in.Mobile) {
		return invalidField("mobile", "must be a 10-digit number")
	}
	if in.IDType == "" {
		in.IDType = "none"
	}
	if !models.AllowedIDTypes[in.IDType] {
		return invalidField("idType", "is not a recognized ID type")
	}
	return nil
}

// isDuplicateKey reports a MySQL duplicate-entry error (1062). A second
// concurrent check-in that slips past the locked probe collides on the
// open_mobile_day unique index and lands here.
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// isLockConflict reports a MySQL deadlock (1213) or lock-wait timeout
// (1205). Two same-day check-ins racing through the probe can gap-lock
// each other's insert range; InnoDB rolls one back with 1213.
func isLockConflict(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && (myErr.Number == 1213 || myErr.Number == 1205)
}

// CheckIn validates the form, rejects a duplicate same-day check-in for
// the mobile and persists the new open record. The same-day probe only
// looks at open records: a visitor who checked out may return later the
// same day.
func (s *VisitorService) CheckIn(in CheckInInput) (*models.VisitorRecord, error) {
	in.trim()
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := s.Now()
	day := models.DayOf(now)
	slot := models.OpenSlotFor(in.Mobile, day)
	record := &models.VisitorRecord{
		Name:        in.Name,
		Mobile:      in.Mobile,
		IDType:      in.IDType,
		IDNumber:    in.IDNumber,
		Purpose:     in.Purpose,
		Address:     in.Address,
		Designation: in.Designation,
		ImageName:   in.ImageName,
		ImageURL:    in.ImageURL,
		CheckInTime: now,
		CheckInDay:  day,
		OpenSlot:    &slot,
		Status:      models.StatusCheckedIn,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		store := s.Store.WithTx(tx)

		existing, err := store.FindOpenOnDay(in.Mobile, day)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyCheckedIn
		}
		return store.Create(record)
	})
	if err != nil {
		// A racer that beat us to the slot surfaces as a duplicate key
		// or as the rolled-back side of a gap-lock deadlock.
		if isDuplicateKey(err) || isLockConflict(err) {
			return nil, ErrAlreadyCheckedIn
		}
		return nil, err
	}
	return record, nil
}

// CheckOut closes the most recently created open record for the mobile,
// stamping status and checkout time together. Returns the updated record
// and the formatted visit duration. A concurrent second checkout finds no
// open record and gets ErrNoActiveVisit.
func (s *VisitorService) CheckOut(mobile string) (*models.VisitorRecord, string, error) {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return nil, "", requiredField("mobile")
	}
	if !utils.IsValidMobile(mobile) {
		return nil, "", invalidField("mobile", "must be a 10-digit number")
	}

	var record *models.VisitorRecord
	now := s.Now()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		store := s.Store.WithTx(tx)

		open, err := store.FindLatestOpenByMobile(mobile)
		if err != nil {
			return err
		}
		if open == nil {
			return ErrNoActiveVisit
		}
		if err := s.close(tx, open, now); err != nil {
			return err
		}
		record = open
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return record, utils.FormatDurationLong(now.Sub(record.CheckInTime)), nil
}

// CheckOutByID closes a specific record from the admin records screen.
func (s *VisitorService) CheckOutByID(id uint) (*models.VisitorRecord, string, error) {
	var record *models.VisitorRecord
	now := s.Now()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var v models.VisitorRecord
		store := s.Store.WithTx(tx)
		if err := store.forUpdate(tx).First(&v, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !v.IsOpen() {
			return ErrNotCheckedIn
		}
		if err := s.close(tx, &v, now); err != nil {
			return err
		}
		record = &v
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return record, utils.FormatDurationLong(now.Sub(record.CheckInTime)), nil
}

// close stamps status and checkout time in a single update so no partial
// transition can be observed. Clearing open_mobile_day frees the unique
// slot for a same-day re-entry.
func (s *VisitorService) close(tx *gorm.DB, v *models.VisitorRecord, now time.Time) error {
	if err := tx.Model(v).Updates(map[string]interface{}{
		"status":          models.StatusCheckedOut,
		"check_out_time":  now,
		"open_mobile_day": nil,
	}).Error; err != nil {
		return err
	}
	v.Status = models.StatusCheckedOut
	v.CheckOutTime = &now
	v.OpenSlot = nil
	return nil
}

// UpdateIDDetails corrects the ID document fields on an existing record.
func (s *VisitorService) UpdateIDDetails(id uint, idType, idNumber string) (*models.VisitorRecord, error) {
	idType = strings.TrimSpace(idType)
	if idType == "" {
		idType = "none"
	}
	if !models.AllowedIDTypes[idType] {
		return nil, invalidField("idType", "is not a recognized ID type")
	}
	return s.Store.Update(id, map[string]interface{}{
		"id_type":   idType,
		"id_number": strings.TrimSpace(idNumber),
	})
}
