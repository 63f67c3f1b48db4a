package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"visitor-backend/models"
	"visitor-backend/utils"
)

// VisitorStore is the persistence layer for visitor records. It is a thin
// wrapper around *gorm.DB so the lifecycle service can rebind it onto a
// transaction with WithTx.
type VisitorStore struct {
	DB *gorm.DB
}

func NewVisitorStore(db *gorm.DB) *VisitorStore {
	return &VisitorStore{DB: db}
}

// WithTx returns a store bound to the given transaction.
func (st *VisitorStore) WithTx(tx *gorm.DB) *VisitorStore {
	return &VisitorStore{DB: tx}
}

// forUpdate adds SELECT ... FOR UPDATE on MySQL. SQLite (used by the
// tests) has no FOR UPDATE syntax; its writes serialize anyway.
func (st *VisitorStore) forUpdate(q *gorm.DB) *gorm.DB {
	if st.DB.Dialector.Name() == "mysql" {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

// Create persists a new record and lets the database assign the ID. The
// lifecycle engine validates user input before it gets here; this check
// keeps a direct store caller from persisting a malformed record.
func (st *VisitorStore) Create(v *models.VisitorRecord) error {
	for _, r := range []struct{ field, value string }{
		{"name", v.Name},
		{"purpose", v.Purpose},
		{"imageName", v.ImageName},
		{"imageUrl", v.ImageURL},
	} {
		if strings.TrimSpace(r.value) == "" {
			return requiredField(r.field)
		}
	}
	if !utils.IsValidMobile(v.Mobile) {
		return invalidField("mobile", "must be a 10-digit number")
	}

	if err := st.DB.Create(v).Error; err != nil {
		return fmt.Errorf("create visitor: %w", err)
	}
	return nil
}

// FindOpenOnDay returns the open record for the mobile whose check-in falls
// on the given calendar day, or nil when there is none. The row is locked
// for the remainder of the surrounding transaction.
func (st *VisitorStore) FindOpenOnDay(mobile string, day datatypes.Date) (*models.VisitorRecord, error) {
	var v models.VisitorRecord
	err := st.forUpdate(st.DB).
		Where("mobile = ? AND check_in_day = ? AND status = ?", mobile, day, models.StatusCheckedIn).
		Order("id DESC").
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find open visitor for day: %w", err)
	}
	return &v, nil
}

// FindLatestOpenByMobile returns the most recently created open record for
// the mobile across all days, or nil. Creation order breaks check-in-time
// ties, most recent wins.
func (st *VisitorStore) FindLatestOpenByMobile(mobile string) (*models.VisitorRecord, error) {
	var v models.VisitorRecord
	err := st.forUpdate(st.DB).
		Where("mobile = ? AND status = ?", mobile, models.StatusCheckedIn).
		Order("id DESC").
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find latest open visitor: %w", err)
	}
	return &v, nil
}

// GetByID returns the record or ErrNotFound.
func (st *VisitorStore) GetByID(id uint) (*models.VisitorRecord, error) {
	var v models.VisitorRecord
	if err := st.DB.First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get visitor %d: %w", id, err)
	}
	return &v, nil
}

// Update applies a partial update and returns the refreshed record.
// Fails with ErrNotFound when the id does not exist.
func (st *VisitorStore) Update(id uint, patch map[string]interface{}) (*models.VisitorRecord, error) {
	v, err := st.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := st.DB.Model(v).Updates(patch).Error; err != nil {
		return nil, fmt.Errorf("update visitor %d: %w", id, err)
	}
	return v, nil
}

// ListFilter narrows listing, export and report queries.
type ListFilter struct {
	// Status is "all", "checked-in" or "checked-out".
	Status string
	// Day filters on the check-in calendar day when non-nil.
	Day *datatypes.Date
	// Search matches name, mobile and purpose, case-insensitive substring.
	Search string
}

func (st *VisitorStore) filtered(f ListFilter) *gorm.DB {
	q := st.DB.Model(&models.VisitorRecord{})
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Day != nil {
		q = q.Where("check_in_day = ?", *f.Day)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR mobile LIKE ? OR LOWER(purpose) LIKE ?)", like, like, like)
	}
	return q
}

// List returns one page of matching records, newest check-ins first, plus
// the total match count for pagination math.
func (st *VisitorStore) List(f ListFilter, page, limit int) ([]models.VisitorRecord, int64, error) {
	var total int64
	if err := st.filtered(f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count visitors: %w", err)
	}

	var items []models.VisitorRecord
	err := st.filtered(f).
		Order("check_in_time DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list visitors: %w", err)
	}
	return items, total, nil
}

// ListAll returns every matching record, newest check-ins first. Used by
// the report engine and the CSV export.
func (st *VisitorStore) ListAll(f ListFilter) ([]models.VisitorRecord, error) {
	var items []models.VisitorRecord
	err := st.filtered(f).
		Order("check_in_time DESC, id DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list visitors: %w", err)
	}
	return items, nil
}
