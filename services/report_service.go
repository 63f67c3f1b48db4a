package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"visitor-backend/models"
	"visitor-backend/utils"
)

// Listing page size bounds, matching the admin dashboard.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DurationPending marks an open visit in listing payloads, as opposed to a
// live-computed duration in the active-visitors view.
const DurationPending = "pending"

// ReportService is the read side: paginated listings, live views, the
// dashboard aggregates and the CSV export. It never mutates records.
type ReportService struct {
	Store *VisitorStore
	Now   func() time.Time
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{Store: NewVisitorStore(db), Now: time.Now}
}

// VisitorView is a record plus its display duration.
type VisitorView struct {
	models.VisitorRecord
	Duration string `json:"duration"`
}

// Pagination mirrors the dashboard's pagination block.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	PerPage     int   `json:"per_page"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampLimit(limit int) int {
	if limit < 1 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

// DurationFor renders a record's visit duration: the closed interval for
// checked-out records, the elapsed time against now for open ones.
func (r *ReportService) DurationFor(v *models.VisitorRecord, now time.Time) string {
	if v.CheckOutTime != nil {
		return utils.FormatDurationShort(v.CheckOutTime.Sub(v.CheckInTime))
	}
	return utils.FormatDurationShort(now.Sub(v.CheckInTime))
}

// PaginatedList returns one page of visitors plus pagination math. Open
// records carry the "pending" duration marker; live elapsed times belong
// to ActiveVisitors.
func (r *ReportService) PaginatedList(f ListFilter, page, limit int) ([]VisitorView, Pagination, error) {
	page = clampPage(page)
	limit = clampLimit(limit)

	items, total, err := r.Store.List(f, page, limit)
	if err != nil {
		return nil, Pagination{}, err
	}

	views := make([]VisitorView, 0, len(items))
	for i := range items {
		v := items[i]
		duration := DurationPending
		if v.CheckOutTime != nil {
			duration = utils.FormatDurationShort(v.CheckOutTime.Sub(v.CheckInTime))
		}
		views = append(views, VisitorView{VisitorRecord: v, Duration: duration})
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return views, Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		PerPage:     limit,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}, nil
}

// ActiveVisitors returns every open record with its live elapsed duration.
func (r *ReportService) ActiveVisitors() ([]VisitorView, error) {
	items, err := r.Store.ListAll(ListFilter{Status: models.StatusCheckedIn})
	if err != nil {
		return nil, err
	}

	now := r.Now()
	views := make([]VisitorView, 0, len(items))
	for i := range items {
		views = append(views, VisitorView{
			VisitorRecord: items[i],
			Duration:      r.DurationFor(&items[i], now),
		})
	}
	return views, nil
}

// NameCount is a label/count pair for the purpose breakdown.
type NameCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// WeekdayCount is one fixed Sun..Sat bucket.
type WeekdayCount struct {
	Name     string `json:"name"`
	Visitors int    `json:"visitors"`
}

// TrendPoint is one day of the trailing 7-day check-in series.
type TrendPoint struct {
	Date     string `json:"date"`
	Visitors int    `json:"visitors"`
}

// Stats is the dashboard aggregate payload.
type Stats struct {
	Total      int            `json:"total"`
	CheckedIn  int            `json:"checkedIn"`
	CheckedOut int            `json:"checkedOut"`
	Today      int            `json:"today"`
	ByPurpose  []NameCount    `json:"byPurpose"`
	ByWeekday  []WeekdayCount `json:"byWeekday"`
	Trend      []TrendPoint   `json:"trend"`
}

const trendDayLabel = "Jan 02"

// AggregateStats derives all dashboard aggregates from a single scan of
// the record set. The 7-day trend covers the trailing 7 calendar days
// including today, oldest first, with empty days pre-seeded at zero.
func (r *ReportService) AggregateStats() (*Stats, error) {
	records, err := r.Store.ListAll(ListFilter{Status: "all"})
	if err != nil {
		return nil, err
	}

	now := r.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	trendLabels := make([]string, 0, 7)
	trendCounts := make(map[string]int, 7)
	for i := 6; i >= 0; i-- {
		label := today.AddDate(0, 0, -i).Format(trendDayLabel)
		trendLabels = append(trendLabels, label)
		trendCounts[label] = 0
	}

	stats := &Stats{}
	purposeCounts := map[string]int{}
	weekdayCounts := map[time.Weekday]int{}

	for i := range records {
		v := &records[i]
		stats.Total++

		switch v.Status {
		case models.StatusCheckedIn:
			stats.CheckedIn++
		case models.StatusCheckedOut:
			stats.CheckedOut++
		}

		ci := v.CheckInTime
		if ci.Year() == today.Year() && ci.YearDay() == today.YearDay() {
			stats.Today++
		}

		purpose := v.Purpose
		if purpose == "" {
			purpose = "Unknown"
		}
		purposeCounts[purpose]++
		weekdayCounts[ci.Weekday()]++

		if !ci.Before(today.AddDate(0, 0, -6)) {
			label := ci.Format(trendDayLabel)
			if _, ok := trendCounts[label]; ok {
				trendCounts[label]++
			}
		}
	}

	for name, value := range purposeCounts {
		stats.ByPurpose = append(stats.ByPurpose, NameCount{Name: name, Value: value})
	}
	sort.Slice(stats.ByPurpose, func(i, j int) bool {
		if stats.ByPurpose[i].Value != stats.ByPurpose[j].Value {
			return stats.ByPurpose[i].Value > stats.ByPurpose[j].Value
		}
		return stats.ByPurpose[i].Name < stats.ByPurpose[j].Name
	})

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		stats.ByWeekday = append(stats.ByWeekday, WeekdayCount{
			Name:     wd.String()[:3],
			Visitors: weekdayCounts[wd],
		})
	}

	for _, label := range trendLabels {
		stats.Trend = append(stats.Trend, TrendPoint{Date: label, Visitors: trendCounts[label]})
	}

	return stats, nil
}

const exportTimeLayout = "2006-01-02 15:04:05"

// ExportCSV streams every record matching the filter as CSV, in listing
// order, for the dashboard's export button.
func (r *ReportService) ExportCSV(w io.Writer, f ListFilter) error {
	records, err := r.Store.ListAll(f)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{
		"Name", "Mobile", "ID Type", "ID Number", "Purpose", "Address",
		"Designation", "Check-In Time", "Check-Out Time", "Duration", "Status",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for i := range records {
		v := &records[i]
		checkOut := "N/A"
		duration := "N/A"
		if v.CheckOutTime != nil {
			checkOut = v.CheckOutTime.Format(exportTimeLayout)
			duration = utils.FormatDurationShort(v.CheckOutTime.Sub(v.CheckInTime))
		}
		row := []string{
			v.Name, v.Mobile, v.IDType, v.IDNumber, v.Purpose, v.Address,
			v.Designation, v.CheckInTime.Format(exportTimeLayout), checkOut,
			duration, v.Status,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
