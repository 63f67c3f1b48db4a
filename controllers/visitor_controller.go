package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"visitor-backend/models"
	"visitor-backend/services"
	"visitor-backend/utils"
)

// ---------------------------
// Payload / DTOs
// ---------------------------

type CheckInPayload struct {
	Name        string `json:"name"`
	Mobile      string `json:"mobile"`
	IDType      string `json:"idType"`
	IDNumber    string `json:"idNumber"`
	Purpose     string `json:"purpose"`
	Address     string `json:"address"`
	Designation string `json:"designation"`
	ImageName   string `json:"imageName"`
	ImageURL    string `json:"imageUrl"`
}

type CheckOutPayload struct {
	Mobile string `json:"mobile"`
}

type UpdateIDDetailsPayload struct {
	IDType   string `json:"idType"`
	IDNumber string `json:"idNumber"`
}

// ---------------------------
// Controller
// ---------------------------

type VisitorController struct {
	VisitorSvc *services.VisitorService
	ReportSvc  *services.ReportService
}

func NewVisitorController(visitorSvc *services.VisitorService, reportSvc *services.ReportService) *VisitorController {
	return &VisitorController{VisitorSvc: visitorSvc, ReportSvc: reportSvc}
}

// respondServiceError maps lifecycle errors onto HTTP status codes.
// Anything unrecognized is a store failure and stays a 500.
func respondServiceError(c *gin.Context, err error) {
	var vErr *services.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.JSONError(c, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, services.ErrAlreadyCheckedIn):
		utils.JSONError(c, http.StatusConflict, "Visitor already checked in today")
	case errors.Is(err, services.ErrNotCheckedIn):
		utils.JSONError(c, http.StatusConflict, "Visitor is not checked in")
	case errors.Is(err, services.ErrNoActiveVisit):
		utils.JSONError(c, http.StatusNotFound, "No active check-in found for this mobile number")
	case errors.Is(err, services.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "Visitor not found")
	default:
		log.Printf("❌ visitor operation failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "internal server error")
	}
}

func visitorSummary(v *models.VisitorRecord) gin.H {
	return gin.H{
		"id":            v.ID,
		"referenceCode": v.ReferenceCode,
		"name":          v.Name,
		"mobile":        v.Mobile,
		"checkInTime":   v.CheckInTime,
		"status":        v.Status,
	}
}

// ---------------------------
// 1) Kiosk check-in
// ---------------------------

func (ctrl *VisitorController) CheckIn(c *gin.Context) {
	var payload CheckInPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	record, err := ctrl.VisitorSvc.CheckIn(services.CheckInInput{
		Name:        payload.Name,
		Mobile:      payload.Mobile,
		IDType:      payload.IDType,
		IDNumber:    payload.IDNumber,
		Purpose:     payload.Purpose,
		Address:     payload.Address,
		Designation: payload.Designation,
		ImageName:   payload.ImageName,
		ImageURL:    payload.ImageURL,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Check-in successful",
		"visitor_id": record.ID,
		"visitor":    visitorSummary(record),
	})
}

// ---------------------------
// 2) Kiosk checkout by mobile
// ---------------------------

func (ctrl *VisitorController) CheckOut(c *gin.Context) {
	var payload CheckOutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	record, duration, err := ctrl.VisitorSvc.CheckOut(payload.Mobile)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Check-out successful",
		"visitor": gin.H{
			"id":           record.ID,
			"name":         record.Name,
			"mobile":       record.Mobile,
			"checkInTime":  record.CheckInTime,
			"checkOutTime": record.CheckOutTime,
			"duration":     duration,
			"status":       record.Status,
		},
	})
}

// ---------------------------
// 3) Admin listing
// ---------------------------

func (ctrl *VisitorController) GetVisitors(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultPageSize)))

	filter, ok := listFilterFromQuery(c)
	if !ok {
		return
	}

	views, pagination, err := ctrl.ReportSvc.PaginatedList(filter, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"visitors":   views,
		"pagination": pagination,
	})
}

// listFilterFromQuery builds the shared status/date/search filter. Writes
// the 400 itself and returns ok=false on a malformed date.
func listFilterFromQuery(c *gin.Context) (services.ListFilter, bool) {
	filter := services.ListFilter{
		Status: c.DefaultQuery("status", "all"),
		Search: strings.TrimSpace(c.Query("search")),
	}

	if date := strings.TrimSpace(c.Query("date")); date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			return filter, false
		}
		day := models.DayOf(parsed)
		filter.Day = &day
	}
	return filter, true
}

// ---------------------------
// 4) Active visitors (live durations)
// ---------------------------

func (ctrl *VisitorController) GetActiveVisitors(c *gin.Context) {
	views, err := ctrl.ReportSvc.ActiveVisitors()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

// ---------------------------
// 5) Single record
// ---------------------------

func (ctrl *VisitorController) GetVisitorByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "id must be numeric")
		return
	}

	record, err := ctrl.VisitorSvc.Store.GetByID(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	view := services.VisitorView{
		VisitorRecord: *record,
		Duration:      ctrl.ReportSvc.DurationFor(record, ctrl.ReportSvc.Now()),
	}
	utils.JSONSuccess(c, http.StatusOK, view)
}

// ---------------------------
// 6) Manual checkout from the records screen
// ---------------------------

func (ctrl *VisitorController) CheckOutVisitorByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "id must be numeric")
		return
	}

	record, duration, err := ctrl.VisitorSvc.CheckOutByID(uint(id))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Check-out successful",
		"visitor": gin.H{
			"id":           record.ID,
			"name":         record.Name,
			"mobile":       record.Mobile,
			"checkInTime":  record.CheckInTime,
			"checkOutTime": record.CheckOutTime,
			"duration":     duration,
			"status":       record.Status,
		},
	})
}

// ---------------------------
// 7) ID-detail corrections
// ---------------------------

func (ctrl *VisitorController) UpdateVisitorIDDetails(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "id must be numeric")
		return
	}

	var payload UpdateIDDetailsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	record, err := ctrl.VisitorSvc.UpdateIDDetails(uint(id), payload.IDType, payload.IDNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, record)
}

// ---------------------------
// 8) Dashboard aggregates
// ---------------------------

func (ctrl *VisitorController) GetStats(c *gin.Context) {
	stats, err := ctrl.ReportSvc.AggregateStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, stats)
}

// ---------------------------
// 9) CSV export
// ---------------------------

func (ctrl *VisitorController) ExportVisitorsCSV(c *gin.Context) {
	filter, ok := listFilterFromQuery(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("visitors_report_%s.csv", ctrl.ReportSvc.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := ctrl.ReportSvc.ExportCSV(c.Writer, filter); err != nil {
		log.Printf("❌ csv export failed: %v", err)
	}
}
