package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"visitor-backend/services"
	"visitor-backend/utils"
)

type SaveImagePayload struct {
	DataURL string `json:"dataUrl"`
	Mobile  string `json:"mobile"`
}

type ImageController struct {
	ImageSvc *services.ImageService
}

func NewImageController(svc *services.ImageService) *ImageController {
	return &ImageController{ImageSvc: svc}
}

// SaveImage stores the kiosk webcam capture before the check-in form is
// submitted, returning the filename and public paths the form references.
func (ctrl *ImageController) SaveImage(c *gin.Context) {
	var payload SaveImagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	mobile := strings.TrimSpace(payload.Mobile)
	if !utils.IsValidMobile(mobile) {
		utils.JSONError(c, http.StatusBadRequest, "Invalid mobile number format")
		return
	}

	saved, err := ctrl.ImageSvc.SaveVisitorPhoto(payload.DataURL, mobile)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"filename":  saved.Filename,
		"path":      saved.Path,
		"thumbnail": saved.Thumbnail,
		"size":      saved.Size,
	})
}
