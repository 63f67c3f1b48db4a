package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"visitor-backend/services"
	"visitor-backend/utils"
)

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthController struct {
	AuthSvc *services.AuthService
}

func NewAuthController(svc *services.AuthService) *AuthController {
	return &AuthController{AuthSvc: svc}
}

// Login authenticates a dashboard admin and returns a session token.
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	token, admin, err := ctrl.AuthSvc.Login(payload.Username, payload.Password)
	if err != nil {
		var vErr *services.ValidationError
		switch {
		case errors.As(err, &vErr):
			utils.JSONError(c, http.StatusBadRequest, vErr.Error())
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
		default:
			utils.JSONError(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":        admin.ID,
			"full_name": admin.FullName,
			"username":  admin.Username,
		},
	})
}
