package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"visitor-backend/models"
)

const tokenTTL = 24 * time.Hour

// AuthService authenticates dashboard admins against the admins table and
// issues the session tokens the admin API is gated on. Constructed in main
// and injected; there is no package-level instance.
type AuthService struct {
	DB     *gorm.DB
	Secret []byte
	Now    func() time.Time
}

func NewAuthService(db *gorm.DB, secret string) *AuthService {
	return &AuthService{DB: db, Secret: []byte(secret), Now: time.Now}
}

// AdminClaims is the JWT payload for an authenticated admin session.
type AdminClaims struct {
	AdminID  uint   `json:"adminId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Login verifies the password and returns a signed session token.
func (s *AuthService) Login(username, password string) (string, *models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", nil, requiredField("username")
	}
	if password == "" {
		return "", nil, requiredField("password")
	}

	var admin models.Admin
	if err := s.DB.Where("username = ?", username).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("lookup admin: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := s.Now()
	claims := AdminClaims{
		AdminID:  admin.ID,
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, &admin, nil
}

// ValidateToken parses and verifies a session token.
func (s *AuthService) ValidateToken(signed string) (*AdminClaims, error) {
	token, err := jwt.ParseWithClaims(signed, &AdminClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
