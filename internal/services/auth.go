package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/kh4lidmd/portfolio-backend/internal/storage"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService authenticates the single admin user and issues bearer tokens.
type AuthService struct {
	store  storage.Store
	secret []byte
	ttl    time.Duration
}

func NewAuthService(store storage.Store, secret string, ttlMinutes int) *AuthService {
	return &AuthService{
		store:  store,
		secret: []byte(secret),
		ttl:    time.Duration(ttlMinutes) * time.Minute,
	}
}

func HashPassword(raw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login verifies the password and returns a signed token. The same error is
// returned for unknown email and wrong password.
func (s *AuthService) Login(email, password string) (string, error) {
	admin, ok := s.store.GetAdminByEmail(email)
	if !ok {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(admin.ID)
	if err != nil {
		return "", err
	}
	if err := s.store.TouchAdminLogin(admin.ID); err != nil {
		logrus.Warnf("failed to record admin login time: %v", err)
	}
	return token, nil
}

// ChangePassword verifies the current password before replacing it.
func (s *AuthService) ChangePassword(adminID, current, next string) error {
	admin, ok := s.store.GetAdminByID(adminID)
	if !ok {
		return ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.store.UpdateAdminPassword(admin.ID, hash)
}

func (s *AuthService) IssueToken(adminID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   adminID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates the signature and expiry and returns the admin ID.
func (s *AuthService) ParseToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}
