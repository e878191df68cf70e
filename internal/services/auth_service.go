package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"seatreserve/internal/domain"
	"seatreserve/internal/utils"
)

const (
	RoleAdmin     = "admin"
	tokenLifetime = 24 * time.Hour
)

// AuthService signs in the single configured admin and verifies bearer tokens.
type AuthService struct {
	Secret       []byte
	Username     string
	PasswordHash string
	RequestID    string
	Now          func() time.Time
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

// Login checks username and password and returns a signed token.
func (s AuthService) Login(username, password string) (LoginResult, error) {
	if len(s.Secret) == 0 || s.PasswordHash == "" {
		return LoginResult{}, domain.InternalError{Msg: "auth is not configured"}
	}
	if !strings.EqualFold(strings.TrimSpace(username), s.Username) {
		return LoginResult{}, domain.ValidationError{Field: "username", Msg: "invalid username or password", Err: domain.ErrInvalidCredentials}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, domain.ValidationError{Field: "password", Msg: "invalid username or password", Err: domain.ErrInvalidCredentials}
	}

	exp := s.now().Add(tokenLifetime)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  s.Username,
		"role": RoleAdmin,
		"exp":  exp.Unix(),
	})
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return LoginResult{}, domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	utils.LogEvent(s.RequestID, "auth", "login", "admin signed in", "username", s.Username)
	return LoginResult{Token: signed, ExpiresAt: exp, Role: RoleAdmin}, nil
}

// ParseToken verifies an HS256 token and returns its subject and role.
func (s AuthService) ParseToken(raw string) (domain.RequestContext, error) {
	invalid := func(err error) error {
		return domain.ValidationError{Field: "token", Msg: "invalid or expired token", Err: fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)}
	}
	if len(s.Secret) == 0 {
		return domain.RequestContext{}, invalid(errors.New("no signing secret"))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return domain.RequestContext{}, invalid(err)
	}
	sub, _ := claims.GetSubject()
	role, _ := claims["role"].(string)
	return domain.RequestContext{Subject: sub, Role: role}, nil
}

// HashPassword is used by operators to produce ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
