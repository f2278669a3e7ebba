package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminSubject is the subject of every admin token
const AdminSubject = "admin"

const issuer = "opgl-profile"

// ErrInvalidToken is returned for any token that fails validation
var ErrInvalidToken = errors.New("invalid token")

// Claims represents the JWT claims structure
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService issues and validates admin access tokens
type AuthService struct {
	jwtSecret         []byte
	adminPasswordHash string
	tokenTTL          time.Duration
	now               func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(jwtSecret string, adminPasswordHash string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		jwtSecret:         []byte(jwtSecret),
		adminPasswordHash: adminPasswordHash,
		tokenTTL:          tokenTTL,
		now:               time.Now,
	}
}

// AccessToken is returned by a successful admin login
type AccessToken struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// Login checks the admin password and issues an access token
func (authService *AuthService) Login(password string) (*AccessToken, bool, error) {
	if authService.adminPasswordHash == "" || !VerifyPassword(password, authService.adminPasswordHash) {
		return nil, false, nil
	}

	token, err := authService.generateToken()
	if err != nil {
		return nil, true, err
	}

	return &AccessToken{
		AccessToken: token,
		ExpiresIn:   int64(authService.tokenTTL.Seconds()),
	}, true, nil
}

// generateToken creates a signed admin token; the jti makes every token unique
func (authService *AuthService) generateToken() (string, error) {
	now := authService.now()
	claims := Claims{
		Role: AdminSubject,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   AdminSubject,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(authService.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(authService.jwtSecret)
}

// ValidateAdminToken checks signature, expiry, issuer and role of an admin token
func (authService *AuthService) ValidateAdminToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return authService.jwtSecret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(authService.now))
	if err != nil {
		return errors.Join(ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != AdminSubject {
		return ErrInvalidToken
	}

	return nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyPassword checks if the provided password matches the hash
func VerifyPassword(password string, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
