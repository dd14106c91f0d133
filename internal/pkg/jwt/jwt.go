package jwt

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/campus-attendance-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// ErrInvalidClaims is returned when a verified token lacks the claims the
// API relies on.
var ErrInvalidClaims = errors.New("token claims are missing or invalid")

// Service verifies access tokens issued by the campus identity provider.
// Tokens are only minted here for tests and local tooling.
type Service interface {
	GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) GenerateAccessToken(p user.Principal) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":    p.UserID,
		"student_id": returnValueOrNil(p.StudentID),
		"role":       string(p.Role),
		"type":       "access",
		"exp":        expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// PrincipalFromClaims reads the caller out of verified token claims.
func PrincipalFromClaims(claims map[string]interface{}) (user.Principal, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Principal{}, ErrInvalidClaims
	}

	roleStr, ok := claims["role"].(string)
	if !ok || !user.Role(roleStr).IsValid() {
		return user.Principal{}, ErrInvalidClaims
	}

	p := user.Principal{UserID: userID, Role: user.Role(roleStr)}
	if studentID, ok := claims["student_id"].(string); ok && studentID != "" {
		p.StudentID = &studentID
	}
	return p, nil
}

func returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}
