package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is the lifetime of tokens signed by GenerateToken.
const TokenTTL = 2 * time.Hour

const defaultTokenIssuer = "certimport-backend"

// Claims is the access token payload. Only the role is consulted for
// authorization; the rest is carried into logs and session metadata.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("FATAL: JWT_SECRET environment variable is not set. Refusing to start with an insecure configuration.")
	}
	return []byte(secret)
}

func tokenIssuer() string {
	if iss := os.Getenv("JWT_ISSUER"); iss != "" {
		return iss
	}
	return defaultTokenIssuer
}

// GenerateToken signs an access token. Tokens are normally issued by the
// platform's auth service; this is used by tooling and tests.
func GenerateToken(userID uuid.UUID, email, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer(),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret())
}

// ValidateToken verifies signature, expiry and issuer and returns the claims.
func ValidateToken(tokenString string) (*Claims, error) {
	secret := jwtSecret()

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer()),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
