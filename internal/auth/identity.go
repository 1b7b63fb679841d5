package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bhashakisan/assistant/domain/repositories"
)

// guestUserID is used when no token is configured; the backend treats guest
// history as ephemeral.
const guestUserID = "guest"

// Claims represents the claims in our JWT token
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenIdentity resolves the stable user identifier from an HS256 user
// token. An empty or invalid token degrades to the guest identity rather
// than blocking the assistant.
type TokenIdentity struct {
	secret []byte
	userID string
}

// Ensure TokenIdentity implements the IdentityProvider interface
var _ repositories.IdentityProvider = (*TokenIdentity)(nil)

// NewTokenIdentity validates the token and captures the user id it carries.
func NewTokenIdentity(secret []byte, token string) *TokenIdentity {
	identity := &TokenIdentity{
		secret: secret,
		userID: guestUserID,
	}

	if token == "" {
		return identity
	}

	if claims, err := identity.ValidateToken(token); err == nil && claims.UserID != "" {
		identity.userID = claims.UserID
	}

	return identity
}

// CurrentUserID returns the resolved user identifier.
func (i *TokenIdentity) CurrentUserID() string {
	return i.userID
}

// GenerateUserToken generates a JWT token for user authentication
func (i *TokenIdentity) GenerateUserToken(userID string) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateToken validates a JWT token and returns the claims
func (i *TokenIdentity) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
