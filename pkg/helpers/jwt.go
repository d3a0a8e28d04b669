package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens with a bad signature or structure.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager signs and validates bearer and OTP tokens with a single HMAC key.
// Tokens carry no expiry; they stay valid for as long as the key does.
type JWTManager struct {
	secret []byte
}

// NewJWTManager builds a manager for the given key. An empty key is replaced
// with a random one, so every token dies with the process.
func NewJWTManager(secret string) (*JWTManager, error) {
	if secret == "" {
		s, err := GenerateSecretKey()
		if err != nil {
			return nil, err
		}
		secret = s
	}
	return &JWTManager{secret: []byte(secret)}, nil
}

// GenerateSecretKey returns 32 random bytes, hex encoded.
func GenerateSecretKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

type Claims struct {
	UserID string `json:"userId,omitempty"`
	OTP    string `json:"otp,omitempty"`
	jwt.RegisteredClaims
}

// GenerateBearer issues a token asserting the given user id.
func (m *JWTManager) GenerateBearer(userID string) (string, error) {
	return m.sign(&Claims{UserID: userID})
}

// GenerateOTPToken issues a token wrapping a one-time code.
func (m *JWTManager) GenerateOTPToken(otp string) (string, error) {
	return m.sign(&Claims{OTP: otp})
}

func (m *JWTManager) sign(claims *Claims) (string, error) {
	claims.IssuedAt = jwt.NewNumericDate(time.Now())
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Parse verifies the signature and returns the decoded claims.
func (m *JWTManager) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
