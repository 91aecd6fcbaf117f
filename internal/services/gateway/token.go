package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"food-delivery/internal/models"
)

// TokenIssuer mints and verifies bearer tokens. A token is the base64
// payload "username|role|expiryUnix" plus an HMAC-SHA256 signature over
// that payload.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Claims are the verified contents of a token
type Claims struct {
	Username string
	Role     models.Role
}

// Issue creates a signed token for the given account
func (t *TokenIssuer) Issue(username string, role models.Role) string {
	expiry := time.Now().Add(t.ttl).Unix()
	payload := fmt.Sprintf("%s|%s|%d", username, role, expiry)
	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + t.sign(payload)
}

// Verify checks a token's signature and expiry and returns its claims
func (t *TokenIssuer) Verify(token string) (*Claims, error) {
	encoded, sig, ok := strings.Cut(token, ".")
	if !ok {
		return nil, fmt.Errorf("malformed token")
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("malformed token payload")
	}
	payload := string(raw)

	if !hmac.Equal([]byte(t.sign(payload)), []byte(sig)) {
		return nil, fmt.Errorf("invalid token signature")
	}

	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed token payload")
	}
	expiry, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed token expiry")
	}
	if time.Now().Unix() > expiry {
		return nil, fmt.Errorf("token expired")
	}

	return &Claims{Username: parts[0], Role: models.Role(parts[1])}, nil
}

func (t *TokenIssuer) sign(payload string) string {
	mac := hmac.New(sha256.New, t.secret)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
