package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const accessTokenTTL = 15 * time.Minute

// Identity is what a verified access token asserts about the caller.
// TenantID comes only from here; request bodies never pick the tenant.
type Identity struct {
	UserID   string
	TenantID string
	Email    string
	Role     string
}

type JWT struct {
	secret []byte
}

func NewJWT(secret string) *JWT {
	return &JWT{secret: []byte(secret)}
}

func (j *JWT) Sign(id Identity) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      id.UserID,
		"tenantId": id.TenantID,
		"email":    id.Email,
		"role":     id.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(accessTokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(j.secret)
}

func (j *JWT) Verify(tokenStr string) (Identity, error) {
	t, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})
	if err != nil || !t.Valid {
		return Identity{}, errors.New("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}

	id := Identity{}
	if id.UserID, ok = claims["sub"].(string); !ok || id.UserID == "" {
		return Identity{}, errors.New("missing sub")
	}
	if id.TenantID, ok = claims["tenantId"].(string); !ok || id.TenantID == "" {
		return Identity{}, errors.New("missing tenantId")
	}
	id.Email, _ = claims["email"].(string)
	id.Role, _ = claims["role"].(string)
	return id, nil
}
