package authn

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/storyhub-org/storyhub/pkg/identity"
	"github.com/storyhub-org/storyhub/pkg/model"
)

// Issuer is the iss claim on every token this service signs.
const Issuer = "storyhub"

// MinKeyLength is the shortest signing key accepted.
const MinKeyLength = 32

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the body of an access token.
type Claims struct {
	Role              model.Role `json:"role"`
	Email             string     `json:"email,omitempty"`
	Name              string     `json:"name,omitempty"`
	CanPublish        bool       `json:"can_publish,omitempty"`
	CanUpload         bool       `json:"can_upload,omitempty"`
	CanManageProjects bool       `json:"can_manage_projects,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokenIssuer(key []byte, ttl time.Duration) (*TokenIssuer, error) {
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("signing key must be at least %d bytes", MinKeyLength)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &TokenIssuer{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the profile. Permission flags are copied into the
// token, so changes take effect at the next sign-in.
func (t *TokenIssuer) Issue(p *model.Profile) (string, time.Time, error) {
	now := t.now().UTC().Truncate(time.Second)
	exp := now.Add(t.ttl)

	claims := Claims{
		Role:              p.Role,
		Name:              p.DisplayName,
		CanPublish:        p.CanPublish,
		CanUpload:         p.CanUpload,
		CanManageProjects: p.CanManageProjects,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	if p.Email != nil {
		claims.Email = *p.Email
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse verifies a token and returns the identity it carries.
func (t *TokenIssuer) Parse(raw string) (*identity.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return t.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	profileID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrTokenInvalid)
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: bad role", ErrTokenInvalid)
	}

	id := &identity.Identity{
		ProfileID:   profileID,
		Email:       claims.Email,
		DisplayName: claims.Name,
		Role:        claims.Role,
		Permissions: model.Permissions{
			CanPublish:        claims.CanPublish,
			CanUpload:         claims.CanUpload,
			CanManageProjects: claims.CanManageProjects,
		},
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
