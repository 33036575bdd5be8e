package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	serviceSubject  = "shop-console"
	serviceAudience = "shop-api"
)

// ServiceTokenSigner mints short-lived HS256 tokens that identify this
// process to the shop API. It satisfies shopapi.TokenSource.
type ServiceTokenSigner struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewServiceTokenSigner(secret string, expiration time.Duration) *ServiceTokenSigner {
	if expiration <= 0 {
		expiration = 5 * time.Minute
	}
	return &ServiceTokenSigner{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

func (s *ServiceTokenSigner) Token() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   serviceSubject,
		Audience:  jwt.ClaimStrings{serviceAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign service token")
	}
	return signed, nil
}

// Verify parses a token minted with the same secret and returns its subject.
func (s *ServiceTokenSigner) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(serviceAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", errors.Wrap(err, "parse service token")
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid service token")
	}
	return claims.Subject, nil
}
