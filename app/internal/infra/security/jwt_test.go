package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServiceTokenSigner_RoundTrip(t *testing.T) {
	s := NewServiceTokenSigner("secret", time.Minute)

	token, err := s.Token()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "shop-console", sub)
}

func TestServiceTokenSigner_RejectsWrongSecret(t *testing.T) {
	token, err := NewServiceTokenSigner("secret", time.Minute).Token()
	require.NoError(t, err)

	_, err = NewServiceTokenSigner("other", time.Minute).Verify(token)
	require.Error(t, err)
}

func TestServiceTokenSigner_Expires(t *testing.T) {
	s := NewServiceTokenSigner("secret", time.Minute)
	issued := time.Now()
	s.now = func() time.Time { return issued }

	token, err := s.Token()
	require.NoError(t, err)

	s.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = s.Verify(token)
	require.Error(t, err)
}
