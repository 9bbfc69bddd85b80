package auth

import (
	"testing"
	"time"

	"thrive/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() Manager {
	return Manager{
		Secret:     []byte("test-secret"),
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}
}

func TestIssueAndParseAccess(t *testing.T) {
	m := testManager()
	now := time.Now()

	token, jti, err := m.IssueAccess("u1", "customer", now)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := m.Parse(token, TokenAccess)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, "customer", claims.Role)
	assert.Equal(t, jti, claims.ID)
}

func TestParseRejectsWrongPurpose(t *testing.T) {
	m := testManager()
	refresh, _, err := m.IssueRefresh("u1", "customer", time.Now())
	require.NoError(t, err)

	_, err = m.Parse(refresh, TokenAccess)
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestParseRejectsExpiredToken(t *testing.T) {
	m := testManager()
	issued := time.Now().Add(-time.Hour)

	token, _, err := m.IssueAccess("u1", "customer", issued)
	require.NoError(t, err)

	_, err = m.Parse(token, TokenAccess)
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestParseRejectsForeignSignature(t *testing.T) {
	token, _, err := Manager{Secret: []byte("other"), AccessTTL: time.Hour}.IssueAccess("u1", "customer", time.Now())
	require.NoError(t, err)

	_, err = testManager().Parse(token, TokenAccess)
	require.Error(t, err)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestResetTokenPurpose(t *testing.T) {
	m := testManager()
	token, _, err := m.IssueReset("u1", time.Now())
	require.NoError(t, err)

	claims, err := m.Parse(token, TokenReset)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)

	_, err = m.Parse(token, TokenAccess)
	require.Error(t, err)
}

func TestTTLRemaining(t *testing.T) {
	m := testManager()
	now := time.Now()
	token, _, err := m.IssueAccess("u1", "customer", now)
	require.NoError(t, err)

	claims, err := m.Parse(token, TokenAccess)
	require.NoError(t, err)
	remaining := claims.TTLRemaining(now)
	assert.InDelta(t, (15 * time.Minute).Seconds(), remaining.Seconds(), 1)
}
