package tenancy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-platform-api/internal/domain/entity"
	apperrors "casino-platform-api/pkg/errors"
)

func TestFromContextMissing(t *testing.T) {
	_, err := FromContext(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTenantContextMissing)

	_, err = DomainIDFromContext(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrTenantContextMissing)
}

func TestRequestContextRoundTrip(t *testing.T) {
	domain := entity.NewDomain("lucky-ace", "Lucky Ace", []string{"lucky.example.com"})
	domain.DomainID = 7

	rc := NewRequestContext(domain, "req-123", "admin@lucky", entity.NewCapabilitySet([]string{"tenant:admin"}))
	ctx := WithRequestContext(context.Background(), rc)

	got, err := FromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.DomainID())
	assert.Equal(t, "lucky-ace", got.TenantCode())
	assert.Equal(t, "req-123", got.CorrelationID())
	assert.Equal(t, "admin@lucky", got.Actor())
	assert.True(t, got.Capabilities().Has(entity.CapabilityTenantAdmin))
	assert.False(t, got.Capabilities().Has(entity.CapabilityCrossTenantAdmin))
}

func TestRequestContextNilCapabilities(t *testing.T) {
	domain := entity.NewDomain("lucky-ace", "Lucky Ace", nil)
	rc := NewRequestContext(domain, "", "", nil)
	assert.NotNil(t, rc.Capabilities())
	assert.False(t, rc.Capabilities().Has(entity.CapabilityTenantAdmin))
}
