package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusValid(t *testing.T) {
	assert.True(t, DomainStatusActive.Valid())
	assert.True(t, DomainStatusArchived.Valid())
	assert.False(t, DomainStatus("bogus").Valid())
}

func TestStatusTransitions(t *testing.T) {
	live := []DomainStatus{
		DomainStatusActive,
		DomainStatusInactive,
		DomainStatusMaintenance,
		DomainStatusSuspended,
	}

	// 非终态之间可以任意迁移，也都可以归档
	for _, from := range live {
		for _, to := range live {
			assert.True(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
		assert.True(t, from.CanTransitionTo(DomainStatusArchived), "%s -> archived", from)
	}

	// archived 是终态，任何迁出都被拒绝
	for _, to := range live {
		assert.False(t, DomainStatusArchived.CanTransitionTo(to), "archived -> %s", to)
	}
	assert.False(t, DomainStatusArchived.CanTransitionTo(DomainStatusArchived))
}

func TestNewDomain(t *testing.T) {
	d := NewDomain("lucky-ace", "Lucky Ace", []string{"lucky.example.com"})
	assert.Equal(t, DomainStatusActive, d.Status)
	assert.True(t, d.IsActive())
	assert.True(t, d.HasHostname("lucky.example.com"))
	assert.False(t, d.HasHostname("other.example.com"))
}
