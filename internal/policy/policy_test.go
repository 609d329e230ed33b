package policy

import (
	"testing"

	"basetrack/internal/apperr"
	"basetrack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func admin() Actor {
	return Actor{ID: "a", Role: model.RoleAdmin}
}

func commander(baseID string) Actor {
	return Actor{ID: "c", Role: model.RoleBaseCommander, BaseID: baseID}
}

func officer(baseID string) Actor {
	return Actor{ID: "o", Role: model.RoleLogisticsOfficer, BaseID: baseID}
}

func manager(baseID string) Actor {
	return Actor{ID: "m", Role: model.RoleInventoryManager, BaseID: baseID}
}

func TestResolveTargetBase(t *testing.T) {
	assert.Equal(t, "base-2", ResolveTargetBase(admin(), "base-2"))
	assert.Equal(t, "", ResolveTargetBase(admin(), ""))

	// Non-admins are pinned to their own base no matter what they ask for.
	assert.Equal(t, "base-1", ResolveTargetBase(commander("base-1"), "base-2"))
	assert.Equal(t, "base-1", ResolveTargetBase(officer("base-1"), ""))
}

func TestAuthorizeBaseAccess(t *testing.T) {
	assert.NoError(t, AuthorizeBaseAccess(admin(), "any-base"))
	assert.NoError(t, AuthorizeBaseAccess(commander("base-1"), "base-1"))

	err := AuthorizeBaseAccess(commander("base-1"), "base-2")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbiddenScope, apperr.CodeOf(err))

	// An actor with no base binding gets nothing.
	err = AuthorizeBaseAccess(Actor{Role: model.RoleLogisticsOfficer}, "base-1")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbiddenScope, apperr.CodeOf(err))
}

func TestRoleGates(t *testing.T) {
	tests := []struct {
		name    string
		check   func(Actor) error
		allowed []Actor
		denied  []Actor
	}{
		{
			name:    "manage assets",
			check:   CanManageAssets,
			allowed: []Actor{admin(), commander("b")},
			denied:  []Actor{officer("b"), manager("b")},
		},
		{
			name:    "record purchase",
			check:   CanRecordPurchase,
			allowed: []Actor{admin(), commander("b"), officer("b")},
			denied:  []Actor{manager("b")},
		},
		{
			name:    "assign",
			check:   CanAssign,
			allowed: []Actor{admin(), commander("b")},
			denied:  []Actor{officer("b"), manager("b")},
		},
		{
			name:    "record expenditure",
			check:   CanRecordExpenditure,
			allowed: []Actor{admin(), commander("b")},
			denied:  []Actor{officer("b"), manager("b")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, a := range tt.allowed {
				assert.NoError(t, tt.check(a), a.Role)
			}
			for _, a := range tt.denied {
				err := tt.check(a)
				require.Error(t, err, a.Role)
				assert.Equal(t, apperr.CodeForbiddenRole, apperr.CodeOf(err))
			}
		})
	}
}

func TestCanInitiateTransfer(t *testing.T) {
	assert.NoError(t, CanInitiateTransfer(admin(), "base-1"))
	assert.NoError(t, CanInitiateTransfer(commander("base-1"), "base-1"))
	assert.NoError(t, CanInitiateTransfer(officer("base-1"), "base-2"))

	err := CanInitiateTransfer(commander("base-1"), "base-2")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbiddenScope, apperr.CodeOf(err))

	err = CanInitiateTransfer(manager("base-1"), "base-1")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbiddenRole, apperr.CodeOf(err))
}

func TestCanApproveTransfer(t *testing.T) {
	assert.NoError(t, CanApproveTransfer(admin(), "base-2"))
	assert.NoError(t, CanApproveTransfer(commander("base-2"), "base-2"))

	// The sending side's commander has no say.
	err := CanApproveTransfer(commander("base-1"), "base-2")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbiddenScope, apperr.CodeOf(err))

	err = CanApproveTransfer(officer("base-2"), "base-2")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeForbiddenRole, apperr.CodeOf(err))
}
