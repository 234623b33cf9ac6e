package domain_test

import (
	"testing"

	"github.com/SscSPs/packhouse_portal/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAccess_AdminSeesEverything(t *testing.T) {
	for _, target := range domain.AllRoles {
		assert.True(t, domain.CanAccess(domain.RoleAdmin, target), "admin -> %s", target)
	}
}

func TestCanAccess_ManagementSeesAllButAdmin(t *testing.T) {
	for _, target := range domain.AllRoles {
		if target == domain.RoleAdmin {
			assert.False(t, domain.CanAccess(domain.RoleManagement, target))
			continue
		}
		assert.True(t, domain.CanAccess(domain.RoleManagement, target), "management -> %s", target)
	}
}

func TestCanAccess_OtherRolesOnlyOwn(t *testing.T) {
	for _, acting := range domain.AllRoles {
		if acting == domain.RoleAdmin || acting == domain.RoleManagement {
			continue
		}
		for _, target := range domain.AllRoles {
			assert.Equal(t, acting == target, domain.CanAccess(acting, target), "%s -> %s", acting, target)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, r := range domain.AllRoles {
		parsed, err := domain.ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	for _, bad := range []string{"", "Admin", "grower", "qc", " admin"} {
		_, err := domain.ParseRole(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidRole, "input %q", bad)
	}
}

func TestRoleLabelsAndLandingPaths(t *testing.T) {
	for _, r := range domain.AllRoles {
		assert.NotEmpty(t, r.Label())
		assert.Equal(t, "/", r.LandingPath()[:1])
	}
	assert.Equal(t, "Packing Employee", domain.RolePackingEmployee.Label())
	assert.Equal(t, "/admin/users", domain.RoleAdmin.LandingPath())
	assert.Equal(t, "/management", domain.RoleManagement.LandingPath())
	assert.Empty(t, domain.Role("nope").LandingPath())
}
