package rbac

import (
	"testing"

	"github.com/hrmlabs/hrm-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	e, err := NewEnforcer()
	require.NoError(t, err)

	cases := []struct {
		role     user.Role
		resource user.Resource
		action   user.Action
		want     bool
	}{
		{user.RoleSuperAdmin, user.ResourcePayroll, user.ActionRun, true},
		{user.RoleHRAdmin, user.ResourcePayroll, user.ActionFinalize, true},
		{user.RoleManager, user.ResourcePayroll, user.ActionRun, false},
		{user.RoleEmployee, user.ResourcePayroll, user.ActionSelf, true},
		{user.RoleEmployee, user.ResourcePayroll, user.ActionRead, false},
		{user.RoleSuperAdmin, user.ResourceEmployee, user.ActionDelete, true},
		{user.RoleHRAdmin, user.ResourceEmployee, user.ActionDelete, false},
		{user.RoleManager, user.ResourceEmployee, user.ActionRead, true},
		{user.RoleEmployee, user.ResourceEmployee, user.ActionRead, false},
		{user.RoleHRAdmin, user.ResourceLeave, user.ActionApprove, true},
		{user.RoleManager, user.ResourceLeave, user.ActionApprove, false},
		{user.RoleEmployee, user.ResourceOrganization, user.ActionUpdate, false},
		{user.Role("GUEST"), user.ResourceOrganization, user.ActionRead, false},
	}

	for _, c := range cases {
		got, err := e.Can(c.role, c.resource, c.action)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "%s %s %s", c.role, c.resource, c.action)
	}
}

func TestNewEnforcerFromYAML_UnknownRole(t *testing.T) {
	_, err := NewEnforcerFromYAML([]byte("INTERN:\n  payroll: [self]\n"))
	assert.ErrorContains(t, err, `unknown role "INTERN"`)
}

func TestNewEnforcerFromYAML_Malformed(t *testing.T) {
	_, err := NewEnforcerFromYAML([]byte("HR_ADMIN: [payroll"))
	assert.Error(t, err)
}
