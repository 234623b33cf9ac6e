package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventName(t *testing.T) {
	assert.Equal(t, "growers_work-items", eventName("/growers/work-items/:itemID"))
	assert.Equal(t, "packing-employee_inspections", eventName("/packing-employee/inspections"))
	assert.Equal(t, "admin_users_role", eventName("/admin/users/role"))
}
