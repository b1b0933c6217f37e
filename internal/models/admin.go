package models

import "strings"

// AdminRole is the back-office role attached to an admin account. The
// core only consumes it as a capability check before refund decisions.
type AdminRole string

const (
	RoleSystemAdmin      AdminRole = "system_admin"
	RoleTransportManager AdminRole = "transport_manager"
	RoleFinanceOfficer   AdminRole = "finance_officer"
	RoleSupportStaff     AdminRole = "support_staff"
)

var refundApprovalRoles = map[AdminRole]bool{
	RoleSystemAdmin:    true,
	RoleFinanceOfficer: true,
}

var scheduleAccessRoles = map[AdminRole]bool{
	RoleSystemAdmin:      true,
	RoleTransportManager: true,
}

var accessLevels = map[AdminRole]int{
	RoleSystemAdmin:      4,
	RoleTransportManager: 3,
	RoleFinanceOfficer:   2,
	RoleSupportStaff:     1,
}

// IsValid returns true if the role is known.
func (r AdminRole) IsValid() bool {
	_, ok := accessLevels[r]
	return ok
}

// CanApproveRefunds gates every refund-status-changing operation.
func (r AdminRole) CanApproveRefunds() bool {
	return refundApprovalRoles[r]
}

// HasScheduleAccess returns true for roles that manage schedules.
func (r AdminRole) HasScheduleAccess() bool {
	return scheduleAccessRoles[r]
}

// CanViewReports returns true for roles with reporting access.
func (r AdminRole) CanViewReports() bool {
	return r == RoleSystemAdmin || r == RoleTransportManager || r == RoleFinanceOfficer
}

// AccessLevel returns the numeric privilege level (higher is more).
func (r AdminRole) AccessLevel() int {
	return accessLevels[r]
}

// DisplayName returns a human-readable role name.
func (r AdminRole) DisplayName() string {
	return strings.ToUpper(strings.ReplaceAll(string(r), "_", " "))
}

// ParseAdminRole converts a string to an AdminRole.
func ParseAdminRole(s string) (AdminRole, error) {
	r := AdminRole(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", NewValidationError("role", "unknown admin role: "+s)
	}
	return r, nil
}
