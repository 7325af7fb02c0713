package auth

import "context"

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

const (
	PermScheduleRead  = "schedule.read"
	PermScheduleWrite = "schedule.write"
	PermHolidayRead   = "holidays.read"
	PermHolidayWrite  = "holidays.write"
	PermHolidaySync   = "holidays.sync"
	PermAbsenceRead   = "absences.read"
	PermAbsenceWrite  = "absences.write"
	PermAbsenceReview = "absences.review"
	PermTrackingRead  = "tracking.read"
	PermTrackingWrite = "tracking.write"
	PermCalendarRead  = "calendar.read"
	PermCostsRead     = "costs.read"
	PermCostsWrite    = "costs.write"
	PermReportsRead   = "reports.read"
	PermAuditRead     = "audit.read"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermScheduleRead,
		PermHolidayRead,
		PermAbsenceRead,
		PermAbsenceWrite,
		PermTrackingRead,
		PermTrackingWrite,
		PermCalendarRead,
		PermReportsRead,
	},
	RoleManager: {
		PermScheduleRead,
		PermHolidayRead,
		PermAbsenceRead,
		PermAbsenceWrite,
		PermAbsenceReview,
		PermTrackingRead,
		PermTrackingWrite,
		PermCalendarRead,
		PermCostsRead,
		PermReportsRead,
	},
	RoleAdmin: {
		PermScheduleRead,
		PermScheduleWrite,
		PermHolidayRead,
		PermHolidayWrite,
		PermHolidaySync,
		PermAbsenceRead,
		PermAbsenceWrite,
		PermAbsenceReview,
		PermTrackingRead,
		PermTrackingWrite,
		PermCalendarRead,
		PermCostsRead,
		PermCostsWrite,
		PermReportsRead,
		PermAuditRead,
	},
}

// StaticPermissions resolves permissions from the in-code role map.
// Satisfies the transport middleware's PermissionStore.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, candidate := range RolePermissions[role] {
		if candidate == permission {
			return true, nil
		}
	}
	return false, nil
}
