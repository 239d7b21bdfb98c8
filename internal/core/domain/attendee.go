package domain

type Role string

const (
	RoleOrdinary  Role = "user"
	RoleStaff     Role = "staff"
	RoleSecurity  Role = "security"
	RoleBartender Role = "bartender"
	RoleInspector Role = "ticket-inspector"
	RoleAdmin     Role = "admin"
)

// Capability describes what a role is allowed to do. Looked up once per
// request instead of comparing role strings at every branch.
type Capability struct {
	FreeAdmission bool
	CanScan       bool
	CanSell       bool
	CanManage     bool
}

var capabilities = map[Role]Capability{
	RoleOrdinary:  {},
	RoleStaff:     {FreeAdmission: true},
	RoleSecurity:  {FreeAdmission: true, CanScan: true},
	RoleBartender: {CanScan: true, CanSell: true},
	RoleInspector: {CanScan: true},
	RoleAdmin:     {FreeAdmission: true, CanScan: true, CanSell: true, CanManage: true},
}

// Capabilities returns the capability set for a role. Unknown roles get the
// empty capability set.
func (r Role) Capabilities() Capability {
	return capabilities[r]
}

type Attendee struct {
	ID       int64
	Username string
	FullName string
	Role     Role
	IsBanned bool
}
