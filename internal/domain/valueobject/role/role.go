package role

type Role string

const (
	Admin    = Role("ADMIN")
	Employee = Role("EMPLOYEE")
)

func (r Role) String() string {
	return string(r)
}

func IsValid[T Role | string](role T) bool {
	switch Role(role) {
	case Admin, Employee:
		return true
	default:
		return false
	}
}
