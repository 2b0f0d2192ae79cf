package model

import "time"

// RoleName is the closed set of role identifiers. Role checks throughout the
// codebase go through these constants and the predicates below; ad-hoc string
// comparison against role names is not allowed anywhere else.
type RoleName string

const (
	RoleSuperAdmin   RoleName = "superadmin"   // platform operator
	RoleAdminAccount RoleName = "adminaccount" // institution administrator
	RoleCoordinador  RoleName = "coordinador"  // coordinator of divisions
	RoleProfesor     RoleName = "profesor"     // teacher
	RoleTutor        RoleName = "tutor"        // guardian of students
)

// KnownRoleNames lists every valid role name in hierarchy order.
var KnownRoleNames = []RoleName{
	RoleSuperAdmin, RoleAdminAccount, RoleCoordinador, RoleProfesor, RoleTutor,
}

// ParseRoleName validates a raw string against the closed set.
func ParseRoleName(s string) (RoleName, bool) {
	for _, n := range KnownRoleNames {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// IsAdministrative is the single predicate for administrator roles. It exists
// only for provisioning flows (e.g. which role an account onboarding assigns);
// authorization itself never special-cases these names because the admin
// roles are seeded with the full permission grid.
func (n RoleName) IsAdministrative() bool {
	return n == RoleSuperAdmin || n == RoleAdminAccount
}

// Module names of the permission grid.
const (
	ModuleUsuarios       = "usuarios"
	ModuleCuentas        = "cuentas"
	ModuleDivisiones     = "divisiones"
	ModuleEstudiantes    = "estudiantes"
	ModuleAsociaciones   = "asociaciones"
	ModuleEventos        = "eventos"
	ModuleAsistencia     = "asistencia"
	ModuleNotificaciones = "notificaciones"
	ModuleDocumentos     = "documentos"
	ModuleActividades    = "actividades"
	ModuleRoles          = "roles"
)

// AllModules enumerates the permission modules. The order is stable because
// the seeded grids are built from it.
var AllModules = []string{
	ModuleUsuarios, ModuleCuentas, ModuleDivisiones, ModuleEstudiantes,
	ModuleAsociaciones, ModuleEventos, ModuleAsistencia, ModuleNotificaciones,
	ModuleDocumentos, ModuleActividades, ModuleRoles,
}

// Action names of the permission grid.
const (
	ActionCrear      = "crear"
	ActionLeer       = "leer"
	ActionActualizar = "actualizar"
	ActionEliminar   = "eliminar"
)

// AllActions enumerates the permission actions.
var AllActions = []string{ActionCrear, ActionLeer, ActionActualizar, ActionEliminar}

// Permission grants a set of actions on one module.
type Permission struct {
	Module  string   `json:"module"`
	Actions []string `json:"actions"`
}

// Role represents a row in the `roles` table. The permission grid is stored
// as JSON in the `permissions` column. Level 1 is the highest authority.
type Role struct {
	ID          uint64       // roles.id
	Name        RoleName     // roles.name (unique, closed set)
	Description string       // roles.description
	Level       int          // roles.level (1 = highest)
	Permissions []Permission // roles.permissions (JSON)
	CreatedAt   time.Time    // roles.created_at
	UpdatedAt   time.Time    // roles.updated_at
}

// Allows reports whether the role's grid permits action on module. It is a
// pure linear scan of the grid: a module entry is located first, then the
// action is looked up in its list. There is no caching and no implicit
// bypass for any role name.
func (r Role) Allows(module, action string) bool {
	return GridAllows(r.Permissions, module, action)
}

// GridAllows is the grid membership test shared by roles and per-association
// overrides.
func GridAllows(grid []Permission, module, action string) bool {
	for _, p := range grid {
		if p.Module != module {
			continue
		}
		for _, a := range p.Actions {
			if a == action {
				return true
			}
		}
		return false // first module match wins
	}
	return false
}

// FullGrid returns a grid granting every action on every module. The seeded
// administrator roles carry this grid, which keeps authorization on a single
// mechanism instead of a named-role shortcut.
func FullGrid() []Permission {
	grid := make([]Permission, 0, len(AllModules))
	for _, m := range AllModules {
		grid = append(grid, Permission{Module: m, Actions: append([]string(nil), AllActions...)})
	}
	return grid
}

// DefaultRoles is the seeded role catalog. Administrators only manage
// permission edits afterwards; names and levels are fixed.
func DefaultRoles() []Role {
	readOnly := func(modules ...string) []Permission {
		grid := make([]Permission, 0, len(modules))
		for _, m := range modules {
			grid = append(grid, Permission{Module: m, Actions: []string{ActionLeer}})
		}
		return grid
	}
	coordinador := []Permission{
		{Module: ModuleUsuarios, Actions: []string{ActionLeer}},
		{Module: ModuleDivisiones, Actions: []string{ActionCrear, ActionLeer, ActionActualizar}},
		{Module: ModuleEstudiantes, Actions: []string{ActionCrear, ActionLeer, ActionActualizar}},
		{Module: ModuleAsociaciones, Actions: []string{ActionCrear, ActionLeer, ActionActualizar}},
		{Module: ModuleEventos, Actions: []string{ActionCrear, ActionLeer, ActionActualizar, ActionEliminar}},
		{Module: ModuleAsistencia, Actions: []string{ActionCrear, ActionLeer, ActionActualizar}},
		{Module: ModuleNotificaciones, Actions: []string{ActionCrear, ActionLeer}},
		{Module: ModuleDocumentos, Actions: []string{ActionCrear, ActionLeer}},
		{Module: ModuleActividades, Actions: []string{ActionCrear, ActionLeer, ActionActualizar, ActionEliminar}},
		{Module: ModuleRoles, Actions: []string{ActionLeer}},
	}
	profesor := []Permission{
		{Module: ModuleEstudiantes, Actions: []string{ActionLeer}},
		{Module: ModuleEventos, Actions: []string{ActionCrear, ActionLeer, ActionActualizar}},
		{Module: ModuleAsistencia, Actions: []string{ActionCrear, ActionLeer, ActionActualizar}},
		{Module: ModuleNotificaciones, Actions: []string{ActionCrear, ActionLeer}},
		{Module: ModuleDocumentos, Actions: []string{ActionCrear, ActionLeer}},
		{Module: ModuleActividades, Actions: []string{ActionCrear, ActionLeer, ActionActualizar}},
	}
	return []Role{
		{Name: RoleSuperAdmin, Description: "Platform operator", Level: 1, Permissions: FullGrid()},
		{Name: RoleAdminAccount, Description: "Institution administrator", Level: 2, Permissions: FullGrid()},
		{Name: RoleCoordinador, Description: "Division coordinator", Level: 3, Permissions: coordinador},
		{Name: RoleProfesor, Description: "Teacher", Level: 4, Permissions: profesor},
		{Name: RoleTutor, Description: "Guardian", Level: 5, Permissions: readOnly(
			ModuleEstudiantes, ModuleEventos, ModuleAsistencia, ModuleNotificaciones, ModuleDocumentos, ModuleActividades,
		)},
	}
}
