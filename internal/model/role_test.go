package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func roleByName(t *testing.T, name RoleName) Role {
	t.Helper()
	for _, r := range DefaultRoles() {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("role %s not in catalog", name)
	return Role{}
}

func TestGridAllows(t *testing.T) {
	coordinador := roleByName(t, RoleCoordinador)

	require.True(t, coordinador.Allows(ModuleUsuarios, ActionLeer))
	require.False(t, coordinador.Allows(ModuleUsuarios, ActionEliminar))
	require.False(t, coordinador.Allows(ModuleCuentas, ActionLeer), "module absent from grid denies everything")
	require.False(t, coordinador.Allows("inexistente", ActionLeer))
}

func TestGridAllowsUnrelatedModuleDoesNotLeak(t *testing.T) {
	grid := []Permission{
		{Module: ModuleUsuarios, Actions: []string{ActionLeer}},
	}
	require.False(t, GridAllows(grid, ModuleEventos, ActionLeer))

	// Adding an unrelated module must not change an existing answer.
	grid = append(grid, Permission{Module: ModuleDocumentos, Actions: []string{ActionCrear}})
	require.True(t, GridAllows(grid, ModuleUsuarios, ActionLeer))
	require.False(t, GridAllows(grid, ModuleUsuarios, ActionEliminar))
}

func TestFirstModuleMatchWins(t *testing.T) {
	grid := []Permission{
		{Module: ModuleEventos, Actions: []string{ActionLeer}},
		{Module: ModuleEventos, Actions: []string{ActionLeer, ActionCrear}},
	}
	require.False(t, GridAllows(grid, ModuleEventos, ActionCrear))
}

func TestAdministratorsCarryFullGrid(t *testing.T) {
	for _, name := range []RoleName{RoleSuperAdmin, RoleAdminAccount} {
		r := roleByName(t, name)
		for _, m := range AllModules {
			for _, a := range AllActions {
				require.True(t, r.Allows(m, a), "%s must allow %s:%s", name, m, a)
			}
		}
	}
}

func TestEffectiveAllowsOverridesReplacePerModule(t *testing.T) {
	profesor := roleByName(t, RoleProfesor)
	a := Association{
		Overrides: []Permission{
			{Module: ModuleAsistencia, Actions: []string{ActionLeer}},
		},
	}

	// Overridden module: only the override's actions count.
	require.True(t, a.EffectiveAllows(profesor, ModuleAsistencia, ActionLeer))
	require.False(t, a.EffectiveAllows(profesor, ModuleAsistencia, ActionCrear))

	// Untouched modules fall through to the role grid.
	require.True(t, a.EffectiveAllows(profesor, ModuleEventos, ActionCrear))
	require.False(t, a.EffectiveAllows(profesor, ModuleCuentas, ActionLeer))
}

func TestEffectiveAllowsEmptyOverrideDenies(t *testing.T) {
	profesor := roleByName(t, RoleProfesor)
	a := Association{
		Overrides: []Permission{
			{Module: ModuleEventos, Actions: nil},
		},
	}
	require.False(t, a.EffectiveAllows(profesor, ModuleEventos, ActionCrear))
	require.False(t, a.EffectiveAllows(profesor, ModuleEventos, ActionLeer))
}

func TestParseRoleName(t *testing.T) {
	for _, n := range KnownRoleNames {
		got, ok := ParseRoleName(string(n))
		require.True(t, ok)
		require.Equal(t, n, got)
	}
	_, ok := ParseRoleName("ADMIN")
	require.False(t, ok)
	_, ok = ParseRoleName("")
	require.False(t, ok)
}

func TestParseStatuses(t *testing.T) {
	st, ok := ParseAssociationStatus("ACTIVE")
	require.True(t, ok)
	require.Equal(t, AssociationActive, st)
	_, ok = ParseAssociationStatus("active")
	require.False(t, ok)

	as, ok := ParseAttendanceStatus("EXCUSED")
	require.True(t, ok)
	require.Equal(t, AttendanceExcused, as)
	_, ok = ParseAttendanceStatus("MAYBE")
	require.False(t, ok)
}
