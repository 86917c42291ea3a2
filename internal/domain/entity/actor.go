package entity

import "strings"

// Roles de operación. Solo se usan para atribución y para las dos operaciones privilegiadas.
const (
	RoleMaster   = "Master"
	RoleAdmin    = "Administrador"
	RoleSeller   = "Vendedor"
	RolePromoter = "Promotor"
	RoleSystem   = "Sistema"
)

// Actor identifica quién ejecuta un comando (rol + nombre visible).
type Actor struct {
	Role string
	Name string
}

// SystemActor es el actor por defecto cuando el llamador no declara uno.
var SystemActor = Actor{Role: RoleSystem, Name: RoleSystem}

// NewActor normaliza rol y nombre; vacío equivale a Sistema.
func NewActor(role, name string) Actor {
	role = canonicalRole(strings.TrimSpace(role))
	name = strings.TrimSpace(name)
	if role == "" {
		role = RoleSystem
	}
	if name == "" {
		name = role
	}
	return Actor{Role: role, Name: name}
}

// IsMaster indica si el actor puede ejecutar operaciones privilegiadas.
func (a Actor) IsMaster() bool {
	return strings.EqualFold(a.Role, RoleMaster)
}

// CanViewAudit indica si el actor puede consultar la bitácora.
func (a Actor) CanViewAudit() bool {
	return a.IsMaster() || strings.EqualFold(a.Role, RoleAdmin)
}

func canonicalRole(role string) string {
	for _, r := range []string{RoleMaster, RoleAdmin, RoleSeller, RolePromoter, RoleSystem} {
		if strings.EqualFold(r, role) {
			return r
		}
	}
	return role
}
