package entity

import "strings"

// Role rol de un usuario dentro de la tienda.
type Role string

const (
	RoleUser    Role = "USER"
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// privilegedRoles roles con acceso a la consola administrativa.
var privilegedRoles = map[Role]struct{}{
	RoleAdmin:   {},
	RoleManager: {},
	RoleStaff:   {},
}

// Address dirección postal guardada de un usuario.
// El servidor garantiza que a lo sumo una dirección tiene IsDefault=true;
// el cliente no debe asumirlo localmente sin re-consultar.
type Address struct {
	ID        string `json:"id"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Country   string `json:"country"`
	ZipCode   string `json:"zipCode"`
	IsDefault bool   `json:"isDefault"`
}

// UserProfile perfil del usuario autenticado tal como lo entrega el backend.
type UserProfile struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Roles     []Role    `json:"roles"`
	Addresses []Address `json:"addresses,omitempty"`
}

// FullName nombre completo para mostrar y para prellenar el checkout.
func (u *UserProfile) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsPrivileged responde si el usuario tiene algún rol administrativo.
func (u *UserProfile) IsPrivileged() bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if _, ok := privilegedRoles[r]; ok {
			return true
		}
	}
	return false
}
