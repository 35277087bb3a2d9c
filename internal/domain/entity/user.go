package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleAlmoxarife = "almoxarife"
	RoleConsulta   = "consulta"
)

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleAlmoxarife, RoleConsulta:
		return true
	}
	return false
}

// User representa un usuario del almoxarifado.
type User struct {
	ID           string
	Name         string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano
	Role         string // admin, almoxarife, consulta
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clone devuelve una copia independiente.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
