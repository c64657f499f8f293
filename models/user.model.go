package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Console roles. Cashiers run the register; admins additionally manage
// accounts and the catalog.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// User represents a console user account.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password,omitempty" json:"-"`
	Role     string             `bson:"role" json:"role"` // RoleAdmin or RoleCashier
	IsActive bool               `bson:"is_active" json:"isActive"`
}
