package models

import "adonix/internal/database"

// AuthRoles lists the roles granted to a user.
type AuthRoles struct {
	UserID   string   `json:"userId"`
	Provider string   `json:"provider"`
	Roles    []string `json:"roles"`
}

var authRolesSchema = database.Schema{
	Key: "userId",
	Fields: []database.Field{
		{Name: "userId", Type: database.FieldString, Required: true},
		{Name: "provider", Type: database.FieldString, Required: true},
		{Name: "roles", Type: database.FieldStringSet},
	},
}
