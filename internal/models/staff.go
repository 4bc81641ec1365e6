package models

import "adonix/internal/database"

// StaffShift lists the events a staff member is scheduled to cover.
type StaffShift struct {
	UserID string   `json:"userId"`
	Shifts []string `json:"shifts"`
}

var staffShiftSchema = database.Schema{
	Key: "userId",
	Fields: []database.Field{
		{Name: "userId", Type: database.FieldString, Required: true},
		{Name: "shifts", Type: database.FieldStringSet},
	},
}
