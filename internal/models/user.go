package models

import "adonix/internal/database"

// UserInfo is the account record shared by every role.
type UserInfo struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// UserAttendance lists the events a user has checked in to.
type UserAttendance struct {
	UserID     string   `json:"userId"`
	Attendance []string `json:"attendance"`
}

var userInfoSchema = database.Schema{
	Key: "userId",
	Fields: []database.Field{
		{Name: "userId", Type: database.FieldString, Required: true},
		{Name: "name", Type: database.FieldString, Required: true},
		{Name: "email", Type: database.FieldString, Required: true},
	},
}

var userAttendanceSchema = database.Schema{
	Key: "userId",
	Fields: []database.Field{
		{Name: "userId", Type: database.FieldString, Required: true},
		{Name: "attendance", Type: database.FieldStringSet},
	},
}
