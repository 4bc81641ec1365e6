package models

import "adonix/internal/database"

// RegistrationInfo is an applicant's submitted registration form.
type RegistrationInfo struct {
	UserID        string   `json:"userId"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Email         string   `json:"email"`
	School        string   `json:"school,omitempty"`
	Major         string   `json:"major,omitempty"`
	GraduationYr  int      `json:"graduationYear,omitempty"`
	Interests     []string `json:"interests,omitempty"`
	DietaryNeeds  []string `json:"dietaryRestrictions,omitempty"`
	HackathonsRun int      `json:"hackathonsAttended,omitempty"`
	ResumeShared  bool     `json:"resumeShared"`
}

var registrationInfoSchema = database.Schema{
	Key: "userId",
	Fields: []database.Field{
		{Name: "userId", Type: database.FieldString, Required: true},
		{Name: "firstName", Type: database.FieldString, Required: true},
		{Name: "lastName", Type: database.FieldString, Required: true},
		{Name: "email", Type: database.FieldString, Required: true},
		{Name: "school", Type: database.FieldString},
		{Name: "major", Type: database.FieldString},
		{Name: "graduationYear", Type: database.FieldInt},
		{Name: "interests", Type: database.FieldStringSet},
		{Name: "dietaryRestrictions", Type: database.FieldStringSet},
		{Name: "hackathonsAttended", Type: database.FieldInt},
		{Name: "resumeShared", Type: database.FieldBool},
	},
}
