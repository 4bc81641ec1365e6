package models

import "adonix/internal/database"

// Admission decision states.
const (
	DecisionAccepted = "ACCEPTED"
	DecisionRejected = "REJECTED"
	DecisionWaitlist = "WAITLISTED"
	DecisionTBD      = "TBD"
)

// AdmissionDecision is the admission outcome for one applicant.
type AdmissionDecision struct {
	UserID   string `json:"userId"`
	Status   string `json:"status"`
	Response string `json:"response"`
	Reviewer string `json:"reviewer,omitempty"`
	Emailed  bool   `json:"emailSent"`
}

var admissionDecisionSchema = database.Schema{
	Key: "userId",
	Fields: []database.Field{
		{Name: "userId", Type: database.FieldString, Required: true},
		{Name: "status", Type: database.FieldString, Required: true},
		{Name: "response", Type: database.FieldString},
		{Name: "reviewer", Type: database.FieldString},
		{Name: "emailSent", Type: database.FieldBool},
	},
}
