package models

import "adonix/internal/database"

// EventMetadata holds scoring details kept apart from the event body.
type EventMetadata struct {
	EventID   string `json:"eventId"`
	IsStaff   bool   `json:"isStaff"`
	Points    int    `json:"points"`
	ExpiresAt int64  `json:"exp"`
}

// Event is the body shared by staff-only and public events.
type Event struct {
	EventID     string        `json:"eventId"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	StartTime   int64         `json:"startTime"`
	EndTime     int64         `json:"endTime"`
	EventType   string        `json:"eventType"`
	Locations   []Location    `json:"locations,omitempty"`
	Sponsor     string        `json:"sponsor,omitempty"`
	IsAsync     bool          `json:"isAsync"`
	IsPrivate   bool          `json:"isPrivate"`
	Points      int           `json:"points,omitempty"`
	Display     *EventDisplay `json:"display,omitempty"`
}

// Location is a named place an event happens at.
type Location struct {
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
}

// EventDisplay carries presentation-only flags.
type EventDisplay struct {
	DisplayOnStaffCheckIn bool `json:"displayOnStaffCheckIn"`
	IsPro                 bool `json:"isPro"`
}

// EventAttendance records who attended an event.
type EventAttendance struct {
	EventID   string   `json:"eventId"`
	Attendees []string `json:"attendees"`
}

// EventFollowers records who follows an event.
type EventFollowers struct {
	EventID   string   `json:"eventId"`
	Followers []string `json:"followers"`
}

var eventMetadataSchema = database.Schema{
	Key: "eventId",
	Fields: []database.Field{
		{Name: "eventId", Type: database.FieldString, Required: true},
		{Name: "isStaff", Type: database.FieldBool, Required: true},
		{Name: "points", Type: database.FieldInt},
		{Name: "exp", Type: database.FieldInt},
	},
}

var eventSchema = database.Schema{
	Key: "eventId",
	Fields: []database.Field{
		{Name: "eventId", Type: database.FieldString, Required: true},
		{Name: "name", Type: database.FieldString, Required: true},
		{Name: "description", Type: database.FieldString},
		{Name: "startTime", Type: database.FieldInt},
		{Name: "endTime", Type: database.FieldInt},
		{Name: "eventType", Type: database.FieldString},
		{Name: "locations", Type: database.FieldObject},
		{Name: "sponsor", Type: database.FieldString},
		{Name: "isAsync", Type: database.FieldBool},
		{Name: "isPrivate", Type: database.FieldBool},
		{Name: "points", Type: database.FieldInt},
		{Name: "display", Type: database.FieldObject},
	},
}

var eventAttendanceSchema = database.Schema{
	Key: "eventId",
	Fields: []database.Field{
		{Name: "eventId", Type: database.FieldString, Required: true},
		{Name: "attendees", Type: database.FieldStringSet},
	},
}

var eventFollowersSchema = database.Schema{
	Key: "eventId",
	Fields: []database.Field{
		{Name: "eventId", Type: database.FieldString, Required: true},
		{Name: "followers", Type: database.FieldStringSet},
	},
}
