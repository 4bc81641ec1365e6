package models

import (
	"time"

	"adonix/internal/database"
)

// AttendeeMetadata tracks per-attendee bookkeeping used by the check-in desk.
type AttendeeMetadata struct {
	UserID   string `json:"userId"`
	FoodWave int    `json:"foodWave,omitempty"`
	Points   int    `json:"points"`
}

// AttendeeProfile is the public profile an attendee shows on the leaderboard.
type AttendeeProfile struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"displayName"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	DiscordTag  string    `json:"discordTag,omitempty"`
	Points      int       `json:"points"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var attendeeMetadataSchema = database.Schema{
	Key: "userId",
	Fields: []database.Field{
		{Name: "userId", Type: database.FieldString, Required: true},
		{Name: "foodWave", Type: database.FieldInt},
		{Name: "points", Type: database.FieldInt},
	},
}

var attendeeProfileSchema = database.Schema{
	Key: "userId",
	Fields: []database.Field{
		{Name: "userId", Type: database.FieldString, Required: true},
		{Name: "displayName", Type: database.FieldString, Required: true},
		{Name: "avatarUrl", Type: database.FieldString},
		{Name: "discordTag", Type: database.FieldString},
		{Name: "points", Type: database.FieldInt},
		{Name: "updatedAt", Type: database.FieldTime},
	},
}
