package models

import "adonix/internal/database"

// NewsletterSubscription is one mailing list and its subscriber set.
type NewsletterSubscription struct {
	ListID      string   `json:"listId"`
	Subscribers []string `json:"subscribers"`
}

// Field names the newsletter service addresses directly.
const (
	NewsletterListIDField      = "listId"
	NewsletterSubscribersField = "subscribers"
)

var newsletterSubscriptionSchema = database.Schema{
	Key: NewsletterListIDField,
	Fields: []database.Field{
		{Name: NewsletterListIDField, Type: database.FieldString, Required: true},
		{Name: NewsletterSubscribersField, Type: database.FieldStringSet},
	},
}
