package models

import "adonix/internal/database"

// ShopItem is a prize redeemable with attendee points.
type ShopItem struct {
	ItemID    string   `json:"itemId"`
	Name      string   `json:"name"`
	Price     int      `json:"price"`
	IsRaffle  bool     `json:"isRaffle"`
	ImageURL  string   `json:"imageURL,omitempty"`
	Quantity  int      `json:"quantity"`
	Instances []string `json:"instances,omitempty"`
}

var shopItemSchema = database.Schema{
	Key: "itemId",
	Fields: []database.Field{
		{Name: "itemId", Type: database.FieldString, Required: true},
		{Name: "name", Type: database.FieldString, Required: true},
		{Name: "price", Type: database.FieldInt, Required: true},
		{Name: "isRaffle", Type: database.FieldBool},
		{Name: "imageURL", Type: database.FieldString},
		{Name: "quantity", Type: database.FieldInt},
		{Name: "instances", Type: database.FieldStringSet},
	},
}
