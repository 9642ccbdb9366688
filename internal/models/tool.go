package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Pricing types carried on a tool. "premium" appears in older catalog entries
// and is treated as paid by the filter pipeline.
const (
	PricingFree       = "free"
	PricingFreemium   = "freemium"
	PricingPaid       = "paid"
	PricingPremium    = "premium"
	PricingEnterprise = "enterprise"
)

type Tool struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Slug        string             `json:"slug" bson:"slug"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	PricingType string             `json:"pricing_type" bson:"pricing_type"`
	Website     string             `json:"website,omitempty" bson:"website,omitempty"`
	Rating      float64            `json:"rating" bson:"rating"`
	Views       int64              `json:"views" bson:"views"`
	Votes       int64              `json:"votes" bson:"votes"`
	IsNew       bool               `json:"is_new" bson:"is_new"`
	IsTrending  bool               `json:"is_trending" bson:"is_trending"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

type AddToolRequestBody struct {
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	PricingType string  `json:"pricing_type"`
	Website     string  `json:"website"`
	Rating      float64 `json:"rating"`
}

// AnnotatedTool is a catalog tool joined with the acting user's engagement
// flags. The flags are user-owned; everything else is catalog-owned.
type AnnotatedTool struct {
	Tool
	Saved   bool `json:"saved"`
	Upvoted bool `json:"upvoted"`
}
