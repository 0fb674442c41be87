package models

import (
	"time"

	"github.com/aarondl/sqlboiler/v4/queries/qm"
)

// Subscription is an object representing the database table. A viewer
// subscribes to a creator; the pair is the primary key.
type Subscription struct {
	ViewerID  string    `boil:"viewer_id" json:"viewerId"`
	CreatorID string    `boil:"creator_id" json:"creatorId"`
	CreatedAt time.Time `boil:"created_at" json:"createdAt"`
	UpdatedAt time.Time `boil:"updated_at" json:"updatedAt"`
}

const CreatorSubscriberCount = "(SELECT count(*) FROM subscriptions s WHERE s.creator_id = subscriptions.creator_id)"

// SubscriptionListItem is a subscription with the creator it points at.
type SubscriptionListItem struct {
	Subscription `boil:",bind"`

	CreatorName     string `boil:"creator_name" json:"creatorName"`
	CreatorImageURL string `boil:"creator_image_url" json:"creatorImageUrl"`
	SubscriberCount int64  `boil:"subscriber_count" json:"subscriberCount"`
}

// SubscriptionListing returns a query for subscription rows joined to the
// creator.
func SubscriptionListing(mods ...qm.QueryMod) Query[*SubscriptionListItem] {
	base := []qm.QueryMod{
		qm.Select(aliased("subscriptions", "viewer_id", "creator_id", "created_at", "updated_at")...),
		qm.Select(
			"users.name AS creator_name",
			"users.image_url AS creator_image_url",
			CreatorSubscriberCount+" AS subscriber_count",
		),
		qm.From("subscriptions"),
		qm.InnerJoin("users ON users.id = subscriptions.creator_id"),
	}
	return newQuery[*SubscriptionListItem]("SubscriptionListItem", append(base, mods...)...)
}
