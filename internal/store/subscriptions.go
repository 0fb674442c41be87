package store

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/queries/qm"

	"github.com/nrfta/tubepage"
	"github.com/nrfta/tubepage/internal/models"
	"github.com/nrfta/tubepage/keyset"
)

const ListSubscriptions = "subscriptions.getMany"

// Subscriptions are unique per (viewer, creator), so the creator breaks ties
// within one viewer's list.
var subscriptionFeed = keyset.MustSchema(keyset.NewSchema[*models.SubscriptionListItem](keyset.DESC).
	SortKey("subscriptions.updated_at", "updatedAt", keyset.Time, func(s *models.SubscriptionListItem) any { return s.UpdatedAt }).
	TieBreak("subscriptions.creator_id", "creatorId", keyset.UUID, func(s *models.SubscriptionListItem) any { return s.CreatorID }))

// Subscriptions lists the creators viewerID subscribes to.
func (s *Store) Subscriptions(ctx context.Context, viewerID string, args *paging.PageArgs) (*paging.Page[*models.SubscriptionListItem], error) {
	return paginate(ctx, s, listing[*models.SubscriptionListItem]{
		name:   ListSubscriptions,
		schema: subscriptionFeed,
		query:  models.SubscriptionListing,
		filter: []qm.QueryMod{qm.Where("subscriptions.viewer_id = ?", viewerID)},
	}, args)
}
