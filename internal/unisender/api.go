// Package unisender is a thin client for the Unisender API.
//
// Every call answers with an Envelope holding either a result or an error
// code. Error envelopes are not Go errors: callers decide what to do with the
// code. Go errors are only returned for transport, decoding and local quota
// failures.
package unisender

import "context"

// API is the set of remote calls used by the sync layer
type API interface {
	CreateField(ctx context.Context, req *CreateFieldRequest) (*Envelope[IDResult], error)
	// UpdateField answers with a flat {id} instead of {result:{id}}
	UpdateField(ctx context.Context, req *UpdateFieldRequest) (*FlatID, error)
	DeleteField(ctx context.Context, id int64) (*Envelope[Empty], error)

	CreateList(ctx context.Context, req *CreateListRequest) (*Envelope[IDResult], error)
	UpdateList(ctx context.Context, req *UpdateListRequest) (*Envelope[Empty], error)
	DeleteList(ctx context.Context, id int64) (*Envelope[Empty], error)

	Subscribe(ctx context.Context, req *SubscribeRequest) (*Envelope[SubscribeResult], error)
	Unsubscribe(ctx context.Context, req *ContactRequest) (*Envelope[Empty], error)
	Exclude(ctx context.Context, req *ContactRequest) (*Envelope[Empty], error)

	CreateEmailMessage(ctx context.Context, req *CreateEmailMessageRequest) (*Envelope[MessageResult], error)
	DeleteMessage(ctx context.Context, id int64) (*Envelope[Empty], error)

	CreateCampaign(ctx context.Context, req *CreateCampaignRequest) (*Envelope[CampaignResult], error)
	GetCampaignStatus(ctx context.Context, campaignID int64) (*Envelope[CampaignStatusResult], error)
	GetCampaignAggregateStats(ctx context.Context, campaignID int64) (*Envelope[AggregateStats], error)
	GetVisitedLinks(ctx context.Context, campaignID int64, group bool) (*Envelope[VisitedLinks], error)
}

var _ API = (*Client)(nil)
