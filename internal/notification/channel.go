// Package notification routes order changes to the viewer they concern: the
// business owner gets store-backed notifications with alerts, the customer
// gets transient status messages.
package notification

import (
	"storefront/internal/changefeed"
	"storefront/internal/identity"
)

type ChannelKind int

const (
	ChannelNone ChannelKind = iota
	ChannelBusiness
	ChannelCustomer
)

// Channel is the audience a session listens as. Only one is active at a time.
type Channel struct {
	Kind ChannelKind
	ID   string
}

func BusinessChannel(businessID string) Channel {
	return Channel{Kind: ChannelBusiness, ID: businessID}
}

func CustomerChannel(customerID string) Channel {
	return Channel{Kind: ChannelCustomer, ID: customerID}
}

// ChannelFor picks the channel for a user's claims. Owning a business wins
// over having a customer profile.
func ChannelFor(claims identity.Claims) Channel {
	if claims.BusinessID != nil && *claims.BusinessID != "" {
		return BusinessChannel(*claims.BusinessID)
	}
	if claims.CustomerID != nil && *claims.CustomerID != "" {
		return CustomerChannel(*claims.CustomerID)
	}
	return Channel{}
}

func (c Channel) Filter() (changefeed.Filter, bool) {
	switch c.Kind {
	case ChannelBusiness:
		return changefeed.BusinessFilter(c.ID), true
	case ChannelCustomer:
		return changefeed.CustomerFilter(c.ID), true
	}
	return changefeed.Filter{}, false
}

func (c Channel) String() string {
	switch c.Kind {
	case ChannelBusiness:
		return "business:" + c.ID
	case ChannelCustomer:
		return "customer:" + c.ID
	}
	return "none"
}
