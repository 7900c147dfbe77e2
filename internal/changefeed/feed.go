// Package changefeed delivers insert and update events for order rows to
// subscribers filtered on a foreign-key column.
package changefeed

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
)

type Change struct {
	Op  Op           `json:"op"`
	Row domain.Order `json:"row"`
}

type Column string

const (
	ColumnBusinessID Column = "business_id"
	ColumnCustomerID Column = "customer_id"
)

// Filter is an equality predicate on one column of the order row.
type Filter struct {
	Column Column
	Value  string
}

func BusinessFilter(businessID string) Filter {
	return Filter{Column: ColumnBusinessID, Value: businessID}
}

func CustomerFilter(customerID string) Filter {
	return Filter{Column: ColumnCustomerID, Value: customerID}
}

func (f Filter) String() string {
	return string(f.Column) + "=" + f.Value
}

func (f Filter) Matches(row domain.Order) bool {
	switch f.Column {
	case ColumnBusinessID:
		return row.BusinessID == f.Value
	case ColumnCustomerID:
		return row.CustomerID != nil && *row.CustomerID == f.Value
	}
	return false
}

type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

type Feed interface {
	Publisher
	Subscribe(ctx context.Context, filter Filter) (*Subscription, error)
	Close() error
}

// Subscription streams matching changes until Close is called. Changes is
// closed once the subscription is torn down.
type Subscription struct {
	Filter Filter

	changes chan Change
	errs    chan error
	once    sync.Once
	stop    func()
}

func newSubscription(filter Filter, buffer int, stop func()) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	return &Subscription{
		Filter:  filter,
		changes: make(chan Change, buffer),
		errs:    make(chan error, 1),
		stop:    stop,
	}
}

func (s *Subscription) Changes() <-chan Change {
	return s.changes
}

// Errors reports delivery problems. It is never closed.
func (s *Subscription) Errors() <-chan error {
	return s.errs
}

func (s *Subscription) Close() {
	s.once.Do(s.stop)
}

func (s *Subscription) reportError(err error) {
	select {
	case s.errs <- err:
	default:
	}
}
