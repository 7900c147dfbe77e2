package errors

import (
	stderrors "errors"
	"fmt"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stderrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	var nfe *NotFoundError
	if stderrors.As(err, &nfe) {
		return nfe, true
	}
	return nil, false
}

type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

func IsForbiddenError(err error) (*ForbiddenError, bool) {
	var fe *ForbiddenError
	if stderrors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

type DeadlockError struct {
	Message string
}

func (e *DeadlockError) Error() string {
	return e.Message
}

func NewDeadlockError(message string) *DeadlockError {
	return &DeadlockError{Message: message}
}

func IsDeadlockError(err error) (*DeadlockError, bool) {
	var de *DeadlockError
	if stderrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

// CouponRejectionReason is the first failing coupon check.
type CouponRejectionReason string

const (
	CouponNotFound                CouponRejectionReason = "NOT_FOUND"
	CouponInactive                CouponRejectionReason = "INACTIVE"
	CouponNotStarted              CouponRejectionReason = "NOT_STARTED"
	CouponExpired                 CouponRejectionReason = "EXPIRED"
	CouponBelowMinimum            CouponRejectionReason = "BELOW_MINIMUM"
	CouponExhausted               CouponRejectionReason = "EXHAUSTED"
	CouponPerCustomerLimitReached CouponRejectionReason = "PER_CUSTOMER_LIMIT_REACHED"
)

type CouponRejectedError struct {
	Code   string
	Reason CouponRejectionReason
}

func (e *CouponRejectedError) Error() string {
	return fmt.Sprintf("coupon %q rejected: %s", e.Code, e.Reason)
}

func NewCouponRejectedError(code string, reason CouponRejectionReason) *CouponRejectedError {
	return &CouponRejectedError{Code: code, Reason: reason}
}

func IsCouponRejectedError(err error) (*CouponRejectedError, bool) {
	var cre *CouponRejectedError
	if stderrors.As(err, &cre) {
		return cre, true
	}
	return nil, false
}

// WriteStage names the remote write that failed during order submission.
type WriteStage string

const (
	StageOrder      WriteStage = "order"
	StageOrderItems WriteStage = "order_items"
	StageRedemption WriteStage = "coupon_redemption"
)

// RemoteWriteFailure reports a failed insert. OrderID is set when the order
// row itself was created before the failing stage.
type RemoteWriteFailure struct {
	OrderID string
	Stage   WriteStage
	Cause   error
}

func (e *RemoteWriteFailure) Error() string {
	if e.OrderID != "" {
		return fmt.Sprintf("writing %s for order %s: %v", e.Stage, e.OrderID, e.Cause)
	}
	return fmt.Sprintf("writing %s: %v", e.Stage, e.Cause)
}

func (e *RemoteWriteFailure) Unwrap() error {
	return e.Cause
}

// Partial reports whether the order row exists without the rest of its writes.
func (e *RemoteWriteFailure) Partial() bool {
	return e.OrderID != "" && e.Stage != StageOrder
}

func NewRemoteWriteFailure(orderID string, stage WriteStage, cause error) *RemoteWriteFailure {
	return &RemoteWriteFailure{OrderID: orderID, Stage: stage, Cause: cause}
}

func IsRemoteWriteFailure(err error) (*RemoteWriteFailure, bool) {
	var rwf *RemoteWriteFailure
	if stderrors.As(err, &rwf) {
		return rwf, true
	}
	return nil, false
}

type ChannelError struct {
	Channel string
	Cause   error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel %s: %v", e.Channel, e.Cause)
}

func (e *ChannelError) Unwrap() error {
	return e.Cause
}

func NewChannelError(channel string, cause error) *ChannelError {
	return &ChannelError{Channel: channel, Cause: cause}
}

func IsChannelError(err error) (*ChannelError, bool) {
	var che *ChannelError
	if stderrors.As(err, &che) {
		return che, true
	}
	return nil, false
}
