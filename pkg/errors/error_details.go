package errors

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message (required) is the user-defined error message.
	// E.g. "order quantity must be positive".
	Message string

	// Code (required) is the machine-readable error code string.
	// E.g. "invalid_order".
	Code string

	// Field (optional) is the related field the error occurred on, if any.
	Field string

	// Object (optional) is the related object the error occured on, if any.
	Object interface{}
}

// NewErrorDetails creates a new ErrorDetails struct with the given parameters.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// NewErrorDetailsWithObject creates a new ErrorDetails struct with an associated object.
func NewErrorDetailsWithObject(message, code, field string, object interface{}) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
		Object:  object,
	}
}

// NewInvalidOrder builds the rejection returned for a malformed order
// creation request. Field names the offending attribute.
func NewInvalidOrder(message, field string) *ErrorDetails {
	return NewErrorDetails(message, string(InvalidOrder), field)
}

// NewOrderNotFound builds the rejection returned for an unknown order id.
func NewOrderNotFound(id string) *ErrorDetails {
	return NewErrorDetails("order "+id+" not found", string(OrderNotFound), "id")
}

// NewInvalidOrderState builds the rejection returned when an operation is
// illegal for the order's current lifecycle state.
func NewInvalidOrderState(message string) *ErrorDetails {
	return NewErrorDetails(message, string(InvalidOrderState), "status")
}

// NewSubscriberOverflow builds the error recorded when a subscriber is
// dropped because its delivery queue overflowed.
func NewSubscriberOverflow(subscriberID string) *ErrorDetails {
	return NewErrorDetails("subscriber delivery queue overflowed", string(SubscriberOverflow), subscriberID)
}

// NewVenueClosed builds the rejection returned for order submissions after
// shutdown has begun.
func NewVenueClosed() *ErrorDetails {
	return NewErrorDetails("venue is shutting down, not accepting orders", string(VenueClosed), "")
}

// NewQuoteUnavailable builds the rejection returned when a pair has not
// ticked yet.
func NewQuoteUnavailable(pair string) *ErrorDetails {
	return NewErrorDetails("no quote available for pair "+pair, string(QuoteUnavailable), "pair")
}

// Error() is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals checks whether a given `error` has a specific code.
func ErrorCodeEquals(err error, code ErrorCode) bool {
	errDetails, ok := err.(*ErrorDetails)
	if !ok {
		return false
	}

	return errDetails.Code == string(code)
}

// GetErrorDetails extracts ErrorDetails from an error, unwrapping tracers.
// Returns nil if the chain carries no ErrorDetails.
func GetErrorDetails(err error) *ErrorDetails {
	for err != nil {
		if details, ok := err.(*ErrorDetails); ok {
			return details
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = unwrapper.Unwrap()
	}
	return nil
}
