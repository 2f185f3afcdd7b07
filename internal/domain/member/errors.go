package member

import "errors"

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrInvalidMember      = errors.New("invalid member")
	ErrDuplicateMobile    = errors.New("a member with this mobile number already exists")
	ErrDuplicateBag       = errors.New("a member with this bag number already exists")
	ErrPaymentMismatch    = errors.New("payment details do not match payment status")
	ErrSettlementRequired = errors.New("payment method and receiver are required to mark as paid")
	ErrUnsupportedFormat  = errors.New("unsupported spreadsheet format")
)

// ValidationError rejects a draft or patch before anything reaches the store.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func IsValidation(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// StoreError wraps a failed remote write or read. The mirror is left as it was.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "member store: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func duplicateError(err error) error {
	switch {
	case errors.Is(err, ErrDuplicateMobile):
		return &ValidationError{Field: "mobile_number", Message: ErrDuplicateMobile.Error(), Err: ErrDuplicateMobile}
	case errors.Is(err, ErrDuplicateBag):
		return &ValidationError{Field: "bag_number", Message: ErrDuplicateBag.Error(), Err: ErrDuplicateBag}
	default:
		return nil
	}
}
