package member

import (
	"errors"
	"math"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var draftFieldOrder = []string{
	"name",
	"mobile_number",
	"bag_number",
	"bus_number",
	"payment_status",
	"payment_method",
	"amount",
	"discount",
}

// validateDraft expects a normalized draft.
func validateDraft(d Draft) error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required.Error("name is required")),
		validation.Field(&d.MobileNumber,
			validation.Required.Error("mobile number is required"),
			validation.Length(10, 10).Error("enter a valid 10-digit mobile number"),
			is.Digit.Error("enter a valid 10-digit mobile number"),
		),
		validation.Field(&d.BagNumber, validation.Required.Error("bag number is required")),
		validation.Field(&d.BusNumber, validation.Required.Error("bus number is required")),
		validation.Field(&d.PaymentStatus,
			validation.Required,
			validation.In(PaymentPaid, PaymentUnpaid).Error("must be PAID or UNPAID"),
		),
		validation.Field(&d.PaymentMethod,
			validation.Required,
			validation.In(MethodCash, MethodGPay, MethodNone).Error("must be CASH, GPAY or NONE"),
		),
		validation.Field(&d.Amount, validation.Min(0), validation.Max(math.MaxInt32)),
		validation.Field(&d.Discount, validation.Min(0), validation.Max(math.MaxInt32)),
	)
	if err != nil {
		return toValidationError(err)
	}

	return checkPayment(d.PaymentStatus, d.PaymentMethod, d.PaymentReceiver)
}

// checkPayment enforces PAID => CASH|GPAY with a receiver, UNPAID => NONE without one.
func checkPayment(status PaymentStatus, method PaymentMethod, receiver string) error {
	switch status {
	case PaymentPaid:
		if !method.Settles() {
			return &ValidationError{Field: "payment_method", Message: "must be CASH or GPAY when paid", Err: ErrPaymentMismatch}
		}
		if receiver == "" {
			return &ValidationError{Field: "payment_receiver", Message: "receiver is required when paid", Err: ErrPaymentMismatch}
		}
	case PaymentUnpaid:
		if method != MethodNone {
			return &ValidationError{Field: "payment_method", Message: "must be NONE when unpaid", Err: ErrPaymentMismatch}
		}
		if receiver != "" {
			return &ValidationError{Field: "payment_receiver", Message: "must be empty when unpaid", Err: ErrPaymentMismatch}
		}
	}
	return nil
}

func toValidationError(err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return &ValidationError{Message: err.Error(), Err: ErrInvalidMember}
	}

	for _, field := range draftFieldOrder {
		if fieldErr, ok := errs[field]; ok && fieldErr != nil {
			return &ValidationError{Field: field, Message: fieldErr.Error(), Err: ErrInvalidMember}
		}
	}

	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if errs[key] != nil {
			return &ValidationError{Field: key, Message: errs[key].Error(), Err: ErrInvalidMember}
		}
	}
	return nil
}
