package handler

import (
	"fmt"
	"strings"

	memberdomain "yatra-app-go/internal/domain/member"
)

func parseStatusParam(value string) (memberdomain.PaymentStatus, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	status, ok := memberdomain.ParsePaymentStatus(value)
	if !ok {
		return "", fmt.Errorf("payment_status must be PAID or UNPAID")
	}
	return status, nil
}

func parseMethodParam(value string) memberdomain.PaymentMethod {
	return memberdomain.PaymentMethod(strings.ToUpper(strings.TrimSpace(value)))
}
