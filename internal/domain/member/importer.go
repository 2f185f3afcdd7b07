package member

import (
	"context"
	"math"
	"strconv"
	"strings"
)

// ImportRow is one spreadsheet row keyed by its header cell.
type ImportRow map[string]string

var (
	nameHeaders     = []string{"Name", "name"}
	mobileHeaders   = []string{"Mobile", "mobile", "Phone", "phone"}
	bagHeaders      = []string{"Bag", "bag", "Bag Number"}
	busHeaders      = []string{"Bus", "bus", "Bus Number"}
	seatHeaders     = []string{"Seat", "seat", "Seat Number"}
	paymentHeaders  = []string{"Payment", "payment", "Payment Status"}
	methodHeaders   = []string{"Method", "method", "Payment Method"}
	receiverHeaders = []string{"Receiver", "receiver", "Received By"}
	amountHeaders   = []string{"Amount", "amount"}
	referralHeaders = []string{"Referral", "referral"}
)

func (row ImportRow) pick(headers []string) string {
	for _, header := range headers {
		if value := strings.TrimSpace(row[header]); value != "" {
			return value
		}
	}
	return ""
}

// ImportRows adds each row in order through the same path as Add. A row that
// is incomplete or rejected is counted as an error and the batch continues;
// rows already added stay added. Duplicates are only detected against records
// present when the row is reached.
func (r *Registry) ImportRows(ctx context.Context, rows []ImportRow) ImportResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result ImportResult
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			result.Errors += len(rows) - i
			r.log.Warn("registry: import cancelled", "row", i+1, "err", err)
			break
		}

		draft, ok := draftFromRow(row)
		if !ok {
			result.Errors++
			r.log.Debug("registry: import row incomplete", "row", i+1)
			continue
		}
		if _, err := r.addLocked(ctx, draft); err != nil {
			result.Errors++
			r.log.Debug("registry: import row rejected", "row", i+1, "err", err)
			continue
		}
		result.Added++
	}

	r.log.Info("registry: import finished", "added", result.Added, "errors", result.Errors)
	return result
}

func draftFromRow(row ImportRow) (Draft, bool) {
	draft := Draft{
		Name:            row.pick(nameHeaders),
		MobileNumber:    coerceMobile(row.pick(mobileHeaders)),
		BagNumber:       row.pick(bagHeaders),
		BusNumber:       row.pick(busHeaders),
		SeatNumber:      row.pick(seatHeaders),
		PaymentStatus:   PaymentUnpaid,
		PaymentMethod:   MethodNone,
		PaymentReceiver: row.pick(receiverHeaders),
		Amount:          DefaultAmount,
		Referral:        row.pick(referralHeaders),
	}
	if draft.Name == "" || draft.MobileNumber == "" || draft.BagNumber == "" || draft.BusNumber == "" {
		return Draft{}, false
	}

	if strings.EqualFold(row.pick(paymentHeaders), string(PaymentPaid)) {
		draft.PaymentStatus = PaymentPaid
	}
	if method := row.pick(methodHeaders); method != "" {
		draft.PaymentMethod = PaymentMethod(strings.ToUpper(method))
	}
	if amount := row.pick(amountHeaders); amount != "" {
		parsed, ok := parseAmount(amount)
		if !ok {
			return Draft{}, false
		}
		draft.Amount = parsed
	}
	return draft, true
}

// parseAmount accepts "2500", "2,500" and the "2500.00" spreadsheets write
// for numeric cells. Fractional amounts are rejected.
func parseAmount(value string) (int, bool) {
	value = strings.ReplaceAll(value, ",", "")
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed, true
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed != math.Trunc(parsed) || math.Abs(parsed) > math.MaxInt32 {
		return 0, false
	}
	return int(parsed), true
}

// coerceMobile keeps the digits and truncates to ten.
func coerceMobile(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
			if b.Len() == 10 {
				break
			}
		}
	}
	return b.String()
}
