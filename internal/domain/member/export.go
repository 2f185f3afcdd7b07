package member

import (
	"strconv"

	"yatra-app-go/internal/domain/access"
)

// RedactedReceiver replaces owner receivers in exports made by an admin.
const RedactedReceiver = "Restricted"

var ExportColumns = []string{
	"Name",
	"Mobile",
	"Bag Number",
	"Bus Number",
	"Payment Status",
	"Payment Method",
	"Received By",
	"Amount",
	"Referral",
}

type ExportRow struct {
	Name          string
	Mobile        string
	BagNumber     string
	BusNumber     string
	PaymentStatus string
	PaymentMethod string
	ReceivedBy    string
	Amount        int
	Referral      string
}

// Values returns the row in ExportColumns order.
func (r ExportRow) Values() []string {
	return []string{
		r.Name,
		r.Mobile,
		r.BagNumber,
		r.BusNumber,
		r.PaymentStatus,
		r.PaymentMethod,
		r.ReceivedBy,
		strconv.Itoa(r.Amount),
		r.Referral,
	}
}

func ExportRows(records []Member, role access.Role) []ExportRow {
	rows := make([]ExportRow, 0, len(records))
	for _, m := range records {
		receiver := m.PaymentReceiver
		if !role.SeesOwnerReceivers() && access.IsOwnerReserved(receiver) {
			receiver = RedactedReceiver
		}
		rows = append(rows, ExportRow{
			Name:          m.Name,
			Mobile:        m.MobileNumber,
			BagNumber:     m.BagNumber,
			BusNumber:     m.BusNumber,
			PaymentStatus: string(m.PaymentStatus),
			PaymentMethod: string(m.PaymentMethod),
			ReceivedBy:    receiver,
			Amount:        m.Amount,
			Referral:      m.Referral,
		})
	}
	return rows
}
