package member

import (
	"strings"
	"time"
)

// DefaultAmount is the trip fee applied when a new record does not carry one.
const DefaultAmount = 2500

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "PAID"
	PaymentUnpaid PaymentStatus = "UNPAID"
)

type PaymentMethod string

const (
	MethodCash PaymentMethod = "CASH"
	MethodGPay PaymentMethod = "GPAY"
	MethodNone PaymentMethod = "NONE"
)

func ParsePaymentStatus(value string) (PaymentStatus, bool) {
	switch status := PaymentStatus(strings.ToUpper(strings.TrimSpace(value))); status {
	case PaymentPaid, PaymentUnpaid:
		return status, true
	default:
		return "", false
	}
}

func ParsePaymentMethod(value string) (PaymentMethod, bool) {
	switch method := PaymentMethod(strings.ToUpper(strings.TrimSpace(value))); method {
	case MethodCash, MethodGPay, MethodNone:
		return method, true
	default:
		return "", false
	}
}

// Settles reports whether the method can back a PAID record.
func (m PaymentMethod) Settles() bool {
	return m == MethodCash || m == MethodGPay
}

type Member struct {
	ID              string        `gorm:"type:uuid;primaryKey"`
	Name            string        `gorm:"not null"`
	MobileNumber    string        `gorm:"size:10;not null;uniqueIndex:members_mobile_number_key"`
	BagNumber       string        `gorm:"not null;uniqueIndex:members_bag_number_key"`
	BusNumber       string        `gorm:"not null;index"`
	SeatNumber      string        `gorm:"not null;default:''"`
	PaymentStatus   PaymentStatus `gorm:"type:varchar(8);not null"`
	PaymentMethod   PaymentMethod `gorm:"type:varchar(8);not null"`
	PaymentReceiver string        `gorm:"not null;default:''"`
	Amount          int           `gorm:"not null"`
	Referral        string        `gorm:"not null;default:''"`
	Discount        int           `gorm:"not null;default:0"`
	CreatedAt       time.Time     `gorm:"autoCreateTime"`
}

// Draft is a member before an id and creation time are assigned.
type Draft struct {
	Name            string        `json:"name"`
	MobileNumber    string        `json:"mobile_number"`
	BagNumber       string        `json:"bag_number"`
	BusNumber       string        `json:"bus_number"`
	SeatNumber      string        `json:"seat_number"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	PaymentReceiver string        `json:"payment_receiver"`
	Amount          int           `json:"amount"`
	Referral        string        `json:"referral"`
	Discount        int           `json:"discount"`
}

// Patch carries only the fields being changed; nil means keep.
type Patch struct {
	Name            *string
	MobileNumber    *string
	BagNumber       *string
	BusNumber       *string
	SeatNumber      *string
	PaymentStatus   *PaymentStatus
	PaymentMethod   *PaymentMethod
	PaymentReceiver *string
	Amount          *int
	Referral        *string
	Discount        *int
}

// Settlement is required when a record flips from UNPAID to PAID.
type Settlement struct {
	Method   PaymentMethod
	Receiver string
}

type Filter struct {
	Query         string
	PaymentStatus PaymentStatus
	BusNumber     string
}

type Stats struct {
	TotalMembers int `json:"total_members"`
	TotalBuses   int `json:"total_buses"`
	Paid         int `json:"paid"`
	Unpaid       int `json:"unpaid"`
	PaidPercent  int `json:"paid_percent"`
	Collected    int `json:"collected"`
}

type BusManifest struct {
	BusNumber string
	Members   []Member
}

type ImportResult struct {
	Added  int `json:"added"`
	Errors int `json:"errors"`
}

func (m Member) draft() Draft {
	return Draft{
		Name:            m.Name,
		MobileNumber:    m.MobileNumber,
		BagNumber:       m.BagNumber,
		BusNumber:       m.BusNumber,
		SeatNumber:      m.SeatNumber,
		PaymentStatus:   m.PaymentStatus,
		PaymentMethod:   m.PaymentMethod,
		PaymentReceiver: m.PaymentReceiver,
		Amount:          m.Amount,
		Referral:        m.Referral,
		Discount:        m.Discount,
	}
}

func (d Draft) normalized() Draft {
	d.Name = strings.TrimSpace(d.Name)
	d.MobileNumber = strings.TrimSpace(d.MobileNumber)
	d.BagNumber = strings.TrimSpace(d.BagNumber)
	d.BusNumber = strings.TrimSpace(d.BusNumber)
	d.SeatNumber = strings.TrimSpace(d.SeatNumber)
	d.PaymentReceiver = strings.TrimSpace(d.PaymentReceiver)
	d.Referral = strings.TrimSpace(d.Referral)
	if d.PaymentStatus == "" {
		d.PaymentStatus = PaymentUnpaid
	} else {
		d.PaymentStatus = PaymentStatus(strings.ToUpper(string(d.PaymentStatus)))
	}
	if d.PaymentMethod == "" {
		d.PaymentMethod = MethodNone
	} else {
		d.PaymentMethod = PaymentMethod(strings.ToUpper(string(d.PaymentMethod)))
	}
	return d
}

func (p Patch) apply(m Member) Member {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.MobileNumber != nil {
		m.MobileNumber = *p.MobileNumber
	}
	if p.BagNumber != nil {
		m.BagNumber = *p.BagNumber
	}
	if p.BusNumber != nil {
		m.BusNumber = *p.BusNumber
	}
	if p.SeatNumber != nil {
		m.SeatNumber = *p.SeatNumber
	}
	if p.PaymentStatus != nil {
		m.PaymentStatus = *p.PaymentStatus
	}
	if p.PaymentMethod != nil {
		m.PaymentMethod = *p.PaymentMethod
	}
	if p.PaymentReceiver != nil {
		m.PaymentReceiver = *p.PaymentReceiver
	}
	if p.Amount != nil {
		m.Amount = *p.Amount
	}
	if p.Referral != nil {
		m.Referral = *p.Referral
	}
	if p.Discount != nil {
		m.Discount = *p.Discount
	}
	return m
}

func (d Draft) applyTo(m Member) Member {
	m.Name = d.Name
	m.MobileNumber = d.MobileNumber
	m.BagNumber = d.BagNumber
	m.BusNumber = d.BusNumber
	m.SeatNumber = d.SeatNumber
	m.PaymentStatus = d.PaymentStatus
	m.PaymentMethod = d.PaymentMethod
	m.PaymentReceiver = d.PaymentReceiver
	m.Amount = d.Amount
	m.Referral = d.Referral
	m.Discount = d.Discount
	return m
}
