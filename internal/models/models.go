package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PaymentType enumerates the repayment options a customer can select.
type PaymentType int

// Payment type ordinals as stored upstream.
const (
	PaymentTypeNone       PaymentType = 0
	PaymentTypeFull       PaymentType = 1
	PaymentTypeSettlement PaymentType = 2
	PaymentTypePartial    PaymentType = 3
)

// Valid reports whether the ordinal is one of the selectable payment types.
func (p PaymentType) Valid() bool {
	return p == PaymentTypeFull || p == PaymentTypeSettlement || p == PaymentTypePartial
}

// Flag is a 0/1 ordinal boolean as used by the upstream API. It also accepts
// JSON true/false for forward compatibility.
type Flag uint8

// Bool converts the flag to a Go boolean.
func (f Flag) Bool() bool { return f != 0 }

// UnmarshalJSON decodes 0/1 ordinals and JSON booleans.
func (f *Flag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "0", "false", "null":
		*f = 0
		return nil
	case "1", "true":
		*f = 1
		return nil
	}
	return fmt.Errorf("models: invalid flag value %q", string(trimmed))
}

// MarshalJSON encodes the flag back to its 0/1 ordinal.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f.Bool() {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// Payment is a proof-of-payment reference attached to a customer record.
type Payment struct {
	ID         string `json:"_id"`
	Screenshot string `json:"screen_shot"`
}

// Customer is the upstream customer record. The gateway never stores it; the
// struct exists for the handful of routes that reshape or export customer
// data.
type Customer struct {
	ID                       string      `json:"_id"`
	Customer                 string      `json:"customer"`
	Phone                    string      `json:"phone"`
	ForeClosure              Decimal     `json:"fore_closure"`
	Settlement               Decimal     `json:"settlement"`
	MinimumPartPayment       Decimal     `json:"minimum_part_payment"`
	ForeclosureReward        Decimal     `json:"foreclosure_reward"`
	SettlementReward         Decimal     `json:"settlement_reward"`
	MinimumPartPaymentReward Decimal     `json:"minimum_part_payment_reward"`
	PaymentType              PaymentType `json:"payment_type"`
	IsPaid                   bool        `json:"isPaid"`
	PaymentURL               string      `json:"payment_url"`
	LenderName               string      `json:"lender_name"`
	VerifiedBy               string      `json:"verified_by"`
	IsActive                 bool        `json:"isActive"`
	Payments                 []Payment   `json:"payments"`
	CreatedAt                string      `json:"createdAt"`
	UpdatedAt                string      `json:"updatedAt"`
}

// CustomerList is the upstream paginated customer listing envelope.
type CustomerList struct {
	Success      bool       `json:"success"`
	Message      string     `json:"message"`
	TotalRecords int        `json:"totalRecords"`
	Data         []Customer `json:"data"`
}

// Screenshot is a customer-owned proof-of-payment image. IsActive gates
// whether it may still be deleted; the upstream flips it off once the
// customer is marked paid.
type Screenshot struct {
	ID         string `json:"_id"`
	Screenshot string `json:"screen_shot"`
	IsActive   bool   `json:"isActive"`
	CreatedAt  string `json:"createdAt"`
}

// TimelineEntry is one append-only audit event in a customer's activity feed.
type TimelineEntry struct {
	ID          string `json:"_id"`
	Action      string `json:"action"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// Permission is one module/action capability entry of an admin account.
type Permission struct {
	Module  string   `json:"module"`
	Actions []string `json:"actions"`
}

// AdminUser is an admin account as returned by the upstream users listing.
type AdminUser struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	IsActive    bool            `json:"isActive"`
	Permissions []Permission    `json:"permissions"`
	Raw         json.RawMessage `json:"-"`
}
