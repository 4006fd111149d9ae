package model

import (
	"fmt"
	"time"
)

// Provider is one medical provider tracked for bills and records collection.
type Provider struct {
	RequestedAt     *time.Time `json:"requestedAt,omitempty"`
	ReceivedAt      *time.Time `json:"receivedAt,omitempty"`
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	Requested       bool       `json:"requested"`
	RecordsReceived bool       `json:"recordsReceived"`
	BillsReceived   bool       `json:"billsReceived"`
}

// Complete reports whether both records and bills are on file for the provider.
func (p *Provider) Complete() bool {
	return p.RecordsReceived && p.BillsReceived
}

// CheckIn is a periodic client status entry.
type CheckIn struct {
	Date      time.Time `json:"date"`
	ID        string    `json:"id"`
	Note      string    `json:"note,omitempty"`
	PainLevel int       `json:"painLevel"`
	Treated   bool      `json:"treated"`
}

// OfferOrigin identifies which side a negotiation figure came from.
type OfferOrigin string

// Offer origins.
const (
	OriginInsurer OfferOrigin = "Insurer"
	OriginClient  OfferOrigin = "Client"
)

// Offer is a single negotiation entry: an insurer offer or a client demand.
type Offer struct {
	ID      string      `json:"id"`
	DateISO string      `json:"dateISO"`
	From    OfferOrigin `json:"from"`
	Note    string      `json:"note,omitempty"`
	Amount  float64     `json:"amount"`
}

// Validate ensures the offer has a usable origin and amount.
func (o *Offer) Validate() error {
	switch o.From {
	case OriginInsurer, OriginClient:
	default:
		return fmt.Errorf("invalid offer origin: %q", o.From)
	}
	if o.Amount < 0 {
		return fmt.Errorf("offer amount cannot be negative")
	}
	return nil
}

// DemandState tracks the demand-letter workflow.
type DemandState struct {
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	DraftReady bool       `json:"draftReady"`
	Approved   bool       `json:"approved"`
}

// SettlementState is the single settlement record for the case.
type SettlementState struct {
	FundsReceivedAt *time.Time `json:"fundsReceivedAt,omitempty"`
	ReleaseSignedAt *time.Time `json:"releaseSignedAt,omitempty"`
	GrossAmount     float64    `json:"grossAmount"`
	FundsReceived   bool       `json:"fundsReceived"`
	ReleaseSigned   bool       `json:"releaseSigned"`
}

// SettlementPayee is one party paid out of the settlement.
type SettlementPayee struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Kind   string  `json:"kind,omitempty"`
	Amount float64 `json:"amount"`
}

// LitigationState records whether the case was referred to litigation counsel.
type LitigationState struct {
	ReferredAt *time.Time `json:"referredAt,omitempty"`
	FirmName   string     `json:"firmName,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Referred   bool       `json:"referred"`
}

// BankInfo holds payout details. Only the last four digits of the account
// number are ever retained.
type BankInfo struct {
	AccountHolder string `json:"accountHolder"`
	BankName      string `json:"bankName"`
	AccountLast4  string `json:"accountLast4"`
}

// NewBankInfo builds payout info from a full account number, keeping only
// the last four digits.
func NewBankInfo(holder, bank, accountNumber string) BankInfo {
	last4 := accountNumber
	if len(accountNumber) > 4 {
		last4 = accountNumber[len(accountNumber)-4:]
	}
	return BankInfo{
		AccountHolder: holder,
		BankName:      bank,
		AccountLast4:  last4,
	}
}
