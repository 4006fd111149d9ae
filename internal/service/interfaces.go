// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/halcyonlegal/casefile/internal/model"
)

// Store defines the contract for our persistence layer. Each record kind is
// an independent namespaced blob; reads of absent or malformed records return
// the zero value, never an error.
type Store interface {
	// Intake wizard
	GetIntake(ctx context.Context) (model.IntakeRecord, error)
	SaveIntake(ctx context.Context, record model.IntakeRecord) error
	GetIntakeStep(ctx context.Context) (model.IntakeStep, error)
	SaveIntakeStep(ctx context.Context, step model.IntakeStep) error

	// Providers (bills & records tracking)
	GetProviders(ctx context.Context) ([]model.Provider, error)
	SaveProviders(ctx context.Context, providers []model.Provider) error

	// Check-ins
	GetCheckIns(ctx context.Context) ([]model.CheckIn, error)
	SaveCheckIns(ctx context.Context, checkIns []model.CheckIn) error

	// Negotiation offers
	GetOffers(ctx context.Context) ([]model.Offer, error)
	SaveOffers(ctx context.Context, offers []model.Offer) error

	// Demand letter
	GetDemand(ctx context.Context) (model.DemandState, error)
	SaveDemand(ctx context.Context, demand model.DemandState) error

	// Settlement
	GetSettlement(ctx context.Context) (model.SettlementState, error)
	SaveSettlement(ctx context.Context, settlement model.SettlementState) error
	GetPayees(ctx context.Context) ([]model.SettlementPayee, error)
	SavePayees(ctx context.Context, payees []model.SettlementPayee) error

	// Litigation
	GetLitigation(ctx context.Context) (model.LitigationState, error)
	SaveLitigation(ctx context.Context, litigation model.LitigationState) error

	// Incident reminders
	GetReminders(ctx context.Context) (*model.ReminderState, error)
	SaveReminders(ctx context.Context, state *model.ReminderState) error
	DeleteReminders(ctx context.Context) error

	// Bank payout info
	GetBankInfo(ctx context.Context) (model.BankInfo, error)
	SaveBankInfo(ctx context.Context, info model.BankInfo) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// ProviderStats summarizes bills-and-records collection progress.
type ProviderStats struct {
	Total           int
	Requested       int
	RecordsReceived int
	BillsReceived   int
	Complete        int
	Percent         int
}

// OfferStats summarizes the negotiation history.
type OfferStats struct {
	InsurerCount      int
	ClientCount       int
	LatestDate        time.Time
	HighestInsurer    float64
	LatestClient      float64
	Gap               float64
	PercentOfDemand   int
	HasInsurerOffer   bool
	HasClientPosition bool
}

// CheckInStats summarizes the client check-in cadence.
type CheckInStats struct {
	LastDate      time.Time
	NextDue       time.Time
	Total         int
	DaysSinceLast int
	Overdue       bool
}

// SettlementStats summarizes the settlement disbursement math.
type SettlementStats struct {
	Gross          float64
	PayeeTotal     float64
	NetToClient    float64
	PercentOfGross int
}
