// Package dashboard derives the case checklist from the independently
// stored feature records. Derivation is pure: it reads a snapshot and
// writes nothing back.
package dashboard

import (
	"math"

	"github.com/halcyonlegal/casefile/internal/model"
)

// Step is one unit of case progress shown on the dashboard. Steps are
// derived each time, never persisted.
type Step struct {
	ID          string
	Title       string
	Description string
	Href        string
	Done        bool
	Optional    bool
}

// Snapshot is a read-only view of every record the checklist depends on,
// taken at poll time. The records have no schema coupling to each other;
// this struct is the only place they meet.
type Snapshot struct {
	Reminders  *model.ReminderState
	Intake     model.IntakeRecord
	Providers  []model.Provider
	Offers     []model.Offer
	CheckIns   []model.CheckIn
	Demand     model.DemandState
	Settlement model.SettlementState
	Litigation model.LitigationState
	IntakeStep model.IntakeStep
}

// Checklist is the derived progress view.
type Checklist struct {
	Steps         []Step
	RequiredTotal int
	RequiredDone  int
	Percent       int
	CurrentIndex  int // -1 when every required step is done
}

// BuildSteps computes the fixed-order step sequence with each step's
// completion derived from the snapshot.
func BuildSteps(snap Snapshot) []Step {
	anyInsurerOffer := false
	for _, o := range snap.Offers {
		if o.From == model.OriginInsurer {
			anyInsurerOffer = true
			break
		}
	}

	anyProviderComplete := false
	for i := range snap.Providers {
		if snap.Providers[i].Complete() {
			anyProviderComplete = true
			break
		}
	}

	return []Step{
		{
			ID:          "intake",
			Title:       "Complete intake",
			Description: "Finish the intake wizard and sign the agreements",
			Href:        "/intake",
			Done:        snap.IntakeStep >= model.StepComplete,
		},
		{
			ID:          "providers",
			Title:       "List medical providers",
			Description: "Add every treating provider, or upload documents directly",
			Href:        "/bills-records",
			Done:        len(snap.Providers) > 0 || len(snap.Intake.Uploads) > 0,
		},
		{
			ID:          "records",
			Title:       "Collect bills and records",
			Description: "Request and receive records and bills from providers",
			Href:        "/bills-records",
			Done:        anyProviderComplete,
		},
		{
			ID:          "demand",
			Title:       "Approve the demand",
			Description: "Review the demand draft and approve it for sending",
			Href:        "/demand",
			Done:        snap.Demand.Approved,
		},
		{
			ID:          "negotiation",
			Title:       "Negotiate with the insurer",
			Description: "Log insurer offers and client counter-demands",
			Href:        "/negotiations",
			Done:        anyInsurerOffer,
		},
		{
			ID:          "settlement",
			Title:       "Sign the release",
			Description: "Accept the settlement and sign the release",
			Href:        "/settlement",
			Done:        snap.Settlement.ReleaseSigned,
		},
		{
			ID:          "disbursement",
			Title:       "Receive funds",
			Description: "Confirm settlement funds arrived and disburse payees",
			Href:        "/settlement",
			Done:        snap.Settlement.FundsReceived,
		},
		{
			ID:          "litigation",
			Title:       "Litigation referral",
			Description: "Refer the case to litigation counsel if negotiation stalls",
			Href:        "/litigation",
			Done:        snap.Litigation.Referred,
			Optional:    true,
		},
	}
}

// Build derives the full checklist: completion counts over required steps,
// the rounded percent, and the current step. Optional steps never affect
// the percent and never become current.
func Build(snap Snapshot) Checklist {
	steps := BuildSteps(snap)

	requiredTotal := 0
	requiredDone := 0
	currentIndex := -1

	for i, step := range steps {
		if step.Optional {
			continue
		}
		requiredTotal++
		if step.Done {
			requiredDone++
		} else if currentIndex == -1 {
			currentIndex = i
		}
	}

	percent := 0
	if requiredTotal > 0 {
		percent = int(math.Round(100 * float64(requiredDone) / float64(requiredTotal)))
	}

	return Checklist{
		Steps:         steps,
		RequiredTotal: requiredTotal,
		RequiredDone:  requiredDone,
		Percent:       percent,
		CurrentIndex:  currentIndex,
	}
}

// Partition splits the step list into the single spotlighted current step,
// the completed steps (done, required or optional), and the upcoming steps
// (everything else). One function so the selection rule cannot drift
// between call sites.
func Partition(steps []Step) (current *Step, completed, upcoming []Step) {
	currentIndex := -1
	for i, step := range steps {
		if !step.Optional && !step.Done {
			currentIndex = i
			break
		}
	}

	for i := range steps {
		step := steps[i]
		switch {
		case i == currentIndex:
			current = &steps[i]
		case step.Done:
			completed = append(completed, step)
		default:
			upcoming = append(upcoming, step)
		}
	}

	return current, completed, upcoming
}
