package model

import "time"

// IntakeStep identifies a stage of the intake wizard. Steps are strictly
// sequential; a record at StepComplete has passed review.
type IntakeStep int

// Intake wizard steps, in order.
const (
	StepPersonal IntakeStep = iota
	StepIncident
	StepMedical
	StepUploads
	StepAgreements
	StepReview
	StepComplete
)

// String returns a human-readable step name.
func (s IntakeStep) String() string {
	switch s {
	case StepPersonal:
		return "personal"
	case StepIncident:
		return "incident"
	case StepMedical:
		return "medical"
	case StepUploads:
		return "uploads"
	case StepAgreements:
		return "agreements"
	case StepReview:
		return "review"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// PersonalInfo holds the claimant's contact details.
type PersonalInfo struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Address     string `json:"address,omitempty"`
}

// IncidentDetails describes the injury-causing event that anchors the case.
type IncidentDetails struct {
	Date         string `json:"date"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	PoliceReport bool   `json:"policeReport"`
	OtherParty   string `json:"otherParty,omitempty"`
}

// MedicalHistory captures treatment state at intake time.
type MedicalHistory struct {
	Treated        bool   `json:"treated"`
	PriorInjuries  string `json:"priorInjuries,omitempty"`
	CurrentDoctors string `json:"currentDoctors,omitempty"`
	Medications    string `json:"medications,omitempty"`
}

// Upload is a document attached during intake.
type Upload struct {
	AddedAt  time.Time `json:"addedAt"`
	ID       string    `json:"id"`
	FileName string    `json:"fileName"`
	Kind     string    `json:"kind,omitempty"`
}

// Agreements records which engagement documents the claimant has accepted.
type Agreements struct {
	AgreedAt    *time.Time `json:"agreedAt,omitempty"`
	Retainer    bool       `json:"retainer"`
	HIPAA       bool       `json:"hipaa"`
	Contingency bool       `json:"contingency"`
}

// Accepted reports whether every required agreement has been signed.
func (a Agreements) Accepted() bool {
	return a.Retainer && a.HIPAA && a.Contingency
}

// IntakeRecord is the aggregate produced by the intake wizard.
type IntakeRecord struct {
	Personal   PersonalInfo    `json:"personal"`
	Incident   IncidentDetails `json:"incident"`
	Medical    MedicalHistory  `json:"medical"`
	Uploads    []Upload        `json:"uploads"`
	Agreements Agreements      `json:"agreements"`
	Agreed     bool            `json:"agreed"`
}
