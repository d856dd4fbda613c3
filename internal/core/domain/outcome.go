package domain

// OutcomeKind classifies the result of a workflow request.
type OutcomeKind string

const (
	OutcomeDenied            OutcomeKind = "denied"
	OutcomeNeedsConfirmation OutcomeKind = "needs_confirmation"
	OutcomeNeedsSelection    OutcomeKind = "needs_selection"
	OutcomeCommitted         OutcomeKind = "committed"
	// OutcomeClosed is a dialog resolved without any write.
	OutcomeClosed OutcomeKind = "closed"
)

// DenialReason explains a Denied outcome.
type DenialReason string

const (
	DeniedPhase4Locked        DenialReason = "phase4_locked"
	DeniedDeliveredValidation DenialReason = "delivered_validation"
	DeniedUnknownStatus       DenialReason = "unknown_status"
	DeniedTestModeRequired    DenialReason = "test_mode_required"
	DeniedNothingToCreate     DenialReason = "nothing_to_create"
	DeniedMissingDocumentDate DenialReason = "missing_document_date"
)

var denialMessages = map[DenialReason]string{
	DeniedPhase4Locked:        "This Status can no longer be changed as the order has been completed.",
	DeniedDeliveredValidation: "Assigned person and date is missing, please go to preparing delivery.",
	DeniedUnknownStatus:       "The document carries a status that is not part of the workflow.",
	DeniedTestModeRequired:    "Turn on test mode to delete documents.",
	DeniedNothingToCreate:     "Enter at least one document number.",
	DeniedMissingDocumentDate: "Every document needs a date.",
}

// Message is the fixed notice shown for a denial.
func (r DenialReason) Message() string {
	return denialMessages[r]
}

// Outcome is what a request resolved to.
type Outcome struct {
	Kind      OutcomeKind
	Reason    DenialReason
	Dialog    DialogKind
	Selection SelectionKind
	// Patch is what was written to the acting row in this step.
	Patch Patch
}

// Denied builds a denial outcome.
func Denied(reason DenialReason) Outcome {
	return Outcome{Kind: OutcomeDenied, Reason: reason}
}
