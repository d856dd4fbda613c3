package domain

// BoardSnapshot is the state of one collection as the shell holds it.
type BoardSnapshot struct {
	Kind        DocumentKind
	Documents   []Document
	Interaction Interaction
	Selected    []string
	TestMode    bool
}

// StepResult is what a workflow request did: the outcome, the dialog now
// open and every row that changed, in write order.
type StepResult struct {
	Outcome     Outcome
	Interaction Interaction
	Documents   []Document
	Deleted     []string
}
