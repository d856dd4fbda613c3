package workflow

import (
	"strings"

	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/SscSPs/etracking_app/internal/utils/datefmt"
)

// PlanCreation turns the creation form into inserts. Numbers that already
// exist in the collection are confirmed one at a time before anything is
// inserted. With applyDateToAll the first entry's date is used for every row.
func (e *Engine) PlanCreation(existing []domain.Document, entries []domain.NewEntry, applyDateToAll bool) (Step, error) {
	var firstDate string
	if len(entries) > 0 {
		firstDate = strings.TrimSpace(entries[0].DocumentDate)
	}

	var kept []domain.NewEntry
	for _, en := range entries {
		no := strings.TrimSpace(en.DocumentNo)
		if no == "" {
			continue
		}
		raw := strings.TrimSpace(en.DocumentDate)
		if applyDateToAll {
			raw = firstDate
		}
		if raw == "" {
			return denied(domain.DeniedMissingDocumentDate), nil
		}
		date, err := datefmt.Parse(raw)
		if err != nil {
			return Step{}, err
		}
		kept = append(kept, domain.NewEntry{DocumentNo: no, DocumentDate: date})
	}
	if len(kept) == 0 {
		return denied(domain.DeniedNothingToCreate), nil
	}

	byNo := make(map[string]string, len(existing))
	for _, d := range existing {
		no := strings.TrimSpace(d.DocumentNo)
		if _, seen := byNo[no]; !seen {
			byNo[no] = d.ID
		}
	}

	plan := &domain.CreationPlan{Kind: e.docType.Kind}
	for _, en := range kept {
		if id, ok := byNo[en.DocumentNo]; ok {
			plan.Conflicts = append(plan.Conflicts, domain.Conflict{ExistingID: id, Entry: en})
			continue
		}
		plan.Pending = append(plan.Pending, en)
	}
	if len(plan.Conflicts) == 0 {
		return step(domain.NoInteraction(), e.inserts(plan.Pending)...), nil
	}
	return step(domain.Confirming(domain.DialogOverwriteExisting, &domain.Resume{
		RowID:    plan.Current().ExistingID,
		Creation: plan,
	})), nil
}

// resolveOverwrite answers one conflict. Yes resets the existing row to a
// fresh Billed document under the typed number and date; its remark stays.
func (e *Engine) resolveOverwrite(r domain.Resume, yes bool) Step {
	if r.Creation == nil {
		return step(domain.NoInteraction())
	}
	plan := *r.Creation

	var writes []Write
	if yes {
		c := plan.Current()
		p := domain.ProgressReset().Merge(domain.Patch{
			DocumentNo:   domain.Set(c.Entry.DocumentNo),
			DocumentDate: domain.Set(c.Entry.DocumentDate),
			Status:       domain.Set(domain.StatusBilled),
		})
		writes = append(writes, e.update(c.ExistingID, p))
	}

	plan.Index++
	if plan.Index < len(plan.Conflicts) {
		next := domain.Confirming(domain.DialogOverwriteExisting, &domain.Resume{
			RowID:    plan.Current().ExistingID,
			Creation: &plan,
		})
		return step(next, writes...)
	}
	writes = append(writes, e.inserts(plan.Pending)...)
	return step(domain.NoInteraction(), writes...)
}

func (e *Engine) inserts(entries []domain.NewEntry) []Write {
	writes := make([]Write, 0, len(entries))
	for _, en := range entries {
		doc := domain.NewDraftDocument(e.docType.Kind, en.DocumentNo, en.DocumentDate)
		writes = append(writes, Write{Op: WriteInsert, Kind: e.docType.Kind, RowID: doc.ID, Document: &doc})
	}
	return writes
}
