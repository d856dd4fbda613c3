package workflow_test

import (
	"testing"
	"time"

	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/SscSPs/etracking_app/internal/core/workflow"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

const today = "2025-06-15"

func newEngine(t *testing.T, kind domain.DocumentKind, opts ...workflow.Option) *workflow.Engine {
	t.Helper()
	dt, err := domain.TypeOf(kind)
	require.NoError(t, err)
	opts = append([]workflow.Option{workflow.WithClock(func() time.Time { return fixedNow })}, opts...)
	return workflow.NewEngine(dt, opts...)
}

// board applies every write the engine emits, the way the tracking
// service does, so flows can be followed end to end.
type board struct {
	t    *testing.T
	e    *workflow.Engine
	rows map[string]domain.Document
	in   domain.Interaction
}

func newBoard(t *testing.T, e *workflow.Engine, rows ...domain.Document) *board {
	b := &board{t: t, e: e, rows: map[string]domain.Document{}, in: domain.NoInteraction()}
	for _, r := range rows {
		b.rows[r.ID] = r
	}
	return b
}

func (b *board) apply(s workflow.Step) workflow.Step {
	for _, w := range s.Writes {
		switch w.Op {
		case workflow.WriteInsert:
			b.rows[w.RowID] = *w.Document
		case workflow.WriteUpdate:
			b.rows[w.RowID] = w.Patch.Apply(b.rows[w.RowID])
		case workflow.WriteDelete:
			delete(b.rows, w.RowID)
		}
	}
	b.in = s.Interaction
	return s
}

func (b *board) row(id string) domain.Document {
	return b.rows[id]
}

func (b *board) request(id string, target domain.Status, sc workflow.SelectionContext) workflow.Step {
	return b.apply(b.e.RequestTransition(b.rows[id], target, sc))
}

func (b *board) confirm(yes bool) workflow.Step {
	b.t.Helper()
	s, err := b.e.Confirm(b.in, b.rows[b.in.RowID()], yes)
	require.NoError(b.t, err)
	return b.apply(s)
}

func (b *board) choose(c workflow.Choice) workflow.Step {
	b.t.Helper()
	s, err := b.e.Select(b.in, b.rows[b.in.RowID()], c)
	require.NoError(b.t, err)
	return b.apply(s)
}

func (b *board) cancel() workflow.Step {
	b.t.Helper()
	s, err := b.e.Cancel(b.in, b.rows[b.in.RowID()])
	require.NoError(b.t, err)
	return b.apply(s)
}

func employee(id string, pos domain.Position) workflow.Choice {
	return workflow.Choice{Employee: &domain.Employee{ID: id, Name: id, Position: pos}}
}

func warehouse(id, name string) workflow.Choice {
	return workflow.Choice{Warehouse: &domain.Warehouse{ID: id, Name: name}}
}

func date(raw string) workflow.Choice {
	return workflow.Choice{Date: raw}
}

func refs(ids ...string) []domain.RowRef {
	out := make([]domain.RowRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.RowRef{ID: id, DocumentNo: "NO-" + id})
	}
	return out
}
