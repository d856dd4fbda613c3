package workflow_test

import (
	"testing"

	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/SscSPs/etracking_app/internal/core/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullRow(status domain.Status) domain.Document {
	return domain.Document{
		ID:                  "row",
		Status:              status,
		AssignedDriverID:    domain.Ref("d"),
		AssignedSalesmanID:  domain.Ref("s"),
		AssignedClerkID:     domain.Ref("c"),
		TransferWarehouseID: domain.Ref("tw"),
		HoldWarehouseID:     domain.Ref("hw"),
		HoldWarehouseType:   domain.Ref(domain.HoldTypeKIV),
		DeliveryDate:        "2025-01-01",
		DeliverySlot:        domain.SlotMorning,
		Remark:              "now",
		RemarkAtBilled:      "then",
	}
}

func TestRequestTransition_WritesAreNormalized(t *testing.T) {
	e := newEngine(t, domain.KindInvoice)
	sc := workflow.SelectionContext{TestMode: true}

	for _, from := range domain.AllStatuses {
		for _, to := range domain.AllStatuses {
			s := e.RequestTransition(fullRow(from), to, sc)
			if s.Outcome.Kind == domain.OutcomeDenied {
				assert.Empty(t, s.Writes, "%s -> %s", from, to)
				continue
			}
			for _, w := range s.Writes {
				if !w.Patch.Status.Touched {
					continue
				}
				got := w.Patch.Apply(fullRow(from))
				again := domain.NormalizeForStatus(domain.Patch{Status: domain.Set(got.Status)}).Apply(got)
				assert.Equal(t, again, got, "%s -> %s leaves fields its status does not use", from, to)
			}
		}
	}
}

// answers picks one branch of every dialog a flow can open.
type answers struct {
	name            string
	mode            workflow.DeliveryMode
	warehouse       string
	driverBroughtIt bool
}

var flowAnswers = []answers{
	{name: "salesman, outside warehouse, driver brought it", mode: workflow.ModeSalesman, warehouse: "Bintulu", driverBroughtIt: true},
	{name: "driver, keruing, kept at warehouse", mode: workflow.ModeDriver, warehouse: workflow.DefaultKeruingName, driverBroughtIt: false},
}

// startRow is fullRow reduced to a state a committed transition can leave.
func startRow(status domain.Status) domain.Document {
	row := domain.NormalizeForStatus(domain.Patch{Status: domain.Set(status)}).Apply(fullRow(status))
	if row.Assignees() > 1 {
		row.AssignedSalesmanID = nil
		row.AssignedClerkID = nil
	}
	return row
}

// finish answers dialogs until the flow closes, checking the row after
// every step.
func (b *board) finish(a answers, check func(step string)) {
	b.t.Helper()
	for i := 0; b.in.IsOpen(); i++ {
		require.Less(b.t, i, 12, "flow does not terminate")
		if b.in.State == domain.InteractionConfirming {
			yes := true
			if b.in.Dialog == domain.DialogChopSignDriver {
				yes = a.driverBroughtIt
			}
			label := string(b.in.Dialog)
			b.confirm(yes)
			check(label)
			continue
		}

		label := string(b.in.Selection)
		switch b.in.Selection {
		case domain.SelectDeliveryMode:
			b.choose(workflow.Choice{Mode: a.mode})
		case domain.SelectSalesman:
			b.choose(employee("s2", domain.PositionSalesman))
		case domain.SelectClerk:
			b.choose(employee("c2", domain.PositionClerk))
		case domain.SelectDriver:
			b.choose(employee("d2", domain.PositionLorryDriver))
		case domain.SelectTransferWarehouse, domain.SelectHoldWarehouse, domain.SelectChopSignWarehouse:
			b.choose(warehouse("w2", a.warehouse))
		case domain.SelectHoldWarehouseType:
			b.choose(workflow.Choice{HoldType: string(domain.HoldTypeKIV)})
		case domain.SelectDeliveryDate:
			b.choose(date(""))
		case domain.SelectDeliverySlot:
			b.choose(workflow.Choice{Slot: string(domain.SlotMorning)})
		case domain.SelectAttachment:
			b.choose(workflow.Choice{Attachment: workflow.AttachNone})
		default:
			b.t.Fatalf("no answer for %s", b.in.Selection)
		}
		check(label)
	}
}

func TestCompletedFlows_KeepAtMostOneAssignee(t *testing.T) {
	sc := workflow.SelectionContext{TestMode: true}

	for _, a := range flowAnswers {
		t.Run(a.name, func(t *testing.T) {
			for _, from := range domain.AllStatuses {
				for _, to := range domain.AllStatuses {
					b := newBoard(t, newEngine(t, domain.KindDeliveryOrder), startRow(from))
					flow := string(from) + " -> " + string(to)
					check := func(step string) {
						assert.LessOrEqual(t, b.row("row").Assignees(), 1, "%s after %s", flow, step)
					}

					b.request("row", to, sc)
					check("request")
					b.finish(a, check)

					got := b.row("row")
					normalized := domain.NormalizeForStatus(domain.Patch{Status: domain.Set(got.Status)}).Apply(got)
					assert.Equal(t, normalized, got, "%s leaves fields its status does not use", flow)
				}
			}
		})
	}
}

func TestChopSignWarehouse_DriverBroughtItEndsInDeliveryWithDriverOnly(t *testing.T) {
	for _, from := range []domain.Status{domain.StatusBilled, domain.StatusHoldSalesman, domain.StatusDelivered} {
		t.Run(string(from), func(t *testing.T) {
			b := newBoard(t, newEngine(t, domain.KindInvoice), startRow(from))

			b.request("row", domain.StatusChopSignWarehouse, workflow.SelectionContext{TestMode: true})
			b.finish(flowAnswers[0], func(string) {})

			got := b.row("row")
			assert.Equal(t, domain.StatusDeliveryInProgress, got.Status)
			require.NotNil(t, got.AssignedDriverID)
			assert.Equal(t, "d2", *got.AssignedDriverID)
			assert.Nil(t, got.AssignedSalesmanID)
			assert.Nil(t, got.AssignedClerkID)
		})
	}
}

func TestRequestTransition_CompletedLockedOutsideTestMode(t *testing.T) {
	e := newEngine(t, domain.KindInvoice)

	for _, to := range domain.AllStatuses {
		if to == domain.StatusCompleted {
			continue
		}
		s := e.RequestTransition(fullRow(domain.StatusCompleted), to, workflow.SelectionContext{})
		assert.Equal(t, domain.DeniedPhase4Locked, s.Outcome.Reason, string(to))
		assert.Empty(t, s.Writes, string(to))
	}
}

func TestRequestTransition_OnlyBilledExitCapturesRemark(t *testing.T) {
	e := newEngine(t, domain.KindInvoice)
	sc := workflow.SelectionContext{TestMode: true}

	for _, from := range domain.AllStatuses {
		for _, to := range domain.AllStatuses {
			s := e.RequestTransition(fullRow(from), to, sc)
			for _, w := range s.Writes {
				if w.Patch.RemarkAtBilled.Touched {
					assert.Equal(t, domain.StatusBilled, from, "%s -> %s", from, to)
					assert.Equal(t, "now", w.Patch.RemarkAtBilled.Value)
				}
			}
		}
	}
}

func TestRequestTransition_DialogsAlwaysCarryTheActingRow(t *testing.T) {
	e := newEngine(t, domain.KindDeliveryOrder)
	sc := workflow.SelectionContext{TestMode: true, Selected: refs("row", "other")}

	for _, from := range domain.AllStatuses {
		for _, to := range domain.AllStatuses {
			s := e.RequestTransition(fullRow(from), to, sc)
			if s.Interaction.IsOpen() {
				assert.Equal(t, "row", s.Interaction.RowID(), "%s -> %s", from, to)
			}
		}
	}
}

func TestRemarkRoundTrip_BilledThroughPreparation(t *testing.T) {
	for _, status := range domain.AllStatuses {
		if p, _ := domain.PhaseOf(status); p != domain.PhasePreparation {
			continue
		}
		t.Run(string(status), func(t *testing.T) {
			b := newBoard(t, newEngine(t, domain.KindInvoice), domain.Document{
				ID: "rt", Status: domain.StatusBilled, Remark: "R1",
			})

			b.request("rt", status, workflow.SelectionContext{})
			for b.in.IsOpen() && b.in.State == domain.InteractionConfirming {
				b.confirm(true)
			}
			if b.in.IsOpen() {
				b.apply(workflow.Step{Interaction: domain.NoInteraction()})
			}

			edited := b.apply(b.e.EditRemark(b.row("rt"), "R2", workflow.SelectionContext{}))
			assert.Equal(t, domain.OutcomeCommitted, edited.Outcome.Kind)

			b.request("rt", domain.StatusBilled, workflow.SelectionContext{})
			b.confirm(true)
			assert.Equal(t, domain.StatusBilled, b.row("rt").Status)
			assert.Equal(t, "R1", b.row("rt").Remark)
		})
	}
}
