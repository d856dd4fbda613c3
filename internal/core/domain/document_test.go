package domain_test

import (
	"strings"
	"testing"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDraftDocument(t *testing.T) {
	doc := domain.NewDraftDocument(domain.KindInvoice, "INV-1", "2025-02-01")

	assert.True(t, strings.HasPrefix(doc.ID, domain.DraftIDPrefix))
	assert.False(t, doc.IsPersisted())
	assert.Equal(t, domain.StatusBilled, doc.Status)
	assert.Equal(t, domain.KindInvoice, doc.Kind)

	other := domain.NewDraftDocument(domain.KindInvoice, "INV-2", "2025-02-01")
	assert.NotEqual(t, doc.ID, other.ID)
}

func TestDocument_IsPersisted(t *testing.T) {
	assert.True(t, domain.Document{ID: "42"}.IsPersisted())
	assert.False(t, domain.Document{}.IsPersisted())
}

func TestParseDeliverySlot(t *testing.T) {
	tests := []struct {
		raw     string
		want    domain.DeliverySlot
		wantErr bool
	}{
		{raw: "Morning", want: domain.SlotMorning},
		{raw: "Noon", want: domain.SlotNoon},
		{raw: "Afternoon", want: domain.SlotNoon},
		{raw: "Evening", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := domain.ParseDeliverySlot(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHoldType(t *testing.T) {
	got, err := domain.ParseHoldType("Self Collect")
	require.NoError(t, err)
	assert.Equal(t, domain.HoldTypeSelfCollect, got)

	_, err = domain.ParseHoldType("kiv")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTypeOf(t *testing.T) {
	do, err := domain.TypeOf(domain.KindDeliveryOrder)
	require.NoError(t, err)
	assert.True(t, do.AttachInvoice)

	inv, err := domain.TypeOf(domain.KindInvoice)
	require.NoError(t, err)
	assert.False(t, inv.AttachInvoice)

	_, err = domain.ParseKind("receipt")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestInteraction_Prompt(t *testing.T) {
	in := domain.Confirming(domain.DialogCompletedLock, &domain.Resume{RowID: "r"})
	assert.Equal(t, "Once confirmed, order will be locked and no further changes can be made.", in.Prompt())
	assert.Equal(t, "r", in.RowID())

	plan := &domain.CreationPlan{
		Kind:      domain.KindDeliveryOrder,
		Conflicts: []domain.Conflict{{ExistingID: "x", Entry: domain.NewEntry{DocumentNo: "DO-9"}}},
	}
	overwrite := domain.Confirming(domain.DialogOverwriteExisting, &domain.Resume{RowID: "x", Creation: plan})
	assert.Contains(t, overwrite.Prompt(), "DO-9 already exists")
	assert.Contains(t, overwrite.Prompt(), "existing delivery order")

	assert.Empty(t, domain.NoInteraction().Prompt())
	assert.False(t, domain.NoInteraction().IsOpen())
}
