package domain_test

import (
	"testing"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	"github.com/SscSPs/etracking_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhaseOf(t *testing.T) {
	tests := []struct {
		status domain.Status
		want   domain.Phase
	}{
		{domain.StatusBilled, domain.PhaseBilling},
		{domain.StatusPreparingDelivery, domain.PhasePreparation},
		{domain.StatusHoldOffice, domain.PhasePreparation},
		{domain.StatusHoldWarehouse, domain.PhasePreparation},
		{domain.StatusHoldSalesman, domain.PhasePreparation},
		{domain.StatusChopSignOffice, domain.PhasePreparation},
		{domain.StatusChopSignWarehouse, domain.PhasePreparation},
		{domain.StatusChopSignSalesman, domain.PhasePreparation},
		{domain.StatusTransfer, domain.PhasePreparation},
		{domain.StatusDeliveryInProgress, domain.PhaseInTransit},
		{domain.StatusDelivered, domain.PhaseDelivered},
		{domain.StatusCompleted, domain.PhaseCompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got, err := domain.PhaseOf(tt.status)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Len(t, tests, len(domain.AllStatuses))
}

func TestPhaseOf_UnknownStatus(t *testing.T) {
	_, err := domain.PhaseOf("Lost In Transit")
	assert.ErrorIs(t, err, apperrors.ErrUnknownStatus)

	assert.Equal(t, domain.PhaseBilling, domain.PhaseOrBilled("Lost In Transit"))
	assert.False(t, domain.Status("").IsValid())
}

func TestParseStatus(t *testing.T) {
	s, err := domain.ParseStatus("  Hold - Office ")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHoldOffice, s)

	_, err = domain.ParseStatus("hold - office")
	assert.ErrorIs(t, err, apperrors.ErrUnknownStatus)
}

func TestStatus_Predicates(t *testing.T) {
	assert.True(t, domain.StatusHoldSalesman.RequiresSalesman())
	assert.True(t, domain.StatusChopSignSalesman.RequiresSalesman())
	assert.False(t, domain.StatusHoldOffice.RequiresSalesman())

	assert.True(t, domain.StatusHoldOffice.RequiresClerk())
	assert.True(t, domain.StatusChopSignOffice.RequiresClerk())
	assert.False(t, domain.StatusTransfer.RequiresClerk())

	assert.True(t, domain.StatusHoldWarehouse.IsHoldOrChopSign())
	assert.True(t, domain.StatusChopSignWarehouse.IsHoldOrChopSign())
	assert.False(t, domain.StatusDeliveryInProgress.IsHoldOrChopSign())
}
