package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	"github.com/SscSPs/etracking_app/internal/core/domain"
	portssvc "github.com/SscSPs/etracking_app/internal/core/ports/services"
	"github.com/SscSPs/etracking_app/internal/core/services"
	"github.com/SscSPs/etracking_app/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var trackingNow = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

type TrackingServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	docs    *MockDocumentRepository
	refs    *MockReferenceService
	service portssvc.TrackingSvcFacade
	closed  bool
}

func (suite *TrackingServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.docs = new(MockDocumentRepository)
	suite.refs = new(MockReferenceService)
	suite.closed = false
	suite.service = services.NewTrackingService(suite.docs, suite.refs,
		services.WithTrackingClock(func() time.Time { return trackingNow }),
		services.WithPersistTimeout(time.Second),
	)
}

func (suite *TrackingServiceTestSuite) TearDownTest() {
	suite.drain()
}

// drain waits for every queued write to reach the mock repository.
func (suite *TrackingServiceTestSuite) drain() {
	if suite.closed {
		return
	}
	suite.closed = true
	suite.Require().NoError(suite.service.Close(suite.ctx))
}

func (suite *TrackingServiceTestSuite) seed(kind domain.DocumentKind, rows ...domain.Document) {
	for i := range rows {
		rows[i].Kind = kind
	}
	suite.docs.On("FetchAll", mock.Anything, kind).Return(rows, nil).Once()
}

func yes() *bool { b := true; return &b }
func no() *bool  { b := false; return &b }

func (suite *TrackingServiceTestSuite) row(kind domain.DocumentKind, id string) domain.Document {
	board, err := suite.service.GetBoard(suite.ctx, kind)
	suite.Require().NoError(err)
	for _, d := range board.Documents {
		if d.ID == id {
			return d
		}
	}
	suite.FailNow("row not found", id)
	return domain.Document{}
}

func (suite *TrackingServiceTestSuite) TestGetBoard_LoadsOnce() {
	suite.seed(domain.KindInvoice, domain.Document{ID: "1", DocumentNo: "INV-1", Status: domain.StatusBilled})

	first, err := suite.service.GetBoard(suite.ctx, domain.KindInvoice)
	suite.Require().NoError(err)
	_, err = suite.service.GetBoard(suite.ctx, domain.KindInvoice)
	suite.Require().NoError(err)

	suite.Len(first.Documents, 1)
	suite.Equal(domain.InteractionNone, first.Interaction.State)
	suite.docs.AssertNumberOfCalls(suite.T(), "FetchAll", 1)
}

func (suite *TrackingServiceTestSuite) TestGetBoard_LoadFailureIsRetried() {
	suite.docs.On("FetchAll", mock.Anything, domain.KindGRN).Return(nil, errors.New("down")).Once()
	suite.seed(domain.KindGRN)

	_, err := suite.service.GetBoard(suite.ctx, domain.KindGRN)
	suite.Error(err)

	board, err := suite.service.GetBoard(suite.ctx, domain.KindGRN)
	suite.NoError(err)
	suite.Empty(board.Documents)
}

func (suite *TrackingServiceTestSuite) TestTransferFlow_PersistsEveryStepInOrder() {
	suite.seed(domain.KindInvoice, domain.Document{ID: "1", DocumentNo: "INV-1", Status: domain.StatusBilled, Remark: "fragile"})
	suite.refs.On("FindWarehouse", mock.Anything, "w1").Return(&domain.Warehouse{ID: "w1", Name: "Klang"}, nil)
	suite.docs.On("Update", mock.Anything, domain.KindInvoice, "1", mock.Anything, "admin").Return(&domain.Document{ID: "1"}, nil)

	res, err := suite.service.RequestTransition(suite.ctx, domain.KindInvoice, "1", dto.TransitionRequest{Status: string(domain.StatusTransfer)}, "admin")
	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeNeedsSelection, res.Outcome.Kind)
	suite.Equal(domain.SelectTransferWarehouse, res.Interaction.Selection)
	suite.Require().Len(res.Documents, 1)
	suite.Equal(domain.StatusTransfer, res.Documents[0].Status)
	suite.Equal("fragile", res.Documents[0].RemarkAtBilled)

	res, err = suite.service.Select(suite.ctx, domain.KindInvoice, dto.SelectRequest{WarehouseID: "w1"}, "admin")
	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeCommitted, res.Outcome.Kind)
	suite.False(res.Interaction.IsOpen())

	got := suite.row(domain.KindInvoice, "1")
	suite.Equal("w1", *got.TransferWarehouseID)
	suite.Equal("2025-06-15", got.DeliveryDate)
	suite.Equal("admin", got.LastUpdatedBy)

	suite.drain()
	suite.docs.AssertNumberOfCalls(suite.T(), "Update", 2)
	first := suite.docs.Calls[1].Arguments.Get(3).(domain.Patch)
	suite.Equal(domain.StatusTransfer, first.Status.Value)
	second := suite.docs.Calls[2].Arguments.Get(3).(domain.Patch)
	suite.Equal("w1", *second.TransferWarehouseID.Value)
}

func (suite *TrackingServiceTestSuite) TestOpenDialogBlocksNewFlows() {
	suite.seed(domain.KindInvoice,
		domain.Document{ID: "1", DocumentNo: "INV-1", Status: domain.StatusBilled},
		domain.Document{ID: "2", DocumentNo: "INV-2", Status: domain.StatusBilled},
	)
	suite.docs.On("Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&domain.Document{}, nil).Maybe()

	_, err := suite.service.RequestTransition(suite.ctx, domain.KindInvoice, "1", dto.TransitionRequest{Status: string(domain.StatusBilled)}, "admin")
	suite.Require().NoError(err)

	_, err = suite.service.RequestTransition(suite.ctx, domain.KindInvoice, "2", dto.TransitionRequest{Status: string(domain.StatusTransfer)}, "admin")
	suite.ErrorIs(err, apperrors.ErrInteractionPending)
	_, err = suite.service.EditRemark(suite.ctx, domain.KindInvoice, "2", dto.RemarkRequest{Remark: "x"}, "admin")
	suite.ErrorIs(err, apperrors.ErrInteractionPending)

	res, err := suite.service.Confirm(suite.ctx, domain.KindInvoice, dto.ConfirmRequest{Yes: no()}, "admin")
	suite.Require().NoError(err)
	suite.False(res.Interaction.IsOpen())

	_, err = suite.service.EditRemark(suite.ctx, domain.KindInvoice, "2", dto.RemarkRequest{Remark: "x"}, "admin")
	suite.NoError(err)
}

func (suite *TrackingServiceTestSuite) TestDialogCallsWithoutDialog() {
	suite.seed(domain.KindInvoice)

	_, err := suite.service.Confirm(suite.ctx, domain.KindInvoice, dto.ConfirmRequest{Yes: yes()}, "admin")
	suite.ErrorIs(err, apperrors.ErrNoInteraction)
	_, err = suite.service.Cancel(suite.ctx, domain.KindInvoice, "admin")
	suite.ErrorIs(err, apperrors.ErrNoInteraction)
}

func (suite *TrackingServiceTestSuite) TestUnknownRowAndKind() {
	suite.seed(domain.KindInvoice)

	_, err := suite.service.RequestTransition(suite.ctx, domain.KindInvoice, "nope", dto.TransitionRequest{Status: string(domain.StatusTransfer)}, "admin")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.service.GetBoard(suite.ctx, domain.DocumentKind("receipt"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TrackingServiceTestSuite) TestPersistFailureKeepsMemory() {
	suite.seed(domain.KindInvoice, domain.Document{ID: "1", Status: domain.StatusBilled})
	suite.docs.On("Update", mock.Anything, domain.KindInvoice, "1", mock.Anything, "admin").Return(nil, errors.New("db down")).Once()

	res, err := suite.service.EditRemark(suite.ctx, domain.KindInvoice, "1", dto.RemarkRequest{Remark: "call first"}, "admin")
	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeCommitted, res.Outcome.Kind)

	suite.drain()
	suite.Equal("call first", suite.row(domain.KindInvoice, "1").Remark)
}

func (suite *TrackingServiceTestSuite) TestCreateDocuments_RekeysDrafts() {
	suite.seed(domain.KindCreditNote)
	suite.docs.On("Insert", mock.Anything, mock.MatchedBy(func(d domain.Document) bool {
		return d.DocumentNo == "CN-1" && d.Kind == domain.KindCreditNote && d.CreatedBy == "admin"
	})).Return(&domain.Document{ID: "db-1"}, nil).Once()

	res, err := suite.service.CreateDocuments(suite.ctx, domain.KindCreditNote, dto.CreateDocumentsRequest{
		Entries: []domain.NewEntry{{DocumentNo: "CN-1", DocumentDate: "01/02/2025"}},
	}, "admin")
	suite.Require().NoError(err)
	suite.Require().Len(res.Documents, 1)
	draftID := res.Documents[0].ID
	suite.True(domain.IsDraftID(draftID))

	suite.drain()

	got := suite.row(domain.KindCreditNote, "db-1")
	suite.Equal("2025-02-01", got.DocumentDate)
	suite.Equal(domain.StatusBilled, got.Status)

	// the draft id still resolves after the row was re-keyed
	snap, err := suite.service.SetSelection(suite.ctx, domain.KindCreditNote, dto.SelectionRequest{IDs: []string{draftID}})
	suite.Require().NoError(err)
	suite.Equal([]string{"db-1"}, snap.Selected)
}

func (suite *TrackingServiceTestSuite) TestDelete_NeedsTestMode() {
	suite.seed(domain.KindGRN, domain.Document{ID: "g1", Status: domain.StatusBilled})
	suite.docs.On("Delete", mock.Anything, domain.KindGRN, "g1").Return(nil).Once()

	res, err := suite.service.DeleteDocument(suite.ctx, domain.KindGRN, "g1", "admin")
	suite.Require().NoError(err)
	suite.Equal(domain.DeniedTestModeRequired, res.Outcome.Reason)

	snap, err := suite.service.SetTestMode(suite.ctx, domain.KindGRN, dto.TestModeRequest{Enabled: yes()})
	suite.Require().NoError(err)
	suite.True(snap.TestMode)

	res, err = suite.service.DeleteDocument(suite.ctx, domain.KindGRN, "g1", "admin")
	suite.Require().NoError(err)
	suite.Equal([]string{"g1"}, res.Deleted)

	suite.drain()
	suite.docs.AssertExpectations(suite.T())
	board, err := suite.service.GetBoard(suite.ctx, domain.KindGRN)
	suite.Require().NoError(err)
	suite.Empty(board.Documents)
}

func (suite *TrackingServiceTestSuite) TestSetSelection() {
	suite.seed(domain.KindInvoice,
		domain.Document{ID: "1", DocumentNo: "A"},
		domain.Document{ID: "2", DocumentNo: "B"},
	)

	_, err := suite.service.SetSelection(suite.ctx, domain.KindInvoice, dto.SelectionRequest{IDs: []string{"2", "9"}})
	suite.ErrorIs(err, apperrors.ErrNotFound)

	snap, err := suite.service.SetSelection(suite.ctx, domain.KindInvoice, dto.SelectionRequest{IDs: []string{"2", "1"}})
	suite.Require().NoError(err)
	suite.Equal([]string{"1", "2"}, snap.Selected)
}

func (suite *TrackingServiceTestSuite) TestBulkApplyCommitsEverySelectedRow() {
	suite.seed(domain.KindInvoice,
		domain.Document{ID: "1", DocumentNo: "A", Status: domain.StatusBilled},
		domain.Document{ID: "2", DocumentNo: "B", Status: domain.StatusBilled},
	)
	suite.refs.On("FindWarehouse", mock.Anything, "w1").Return(&domain.Warehouse{ID: "w1", Name: "Klang"}, nil)
	suite.docs.On("Update", mock.Anything, domain.KindInvoice, mock.Anything, mock.Anything, "admin").Return(&domain.Document{}, nil)

	_, err := suite.service.SetSelection(suite.ctx, domain.KindInvoice, dto.SelectionRequest{IDs: []string{"1", "2"}})
	suite.Require().NoError(err)

	_, err = suite.service.RequestTransition(suite.ctx, domain.KindInvoice, "1", dto.TransitionRequest{Status: string(domain.StatusTransfer)}, "admin")
	suite.Require().NoError(err)
	res, err := suite.service.Select(suite.ctx, domain.KindInvoice, dto.SelectRequest{WarehouseID: "w1"}, "admin")
	suite.Require().NoError(err)
	suite.Equal(domain.DialogBulkApply, res.Interaction.Dialog)

	_, err = suite.service.Confirm(suite.ctx, domain.KindInvoice, dto.ConfirmRequest{Yes: yes()}, "admin")
	suite.Require().NoError(err)

	other := suite.row(domain.KindInvoice, "2")
	suite.Equal(domain.StatusTransfer, other.Status)
	suite.Equal("w1", *other.TransferWarehouseID)
	suite.Empty(other.RemarkAtBilled)

	board, err := suite.service.GetBoard(suite.ctx, domain.KindInvoice)
	suite.Require().NoError(err)
	suite.Empty(board.Selected)
}

func (suite *TrackingServiceTestSuite) TestDeliveryOrderAttachesOriginalInvoice() {
	suite.seed(domain.KindDeliveryOrder, domain.Document{ID: "do1", DocumentNo: "DO-1", Status: domain.StatusBilled})
	suite.seed(domain.KindInvoice, domain.Document{ID: "inv1", DocumentNo: "INV-1", Status: domain.StatusBilled})
	suite.refs.On("FindEmployee", mock.Anything, "s1").Return(&domain.Employee{ID: "s1", Name: "Ali", Position: domain.PositionSalesman}, nil)
	suite.docs.On("Update", mock.Anything, domain.KindDeliveryOrder, "do1", mock.Anything, "admin").Return(&domain.Document{}, nil)
	suite.docs.On("Update", mock.Anything, domain.KindInvoice, "inv1", mock.Anything, "admin").Return(&domain.Document{}, nil).Once()

	_, err := suite.service.RequestTransition(suite.ctx, domain.KindDeliveryOrder, "do1", dto.TransitionRequest{Status: string(domain.StatusDeliveryInProgress)}, "admin")
	suite.Require().NoError(err)
	_, err = suite.service.Select(suite.ctx, domain.KindDeliveryOrder, dto.SelectRequest{Mode: "Salesman"}, "admin")
	suite.Require().NoError(err)
	_, err = suite.service.Select(suite.ctx, domain.KindDeliveryOrder, dto.SelectRequest{EmployeeID: "s1"}, "admin")
	suite.Require().NoError(err)
	res, err := suite.service.Select(suite.ctx, domain.KindDeliveryOrder, dto.SelectRequest{Date: "20/06/2025"}, "admin")
	suite.Require().NoError(err)
	suite.Equal(domain.SelectAttachment, res.Interaction.Selection)

	res, err = suite.service.Select(suite.ctx, domain.KindDeliveryOrder, dto.SelectRequest{Attachment: "original", InvoiceID: "inv1"}, "admin")
	suite.Require().NoError(err)
	suite.Require().Len(res.Documents, 1)
	suite.Equal(domain.KindInvoice, res.Documents[0].Kind)

	inv := suite.row(domain.KindInvoice, "inv1")
	suite.Equal(domain.StatusDeliveryInProgress, inv.Status)
	suite.Equal("s1", *inv.AssignedSalesmanID)
	suite.Equal("2025-06-20", inv.DeliveryDate)

	suite.drain()
	suite.docs.AssertExpectations(suite.T())
}

func TestTrackingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TrackingServiceTestSuite))
}
