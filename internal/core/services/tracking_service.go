package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/SscSPs/etracking_app/internal/apperrors"
	"github.com/SscSPs/etracking_app/internal/core/domain"
	portsrepo "github.com/SscSPs/etracking_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/etracking_app/internal/core/ports/services"
	"github.com/SscSPs/etracking_app/internal/core/workflow"
	"github.com/SscSPs/etracking_app/internal/dto"
	mapset "github.com/deckarep/golang-set/v2"
)

// board is the in-memory state of one collection: its rows in creation
// order and the session the operator is working in.
type board struct {
	mu       sync.Mutex
	kind     domain.DocumentKind
	engine   *workflow.Engine
	loaded   bool
	rows     []domain.Document
	in       domain.Interaction
	selected mapset.Set[string]
	testMode bool
	// renamed maps draft ids to store ids so stale client ids keep working.
	renamed map[string]string
	queue   *persistQueue
}

func (b *board) find(id string) (int, bool) {
	if storeID, ok := b.renamed[id]; ok {
		id = storeID
	}
	i := slices.IndexFunc(b.rows, func(d domain.Document) bool { return d.ID == id })
	return i, i >= 0
}

func (b *board) row(id string) (domain.Document, error) {
	i, ok := b.find(id)
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, b.kind, id)
	}
	return b.rows[i], nil
}

// selection lists the selected rows in board order.
func (b *board) selection() workflow.SelectionContext {
	sc := workflow.SelectionContext{TestMode: b.testMode}
	for _, d := range b.rows {
		if b.selected.Contains(d.ID) {
			sc.Selected = append(sc.Selected, domain.RowRef{ID: d.ID, DocumentNo: d.DocumentNo})
		}
	}
	return sc
}

func (b *board) snapshotLocked() *domain.BoardSnapshot {
	return &domain.BoardSnapshot{
		Kind:        b.kind,
		Documents:   slices.Clone(b.rows),
		Interaction: b.in,
		Selected:    selectedIDs(b.selection()),
		TestMode:    b.testMode,
	}
}

func selectedIDs(sc workflow.SelectionContext) []string {
	ids := make([]string, len(sc.Selected))
	for i, ref := range sc.Selected {
		ids[i] = ref.ID
	}
	return ids
}

// snapshot returns the current copy of a row for the persistence worker.
func (b *board) snapshot(id string) (domain.Document, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i, ok := b.find(id)
	if !ok {
		return domain.Document{}, false
	}
	return b.rows[i], true
}

// rekey replaces a draft id with the id the store assigned.
func (b *board) rekey(draftID, storeID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.rows {
		if b.rows[i].ID == draftID {
			b.rows[i].ID = storeID
		}
	}
	if b.selected.Contains(draftID) {
		b.selected.Remove(draftID)
		b.selected.Add(storeID)
	}
	b.in = b.in.Rekey(draftID, storeID)
	b.renamed[draftID] = storeID
}

// trackingService owns one board per document kind and applies engine
// steps to them. Every write lands in memory first and is then persisted in
// the background by the board's worker.
type trackingService struct {
	BaseService
	repo           portsrepo.DocumentRepositoryFacade
	reference      portssvc.ReferenceReaderSvc
	boards         map[domain.DocumentKind]*board
	logger         *slog.Logger
	persistTimeout time.Duration
	keruingName    string
	now            func() time.Time
	workers        sync.WaitGroup
}

// TrackingOption configures the tracking service.
type TrackingOption func(*trackingService)

// WithKeruingWarehouse sets the warehouse name that skips the hold type question.
func WithKeruingWarehouse(name string) TrackingOption {
	return func(s *trackingService) {
		if name != "" {
			s.keruingName = name
		}
	}
}

// WithPersistTimeout bounds each background store call.
func WithPersistTimeout(d time.Duration) TrackingOption {
	return func(s *trackingService) {
		if d > 0 {
			s.persistTimeout = d
		}
	}
}

// WithTrackingClock replaces the clock used for dates and audit fields.
func WithTrackingClock(now func() time.Time) TrackingOption {
	return func(s *trackingService) {
		s.now = now
	}
}

// WithWorkerLogger sets the logger used by the background persistence workers.
func WithWorkerLogger(logger *slog.Logger) TrackingOption {
	return func(s *trackingService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewTrackingService creates the tracking shell and starts one persistence
// worker per document kind. Call Close to drain them.
func NewTrackingService(repo portsrepo.DocumentRepositoryFacade, reference portssvc.ReferenceReaderSvc, opts ...TrackingOption) portssvc.TrackingSvcFacade {
	s := &trackingService{
		repo:           repo,
		reference:      reference,
		boards:         make(map[domain.DocumentKind]*board, len(domain.AllKinds)),
		logger:         slog.Default(),
		persistTimeout: 10 * time.Second,
		keruingName:    workflow.DefaultKeruingName,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, kind := range domain.AllKinds {
		dt, _ := domain.TypeOf(kind)
		b := &board{
			kind:     kind,
			engine:   workflow.NewEngine(dt, workflow.WithKeruingName(s.keruingName), workflow.WithClock(s.now)),
			in:       domain.NoInteraction(),
			selected: mapset.NewSet[string](),
			renamed:  make(map[string]string),
			queue:    newPersistQueue(),
		}
		s.boards[kind] = b
		s.workers.Add(1)
		go s.runWorker(b)
	}
	return s
}

// Close stops accepting writes and waits for the queues to drain.
func (s *trackingService) Close(ctx context.Context) error {
	for _, b := range s.boards {
		b.queue.close()
	}
	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("persistence queues not drained: %w", ctx.Err())
	}
}

// locked runs fn with the board for kind locked and loaded.
func (s *trackingService) locked(ctx context.Context, kind domain.DocumentKind, fn func(b *board) error) error {
	b, ok := s.boards[kind]
	if !ok {
		return fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, kind)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := s.load(ctx, b); err != nil {
		return err
	}
	return fn(b)
}

// load fetches a collection on first use.
func (s *trackingService) load(ctx context.Context, b *board) error {
	if b.loaded {
		return nil
	}
	docs, err := s.repo.FetchAll(ctx, b.kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to load documents", slog.String("kind", string(b.kind)))
		return fmt.Errorf("failed to load %s documents: %w", b.kind, err)
	}
	b.rows = docs
	b.loaded = true
	s.LogDebug(ctx, "Loaded documents", slog.String("kind", string(b.kind)), slog.Int("count", len(docs)))
	return nil
}

// touched records which rows a step changed, in first-write order.
type touched struct {
	kind domain.DocumentKind
	id   string
}

// apply performs a step on b, whose lock the caller holds. Writes aimed at
// another collection lock that board for the duration of the write.
func (s *trackingService) apply(ctx context.Context, b *board, st workflow.Step, actor string) (*domain.StepResult, error) {
	res := &domain.StepResult{Outcome: st.Outcome, Interaction: st.Interaction}
	now := s.now().UTC()
	var changed []touched

	for _, w := range st.Writes {
		target := b
		if w.Kind != "" && w.Kind != b.kind {
			other, ok := s.boards[w.Kind]
			if !ok {
				return nil, fmt.Errorf("%w: unknown document kind %q", apperrors.ErrValidation, w.Kind)
			}
			other.mu.Lock()
			if err := s.load(ctx, other); err != nil {
				other.mu.Unlock()
				return nil, err
			}
			target = other
		}

		job, id, ok := s.applyWrite(ctx, target, w, actor, now)
		if ok {
			if w.Op == workflow.WriteDelete {
				res.Deleted = append(res.Deleted, id)
			} else if !slices.Contains(changed, touched{target.kind, id}) {
				changed = append(changed, touched{target.kind, id})
			}
			if !target.queue.push(job) {
				s.GetLogger(ctx).Warn("Persistence stopped, write kept in memory only",
					slog.String("kind", string(target.kind)), slog.String("document_id", id))
			}
		}

		if target != b {
			target.mu.Unlock()
		}
	}

	b.in = st.Interaction
	if st.ClearSelection {
		b.selected.Clear()
	}

	for _, t := range changed {
		target := s.boards[t.kind]
		if target != b {
			target.mu.Lock()
		}
		if i, ok := target.find(t.id); ok {
			res.Documents = append(res.Documents, target.rows[i])
		}
		if target != b {
			target.mu.Unlock()
		}
	}
	return res, nil
}

// applyWrite changes target's rows and returns the job to persist.
func (s *trackingService) applyWrite(ctx context.Context, target *board, w workflow.Write, actor string, now time.Time) (persistJob, string, bool) {
	job := persistJob{op: w.Op, rowID: w.RowID, patch: w.Patch, actor: actor}

	switch w.Op {
	case workflow.WriteInsert:
		doc := *w.Document
		doc.Kind = target.kind
		doc.StampCreated(actor, now)
		target.rows = append(target.rows, doc)
		job.doc = &doc
		return job, doc.ID, true

	case workflow.WriteUpdate:
		i, ok := target.find(w.RowID)
		if !ok {
			s.GetLogger(ctx).Warn("Dropping write for missing row",
				slog.String("kind", string(target.kind)), slog.String("document_id", w.RowID))
			return job, "", false
		}
		updated := w.Patch.Apply(target.rows[i])
		updated.StampUpdated(actor, now)
		target.rows[i] = updated
		job.rowID = updated.ID
		return job, updated.ID, true

	case workflow.WriteDelete:
		i, ok := target.find(w.RowID)
		if !ok {
			return job, "", false
		}
		id := target.rows[i].ID
		target.rows = slices.Delete(target.rows, i, i+1)
		target.selected.Remove(id)
		job.rowID = id
		return job, id, true
	}
	return job, "", false
}

// idle rejects new flows while a dialog is open.
func idle(b *board) error {
	if b.in.IsOpen() {
		return fmt.Errorf("%w: answer the open %s dialog first", apperrors.ErrInteractionPending, b.in.State)
	}
	return nil
}

// rowAction runs a single-row engine call on an idle board.
func (s *trackingService) rowAction(ctx context.Context, kind domain.DocumentKind, id, actor string,
	call func(b *board, row domain.Document) (workflow.Step, error)) (*domain.StepResult, error) {
	var res *domain.StepResult
	err := s.locked(ctx, kind, func(b *board) error {
		if err := idle(b); err != nil {
			return err
		}
		row, err := b.row(id)
		if err != nil {
			return err
		}
		st, err := call(b, row)
		if err != nil {
			return err
		}
		res, err = s.apply(ctx, b, st, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// dialogAction resolves the open dialog of a board.
func (s *trackingService) dialogAction(ctx context.Context, kind domain.DocumentKind, actor string,
	call func(b *board, row domain.Document) (workflow.Step, error)) (*domain.StepResult, error) {
	var res *domain.StepResult
	err := s.locked(ctx, kind, func(b *board) error {
		if !b.in.IsOpen() {
			return apperrors.ErrNoInteraction
		}
		row, err := b.row(b.in.RowID())
		if err != nil {
			return err
		}
		st, err := call(b, row)
		if err != nil {
			return err
		}
		res, err = s.apply(ctx, b, st, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *trackingService) GetBoard(ctx context.Context, kind domain.DocumentKind) (*domain.BoardSnapshot, error) {
	var snap *domain.BoardSnapshot
	err := s.locked(ctx, kind, func(b *board) error {
		snap = b.snapshotLocked()
		return nil
	})
	return snap, err
}

func (s *trackingService) GetInteraction(ctx context.Context, kind domain.DocumentKind) (domain.Interaction, error) {
	in := domain.NoInteraction()
	err := s.locked(ctx, kind, func(b *board) error {
		in = b.in
		return nil
	})
	return in, err
}

// RequestTransition evaluates a status change for one row.
func (s *trackingService) RequestTransition(ctx context.Context, kind domain.DocumentKind, id string, req dto.TransitionRequest, actor string) (*domain.StepResult, error) {
	res, err := s.rowAction(ctx, kind, id, actor, func(b *board, row domain.Document) (workflow.Step, error) {
		return b.engine.RequestTransition(row, domain.Status(req.Status), b.selection()), nil
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Status change requested",
		slog.String("kind", string(kind)),
		slog.String("document_id", id),
		slog.String("status", req.Status),
		slog.String("outcome", string(res.Outcome.Kind)))
	return res, nil
}

func (s *trackingService) Confirm(ctx context.Context, kind domain.DocumentKind, req dto.ConfirmRequest, actor string) (*domain.StepResult, error) {
	yes := req.Yes != nil && *req.Yes
	return s.dialogAction(ctx, kind, actor, func(b *board, row domain.Document) (workflow.Step, error) {
		return b.engine.Confirm(b.in, row, yes)
	})
}

func (s *trackingService) Select(ctx context.Context, kind domain.DocumentKind, req dto.SelectRequest, actor string) (*domain.StepResult, error) {
	return s.dialogAction(ctx, kind, actor, func(b *board, row domain.Document) (workflow.Step, error) {
		choice, err := s.choiceFor(ctx, b, req)
		if err != nil {
			return workflow.Step{}, err
		}
		return b.engine.Select(b.in, row, choice)
	})
}

func (s *trackingService) Cancel(ctx context.Context, kind domain.DocumentKind, actor string) (*domain.StepResult, error) {
	return s.dialogAction(ctx, kind, actor, func(b *board, row domain.Document) (workflow.Step, error) {
		return b.engine.Cancel(b.in, row)
	})
}

// choiceFor resolves the ids in a selection answer. b is locked by the caller.
func (s *trackingService) choiceFor(ctx context.Context, b *board, req dto.SelectRequest) (workflow.Choice, error) {
	c := workflow.Choice{
		Mode:       workflow.DeliveryMode(req.Mode),
		HoldType:   req.HoldType,
		Date:       req.Date,
		Slot:       req.Slot,
		Attachment: workflow.AttachmentMode(req.Attachment),
	}
	if req.Discrepancy != nil {
		c.Discrepancy = domain.Discrepancy{Title: req.Discrepancy.Title, Description: req.Discrepancy.Description}
	}
	if req.EmployeeID != "" {
		emp, err := s.reference.FindEmployee(ctx, req.EmployeeID)
		if err != nil {
			return c, err
		}
		c.Employee = emp
	}
	if req.WarehouseID != "" {
		w, err := s.reference.FindWarehouse(ctx, req.WarehouseID)
		if err != nil {
			return c, err
		}
		c.Warehouse = w
	}
	if req.InvoiceID != "" {
		inv, err := s.invoice(ctx, b, req.InvoiceID)
		if err != nil {
			return c, err
		}
		c.Invoice = &inv
	}
	return c, nil
}

func (s *trackingService) invoice(ctx context.Context, from *board, id string) (domain.Document, error) {
	if from.kind == domain.KindInvoice {
		return from.row(id)
	}
	var inv domain.Document
	err := s.locked(ctx, domain.KindInvoice, func(b *board) error {
		var err error
		inv, err = b.row(id)
		return err
	})
	return inv, err
}

// CreateDocuments plans the creation of typed entries. Conflicts with
// existing numbers open the overwrite dialog.
func (s *trackingService) CreateDocuments(ctx context.Context, kind domain.DocumentKind, req dto.CreateDocumentsRequest, actor string) (*domain.StepResult, error) {
	var res *domain.StepResult
	err := s.locked(ctx, kind, func(b *board) error {
		if err := idle(b); err != nil {
			return err
		}
		st, err := b.engine.PlanCreation(b.rows, req.Entries, req.ApplyDateToAll)
		if err != nil {
			return err
		}
		res, err = s.apply(ctx, b, st, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Documents created",
		slog.String("kind", string(kind)),
		slog.Int("entries", len(req.Entries)),
		slog.String("outcome", string(res.Outcome.Kind)))
	return res, nil
}

func (s *trackingService) DeleteDocument(ctx context.Context, kind domain.DocumentKind, id string, actor string) (*domain.StepResult, error) {
	return s.rowAction(ctx, kind, id, actor, func(b *board, row domain.Document) (workflow.Step, error) {
		return b.engine.Delete(row, b.selection()), nil
	})
}

func (s *trackingService) EditRemark(ctx context.Context, kind domain.DocumentKind, id string, req dto.RemarkRequest, actor string) (*domain.StepResult, error) {
	return s.rowAction(ctx, kind, id, actor, func(b *board, row domain.Document) (workflow.Step, error) {
		return b.engine.EditRemark(row, req.Remark, b.selection()), nil
	})
}

func (s *trackingService) ToggleDiscrepancy(ctx context.Context, kind domain.DocumentKind, id string, req dto.DiscrepancyToggleRequest, actor string) (*domain.StepResult, error) {
	checked := req.Checked != nil && *req.Checked
	return s.rowAction(ctx, kind, id, actor, func(b *board, row domain.Document) (workflow.Step, error) {
		return b.engine.ToggleDiscrepancy(row, checked, b.selection()), nil
	})
}

func (s *trackingService) SetDeliveryDate(ctx context.Context, kind domain.DocumentKind, id string, req dto.DateRequest, actor string) (*domain.StepResult, error) {
	return s.rowAction(ctx, kind, id, actor, func(b *board, row domain.Document) (workflow.Step, error) {
		return b.engine.SetDeliveryDate(row, req.Date, b.selection())
	})
}

func (s *trackingService) SetDocumentDate(ctx context.Context, kind domain.DocumentKind, id string, req dto.DateRequest, actor string) (*domain.StepResult, error) {
	return s.rowAction(ctx, kind, id, actor, func(b *board, row domain.Document) (workflow.Step, error) {
		return b.engine.SetDocumentDate(row, req.Date, b.selection())
	})
}

// SetSelection replaces the selection. Every id must name a row of the board.
func (s *trackingService) SetSelection(ctx context.Context, kind domain.DocumentKind, req dto.SelectionRequest) (*domain.BoardSnapshot, error) {
	var snap *domain.BoardSnapshot
	err := s.locked(ctx, kind, func(b *board) error {
		next := mapset.NewSet[string]()
		var missing []string
		for _, id := range req.IDs {
			i, ok := b.find(id)
			if !ok {
				missing = append(missing, id)
				continue
			}
			next.Add(b.rows[i].ID)
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: unknown %s ids %v", apperrors.ErrNotFound, kind, missing)
		}
		b.selected = next
		snap = b.snapshotLocked()
		return nil
	})
	return snap, err
}

// SetTestMode flips the session flag. It is never persisted.
func (s *trackingService) SetTestMode(ctx context.Context, kind domain.DocumentKind, req dto.TestModeRequest) (*domain.BoardSnapshot, error) {
	var snap *domain.BoardSnapshot
	err := s.locked(ctx, kind, func(b *board) error {
		b.testMode = req.Enabled != nil && *req.Enabled
		snap = b.snapshotLocked()
		return nil
	})
	if err == nil {
		s.LogInfo(ctx, "Test mode changed", slog.String("kind", string(kind)), slog.Bool("enabled", snap.TestMode))
	}
	return snap, err
}
