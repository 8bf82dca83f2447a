// Package composer holds the in-progress state of a document being put
// together: catalog selection, line items, tax parameters and the
// submit handshake. Nothing here touches storage; persistence goes
// through the DocumentWriter port.
package composer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"comptoir/internal/domain"
	"comptoir/internal/pricing"
)

type State string

const (
	StateEmpty          State = "empty"
	StateSelecting      State = "selecting"
	StateComposed       State = "composed"
	StatePreviewPending State = "preview_pending"
)

var (
	ErrDuplicateLine     = errors.New("catalog entry already added to the document")
	ErrNoLineItems       = errors.New("at least one product or service is required")
	ErrNoCustomer        = errors.New("a customer must be selected")
	ErrSubmitInFlight    = errors.New("a submission is already in progress")
	ErrQuantityTooLow    = errors.New("quantity must be at least 1")
	ErrQuantityOverStock = errors.New("quantity exceeds available stock")
	ErrNotSelecting      = errors.New("no selection dialog is open")
	ErrNotPreviewing     = errors.New("no preview is pending")
	ErrUnknownEntry      = errors.New("entry is not part of the open selection")
)

// CatalogEntry is a product or service offered in the selection dialog.
// Stock is only meaningful for products.
type CatalogEntry struct {
	Ref   domain.LineRef
	Name  string
	Price decimal.Decimal
	Stock int
}

// LineItem is a confirmed selection with its quantity and snapshotted
// name and price.
type LineItem struct {
	Ref      domain.LineRef
	Name     string
	Price    decimal.Decimal
	Quantity int
	MaxStock int
}

// DocumentWriter persists a composed document. Create is used for new
// documents, Update when the composer was seeded from an existing one.
type DocumentWriter interface {
	Create(ctx context.Context, doc domain.Document, items []domain.DocumentItem) (*domain.Document, error)
	Update(ctx context.Context, doc domain.Document, items []domain.DocumentItem) (*domain.Document, error)
}

type Composer struct {
	mu sync.Mutex

	state    State
	docType  domain.DocType
	editingID int // 0 unless seeded from an existing document

	customerID  int
	date        time.Time
	status      string
	paymentType domain.PaymentType
	params      pricing.Params

	lines   []LineItem
	dialog  map[domain.LineRef]CatalogEntry
	picked  map[domain.LineRef]int // temporary quantities inside the dialog
	inFlight bool

	writer DocumentWriter
	logger *zap.Logger
}

func New(docType domain.DocType, writer DocumentWriter, logger *zap.Logger) *Composer {
	return &Composer{
		state:       StateEmpty,
		docType:     docType,
		date:        time.Now(),
		status:      domain.StatusPending,
		paymentType: domain.PaymentEspece,
		params:      pricing.DefaultParams(),
		writer:      writer,
		logger:      logger,
	}
}

func (c *Composer) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Composer) SetCustomer(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.customerID = id
	if c.state == StateEmpty {
		c.state = StateComposed
	}
}

func (c *Composer) SetDate(d time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.date = d
}

func (c *Composer) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

func (c *Composer) SetPaymentType(p domain.PaymentType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paymentType = p
}

func (c *Composer) SetParams(p pricing.Params) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.params = p
}

// OpenSelector opens the product/service dialog over the given catalog
// entries. Entries already present as lines stay listed but cannot be
// re-selected.
func (c *Composer) OpenSelector(entries []CatalogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StatePreviewPending {
		return ErrNotSelecting
	}
	c.dialog = make(map[domain.LineRef]CatalogEntry, len(entries))
	for _, e := range entries {
		c.dialog[e.Ref] = e
	}
	c.picked = make(map[domain.LineRef]int)
	c.state = StateSelecting
	return nil
}

// Select marks an entry in the open dialog with a starting quantity of 1.
// Selecting an entry that is already a line item is refused, matching
// the disabled checkbox in the form.
func (c *Composer) Select(ref domain.LineRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSelecting {
		return ErrNotSelecting
	}
	if _, ok := c.dialog[ref]; !ok {
		return ErrUnknownEntry
	}
	if c.lineIndex(ref) >= 0 {
		return ErrDuplicateLine
	}
	if _, ok := c.picked[ref]; ok {
		return ErrDuplicateLine
	}
	c.picked[ref] = 1
	return nil
}

func (c *Composer) Deselect(ref domain.LineRef) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSelecting {
		return ErrNotSelecting
	}
	delete(c.picked, ref)
	return nil
}

// SetSelectionQuantity adjusts the temporary quantity of a selected
// entry. Product quantities are capped at available stock.
func (c *Composer) SetSelectionQuantity(ref domain.LineRef, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSelecting {
		return ErrNotSelecting
	}
	entry, ok := c.dialog[ref]
	if !ok {
		return ErrUnknownEntry
	}
	if _, ok := c.picked[ref]; !ok {
		return ErrUnknownEntry
	}
	if qty < 1 {
		return ErrQuantityTooLow
	}
	if ref.Kind == domain.LineProduct && qty > entry.Stock {
		return ErrQuantityOverStock
	}
	c.picked[ref] = qty
	return nil
}

// ConfirmSelection moves the dialog's selections into the line-item
// list and clears the temporary state.
func (c *Composer) ConfirmSelection() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSelecting {
		return ErrNotSelecting
	}
	for ref, qty := range c.picked {
		entry := c.dialog[ref]
		c.lines = append(c.lines, LineItem{
			Ref:      ref,
			Name:     entry.Name,
			Price:    entry.Price,
			Quantity: qty,
			MaxStock: entry.Stock,
		})
	}
	c.dialog = nil
	c.picked = nil
	c.state = StateComposed
	return nil
}

func (c *Composer) CancelSelection() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSelecting {
		return ErrNotSelecting
	}
	c.dialog = nil
	c.picked = nil
	if len(c.lines) == 0 && c.customerID == 0 {
		c.state = StateEmpty
	} else {
		c.state = StateComposed
	}
	return nil
}

func (c *Composer) RemoveLine(ref domain.LineRef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.lineIndex(ref); idx >= 0 {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	}
}

// SetLineQuantity mutates an existing line directly. Used when editing
// a seeded document; product stock caps still apply.
func (c *Composer) SetLineQuantity(ref domain.LineRef, qty int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := c.lineIndex(ref)
	if idx < 0 {
		return ErrUnknownEntry
	}
	if qty < 1 {
		return ErrQuantityTooLow
	}
	line := c.lines[idx]
	if line.Ref.Kind == domain.LineProduct && line.MaxStock > 0 && qty > line.MaxStock {
		return ErrQuantityOverStock
	}
	c.lines[idx].Quantity = qty
	return nil
}

func (c *Composer) Lines() []LineItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]LineItem, len(c.lines))
	copy(out, c.lines)
	return out
}

// Totals recomputes the pricing breakdown from the current lines. The
// caller invokes this after every mutation; the calculator itself has
// no state to go stale.
func (c *Composer) Totals() (pricing.Breakdown, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pricing.Compute(c.items(), c.params)
}

// RequestPreview checks the document is submittable and moves to the
// preview step. No network call happens until Submit.
func (c *Composer) RequestPreview() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateComposed {
		return ErrNotPreviewing
	}
	if len(c.lines) == 0 {
		return ErrNoLineItems
	}
	if c.customerID == 0 {
		return ErrNoCustomer
	}
	c.state = StatePreviewPending
	return nil
}

func (c *Composer) CancelPreview() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePreviewPending {
		return ErrNotPreviewing
	}
	c.state = StateComposed
	return nil
}

// Snapshot returns the header and items as they would be persisted.
func (c *Composer) Snapshot() (domain.Document, []domain.DocumentItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Composer) snapshotLocked() (domain.Document, []domain.DocumentItem, error) {
	items := c.items()
	breakdown, err := pricing.Compute(items, c.params)
	if err != nil {
		return domain.Document{}, nil, err
	}
	doc := domain.Document{
		ID:              c.editingID,
		Type:            c.docType,
		CustomerID:      c.customerID,
		Date:            c.date,
		Status:          c.status,
		PaymentType:     c.paymentType,
		Subtotal:        breakdown.Subtotal,
		DiscountPercent: c.params.DiscountPercent,
		DiscountAmount:  breakdown.DiscountAmount,
		UseVAT:          c.params.UseVAT,
		VATRate:         c.params.VATRate,
		VATAmount:       breakdown.VATAmount,
		StampDuty:       breakdown.StampDuty,
		Total:           breakdown.Total,
	}
	return doc, items, nil
}

// Submit persists the composed document through the writer. Only one
// submission may be in flight at a time; further calls fail fast until
// the first one returns. On success the composer resets to empty; on
// any failure the composed state survives so nothing is lost.
func (c *Composer) Submit(ctx context.Context) (*domain.Document, error) {
	c.mu.Lock()
	if c.state != StatePreviewPending {
		c.mu.Unlock()
		return nil, ErrNotPreviewing
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	doc, items, err := c.snapshotLocked()
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.inFlight = true
	editing := c.editingID > 0
	c.mu.Unlock()

	var created *domain.Document
	if editing {
		created, err = c.writer.Update(ctx, doc, items)
	} else {
		created, err = c.writer.Create(ctx, doc, items)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	if err != nil {
		c.logger.Warn("document submission failed",
			zap.String("docType", string(c.docType)), zap.Error(err))
		return nil, err
	}

	c.logger.Info("document submitted",
		zap.String("docType", string(c.docType)), zap.Int("documentId", created.ID))
	c.reset()
	return created, nil
}

// Load seeds the composer from an existing document for editing. Submit
// then routes to Update instead of Create.
func (c *Composer) Load(doc domain.Document, items []domain.DocumentItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editingID = doc.ID
	c.docType = doc.Type
	c.customerID = doc.CustomerID
	c.date = doc.Date
	c.status = doc.Status
	c.paymentType = doc.PaymentType
	c.params = pricing.Params{
		UseVAT:          doc.UseVAT,
		VATRate:         doc.VATRate,
		DiscountPercent: doc.DiscountPercent,
		StampDuty:       doc.StampDuty,
	}
	c.lines = c.lines[:0]
	for _, item := range items {
		c.lines = append(c.lines, LineItem{
			Ref:      item.Ref,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	c.state = StateComposed
}

func (c *Composer) reset() {
	c.state = StateEmpty
	c.editingID = 0
	c.customerID = 0
	c.date = time.Now()
	c.status = domain.StatusPending
	c.paymentType = domain.PaymentEspece
	c.params = pricing.DefaultParams()
	c.lines = nil
	c.dialog = nil
	c.picked = nil
}

func (c *Composer) lineIndex(ref domain.LineRef) int {
	for i, line := range c.lines {
		if line.Ref == ref {
			return i
		}
	}
	return -1
}

func (c *Composer) items() []domain.DocumentItem {
	items := make([]domain.DocumentItem, 0, len(c.lines))
	for _, line := range c.lines {
		items = append(items, domain.DocumentItem{
			Ref:      line.Ref,
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}
	return items
}
