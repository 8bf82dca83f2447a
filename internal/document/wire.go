package document

import (
	"database/sql"

	"go.uber.org/zap"

	"comptoir/internal/config"
	"comptoir/internal/document/controller"
	"comptoir/internal/document/repository"
	"comptoir/internal/document/service"
	"comptoir/internal/domain"
	"comptoir/internal/storage"
)

// Module bundles one controller per document type; all four share the
// same service and repositories.
type Module struct {
	Invoices      *controller.Controller
	Quotes        *controller.Controller
	CreditNotes   *controller.Controller
	DeliveryNotes *controller.Controller
}

func NewModule(
	db *sql.DB,
	catalogRepo service.CatalogRepository,
	customerRepo service.CustomerRepository,
	customers controller.CustomerGetter,
	renderer controller.Renderer,
	cfg config.DocumentConfig,
	logger *zap.Logger,
) *Module {
	docRepo := repository.NewMySQLDocumentRepository(db)
	itemRepo := repository.NewMySQLItemRepository(db)
	svc := service.NewDocumentService(
		storage.NewSQLTxManager(db),
		docRepo,
		itemRepo,
		catalogRepo,
		customerRepo,
		logger,
		cfg.TxTimeout,
		cfg.MaxRetryAttempts,
	)

	build := func(docType domain.DocType) *controller.Controller {
		return controller.NewController(docType, svc, customers, renderer, logger)
	}
	return &Module{
		Invoices:      build(domain.DocTypeInvoice),
		Quotes:        build(domain.DocTypeQuote),
		CreditNotes:   build(domain.DocTypeCreditNote),
		DeliveryNotes: build(domain.DocTypeDeliveryNote),
	}
}
