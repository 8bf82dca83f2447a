package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"comptoir/internal/catalog"
	"comptoir/internal/customer"
	"comptoir/internal/document"
	documentcontroller "comptoir/internal/document/controller"
	"comptoir/internal/expense"
	"comptoir/internal/httpx"
	"comptoir/internal/personnel"
	"comptoir/internal/supplier"
)

// Controllers groups every module handler the router mounts.
type Controllers struct {
	Catalog   *catalog.Controller
	Customers *customer.Controller
	Suppliers *supplier.Controller
	Personnel *personnel.Controller
	Expenses  *expense.Controller
	Documents *document.Module
}

func NewRouter(ctrl Controllers, uploadsDir string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", ctrl.Catalog.ListProducts)
			r.Post("/", ctrl.Catalog.CreateProduct)
			r.Get("/{id}", ctrl.Catalog.GetProduct)
		})
		r.Route("/services", func(r chi.Router) {
			r.Get("/", ctrl.Catalog.ListServices)
			r.Post("/", ctrl.Catalog.CreateService)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", ctrl.Customers.List)
			r.Post("/", ctrl.Customers.Create)
			r.Get("/{id}", ctrl.Customers.Get)
			r.Put("/{id}", ctrl.Customers.Update)
			r.Delete("/{id}", ctrl.Customers.Delete)
			r.Post("/{id}/attachments", ctrl.Customers.UploadAttachment)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", ctrl.Suppliers.List)
			r.Post("/", ctrl.Suppliers.Create)
			r.Get("/{id}", ctrl.Suppliers.Get)
			r.Put("/{id}", ctrl.Suppliers.Update)
			r.Delete("/{id}", ctrl.Suppliers.Delete)
		})

		r.Route("/personnel", func(r chi.Router) {
			r.Get("/", ctrl.Personnel.List)
			r.Post("/", ctrl.Personnel.Create)
			r.Get("/{id}", ctrl.Personnel.Get)
			r.Put("/{id}", ctrl.Personnel.Update)
			r.Delete("/{id}", ctrl.Personnel.Delete)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", ctrl.Expenses.List)
			r.Post("/", ctrl.Expenses.Create)
			r.Get("/{id}", ctrl.Expenses.Get)
			r.Delete("/{id}", ctrl.Expenses.Delete)
		})

		mountDocuments(r, "/invoices", ctrl.Documents.Invoices)
		mountDocuments(r, "/quotes", ctrl.Documents.Quotes)
		mountDocuments(r, "/credit-notes", ctrl.Documents.CreditNotes)
		mountDocuments(r, "/delivery-notes", ctrl.Documents.DeliveryNotes)
	})

	// Stored attachments are served read-only under their generated names.
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir))))

	return r
}

func mountDocuments(r chi.Router, pattern string, ctrl *documentcontroller.Controller) {
	r.Route(pattern, func(r chi.Router) {
		r.Get("/", ctrl.List)
		r.Post("/", ctrl.Create)
		r.Get("/{id}", ctrl.Get)
		r.Put("/{id}", ctrl.Update)
		r.Patch("/{id}/status", ctrl.UpdateStatus)
		r.Get("/{id}/preview", ctrl.Preview)
	})
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", middleware.GetReqID(r.Context())),
			)
		})
	}
}
