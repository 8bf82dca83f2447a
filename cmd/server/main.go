package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"comptoir/internal/catalog"
	"comptoir/internal/commons"
	"comptoir/internal/config"
	"comptoir/internal/customer"
	"comptoir/internal/document"
	"comptoir/internal/expense"
	"comptoir/internal/infrastructure/logger"
	"comptoir/internal/infrastructure/mysql"
	"comptoir/internal/personnel"
	"comptoir/internal/preview"
	"comptoir/internal/server"
	"comptoir/internal/supplier"
	"comptoir/internal/upload"
)

func main() {
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if err := mysql.EnsureSchema(context.Background(), db); err != nil {
		zapLogger.Fatal("preparing schema", zap.Error(err))
	}

	uploads, err := upload.NewStore(cfg.Uploads.Dir)
	if err != nil {
		zapLogger.Fatal("preparing uploads directory", zap.Error(err))
	}

	catalogCtrl, catalogRepo := catalog.NewModule(db, zapLogger)
	customerCtrl, customerRepo := customer.NewModule(db, uploads, zapLogger)

	renderer := preview.NewHTMLRenderer(preview.Issuer{
		Name:         cfg.Company.Name,
		Address:      cfg.Company.Address,
		Phone:        cfg.Company.Phone,
		Email:        cfg.Company.Email,
		FiscalNumber: cfg.Company.FiscalNumber,
		BankName:     cfg.Company.BankName,
		BankRIB:      cfg.Company.BankRIB,
	})

	documents := document.NewModule(db, catalogRepo, customerRepo, customerRepo, renderer, cfg.Document, zapLogger)

	router := server.NewRouter(server.Controllers{
		Catalog:   catalogCtrl,
		Customers: customerCtrl,
		Suppliers: supplier.NewModule(db, zapLogger),
		Personnel: personnel.NewModule(db, zapLogger),
		Expenses:  expense.NewModule(db, uploads, zapLogger),
		Documents: documents,
	}, cfg.Uploads.Dir, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return commons.LoadConfig(path)
	}
	return config.Load()
}
