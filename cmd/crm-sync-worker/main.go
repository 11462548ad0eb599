package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/enervue/crm-sync-worker/internal/config"
	"github.com/enervue/crm-sync-worker/internal/crm"
	"github.com/enervue/crm-sync-worker/internal/database"
	"github.com/enervue/crm-sync-worker/internal/mapper"
	"github.com/enervue/crm-sync-worker/internal/queue"
	"github.com/enervue/crm-sync-worker/internal/repository"
	"github.com/enervue/crm-sync-worker/internal/service"
	"github.com/enervue/crm-sync-worker/internal/watcher"
)

const jobQueueBuffer = 256

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close(db)

	log.Println("Database connected successfully")

	// Run migrations
	log.Println("Running database migrations...")
	if err := database.RunMigrations(db); err != nil {
		return err
	}
	log.Println("Migrations completed successfully")

	// Initialize repositories
	orgRepo := repository.NewOrganizationRepository(db)
	userRepo := repository.NewUserRepository(db)
	buildingRepo := repository.NewBuildingRepository(db)
	equipmentRepo := repository.NewEquipmentRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	measureRepo := repository.NewMeasureRepository(db)
	correlationRepo := repository.NewCorrelationRepository(db)

	// Initialize CRM session broker and per-entity upsert clients
	requestTimeout := time.Duration(cfg.RequestTimeout) * time.Second
	broker, err := crm.NewSessionBroker(cfg.CRMClientID, cfg.CRMPrivateKey, cfg.CRMDefaultAudience, requestTimeout)
	if err != nil {
		return err
	}

	upserters := service.Upserters{
		Organization: crm.NewRecordUpserter("Account", "Org_ID__c", requestTimeout),
		User:         crm.NewRecordUpserter("Contact", "User_ID__c", requestTimeout),
		Building:     crm.NewRecordUpserter("Building__c", "Building_ID__c", requestTimeout),
		Project:      crm.NewRecordUpserter("Project__c", "Project_ID__c", requestTimeout),
		Measure:      crm.NewRecordUpserter("Measure__c", "Measure_ID__c", requestTimeout),
		Equipment:    crm.NewRecordUpserter("Equipment__c", "Equipment_ID__c", requestTimeout),
	}
	mappers := service.Mappers{
		Organization: mapper.OrganizationMapper{},
		User:         mapper.UserMapper{},
		Building:     mapper.BuildingMapper{},
		Project:      mapper.ProjectMapper{},
		Measure:      mapper.MeasureMapper{},
		Equipment:    mapper.EquipmentMapper{},
	}

	// Initialize sync engine
	pipeline := service.NewPipeline(broker, correlationRepo)
	orchestrator := service.NewOrchestrator(pipeline, buildingRepo, userRepo, equipmentRepo, projectRepo, measureRepo, upserters, mappers)

	// Initialize job queue and scheduled-sync watcher
	jobs := queue.New(jobQueueBuffer)
	jobLifetime := time.Duration(cfg.QueueTimeout) * time.Minute
	w := watcher.New(time.Duration(cfg.SyncInterval)*time.Minute, jobLifetime, orgRepo, orchestrator, jobs)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start queue worker and watcher in goroutines
	errChan := make(chan error, 2)
	go func() {
		errChan <- jobs.Start(ctx)
	}()
	go func() {
		errChan <- w.Start(ctx)
	}()

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Println("Shutdown signal received")
		cancel()

		// Wait for graceful shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
		defer shutdownCancel()

		select {
		case <-shutdownCtx.Done():
			log.Println("Shutdown timeout exceeded")
		case err := <-errChan:
			if err != nil && err != context.Canceled {
				log.Printf("Worker error: %v", err)
			}
		}

		log.Println("Application stopped")
		return nil

	case err := <-errChan:
		return err
	}
}
