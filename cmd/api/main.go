package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-timekeeping/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-timekeeping/internal/handler/http"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timekeeping/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timekeeping/internal/repository/postgresql"
	leaveService "github.com/cmlabs-hris/hris-timekeeping/internal/service/leave"
	overtimeService "github.com/cmlabs-hris/hris-timekeeping/internal/service/overtime"
	summaryService "github.com/cmlabs-hris/hris-timekeeping/internal/service/summary"
	timeEntryService "github.com/cmlabs-hris/hris-timekeeping/internal/service/timeentry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	loc := cfg.Location()
	multiplier := cfg.OvertimeMultiplier()

	tx := postgresql.NewTransactor(db)
	auditRepo := postgresql.NewAuditRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	complianceChecker := postgresql.NewComplianceChecker(db)
	overtimeRuleRepo := postgresql.NewOvertimeRuleRepository(db)
	overtimeBalanceRepo := postgresql.NewOvertimeBalanceRepository(db)
	overtimeRequestRepo := postgresql.NewOvertimeRequestRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.Skew)

	timeEntrySvc := timeEntryService.NewTimeEntryService(tx, timeEntryRepo, auditRepo, nil, loc)
	ledger := leaveService.NewLedger(tx, leaveBalanceRepo, auditRepo, loc)
	leaveSvc := leaveService.NewLeaveService(
		tx,
		leaveTypeRepo,
		leaveRequestRepo,
		leaveBalanceRepo,
		complianceChecker,
		ledger,
		auditRepo,
		loc,
	)
	overtimeSvc := overtimeService.NewOvertimeService(
		tx,
		overtimeRuleRepo,
		overtimeBalanceRepo,
		overtimeRequestRepo,
		timeEntryRepo,
		auditRepo,
		multiplier,
		loc,
	)
	summarySvc := summaryService.NewSummaryService(timeEntryRepo, leaveBalanceRepo, overtimeBalanceRepo, multiplier, loc)

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		TimeEntry: appHTTP.NewTimeEntryHandler(timeEntrySvc),
		Leave:     appHTTP.NewLeaveHandler(leaveSvc),
		Overtime:  appHTTP.NewOvertimeHandler(overtimeSvc),
		Summary:   appHTTP.NewSummaryHandler(summarySvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", loc.String())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}
