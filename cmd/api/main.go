package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pontocerto/ponto-backend-go/internal/config"
	appHTTP "github.com/pontocerto/ponto-backend-go/internal/handler/http"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/database"
	"github.com/pontocerto/ponto-backend-go/internal/pkg/jwt"
	"github.com/pontocerto/ponto-backend-go/internal/repository/postgresql"
	punchService "github.com/pontocerto/ponto-backend-go/internal/service/punch"
	reportService "github.com/pontocerto/ponto-backend-go/internal/service/report"
	timesheetService "github.com/pontocerto/ponto-backend-go/internal/service/timesheet"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	if err := database.Migrate(context.Background(), dsn); err != nil {
		fmt.Println("Error running migrations:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(dsn, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	punchRepo := postgresql.NewPunchRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	siteRepo := postgresql.NewSiteRepository(db)
	submitSerializer := postgresql.NewSubmitSerializer(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	punchSvc := punchService.NewPunchService(punchRepo, employeeRepo, siteRepo, submitSerializer, cfg.Punch)
	timesheetSvc := timesheetService.NewTimesheetService(punchRepo, employeeRepo, siteRepo, cfg.Punch)
	reportSvc := reportService.NewReportService(timesheetSvc, employeeRepo, siteRepo)

	punchHandler := appHTTP.NewPunchHandler(punchSvc)
	timesheetHandler := appHTTP.NewTimesheetHandler(timesheetSvc, reportSvc)

	router := appHTTP.NewRouter(
		JWTService,
		punchHandler,
		timesheetHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
