package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"speedrun_pbs/internal/app"
	"speedrun_pbs/internal/application/services"
	"speedrun_pbs/internal/deployment"
	"speedrun_pbs/internal/httpapi"
	"speedrun_pbs/internal/processing"
	"speedrun_pbs/internal/sheets"
	"speedrun_pbs/internal/speedrun"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app.SetupEnvironment()

	// Parse command line flags
	user := flag.String("user", "", "Runner name to look up")
	withHistory := flag.Bool("history", false, "Expand run history for every personal best")
	jsonPath := flag.String("json", "", "Write the report as JSON to this path (deployed when deploy_url is set)")
	toSheets := flag.Bool("sheets", false, "Export the report to the configured Google spreadsheet")
	serve := flag.Bool("serve", false, "Serve the HTTP API instead of running a single lookup")
	flag.Parse()

	config, err := app.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize clients
	speedrunClient := speedrun.NewClient(config.Fetch())
	tracker := processing.NewAPICallTracker()
	cachedClient := processing.NewCachedSpeedrunClient(speedrunClient, tracker, config.HistoryCacheTTL)
	service := processing.NewPersonalBestService(cachedClient, config.HistoryConcurrency)

	if *serve {
		runServer(ctx, config, service)
		logSessionSummary(ctx, tracker, cachedClient)
		return
	}

	if *user == "" {
		log.Fatal().Msg("Either -user or -serve is required")
	}

	log.Info().
		Str("user", *user).
		Bool("history", *withHistory).
		Msg("Looking up personal bests")

	report, err := service.Search(ctx, *user)
	if err != nil {
		log.Fatal().Err(err).Str("user", *user).Msg("Failed to build report")
	}

	if *withHistory {
		log.Info().
			Int64("max_history_calls", processing.PredictHistoryCalls(report)).
			Msg("Expanding run history")
		if err := service.ExpandAll(ctx, report); err != nil {
			log.Fatal().Err(err).Msg("Failed to expand run history")
		}
	}

	if err := services.WriteReportText(os.Stdout, report); err != nil {
		log.Error().Err(err).Msg("Failed to print report")
	}

	if *jsonPath != "" {
		var deployer services.Deployer
		if config.DeployURL != "" {
			sshDeployer := deployment.NewSSHDeployer(config.DeployURL, config.DeployKeyPath)
			defer sshDeployer.Disconnect()
			deployer = sshDeployer
		}
		if err := services.NewReportExporter(deployer).ExportAndDeploy(report, *jsonPath); err != nil {
			log.Error().Err(err).Msg("Failed to export report JSON")
		}
	}

	if *toSheets {
		exportToSheets(ctx, config, report)
	}

	log.Info().
		Int64("api_calls", speedrunClient.GetAPICallCount()).
		Msg("Completed personal-best lookup")
	logSessionSummary(ctx, tracker, cachedClient)
}

// logSessionSummary logs API usage and the state of the history cache
func logSessionSummary(ctx context.Context, tracker *processing.APICallTracker, cachedClient *processing.CachedSpeedrunClient) {
	tracker.LogSessionSummary(ctx)

	stats := cachedClient.GetCacheStats()
	log.Info().
		Int("valid_entries", stats.ValidEntries).
		Int("expired_entries", stats.ExpiredEntries).
		Msg("Run history cache summary")
}

// runServer serves the HTTP API until ctx is cancelled
func runServer(ctx context.Context, config *app.Config, service *processing.PersonalBestService) {
	server := httpapi.NewServer(config.ListenAddr, service)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown failed")
		}
	}
}

// exportToSheets writes the report to the configured spreadsheet
func exportToSheets(ctx context.Context, config *app.Config, report *app.Report) {
	if config.SpreadsheetID == "" {
		log.Error().Msg("spreadsheet_id is not configured - skipping Google Sheets export")
		return
	}

	sheetsClient, err := sheets.NewClient(ctx, config.CredentialsFile)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create sheets client")
		return
	}

	manager := sheets.NewPersonalBestSheetManager(sheetsClient)
	if err := manager.WriteReport(ctx, config.SpreadsheetID, report); err != nil {
		log.Error().Err(err).Msg("Failed to export report to Google Sheets")
	}
}
