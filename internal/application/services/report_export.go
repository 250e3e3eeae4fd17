package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"speedrun_pbs/internal/app"

	"github.com/rs/zerolog/log"
)

// Deployer publishes a local file under a remote name
type Deployer interface {
	DeployFile(localPath, filename string) error
}

// ReportExporter writes reports as JSON and optionally deploys them
type ReportExporter struct {
	deployer Deployer
}

// NewReportExporter creates an exporter; a nil deployer only writes locally
func NewReportExporter(deployer Deployer) *ReportExporter {
	return &ReportExporter{deployer: deployer}
}

// MarshalReport renders the report as indented JSON
func MarshalReport(report *app.Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return data, nil
}

// ExportAndDeploy writes the report to path and, when a deployer is
// configured, uploads it under the same base name
func (e *ReportExporter) ExportAndDeploy(report *app.Report, path string) error {
	data, err := MarshalReport(report)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	log.Info().
		Str("runner", report.Runner.RunnerName).
		Str("filename", path).
		Int("games", report.GameCount).
		Msg("Exported report JSON")

	if e.deployer == nil {
		log.Debug().Msg("No deployer configured - skipping remote deployment")
		return nil
	}

	remoteFilename := filepath.Base(path)
	if err := e.deployer.DeployFile(path, remoteFilename); err != nil {
		return fmt.Errorf("failed to deploy report file: %w", err)
	}

	log.Info().
		Str("local_file", path).
		Str("remote_file", remoteFilename).
		Msg("Deployed report JSON")

	return nil
}
