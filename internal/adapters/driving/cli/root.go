// Package cli implements the filingvec command line.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/filingvec/internal/core/domain"
	"github.com/custodia-labs/filingvec/internal/core/ports/driven"
	"github.com/custodia-labs/filingvec/internal/core/ports/driving"
	"github.com/custodia-labs/filingvec/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// annotationServices tells the root which services a command needs.
const annotationServices = "services"

// Service levels a command can request through its annotations.
const (
	servicesNone     = "none"
	servicesSettings = "settings"
)

// Services bundles everything the commands run against.
type Services struct {
	Index      driving.IndexService
	Ingest     driving.IngestService
	Settings   driving.SettingsService
	Extractors driven.ExtractorRegistry

	// Close releases the store and the embedding service.
	Close func() error
}

// app holds the services for the running command.
var app *Services

// Global flags.
var (
	configDir    string
	storeBackend string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "filingvec",
	Short: "Semantic search over financial filings",
	Long: `filingvec indexes financial filings (PDF, DOCX, HTML, text) into a local
vector store and answers semantic queries against them.

Documents are split into overlapping chunks, embedded, and stored together
with their company and reporting period so searches can be narrowed.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration and data directory (default ~/.filingvec)")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "vector store backend: json, sqlite or memory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline steps to stderr")
}

// SetServices injects prebuilt services. Commands then skip bootstrapping.
func SetServices(s *Services) {
	app = s
}

// Execute runs the root command. Services are closed whether or not the
// command succeeded.
func Execute() error {
	err := rootCmd.Execute()
	return errors.Join(err, closeServices())
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	need := cmd.Annotations[annotationServices]
	if need == servicesNone || app != nil {
		return nil
	}

	if storeBackend != "" && !domain.StoreBackend(storeBackend).IsValid() {
		return fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, storeBackend)
	}

	svc, err := bootstrap(need == servicesSettings)
	if err != nil {
		return err
	}
	app = svc
	return nil
}

func closeServices() error {
	if app == nil || app.Close == nil {
		return nil
	}
	closeFn := app.Close
	app.Close = nil
	return closeFn()
}

// requireIndex returns the index service or an error when it was not built.
func requireIndex() (driving.IndexService, error) {
	if app == nil || app.Index == nil {
		return nil, errors.New("index service not configured")
	}
	return app.Index, nil
}

// requireIngest returns the ingest service or an error when it was not built.
func requireIngest() (driving.IngestService, error) {
	if app == nil || app.Ingest == nil {
		return nil, errors.New("ingest service not configured")
	}
	return app.Ingest, nil
}

// requireSettings returns the settings service or an error when it was not built.
func requireSettings() (driving.SettingsService, error) {
	if app == nil || app.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return app.Settings, nil
}
