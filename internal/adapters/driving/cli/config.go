package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/filingvec/internal/adapters/driven/embedding"
	"github.com/custodia-labs/filingvec/internal/core/domain"
)

var settingsOnly = map[string]string{
	annotationServices: servicesSettings,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change filingvec settings stored in config.toml.

Keys:
  chunking.size, chunking.overlap
  embedding.provider (local, huggingface, openai, ollama)
  embedding.model, embedding.base_url, embedding.api_key
  embedding.dimensions, embedding.requests_per_second
  store.backend (json, sqlite, memory), store.path
  search.top_k`,
	Annotations: settingsOnly,
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Args:        cobra.NoArgs,
	Annotations: settingsOnly,
	RunE:        runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a single setting",
	Long: `Set a single setting and save the config file.

Changing embedding.provider also resets the model and dimensions to the
provider's defaults.`,
	Args:        cobra.ExactArgs(2),
	Annotations: settingsOnly,
	RunE:        runConfigSet,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [PROVIDER]",
	Short: "Store the API key for an embedding provider",
	Long: `Prompts for an API key without echoing it. When stdin is not a terminal
the key is read from its first line.

Without PROVIDER the key is stored for the configured provider. With PROVIDER
the embedding provider is switched as well, using its default model.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: settingsOnly,
	RunE:        runConfigSetKey,
}

var configCheckCmd = &cobra.Command{
	Use:         "check",
	Short:       "Validate settings and ping the embedding service",
	Args:        cobra.NoArgs,
	Annotations: settingsOnly,
	RunE:        runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settingsService, err := requireSettings()
	if err != nil {
		return err
	}

	values, err := settingsService.Display()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	for _, key := range settingsService.Keys() {
		value := values[key]
		if value == "" {
			value = "(not set)"
		}
		cmd.Printf("%-34s %s\n", key, value)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'filingvec config set-key' or 'filingvec config set' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	settingsService, err := requireSettings()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	if key == "embedding.provider" {
		provider := domain.EmbeddingProvider(value)
		if err := settingsService.SetEmbeddingProvider(provider, "", ""); err != nil {
			if provider.RequiresAPIKey() {
				return fmt.Errorf("%w (use 'filingvec config set-key %s')", err, provider)
			}
			return err
		}
		cmd.Printf("Embedding provider set to %s\n", provider.Description())
		return nil
	}

	if err := settingsService.Set(key, value); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", key, value)
	return nil
}

func runConfigSetKey(cmd *cobra.Command, args []string) error {
	settingsService, err := requireSettings()
	if err != nil {
		return err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	provider := settings.Embedding.Provider
	if len(args) == 1 {
		provider = domain.EmbeddingProvider(args[0])
		if !provider.IsValid() {
			return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, args[0])
		}
	}
	if !provider.RequiresAPIKey() {
		cmd.Printf("%s does not need an API key.\n", provider.Description())
		return nil
	}

	cmd.Printf("API key for %s: ", provider.Description())
	key, err := readSecret(cmd.InOrStdin())
	cmd.Println()
	if err != nil {
		return fmt.Errorf("reading API key: %w", err)
	}
	if key == "" {
		return fmt.Errorf("%w: API key is empty", domain.ErrInvalidInput)
	}

	if provider != settings.Embedding.Provider {
		err = settingsService.SetEmbeddingProvider(provider, "", key)
	} else {
		err = settingsService.Set("embedding.api_key", key)
	}
	if err != nil {
		return err
	}
	cmd.Println("API key saved.")
	return nil
}

// readSecret reads a line without echo on a terminal, or the first line of in otherwise.
func readSecret(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	settingsService, err := requireSettings()
	if err != nil {
		return err
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	applyAPIKeyEnv(&settings.Embedding)

	if err := settings.Chunking.Validate(); err != nil {
		return err
	}

	cmd.Printf("Checking %s (%s)... ", settings.Embedding.Provider.Description(), settings.Embedding.Model)
	if err := embedding.Check(cmd.Context(), &settings.Embedding); err != nil {
		cmd.Println("failed")
		return err
	}
	cmd.Println("ok")
	return nil
}
