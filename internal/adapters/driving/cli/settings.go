package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/paygrade/internal/core/domain"
	"github.com/custodia-labs/paygrade/internal/core/ports/driving"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure harvest options, AI providers and the extraction strategy.

Use subcommands to configure specific settings or run the interactive wizard.
API keys are read from OPENAI_API_KEY and ANTHROPIC_API_KEY, or from the
--env-file dotenv file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsStrategyCmd = &cobra.Command{
	Use:   "strategy",
	Short: "Set extraction strategy",
	Long: `Set how model replies become compensation records.

Available strategies:
  model     - Validate the JSON object the model emits (default)
  heuristic - Mine the retrieved posts with regular expressions (low confidence)`,
	RunE: runSettingsStrategy,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used to index posts and embed questions.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider that answers compensation questions.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsStrategyCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settingsService, err := settingsSvc()
	if err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	cmd.Println()

	cmd.Println("[Harvest]")
	cmd.Printf("  Endpoint: %s\n", settings.Harvest.Endpoint)
	cmd.Printf("  Max posts: %d\n", settings.Harvest.MaxPosts)
	cmd.Printf("  Batch size: %d\n", settings.Harvest.BatchSize)
	cmd.Printf("  Item delay: %s\n", delayText(settings.Harvest.ItemDelay.String(), settings.Harvest.ItemDelay < 0))
	cmd.Printf("  Page delay: %s\n", delayText(settings.Harvest.PageDelay.String(), settings.Harvest.PageDelay < 0))
	cmd.Println()

	cmd.Println("[Paths]")
	cmd.Printf("  Snapshot: %s\n", settings.Paths.Snapshot)
	cmd.Printf("  Index: %s\n", settings.Paths.Index)
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Chunk size: %d\n", settings.Index.ChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", settings.Index.ChunkOverlap)
	cmd.Printf("  Top K: %d\n", settings.Index.TopK)
	cmd.Println()

	cmd.Println("[Embedding]")
	printProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	cmd.Println()

	cmd.Println("[LLM]")
	printProvider(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())
	cmd.Printf("  Temperature: %g\n", settings.LLM.Temperature)
	cmd.Println()

	cmd.Println("[Extraction]")
	cmd.Printf("  Strategy: %s\n", settings.Extraction.Description())
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.ServerAddr)
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'paygrade settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printProvider(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, ok bool) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set, export %s)\n", provider.APIKeyEnv())
		}
	}
	status := "configured"
	if !ok {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func delayText(d string, disabled bool) string {
	if disabled {
		return "disabled"
	}
	return d
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	settingsService, err := settingsSvc()
	if err != nil {
		return err
	}

	cmd.Println("Paygrade Settings Wizard")
	cmd.Println("========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: Embedding provider
	cmd.Println("Step 1: Configure Embedding Provider")
	cmd.Println("------------------------------------")
	if err := configureEmbeddingProvider(cmd, settingsService, reader); err != nil {
		return err
	}

	// Step 2: LLM provider
	cmd.Println("Step 2: Configure LLM Provider")
	cmd.Println("------------------------------")
	if err := configureLLMProvider(cmd, settingsService, reader); err != nil {
		return err
	}

	// Step 3: Extraction strategy
	cmd.Println("Step 3: Select Extraction Strategy")
	cmd.Println("----------------------------------")
	if err := selectStrategy(cmd, settingsService, reader, 1); err != nil {
		return err
	}

	// Final validation
	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsStrategy(cmd *cobra.Command, _ []string) error {
	settingsService, err := settingsSvc()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return selectStrategy(cmd, settingsService, reader, 0)
}

func selectStrategy(cmd *cobra.Command, settingsService driving.SettingsService, reader *bufio.Reader, defaultChoice int) error {
	strategies := []domain.ExtractionStrategy{domain.ExtractionModelGrounded, domain.ExtractionHeuristic}
	for i, s := range strategies {
		cmd.Printf("  %d. %s\n", i+1, s.Description())
	}
	if defaultChoice > 0 {
		cmd.Printf("\nEnter choice [%d]: ", defaultChoice)
	} else {
		cmd.Print("\nEnter choice: ")
	}
	idx := parseChoice(readLine(reader), len(strategies), defaultChoice)
	if idx == 0 {
		return errors.New("invalid selection")
	}

	selected := strategies[idx-1]
	if err := settingsService.SetExtractionStrategy(selected); err != nil {
		return fmt.Errorf("failed to set extraction strategy: %w", err)
	}
	cmd.Printf("Extraction strategy set to: %s\n\n", selected.Description())
	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	settingsService, err := settingsSvc()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureEmbeddingProvider(cmd, settingsService, reader)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	settingsService, err := settingsSvc()
	if err != nil {
		return err
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, settingsService, reader)
}

//nolint:dupl // Similar to configureLLMProvider but for embeddings - intentional for CLI flow clarity
func configureEmbeddingProvider(cmd *cobra.Command, settingsService driving.SettingsService, reader *bufio.Reader) error {
	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaultModel := domain.DefaultEmbeddingModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	if err := ensureAPIKey(cmd, selectedProvider, reader); err != nil {
		return err
	}

	if err := settingsService.SetEmbeddingProvider(selectedProvider, model); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

//nolint:dupl // Similar to configureEmbeddingProvider but for LLM - intentional for CLI flow clarity
func configureLLMProvider(cmd *cobra.Command, settingsService driving.SettingsService, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	if err := ensureAPIKey(cmd, selectedProvider, reader); err != nil {
		return err
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// ensureAPIKey prompts for a missing API key and stores it in the env file.
// Keys never go to the config file.
func ensureAPIKey(cmd *cobra.Command, provider domain.AIProvider, reader *bufio.Reader) error {
	name := provider.APIKeyEnv()
	if name == "" || os.Getenv(name) != "" {
		return nil
	}

	cmd.Printf("%s is not set. Enter API key (saved to %s): ", name, envFile)
	key := readSecret(cmd.InOrStdin(), reader)
	cmd.Println()
	if key == "" {
		return errors.New("API key is required for this provider")
	}

	if err := saveEnvKey(envFile, name, key); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	return os.Setenv(name, key)
}

// saveEnvKey sets name=value in the dotenv file at path, keeping other entries.
func saveEnvKey(path, name, value string) error {
	if path == "" {
		return errors.New("no env file configured")
	}
	env, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		env = map[string]string{}
	}
	env[name] = value
	if err := godotenv.Write(env, path); err != nil {
		return err
	}
	return os.Chmod(path, 0600)
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readSecret reads without echo when in is a terminal.
func readSecret(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	// Fallback to regular input
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
