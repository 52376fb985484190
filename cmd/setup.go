package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/missions-helper/pkg/ai"
	"github.com/user/missions-helper/pkg/config"
	"github.com/user/missions-helper/pkg/templates"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Run: func(cmd *cobra.Command, args []string) {
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("Welcome to Missions Helper Setup")
		fmt.Println("---------------------------------")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		// 1. Template roots
		fmt.Println("Step 1: Template directories")
		fmt.Printf("Bundled template root [%s] > ", cfg.TemplatesDir)
		scanner.Scan()
		if v := strings.TrimSpace(scanner.Text()); v != "" {
			cfg.TemplatesDir = v
		}
		fmt.Printf("User override root (empty for single-root mode) [%s] > ", cfg.UserTemplatesDir)
		scanner.Scan()
		if v := strings.TrimSpace(scanner.Text()); v != "" {
			cfg.UserTemplatesDir = v
		}

		resolver := templates.NewResolver(cfg.TemplatesDir, cfg.UserTemplatesDir)
		if err := resolver.Scaffold(); err != nil {
			fmt.Printf("Error creating template directories: %v\n", err)
			return
		}
		fmt.Println("Template directories ready.")

		// 2. Select Provider
		fmt.Println("\nStep 2: Choose your AI Provider")
		fmt.Println("1. Gemini (Google)")
		fmt.Println("2. OpenAI")
		fmt.Println("3. Anthropic")
		fmt.Print("Enter number or name (empty to skip AI setup) > ")
		scanner.Scan()
		choice := strings.ToLower(strings.TrimSpace(scanner.Text()))

		if choice == "" {
			if err := config.SaveConfig(cfg); err != nil {
				fmt.Printf("Error saving config: %v\n", err)
				return
			}
			fmt.Println("Setup complete (AI provider unchanged).")
			return
		}

		var provider string
		switch choice {
		case "1", "gemini":
			provider = "gemini"
		case "2", "openai":
			provider = "openai"
		case "3", "anthropic":
			provider = "anthropic"
		default:
			fmt.Println("Invalid choice. Aborting.")
			return
		}

		// 3. Enter API Key
		fmt.Printf("\nStep 3: Enter API Key for %s\n", provider)
		fmt.Print("> ")
		scanner.Scan()
		apiKey := strings.TrimSpace(scanner.Text())
		if apiKey == "" {
			fmt.Println("API Key cannot be empty.")
			return
		}

		// 4. Fetch Models
		fmt.Println("\nStep 4: Validating key and fetching available models...")
		ctx := context.Background()

		tempProvider, err := ai.NewProvider(ctx, provider, apiKey, "")
		if err != nil {
			fmt.Printf("Error initializing provider: %v\n", err)
			return
		}

		models, err := tempProvider.ListModels(ctx)
		var selectedModel string

		if err != nil {
			fmt.Printf("Warning: Could not fetch models from API: %v\n", err)
			fmt.Println("Please enter model name manually (e.g., 'gemini-pro', 'gpt-4'):")
			fmt.Print("> ")
			scanner.Scan()
			selectedModel = strings.TrimSpace(scanner.Text())
		} else {
			fmt.Printf("Successfully retrieved %d models.\n", len(models))
			for i, m := range models {
				fmt.Printf("%d. %s\n", i+1, m)
			}
			fmt.Print("Select Model (number) > ")
			scanner.Scan()
			selStr := strings.TrimSpace(scanner.Text())
			selIdx, err := strconv.Atoi(selStr)
			if err != nil || selIdx < 1 || selIdx > len(models) {
				fmt.Println("Invalid selection. Using first available model.")
				selectedModel = models[0]
			} else {
				selectedModel = models[selIdx-1]
			}
		}

		// 5. Save Configuration
		fmt.Println("\nStep 5: Saving Configuration...")
		cfg.SelectedProvider = provider
		cfg.SelectedModel = selectedModel
		cfg.SetAPIKey(provider, apiKey)

		if err := config.SaveConfig(cfg); err != nil {
			fmt.Printf("Error saving config: %v\n", err)
			return
		}

		fmt.Println("---------------------------------")
		fmt.Println("Setup Complete!")
		fmt.Printf("Provider: %s\n", provider)
		fmt.Printf("Model:    %s\n", selectedModel)
		fmt.Println("You can now run 'missions-helper rewrite'")
	},
}

func init() {
	configCmd.AddCommand(setupCmd)
}
