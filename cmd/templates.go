package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/user/missions-helper/pkg/conclusion"
	"github.com/user/missions-helper/pkg/config"
	"github.com/user/missions-helper/pkg/report"
	"github.com/user/missions-helper/pkg/templates"
	"github.com/user/missions-helper/pkg/tools"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List and save report templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List default templates",
	Run: func(cmd *cobra.Command, args []string) {
		resolver, err := resolverFromConfig()
		if err != nil {
			fmt.Println(err)
			return
		}
		infos, err := resolver.ListDefaults()
		if err != nil {
			fmt.Printf("Error listing templates: %v\n", err)
			return
		}
		if len(infos) == 0 {
			fmt.Println("No default templates. Run 'missions-helper config setup' to scaffold directories.")
			return
		}
		for _, info := range infos {
			fmt.Printf("%-30s %s\n", info.Name, info.DisplayName)
		}
	},
}

var templatesSaveCmd = &cobra.Command{
	Use:   "save <report-file> <category> <name>",
	Short: "Save a report file as a reusable template",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		path, category, name := args[0], args[1], args[2]
		sv2m, _ := cmd.Flags().GetBool("sv2m")

		resolver, err := resolverFromConfig()
		if err != nil {
			fmt.Println(err)
			return
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", path, err)
			return
		}
		doc := report.Parse(string(raw))
		concl, ok := doc.Conclusion()
		if !ok {
			concl = report.SectionConclusionPass
		}

		class := conclusion.Standard
		if sv2m {
			class = conclusion.SV2M
		}

		confirm, err := resolver.SaveTemplate(category, name, doc, concl, class, false)
		if errors.Is(err, templates.ErrSV2MTemplate) {
			fmt.Println("SV2M reports cannot be saved as templates; save a draft instead.")
			return
		}
		if err != nil {
			fmt.Printf("Error saving template: %v\n", err)
			return
		}
		if confirm == nil {
			fmt.Printf("Template saved: %s/%s\n", category, name)
			return
		}

		fmt.Printf("Template %s/%s already exists at %s.\n", category, name, confirm.Path)
		printDiff(confirm.Diff)
		fmt.Print("Overwrite? [y/N] > ")
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
			fmt.Println("Aborted. Existing template unchanged.")
			return
		}
		if _, err := resolver.SaveTemplate(category, name, doc, concl, class, true); err != nil {
			fmt.Printf("Error saving template: %v\n", err)
			return
		}
		fmt.Printf("Template overwritten: %s/%s\n", category, name)
	},
}

var templatesToolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List tool description snippets",
	Run: func(cmd *cobra.Command, args []string) {
		resolver, err := resolverFromConfig()
		if err != nil {
			fmt.Println(err)
			return
		}
		snippets, err := tools.Load(resolver)
		if err != nil {
			fmt.Printf("Error loading tools: %v\n", err)
			return
		}
		if len(snippets) == 0 {
			fmt.Println("No tool snippets found (tools/tools.txt).")
			return
		}
		names := make([]string, 0, len(snippets))
		for name := range snippets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

func resolverFromConfig() (*templates.Resolver, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return templates.NewResolver(cfg.TemplatesDir, cfg.UserTemplatesDir), nil
}

// printDiff renders a line diff with removals in red and additions in green.
func printDiff(diff string) {
	if diff == "" {
		return
	}
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "- "):
			removed.Println(line)
		case strings.HasPrefix(line, "+ "):
			added.Println(line)
		default:
			fmt.Println(line)
		}
	}
}

func init() {
	templatesSaveCmd.Flags().Bool("sv2m", false, "Mark the source mission as SV2M")
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesSaveCmd)
	templatesCmd.AddCommand(templatesToolsCmd)
	rootCmd.AddCommand(templatesCmd)
}
