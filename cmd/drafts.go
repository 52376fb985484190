package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/missions-helper/pkg/config"
	"github.com/user/missions-helper/pkg/missions"
	"github.com/user/missions-helper/pkg/report"
	"github.com/user/missions-helper/pkg/templates"
)

var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Save and show per-mission report drafts",
}

var draftsSaveCmd = &cobra.Command{
	Use:   "save <mission-id> <report-file>",
	Short: "Save a report file as the mission's draft",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		missionID, path := args[0], args[1]

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		cache := &missions.Cache{Dir: cfg.WorkingFolder}
		mission, err := cache.Find(missionID)
		if err != nil {
			fmt.Printf("Error reading mission cache: %v\n", err)
			return
		}
		if mission == nil {
			fmt.Printf("Mission %s not in cache. Run 'missions-helper missions list --refresh' first.\n", missionID)
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

		resolver := templates.NewResolver(cfg.TemplatesDir, cfg.UserTemplatesDir)
		saved, err := resolver.SaveDraft(mission.ListingCodename, missionID, mission.Title, doc, concl)
		if err != nil {
			fmt.Printf("Error saving draft: %v\n", err)
			return
		}
		fmt.Printf("Draft saved: %s\n", saved)
	},
}

var draftsShowCmd = &cobra.Command{
	Use:   "show <mission-id>",
	Short: "Print the mission's draft",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		missionID := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		cache := &missions.Cache{Dir: cfg.WorkingFolder}
		mission, err := cache.Find(missionID)
		if err != nil {
			fmt.Printf("Error reading mission cache: %v\n", err)
			return
		}
		if mission == nil {
			fmt.Printf("Mission %s not in cache.\n", missionID)
			return
		}

		resolver := templates.NewResolver(cfg.TemplatesDir, cfg.UserTemplatesDir)
		doc, err := resolver.LoadDraft(mission.ListingCodename, missionID)
		if errors.Is(err, templates.ErrNotFound) {
			fmt.Printf("No draft found for mission %s.\n", missionID)
			return
		}
		if err != nil {
			fmt.Printf("Error loading draft: %v\n", err)
			return
		}
		fmt.Print(report.SerializeAll(doc))
	},
}

func init() {
	draftsCmd.AddCommand(draftsSaveCmd)
	draftsCmd.AddCommand(draftsShowCmd)
	rootCmd.AddCommand(draftsCmd)
}
