package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/user/missions-helper/pkg/conclusion"
	"github.com/user/missions-helper/pkg/config"
	"github.com/user/missions-helper/pkg/missions"
	"github.com/user/missions-helper/pkg/templates"
)

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "List claimed missions and sync report evidence",
}

var missionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List claimed missions (cached unless --refresh)",
	Run: func(cmd *cobra.Command, args []string) {
		refresh, _ := cmd.Flags().GetBool("refresh")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		cache := &missions.Cache{Dir: cfg.WorkingFolder}
		var list []missions.Mission
		if refresh {
			client := missions.NewClient(cfg.Platform, cfg.TokenFile)
			list, err = client.FetchTasks(context.Background(), cache)
			if err != nil {
				fmt.Printf("Error fetching missions: %v\n", err)
				fmt.Println("Falling back to cached missions.")
				list, err = cache.Load()
			}
		} else {
			list, err = cache.Load()
		}
		if err != nil {
			fmt.Printf("Error loading missions: %v\n", err)
			return
		}
		if len(list) == 0 {
			fmt.Println("No missions. Run 'missions-helper missions list --refresh'.")
			return
		}

		bold := color.New(color.Bold)
		for _, m := range list {
			bold.Printf("%s", m.ID)
			fmt.Printf("  [%s/%s] %s (%s)\n", m.ListingCodename, m.Category(), m.Title, m.Classification())
		}
	},
}

var missionsSyncCmd = &cobra.Command{
	Use:   "sync <mission-id>",
	Short: "Submit the mission's draft as evidence",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		missionID := args[0]
		resultLabel, _ := cmd.Flags().GetString("result")

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

		sel, err := parseSelection(mission.Classification(), resultLabel)
		if err != nil {
			fmt.Println(err)
			return
		}

		resolver := templates.NewResolver(cfg.TemplatesDir, cfg.UserTemplatesDir)
		doc, err := resolver.LoadDraft(mission.ListingCodename, missionID)
		if err != nil {
			if errors.Is(err, templates.ErrNotFound) {
				fmt.Printf("No draft found for mission %s.\n", missionID)
			} else {
				fmt.Printf("Error loading draft: %v\n", err)
			}
			return
		}

		mapping, err := conclusion.NewMapper().Map(mission.Classification(), sel)
		if err != nil {
			fmt.Printf("Error resolving conclusion: %v\n", err)
			return
		}

		payload := missions.BuildEvidence(doc, mapping)
		if payload.Introduction == "" || payload.TestingMethodology == "" || payload.Conclusion == "" {
			fmt.Println("Draft is missing a required section (Introduction, Testing or the selected conclusion).")
			return
		}

		client := missions.NewClient(cfg.Platform, cfg.TokenFile)
		if err := client.SyncEvidence(context.Background(), missionID, payload); err != nil {
			fmt.Printf("Sync failed: %v\n", err)
			return
		}
		fmt.Printf("Evidence submitted for mission %s (%s).\n", missionID, sel)
	},
}

// parseSelection maps the user's --result label to a conclusion selection
// legal for the mission's classification.
func parseSelection(class conclusion.Classification, label string) (conclusion.Selection, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), "_", "-"))
	if class == conclusion.SV2M {
		switch normalized {
		case "vulnerable":
			return conclusion.Vulnerable, nil
		case "not-exploitable":
			return conclusion.NotExploitable, nil
		case "out-of-threshold":
			return conclusion.OutOfThreshold, nil
		}
		return "", fmt.Errorf("SV2M missions need --result vulnerable, not-exploitable or out-of-threshold (got %q)", label)
	}
	switch normalized {
	case "pass":
		return conclusion.Pass, nil
	case "fail":
		return conclusion.Fail, nil
	case "not-testable":
		return conclusion.NotTestable, nil
	}
	return "", fmt.Errorf("--result must be pass, fail or not-testable (got %q)", label)
}

func init() {
	missionsListCmd.Flags().Bool("refresh", false, "Fetch from the platform instead of the cache")
	missionsSyncCmd.Flags().StringP("result", "r", "pass", "Conclusion result label")

	missionsCmd.AddCommand(missionsListCmd)
	missionsCmd.AddCommand(missionsSyncCmd)
	rootCmd.AddCommand(missionsCmd)
}
