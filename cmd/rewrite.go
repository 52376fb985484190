package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/user/missions-helper/pkg/ai"
	"github.com/user/missions-helper/pkg/config"
	"github.com/user/missions-helper/pkg/redact"
	"github.com/user/missions-helper/pkg/report"
	"github.com/user/missions-helper/pkg/rewrite"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <report-file>",
	Short: "AI-assisted section rewrite with redaction review",
	Long: `Rewrites one section of a report file with the configured AI provider.
Generated text is scanned for customer hostnames and IP addresses before it
touches the document; every flagged value must be replaced with a
placeholder or explicitly kept.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		sectionName, _ := cmd.Flags().GetString("section")
		instruction, _ := cmd.Flags().GetString("instruction")
		scope, _ := cmd.Flags().GetString("scope")

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			return
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", path, err)
			return
		}
		doc := report.Parse(string(raw))

		section, ok := report.SectionFromHeader(sectionName)
		if !ok {
			fmt.Printf("Unknown section %q. Valid: Introduction, Testing, Documentation, Scripts, conclusion-pass, conclusion-fail.\n", sectionName)
			return
		}
		body, ok := doc.Get(section)
		if !ok {
			fmt.Printf("Section %s not present in %s\n", section.Header(), path)
			return
		}

		scanner := bufio.NewScanner(os.Stdin)
		if instruction == "" {
			fmt.Print("Instruction > ")
			if !scanner.Scan() {
				return
			}
			instruction = strings.TrimSpace(scanner.Text())
		}
		if instruction == "" {
			fmt.Println("No instruction given.")
			return
		}

		providerName := cfg.SelectedProvider
		apiKey := cfg.GetAPIKey(providerName)
		if apiKey == "" && providerName == "gemini" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			fmt.Println("Error: API Key not found.")
			fmt.Println("Please run 'missions-helper config setup' to configure your keys.")
			return
		}

		ctx := context.Background()
		provider, err := ai.NewProvider(ctx, providerName, apiKey, cfg.SelectedModel)
		if err != nil {
			fmt.Printf("Error creating AI provider: %v\n", err)
			return
		}
		if closer, ok := provider.(interface{ Close() }); ok {
			defer closer.Close()
		}

		pipeline := rewrite.NewPipeline(&ai.Rewriter{Provider: provider})
		pipeline.KnownSafe = cfg.KnownSafeDomains

		fmt.Printf("Rewriting %s with %s (%s)...\n", section.Header(), providerName, cfg.SelectedModel)
		sess, err := pipeline.Start(ctx, rewrite.Request{
			Instruction:    instruction,
			SectionBody:    body,
			SpanStart:      0,
			SpanEnd:        len(body),
			SectionContext: body,
			Scope:          scope,
		})
		if err != nil {
			var genErr *rewrite.GenerationError
			if errors.As(err, &genErr) {
				fmt.Printf("Generation failed: %v\nRe-run to retry.\n", genErr.Err)
			} else {
				fmt.Printf("Rewrite failed: %v\n", err)
			}
			return
		}

		for sess.State == rewrite.StateAwaitingDecisions {
			decisions := reviewCandidates(scanner, sess.Generated, sess.Candidates)
			if decisions == nil {
				fmt.Println("Aborted. Document unchanged.")
				return
			}
			err = pipeline.Submit(sess, sess.ScanID, decisions)
			if errors.Is(err, rewrite.ErrStaleDecisionSet) {
				fmt.Println("Candidate set changed, reviewing again.")
				pipeline.Rescan(sess)
				continue
			}
			if err != nil {
				fmt.Printf("Applying decisions failed: %v\n", err)
				return
			}
		}

		doc.Set(section, sess.Result)
		if err := os.WriteFile(path, []byte(report.SerializeAll(doc)), 0644); err != nil {
			fmt.Printf("Error writing %s: %v\n", path, err)
			return
		}
		fmt.Printf("Updated %s in %s\n", section.Header(), path)
	},
}

// reviewCandidates walks the undecided candidates with the flagged value
// highlighted in its surrounding line. Returns one decision per undecided
// candidate, or nil if the user quits.
func reviewCandidates(scanner *bufio.Scanner, text string, candidates []redact.Candidate) []redact.Resolution {
	undecided := redact.UndecidedOf(candidates)
	if len(undecided) == 0 {
		return []redact.Resolution{}
	}

	highlight := color.New(color.FgRed, color.Bold)
	placeholder := color.New(color.FgGreen)

	fmt.Printf("\n%d value(s) in the generated text need review:\n", len(undecided))
	decisions := make([]redact.Resolution, 0, len(undecided))
	for i, c := range undecided {
		fmt.Printf("\n[%d/%d] %s: ", i+1, len(undecided), c.Kind)
		highlight.Println(c.Value)
		fmt.Printf("  ...%s", contextBefore(text, c.Start))
		highlight.Printf("%s", c.Value)
		fmt.Printf("%s...\n", contextAfter(text, c.End))
		fmt.Print("  [r]eplace with ")
		if c.Kind == redact.KindIP {
			placeholder.Print(redact.IPPlaceholder)
		} else {
			placeholder.Print("example.com")
		}
		fmt.Print(", [k]eep, [q]uit > ")

		if !scanner.Scan() {
			return nil
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "r", "replace", "":
			decisions = append(decisions, redact.Replace)
		case "k", "keep":
			decisions = append(decisions, redact.Keep)
		default:
			return nil
		}
	}
	return decisions
}

const reviewContext = 40

func contextBefore(text string, pos int) string {
	start := pos - reviewContext
	if start < 0 {
		start = 0
	}
	return strings.ReplaceAll(text[start:pos], "\n", " ")
}

func contextAfter(text string, pos int) string {
	end := pos + reviewContext
	if end > len(text) {
		end = len(text)
	}
	return strings.ReplaceAll(text[pos:end], "\n", " ")
}

func init() {
	rewriteCmd.Flags().StringP("section", "s", "Testing", "Section to rewrite")
	rewriteCmd.Flags().StringP("instruction", "i", "", "Rewrite instruction (prompted when omitted)")
	rewriteCmd.Flags().String("scope", "", "Scope text to strip before sending to the provider")
	rootCmd.AddCommand(rewriteCmd)
}
