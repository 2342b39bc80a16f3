package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/config"
	"github.com/abhisek/lingua/internal/evaluator"
	"github.com/abhisek/lingua/internal/llm"
	"github.com/abhisek/lingua/internal/logging"
	"github.com/abhisek/lingua/internal/oracle"
	"github.com/abhisek/lingua/internal/profile"
	"github.com/abhisek/lingua/internal/tasks"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview generated tasks for a roadmap node (no database)",
	Long: `Generate and interactively answer the five tasks of one roadmap node.

This is a stateless developer tool — no database, no hearts, no events.
Useful for evaluating task quality for a language and tier.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("target", "", "Language to generate tasks in (required)")
	previewCmd.Flags().String("tier", string(profile.TierBeginner), "Proficiency: BEGINNER, INTERMEDIATE, ADVANCED or FLUENT")
	previewCmd.Flags().Int("node", 1, "Roadmap node (1-25)")
	_ = previewCmd.MarkFlagRequired("target")
}

func runPreview(cmd *cobra.Command, args []string) error {
	target, _ := cmd.Flags().GetString("target")
	tierVal, _ := cmd.Flags().GetString("tier")
	node, _ := cmd.Flags().GetInt("node")

	tier, err := profile.ParseTier(tierVal)
	if err != nil {
		return err
	}
	if node < 1 || node > profile.TotalNodes {
		return fmt.Errorf("node must be between 1 and %d", profile.TotalNodes)
	}
	track, err := profile.NewTrack("English", target, tier)
	if err != nil {
		return err
	}
	track.CurrentLevel = node

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if _, err := logging.Setup(cfg.LogLevel, cfg.LogFile); err != nil {
		return err
	}
	llmCfg, ok, err := cfg.LLM()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("LLM provider: none configured")
	}

	// No recorder: nothing is persisted.
	ctx := cmd.Context()
	provider, err := llm.NewProvider(ctx, llmCfg, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}
	o := oracle.New(provider, oracle.DefaultConfig())
	seq := tasks.NewSequencer(o)
	eval := evaluator.New(o, nil)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Node %d — %s, %s (%s)\n\n", node, target, tier.DisplayName(), tier.Difficulty())

	var correct int
	for pos := 0; pos < tasks.TasksPerNode; pos++ {
		f, err := seq.Fetch(ctx, tasks.FetchInput{Node: node, Position: pos, Track: track})
		if err != nil {
			return err
		}
		t := f.Task

		fmt.Printf("── Task %d/%d: %s ──\n", pos+1, tasks.TasksPerNode, t.Type.Label())
		if f.FromFallback {
			fmt.Println("(generation failed, showing the built-in task)")
		}
		fmt.Println(t.Instruction)
		if t.Passage != "" {
			fmt.Printf("\n%s\n", t.Passage)
		}
		if t.Content != "" && t.Type != tasks.Listening {
			fmt.Printf("\n%s\n", t.Content)
		}
		for j, opt := range t.Options {
			fmt.Printf("  %d) %s\n", j+1, opt)
		}
		if len(f.Pool) > 0 {
			fmt.Printf("Words: %s\n", strings.Join(f.Pool, " · "))
		}

		if t.Type == tasks.Speaking {
			fmt.Printf("\nSay: %s\n(speaking is graded from audio; skipped here)\n\n", t.CorrectAnswer)
			continue
		}

		fmt.Print("\nYour answer: ")
		if !scanner.Scan() {
			fmt.Println("\n(input closed)")
			break
		}
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			fmt.Print("(skipped)\n\n")
			continue
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(t.Options) {
			answer = t.Options[n-1]
		}

		res := eval.Evaluate(ctx, t, evaluator.Submission{Text: answer}, tier)
		if res.Correct {
			correct++
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Wrong.\033[0m Answer: %s\n", t.CorrectAnswer)
		}
		if res.Feedback != "" {
			fmt.Printf("Explanation: %s\n", res.Feedback)
		}
		fmt.Println()
	}

	fmt.Printf("── Summary: %d/%d correct ──\n", correct, tasks.TasksPerNode)
	return nil
}
