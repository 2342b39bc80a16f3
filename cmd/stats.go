package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/account"
	"github.com/abhisek/lingua/internal/profile"
	"github.com/abhisek/lingua/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the learner's resources, roadmap and recent activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		rt, err := openRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		acct, err := rt.requireAccount(ctx)
		if err != nil {
			return err
		}
		printAccount(acct)

		lessons, err := rt.store.EventRepo().QueryLessonEvents(ctx, acct.ID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query lesson events: %w", err)
		}
		if len(lessons) > 0 {
			fmt.Println()
			fmt.Println("Recent Answers")
			fmt.Println(strings.Repeat("─", 72))
			fmt.Printf("%-19s  %4s  %3s  %-22s  %-10s  %s\n", "Timestamp", "Node", "Pos", "Task", "Outcome", "Graded")
			for _, e := range lessons {
				graded := e.Graded
				if e.FromFallback {
					graded += " (fallback task)"
				}
				fmt.Printf("%-19s  %4d  %3d  %-22s  %-10s  %s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04:05"),
					e.Node, e.Position+1, truncate(e.TaskType, 22), e.Outcome, graded)
			}
		}

		purchases, err := rt.store.EventRepo().QueryPurchaseEvents(ctx, acct.ID, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query purchase events: %w", err)
		}
		if len(purchases) > 0 {
			fmt.Println()
			fmt.Println("Purchases")
			fmt.Println(strings.Repeat("─", 72))
			for _, p := range purchases {
				fmt.Printf("%-19s  %-6s  %8.2f  %-10s  %s\n",
					p.Timestamp.Local().Format("2006-01-02 15:04:05"),
					p.ItemID, p.Amount, p.Network, p.Result)
			}
		}
		return nil
	},
}

// printAccount shows resources and a one-line roadmap of the active track.
func printAccount(a *account.Account) {
	fmt.Printf("Learner:   %s (%s)\n", a.Nickname, a.ID)

	hearts, energy := fmt.Sprint(a.Resources.Hearts), fmt.Sprint(a.Resources.Energy)
	if a.Resources.Unlimited() {
		hearts, energy = "∞", "∞"
	}
	fmt.Printf("Hearts:    %s\n", hearts)
	fmt.Printf("Energy:    %s\n", energy)
	if a.Resources.Premium {
		fmt.Println("Plan:      premium")
	}

	track, ok := a.ActiveTrack()
	if !ok {
		return
	}
	fmt.Printf("Track:     %s → %s (%s)\n", track.Native, track.Target, track.Tier.DisplayName())

	var b strings.Builder
	for n := 1; n <= profile.TotalNodes; n++ {
		switch track.StateOf(n) {
		case profile.NodePassed:
			b.WriteString("●")
		case profile.NodeCurrent:
			b.WriteString("◉")
		default:
			b.WriteString("○")
		}
	}
	fmt.Printf("Roadmap:   %s  %d/%d\n", b.String(), min(track.CurrentLevel-1, profile.TotalNodes), profile.TotalNodes)
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "Number of recent events to show")
}
