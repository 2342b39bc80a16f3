package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the learner's account and history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return fmt.Errorf("this deletes all progress; re-run with --yes to confirm")
		}

		rt, err := openRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		id := rt.cfg.Identity
		if err := rt.store.EventRepo().DeleteAccountEvents(ctx, id); err != nil {
			return fmt.Errorf("delete events: %w", err)
		}
		if err := rt.store.AccountRepo().Delete(ctx, id); err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		logrus.WithField("account", id).Info("account reset")
		fmt.Printf("Account %q reset. Start lingua to onboard again.\n", id)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
