package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/account"
	"github.com/abhisek/lingua/internal/i18n"
	"github.com/abhisek/lingua/internal/profile"
)

// localizeTimeout bounds the UI translation at signup.
const localizeTimeout = 30 * time.Second

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create the learner account without the interactive form",
	RunE: func(cmd *cobra.Command, args []string) error {
		nickname, _ := cmd.Flags().GetString("nickname")
		native, _ := cmd.Flags().GetString("native")
		target, _ := cmd.Flags().GetString("target")
		tierVal, _ := cmd.Flags().GetString("tier")

		tier, err := profile.ParseTier(tierVal)
		if err != nil {
			return err
		}

		rt, err := openRuntime(cmd, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		existing, err := rt.loadAccount(ctx)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("account %q already exists; run `lingua reset --yes` first", existing.ID)
		}

		acct, err := account.New(rt.cfg.Identity, nickname, native, target, tier)
		if err != nil {
			return err
		}

		lctx, cancel := context.WithTimeout(ctx, localizeTimeout)
		defer cancel()
		if table, err := i18n.Localize(lctx, rt.translator(), native); err == nil {
			acct.Strings = table
		} else {
			fmt.Println("UI translation unavailable, keeping English labels.")
		}

		if err := rt.store.AccountRepo().Save(ctx, acct); err != nil {
			return fmt.Errorf("save account: %w", err)
		}
		logrus.WithField("account", acct.ID).Info("account created")

		printAccount(acct)
		return nil
	},
}

func init() {
	onboardCmd.Flags().String("nickname", "", "Display name (at least 3 characters)")
	onboardCmd.Flags().String("native", "English", "Native language")
	onboardCmd.Flags().String("target", "", "Language to learn")
	onboardCmd.Flags().String("tier", string(profile.TierBeginner), "Proficiency: BEGINNER, INTERMEDIATE, ADVANCED or FLUENT")
	_ = onboardCmd.MarkFlagRequired("nickname")
	_ = onboardCmd.MarkFlagRequired("target")
}
