package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var defineCmd = &cobra.Command{
	Use:   "define <word>",
	Short: "Look up a word between your native and target languages",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		native, _ := cmd.Flags().GetString("native")
		target, _ := cmd.Flags().GetString("target")

		rt, err := openRuntime(cmd, runtimeOptions{needLLM: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		ctx := cmd.Context()
		if native == "" || target == "" {
			acct, err := rt.requireAccount(ctx)
			if err != nil {
				return fmt.Errorf("%w (or pass --native and --target)", err)
			}
			track, _ := acct.ActiveTrack()
			if native == "" {
				native = track.Native
			}
			if target == "" {
				target = track.Target
			}
		}

		def, err := rt.oracle.LookupWord(ctx, strings.Join(args, " "), native, target)
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s\n", def.Word, def.Phonetics)
		fmt.Println(def.Translation)
		fmt.Println()
		fmt.Println(def.Definition)
		if len(def.Synonyms) > 0 {
			fmt.Printf("\nSynonyms: %s\n", strings.Join(def.Synonyms, ", "))
		}
		if len(def.Examples) > 0 {
			fmt.Println("\nExamples:")
			for _, ex := range def.Examples {
				fmt.Printf("  • %s\n", ex)
			}
		}
		return nil
	},
}

func init() {
	defineCmd.Flags().String("native", "", "Native language (defaults to the active track)")
	defineCmd.Flags().String("target", "", "Target language (defaults to the active track)")
}
