package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/lingua/internal/payment"
	"github.com/abhisek/lingua/internal/shop"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Browse the shop and buy items",
}

var shopListCmd = &cobra.Command{
	Use:   "list",
	Short: "List shop items",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%-6s  %-16s  %-14s  %s\n", "ID", "Name", "Price", "Description")
		fmt.Println(strings.Repeat("─", 72))
		for _, it := range shop.Catalog() {
			fmt.Printf("%-6s  %-16s  %-14s  %s\n", it.ID, it.Name, it.PriceLabel(), it.Description)
		}
	},
}

var shopBuyCmd = &cobra.Command{
	Use:   "buy <item-id>",
	Short: "Buy an item with a simulated card payment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card := payment.CardInput{}
		card.Number, _ = cmd.Flags().GetString("card")
		card.Expiry, _ = cmd.Flags().GetString("expiry")
		card.CVV, _ = cmd.Flags().GetString("cvv")

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

		fmt.Println("Authorizing...")
		next, receipt, err := rt.processor().Purchase(ctx, acct, args[0], card)
		if err != nil {
			var rej *payment.RejectionError
			if errors.As(err, &rej) {
				return fmt.Errorf("card rejected (%s): %s", rej.Reason, rej.Error())
			}
			return err
		}
		if err := rt.store.AccountRepo().Save(ctx, next); err != nil {
			return fmt.Errorf("payment %s accepted but account not saved: %w", receipt.ID, err)
		}

		fmt.Printf("Paid %.2f with %s •••• %s (receipt %s)\n", receipt.Amount, receipt.Network.Label(), receipt.Last4, receipt.ID)
		printAccount(next)
		return nil
	},
}

func init() {
	shopBuyCmd.Flags().String("card", "", "Card number (16 digits, spaces allowed)")
	shopBuyCmd.Flags().String("expiry", "", "Expiry as MM/YY")
	shopBuyCmd.Flags().String("cvv", "", "CVV, required for Visa and Mastercard")
	_ = shopBuyCmd.MarkFlagRequired("card")
	_ = shopBuyCmd.MarkFlagRequired("expiry")

	shopCmd.AddCommand(shopListCmd)
	shopCmd.AddCommand(shopBuyCmd)
}
