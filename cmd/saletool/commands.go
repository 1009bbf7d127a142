package main

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"tokensale/state/assets"
	"tokensale/state/claimtokens"
	"tokensale/state/sale"
)

// amountArg checks that args[i] is a decimal amount and returns it unchanged.
func amountArg(args []string, i int, what string) (string, error) {
	if _, err := uint256.FromDecimal(args[i]); err != nil {
		return "", fmt.Errorf("%s %q is not a decimal amount", what, args[i])
	}
	return args[i], nil
}

func (o *operator) initializeCmd() *cobra.Command {
	var p sale.Kind640800
	cmd := &cobra.Command{
		Use:   "initialize",
		Short: "Configure the sale once; you become its owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := p.Params(); err != nil {
				return err
			}
			return o.submit(cmd.Context(), sale.KindInitialize, p)
		},
	}
	f := cmd.Flags()
	f.StringVar(&p.Token, "token", o.conf.GetString("tokenLedger"), "ledger of the asset being sold")
	f.StringVar(&p.Currency, "currency", o.conf.GetString("currencyLedger"), "ledger buyers pay on")
	f.StringVar(&p.ClaimToken, "claim-tokens", o.conf.GetString("claimTokenRegistry"), "registry of claim tokens")
	f.StringVar(&p.PricePerToken, "price", "", "price per token in currency units")
	f.StringVar(&p.TotalTokensAvailable, "total", "", "tokens for sale")
	f.Uint64Var(&p.VestingSeconds, "vesting", 0, "vesting length in seconds, 0 to release on purchase")
	f.Uint64Var(&p.InstantUnlockPercent, "instant", 0, "share released at purchase, 100000 = 100%")
	return cmd
}

func (o *operator) purchaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purchase <amount>",
		Short: "Buy tokens; approve the sale account on the currency ledger first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := amountArg(args, 0, "amount")
			if err != nil {
				return err
			}
			return o.submit(cmd.Context(), sale.KindPurchase, sale.Kind640802{Amount: amount})
		},
	}
}

func (o *operator) enableDelegationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable-delegation <claim token id>",
		Short: "Hand your claim rights to whoever holds a claim token, for good",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := amountArg(args, 0, "claim token id")
			if err != nil {
				return err
			}
			return o.submit(cmd.Context(), sale.KindEnableDelegation, sale.Kind640804{ClaimTokenID: id})
		},
	}
}

func (o *operator) claimCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim",
		Short: "Claim your vested tokens",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.submit(cmd.Context(), sale.KindClaimDirect, sale.Kind640806{})
		},
	}
}

func (o *operator) claimAsDelegateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim-as-delegate <purchaser>",
		Short: "Claim a purchaser's vested tokens with their claim token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.submit(cmd.Context(), sale.KindClaimAsDelegate, sale.Kind640808{Purchaser: args[0]})
		},
	}
}

func (o *operator) claimUnlockedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "claim-unlocked",
		Short: "Claim everything you bought from a sale without vesting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.submit(cmd.Context(), sale.KindClaimUnlocked, sale.Kind640810{})
		},
	}
}

func (o *operator) updatePriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-price <price>",
		Short: "Set the price of future purchases (owner only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := amountArg(args, 0, "price")
			if err != nil {
				return err
			}
			return o.submit(cmd.Context(), sale.KindUpdatePrice, sale.Kind640812{PricePerToken: price})
		},
	}
}

func (o *operator) approveCmd() *cobra.Command {
	var ledger string
	cmd := &cobra.Command{
		Use:   "approve <spender> <amount>",
		Short: "Let spender move up to amount of your units",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := amountArg(args, 1, "amount")
			if err != nil {
				return err
			}
			return o.submit(cmd.Context(), assets.KindApprove, assets.Kind640860{Ledger: ledger, Spender: args[0], Amount: amount})
		},
	}
	cmd.Flags().StringVar(&ledger, "ledger", o.conf.GetString("currencyLedger"), "ledger id")
	return cmd
}

func (o *operator) transferCmd() *cobra.Command {
	var ledger string
	cmd := &cobra.Command{
		Use:   "transfer <to> <amount>",
		Short: "Send units to another account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := amountArg(args, 1, "amount")
			if err != nil {
				return err
			}
			return o.submit(cmd.Context(), assets.KindTransfer, assets.Kind640862{Ledger: ledger, To: args[0], Amount: amount})
		},
	}
	cmd.Flags().StringVar(&ledger, "ledger", o.conf.GetString("tokenLedger"), "ledger id")
	return cmd
}

func (o *operator) mintClaimTokenCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "mint-claim-token <id>",
		Short: "Mint a claim token, only the registry issuer may do this",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := amountArg(args, 0, "claim token id")
			if err != nil {
				return err
			}
			return o.submit(cmd.Context(), claimtokens.KindMint, claimtokens.Kind640870{Registry: o.conf.GetString("claimTokenRegistry"), TokenID: id, To: to})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "account that receives the token, defaults to yourself")
	return cmd
}

func (o *operator) transferClaimTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transfer-claim-token <id> <to>",
		Short: "Give a claim token, and the claims bound to it, to another account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := amountArg(args, 0, "claim token id")
			if err != nil {
				return err
			}
			return o.submit(cmd.Context(), claimtokens.KindTransfer, claimtokens.Kind640872{Registry: o.conf.GetString("claimTokenRegistry"), TokenID: id, To: args[1]})
		},
	}
}

func (o *operator) walletCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wallet",
		Short: "Print the account operations are signed with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := o.wallet()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), w.Account)
			return err
		},
	}
}
