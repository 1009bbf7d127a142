package main

import (
	"fmt"
	"io"

	"github.com/eiannone/keyboard"
	"tokensale/engine/actors"
	"tokensale/engine/library"
)

// cliListener is a cheap and nasty way to inspect a running engine. It listens for keypresses and prints state.
func cliListener(interrupt chan struct{}, e *engine) {
	fmt.Println("VIEW CURRENT STATE:\ns: sale config and total\np: purchasers\na: asset balances\nr: replay table\nw: current wallet\nl: snapshot written at last shutdown\nc: engine config\nq: to quit\nSee cliListener.go for more")
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			library.LogCLI(fmt.Sprintf("keyboard listener stopped: %s", err), 2)
			return
		}
		str := string(r)
		switch str {
		default:
			if k == keyboard.KeyEnter {
				fmt.Println("\n-----------------------------------")
				break
			}
			if r == 0 {
				break
			}
			fmt.Println("Key " + str + " is not bound to any procedures. See main.cliListener for more details.")
		case "s":
			c, err := e.sale.Config()
			if err != nil {
				fmt.Println(err)
				break
			}
			total, err := e.sale.TotalPurchased()
			if err != nil {
				fmt.Println(err)
				break
			}
			fmt.Printf("\nOwner: %s\nToken: %s\nCurrency: %s\nClaim Tokens: %s\nPrice: %s\nAvailable: %s\nPurchased: %s\nVesting Seconds: %d\nInstant Unlock: %d/100000\n",
				c.Owner, c.Token, c.Currency, c.ClaimToken, c.PricePerToken.Dec(), c.TotalTokensAvailable.Dec(), total.Dec(), c.VestingSeconds, c.InstantUnlockPercent)
		case "p":
			m, err := e.sale.GetMapped()
			if err != nil {
				fmt.Println(err)
				break
			}
			for _, account := range m.Accounts() {
				p := m[account]
				claimable, err := e.sale.Claimable(account)
				if err != nil {
					claimable.Clear()
				}
				fmt.Printf("\nAccount: %s\nPurchased: %s at %d\nClaimed: %s at %d\nClaim Token: %s\nClaimable Now: %s\n",
					account, p.TokensPurchased.Dec(), p.PurchasedAt, p.TokensClaimed.Dec(), p.ClaimedAt, p.ClaimTokenID.Dec(), claimable.Dec())
			}
		case "a":
			for ledger, balances := range e.directory.GetMapped() {
				fmt.Printf("\n--------- Ledger: %s -----------\n", ledger)
				for account, balance := range balances {
					fmt.Printf("%s: %s\n", account, balance)
				}
			}
		case "r":
			m, err := e.replay.GetMapped()
			if err != nil {
				fmt.Println(err)
				break
			}
			for account, last := range m {
				fmt.Printf("%s: %s\n", account, last)
			}
		case "q":
			close(interrupt)
			return
		case "l":
			f, ok := actors.Open("snapshots", "current")
			if !ok {
				fmt.Println("no snapshot on disk")
				break
			}
			b, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				fmt.Println(err)
				break
			}
			fmt.Println(string(b))
		case "w":
			fmt.Printf("Current Wallet: \n%s\n", actors.MyWallet().Account)
		case "c":
			fmt.Println("CURRENT CONFIG")
			for k, v := range actors.MakeOrGetConfig().AllSettings() {
				fmt.Printf("\nKey: %s; Value: %v\n", k, v)
			}
		}
	}
}
