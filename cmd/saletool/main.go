package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"tokensale/engine/actors"
	"tokensale/engine/library"
)

func main() {
	conf := viper.New()
	actors.InitConfig(conf)
	actors.SetConfig(conf)
	if err := newRootCmd(conf, publishToRelays).Execute(); err != nil {
		library.LogCLI(err.Error(), 1)
		os.Exit(1)
	}
}

func newRootCmd(conf *viper.Viper, send sender) *cobra.Command {
	root := &cobra.Command{
		Use:   "saletool",
		Short: "Sign and publish token sale operations",
		Long: `saletool builds sale operations, signs them with your wallet and
publishes them to the relays the sale engine listens to.

Each operation names your previous operation so it can only be applied once.
saletool finds it in the engine's latest state snapshot unless --previous is set.`,
		SilenceUsage: true,
	}
	flags := root.PersistentFlags()
	flags.StringSlice("relays", conf.GetStringSlice("relays"), "relays to publish to")
	flags.String("engine", "", "account of the engine whose state snapshots name your previous operation")
	flags.String("key", "", "hex private key to sign with instead of the wallet in rootDir")
	flags.String("previous", "", "ID of your previous applied operation")
	flags.Bool("dry-run", false, "print the signed event instead of publishing it")
	for _, name := range []string{"relays", "engine", "key", "previous", "dry-run"} {
		if err := conf.BindPFlag(name, flags.Lookup(name)); err != nil {
			library.LogCLI(err.Error(), 0)
		}
	}

	o := &operator{conf: conf, send: send, out: root.OutOrStdout}
	root.AddCommand(
		o.initializeCmd(),
		o.purchaseCmd(),
		o.enableDelegationCmd(),
		o.claimCmd(),
		o.claimAsDelegateCmd(),
		o.claimUnlockedCmd(),
		o.updatePriceCmd(),
		o.approveCmd(),
		o.transferCmd(),
		o.mintClaimTokenCmd(),
		o.transferClaimTokenCmd(),
		o.walletCmd(),
	)
	return root
}
