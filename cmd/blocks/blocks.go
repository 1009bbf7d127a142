package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/eiannone/keyboard"
	"github.com/spf13/viper"
	"tokensale/engine/actors"
	"tokensale/engine/library"
	"tokensale/messaging/blocks"
	"tokensale/messaging/relays"
)

// blocks announces the bitcoin tip to the relays so engines that trust this
// wallet as their blockSource can keep time by it.
func main() {
	conf := viper.New()
	//Now we initialise this configuration with basic settings that are required on startup.
	actors.InitConfig(conf)
	conf.SetDefault("blockExplorer", blocks.DefaultSourceURL)
	conf.SetDefault("blockInterval", "30s")
	//make the config accessible globally
	actors.SetConfig(conf)
	fmt.Println("Current wallet: " + actors.MyWallet().Account)

	ctx, cancel := context.WithCancel(context.Background())
	go cliListener(cancel)
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		cancel()
	}()

	a := &announcer{
		source: blocks.NewSource(conf.GetString("blockExplorer")),
		wallet: actors.MyWallet(),
		relays: conf.GetStringSlice("relays"),
		send:   relays.PublishToRelays,
	}
	a.run(ctx, conf.GetDuration("blockInterval"))
}

func cliListener(cancel context.CancelFunc) {
	for {
		r, k, err := keyboard.GetSingleKey()
		if err != nil {
			library.LogCLI(err.Error(), 1)
			return
		}
		str := string(r)
		switch str {
		default:
			if k == 13 {
				fmt.Println("\n-----------------------------------")
				break
			}
			if r == 0 {
				break
			}
			fmt.Println("Key " + str + " is not bound to anything. Press q to quit.")
		case "q":
			cancel()
			return
		}
	}
}
