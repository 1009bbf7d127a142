package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/nbd-wtf/go-nostr"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
	"tokensale/engine/actors"
	"tokensale/engine/library"
	"tokensale/messaging/blocks"
	"tokensale/messaging/eventcatcher"
	"tokensale/messaging/eventconductor"
	"tokensale/state/assets"
	"tokensale/state/claimtokens"
	"tokensale/state/replay"
	"tokensale/state/sale"
	"tokensale/storage"
	"tokensale/storage/badger"
	"tokensale/storage/memory"
)

func main() {
	// Various aspect of this application require global and local settings. To keep things
	// clean and tidy we put these settings in a Viper configuration.
	conf := viper.New()

	// Now we initialise this configuration with basic settings that are required on startup.
	actors.InitConfig(conf)
	// make the config accessible globally
	actors.SetConfig(conf)

	terminate := make(chan struct{})
	actors.SetTerminateChan(terminate)
	ctx, cancel := context.WithCancel(context.Background())

	var publish chan nostr.Event
	if conf.GetBool("publish") {
		publish = actors.StartRelaysForPublishing(ctx, conf.GetStringSlice("relays"))
	}
	e, err := buildEngine(conf, actors.MyWallet(), func(ev nostr.Event) {
		if publish == nil {
			library.LogCLI(fmt.Sprintf("not publishing %s of kind %d", ev.ID, ev.Kind), 5)
			return
		}
		select {
		case publish <- ev:
		case <-ctx.Done():
		}
	})
	if err != nil {
		library.LogCLI(err.Error(), 0)
		os.Exit(1)
	}
	library.LogCLI(fmt.Sprintf("Sale engine started, sale account %s", e.sale.Account()), 4)

	events := make(chan nostr.Event)
	eose := make(chan bool)
	filters := eventcatcher.Filters(conf.GetString("blockSource"))
	for _, relay := range conf.GetStringSlice("relays") {
		go eventcatcher.SubscribeToSale(ctx, relay, filters, events, eose)
	}
	go func() {
		for range eose {
			library.LogCLI("Caught up with stored events", 4)
		}
	}()
	go e.conductor.Run(ctx, events, time.Millisecond*100)

	interrupt := make(chan struct{})
	go cliListener(interrupt, e)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case <-interrupt:
	case <-sigs:
	}
	cancel()
	actors.Shutdown()
	e.shutdown()
	fmt.Println("Bye")
	os.Exit(0)
}

type engine struct {
	sale      *sale.Mind
	directory *assets.Directory
	replay    *replay.Replay
	chain     *blocks.Chain
	conductor *eventconductor.Conductor
	close     func() error
}

// buildEngine wires the minds, their store and the conductor from conf.
func buildEngine(conf *viper.Viper, w library.Wallet, publish func(nostr.Event)) (*engine, error) {
	db, closer, err := openStore(conf)
	if err != nil {
		return nil, err
	}
	directory, err := genesis(conf, db)
	if err != nil {
		closer()
		return nil, err
	}
	var clock sale.Clock = blocks.NewSystem()
	var chain *blocks.Chain
	if conf.GetString("clock") == "blocks" {
		chain = blocks.NewChain(conf.GetString("blockSource"))
		clock = chain
	}
	mind := sale.New(db, directory, clock, actors.SaleAccount(conf),
		sale.WithSink(eventconductor.NewReceipts(w, publish)))
	r := replay.New(db, actors.ReplayPrevention)
	return &engine{
		sale:      mind,
		directory: directory,
		replay:    r,
		chain:     chain,
		conductor: eventconductor.New(eventconductor.Minds{
			Sale:   mind,
			Assets: directory,
			Replay: r,
			Chain:  chain,
		}, w, publish),
		close: closer,
	}, nil
}

func openStore(conf *viper.Viper) (storage.Beginner, func() error, error) {
	switch s := conf.GetString("storage"); s {
	case "memory":
		return memory.New(), func() error { return nil }, nil
	case "badger":
		dir := conf.GetString("badgerDir")
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(conf.GetString("rootDir"), dir)
		}
		db, err := badger.New(dir)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage %q, use memory or badger", s)
	}
}

// genesis creates the configured ledgers and registry over db and mints the
// genesis balances the first time db is used.
func genesis(conf *viper.Viper, db storage.Beginner) (*assets.Directory, error) {
	directory := assets.NewDirectory()
	ids := []library.Account{conf.GetString("tokenLedger"), conf.GetString("currencyLedger")}
	balances, err := actors.GenesisBalances(conf)
	if err != nil {
		return nil, err
	}
	for id := range balances {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		directory.AddLedger(assets.NewLedger(db, id))
	}
	directory.AddRegistry(claimtokens.New(db, conf.GetString("claimTokenRegistry"), actors.ClaimTokenIssuer(conf)))
	seeded, err := directory.Seed(context.Background(), db, balances)
	if err != nil {
		return nil, err
	}
	if !seeded {
		library.LogCLI("Genesis balances are already in the store", 4)
	}
	return directory, nil
}

func (e *engine) shutdown() {
	if b, err := json.Marshal(e.conductor.CurrentState()); err == nil {
		actors.Write("snapshots", "current", b)
	} else {
		library.LogCLI(err.Error(), 1)
	}
	if err := e.close(); err != nil {
		library.LogCLI(err.Error(), 1)
	}
}
