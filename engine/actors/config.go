package actors

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"tokensale/engine/library"
)

// Anchors. Every sale operation replies to SaleRoot, so relays can be asked
// for the whole sale with one tag filter.
const SaleRoot string = "fff53f17975df81386831e894d0bb592bbc59a67937e6c4bf2dbf13f10d4198f"
const ReplayPrevention string = "9cda9a520f5449c54caa01abd83bf7f07fd1554ba7e957548c0de2f36d0353bb"
const CurrentStates string = "dc01281e1977d8d1344db0746e43ba3b0c238681c5d8e963c5848f7a26994223"
const Receipts string = "8fa0c7d7d98d0017417fe15f08b1a1a63339d08aa3887feabd6e8b8c2e45ef1f"

// InitConfig sets up our Viper config object
func InitConfig(config *viper.Viper) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	config.SetDefault("rootDir", homeDir+"/tokensale/")
	config.SetConfigType("yaml")
	config.SetConfigFile(config.GetString("rootDir") + "config.yaml")
	err = config.ReadInConfig()
	if err != nil {
		library.LogCLI(err.Error(), 4)
	}
	config.SetDefault("flatFileDir", "data/")
	config.SetDefault("storage", "badger")
	config.SetDefault("badgerDir", "db/")
	config.SetDefault("logLevel", 4)
	config.SetDefault("publish", true)
	config.SetDefault("relays", []string{"wss://nostr.688.org", "wss://nos.lol"})
	config.SetDefault("clock", "system")
	config.SetDefault("blockSource", "")
	// the sale account defaults to this engine's wallet, see SaleAccount
	config.SetDefault("saleAccount", "")
	config.SetDefault("tokenLedger", "token")
	config.SetDefault("currencyLedger", "currency")
	config.SetDefault("claimTokenRegistry", "claimtokens")
	// only this account mints claim tokens, empty means the sale account
	config.SetDefault("claimTokenIssuer", "")
	config.SetDefault("genesisBalances", map[string]map[string]string{})
	// Create our working directory and config file if not exist
	initRootDir(config)
	touch(config.GetString("rootDir") + "config.yaml")
	err = config.WriteConfig()
	if err != nil {
		library.LogCLI(err.Error(), 0)
	}
	library.SetLogLevel(config.GetInt("logLevel"))
}

func initRootDir(conf *viper.Viper) {
	_, err := os.Stat(conf.GetString("rootDir"))
	if os.IsNotExist(err) {
		err = os.MkdirAll(conf.GetString("rootDir"), 0755)
		if err != nil {
			library.LogCLI(err, 0)
		}
	}
}

func touch(name string) {
	f, err := os.OpenFile(name, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		library.LogCLI(err, 1)
		return
	}
	f.Close()
}

// GenesisBalances is ledger id to account to decimal amount, minted when the engine starts.
func GenesisBalances(conf *viper.Viper) (map[library.Account]map[library.Account]string, error) {
	m := make(map[library.Account]map[library.Account]string)
	if err := conf.UnmarshalKey("genesisBalances", &m); err != nil {
		return nil, fmt.Errorf("genesisBalances: %w", err)
	}
	return m, nil
}

// SaleAccount is the configured sale account, or this engine's own account.
func SaleAccount(conf *viper.Viper) library.Account {
	if a := conf.GetString("saleAccount"); !library.IsZeroAccount(a) {
		return a
	}
	return MyWallet().Account
}

// ClaimTokenIssuer is the account allowed to mint claim tokens.
func ClaimTokenIssuer(conf *viper.Viper) library.Account {
	if a := conf.GetString("claimTokenIssuer"); !library.IsZeroAccount(a) {
		return a
	}
	return SaleAccount(conf)
}

var conf *viper.Viper

func MakeOrGetConfig() *viper.Viper {
	return conf
}

func SetConfig(config *viper.Viper) {
	conf = config
}
