package library

import "strings"

type Wallet struct {
	PrivateKey string
	SeedWords  string
	Account    Account
}

// Account is the hex encoded public key of a participant. Ledgers and
// registries are identified the same way.
type Account = string

type Sha256 = string

// ZeroAccount is the all-zero identity. It never owns anything.
const ZeroAccount Account = "0000000000000000000000000000000000000000000000000000000000000000"

func IsZeroAccount(a Account) bool {
	return len(strings.Trim(a, "0")) == 0
}
