package sale

// Error is the closed set of reasons a sale operation is rejected. Every
// rejection discards the whole operation.
type Error uint8

const (
	ErrNotInitialized Error = iota + 1
	ErrAlreadyInitialized
	ErrOnlyOwner
	ErrZeroValueArgumentInjected
	ErrInvalidPercentage
	ErrVestingLengthTooShort
	ErrVestingLengthTooLong
	ErrOnlyOnePurchase
	ErrSoldOut
	ErrVestingNotEnabled
	ErrNoTokensVested
	ErrNoTokensPurchased
	ErrAlreadyTokenized
	ErrAllTokensClaimed
	ErrTokensAreVested
	ErrTransferFailed
	ErrArithmeticOverflow
)

func (e Error) String() string {
	if e == 0 || int(e) > len(errorNames) {
		return "UnknownError"
	}
	return errorNames[e-1]
}

func (e Error) Error() string { return e.String() }

// Category groups the variant the way operators triage it.
func (e Error) Category() string {
	switch e {
	case ErrNotInitialized, ErrAlreadyInitialized:
		return "lifecycle"
	case ErrOnlyOwner:
		return "authorization"
	case ErrZeroValueArgumentInjected, ErrInvalidPercentage, ErrVestingLengthTooShort,
		ErrVestingLengthTooLong, ErrArithmeticOverflow:
		return "argument"
	case ErrOnlyOnePurchase, ErrSoldOut:
		return "sale"
	case ErrVestingNotEnabled, ErrNoTokensVested, ErrNoTokensPurchased, ErrAlreadyTokenized,
		ErrAllTokensClaimed, ErrTokensAreVested:
		return "vesting"
	case ErrTransferFailed:
		return "transfer"
	}
	return "unknown"
}

var errorNames = [...]string{
	"NotInitialized",
	"AlreadyInitialized",
	"OnlyOwner",
	"ZeroValueArgumentInjected",
	"InvalidPercentage",
	"VestingLengthTooShort",
	"VestingLengthTooLong",
	"OnlyOnePurchase",
	"SoldOut",
	"VestingNotEnabled",
	"NoTokensVested",
	"NoTokensPurchased",
	"AlreadyTokenized",
	"AllTokensClaimed",
	"TokensAreVested",
	"TransferFailed",
	"ArithmeticOverflow",
}
