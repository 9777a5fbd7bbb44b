package transaction

import (
	"fmt"
	"math/rand/v2"
)

// newID returns a random 12-digit decimal identifier. Uniqueness against the
// ledger is checked by the service at creation time.
func newID() string {
	return fmt.Sprintf("%012d", 100_000_000_000+rand.Int64N(900_000_000_000))
}

// newCode returns a fresh verification code for the given stage. Codes are
// six random digits with a stage-specific prefix, distributed to the customer
// out-of-band and compared by exact string equality.
func newCode(stage Stage) string {
	digits := 100000 + rand.IntN(900000)

	switch stage {
	case StageOTP:
		return fmt.Sprintf("%d", digits)
	case StageCOT:
		return fmt.Sprintf("COT%d", digits)
	case StageToken:
		return fmt.Sprintf("TK%d", digits)
	case Stage2FA:
		return fmt.Sprintf("2FA%d", digits)
	}

	return ""
}
