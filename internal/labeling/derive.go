// Package labeling derives regulatory lot numbers and expiry dates for
// product batches. Derivation is a pure function of the batch inputs so that
// re-running it for unchanged inputs always yields the same label values.
package labeling

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/traceopshq/traceops/internal/models"
)

// lotSanitizer matches runs of characters outside the lot alphabet.
var lotSanitizer = regexp.MustCompile(`[^A-Z0-9-]+`)

// Derivation is the result of deriving label values for a batch.
type Derivation struct {
	LotNumber  string      `json:"lot_number"`
	ExpiryDate models.Date `json:"expiry_date"`
}

// Derive computes the lot number and expiry date for a batch.
//
// The expiry date is batchDate advanced by shelfLifeMonths calendar months
// with end-of-month clamping. The lot number encodes the batch id and batch
// date; it is deterministic and unique per distinct (batchID, batchDate)
// pair. Invalid inputs are rejected, never clamped.
func Derive(batchID string, batchDate models.Date, shelfLifeMonths int) (Derivation, error) {
	if batchID == "" {
		return Derivation{}, models.ErrMissingBatchID
	}
	if batchDate.IsZero() {
		return Derivation{}, models.ErrMissingBatchDate
	}
	if shelfLifeMonths < 0 {
		return Derivation{}, fmt.Errorf("%w: got %d", models.ErrNegativeShelfLife, shelfLifeMonths)
	}

	return Derivation{
		LotNumber:  LotNumber(batchID, batchDate),
		ExpiryDate: batchDate.AddMonths(shelfLifeMonths),
	}, nil
}

// LotNumber encodes a batch id and batch date as "<BATCHID>-<YYMMDD>".
// The batch id is upper-cased and each run of characters outside [A-Z0-9-]
// is collapsed to a single "-", so ids that differ in their printable
// content keep distinct lots ("A B" becomes A-B, not AB). The exact
// encoding is a business rule placeholder; the contract is determinism and
// per-(batchID, batchDate) uniqueness.
func LotNumber(batchID string, batchDate models.Date) string {
	id := lotSanitizer.ReplaceAllString(strings.ToUpper(batchID), "-")
	return id + "-" + batchDate.Format("060102")
}
