package serviceability

import (
	"context"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

const PincodeLength = 6

const (
	MsgInvalidPincode = "Please enter a valid 6-digit pincode"
	MsgServiceable    = "Great! We deliver to your location"
	MsgNotServiceable = "Sorry, this location is currently not serviceable"
)

// PincodeSource lists the pincodes currently served.
type PincodeSource interface {
	ActivePincodes(ctx context.Context) ([]string, error)
}

type Result struct {
	Pincode   string `json:"pincode"`
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

type Checker struct {
	source PincodeSource
	logger zerolog.Logger
}

func NewChecker(source PincodeSource, logger zerolog.Logger) *Checker {
	return &Checker{source: source, logger: logger}
}

// SanitizePincode keeps only ASCII digits and truncates to six characters.
func SanitizePincode(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			continue
		}
		b.WriteRune(r)
		if b.Len() == PincodeLength {
			break
		}
	}
	return b.String()
}

// Check reports whether raw, once sanitized, is an exact member of the
// served pincodes. Malformed input is rejected without a lookup. A failed
// lookup is treated as an empty allow-list.
func (c *Checker) Check(ctx context.Context, raw string) Result {
	pincode := SanitizePincode(raw)
	if len(pincode) != PincodeLength {
		return Result{Pincode: pincode, Available: false, Message: MsgInvalidPincode}
	}

	pincodes, err := c.source.ActivePincodes(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("fetch serviceable pincodes")
		pincodes = nil
	}

	for _, p := range pincodes {
		if p == pincode {
			return Result{Pincode: pincode, Available: true, Message: MsgServiceable}
		}
	}
	return Result{Pincode: pincode, Available: false, Message: MsgNotServiceable}
}
