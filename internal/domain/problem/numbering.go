package problem

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"helpdesk/internal/shared/constants"
)

// NumberGenerator issues ticket numbers. Generate must be called inside the
// transaction that persists the problem so a rolled-back create gives its
// number back.
type NumberGenerator interface {
	Generate(ctx context.Context, year int) (string, error)
}

// FormatNumber renders PRB-{year}-{seq}, zero-padding seq to four digits.
// Larger sequences keep all their digits.
func FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%0*d", constants.ProblemNumberPrefix, year, constants.ProblemNumberPadWidth, seq)
}

// ParseSequence extracts the numeric suffix after the last dash.
// ok is false when the number has no parseable suffix.
func ParseSequence(number string) (seq int64, ok bool) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, false
	}
	n, err := strconv.ParseInt(number[idx+1:], 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
