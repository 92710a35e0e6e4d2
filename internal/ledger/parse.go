package ledger

import (
	"errors"
	"strconv"
	"strings"
)

// DefaultDescription is recorded when a posting carries no note.
const DefaultDescription = "(no description)"

var (
	// ErrNotPosting marks chat text that is not a posting at all; callers
	// ignore it silently so conversation is never misparsed as a transaction.
	ErrNotPosting = errors.New("not a posting")
	// ErrMalformedAmount marks text that looks like a posting but whose
	// magnitude is zero or does not fit in int64. Rejected, never wrapped.
	ErrMalformedAmount = errors.New("malformed amount")
)

type Posting struct {
	Amount      int64
	Description string
}

// ParsePosting matches one line of the form `sign digits [description]`,
// e.g. "+500 rent" or "-100". Postings are single-line; anything else is
// ErrNotPosting.
func ParsePosting(text string) (Posting, error) {
	s := strings.TrimSpace(text)
	if strings.ContainsRune(s, '\n') {
		return Posting{}, ErrNotPosting
	}
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return Posting{}, ErrNotPosting
	}
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 1 {
		return Posting{}, ErrNotPosting
	}

	mag, err := strconv.ParseInt(s[1:i], 10, 64)
	if err != nil || mag == 0 {
		return Posting{}, ErrMalformedAmount
	}

	desc := strings.TrimSpace(s[i:])
	if desc == "" {
		desc = DefaultDescription
	}
	amount := mag
	if s[0] == '-' {
		amount = -mag
	}
	return Posting{Amount: amount, Description: desc}, nil
}
