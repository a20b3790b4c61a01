package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"salesdesk/collections"
)

// OrderPrefix returns the order number prefix for the month of t.
// Oct 2026 → "PED-2610-"
func OrderPrefix(t time.Time) string {
	return fmt.Sprintf("PED-%02d%02d-", t.Year()%100, int(t.Month()))
}

// formatOrderNumber constructs the order number string from components.
func formatOrderNumber(prefix string, sequence int) string {
	return fmt.Sprintf("%s%03d", prefix, sequence)
}

// NextOrderNumber creates the next sale order number for owner.
// Format: PED-{yymm}-{sequence}
//   - yymm: year and month of now
//   - sequence: 3-digit zero-padded, per owner per month, one past the
//     highest existing sequence so deleted sales never cause reuse
func NextOrderNumber(app core.App, owner string, now time.Time) (string, error) {
	prefix := OrderPrefix(now)

	existing, err := app.FindRecordsByFilter(
		collections.Sales,
		"owner = {:owner} && order_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{
			"owner":  owner,
			"prefix": prefix + "%",
		},
	)
	if err != nil {
		return "", &PersistenceError{Op: "scan order numbers", Err: err}
	}

	highest := 0
	for _, rec := range existing {
		seq, err := strconv.Atoi(strings.TrimPrefix(rec.GetString("order_number"), prefix))
		if err == nil && seq > highest {
			highest = seq
		}
	}

	return formatOrderNumber(prefix, highest+1), nil
}
