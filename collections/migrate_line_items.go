package collections

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

var legacyUnitTypes = map[string]string{
	"m2":     "area",
	"m²":     "area",
	"ml":     "linear",
	"area":   "area",
	"linear": "linear",
}

// MigrateLegacyLineItems rewrites line items stored in the older shape
// (productType/productPrice, m2/ml unit codes, missing dimensions) into the
// current one. Records already in the current shape are left untouched, so it
// is safe to call on every startup. It returns the number of records updated.
func MigrateLegacyLineItems(app core.App) (int, error) {
	updated := 0
	for _, name := range []string{Quotes, Sales} {
		records, err := app.FindAllRecords(name)
		if err != nil {
			return updated, fmt.Errorf("migrate: could not load %s: %w", name, err)
		}

		for _, rec := range records {
			var items []map[string]any
			if err := rec.UnmarshalJSONField("items", &items); err != nil {
				log.Printf("migrate: %s %s has unreadable items, skipping: %v", name, rec.Id, err)
				continue
			}

			changed := false
			for _, it := range items {
				if NormalizeLineItem(it) {
					changed = true
				}
			}
			if !changed {
				continue
			}

			rec.Set("items", items)
			if err := app.Save(rec); err != nil {
				log.Printf("migrate: failed to update %s %s: %v", name, rec.Id, err)
				continue
			}
			updated++
		}
	}

	if updated > 0 {
		log.Printf("migrate: normalized line items on %d record(s)", updated)
	}
	return updated, nil
}

// NormalizeLineItem converts one stored item map in place and reports whether
// anything changed.
func NormalizeLineItem(it map[string]any) bool {
	changed := false

	if legacy, ok := it["productType"]; ok {
		if _, has := it["unitType"]; !has {
			it["unitType"] = legacy
		}
		delete(it, "productType")
		changed = true
	}
	if unit, ok := it["unitType"].(string); ok {
		if mapped, known := legacyUnitTypes[unit]; known && mapped != unit {
			it["unitType"] = mapped
			changed = true
		}
	}

	if legacy, ok := it["productPrice"]; ok {
		if _, has := it["unitPrice"]; !has {
			it["unitPrice"] = legacy
		}
		delete(it, "productPrice")
		changed = true
	}

	if _, ok := it["total"]; ok {
		delete(it, "total")
		changed = true
	}

	for _, key := range []string{"length", "width", "quantity"} {
		if !positive(it[key]) {
			it[key] = 1
			changed = true
		}
	}

	return changed
}

// positive treats numbers and numeric strings; anything else counts as unset.
func positive(v any) bool {
	switch n := v.(type) {
	case float64:
		return n > 0
	case json.Number:
		f, err := n.Float64()
		return err == nil && f > 0
	case string:
		var f float64
		if _, err := fmt.Sscan(n, &f); err != nil {
			return false
		}
		return f > 0
	}
	return false
}
