// =============================================================================
// Invoice Extractor - Aggregation
// =============================================================================
//
// Every distributed table folds into two process-wide running totals:
//
//   STANDARD  key = (po, item, unit price, description) — rows with equal
//             price merge; differing prices stay separate entries.
//   CUSTOM    key = (po, item, null, description) — price is fixed to null
//             so rows merge regardless of price.
//
// Both accumulators fold every table. Which map later feeds compounding is
// the processor's choice; the other map is still serialized for audit.
//
// An accumulator is an explicit object owned by one run. It must never be
// shared across runs or folded concurrently.
//
// =============================================================================

package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

// Sentinel key components for rows missing their identifying cells.
const (
	MissingPO   = "<MISSING_PO>"
	MissingItem = "<MISSING_ITEM>"
)

// Mode selects the keying strategy.
type Mode int

const (
	// Standard keys on (po, item, price, description).
	Standard Mode = iota

	// Custom keys on (po, item, null, description).
	Custom
)

// String returns the mode name used in logs and output metadata.
func (m Mode) String() string {
	if m == Custom {
		return "custom"
	}
	return "standard"
}

// Key is one aggregation key. Price and Description are optional; their Has
// flags distinguish null from an empty string. Price is canonical decimal
// text so 1.5 and 1.50 land on the same entry.
type Key struct {
	PO             string
	Item           string
	Price          string
	HasPrice       bool
	Description    string
	HasDescription bool
}

// String renders the key the way it appears in serialized output:
// "(po, item, price, description)" with <nil> for null positions.
func (k Key) String() string {
	price := "<nil>"
	if k.HasPrice {
		price = k.Price
	}
	desc := "<nil>"
	if k.HasDescription {
		desc = k.Description
	}
	return fmt.Sprintf("(%s, %s, %s, %s)", k.PO, k.Item, price, desc)
}

// Entry is the running sums for one key.
type Entry struct {
	Quantity decimal.Decimal
	Amount   decimal.Decimal
}

// Accumulator folds tables into a keyed total map.
type Accumulator struct {
	mode    Mode
	entries map[Key]*Entry
	log     zerolog.Logger
}

// New creates an empty accumulator for one run.
func New(mode Mode, log zerolog.Logger) *Accumulator {
	return &Accumulator{
		mode:    mode,
		entries: make(map[Key]*Entry),
		log:     log,
	}
}

// Mode returns the accumulator's keying strategy.
func (a *Accumulator) Mode() Mode { return a.mode }

// Len returns the number of distinct keys accumulated so far.
func (a *Accumulator) Len() int { return len(a.entries) }

// requiredFields are the sequences a table must carry, per mode.
func (a *Accumulator) requiredFields() []string {
	if a.mode == Custom {
		return []string{"po", "item", "sqft", "amount"}
	}
	return []string{"po", "item", "unit", "sqft", "amount"}
}

// Fold adds one distributed table to the running totals. A table missing a
// required sequence, or with mismatched sequence lengths, is skipped for
// this strategy with a warning; other tables and the other strategy are
// unaffected.
func (a *Accumulator) Fold(table *types.Table) {
	required := a.requiredFields()
	for _, field := range required {
		if !table.Has(field) {
			a.log.Warn().
				Int("table", table.Index).
				Str("mode", a.mode.String()).
				Str("missing_field", field).
				Msg("Skipping table for aggregation, required column missing")
			return
		}
	}

	rows := len(table.Columns["po"])
	checked := append([]string{}, required...)
	if table.Has("description") {
		checked = append(checked, "description")
	}
	for _, field := range checked {
		if len(table.Columns[field]) != rows {
			a.log.Error().
				Int("table", table.Index).
				Str("mode", a.mode.String()).
				Str("field", field).
				Int("rows", len(table.Columns[field])).
				Int("expected", rows).
				Msg("Skipping table for aggregation, column length mismatch")
			return
		}
	}

	for i := 0; i < rows; i++ {
		key := a.rowKey(table, i)

		entry, ok := a.entries[key]
		if !ok {
			entry = &Entry{Quantity: decimal.Zero, Amount: decimal.Zero}
			a.entries[key] = entry
		}
		entry.Quantity = entry.Quantity.Add(decimalOrZero(table.Columns["sqft"][i]))
		entry.Amount = entry.Amount.Add(decimalOrZero(table.Columns["amount"][i]))
	}

	a.log.Debug().
		Int("table", table.Index).
		Str("mode", a.mode.String()).
		Int("rows", rows).
		Int("map_size", len(a.entries)).
		Msg("Folded table into aggregation map")
}

// rowKey builds the aggregation key for one row.
func (a *Accumulator) rowKey(table *types.Table, i int) Key {
	key := Key{
		PO:   keyComponent(table.Columns["po"][i], MissingPO),
		Item: keyComponent(table.Columns["item"][i], MissingItem),
	}

	if a.mode == Standard {
		if price, ok := table.Columns["unit"][i].AsDecimal(); ok {
			key.Price = canonicalPrice(price)
			key.HasPrice = true
		}
	}

	if descs, ok := table.Columns["description"]; ok {
		if d := descs[i]; !d.IsEmpty() {
			key.Description = d.String()
			key.HasDescription = true
		}
	}

	return key
}

// Entries returns the accumulated (key, entry) pairs sorted by key text,
// so serialization and compounding see a stable order.
func (a *Accumulator) Entries() []KeyedEntry {
	out := make([]KeyedEntry, 0, len(a.entries))
	for k, e := range a.entries {
		out = append(out, KeyedEntry{Key: k, Entry: *e})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key.String() < out[j].Key.String()
	})
	return out
}

// KeyedEntry pairs a key with its sums for ordered traversal.
type KeyedEntry struct {
	Key   Key
	Entry Entry
}

// keyComponent normalizes an identifying cell: trimmed text or decimal
// text, with a sentinel for empty cells.
func keyComponent(v types.Value, sentinel string) string {
	if v.IsEmpty() {
		return sentinel
	}
	return v.String()
}

// canonicalPrice strips trailing fractional zeros so textually different
// spellings of the same price produce one key.
func canonicalPrice(d decimal.Decimal) string {
	s := d.String()
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// decimalOrZero reads a summable cell, defaulting unparseable values to 0.
func decimalOrZero(v types.Value) decimal.Decimal {
	if d, ok := v.AsDecimal(); ok {
		return d
	}
	return decimal.Zero
}
