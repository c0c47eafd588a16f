// =============================================================================
// Invoice Extractor - FOB Compounding
// =============================================================================
//
// Compounding turns an aggregation map into the final display groups: each
// group carries combined PO / item / description text plus summed totals.
//
// TWO SPLIT PATHS:
//   - Description split: taken when any entry has a non-blank description.
//     Entries partition by whether the description contains the reserved
//     category marker (default "BUFFALO", case-insensitive). Always exactly
//     two groups, "1" marked and "2" other, even when one side is empty.
//   - PO count split: taken when no entry has a description. Entries fold
//     into per-PO totals; the sorted distinct POs partition into groups of
//     a fixed size (default 5), numbered "1", "2", ...
//
// Identifier lists are distinct-sorted, then joined in chunks (default 2
// per chunk, "/" inside a chunk, newline between chunks). The chunk size
// and the PO group size are independent settings; tests exercise them
// separately.
//
// Empty input returns the two default empty groups so downstream document
// code always sees the same shape.
//
// =============================================================================

package compound

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/aggregate"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/config"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/types"
)

// Result maps group index ("1", "2", ...) to its compounded group.
type Result map[string]types.Group

// Compounder builds the final display groups.
type Compounder struct {
	settings config.CompoundingSettings
	log      zerolog.Logger
}

// NewCompounder builds a Compounder from the configuration.
func NewCompounder(cfg *config.Config, log zerolog.Logger) *Compounder {
	return &Compounder{settings: cfg.Compounding, log: log}
}

// Compound converts one aggregation's entries into display groups.
func (c *Compounder) Compound(entries []aggregate.KeyedEntry) Result {
	if len(entries) == 0 {
		c.log.Warn().Msg("Aggregation map is empty, returning default FOB groups")
		return Result{
			"1": emptyGroup(),
			"2": emptyGroup(),
		}
	}

	for _, e := range entries {
		if e.Key.HasDescription && strings.TrimSpace(e.Key.Description) != "" {
			c.log.Info().Msg("Description data present, compounding by category split")
			return c.descriptionSplit(entries)
		}
	}

	c.log.Info().Msg("No description data, compounding by PO count split")
	return c.poCountSplit(entries)
}

// bucket accumulates one description-split side.
type bucket struct {
	pos    map[string]bool
	items  map[string]bool
	descs  map[string]bool
	sqft   decimal.Decimal
	amount decimal.Decimal
}

func newBucket() *bucket {
	return &bucket{
		pos:    make(map[string]bool),
		items:  make(map[string]bool),
		descs:  make(map[string]bool),
		sqft:   decimal.Zero,
		amount: decimal.Zero,
	}
}

// descriptionSplit partitions entries by the reserved category marker.
func (c *Compounder) descriptionSplit(entries []aggregate.KeyedEntry) Result {
	marker := strings.ToUpper(c.settings.CategoryMarker)
	marked := newBucket()
	other := newBucket()

	for _, e := range entries {
		desc := ""
		if e.Key.HasDescription {
			desc = strings.TrimSpace(e.Key.Description)
		}

		b := other
		if desc != "" && strings.Contains(strings.ToUpper(desc), marker) {
			b = marked
		}

		b.pos[e.Key.PO] = true
		b.items[e.Key.Item] = true
		if desc != "" {
			b.descs[desc] = true
		}
		b.sqft = b.sqft.Add(e.Entry.Quantity)
		b.amount = b.amount.Add(e.Entry.Amount)
	}

	return Result{
		"1": c.bucketGroup(marked),
		"2": c.bucketGroup(other),
	}
}

func (c *Compounder) bucketGroup(b *bucket) types.Group {
	return types.Group{
		CombinedPO:          c.formatChunks(sortedKeys(b.pos), c.settings.ChunkSize, c.settings.IntraSeparator),
		CombinedItem:        c.formatChunks(sortedKeys(b.items), c.settings.ChunkSize, c.settings.IntraSeparator),
		CombinedDescription: c.formatChunks(sortedKeys(b.descs), 1, ""),
		TotalQuantity:       b.sqft,
		TotalAmount:         b.amount,
	}
}

// poTotals is the per-PO fold of the PO-count-split path.
type poTotals struct {
	sqft   decimal.Decimal
	amount decimal.Decimal
	items  map[string]bool
}

// poCountSplit folds entries by PO alone and partitions the sorted distinct
// POs into fixed-size groups.
func (c *Compounder) poCountSplit(entries []aggregate.KeyedEntry) Result {
	byPO := make(map[string]*poTotals)
	for _, e := range entries {
		t, ok := byPO[e.Key.PO]
		if !ok {
			t = &poTotals{sqft: decimal.Zero, amount: decimal.Zero, items: make(map[string]bool)}
			byPO[e.Key.PO] = t
		}
		t.sqft = t.sqft.Add(e.Entry.Quantity)
		t.amount = t.amount.Add(e.Entry.Amount)
		t.items[e.Key.Item] = true
	}

	sortedPOs := make([]string, 0, len(byPO))
	for po := range byPO {
		sortedPOs = append(sortedPOs, po)
	}
	sort.Strings(sortedPOs)

	groupSize := c.settings.POGroupSize
	result := make(Result)

	for start := 0; start < len(sortedPOs); start += groupSize {
		end := start + groupSize
		if end > len(sortedPOs) {
			end = len(sortedPOs)
		}
		groupPOs := sortedPOs[start:end]

		sqft := decimal.Zero
		amount := decimal.Zero
		items := make(map[string]bool)
		for _, po := range groupPOs {
			t := byPO[po]
			sqft = sqft.Add(t.sqft)
			amount = amount.Add(t.amount)
			for item := range t.items {
				items[item] = true
			}
		}

		index := strconv.Itoa(start/groupSize + 1)
		result[index] = types.Group{
			CombinedPO:          c.formatChunks(groupPOs, c.settings.ChunkSize, c.settings.IntraSeparator),
			CombinedItem:        c.formatChunks(sortedKeys(items), c.settings.ChunkSize, c.settings.IntraSeparator),
			CombinedDescription: "",
			TotalQuantity:       sqft,
			TotalAmount:         amount,
		}
	}

	c.log.Info().Int("groups", len(result)).Msg("PO count split compounding complete")
	return result
}

// formatChunks joins items in chunks of the given size with intraSep inside
// a chunk and the configured inter-chunk separator between chunks.
func (c *Compounder) formatChunks(items []string, chunkSize int, intraSep string) string {
	if len(items) == 0 {
		return ""
	}
	chunks := make([]string, 0, (len(items)+chunkSize-1)/chunkSize)
	for start := 0; start < len(items); start += chunkSize {
		end := start + chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, strings.Join(items[start:end], intraSep))
	}
	return strings.Join(chunks, c.settings.InterSeparator)
}

func emptyGroup() types.Group {
	return types.Group{
		TotalQuantity: decimal.Zero,
		TotalAmount:   decimal.Zero,
	}
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
