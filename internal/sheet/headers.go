// =============================================================================
// Invoice Extractor - Header Detection
// =============================================================================
//
// This module finds the header row of a loosely structured sheet and maps
// its columns to canonical fields. Header wording varies wildly across
// customers and languages, so detection is best-fit: every row in a bounded
// search window is scored by how well the data BELOW each alias-matching
// header cell fits the candidate field's expected shape (see the fieldrules
// package), and the highest-scoring eligible row wins.
//
// DETECTION RULES:
//   - A column's candidate fields come from case-insensitive alias matching
//     on the header cell; each candidate is scored from the data cell one
//     row down.
//   - A blank header cell can still map a column when its data matches a
//     headerless-column pattern (the L*W*H volume column).
//   - When exactly two columns each carry the {unit, amount} candidate pair
//     on type evidence alone, the pair is unresolvable by content; the
//     lower column becomes unit, the higher amount, and the row takes a
//     fixed bonus instead of the individual scores.
//   - Per row, columns claim fields greedily left to right: a column keeps
//     its highest-scoring still-unclaimed candidate.
//   - A row is eligible with at least 3 mapped fields; only a strictly
//     higher score replaces the current best, so the result is
//     deterministic for a fixed grid and configuration.
//
// Additional tables further down the sheet repeat the header. Those rows
// are located afterwards with a looser identification regex; they reuse the
// primary row's column mapping.
//
// =============================================================================

package sheet

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/rs/zerolog"

	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/config"
	"github.com/jamen4357-svg/generated-shippinglist-invoice-sub001/internal/fieldrules"
)

// ErrHeaderNotFound reports that no row in the search window passed
// validation. Fatal for the sheet.
var ErrHeaderNotFound = errors.New("no header row found in search window")

// unitAmountTieBonus replaces the individual scores of an unresolvable
// {unit, amount} column pair.
const unitAmountTieBonus = 10

// eligibleFieldCount is the minimum number of mapped fields a row needs to
// qualify as a header.
const eligibleFieldCount = 3

// Mapping assigns canonical fields to 1-based column indexes. Valid for one
// detected header row (and the repeated header rows below it).
type Mapping map[string]int

// Detector locates header rows. Immutable after construction.
type Detector struct {
	window config.SearchWindow
	rules  *fieldrules.Engine
	ident  *regexp.Regexp
	log    zerolog.Logger
}

// NewDetector builds a Detector from the configuration and a compiled rule
// engine.
func NewDetector(cfg *config.Config, rules *fieldrules.Engine, log zerolog.Logger) (*Detector, error) {
	ident, err := regexp.Compile("(?i)" + cfg.HeaderIdentificationPattern)
	if err != nil {
		return nil, fmt.Errorf("header identification pattern: %w", err)
	}
	return &Detector{
		window: cfg.HeaderSearch,
		rules:  rules,
		ident:  ident,
		log:    log,
	}, nil
}

// candidate is one (field, score) option for a column.
type candidate struct {
	field string
	score int
}

// FindHeader scans the search window and returns the best header row and
// its column mapping, or ErrHeaderNotFound.
func (d *Detector) FindHeader(g *Grid) (int, Mapping, error) {
	bestRow := 0
	bestScore := 0
	var bestMapping Mapping

	for row := d.window.RowStart; row <= d.window.RowEnd; row++ {
		// The data row below must exist for scoring.
		if row+1 > g.Rows() {
			continue
		}

		mapping, score := d.evaluateRow(g, row)

		d.log.Debug().
			Int("row", row).
			Int("score", score).
			Int("fields", len(mapping)).
			Msg("Evaluated header candidate row")

		if len(mapping) >= eligibleFieldCount && score > bestScore {
			bestRow = row
			bestScore = score
			bestMapping = mapping
			d.log.Debug().
				Int("row", row).
				Int("score", score).
				Msg("New best header candidate")
		}
	}

	if bestMapping == nil {
		return 0, nil, ErrHeaderNotFound
	}

	d.log.Info().
		Int("header_row", bestRow).
		Int("score", bestScore).
		Int("mapped_fields", len(bestMapping)).
		Msg("Header row confirmed")
	for field, col := range bestMapping {
		d.log.Debug().
			Str("field", field).
			Str("column", columnLetter(col)).
			Msg("Mapped column")
	}
	return bestRow, bestMapping, nil
}

// evaluateRow scores one candidate header row and builds its field mapping.
func (d *Detector) evaluateRow(g *Grid, row int) (Mapping, int) {
	columnCandidates := make(map[int][]candidate)

	for col := d.window.ColStart; col <= d.window.ColEnd; col++ {
		headerCell := g.At(row, col)
		dataCell := g.At(row+1, col)

		if !headerCell.IsEmpty() {
			var scored []candidate
			for _, field := range d.rules.CandidateFields(headerCell.String()) {
				if s := d.rules.Score(field, dataCell); s > 0 {
					scored = append(scored, candidate{field: field, score: s})
				}
			}
			if len(scored) > 0 {
				columnCandidates[col] = scored
			}
			continue
		}

		if field, s := d.rules.ScoreHeaderless(dataCell); s > 0 {
			columnCandidates[col] = []candidate{{field: field, score: s}}
		}
	}

	mapping := make(Mapping)
	score := 0
	claimed := make(map[string]bool)

	// An unresolvable unit/amount pair is assigned by column order with a
	// fixed bonus; content gave no way to tell the two apart.
	if c1, c2, ok := findUnitAmountTie(columnCandidates); ok {
		mapping["unit"] = c1
		mapping["amount"] = c2
		claimed["unit"] = true
		claimed["amount"] = true
		score += unitAmountTieBonus
		delete(columnCandidates, c1)
		delete(columnCandidates, c2)
	}

	for _, col := range sortedColumns(columnCandidates) {
		best := candidate{}
		for _, c := range columnCandidates[col] {
			if claimed[c.field] {
				continue
			}
			if c.score > best.score {
				best = c
			}
		}
		if best.field == "" {
			continue
		}
		mapping[best.field] = col
		claimed[best.field] = true
		score += best.score
	}

	return mapping, score
}

// findUnitAmountTie reports the two columns of an unresolvable unit/amount
// pair: exactly two columns whose candidate sets are exactly {unit, amount}
// with every score at the type-match level. Returned in ascending order.
func findUnitAmountTie(columnCandidates map[int][]candidate) (int, int, bool) {
	var tieCols []int
	for col, candidates := range columnCandidates {
		if isUnitAmountTypeTie(candidates) {
			tieCols = append(tieCols, col)
		}
	}
	if len(tieCols) != 2 {
		return 0, 0, false
	}
	sort.Ints(tieCols)
	return tieCols[0], tieCols[1], true
}

func isUnitAmountTypeTie(candidates []candidate) bool {
	if len(candidates) != 2 {
		return false
	}
	seen := make(map[string]bool, 2)
	for _, c := range candidates {
		if c.score != fieldrules.ScoreTypeMatch {
			return false
		}
		seen[c.field] = true
	}
	return seen["unit"] && seen["amount"]
}

func sortedColumns(m map[int][]candidate) []int {
	cols := make([]int, 0, len(m))
	for col := range m {
		cols = append(cols, col)
	}
	sort.Ints(cols)
	return cols
}

// FindAdditionalHeaderRows locates repeated header rows below the primary
// one using the looser identification regex. A row qualifies when any cell
// in the search column range matches. Returned sorted ascending.
func (d *Detector) FindAdditionalHeaderRows(g *Grid, afterRow int) []int {
	startRow := d.window.RowStart
	if afterRow+1 > startRow {
		startRow = afterRow + 1
	}
	endRow := g.Rows()
	endCol := d.window.ColEnd
	if g.Cols() < endCol {
		endCol = g.Cols()
	}

	var found []int
	for row := startRow; row <= endRow; row++ {
		for col := d.window.ColStart; col <= endCol; col++ {
			cell := g.At(row, col)
			if cell.IsEmpty() {
				continue
			}
			if d.ident.MatchString(cell.String()) {
				found = append(found, row)
				break
			}
		}
	}

	if len(found) > 0 {
		d.log.Info().
			Ints("rows", found).
			Msg("Found additional header rows")
	}
	return found
}
