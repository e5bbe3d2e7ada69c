package layout

// epsilon absorbs float noise when comparing heights.
const epsilon = 0.01

// Rules control where blocks may be split.
type Rules struct {
	// Orphans is the minimum number of lines left at the bottom of a page.
	Orphans int
	// Widows is the minimum number of lines carried to the next page.
	Widows int
}

// DefaultRules keeps at least two lines on each side of a split.
func DefaultRules() Rules {
	return Rules{Orphans: 2, Widows: 2}
}

// Slice is the part [From, To) of block Block that lands on a page.
type Slice struct {
	Block    int
	From     float64
	To       float64
	Overflow bool // cut where no break was allowed
}

// Height is the vertical extent of the slice.
func (s Slice) Height() float64 {
	return s.To - s.From
}

// PageSlices is the content of one page.
type PageSlices []Slice

// Paginate breaks measured blocks into pages of the geometry's content
// height. It always returns at least one page. Blocks keep their order and
// every non-break block appears on at least one page. A geometry without
// content height puts each block, clipped, on its own page.
func Paginate(geom Geometry, measures []Measure, rules Rules) []PageSlices {
	p := paginator{budget: geom.ContentHeight(), rules: rules}
	for i := range measures {
		p.place(i, measures)
	}
	p.flush()
	if len(p.pages) == 0 {
		p.pages = []PageSlices{{}}
	}
	return p.pages
}

type paginator struct {
	budget float64
	rules  Rules
	pages  []PageSlices
	cur    PageSlices
	used   float64
}

func (p *paginator) flush() {
	if len(p.cur) == 0 {
		return
	}
	p.pages = append(p.pages, p.cur)
	p.cur = nil
	p.used = 0
}

func (p *paginator) add(s Slice) {
	p.cur = append(p.cur, s)
	p.used += s.Height()
}

func (p *paginator) place(i int, measures []Measure) {
	m := measures[i]
	if m.ForceBreak {
		p.flush()
		return
	}

	if p.budget <= 0 {
		// No content area: the block is clipped on a page of its own.
		p.flush()
		p.add(Slice{Block: i, To: m.Height, Overflow: true})
		p.flush()
		return
	}

	breaks := allowedBreaks(m.Breaks, m.Height, p.rules)
	from := 0.0
	for {
		avail := p.budget - p.used
		remaining := m.Height - from

		if remaining <= avail+epsilon {
			if from == 0 && m.KeepWithNext && p.used > 0 && i+1 < len(measures) {
				need := remaining + firstPiece(measures[i+1], p.rules)
				if need > avail+epsilon && need <= p.budget+epsilon {
					p.flush()
				}
			}
			p.add(Slice{Block: i, From: from, To: m.Height})
			return
		}

		if brk := lastBreakWithin(breaks, from, from+avail); brk > from {
			p.add(Slice{Block: i, From: from, To: brk})
			p.flush()
			from = brk
			continue
		}

		if p.used > 0 {
			p.flush()
			continue
		}

		// Nothing fits on an empty page: cut at the bottom edge.
		to := from + p.budget
		p.add(Slice{Block: i, From: from, To: to, Overflow: true})
		p.flush()
		from = to
	}
}

// allowedBreaks drops break candidates that would leave fewer than Orphans
// lines before or Widows lines after the split. Candidates outside
// (0, height) are ignored.
func allowedBreaks(breaks []float64, height float64, rules Rules) []float64 {
	lines := len(breaks) + 1
	lo := max(rules.Orphans, 1) - 1
	hi := lines - max(rules.Widows, 1) - 1
	var out []float64
	for i, b := range breaks {
		if i < lo || i > hi || b <= 0 || b >= height {
			continue
		}
		out = append(out, b)
	}
	return out
}

func lastBreakWithin(breaks []float64, from, limit float64) float64 {
	best := from
	for _, b := range breaks {
		if b <= from {
			continue
		}
		if b > limit+epsilon {
			break
		}
		best = b
	}
	return best
}

// firstPiece is the smallest leading part of a block that may end a page.
func firstPiece(m Measure, rules Rules) float64 {
	if m.ForceBreak {
		return 0
	}
	if b := allowedBreaks(m.Breaks, m.Height, rules); len(b) > 0 {
		return b[0]
	}
	return m.Height
}
