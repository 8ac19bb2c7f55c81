// Package plot renders projection points as a terminal scatter plot with a
// movable cursor.
package plot

import (
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ragplay/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ragplay/internal/core/domain"
)

// Glyphs used on the plot.
const (
	glyphEmpty  = " "
	glyphPoint  = "·"
	glyphResult = "●"
	glyphShown  = "◆"
	glyphQuery  = "★"
)

// Plot is a 2D scatter of projection points. X and Y are plotted; Z is ignored.
type Plot struct {
	styles  *styles.Styles
	points  []domain.Point
	results map[string]bool
	shown   map[string]bool
	query   *domain.Point
	cursor  int
	focused bool
	width   int
	height  int

	minX, maxX float64
	minY, maxY float64
}

// New creates an empty plot.
func New(s *styles.Styles) *Plot {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Plot{
		styles:  s,
		results: map[string]bool{},
		shown:   map[string]bool{},
		width:   60,
		height:  16,
	}
}

// Init initialises the plot.
func (p *Plot) Init() tea.Cmd {
	return nil
}

// Update moves the cursor with the arrow and hjkl keys.
func (p *Plot) Update(msg tea.Msg) (*Plot, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "left", "h":
			p.Move(-1, 0)
		case "right", "l":
			p.Move(1, 0)
		case "up", "k":
			p.Move(0, -1)
		case "down", "j":
			p.Move(0, 1)
		}
	}
	return p, nil
}

// SetPoints replaces the plotted points and resets the cursor.
func (p *Plot) SetPoints(points []domain.Point) {
	p.points = points
	p.cursor = 0
	p.bounds()
}

// SetQuery marks the active query's own point and its result chunks.
// A nil query clears the marks.
func (p *Plot) SetQuery(q *domain.Query) {
	p.results = map[string]bool{}
	p.query = nil
	if q == nil {
		p.bounds()
		return
	}
	for _, id := range q.Results {
		p.results[id] = true
	}
	point := q.Point
	p.query = &point
	p.bounds()
}

// SetShown marks the chunks currently displayed.
func (p *Plot) SetShown(ids map[string]int) {
	p.shown = make(map[string]bool, len(ids))
	for id := range ids {
		p.shown[id] = true
	}
}

// SetFocused marks the plot as the pane receiving keys.
func (p *Plot) SetFocused(focused bool) {
	p.focused = focused
}

// SetDimensions sets the plot area in cells, excluding the frame.
func (p *Plot) SetDimensions(width, height int) {
	if width < 10 {
		width = 10
	}
	if height < 4 {
		height = 4
	}
	p.width = width
	p.height = height
}

// Current returns the point under the cursor.
func (p *Plot) Current() (domain.Point, bool) {
	if p.cursor < 0 || p.cursor >= len(p.points) {
		return domain.Point{}, false
	}
	return p.points[p.cursor], true
}

// Len returns the number of plotted points.
func (p *Plot) Len() int {
	return len(p.points)
}

// Move jumps the cursor to the nearest point in the direction (dx, dy),
// measured in screen cells. It stays put when no point lies that way.
func (p *Plot) Move(dx, dy int) {
	cur, ok := p.Current()
	if !ok {
		return
	}
	cx, cy := p.Cell(cur)

	best, bestScore := -1, math.MaxFloat64
	for i := range p.points {
		if i == p.cursor {
			continue
		}
		x, y := p.Cell(p.points[i])
		ox, oy := float64(x-cx), float64(y-cy)
		along := ox*float64(dx) + oy*float64(dy)
		if along <= 0 {
			continue
		}
		across := math.Abs(ox*float64(dy) - oy*float64(dx))
		score := along + 2*across
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		// Fall back to list order so every point stays reachable.
		switch {
		case dx > 0 || dy > 0:
			if p.cursor < len(p.points)-1 {
				p.cursor++
			}
		default:
			if p.cursor > 0 {
				p.cursor--
			}
		}
		return
	}
	p.cursor = best
}

// Cell maps a point to its column and row.
func (p *Plot) Cell(pt domain.Point) (int, int) {
	return scale(pt.X, p.minX, p.maxX, p.width), p.height - 1 - scale(pt.Y, p.minY, p.maxY, p.height)
}

func scale(v, lo, hi float64, cells int) int {
	if hi <= lo {
		return cells / 2
	}
	c := int((v - lo) / (hi - lo) * float64(cells-1))
	if c < 0 {
		return 0
	}
	if c >= cells {
		return cells - 1
	}
	return c
}

func (p *Plot) bounds() {
	p.minX, p.maxX = math.Inf(1), math.Inf(-1)
	p.minY, p.maxY = math.Inf(1), math.Inf(-1)
	all := p.points
	if p.query != nil {
		all = append(append([]domain.Point(nil), p.points...), *p.query)
	}
	for _, pt := range all {
		p.minX = math.Min(p.minX, pt.X)
		p.maxX = math.Max(p.maxX, pt.X)
		p.minY = math.Min(p.minY, pt.Y)
		p.maxY = math.Max(p.maxY, pt.Y)
	}
}

// View renders the plot.
func (p *Plot) View() string {
	if len(p.points) == 0 {
		return p.styles.Plot.Render(p.styles.Muted.Render(
			strings.Repeat(" ", p.width/2-4) + "no points" + strings.Repeat(" ", p.width-p.width/2-5)))
	}

	grid := make([][]string, p.height)
	for r := range grid {
		grid[r] = make([]string, p.width)
		for c := range grid[r] {
			grid[r][c] = glyphEmpty
		}
	}

	for i := range p.points {
		pt := p.points[i]
		c, r := p.Cell(pt)
		glyph := p.glyph(pt.ID)
		// Higher-priority glyphs win when points share a cell.
		if rank(glyph) >= rank(grid[r][c]) {
			grid[r][c] = p.style(glyph)
		}
	}
	if p.query != nil {
		c, r := p.Cell(*p.query)
		grid[r][c] = p.styles.Warning.Render(glyphQuery)
	}
	if cur, ok := p.Current(); ok && p.focused {
		c, r := p.Cell(cur)
		grid[r][c] = p.styles.Selected.Render(p.glyph(cur.ID))
	}

	rows := make([]string, p.height)
	for r := range grid {
		rows[r] = strings.Join(grid[r], "")
	}
	return p.styles.Plot.Render(strings.Join(rows, "\n"))
}

func (p *Plot) glyph(id string) string {
	switch {
	case p.shown[id]:
		return glyphShown
	case p.results[id]:
		return glyphResult
	default:
		return glyphPoint
	}
}

func (p *Plot) style(glyph string) string {
	switch glyph {
	case glyphShown:
		return p.styles.PointLabel.Render(glyph)
	case glyphResult:
		return p.styles.QueryLabel.Render(glyph)
	default:
		return p.styles.Muted.Render(glyph)
	}
}

// rank orders glyphs for cells shared by several points. Styled cells are
// compared by the glyph they contain.
func rank(cell string) int {
	switch {
	case strings.Contains(cell, glyphShown):
		return 3
	case strings.Contains(cell, glyphResult):
		return 2
	case strings.Contains(cell, glyphPoint):
		return 1
	default:
		return 0
	}
}
