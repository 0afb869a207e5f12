package grid

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Cell is a grid coordinate. Value semantics: comparable, usable as a map key.
type Cell struct {
	Row int
	Col int
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Neighbors4 returns the 4-connected neighbors in fixed order
// (up, down, left, right) for deterministic traversal.
func (c Cell) Neighbors4() [4]Cell {
	return [4]Cell{
		{Row: c.Row - 1, Col: c.Col},
		{Row: c.Row + 1, Col: c.Col},
		{Row: c.Row, Col: c.Col - 1},
		{Row: c.Row, Col: c.Col + 1},
	}
}

func Manhattan(a, b Cell) int {
	dr := a.Row - b.Row
	if dr < 0 {
		dr = -dr
	}
	dc := a.Col - b.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

type Kind uint8

const (
	Open Kind = iota
	Wall
)

// Grid is the maze supplied to a run. Agents never see it directly;
// they only receive local views around their own position.
type Grid struct {
	rows  int
	cols  int
	walls [][]bool

	Start Cell
	Goal  Cell
}

type gridFile struct {
	Rows  []string `yaml:"rows"`
	Start [2]int   `yaml:"start"`
	Goal  [2]int   `yaml:"goal"`
}

// Load reads a maze from a YAML file. Rows are strings of '0' (open)
// and '1' (wall); all rows must have the same width.
func Load(path string) (*Grid, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var gf gridFile
	if err := yaml.Unmarshal(raw, &gf); err != nil {
		return nil, fmt.Errorf("maze.yaml: %w", err)
	}
	return FromRows(gf.Rows, Cell{Row: gf.Start[0], Col: gf.Start[1]}, Cell{Row: gf.Goal[0], Col: gf.Goal[1]})
}

// FromRows builds a grid from row strings of '0'/'1'.
func FromRows(rows []string, start, goal Cell) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty maze")
	}
	cols := len(rows[0])
	walls := make([][]bool, len(rows))
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d: width %d, want %d", r, len(row), cols)
		}
		walls[r] = make([]bool, cols)
		for c, ch := range row {
			switch ch {
			case '0':
			case '1':
				walls[r][c] = true
			default:
				return nil, fmt.Errorf("row %d col %d: bad cell %q", r, c, ch)
			}
		}
	}
	g := &Grid{rows: len(rows), cols: cols, walls: walls, Start: start, Goal: goal}
	if !g.InBounds(start) || g.IsWall(start) {
		return nil, fmt.Errorf("start %v is not an open cell", start)
	}
	if !g.InBounds(goal) || g.IsWall(goal) {
		return nil, fmt.Errorf("goal %v is not an open cell", goal)
	}
	return g, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

func (g *Grid) IsWall(c Cell) bool {
	return g.walls[c.Row][c.Col]
}

// WallCount returns the number of wall cells (used for swarm sizing).
func (g *Grid) WallCount() int {
	n := 0
	for _, row := range g.walls {
		for _, w := range row {
			if w {
				n++
			}
		}
	}
	return n
}

// RowStrings re-emits the maze as rows of '0'/'1', the same shape the
// YAML input uses. Handed to viewers at bootstrap.
func (g *Grid) RowStrings() []string {
	rows := make([]string, g.rows)
	buf := make([]byte, g.cols)
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.walls[r][c] {
				buf[c] = '1'
			} else {
				buf[c] = '0'
			}
		}
		rows[r] = string(buf)
	}
	return rows
}

// View is a small window of the grid centered on an agent's position.
// Cells outside the grid are reported as walls, matching the rule that
// the maze boundary is impassable.
type View struct {
	Center Cell
	Radius int
	cells  [][]Kind
}

// View extracts the (2r+1)×(2r+1) window around center.
func (g *Grid) View(center Cell, radius int) View {
	if radius <= 0 {
		radius = 1
	}
	side := 2*radius + 1
	cells := make([][]Kind, side)
	for i := 0; i < side; i++ {
		cells[i] = make([]Kind, side)
		for j := 0; j < side; j++ {
			c := Cell{Row: center.Row - radius + i, Col: center.Col - radius + j}
			if !g.InBounds(c) || g.IsWall(c) {
				cells[i][j] = Wall
			}
		}
	}
	return View{Center: center, Radius: radius, cells: cells}
}

// At reports the kind of a cell, or ok=false if the cell is outside
// the window.
func (v View) At(c Cell) (Kind, bool) {
	i := c.Row - v.Center.Row + v.Radius
	j := c.Col - v.Center.Col + v.Radius
	if i < 0 || i >= len(v.cells) || j < 0 || j >= len(v.cells) {
		return Wall, false
	}
	return v.cells[i][j], true
}
