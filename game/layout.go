package game

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrInvalidLayout = errors.New("invalid layout")

// Point is a board coordinate. (0,0) is the top-left cell of the layout.
type Point struct {
	X int
	Y int
}

func (p Point) add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func manhattan(a, b Point) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Layout is the static part of a game: walls, initial food, and starting positions.
type Layout struct {
	Name   string
	Width  int
	Height int
	walls  []bool
	food   []bool
	agent  Point
	ghosts []Point
}

// ParseLayout reads a text layout:
//
//	% wall   . food   P agent   G ghost   (space) empty
func ParseLayout(name, text string) (*Layout, error) {
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, fmt.Errorf("%w %q: empty", ErrInvalidLayout, name)
	}

	l := &Layout{
		Name:   name,
		Width:  len(lines[0]),
		Height: len(lines),
	}
	l.walls = make([]bool, l.Width*l.Height)
	l.food = make([]bool, l.Width*l.Height)

	agents := 0
	for y, line := range lines {
		if len(line) != l.Width {
			return nil, fmt.Errorf("%w %q: row %d has width %d, want %d", ErrInvalidLayout, name, y, len(line), l.Width)
		}
		for x, c := range line {
			p := Point{X: x, Y: y}
			switch c {
			case '%':
				l.walls[l.index(p)] = true
			case '.':
				l.food[l.index(p)] = true
			case 'P':
				l.agent = p
				agents++
			case 'G':
				l.ghosts = append(l.ghosts, p)
			case ' ':
			default:
				return nil, fmt.Errorf("%w %q: unknown cell %q at (%d,%d)", ErrInvalidLayout, name, c, x, y)
			}
		}
	}
	if agents != 1 {
		return nil, fmt.Errorf("%w %q: want exactly one agent, got %d", ErrInvalidLayout, name, agents)
	}
	return l, nil
}

// LoadLayout parses a layout file; the layout is named after the file.
func LoadLayout(path string) (*Layout, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseLayout(name, string(b))
}

// BuiltinLayout returns one of the layouts listed by LayoutNames.
func BuiltinLayout(name string) (*Layout, error) {
	text, ok := builtinLayouts[name]
	if !ok {
		return nil, fmt.Errorf("%w: no builtin layout %q", ErrInvalidLayout, name)
	}
	return ParseLayout(name, text)
}

// FindLayout resolves a builtin layout name or a layout file path.
func FindLayout(nameOrPath string) (*Layout, error) {
	if _, ok := builtinLayouts[nameOrPath]; ok {
		return BuiltinLayout(nameOrPath)
	}
	return LoadLayout(nameOrPath)
}

func LayoutNames() []string {
	names := make([]string, 0, len(builtinLayouts))
	for name := range builtinLayouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (l *Layout) index(p Point) int {
	return p.Y*l.Width + p.X
}

func (l *Layout) inside(p Point) bool {
	return p.X >= 0 && p.X < l.Width && p.Y >= 0 && p.Y < l.Height
}

func (l *Layout) isWall(p Point) bool {
	return !l.inside(p) || l.walls[l.index(p)]
}

var builtinLayouts = map[string]string{
	"tiny": `
%%%%%%%
%P  ..%
% %%% %
%.   G%
%%%%%%%`,
	"small": `
%%%%%%%%%%%%%%%%%%%%
%......%G  G%......%
%.%%...%%  %%...%%.%
%.%..%........%..%.%
%.%%.%.%%%%%%.%.%%.%
%........P.........%
%%%%%%%%%%%%%%%%%%%%`,
	"medium": `
%%%%%%%%%%%%%%%%%%%%%%%%%
%.......%.........%.....%
%.%%%%%.%.%%%%%%%.%.%%%.%
%.%.....%....G....%...%.%
%.%.%%%%%%%.%%%.%%%%%.%.%
%.......................%
%%%.%%%.%%%%P%%%%.%%%.%%%
%.......................%
%.%%%%%.%%%.%.%%%.%%%%%.%
%.....%.....%.G...%.....%
%%%%%%%%%%%%%%%%%%%%%%%%%`,
}
