package mapgen

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/krakowski/BombermanVR/internal/domain"
)

var (
	// ErrEmptyMap is returned for map text without any rows.
	ErrEmptyMap = errors.New("map text is empty")
	// ErrRaggedMap is returned when rows differ in length.
	ErrRaggedMap = errors.New("map rows differ in length")
)

// Parse turns map text into a grid. Rows are separated by "\n"; a trailing
// "\r" on each row and a single trailing newline are tolerated.
func Parse(text string) (*domain.Grid, error) {
	lines := strings.Split(text, "\n")
	if len(lines) > 1 && strings.TrimRight(lines[len(lines)-1], "\r") == "" {
		lines = lines[:len(lines)-1]
	}
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}

	width := utf8.RuneCountInString(lines[0])
	if width == 0 {
		return nil, ErrEmptyMap
	}

	for y, line := range lines {
		if n := utf8.RuneCountInString(line); n != width {
			return nil, fmt.Errorf("row %d has %d cells, expected %d: %w", y, n, width, ErrRaggedMap)
		}
	}

	grid := domain.NewGrid(width, len(lines))
	for y, line := range lines {
		x := 0
		for _, symbol := range line {
			grid.Set(domain.Position{X: x, Y: y}, domain.ParseCell(symbol))
			x++
		}
	}
	return grid, nil
}
