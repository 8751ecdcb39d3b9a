package domain

// CellKind is the static content of one grid cell.
type CellKind uint8

const (
	// CellFloor is plain walkable floor. Unknown map symbols end up here.
	CellFloor CellKind = iota
	CellWall
	CellBorder
	CellItem
	CellEmpty
	CellPlayerStart
	CellCrate
	CellReserved
)

var cellBySymbol = map[rune]CellKind{
	'W': CellWall,
	'B': CellBorder,
	'I': CellItem,
	'E': CellEmpty,
	'P': CellPlayerStart,
	'C': CellCrate,
	'R': CellReserved,
}

var cellNames = map[CellKind]string{
	CellFloor:       "FLOOR",
	CellWall:        "WALL",
	CellBorder:      "BORDER",
	CellItem:        "ITEM",
	CellEmpty:       "EMPTY",
	CellPlayerStart: "PLAYER_START",
	CellCrate:       "CRATE",
	CellReserved:    "RESERVED",
}

// ParseCell maps a map-text symbol to its cell kind.
func ParseCell(symbol rune) CellKind {
	if kind, ok := cellBySymbol[symbol]; ok {
		return kind
	}
	return CellFloor
}

// Symbol is the inverse of ParseCell. Floor renders as '.'.
func (c CellKind) Symbol() rune {
	for symbol, kind := range cellBySymbol {
		if kind == c {
			return symbol
		}
	}
	return '.'
}

func (c CellKind) String() string {
	if name, ok := cellNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsObstruction reports whether the cell stops a blast ray.
func (c CellKind) IsObstruction() bool {
	return c == CellWall || c == CellBorder
}
