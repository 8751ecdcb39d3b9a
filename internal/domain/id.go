package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityID packs kind, group and index into one integer.
//
//	[ kind:8 | group:16 | index:40 ]
//
// Group distinguishes allocators: static map geometry, players and each pool.
type EntityID uint64

const (
	bitsIndex = 40
	bitsGroup = 16
	bitsKind  = 8

	shiftGroup = bitsIndex
	shiftKind  = bitsIndex + bitsGroup

	maskIndex = (1 << bitsIndex) - 1
	maskGroup = (1 << bitsGroup) - 1
	maskKind  = (1 << bitsKind) - 1
)

// Well-known groups. Pools allocate their own starting at GroupPoolBase.
const (
	GroupStatic   uint16 = 1
	GroupPlayers  uint16 = 2
	GroupPoolBase uint16 = 16
)

// PackEntityID builds an ID from its parts.
func PackEntityID(kind EntityKind, group uint16, index uint64) EntityID {
	id := index & maskIndex
	id |= (uint64(group) & maskGroup) << shiftGroup
	id |= (uint64(kind) & maskKind) << shiftKind
	return EntityID(id)
}

func (id EntityID) Kind() EntityKind {
	return EntityKind((id >> shiftKind) & maskKind)
}

func (id EntityID) Group() uint16 {
	return uint16((id >> shiftGroup) & maskGroup)
}

func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

// MarshalJSON writes the ID as a string; JS clients lose precision above 2^53.
func (id EntityID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strconv.FormatUint(uint64(id), 10) + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare numbers.
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid entity id %q: %w", string(data), err)
	}
	*id = EntityID(val)
	return nil
}

// String renders [kind:group:index] for logs.
func (id EntityID) String() string {
	return fmt.Sprintf("[%s:%d:%d]", id.Kind(), id.Group(), id.Index())
}

// ParseEntityID is the inverse of String.
func ParseEntityID(s string) (EntityID, error) {
	parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid entity id %q", s)
	}

	kind := KindUnknown
	for k, name := range kindNames {
		if name == parts[0] {
			kind = k
			break
		}
	}
	if kind == KindUnknown {
		return 0, fmt.Errorf("invalid entity id %q: unknown kind", s)
	}

	group, err := strconv.ParseUint(parts[1], 10, bitsGroup)
	if err != nil {
		return 0, fmt.Errorf("invalid entity id %q: %w", s, err)
	}
	index, err := strconv.ParseUint(parts[2], 10, bitsIndex)
	if err != nil {
		return 0, fmt.Errorf("invalid entity id %q: %w", s, err)
	}
	return PackEntityID(kind, uint16(group), index), nil
}
