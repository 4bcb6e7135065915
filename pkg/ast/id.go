package ast

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// ID identifies an artifact. It is assigned once, at construction, and is the
// only key used for metric maps.
type ID uint64

// String returns the id as 16 hex digits.
func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// ParseID parses the form produced by String.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid artifact id %q: %w", s, err)
	}
	return ID(v), nil
}

// idBuilder derives ids from the artifact's kind, file and qualified name so
// the same input yields the same ids in every process. Duplicate
// declarations get an ordinal suffix; an id is never handed out twice.
type idBuilder struct {
	issued map[ID]bool
	seen   map[string]int
}

func newIDBuilder() *idBuilder {
	return &idBuilder{
		issued: make(map[ID]bool),
		seen:   make(map[string]int),
	}
}

func (b *idBuilder) next(kind, file, name string) ID {
	base := kind + "|" + file + "|" + name
	for {
		ordinal := b.seen[base]
		b.seen[base] = ordinal + 1

		id := ID(xxhash.Sum64String(base + "|" + strconv.Itoa(ordinal)))
		if id != 0 && !b.issued[id] {
			b.issued[id] = true
			return id
		}
	}
}
