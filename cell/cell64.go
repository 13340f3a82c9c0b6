//go:build cell64

package cell

// Cell is the signed machine word; Ucell is its unsigned counterpart.
type Cell int64

// Ucell is the unsigned counterpart of Cell.
type Ucell uint64

// Size is the cell width in bits.
const Size = 64

// Magic is the module header signature for this cell width.
const Magic = 0xF1E1
