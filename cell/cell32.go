//go:build !cell16 && !cell64

package cell

// Cell is the signed machine word; Ucell is its unsigned counterpart.
type Cell int32

// Ucell is the unsigned counterpart of Cell.
type Ucell uint32

// Size is the cell width in bits.
const Size = 32

// Magic is the module header signature for this cell width.
const Magic = 0xF1E0
