//go:build cell16

package cell

// Cell is the signed machine word; Ucell is its unsigned counterpart.
type Cell int16

// Ucell is the unsigned counterpart of Cell.
type Ucell uint16

// Size is the cell width in bits.
const Size = 16

// Magic is the module header signature for this cell width.
const Magic = 0xF1E2
