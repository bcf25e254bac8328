package headless

import (
	"fmt"

	"github.com/charmbracelet/vscroll/internal/virtual"
)

// Block is a unit with a fixed, mutable height.
type Block struct {
	ID       string
	Height   float64
	Disposed bool
}

// MeasureBlock reports the height of b.
func MeasureBlock(b *Block) float64 {
	return b.Height
}

// BlockFactory creates blocks for one item and counts its calls.
type BlockFactory struct {
	ID     string
	Height float64

	Created  int
	Disposed int
	// Last is the most recently created block.
	Last *Block
}

var _ virtual.Factory[*Block] = (*BlockFactory)(nil)

// Create implements virtual.Factory.
func (f *BlockFactory) Create() *Block {
	f.Created++
	f.Last = &Block{ID: f.ID, Height: f.Height}
	return f.Last
}

// Dispose implements virtual.Factory.
func (f *BlockFactory) Dispose(b *Block) {
	f.Disposed++
	b.Disposed = true
}

// Blocks builds n items with ids prefix-0 through prefix-(n-1), all of the
// given height. The factories are returned in the same order.
func Blocks(prefix string, n int, height float64) ([]virtual.Item[*Block], []*BlockFactory) {
	items := make([]virtual.Item[*Block], 0, n)
	factories := make([]*BlockFactory, 0, n)
	for i := range n {
		f := &BlockFactory{ID: fmt.Sprintf("%s-%d", prefix, i), Height: height}
		items = append(items, virtual.Item[*Block]{ID: f.ID, Factory: f})
		factories = append(factories, f)
	}
	return items, factories
}

// IDs returns the ids of blocks in order.
func IDs(blocks []*Block) []string {
	ids := make([]string, 0, len(blocks))
	for _, b := range blocks {
		ids = append(ids, b.ID)
	}
	return ids
}
