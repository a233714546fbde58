package blockchain

// Chain is an append-only list of blocks.
type Chain struct {
	blocks []Block
}

// Add appends b. Blocks are not mined or checked on the way in; use IsValid.
func (c *Chain) Add(b Block) {
	c.blocks = append(c.blocks, b)
}

// Size returns the number of blocks.
func (c *Chain) Size() int {
	return len(c.blocks)
}

// IsEmpty reports whether the chain has no blocks.
func (c *Chain) IsEmpty() bool {
	return len(c.blocks) == 0
}

// IsValid reports whether every block is mined, carries its own correct hash
// and links to its predecessor. An empty chain is valid.
func (c *Chain) IsValid() bool {
	for i, b := range c.blocks {
		if !IsMined(b) {
			return false
		}
		if b.CalculateHash() != b.Hash {
			return false
		}
		if i > 0 && b.PreviousHash != c.blocks[i-1].Hash {
			return false
		}
	}
	return true
}
