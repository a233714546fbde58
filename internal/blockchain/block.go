package blockchain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

const minedPrefix = "00"

// Block is one link of the chain. Hash covers PreviousHash, Timestamp and
// Nonce and is computed when the block is built.
type Block struct {
	PreviousHash string `json:"previousHash"`
	Timestamp    int64  `json:"timestamp"`
	Nonce        int    `json:"nonce"`
	Hash         string `json:"hash"`
}

// NewBlock builds a block and computes its hash.
func NewBlock(previousHash string, timestamp int64, nonce int) Block {
	b := Block{PreviousHash: previousHash, Timestamp: timestamp, Nonce: nonce}
	b.Hash = b.CalculateHash()
	return b
}

// CalculateHash returns the lowercase hex SHA-256 of previous hash, decimal
// timestamp and decimal nonce concatenated.
func (b Block) CalculateHash() string {
	sum := sha256.Sum256([]byte(b.PreviousHash + strconv.FormatInt(b.Timestamp, 10) + strconv.Itoa(b.Nonce)))
	return hex.EncodeToString(sum[:])
}

// IsMined reports whether the block's hash meets the difficulty target.
func IsMined(b Block) bool {
	return strings.HasPrefix(b.Hash, minedPrefix)
}

// Mine returns a copy of b with the first nonce, counting up from b.Nonce,
// whose hash is mined.
func Mine(b Block) Block {
	mined := NewBlock(b.PreviousHash, b.Timestamp, b.Nonce)
	for !IsMined(mined) {
		mined = NewBlock(mined.PreviousHash, mined.Timestamp, mined.Nonce+1)
	}
	return mined
}
