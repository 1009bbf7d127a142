package blocks

import (
	"time"

	"tokensale/engine/library"
)

// KindBlock is a block header announcement. Tags carry hash, height,
// minertime, mediantime and difficulty.
const KindBlock = 1517

type Block struct {
	Height     int64
	Hash       library.Sha256
	MedianTime time.Time
	MinerTime  time.Time
	Difficulty int64
}

type Mapped map[int64]Block
