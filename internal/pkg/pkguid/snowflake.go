package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// epochMillis is 2025-10-01T00:00:00Z. IDs stay positive and roughly ordered
// by creation time from this point.
const epochMillis = 1759276800000

// RandomNode asks NewSnowflake to pick a node number at random.
const RandomNode int64 = -1

var setEpoch sync.Once

// Snowflake generates time-ordered int64 IDs. Within one process the IDs of
// a single generator strictly increase.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a generator for node (0..1023), or for a random node
// when node is RandomNode.
func NewSnowflake(node int64) (*Snowflake, error) {
	setEpoch.Do(func() { snowflake.Epoch = epochMillis })

	if node == RandomNode {
		var err error
		if node, err = randomNode(); err != nil {
			return nil, fmt.Errorf("pick snowflake node: %w", err)
		}
	}

	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: n}, nil
}

func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func randomNode() (int64, error) {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}

	return int64(binary.BigEndian.Uint16(buf[:]) & 0x3ff), nil
}
