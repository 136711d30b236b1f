package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"

	"stockledger/types"
)

// Generator hands out time-ordered header IDs for one node.
type Generator struct {
	node *snowflake.Node
}

func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("init snowflake node %d: %w", nodeID, err)
	}
	return &Generator{node: node}, nil
}

func (g *Generator) Generate() types.SnowflakeID {
	return types.SnowflakeID(g.node.Generate().Int64())
}
