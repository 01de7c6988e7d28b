package service

import (
	"hash/fnv"
	"storefront/internal/utils"

	"github.com/bwmarrin/snowflake"
)

// IDGenerator hands out product ids for records created without one.
type IDGenerator interface {
	NextID() string
}

// SnowflakeIDs produces time-ordered ids that never collide within a node.
type SnowflakeIDs struct {
	node *snowflake.Node
}

func NewSnowflakeIDs(nodeID int64) (*SnowflakeIDs, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &SnowflakeIDs{node: node}, nil
}

// HostNodeID derives a snowflake node number from the hostname.
func HostNodeID() int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(utils.GetHost()))
	return int64(h.Sum32() % 1024)
}

func (g *SnowflakeIDs) NextID() string {
	return g.node.Generate().String()
}
