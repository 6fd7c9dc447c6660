// Package idgen produces entity identifiers of the form
// {PREFIX}-{token}. The production generator derives tokens from a
// snowflake node so ids never collide within a deployment; tests use the
// deterministic Sequence generator instead.
package idgen

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/random"
)

// Well-known prefixes per entity kind.
const (
	PrefixProduct  = "PRD"
	PrefixSupplier = "SUP"
	PrefixCustomer = "CUS"
	PrefixImport   = "IMP"
	PrefixExport   = "EXP"
)

// Generator hands out unique ids for a given prefix. Implementations
// must never repeat a token within a run; assigned ids are stable and
// never regenerated.
type Generator interface {
	Next(prefix string) string
}

// Snowflake is the production generator.
type Snowflake struct {
	node *snowflake.Node
}

// New creates a snowflake-backed generator for the given node id
// (0..1023).
func New(nodeID int64) (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: node}, nil
}

// Next returns the next id for the prefix. Partner prefixes use short
// uppercase tokens matching the SUP-XXXXXXXX shape of historical data;
// everything else gets a snowflake token.
func (g *Snowflake) Next(prefix string) string {
	switch prefix {
	case PrefixSupplier, PrefixCustomer:
		return prefix + "-" + PartnerToken()
	}
	return prefix + "-" + g.node.Generate().String()
}

// PartnerToken returns a short uppercase token for partner ids.
func PartnerToken() string {
	return random.String(8, random.Uppercase+random.Numeric)
}

// Sequence is a deterministic counter-based generator for tests.
type Sequence struct {
	n uint64
}

func NewSequence() *Sequence { return &Sequence{} }

func (g *Sequence) Next(prefix string) string {
	n := atomic.AddUint64(&g.n, 1)
	return fmt.Sprintf("%s-%s", prefix, strconv.FormatUint(n, 10))
}
