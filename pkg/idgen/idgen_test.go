package idgen_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockd/stockd/pkg/idgen"
)

func TestSequenceIsDeterministic(t *testing.T) {
	g := idgen.NewSequence()
	assert.Equal(t, "PRD-1", g.Next(idgen.PrefixProduct))
	assert.Equal(t, "PRD-2", g.Next(idgen.PrefixProduct))
	assert.Equal(t, "IMP-3", g.Next(idgen.PrefixImport))
}

func TestSnowflakeIDsAreUniqueAndPrefixed(t *testing.T) {
	g, err := idgen.New(1)
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := g.Next(idgen.PrefixExport)
		assert.True(t, strings.HasPrefix(id, "EXP-"))
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestPartnerIDsUseShortTokens(t *testing.T) {
	g, err := idgen.New(1)
	require.NoError(t, err)

	for _, prefix := range []string{idgen.PrefixSupplier, idgen.PrefixCustomer} {
		id := g.Next(prefix)
		require.True(t, strings.HasPrefix(id, prefix+"-"))
		token := strings.TrimPrefix(id, prefix+"-")
		assert.Len(t, token, 8)
		assert.Equal(t, strings.ToUpper(token), token)
	}
}

func TestSnowflakeRejectsBadNode(t *testing.T) {
	_, err := idgen.New(5000)
	assert.Error(t, err)
}

func TestPartnerTokenShape(t *testing.T) {
	token := idgen.PartnerToken()
	assert.Len(t, token, 8)
	assert.Equal(t, strings.ToUpper(token), token)
}
