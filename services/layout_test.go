package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockOf(name string, height float64) *Block {
	return NewBlock(name).Space(height)
}

func TestPaginate_SinglePage(t *testing.T) {
	pages := Paginate([]*Block{blockOf("a", 50), blockOf("b", 100), blockOf("c", 112)}, 262)
	require.Len(t, pages, 1)
	assert.Equal(t, 262.0, pages[0].Used)
}

func TestPaginate_BreaksBeforeOverflow(t *testing.T) {
	pages := Paginate([]*Block{blockOf("a", 200), blockOf("b", 63), blockOf("c", 10)}, 262)
	require.Len(t, pages, 2)
	assert.Equal(t, []string{"a"}, names(pages[0]))
	assert.Equal(t, []string{"b", "c"}, names(pages[1]))
}

func TestPaginate_OversizedBlockGetsOwnPage(t *testing.T) {
	pages := Paginate([]*Block{blockOf("a", 10), blockOf("huge", 400), blockOf("b", 10)}, 262)
	require.Len(t, pages, 3)
	assert.Equal(t, []string{"huge"}, names(pages[1]))
}

func TestPaginate_RepeatsHeader(t *testing.T) {
	header := blockOf("table-header", 8)
	blocks := []*Block{blockOf("intro", 240), header}
	for i := 0; i < 3; i++ {
		b := blockOf(fmt.Sprintf("item-%d", i), 12)
		b.Header = header
		blocks = append(blocks, b)
	}

	pages := Paginate(blocks, 262)
	require.Len(t, pages, 2)
	assert.Equal(t, []string{"intro", "table-header", "item-0"}, names(pages[0]))
	assert.Equal(t, []string{"table-header", "item-1", "item-2"}, names(pages[1]))
}

func TestPaginate_NeverOverfillsAPage(t *testing.T) {
	var blocks []*Block
	for i := 0; i < 120; i++ {
		h := 7.0
		if i%3 == 0 {
			h = 12 // item row plus observation
		}
		blocks = append(blocks, blockOf(fmt.Sprintf("b%d", i), h))
	}

	pages := Paginate(blocks, UsableHeight)
	total := 0
	for i, p := range pages {
		assert.LessOrEqual(t, p.Used, UsableHeight, "page %d overfilled", i+1)
		total += len(p.Blocks)
	}
	assert.Equal(t, len(blocks), total)
}

func names(p Page) []string {
	out := make([]string, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		out = append(out, b.Name)
	}
	return out
}
