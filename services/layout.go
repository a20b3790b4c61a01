package services

import (
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// A4 page geometry in millimetres.
const (
	PageHeight   = 297.0
	TopMargin    = 10.0
	BottomMargin = 15.0
	SideMargin   = 10.0
	// footerReserve keeps the page number clear of the last block.
	footerReserve = 10.0
	// UsableHeight is the vertical space available to blocks on one page.
	UsableHeight = PageHeight - TopMargin - BottomMargin - footerReserve
)

// Block is a group of rows that must stay on one page. Header, when set, is
// repeated at the top of a page that this block starts after a page break.
type Block struct {
	Name   string
	Height float64
	Rows   []core.Row
	Header *Block
}

// NewBlock starts an empty block.
func NewBlock(name string) *Block {
	return &Block{Name: name}
}

// Row appends a row of the given height.
func (b *Block) Row(height float64, cols ...core.Col) *Block {
	b.Rows = append(b.Rows, row.New(height).Add(cols...))
	b.Height += height
	return b
}

// Space appends an empty row.
func (b *Block) Space(height float64) *Block {
	b.Rows = append(b.Rows, row.New(height))
	b.Height += height
	return b
}

// Line appends a horizontal rule row.
func (b *Block) Line(height float64, p props.Line) *Block {
	b.Rows = append(b.Rows, line.NewRow(height, p))
	b.Height += height
	return b
}

// Page is the list of blocks placed on one page and the height they use.
type Page struct {
	Blocks []*Block
	Used   float64
}

// Rows flattens the page's blocks in order.
func (p Page) Rows() []core.Row {
	var rows []core.Row
	for _, b := range p.Blocks {
		rows = append(rows, b.Rows...)
	}
	return rows
}

// Paginate places blocks top-down with a running cursor. Before each block
// it checks the remaining height and starts a new page when the block does
// not fit. A block taller than a full page gets a page of its own.
func Paginate(blocks []*Block, usable float64) []Page {
	pages := []Page{{}}
	for _, b := range blocks {
		cur := &pages[len(pages)-1]
		if cur.Used+b.Height > usable && len(cur.Blocks) > 0 {
			pages = append(pages, Page{})
			cur = &pages[len(pages)-1]
			if b.Header != nil && b.Header.Height+b.Height <= usable {
				cur.Blocks = append(cur.Blocks, b.Header)
				cur.Used += b.Header.Height
			}
		}
		cur.Blocks = append(cur.Blocks, b)
		cur.Used += b.Height
	}
	return pages
}
