package services

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

const (
	maxProductNameLen = 30
	maxObservationLen = 90
	dateLayout        = "02/01/2006"
)

var (
	colorDark   = &props.Color{Red: 33, Green: 37, Blue: 41}
	colorMuted  = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite  = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe = &props.Color{Red: 248, Green: 249, Blue: 250}
	colorError  = &props.Color{Red: 176, Green: 0, Blue: 32}
)

// RenderedDocument is the outcome of rendering. When Failed is set, Bytes
// holds the error document (if even that could be produced) and Err the cause.
type RenderedDocument struct {
	Bytes    []byte
	Base64   string
	FileName string
	Pages    int
	Failed   bool
	Err      error
}

// DataURI returns the PDF as an inline data URI for previews.
func (r *RenderedDocument) DataURI() string {
	return "data:application/pdf;base64," + r.Base64
}

func newPDF() core.Maroto {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(SideMargin).
		WithTopMargin(TopMargin).
		WithRightMargin(SideMargin).
		WithBottomMargin(BottomMargin).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   colorMuted,
		}).
		Build()
	return maroto.New(cfg)
}

// RenderDocument lays out doc as a paginated A4 PDF. It never returns nil:
// failures, including panics inside the PDF library, produce an error
// document that carries the message.
func RenderDocument(doc *Document, client ClientSnapshot, settings Settings, logo *Logo) (out *RenderedDocument) {
	defer func() {
		if r := recover(); r != nil {
			out = renderErrorDocument(doc, &RenderError{Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	pages := Paginate(documentBlocks(doc, client, settings, logo), UsableHeight)

	m := newPDF()
	for _, p := range pages {
		m.AddPages(page.New().Add(p.Rows()...))
	}

	generated, err := m.Generate()
	if err != nil {
		return renderErrorDocument(doc, &RenderError{Err: err})
	}

	return &RenderedDocument{
		Bytes:    generated.GetBytes(),
		Base64:   generated.GetBase64(),
		FileName: doc.FileName(),
		Pages:    len(pages),
	}
}

// renderErrorDocument produces a one-page PDF that states the failure.
func renderErrorDocument(doc *Document, cause error) *RenderedDocument {
	out := &RenderedDocument{Failed: true, Err: cause, Pages: 1}
	if doc != nil {
		out.FileName = doc.FileName()
	}

	m := newPDF()
	m.AddRows(
		text.NewRow(14, "Error al generar el documento", props.Text{
			Size: 16, Style: fontstyle.Bold, Align: align.Center, Color: colorError, Top: 4,
		}),
		text.NewRow(10, "Ocurrió un error al generar el PDF. Intente de nuevo.", props.Text{
			Size: 10, Align: align.Center,
		}),
		text.NewRow(20, "Detalle: "+cause.Error(), props.Text{
			Size: 8, Align: align.Left, Color: colorMuted,
		}),
	)

	generated, err := m.Generate()
	if err != nil {
		out.Err = fmt.Errorf("%w (error document also failed: %v)", cause, err)
		return out
	}
	out.Bytes = generated.GetBytes()
	out.Base64 = generated.GetBase64()
	return out
}

// documentBlocks builds every section in print order.
func documentBlocks(doc *Document, client ClientSnapshot, settings Settings, logo *Logo) []*Block {
	blocks := []*Block{
		headerBlock(settings, logo),
		titleBlock(doc),
		clientBlock(doc, client),
	}

	header := tableHeaderBlock()
	blocks = append(blocks, header)
	if len(doc.Items) == 0 {
		blocks = append(blocks, NewBlock("no-items").Row(8,
			col.New(12).Add(text.New("Sin productos", props.Text{
				Size: 8, Style: fontstyle.Italic, Align: align.Center, Color: colorMuted, Top: 2,
			})),
		))
	}
	for i, it := range doc.Items {
		b := itemBlock(i, it, settings.Currency)
		b.Header = header
		blocks = append(blocks, b)
	}

	blocks = append(blocks, totalsBlock(doc, settings.Currency))
	if doc.Kind == KindSale && doc.Payment != nil {
		blocks = append(blocks, paymentBlock(doc, settings))
	}
	blocks = append(blocks, closingBlock())
	return blocks
}

// headerBlock places the logo in a 25mm box with company details to its
// right, or the details alone at the left margin.
func headerBlock(settings Settings, logo *Logo) *Block {
	company := []core.Component{}
	if settings.CompanyName != "" {
		company = append(company, text.New(settings.CompanyName, props.Text{
			Size: 14, Style: fontstyle.Bold, Top: 3,
		}))
	}
	if settings.CompanyAddress != "" {
		company = append(company, text.New(settings.CompanyAddress, props.Text{
			Size: 9, Top: 11, Color: colorMuted,
		}))
	}
	if settings.CompanyPhone != "" {
		company = append(company, text.New("Tel: "+settings.CompanyPhone, props.Text{
			Size: 9, Top: 17, Color: colorMuted,
		}))
	}

	b := NewBlock("header").Space(5)
	if logo != nil {
		return b.Row(25,
			col.New(3).Add(image.NewFromBytes(logo.Bytes, logo.Ext, props.Rect{
				Percent: 100,
			})),
			col.New(9).Add(company...),
		)
	}
	return b.Row(25, col.New(12).Add(company...))
}

func titleBlock(doc *Document) *Block {
	ref := "Cotización #: " + doc.ShortID()
	if doc.Kind == KindSale {
		ref = "Pedido #: " + doc.OrderNumber
	}
	right := props.Text{Size: 9, Align: align.Right}

	return NewBlock("title").
		Row(14, col.New(12).Add(text.New(doc.Title(), props.Text{
			Size: 18, Style: fontstyle.Bold, Align: align.Center, Color: colorDark, Top: 4,
		}))).
		Row(6,
			col.New(6).Add(text.New("Fecha: "+FormatDate(doc.Created), props.Text{Size: 9})),
			col.New(6).Add(text.New(ref, right)),
		).
		Space(3)
}

func clientBlock(doc *Document, client ClientSnapshot) *Block {
	label := props.Text{Size: 9, Style: fontstyle.Bold, Color: colorDark}
	value := props.Text{Size: 9}

	b := NewBlock("client").
		Row(7, col.New(12).Add(text.New("DATOS DEL CLIENTE", label))).
		Row(5, col.New(12).Add(text.New("Nombre: "+orNA(client.Name), value))).
		Row(5, col.New(12).Add(text.New("Email: "+orNA(client.Email), value))).
		Row(5, col.New(12).Add(text.New("Teléfono: "+orNA(client.Phone), value))).
		Row(5, col.New(12).Add(text.New("Dirección: "+orDefault(client.Address, "No especificado"), value)))

	if doc.Kind == KindSale && !doc.DeliveryDate.IsZero() {
		b.Row(5, col.New(12).Add(text.New("Fecha de entrega: "+FormatDate(doc.DeliveryDate), value)))
	}
	return b.Space(4)
}

func tableHeaderBlock() *Block {
	head := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: colorWhite, Top: 2}
	headLeft := head
	headLeft.Align = align.Left
	headLeft.Left = 1
	cell := &props.Cell{BackgroundColor: colorDark}

	return NewBlock("table-header").Row(8,
		col.New(4).Add(text.New("Producto", headLeft)).WithStyle(cell),
		col.New(1).Add(text.New("Tipo", head)).WithStyle(cell),
		col.New(2).Add(text.New("Medidas", head)).WithStyle(cell),
		col.New(1).Add(text.New("Cant.", head)).WithStyle(cell),
		col.New(2).Add(text.New("Precio", head)).WithStyle(cell),
		col.New(2).Add(text.New("Total", head)).WithStyle(cell),
	)
}

// itemBlock is one table row plus its observation line, kept together.
func itemBlock(i int, it LineItem, currency string) *Block {
	body := props.Text{Size: 8, Align: align.Center, Top: 2}
	bodyLeft := props.Text{Size: 8, Align: align.Left, Left: 1, Top: 2}
	bodyRight := props.Text{Size: 8, Align: align.Right, Right: 1, Top: 2}

	var cell *props.Cell
	if i%2 == 1 {
		cell = &props.Cell{BackgroundColor: colorStripe}
	}
	withStyle := func(c core.Col) core.Col {
		if cell != nil {
			return c.WithStyle(cell)
		}
		return c
	}

	lineTotal, err := LineItemTotal(it)
	if err != nil {
		panic(fmt.Sprintf("item %d: %v", i+1, err))
	}

	b := NewBlock(fmt.Sprintf("item-%d", i+1)).Row(7,
		withStyle(col.New(4).Add(text.New(truncateRunes(it.ProductName, maxProductNameLen), bodyLeft))),
		withStyle(col.New(1).Add(text.New(it.UnitType.Label(), body))),
		withStyle(col.New(2).Add(text.New(formatDimensions(it), body))),
		withStyle(col.New(1).Add(text.New(FormatQuantity(it.Quantity), body))),
		withStyle(col.New(2).Add(text.New(FormatMoney(it.UnitPrice, currency), bodyRight))),
		withStyle(col.New(2).Add(text.New(FormatMoney(lineTotal, currency), bodyRight))),
	)
	if it.Observations != "" {
		b.Row(5, withStyle(col.New(12).Add(text.New(
			"Obs: "+truncateRunes(it.Observations, maxObservationLen),
			props.Text{Size: 7, Style: fontstyle.Italic, Color: colorMuted, Left: 3, Top: 1},
		))))
	}
	return b
}

func totalsBlock(doc *Document, currency string) *Block {
	bd := Breakdown(doc.Total, doc.DiscountPercent, doc.IncludeTax)
	label := props.Text{Size: 9, Align: align.Right, Top: 1}
	value := props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}

	b := NewBlock("totals").Space(3)
	b.Row(6, col.New(8), col.New(2).Add(text.New("Subtotal:", label)),
		col.New(2).Add(text.New(FormatMoney(bd.Subtotal, currency), value)))
	if doc.DiscountPercent.IsPositive() {
		b.Row(6, col.New(8), col.New(2).Add(text.New(fmt.Sprintf("Descuento (%s%%):", doc.DiscountPercent.String()), label)),
			col.New(2).Add(text.New("-"+FormatMoney(bd.Discount, currency), value)))
	}
	if doc.IncludeTax {
		b.Row(6, col.New(8), col.New(2).Add(text.New("IVA (16%):", label)),
			col.New(2).Add(text.New(FormatMoney(bd.Tax, currency), value)))
	}

	bold := props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right, Color: colorWhite, Top: 2}
	grand := &props.Cell{BackgroundColor: colorDark}
	boldValue := bold
	boldValue.Right = 1
	return b.Row(8, col.New(8),
		col.New(2).Add(text.New("Total:", bold)).WithStyle(grand),
		col.New(2).Add(text.New(FormatMoney(bd.Total, currency), boldValue)).WithStyle(grand),
	)
}

// paymentBlock prints the method-specific footer of a sale.
func paymentBlock(doc *Document, settings Settings) *Block {
	label := props.Text{Size: 9, Style: fontstyle.Bold}
	value := props.Text{Size: 9}

	b := NewBlock("payment").Space(5).
		Row(6, col.New(12).Add(text.New("Método de pago: "+doc.Payment.Method.Label(), label)))
	for _, l := range paymentLines(doc, settings) {
		b.Row(5, col.New(4).Add(text.New(l[0], value)), col.New(8).Add(text.New(l[1], value)))
	}
	return b
}

// paymentLines lists the label/value pairs of a sale's payment. Stored
// amounts are printed as they are: a short cash payment or an advance above
// the total is named on the ticket, never shown as zero.
func paymentLines(doc *Document, settings Settings) [][2]string {
	p := doc.Payment
	money := func(v decimal.Decimal) string { return FormatMoney(v, settings.Currency) }

	var lines [][2]string
	add := func(name, v string) { lines = append(lines, [2]string{name, v}) }

	switch p.Method {
	case PaymentCash:
		add("Monto pagado:", money(p.AmountPaid))
		if change := p.AmountPaid.Sub(doc.Total); change.IsNegative() {
			add("Falta por pagar:", money(change.Neg()))
		} else {
			add("Cambio:", money(change))
		}
	case PaymentCredit:
		add("Anticipo:", money(p.Advance))
		if balance := doc.Total.Sub(p.Advance); balance.IsNegative() {
			add("Anticipo excedente:", money(balance.Neg()))
		} else {
			add("Saldo pendiente:", money(balance))
		}
	case PaymentTransfer:
		bank := p.Bank
		if bank.IsZero() {
			bank = settings.Bank
		}
		add("Banco:", orNA(bank.Bank))
		add("Cuenta:", orNA(bank.AccountNumber))
		add("Titular:", orNA(bank.AccountHolder))
	}
	return lines
}

func closingBlock() *Block {
	return NewBlock("closing").Space(6).Row(10, col.New(12).Add(
		text.New("¡Gracias por su compra!", props.Text{
			Size: 11, Style: fontstyle.BoldItalic, Align: align.Center, Color: colorDark, Top: 2,
		}),
	))
}

func formatDimensions(it LineItem) string {
	if it.UnitType == UnitArea {
		return FormatQuantity(it.Length) + "m x " + FormatQuantity(it.Width) + "m"
	}
	return FormatQuantity(it.Length) + "m"
}

// FormatDate renders t as dd/mm/yyyy, or N/A when unset.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(dateLayout)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func orNA(s string) string {
	return orDefault(s, "N/A")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
