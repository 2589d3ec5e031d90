package pdf

import (
	"fmt"
	"strconv"

	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/jhoicas/Gestion-api/internal/application/billing"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

func addInvoiceRows(m core.Maroto, doc appbilling.InvoiceDocument) {
	inv := doc.Invoice
	m.AddRows(invoiceHeaderRow(inv, doc.IssuerName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(receiverRow(inv, doc.ReceiverName, doc.BusinessLineName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(invoiceTableHeaderRow())
	m.AddRows(invoiceLineRows(inv.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(invoiceTotalsRow(inv))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(invoiceFooterRow(inv))
}

// invoiceHeaderRow: emisor + RUT (izq) y N° de factura + fecha (der).
func invoiceHeaderRow(inv *entity.Invoice, issuerName string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(issuerName, "Emisor"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("RUT: "+inv.IssuerRUT, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+strconv.FormatInt(inv.Folio, 10), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+inv.IssuedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func receiverRow(inv *entity.Invoice, receiverName, businessLineName string) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(receiverName, inv.ReceiverRUT), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("RUT: %s   |   Giro: %s (%s)",
				inv.ReceiverRUT,
				nonEmpty(businessLineName, "-"),
				inv.BusinessLineCode,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func invoiceTableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Servicio", 8, align.Left),
		h("Precio neto", 4, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func invoiceLineRows(lines []entity.InvoiceLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(7).Add(
			col.New(8).Add(text.New(l.ServiceName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(money(l.NetPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func invoiceTotalsRow(inv *entity.Invoice) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	vatLabel := "IVA 19%:"
	if inv.IsExempt() {
		vatLabel = "IVA (exento):"
	}
	total := inv.NetPayment.Add(inv.VAT)
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Neto:"),
			text.New(vatLabel, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 6}),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Top: 12, Color: colorPrimary}),
		),
		col.New(3).Add(
			value(money(inv.NetPayment), 0),
			value(money(inv.VAT), 6),
			text.New(money(total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 12, Color: colorPrimary}),
		),
	)
}

// invoiceFooterRow: QR con los datos de control de la factura + leyenda.
func invoiceFooterRow(inv *entity.Invoice) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(invoiceQRData(inv), props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Estado: "+inv.Status, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Emitida por "+inv.UserEmail, props.Text{Size: 8, Top: 10, Left: 3, Color: colorGray}),
			text.New("Conserve este documento como respaldo tributario.", props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 20, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

func invoiceQRData(inv *entity.Invoice) string {
	return fmt.Sprintf("FACTURA|%d|%s|%s|%s|%s|%s",
		inv.Folio, inv.IssuerRUT, inv.ReceiverRUT,
		inv.NetPayment.StringFixed(0), inv.VAT.StringFixed(0), inv.IssuedAt.Format("2006-01-02"))
}

// money formatea pesos chilenos: sin decimales y con punto de miles.
func money(d decimal.Decimal) string {
	return "$" + formatMoney(d.StringFixed(0))
}
