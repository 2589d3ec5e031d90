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

	appbilling "github.com/jhoicas/Gestion-api/internal/application/billing"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

const textChunk = 100

func addWorkOrderRows(m core.Maroto, doc appbilling.WorkOrderDocument) {
	o := doc.Order
	m.AddRows(workOrderHeaderRow(o))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(o, doc.ClientName, doc.ProvinceName, doc.CommuneName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitleRow("DESCRIPCIÓN"))
	m.AddRows(paragraphRows(o.Description)...)
	if o.Observation != "" {
		m.AddRows(sectionTitleRow("OBSERVACIÓN"))
		m.AddRows(paragraphRows(o.Observation)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitleRow("SERVICIOS"))
	for i, s := range o.Services {
		m.AddRows(row.New(6).Add(
			col.New(1).Add(text.New(strconv.Itoa(i+1), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(11).Add(text.New(s, props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(35).Add(
		col.New(3).Add(code.NewQr(
			fmt.Sprintf("ORDEN|%d|%s|%s", o.Folio, o.ClientRUT, o.RequestedAt.Format("2006-01-02")),
			props.Rect{Percent: 95, Center: true},
		)),
		col.New(9).Add(
			text.New("Estado: "+o.Status, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray}),
			text.New("Firma y recepción conforme: ______________________", props.Text{Size: 9, Top: 20, Left: 3}),
		),
	))
}

func workOrderHeaderRow(o *entity.WorkOrder) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("ORDEN DE TRABAJO", props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("N° "+strconv.FormatInt(o.Folio, 10), props.Text{Style: fontstyle.Bold, Size: 11, Top: 9}),
		),
		col.New(5).Add(
			text.New("Solicitud: "+o.RequestedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
			text.New("Entrega: "+o.DeliveryAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func clientRow(o *entity.WorkOrder, clientName, provinceName, communeName string) core.Row {
	return row.New(18).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(clientName, o.ClientRUT), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("RUT: %s   |   %s, %s, %s",
				o.ClientRUT, o.Address, nonEmpty(communeName, "-"), nonEmpty(provinceName, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))
}

// paragraphRows parte textos largos en filas de ancho fijo.
func paragraphRows(s string) []core.Row {
	chunks := splitEvery(s, textChunk)
	rows := make([]core.Row, 0, len(chunks))
	for _, c := range chunks {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(c, props.Text{Size: 8, Top: 0.5, Left: 2}),
		)))
	}
	return rows
}
