// Package pdf genera el reporte de inventario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: título + período   │  fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: valor total / stock total / productos / bajo stock │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Precio | Stock | Umbral | Valor           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HISTORIAL: Fecha | Producto | Acción | Cantidad             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/application/ports"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var _ ports.ReportRenderer = (*ReportGenerator)(nil)

// ReportGenerator implementa ports.ReportRenderer usando Maroto v2.
type ReportGenerator struct{}

// NewReportGenerator construye el generador.
func NewReportGenerator() *ReportGenerator { return &ReportGenerator{} }

// RenderInventoryReport genera el PDF y devuelve sus bytes.
func (g *ReportGenerator) RenderInventoryReport(
	ctx context.Context,
	report *dto.InventoryReportResponse,
	products []*entity.Product,
) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Inventory Report", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("PRODUCTOS"))
	m.AddRows(productHeaderRow())
	m.AddRows(productRows(products)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitle("HISTORIAL DE INVENTARIO"))
	m.AddRows(historyHeaderRow())
	m.AddRows(historyRows(report.History, productNames(products))...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(r *dto.InventoryReportResponse) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Período: "+periodLabel(r.Period), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func summaryRow(r *dto.InventoryReportResponse) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center}),
		)
	}
	return row.New(16).Add(
		cell("Valor total", "$"+r.TotalInventoryValue.StringFixed(2)),
		cell("Stock total", strconv.FormatInt(r.TotalStock, 10)),
		cell("Productos", strconv.Itoa(r.ProductCount)),
		cell("Bajo umbral", strconv.Itoa(r.LowStockCount)),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func header(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
	}))
}

func productHeaderRow() core.Row {
	return row.New(6).Add(
		header("Producto", 5, align.Left),
		header("Precio", 2, align.Right),
		header("Stock", 1, align.Center),
		header("Umbral", 1, align.Center),
		header("Valor", 3, align.Right),
	)
}

func productRows(products []*entity.Product) []core.Row {
	rows := make([]core.Row, 0, len(products))
	for _, p := range products {
		stockProps := props.Text{Size: 8, Align: align.Center, Top: 1}
		if p.IsBelowThreshold() {
			stockProps.Color = colorAlert
			stockProps.Style = fontstyle.Bold
		}
		rows = append(rows, row.New(6).Add(
			col.New(5).Add(text.New(p.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New("$"+p.Price.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(strconv.Itoa(p.StockQuantity), stockProps)),
			col.New(1).Add(text.New(strconv.Itoa(p.Threshold), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New("$"+p.StockValue().StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func historyHeaderRow() core.Row {
	return row.New(6).Add(
		header("Fecha", 3, align.Left),
		header("Producto", 5, align.Left),
		header("Acción", 2, align.Center),
		header("Cantidad", 2, align.Right),
	)
}

func historyRows(history []dto.HistoryResponse, names map[string]string) []core.Row {
	if len(history) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Sin movimientos en el período.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		))}
	}
	rows := make([]core.Row, 0, len(history))
	for _, h := range history {
		rows = append(rows, row.New(5).Add(
			col.New(3).Add(text.New(h.Timestamp.Format("02/01/2006 15:04"), props.Text{Size: 7, Top: 1, Left: 1})),
			col.New(5).Add(text.New(nonEmpty(names[h.ProductID], h.ProductID), props.Text{Size: 7, Top: 1})),
			col.New(2).Add(text.New(h.Action, props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%+d", h.QuantityChanged), props.Text{Size: 7, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func productNames(products []*entity.Product) map[string]string {
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
	}
	return names
}

func periodLabel(p dto.PeriodDTO) string {
	switch {
	case p.StartDate == "" && p.EndDate == "":
		return "todo el historial"
	case p.StartDate == "":
		return "hasta " + p.EndDate
	case p.EndDate == "":
		return "desde " + p.StartDate
	default:
		return p.StartDate + " a " + p.EndDate
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
