// Package pdf genera el reporte de historial de inventario en PDF con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + rango de fechas │ Fecha de generación      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Agregado / Retirado / Cambio neto                  │
//	│  Cambio neto por ubicación                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Acción | Producto | Ubicación | Cambio | ... │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"sort"

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

	"github.com/jhoicas/stock-tracker-api/internal/application/report"
	"github.com/jhoicas/stock-tracker-api/internal/domain/entity"
)

var _ report.HistoryPDFGenerator = (*MarotoHistoryGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 20, Green: 120, Blue: 60}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// MarotoHistoryGenerator implementa report.HistoryPDFGenerator usando Maroto v2.
type MarotoHistoryGenerator struct{}

// NewMarotoHistoryGenerator construye el generador.
func NewMarotoHistoryGenerator() *MarotoHistoryGenerator { return &MarotoHistoryGenerator{} }

// GenerateHistoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoHistoryGenerator) GenerateHistoryPDF(ctx context.Context, rep *report.HistoryReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(rep.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRows(rep)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(rep.Entries) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos en el rango.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(entryRows(rep.Entries)...)
	if rep.Truncated {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Listado truncado a las %d entradas más recientes.", len(rep.Entries)), props.Text{
				Style: fontstyle.Italic, Size: 7, Top: 2, Color: colorGray,
			}),
		)))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(rep *report.HistoryReport) core.Row {
	rango := fmt.Sprintf("Del %s al %s", rep.StartDate.Format("02/01/2006"), rep.EndDate.Format("02/01/2006"))
	return row.New(16).Add(
		col.New(8).Add(
			text.New(rep.Title, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New(rango, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(4).Add(
			text.New("Generado: "+rep.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

// summaryRows: totales del rango y cambio neto por ubicación, ordenado por nombre.
func summaryRows(rep *report.HistoryReport) []core.Row {
	s := rep.Summary
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1})
	}
	value := func(v int, c *props.Color) core.Component {
		return text.New(fmt.Sprintf("%+d", v), props.Text{Style: fontstyle.Bold, Size: 12, Top: 6, Color: c})
	}
	rows := []core.Row{
		row.New(14).Add(
			col.New(4).Add(label("TOTAL AGREGADO"), value(s.TotalAdded, colorGreen)),
			col.New(4).Add(label("TOTAL RETIRADO"), text.New(fmt.Sprintf("%d", s.TotalRemoved), props.Text{
				Style: fontstyle.Bold, Size: 12, Top: 6, Color: colorRed,
			})),
			col.New(4).Add(label("CAMBIO NETO"), value(s.NetChange, colorPrimary)),
		),
	}

	if len(s.ChangesByLocation) == 0 {
		return rows
	}
	locations := make([]string, 0, len(s.ChangesByLocation))
	for loc := range s.ChangesByLocation {
		locations = append(locations, loc)
	}
	sort.Strings(locations)

	rows = append(rows, row.New(6).Add(col.New(12).Add(label("CAMBIO NETO POR UBICACIÓN"))))
	for _, loc := range locations {
		rows = append(rows, row.New(5).Add(
			col.New(8).Add(text.New(loc, props.Text{Size: 8, Left: 2, Top: 0.5})),
			col.New(4).Add(text.New(fmt.Sprintf("%+d", s.ChangesByLocation[loc]), props.Text{
				Size: 8, Align: align.Right, Right: 1, Top: 0.5,
			})),
		))
	}
	return rows
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Acción", 2, align.Left),
		h("Producto", 3, align.Left),
		h("Ubicación", 2, align.Left),
		h("Cambio", 1, align.Right),
		h("Motivo", 2, align.Left),
	)
}

// entryRows: una fila por entrada del historial.
func entryRows(entries []*entity.HistoryEntry) []core.Row {
	result := make([]core.Row, 0, len(entries))
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 7, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	for _, e := range entries {
		name, location := describeItem(e)
		change := "-"
		if e.QuantityChange != nil {
			change = fmt.Sprintf("%+d", *e.QuantityChange)
		}
		result = append(result, row.New(7).Add(
			cell(e.CreatedAt.Format("02/01/2006 15:04"), 2, align.Left),
			cell(actionLabel(e.Action), 2, align.Left),
			cell(name, 3, align.Left),
			cell(location, 2, align.Left),
			cell(change, 1, align.Right),
			cell(e.Reason, 2, align.Left),
		))
	}
	return result
}

// ── helpers ───────────────────────────────────────────────────────────────────

// describeItem usa el producto vigente y, si ya no existe, el último snapshot de la entrada.
func describeItem(e *entity.HistoryEntry) (string, string) {
	if e.StockItem != nil {
		return e.StockItem.Name, e.StockItem.Location
	}
	snap := e.NewValues
	if snap == nil {
		snap = e.OldValues
	}
	if snap != nil {
		return snap.Name + " (eliminado)", snap.Location
	}
	return "(eliminado)", "-"
}

func actionLabel(a entity.HistoryAction) string {
	switch a {
	case entity.HistoryActionCreate:
		return "Alta"
	case entity.HistoryActionUpdate:
		return "Edición"
	case entity.HistoryActionDelete:
		return "Baja"
	case entity.HistoryActionQuantityChange:
		return "Cambio de cantidad"
	default:
		return string(a)
	}
}
