package infra

// pdf.go — Document rendering with go-pdf/fpdf.
// Generates A4 presupuestos, albaranes and facturas with:
//   - Color-coded title band per document type
//   - Numero, fechas and origin document reference
//   - Emisor/cliente boxes side by side
//   - Item table (descripcion, cantidad, unidad, precio, IVA, subtotal)
//   - Totals block with IRPF retention line when it applies
//   - Per-rate IVA breakdown and payment details on facturas
//   - Legal footer per document type
//
// Files land under <dir>/<Carpeta>/<año>/<Singular>_<numero>.pdf; the year
// comes from the printed numero, so re-renders never drift across folders.

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jpm92/simple-fact/internal/calculo"
	"github.com/jpm92/simple-fact/internal/config"
	"github.com/jpm92/simple-fact/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

var titulos = map[model.TipoDocumento]string{
	model.TipoPresupuesto: "PRESUPUESTO",
	model.TipoAlbaran:     "ALBARÁN DE ENTREGA",
	model.TipoFactura:     "FACTURA",
}

var carpetas = map[model.TipoDocumento]string{
	model.TipoPresupuesto: "Presupuestos",
	model.TipoAlbaran:     "Albaranes",
	model.TipoFactura:     "Facturas",
}

// singulares names the file prefix. Unaccented on purpose: these end up in
// filesystem paths shared over SMB and mail attachments.
var singulares = map[model.TipoDocumento]string{
	model.TipoPresupuesto: "Presupuesto",
	model.TipoAlbaran:     "Albaran",
	model.TipoFactura:     "Factura",
}

type rgb struct{ r, g, b int }

var colores = map[model.TipoDocumento]rgb{
	model.TipoPresupuesto: {41, 128, 185}, // azul
	model.TipoAlbaran:     {39, 174, 96},  // verde
	model.TipoFactura:     {44, 62, 80},   // gris oscuro
}

// ItemDocumento is one printed line.
type ItemDocumento struct {
	Descripcion    string
	Cantidad       decimal.Decimal
	Unidad         string
	PrecioUnitario decimal.Decimal
	IVAPorcentaje  decimal.Decimal
	Subtotal       decimal.Decimal
}

// DatosDocumento is the fully resolved render payload. The caller assembles
// it from the venta, its issued document and the configured emisor; the
// renderer itself never touches the store.
type DatosDocumento struct {
	Tipo            model.TipoDocumento
	Numero          string
	FechaEmision    time.Time
	FechaValidez    *time.Time
	Emisor          config.Emisor
	Cliente         model.ClienteSnapshot
	Items           []ItemDocumento
	Totales         calculo.Totales
	MetodoPago      string
	Notas           string
	DocumentoOrigen string
}

// PDFGenerator renders documents under a base directory.
type PDFGenerator struct{ dir string }

func NewPDFGenerator(dir string) *PDFGenerator { return &PDFGenerator{dir: dir} }

// RutaDocumento builds the deterministic output path for a document. The
// numero is sanitized for the filesystem; its year decides the folder.
func (g *PDFGenerator) RutaDocumento(tipo model.TipoDocumento, numero string) string {
	anio, ok := model.AnioDeNumero(numero)
	if !ok {
		anio = time.Now().Year()
	}
	archivo := fmt.Sprintf("%s_%s.pdf", singulares[tipo], strings.ReplaceAll(numero, "/", "-"))
	return filepath.Join(g.dir, carpetas[tipo], strconv.Itoa(anio), archivo)
}

// GenerarDocumento writes the PDF for datos at ruta, creating the folder
// tree as needed.
func (g *PDFGenerator) GenerarDocumento(datos *DatosDocumento, ruta string) error {
	if err := os.MkdirAll(filepath.Dir(ruta), 0755); err != nil {
		return fmt.Errorf("pdf: create output dir: %w", err)
	}

	titulo := titulos[datos.Tipo]
	color := colores[datos.Tipo]

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()
	// Spanish text and the € sign need the cp1252 translator.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	euros := func(d decimal.Decimal) string { return tr(d.StringFixed(2) + " €") }

	// ── Title band ───────────────────────────────────────────────────────────
	pdf.SetFillColor(color.r, color.g, color.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 12, tr(titulo), "", 1, "C", true, 0, "")
	pdf.Ln(4)

	// ── Document info ────────────────────────────────────────────────────────
	infoLinea := func(etiqueta, valor string) {
		pdf.SetTextColor(color.r, color.g, color.b)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 6, tr(etiqueta), "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(60, 6, tr(valor), "", 1, "L", false, 0, "")
	}

	infoLinea("Nº "+primeraPalabra(titulo)+":", datos.Numero)
	infoLinea("Fecha emisión:", datos.FechaEmision.Format("02/01/2006"))
	if datos.Tipo == model.TipoPresupuesto && datos.FechaValidez != nil {
		infoLinea("Válido hasta:", datos.FechaValidez.Format("02/01/2006"))
	}
	if datos.Tipo == model.TipoFactura {
		infoLinea("Fecha operación:", datos.FechaEmision.Format("02/01/2006"))
	}
	if datos.DocumentoOrigen != "" {
		infoLinea("Origen:", datos.DocumentoOrigen)
	}
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	// ── Emisor / cliente boxes ───────────────────────────────────────────────
	y := pdf.GetY()
	finEmisor := bloqueDatos(pdf, tr, 15, y, 87, "EMISOR", lineasEmisor(datos.Emisor))
	finCliente := bloqueDatos(pdf, tr, 108, y, 87, "CLIENTE", lineasCliente(datos.Cliente))
	if finCliente > finEmisor {
		finEmisor = finCliente
	}
	pdf.SetY(finEmisor + 8)

	// ── Item table ───────────────────────────────────────────────────────────
	anchos := []float64{62, 20, 20, 26, 20, 32}
	cabeceras := []string{"Descripción", "Cantidad", "Unidad", "Precio Unit.", "IVA %", "Subtotal"}

	pdf.SetFillColor(color.r, color.g, color.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 9)
	for i, c := range cabeceras {
		pdf.CellFormat(anchos[i], 8, tr(c), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 9)
	sombrear := false
	for _, item := range datos.Items {
		pdf.SetFillColor(236, 240, 241)
		pdf.CellFormat(anchos[0], 7, tr(recortar(item.Descripcion, 38)), "1", 0, "L", sombrear, 0, "")
		pdf.CellFormat(anchos[1], 7, item.Cantidad.StringFixed(2), "1", 0, "C", sombrear, 0, "")
		pdf.CellFormat(anchos[2], 7, tr(item.Unidad), "1", 0, "C", sombrear, 0, "")
		pdf.CellFormat(anchos[3], 7, euros(item.PrecioUnitario), "1", 0, "R", sombrear, 0, "")
		pdf.CellFormat(anchos[4], 7, item.IVAPorcentaje.String()+"%", "1", 0, "C", sombrear, 0, "")
		pdf.CellFormat(anchos[5], 7, euros(item.Subtotal), "1", 1, "R", sombrear, 0, "")
		sombrear = !sombrear
	}
	pdf.Ln(6)

	// ── Totals ───────────────────────────────────────────────────────────────
	totales := datos.Totales
	totalLinea := func(etiqueta, valor string, negrita bool) {
		estilo := ""
		talla := 10.0
		if negrita {
			estilo = "B"
			talla = 12
		}
		pdf.SetFont("Helvetica", estilo, talla)
		pdf.SetX(105)
		pdf.CellFormat(50, 7, tr(etiqueta), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, valor, "", 1, "R", false, 0, "")
	}

	totalLinea("Base Imponible:", euros(totales.BaseImponible), false)
	totalLinea("IVA:", euros(totales.TotalIVA), false)
	if totales.IRPFPorcentaje.IsPositive() {
		etiqueta := fmt.Sprintf("Retención IRPF (%s%%):", totales.IRPFPorcentaje.String())
		totalLinea(etiqueta, tr("-"+totales.TotalIRPF.StringFixed(2)+" €"), false)
	}
	pdf.SetX(105)
	pdf.Line(105, pdf.GetY(), 195, pdf.GetY())
	totalLinea("TOTAL "+primeraPalabra(titulo)+":", euros(totales.Total), true)
	pdf.Ln(6)

	// ── Desglose de IVA (facturas) ───────────────────────────────────────────
	if datos.Tipo == model.TipoFactura && len(totales.Desglose) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, tr("Desglose de IVA:"), "", 1, "L", false, 0, "")

		pdf.SetFillColor(52, 73, 94)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(40, 6, tr("Tipo IVA"), "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 6, tr("Base Imponible"), "1", 0, "C", true, 0, "")
		pdf.CellFormat(50, 6, tr("Cuota IVA"), "1", 1, "C", true, 0, "")

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 8)
		for _, tramo := range totales.Desglose {
			pdf.CellFormat(40, 6, tramo.Porcentaje.String()+"%", "1", 0, "C", false, 0, "")
			pdf.CellFormat(50, 6, euros(tramo.Base), "1", 0, "C", false, 0, "")
			pdf.CellFormat(50, 6, euros(tramo.Cuota), "1", 1, "C", false, 0, "")
		}
		pdf.Ln(6)
	}

	// ── Payment (facturas) ───────────────────────────────────────────────────
	if datos.Tipo == model.TipoFactura && datos.MetodoPago != "" {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(35, 6, tr("Método de pago:"), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW-35, 6, tr(datos.MetodoPago), "", 1, "L", false, 0, "")
		if datos.MetodoPago == "Transferencia bancaria" && datos.Emisor.IBAN != "" {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.CellFormat(35, 6, "IBAN:", "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			pdf.CellFormat(contentW-35, 6, tr(datos.Emisor.IBAN), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	// ── Notas ────────────────────────────────────────────────────────────────
	if datos.Notas != "" {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Notas:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(85, 85, 85)
		pdf.MultiCell(contentW, 5, tr(datos.Notas), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	// ── Legal footer ─────────────────────────────────────────────────────────
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.MultiCell(contentW, 4, tr(textoLegal(datos.Tipo)), "", "C", false)
	pdf.SetTextColor(0, 0, 0)

	if err := pdf.OutputFileAndClose(ruta); err != nil {
		return fmt.Errorf("pdf: write file: %w", err)
	}
	return nil
}

// ── helpers ────────────────────────────────────────────────────────────────

// bloqueDatos draws a bordered column of lines topped by a small title and
// returns the Y where the box ends.
func bloqueDatos(pdf *fpdf.Fpdf, tr func(string) string, x, y, w float64, titulo string, lineas []string) float64 {
	alto := 7 + float64(len(lineas))*4.5 + 2
	pdf.Rect(x, y, w, alto, "D")

	pdf.SetXY(x+3, y+1.5)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(w-6, 5.5, tr(titulo), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, l := range lineas {
		pdf.CellFormat(w-6, 4.5, tr(l), "", 2, "L", false, 0, "")
	}
	return y + alto
}

func lineasEmisor(e config.Emisor) []string {
	lineas := []string{e.Nombre, "NIF/CIF: " + e.NIF}
	lineas = anotar(lineas, e.Direccion)
	lineas = anotar(lineas, strings.TrimSpace(e.CodigoPostal+" "+e.Ciudad))
	lineas = anotar(lineas, e.Provincia)
	if e.Telefono != "" {
		lineas = append(lineas, "Tel: "+e.Telefono)
	}
	if e.Email != "" {
		lineas = append(lineas, "Email: "+e.Email)
	}
	if e.IBAN != "" {
		lineas = append(lineas, "IBAN: "+e.IBAN)
	}
	return lineas
}

func lineasCliente(c model.ClienteSnapshot) []string {
	lineas := []string{c.Nombre, "NIF/CIF: " + c.NIF}
	lineas = anotar(lineas, c.Direccion)
	lineas = anotar(lineas, strings.TrimSpace(c.CodigoPostal+" "+c.Ciudad))
	lineas = anotar(lineas, c.Provincia)
	return lineas
}

func anotar(lineas []string, valor string) []string {
	if valor == "" {
		return lineas
	}
	return append(lineas, valor)
}

func primeraPalabra(s string) string {
	campos := strings.Fields(s)
	if len(campos) == 0 {
		return s
	}
	return campos[0]
}

func recortar(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func textoLegal(tipo model.TipoDocumento) string {
	switch tipo {
	case model.TipoPresupuesto:
		return "Este presupuesto tiene validez hasta la fecha indicada. " +
			"Los precios incluyen IVA según los tipos indicados. " +
			"Para aceptar este presupuesto, póngase en contacto con nosotros."
	case model.TipoAlbaran:
		return "Documento de entrega de mercancías/servicios. " +
			"Conforme recibido: ______________________   Fecha: __________"
	default:
		return "Factura emitida conforme al Real Decreto 1619/2012, de 30 de noviembre, " +
			"por el que se aprueba el Reglamento por el que se regulan las obligaciones de facturación."
	}
}
