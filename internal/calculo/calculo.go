// Package calculo implements the money arithmetic behind every document.
// All operations work on decimal.Decimal end to end; amounts are rounded
// to two decimals only when they leave for a DTO or a PDF, never before
// summation, so line rounding errors cannot accumulate into the totals.
package calculo

import (
	"sort"

	"github.com/shopspring/decimal"
)

var cien = decimal.NewFromInt(100)

// Linea is the slice of a venta item the calculator needs.
type Linea struct {
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	IVAPorcentaje  decimal.Decimal
}

// TramoIVA accumulates the base and cuota of one distinct IVA rate.
// Facturas print one row per tramo in the desglose table.
type TramoIVA struct {
	Porcentaje decimal.Decimal
	Base       decimal.Decimal
	Cuota      decimal.Decimal
}

// Totales is the result of a full document calculation.
type Totales struct {
	BaseImponible  decimal.Decimal
	TotalIVA       decimal.Decimal
	IRPFPorcentaje decimal.Decimal
	TotalIRPF      decimal.Decimal
	Total          decimal.Decimal
	// Desglose holds one entry per distinct IVA rate, ascending by rate.
	// Empty when there are no lines.
	Desglose []TramoIVA
}

// Subtotal is the stored per-line amount: cantidad por precio unitario.
func Subtotal(cantidad, precioUnitario decimal.Decimal) decimal.Decimal {
	return cantidad.Mul(precioUnitario)
}

// Calcular computes the totals of a document from its raw lines:
//
//	base  = Σ cantidad × precio
//	iva   = Σ subtotal × tipo/100
//	irpf  = base × irpfPorcentaje/100
//	total = base + iva − irpf
//
// An empty line set yields all-zero totals and a nil desglose. IRPF applies
// to the whole base, not per line; a zero percentage subtracts nothing.
func Calcular(lineas []Linea, irpfPorcentaje decimal.Decimal) Totales {
	base := decimal.Zero
	iva := decimal.Zero
	tramos := map[string]*TramoIVA{}

	for _, l := range lineas {
		subtotal := l.Cantidad.Mul(l.PrecioUnitario)
		cuota := subtotal.Mul(l.IVAPorcentaje).Div(cien)
		base = base.Add(subtotal)
		iva = iva.Add(cuota)

		// String() is canonical for equal decimals (21 == 21.00), so it
		// works as the grouping key where Decimal itself cannot.
		clave := l.IVAPorcentaje.String()
		tramo, ok := tramos[clave]
		if !ok {
			tramo = &TramoIVA{Porcentaje: l.IVAPorcentaje}
			tramos[clave] = tramo
		}
		tramo.Base = tramo.Base.Add(subtotal)
		tramo.Cuota = tramo.Cuota.Add(cuota)
	}

	irpf := base.Mul(irpfPorcentaje).Div(cien)

	var desglose []TramoIVA
	for _, tramo := range tramos {
		desglose = append(desglose, *tramo)
	}
	sort.Slice(desglose, func(i, j int) bool {
		return desglose[i].Porcentaje.LessThan(desglose[j].Porcentaje)
	})

	return Totales{
		BaseImponible:  base,
		TotalIVA:       iva,
		IRPFPorcentaje: irpfPorcentaje,
		TotalIRPF:      irpf,
		Total:          base.Add(iva).Sub(irpf),
		Desglose:       desglose,
	}
}
