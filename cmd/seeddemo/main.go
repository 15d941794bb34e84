// cmd/seeddemo/main.go — Crea un cliente y una venta borrador de ejemplo.
// Uso: go run ./cmd/seeddemo
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jpm92/simple-fact/internal/config"
	"github.com/jpm92/simple-fact/internal/dto"
	"github.com/jpm92/simple-fact/internal/infra"
	"github.com/jpm92/simple-fact/internal/repository"
	"github.com/jpm92/simple-fact/internal/service"

	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	db, err := infra.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}

	ventaRepo := repository.NewVentaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	svc := service.NewVentaService(ventaRepo, clienteRepo, cfg)

	iva := decimal.NewFromInt(21)
	irpf := decimal.NewFromInt(15)
	resp, err := svc.CrearVenta(context.Background(), dto.CrearVentaRequest{
		Cliente: dto.ClienteRequest{
			Nombre:       "Construcciones Pérez S.L.",
			NIF:          "B87654321",
			Direccion:    "Avenida de la Constitución 12",
			CodigoPostal: "41001",
			Ciudad:       "Sevilla",
			Provincia:    "Sevilla",
			Email:        "oficina@construccionesperez.example",
		},
		Items: []dto.ItemVentaRequest{
			{
				Descripcion:    "Instalación eléctrica nave principal",
				Cantidad:       decimal.NewFromInt(10),
				Unidad:         "hora",
				PrecioUnitario: decimal.NewFromInt(50),
				IVAPorcentaje:  &iva,
			},
			{
				Descripcion:    "Material auxiliar",
				Cantidad:       decimal.NewFromInt(2),
				Unidad:         "unidad",
				PrecioUnitario: decimal.NewFromFloat(12.5),
				IVAPorcentaje:  &iva,
			},
		},
		MetodoPago:     "Transferencia bancaria",
		IRPFPorcentaje: &irpf,
		Notas:          "Obra calle Feria. Pago a 30 días.",
	})
	if err != nil {
		log.Fatalf("seed error: %v", err)
	}

	fmt.Printf("✅ Venta de demo %s creada (total %s €) para '%s'\n", resp.ID, resp.Total, resp.Cliente.Nombre)
}
