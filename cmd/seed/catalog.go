package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
)

// catalogRow fila del catálogo: producto y existencia inicial.
type catalogRow struct {
	Line     int
	Product  dto.CreateProductRequest
	Quantity int64
}

// Columnas: nombre;codigo_barras;precio_venta;precio_compra;unidad;minimo;existencia
const catalogColumns = 7

// catalogReader envuelve r con el decodificador del charset indicado.
// Las hojas exportadas desde Excel en español suelen venir en ISO-8859-1.
func catalogReader(r io.Reader, charset string) io.Reader {
	switch strings.ToUpper(strings.TrimSpace(charset)) {
	case "ISO-8859-1", "ISO8859-1", "LATIN1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return r
	}
}

// parseCatalog lee el CSV separado por ';'. La primera fila es encabezado.
func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var rows []catalogRow
	header := true
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		line, _ := cr.FieldPos(0)
		row, err := parseCatalogRecord(record)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row.Line = line
		rows = append(rows, row)
	}
	return rows, nil
}

func parseCatalogRecord(record []string) (catalogRow, error) {
	if len(record) < catalogColumns {
		return catalogRow{}, fmt.Errorf("se esperaban %d columnas, hay %d", catalogColumns, len(record))
	}
	field := func(i int) string { return strings.TrimSpace(record[i]) }

	name := field(0)
	if name == "" {
		return catalogRow{}, errors.New("nombre vacío")
	}
	salePrice, err := parseAmount(field(2))
	if err != nil {
		return catalogRow{}, fmt.Errorf("precio_venta: %w", err)
	}
	purchasePrice, err := parseAmount(field(3))
	if err != nil {
		return catalogRow{}, fmt.Errorf("precio_compra: %w", err)
	}
	minimum, err := parseCount(field(5))
	if err != nil {
		return catalogRow{}, fmt.Errorf("minimo: %w", err)
	}
	quantity, err := parseCount(field(6))
	if err != nil {
		return catalogRow{}, fmt.Errorf("existencia: %w", err)
	}

	return catalogRow{
		Product: dto.CreateProductRequest{
			Name:            name,
			Barcode:         field(1),
			SalePrice:       salePrice,
			PurchasePrice:   purchasePrice,
			UnitOfMeasure:   field(4),
			MinimumQuantity: minimum,
		},
		Quantity: quantity,
	}, nil
}

// parseAmount acepta coma decimal ("1234,50") además de punto.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("valor negativo %s", s)
	}
	return d, nil
}

func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("valor negativo %d", n)
	}
	return n, nil
}
