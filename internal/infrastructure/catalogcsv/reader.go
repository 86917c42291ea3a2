// Package catalogcsv lee catálogos (productos, clientes, almacenes) desde CSV exportado
// de Excel, usualmente en Latin-1, y los convierte en solicitudes de alta.
package catalogcsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/bmvdigital/pos-feria-2026/internal/application/dto"
	"github.com/bmvdigital/pos-feria-2026/pkg/money"
)

// Encabezados aceptados (sin importar mayúsculas) y la columna que representan.
var columnAliases = map[string]string{
	"nombre":         "name",
	"name":           "name",
	"categoria":      "category",
	"categoría":      "category",
	"category":       "category",
	"presentacion":   "presentation",
	"presentación":   "presentation",
	"presentation":   "presentation",
	"descripcion":    "description",
	"descripción":    "description",
	"description":    "description",
	"precio":         "price",
	"price":          "price",
	"costo":          "purchase_price",
	"precio_compra":  "purchase_price",
	"purchase_price": "purchase_price",
	"color":          "color",
	"zona":           "zone",
	"zone":           "zone",
	"giro":           "business_type",
	"tipo_negocio":   "business_type",
	"business_type":  "business_type",
	"contacto":       "contact_name",
	"contact_name":   "contact_name",
	"telefono":       "phone",
	"teléfono":       "phone",
	"phone":          "phone",
}

// RowError señala la fila (1 = encabezado) con datos inválidos.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("fila %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// record fila no vacía con acceso por columna.
type record struct {
	row    int
	fields []string
	cols   map[string]int
}

func (r record) get(key string) string {
	i, ok := r.cols[key]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// ReadProducts lee productos. Columnas obligatorias: nombre y precio.
func ReadProducts(r io.Reader) ([]dto.CreateProductRequest, error) {
	recs, err := readTable(r, "name", "price")
	if err != nil {
		return nil, err
	}
	out := make([]dto.CreateProductRequest, 0, len(recs))
	for _, rec := range recs {
		p := dto.CreateProductRequest{
			Name:         rec.get("name"),
			Category:     rec.get("category"),
			Presentation: rec.get("presentation"),
			Description:  rec.get("description"),
			Color:        rec.get("color"),
		}
		if p.Name == "" {
			return nil, &RowError{Row: rec.row, Err: fmt.Errorf("nombre vacío")}
		}
		if p.Price, err = money.Parse(rec.get("price")); err != nil {
			return nil, &RowError{Row: rec.row, Err: err}
		}
		if cost := rec.get("purchase_price"); cost != "" {
			if p.PurchasePrice, err = money.Parse(cost); err != nil {
				return nil, &RowError{Row: rec.row, Err: err}
			}
		}
		out = append(out, p)
	}
	return out, nil
}

// ReadClients lee clientes. Columna obligatoria: nombre. Saldo y créditos siempre inician en cero.
func ReadClients(r io.Reader) ([]dto.CreateClientRequest, error) {
	recs, err := readTable(r, "name")
	if err != nil {
		return nil, err
	}
	out := make([]dto.CreateClientRequest, 0, len(recs))
	for _, rec := range recs {
		c := dto.CreateClientRequest{
			Name:         rec.get("name"),
			Zone:         rec.get("zone"),
			BusinessType: rec.get("business_type"),
			ContactName:  rec.get("contact_name"),
			Phone:        rec.get("phone"),
		}
		if c.Name == "" {
			return nil, &RowError{Row: rec.row, Err: fmt.Errorf("nombre vacío")}
		}
		out = append(out, c)
	}
	return out, nil
}

// ReadWarehouses lee almacenes. Columna obligatoria: nombre.
func ReadWarehouses(r io.Reader) ([]dto.CreateWarehouseRequest, error) {
	recs, err := readTable(r, "name")
	if err != nil {
		return nil, err
	}
	out := make([]dto.CreateWarehouseRequest, 0, len(recs))
	for _, rec := range recs {
		name := rec.get("name")
		if name == "" {
			return nil, &RowError{Row: rec.row, Err: fmt.Errorf("nombre vacío")}
		}
		out = append(out, dto.CreateWarehouseRequest{Name: name})
	}
	return out, nil
}

// readTable decodifica el CSV. Si el contenido no es UTF-8 válido se interpreta como ISO-8859-1.
// El separador puede ser coma o punto y coma (se detecta en el encabezado).
func readTable(r io.Reader, required ...string) ([]record, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.Comma = detectComma(raw)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		if key, ok := columnAliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			cols[key] = i
		}
	}
	for _, req := range required {
		if _, ok := cols[req]; !ok {
			return nil, &RowError{Row: 1, Err: fmt.Errorf("falta la columna %q", req)}
		}
	}

	var out []record
	row := 1
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &RowError{Row: row + 1, Err: err}
		}
		row, _ = cr.FieldPos(0)
		if isBlank(fields) {
			continue
		}
		out = append(out, record{row: row, fields: fields, cols: cols})
	}
	return out, nil
}

func detectComma(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
