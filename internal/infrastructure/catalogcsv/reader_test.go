package catalogcsv

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadProducts_UTF8ConComas(t *testing.T) {
	in := "Nombre,Categoría,Precio,Costo\n" +
		"Cerveza Clara,Cerveza,$50.00,30\n" +
		"\n" +
		"Agua 600ml,Agua,20,8.5\n"

	list, err := ReadProducts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "Cerveza Clara", list[0].Name)
	assert.Equal(t, "Cerveza", list[0].Category)
	assert.Equal(t, "50", list[0].Price.String())
	assert.Equal(t, "30", list[0].PurchasePrice.String())
	assert.Equal(t, "8.5", list[1].PurchasePrice.String())
}

func TestReadProducts_Latin1ConPuntoYComa(t *testing.T) {
	// "Categoría" y "Limón" en ISO-8859-1 (í = 0xED, ó = 0xF3).
	in := "nombre;categor\xeda;presentaci\xf3n;precio\n" +
		"Agua de Lim\xf3n;Bebidas;Vaso 1L;\"$1,250.00\"\n"

	list, err := ReadProducts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Agua de Limón", list[0].Name)
	assert.Equal(t, "Bebidas", list[0].Category)
	assert.Equal(t, "Vaso 1L", list[0].Presentation)
	assert.Equal(t, "1250", list[0].Price.String())
	assert.True(t, list[0].PurchasePrice.IsZero())
}

func TestReadProducts_BOMSeIgnora(t *testing.T) {
	in := "\xef\xbb\xbfname,price\nHielo,15\n"
	list, err := ReadProducts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Hielo", list[0].Name)
}

func TestReadProducts_Errores(t *testing.T) {
	cases := []struct {
		name string
		in   string
		row  int
	}{
		{"sin columna precio", "nombre,costo\nHielo,5\n", 1},
		{"precio inválido", "nombre,precio\nHielo,5\nAgua,doce\n", 3},
		{"nombre vacío", "nombre,precio\n ,5\n", 2},
		{"fila real tras línea vacía", "nombre,precio\n\nAgua,doce\n", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadProducts(strings.NewReader(tc.in))
			require.Error(t, err)
			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr))
			assert.Equal(t, tc.row, rowErr.Row)
		})
	}
}

func TestReadClients(t *testing.T) {
	in := "Nombre;Zona;Giro;Contacto;Tel\xe9fono\n" +
		"Stand Norte;Zona VIP;Bar;Ra\xfal;555-0101\n" +
		"Cocina Ana;;Comida;;\n"

	list, err := ReadClients(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Stand Norte", list[0].Name)
	assert.Equal(t, "Zona VIP", list[0].Zone)
	assert.Equal(t, "Bar", list[0].BusinessType)
	assert.Equal(t, "Raúl", list[0].ContactName)
	assert.Equal(t, "555-0101", list[0].Phone)
	assert.Empty(t, list[1].Zone)
}

func TestReadWarehouses(t *testing.T) {
	list, err := ReadWarehouses(strings.NewReader("nombre\nAlmac\xe9n Central\nBodega Sur\n"))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Almacén Central", list[0].Name)

	_, err = ReadWarehouses(strings.NewReader("zona\nNorte\n"))
	var rowErr *RowError
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 1, rowErr.Row)
}
