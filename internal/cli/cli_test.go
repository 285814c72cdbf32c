package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Inventory/internal/catalog"
)

func run(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCommand(strings.NewReader(stdin), &out)
	cmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCommandsPersistBetweenRuns(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "", "add", "--id", "A1", "--name", "Widget", "--quantity", "10", "--price", "2.50")
	require.NoError(t, err)
	_, err = run(t, dir, "", "add", "--id", "A2", "--name", "Blue Widget", "--quantity", "5", "--price", "3")
	require.NoError(t, err)

	out, err := run(t, dir, "", "search", "widget")
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 product(s):")
	assert.Less(t, strings.Index(out, "ID: A2"), strings.Index(out, "ID: A1"))

	out, err = run(t, dir, "", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Distinct items: 2 | Total units: 15 | Total value: 40.00")

	out, err = run(t, dir, "", "list", "--sort", "value")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "ID: A1"), strings.Index(out, "ID: A2"))

	_, err = run(t, dir, "", "update", "A1", "--name", "Sprocket", "--price", "1")
	require.NoError(t, err)

	out, err = run(t, dir, "", "get", "A1")
	require.NoError(t, err)
	assert.Contains(t, out, "- ID: A1 | Name: Sprocket | Quantity: 10 | Price: 1.00 | Value: 10.00")

	_, err = run(t, dir, "", "remove", "A2")
	require.NoError(t, err)

	out, err = run(t, dir, "", "export-csv")
	require.NoError(t, err)
	assert.Contains(t, out, "CSV exported to:")

	raw, err := os.ReadFile(filepath.Join(dir, "inventario.csv"))
	require.NoError(t, err)
	assert.Equal(t, "id,nombre,cantidad,precio,valor_total\nA1,Sprocket,10,1.00,10.00\n", string(raw))
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "", "add", "--id", "A1", "--name", "Widget", "--quantity", "-1")
	assert.Error(t, err)

	_, err = run(t, dir, "", "add", "--id", "A1", "--name", "Widget", "--price", "abc")
	assert.Error(t, err)

	_, err = run(t, dir, "", "get", "nope")
	assert.ErrorContains(t, err, `no product with id "nope"`)
}

func TestAddGeneratesID(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "", "add", "--name", "Gear")
	require.NoError(t, err)
	assert.Contains(t, out, "- ID: p_")
}

func TestSQLiteStoreFlag(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "", "--store", "sqlite", "add", "--id", "A1", "--name", "Widget", "--quantity", "2", "--price", "1.5")
	require.NoError(t, err)

	out, err := run(t, dir, "", "--store", "sqlite", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Value: 3.00")
	assert.FileExists(t, filepath.Join(dir, "inventario.db"))
}

func TestMenuSession(t *testing.T) {
	dir := t.TempDir()

	input := strings.Join([]string{
		"1", "A1", "Widget", "x", "10", "2.50", // add, with one bad quantity
		"1", "A1", "Dup", "1", "1", // duplicate id is reported
		"3", "A1", "", "abc", "3", // update: keep name, bad quantity ignored, new price
		"4", "WIDG",
		"6",
		"2", "missing",
		"9",
		"7",
		"42",
		"0",
	}, "\n") + "\n"

	out, err := run(t, dir, input)
	require.NoError(t, err)

	assert.Contains(t, out, "Product added.")
	assert.Contains(t, out, "invalid quantity: must be an integer. Try again.")
	assert.Contains(t, out, `Error: a product with id "A1" already exists`)
	assert.Contains(t, out, "Invalid quantity, ignored.")
	assert.Contains(t, out, "- ID: A1 | Name: Widget | Quantity: 10 | Price: 3.00 | Value: 30.00")
	assert.Contains(t, out, "Found 1 product(s):")
	assert.Contains(t, out, "Distinct items: 1 | Total units: 10 | Total value: 30.00")
	assert.Contains(t, out, `Error: no product with id "missing"`)
	assert.Contains(t, out, "Invalid option, try again.")
	assert.Contains(t, out, "Goodbye!")

	assert.FileExists(t, filepath.Join(dir, "inventario.csv"))
	raw, err := os.ReadFile(filepath.Join(dir, "inventario.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"nombre": "Widget"`)
}

func TestMenuEndsOnEOF(t *testing.T) {
	out, err := run(t, t.TempDir(), "6\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Goodbye!")
}

func TestFailedCommandStillWritesMetrics(t *testing.T) {
	dir := t.TempDir()
	prom := filepath.Join(dir, "inventory.prom")

	_, err := run(t, dir, "", "--metrics-textfile", prom, "get", "nope")
	require.ErrorIs(t, err, catalog.ErrNotFound)

	raw, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `inventory_operations_total{op="get",result="error"} 1`)
}

func TestNumericIDsInFileAreKept(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventario.json")
	body := `[{"id":"A1","nombre":"Widget","cantidad":1,"precio":2},` +
		`{"id":"A2","nombre":"Gear","cantidad":2,"precio":1},` +
		`{"id":3,"nombre":"Bolt","cantidad":5.0,"precio":0.5}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := run(t, dir, "", "add", "--id", "N1", "--name", "New")
	require.NoError(t, err)

	out, err := run(t, dir, "", "list", "--sort", "id")
	require.NoError(t, err)
	for _, id := range []string{"3", "A1", "A2", "N1"} {
		assert.Contains(t, out, "- ID: "+id+" |")
	}
	assert.Contains(t, out, "- ID: 3 | Name: Bolt | Quantity: 5 |")
}

func TestWrongShapeFileIsNotOverwritten(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventario.json")
	body := `[{"id":"A1","nombre":"Widget","cantidad":1,"precio":{"amount":2}}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := run(t, dir, "", "add", "--id", "N1", "--name", "New")
	require.Error(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, string(raw))
}

func TestMenuStartsEmptyAfterLoadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "inventario.json")
	body := `[{"id":"A1","nombre":"Widget","cantidad":-1,"precio":2}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := run(t, dir, "", "get", "A1")
	require.ErrorIs(t, err, catalog.ErrValidation)

	out, err := run(t, dir, "6\n0\n")
	require.NoError(t, err)
	assert.Contains(t, out, `Error: load `)
	assert.Contains(t, out, "Starting with an empty catalog.")
	assert.Contains(t, out, "Distinct items: 0 | Total units: 0 | Total value: 0.00")
	assert.Contains(t, out, "Goodbye!")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, string(raw))
}
