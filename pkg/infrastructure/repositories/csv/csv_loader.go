package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/coilplan/pkg/domain/entities"
	"github.com/vsinha/coilplan/pkg/domain/services"
)

var (
	coilHeader  = []string{"coilid", "product", "thickness", "width", "weight", "grade"}
	orderHeader = []string{"orderid", "product", "thickness", "width", "length", "quantity", "grade", "coilpacketweight", "priority", "duedate"}
	lineHeader  = []string{"name", "minwidth", "maxwidth", "maxthickness", "maxweight", "speedmpm", "cost"}
)

// DueDateLayout is the date format of the order duedate column
const DueDateLayout = "2006-01-02"

// ImportReport describes the outcome of one CSV import. Invalid rows are
// skipped, not fatal; RowErrors says why each one was dropped.
type ImportReport struct {
	Source    string   `json:"source"`
	Imported  int      `json:"imported"`
	Skipped   int      `json:"skipped"`
	RowErrors []string `json:"row_errors,omitempty"`
}

func (r *ImportReport) skip(row int, err error) {
	r.Skipped++
	r.RowErrors = append(r.RowErrors, fmt.Sprintf("row %d: %v", row, err))
}

// Loader handles loading coils, orders and lines from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadCoils loads coils from a CSV file
func (l *Loader) LoadCoils(filename string) ([]*entities.Coil, *ImportReport, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open coils file %s: %w", filename, err)
	}
	defer file.Close()
	return l.ReadCoils(file, filename)
}

// ReadCoils reads coils with columns coilid, product, thickness, width,
// weight and grade. Coil length is derived from the other dimensions.
func (l *Loader) ReadCoils(r io.Reader, source string) ([]*entities.Coil, *ImportReport, error) {
	rows, columns, err := readRecords(r, "coils", coilHeader)
	if err != nil {
		return nil, nil, err
	}

	report := &ImportReport{Source: source}
	var coils []*entities.Coil
	for i, record := range rows {
		coil, err := parseCoil(newRow(record, columns))
		if err != nil {
			report.skip(i+2, err)
			continue
		}
		coils = append(coils, coil)
	}
	report.Imported = len(coils)
	return coils, report, nil
}

// LoadOrders loads orders from a CSV file
func (l *Loader) LoadOrders(filename string) ([]*entities.Order, *ImportReport, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open orders file %s: %w", filename, err)
	}
	defer file.Close()
	return l.ReadOrders(file, filename)
}

// ReadOrders reads orders with columns orderid, product, thickness, width,
// length, quantity, grade, coilpacketweight, priority and duedate. Order
// weight is derived from the sheet dimensions.
func (l *Loader) ReadOrders(r io.Reader, source string) ([]*entities.Order, *ImportReport, error) {
	rows, columns, err := readRecords(r, "orders", orderHeader)
	if err != nil {
		return nil, nil, err
	}

	report := &ImportReport{Source: source}
	var orders []*entities.Order
	for i, record := range rows {
		order, err := parseOrder(newRow(record, columns))
		if err != nil {
			report.skip(i+2, err)
			continue
		}
		orders = append(orders, order)
	}
	report.Imported = len(orders)
	return orders, report, nil
}

// LoadLines loads processing lines from a CSV file
func (l *Loader) LoadLines(filename string) ([]*entities.Line, *ImportReport, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open lines file %s: %w", filename, err)
	}
	defer file.Close()
	return l.ReadLines(file, filename)
}

// ReadLines reads lines with columns name, minwidth, maxwidth, maxthickness,
// maxweight, speedmpm and cost. An optional id column names the line; the
// name is used otherwise. Row order is preserved.
func (l *Loader) ReadLines(r io.Reader, source string) ([]*entities.Line, *ImportReport, error) {
	rows, columns, err := readRecords(r, "lines", lineHeader)
	if err != nil {
		return nil, nil, err
	}

	report := &ImportReport{Source: source}
	var lines []*entities.Line
	for i, record := range rows {
		line, err := parseLine(newRow(record, columns))
		if err != nil {
			report.skip(i+2, err)
			continue
		}
		lines = append(lines, line)
	}
	report.Imported = len(lines)
	return lines, report, nil
}

// readRecords reads a CSV with a header row and returns the data rows and
// the column index of every header name
func readRecords(r io.Reader, kind string, required []string) ([][]string, map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[normalizeHeader(name)] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("%s CSV missing required columns: %s (required: %s)",
			kind, strings.Join(missing, ", "), strings.Join(required, ", "))
	}

	return records[1:], columns, nil
}

// normalizeHeader lowercases a header and drops spaces and underscores, so
// "Coil ID", "coil_id" and "CoilID" all read as coilid
func normalizeHeader(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "", "_", "").Replace(name)
}

// row gives named access to one CSV record
type row struct {
	record  []string
	columns map[string]int
}

func newRow(record []string, columns map[string]int) row {
	return row{record: record, columns: columns}
}

func (r row) has(column string) bool {
	i, ok := r.columns[column]
	return ok && i < len(r.record)
}

func (r row) text(column string) string {
	if !r.has(column) {
		return ""
	}
	return strings.TrimSpace(r.record[r.columns[column]])
}

func (r row) required(column string) (string, error) {
	value := r.text(column)
	if value == "" {
		return "", fmt.Errorf("missing %s", column)
	}
	return value, nil
}

func (r row) number(column string) (float64, error) {
	value, err := r.required(column)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, value)
	}
	return n, nil
}

func (r row) integer(column string) (int, error) {
	value, err := r.required(column)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", column, value)
	}
	return n, nil
}

func parseCoil(r row) (*entities.Coil, error) {
	id, err := r.required("coilid")
	if err != nil {
		return nil, err
	}
	productCode, err := r.required("product")
	if err != nil {
		return nil, err
	}
	product, err := entities.ParseProduct(productCode)
	if err != nil {
		return nil, err
	}
	thickness, err := r.number("thickness")
	if err != nil {
		return nil, err
	}
	width, err := r.number("width")
	if err != nil {
		return nil, err
	}
	weight, err := r.number("weight")
	if err != nil {
		return nil, err
	}
	grade, err := r.required("grade")
	if err != nil {
		return nil, err
	}

	status := entities.CoilAvailable
	if r.has("status") {
		if status, err = entities.ParseCoilStatus(r.text("status")); err != nil {
			return nil, err
		}
	}

	return entities.NewCoil(
		entities.CoilID(id),
		product,
		width,
		thickness,
		services.CoilLength(weight, width, thickness),
		weight,
		grade,
		status,
	)
}

func parseOrder(r row) (*entities.Order, error) {
	id, err := r.required("orderid")
	if err != nil {
		return nil, err
	}
	productCode, err := r.required("product")
	if err != nil {
		return nil, err
	}
	product, err := entities.ParseProduct(productCode)
	if err != nil {
		return nil, err
	}
	thickness, err := r.number("thickness")
	if err != nil {
		return nil, err
	}
	width, err := r.number("width")
	if err != nil {
		return nil, err
	}
	length, err := r.number("length")
	if err != nil {
		return nil, err
	}
	quantity, err := r.integer("quantity")
	if err != nil {
		return nil, err
	}
	grade, err := r.required("grade")
	if err != nil {
		return nil, err
	}
	priority, err := r.integer("priority")
	if err != nil {
		return nil, err
	}
	dueDateText, err := r.required("duedate")
	if err != nil {
		return nil, err
	}
	dueDate, err := time.Parse(DueDateLayout, dueDateText)
	if err != nil {
		return nil, fmt.Errorf("invalid duedate format: %s (expected YYYY-MM-DD)", dueDateText)
	}

	var packetWeight float64
	if r.text("coilpacketweight") != "" {
		if packetWeight, err = r.number("coilpacketweight"); err != nil {
			return nil, err
		}
	}

	order, err := entities.NewOrder(
		entities.OrderID(id),
		product,
		width,
		length,
		thickness,
		quantity,
		grade,
		services.OrderWeight(width, length, thickness, quantity),
		priority,
		dueDate,
	)
	if err != nil {
		return nil, err
	}
	order.CoilPacketWeight = packetWeight
	return order, nil
}

func parseLine(r row) (*entities.Line, error) {
	name, err := r.required("name")
	if err != nil {
		return nil, err
	}
	id := name
	if r.text("id") != "" {
		id = r.text("id")
	}

	values := make(map[string]float64, len(lineHeader)-1)
	for _, column := range lineHeader[1:] {
		if values[column], err = r.number(column); err != nil {
			return nil, err
		}
	}

	return entities.NewLine(
		entities.LineID(id),
		name,
		values["minwidth"],
		values["maxwidth"],
		values["maxthickness"],
		values["maxweight"],
		values["speedmpm"],
		values["cost"],
	)
}
