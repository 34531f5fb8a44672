package quote

import (
	"math"
	"strconv"
	"strings"

	"github.com/teslaing/cotizador/internal/models"
)

// Editable line-item fields, named by their wire keys.
const (
	FieldChapter     = "capitulo"
	FieldDescription = "descripcion"
	FieldUnit        = "unidad"
	FieldNote        = "observacion"
	FieldQuantity    = "cantidad"
	FieldUnitPrice   = "precioUnitario"
)

// UpdateItem applies a single-field edit to the item at index and returns
// the updated slice. Numeric fields are parsed from raw; a value that is
// not a non-negative finite number makes the edit a no-op and the input
// slice is returned unchanged. Free-text fields accept any value verbatim.
// An out-of-range index or unknown field is also a no-op.
func UpdateItem(items []models.LineItem, index int, field, raw string) []models.LineItem {
	if index < 0 || index >= len(items) {
		return items
	}
	switch field {
	case FieldQuantity, FieldUnitPrice:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return items
		}
		out := cloneItems(items)
		if field == FieldQuantity {
			out[index].Quantity = v
		} else {
			out[index].UnitPrice = v
		}
		return out
	case FieldChapter, FieldDescription, FieldUnit, FieldNote:
		out := cloneItems(items)
		switch field {
		case FieldChapter:
			out[index].Chapter = raw
		case FieldDescription:
			out[index].Description = raw
		case FieldUnit:
			out[index].Unit = raw
		case FieldNote:
			out[index].Note = raw
		}
		return out
	}
	return items
}

// AddItem appends a placeholder row, optionally into the given chapter.
func AddItem(items []models.LineItem, chapter string) []models.LineItem {
	out := cloneItems(items)
	return append(out, models.LineItem{
		Chapter:     chapter,
		Description: "Nueva partida",
		Unit:        "und",
		Quantity:    1,
		UnitPrice:   0,
	})
}

// RemoveItem removes the row at index. Out-of-range indices are a no-op.
func RemoveItem(items []models.LineItem, index int) []models.LineItem {
	if index < 0 || index >= len(items) {
		return items
	}
	out := make([]models.LineItem, 0, len(items)-1)
	out = append(out, items[:index]...)
	out = append(out, items[index+1:]...)
	return out
}

func cloneItems(items []models.LineItem) []models.LineItem {
	out := make([]models.LineItem, len(items))
	copy(out, items)
	return out
}
