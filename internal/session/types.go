package session

import (
	"errors"
	"math"
	"strings"
)

var errQuantityOverflow = errors.New("merged quantity overflows int64")

// CartLine is one purchasable variant in the guest cart.
type CartLine struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int64  `json:"quantity" validate:"min=1"`
}

// LineKey is the dedup key of a cart line.
type LineKey struct {
	ProductID string
	Size      string
	Color     string
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Size: l.Size, Color: l.Color}
}

func normalizeLine(line CartLine) CartLine {
	line.ProductID = strings.TrimSpace(line.ProductID)
	line.Size = strings.TrimSpace(line.Size)
	line.Color = strings.TrimSpace(line.Color)
	return line
}

// mergeLine applies the dedup rule: same key adds quantities in place, a new key appends.
// Both quantities are positive; a sum past math.MaxInt64 leaves lines untouched.
func mergeLine(lines []CartLine, line CartLine) ([]CartLine, error) {
	if idx := indexOfLine(lines, line.Key()); idx >= 0 {
		if lines[idx].Quantity > math.MaxInt64-line.Quantity {
			return lines, errQuantityOverflow
		}
		lines[idx].Quantity += line.Quantity
		return lines, nil
	}
	return append(lines, line), nil
}

func indexOfLine(lines []CartLine, key LineKey) int {
	for i := range lines {
		if lines[i].Key() == key {
			return i
		}
	}
	return -1
}

func indexOfID(ids []string, id string) int {
	for i, existing := range ids {
		if existing == id {
			return i
		}
	}
	return -1
}
