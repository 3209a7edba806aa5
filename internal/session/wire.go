package session

import (
	"encoding/json"
	"strconv"
	"strings"
)

// storedCartLine is the persisted shape of a CartLine. Quantity travels as a decimal
// string so it survives storage formats with float-only numbers.
type storedCartLine struct {
	ProductID storedText     `json:"productId"`
	Size      storedText     `json:"size"`
	Color     storedText     `json:"color"`
	Quantity  storedQuantity `json:"quantity"`
}

type storedQuantity int64

func (q storedQuantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(q), 10))
}

// UnmarshalJSON accepts "3" and 3. Anything unparseable becomes 0, which hydration drops.
func (q *storedQuantity) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	var quoted string
	if err := json.Unmarshal(data, &quoted); err == nil {
		text = strings.TrimSpace(quoted)
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		*q = 0
		return nil
	}
	*q = storedQuantity(n)
	return nil
}

// storedText accepts strings and bare numbers (older writers stored numeric product ids).
type storedText string

func (t *storedText) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		*t = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = storedText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*t = storedText(n.String())
	return nil
}

func cartToWire(lines []CartLine) any {
	out := make([]storedCartLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, storedCartLine{
			ProductID: storedText(line.ProductID),
			Size:      storedText(line.Size),
			Color:     storedText(line.Color),
			Quantity:  storedQuantity(line.Quantity),
		})
	}
	return out
}

func cartFromWire(raw json.RawMessage) ([]CartLine, error) {
	var stored []storedCartLine
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	lines := make([]CartLine, 0, len(stored))
	for _, s := range stored {
		lines = append(lines, CartLine{
			ProductID: string(s.ProductID),
			Size:      string(s.Size),
			Color:     string(s.Color),
			Quantity:  int64(s.Quantity),
		})
	}
	return lines, nil
}

func wishlistToWire(ids []string) any {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func wishlistFromWire(raw json.RawMessage) ([]string, error) {
	var stored []storedText
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(stored))
	for _, s := range stored {
		ids = append(ids, string(s))
	}
	return ids, nil
}
