package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TempDayID is a client-side reference to a day rule that exists only while
// a subscription is being created. It is either a "weekIndex-dayIndex" token
// or a bare number.
type TempDayID struct {
	Raw  string
	Bare bool
}

func CompositeDayID(weekIndex, dayIndex int) TempDayID {
	return TempDayID{Raw: fmt.Sprintf("%d-%d", weekIndex, dayIndex)}
}

func BareDayID(n int) TempDayID {
	return TempDayID{Raw: strconv.Itoa(n), Bare: true}
}

func (id *TempDayID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		id.Raw = strings.TrimSpace(s)
		id.Bare = isDigits(id.Raw)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("temporary day id must be a string or a number, got %s", data)
	}
	id.Raw = n.String()
	id.Bare = true
	return nil
}

func (id TempDayID) MarshalJSON() ([]byte, error) {
	if id.Bare {
		return []byte(id.Raw), nil
	}
	return json.Marshal(id.Raw)
}

// Composite returns the zero-based week and day indexes of a composite id.
func (id TempDayID) Composite() (weekIndex, dayIndex int, ok bool) {
	if id.Bare {
		return 0, 0, false
	}
	parts := strings.Split(id.Raw, "-")
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || w < 0 {
		return 0, 0, false
	}
	d, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || d < 0 {
		return 0, 0, false
	}
	return w, d, true
}

func (id TempDayID) String() string {
	return id.Raw
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FlexibleAmount keeps a money value exactly as the client sent it, either
// as a JSON string or a JSON number. Any other JSON value decodes as empty
// and is treated downstream like an unparsable amount.
type FlexibleAmount string

func (a *FlexibleAmount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = FlexibleAmount(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		*a = ""
		return nil
	}
	*a = FlexibleAmount(n.String())
	return nil
}

func (a FlexibleAmount) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(string(a)))
}
