package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// RawRegistration is the loosely typed registration body as it arrives on the wire.
// A field that was absent has zero length; an explicit JSON null is "null".
type RawRegistration struct {
	SKU             json.RawMessage `json:"sku"`
	Name            json.RawMessage `json:"name"`
	WarehouseID     json.RawMessage `json:"warehouse_id"`
	Price           json.RawMessage `json:"price"`
	InitialQuantity json.RawMessage `json:"initial_quantity"`
}

// RegistrationRequest is a validated request to register a product and its
// initial stock in one warehouse. Build it with ParseRegistration.
type RegistrationRequest struct {
	SKU             string
	Name            string
	WarehouseID     int
	Price           *decimal.Decimal
	InitialQuantity int
}

// RegistrationResult carries the ids produced by a successful registration.
type RegistrationResult struct {
	ProductID      int  `json:"product_id"`
	InventoryID    int  `json:"inventory_id"`
	ProductCreated bool `json:"product_created"`
}

// ParseRegistration validates raw and returns a typed request, or a validation
// *Error describing the first failed check. Checks run in a fixed order so the
// same body always yields the same message.
func ParseRegistration(raw RawRegistration) (RegistrationRequest, error) {
	var req RegistrationRequest

	required := []struct {
		name  string
		value json.RawMessage
	}{
		{"sku", raw.SKU},
		{"name", raw.Name},
		{"warehouse_id", raw.WarehouseID},
	}
	for _, f := range required {
		if len(f.value) == 0 {
			return req, validationError("Missing field: " + f.name)
		}
	}

	sku, ok := rawString(raw.SKU)
	if !ok {
		return req, validationError("sku must be a string")
	}
	name, ok := rawString(raw.Name)
	if !ok {
		return req, validationError("name must be a string")
	}
	req.SKU = strings.TrimSpace(sku)
	req.Name = strings.TrimSpace(name)
	if req.SKU == "" {
		return req, validationError("SKU cannot be empty")
	}
	if req.Name == "" {
		return req, validationError("Name cannot be empty")
	}

	warehouseID, ok := rawInt32(raw.WarehouseID)
	if !ok {
		return req, validationError("Invalid warehouse_id")
	}
	req.WarehouseID = warehouseID

	if !isAbsent(raw.Price) {
		price, ok := rawDecimal(raw.Price)
		if !ok {
			return req, validationError("Price must be a decimal value")
		}
		if price.IsNegative() {
			return req, validationError("Price must be positive")
		}
		req.Price = &price
	}

	if len(raw.InitialQuantity) > 0 {
		qty, ok := rawInt32(raw.InitialQuantity)
		if !ok {
			return req, validationError("Initial quantity must be an integer")
		}
		if qty < 0 {
			return req, validationError("Initial quantity must be non-negative")
		}
		req.InitialQuantity = qty
	}

	return req, nil
}

func isAbsent(v json.RawMessage) bool {
	return len(v) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func rawString(v json.RawMessage) (string, bool) {
	var s string
	if isAbsent(v) || json.Unmarshal(v, &s) != nil {
		return "", false
	}
	return s, true
}

// rawNumberText returns the textual form of a JSON number or of a string holding one.
func rawNumberText(v json.RawMessage) (string, bool) {
	if isAbsent(v) {
		return "", false
	}
	if s, ok := rawString(v); ok {
		return strings.TrimSpace(s), true
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return "", false
	}
	return n.String(), true
}

// rawInt accepts JSON integers, integral numbers such as 5.0, and integer strings.
func rawInt(v json.RawMessage) (int, bool) {
	text, ok := rawNumberText(v)
	if !ok {
		return 0, false
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n, true
	}
	if _, isString := rawString(v); isString {
		return 0, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil || !d.IsInteger() {
		return 0, false
	}
	n, err := strconv.Atoi(d.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// rawInt32 is rawInt limited to the range of a Postgres INT column.
func rawInt32(v json.RawMessage) (int, bool) {
	n, ok := rawInt(v)
	if !ok || n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	return n, true
}

func rawDecimal(v json.RawMessage) (decimal.Decimal, bool) {
	text, ok := rawNumberText(v)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
