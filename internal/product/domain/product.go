package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/ridloal/product-catalog/internal/platform/numeric"
	"github.com/shopspring/decimal"
)

// Product is one catalog item. Price is an exact decimal so that "9.99"
// round-trips without binary float loss.
type Product struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Name        string          `json:"product_name"`
	Description string          `json:"product_description"`
	Stock       int64           `json:"product_stock"`
	Price       decimal.Decimal `json:"product_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Prices are stored as NUMERIC(12,2): at most two decimal places and ten
// integer digits.
const PriceScale = 2

var maxPrice = decimal.New(1, 10)

// Prices leave the service as JSON numbers. With at most 12 significant
// digits they survive a float64 decode unchanged.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductInput carries the raw construction arguments. The numeric fields
// accept anything numeric-like: JSON numbers, numeric strings, Go ints and
// floats, json.Number or decimal.Decimal. A nil ID means "not assigned yet".
type ProductInput struct {
	ID          any    `json:"id,omitempty"`
	CategoryID  any    `json:"category_id"`
	Name        string `json:"product_name"`
	Description string `json:"product_description"`
	Stock       any    `json:"product_stock"`
	Price       any    `json:"product_price"`
}

// UnmarshalJSON decodes numbers as json.Number so large ids and prices keep
// their exact digits.
func (in *ProductInput) UnmarshalJSON(data []byte) error {
	type plain ProductInput
	var out plain
	if err := decodeUseNumber(data, &out); err != nil {
		return err
	}
	*in = ProductInput(out)
	return nil
}

// NewProduct builds a Product from loosely typed input. Name and description
// are stored exactly as given. Every numeric field that fails to parse is
// reported as a *FieldError; the returned error joins all of them and
// matches ErrInvalidProduct.
func NewProduct(in ProductInput) (Product, error) {
	var errs []error

	p := Product{
		Name:        in.Name,
		Description: in.Description,
	}
	if in.ID != nil {
		p.ID = parseIntField(FieldID, in.ID, &errs)
	}
	p.CategoryID = parseIntField(FieldCategoryID, in.CategoryID, &errs)
	p.Stock = parseIntField(FieldStock, in.Stock, &errs)
	p.Price = parseDecimalField(FieldPrice, in.Price, &errs)

	if len(errs) > 0 {
		return Product{}, errors.Join(errs...)
	}
	return p, nil
}

// MustNewProduct is NewProduct for fixtures and seed data; it panics on error.
func MustNewProduct(in ProductInput) Product {
	p, err := NewProduct(in)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate applies the catalog rules NewProduct deliberately skips.
func (p Product) Validate() error {
	var errs []error
	if p.ID < 0 {
		errs = append(errs, &FieldError{Field: FieldID, Value: p.ID, Err: ErrNegative})
	}
	if p.CategoryID < 0 {
		errs = append(errs, &FieldError{Field: FieldCategoryID, Value: p.CategoryID, Err: ErrNegative})
	}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, &FieldError{Field: FieldName, Value: p.Name, Err: ErrRequired})
	}
	if p.Stock < 0 {
		errs = append(errs, &FieldError{Field: FieldStock, Value: p.Stock, Err: ErrNegative})
	}
	switch {
	case p.Price.IsNegative():
		errs = append(errs, &FieldError{Field: FieldPrice, Value: p.Price.String(), Err: ErrNegative})
	case p.Price.GreaterThanOrEqual(maxPrice):
		errs = append(errs, &FieldError{Field: FieldPrice, Value: p.Price.String(), Err: ErrTooLarge})
	case !p.Price.Equal(p.Price.Truncate(PriceScale)):
		errs = append(errs, &FieldError{Field: FieldPrice, Value: p.Price.String(), Err: ErrTooPrecise})
	}
	return errors.Join(errs...)
}

func parseIntField(field string, v any, errs *[]error) int64 {
	n, err := numeric.ParseInt(v)
	if err != nil {
		*errs = append(*errs, &FieldError{Field: field, Value: v, Err: err})
	}
	return n
}

func parseDecimalField(field string, v any, errs *[]error) decimal.Decimal {
	d, err := numeric.ParseDecimal(v)
	if err != nil {
		*errs = append(*errs, &FieldError{Field: field, Value: v, Err: err})
	}
	return d
}

func decodeUseNumber(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
