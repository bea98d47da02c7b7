package domain

import "errors"

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// ProductPatch is a partial update. Nil fields are left untouched; numeric
// fields follow the same parsing rules as ProductInput.
type ProductPatch struct {
	CategoryID  any     `json:"category_id,omitempty"`
	Name        *string `json:"product_name,omitempty"`
	Description *string `json:"product_description,omitempty"`
	Stock       any     `json:"product_stock,omitempty"`
	Price       any     `json:"product_price,omitempty"`
}

func (p *ProductPatch) UnmarshalJSON(data []byte) error {
	type plain ProductPatch
	var out plain
	if err := decodeUseNumber(data, &out); err != nil {
		return err
	}
	*p = ProductPatch(out)
	return nil
}

func (p ProductPatch) IsEmpty() bool {
	return p.CategoryID == nil && p.Name == nil && p.Description == nil && p.Stock == nil && p.Price == nil
}

// Apply returns current with the patch merged in. The result is not
// validated; call Validate on it.
func (p ProductPatch) Apply(current Product) (Product, error) {
	var errs []error
	next := current
	if p.CategoryID != nil {
		next.CategoryID = parseIntField(FieldCategoryID, p.CategoryID, &errs)
	}
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Stock != nil {
		next.Stock = parseIntField(FieldStock, p.Stock, &errs)
	}
	if p.Price != nil {
		next.Price = parseDecimalField(FieldPrice, p.Price, &errs)
	}
	if len(errs) > 0 {
		return current, errors.Join(errs...)
	}
	return next, nil
}

// ListFilter selects a page of products, optionally within one category.
type ListFilter struct {
	CategoryID int64
	Limit      int
	Offset     int
}

// Normalize clamps the page to sane bounds.
func (f ListFilter) Normalize() ListFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

type StockAdjustRequest struct {
	Delta int64 `json:"delta" binding:"required"`
}
