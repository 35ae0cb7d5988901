package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func line(qty int, price string) Line {
	return Line{Quantity: qty, Price: decimal.RequireFromString(price)}
}

func TestCalculateItemsPrice(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  string
	}{
		{name: "no items", lines: nil, want: "0"},
		{name: "whole prices", lines: []Line{line(2, "50"), line(1, "30")}, want: "130"},
		{name: "zero quantity", lines: []Line{line(0, "50")}, want: "0"},
		{name: "fractional prices", lines: []Line{line(2, "19.99"), line(1, "3.50")}, want: "43.48"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateItemsPrice(tt.lines)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestNewPage(t *testing.T) {
	page := NewPage([]string{"a", "b"}, 21, PageRequest{Page: 2, PageSize: 10})

	assert.Equal(t, PageMeta{CurrentPage: 2, LastPage: 3, Total: 21}, page.Meta)
	assert.Len(t, page.List, 2)

	empty := NewPage[string](nil, 0, PageRequest{Page: 1, PageSize: 10})
	assert.NotNil(t, empty.List)
	assert.Equal(t, 0, empty.Meta.LastPage)
}

func TestPageRequestNormalize(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, PageSize: 10}, PageRequest{}.Normalize())
	assert.Equal(t, PageRequest{Page: 3, PageSize: 25}, PageRequest{Page: 3, PageSize: 25}.Normalize())
	assert.Equal(t, 50, PageRequest{Page: 3, PageSize: 25}.Offset())
}

func TestErrorKinds(t *testing.T) {
	var err error = NewNotFoundError("Customer not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Customer not found")

	err = NewValidationError("Shipping method invalid for this customer location")
	assert.ErrorIs(t, err, ErrValidation)
}
