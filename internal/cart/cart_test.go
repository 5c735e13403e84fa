package cart

import (
	"testing"

	"peptide-store/internal/models"

	"github.com/stretchr/testify/assert"
)

func ptrF(v float64) *float64 { return &v }
func ptrU(v uint) *uint       { return &v }

func TestResolveUnitPrice(t *testing.T) {
	product := &models.Product{BasePrice: 1000}
	discounted := &models.Product{BasePrice: 1000, DiscountPrice: ptrF(800), DiscountActive: true}
	inactiveDiscount := &models.Product{BasePrice: 1000, DiscountPrice: ptrF(800), DiscountActive: false}

	variation := &models.ProductVariation{Price: 2500}
	discountedVar := &models.ProductVariation{Price: 2500, DiscountPrice: ptrF(2000), DiscountActive: true}
	penVar := &models.ProductVariation{
		Price:              2500,
		DisposablePenPrice: ptrF(3000),
		ReusablePenPrice:   ptrF(3500),
	}

	tests := []struct {
		name    string
		p       *models.Product
		v       *models.ProductVariation
		penType string
		want    float64
	}{
		{"base price", product, nil, "", 1000},
		{"active product discount", discounted, nil, "", 800},
		{"inactive discount ignored", inactiveDiscount, nil, "", 1000},
		{"variation price beats product", product, variation, "", 2500},
		{"variation discount", product, discountedVar, "", 2000},
		{"disposable pen price", product, penVar, "disposable", 3000},
		{"reusable pen price", product, penVar, "reusable", 3500},
		{"pen type without pen price falls back", product, variation, "disposable", 2500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveUnitPrice(tt.p, tt.v, tt.penType))
		})
	}
}

func TestTotals(t *testing.T) {
	c := Cart{Items: []Item{
		{Name: "BPC-157 5mg", Quantity: 2, UnitPrice: 1500},
		{Name: "TB-500 10mg", Quantity: 1, UnitPrice: 2000},
	}}

	// getTotalPrice = sum(price x quantity)
	assert.Equal(t, 5000.0, c.TotalPrice())
	assert.Equal(t, 3, c.TotalItems())

	empty := Cart{}
	assert.Equal(t, 0.0, empty.TotalPrice())
	assert.Equal(t, 0, empty.TotalItems())
}

func TestAddMergesEqualLines(t *testing.T) {
	s := NewStore()

	s.Add("tok", Item{ProductID: 1, VariationID: ptrU(7), Quantity: 1, UnitPrice: 1500, Stock: 10})
	snapshot, clamped := s.Add("tok", Item{ProductID: 1, VariationID: ptrU(7), Quantity: 2, UnitPrice: 1500, Stock: 10})

	assert.False(t, clamped)
	assert.Len(t, snapshot.Items, 1)
	assert.Equal(t, 3, snapshot.Items[0].Quantity)

	// A different pen type is its own line
	snapshot, _ = s.Add("tok", Item{ProductID: 1, VariationID: ptrU(7), PenType: "disposable", Quantity: 1, UnitPrice: 1800, Stock: 10})
	assert.Len(t, snapshot.Items, 2)
}

func TestAddClampsToStock(t *testing.T) {
	s := NewStore()

	snapshot, clamped := s.Add("tok", Item{ProductID: 1, Quantity: 9, Stock: 5})
	assert.True(t, clamped)
	assert.Equal(t, 5, snapshot.Items[0].Quantity)

	// Merging past stock clamps too
	snapshot, clamped = s.Add("tok", Item{ProductID: 1, Quantity: 3, Stock: 5})
	assert.True(t, clamped)
	assert.Equal(t, 5, snapshot.Items[0].Quantity)
}

func TestZeroStockDropsTheLine(t *testing.T) {
	s := NewStore()
	s.Add("tok", Item{ProductID: 1, Quantity: 2, Stock: 5})
	s.Add("tok", Item{ProductID: 2, Quantity: 1, Stock: 5})

	// Stock read as 0 on update: no quantity-0 line survives
	snapshot, clamped, err := s.UpdateQuantity("tok", 0, 3, 0)
	assert.NoError(t, err)
	assert.True(t, clamped)
	assert.Len(t, snapshot.Items, 1)
	assert.Equal(t, uint(2), snapshot.Items[0].ProductID)

	// Merging into a line whose stock is now 0 removes it too
	snapshot, clamped = s.Add("tok", Item{ProductID: 2, Quantity: 1, Stock: 0})
	assert.True(t, clamped)
	assert.Empty(t, snapshot.Items)

	// And a fresh zero-stock add never enters the cart
	snapshot, clamped = s.Add("tok", Item{ProductID: 3, Quantity: 1, Stock: 0})
	assert.True(t, clamped)
	assert.Empty(t, snapshot.Items)
}

func TestUpdateQuantity(t *testing.T) {
	s := NewStore()
	s.Add("tok", Item{ProductID: 1, Quantity: 1, Stock: 10})

	snapshot, clamped, err := s.UpdateQuantity("tok", 0, 4, 10)
	assert.NoError(t, err)
	assert.False(t, clamped)
	assert.Equal(t, 4, snapshot.Items[0].Quantity)

	// Over stock: clamp with warning, not an error
	snapshot, clamped, err = s.UpdateQuantity("tok", 0, 99, 10)
	assert.NoError(t, err)
	assert.True(t, clamped)
	assert.Equal(t, 10, snapshot.Items[0].Quantity)

	// Floor at 1
	snapshot, _, err = s.UpdateQuantity("tok", 0, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, snapshot.Items[0].Quantity)

	_, _, err = s.UpdateQuantity("tok", 5, 1, 10)
	assert.ErrorIs(t, err, ErrBadIndex)
}

func TestRemoveAndClear(t *testing.T) {
	s := NewStore()
	s.Add("tok", Item{ProductID: 1, Quantity: 1, Stock: 5})
	s.Add("tok", Item{ProductID: 2, Quantity: 1, Stock: 5})

	snapshot, err := s.Remove("tok", 0)
	assert.NoError(t, err)
	assert.Len(t, snapshot.Items, 1)
	assert.Equal(t, uint(2), snapshot.Items[0].ProductID)

	_, err = s.Remove("tok", 9)
	assert.ErrorIs(t, err, ErrBadIndex)

	s.Clear("tok")
	assert.Empty(t, s.Snapshot("tok").Items)
}

func TestCartsAreIsolatedByToken(t *testing.T) {
	s := NewStore()
	s.Add("alice", Item{ProductID: 1, Quantity: 1, Stock: 5})
	s.Add("bob", Item{ProductID: 2, Quantity: 2, Stock: 5})

	assert.Len(t, s.Snapshot("alice").Items, 1)
	assert.Equal(t, 2, s.Snapshot("bob").TotalItems())
}
