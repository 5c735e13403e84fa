package checkout

import (
	"testing"
	"time"

	"peptide-store/internal/cart"
	"peptide-store/internal/database"
	"peptide-store/internal/models"
	"peptide-store/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func ptrF(v float64) *float64 { return &v }

func validDetails() Details {
	return Details{
		FullName:         "Juan dela Cruz",
		Email:            "juan@example.com",
		Phone:            "09171234567",
		Address:          "123 Mabini St",
		Barangay:         "Poblacion",
		City:             "Batangas City",
		State:            "Batangas",
		ZipCode:          "4200",
		ShippingLocation: "luzon",
	}
}

// newFixture wires a database with the standard region fees, one payment
// method, the SAVE10 promo and a cart holding ₱5,000 of product.
func newFixture(t *testing.T) (*gorm.DB, *cart.Store, *Manager) {
	t.Helper()
	db := testutil.NewDB(t)
	database.SeedShippingLocations(db)

	require.NoError(t, db.Create(&models.PaymentMethod{
		Name: "GCash", AccountNumber: "09171230000", AccountName: "Store", Active: true, SortOrder: 1,
	}).Error)
	require.NoError(t, db.Create(&models.PromoCode{
		Code: "SAVE10", Active: true,
		DiscountType: "percentage", DiscountValue: 10,
		MaxDiscountAmount: ptrF(300),
	}).Error)
	require.NoError(t, db.Create(&models.Product{
		Name: "BPC-157", BasePrice: 2500, StockQuantity: 50, Available: true, PurityPercentage: 99.2,
	}).Error)

	carts := cart.NewStore()
	carts.Add("tok", cart.Item{
		ProductID: 1, Name: "BPC-157", Quantity: 2, UnitPrice: 2500, Purity: 99.2, Stock: 50,
	})

	return db, carts, NewManager(db, carts)
}

func toPayment(t *testing.T, m *Manager) {
	t.Helper()
	require.NoError(t, m.SubmitDetails("tok", validDetails()))
}

func TestDetailsGuard(t *testing.T) {
	_, _, m := newFixture(t)

	incomplete := validDetails()
	incomplete.Barangay = ""
	err := m.SubmitDetails("tok", incomplete)
	assert.ErrorIs(t, err, ErrDetailsIncomplete)

	// Still on Details, but the entered fields were kept
	s := m.Get("tok")
	assert.Equal(t, StateDetails, s.State)
	assert.Equal(t, "Juan dela Cruz", s.Details.FullName)

	// Filling in the gap advances
	require.NoError(t, m.SubmitDetails("tok", validDetails()))
	s = m.Get("tok")
	assert.Equal(t, StatePayment, s.State)
	assert.NotEmpty(t, s.IdempotencyKey)

	// First active payment method was preselected
	require.NotNil(t, s.PaymentMethodID)
	assert.Equal(t, "GCash", s.PaymentMethodName)
}

func TestUnknownRegionBlocksDetails(t *testing.T) {
	_, _, m := newFixture(t)

	d := validDetails()
	d.ShippingLocation = "mars"
	err := m.SubmitDetails("tok", d)
	assert.Error(t, err)
	assert.Equal(t, StateDetails, m.Get("tok").State)
}

func TestBackPreservesFields(t *testing.T) {
	_, _, m := newFixture(t)
	toPayment(t, m)

	key := m.Get("tok").IdempotencyKey
	require.NoError(t, m.Back("tok"))

	s := m.Get("tok")
	assert.Equal(t, StateDetails, s.State)
	assert.Equal(t, "Batangas City", s.Details.City)
	assert.Equal(t, key, s.IdempotencyKey, "idempotency key survives back-navigation")

	// Back from Details is inert
	assert.ErrorIs(t, m.Back("tok"), ErrWrongState)
}

func TestApplyPromoIsIdempotent(t *testing.T) {
	_, _, m := newFixture(t)
	toPayment(t, m)

	first, err := m.ApplyPromo("tok", "save10", now)
	require.NoError(t, err)
	assert.Equal(t, 300.0, first.DiscountAmount) // min(500, 300)

	second, err := m.ApplyPromo("tok", "save10", now)
	require.NoError(t, err)
	assert.Equal(t, first.DiscountAmount, second.DiscountAmount)

	m.RemovePromo("tok")
	assert.Nil(t, m.Get("tok").PromoResult)
}

func TestFailedPromoClearsPriorDiscount(t *testing.T) {
	_, _, m := newFixture(t)
	toPayment(t, m)

	_, err := m.ApplyPromo("tok", "SAVE10", now)
	require.NoError(t, err)

	// A bad re-apply does not leave the old discount behind
	_, err = m.ApplyPromo("tok", "BOGUS", now)
	assert.Error(t, err)
	assert.Nil(t, m.Get("tok").PromoResult)
}

func TestPlaceOrderGuards(t *testing.T) {
	db, _, m := newFixture(t)

	// Placing from Details is blocked
	_, err := m.PlaceOrder("tok", now)
	assert.ErrorIs(t, err, ErrWrongState)

	toPayment(t, m)

	// No payment proof: blocked, and no order row was written
	_, err = m.PlaceOrder("tok", now)
	assert.ErrorIs(t, err, ErrMissingProof)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	_, carts, m := newFixture(t)
	toPayment(t, m)
	require.NoError(t, m.AttachProof("tok", "http://localhost:8080/uploads/payment-proofs/1_proof.jpg"))

	carts.Clear("tok")
	_, err := m.PlaceOrder("tok", now)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderHappyPath(t *testing.T) {
	db, carts, m := newFixture(t)
	toPayment(t, m)

	_, err := m.ApplyPromo("tok", "SAVE10", now)
	require.NoError(t, err)
	require.NoError(t, m.AttachProof("tok", "http://localhost:8080/uploads/payment-proofs/1_proof.jpg"))

	order, err := m.PlaceOrder("tok", now)
	require.NoError(t, err)

	// ₱5,000 subtotal, 10% capped at ₱300, Luzon fee ₱150:
	// collected = 5,000 - 300 + 150 = 4,850
	assert.Equal(t, 5000.0, order.Subtotal)
	assert.Equal(t, 300.0, order.DiscountApplied)
	assert.Equal(t, 4700.0, order.TotalPrice)
	assert.Equal(t, 150.0, order.ShippingFee)
	assert.Equal(t, 4850.0, order.TotalPrice+order.ShippingFee)

	assert.Equal(t, models.OrderStatusNew, order.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, "SAVE10", order.PromoCode)

	// The item snapshot is frozen with the cart's resolved prices
	require.Len(t, order.Items, 1)
	assert.Equal(t, "BPC-157", order.Items[0].Name)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 2500.0, order.Items[0].UnitPrice)
	assert.Equal(t, 5000.0, order.Items[0].LineTotal)
	assert.Equal(t, 99.2, order.Items[0].Purity)

	// Stock is untouched at placement - deduction happens at admin confirm
	var p models.Product
	require.NoError(t, db.First(&p, 1).Error)
	assert.Equal(t, 50, p.StockQuantity)

	// Promo usage was recorded
	var pc models.PromoCode
	require.NoError(t, db.Where("code = ?", "SAVE10").First(&pc).Error)
	assert.Equal(t, 1, pc.UsageCount)

	// Session moved to Confirmation, cart emptied
	s := m.Get("tok")
	assert.Equal(t, StateConfirmation, s.State)
	assert.Equal(t, order.ID, s.OrderID)
	assert.Empty(t, carts.Snapshot("tok").Items)

	// Confirmation is one-way
	assert.ErrorIs(t, m.Back("tok"), ErrWrongState)
	assert.ErrorIs(t, m.SubmitDetails("tok", validDetails()), ErrWrongState)
}

func TestDoubleSubmitCreatesOneOrder(t *testing.T) {
	db, _, m := newFixture(t)
	toPayment(t, m)
	require.NoError(t, m.AttachProof("tok", "http://localhost:8080/uploads/payment-proofs/1_proof.jpg"))

	first, err := m.PlaceOrder("tok", now)
	require.NoError(t, err)

	// The "place order" button pressed again after success
	second, err := m.PlaceOrder("tok", now)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestPromoRevalidatedAtPlacement(t *testing.T) {
	db, _, m := newFixture(t)
	toPayment(t, m)

	_, err := m.ApplyPromo("tok", "SAVE10", now)
	require.NoError(t, err)
	require.NoError(t, m.AttachProof("tok", "http://localhost:8080/uploads/payment-proofs/1_proof.jpg"))

	// The promo expires between apply and place. The order still goes
	// through - just without the discount.
	past := now.Add(-time.Hour)
	require.NoError(t, db.Model(&models.PromoCode{}).
		Where("code = ?", "SAVE10").Update("end_date", past).Error)
	m.sessions["tok"].PromoResult.Promo.EndDate = &past

	order, err := m.PlaceOrder("tok", now)
	require.NoError(t, err)
	assert.Equal(t, 0.0, order.DiscountApplied)
	assert.Equal(t, 5000.0, order.TotalPrice)
	assert.Empty(t, order.PromoCode)

	// No usage recorded for a dropped promo
	var pc models.PromoCode
	require.NoError(t, db.Where("code = ?", "SAVE10").First(&pc).Error)
	assert.Equal(t, 0, pc.UsageCount)
}

func TestReset(t *testing.T) {
	_, _, m := newFixture(t)
	toPayment(t, m)

	m.Reset("tok")
	s := m.Get("tok")
	assert.Equal(t, StateDetails, s.State)
	assert.Empty(t, s.Details.FullName)
}
