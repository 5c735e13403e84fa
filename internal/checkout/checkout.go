package checkout

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"peptide-store/internal/cart"
	"peptide-store/internal/models"
	"peptide-store/internal/promo"
	"peptide-store/internal/shipping"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// State is where a checkout session currently sits.
// Details -> Payment -> Confirmation, with Payment -> Details the only
// backward move. Confirmation is one-way: a new shopping session starts over.
type State string

const (
	StateDetails      State = "details"
	StatePayment      State = "payment"
	StateConfirmation State = "confirmation"
)

var (
	ErrDetailsIncomplete    = errors.New("please fill in all required details")
	ErrEmptyCart            = errors.New("your cart is empty")
	ErrWrongState           = errors.New("not allowed in the current checkout step")
	ErrMissingPaymentMethod = errors.New("please select a payment method")
	ErrMissingContactMethod = errors.New("please select a contact method")
	ErrMissingProof         = errors.New("please upload your proof of payment")
	ErrPlacementInFlight    = errors.New("your order is already being placed")
)

// Details carries everything the first step collects. Every field is
// required before the session may advance to Payment.
type Details struct {
	FullName         string `json:"full_name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	Barangay         string `json:"barangay"`
	City             string `json:"city"`
	State            string `json:"state"`
	ZipCode          string `json:"zip_code"`
	ShippingLocation string `json:"shipping_location"`
}

// Complete reports whether every required field is non-empty.
func (d Details) Complete() bool {
	fields := []string{
		d.FullName, d.Email, d.Phone, d.Address,
		d.Barangay, d.City, d.State, d.ZipCode, d.ShippingLocation,
	}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// Session is one customer's walk through checkout, keyed by cart token.
// Backward navigation keeps every field - nothing here is ever wiped except
// by RemovePromo and order completion.
type Session struct {
	State             State         `json:"state"`
	Details           Details       `json:"details"`
	PaymentMethodID   *uint         `json:"payment_method_id"`
	PaymentMethodName string        `json:"payment_method_name"`
	ContactMethod     string        `json:"contact_method"`
	ProofURL          string        `json:"proof_url"`
	PromoResult       *promo.Result `json:"promo_result"`
	IdempotencyKey    string        `json:"idempotency_key"`
	OrderID           uint          `json:"order_id"`

	placing bool
}

// Manager owns every live checkout session and drives order placement.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	db       *gorm.DB
	carts    *cart.Store
}

func NewManager(db *gorm.DB, carts *cart.Store) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		db:       db,
		carts:    carts,
	}
}

func (m *Manager) session(token string) *Session {
	s, ok := m.sessions[token]
	if !ok {
		// WhatsApp is the single contact channel the shop operates
		s = &Session{State: StateDetails, ContactMethod: "whatsapp"}
		m.sessions[token] = s
	}
	return s
}

// Get returns a copy of the session for serialization.
func (m *Manager) Get(token string) Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.session(token)
}

// SubmitDetails stores the step-one fields and, when they pass the guard,
// advances to Payment. Incomplete details stay on Details with an error -
// the fields the customer did enter are kept either way.
func (m *Manager) SubmitDetails(token string, d Details) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session(token)
	if s.State == StateConfirmation {
		return ErrWrongState
	}

	s.Details = d
	if !d.Complete() {
		return ErrDetailsIncomplete
	}
	if _, err := shipping.Fee(m.db, d.ShippingLocation); err != nil {
		return err
	}

	// Idempotency key is minted the first time the customer reaches Payment
	// and survives for the whole session, so a double submit later maps to
	// one order row.
	if s.IdempotencyKey == "" {
		s.IdempotencyKey = uuid.NewString()
	}

	// Default to the first active payment method so the Payment step never
	// starts with nothing selected.
	if s.PaymentMethodID == nil {
		var pm models.PaymentMethod
		if err := m.db.Where("active = ?", true).Order("sort_order asc").First(&pm).Error; err == nil {
			s.PaymentMethodID = &pm.ID
			s.PaymentMethodName = pm.Name
		}
	}

	s.State = StatePayment
	return nil
}

// Back navigates Payment -> Details. Entered values are preserved.
func (m *Manager) Back(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session(token)
	if s.State != StatePayment {
		return ErrWrongState
	}
	s.State = StateDetails
	return nil
}

// SelectPaymentMethod switches the session to another active method.
func (m *Manager) SelectPaymentMethod(token string, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session(token)
	if s.State == StateConfirmation {
		return ErrWrongState
	}

	var pm models.PaymentMethod
	if err := m.db.Where("id = ? AND active = ?", id, true).First(&pm).Error; err != nil {
		return ErrMissingPaymentMethod
	}
	s.PaymentMethodID = &pm.ID
	s.PaymentMethodName = pm.Name
	return nil
}

// AttachProof records the uploaded payment-proof URL on the session.
func (m *Manager) AttachProof(token, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session(token)
	if s.State == StateConfirmation {
		return ErrWrongState
	}
	s.ProofURL = url
	return nil
}

// ApplyPromo validates a code against the current cart subtotal and stores
// the result. Any previously applied promo is cleared first, so re-applying
// is idempotent: same code, same subtotal, same discount.
func (m *Manager) ApplyPromo(token, code string, now time.Time) (*promo.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.session(token)
	if s.State == StateConfirmation {
		return nil, ErrWrongState
	}

	s.PromoResult = nil

	pc, err := promo.Lookup(m.db, code)
	if err != nil {
		return nil, err
	}
	subtotal := m.carts.Snapshot(token).TotalPrice()
	res, err := promo.Apply(pc, subtotal, now)
	if err != nil {
		return nil, err
	}
	s.PromoResult = res
	return res, nil
}

// RemovePromo drops the applied promo, if any.
func (m *Manager) RemovePromo(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(token).PromoResult = nil
}

// Reset discards the session - used when the customer starts a new
// shopping trip after Confirmation.
func (m *Manager) Reset(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// PlaceOrder is the Payment -> Confirmation transition.
//
// Guards first (contact method, shipping region, payment proof - all with no
// side effect), then: insert the order with its frozen item snapshot, bump
// the promo usage counter best-effort, hand the session to Confirmation and
// clear the cart. Stock is NOT touched here - deduction happens when the
// operator confirms the payment (see fulfillment.Confirm).
//
// Only one placement may be in flight per session, and the idempotency key
// means a second submit that slips through returns the same order row.
func (m *Manager) PlaceOrder(token string, now time.Time) (*models.Order, error) {
	m.mu.Lock()
	s := m.session(token)

	if s.State == StateConfirmation && s.OrderID != 0 {
		// Already placed: hand back the existing order.
		id := s.OrderID
		m.mu.Unlock()
		return m.loadOrder(id)
	}
	if s.State != StatePayment {
		m.mu.Unlock()
		return nil, ErrWrongState
	}
	if s.ContactMethod == "" {
		m.mu.Unlock()
		return nil, ErrMissingContactMethod
	}
	if s.Details.ShippingLocation == "" {
		m.mu.Unlock()
		return nil, ErrDetailsIncomplete
	}
	if s.ProofURL == "" {
		m.mu.Unlock()
		return nil, ErrMissingProof
	}
	if s.placing {
		m.mu.Unlock()
		return nil, ErrPlacementInFlight
	}

	snapshot := m.carts.Snapshot(token)
	if len(snapshot.Items) == 0 {
		m.mu.Unlock()
		return nil, ErrEmptyCart
	}

	s.placing = true
	details := s.Details
	promoRes := s.PromoResult
	key := s.IdempotencyKey
	paymentMethodID := s.PaymentMethodID
	paymentMethodName := s.PaymentMethodName
	contactMethod := s.ContactMethod
	proofURL := s.ProofURL
	m.mu.Unlock()

	order, err := m.placeOrder(snapshot, details, promoRes, key, paymentMethodID, paymentMethodName, contactMethod, proofURL, now)

	m.mu.Lock()
	s.placing = false
	if err == nil {
		s.State = StateConfirmation
		s.OrderID = order.ID
	}
	m.mu.Unlock()

	if err == nil {
		m.carts.Clear(token)
	}
	return order, err
}

func (m *Manager) placeOrder(snapshot cart.Cart, details Details, promoRes *promo.Result, key string,
	paymentMethodID *uint, paymentMethodName, contactMethod, proofURL string, now time.Time) (*models.Order, error) {

	// A previous submit with the same key wins outright.
	if existing, err := m.findByKey(key); err == nil {
		return existing, nil
	}

	subtotal := snapshot.TotalPrice()

	// Re-run the promo against the subtotal being charged. The cart may have
	// changed since the code was applied; a promo that no longer qualifies
	// is dropped rather than blocking the order.
	var discount float64
	var promoCode string
	var promoID *uint
	if promoRes != nil {
		res, err := promo.Apply(&promoRes.Promo, subtotal, now)
		if err != nil {
			log.Printf("promo %s no longer valid at placement, dropping: %v", promoRes.Promo.Code, err)
		} else {
			discount = res.DiscountAmount
			promoCode = res.Promo.Code
			id := res.Promo.ID
			promoID = &id
		}
	}

	fee, err := shipping.Fee(m.db, details.ShippingLocation)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(snapshot.Items))
	for _, line := range snapshot.Items {
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			VariationID: line.VariationID,
			Name:        line.Name,
			PenType:     line.PenType,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.UnitPrice * float64(line.Quantity),
			Purity:      line.Purity,
		})
	}

	order := models.Order{
		IdempotencyKey:    key,
		FullName:          details.FullName,
		Email:             details.Email,
		Phone:             details.Phone,
		Address:           details.Address,
		Barangay:          details.Barangay,
		City:              details.City,
		State:             details.State,
		ZipCode:           details.ZipCode,
		ShippingLocation:  details.ShippingLocation,
		ShippingFee:       fee,
		Items:             items,
		Subtotal:          subtotal,
		TotalPrice:        subtotal - discount,
		PaymentMethodID:   paymentMethodID,
		PaymentMethodName: paymentMethodName,
		PaymentProofURL:   proofURL,
		ContactMethod:     contactMethod,
		PromoCodeID:       promoID,
		PromoCode:         promoCode,
		DiscountApplied:   discount,
		OrderStatus:       models.OrderStatusNew,
		PaymentStatus:     models.PaymentStatusPending,
	}

	if err := m.db.Create(&order).Error; err != nil {
		// Two submits racing past the in-flight latch: the unique key makes
		// the second insert fail, so return the row the first one created.
		if existing, lookupErr := m.findByKey(key); lookupErr == nil {
			return existing, nil
		}
		msg := err.Error()
		if strings.Contains(msg, "doesn't exist") || strings.Contains(msg, "no such table") {
			return nil, fmt.Errorf("failed to save order: %s (hint: the orders table is missing - run the database migration first)", msg)
		}
		return nil, fmt.Errorf("failed to save order: %s", msg)
	}

	// Best-effort: a failed counter bump never takes the order down with it.
	if promoID != nil {
		if err := promo.RecordUsage(m.db, *promoID); err != nil {
			log.Printf("failed to record promo usage for %s on order %d: %v", promoCode, order.ID, err)
		}
	}

	return &order, nil
}

func (m *Manager) findByKey(key string) (*models.Order, error) {
	var existing models.Order
	err := m.db.Preload("Items").Where("idempotency_key = ?", key).First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

func (m *Manager) loadOrder(id uint) (*models.Order, error) {
	var order models.Order
	if err := m.db.Preload("Items").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
