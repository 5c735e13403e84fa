package models

import (
	"time"
)

// User - Back-office staff account
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:50" json:"username"`
	PasswordHash string    `json:"-"`    // Never return this in JSON
	Role         string    `json:"role"` // 'admin', 'staff'
	CreatedAt    time.Time `json:"created_at"`
}

// Category - Storefront grouping (peptides, blends, accessories...)
type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:100" json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
}

// Product - The catalog entry.
// When a product has variations, the variation-level price/stock is what
// customers actually buy; BasePrice/StockQuantity are display fallbacks.
type Product struct {
	ID               uint               `gorm:"primaryKey" json:"id"`
	Name             string             `json:"name"`
	Description      string             `json:"description"`
	Category         string             `json:"category"`
	BasePrice        float64            `json:"base_price"`
	DiscountPrice    *float64           `json:"discount_price"`
	DiscountActive   bool               `json:"discount_active"`
	PurityPercentage float64            `json:"purity_percentage"`
	StockQuantity    int                `json:"stock_quantity"`
	Available        bool               `json:"available"`
	Featured         bool               `json:"featured"`
	ImageURL         string             `json:"image_url"`
	Inclusions       []string           `gorm:"serializer:json" json:"inclusions"` // ordered ("1x bac water", "1x syringe pack"...)
	Variations       []ProductVariation `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"variations"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// ProductVariation - A purchasable dosage of a product (e.g. "BPC-157 5mg").
// Stock here only ever goes down at order confirmation.
type ProductVariation struct {
	ID                 uint     `gorm:"primaryKey" json:"id"`
	ProductID          uint     `gorm:"index" json:"product_id"`
	Name               string   `json:"name"`
	QuantityMg         float64  `json:"quantity_mg"`
	Price              float64  `json:"price"`
	DiscountPrice      *float64 `json:"discount_price"`
	DiscountActive     bool     `json:"discount_active"`
	StockQuantity      int      `json:"stock_quantity"`
	DisposablePenPrice *float64 `json:"disposable_pen_price"`
	ReusablePenPrice   *float64 `json:"reusable_pen_price"`
}

// PromoCode - Checkout discount voucher.
// UsageCount is bumped when an order is placed, never reversed.
type PromoCode struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Code              string     `gorm:"uniqueIndex;size:50" json:"code"`
	Active            bool       `json:"active"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	UsageLimit        *int       `json:"usage_limit"`
	UsageCount        int        `json:"usage_count"`
	MinPurchaseAmount float64    `json:"min_purchase_amount"`
	DiscountType      string     `json:"discount_type"` // 'percentage' or 'fixed'
	DiscountValue     float64    `json:"discount_value"`
	MaxDiscountAmount *float64   `json:"max_discount_amount"`
	CreatedAt         time.Time  `json:"created_at"`
}

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusNew        OrderStatus = "new"        // Placed, awaiting admin confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // Payment verified, stock deducted
	OrderStatusProcessing OrderStatus = "processing" // Being packed
	OrderStatusShipped    OrderStatus = "shipped"    // Handed to courier
	OrderStatusDelivered  OrderStatus = "delivered"  // Terminal
	OrderStatusCancelled  OrderStatus = "cancelled"  // Terminal

	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Order - The Transaction Header.
// Items is a frozen snapshot taken at placement time, so later catalog edits
// never rewrite order history. TotalPrice = subtotal - discount (shipping
// fee is collected on top and stored separately).
type Order struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	IdempotencyKey string `gorm:"uniqueIndex;size:64" json:"idempotency_key"`

	// Customer contact + shipping address
	FullName         string  `json:"full_name"`
	Email            string  `json:"email"`
	Phone            string  `json:"phone"`
	Address          string  `json:"address"`
	Barangay         string  `json:"barangay"`
	City             string  `json:"city"`
	State            string  `json:"state"`
	ZipCode          string  `json:"zip_code"`
	ShippingLocation string  `json:"shipping_location"`
	ShippingFee      float64 `json:"shipping_fee"`

	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Subtotal   float64     `json:"subtotal"`
	TotalPrice float64     `json:"total_price"`

	PaymentMethodID   *uint  `json:"payment_method_id"`
	PaymentMethodName string `json:"payment_method_name"`
	PaymentProofURL   string `json:"payment_proof_url"`
	ContactMethod     string `json:"contact_method"`

	PromoCodeID     *uint   `json:"promo_code_id"`
	PromoCode       string  `json:"promo_code"`
	DiscountApplied float64 `json:"discount_applied"`

	OrderStatus   OrderStatus   `gorm:"type:varchar(20);default:'new'" json:"order_status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`

	// Tracking annotation - settable by the operator at any time
	ShippingProvider string `json:"shipping_provider"`
	TrackingNumber   string `json:"tracking_number"`
	ShippingNote     string `json:"shipping_note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem - One frozen line of an order. UnitPrice is the price the
// customer saw in the cart, discounts and pen type already resolved.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index" json:"order_id"`
	ProductID   uint    `json:"product_id"`
	VariationID *uint   `json:"variation_id"`
	Name        string  `json:"name"`
	PenType     string  `json:"pen_type"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
	Purity      float64 `json:"purity"`
}

// ShippingLocation - Region to delivery-fee mapping, admin editable.
type ShippingLocation struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Region string  `gorm:"uniqueIndex;size:50" json:"region"` // 'metro_manila', 'luzon', 'visayas', 'mindanao'
	Label  string  `json:"label"`
	Fee    float64 `json:"fee"`
}

// PaymentMethod - Manual payment channel (GCash, bank transfer...).
type PaymentMethod struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
	QRCodeURL     string `json:"qr_code_url"`
	Active        bool   `json:"active"`
	SortOrder     int    `json:"sort_order"`
}

// Courier - Shipping provider with a tracking URL template
// ("https://tracker.example/{tracking_number}").
type Courier struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	Code                string `gorm:"uniqueIndex;size:30" json:"code"`
	Name                string `json:"name"`
	TrackingURLTemplate string `json:"tracking_url_template"`
	IsActive            bool   `json:"is_active"`
}

// SiteSetting - Key/value store for storefront copy and toggles.
type SiteSetting struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Key   string `gorm:"uniqueIndex;size:100" json:"key"`
	Value string `json:"value"`
}

// FAQ - Customer-facing question/answer entry.
type FAQ struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	SortOrder int    `json:"sort_order"`
	Published bool   `json:"published"`
}

// Protocol - Dosing / reconstitution guide, optionally tied to a product.
type Protocol struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	ProductID *uint  `json:"product_id"`
	SortOrder int    `json:"sort_order"`
	Published bool   `json:"published"`
}

// CoaReport - Certificate of analysis for a product batch.
type CoaReport struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	ProductID   uint       `gorm:"index" json:"product_id"`
	Title       string     `json:"title"`
	BatchNumber string     `json:"batch_number"`
	FileURL     string     `json:"file_url"`
	TestedAt    *time.Time `json:"tested_at"`
	CreatedAt   time.Time  `json:"created_at"`
}
