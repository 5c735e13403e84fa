package fulfillment

import (
	"errors"
	"fmt"
	"strings"

	"peptide-store/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("that status change is not allowed")
)

// ShortageError tells the operator exactly which line blocked confirmation.
type ShortageError struct {
	ProductName string
	Available   int
	Required    int
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d, Required: %d", e.ProductName, e.Available, e.Required)
}

// transitions is the full order-status state machine. delivered and
// cancelled have no outgoing edges.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusNew:        {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed:  {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

// CanTransition reports whether from -> to is an edge of the state machine.
func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Service drives the admin side of an order's life.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// lockForUpdate adds the row lock on engines that support it. sqlite (used
// in tests) has no FOR UPDATE; its single-writer transactions already
// serialize confirmations.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Confirm is the new -> confirmed transition: verify stock for every line,
// deduct it, and mark the payment as received - all inside one transaction
// with the product rows locked, so two operators confirming overlapping
// orders cannot both win the same stock.
//
// The pre-flight pass checks every line before anything is written; a single
// shortage aborts the whole confirmation and no line is deducted.
func (s *Service) Confirm(orderID uint) (*models.Order, error) {
	var order models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx.Preload("Items")).
			First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !CanTransition(order.OrderStatus, models.OrderStatusConfirmed) {
			return ErrInvalidTransition
		}

		// Pass 1: lock every referenced stock row and check cumulative demand
		// against it. Two lines can share one row (same variation ordered
		// with different pen types), so per-line checks are not enough. The
		// locks are held until commit, so the counts cannot move under us.
		products := make(map[uint]*models.Product)
		variations := make(map[uint]*models.ProductVariation)
		productDemand := make(map[uint]int)
		variationDemand := make(map[uint]int)

		for _, item := range order.Items {
			if item.VariationID != nil {
				v, ok := variations[*item.VariationID]
				if !ok {
					v = &models.ProductVariation{}
					if err := lockForUpdate(tx).
						First(v, *item.VariationID).Error; err != nil {
						return fmt.Errorf("variation for %s no longer exists", item.Name)
					}
					variations[*item.VariationID] = v
				}
				variationDemand[*item.VariationID] += item.Quantity
				if v.StockQuantity < variationDemand[*item.VariationID] {
					return &ShortageError{ProductName: item.Name, Available: v.StockQuantity, Required: variationDemand[*item.VariationID]}
				}
				continue
			}

			p, ok := products[item.ProductID]
			if !ok {
				p = &models.Product{}
				if err := lockForUpdate(tx).
					First(p, item.ProductID).Error; err != nil {
					return fmt.Errorf("product %s no longer exists", item.Name)
				}
				products[item.ProductID] = p
			}
			productDemand[item.ProductID] += item.Quantity
			if p.StockQuantity < productDemand[item.ProductID] {
				return &ShortageError{ProductName: item.Name, Available: p.StockQuantity, Required: productDemand[item.ProductID]}
			}
		}

		// Pass 2: every row cleared - deduct each row's total demand.
		for id, v := range variations {
			if err := tx.Model(&models.ProductVariation{}).Where("id = ?", v.ID).
				Update("stock_quantity", v.StockQuantity-variationDemand[id]).Error; err != nil {
				return err
			}
		}
		for id, p := range products {
			if err := tx.Model(&models.Product{}).Where("id = ?", p.ID).
				Update("stock_quantity", p.StockQuantity-productDemand[id]).Error; err != nil {
				return err
			}
		}

		// Confirm is the only transition that also flips payment to paid.
		order.OrderStatus = models.OrderStatusConfirmed
		order.PaymentStatus = models.PaymentStatusPaid
		return tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Updates(map[string]interface{}{
				"order_status":   order.OrderStatus,
				"payment_status": order.PaymentStatus,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Advance moves an order along confirmed -> processing -> shipped ->
// delivered. Confirm has its own path because of the stock side effect.
func (s *Service) Advance(orderID uint, to models.OrderStatus) (*models.Order, error) {
	if to == models.OrderStatusConfirmed {
		return s.Confirm(orderID)
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !CanTransition(order.OrderStatus, to) {
		return nil, ErrInvalidTransition
	}

	if err := s.db.Model(&order).Update("order_status", to).Error; err != nil {
		return nil, err
	}
	order.OrderStatus = to
	return &order, nil
}

// Cancel terminates an order. Stock already deducted by a confirm stays
// deducted and the promo usage counter stays bumped - cancellation is a
// status change, not a refund pipeline.
func (s *Service) Cancel(orderID uint) (*models.Order, error) {
	return s.Advance(orderID, models.OrderStatusCancelled)
}

// TrackingUpdate is the operator's annotation - independent of status.
type TrackingUpdate struct {
	ShippingProvider string `json:"shipping_provider"`
	TrackingNumber   string `json:"tracking_number"`
	ShippingNote     string `json:"shipping_note"`
}

// SetTracking stores courier, tracking number and note on the order.
// Allowed in any status, including terminal ones.
func (s *Service) SetTracking(orderID uint, upd TrackingUpdate) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := s.db.Model(&order).Updates(map[string]interface{}{
		"shipping_provider": upd.ShippingProvider,
		"tracking_number":   upd.TrackingNumber,
		"shipping_note":     upd.ShippingNote,
	}).Error; err != nil {
		return nil, err
	}
	order.ShippingProvider = upd.ShippingProvider
	order.TrackingNumber = upd.TrackingNumber
	order.ShippingNote = upd.ShippingNote
	return &order, nil
}

// TrackingURL expands a courier's URL template with a tracking number.
// Unknown or inactive couriers, or templates without the placeholder,
// yield "" and the caller just omits the link.
func TrackingURL(db *gorm.DB, courierCode, trackingNumber string) string {
	var courier models.Courier
	if err := db.Where("code = ? AND is_active = ?", courierCode, true).First(&courier).Error; err != nil {
		return ""
	}
	if !strings.Contains(courier.TrackingURLTemplate, "{tracking_number}") {
		return ""
	}
	return strings.ReplaceAll(courier.TrackingURLTemplate, "{tracking_number}", trackingNumber)
}

// BulkDeleteResult tallies a best-effort bulk delete.
type BulkDeleteResult struct {
	Deleted int    `json:"deleted"`
	Failed  []uint `json:"failed"`
}

// BulkDelete removes orders one at a time and reports the tally. No
// rollback: a failure partway leaves the earlier deletions in place.
func (s *Service) BulkDelete(ids []uint) BulkDeleteResult {
	var result BulkDeleteResult
	for _, id := range ids {
		res := s.db.Delete(&models.Order{}, id)
		if res.Error != nil || res.RowsAffected == 0 {
			result.Failed = append(result.Failed, id)
			continue
		}
		s.db.Where("order_id = ?", id).Delete(&models.OrderItem{})
		result.Deleted++
	}
	return result
}
