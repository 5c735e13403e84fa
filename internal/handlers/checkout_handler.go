package handlers

import (
	"errors"
	"net/http"
	"time"

	"peptide-store/internal/checkout"
	"peptide-store/internal/fulfillment"
	"peptide-store/internal/notify"
	"peptide-store/internal/promo"

	"github.com/gin-gonic/gin"
)

// GetCheckout returns the session so a returning customer resumes where
// they left off, fields intact.
func (a *App) GetCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, a.Checkout.Get(cartToken(c)))
}

// SubmitDetails is the Details -> Payment transition.
func (a *App) SubmitDetails(c *gin.Context) {
	var details checkout.Details
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	token := cartToken(c)
	if err := a.Checkout.SubmitDetails(token, details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a.Checkout.Get(token))
}

// CheckoutBack is the Payment -> Details backward move.
func (a *App) CheckoutBack(c *gin.Context) {
	token := cartToken(c)
	if err := a.Checkout.Back(token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a.Checkout.Get(token))
}

type SelectPaymentMethodRequest struct {
	PaymentMethodID uint `json:"payment_method_id" binding:"required"`
}

func (a *App) SelectPaymentMethod(c *gin.Context) {
	var req SelectPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	token := cartToken(c)
	if err := a.Checkout.SelectPaymentMethod(token, req.PaymentMethodID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, a.Checkout.Get(token))
}

// UploadProof stores the payment screenshot and attaches its URL to the
// session. An upload failure surfaces the storage error verbatim and the
// session keeps whatever proof it had before.
func (a *App) UploadProof(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	url, err := a.Uploads.Save(c, file, "payment-proofs")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token := cartToken(c)
	if err := a.Checkout.AttachProof(token, url); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type ApplyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

// ApplyPromo validates a code against the live cart subtotal. Validation
// failures come back as 400s with the specific reason - the customer
// corrects and retries.
func (a *App) ApplyPromo(c *gin.Context) {
	var req ApplyPromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Promo code is required"})
		return
	}

	res, err := a.Checkout.ApplyPromo(cartToken(c), req.Code, time.Now())
	if err != nil {
		status := http.StatusBadRequest
		if !isPromoValidationError(err) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"code":            res.Promo.Code,
		"discount_amount": res.DiscountAmount,
	})
}

func isPromoValidationError(err error) bool {
	return errors.Is(err, promo.ErrNotFound) ||
		errors.Is(err, promo.ErrNotYetValid) ||
		errors.Is(err, promo.ErrExpired) ||
		errors.Is(err, promo.ErrLimitReached) ||
		errors.Is(err, promo.ErrBelowMinimum) ||
		errors.Is(err, checkout.ErrWrongState)
}

func (a *App) RemovePromo(c *gin.Context) {
	a.Checkout.RemovePromo(cartToken(c))
	c.JSON(http.StatusOK, gin.H{"message": "Promo removed"})
}

// PlaceOrder is the Payment -> Confirmation transition. On success the
// response carries the order, the WhatsApp deep link and the summary text -
// if the client's clipboard or popup is blocked, it still has the text to
// show for manual copying.
func (a *App) PlaceOrder(c *gin.Context) {
	order, err := a.Checkout.PlaceOrder(cartToken(c), time.Now())
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, checkout.ErrPlacementInFlight):
			status = http.StatusConflict
		case errors.Is(err, checkout.ErrMissingProof),
			errors.Is(err, checkout.ErrMissingContactMethod),
			errors.Is(err, checkout.ErrMissingPaymentMethod),
			errors.Is(err, checkout.ErrDetailsIncomplete),
			errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrWrongState):
			status = http.StatusBadRequest
		default:
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	summary := notify.OrderSummary(order)
	c.JSON(http.StatusOK, gin.H{
		"order":         order,
		"summary":       summary,
		"whatsapp_link": notify.DeepLink(a.Cfg.WhatsAppNumber, summary),
	})
}

// TrackOrder lets a customer look up their own order by id + email.
func (a *App) TrackOrder(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	order, err := a.findCustomerOrder(c.Param("id"), email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	resp := gin.H{
		"id":                order.ID,
		"order_status":      order.OrderStatus,
		"payment_status":    order.PaymentStatus,
		"tracking_number":   order.TrackingNumber,
		"shipping_provider": order.ShippingProvider,
		"shipping_note":     order.ShippingNote,
	}
	if order.TrackingNumber != "" && order.ShippingProvider != "" {
		if url := a.trackingURL(order.ShippingProvider, order.TrackingNumber); url != "" {
			resp["tracking_url"] = url
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (a *App) findCustomerOrder(id, email string) (*orderView, error) {
	var order orderView
	err := a.DB.Table("orders").
		Where("id = ? AND email = ?", id, email).
		First(&order).Error
	return &order, err
}

type orderView struct {
	ID               uint
	OrderStatus      string
	PaymentStatus    string
	TrackingNumber   string
	ShippingProvider string
	ShippingNote     string
}

func (a *App) trackingURL(courierCode, trackingNumber string) string {
	return fulfillment.TrackingURL(a.DB, courierCode, trackingNumber)
}
