package server

import (
	"net/http"
	"strconv"

	"github.com/BlackBills-Engineering/ung-kiosk/internal/cart"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/checkout"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/preset"
	"github.com/BlackBills-Engineering/ung-kiosk/internal/pumps"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

/* --- Pumps --- */

func (s *Server) getPumps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"pumps": pumps.BuildViews(s.pumpStore.Snapshot()),
	})
}

/* --- Cart --- */

func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"open":     s.cartStore.IsOpen(),
		"products": s.cartStore.Products(),
		"pumps":    s.cartStore.Pumps(),
		"totals":   s.session.Totals(),
	})
}

func (s *Server) toggleCart(c *gin.Context) {
	s.cartStore.ToggleCart()
	c.JSON(http.StatusOK, gin.H{"open": s.cartStore.IsOpen()})
}

type addProductRequest struct {
	ID        int64  `json:"id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	UnitPrice int64  `json:"unit_price" binding:"required"`
}

func (s *Server) addProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.cartStore.AddProduct(req.ID, req.Name, req.UnitPrice)
	c.JSON(http.StatusOK, gin.H{"products": s.cartStore.Products()})
}

type updateQtyRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (s *Server) updateProductQty(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var req updateQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.cartStore.UpdateProductQty(id, req.Delta)
	c.JSON(http.StatusOK, gin.H{"products": s.cartStore.Products()})
}

func (s *Server) removeProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	s.cartStore.RemoveProduct(id)
	c.JSON(http.StatusOK, gin.H{"products": s.cartStore.Products()})
}

type addPumpRequest struct {
	PumpID     int     `json:"pump_id" binding:"required"`
	Grade      int     `json:"grade" binding:"required"`
	PricePerL  int64   `json:"price_per_l" binding:"required"`
	Liters     float64 `json:"liters"`
	Amount     int64   `json:"amount"`
	LastEdited string  `json:"last_edited" binding:"required"`
}

// addPump runs the two independent steps of a fill order: the preset command
// towards the pump controller, then the cart line. A failed preset does not
// block the cart line; the caller learns about it from preset_error.
func (s *Server) addPump(c *gin.Context) {
	var req addPumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := preset.Input{
		Liters:     req.Liters,
		Amount:     req.Amount,
		LastEdited: preset.Field(req.LastEdited),
	}

	entry := cart.PumpEntry{
		PumpID:    req.PumpID,
		Grade:     req.Grade,
		PricePerL: req.PricePerL,
	}
	switch input.LastEdited {
	case preset.FieldVolume:
		if req.Liters <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "liters must be positive"})
			return
		}
		entry.Liters = req.Liters
	case preset.FieldMoney:
		if req.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
			return
		}
		amount := req.Amount
		entry.Liters = preset.LitersForAmount(amount, req.PricePerL)
		entry.TotalAmount = &amount
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": preset.ErrNothingEntered.Error()})
		return
	}

	presetErr := s.presets.Submit(c.Request.Context(), req.PumpID, req.Grade, input)
	if errors.Is(presetErr, pumps.ErrUnknownGrade) {
		c.JSON(http.StatusBadRequest, gin.H{"error": presetErr.Error()})
		return
	}

	response := gin.H{"uuid": s.cartStore.AddPump(entry)}
	if presetErr != nil {
		response["preset_error"] = presetErr.Error()
	}
	c.JSON(http.StatusOK, response)
}

func (s *Server) removePump(c *gin.Context) {
	err := s.cartStore.RemovePump(c.Request.Context(), c.Param("uuid"))
	if errors.Is(err, cart.ErrPumpEntryNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pumps": s.cartStore.Pumps()})
}

/* --- Checkout --- */

func (s *Server) getCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state":         s.session.State(),
		"selection":     s.session.Selection(),
		"totals":        s.session.Totals(),
		"split":         s.session.SplitView(),
		"alert":         s.session.Alert(),
		"submission_id": s.session.SubmissionID(),
	})
}

type selectionRequest struct {
	Key string `json:"key" binding:"required"`
}

func (s *Server) toggleSelection(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.session.ToggleSelection(req.Key)
	c.JSON(http.StatusOK, gin.H{"selection": s.session.Selection()})
}

func (s *Server) enterCheckout(c *gin.Context) {
	if err := s.session.EnterCheckout(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state": s.session.State(),
		"split": s.session.SplitView(),
	})
}

func (s *Server) backToCart(c *gin.Context) {
	s.session.BackToCart()
	c.JSON(http.StatusOK, gin.H{"state": s.session.State()})
}

type methodRequest struct {
	Method string `json:"method" binding:"required"`
}

func (s *Server) togglePaymentMethod(c *gin.Context) {
	var req methodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accepted, err := s.session.TogglePaymentMethod(req.Method)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"accepted": accepted,
		"split":    s.session.SplitView(),
	})
}

type amountRequest struct {
	Method string `json:"method" binding:"required"`
	Amount int64  `json:"amount"`
	Clear  bool   `json:"clear"`
}

func (s *Server) setPaymentAmount(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Clear {
		if err := s.session.ClearPaymentAmount(req.Method); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
	} else {
		accepted, err := s.session.SetPaymentAmount(req.Method, req.Amount)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if !accepted {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "amount entry not accepted"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"split": s.session.SplitView()})
}

func (s *Server) submit(c *gin.Context) {
	submissionID, err := s.session.Submit(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, checkout.ErrNotInCheckout) || errors.Is(err, checkout.ErrSubmitInFlight) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error(), "submission_id": submissionID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission_id": submissionID})
}
