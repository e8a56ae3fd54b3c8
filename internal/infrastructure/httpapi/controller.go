package httpapi

import (
	"net/http"

	appservice "blockchain-marketplace/internal/application/service"
	"blockchain-marketplace/internal/infrastructure/logger"
	"blockchain-marketplace/internal/infrastructure/ws"
	"blockchain-marketplace/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// PurchaseRequest is the body of POST /api/purchase
type PurchaseRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	BuyerAddress string `json:"buyer_address" validate:"required"`
	Quantity     uint32 `json:"quantity" validate:"required,gte=1"`
}

// ValidationResponse is the body of GET /api/blockchain/validate
type ValidationResponse struct {
	Valid  bool   `json:"valid"`
	Height uint64 `json:"height"`
	Error  string `json:"error,omitempty"`
}

// Controller exposes the marketplace over HTTP
type Controller struct {
	market   *appservice.MarketService
	hub      *ws.Hub
	validate *validator.Validate
	logger   *logger.Logger
}

// NewController creates a new HTTP controller
func NewController(market *appservice.MarketService, hub *ws.Hub, logger *logger.Logger) *Controller {
	return &Controller{
		market:   market,
		hub:      hub,
		validate: validator.New(),
		logger:   logger.WithComponent("http-api"),
	}
}

// GetProducts handles GET /api/products
func (c *Controller) GetProducts(ctx echo.Context) error {
	products := c.market.ListProducts(ctx.Request().Context())
	return ctx.JSON(http.StatusOK, products)
}

// GetBlockchain handles GET /api/blockchain
func (c *Controller) GetBlockchain(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.market.ChainSnapshot())
}

// ValidateBlockchain handles GET /api/blockchain/validate
func (c *Controller) ValidateBlockchain(ctx echo.Context) error {
	res := ValidationResponse{
		Valid:  true,
		Height: uint64(len(c.market.ChainSnapshot().Chain)),
	}
	if err := c.market.ValidateChain(); err != nil {
		res.Valid = false
		res.Error = err.Error()
	}
	return ctx.JSON(http.StatusOK, res)
}

// GetTransactions handles GET /api/transactions
func (c *Controller) GetTransactions(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.market.AllTransactions())
}

// Purchase handles POST /api/purchase
func (c *Controller) Purchase(ctx echo.Context) error {
	var req PurchaseRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, failureReceipt("Invalid request body"))
	}
	if err := c.validate.Struct(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, failureReceipt("Invalid purchase request"))
	}

	receipt, err := c.market.Purchase(ctx.Request().Context(), req.ProductID, req.BuyerAddress, req.Quantity)
	if err != nil {
		switch errors.CodeOf(err) {
		case errors.ErrCodeProductNotFound:
			return ctx.JSON(http.StatusNotFound, failureReceipt(errors.MessageOf(err)))
		case errors.ErrCodeInsufficientStock:
			return ctx.JSON(http.StatusBadRequest, failureReceipt(errors.MessageOf(err)))
		default:
			c.logger.Error("Purchase failed unexpectedly",
				zap.String("product_id", req.ProductID),
				zap.Error(err))
			return ctx.JSON(http.StatusInternalServerError, failureReceipt("Internal error"))
		}
	}

	return ctx.JSON(http.StatusOK, receipt)
}

// Health handles GET /health
func (c *Controller) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.market.Health(ctx.Request().Context()))
}

// StreamBlocks handles GET /ws and streams newly mined blocks
func (c *Controller) StreamBlocks(ctx echo.Context) error {
	return c.hub.Handle(ctx.Response(), ctx.Request())
}

func failureReceipt(message string) appservice.PurchaseReceipt {
	return appservice.PurchaseReceipt{
		Success:         false,
		TransactionID:   "",
		TransactionHash: "",
		Message:         message,
	}
}
