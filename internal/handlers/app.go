package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"peptide-store/internal/cart"
	"peptide-store/internal/checkout"
	"peptide-store/internal/config"
	"peptide-store/internal/events"
	"peptide-store/internal/fulfillment"
	"peptide-store/internal/storage"
)

// App bundles every dependency the handlers need. Constructed once in main
// and passed around - nothing here is a package-level global.
type App struct {
	DB          *gorm.DB
	Cfg         *config.Config
	Carts       *cart.Store
	Checkout    *checkout.Manager
	Fulfillment *fulfillment.Service
	Uploads     *storage.Store
	Bus         *events.Bus
}

func NewApp(db *gorm.DB, cfg *config.Config) *App {
	carts := cart.NewStore()
	return &App{
		DB:          db,
		Cfg:         cfg,
		Carts:       carts,
		Checkout:    checkout.NewManager(db, carts),
		Fulfillment: fulfillment.NewService(db),
		Uploads:     &storage.Store{Dir: cfg.UploadDir, BaseURL: cfg.BaseURL},
		Bus:         events.NewBus(),
	}
}

// cartToken identifies the shopping session. The browser sends it in
// X-Cart-Token; if absent we mint one and echo it back so the client can
// keep it for subsequent calls.
func cartToken(c *gin.Context) string {
	token := c.GetHeader("X-Cart-Token")
	if token == "" {
		token = uuid.NewString()
	}
	c.Header("X-Cart-Token", token)
	return token
}
