package routes

import (
	"github.com/gofiber/fiber/v2"

	"leftys-backend/internal/api/handlers"
	"leftys-backend/internal/middleware"
	"leftys-backend/pkg/account"
	"leftys-backend/pkg/auth0"
)

type Config struct {
	App              *fiber.App
	PostingHandler   handlers.PostingHandler
	InventoryHandler handlers.InventoryHandler
	ScanHandler      handlers.ScanHandler
	AssistHandler    handlers.AssistHandler
	AccountHandler   handlers.AccountHandler
	Middleware       middleware.Middleware
	Verifier         auth0.Verifier
	AccountService   account.AccountService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Health()
	c.Postings()
	c.Inventory()
	c.Scans()
	c.Assist()
	c.Accounts()
}

// auth is the middleware chain shared by every protected group: verify the
// bearer token, then resolve the caller's account.
func (c *Config) auth() (fiber.Handler, fiber.Handler) {
	return c.Middleware.AuthMiddleware(c.Verifier), c.Middleware.AccountMiddleware(c.AccountService)
}

func (c *Config) Health() {
	c.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})
}

func (c *Config) Postings() {
	verify, resolve := c.auth()
	postings := c.App.Group("/api/postings", verify, resolve)
	{
		postings.Get("", c.PostingHandler.GetPostings)
		postings.Post("", c.PostingHandler.CreatePosting)
		postings.Post("/:id/claim", c.PostingHandler.ClaimPosting)
		postings.Get("/:id/claims", c.PostingHandler.GetClaims)
		postings.Get("/:id/messages", c.PostingHandler.GetMessages)
		postings.Post("/:id/messages", c.PostingHandler.SendMessage)
	}

	claims := c.App.Group("/api/claims", verify, resolve)
	{
		claims.Post("/:id/accept", c.PostingHandler.AcceptClaim)
		claims.Post("/:id/reject", c.PostingHandler.RejectClaim)
	}
}

func (c *Config) Inventory() {
	verify, resolve := c.auth()
	inventory := c.App.Group("/api/inventory", verify, resolve)
	{
		inventory.Get("", c.InventoryHandler.GetInventory)
		inventory.Post("", c.InventoryHandler.AddItem)
		inventory.Patch("/:id", c.InventoryHandler.SetQuantity)
		inventory.Post("/:id/consume", c.InventoryHandler.ConsumeItem)
		inventory.Delete("/:id", c.InventoryHandler.DeleteItem)
		inventory.Post("/scan-barcode", c.InventoryHandler.ScanBarcode)
	}

	c.App.Get("/api/impact", verify, resolve, c.InventoryHandler.GetImpact)
}

func (c *Config) Scans() {
	verify, resolve := c.auth()
	scans := c.App.Group("/api/scans", verify, resolve)
	{
		scans.Get("", c.ScanHandler.GetScans)
		scans.Post("", c.ScanHandler.UploadScan)
	}
}

func (c *Config) Assist() {
	verify, resolve := c.auth()
	c.App.Get("/api/nudges", verify, resolve, c.AssistHandler.GetNudges)

	ai := c.App.Group("/api/ai", verify, resolve)
	{
		ai.Post("/listing-assistant", c.AssistHandler.SuggestListing)
		ai.Post("/recipes", c.AssistHandler.GenerateRecipes)
	}
}

func (c *Config) Accounts() {
	verify, resolve := c.auth()
	accounts := c.App.Group("/api/accounts", verify, resolve)
	{
		accounts.Patch("/push-tokens", c.AccountHandler.UpdatePushTokens)
	}
}
