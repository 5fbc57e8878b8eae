package service

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/theapemachine/mind-go/pkg/catalog"
)

/*
CatalogServer exposes the agent directory over HTTP so independent agent
instances can announce themselves and discover peers to gossip with.
*/
type CatalogServer struct {
	app      *fiber.App
	registry *catalog.Registry
	port     int
}

func NewCatalogServer(port int) *CatalogServer {
	srv := &CatalogServer{
		app: fiber.New(fiber.Config{
			AppName:      "Mind Catalog",
			ServerHeader: "Mind-Catalog-Server",
		}),
		registry: catalog.NewRegistry(),
		port:     port,
	}

	srv.routes()
	return srv
}

func (srv *CatalogServer) routes() {
	srv.app.Get("/.well-known/catalog.json", func(ctx fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(srv.registry.GetAgents())
	})

	srv.app.Get("/agent/:id", func(ctx fiber.Ctx) error {
		agent := srv.registry.GetAgent(ctx.Params("id"))
		if agent.ID == "" {
			return ctx.Status(fiber.StatusNotFound).SendString("agent not found")
		}
		return ctx.Status(fiber.StatusOK).JSON(agent)
	})

	srv.app.Post("/agent", func(ctx fiber.Ctx) error {
		var card catalog.Card

		if err := ctx.Bind().Body(&card); err != nil {
			return ctx.Status(fiber.StatusBadRequest).SendString("Invalid agent card: " + err.Error())
		}

		srv.registry.AddAgent(card)
		return ctx.Status(fiber.StatusCreated).JSON(card)
	})
}

// Run blocks serving the catalog until Shutdown.
func (srv *CatalogServer) Run() error {
	return srv.app.Listen(fmt.Sprintf(":%d", srv.port))
}

// Shutdown stops the HTTP listener.
func (srv *CatalogServer) Shutdown() error {
	return srv.app.Shutdown()
}
