package service

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/theapemachine/mind-go/pkg/catalog"
	"github.com/theapemachine/mind-go/pkg/mind"
)

/*
Introspectable is the read-only view of the engine the HTTP surface needs.
Every accessor returns snapshot copies taken under the engine's state lock.
*/
type Introspectable interface {
	Summary() string
	Truths() []mind.Truth
	Frames() []mind.Frame
	Hypotheses() []mind.Hypothesis
}

/*
StateServer is the agent's observability endpoint: the agent card for
discovery plus read-only views of the cognitive state. It never mutates
the engine.
*/
type StateServer struct {
	app    *fiber.App
	card   catalog.Card
	engine Introspectable
	port   int
}

func NewStateServer(card catalog.Card, engine Introspectable, port int) *StateServer {
	srv := &StateServer{
		app: fiber.New(fiber.Config{
			AppName:      "Mind State",
			ServerHeader: "Mind-State-Server",
		}),
		card:   card,
		engine: engine,
		port:   port,
	}

	srv.routes()
	return srv
}

func (srv *StateServer) routes() {
	srv.app.Get("/.well-known/agent.json", func(ctx fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(srv.card)
	})

	srv.app.Get("/summary", func(ctx fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).SendString(srv.engine.Summary())
	})

	srv.app.Get("/truths", func(ctx fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(srv.engine.Truths())
	})

	srv.app.Get("/frames", func(ctx fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(srv.engine.Frames())
	})

	srv.app.Get("/hypotheses", func(ctx fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(srv.engine.Hypotheses())
	})
}

// Run blocks serving until Shutdown.
func (srv *StateServer) Run() error {
	return srv.app.Listen(fmt.Sprintf(":%d", srv.port))
}

// Shutdown stops the HTTP listener.
func (srv *StateServer) Shutdown() error {
	return srv.app.Shutdown()
}
