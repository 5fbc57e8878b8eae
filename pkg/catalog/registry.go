package catalog

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Registry is the in-memory agent directory a catalog server exposes.
type Registry struct {
	agents *sync.Map
}

func NewRegistry() *Registry {
	return &Registry{
		agents: new(sync.Map),
	}
}

func (registry *Registry) AddAgent(card Card) {
	log.Info("adding agent to catalog", "name", card.Name, "syncAddr", card.SyncAddr)
	registry.agents.Store(card.ID, card)
}

func (registry *Registry) GetAgent(id string) Card {
	agent, ok := registry.agents.Load(id)

	if !ok {
		return Card{}
	}

	return agent.(Card)
}

func (registry *Registry) GetAgents() []Card {
	agents := make([]Card, 0)

	registry.agents.Range(func(key, value any) bool {
		agents = append(agents, value.(Card))
		return true
	})

	return agents
}
