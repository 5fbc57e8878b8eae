package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func sampleCard(id, name string) Card {
	return Card{
		ID:       id,
		Name:     name,
		Telos:    "Comprehend the environment and reduce uncertainty",
		SyncAddr: "127.0.0.1:44444",
		Version:  "0.1.0",
	}
}

func TestRegistry(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		registry := NewRegistry()

		So(registry.GetAgents(), ShouldBeEmpty)
		So(registry.GetAgent("missing"), ShouldResemble, Card{})

		Convey("Added agents can be retrieved by id", func() {
			card := sampleCard("agent-1", "Unit-X535")
			registry.AddAgent(card)

			So(registry.GetAgent("agent-1"), ShouldResemble, card)
			So(registry.GetAgents(), ShouldHaveLength, 1)

			Convey("Re-adding the same id overwrites, not duplicates", func() {
				updated := card
				updated.SyncAddr = "127.0.0.1:44445"
				registry.AddAgent(updated)

				So(registry.GetAgents(), ShouldHaveLength, 1)
				So(registry.GetAgent("agent-1").SyncAddr, ShouldEqual, "127.0.0.1:44445")
			})
		})
	})
}

func TestClient(t *testing.T) {
	Convey("Given a catalog backed by a test server", t, func() {
		registry := NewRegistry()

		mux := http.NewServeMux()
		mux.HandleFunc("/agent", func(w http.ResponseWriter, r *http.Request) {
			var card Card
			if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			registry.AddAgent(card)
			w.WriteHeader(http.StatusCreated)
		})
		mux.HandleFunc("/.well-known/catalog.json", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(registry.GetAgents())
		})
		mux.HandleFunc("/agent/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/agent/")
			card := registry.GetAgent(id)
			if card.ID == "" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(card)
		})

		server := httptest.NewServer(mux)
		defer server.Close()

		client := NewClient(server.URL)

		Convey("Register then discover round-trips the card", func() {
			card := sampleCard("agent-1", "Unit-X535")
			So(client.Register(card), ShouldBeNil)

			agents, err := client.GetAgents()
			So(err, ShouldBeNil)
			So(agents, ShouldHaveLength, 1)
			So(agents[0], ShouldResemble, card)

			fetched, err := client.GetAgent("agent-1")
			So(err, ShouldBeNil)
			So(*fetched, ShouldResemble, card)
		})

		Convey("Fetching an unknown agent fails", func() {
			_, err := client.GetAgent("ghost")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "agent not found")
		})
	})
}
