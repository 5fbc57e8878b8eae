package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theapemachine/mind-go/pkg/catalog"
	"github.com/theapemachine/mind-go/pkg/mind"
)

func testStateServer(t *testing.T) (*StateServer, *mind.Mind) {
	t.Helper()

	m := mind.New(mind.Config{
		Identity: "Unit-X535",
		Telos:    "Comprehend the environment and reduce uncertainty",
		Goals:    []mind.Goal{mind.NewGoal("Understand 'Hello' greeting pattern", 0.9)},
	}, nil)
	t.Cleanup(m.Close)

	card := catalog.Card{
		ID:       m.ID(),
		Name:     "Unit-X535",
		Telos:    m.Telos(),
		SyncAddr: "127.0.0.1:44444",
		Version:  "0.1.0",
	}

	return NewStateServer(card, m, 0), m
}

func TestStateServerServesAgentCard(t *testing.T) {
	srv, m := testStateServer(t)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/agent.json", nil)
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var card catalog.Card
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&card))
	assert.Equal(t, m.ID(), card.ID)
	assert.Equal(t, "Unit-X535", card.Name)
}

func TestStateServerServesCognitiveState(t *testing.T) {
	srv, m := testStateServer(t)

	for _, text := range []string{"Hello?", "Hello again.", "Hello once more."} {
		m.Ingest(text)
	}
	m.Settle()
	m.Cognize(context.Background())

	t.Run("truths", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/truths", nil)
		resp, err := srv.app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var truths []mind.Truth
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&truths))
		require.Len(t, truths, 1)
		assert.Equal(t, "Recurring Greeting", truths[0].CoreConcept)
	})

	t.Run("frames", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/frames", nil)
		resp, err := srv.app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		var frames []mind.Frame
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&frames))
		assert.Len(t, frames, 3)
	})

	t.Run("summary", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/summary", nil)
		resp, err := srv.app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "Unit-X535")
	})
}

func TestCatalogServerRoutes(t *testing.T) {
	srv := NewCatalogServer(0)

	card := catalog.Card{ID: "agent-1", Name: "Unit-X535", SyncAddr: "127.0.0.1:44444"}
	body, err := json.Marshal(card)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/agent", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/.well-known/catalog.json", nil)
	resp, err = srv.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var agents []catalog.Card
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&agents))
	require.Len(t, agents, 1)
	assert.Equal(t, card, agents[0])

	req = httptest.NewRequest(http.MethodGet, "/agent/ghost", nil)
	resp, err = srv.app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
