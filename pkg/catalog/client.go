package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Client talks to a catalog service to announce this agent and discover
// peers worth dialing.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register announces an agent card to the catalog.
func (c *Client) Register(card Card) error {
	body, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to encode agent card: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/agent", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to connect to catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("catalog returned non-OK status: %d, body: %s", resp.StatusCode, string(payload))
	}

	log.Debug("registered agent with catalog", "name", card.Name, "url", c.baseURL)
	return nil
}

// GetAgents retrieves every agent card the catalog knows about.
func (c *Client) GetAgents() ([]Card, error) {
	url := fmt.Sprintf("%s/.well-known/catalog.json", c.baseURL)

	log.Debug("fetching agents from catalog", "url", url)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog returned non-OK status: %d, body: %s", resp.StatusCode, string(body))
	}

	var agents []Card
	if err := json.NewDecoder(resp.Body).Decode(&agents); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	log.Debug("retrieved agents from catalog", "count", len(agents))
	return agents, nil
}

// GetAgent retrieves a specific agent card by id.
func (c *Client) GetAgent(id string) (*Card, error) {
	url := fmt.Sprintf("%s/agent/%s", c.baseURL, id)

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("agent not found: %s", id)
		}
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog returned non-OK status: %d, body: %s", resp.StatusCode, string(body))
	}

	var agent Card
	if err := json.NewDecoder(resp.Body).Decode(&agent); err != nil {
		return nil, fmt.Errorf("failed to decode agent response: %w", err)
	}

	return &agent, nil
}
