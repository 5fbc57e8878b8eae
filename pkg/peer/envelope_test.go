package peer

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/mind-go/pkg/mind"
)

func TestEnvelopeJSONRoundTrip(t *testing.T) {
	payload := ShareTruthsPayload{
		Truths: []mind.Truth{{
			ID:                uuid.New(),
			CoreConcept:       "Recurring Greeting",
			SupportingFrames:  []uuid.UUID{uuid.New()},
			Confidence:        0.9,
			EmergentPrinciple: "The input pattern 'Hello' is an intentional external signal.",
		}},
		TrustWeight: TrustWeight,
	}

	env, err := NewEnvelope("agent-1", MessageShareTruths, payload)
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Timestamps travel as RFC3339 strings.
	if !strings.Contains(string(data), env.Timestamp.Format(time.RFC3339)[:19]) {
		t.Errorf("timestamp not serialized as RFC3339: %s", data)
	}

	var decoded Envelope
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded.FromAgentID != "agent-1" || decoded.Type != MessageShareTruths {
		t.Errorf("header mismatch: %+v", decoded)
	}

	var decodedPayload ShareTruthsPayload
	if err := json.Unmarshal(decoded.Payload, &decodedPayload); err != nil {
		t.Fatalf("payload unmarshal failed: %v", err)
	}

	if decodedPayload.TrustWeight != TrustWeight {
		t.Errorf("trust weight mismatch: %f", decodedPayload.TrustWeight)
	}
	if len(decodedPayload.Truths) != 1 ||
		decodedPayload.Truths[0].EmergentPrinciple != payload.Truths[0].EmergentPrinciple {
		t.Errorf("truths did not survive the round trip: %+v", decodedPayload.Truths)
	}
}

func TestNewEnvelopeWithoutPayload(t *testing.T) {
	env, err := NewEnvelope("agent-1", MessagePeerPing, nil)
	if err != nil {
		t.Fatalf("build envelope: %v", err)
	}

	if env.Payload != nil {
		t.Errorf("expected no payload, got %s", env.Payload)
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "payload") {
		t.Errorf("empty payload should be omitted: %s", data)
	}
}

func TestRequestSyncPayloadOptionalSince(t *testing.T) {
	var decoded RequestSyncPayload
	if err := json.Unmarshal([]byte(`{}`), &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Since != nil {
		t.Errorf("expected nil since, got %v", decoded.Since)
	}

	since := time.Now().UTC().Truncate(time.Second)
	data, err := json.Marshal(RequestSyncPayload{Since: &since})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Since == nil || !decoded.Since.Equal(since) {
		t.Errorf("since did not round-trip: %v", decoded.Since)
	}
}
