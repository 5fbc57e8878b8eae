package peer

import (
	"encoding/json"
	"time"

	"github.com/theapemachine/mind-go/pkg/mind"
)

// MessageType enumerates the peer protocol's envelope types.
type MessageType string

const (
	MessageIntroduce   MessageType = "introduce"
	MessageShareTruths MessageType = "shareTruths"
	MessageRequestSync MessageType = "requestSync"
	MessageAcceptSync  MessageType = "acceptSync"
	MessagePeerPing    MessageType = "peerPing"
)

/*
Envelope is one typed, timestamped peer-to-peer wire message. The payload
shape is determined by the message type; envelopes travel as one JSON
object per newline-delimited frame.
*/
type Envelope struct {
	FromAgentID string          `json:"fromAgentId"`
	Type        MessageType     `json:"type"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}

// IntroducePayload announces an agent's identity and purpose to a peer.
type IntroducePayload struct {
	ID            string `json:"id"`
	IdentityLabel string `json:"identityLabel"`
	Telos         string `json:"telos"`
}

// ShareTruthsPayload carries the sender's full derived-truth set together
// with the trust weight the receiver should apply when merging.
type ShareTruthsPayload struct {
	Truths      []mind.Truth `json:"truths"`
	TrustWeight float64      `json:"trustWeight"`
}

// RequestSyncPayload asks a peer for its truths. The since filter is
// accepted on the wire but the reply is always the full set.
type RequestSyncPayload struct {
	Since *time.Time `json:"since,omitempty"`
}

// NewEnvelope wraps a payload into a timestamped envelope. A nil payload
// produces an envelope without one.
func NewEnvelope(from string, messageType MessageType, payload any) (Envelope, error) {
	env := Envelope{
		FromAgentID: from,
		Type:        messageType,
		Timestamp:   time.Now(),
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Envelope{}, err
		}
		env.Payload = data
	}

	return env, nil
}
