package peer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/theapemachine/mind-go/pkg/errors"
	"github.com/theapemachine/mind-go/pkg/mind"
)

const (
	// DefaultPort is the fixed listening port agents find each other on.
	DefaultPort = 44444

	// TrustWeight is the fixed weight attached to every outgoing truth
	// share. Peers are unauthenticated; trust is explicit and flat.
	TrustWeight = 0.6
)

/*
Engine is the slice of the mind the peer service needs: identity for the
handshake, the truth set for sharing, and the serialized merge entry point.
*/
type Engine interface {
	ID() string
	Identity() string
	Telos() string
	Truths() []mind.Truth
	IntegrateTruths(truths []mind.Truth, trustWeight float64) int
}

/*
Options configures the service. Zero timeouts mean no timeout at all,
which is the deliberate default; deployments that want bounded reads or
dials opt in.
*/
type Options struct {
	Port        int
	ReadTimeout time.Duration
	DialTimeout time.Duration
	DialRetry   *errors.RetryConfig
}

/*
Service accepts and initiates peer connections, exchanges typed envelopes,
and feeds remote truths into the engine's serialized merge. Synchronization
is best-effort gossip: connections that fail are dropped from the peer
table and never retried on their own.
*/
type Service struct {
	engine Engine
	opts   Options

	mu       sync.Mutex
	listener net.Listener
	conns    map[string]net.Conn
	known    map[string]time.Time
	sendMu   sync.Mutex

	wg sync.WaitGroup
}

// NewService wires a peer service around an engine.
func NewService(engine Engine, opts Options) *Service {
	if opts.DialRetry == nil {
		opts.DialRetry = errors.DefaultRetryConfig()
	}

	return &Service{
		engine: engine,
		opts:   opts,
		conns:  make(map[string]net.Conn),
		known:  make(map[string]time.Time),
	}
}

/*
Start binds the listener and begins accepting peers. A bind failure only
disables networking for this instance: the caller logs it and local
cognition continues unaffected.
*/
func (service *Service) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", service.opts.Port))
	if err != nil {
		return errors.ErrListenerBind.Wrap(err)
	}

	service.mu.Lock()
	service.listener = listener
	service.mu.Unlock()

	log.Info("peer listener ready", "agent", service.engine.Identity(), "addr", listener.Addr())

	service.wg.Add(1)
	go service.acceptLoop(listener)

	return nil
}

// Addr returns the bound listener address, nil before Start.
func (service *Service) Addr() net.Addr {
	service.mu.Lock()
	defer service.mu.Unlock()
	if service.listener == nil {
		return nil
	}
	return service.listener.Addr()
}

func (service *Service) acceptLoop(listener net.Listener) {
	defer service.wg.Done()

	for {
		conn, err := listener.Accept()
		if err != nil {
			// Listener closed during shutdown, or a fatal accept error.
			log.Debug("accept loop ending", "error", err)
			return
		}

		log.Info("accepted peer connection", "remote", conn.RemoteAddr())
		service.adopt(conn)
	}
}

/*
Dial connects to a peer with bounded retry and introduces this agent.
No reconnection is attempted once the connection later drops.
*/
func (service *Service) Dial(addr string) error {
	var conn net.Conn

	err := errors.RetryWithBackoff(service.opts.DialRetry, func() error {
		var dialErr error
		conn, dialErr = net.DialTimeout("tcp", addr, service.opts.DialTimeout)
		return dialErr
	})
	if err != nil {
		return err
	}

	log.Info("connected to peer", "remote", addr)
	service.adopt(conn)

	return nil
}

// adopt registers a connection in the peer table, starts its receive loop,
// and proactively introduces this agent.
func (service *Service) adopt(conn net.Conn) {
	key := uuid.NewString()

	service.mu.Lock()
	service.conns[key] = conn
	service.mu.Unlock()

	service.wg.Add(1)
	go service.receive(key, conn)

	service.sendIntroduce(conn)
}

/*
receive decodes one envelope per newline-delimited frame. Malformed frames
are dropped and the connection stays open; a transport error or EOF closes
the connection and removes it from the peer table.
*/
func (service *Service) receive(key string, conn net.Conn) {
	defer service.wg.Done()
	defer service.drop(key, conn)

	reader := bufio.NewReader(conn)

	for {
		if service.opts.ReadTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(service.opts.ReadTimeout))
		}

		line, err := reader.ReadBytes('\n')
		if len(line) > 1 {
			service.handleFrame(line, conn)
		}
		if err != nil {
			log.Debug("peer stream ended", "remote", conn.RemoteAddr(), "error", err)
			return
		}
	}
}

func (service *Service) handleFrame(frame []byte, conn net.Conn) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		log.Warn("dropping inbound message", "error", errors.ErrDecodeFailed.Wrap(err))
		return
	}

	service.dispatch(env, conn)
}

func (service *Service) dispatch(env Envelope, conn net.Conn) {
	log.Info("received envelope", "type", env.Type, "from", env.FromAgentID)

	service.mu.Lock()
	service.known[env.FromAgentID] = env.Timestamp
	service.mu.Unlock()

	switch env.Type {
	case MessageIntroduce:
		var intro IntroducePayload
		if env.Payload != nil {
			if err := json.Unmarshal(env.Payload, &intro); err == nil {
				log.Info("peer introduced",
					"identity", intro.IdentityLabel,
					"id", intro.ID,
					"telos", intro.Telos,
				)
			}
		}
		service.sendShareTruths(conn)

	case MessageShareTruths:
		var payload ShareTruthsPayload
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			log.Warn("dropping share payload", "error", errors.ErrDecodeFailed.Wrap(err))
			return
		}
		service.engine.IntegrateTruths(payload.Truths, payload.TrustWeight)

	case MessageRequestSync:
		// The since filter is ignored; the reply is always the full set.
		service.sendShareTruths(conn)

	case MessageAcceptSync:
		log.Info("sync accepted", "from", env.FromAgentID)

	case MessagePeerPing:
		// Keepalive, nothing to do.

	default:
		log.Warn("dropping envelope of unknown type", "type", env.Type)
	}
}

func (service *Service) sendIntroduce(conn net.Conn) {
	env, err := NewEnvelope(service.engine.ID(), MessageIntroduce, IntroducePayload{
		ID:            service.engine.ID(),
		IdentityLabel: service.engine.Identity(),
		Telos:         service.engine.Telos(),
	})
	if err != nil {
		log.Error("failed to build introduce envelope", "error", err)
		return
	}

	service.send(conn, env)
}

func (service *Service) sendShareTruths(conn net.Conn) {
	env, err := NewEnvelope(service.engine.ID(), MessageShareTruths, ShareTruthsPayload{
		Truths:      service.engine.Truths(),
		TrustWeight: TrustWeight,
	})
	if err != nil {
		log.Error("failed to build share envelope", "error", err)
		return
	}

	service.send(conn, env)
}

func (service *Service) send(conn net.Conn, env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		log.Error("failed to encode envelope", "error", err)
		return
	}

	service.sendMu.Lock()
	_, err = conn.Write(append(data, '\n'))
	service.sendMu.Unlock()

	if err != nil {
		log.Warn("failed to send envelope", "remote", conn.RemoteAddr(), "error", err)
	}
}

func (service *Service) drop(key string, conn net.Conn) {
	conn.Close()

	service.mu.Lock()
	delete(service.conns, key)
	service.mu.Unlock()
}

// Peers returns a copy of the known-peers table: agent id to the timestamp
// of the last envelope seen from it.
func (service *Service) Peers() map[string]time.Time {
	service.mu.Lock()
	defer service.mu.Unlock()

	out := make(map[string]time.Time, len(service.known))
	for id, seen := range service.known {
		out[id] = seen
	}
	return out
}

// ConnectionCount reports the number of live peer connections.
func (service *Service) ConnectionCount() int {
	service.mu.Lock()
	defer service.mu.Unlock()
	return len(service.conns)
}

/*
Stop cancels the listener and every open peer connection, then waits for
the receive loops to finish.
*/
func (service *Service) Stop() {
	service.mu.Lock()
	listener := service.listener
	service.listener = nil
	conns := make([]net.Conn, 0, len(service.conns))
	for _, conn := range service.conns {
		conns = append(conns, conn)
	}
	service.mu.Unlock()

	if listener != nil {
		listener.Close()
	}
	for _, conn := range conns {
		conn.Close()
	}

	service.wg.Wait()
}
