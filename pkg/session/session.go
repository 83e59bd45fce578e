package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sbp-robotics/sbp-go/pkg/command"
	"github.com/sbp-robotics/sbp-go/pkg/log"
	"github.com/sbp-robotics/sbp-go/pkg/transport"
)

// Session errors.
var (
	ErrAlreadyConnected = errors.New("already connected")
	ErrNotConnected     = errors.New("not connected")
	ErrNotAwake         = errors.New("toy is not awake")
)

// Session manages one logical connection to a toy. It exclusively owns
// its transport connection; connections are never shared across
// sessions.
type Session struct {
	transport transport.Transport
	id        string
	name      string
	logger    log.Logger
	onState   func(oldState, newState State)

	mu       sync.RWMutex
	state    State
	conn     transport.Conn
	endpoint string
}

// New creates a Session in the DISCONNECTED state.
func New(t transport.Transport, opts ...Option) *Session {
	cfg := config{
		id:     uuid.NewString(),
		logger: log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		transport: t,
		id:        cfg.id,
		name:      cfg.name,
		logger:    cfg.logger,
		onState:   cfg.onState,
		state:     StateDisconnected,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current session state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAwake reports whether the toy is connected and awake.
func (s *Session) IsAwake() bool {
	return s.State() == StateConnectedAwake
}

// Endpoint returns the endpoint of the current connection, or the
// empty string when disconnected.
func (s *Session) Endpoint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.endpoint
}

// Connect opens a connection to the toy at endpoint and wakes it.
//
// On success the session ends in CONNECTED_AWAKE. A wake write that
// fails for transport reasons leaves the session in CONNECTED_ASLEEP
// and Connect still returns nil; callers retry with Wake. A missing
// control characteristic means the peripheral is not a toy: the
// connection is torn down again and Connect reports the failure.
func (s *Session) Connect(ctx context.Context, endpoint string) error {
	s.mu.Lock()
	if s.state != StateDisconnected {
		s.mu.Unlock()
		return ErrAlreadyConnected
	}
	s.state = StateConnecting
	s.endpoint = endpoint
	s.mu.Unlock()

	s.notifyStateChange(endpoint, StateDisconnected, StateConnecting, "")

	conn, err := s.transport.Open(ctx, endpoint)
	if err != nil {
		s.mu.Lock()
		s.state = StateDisconnected
		s.endpoint = ""
		s.mu.Unlock()

		s.logError(endpoint, log.LayerTransport, err, "connect")
		s.notifyStateChange(endpoint, StateConnecting, StateDisconnected, "open failed")
		return fmt.Errorf("open %s: %w", endpoint, err)
	}

	s.mu.Lock()
	s.conn = conn
	s.state = StateConnectedAsleep
	s.mu.Unlock()

	s.notifyStateChange(endpoint, StateConnecting, StateConnectedAsleep, "link established")

	// The toy ignores commands until woken, so connect chains straight
	// into a wake.
	if err := s.Wake(ctx); err != nil && errors.Is(err, transport.ErrCharacteristicNotFound) {
		return err
	}
	return nil
}

// Disconnect closes the connection and returns the session to
// DISCONNECTED. The transport connection is released even when its
// Close reports an error. Calling Disconnect while already
// disconnected is a no-op.
func (s *Session) Disconnect() error {
	return s.close("disconnect requested")
}

// Wake sends the fixed wake frame. Valid in any connected state; on
// success the session is CONNECTED_AWAKE. Waking an already-awake toy
// is harmless and sends the frame again.
func (s *Session) Wake(ctx context.Context) error {
	s.mu.RLock()
	state := s.state
	endpoint := s.endpoint
	s.mu.RUnlock()

	if !state.Connected() {
		return ErrNotConnected
	}

	if err := s.send(ctx, command.Wake(), &log.CommandEvent{Name: log.CommandWake}, "wake"); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == StateConnectedAsleep {
		s.state = StateConnectedAwake
		s.mu.Unlock()
		s.notifyStateChange(endpoint, StateConnectedAsleep, StateConnectedAwake, "wake frame written")
		return nil
	}
	s.mu.Unlock()
	return nil
}

// Drive commands the toy to roll at speed toward heading. reverse
// flips the direction of travel. Arguments are clamped to their valid
// ranges before encoding, never rejected.
func (s *Session) Drive(ctx context.Context, speed, heading int, reverse bool) error {
	if err := s.requireAwake(); err != nil {
		return err
	}

	speed = command.ClampSpeed(speed)
	heading = command.ClampHeading(heading)

	cmd := &log.CommandEvent{
		Name:    log.CommandDrive,
		Speed:   &speed,
		Heading: &heading,
		Reverse: &reverse,
	}
	return s.send(ctx, command.Drive(speed, heading, reverse), cmd, "drive")
}

// SetMainLED sets the color of the main LED. Channels are clamped to
// [0,255].
func (s *Session) SetMainLED(ctx context.Context, r, g, b int) error {
	if err := s.requireAwake(); err != nil {
		return err
	}

	r = command.ClampChannel(r)
	g = command.ClampChannel(g)
	b = command.ClampChannel(b)

	cmd := &log.CommandEvent{
		Name: log.CommandMainLED,
		R:    &r,
		G:    &g,
		B:    &b,
	}
	return s.send(ctx, command.MainLED(r, g, b), cmd, "set main led")
}

// SetMatrixLED sets one pixel of the 8×8 LED matrix. Coordinates are
// clamped to [0,7], channels to [0,255].
func (s *Session) SetMatrixLED(ctx context.Context, x, y, r, g, b int) error {
	if err := s.requireAwake(); err != nil {
		return err
	}

	x = command.ClampCoord(x)
	y = command.ClampCoord(y)
	r = command.ClampChannel(r)
	g = command.ClampChannel(g)
	b = command.ClampChannel(b)

	cmd := &log.CommandEvent{
		Name: log.CommandMatrixPixel,
		X:    &x,
		Y:    &y,
		R:    &r,
		G:    &g,
		B:    &b,
	}
	return s.send(ctx, command.MatrixPixel(x, y, r, g, b), cmd, "set matrix led")
}

// requireAwake checks the command guard: drive and LED operations are
// only valid in CONNECTED_AWAKE.
func (s *Session) requireAwake() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.state {
	case StateConnectedAwake:
		return nil
	case StateConnectedAsleep:
		return ErrNotAwake
	default:
		return ErrNotConnected
	}
}

// send writes a framed packet to the control characteristic and emits
// the packet- and transport-layer events. State guards have already
// run; send only re-checks that a connection is still bound.
func (s *Session) send(ctx context.Context, frame []byte, cmd *log.CommandEvent, op string) error {
	s.mu.RLock()
	conn := s.conn
	endpoint := s.endpoint
	s.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	if err := conn.WriteCharacteristic(ctx, transport.CharacteristicUUID, frame); err != nil {
		s.logError(endpoint, log.LayerTransport, err, op)
		if errors.Is(err, transport.ErrCharacteristicNotFound) {
			// Not a toy we can drive; tear the connection down.
			_ = s.close("characteristic not found")
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	ev := s.event(endpoint, log.LayerPacket, log.CategoryCommand)
	ev.Command = cmd
	s.logger.Log(ev)

	fev := s.event(endpoint, log.LayerTransport, log.CategoryCommand)
	fev.Frame = &log.FrameEvent{Size: len(frame), Data: frame}
	s.logger.Log(fev)

	return nil
}

// close tears down the connection and transitions to DISCONNECTED.
// Returns the transport close error, if any; the session is
// disconnected either way.
func (s *Session) close(reason string) error {
	s.mu.Lock()
	if !s.state.Connected() {
		s.mu.Unlock()
		return nil
	}
	oldState := s.state
	endpoint := s.endpoint
	conn := s.conn
	s.state = StateDisconnected
	s.conn = nil
	s.endpoint = ""
	s.mu.Unlock()

	err := conn.Close()
	if err != nil {
		s.logError(endpoint, log.LayerTransport, err, "close")
	}

	s.notifyStateChange(endpoint, oldState, StateDisconnected, reason)
	return err
}

// notifyStateChange emits a session-layer state event and invokes the
// state callback. Callers must not hold s.mu.
func (s *Session) notifyStateChange(endpoint string, oldState, newState State, reason string) {
	ev := s.event(endpoint, log.LayerSession, log.CategoryState)
	ev.StateChange = &log.StateChangeEvent{
		OldState: oldState.String(),
		NewState: newState.String(),
		Reason:   reason,
	}
	s.logger.Log(ev)

	if s.onState != nil {
		s.onState(oldState, newState)
	}
}

// logError emits an error event at the given layer.
func (s *Session) logError(endpoint string, layer log.Layer, err error, op string) {
	ev := s.event(endpoint, layer, log.CategoryError)
	ev.Error = &log.ErrorEventData{
		Layer:   layer,
		Message: err.Error(),
		Context: op,
	}
	s.logger.Log(ev)
}

// event returns an Event prefilled with session identity.
func (s *Session) event(endpoint string, layer log.Layer, category log.Category) log.Event {
	return log.Event{
		Timestamp:  time.Now(),
		SessionID:  s.id,
		Direction:  log.DirectionOut,
		Layer:      layer,
		Category:   category,
		Endpoint:   endpoint,
		DeviceName: s.name,
	}
}
