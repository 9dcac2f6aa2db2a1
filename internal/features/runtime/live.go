package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go-lms/internal/features/dashboard"
	"go-lms/internal/features/layout"
	"go-lms/internal/metrics"
	"go-lms/pkg/utils"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Command is a message sent by a live viewer.
type Command struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

const (
	CmdRefresh           = "refresh"
	CmdToggleAutoRefresh = "toggle_auto_refresh"
	CmdSetTimeRange      = "set_time_range"
	CmdSetTenant         = "set_tenant"
	CmdRequestFullscreen = "request_fullscreen"
	CmdExitFullscreen    = "exit_fullscreen"
	CmdFullscreenChanged = "fullscreen_changed"
	CmdSetBreakpoint     = "set_breakpoint"
)

// Event is a message pushed to a live viewer.
type Event struct {
	Type  string `json:"type"`
	View  *View  `json:"view,omitempty"`
	Error string `json:"error,omitempty"`
	// Fullscreen asks the client to enter (true) or leave (false) fullscreen.
	Fullscreen *bool `json:"fullscreen,omitempty"`
}

// socketPlatform treats the connected client as the fullscreen host. Events are dropped
// when the writer is gone or behind; the next view push carries the fullscreen state.
type socketPlatform struct {
	out chan<- Event
}

func (p socketPlatform) send(ev Event) {
	select {
	case p.out <- ev:
	default:
	}
}

func (p socketPlatform) RequestFullscreen() error {
	on := true
	p.send(Event{Type: "fullscreen", Fullscreen: &on})
	return nil
}

func (p socketPlatform) ExitFullscreen() error {
	off := false
	p.send(Event{Type: "fullscreen", Fullscreen: &off})
	return nil
}

type LiveController struct {
	Viewer  ViewerService
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

func NewLiveController(viewer ViewerService, m *metrics.Metrics, logger *zap.Logger) *LiveController {
	return &LiveController{Viewer: viewer, Metrics: m, Logger: logger}
}

// HandleLive serves one viewer. The runtime pushes a fresh view whenever something changes;
// client commands drive refresh, time range, tenant and fullscreen.
func (h *LiveController) HandleLive(c *websocket.Conn) {
	user, _ := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if user == nil {
		_ = c.WriteJSON(Event{Type: "error", Error: "unauthorized"})
		return
	}
	id := c.Params("id")
	bp, ok := layout.ParseBreakpoint(c.Query("breakpoint"))
	if !ok {
		bp = layout.LG
	}
	q := Query{
		TimeRange:  dashboard.TimeRange(c.Query("time_range")),
		TenantID:   c.Query("tenant_id"),
		Breakpoint: bp,
	}

	logger := h.Logger.With(zap.String("dashboard_id", id), zap.String("user_id", user.UserID))
	out := make(chan Event, 8)
	dirty := make(chan struct{}, 1)
	signal := func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	}

	platform := socketPlatform{out: out}
	rt, err := h.Viewer.Mount(context.Background(), user, id, q, platform, signal)
	if err != nil {
		_ = c.WriteJSON(Event{Type: "error", Error: err.Error()})
		return
	}
	h.Metrics.ViewerConnected()
	logger.Info("live viewer connected")

	var (
		mu      sync.Mutex
		current = bp
	)
	view := func() *View {
		mu.Lock()
		b := current
		mu.Unlock()
		v := rt.Snapshot(b)
		return &v
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			var ev Event
			select {
			case <-done:
				return
			case ev = <-out:
			case <-dirty:
				ev = Event{Type: "view", View: view()}
			}
			if err := c.WriteJSON(ev); err != nil {
				logger.Debug("live write failed", zap.Error(err))
				return
			}
		}
	}()

	signal()
	for {
		var cmd Command
		if err := c.ReadJSON(&cmd); err != nil {
			break
		}
		if err := h.apply(rt, cmd, user, &mu, &current); err != nil {
			platform.send(Event{Type: "error", Error: err.Error()})
		}
		signal()
	}

	rt.Close()
	close(done)
	wg.Wait()
	h.Metrics.ViewerDisconnected()
	logger.Info("live viewer disconnected")
}

func (h *LiveController) apply(rt *Runtime, cmd Command, user *utils.UserClaims, mu *sync.Mutex, current *layout.Breakpoint) error {
	switch cmd.Type {
	case CmdRefresh:
		rt.Refresh()
	case CmdToggleAutoRefresh:
		rt.ToggleAutoRefresh()
	case CmdSetTimeRange:
		var tr dashboard.TimeRange
		if err := json.Unmarshal(cmd.Value, &tr); err != nil {
			return errors.New("time range must be a string")
		}
		if err := rt.SetTimeRange(tr); err != nil {
			return err
		}
	case CmdSetTenant:
		var tenant string
		if err := json.Unmarshal(cmd.Value, &tenant); err != nil {
			return errors.New("tenant must be a string")
		}
		rt.SetTenant(TenantFor(user, tenant))
	case CmdRequestFullscreen:
		return rt.RequestFullscreen()
	case CmdExitFullscreen:
		return rt.ExitFullscreen()
	case CmdFullscreenChanged:
		var active bool
		if err := json.Unmarshal(cmd.Value, &active); err != nil {
			return errors.New("fullscreen state must be a boolean")
		}
		rt.FullscreenChanged(active)
	case CmdSetBreakpoint:
		var raw string
		if err := json.Unmarshal(cmd.Value, &raw); err != nil {
			return errors.New("breakpoint must be a string")
		}
		bp, ok := layout.ParseBreakpoint(raw)
		if !ok {
			return fmt.Errorf("unknown breakpoint %q", raw)
		}
		mu.Lock()
		*current = bp
		mu.Unlock()
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
	return nil
}
