//go:build linux

package ibus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"liuime/internal/engine"
	"liuime/internal/keymap"
)

// IBus D-Bus constants.
const (
	ibusFactoryInterface = "org.freedesktop.IBus.Factory"
	ibusEngineInterface  = "org.freedesktop.IBus.Engine"
	ibusFactoryPath      = "/org/freedesktop/IBus/Factory"
)

// IBus key event state masks.
const (
	ibusShiftMask   uint32 = 1 << 0
	ibusControlMask uint32 = 1 << 2
	ibusIgnoredMask uint32 = 1 << 25 // set on events the panel re-injects
	ibusReleaseMask uint32 = 1 << 30
)

// Frontend is the IBus engine frontend.
type Frontend struct {
	conn *dbus.Conn
	core Core
	cfg  Config
	log  *slog.Logger

	mu         sync.Mutex
	enginePath dbus.ObjectPath
	engineID   uint32
	lastCode   string
}

// New creates a frontend over a serialized engine core.
func New(core Core, cfg Config, log *slog.Logger) *Frontend {
	if cfg.BusName == "" {
		cfg.BusName = DefaultConfig().BusName
	}
	if cfg.EngineName == "" {
		cfg.EngineName = DefaultConfig().EngineName
	}
	if log == nil {
		log = slog.Default()
	}
	return &Frontend{core: core, cfg: cfg, log: log}
}

// Start connects to the session bus and registers the engine factory.
func (f *Frontend) Start(ctx context.Context) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("connect to session bus: %w", err)
	}
	f.conn = conn

	reply, err := conn.RequestName(f.cfg.BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return errors.New("bus name already taken")
	}

	factory := &factory{frontend: f}
	if err := conn.Export(factory, ibusFactoryPath, ibusFactoryInterface); err != nil {
		return fmt.Errorf("export factory: %w", err)
	}

	f.enginePath = dbus.ObjectPath("/org/freedesktop/IBus/Engine/liuime")
	if err := conn.Export(f, f.enginePath, ibusEngineInterface); err != nil {
		return fmt.Errorf("export engine: %w", err)
	}

	f.log.Info("ibus engine registered", "bus_name", f.cfg.BusName)
	return nil
}

// Stop disconnects from the bus.
func (f *Frontend) Stop() error {
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}

// ProcessKeyEvent handles key press/release events from IBus. Returning
// true consumes the event; false lets it reach the application.
func (f *Frontend) ProcessKeyEvent(keyval, keycode, state uint32) (bool, *dbus.Error) {
	key := keymap.FromKeysym(keyval)
	if key == keymap.KeyNone {
		key = keymap.FromX11Keycode(uint16(keycode))
	}

	ev := keymap.Event{
		Key:      key,
		Down:     state&ibusReleaseMask == 0,
		Shift:    state&ibusShiftMask != 0 && key != keymap.KeyShift,
		Ctrl:     state&ibusControlMask != 0 && key != keymap.KeyCtrl,
		Injected: state&ibusIgnoredMask != 0,
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	code := f.lastCode
	act := f.core.Handle(ev)

	switch act.Kind {
	case engine.ActionCommit:
		f.commitText(act.Text)
		f.clearPanel()
		f.lastCode = ""
		if f.cfg.OnCommit != nil {
			f.cfg.OnCommit(code, act.Text, act.Source)
		}
		return true, nil

	case engine.ActionUpdate:
		f.lastCode = act.Display.Code
		f.updatePanel(act.Display)
		return true, nil

	case engine.ActionPassThrough:
		return false, nil

	case engine.ActionQuit:
		if f.cfg.OnQuit != nil {
			f.cfg.OnQuit()
		}
		return true, nil

	default: // ActionNone
		return true, nil
	}
}

// commitText emits CommitText for the focused client.
func (f *Frontend) commitText(text string) {
	if err := f.conn.Emit(f.enginePath, ibusEngineInterface+".CommitText", ibusText(text)); err != nil {
		f.log.Error("commit text failed", "error", err)
	}
}

func (f *Frontend) updatePanel(d engine.Display) {
	preedit := d.Code
	f.emit("UpdatePreeditText", ibusText(preedit), uint32(len(preedit)), preedit != "")

	aux := renderAux(d)
	f.emit("UpdateAuxiliaryText", ibusText(aux), aux != "")
}

func (f *Frontend) clearPanel() {
	f.emit("UpdatePreeditText", ibusText(""), uint32(0), false)
	f.emit("UpdateAuxiliaryText", ibusText(""), false)
}

func (f *Frontend) emit(member string, args ...interface{}) {
	if err := f.conn.Emit(f.enginePath, ibusEngineInterface+"."+member, args...); err != nil {
		f.log.Error("panel signal failed", "member", member, "error", err)
	}
}

// FocusIn is called when the engine gains input focus.
func (f *Frontend) FocusIn() *dbus.Error {
	return nil
}

// FocusOut drops any half-typed composition; the next field starts clean.
func (f *Frontend) FocusOut() *dbus.Error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.core.Reset()
	f.lastCode = ""
	f.clearPanel()
	return nil
}

// Enable is called when the engine is enabled.
func (f *Frontend) Enable() *dbus.Error {
	return nil
}

// Disable clears state like FocusOut.
func (f *Frontend) Disable() *dbus.Error {
	return f.FocusOut()
}

// Reset resets the engine state.
func (f *Frontend) Reset() *dbus.Error {
	return f.FocusOut()
}

// SetCapabilities informs about client capabilities.
func (f *Frontend) SetCapabilities(caps uint32) *dbus.Error {
	return nil
}

// SetCursorLocation informs about cursor position.
func (f *Frontend) SetCursorLocation(x, y, w, h int32) *dbus.Error {
	return nil
}

// SetContentType informs about the content being edited.
func (f *Frontend) SetContentType(purpose, hints uint32) *dbus.Error {
	return nil
}

// PropertyActivate handles property activations.
func (f *Frontend) PropertyActivate(propName string, state uint32) *dbus.Error {
	return nil
}

// factory implements the IBus Factory D-Bus interface.
type factory struct {
	frontend *Frontend
}

// CreateEngine creates a new engine instance for IBus.
func (fa *factory) CreateEngine(engineName string) (dbus.ObjectPath, *dbus.Error) {
	f := fa.frontend
	if engineName != f.cfg.EngineName {
		return "", dbus.NewError("org.freedesktop.IBus.NoEngine",
			[]interface{}{"unknown engine: " + engineName})
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.engineID++
	path := dbus.ObjectPath(fmt.Sprintf("/org/freedesktop/IBus/Engine/liuime/%d", f.engineID))
	if err := f.conn.Export(f, path, ibusEngineInterface); err != nil {
		return "", dbus.NewError("org.freedesktop.IBus.Error",
			[]interface{}{err.Error()})
	}
	f.enginePath = path

	f.log.Debug("engine instance created", "path", string(path))
	return path, nil
}

// ibusText serializes a string as an IBusText variant, the wire shape IBus
// expects for CommitText and the panel-update signals.
func ibusText(s string) dbus.Variant {
	attrList := struct {
		Name        string
		Attachments map[string]dbus.Variant
		Attributes  []dbus.Variant
	}{
		Name:        "IBusAttrList",
		Attachments: map[string]dbus.Variant{},
		Attributes:  []dbus.Variant{},
	}
	text := struct {
		Name        string
		Attachments map[string]dbus.Variant
		Text        string
		AttrList    dbus.Variant
	}{
		Name:        "IBusText",
		Attachments: map[string]dbus.Variant{},
		Text:        s,
		AttrList:    dbus.MakeVariant(attrList),
	}
	return dbus.MakeVariant(text)
}
