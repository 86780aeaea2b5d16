package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"liuime/internal/config"
	"liuime/internal/dict"
	"liuime/internal/engine"
	"liuime/internal/ibus"
	"liuime/internal/ipc"
	"liuime/internal/keymap"
	"liuime/internal/logging"
	"liuime/internal/stats"
)

// daemon owns the engine core and the surfaces around it: the IBus frontend,
// the control socket, the optional commit journal, and the dictionary
// watcher. All dispatcher access goes through d.mu.
type daemon struct {
	cfg *config.Config
	log *logging.Logger

	mu   sync.Mutex
	disp *engine.Dispatcher

	journal  *stats.Journal
	server   *ipc.Server
	frontend *ibus.Frontend
	watcher  *fsnotify.Watcher

	started  time.Time
	quitOnce sync.Once
	quitCh   chan struct{}
}

func newDaemon(cfg *config.Config, log *logging.Logger) (*daemon, error) {
	dictionary, err := dict.Load(cfg.Dictionary.Path)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	log.Info("dictionary loaded",
		"path", cfg.Dictionary.Path,
		"entries", dictionary.Len(),
		"checksum", dictionary.Checksum())

	opts := cfg.EngineOptions()
	opts.Logger = log.WithComponent("engine").Logger

	d := &daemon{
		cfg:     cfg,
		log:     log,
		disp:    engine.NewDispatcher(dictionary, opts),
		started: time.Now(),
		quitCh:  make(chan struct{}),
	}

	if cfg.Stats.Enabled {
		journal, err := stats.Open(cfg.Stats.Path)
		if err != nil {
			return nil, fmt.Errorf("open stats journal: %w", err)
		}
		d.journal = journal
		log.Info("commit journal enabled", "path", cfg.Stats.Path)
	}

	return d, nil
}

// start brings up the control socket, the IBus frontend, and the dictionary
// watcher. A missing IBus session is not fatal; the control socket still
// works and the frontend can be retried by restarting.
func (d *daemon) start(ctx context.Context) error {
	d.server = ipc.NewServer(d.cfg.IPC.SocketPath, d)
	if err := d.server.Start(); err != nil {
		return fmt.Errorf("start control socket: %w", err)
	}
	d.log.Info("control socket listening", "path", d.cfg.IPC.SocketPath)

	d.frontend = ibus.New(d, ibus.Config{
		OnCommit: d.recordCommit,
		OnQuit:   d.requestQuit,
	}, d.log.WithComponent("ibus").Logger)
	if err := d.frontend.Start(ctx); err != nil {
		d.log.Warn("ibus frontend unavailable", "error", err)
		d.frontend = nil
	}

	if d.cfg.Dictionary.WatchReload {
		if err := d.watchDictionary(); err != nil {
			d.log.Warn("dictionary watch unavailable", "error", err)
		}
	}

	return nil
}

// stop tears everything down in reverse of start.
func (d *daemon) stop() {
	if d.watcher != nil {
		d.watcher.Close()
	}
	if d.frontend != nil {
		if err := d.frontend.Stop(); err != nil {
			d.log.Error("stop ibus frontend", "error", err)
		}
	}
	if d.server != nil {
		if err := d.server.Stop(); err != nil {
			d.log.Error("stop control socket", "error", err)
		}
	}
	if d.journal != nil {
		if err := d.journal.Close(); err != nil {
			d.log.Error("close commit journal", "error", err)
		}
	}
}

// requestQuit asks the main loop to exit. Safe to call from any goroutine
// and more than once.
func (d *daemon) requestQuit() {
	d.quitOnce.Do(func() { close(d.quitCh) })
}

// Handle implements ibus.Core.
func (d *daemon) Handle(ev keymap.Event) engine.Action {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disp.Handle(ev)
}

// Reset implements ibus.Core.
func (d *daemon) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.disp.Reset()
}

// recordCommit journals one commit. Only the code, the character count, and
// the selection source are stored.
func (d *daemon) recordCommit(code, text, source string) {
	d.log.Debug("commit", "code", code, "source", source, d.log.Text("text", text))
	if d.journal == nil {
		return
	}
	if err := d.journal.RecordCommit(code, len([]rune(text)), source); err != nil {
		d.log.Error("journal commit", "error", err)
	}
}

// applyConfig applies a hot-reloaded configuration. Only the page size takes
// effect live; dictionary path, socket, and logging changes need a restart.
func (d *daemon) applyConfig(cfg *config.Config) {
	d.mu.Lock()
	d.disp.SetPageSize(cfg.Engine.PageSize)
	d.mu.Unlock()

	if cfg.Dictionary.Path != d.cfg.Dictionary.Path {
		d.log.Warn("dictionary path changed; restart to apply",
			"path", cfg.Dictionary.Path)
	}
	if cfg.IPC.SocketPath != d.cfg.IPC.SocketPath {
		d.log.Warn("socket path changed; restart to apply")
	}
	d.log.Info("configuration reloaded", "page_size", cfg.Engine.PageSize)
}

// watchDictionary reloads the dictionary when its file changes. Events are
// debounced; editors fire several writes per save.
func (d *daemon) watchDictionary() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(d.cfg.Dictionary.Path)); err != nil {
		watcher.Close()
		return err
	}
	d.watcher = watcher

	go d.watchLoop()
	d.log.Info("watching dictionary", "path", d.cfg.Dictionary.Path)
	return nil
}

func (d *daemon) watchLoop() {
	base := filepath.Base(d.cfg.Dictionary.Path)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(100*time.Millisecond, func() {
				if _, err := d.reloadDictionary(); err != nil {
					d.log.Error("dictionary reload failed", "error", err)
				}
			})

		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.log.Error("dictionary watch", "error", err)
		}
	}
}

// reloadDictionary loads the file off the dispatch path and swaps it in.
// On failure the current dictionary stays active.
func (d *daemon) reloadDictionary() (*dict.Dictionary, error) {
	dictionary, err := dict.Load(d.cfg.Dictionary.Path)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.disp.SetDictionary(dictionary)
	d.mu.Unlock()

	d.log.Info("dictionary reloaded",
		"entries", dictionary.Len(),
		"checksum", dictionary.Checksum())
	return dictionary, nil
}

// HandleMessage implements ipc.Handler for the control socket.
func (d *daemon) HandleMessage(ctx context.Context, msg *ipc.Message) (*ipc.Message, error) {
	id := msg.Header.RequestID

	switch msg.Header.Type {
	case ipc.MsgStatus:
		return ipc.NewResponse(ipc.MsgStatusResp, id, d.status())

	case ipc.MsgSetMode:
		var req ipc.SetModeRequest
		if err := ipc.Decode(msg.Payload, &req); err != nil {
			return ipc.NewErrorMessage(id, ipc.ErrInvalidRequest, "bad set-mode payload"), nil
		}
		mode, err := d.setMode(req.Mode)
		if err != nil {
			return ipc.NewErrorMessage(id, ipc.ErrInvalidRequest, err.Error()), nil
		}
		return ipc.NewResponse(ipc.MsgSetModeResp, id, &ipc.SetModeResponse{Mode: mode})

	case ipc.MsgReloadDict:
		dictionary, err := d.reloadDictionary()
		if err != nil {
			return ipc.NewErrorMessage(id, ipc.ErrInternalError, err.Error()), nil
		}
		return ipc.NewResponse(ipc.MsgReloadDictResp, id, &ipc.ReloadDictResponse{
			Entries:  dictionary.Len(),
			Checksum: dictionary.Checksum(),
		})

	case ipc.MsgStats:
		resp, err := d.statsResponse()
		if err != nil {
			return ipc.NewErrorMessage(id, ipc.ErrUnavailable, err.Error()), nil
		}
		return ipc.NewResponse(ipc.MsgStatsResp, id, resp)

	case ipc.MsgShutdown:
		d.log.Info("shutdown requested over control socket")
		d.requestQuit()
		return ipc.NewMessage(ipc.MsgShutdownResp, id, nil), nil

	default:
		return ipc.NewErrorMessage(id, ipc.ErrInvalidRequest,
			fmt.Sprintf("unknown message type %#x", msg.Header.Type)), nil
	}
}

func (d *daemon) status() *ipc.StatusResponse {
	d.mu.Lock()
	mode := d.disp.Mode().String()
	bufferLen := d.disp.BufferLen()
	dictionary := d.disp.Dictionary()
	d.mu.Unlock()

	return &ipc.StatusResponse{
		Version:      Version,
		Mode:         mode,
		BufferLen:    bufferLen,
		DictEntries:  dictionary.Len(),
		DictChecksum: dictionary.Checksum(),
		DictPath:     d.cfg.Dictionary.Path,
		UptimeSec:    int64(time.Since(d.started).Seconds()),
		StatsEnabled: d.journal != nil,
	}
}

func (d *daemon) setMode(name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch name {
	case "toggle":
		if d.disp.Mode() == engine.ModeIntercept {
			d.disp.SetMode(engine.ModePassthrough)
		} else {
			d.disp.SetMode(engine.ModeIntercept)
		}
	default:
		mode, ok := engine.ParseMode(name)
		if !ok {
			return "", fmt.Errorf("unknown mode %q", name)
		}
		d.disp.SetMode(mode)
	}
	return d.disp.Mode().String(), nil
}

func (d *daemon) statsResponse() (*ipc.StatsResponse, error) {
	if d.journal == nil {
		return nil, fmt.Errorf("stats journal is disabled")
	}

	totals, err := d.journal.Totals()
	if err != nil {
		return nil, err
	}
	top, err := d.journal.TopCodes(10)
	if err != nil {
		return nil, err
	}

	resp := &ipc.StatsResponse{
		TotalCommits:  totals.Commits,
		DistinctCodes: totals.DistinctCodes,
		TotalChars:    totals.Chars,
	}
	for _, c := range top {
		resp.TopCodes = append(resp.TopCodes, ipc.CodeCount{Code: c.Code, Count: c.Count})
	}
	return resp, nil
}
