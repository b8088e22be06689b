// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

// Package overlay is a localhost websocket broadcaster feeding the
// external on-screen indicator: the `overlay_enabled`/`overlay_position`/
// `chunk_output` settings have a real subscriber to drive. The indicator
// widget itself lives outside the daemon; this package only fans
// state and transcript events out to whoever connects.
package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quietkey/auriscribe/config"
	"github.com/quietkey/auriscribe/internal/logger"
)

const (
	readBufferSize  = 1024
	writeBufferSize = 1024

	writeTimeout       = 10 * time.Second
	pingInterval       = 20 * time.Second
	serverReadTimeout  = 15 * time.Second
	serverWriteTimeout = 15 * time.Second
	serverIdleTimeout  = 60 * time.Second
	shutdownTimeout    = 5 * time.Second
)

// Event is broadcast to every connected overlay client. Kind is one of
// "state", "chunk", "error".
type Event struct {
	Kind      string `json:"kind"`
	State     string `json:"state,omitempty"`
	Text      string `json:"text,omitempty"`
	Message   string `json:"message,omitempty"`
	Position  string `json:"position,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Broadcaster is a localhost websocket server that fans out Events to
// every subscribed overlay client. It never reads audio or transcribes;
// it is pure event fan-out for the external overlay indicator.
type Broadcaster struct {
	cfg      *config.Config
	logger   logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	server  *http.Server
	started bool
	wg      sync.WaitGroup
}

// NewBroadcaster builds a Broadcaster bound to cfg.Overlay.Host/Port.
func NewBroadcaster(cfg *config.Config, log logger.Logger) *Broadcaster {
	return &Broadcaster{
		cfg:     cfg,
		logger:  log,
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBufferSize,
			WriteBufferSize: writeBufferSize,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Start begins accepting overlay client connections. It is a no-op if
// overlay_enabled is false.
func (b *Broadcaster) Start() error {
	if !b.cfg.OverlayEnabled {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/overlay", b.handleWebSocket)

	host := b.cfg.Overlay.Host
	if host == "" {
		host = "127.0.0.1"
	}
	addr := fmt.Sprintf("%s:%d", host, b.cfg.Overlay.Port)
	b.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		IdleTimeout:  serverIdleTimeout,
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.logger.Info("overlay: listening on %s", addr)
		b.started = true
		if err := b.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			b.logger.Error("overlay: server error: %v", err)
		}
	}()
	return nil
}

// Stop closes every client connection and shuts the server down.
func (b *Broadcaster) Stop() {
	if b.server == nil || !b.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	b.mu.Lock()
	for conn := range b.clients {
		_ = conn.Close()
	}
	b.clients = make(map[*websocket.Conn]bool)
	b.mu.Unlock()

	if err := b.server.Shutdown(ctx); err != nil {
		b.logger.Error("overlay: shutdown error: %v", err)
	}
	b.wg.Wait()
	b.started = false
}

func (b *Broadcaster) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Error("overlay: upgrade error: %v", err)
		return
	}

	b.mu.Lock()
	b.clients[conn] = true
	b.mu.Unlock()

	defer func() {
		_ = conn.Close()
		b.mu.Lock()
		delete(b.clients, conn)
		b.mu.Unlock()
	}()

	b.send(conn, Event{Kind: "hello", Position: b.cfg.OverlayPosition, Timestamp: time.Now().Unix()})

	go b.pingLoop(conn)

	// Overlay clients are read-only subscribers; drain and discard any
	// frames (including close/ping control frames) until the connection
	// drops.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Broadcaster) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for range ticker.C {
		if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
			return
		}
	}
}

func (b *Broadcaster) send(conn *websocket.Conn, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("overlay: marshal error: %v", err)
		return
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		b.logger.Debug("overlay: write error: %v", err)
	}
}

// Broadcast fans event out to every connected client. Safe to call from
// any goroutine (it is invoked from the main loop's event dispatcher).
func (b *Broadcaster) Broadcast(event Event) {
	event.Timestamp = time.Now().Unix()
	b.mu.Lock()
	defer b.mu.Unlock()
	for conn := range b.clients {
		b.send(conn, event)
	}
}
