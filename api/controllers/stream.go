package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ajcastillo/gearmart-backend/api/responses"
	pkgerrors "github.com/ajcastillo/gearmart-backend/pkg/errors"
	"github.com/ajcastillo/gearmart-backend/pkg/livequery"
	"github.com/ajcastillo/gearmart-backend/pkg/logger"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPingPeriod = 30 * time.Second
)

// streamableTables limits subscriptions to the public data surface.
var streamableTables = map[string]bool{
	"products":    true,
	"cart_items":  true,
	"orders":      true,
	"order_items": true,
	"reviews":     true,
}

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Bearer auth runs before the upgrade; the origin adds nothing here.
		return true
	},
}

// StreamChanges upgrades to a websocket and pushes change notifications for
// the requested tables. Clients re-query on receipt; events carry no row data.
func StreamChanges(bus *livequery.Bus, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if bus == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "change bus unavailable"))
			return
		}

		tables, err := parseStreamTables(r.URL.Query().Get("tables"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conn, err := streamUpgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already wrote the handshake error.
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "stream.upgrade_failed")
			}
			return
		}
		defer conn.Close()

		sub := bus.Subscribe(tables...)
		defer sub.Close()

		// Drain client frames so close messages and pongs are processed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					sub.Close()
					return
				}
			}
		}()

		ticker := time.NewTicker(streamPingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			}
		}
	}
}

func parseStreamTables(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		// No filter means every streamable table. The users table stays off
		// the stream either way.
		all := make([]string, 0, len(streamableTables))
		for table := range streamableTables {
			all = append(all, table)
		}
		return all, nil
	}

	var tables []string
	for _, part := range strings.Split(trimmed, ",") {
		table := strings.ToLower(strings.TrimSpace(part))
		if table == "" {
			continue
		}
		if !streamableTables[table] {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown table").WithDetails(map[string]any{"table": table})
		}
		tables = append(tables, table)
	}
	return tables, nil
}
