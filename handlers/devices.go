// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/tap-survey/auth"
	"github.com/danielhkuo/tap-survey/cliparse"
	"github.com/danielhkuo/tap-survey/middleware"
	"github.com/danielhkuo/tap-survey/models"
)

type DeviceHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewDeviceHandler(db *sql.DB, cfg cliparse.Config) *DeviceHandler {
	return &DeviceHandler{db: db, cfg: cfg}
}

// Register handles POST /devices/register
// Installs that already persist a device id send it in X-Device-ID and get
// it back unchanged; fresh installs (web, where local storage may not have
// one yet) get a server-minted UUID. Either way the id is an opaque
// correlation key for vote deduplication, nothing more.
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterDeviceRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrBadRequest, "Invalid JSON")
		return
	}

	if !isValidPlatform(req.Platform) {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.ErrValidation, "platform must be one of: ios, android, web")
		return
	}

	deviceID := r.Header.Get("X-Device-ID")
	if deviceID != "" {
		var exists bool
		err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM device WHERE id = $1)`, deviceID).Scan(&exists)
		if err != nil {
			slog.Error("failed to query device", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Database error")
			return
		}
		if exists {
			_, err = h.db.Exec(`UPDATE device SET last_seen_at = $1 WHERE id = $2`, time.Now(), deviceID)
			if err != nil {
				slog.Error("failed to update device last_seen_at", "error", err)
			}

			slog.Info("device registered (existing)", "device_id", deviceID)
			middleware.JSONResponse(w, http.StatusOK, models.RegisterDeviceResponse{
				DeviceID: deviceID,
				IsNew:    false,
			})
			return
		}
	} else {
		deviceID = auth.NewDeviceID()
	}

	now := time.Now()
	_, err := h.db.Exec(`
		INSERT INTO device (id, platform, created_at, last_seen_at)
		VALUES ($1, $2, $3, $4)
	`, deviceID, req.Platform, now, now)

	if err != nil {
		slog.Error("failed to insert device", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.ErrInternal, "Failed to register device")
		return
	}

	slog.Info("device registered (new)", "device_id", deviceID, "platform", req.Platform)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterDeviceResponse{
		DeviceID: deviceID,
		IsNew:    true,
	})
}

func isValidPlatform(platform string) bool {
	switch platform {
	case models.PlatformIOS, models.PlatformAndroid, models.PlatformWeb:
		return true
	}
	return false
}
