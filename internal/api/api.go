package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jsabazova/suburb-swipe/internal/catalog"
	"github.com/jsabazova/suburb-swipe/internal/config"
	"github.com/jsabazova/suburb-swipe/internal/game"
	"github.com/rs/zerolog/log"
)

// HostTokenHeader carries the token returned on session creation.
const HostTokenHeader = "X-Host-Token"

const loadTimeout = 15 * time.Second

type Handler struct {
	rm      *game.RoomManager
	catalog catalog.Source
	config  config.Config
}

func New(rm *game.RoomManager, src catalog.Source, cfg config.Config) *Handler {
	return &Handler{rm: rm, catalog: src, config: cfg}
}

// Register mounts the REST routes. Session creation sits behind basic auth
// when HOST_USER and HOST_PASS are both set.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	r.GET("/api/session/active", h.active)

	api := r.Group("/api/sessions")
	if h.config.HostUser != "" && h.config.HostPass != "" {
		api.POST("", gin.BasicAuth(gin.Accounts{h.config.HostUser: h.config.HostPass}), h.create)
	} else {
		api.POST("", h.create)
	}
	api.GET("/:code", h.state)
	api.GET("/:code/items", h.items)
	api.GET("/:code/history", h.history)
	api.GET("/:code/results", h.results)
	api.POST("/:code/start", h.start)
	api.POST("/:code/choice", h.choice)
	api.POST("/:code/restart", h.restart)
}

type createReq struct {
	Config json.RawMessage `json:"config"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_config"})
			return
		}
	}
	cfg, err := h.config.SessionConfig(req.Config)
	if err != nil {
		writeError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), loadTimeout)
	defer cancel()
	items, err := h.catalog.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("catalog load failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog_unavailable"})
		return
	}
	code, hostToken, err := h.rm.CreateSession(items, cfg)
	if err != nil {
		writeError(c, err)
		return
	}
	log.Info().Str("code", code).Int("items", len(items)).Msg("session created")
	c.JSON(http.StatusCreated, gin.H{"sessionCode": code, "hostToken": hostToken})
}

func (h *Handler) active(c *gin.Context) {
	if code, room := h.rm.Active(); room != nil {
		c.JSON(http.StatusOK, gin.H{"sessionCode": code})
		return
	}
	c.Status(http.StatusNotFound)
}

func (h *Handler) state(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, stateOf(room))
}

func (h *Handler) items(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": room.Session.Items()})
}

func (h *Handler) history(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": room.Session.History(), "usedPairs": len(room.Session.UsedPairs())})
}

func (h *Handler) results(c *gin.Context) {
	room, ok := h.room(c)
	if !ok {
		return
	}
	results := room.Session.Results()
	sum := game.Summarize(results, game.DefaultTopN)
	c.JSON(http.StatusOK, gin.H{
		"phase":     room.Session.Phase(),
		"results":   results,
		"summary":   sum,
		"shareText": sum.ShareText(h.catalog.Title()),
	})
}

func (h *Handler) start(c *gin.Context) {
	room, ok := h.hostRoom(c)
	if !ok {
		return
	}
	pair, ok := room.Session.SelectNextPair()
	if !ok {
		writeError(c, game.ErrSessionEnded)
		return
	}
	log.Info().Str("code", room.Code).Int("round", pair.Round).Msg("session started")
	c.JSON(http.StatusOK, gin.H{"pair": pair})
}

type choiceReq struct {
	Round    int    `json:"round" binding:"required"`
	WinnerID string `json:"winnerId" binding:"required"`
}

func (h *Handler) choice(c *gin.Context) {
	room, ok := h.hostRoom(c)
	if !ok {
		return
	}
	var req choiceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
		return
	}
	out, err := room.Session.RecordChoiceForRound(req.Round, req.WinnerID)
	if err != nil {
		writeError(c, err)
		return
	}
	log.Info().Str("code", room.Code).Int("round", req.Round).Str("winner", req.WinnerID).Bool("ended", out.Ended).Msg("choice recorded")
	if out.Ended {
		h.export(room)
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) restart(c *gin.Context) {
	room, err := h.rm.Restart(c.Param("code"), c.GetHeader(HostTokenHeader))
	if err != nil {
		writeError(c, err)
		return
	}
	log.Info().Str("code", room.Code).Msg("session restarted")
	c.JSON(http.StatusOK, stateOf(room))
}

func (h *Handler) export(room *game.Room) {
	if !h.config.ExportEnabled {
		return
	}
	if err := game.ExportResults(room, h.config.ExportFile); err != nil {
		log.Error().Err(err).Str("code", room.Code).Msg("failed to export results")
		return
	}
	log.Info().Str("code", room.Code).Str("file", h.config.ExportFile).Msg("exported results")
}

func (h *Handler) room(c *gin.Context) (*game.Room, bool) {
	room, err := h.rm.Get(c.Param("code"))
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return room, true
}

func (h *Handler) hostRoom(c *gin.Context) (*game.Room, bool) {
	room, ok := h.room(c)
	if !ok {
		return nil, false
	}
	if err := room.Authorize(c.GetHeader(HostTokenHeader)); err != nil {
		writeError(c, err)
		return nil, false
	}
	return room, true
}

func stateOf(room *game.Room) gin.H {
	s := room.Session
	st := gin.H{
		"sessionCode":  room.Code,
		"phase":        s.Phase(),
		"roundsPlayed": s.Rounds(),
		"maxRounds":    room.Config.MaxRounds,
	}
	if p, ok := s.Current(); ok {
		st["pair"] = p
	}
	return st
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
	case errors.Is(err, game.ErrNotHost):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
	case errors.Is(err, game.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": err.Error()})
	default:
		log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	}
}
