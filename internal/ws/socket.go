package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/jsabazova/suburb-swipe/internal/catalog"
	"github.com/jsabazova/suburb-swipe/internal/config"
	"github.com/jsabazova/suburb-swipe/internal/game"
	"github.com/rs/zerolog/log"
)

type ConnCtx struct {
	Code  string
	Token string
	Role  string // "host" | "viewer"
}

// broadcaster is the part of *socketio.Server used to fan events out to a room.
type broadcaster interface {
	BroadcastToRoom(namespace string, room, event string, args ...interface{}) bool
}

type Server struct {
	RM      *game.RoomManager
	catalog catalog.Source
	config  config.Config
	bc      broadcaster

	mu      sync.Mutex
	members map[string]map[string]socketio.Conn // sessionCode -> socketID -> Conn
}

func New(rm *game.RoomManager, src catalog.Source, cfg config.Config) *Server {
	return &Server{RM: rm, catalog: src, config: cfg, members: make(map[string]map[string]socketio.Conn)}
}

type createReq struct {
	Config json.RawMessage `json:"config"`
}

type joinReq struct {
	SessionCode string `json:"sessionCode"`
}

type resumeReq struct {
	SessionCode string `json:"sessionCode"`
	Token       string `json:"token"`
}

type decision struct {
	Round     int    `json:"round"`
	WinnerID  string `json:"winnerId"`
	Direction string `json:"direction"`
}

// Mount attaches Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)
	srv.bc = io

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "game:create", srv.create)
	io.OnEvent("/", "game:join", srv.join)
	io.OnEvent("/", "game:resume", srv.resume)
	io.OnEvent("/", "game:start", srv.start)
	// both pick a side: choose by id, swipe by gesture
	io.OnEvent("/", "game:choose", srv.decide)
	io.OnEvent("/", "game:swipe", srv.decide)
	io.OnEvent("/", "game:restart", srv.restart)

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Code != "" {
			srv.removeMember(ctx.Code, s)
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io serve")
		}
	}()

	// Mount to router
	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// create makes the caller host of a new session. A partial config only
// overrides the fields it names.
func (srv *Server) create(s socketio.Conn, payload createReq) map[string]any {
	cfg, err := srv.config.SessionConfig(payload.Config)
	if err != nil {
		return srv.err(s, "bad_request", err.Error())
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	items, err := srv.catalog.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("catalog load failed")
		return srv.err(s, "catalog_unavailable", "Catalog unavailable")
	}
	code, hostToken, err := srv.RM.CreateSession(items, cfg)
	if err != nil {
		return srv.err(s, "bad_request", err.Error())
	}
	s.SetContext(&ConnCtx{Code: code, Token: hostToken, Role: "host"})
	s.Join(code)
	srv.addMember(code, s)
	log.Info().Str("sid", s.ID()).Str("code", code).Int("items", len(items)).Msg("game:create")
	srv.emitStateTo(code)
	return map[string]any{"sessionCode": code, "hostToken": hostToken}
}

func (srv *Server) join(s socketio.Conn, payload joinReq) map[string]any {
	if _, err := srv.RM.Get(payload.SessionCode); err != nil {
		return srv.err(s, "session_not_found", "Session not found")
	}
	s.SetContext(&ConnCtx{Code: payload.SessionCode, Role: "viewer"})
	s.Join(payload.SessionCode)
	srv.addMember(payload.SessionCode, s)
	log.Info().Str("sid", s.ID()).Str("code", payload.SessionCode).Msg("game:join")
	srv.emitStateTo(payload.SessionCode)
	return map[string]any{"ok": true}
}

// resume reattaches a reconnecting host.
func (srv *Server) resume(s socketio.Conn, payload resumeReq) map[string]any {
	room, err := srv.RM.Get(payload.SessionCode)
	if err != nil {
		return srv.err(s, "session_not_found", "Session not found")
	}
	if err := room.Authorize(payload.Token); err != nil {
		return srv.err(s, "unauthorized", "Invalid host token")
	}
	s.SetContext(&ConnCtx{Code: payload.SessionCode, Token: payload.Token, Role: "host"})
	s.Join(payload.SessionCode)
	srv.addMember(payload.SessionCode, s)
	log.Info().Str("sid", s.ID()).Str("code", payload.SessionCode).Msg("game:resume")
	s.Emit("game:state", statePayload(room, "host"))
	return map[string]any{"ok": true}
}

// start presents the first pair, or the current one again.
func (srv *Server) start(s socketio.Conn) map[string]any {
	room, errOut := srv.hostRoom(s)
	if errOut != nil {
		return errOut
	}
	pair, ok := room.Session.SelectNextPair()
	if !ok {
		return srv.err(s, "bad_request", "Session has ended")
	}
	log.Info().Str("code", room.Code).Int("round", pair.Round).Msg("game:start")
	srv.bc.BroadcastToRoom("/", room.Code, "game:pair", pair)
	srv.emitStateTo(room.Code)
	return map[string]any{"ok": true}
}

func (srv *Server) restart(s socketio.Conn) map[string]any {
	ctx, _ := s.Context().(*ConnCtx)
	if ctx == nil || ctx.Code == "" {
		return srv.err(s, "session_not_found", "Session not found")
	}
	room, err := srv.RM.Restart(ctx.Code, ctx.Token)
	if err != nil {
		if errors.Is(err, game.ErrNotHost) {
			return srv.err(s, "unauthorized", "Invalid host token")
		}
		return srv.err(s, "session_not_found", "Session not found")
	}
	log.Info().Str("code", room.Code).Msg("game:restart")
	srv.emitStateTo(room.Code)
	return map[string]any{"ok": true}
}

// hostRoom resolves the room of a host connection.
func (srv *Server) hostRoom(s socketio.Conn) (*game.Room, map[string]any) {
	ctx, _ := s.Context().(*ConnCtx)
	if ctx == nil || ctx.Code == "" {
		return nil, srv.err(s, "session_not_found", "Session not found")
	}
	room, err := srv.RM.Get(ctx.Code)
	if err != nil {
		return nil, srv.err(s, "session_not_found", "Session not found")
	}
	if err := room.Authorize(ctx.Token); err != nil {
		return nil, srv.err(s, "unauthorized", "Only the host can decide")
	}
	return room, nil
}

func (srv *Server) decide(s socketio.Conn, d decision) map[string]any {
	room, errOut := srv.hostRoom(s)
	if errOut != nil {
		return errOut
	}

	winnerID := d.WinnerID
	if d.Direction != "" {
		current, ok := room.Session.Current()
		if !ok {
			return srv.err(s, "bad_request", game.ErrNoActivePair.Error())
		}
		id, ok := winnerForSwipe(current, d.Direction)
		if !ok {
			return srv.err(s, "bad_request", "Unknown swipe direction")
		}
		winnerID = id
	}

	out, err := room.Session.RecordChoiceForRound(d.Round, winnerID)
	if err != nil {
		return srv.err(s, "bad_request", err.Error())
	}
	log.Info().Str("code", room.Code).Int("round", d.Round).Str("winner", winnerID).Bool("ended", out.Ended).Msg("game:choose")

	if out.Ended {
		srv.finish(room, out.Results)
		return map[string]any{"ok": true, "ended": true}
	}
	srv.bc.BroadcastToRoom("/", room.Code, "game:pair", out.Next)
	srv.emitStateTo(room.Code)
	return map[string]any{"ok": true, "ended": false}
}

func (srv *Server) finish(room *game.Room, results []game.Item) {
	if srv.config.ExportEnabled {
		if err := game.ExportResults(room, srv.config.ExportFile); err != nil {
			log.Error().Err(err).Str("code", room.Code).Msg("failed to export results")
		} else {
			log.Info().Str("code", room.Code).Str("file", srv.config.ExportFile).Msg("exported results")
		}
	}
	sum := game.Summarize(results, game.DefaultTopN)
	srv.bc.BroadcastToRoom("/", room.Code, "game:results", map[string]any{
		"results":   results,
		"summary":   sum,
		"shareText": sum.ShareText(srv.catalog.Title()),
	})
	srv.emitStateTo(room.Code)
}

// winnerForSwipe maps a gesture to the chosen item: swiping left keeps the
// right-hand item, swiping right keeps the left-hand one.
func winnerForSwipe(p game.Pair, direction string) (string, bool) {
	switch direction {
	case "left":
		return p.Right.ID, true
	case "right":
		return p.Left.ID, true
	}
	return "", false
}

func (srv *Server) addMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[code] == nil {
		srv.members[code] = make(map[string]socketio.Conn)
	}
	srv.members[code][c.ID()] = c
}

func (srv *Server) removeMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[code]; m != nil {
		delete(m, c.ID())
		if len(m) == 0 {
			delete(srv.members, code)
		}
	}
}

func (srv *Server) emitStateTo(code string) {
	room, err := srv.RM.Get(code)
	if err != nil {
		return
	}
	srv.mu.Lock()
	conns := make([]socketio.Conn, 0, len(srv.members[code]))
	for _, c := range srv.members[code] {
		conns = append(conns, c)
	}
	srv.mu.Unlock()
	for _, c := range conns {
		role := "viewer"
		if ctx, ok := c.Context().(*ConnCtx); ok && ctx.Role != "" {
			role = ctx.Role
		}
		c.Emit("game:state", statePayload(room, role))
	}
}

func statePayload(room *game.Room, role string) map[string]any {
	s := room.Session
	payload := map[string]any{
		"sessionCode":  room.Code,
		"phase":        string(s.Phase()),
		"roundsPlayed": s.Rounds(),
		"maxRounds":    room.Config.MaxRounds,
		"you":          map[string]any{"role": role},
	}
	if p, ok := s.Current(); ok {
		payload["pair"] = p
	}
	return payload
}

func (srv *Server) err(s socketio.Conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}
