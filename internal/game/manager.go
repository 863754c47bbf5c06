package game

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotHost         = errors.New("not host")
)

// Room is a session registered with a RoomManager, together with what is
// needed to start it over.
type Room struct {
	Code      string
	CreatedAt time.Time
	HostToken string

	Catalog []CatalogItem
	Config  SessionConfig

	Session *Session
}

// Authorize checks that token belongs to the room's host, the only party
// allowed to record decisions.
func (r *Room) Authorize(token string) error {
	if token == "" || token != r.HostToken {
		return ErrNotHost
	}
	return nil
}

type RoomManager struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	active string // most recently created room
	single bool   // discard older rooms on create

	opts []Option
}

// NewRoomManager returns an empty registry. opts are applied to every session
// it creates.
func NewRoomManager(single bool, opts ...Option) *RoomManager {
	return &RoomManager{rooms: make(map[string]*Room), single: single, opts: opts}
}

func (rm *RoomManager) CreateSession(catalog []CatalogItem, cfg SessionConfig) (code string, hostToken string, err error) {
	sess, err := NewSession(catalog, cfg, rm.opts...)
	if err != nil {
		return "", "", err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	code = randomCode(5)
	for rm.rooms[code] != nil {
		code = randomCode(5)
	}
	hostToken = uuid.NewString()
	r := &Room{
		Code:      code,
		CreatedAt: time.Now().UTC(),
		HostToken: hostToken,
		Catalog:   append([]CatalogItem(nil), catalog...),
		Config:    sess.Config(),
		Session:   sess,
	}

	if rm.single {
		rm.rooms = make(map[string]*Room)
	}
	rm.rooms[code] = r
	rm.active = code
	return code, hostToken, nil
}

func (rm *RoomManager) Get(code string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	r := rm.rooms[code]
	if r == nil {
		return nil, ErrSessionNotFound
	}
	return r, nil
}

func (rm *RoomManager) Active() (string, *Room) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	if rm.active == "" {
		return "", nil
	}
	return rm.active, rm.rooms[rm.active]
}

// Restart discards the room's session and starts a fresh one over the same
// catalog, keeping the code and host token.
func (rm *RoomManager) Restart(code, hostToken string) (*Room, error) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	old := rm.rooms[code]
	if old == nil {
		return nil, ErrSessionNotFound
	}
	if err := old.Authorize(hostToken); err != nil {
		return nil, err
	}
	sess, err := NewSession(old.Catalog, old.Config, rm.opts...)
	if err != nil {
		return nil, err
	}
	r := &Room{
		Code:      old.Code,
		CreatedAt: time.Now().UTC(),
		HostToken: old.HostToken,
		Catalog:   old.Catalog,
		Config:    old.Config,
		Session:   sess,
	}
	rm.rooms[code] = r
	return r, nil
}

func (rm *RoomManager) Remove(code string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	delete(rm.rooms, code)
	if rm.active == code {
		rm.active = ""
	}
}

func randomCode(n int) string {
	letters := []rune("ABCDEFGHJKLMNPQRSTUVWXYZ23456789")
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return string(b)
}
