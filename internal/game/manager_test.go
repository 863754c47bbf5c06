package game

import (
	"errors"
	"math/rand"
	"sync"
	"testing"
)

func TestNewRoomManager(t *testing.T) {
	rm := NewRoomManager(false)
	if rm.rooms == nil {
		t.Fatal("rooms map should be initialized")
	}
	if code, r := rm.Active(); code != "" || r != nil {
		t.Fatal("active session should be empty initially")
	}
}

func TestCreateSession(t *testing.T) {
	rm := NewRoomManager(false)
	config := SessionConfig{MaxRounds: 5}

	code, hostToken, err := rm.CreateSession(testCatalog(4), config)
	if err != nil {
		t.Fatalf("should be able to create session: %v", err)
	}

	if code == "" {
		t.Fatal("session code should not be empty")
	}
	if hostToken == "" {
		t.Fatal("host token should not be empty")
	}

	room, err := rm.Get(code)
	if err != nil {
		t.Fatalf("should be able to retrieve created session: %v", err)
	}
	if room.Code != code {
		t.Fatalf("expected code %s, got %s", code, room.Code)
	}
	if room.HostToken != hostToken {
		t.Fatalf("expected host token %s, got %s", hostToken, room.HostToken)
	}
	if room.Config.MaxRounds != 5 || room.Config.BaselineRating != 1200 {
		t.Fatalf("expected normalized config, got %+v", room.Config)
	}
	if room.Session.Phase() != PhaseNotStarted {
		t.Fatalf("expected phase %s, got %s", PhaseNotStarted, room.Session.Phase())
	}

	active, _ := rm.Active()
	if active != code {
		t.Fatalf("expected active %s, got %s", code, active)
	}
}

func TestCreateSessionRejectsTinyCatalog(t *testing.T) {
	rm := NewRoomManager(false)
	_, _, err := rm.CreateSession(testCatalog(1), SessionConfig{})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if code, _ := rm.Active(); code != "" {
		t.Fatal("failed create must not register a room")
	}
}

func TestGetUnknownSession(t *testing.T) {
	rm := NewRoomManager(false)
	if _, err := rm.Get("NOPE1"); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSingleSessionMode(t *testing.T) {
	rm := NewRoomManager(true)
	first, _, err := rm.CreateSession(testCatalog(3), SessionConfig{})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, _, err := rm.CreateSession(testCatalog(3), SessionConfig{})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if _, err := rm.Get(first); err != ErrSessionNotFound {
		t.Fatalf("first session should be discarded, got %v", err)
	}
	if _, err := rm.Get(second); err != nil {
		t.Fatalf("second session should exist: %v", err)
	}

	multi := NewRoomManager(false)
	a, _, _ := multi.CreateSession(testCatalog(3), SessionConfig{})
	b, _, _ := multi.CreateSession(testCatalog(3), SessionConfig{})
	if _, err := multi.Get(a); err != nil {
		t.Fatalf("multi mode keeps older rooms: %v", err)
	}
	if code, _ := multi.Active(); code != b {
		t.Fatalf("expected newest room active, got %s", code)
	}
}

func TestAuthorize(t *testing.T) {
	rm := NewRoomManager(false)
	code, hostToken, _ := rm.CreateSession(testCatalog(3), SessionConfig{})
	room, _ := rm.Get(code)

	if err := room.Authorize("invalid-token"); err != ErrNotHost {
		t.Fatalf("expected ErrNotHost with invalid token, got %v", err)
	}
	if err := room.Authorize(""); err != ErrNotHost {
		t.Fatalf("expected ErrNotHost with empty token, got %v", err)
	}
	if err := room.Authorize(hostToken); err != nil {
		t.Fatalf("host token should authorize: %v", err)
	}
}

func TestRestart(t *testing.T) {
	rm := NewRoomManager(false, WithRand(&seqRand{}))
	code, hostToken, _ := rm.CreateSession(testCatalog(3), SessionConfig{MaxRounds: 2})
	room, _ := rm.Get(code)

	p, _ := room.Session.SelectNextPair()
	if _, err := room.Session.RecordChoice(p.Left.ID); err != nil {
		t.Fatalf("record: %v", err)
	}

	if _, err := rm.Restart(code, "invalid-token"); err != ErrNotHost {
		t.Fatalf("expected ErrNotHost, got %v", err)
	}
	if _, err := rm.Restart("NOPE1", hostToken); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}

	fresh, err := rm.Restart(code, hostToken)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if fresh.Session == room.Session {
		t.Fatal("restart should replace the session")
	}
	if fresh.Code != code || fresh.HostToken != hostToken {
		t.Fatal("restart should keep code and host token")
	}
	if fresh.Session.Rounds() != 0 || fresh.Session.Phase() != PhaseNotStarted {
		t.Fatal("restarted session should be fresh")
	}
	for _, it := range fresh.Session.Items() {
		if it.Rating != 1200 || it.Matches != 0 {
			t.Fatalf("restart must reset ratings, got %+v", it)
		}
	}
	if fresh.Config.MaxRounds != 2 {
		t.Fatalf("restart should keep config, got %+v", fresh.Config)
	}

	got, _ := rm.Get(code)
	if got != fresh {
		t.Fatal("registry should hold the restarted room")
	}
}

func TestRemove(t *testing.T) {
	rm := NewRoomManager(false)
	code, _, _ := rm.CreateSession(testCatalog(3), SessionConfig{})
	rm.Remove(code)
	if _, err := rm.Get(code); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound after remove, got %v", err)
	}
	if active, _ := rm.Active(); active != "" {
		t.Fatal("removing the active room should clear it")
	}
}

// Sessions created by one manager share its rand source and draw from it
// concurrently. Run with -race.
func TestSharedRandAcrossRooms(t *testing.T) {
	rm := NewRoomManager(false, WithRand(rand.New(rand.NewSource(1))))
	var rooms []*Room
	for i := 0; i < 4; i++ {
		code, _, err := rm.CreateSession(testCatalog(6), SessionConfig{MaxRounds: 10})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		r, _ := rm.Get(code)
		rooms = append(rooms, r)
	}

	var wg sync.WaitGroup
	for _, r := range rooms {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			p, ok := s.SelectNextPair()
			for ok {
				out, err := s.RecordChoice(p.Left.ID)
				if err != nil {
					t.Errorf("record: %v", err)
					return
				}
				if out.Ended {
					return
				}
				p = *out.Next
			}
		}(r.Session)
	}
	wg.Wait()

	for _, r := range rooms {
		if r.Session.Phase() != PhaseEnded || r.Session.Rounds() != 10 {
			t.Fatalf("room %s: phase %s after %d rounds", r.Code, r.Session.Phase(), r.Session.Rounds())
		}
	}
}
