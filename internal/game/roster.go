// Package game holds the in-memory state of a running server: which players
// are known, which of them have a live session, and where their units are.
package game

import (
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/hostile-planets/models"
	"github.com/puzpuzpuz/xsync/v3"
)

type entry struct {
	player   models.Player
	conn     Conn
	lastSeen time.Time
}

// Roster tracks players by name. It is safe for concurrent use; every update
// of a single player is atomic.
type Roster struct {
	players *xsync.MapOf[string, entry]
	scouts  atomic.Int64
	now     func() time.Time
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{
		players: xsync.NewMapOf[string, entry](),
		now:     time.Now,
	}
}

// JoinResult describes a successful [Roster.Join].
type JoinResult struct {
	Player models.Player
	// Replaced is the session that held the name before a takeover, or nil.
	Replaced Conn
}

// Join binds conn to name.
//
// A name that already has a live session is rejected with ErrNameInUse unless
// takeover is set, in which case the previous session is returned in
// JoinResult.Replaced for the caller to close. known seeds a player that is
// new to this roster but was persisted earlier (first-seen time and units).
func (r *Roster) Join(name string, conn Conn, takeover bool, known *models.Player) (JoinResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return JoinResult{}, ErrInvalidName
	}

	var (
		res     JoinResult
		joinErr error
	)
	now := r.now()

	r.players.Compute(name, func(old entry, loaded bool) (entry, bool) {
		if loaded && old.conn != nil && !takeover {
			joinErr = ErrNameInUse
			return old, false
		}

		e := old
		switch {
		case loaded:
			res.Replaced = old.conn
		case known != nil:
			e.player = *known
			e.player.Units = slices.Clone(known.Units)
		default:
			e.player = models.Player{Name: name, FirstSeen: now}
		}
		if e.player.FirstSeen.IsZero() {
			e.player.FirstSeen = now
		}
		if _, ok := e.player.Scout(); !ok {
			e.player.Units = append(slices.Clone(e.player.Units), models.NewScout(int(r.scouts.Add(1))))
		}

		e.player.Name = name
		e.player.Connected = true
		e.player.LastSeen = now
		e.conn = conn
		e.lastSeen = now

		res.Player = copyPlayer(e.player)
		return e, false
	})

	if joinErr != nil {
		return JoinResult{}, joinErr
	}
	return res, nil
}

// Leave marks name disconnected if its live session is connID. It reports
// whether the roster changed; a stale session that was taken over does not
// disconnect its successor.
func (r *Roster) Leave(name, connID string) bool {
	var changed bool
	now := r.now()

	r.players.Compute(name, func(old entry, loaded bool) (entry, bool) {
		if !loaded {
			return old, true
		}
		if old.conn == nil || old.conn.ID() != connID {
			return old, false
		}
		old.conn = nil
		old.player.Connected = false
		old.player.LastSeen = now
		old.lastSeen = now
		changed = true
		return old, false
	})

	return changed
}

// Touch records activity of the session connID bound to name.
func (r *Roster) Touch(name, connID string) {
	now := r.now()
	r.players.Compute(name, func(old entry, loaded bool) (entry, bool) {
		if !loaded {
			return old, true
		}
		if old.conn != nil && old.conn.ID() == connID {
			old.lastSeen = now
			old.player.LastSeen = now
		}
		return old, false
	})
}

// Move shifts the scout of a connected player and returns its new state.
// A non-empty connID must name the session currently bound to name.
func (r *Roster) Move(name, connID string, dx, dy int) (models.Unit, error) {
	var (
		moved   models.Unit
		moveErr error
	)

	r.players.Compute(name, func(old entry, loaded bool) (entry, bool) {
		if !loaded {
			moveErr = ErrPlayerNotFound
			return old, true
		}
		if old.conn == nil || (connID != "" && old.conn.ID() != connID) {
			moveErr = ErrNotJoined
			return old, false
		}

		units := slices.Clone(old.player.Units)
		for i, u := range units {
			if u.Type == models.UnitTypeScout {
				units[i] = u.Moved(dx, dy)
				moved = units[i]
			}
		}
		old.player.Units = units
		return old, false
	})

	return moved, moveErr
}

// Player returns a copy of the named player.
func (r *Roster) Player(name string) (models.Player, bool) {
	e, ok := r.players.Load(name)
	if !ok {
		return models.Player{}, false
	}
	return copyPlayer(e.player), true
}

// Players returns a snapshot of all players sorted by name.
func (r *Roster) Players() []models.Player {
	out := make([]models.Player, 0, r.players.Size())
	r.players.Range(func(_ string, e entry) bool {
		out = append(out, copyPlayer(e.player))
		return true
	})
	slices.SortFunc(out, func(a, b models.Player) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Presence reports the connection state of name as far as this roster knows.
func (r *Roster) Presence(name string) models.Presence {
	e, ok := r.players.Load(name)
	switch {
	case !ok:
		return models.PresenceUnknown
	case e.conn != nil:
		return models.PresenceConnected
	default:
		return models.PresenceKnownOffline
	}
}

// Conn returns the live session of name.
func (r *Roster) Conn(name string) (Conn, bool) {
	e, ok := r.players.Load(name)
	if !ok || e.conn == nil {
		return nil, false
	}
	return e.conn, true
}

// Conns returns every live session.
func (r *Roster) Conns() []Conn {
	var out []Conn
	r.players.Range(func(_ string, e entry) bool {
		if e.conn != nil {
			out = append(out, e.conn)
		}
		return true
	})
	return out
}

// Stale returns the live sessions whose last activity is before cutoff.
func (r *Roster) Stale(cutoff time.Time) []Conn {
	var out []Conn
	r.players.Range(func(_ string, e entry) bool {
		if e.conn != nil && e.lastSeen.Before(cutoff) {
			out = append(out, e.conn)
		}
		return true
	})
	return out
}

// Online returns the number of connected players.
func (r *Roster) Online() int {
	return len(r.Conns())
}

// Len returns the number of known players.
func (r *Roster) Len() int {
	return r.players.Size()
}

func copyPlayer(p models.Player) models.Player {
	p.Units = slices.Clone(p.Units)
	return p
}
