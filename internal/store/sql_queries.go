package store

import (
	"time"

	"github.com/MKhiriev/hostile-planets/models"
	sq "github.com/Masterminds/squirrel"
)

const playersTable = "players"

var playerColumns = []string{"name", "first_seen", "last_seen", "scout_name", "scout_x", "scout_y"}

func buildInsertPlayerQuery(d Dialect, p models.Player) (string, []any, error) {
	scout, _ := p.Scout()
	return d.builder().
		Insert(playersTable).
		Columns(playerColumns...).
		Values(p.Name, toMillis(p.FirstSeen), toMillis(p.LastSeen), scout.Name, scout.Position.X, scout.Position.Y).
		ToSql()
}

func buildUpdatePlayerQuery(d Dialect, p models.Player) (string, []any, error) {
	q := d.builder().
		Update(playersTable).
		Set("last_seen", toMillis(p.LastSeen))

	if scout, ok := p.Scout(); ok {
		q = q.Set("scout_name", scout.Name).
			Set("scout_x", scout.Position.X).
			Set("scout_y", scout.Position.Y)
	}

	return q.Where(sq.Eq{"name": p.Name}).ToSql()
}

func buildTouchPlayerQuery(d Dialect, name string, at time.Time) (string, []any, error) {
	return d.builder().
		Update(playersTable).
		Set("last_seen", toMillis(at)).
		Where(sq.Eq{"name": name}).
		ToSql()
}

func buildSavePositionQuery(d Dialect, name string, scout models.Unit) (string, []any, error) {
	return d.builder().
		Update(playersTable).
		Set("scout_name", scout.Name).
		Set("scout_x", scout.Position.X).
		Set("scout_y", scout.Position.Y).
		Where(sq.Eq{"name": name}).
		ToSql()
}

func buildSelectPlayerQuery(d Dialect, name string) (string, []any, error) {
	return d.builder().
		Select(playerColumns...).
		From(playersTable).
		Where(sq.Eq{"name": name}).
		ToSql()
}

func buildSelectAllPlayersQuery(d Dialect) (string, []any, error) {
	return d.builder().
		Select(playerColumns...).
		From(playersTable).
		OrderBy("name").
		ToSql()
}

func toMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
