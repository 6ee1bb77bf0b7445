package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/MKhiriev/hostile-planets/models"
)

// playerRepository is the SQL implementation of [PlayerRepository] for both
// sqlite and PostgreSQL. Queries are built per dialect.
type playerRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewPlayerRepository constructs a [PlayerRepository] backed by db.
func NewPlayerRepository(db *DB, logger *logger.Logger) PlayerRepository {
	logger.Debug().Str("dialect", string(db.dialect)).Msg("creating player repository")
	return &playerRepository{
		db:     db,
		logger: logger,
	}
}

// Save inserts the player and falls back to an update when the name is taken.
func (r *playerRepository) Save(ctx context.Context, p models.Player) error {
	log := logger.FromContext(ctx)

	query, args, err := buildInsertPlayerQuery(r.db.dialect, p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	_, err = r.db.exec(ctx, query, args...)
	if err == nil {
		return nil
	}
	if !r.db.errorClassificator.IsUniqueViolation(err) {
		log.Err(err).Str("func", "*playerRepository.Save").Str("player", p.Name).Msg("error inserting player")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	query, args, err = buildUpdatePlayerQuery(r.db.dialect, p)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if err = r.execAffectingOne(ctx, query, args, ErrPlayerNotSaved); err != nil {
		log.Err(err).Str("func", "*playerRepository.Save").Str("player", p.Name).Msg("error updating player")
		return err
	}
	return nil
}

func (r *playerRepository) Touch(ctx context.Context, name string, at time.Time) error {
	query, args, err := buildTouchPlayerQuery(r.db.dialect, name, at)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.execAffectingOne(ctx, query, args, ErrPlayerNotFound)
}

func (r *playerRepository) SavePosition(ctx context.Context, name string, scout models.Unit) error {
	query, args, err := buildSavePositionQuery(r.db.dialect, name, scout)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return r.execAffectingOne(ctx, query, args, ErrPlayerNotFound)
}

func (r *playerRepository) Find(ctx context.Context, name string) (models.Player, error) {
	query, args, err := buildSelectPlayerQuery(r.db.dialect, name)
	if err != nil {
		return models.Player{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	p, err := scanPlayer(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Player{}, ErrPlayerNotFound
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*playerRepository.Find").Str("player", name).Msg("error finding player")
		return models.Player{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	return p, nil
}

func (r *playerRepository) List(ctx context.Context) ([]models.Player, error) {
	query, args, err := buildSelectAllPlayersQuery(r.db.dialect)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*playerRepository.List").Msg("error listing players")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	players := make([]models.Player, 0, 16)
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return players, nil
}

func (r *playerRepository) execAffectingOne(ctx context.Context, query string, args []any, errNone error) error {
	res, err := r.db.exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n == 0 {
		return errNone
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (models.Player, error) {
	var (
		p                   models.Player
		firstSeen, lastSeen int64
		scout               models.Unit
	)

	if err := row.Scan(&p.Name, &firstSeen, &lastSeen, &scout.Name, &scout.Position.X, &scout.Position.Y); err != nil {
		return models.Player{}, err
	}

	p.FirstSeen = fromMillis(firstSeen)
	p.LastSeen = fromMillis(lastSeen)
	scout.Type = models.UnitTypeScout
	p.Units = []models.Unit{scout}
	return p, nil
}
