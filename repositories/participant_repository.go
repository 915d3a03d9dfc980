package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mr-Racnok/akui-esport/models"
	"github.com/lib/pq"
)

var (
	ErrGameIDConflict         = errors.New("game id already registered")
	ErrParticipantTeamInvalid = errors.New("participant references invalid team")
)

// GameIDConflictError несёт конкретный игровой ID, нарушивший уникальный
// констрейнт; errors.Is(err, ErrGameIDConflict) тоже срабатывает.
type GameIDConflictError struct {
	GameID string
}

func (e *GameIDConflictError) Error() string {
	return fmt.Sprintf("game id %s already registered", e.GameID)
}

func (e *GameIDConflictError) Is(target error) bool {
	return target == ErrGameIDConflict
}

type ParticipantRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, participants []*models.Participant) error
	FindRegisteredGameIDs(ctx context.Context, gameIDs []string) ([]string, error)
	Count(ctx context.Context, exec SQLExecutor) (int, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

// CreateBatch вставляет состав команды одной пачкой. Предполагается вызов
// внутри транзакции вместе со вставкой самой команды.
func (r *postgresParticipantRepository) CreateBatch(ctx context.Context, exec SQLExecutor, participants []*models.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)

	stmt, err := executor.PrepareContext(ctx,
		`INSERT INTO participants (team_id, nickname, game_id) VALUES ($1, $2, $3) RETURNING id, created_at`)
	if err != nil {
		return fmt.Errorf("CreateBatch failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range participants {
		err = stmt.QueryRowContext(ctx, p.TeamID, p.Nickname, p.GameID).Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				switch pqErr.Code {
				case "23505": // unique_violation
					if pqErr.Constraint == "participants_game_id_key" {
						return &GameIDConflictError{GameID: p.GameID}
					}
				case "23503": // foreign_key_violation
					return ErrParticipantTeamInvalid
				}
			}
			return fmt.Errorf("CreateBatch failed for game_id %s: %w", p.GameID, err)
		}
	}
	return nil
}

// FindRegisteredGameIDs возвращает те из переданных игровых ID, что уже
// встречаются среди участников, в порядке их появления в хранилище.
func (r *postgresParticipantRepository) FindRegisteredGameIDs(ctx context.Context, gameIDs []string) ([]string, error) {
	if len(gameIDs) == 0 {
		return nil, nil
	}

	query := `SELECT game_id FROM participants WHERE game_id = ANY($1) ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(gameIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to find registered game ids: %w", err)
	}
	defer rows.Close()

	matches := make([]string, 0, len(gameIDs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan game id: %w", err)
		}
		matches = append(matches, id)
	}
	return matches, rows.Err()
}

func (r *postgresParticipantRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	executor := r.getExecutor(exec)
	query := `SELECT COUNT(*) FROM participants`

	var count int
	if err := executor.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}
