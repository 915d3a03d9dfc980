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
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name conflict")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	Count(ctx context.Context, exec SQLExecutor) (int, error)
	FindByID(ctx context.Context, id int) (*models.Team, error)
	ListWithParticipants(ctx context.Context) ([]models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	executor := r.getExecutor(exec)
	query := `INSERT INTO teams (name, logo_url) VALUES ($1, $2) RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, team.Name, team.LogoURL).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			if pqErr.Constraint == "teams_name_key" {
				return ErrTeamNameConflict
			}
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	// Сравнение case-sensitive, как и уникальный констрейнт в схеме.
	query := `SELECT EXISTS (SELECT 1 FROM teams WHERE name = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check team name existence: %w", err)
	}
	return exists, nil
}

func (r *postgresTeamRepository) Count(ctx context.Context, exec SQLExecutor) (int, error) {
	executor := r.getExecutor(exec)
	query := `SELECT COUNT(*) FROM teams`

	var count int
	if err := executor.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}

func (r *postgresTeamRepository) FindByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT id, name, logo_url, created_at FROM teams WHERE id = $1`

	var team models.Team
	err := r.db.QueryRowContext(ctx, query, id).Scan(&team.ID, &team.Name, &team.LogoURL, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to find team %d: %w", id, err)
	}
	return &team, nil
}

// ListWithParticipants возвращает все команды с их составами одним запросом:
// команды по времени регистрации, участники внутри команды — по времени
// вставки.
func (r *postgresTeamRepository) ListWithParticipants(ctx context.Context) ([]models.Team, error) {
	query := `
		SELECT
			t.id, t.name, t.logo_url, t.created_at,
			p.id, p.team_id, p.nickname, p.game_id, p.created_at
		FROM teams t
		LEFT JOIN participants p ON p.team_id = t.id
		ORDER BY t.created_at ASC, t.id ASC, p.created_at ASC, p.id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams with participants: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	index := make(map[int]int) // team id -> позиция в teams

	for rows.Next() {
		var t models.Team
		var pID, pTeamID sql.NullInt64
		var pNickname, pGameID sql.NullString
		var pCreatedAt sql.NullTime

		if err := rows.Scan(
			&t.ID, &t.Name, &t.LogoURL, &t.CreatedAt,
			&pID, &pTeamID, &pNickname, &pGameID, &pCreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}

		pos, ok := index[t.ID]
		if !ok {
			t.Participants = make([]models.Participant, 0, 5)
			teams = append(teams, t)
			pos = len(teams) - 1
			index[t.ID] = pos
		}

		if pID.Valid {
			teams[pos].Participants = append(teams[pos].Participants, models.Participant{
				ID:        int(pID.Int64),
				TeamID:    int(pTeamID.Int64),
				Nickname:  pNickname.String,
				GameID:    pGameID.String,
				CreatedAt: pCreatedAt.Time,
			})
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}
