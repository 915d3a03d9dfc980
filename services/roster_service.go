package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Mr-Racnok/akui-esport/models"
	"github.com/Mr-Racnok/akui-esport/repositories"
	"golang.org/x/sync/singleflight"
)

type RosterService interface {
	ListRegisteredTeams(ctx context.Context) models.RosterResult
	TeamCount(ctx context.Context) (int, error)
}

type rosterService struct {
	teamRepo repositories.TeamRepository
	logger   *slog.Logger
	group    singleflight.Group
}

func NewRosterService(teamRepo repositories.TeamRepository, logger *slog.Logger) RosterService {
	return &rosterService{
		teamRepo: teamRepo,
		logger:   logger,
	}
}

// ListRegisteredTeams отдаёт денормализованный ростер: команды по времени
// регистрации, участники внутри команды по времени вставки. Одновременные
// чтения (лендинг поллит счётчик) схлопываются в один запрос к БД.
func (s *rosterService) ListRegisteredTeams(ctx context.Context) models.RosterResult {
	v, err, _ := s.group.Do("roster", func() (interface{}, error) {
		return s.teamRepo.ListWithParticipants(ctx)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list registered teams", slog.Any("error", err))
		return models.RosterResult{Success: false, Error: msgUnknownError}
	}

	teams := v.([]models.Team)
	view := make([]models.RegisteredTeam, 0, len(teams))
	for _, t := range teams {
		rt := models.RegisteredTeam{
			ID:           t.ID,
			Name:         t.Name,
			LogoURL:      t.LogoURL,
			CreatedAt:    t.CreatedAt,
			Participants: make([]models.RegisteredParticipant, 0, len(t.Participants)),
		}
		for _, p := range t.Participants {
			rt.Participants = append(rt.Participants, models.RegisteredParticipant{
				Nickname:  p.Nickname,
				GameID:    p.GameID,
				CreatedAt: p.CreatedAt,
			})
		}
		view = append(view, rt)
	}

	return models.RosterResult{Success: true, Teams: view}
}

func (s *rosterService) TeamCount(ctx context.Context) (int, error) {
	v, err, _ := s.group.Do("count", func() (interface{}, error) {
		return s.teamRepo.Count(ctx, nil)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count registered teams: %w", err)
	}
	return v.(int), nil
}
