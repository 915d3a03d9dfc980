package services

import (
	"context"
	"fmt"

	"github.com/Mr-Racnok/akui-esport/brackets"
	"github.com/Mr-Racnok/akui-esport/models"
	"github.com/Mr-Racnok/akui-esport/repositories"
	"golang.org/x/sync/errgroup"
)

// BracketOverview — данные страницы турнирной сетки.
type BracketOverview struct {
	Bracket          *brackets.Layout `json:"bracket"`
	TeamCount        int              `json:"teamCount"`
	ParticipantCount int              `json:"participantCount"`
	MaxTeams         int              `json:"maxTeams"`
}

type BracketService interface {
	Overview(ctx context.Context) (*BracketOverview, error)
}

type bracketService struct {
	teamRepo        repositories.TeamRepository
	participantRepo repositories.ParticipantRepository
	maxTeams        int
}

func NewBracketService(
	teamRepo repositories.TeamRepository,
	participantRepo repositories.ParticipantRepository,
	maxTeams int,
) BracketService {
	return &bracketService{
		teamRepo:        teamRepo,
		participantRepo: participantRepo,
		maxTeams:        maxTeams,
	}
}

// Overview строит статичную сетку на maxTeams слотов, рассаживая
// зарегистрированные команды по порядку регистрации. Продвижения по
// результатам матчей нет: сетка обновляется только новыми регистрациями.
func (s *bracketService) Overview(ctx context.Context) (*BracketOverview, error) {
	var (
		teams            []models.Team
		participantCount int
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListWithParticipants(gCtx)
		if err != nil {
			return fmt.Errorf("failed to fetch teams for bracket: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		participantCount, err = s.participantRepo.Count(gCtx, nil)
		if err != nil {
			return fmt.Errorf("failed to count participants for bracket: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slots := make([]brackets.TeamSlot, 0, len(teams))
	for i := range teams {
		slots = append(slots, brackets.TeamSlot{
			Name:    &teams[i].Name,
			LogoURL: teams[i].LogoURL,
		})
	}

	layout, err := brackets.GenerateSingleEliminationLayout(slots, s.maxTeams)
	if err != nil {
		return nil, fmt.Errorf("failed to generate bracket layout: %w", err)
	}

	return &BracketOverview{
		Bracket:          layout,
		TeamCount:        len(teams),
		ParticipantCount: participantCount,
		MaxTeams:         s.maxTeams,
	}, nil
}
