package services

import (
	"context"
	"fmt"

	"github.com/Mr-Racnok/akui-esport/repositories"
)

// Расписание отборочного дня. День матчей фиксирован для текущего ивента;
// пары заполняются по мере регистрации команд.
const (
	scheduleDay      = "19 Agustus 2025"
	scheduleSessions = 2
	placeholderTeam  = "TBD"
)

type ScheduleMatch struct {
	Team1 string `json:"team1"`
	Team2 string `json:"team2"`
}

type ScheduleSession struct {
	Title   string          `json:"title"`
	Matches []ScheduleMatch `json:"matches"`
}

type ScheduleResult struct {
	Success  bool              `json:"success"`
	Sessions []ScheduleSession `json:"sessions,omitempty"`
	Error    string            `json:"error,omitempty"`
}

type ScheduleService interface {
	Sessions(ctx context.Context) ScheduleResult
}

type scheduleService struct {
	teamRepo repositories.TeamRepository
}

func NewScheduleService(teamRepo repositories.TeamRepository) ScheduleService {
	return &scheduleService{teamRepo: teamRepo}
}

// Sessions раздаёт пары первого раунда по сессиям игрового дня: сессия 1 —
// первая пара, сессия 2 — вторая. Пока команд не хватает, слоты остаются TBD.
func (s *scheduleService) Sessions(ctx context.Context) ScheduleResult {
	teams, err := s.teamRepo.ListWithParticipants(ctx)
	if err != nil {
		return ScheduleResult{Success: false, Error: msgUnknownError}
	}

	names := make([]string, scheduleSessions*2)
	for i := range names {
		if i < len(teams) {
			names[i] = teams[i].Name
		} else {
			names[i] = placeholderTeam
		}
	}

	sessions := make([]ScheduleSession, 0, scheduleSessions)
	for i := 0; i < scheduleSessions; i++ {
		sessions = append(sessions, ScheduleSession{
			Title: fmt.Sprintf("%s Sesi %d", scheduleDay, i+1),
			Matches: []ScheduleMatch{
				{Team1: names[i*2], Team2: names[i*2+1]},
			},
		})
	}

	return ScheduleResult{Success: true, Sessions: sessions}
}
