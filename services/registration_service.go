package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/Mr-Racnok/akui-esport/models"
	"github.com/Mr-Racnok/akui-esport/repositories"
)

// Пользовательские сообщения — на языке сайта.
const (
	msgRegistrationFailed = "Pendaftaran gagal."
	msgRegistrationSaved  = "Pendaftaran berhasil disimpan."
	msgUnknownError       = "An unknown error occurred."

	teamSize = 5

	windowTimeFormat = "02/01/2006 15:04:05 MST"
)

// RegistrationNotifier получает уведомление после каждой успешной
// регистрации; count — новое количество команд.
type RegistrationNotifier interface {
	TeamRegistered(count int)
}

type RegistrationService interface {
	Register(ctx context.Context, input models.RegistrationInput) models.RegistrationResult
}

type registrationService struct {
	tx              repositories.TxManager
	teamRepo        repositories.TeamRepository
	participantRepo repositories.ParticipantRepository
	openAt          time.Time
	closeAt         time.Time
	notifier        RegistrationNotifier
	logger          *slog.Logger
	now             func() time.Time
}

// NewRegistrationService собирает основной поток регистрации. Окно
// передаётся из конфигурации, а не из запроса, чтобы клиентские часы не
// влияли на проверку. Сравнение названий команд — case-sensitive, в
// соответствии с уникальным констрейнтом в схеме.
func NewRegistrationService(
	tx repositories.TxManager,
	teamRepo repositories.TeamRepository,
	participantRepo repositories.ParticipantRepository,
	openAt, closeAt time.Time,
	notifier RegistrationNotifier,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		tx:              tx,
		teamRepo:        teamRepo,
		participantRepo: participantRepo,
		openAt:          openAt,
		closeAt:         closeAt,
		notifier:        notifier,
		logger:          logger,
		now:             time.Now,
	}
}

// Register проводит заявку через все проверки и, если всё чисто, записывает
// команду вместе с пятью участниками в одной транзакции. Любой отказ
// возвращается как структурированный результат: наружу ошибки не
// пробрасываются, вызывающая сторона смотрит на флаг Success.
func (s *registrationService) Register(ctx context.Context, input models.RegistrationInput) models.RegistrationResult {
	if reason := validateRegistrationInput(input); reason != "" {
		return failure(reason)
	}

	now := s.now()
	if now.Before(s.openAt) {
		return failure("Pendaftaran belum dibuka. Silakan coba lagi setelah tanggal " + s.openAt.Format(windowTimeFormat))
	}
	if !now.Before(s.closeAt) {
		return failure("Pendaftaran telah ditutup pada " + s.closeAt.Format(windowTimeFormat))
	}

	exists, err := s.teamRepo.ExistsByName(ctx, input.TeamName)
	if err != nil {
		return s.storeFailure(ctx, "check team name", err)
	}
	if exists {
		return failure(fmt.Sprintf("Nama tim %q sudah terdaftar.", input.TeamName))
	}

	gameIDs := make([]string, 0, teamSize)
	for _, m := range input.Members {
		gameIDs = append(gameIDs, m.GameID)
	}
	registered, err := s.participantRepo.FindRegisteredGameIDs(ctx, gameIDs)
	if err != nil {
		return s.storeFailure(ctx, "check game ids", err)
	}
	if len(registered) > 0 {
		return failure(fmt.Sprintf("ID Game %q sudah terdaftar.", registered[0]))
	}

	var teamNumber int
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		count, err := s.teamRepo.Count(ctx, exec)
		if err != nil {
			return err
		}

		team := &models.Team{Name: input.TeamName}
		if input.LogoURL != "" {
			logoURL := input.LogoURL
			team.LogoURL = &logoURL
		}
		if err := s.teamRepo.Create(ctx, exec, team); err != nil {
			return err
		}

		participants := make([]*models.Participant, 0, teamSize)
		for _, m := range input.Members {
			participants = append(participants, &models.Participant{
				TeamID:   team.ID,
				Nickname: m.Nickname,
				GameID:   m.GameID,
			})
		}
		if err := s.participantRepo.CreateBatch(ctx, exec, participants); err != nil {
			return err
		}

		teamNumber = count + 1
		return nil
	})
	if err != nil {
		// Предпроверки выше уже прошли, так что сюда конфликт попадает
		// только при гонке двух одновременных заявок: констрейнт БД
		// отбивает вторую, сообщение то же самое, что и у предпроверки.
		if errors.Is(err, repositories.ErrTeamNameConflict) {
			return failure(fmt.Sprintf("Nama tim %q sudah terdaftar.", input.TeamName))
		}
		var gidErr *repositories.GameIDConflictError
		if errors.As(err, &gidErr) {
			return failure(fmt.Sprintf("ID Game %q sudah terdaftar.", gidErr.GameID))
		}
		return s.storeFailure(ctx, "insert registration", err)
	}

	s.logger.InfoContext(ctx, "team registered",
		slog.String("team", input.TeamName),
		slog.Int("team_number", teamNumber),
	)
	if s.notifier != nil {
		s.notifier.TeamRegistered(teamNumber)
	}

	return models.RegistrationResult{
		Success:    true,
		Message:    msgRegistrationSaved,
		TeamNumber: teamNumber,
	}
}

func (s *registrationService) storeFailure(ctx context.Context, op string, err error) models.RegistrationResult {
	s.logger.ErrorContext(ctx, "registration store error", slog.String("op", op), slog.Any("error", err))
	return failure(msgUnknownError)
}

func failure(reason string) models.RegistrationResult {
	return models.RegistrationResult{
		Success: false,
		Message: msgRegistrationFailed,
		Error:   reason,
	}
}

// validateRegistrationInput повторяет схему валидации формы: длины полей,
// корректный URL логотипа, ровно пять участников и отсутствие повторов
// игровых ID внутри самой заявки. Возвращает пустую строку, если заявка
// корректна.
func validateRegistrationInput(input models.RegistrationInput) string {
	if n := utf8.RuneCountInString(input.TeamName); n < 3 {
		return "Nama tim minimal 3 karakter"
	} else if n > 50 {
		return "Nama tim maksimal 50 karakter"
	}

	if input.LogoURL != "" {
		u, err := url.Parse(input.LogoURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "URL logo tidak valid"
		}
	}

	if len(input.Members) != teamSize {
		return fmt.Sprintf("Tim harus terdiri dari %d peserta", teamSize)
	}

	seen := make(map[string]bool, teamSize)
	for _, m := range input.Members {
		if n := utf8.RuneCountInString(m.Nickname); n < 3 {
			return "Nickname minimal 3 karakter"
		} else if n > 50 {
			return "Nickname maksimal 50 karakter"
		}
		if n := utf8.RuneCountInString(m.GameID); n < 5 {
			return "ID Game minimal 5 karakter"
		} else if n > 20 {
			return "ID Game maksimal 20 karakter"
		}
		if seen[m.GameID] {
			return fmt.Sprintf("ID Game %q digunakan lebih dari satu kali.", m.GameID)
		}
		seen[m.GameID] = true
	}
	return ""
}
