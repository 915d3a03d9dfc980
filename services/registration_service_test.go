package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Mr-Racnok/akui-esport/models"
	"github.com/Mr-Racnok/akui-esport/repositories"
)

var wib = time.FixedZone("WIB", 7*60*60)

var (
	testOpen  = time.Date(2025, 8, 10, 7, 0, 0, 0, wib)
	testClose = time.Date(2025, 8, 10, 17, 0, 0, 0, wib)
)

type fakeTxManager struct {
	beginErr error
}

func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(nil)
}

type fakeTeamRepo struct {
	existing  map[string]bool
	count     int
	teams     []models.Team
	created   []*models.Team
	createErr error
	existsErr error
	countErr  error
	listErr   error
}

func (f *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	if f.createErr != nil {
		return f.createErr
	}
	team.ID = len(f.created) + 1
	team.CreatedAt = time.Date(2025, 8, 10, 10, 0, team.ID, 0, wib)
	f.created = append(f.created, team)
	return nil
}

func (f *fakeTeamRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.existing[name], nil
}

func (f *fakeTeamRepo) Count(ctx context.Context, exec repositories.SQLExecutor) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.count, nil
}

func (f *fakeTeamRepo) FindByID(ctx context.Context, id int) (*models.Team, error) {
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) ListWithParticipants(ctx context.Context) ([]models.Team, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.teams, nil
}

type fakeParticipantRepo struct {
	registered []string // game IDs уже в хранилище, в порядке вставки
	batches    [][]*models.Participant
	createErr  error
	findErr    error
	count      int
}

func (f *fakeParticipantRepo) CreateBatch(ctx context.Context, exec repositories.SQLExecutor, participants []*models.Participant) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.batches = append(f.batches, participants)
	return nil
}

func (f *fakeParticipantRepo) FindRegisteredGameIDs(ctx context.Context, gameIDs []string) ([]string, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	want := make(map[string]bool, len(gameIDs))
	for _, id := range gameIDs {
		want[id] = true
	}
	var matches []string
	for _, id := range f.registered {
		if want[id] {
			matches = append(matches, id)
		}
	}
	return matches, nil
}

func (f *fakeParticipantRepo) Count(ctx context.Context, exec repositories.SQLExecutor) (int, error) {
	return f.count, nil
}

type fakeNotifier struct {
	counts []int
}

func (f *fakeNotifier) TeamRegistered(count int) {
	f.counts = append(f.counts, count)
}

func newTestRegistrationService(teamRepo *fakeTeamRepo, participantRepo *fakeParticipantRepo, notifier *fakeNotifier, now time.Time) *registrationService {
	svc := &registrationService{
		tx:              &fakeTxManager{},
		teamRepo:        teamRepo,
		participantRepo: participantRepo,
		openAt:          testOpen,
		closeAt:         testClose,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:             func() time.Time { return now },
	}
	if notifier != nil {
		svc.notifier = notifier
	}
	return svc
}

func validInput() models.RegistrationInput {
	return models.RegistrationInput{
		TeamName: "Alpha",
		Members: []models.RegistrationMember{
			{Nickname: "satu", GameID: "10001 (2001)"},
			{Nickname: "dua", GameID: "10002 (2002)"},
			{Nickname: "tiga", GameID: "10003 (2003)"},
			{Nickname: "empat", GameID: "10004 (2004)"},
			{Nickname: "lima", GameID: "10005 (2005)"},
		},
	}
}

func TestRegisterSucceedsInsideWindow(t *testing.T) {
	teamRepo := &fakeTeamRepo{count: 0}
	participantRepo := &fakeParticipantRepo{}
	notifier := &fakeNotifier{}
	svc := newTestRegistrationService(teamRepo, participantRepo, notifier, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))

	result := svc.Register(context.Background(), validInput())

	if !result.Success {
		t.Fatalf("expected success, got failure: %s / %s", result.Message, result.Error)
	}
	if result.TeamNumber != 1 {
		t.Fatalf("expected team number 1, got %d", result.TeamNumber)
	}
	if result.Message != msgRegistrationSaved {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if len(teamRepo.created) != 1 {
		t.Fatalf("expected 1 team insert, got %d", len(teamRepo.created))
	}
	if len(participantRepo.batches) != 1 || len(participantRepo.batches[0]) != 5 {
		t.Fatalf("expected one batch of 5 participants, got %v", participantRepo.batches)
	}
	for _, p := range participantRepo.batches[0] {
		if p.TeamID != teamRepo.created[0].ID {
			t.Fatalf("participant references team %d, want %d", p.TeamID, teamRepo.created[0].ID)
		}
	}
	if len(notifier.counts) != 1 || notifier.counts[0] != 1 {
		t.Fatalf("expected notifier call with count 1, got %v", notifier.counts)
	}
}

func TestRegisterTeamNumberIsPriorCountPlusOne(t *testing.T) {
	teamRepo := &fakeTeamRepo{count: 7}
	svc := newTestRegistrationService(teamRepo, &fakeParticipantRepo{}, nil, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))

	result := svc.Register(context.Background(), validInput())

	if !result.Success {
		t.Fatalf("expected success, got: %s", result.Error)
	}
	if result.TeamNumber != 8 {
		t.Fatalf("expected team number 8, got %d", result.TeamNumber)
	}
}

func TestRegisterRejectsBeforeOpen(t *testing.T) {
	teamRepo := &fakeTeamRepo{}
	participantRepo := &fakeParticipantRepo{}
	svc := newTestRegistrationService(teamRepo, participantRepo, nil, time.Date(2025, 8, 10, 6, 59, 59, 0, wib))

	result := svc.Register(context.Background(), validInput())

	if result.Success {
		t.Fatal("expected rejection before registration opens")
	}
	if result.Message != msgRegistrationFailed {
		t.Fatalf("unexpected message: %q", result.Message)
	}
	if !strings.Contains(result.Error, "belum dibuka") {
		t.Fatalf("expected not-yet-open reason, got %q", result.Error)
	}
	if !strings.Contains(result.Error, testOpen.Format(windowTimeFormat)) {
		t.Fatalf("expected reason to reference the open time, got %q", result.Error)
	}
	if len(teamRepo.created) != 0 || len(participantRepo.batches) != 0 {
		t.Fatal("expected no writes on timing rejection")
	}
}

func TestRegisterRejectsAtAndAfterClose(t *testing.T) {
	for _, at := range []time.Time{
		time.Date(2025, 8, 10, 17, 0, 0, 0, wib), // граница: окно полуоткрытое
		time.Date(2025, 8, 10, 19, 30, 0, 0, wib),
	} {
		teamRepo := &fakeTeamRepo{}
		svc := newTestRegistrationService(teamRepo, &fakeParticipantRepo{}, nil, at)

		result := svc.Register(context.Background(), validInput())

		if result.Success {
			t.Fatalf("expected rejection at %v", at)
		}
		if !strings.Contains(result.Error, "telah ditutup") {
			t.Fatalf("expected closed reason, got %q", result.Error)
		}
		if !strings.Contains(result.Error, testClose.Format(windowTimeFormat)) {
			t.Fatalf("expected reason to reference the close time, got %q", result.Error)
		}
		if len(teamRepo.created) != 0 {
			t.Fatal("expected no writes on timing rejection")
		}
	}
}

func TestRegisterAcceptsAtOpenBoundary(t *testing.T) {
	svc := newTestRegistrationService(&fakeTeamRepo{}, &fakeParticipantRepo{}, nil, testOpen)

	result := svc.Register(context.Background(), validInput())

	if !result.Success {
		t.Fatalf("expected success exactly at the open instant, got %q", result.Error)
	}
}

func TestRegisterRejectsDuplicateTeamName(t *testing.T) {
	teamRepo := &fakeTeamRepo{existing: map[string]bool{"Alpha": true}}
	participantRepo := &fakeParticipantRepo{}
	svc := newTestRegistrationService(teamRepo, participantRepo, nil, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))

	result := svc.Register(context.Background(), validInput())

	if result.Success {
		t.Fatal("expected rejection for duplicate team name")
	}
	if !strings.Contains(result.Error, "Alpha") {
		t.Fatalf("expected reason to name the duplicate team, got %q", result.Error)
	}
	if len(teamRepo.created) != 0 || len(participantRepo.batches) != 0 {
		t.Fatal("expected no writes on duplicate team name")
	}
}

func TestRegisterTeamNameCheckIsCaseSensitive(t *testing.T) {
	teamRepo := &fakeTeamRepo{existing: map[string]bool{"alpha": true}}
	svc := newTestRegistrationService(teamRepo, &fakeParticipantRepo{}, nil, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))

	result := svc.Register(context.Background(), validInput()) // "Alpha"

	if !result.Success {
		t.Fatalf("expected success: name differs by case, got %q", result.Error)
	}
}

func TestRegisterRejectsRegisteredGameID(t *testing.T) {
	teamRepo := &fakeTeamRepo{}
	// Порядок в хранилище: второй ID из заявки был вставлен раньше третьего.
	participantRepo := &fakeParticipantRepo{registered: []string{"10002 (2002)", "10003 (2003)"}}
	svc := newTestRegistrationService(teamRepo, participantRepo, nil, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))

	result := svc.Register(context.Background(), validInput())

	if result.Success {
		t.Fatal("expected rejection for duplicate game id")
	}
	if !strings.Contains(result.Error, "10002 (2002)") {
		t.Fatalf("expected reason to name first conflicting id in store order, got %q", result.Error)
	}
	if len(teamRepo.created) != 0 {
		t.Fatal("expected no writes on duplicate game id")
	}
}

func TestRegisterRejectsDuplicateGameIDWithinSubmission(t *testing.T) {
	input := validInput()
	input.Members[4].GameID = input.Members[0].GameID
	svc := newTestRegistrationService(&fakeTeamRepo{}, &fakeParticipantRepo{}, nil, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))

	result := svc.Register(context.Background(), input)

	if result.Success {
		t.Fatal("expected rejection for in-submission duplicate game id")
	}
	if !strings.Contains(result.Error, input.Members[0].GameID) {
		t.Fatalf("expected reason to name the duplicated id, got %q", result.Error)
	}
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.RegistrationInput)
		reason string
	}{
		{"short team name", func(in *models.RegistrationInput) { in.TeamName = "ab" }, "Nama tim minimal"},
		{"long team name", func(in *models.RegistrationInput) { in.TeamName = strings.Repeat("x", 51) }, "Nama tim maksimal"},
		{"bad logo url", func(in *models.RegistrationInput) { in.LogoURL = "not a url" }, "URL logo"},
		{"four members", func(in *models.RegistrationInput) { in.Members = in.Members[:4] }, "5 peserta"},
		{"short nickname", func(in *models.RegistrationInput) { in.Members[2].Nickname = "ab" }, "Nickname minimal"},
		{"short game id", func(in *models.RegistrationInput) { in.Members[1].GameID = "1234" }, "ID Game minimal"},
		{"long game id", func(in *models.RegistrationInput) { in.Members[1].GameID = strings.Repeat("9", 21) }, "ID Game maksimal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			teamRepo := &fakeTeamRepo{}
			svc := newTestRegistrationService(teamRepo, &fakeParticipantRepo{}, nil, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))

			input := validInput()
			tt.mutate(&input)
			result := svc.Register(context.Background(), input)

			if result.Success {
				t.Fatal("expected validation rejection")
			}
			if !strings.Contains(result.Error, tt.reason) {
				t.Fatalf("expected reason containing %q, got %q", tt.reason, result.Error)
			}
			if len(teamRepo.created) != 0 {
				t.Fatal("expected no writes on validation rejection")
			}
		})
	}
}

func TestRegisterMapsConstraintRaceToDuplicateMessages(t *testing.T) {
	// Предпроверки прошли, но пока заявка летела, конкурент успел
	// закоммитить такую же команду: констрейнт срабатывает на вставке.
	teamRepo := &fakeTeamRepo{createErr: repositories.ErrTeamNameConflict}
	svc := newTestRegistrationService(teamRepo, &fakeParticipantRepo{}, nil, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))

	result := svc.Register(context.Background(), validInput())
	if result.Success {
		t.Fatal("expected rejection when team insert hits unique constraint")
	}
	if !strings.Contains(result.Error, "Alpha") {
		t.Fatalf("expected duplicate-team message, got %q", result.Error)
	}

	participantRepo := &fakeParticipantRepo{createErr: &repositories.GameIDConflictError{GameID: "10003 (2003)"}}
	svc = newTestRegistrationService(&fakeTeamRepo{}, participantRepo, nil, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))

	result = svc.Register(context.Background(), validInput())
	if result.Success {
		t.Fatal("expected rejection when participant insert hits unique constraint")
	}
	if !strings.Contains(result.Error, "10003 (2003)") {
		t.Fatalf("expected duplicate-game-id message, got %q", result.Error)
	}
}

func TestRegisterStoreErrorsBecomeUnknownError(t *testing.T) {
	storeErr := errors.New("connection reset")

	tests := []struct {
		name string
		svc  *registrationService
	}{
		{"name check fails", newTestRegistrationService(&fakeTeamRepo{existsErr: storeErr}, &fakeParticipantRepo{}, nil, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))},
		{"game id check fails", newTestRegistrationService(&fakeTeamRepo{}, &fakeParticipantRepo{findErr: storeErr}, nil, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))},
		{"insert fails", newTestRegistrationService(&fakeTeamRepo{createErr: storeErr}, &fakeParticipantRepo{}, nil, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.svc.Register(context.Background(), validInput())
			if result.Success {
				t.Fatal("expected failure on store error")
			}
			if result.Error != msgUnknownError {
				t.Fatalf("expected generic store-error reason, got %q", result.Error)
			}
			if result.Message != msgRegistrationFailed {
				t.Fatalf("unexpected message: %q", result.Message)
			}
		})
	}
}

func TestRegisterNotifierSkippedOnFailure(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestRegistrationService(&fakeTeamRepo{existing: map[string]bool{"Alpha": true}}, &fakeParticipantRepo{}, notifier, time.Date(2025, 8, 10, 10, 0, 0, 0, wib))

	_ = svc.Register(context.Background(), validInput())

	if len(notifier.counts) != 0 {
		t.Fatalf("expected no notifications on failure, got %v", notifier.counts)
	}
}
