package brackets

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// TeamSlot — позиция в сетке. Name == nil означает свободный слот:
// фронт рисует его как "TBD".
type TeamSlot struct {
	Name    *string `json:"name"`
	LogoURL *string `json:"logoUrl,omitempty"`
}

type Match struct {
	UID          string `json:"uid"` // "R1M3" — раунд 1, матч 3
	Round        int    `json:"round"`
	OrderInRound int    `json:"orderInRound"`

	Team1 *TeamSlot `json:"team1,omitempty"`
	Team2 *TeamSlot `json:"team2,omitempty"`

	SourceMatch1UID *string `json:"sourceMatch1Uid,omitempty"`
	SourceMatch2UID *string `json:"sourceMatch2Uid,omitempty"`
}

type Layout struct {
	BracketSize int     `json:"bracketSize"`
	Rounds      int     `json:"rounds"`
	Matches     []Match `json:"matches"`
}

// GenerateSingleEliminationLayout строит статичную сетку single elimination
// на bracketSize слотов. Команды занимают слоты первого раунда в порядке
// регистрации (1 vs 2, 3 vs 4, ...); незанятые слоты остаются пустыми, матчи
// последующих раундов ссылаются на свои исходные пары. Никакого продвижения
// по результатам здесь нет — сетка чисто презентационная.
func GenerateSingleEliminationLayout(teams []TeamSlot, bracketSize int) (*Layout, error) {
	if bracketSize < 2 {
		return nil, errors.New("bracket size must be at least 2")
	}
	if len(teams) > bracketSize {
		return nil, fmt.Errorf("too many teams for bracket: %d > %d", len(teams), bracketSize)
	}

	numRounds := int(math.Ceil(math.Log2(float64(bracketSize))))
	fullSize := 1 << uint(numRounds)

	matches := make([]Match, 0, fullSize-1)

	// Раунд 1: команды по порядку регистрации.
	firstRoundMatches := fullSize / 2
	for m := 0; m < firstRoundMatches; m++ {
		bm := Match{
			UID:          fmt.Sprintf("R1M%d", m+1),
			Round:        1,
			OrderInRound: m + 1,
		}
		if idx := m * 2; idx < len(teams) {
			slot := teams[idx]
			bm.Team1 = &slot
		}
		if idx := m*2 + 1; idx < len(teams) {
			slot := teams[idx]
			bm.Team2 = &slot
		}
		matches = append(matches, bm)
	}

	// Последующие раунды: плейсхолдеры, ссылающиеся на исходные матчи.
	matchesInRound := firstRoundMatches / 2
	for r := 2; r <= numRounds; r++ {
		for m := 0; m < matchesInRound; m++ {
			src1 := fmt.Sprintf("R%dM%d", r-1, m*2+1)
			src2 := fmt.Sprintf("R%dM%d", r-1, m*2+2)
			matches = append(matches, Match{
				UID:             fmt.Sprintf("R%dM%d", r, m+1),
				Round:           r,
				OrderInRound:    m + 1,
				SourceMatch1UID: &src1,
				SourceMatch2UID: &src2,
			})
		}
		matchesInRound /= 2
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].OrderInRound < matches[j].OrderInRound
	})

	return &Layout{
		BracketSize: fullSize,
		Rounds:      numRounds,
		Matches:     matches,
	}, nil
}
