package achievement

import (
	"time"

	"github.com/sproutcare/engagement-engine/internal/domain"
	"github.com/sproutcare/engagement-engine/internal/ledger"
)

// TransactionType labels ledger transactions created by achievement grants
const TransactionType = "achievement"

// Evaluator checks the catalog against user state and unlocks anything
// whose criteria are now met. Unlocks are one-way: an achievement whose
// criteria later stop holding stays unlocked.
type Evaluator struct {
	defs   []Definition
	ledger *ledger.Service
}

// NewEvaluator creates an evaluator over the given catalog
func NewEvaluator(defs []Definition, ledgerSvc *ledger.Service) *Evaluator {
	return &Evaluator{
		defs:   defs,
		ledger: ledgerSvc,
	}
}

// Evaluate unlocks every achievement whose criteria the state satisfies
// and grants its points through the ledger. Points from one unlock can
// push the state over another criterion, so evaluation repeats until a
// pass unlocks nothing. Already-unlocked achievements are skipped, which
// makes back-to-back evaluation a no-op on the second run.
func (e *Evaluator) Evaluate(state *domain.UserGamificationState, now time.Time) ([]domain.Achievement, []domain.PointsTransaction, error) {
	var unlocked []domain.Achievement
	var txs []domain.PointsTransaction

	for {
		progressed := false

		for _, def := range e.defs {
			if state.HasAchievement(def.ID) {
				continue
			}
			if !def.Criteria(state) {
				continue
			}

			state.UnlockedAchievementIDs[def.ID] = now

			if def.Points > 0 {
				tx, err := e.ledger.Grant(state, TransactionType, def.Points, def.Title, now)
				if err != nil {
					return unlocked, txs, err
				}
				txs = append(txs, tx)
			}

			ach := def.ToAchievement()
			unlockedAt := now
			ach.UnlockedAt = &unlockedAt
			unlocked = append(unlocked, ach)
			progressed = true
		}

		if !progressed {
			return unlocked, txs, nil
		}
	}
}
