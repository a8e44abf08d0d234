// Package ledger owns the points accounting for a user: base awards,
// bonus transactions, grants and administrative corrections. It is the
// only package that creates PointsTransaction records, so TotalPoints
// stays the running sum of the audit trail by construction.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sproutcare/engagement-engine/internal/bonus"
	"github.com/sproutcare/engagement-engine/internal/domain"
)

// FallbackBasePoints is awarded for unknown or malformed activity types.
// A partial event still earns base points rather than being rejected.
const FallbackBasePoints = 10

// basePoints is the fixed award table keyed by activity kind
var basePoints = map[domain.ActivityKind]int{
	domain.KindSleep:     10,
	domain.KindFeeding:   10,
	domain.KindDiaper:    8,
	domain.KindPlay:      12,
	domain.KindHealth:    15,
	domain.KindMilestone: 50,
	domain.KindSocial:    5,
	"challenge":          100,
}

// Service builds transactions and applies them to user state
type Service struct {
	newID func() string
}

// Option configures the Service
type Option func(*Service)

// WithIDGenerator overrides the transaction ID source, keeping ledger
// output deterministic in tests
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		s.newID = gen
	}
}

// NewService creates a ledger service
func NewService(opts ...Option) *Service {
	s := &Service{
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BasePoints returns the base award for an activity kind, falling back
// for unknown kinds instead of failing
func BasePoints(kind domain.ActivityKind) int {
	if pts, ok := BasePointsFor(kind); ok {
		return pts
	}
	return FallbackBasePoints
}

// BasePointsFor reports whether the kind has an explicit table entry.
// Several known kinds share the fallback value, so membership cannot be
// inferred from the award alone.
func BasePointsFor(kind domain.ActivityKind) (int, bool) {
	pts, ok := basePoints[kind]
	return pts, ok
}

// ApplyEvent builds the base transaction plus all bonus transactions for
// the event and commits them to the state atomically. The returned
// transactions are the new tail of the audit trail.
//
// The combined sum of a base award and stacked bonuses is always
// positive, so this path cannot violate the non-negative rule; the
// rejection lives in Commit for callers that assemble their own batches.
func (s *Service) ApplyEvent(state *domain.UserGamificationState, evt domain.ActivityEvent, bonuses []bonus.Bonus) ([]domain.PointsTransaction, error) {
	kind := evt.Kind()

	txs := make([]domain.PointsTransaction, 0, 1+len(bonuses))
	txs = append(txs, domain.PointsTransaction{
		ID:           s.newID(),
		ActivityType: string(evt.Type),
		Points:       BasePoints(kind),
		Description:  fmt.Sprintf("%s logged", kind),
		Timestamp:    evt.Timestamp,
		Kind:         kind,
	})

	for _, b := range bonuses {
		txs = append(txs, domain.PointsTransaction{
			ID:           b.Type + "-" + s.newID(),
			ActivityType: b.Type,
			Points:       b.Points,
			Description:  b.Description,
			Timestamp:    evt.Timestamp,
			Kind:         kind,
		})
	}

	if err := s.Commit(state, txs, false); err != nil {
		return nil, err
	}

	state.ActivityCounts[kind]++

	return txs, nil
}

// Grant awards a one-off positive transaction (achievement bonus,
// milestone grant, challenge reward) and commits it.
func (s *Service) Grant(state *domain.UserGamificationState, activityType string, points int, description string, ts time.Time) (domain.PointsTransaction, error) {
	tx := domain.PointsTransaction{
		ID:           s.newID(),
		ActivityType: activityType,
		Points:       points,
		Description:  description,
		Timestamp:    ts,
	}
	if err := s.Commit(state, []domain.PointsTransaction{tx}, false); err != nil {
		return domain.PointsTransaction{}, err
	}
	return tx, nil
}

// Debit applies an administrative correction that spends points (reward
// cost claims). It refuses to take the total below zero.
func (s *Service) Debit(state *domain.UserGamificationState, activityType string, points int, description string, ts time.Time) (domain.PointsTransaction, error) {
	if points > state.TotalPoints {
		return domain.PointsTransaction{}, fmt.Errorf("debit of %d against %d: %w", points, state.TotalPoints, domain.ErrInsufficientPoints)
	}

	tx := domain.PointsTransaction{
		ID:           s.newID(),
		ActivityType: activityType,
		Points:       -points,
		Description:  description,
		Timestamp:    ts,
	}
	if err := s.Commit(state, []domain.PointsTransaction{tx}, true); err != nil {
		return domain.PointsTransaction{}, err
	}
	return tx, nil
}

// Commit folds a transaction batch into the state. A batch whose sum is
// negative is rejected unless flagged administrative: the state is left
// untouched and the caller gets the error, never a silent clamp.
func (s *Service) Commit(state *domain.UserGamificationState, txs []domain.PointsTransaction, administrative bool) error {
	sum := 0
	for _, tx := range txs {
		sum += tx.Points
	}

	if sum < 0 && !administrative {
		return fmt.Errorf("batch of %d transactions sums to %d: %w", len(txs), sum, domain.ErrNegativeTransaction)
	}

	state.TotalPoints += sum
	state.Level, state.XPToNextLevel = LevelForPoints(state.TotalPoints)

	return nil
}
