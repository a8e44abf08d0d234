package engine

import "github.com/sproutcare/engagement-engine/internal/domain"

// DefaultRewardCatalog returns the claimable rewards seeded onto each
// user's state. Cost rewards debit the balance; gift rewards credit it.
// Each entry is claimable exactly once per user.
func DefaultRewardCatalog() []domain.Reward {
	return []domain.Reward{
		{
			ID:          "welcome_gift",
			Title:       "Welcome Gift",
			GrantPoints: 25,
		},
		{
			ID:         "custom_badge",
			Title:      "Custom Profile Badge",
			CostPoints: 200,
		},
		{
			ID:         "premium_theme",
			Title:      "Premium App Theme",
			CostPoints: 500,
		},
		{
			ID:         "keepsake_book",
			Title:      "Printed Keepsake Book Discount",
			CostPoints: 1500,
		},
	}
}

// seedRewards copies any catalog entry the state does not carry yet.
// Existing entries keep their claimed flags, so catalog additions roll
// out without resetting prior claims.
func (e *Engine) seedRewards(state *domain.UserGamificationState) {
	have := make(map[string]bool, len(state.Rewards))
	for _, r := range state.Rewards {
		have[r.ID] = true
	}
	for _, r := range e.rewardCatalog {
		if !have[r.ID] {
			state.Rewards = append(state.Rewards, r)
		}
	}
}
