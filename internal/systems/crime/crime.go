// Package crime implements the shape-level bandit subsystem: gang
// formation, raiding, and disbandment, emitting BanditGangFormed,
// BanditRaid, and TradeRouteRaided signals.
package crime

import "github.com/kaelhaven/chronicle/internal/kernel"

const (
	banditFormationThreshold = 0.5
	banditFormationChance    = 0.08
	raidTradeBaseChance      = 0.15
	raidSettlementBaseChance = 0.10
	banditDisbandChance      = 0.10
)

// FormGangs spawns a bandit faction in any settlement whose crime rate
// has crossed the formation threshold. Runs yearly.
func FormGangs(w *kernel.World) {
	for _, settlementID := range w.LivingSettlementIDs() {
		_, sa := w.Settlement(settlementID)
		if sa == nil || sa.CrimeRate < banditFormationThreshold {
			continue
		}
		if !w.RNG.Bool(banditFormationChance) {
			continue
		}
		w.Queue.Push(kernel.Command{
			Intent:      kernel.IntentFormBanditGang{Settlement: settlementID},
			EventKind:   kernel.CustomEvent("bandit_gang_formed"),
			Description: "lawlessness curdles into an organized bandit gang",
			Participants: []kernel.ParticipantSpec{
				{Entity: settlementID, Role: kernel.RoleOrigin},
			},
		})
	}
}

// Raid has every living bandit gang consider raiding a trade route (the
// first route of the first settlement, in id order, that has one) or else
// the most weakly guarded settlement outside the gang, wherever it lies.
// Runs monthly.
func Raid(w *kernel.World) {
	for _, factionID := range w.LivingFactionIDs() {
		_, fa := w.Faction(factionID)
		if fa == nil || !fa.IsBandit {
			continue
		}
		if target := pickTradeRouteVictim(w); target.source != 0 {
			if w.RNG.Bool(raidTradeBaseChance) {
				w.Queue.Push(kernel.Command{
					Intent:      kernel.IntentRaidTradeRoute{Source: target.source, Target: target.target},
					EventKind:   kernel.CustomEvent("trade_route_raided"),
					Description: "bandits sever a trade route",
					Participants: []kernel.ParticipantSpec{
						{Entity: factionID, Role: kernel.RoleInstigator},
						{Entity: target.source, Role: kernel.RoleLocation},
					},
				})
				continue
			}
		}
		if settlement := pickRaidVictim(w, factionID); settlement != 0 && w.RNG.Bool(raidSettlementBaseChance) {
			w.Queue.Push(kernel.Command{
				Intent:      kernel.IntentBanditRaid{Gang: factionID, Target: settlement},
				EventKind:   kernel.CustomEvent("bandit_raid"),
				Description: "a bandit gang raids a settlement",
				Participants: []kernel.ParticipantSpec{
					{Entity: factionID, Role: kernel.RoleAttacker},
					{Entity: settlement, Role: kernel.RoleDefender},
				},
			})
		}
	}
}

type routePair struct{ source, target uint64 }

func pickTradeRouteVictim(w *kernel.World) routePair {
	for _, settlementID := range w.LivingSettlementIDs() {
		_, sa := w.Settlement(settlementID)
		if sa == nil || len(sa.TradeRoutes) == 0 {
			continue
		}
		return routePair{source: settlementID, target: sa.TradeRoutes[0]}
	}
	return routePair{}
}

func pickRaidVictim(w *kernel.World, gangFactionID uint64) uint64 {
	var best uint64
	bestWeakness := -1.0
	for _, settlementID := range w.LivingSettlementIDs() {
		_, sa := w.Settlement(settlementID)
		if sa == nil || sa.FactionID == gangFactionID {
			continue
		}
		weakness := 1 - sa.GuardStrength
		if weakness > bestWeakness {
			best, bestWeakness = settlementID, weakness
		}
	}
	return best
}

// Disband gives every living bandit faction a flat yearly chance to
// dissolve; how long a gang has gone without raiding is not tracked.
// Runs yearly.
func Disband(w *kernel.World) {
	for _, factionID := range w.LivingFactionIDs() {
		_, fa := w.Faction(factionID)
		if fa == nil || !fa.IsBandit {
			continue
		}
		if !w.RNG.Bool(banditDisbandChance) {
			continue
		}
		w.Queue.Push(kernel.Command{
			Intent:      kernel.IntentDisbandBanditGang{Faction: factionID},
			EventKind:   kernel.CustomEvent("bandit_gang_disbanded"),
			Description: "a bandit gang disperses",
			Participants: []kernel.ParticipantSpec{
				{Entity: factionID, Role: kernel.RoleSubject},
			},
		})
	}
}
