package politics

import "github.com/kaelhaven/chronicle/internal/kernel"

const (
	// A coup needs real discontent before anyone risks their neck.
	coupStabilityGate  = 0.4
	coupHappinessGate  = 0.45
	coupLegitimacyGate = 0.5

	coupBaseChance = 0.02

	// Success is a prestige duel between instigator and sitting leader.
	coupSuccessBase           = 0.5
	coupSuccessPrestigeWeight = 0.5
)

// Coup rolls, for each discontented faction, every ambitious member's
// chance of moving against the sitting leader. The first mover attempts
// it; success pivots on instigator prestige against leader prestige.
// Runs yearly.
func Coup(w *kernel.World) {
	for _, factionID := range w.LivingFactionIDs() {
		_, fa := w.Faction(factionID)
		if fa == nil || fa.IsBandit {
			continue
		}
		if fa.Stability >= coupStabilityGate && fa.Happiness >= coupHappinessGate &&
			fa.Legitimacy >= coupLegitimacyGate {
			continue
		}
		leader := w.FactionLeader(factionID)
		if leader == 0 {
			continue
		}
		discontent := ((1 - fa.Stability) + (1 - fa.Happiness) + (1 - fa.Legitimacy)) / 3

		for _, pid := range w.FactionMembers(factionID) {
			if pid == leader {
				continue
			}
			_, pa := w.Person(pid)
			if pa == nil {
				continue
			}
			chance := coupBaseChance * discontent * traitAmbitionMultiplier(pa)
			if chance <= 0 || !w.RNG.Bool(chance) {
				continue
			}
			success := w.RNG.Bool(coupSuccessChance(w, leader, pa))
			w.Queue.Push(kernel.Command{
				Intent:      kernel.IntentCoupAttempt{Faction: factionID, Instigator: pid, Success: success},
				EventKind:   kernel.EK.Coup,
				Description: "an ambitious noble moves against the sitting leader",
				Participants: []kernel.ParticipantSpec{
					{Entity: factionID, Role: kernel.RoleLocation},
					{Entity: pid, Role: kernel.RoleInstigator},
					{Entity: leader, Role: kernel.RoleObject},
				},
			})
			break // one attempt per faction per year
		}
	}
}

// traitAmbitionMultiplier scales the attempt chance by temperament: the
// ruthless and aggressive scheme, the honorable and content do not.
func traitAmbitionMultiplier(pa *kernel.PersonAttrs) float64 {
	mult := 1.0
	if pa.HasTrait(kernel.TraitRuthless) {
		mult *= 2.0
	}
	if pa.HasTrait(kernel.TraitAggressive) {
		mult *= 1.5
	}
	if pa.HasTrait(kernel.TraitHonorable) {
		mult *= 0.2
	}
	if pa.HasTrait(kernel.TraitContent) {
		mult *= 0.3
	}
	return mult
}

func coupSuccessChance(w *kernel.World, leader uint64, instigator *kernel.PersonAttrs) float64 {
	leaderPrestige := 0.0
	if _, la := w.Person(leader); la != nil {
		leaderPrestige = la.Prestige
	}
	return kernel.Clamp01(coupSuccessBase + (instigator.Prestige-leaderPrestige)*coupSuccessPrestigeWeight)
}
