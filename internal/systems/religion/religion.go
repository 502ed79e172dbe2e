// Package religion implements the shape-level religion subsystem:
// religious tension drift and a tension-driven schism rule.
package religion

import "github.com/kaelhaven/chronicle/internal/kernel"

const (
	tensionDriftRate       = 0.1
	schismTensionThreshold = 0.3
	schismBaseChance       = 0.01

	templeProsperityFloor = 0.6
	templeBuildChance     = 0.05
)

// Drift nudges every settlement's religious tension toward a level set
// by how fragmented its religion makeup is. Runs yearly.
func Drift(w *kernel.World) {
	for _, settlementID := range w.LivingSettlementIDs() {
		_, sa := w.Settlement(settlementID)
		if sa == nil {
			continue
		}
		target := fragmentation(sa.ReligionMakeup)
		sa.ReligiousTension = kernel.Clamp01(sa.ReligiousTension + (target-sa.ReligiousTension)*tensionDriftRate)
	}
}

func fragmentation(makeup map[uint64]float64) float64 {
	if len(makeup) == 0 {
		return 0
	}
	max := 0.0
	for _, share := range makeup {
		if share > max {
			max = share
		}
	}
	return 1 - max
}

// BuildTemples has prosperous, pious settlements raise a temple now and
// then. The construction signal lets politics bump the dominant faith's
// share in response. Runs yearly.
func BuildTemples(w *kernel.World) {
	for _, settlementID := range w.LivingSettlementIDs() {
		_, sa := w.Settlement(settlementID)
		if sa == nil || sa.Prosperity < templeProsperityFloor || len(sa.ReligionMakeup) == 0 {
			continue
		}
		if sa.BuildingBonuses["Temple"] > 0 {
			continue // one temple is enough
		}
		if !w.RNG.Bool(templeBuildChance) {
			continue
		}
		w.Queue.Push(kernel.Command{
			Intent:      kernel.IntentConstructBuilding{Settlement: settlementID, Building: "Temple"},
			EventKind:   kernel.EK.BuildingConstructed,
			Description: "a prospering settlement raises a temple",
			Participants: []kernel.ParticipantSpec{
				{Entity: settlementID, Role: kernel.RoleLocation},
			},
		})
	}
}

// Schism considers only the first living religion in id order: once the
// highest religious tension of any living settlement has crossed the
// threshold, it rolls for a breakaway sect from that religion, with
// higher fervor lowering the chance. Runs yearly.
func Schism(w *kernel.World) {
	var candidateReligion uint64
	var candidateFervor float64
	w.Store.OfKind(kernel.KindReligion, func(e *kernel.Entity) bool {
		candidateReligion, candidateFervor = e.ID, e.Attrs.(*kernel.ReligionAttrs).Fervor
		return false
	})
	if candidateReligion == 0 {
		return
	}
	maxTension := 0.0
	for _, settlementID := range w.LivingSettlementIDs() {
		if _, sa := w.Settlement(settlementID); sa != nil && sa.ReligiousTension > maxTension {
			maxTension = sa.ReligiousTension
		}
	}
	if maxTension < schismTensionThreshold {
		return
	}
	chance := schismBaseChance * (1 - candidateFervor*0.4)
	if !w.RNG.Bool(chance) {
		return
	}
	w.Queue.Push(kernel.Command{
		Intent:      kernel.IntentReligionSchism{Religion: candidateReligion, Label: "Reformed Sect"},
		EventKind:   kernel.CustomEvent("religion_schism"),
		Description: "a breakaway sect splits from the established faith",
		Participants: []kernel.ParticipantSpec{
			{Entity: candidateReligion, Role: kernel.RoleOrigin},
		},
	})
}
