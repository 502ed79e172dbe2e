// Package culture implements the shape-level culture subsystem:
// cultural tension drift, minority culture decay, and cultural
// rebellions. Refugee-driven culture share shifts are applied by the
// kernel when a refugee flow lands, not here.
package culture

import "github.com/kaelhaven/chronicle/internal/kernel"

const (
	minorityDecayRate = 0.03
	tensionDriftRate  = 0.1
	rebellionTension  = 0.6
)

// Drift nudges every settlement's cultural tension toward a level set
// by how fragmented its culture makeup is, and decays every minority
// (non-dominant) culture share, dropping shares that fall below 0.005.
// Runs yearly.
func Drift(w *kernel.World) {
	for _, settlementID := range w.LivingSettlementIDs() {
		_, sa := w.Settlement(settlementID)
		if sa == nil {
			continue
		}
		decayMinorityCultures(sa)
		target := fragmentation(sa.CultureMakeup)
		sa.CulturalTension = kernel.Clamp01(sa.CulturalTension + (target-sa.CulturalTension)*tensionDriftRate)
	}
}

// fragmentation is 1 minus the dominant culture's share: a settlement
// with one culture at 100% has zero tension pressure, one split evenly
// across many has high pressure.
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

func decayMinorityCultures(sa *kernel.SettlementAttrs) {
	if len(sa.CultureMakeup) == 0 {
		return
	}
	for id, share := range sa.CultureMakeup {
		if id == sa.DominantCulture {
			continue
		}
		share -= share * minorityDecayRate
		if share < 0.005 {
			delete(sa.CultureMakeup, id)
			continue
		}
		sa.CultureMakeup[id] = share
	}
}

// Rebellion emits a cultural rebellion signal for any settlement whose
// tension has crossed the breaking point, then relieves the pressure
// the rebellion itself represents. Runs yearly.
func Rebellion(w *kernel.World) {
	for _, settlementID := range w.LivingSettlementIDs() {
		_, sa := w.Settlement(settlementID)
		if sa == nil || sa.CulturalTension < rebellionTension {
			continue
		}
		if !w.RNG.Bool(0.2) {
			continue
		}
		w.Queue.Push(kernel.Command{
			Intent:      kernel.IntentCulturalRebellion{Settlement: settlementID},
			EventKind:   kernel.CustomEvent("cultural_rebellion"),
			Description: "a minority culture rises up against its neighbors",
			Participants: []kernel.ParticipantSpec{
				{Entity: settlementID, Role: kernel.RoleLocation},
			},
		})
	}
}
