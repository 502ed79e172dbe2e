package politics

import "github.com/kaelhaven/chronicle/internal/kernel"

// grievanceBaseDecay is the yearly erosion of a grievance; persons decay
// at a trait-modulated multiple of the same base.
const grievanceBaseDecay = 0.03

// DecayGrievances erodes every faction's and every living person's
// grievance ledger by one year. Runs yearly; mutates directly for the
// same reason DecayClaims does — a fading grudge is bookkeeping, not an
// event.
func DecayGrievances(w *kernel.World) {
	for _, factionID := range w.LivingFactionIDs() {
		if _, fa := w.Faction(factionID); fa != nil {
			kernel.DecayFactionGrievances(fa, grievanceBaseDecay)
		}
	}
	w.Store.OfKind(kernel.KindPerson, func(e *kernel.Entity) bool {
		kernel.DecayPersonGrievances(e.Attrs.(*kernel.PersonAttrs), grievanceBaseDecay)
		return true
	})
}
