package politics

import "github.com/kaelhaven/chronicle/internal/kernel"

// claimDecayRate is how much claim strength erodes per year without a
// supporting event to refresh it.
const claimDecayRate = 0.05

// DecayClaims erodes every living person's succession claims by one
// year's worth of decay. Runs yearly. Mutates directly, same as
// kernel.DecayClaims itself: a claim fading is bookkeeping, not an
// event worth logging.
func DecayClaims(w *kernel.World) {
	w.Store.OfKind(kernel.KindPerson, func(e *kernel.Entity) bool {
		kernel.DecayClaims(e.Attrs.(*kernel.PersonAttrs), claimDecayRate)
		return true
	})
}
