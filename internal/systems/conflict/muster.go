package conflict

import (
	"log/slog"
	"math"

	"github.com/dustin/go-humanize"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

// draftFraction is the share of a faction's able-bodied men (male
// young-adult and middle-age brackets) called up into a new army.
const draftFraction = 0.15

// minMusterStrength is the floor below which a faction's draft pool is
// too small to field an army at all.
const minMusterStrength = 20

// Muster raises an army for every faction currently at war that has no
// army campaigning yet. The draft is drawn proportionally from each
// settlement's able-bodied men; the new army starts at full morale with
// three months of supply, based in the largest settlement's region. Runs
// yearly.
func Muster(w *kernel.World) {
	for _, factionID := range w.LivingFactionIDs() {
		_, fa := w.Faction(factionID)
		if fa == nil || len(w.EnemyFactions(factionID)) == 0 {
			continue
		}
		if w.FindFactionArmy(factionID) != 0 {
			continue
		}
		settlements := w.FactionSettlements(factionID)
		if len(settlements) == 0 {
			continue
		}

		total := 0
		for _, id := range settlements {
			if _, sa := w.Settlement(id); sa != nil {
				total += sa.AbleBodiedMen()
			}
		}
		draft := int(math.Floor(float64(total) * draftFraction))
		if draft < minMusterStrength {
			continue
		}

		draws := make([]kernel.MusterDraw, 0, len(settlements))
		for _, id := range settlements {
			_, sa := w.Settlement(id)
			if sa == nil {
				continue
			}
			share := int(math.Round(float64(draft) * float64(sa.AbleBodiedMen()) / float64(total)))
			if share == 0 {
				continue
			}
			draws = append(draws, kernel.MusterDraw{Settlement: id, Count: share})
		}

		capital := largestSettlement(w, settlements)
		var home uint64
		if _, sa := w.Settlement(capital); sa != nil {
			home = sa.RegionID
		}
		slog.Debug("faction musters an army", "faction", factionID, "strength", humanize.Comma(int64(draft)))
		w.Queue.Push(kernel.Command{
			Intent: kernel.IntentMusterArmy{
				Faction: factionID, Strength: draft,
				HomeRegionID: home, Draws: draws,
			},
			EventKind:   kernel.EK.Muster,
			Description: "a faction musters an army for war",
			Participants: []kernel.ParticipantSpec{
				{Entity: factionID, Role: kernel.RoleObject},
			},
		})
	}
}

func largestSettlement(w *kernel.World, ids []uint64) uint64 {
	var best uint64
	bestPop := -1
	for _, id := range ids {
		if _, sa := w.Settlement(id); sa != nil && sa.Population > bestPop {
			best, bestPop = id, sa.Population
		}
	}
	return best
}
