package politics

import (
	"testing"

	"github.com/kaelhaven/chronicle/internal/kernel"
)

func TestDecayGrievancesErodesFactionAndPersonLedgers(t *testing.T) {
	w := newTestWorld()
	f := insertFaction(w, kernel.GovHereditary)
	_, fa := w.Faction(f)
	fa.Grievances[99] = 0.5
	p := insertPerson(w, f, kernel.PersonAttrs{})
	_, pa := w.Person(p)
	pa.Grievances[99] = 0.5

	DecayGrievances(w)

	if fa.Grievances[99] >= 0.5 {
		t.Errorf("expected faction grievance to decay below 0.5, got %f", fa.Grievances[99])
	}
	if pa.Grievances[99] >= 0.5 {
		t.Errorf("expected person grievance to decay below 0.5, got %f", pa.Grievances[99])
	}
}
