package kernel

// SignalPayload is the closed sum type of intra-tick signal variants (spec
// Section 4.5). Each variant below implements it with a marker method so
// reaction handlers can type-switch without reflection.
type SignalPayload interface {
	signalKind() string
}

type sigWarStarted struct{ Attacker, Defender uint64 }
type sigWarEnded struct {
	Winner, Loser uint64
	Decisive      bool
}
type sigSettlementCaptured struct {
	Settlement, OldFaction, NewFaction uint64
}
type sigLeaderVacancy struct{ Faction, PrevLeader uint64 }
type sigEntityDied struct {
	Entity      uint64
	WasLeaderOf *uint64
}
type sigPlagueStarted struct{ Settlement uint64 }
type sigDisasterStruck struct {
	Settlement uint64
	Severity   float64
}
type sigRefugeesArrived struct {
	Source, Destination uint64
	Count               int
	Culture             uint64
}
type sigCulturalRebellion struct{ Settlement uint64 }
type sigSiegeStarted struct{ Settlement, AttackerArmy uint64 }
type sigSiegeEnded struct {
	Settlement uint64
	Outcome    string // "Captured", "Lifted", "Surrendered", "Abandoned"
}
type sigBanditGangFormed struct{ Faction, Settlement uint64 }
type sigBanditRaid struct{ Gang, Target uint64 }
type sigTradeRouteRaided struct{ Source, Target uint64 }
type sigTradeRouteEstablished struct{ Source, Target uint64 }
type sigAllianceBetrayed struct{ Betrayer, Victim uint64 }
type sigSecretRevealed struct{ Entity uint64 }
type sigSuccessionCrisis struct{ Faction uint64 }
type sigFactionSplit struct{ Parent, Child uint64 }
type sigReligiousShift struct{ Settlement, Religion uint64 }
type sigProphecyDeclared struct{ Religion, Person uint64 }
type sigBuildingConstructed struct {
	Settlement uint64
	Building   string
}
type sigReligionSchism struct{ Religion, NewReligion uint64 }
type sigKnowledgeCreated struct{ Knowledge, Originator uint64 }
type sigManifestationCreated struct{ Manifestation, Religion uint64 }

func (sigWarStarted) signalKind() string             { return "WarStarted" }
func (sigWarEnded) signalKind() string                { return "WarEnded" }
func (sigSettlementCaptured) signalKind() string      { return "SettlementCaptured" }
func (sigLeaderVacancy) signalKind() string           { return "LeaderVacancy" }
func (sigEntityDied) signalKind() string              { return "EntityDied" }
func (sigPlagueStarted) signalKind() string           { return "PlagueStarted" }
func (sigDisasterStruck) signalKind() string          { return "DisasterStruck" }
func (sigRefugeesArrived) signalKind() string         { return "RefugeesArrived" }
func (sigCulturalRebellion) signalKind() string       { return "CulturalRebellion" }
func (sigSiegeStarted) signalKind() string            { return "SiegeStarted" }
func (sigSiegeEnded) signalKind() string               { return "SiegeEnded" }
func (sigBanditGangFormed) signalKind() string        { return "BanditGangFormed" }
func (sigBanditRaid) signalKind() string              { return "BanditRaid" }
func (sigTradeRouteRaided) signalKind() string        { return "TradeRouteRaided" }
func (sigTradeRouteEstablished) signalKind() string   { return "TradeRouteEstablished" }
func (sigAllianceBetrayed) signalKind() string        { return "AllianceBetrayed" }
func (sigSecretRevealed) signalKind() string          { return "SecretRevealed" }
func (sigSuccessionCrisis) signalKind() string        { return "SuccessionCrisis" }
func (sigFactionSplit) signalKind() string            { return "FactionSplit" }
func (sigReligiousShift) signalKind() string          { return "ReligiousShift" }
func (sigProphecyDeclared) signalKind() string        { return "ProphecyDeclared" }
func (sigBuildingConstructed) signalKind() string     { return "BuildingConstructed" }
func (sigReligionSchism) signalKind() string          { return "ReligionSchism" }
func (sigKnowledgeCreated) signalKind() string         { return "KnowledgeCreated" }
func (sigManifestationCreated) signalKind() string    { return "ManifestationCreated" }

// Signal is a typed message with a causal event id and a variant payload
//. Not persisted — the bus is drained at tick end.
type Signal struct {
	EventID uint64
	Payload SignalPayload
}

// Constructors — one per signal variant, keeping call sites readable
// (kernel.NewWarStarted(eventID, a, b) instead of struct literals).

func NewWarStarted(eventID, attacker, defender uint64) Signal {
	return Signal{EventID: eventID, Payload: sigWarStarted{Attacker: attacker, Defender: defender}}
}
func NewWarEnded(eventID, winner, loser uint64, decisive bool) Signal {
	return Signal{EventID: eventID, Payload: sigWarEnded{Winner: winner, Loser: loser, Decisive: decisive}}
}
func NewSettlementCaptured(eventID, settlement, oldFaction, newFaction uint64) Signal {
	return Signal{EventID: eventID, Payload: sigSettlementCaptured{Settlement: settlement, OldFaction: oldFaction, NewFaction: newFaction}}
}
func NewLeaderVacancy(eventID, faction, prevLeader uint64) Signal {
	return Signal{EventID: eventID, Payload: sigLeaderVacancy{Faction: faction, PrevLeader: prevLeader}}
}
func NewEntityDied(eventID, entity uint64, wasLeaderOf *uint64) Signal {
	return Signal{EventID: eventID, Payload: sigEntityDied{Entity: entity, WasLeaderOf: wasLeaderOf}}
}
func NewPlagueStarted(eventID, settlement uint64) Signal {
	return Signal{EventID: eventID, Payload: sigPlagueStarted{Settlement: settlement}}
}
func NewDisasterStruck(eventID, settlement uint64, severity float64) Signal {
	return Signal{EventID: eventID, Payload: sigDisasterStruck{Settlement: settlement, Severity: severity}}
}
func NewRefugeesArrived(eventID, source, destination uint64, count int, culture uint64) Signal {
	return Signal{EventID: eventID, Payload: sigRefugeesArrived{Source: source, Destination: destination, Count: count, Culture: culture}}
}
func NewCulturalRebellion(eventID, settlement uint64) Signal {
	return Signal{EventID: eventID, Payload: sigCulturalRebellion{Settlement: settlement}}
}
func NewSiegeStarted(eventID, settlement, attackerArmy uint64) Signal {
	return Signal{EventID: eventID, Payload: sigSiegeStarted{Settlement: settlement, AttackerArmy: attackerArmy}}
}
func NewSiegeEnded(eventID, settlement uint64, outcome string) Signal {
	return Signal{EventID: eventID, Payload: sigSiegeEnded{Settlement: settlement, Outcome: outcome}}
}
func NewBanditGangFormed(eventID, faction, settlement uint64) Signal {
	return Signal{EventID: eventID, Payload: sigBanditGangFormed{Faction: faction, Settlement: settlement}}
}
func NewBanditRaid(eventID, gang, target uint64) Signal {
	return Signal{EventID: eventID, Payload: sigBanditRaid{Gang: gang, Target: target}}
}
func NewTradeRouteRaided(eventID, source, target uint64) Signal {
	return Signal{EventID: eventID, Payload: sigTradeRouteRaided{Source: source, Target: target}}
}
func NewTradeRouteEstablished(eventID, source, target uint64) Signal {
	return Signal{EventID: eventID, Payload: sigTradeRouteEstablished{Source: source, Target: target}}
}
func NewAllianceBetrayed(eventID, betrayer, victim uint64) Signal {
	return Signal{EventID: eventID, Payload: sigAllianceBetrayed{Betrayer: betrayer, Victim: victim}}
}
func NewSecretRevealed(eventID, entity uint64) Signal {
	return Signal{EventID: eventID, Payload: sigSecretRevealed{Entity: entity}}
}
func NewSuccessionCrisis(eventID, faction uint64) Signal {
	return Signal{EventID: eventID, Payload: sigSuccessionCrisis{Faction: faction}}
}
func NewFactionSplit(eventID, parent, child uint64) Signal {
	return Signal{EventID: eventID, Payload: sigFactionSplit{Parent: parent, Child: child}}
}
func NewReligiousShift(eventID, settlement, religion uint64) Signal {
	return Signal{EventID: eventID, Payload: sigReligiousShift{Settlement: settlement, Religion: religion}}
}
func NewProphecyDeclared(eventID, religion, person uint64) Signal {
	return Signal{EventID: eventID, Payload: sigProphecyDeclared{Religion: religion, Person: person}}
}
func NewBuildingConstructed(eventID, settlement uint64, building string) Signal {
	return Signal{EventID: eventID, Payload: sigBuildingConstructed{Settlement: settlement, Building: building}}
}
func NewReligionSchism(eventID, religion, newReligion uint64) Signal {
	return Signal{EventID: eventID, Payload: sigReligionSchism{Religion: religion, NewReligion: newReligion}}
}
func NewKnowledgeCreated(eventID, knowledge, originator uint64) Signal {
	return Signal{EventID: eventID, Payload: sigKnowledgeCreated{Knowledge: knowledge, Originator: originator}}
}
func NewManifestationCreated(eventID, manifestation, religion uint64) Signal {
	return Signal{EventID: eventID, Payload: sigManifestationCreated{Manifestation: manifestation, Religion: religion}}
}

// Accessors used by reaction handlers that need the payload fields without
// a type switch at every call site.

func AsWarStarted(s Signal) (attacker, defender uint64, ok bool) {
	p, ok := s.Payload.(sigWarStarted)
	return p.Attacker, p.Defender, ok
}
func AsWarEnded(s Signal) (winner, loser uint64, decisive bool, ok bool) {
	p, ok := s.Payload.(sigWarEnded)
	return p.Winner, p.Loser, p.Decisive, ok
}
func AsSettlementCaptured(s Signal) (settlement, oldFaction, newFaction uint64, ok bool) {
	p, ok := s.Payload.(sigSettlementCaptured)
	return p.Settlement, p.OldFaction, p.NewFaction, ok
}
func AsLeaderVacancy(s Signal) (faction, prevLeader uint64, ok bool) {
	p, ok := s.Payload.(sigLeaderVacancy)
	return p.Faction, p.PrevLeader, ok
}
func AsEntityDied(s Signal) (entity uint64, wasLeaderOf *uint64, ok bool) {
	p, ok := s.Payload.(sigEntityDied)
	return p.Entity, p.WasLeaderOf, ok
}
func AsRefugeesArrived(s Signal) (source, destination uint64, count int, culture uint64, ok bool) {
	p, ok := s.Payload.(sigRefugeesArrived)
	return p.Source, p.Destination, p.Count, p.Culture, ok
}
func AsBuildingConstructed(s Signal) (settlement uint64, building string, ok bool) {
	p, ok := s.Payload.(sigBuildingConstructed)
	return p.Settlement, p.Building, ok
}
func AsPlagueStarted(s Signal) (settlement uint64, ok bool) {
	p, ok := s.Payload.(sigPlagueStarted)
	return p.Settlement, ok
}
func AsDisasterStruck(s Signal) (settlement uint64, severity float64, ok bool) {
	p, ok := s.Payload.(sigDisasterStruck)
	return p.Settlement, p.Severity, ok
}
func AsCulturalRebellion(s Signal) (settlement uint64, ok bool) {
	p, ok := s.Payload.(sigCulturalRebellion)
	return p.Settlement, ok
}
func AsSiegeStarted(s Signal) (settlement, attackerArmy uint64, ok bool) {
	p, ok := s.Payload.(sigSiegeStarted)
	return p.Settlement, p.AttackerArmy, ok
}
func AsSiegeEnded(s Signal) (settlement uint64, outcome string, ok bool) {
	p, ok := s.Payload.(sigSiegeEnded)
	return p.Settlement, p.Outcome, ok
}
func AsBanditGangFormed(s Signal) (faction, settlement uint64, ok bool) {
	p, ok := s.Payload.(sigBanditGangFormed)
	return p.Faction, p.Settlement, ok
}
func AsBanditRaid(s Signal) (gang, target uint64, ok bool) {
	p, ok := s.Payload.(sigBanditRaid)
	return p.Gang, p.Target, ok
}
func AsTradeRouteRaided(s Signal) (source, target uint64, ok bool) {
	p, ok := s.Payload.(sigTradeRouteRaided)
	return p.Source, p.Target, ok
}
func AsAllianceBetrayed(s Signal) (betrayer, victim uint64, ok bool) {
	p, ok := s.Payload.(sigAllianceBetrayed)
	return p.Betrayer, p.Victim, ok
}

// SignalKindOf returns the variant's name, e.g. for logging.
func SignalKindOf(s Signal) string { return s.Payload.signalKind() }
