package kernel

import "github.com/kaelhaven/chronicle/internal/clock"

// EventKind is the closed enum of things that can happen, plus a Custom
// escape: enumerated variants are preferred, and Custom remains for
// long tail / legacy cases.
type EventKind struct {
	builtin builtinEventKind
	custom  string
}

type builtinEventKind uint8

const (
	evtNone builtinEventKind = iota
	EvtWarDeclared
	EvtWarEnded
	EvtMuster
	EvtBattle
	EvtSiegeStarted
	EvtSiegeEnded
	EvtConquest
	EvtRetreat
	EvtArmyDisbanded
	EvtPeaceTreaty
	EvtDeath
	EvtBirth
	EvtSuccession
	EvtCoup
	EvtFactionSplit
	EvtFactionDissolved
	EvtMarriage
	EvtAllianceFormed
	EvtAllianceBetrayed
	EvtSettlementAbandoned
	EvtRefugeesArrived
	EvtBanditGangFormed
	EvtBanditRaid
	EvtTradeRouteRaided
	EvtTradeRouteEstablished
	EvtKnowledgeCreated
	EvtManifestationCreated
	EvtManifestationDestroyed
	EvtSecretRevealed
	EvtBuildingConstructed
	EvtReligionSchism
	EvtPlayerAction
	evtCustom
)

var eventKindNames = map[builtinEventKind]string{
	EvtWarDeclared:            "WarDeclared",
	EvtWarEnded:                "WarEnded",
	EvtMuster:                  "Muster",
	EvtBattle:                  "Battle",
	EvtSiegeStarted:            "SiegeStarted",
	EvtSiegeEnded:              "SiegeEnded",
	EvtConquest:                "Conquest",
	EvtRetreat:                 "Retreat",
	EvtArmyDisbanded:           "ArmyDisbanded",
	EvtPeaceTreaty:             "PeaceTreaty",
	EvtDeath:                   "Death",
	EvtBirth:                   "Birth",
	EvtSuccession:              "Succession",
	EvtCoup:                    "Coup",
	EvtFactionSplit:            "FactionSplit",
	EvtFactionDissolved:        "FactionDissolved",
	EvtMarriage:                "Marriage",
	EvtAllianceFormed:          "AllianceFormed",
	EvtAllianceBetrayed:        "AllianceBetrayed",
	EvtSettlementAbandoned:     "SettlementAbandoned",
	EvtRefugeesArrived:         "RefugeesArrived",
	EvtBanditGangFormed:        "BanditGangFormed",
	EvtBanditRaid:              "BanditRaid",
	EvtTradeRouteRaided:        "TradeRouteRaided",
	EvtTradeRouteEstablished:   "TradeRouteEstablished",
	EvtKnowledgeCreated:        "KnowledgeCreated",
	EvtManifestationCreated:    "ManifestationCreated",
	EvtManifestationDestroyed:  "ManifestationDestroyed",
	EvtSecretRevealed:          "SecretRevealed",
	EvtBuildingConstructed:     "BuildingConstructed",
	EvtReligionSchism:          "ReligionSchism",
	EvtPlayerAction:            "PlayerAction",
}

func builtinEvent(k builtinEventKind) EventKind { return EventKind{builtin: k} }

// CustomEvent builds the escape-hatch Custom(label) event kind.
func CustomEvent(label string) EventKind {
	return EventKind{builtin: evtCustom, custom: label}
}

// Equal reports whether two EventKind values denote the same kind,
// including matching Custom labels.
func (k EventKind) Equal(other EventKind) bool {
	return k.builtin == other.builtin && k.custom == other.custom
}

// ParseEventKind is String's inverse, used when reloading a persisted
// run.
func ParseEventKind(s string) (EventKind, bool) {
	for builtin, name := range eventKindNames {
		if name == s {
			return EventKind{builtin: builtin}, true
		}
	}
	if len(s) > len("Custom(") && s[:len("Custom(")] == "Custom(" && s[len(s)-1] == ')' {
		return CustomEvent(s[len("Custom(") : len(s)-1]), true
	}
	return EventKind{}, false
}

func (k EventKind) String() string {
	if k.builtin == evtCustom {
		return "Custom(" + k.custom + ")"
	}
	if name, ok := eventKindNames[k.builtin]; ok {
		return name
	}
	return "Unknown"
}

// EK is a convenience table so call sites can write kernel.EK.WarDeclared
// instead of kernel.EventKind{...} literals.
var EK = struct {
	WarDeclared, WarEnded, Muster, Battle, SiegeStarted, SiegeEnded,
	Conquest, Retreat, ArmyDisbanded, PeaceTreaty, Death, Birth,
	Succession, Coup, FactionSplit, FactionDissolved, Marriage,
	AllianceFormed, AllianceBetrayed, SettlementAbandoned,
	RefugeesArrived, BanditGangFormed, BanditRaid, TradeRouteRaided,
	TradeRouteEstablished, KnowledgeCreated, ManifestationCreated,
	ManifestationDestroyed, SecretRevealed, BuildingConstructed,
	ReligionSchism, PlayerAction EventKind
}{
	WarDeclared:             builtinEvent(EvtWarDeclared),
	WarEnded:                builtinEvent(EvtWarEnded),
	Muster:                  builtinEvent(EvtMuster),
	Battle:                  builtinEvent(EvtBattle),
	SiegeStarted:            builtinEvent(EvtSiegeStarted),
	SiegeEnded:              builtinEvent(EvtSiegeEnded),
	Conquest:                builtinEvent(EvtConquest),
	Retreat:                 builtinEvent(EvtRetreat),
	ArmyDisbanded:           builtinEvent(EvtArmyDisbanded),
	PeaceTreaty:             builtinEvent(EvtPeaceTreaty),
	Death:                   builtinEvent(EvtDeath),
	Birth:                   builtinEvent(EvtBirth),
	Succession:              builtinEvent(EvtSuccession),
	Coup:                    builtinEvent(EvtCoup),
	FactionSplit:            builtinEvent(EvtFactionSplit),
	FactionDissolved:        builtinEvent(EvtFactionDissolved),
	Marriage:                builtinEvent(EvtMarriage),
	AllianceFormed:          builtinEvent(EvtAllianceFormed),
	AllianceBetrayed:        builtinEvent(EvtAllianceBetrayed),
	SettlementAbandoned:     builtinEvent(EvtSettlementAbandoned),
	RefugeesArrived:         builtinEvent(EvtRefugeesArrived),
	BanditGangFormed:        builtinEvent(EvtBanditGangFormed),
	BanditRaid:              builtinEvent(EvtBanditRaid),
	TradeRouteRaided:        builtinEvent(EvtTradeRouteRaided),
	TradeRouteEstablished:   builtinEvent(EvtTradeRouteEstablished),
	KnowledgeCreated:        builtinEvent(EvtKnowledgeCreated),
	ManifestationCreated:    builtinEvent(EvtManifestationCreated),
	ManifestationDestroyed:  builtinEvent(EvtManifestationDestroyed),
	SecretRevealed:          builtinEvent(EvtSecretRevealed),
	BuildingConstructed:     builtinEvent(EvtBuildingConstructed),
	ReligionSchism:          builtinEvent(EvtReligionSchism),
	PlayerAction:            builtinEvent(EvtPlayerAction),
}

// Event is an append-only record of something that happened. Ids are monotone in creation order; causality is caused_by only
//).
type Event struct {
	ID          uint64
	Kind        EventKind
	Timestamp   clock.Timestamp
	Description string
	CausedBy    *uint64
	Payload     map[string]any // optional attached JSON-able payload
}

// ParticipantRole is the closed enum of roles an entity can play in an
// event.
type ParticipantRole uint8

const (
	RoleSubject ParticipantRole = iota
	RoleObject
	RoleAttacker
	RoleDefender
	RoleLocation
	RoleOrigin
	RoleDestination
	RoleInstigator
	RoleParentRole
	RoleWitness
)

// Participant links an entity to an event with a role.
type Participant struct {
	EventID  uint64
	EntityID uint64
	Role     ParticipantRole
}

// Change is a recorded field mutation, the audit trail for replay and the
// persistence dump.
type Change struct {
	EntityID uint64
	EventID  uint64
	Field    string
	OldValue any
	NewValue any
}

// Log is the append-only event/participant/change store.
type Log struct {
	nextID       uint64
	events       []*Event
	participants []Participant
	changes      []Change
}

// NewLog creates an empty event log.
func NewLog() *Log {
	return &Log{nextID: 1}
}

// Append records a new event and returns it. The caller is responsible for
// attaching participants and changes afterward.
func (l *Log) Append(kind EventKind, at clock.Timestamp, description string, causedBy *uint64, payload map[string]any) *Event {
	e := &Event{
		ID:          l.nextID,
		Kind:        kind,
		Timestamp:   at,
		Description: description,
		CausedBy:    causedBy,
		Payload:     payload,
	}
	l.nextID++
	l.events = append(l.events, e)
	return e
}

// AddParticipant attaches an entity/role pair to an event.
func (l *Log) AddParticipant(eventID, entityID uint64, role ParticipantRole) {
	l.participants = append(l.participants, Participant{EventID: eventID, EntityID: entityID, Role: role})
}

// RecordChange appends an audited field mutation.
func (l *Log) RecordChange(entityID, eventID uint64, field string, oldValue, newValue any) {
	l.changes = append(l.changes, Change{EntityID: entityID, EventID: eventID, Field: field, OldValue: oldValue, NewValue: newValue})
}

// Events returns every event in creation order.
func (l *Log) Events() []*Event { return l.events }

// Participants returns every participant record in creation order.
func (l *Log) Participants() []Participant { return l.participants }

// Changes returns every change record in creation order.
func (l *Log) Changes() []Change { return l.changes }

// Get returns the event with the given id, or nil.
func (l *Log) Get(id uint64) *Event {
	for _, e := range l.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}
