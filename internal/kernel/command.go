package kernel

// Intent is the closed sum type of command intents.
// Systems never mutate the world directly; they build a Command carrying
// one of these and push it onto the Queue. The Applicator is the only
// thing that ever turns an Intent into entity/graph mutations.
type Intent interface {
	intentKind() string
}

// --- generic lifecycle intents -----------------------------------------

type IntentEndEntity struct{ Entity uint64 }

func (IntentEndEntity) intentKind() string { return "EndEntity" }

type IntentPersonBorn struct {
	Name         string
	Age          uint16
	FactionID    uint64
	SettlementID uint64
	ParentIDs    []uint64
}

func (IntentPersonBorn) intentKind() string { return "PersonBorn" }

type IntentPersonDied struct{ Person uint64 }

func (IntentPersonDied) intentKind() string { return "PersonDied" }

type IntentMarriage struct{ A, B uint64 }

func (IntentMarriage) intentKind() string { return "Marriage" }

type IntentFormAlliance struct{ A, B uint64 }

func (IntentFormAlliance) intentKind() string { return "FormAlliance" }

type IntentConquest struct {
	Settlement, AttackerFaction, DefenderFaction uint64
}

func (IntentConquest) intentKind() string { return "Conquest" }

type IntentCreateKnowledge struct {
	Domain     string
	Originator uint64
}

func (IntentCreateKnowledge) intentKind() string { return "CreateKnowledge" }

type IntentCreateManifestation struct {
	Religion uint64
	Kind     string
}

func (IntentCreateManifestation) intentKind() string { return "CreateManifestation" }

type IntentDestroyManifestation struct{ Manifestation uint64 }

func (IntentDestroyManifestation) intentKind() string { return "DestroyManifestation" }

type IntentRevealSecret struct{ Entity uint64 }

func (IntentRevealSecret) intentKind() string { return "RevealSecret" }

type IntentFormBanditGang struct {
	Settlement uint64
}

func (IntentFormBanditGang) intentKind() string { return "FormBanditGang" }

type IntentBanditRaid struct{ Gang, Target uint64 }

func (IntentBanditRaid) intentKind() string { return "BanditRaid" }

type IntentRaidTradeRoute struct{ Source, Target uint64 }

func (IntentRaidTradeRoute) intentKind() string { return "RaidTradeRoute" }

type IntentDisbandBanditGang struct{ Faction uint64 }

func (IntentDisbandBanditGang) intentKind() string { return "DisbandBanditGang" }

// --- conflict-subsystem intents -----------------------

type IntentDeclareWar struct {
	Attacker, Defender uint64
	Record             WarRecord // goal data keyed off the defender at peace time
	TreatyBroken      bool
	AlliesTurnedEnemy []uint64 // defender allies that turn on the attacker
}

func (IntentDeclareWar) intentKind() string { return "DeclareWar" }

type IntentBreakTreaty struct {
	Betrayer, Victim  uint64
	AlliesTurnedEnemy []uint64
}

func (IntentBreakTreaty) intentKind() string { return "BreakTreaty" }

// MusterDraw is one settlement's share of a draft.
type MusterDraw struct {
	Settlement uint64
	Count      int
}

type IntentMusterArmy struct {
	Faction      uint64
	Strength     int
	HomeRegionID uint64
	Draws        []MusterDraw
}

func (IntentMusterArmy) intentKind() string { return "MusterArmy" }

type IntentArmyAttrition struct {
	Army      uint64
	Loss      int // disease + starvation losses already rolled
	NewSupply float64
	NewMorale float64
}

func (IntentArmyAttrition) intentKind() string { return "ArmyAttrition" }

type IntentMoveArmy struct {
	Army                 uint64
	FromRegion, ToRegion uint64
}

func (IntentMoveArmy) intentKind() string { return "MoveArmy" }

type IntentBattle struct {
	Winner, Loser               uint64 // army ids
	WinnerFaction, LoserFaction uint64
	Region                      uint64
	WinnerCasualties            int
	LoserCasualties             int
	NotableDeaths               []uint64 // persons killed, loser faction first
}

func (IntentBattle) intentKind() string { return "Battle" }

type IntentRetreat struct {
	Army     uint64
	ToRegion uint64
}

func (IntentRetreat) intentKind() string { return "Retreat" }

type IntentStartSiege struct {
	Settlement, AttackerArmy uint64
}

func (IntentStartSiege) intentKind() string { return "StartSiege" }

type IntentSiegeProgress struct {
	Settlement         uint64
	PopulationLoss     int
	AttackerCasualties int // cost of a failed assault
}

func (IntentSiegeProgress) intentKind() string { return "SiegeProgress" }

type IntentEndSiege struct {
	Settlement uint64
	Outcome    string // "Captured", "Lifted", "Surrendered", "Abandoned"
	NewFaction *uint64
}

func (IntentEndSiege) intentKind() string { return "EndSiege" }

type IntentPeaceTreaty struct {
	Winner, Loser     uint64
	Decisive          bool
	Goal              WarGoal
	TerritoryTransfer []uint64 // settlement ids, loser -> winner
	Reparations       float64
	TributePerYear    float64
	TributeYears      int
	// SuccessionClaim resolution: install the claimant on ClaimTarget, or
	// erode the claim when the war failed to seat them.
	ClaimTarget     uint64
	InstallClaimant *uint64
	ReduceClaim     *uint64
}

func (IntentPeaceTreaty) intentKind() string { return "PeaceTreaty" }

// --- politics-subsystem intents -----------------------

type IntentInstallLeader struct {
	Faction, Person uint64
	PrevLeader      uint64 // 0 when no previous leader is known
}

func (IntentInstallLeader) intentKind() string { return "InstallLeader" }

// IntentAdjustSentiment applies signed deltas, used by reaction handlers.
type IntentAdjustSentiment struct {
	Faction                                         uint64
	StabilityDelta, HappinessDelta, LegitimacyDelta float64
}

func (IntentAdjustSentiment) intentKind() string { return "AdjustSentiment" }

// IntentSetSentiment writes the yearly drift's computed values, already
// clamped and noised by the sentiment system.
type IntentSetSentiment struct {
	Faction                           uint64
	Stability, Happiness, Legitimacy float64
}

func (IntentSetSentiment) intentKind() string { return "SetSentiment" }

type IntentAddGrievance struct {
	From, Against uint64 // faction ids; Against is who the grievance is held against
	Amount        float64 // negative amounts reduce ("satisfaction")
}

func (IntentAddGrievance) intentKind() string { return "AddGrievance" }

type IntentCoupAttempt struct {
	Faction, Instigator uint64
	Success             bool
}

func (IntentCoupAttempt) intentKind() string { return "CoupAttempt" }

type IntentFactionSplit struct {
	Settlement, ParentFaction uint64
	GovernmentType            GovernmentType
	BecomeEnemy               bool
}

func (IntentFactionSplit) intentKind() string { return "FactionSplit" }

type IntentDissolveFaction struct{ Faction uint64 }

func (IntentDissolveFaction) intentKind() string { return "DissolveFaction" }

type IntentDiplomaticShift struct {
	A, B     uint64
	Kind     RelKind // target relationship kind (Ally, Enemy); ignored when Neutral
	Neutral  bool    // close both Ally and Enemy, open nothing
	Betrayal bool    // the shift breaks an active alliance
}

func (IntentDiplomaticShift) intentKind() string { return "DiplomaticShift" }

// --- demographics / culture / religion / crime intents --------------------

type IntentAbandonSettlement struct{ Settlement uint64 }

func (IntentAbandonSettlement) intentKind() string { return "AbandonSettlement" }

type IntentRefugeeFlow struct {
	Source, Destination uint64
	Count               int
	Culture             uint64
}

func (IntentRefugeeFlow) intentKind() string { return "RefugeeFlow" }

type IntentConstructBuilding struct {
	Settlement uint64
	Building   string
}

func (IntentConstructBuilding) intentKind() string { return "ConstructBuilding" }

type IntentReligionSchism struct {
	Religion uint64
	Label    string
}

func (IntentReligionSchism) intentKind() string { return "ReligionSchism" }

type IntentCulturalRebellion struct{ Settlement uint64 }

func (IntentCulturalRebellion) intentKind() string { return "CulturalRebellion" }

// --- Command envelope and queue -------------------------------------------

// ParticipantSpec attaches an entity/role pair to the event the applicator
// creates for a command.
type ParticipantSpec struct {
	Entity uint64
	Role   ParticipantRole
}

// Command bundles an intent, the canonical event kind it produces, a
// human-readable description, and the participants to attach (spec
// Section 4.6).
type Command struct {
	Intent       Intent
	EventKind    EventKind
	Description  string
	Participants []ParticipantSpec
	CausedBy     *uint64
}

// Queue is the FIFO buffer of commands awaiting the Apply phase (spec
// Section 4.6, Section 4.7).
type Queue struct {
	items []Command
}

// NewQueue creates an empty command queue.
func NewQueue() *Queue { return &Queue{} }

// Push enqueues a command.
func (q *Queue) Push(c Command) { q.items = append(q.items, c) }

// Drain removes and returns every queued command, in FIFO order.
func (q *Queue) Drain() []Command {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Pending returns the queued commands without removing them, in FIFO
// order. Used by systems that must not double-enqueue an action another
// system already staged this tick.
func (q *Queue) Pending() []Command { return q.items }

// Len reports how many commands are currently queued.
func (q *Queue) Len() int { return len(q.items) }
