package kernel

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Sentiments (stability, happiness, legitimacy, prestige, tensions, trust,
// morale, ...) live in [0.0, 1.0] across every variant below. Clamp01 is
// the single place that enforces it.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// --- Person -----------------------------------------------------------

// PersonRole is a person's occupation, distinct from personality traits.
// Succession rules key off it: Warriors lead Chieftain clans, Priests lead
// Theocracies, Elders and Scholars carry extra weight in Elective votes.
type PersonRole uint8

const (
	PersonCommon PersonRole = iota
	PersonWarrior
	PersonPriest
	PersonScholar
	PersonElder
)

// Trait is a closed set of personality markers used by succession,
// war-declaration, coup, and grievance-decay rules.
type Trait uint8

const (
	TraitPious Trait = iota
	TraitCharismatic
	TraitRuthless
	TraitAggressive
	TraitContent
	TraitHonorable
	TraitCautious
)

// Claim is a person's entitlement to lead a particular faction (glossary:
// Claim). Strength decays yearly in the politics subsystem.
type Claim struct {
	FactionID     uint64
	Strength      float64
	Source        string // "bloodline", "marriage", "conquest", ...
	EstablishedYr uint32
}

// PersonAttrs is the Person variant.
type PersonAttrs struct {
	Age      uint16
	Role     PersonRole
	Traits   map[Trait]bool
	Prestige float64

	// Claims is keyed by faction id so iteration order is deterministic
	// when callers range over sorted keys).
	Claims map[uint64]Claim

	// Grievances is keyed by the faction this person resents.
	Grievances map[uint64]float64
}

func (PersonAttrs) Kind() EntityKind { return KindPerson }

// HasTrait reports whether the person carries the given trait.
func (p *PersonAttrs) HasTrait(t Trait) bool {
	return p.Traits != nil && p.Traits[t]
}

// --- Settlement ---------------------------------------------------------

// Terrain is the closed set of terrain kinds used by supply/attrition,
// movement, and siege math.
type Terrain uint8

const (
	TerrainPlains Terrain = iota
	TerrainForest
	TerrainHills
	TerrainMountains
	TerrainDesert
	TerrainSwamp
	TerrainTundra
	TerrainJungle
	TerrainCoast
	TerrainOther
)

// PopulationBracket indexes age/sex brackets used for mustering (spec
// Section 4.8.2): 0 = child, 1 = young-adult female, 2 = young-adult male,
// 3 = middle-age male, 4 = elder.
type PopulationBracket int

const (
	BracketChild PopulationBracket = iota
	BracketYoungAdultFemale
	BracketYoungAdultMale
	BracketMiddleAgeMale
	BracketElder
	numBrackets
)

// ActiveSiege tracks an ongoing siege against a settlement (spec 4.8.7).
type ActiveSiege struct {
	AttackerArmyID uint64
	AttackerFaction uint64
	Months          int
}

// SettlementAttrs is the Settlement variant.
type SettlementAttrs struct {
	X, Y              int
	RegionID          uint64
	Terrain           Terrain
	Population        int
	PopulationBreakdown [numBrackets]int
	Prosperity        float64
	Treasury          float64
	Capacity          int
	Resources         map[string]float64
	Prestige          float64
	CulturalTension   float64
	ReligiousTension  float64
	DominantCulture   uint64
	CultureMakeup     map[uint64]float64 // culture entity id -> share [0,1]
	ReligionMakeup    map[uint64]float64
	ActiveSiege       *ActiveSiege
	ActiveDisease     *uint64
	CrimeRate         float64
	GuardStrength     float64
	FortificationLevel int
	TradeRoutes         []uint64 // target settlement ids
	TradeHappinessBonus float64
	SeasonalModifiers   map[string]float64
	BuildingBonuses     map[string]float64
	FactionID           uint64
}

func (SettlementAttrs) Kind() EntityKind { return KindSettlement }

// AbleBodiedMen returns the count eligible for mustering: young-adult and
// middle-age males.
func (s *SettlementAttrs) AbleBodiedMen() int {
	return s.PopulationBreakdown[BracketYoungAdultMale] + s.PopulationBreakdown[BracketMiddleAgeMale]
}

// SeasonArmyModifier reads the environment system's seasonal army
// modifier, defaulting to 1.0 when none is set.
func (s *SettlementAttrs) SeasonArmyModifier() float64 {
	if v, ok := s.SeasonalModifiers["army"]; ok && v > 0 {
		return v
	}
	return 1.0
}

// BuildingHappiness sums the happiness contribution of every building
// bonus, iterating keys in sorted order.
func (s *SettlementAttrs) BuildingHappiness() float64 {
	if len(s.BuildingBonuses) == 0 {
		return 0
	}
	keys := maps.Keys(s.BuildingBonuses)
	slices.Sort(keys)
	total := 0.0
	for _, k := range keys {
		total += s.BuildingBonuses[k]
	}
	return total
}

// --- Faction --------------------------------------------------------------

// GovernmentType selects the succession rule.
type GovernmentType uint8

const (
	GovHereditary GovernmentType = iota
	GovElective
	GovChieftain
	GovBanditClan
	GovTheocracy
)

// WarGoal is the attacker's declared objective for a war (spec 4.8.1).
type WarGoal uint8

const (
	WarGoalTerritorial WarGoal = iota
	WarGoalEconomic
	WarGoalPunitive
	WarGoalSuccessionClaim
)

func (g WarGoal) String() string {
	switch g {
	case WarGoalTerritorial:
		return "Territorial"
	case WarGoalEconomic:
		return "Economic"
	case WarGoalPunitive:
		return "Punitive"
	case WarGoalSuccessionClaim:
		return "SuccessionClaim"
	default:
		return "Unknown"
	}
}

// Tribute is an annual transfer owed after a war (glossary: Tribute).
type Tribute struct {
	ToFaction    uint64
	AmountPerYr  float64
	YearsLeft    int
}

// WarRecord tracks an in-progress war's bookkeeping that does not belong on
// the AtWar relationship itself: when it started, what the attacker wants
// out of it, and the data each goal needs at peace time.
type WarRecord struct {
	OpponentFaction   uint64
	StartedYear       uint32
	Goal              WarGoal
	TargetSettlements []uint64 // Territorial: defender settlements adjacent to the attacker
	ReparationDemand  float64  // Economic: max(defender treasury * 0.5, 10)
	Claimant          *uint64  // SuccessionClaim: the blood-claimant pressed
}

// FactionAttrs is the Faction variant.
type FactionAttrs struct {
	GovernmentType  GovernmentType
	Stability       float64
	Happiness       float64
	Legitimacy      float64
	Treasury        float64
	Prestige        float64
	PrimaryCulture  uint64
	PrimaryReligion uint64

	// Grievances is keyed by the faction that wronged this one.
	Grievances map[uint64]float64

	Tributes              []Tribute
	WarStarted            map[uint64]WarRecord // keyed by opponent faction id
	MarriageAlliances     []uint64
	TradePartnerRoutes    []uint64
	EconomicWarMotivation float64
	AllianceStrength      float64
	LastBetrayalYear      *uint32
	SuccessionCrisisAt    *uint32
	DiplomaticTrust       float64

	IsBandit bool
}

func (FactionAttrs) Kind() EntityKind { return KindFaction }

// --- Army -----------------------------------------------------------------

// ArmyAttrs is the Army variant.
type ArmyAttrs struct {
	FactionID         uint64
	Strength          int
	StartingStrength  int
	Morale            float64
	Supply            float64
	HomeRegionID      uint64
	MonthsCampaigning int
	Besieging         *uint64 // settlement id under siege by this army, if any
}

func (ArmyAttrs) Kind() EntityKind { return KindArmy }

// --- Region -----------------------------------------------------------------

// RegionAttrs is the Region variant — the node type AdjacentTo connects.
type RegionAttrs struct {
	X, Y    int
	Terrain Terrain
}

func (RegionAttrs) Kind() EntityKind { return KindRegion }

// --- remaining variants: lighter-weight, carried at the fidelity the
// spec's "other domain subsystems" call for (Section 4.10).

// BuildingAttrs is the Building variant.
type BuildingAttrs struct {
	SettlementID uint64
	Type         string // "Temple", "Wall", "Market", ...
	Level        int
}

func (BuildingAttrs) Kind() EntityKind { return KindBuilding }

// DeityAttrs is the Deity variant.
type DeityAttrs struct {
	Domain   string
	ReligionID uint64
	Favor    float64
}

func (DeityAttrs) Kind() EntityKind { return KindDeity }

// CreatureAttrs is the Creature variant.
type CreatureAttrs struct {
	Species  string
	RegionID uint64
	Threat   float64
}

func (CreatureAttrs) Kind() EntityKind { return KindCreature }

// RiverAttrs is the River variant.
type RiverAttrs struct {
	SourceRegionID uint64
	MouthRegionID  uint64
}

func (RiverAttrs) Kind() EntityKind { return KindRiver }

// GeographicFeatureAttrs is the GeographicFeature variant.
type GeographicFeatureAttrs struct {
	RegionID uint64
	Type     string // "Mountain Range", "Forest", ...
}

func (GeographicFeatureAttrs) Kind() EntityKind { return KindGeographicFeature }

// ResourceDepositAttrs is the ResourceDeposit variant.
type ResourceDepositAttrs struct {
	RegionID uint64
	Resource string
	Richness float64
}

func (ResourceDepositAttrs) Kind() EntityKind { return KindResourceDeposit }

// CultureAttrs is the Culture variant.
type CultureAttrs struct {
	Openness  float64
	Militarism float64
	Tradition  float64
}

func (CultureAttrs) Kind() EntityKind { return KindCulture }

// DiseaseAttrs is the Disease variant.
type DiseaseAttrs struct {
	Lethality   float64
	Contagion   float64
	SettlementID uint64
}

func (DiseaseAttrs) Kind() EntityKind { return KindDisease }

// KnowledgeAttrs is the Knowledge variant.
type KnowledgeAttrs struct {
	Domain       string
	OriginatorID uint64
}

func (KnowledgeAttrs) Kind() EntityKind { return KindKnowledge }

// ManifestationAttrs is the Manifestation variant (e.g. a prophecy, an
// omen, a miracle attributed to a deity or religion).
type ManifestationAttrs struct {
	ReligionID uint64
	Type       string
}

func (ManifestationAttrs) Kind() EntityKind { return KindManifestation }

// ReligionAttrs is the Religion variant.
type ReligionAttrs struct {
	Fervor    float64
	Adherents int
}

func (ReligionAttrs) Kind() EntityKind { return KindReligion }

// ItemAttrs is the Item variant.
type ItemAttrs struct {
	OwnerID uint64
	Type    string
}

func (ItemAttrs) Kind() EntityKind { return KindItem }
