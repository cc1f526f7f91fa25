package ck3

import (
	cw "github.com/reoring/clausewitz"
)

// Gamestate is the root of a decoded save.
type Gamestate struct {
	MetaData Metadata                   `ck:"meta_data" json:"meta_data" yaml:"meta_data"`
	Living   map[uint64]LivingCharacter `ck:"living" json:"living,omitempty" yaml:"living,omitempty"`
}

type Metadata struct {
	SaveGameVersion *int64     `ck:"save_game_version" json:"save_game_version,omitempty" yaml:"save_game_version,omitempty"`
	Version         *string    `ck:"version" json:"version,omitempty" yaml:"version,omitempty"`
	MetaDate        *cw.Date   `ck:"meta_date" json:"meta_date,omitempty" yaml:"meta_date,omitempty"`
	PlayerName      *string    `ck:"meta_player_name" json:"meta_player_name,omitempty" yaml:"meta_player_name,omitempty"`
	TitleName       *string    `ck:"meta_title_name" json:"meta_title_name,omitempty" yaml:"meta_title_name,omitempty"`
	HouseName       *string    `ck:"meta_house_name" json:"meta_house_name,omitempty" yaml:"meta_house_name,omitempty"`
	DLCs            []string   `ck:"meta_dlcs" json:"meta_dlcs,omitempty" yaml:"meta_dlcs,omitempty"`
	GameRules       *GameRules `ck:"game_rules" json:"game_rules,omitempty" yaml:"game_rules,omitempty"`
}

// GameRules lists the non-default rule settings, one `setting` key each.
type GameRules struct {
	Setting []string `ck:"setting" json:"setting,omitempty" yaml:"setting,omitempty"`
}

type LivingCharacter struct {
	FirstName        *string           `ck:"first_name" json:"first_name,omitempty" yaml:"first_name,omitempty"`
	Nickname         *string           `ck:"nickname" json:"nickname,omitempty" yaml:"nickname,omitempty"`
	Birth            *cw.Date          `ck:"birth" json:"birth,omitempty" yaml:"birth,omitempty"`
	Female           *bool             `ck:"female" json:"female,omitempty" yaml:"female,omitempty"`
	Immortal         *bool             `ck:"immortal" json:"immortal,omitempty" yaml:"immortal,omitempty"`
	DNA              *string           `ck:"dna" json:"dna,omitempty" yaml:"dna,omitempty"`
	Culture          *uint64           `ck:"culture" json:"culture,omitempty" yaml:"culture,omitempty"`
	Faith            *uint64           `ck:"faith" json:"faith,omitempty" yaml:"faith,omitempty"`
	DynastyHouse     *uint64           `ck:"dynasty_house" json:"dynasty_house,omitempty" yaml:"dynasty_house,omitempty"`
	Skill            []int64           `ck:"skill" json:"skill,omitempty" yaml:"skill,omitempty"`
	Traits           []int64           `ck:"traits" json:"traits,omitempty" yaml:"traits,omitempty"`
	AliveData        *AliveData        `ck:"alive_data" json:"alive_data,omitempty" yaml:"alive_data,omitempty"`
	FamilyData       *FamilyData       `ck:"family_data" json:"family_data,omitempty" yaml:"family_data,omitempty"`
	LandedData       *LandedData       `ck:"landed_data" json:"landed_data,omitempty" yaml:"landed_data,omitempty"`
	PlayableData     *PlayableData     `ck:"playable_data" json:"playable_data,omitempty" yaml:"playable_data,omitempty"`
	PortraitOverride *PortraitOverride `ck:"portrait_override" json:"portrait_override,omitempty" yaml:"portrait_override,omitempty"`
	Variables        *Variables        `ck:"variables" json:"variables,omitempty" yaml:"variables,omitempty"`
	Weight           *Weight           `ck:"weight" json:"weight,omitempty" yaml:"weight,omitempty"`
}

type AliveData struct {
	// Gold is reencoded through the transform registered for AliveData.gold.
	Gold            *float64     `ck:"gold" json:"gold,omitempty" yaml:"gold,omitempty"`
	Health          *float64     `ck:"health" json:"health,omitempty" yaml:"health,omitempty"`
	Fertility       *float64     `ck:"fertility" json:"fertility,omitempty" yaml:"fertility,omitempty"`
	Income          *float64     `ck:"income" json:"income,omitempty" yaml:"income,omitempty"`
	Location        *uint64      `ck:"location" json:"location,omitempty" yaml:"location,omitempty"`
	Activity        *uint64      `ck:"activity" json:"activity,omitempty" yaml:"activity,omitempty"`
	Focus           *Focus       `ck:"focus" json:"focus,omitempty" yaml:"focus,omitempty"`
	Piety           *Currency    `ck:"piety" json:"piety,omitempty" yaml:"piety,omitempty"`
	Prestige        *Currency    `ck:"prestige" json:"prestige,omitempty" yaml:"prestige,omitempty"`
	LifestyleXp     *LifestyleXp `ck:"lifestyle_xp" json:"lifestyle_xp,omitempty" yaml:"lifestyle_xp,omitempty"`
	Inventory       *Inventory   `ck:"inventory" json:"inventory,omitempty" yaml:"inventory,omitempty"`
	Languages       []string     `ck:"languages" json:"languages,omitempty" yaml:"languages,omitempty"`
	Heir            []uint64     `ck:"heir" json:"heir,omitempty" yaml:"heir,omitempty"`
	Kills           []uint64     `ck:"kills" json:"kills,omitempty" yaml:"kills,omitempty"`
	Schemes         []uint64     `ck:"schemes" json:"schemes,omitempty" yaml:"schemes,omitempty"`
	Stories         []uint64     `ck:"stories" json:"stories,omitempty" yaml:"stories,omitempty"`
	Wars            []uint64     `ck:"wars" json:"wars,omitempty" yaml:"wars,omitempty"`
	OwnedActivities []uint64     `ck:"owned_activities" json:"owned_activities,omitempty" yaml:"owned_activities,omitempty"`
	Modifier        []Modifier   `ck:"modifier" json:"modifier,omitempty" yaml:"modifier,omitempty"`
}

type Focus struct {
	Type     *string  `ck:"type" json:"type,omitempty" yaml:"type,omitempty"`
	Date     *cw.Date `ck:"date" json:"date,omitempty" yaml:"date,omitempty"`
	Changes  *int64   `ck:"changes" json:"changes,omitempty" yaml:"changes,omitempty"`
	Progress *float64 `ck:"progress" json:"progress,omitempty" yaml:"progress,omitempty"`
}

// Currency is the shape shared by piety and prestige.
type Currency struct {
	Currency    *float64 `ck:"currency" json:"currency,omitempty" yaml:"currency,omitempty"`
	Accumulated *float64 `ck:"accumulated" json:"accumulated,omitempty" yaml:"accumulated,omitempty"`
}

type LifestyleXp struct {
	Diplomacy    *float64 `ck:"diplomacy_lifestyle" json:"diplomacy_lifestyle,omitempty" yaml:"diplomacy_lifestyle,omitempty"`
	Martial      *float64 `ck:"martial_lifestyle" json:"martial_lifestyle,omitempty" yaml:"martial_lifestyle,omitempty"`
	Stewardship  *float64 `ck:"stewardship_lifestyle" json:"stewardship_lifestyle,omitempty" yaml:"stewardship_lifestyle,omitempty"`
	Intrigue     *float64 `ck:"intrigue_lifestyle" json:"intrigue_lifestyle,omitempty" yaml:"intrigue_lifestyle,omitempty"`
	Learning     *float64 `ck:"learning_lifestyle" json:"learning_lifestyle,omitempty" yaml:"learning_lifestyle,omitempty"`
	Arcane       *float64 `ck:"arcane_lifestyle" json:"arcane_lifestyle,omitempty" yaml:"arcane_lifestyle,omitempty"`
	PureDivine   *float64 `ck:"pure_divine_lifestyle" json:"pure_divine_lifestyle,omitempty" yaml:"pure_divine_lifestyle,omitempty"`
	FallenDivine *float64 `ck:"fallen_divine_lifestyle" json:"fallen_divine_lifestyle,omitempty" yaml:"fallen_divine_lifestyle,omitempty"`
}

type Inventory struct {
	Owner    *uint64   `ck:"owner" json:"owner,omitempty" yaml:"owner,omitempty"`
	Equipped *Equipped `ck:"equipped" json:"equipped,omitempty" yaml:"equipped,omitempty"`
}

type Equipped struct {
	WallBig1  *uint64 `ck:"wall_big_1" json:"wall_big_1,omitempty" yaml:"wall_big_1,omitempty"`
	WallBig2  *uint64 `ck:"wall_big_2" json:"wall_big_2,omitempty" yaml:"wall_big_2,omitempty"`
	WallBig3  *uint64 `ck:"wall_big_3" json:"wall_big_3,omitempty" yaml:"wall_big_3,omitempty"`
	Pedestal1 *uint64 `ck:"pedestal_1" json:"pedestal_1,omitempty" yaml:"pedestal_1,omitempty"`
}

type Modifier struct {
	Modifier       *string  `ck:"modifier" json:"modifier,omitempty" yaml:"modifier,omitempty"`
	ExpirationDate *cw.Date `ck:"expiration_date" json:"expiration_date,omitempty" yaml:"expiration_date,omitempty"`
}

type FamilyData struct {
	Child         []uint64 `ck:"child" json:"child,omitempty" yaml:"child,omitempty"`
	PrimarySpouse *uint64  `ck:"primary_spouse" json:"primary_spouse,omitempty" yaml:"primary_spouse,omitempty"`
	Spouse        []uint64 `ck:"spouse" json:"spouse,omitempty" yaml:"spouse,omitempty"`
	Concubine     []uint64 `ck:"concubine" json:"concubine,omitempty" yaml:"concubine,omitempty"`
	FormerSpouse  []uint64 `ck:"former_spouse" json:"former_spouse,omitempty" yaml:"former_spouse,omitempty"`
}

type LandedData struct {
	Domain               []uint64           `ck:"domain" json:"domain,omitempty" yaml:"domain,omitempty"`
	VassalContracts      []uint64           `ck:"vassal_contracts" json:"vassal_contracts,omitempty" yaml:"vassal_contracts,omitempty"`
	Units                []uint64           `ck:"unit" json:"unit,omitempty" yaml:"unit,omitempty"`
	Wars                 []uint64           `ck:"war" json:"war,omitempty" yaml:"war,omitempty"`
	Succession           []uint64           `ck:"succession" json:"succession,omitempty" yaml:"succession,omitempty"`
	Council              []uint64           `ck:"council" json:"council,omitempty" yaml:"council,omitempty"`
	DiploCenters         []uint64           `ck:"diplo_centers" json:"diplo_centers,omitempty" yaml:"diplo_centers,omitempty"`
	CourtPositions       []uint64           `ck:"court_positions" json:"court_positions,omitempty" yaml:"court_positions,omitempty"`
	Laws                 []string           `ck:"laws" json:"laws,omitempty" yaml:"laws,omitempty"`
	Government           *string            `ck:"government" json:"government,omitempty" yaml:"government,omitempty"`
	RealmCapital         *uint64            `ck:"realm_capital" json:"realm_capital,omitempty" yaml:"realm_capital,omitempty"`
	BecameRulerDate      *cw.Date           `ck:"became_ruler_date" json:"became_ruler_date,omitempty" yaml:"became_ruler_date,omitempty"`
	LastWarFinishDate    *cw.Date           `ck:"last_war_finish_date" json:"last_war_finish_date,omitempty" yaml:"last_war_finish_date,omitempty"`
	Strength             *float64           `ck:"strength" json:"strength,omitempty" yaml:"strength,omitempty"`
	CurrentStrength      *float64           `ck:"current_strength" json:"current_strength,omitempty" yaml:"current_strength,omitempty"`
	StrengthWithoutHires *float64           `ck:"strength_without_hires" json:"strength_without_hires,omitempty" yaml:"strength_without_hires,omitempty"`
	Levy                 *float64           `ck:"levy" json:"levy,omitempty" yaml:"levy,omitempty"`
	Balance              *float64           `ck:"balance" json:"balance,omitempty" yaml:"balance,omitempty"`
	DomainLimit          *int64             `ck:"domain_limit" json:"domain_limit,omitempty" yaml:"domain_limit,omitempty"`
	VassalLimit          *int64             `ck:"vassal_limit" json:"vassal_limit,omitempty" yaml:"vassal_limit,omitempty"`
	VassalsTowardsLimit  *float64           `ck:"vassals_towards_limit" json:"vassals_towards_limit,omitempty" yaml:"vassals_towards_limit,omitempty"`
	DecisionCooldowns    map[string]cw.Date `ck:"decision_cooldowns" json:"decision_cooldowns,omitempty" yaml:"decision_cooldowns,omitempty"`
	InteractionCooldowns map[string]cw.Date `ck:"interaction_cooldowns" json:"interaction_cooldowns,omitempty" yaml:"interaction_cooldowns,omitempty"`
	RoyalCourt           *RoyalCourt        `ck:"royal_court" json:"royal_court,omitempty" yaml:"royal_court,omitempty"`
}

type RoyalCourt struct {
	Language             *string         `ck:"language" json:"language,omitempty" yaml:"language,omitempty"`
	LanguageAdoptionDate *cw.Date        `ck:"language_adoption_date" json:"language_adoption_date,omitempty" yaml:"language_adoption_date,omitempty"`
	CourtGrandeur        *CourtGrandeur  `ck:"court_grandeur" json:"court_grandeur,omitempty" yaml:"court_grandeur,omitempty"`
	CourtAmenities       *CourtAmenities `ck:"court_amenities" json:"court_amenities,omitempty" yaml:"court_amenities,omitempty"`
	CourtType            *CourtType      `ck:"court_type" json:"court_type,omitempty" yaml:"court_type,omitempty"`
}

type CourtGrandeur struct {
	Base     *float64 `ck:"base" json:"base,omitempty" yaml:"base,omitempty"`
	Current  *float64 `ck:"current" json:"current,omitempty" yaml:"current,omitempty"`
	Expected *float64 `ck:"expected" json:"expected,omitempty" yaml:"expected,omitempty"`
}

// CourtAmenities holds the amenity levels. Saves spell the section
// court_amenitie and the food key court_food_qualit; both are aliased.
type CourtAmenities struct {
	Fashion          *string                 `ck:"court_fashion" json:"court_fashion,omitempty" yaml:"court_fashion,omitempty"`
	FoodQuality      *string                 `ck:"court_food_quality" json:"court_food_quality,omitempty" yaml:"court_food_quality,omitempty"`
	LodgingStandards *string                 `ck:"court_lodging_standards" json:"court_lodging_standards,omitempty" yaml:"court_lodging_standards,omitempty"`
	Servants         *string                 `ck:"court_servants" json:"court_servants,omitempty" yaml:"court_servants,omitempty"`
	Cooldown         *CourtAmenitiesCooldown `ck:"cooldown" json:"cooldown,omitempty" yaml:"cooldown,omitempty"`
}

type CourtAmenitiesCooldown struct {
	Fashion          *cw.Date `ck:"court_fashion" json:"court_fashion,omitempty" yaml:"court_fashion,omitempty"`
	FoodQuality      *cw.Date `ck:"court_food_quality" json:"court_food_quality,omitempty" yaml:"court_food_quality,omitempty"`
	LodgingStandards *cw.Date `ck:"court_lodging_standards" json:"court_lodging_standards,omitempty" yaml:"court_lodging_standards,omitempty"`
	Servants         *cw.Date `ck:"court_servants" json:"court_servants,omitempty" yaml:"court_servants,omitempty"`
}

type CourtType struct {
	Type           *string  `ck:"court_type" json:"court_type,omitempty" yaml:"court_type,omitempty"`
	LastSwitchDate *cw.Date `ck:"last_court_type_switch_date" json:"last_court_type_switch_date,omitempty" yaml:"last_court_type_switch_date,omitempty"`
}

type PlayableData struct {
	Knights                 []uint64 `ck:"knights" json:"knights,omitempty" yaml:"knights,omitempty"`
	WasPlayer               *bool    `ck:"was_player" json:"was_player,omitempty" yaml:"was_player,omitempty"`
	LastCourtEventAddedDate *cw.Date `ck:"last_court_event_added_date" json:"last_court_event_added_date,omitempty" yaml:"last_court_event_added_date,omitempty"`
}

type PortraitOverride struct {
	ModifierOverrides *PortraitModifierOverrides `ck:"portrait_modifier_overrides" json:"portrait_modifier_overrides,omitempty" yaml:"portrait_modifier_overrides,omitempty"`
}

type PortraitModifierOverrides struct {
	CustomBeards *string `ck:"custom_beards" json:"custom_beards,omitempty" yaml:"custom_beards,omitempty"`
	CustomHair   *string `ck:"custom_hair" json:"custom_hair,omitempty" yaml:"custom_hair,omitempty"`
}

type Weight struct {
	Current *float64 `ck:"current" json:"current,omitempty" yaml:"current,omitempty"`
	Target  *float64 `ck:"target" json:"target,omitempty" yaml:"target,omitempty"`
}

// Variables holds scripted character variables.
type Variables struct {
	Data []VariableData `ck:"data" json:"data,omitempty" yaml:"data,omitempty"`
	List []VariableList `ck:"list" json:"list,omitempty" yaml:"list,omitempty"`
}

type VariableData struct {
	Flag *string      `ck:"flag" json:"flag,omitempty" yaml:"flag,omitempty"`
	Tick *int64       `ck:"tick" json:"tick,omitempty" yaml:"tick,omitempty"`
	Data *VariableRef `ck:"data" json:"data,omitempty" yaml:"data,omitempty"`
}

// VariableRef points a variable at a scripted object.
type VariableRef struct {
	Type     *string `ck:"type" json:"type,omitempty" yaml:"type,omitempty"`
	Flag     *string `ck:"flag" json:"flag,omitempty" yaml:"flag,omitempty"`
	Identity *uint64 `ck:"identity" json:"identity,omitempty" yaml:"identity,omitempty"`
}

type VariableList struct {
	Name *string       `ck:"name" json:"name,omitempty" yaml:"name,omitempty"`
	Item []VariableRef `ck:"item" json:"item,omitempty" yaml:"item,omitempty"`
}
