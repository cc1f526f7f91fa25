// Package ck3 holds the Crusader Kings III save schema and its root decoder.
package ck3

import (
	cw "github.com/reoring/clausewitz"
	"github.com/reoring/clausewitz/codec"
	"github.com/reoring/clausewitz/dsl"
)

// GoldField is the identity of the reencoded gold field.
const GoldField = "AliveData.gold"

// DefaultGoldScale leaves text-save gold untouched.
const DefaultGoldScale = 1.0

// Transforms returns the registry for the schema with gold divided by
// goldScale.
func Transforms(goldScale float64) cw.Transforms {
	return cw.Transforms{}.With(GoldField, codec.Scale(goldScale))
}

// descriptors is one freshly built, unfrozen set of record descriptors.
type descriptors struct {
	gamestate *cw.RecordDescriptor
	meta      *cw.RecordDescriptor
	living    *cw.RecordDescriptor
}

func ids() cw.ValueType { return dsl.ListOf(dsl.Uint()) }

func newDescriptors() descriptors {
	modifier := dsl.Record("Modifier").
		Field("modifier", dsl.String()).Optional().
		Field("expiration_date", dsl.Date()).Optional()

	focus := dsl.Record("Focus").
		Field("type", dsl.String()).Optional().
		Field("date", dsl.Date()).Optional().
		Field("changes", dsl.Int()).Optional().
		Field("progress", dsl.Float()).Optional()

	piety := dsl.Record("Piety").
		Field("currency", dsl.Float()).Optional().
		Field("accumulated", dsl.Float()).Optional()

	// Older saves spell the prestige balance "currentcy".
	prestige := dsl.Record("Prestige").
		Field("currency", dsl.Float()).Alias("currentcy").Optional().
		Field("accumulated", dsl.Float()).Optional()

	lifestyle := dsl.Record("LifestyleXp")
	for _, k := range []string{"diplomacy", "martial", "stewardship", "intrigue", "learning", "arcane", "pure_divine", "fallen_divine"} {
		lifestyle.Field(k+"_lifestyle", dsl.Float()).Optional()
	}

	equipped := dsl.Record("Equipped").
		Field("wall_big_1", dsl.Uint()).Optional().
		Field("wall_big_2", dsl.Uint()).Optional().
		Field("wall_big_3", dsl.Uint()).Optional().
		Field("pedestal_1", dsl.Uint()).Optional()

	inventory := dsl.Record("Inventory").
		Field("owner", dsl.Uint()).Optional().
		Field("equipped", dsl.RecordOf(equipped.Descriptor())).Optional()

	alive := dsl.Record("AliveData").
		Field("gold", dsl.Reencoded()).Optional().
		Field("health", dsl.Float()).Optional().
		Field("fertility", dsl.Float()).Optional().
		Field("income", dsl.Float()).Optional().
		Field("location", dsl.Uint()).Optional().
		Field("activity", dsl.Uint()).Optional().
		Field("focus", dsl.RecordOf(focus.Descriptor())).Optional().
		Field("piety", dsl.RecordOf(piety.Descriptor())).Optional().
		Field("prestige", dsl.RecordOf(prestige.Descriptor())).Optional().
		Field("lifestyle_xp", dsl.RecordOf(lifestyle.Descriptor())).Optional().
		Field("inventory", dsl.RecordOf(inventory.Descriptor())).Optional().
		Field("languages", dsl.ListOf(dsl.String())).Optional().
		Field("heir", ids()).Optional().
		Field("kills", ids()).Optional().
		Field("schemes", ids()).Optional().
		Field("stories", ids()).Optional().
		Field("wars", ids()).Optional().
		Field("owned_activities", ids()).Optional().
		Field("modifier", dsl.RecordOf(modifier.Descriptor())).Duplicated()

	family := dsl.Record("FamilyData").
		Field("child", ids()).Optional().
		Field("primary_spouse", dsl.Uint()).Optional().
		Field("spouse", dsl.Uint()).Duplicated().
		Field("concubine", dsl.Uint()).Duplicated().
		Field("former_spouse", dsl.Uint()).Alias("former_spouses").Duplicated()

	grandeur := dsl.Record("CourtGrandeur").
		Field("base", dsl.Float()).Optional().
		Field("current", dsl.Float()).Optional().
		Field("expected", dsl.Float()).Optional()

	amenityCooldown := dsl.Record("CourtAmenitiesCooldown").
		Field("court_fashion", dsl.Date()).Optional().
		Field("court_food_quality", dsl.Date()).Optional().
		Field("court_lodging_standards", dsl.Date()).Optional().
		Field("court_servants", dsl.Date()).Optional()

	amenities := dsl.Record("CourtAmenities").
		Field("court_fashion", dsl.String()).Optional().
		Field("court_food_quality", dsl.String()).Alias("court_food_qualit").Optional().
		Field("court_lodging_standards", dsl.String()).Optional().
		Field("court_servants", dsl.String()).Optional().
		Field("cooldown", dsl.RecordOf(amenityCooldown.Descriptor())).Optional()

	courtType := dsl.Record("CourtType").
		Field("court_type", dsl.String()).Optional().
		Field("last_court_type_switch_date", dsl.Date()).Optional()

	court := dsl.Record("RoyalCourt").
		Field("language", dsl.String()).Optional().
		Field("language_adoption_date", dsl.Date()).Optional().
		Field("court_grandeur", dsl.RecordOf(grandeur.Descriptor())).Optional().
		Field("court_amenities", dsl.RecordOf(amenities.Descriptor())).Alias("court_amenitie").Optional().
		Field("court_type", dsl.RecordOf(courtType.Descriptor())).Optional()

	landed := dsl.Record("LandedData").
		Field("domain", ids()).Optional().
		Field("vassal_contracts", ids()).Optional().
		Field("unit", ids()).Optional().
		Field("war", ids()).Optional().
		Field("succession", ids()).Optional().
		Field("council", ids()).Optional().
		Field("diplo_centers", ids()).Optional().
		Field("court_positions", ids()).Optional().
		Field("laws", dsl.ListOf(dsl.String())).Optional().
		Field("government", dsl.String()).Optional().
		Field("realm_capital", dsl.Uint()).Optional().
		Field("became_ruler_date", dsl.Date()).Optional().
		Field("last_war_finish_date", dsl.Date()).Optional().
		Field("strength", dsl.Float()).Optional().
		Field("current_strength", dsl.Float()).Optional().
		Field("strength_without_hires", dsl.Float()).Optional().
		Field("levy", dsl.Float()).Optional().
		Field("balance", dsl.Float()).Optional().
		Field("domain_limit", dsl.Int()).Optional().
		Field("vassal_limit", dsl.Int()).Optional().
		Field("vassals_towards_limit", dsl.Float()).Optional().
		Field("decision_cooldowns", dsl.Date()).Keyed(dsl.String()).
		Field("interaction_cooldowns", dsl.Date()).Keyed(dsl.String()).
		Field("royal_court", dsl.RecordOf(court.Descriptor())).Optional()

	playable := dsl.Record("PlayableData").
		Field("knights", ids()).Optional().
		Field("was_player", dsl.Bool()).Optional().
		Field("last_court_event_added_date", dsl.Date()).Optional()

	overrides := dsl.Record("PortraitModifierOverrides").
		Field("custom_beards", dsl.String()).Optional().
		Field("custom_hair", dsl.String()).Optional()

	portrait := dsl.Record("PortraitOverride").
		Field("portrait_modifier_overrides", dsl.RecordOf(overrides.Descriptor())).Optional()

	weight := dsl.Record("Weight").
		Field("current", dsl.Float()).Optional().
		Field("target", dsl.Float()).Optional()

	ref := dsl.Record("VariableRef").
		Field("type", dsl.String()).Optional().
		Field("flag", dsl.String()).Optional().
		Field("identity", dsl.Uint()).Optional()

	varData := dsl.Record("VariableData").
		Field("flag", dsl.String()).Optional().
		Field("tick", dsl.Int()).Optional().
		Field("data", dsl.RecordOf(ref.Descriptor())).Optional()

	varList := dsl.Record("VariableList").
		Field("name", dsl.String()).Optional().
		Field("item", dsl.RecordOf(ref.Descriptor())).Duplicated()

	variables := dsl.Record("Variables").
		Field("data", dsl.ListOf(dsl.RecordOf(varData.Descriptor()))).Optional().
		Field("list", dsl.ListOf(dsl.RecordOf(varList.Descriptor()))).Optional()

	living := dsl.Record("LivingCharacter").
		Field("first_name", dsl.String()).Optional().
		Field("nickname", dsl.String()).Optional().
		Field("birth", dsl.Date()).Optional().
		Field("female", dsl.Bool()).Optional().
		Field("immortal", dsl.Bool()).Optional().
		Field("dna", dsl.String()).Optional().
		Field("culture", dsl.Uint()).Optional().
		Field("faith", dsl.Uint()).Optional().
		Field("dynasty_house", dsl.Uint()).Optional().
		Field("skill", dsl.ListOf(dsl.Int())).Optional().
		Field("traits", dsl.ListOf(dsl.Int())).Optional().
		Field("alive_data", dsl.RecordOf(alive.Descriptor())).Optional().
		Field("family_data", dsl.RecordOf(family.Descriptor())).Optional().
		Field("landed_data", dsl.RecordOf(landed.Descriptor())).Optional().
		Field("playable_data", dsl.RecordOf(playable.Descriptor())).Optional().
		Field("portrait_override", dsl.RecordOf(portrait.Descriptor())).Optional().
		Field("variables", dsl.RecordOf(variables.Descriptor())).Optional().
		Field("weight", dsl.RecordOf(weight.Descriptor())).Optional()

	rules := dsl.Record("GameRules").
		Field("setting", dsl.String()).Duplicated()

	meta := dsl.Record("Metadata").
		Field("save_game_version", dsl.Int()).Optional().
		Field("version", dsl.String()).Optional().
		Field("meta_date", dsl.Date()).Optional().
		Field("meta_player_name", dsl.String()).Optional().
		Field("meta_title_name", dsl.String()).Optional().
		Field("meta_house_name", dsl.String()).Optional().
		Field("meta_dlcs", dsl.ListOf(dsl.String())).Optional().
		Field("game_rules", dsl.RecordOf(rules.Descriptor())).Optional()

	gamestate := dsl.Record("Gamestate").
		Field("meta_data", dsl.RecordOf(meta.Descriptor())).Required().
		Field("living", dsl.RecordOf(living.Descriptor())).Keyed(dsl.Uint())

	return descriptors{
		gamestate: gamestate.Descriptor(),
		meta:      meta.Descriptor(),
		living:    living.Descriptor(),
	}
}
