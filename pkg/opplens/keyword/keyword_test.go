package keyword

import "testing"

func TestParseIntentCanonicalLabels(t *testing.T) {
	cases := map[string]Intent{
		"informational": Informational,
		"commercial":    Commercial,
		"transactional": Transactional,
		"navigational":  Navigational,
	}

	for raw, want := range cases {
		if got := ParseIntent(raw); got != want {
			t.Errorf("ParseIntent(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseIntentIsCaseInsensitive(t *testing.T) {
	if got := ParseIntent("Commercial"); got != Commercial {
		t.Errorf("ParseIntent(\"Commercial\") = %q, want commercial", got)
	}

	if got := ParseIntent("  TRANSACTIONAL  "); got != Transactional {
		t.Errorf("ParseIntent with padding = %q, want transactional", got)
	}
}

func TestParseIntentUnknownFallsBackToInformational(t *testing.T) {
	for _, raw := range []string{"", "unknown", "branded", "local"} {
		if got := ParseIntent(raw); got != Informational {
			t.Errorf("ParseIntent(%q) = %q, want informational", raw, got)
		}
	}
}

func TestParseIntentShortForm(t *testing.T) {
	if got := ParseIntent("info"); got != Informational {
		t.Errorf("ParseIntent(\"info\") = %q, want informational", got)
	}
}

func TestAllIntentsOrder(t *testing.T) {
	intents := AllIntents()
	if len(intents) != 4 {
		t.Fatalf("Expected 4 intents, got %d", len(intents))
	}

	if intents[0] != Informational || intents[3] != Navigational {
		t.Errorf("Unexpected intent order: %v", intents)
	}
}

func TestKeywordValidateAcceptsCompleteRecord(t *testing.T) {
	k := Keyword{
		Text:         "best project management tools",
		SearchVolume: 12000,
		Difficulty:   35,
		CPC:          4.50,
		RawIntents:   "Informational",
		Intent:       Informational,
	}

	if err := k.Validate(); err != nil {
		t.Errorf("Valid keyword should pass validation, got %v", err)
	}
}

func TestKeywordValidateRejectsEmptyText(t *testing.T) {
	k := Keyword{Text: "   "}
	if err := k.Validate(); err == nil {
		t.Error("Should fail validation with blank text")
	}
}

func TestKeywordValidateRejectsNegativeVolume(t *testing.T) {
	k := Keyword{Text: "crm software", SearchVolume: -1}
	if err := k.Validate(); err == nil {
		t.Error("Should fail validation with negative volume")
	}
}

func TestKeywordValidateRejectsDifficultyOutOfRange(t *testing.T) {
	k := Keyword{Text: "crm software", Difficulty: 101}
	if err := k.Validate(); err == nil {
		t.Error("Should fail validation with difficulty above 100")
	}

	k.Difficulty = -0.5
	if err := k.Validate(); err == nil {
		t.Error("Should fail validation with negative difficulty")
	}
}

func TestKeywordValidateRejectsNegativeCPC(t *testing.T) {
	k := Keyword{Text: "crm software", CPC: -0.01}
	if err := k.Validate(); err == nil {
		t.Error("Should fail validation with negative cpc")
	}
}

func TestKeywordZeroDefaults(t *testing.T) {
	var k Keyword

	if k.OpportunityScore != 0 {
		t.Error("Unscored keyword should have zero opportunity score")
	}

	if k.Category != "" {
		t.Error("Unscored keyword should have no category")
	}

	if k.QuickWin {
		t.Error("Unscored keyword should not be a quick win")
	}
}
