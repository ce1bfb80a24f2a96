package catalog

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLookupPersona(t *testing.T) {
	for _, id := range PersonaIDs() {
		p, err := LookupPersona(string(id))
		if err != nil {
			t.Fatalf("LookupPersona(%q) failed: %v", id, err)
		}
		if p.ID != id || p.Name == "" || p.Tone == "" {
			t.Errorf("Persona %q incomplete: %+v", id, p)
		}
	}

	_, err := LookupPersona("Sarcastic")
	if !errors.Is(err, ErrUnknownPersona) {
		t.Errorf("Expected ErrUnknownPersona, got %v", err)
	}
	// 查找区分大小写
	if _, err := LookupPersona("angry"); !errors.Is(err, ErrUnknownPersona) {
		t.Errorf("Expected case-sensitive lookup, got %v", err)
	}
}

func TestLookupScenario(t *testing.T) {
	for _, id := range ScenarioIDs() {
		s, err := LookupScenario(string(id))
		if err != nil {
			t.Fatalf("LookupScenario(%q) failed: %v", id, err)
		}
		if s.InitialComplaint == "" || s.Description == "" {
			t.Errorf("Scenario %q incomplete: %+v", id, s)
		}
	}

	if _, err := LookupScenario("billing"); !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("Expected ErrUnknownScenario, got %v", err)
	}
}

func TestServiceDowntimeComplaint(t *testing.T) {
	s, err := LookupScenario("service-downtime")
	if err != nil {
		t.Fatal(err)
	}
	want := "My internet has been down all day in Jumeirah Lakes Towers. I can't work, and this is unacceptable. Fix it now!"
	if s.InitialComplaint != want {
		t.Errorf("Unexpected complaint: %q", s.InitialComplaint)
	}
}

func TestPersonaJSONHidesTone(t *testing.T) {
	b, err := json.Marshal(Personas())
	if err != nil {
		t.Fatal(err)
	}
	body := string(b)
	if strings.Contains(body, "Tone & Behavior") {
		t.Errorf("Tone instructions leaked into JSON: %s", body)
	}
	if !strings.Contains(body, `"Angry":{"name":"Angry Customer"`) {
		t.Errorf("Expected persona keyed by id, got %s", body)
	}
}

func TestListingsAreCopies(t *testing.T) {
	ps := Personas()
	delete(ps, PersonaAngry)
	if _, err := LookupPersona("Angry"); err != nil {
		t.Error("Mutating the listing must not affect the registry")
	}
	if len(Scenarios()) != 5 {
		t.Errorf("Expected 5 scenarios, got %d", len(Scenarios()))
	}
}

func TestVoiceFor(t *testing.T) {
	if v := VoiceFor("Impatient"); v.Name != "en-GB-RyanNeural" || v.Rate != "+25%" {
		t.Errorf("Unexpected Impatient voice: %+v", v)
	}
	if v := VoiceFor("Unknown"); v != VoiceFor("Polite") {
		t.Errorf("Expected Polite fallback, got %+v", v)
	}
	for _, id := range PersonaIDs() {
		if VoiceFor(string(id)).Name == "" {
			t.Errorf("Persona %q has no voice", id)
		}
	}
}
