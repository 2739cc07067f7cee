package chatbot

import "testing"

func testEntries() []Entry {
	return []Entry{
		{Triggers: []string{"horaires", "heures d'ouverture"}, Answer: "ouvert de 8h30 a 16h30"},
		{Triggers: []string{"certificat negatif"}, Answer: "aupres de l'OMPIC"},
		{Triggers: []string{"adhesion"}, Answer: "en ligne ou au siege"},
	}
}

func TestMatchContainment(t *testing.T) {
	m := NewMatcher(testEntries())

	match, ok := m.Match("Quels sont vos horaires ?")
	if !ok {
		t.Fatalf("expected a match")
	}
	if match.Answer != "ouvert de 8h30 a 16h30" || match.Distance != 0 {
		t.Fatalf("unexpected match: %+v", match)
	}
}

func TestMatchFoldsAccentsAndPunctuation(t *testing.T) {
	m := NewMatcher(testEntries())

	match, ok := m.Match("Comment obtenir un CERTIFICAT NÉGATIF?!")
	if !ok {
		t.Fatalf("expected a match")
	}
	if match.Answer != "aupres de l'OMPIC" {
		t.Fatalf("unexpected match: %+v", match)
	}
}

func TestMatchFuzzyTypo(t *testing.T) {
	m := NewMatcher(testEntries())

	match, ok := m.Match("adhesoin")
	if !ok {
		t.Fatalf("expected a fuzzy match")
	}
	if match.Answer != "en ligne ou au siege" || match.Distance == 0 {
		t.Fatalf("unexpected match: %+v", match)
	}
}

func TestMatchContainmentBeatsFuzzy(t *testing.T) {
	m := NewMatcher([]Entry{
		{Triggers: []string{"formation"}, Answer: "exact"},
		{Triggers: []string{"formations"}, Answer: "fuzzy neighbor"},
	})

	match, ok := m.Match("je cherche une formation")
	if !ok {
		t.Fatalf("expected a match")
	}
	if match.Distance != 0 || match.Answer != "exact" {
		t.Fatalf("containment should win: %+v", match)
	}
}

func TestMatchLongestContainmentWins(t *testing.T) {
	m := NewMatcher([]Entry{
		{Triggers: []string{"attestation"}, Answer: "generic"},
		{Triggers: []string{"attestation d'adhesion"}, Answer: "specific"},
	})

	match, ok := m.Match("il me faut une attestation d'adhésion")
	if !ok {
		t.Fatalf("expected a match")
	}
	if match.Answer != "specific" {
		t.Fatalf("longest trigger should win: %+v", match)
	}
}

func TestMatchRejectsUnrelatedQuery(t *testing.T) {
	m := NewMatcher(testEntries())

	if match, ok := m.Match("quel temps fait-il a Rabat demain"); ok {
		t.Fatalf("expected no match, got %+v", match)
	}
	if _, ok := m.Match("   "); ok {
		t.Fatalf("blank query must not match")
	}
}

func TestLoadEntriesFallsBackToDefaults(t *testing.T) {
	entries, err := LoadEntries("/nonexistent/chatbot.yaml")
	if err != nil {
		t.Fatalf("load returned error: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected built-in entries")
	}

	m := NewMatcher(entries)
	if _, ok := m.Match("horaires"); !ok {
		t.Fatalf("default knowledge base should answer the hours question")
	}
}
