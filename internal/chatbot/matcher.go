// Package chatbot answers common member questions from a static knowledge
// base. The table is loaded once at startup and never mutated; matching is
// trigger-phrase containment first, Levenshtein distance second.
package chatbot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/viper"
)

// Entry is one knowledge base item: any of its trigger phrases selects the
// answer.
type Entry struct {
	Triggers []string `mapstructure:"triggers"`
	Answer   string   `mapstructure:"answer"`
}

type trigger struct {
	normalized string
	entry      int
}

// Matcher is an immutable intent matcher over a fixed knowledge base.
type Matcher struct {
	entries  []Entry
	triggers []trigger
}

// NewMatcher indexes the knowledge base. Entries without usable triggers are
// skipped.
func NewMatcher(entries []Entry) *Matcher {
	m := &Matcher{entries: entries}
	for i, entry := range entries {
		for _, phrase := range entry.Triggers {
			normalized := normalizePhrase(phrase)
			if normalized == "" {
				continue
			}
			m.triggers = append(m.triggers, trigger{normalized: normalized, entry: i})
		}
	}
	return m
}

// LoadEntries reads the knowledge base from a yaml file. A missing file falls
// back to the built-in entries.
func LoadEntries(path string) ([]Entry, error) {
	if path == "" {
		return DefaultEntries(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return DefaultEntries(), nil
	}

	var entries []Entry
	if err := v.UnmarshalKey("entries", &entries); err != nil {
		return nil, fmt.Errorf("failed to decode knowledge base: %w", err)
	}
	if len(entries) == 0 {
		return DefaultEntries(), nil
	}
	return entries, nil
}

// Match is a scored knowledge base hit. Distance is zero for containment
// matches.
type Match struct {
	Answer   string `json:"answer"`
	Trigger  string `json:"trigger"`
	Distance int    `json:"distance"`
}

// Match finds the best knowledge base entry for a free-form question. An
// exact trigger containment always beats a fuzzy match; among fuzzy matches
// the lowest edit distance wins, bounded by a length-relative threshold.
func (m *Matcher) Match(query string) (Match, bool) {
	normalized := normalizePhrase(query)
	if normalized == "" {
		return Match{}, false
	}

	best := Match{Distance: -1}
	bestContainsLen := 0

	for _, t := range m.triggers {
		if strings.Contains(normalized, t.normalized) {
			if len(t.normalized) > bestContainsLen {
				bestContainsLen = len(t.normalized)
				best = Match{Answer: m.entries[t.entry].Answer, Trigger: t.normalized, Distance: 0}
			}
			continue
		}
		if bestContainsLen > 0 {
			continue
		}

		distance := levenshtein.ComputeDistance(normalized, t.normalized)
		threshold := len(t.normalized) / 3
		if threshold < 2 {
			threshold = 2
		}
		if distance <= threshold && (best.Distance < 0 || distance < best.Distance) {
			best = Match{Answer: m.entries[t.entry].Answer, Trigger: t.normalized, Distance: distance}
		}
	}

	if best.Distance < 0 {
		return Match{}, false
	}
	return best, true
}

var punctuationPattern = regexp.MustCompile(`[^a-z0-9 ]+`)

var accentFolds = strings.NewReplacer(
	"à", "a", "â", "a", "ä", "a",
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"î", "i", "ï", "i",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
)

func normalizePhrase(raw string) string {
	phrase := accentFolds.Replace(strings.ToLower(strings.TrimSpace(raw)))
	phrase = punctuationPattern.ReplaceAllString(phrase, " ")
	return strings.Join(strings.Fields(phrase), " ")
}

// DefaultEntries is the built-in knowledge base used when no yaml file is
// configured.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Triggers: []string{"horaires", "heures d'ouverture", "ouverture"},
			Answer:   "La chambre est ouverte du lundi au vendredi, de 8h30 à 16h30.",
		},
		{
			Triggers: []string{"contact", "telephone", "joindre"},
			Answer:   "Vous pouvez nous joindre au +212 5 22 00 00 00 ou par email à contact@ccis.ma.",
		},
		{
			Triggers: []string{"creation entreprise", "creer une entreprise", "immatriculation"},
			Answer:   "Pour créer une entreprise, déposez votre dossier au guichet unique avec le certificat négatif et les statuts.",
		},
		{
			Triggers: []string{"certificat negatif"},
			Answer:   "Le certificat négatif s'obtient auprès de l'OMPIC; comptez 24 à 48 heures.",
		},
		{
			Triggers: []string{"adhesion", "devenir membre", "inscription"},
			Answer:   "L'adhésion se fait en ligne ou au siège; munissez-vous de votre registre de commerce.",
		},
		{
			Triggers: []string{"formation", "formations disponibles"},
			Answer:   "Le calendrier des formations est publié chaque trimestre dans la rubrique Activités.",
		},
		{
			Triggers: []string{"foire", "salon", "evenements"},
			Answer:   "Les foires et salons à venir sont listés dans la rubrique Activités du portail.",
		},
		{
			Triggers: []string{"attestation", "attestation d'adhesion"},
			Answer:   "Les attestations d'adhésion sont délivrées sous 48 heures sur demande écrite.",
		},
		{
			Triggers: []string{"export", "accompagnement export"},
			Answer:   "Le service appui aux entreprises accompagne les exportateurs sur rendez-vous.",
		},
		{
			Triggers: []string{"import excel", "importer un fichier"},
			Answer:   "Les imports Excel se font depuis le tableau de bord, rubrique Import de données.",
		},
	}
}
