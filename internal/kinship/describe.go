package kinship

import (
	"fmt"
	"strings"
)

// Describe renders a resolved relationship as a sentence, e.g.
// "Jane is the first cousin of Bob" or "Jane is the step-grandmother of
// Tom". Wording is directionally correct: the label in r already encodes
// a's relationship to b, and a's sex picks gendered terms where known.
// Describe is stateless and never fails; a nil or unrelated result renders
// as "not related".
func Describe(a, b Person, r *Result) string {
	if r == nil || r.Label == LabelUnrelated {
		return fmt.Sprintf("%s and %s are not related", a.Name, b.Name)
	}

	switch r.Label {
	case labelGuardianship:
		return fmt.Sprintf("%s and %s are connected through guardianship", a.Name, b.Name)
	case labelExtended:
		return fmt.Sprintf("%s and %s are connected through an extended family line", a.Name, b.Name)
	}

	return fmt.Sprintf("%s is the %s of %s", a.Name, term(r, a.Sex), b.Name)
}

// genderedTerms maps base labels to female/male/neutral wording.
var genderedTerms = map[string][3]string{
	LabelParent:    {"mother", "father", "parent"},
	LabelChild:     {"daughter", "son", "child"},
	"grandparent":  {"grandmother", "grandfather", "grandparent"},
	"grandchild":   {"granddaughter", "grandson", "grandchild"},
	LabelSibling:   {"sister", "brother", "sibling"},
	LabelAuntUncle: {"aunt", "uncle", "aunt or uncle"},
	LabelNephew:    {"niece", "nephew", "niece or nephew"},
	LabelSpouse:    {"wife", "husband", "spouse"},
	LabelPartner:   {"partner", "partner", "partner"},
	LabelGuardian:  {"guardian", "guardian", "guardian"},
	LabelWard:      {"ward", "ward", "ward"},
	labelCoParent:  {"co-parent", "co-parent", "co-parent"},
}

// term spells out a result label in natural language, applying gender,
// great/step/adoptive/foster prefixes, in-law suffixes, and cousin removal.
func term(r *Result, sex string) string {
	label := r.Label

	inLaw := strings.HasSuffix(label, "_in_law")
	label = strings.TrimSuffix(label, "_in_law")

	var prefix string

	switch {
	case strings.HasPrefix(label, "step_"):
		prefix = "step-"
		label = strings.TrimPrefix(label, "step_")
	case strings.HasPrefix(label, "adoptive_"):
		prefix = "adoptive "
		label = strings.TrimPrefix(label, "adoptive_")
	case strings.HasPrefix(label, "foster_"):
		prefix = "foster "
		label = strings.TrimPrefix(label, "foster_")
	}

	var greats int
	for strings.HasPrefix(label, "great_") {
		greats++
		label = strings.TrimPrefix(label, "great_")
	}

	base := genderTerm(label, sex)
	out := prefix + strings.Repeat("great-", greats) + base

	if inLaw {
		out += "-in-law"
	}

	if strings.HasSuffix(label, "_cousin") && r.Removal > 0 {
		out += " " + removalPhrase(r.Removal)
	}

	return out
}

// genderTerm picks the gendered spelling of a base label, falling back to
// the label itself with underscores spelled out (cousin ordinals).
func genderTerm(label, sex string) string {
	if terms, ok := genderedTerms[label]; ok {
		switch sex {
		case "female":
			return terms[0]
		case "male":
			return terms[1]
		default:
			return terms[2]
		}
	}

	return strings.ReplaceAll(label, "_", " ")
}

// removalPhrase spells out a cousin removal count.
func removalPhrase(removal int) string {
	switch removal {
	case 1:
		return "once removed"
	case 2:
		return "twice removed"
	default:
		return fmt.Sprintf("%d times removed", removal)
	}
}
