// Copyright (c) 2025 The campusvote authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Class year levels (1-5)
const (
	ClassL1 = 1
	ClassL2 = 2
	ClassL3 = 3
	ClassM1 = 4
	ClassM2 = 5
)

// Program codes
const (
	ProgramInfo  = "INFO"
	ProgramSA    = "SA"
	ProgramEco   = "ECO"
	ProgramLEA   = "LEA"
	ProgramST    = "ST"
	ProgramDroit = "DROIT"
)

// Activity tags
const (
	ActivityDanse  = "DANSE"
	ActivitySport  = "SPORT"
	ActivityChant  = "CHANT"
	ActivityDessin = "DESSIN"
	ActivitySlam   = "SLAM"
)

// Sport subtypes (meaningful only when SPORT is among a voter's activities)
const (
	SportFoot   = "FOOT"
	SportBasket = "BASKET"
	SportVolley = "VOLLEY"
	SportPet    = "PET"
)

var classLabels = map[int]string{
	ClassL1: "L1",
	ClassL2: "L2",
	ClassL3: "L3",
	ClassM1: "M1",
	ClassM2: "M2",
}

var programLabels = map[string]string{
	ProgramInfo:  "Informatique",
	ProgramSA:    "Sciences Agronomiques",
	ProgramEco:   "Économie et Commerce",
	ProgramLEA:   "Langues Étrangères Appliquées",
	ProgramST:    "Sciences de la Terre",
	ProgramDroit: "Droit",
}

var validActivities = map[string]bool{
	ActivityDanse:  true,
	ActivitySport:  true,
	ActivityChant:  true,
	ActivityDessin: true,
	ActivitySlam:   true,
}

var validSportTypes = map[string]bool{
	SportFoot:   true,
	SportBasket: true,
	SportVolley: true,
	SportPet:    true,
}

// ValidClassYear reports whether c is one of the five class year levels.
func ValidClassYear(c int) bool {
	_, ok := classLabels[c]
	return ok
}

// ValidProgram reports whether p is a known program code.
func ValidProgram(p string) bool {
	_, ok := programLabels[p]
	return ok
}

// ValidActivity reports whether a is a known activity tag.
func ValidActivity(a string) bool {
	return validActivities[a]
}

// ValidSportType reports whether s is a known sport subtype.
func ValidSportType(s string) bool {
	return validSportTypes[s]
}

// ClassLabel returns the display label for a class year ("L1".."M2").
func ClassLabel(c int) string {
	if label, ok := classLabels[c]; ok {
		return label
	}
	return "Inconnu"
}

// ProgramLabel returns the display label for a program code.
func ProgramLabel(p string) string {
	if label, ok := programLabels[p]; ok {
		return label
	}
	return "Inconnu"
}
