package dto

type PersonaOutput struct {
	Name        string
	Description string
}

type NarrateInput struct {
	Description string
	Persona     PersonaOutput
}

type NarrateOutput struct {
	Story  string
	Points int
	// Clamped reports that the narrator's score was outside [10, 100].
	Clamped bool
}
