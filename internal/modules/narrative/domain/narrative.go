package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

const (
	MinPoints = 10
	MaxPoints = 100
)

// Character is the quest giver narrating every task of a session.
type Character struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Narrative struct {
	Story  string
	Points int
}

// PersonaPayload is the raw persona shape a narrator returns.
type PersonaPayload struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// NarrativePayload is the raw story shape a narrator returns. Points stays a
// json.Number so a missing field and a non-integer are both detectable.
type NarrativePayload struct {
	Story  string      `json:"story" validate:"required"`
	Points json.Number `json:"points" validate:"required"`
}

type NarrativeRequest struct {
	Description string
	Persona     Character
}

// IntPoints reads Points as an integer. Integral floats such as 40.0 pass;
// values beyond the int range saturate so clamping still picks the right end.
func (p NarrativePayload) IntPoints() (int, error) {
	if n, err := p.Points.Int64(); err == nil {
		return int(n), nil
	}
	f, err := p.Points.Float64()
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("points %q is not an integer", p.Points.String())
	}
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt, nil
	case f <= math.MinInt64:
		return math.MinInt, nil
	}
	return int(f), nil
}

func ClampPoints(points int) int {
	if points < MinPoints {
		return MinPoints
	}
	if points > MaxPoints {
		return MaxPoints
	}
	return points
}

const PersonaPrompt = "Create a fun and quirky character profile for a task completion app. The character is a quest giver. " +
	"Provide a name and a short, one-paragraph description. " +
	"Example: 'Captain Quirk, a friendly space pirate who finds treasure in everyday chores.' " +
	`Respond with only a JSON object of the form {"name": string, "description": string}.`

// QuestPrompt asks persona to turn description into a short story with a
// difficulty score.
func QuestPrompt(description string, persona Character) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a quest giver. Your personality is: %q. ", persona.Name, persona.Description)
	fmt.Fprintf(&b, "A hero has a new quest: %q. ", description)
	b.WriteString("Turn this mundane task into a short, epic, and fun story to motivate the hero. Keep it to 1-2 witty paragraphs. ")
	b.WriteString("Also, assign a point value for this quest based on its perceived difficulty, from 10 to 100. ")
	b.WriteString("A simple task like 'do laundry' should be low points, while 'study for an exam' should be high. ")
	b.WriteString(`Respond with only a JSON object of the form {"story": string, "points": integer}.`)
	return b.String()
}
