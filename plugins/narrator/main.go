// Command narrator is an offline quest narrator served over go-plugin. It
// needs no network access and answers deterministically.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/hashicorp/go-plugin"

	narrativerpc "taskquest/internal/modules/narrative/adapter/out/rpc"
)

var personas = []narrativerpc.Persona{
	{Name: "Captain Quirk", Description: "A friendly space pirate who finds treasure in everyday chores and insists every dust bunny is a stowaway."},
	{Name: "Grandmage Pemberton", Description: "A forgetful wizard who keeps his spellbook in the fridge and rewards diligence with terrible puns."},
	{Name: "Sir Reginald Sock", Description: "A knight of the Laundry Round Table, sworn to reunite every lost sock with its partner."},
}

var hardWords = []string{"exam", "study", "taxes", "report", "move", "clean", "project", "interview", "deadline", "workout"}

type server struct{}

func (s *server) CreatePersona(_ context.Context, _ *narrativerpc.Empty) (*narrativerpc.Persona, error) {
	persona := personas[0]
	return &persona, nil
}

func (s *server) CreateTaskNarrative(_ context.Context, in *narrativerpc.NarrativeRequest) (*narrativerpc.NarrativeResponse, error) {
	task := strings.TrimSpace(in.Description)
	if task == "" {
		return nil, fmt.Errorf("quest description is empty")
	}
	teller := strings.TrimSpace(in.Persona.Name)
	if teller == "" {
		teller = personas[pick(task)].Name
	}
	story := fmt.Sprintf("%s unrolls a weathered map. \"Hero! The realm cries out: %s. Legends say none who attempted it returned unchanged.\" "+
		"Gather your courage, for glory (and a tidy conscience) awaits.", teller, task)
	return &narrativerpc.NarrativeResponse{Story: story, Points: json.Number(strconv.Itoa(score(task)))}, nil
}

// score grows with task length and with words that usually mean effort.
func score(task string) int {
	lower := strings.ToLower(task)
	points := 10 + len(strings.Fields(lower))*5
	for _, word := range hardWords {
		if strings.Contains(lower, word) {
			points += 20
		}
	}
	if points > 100 {
		points = 100
	}
	return points
}

func pick(task string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(task))
	return int(h.Sum32() % uint32(len(personas)))
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: narrativerpc.HandshakeConfig,
		Plugins:         narrativerpc.PluginMap(&server{}),
		GRPCServer:      plugin.DefaultGRPCServer,
	})
}
