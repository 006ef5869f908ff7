package out

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	narrativerpc "taskquest/internal/modules/narrative/adapter/out/rpc"
	"taskquest/internal/modules/narrative/domain"
	narrativeout "taskquest/internal/modules/narrative/port/out"
)

const defaultStartTimeout = 3 * time.Second

// PluginNarrator launches an external narrator binary per call.
type PluginNarrator struct {
	binary string
	logOut io.Writer
}

func NewPluginNarrator(binary string, logOut io.Writer) narrativeout.Narrator {
	if logOut == nil {
		logOut = io.Discard
	}
	return &PluginNarrator{binary: binary, logOut: logOut}
}

func (n *PluginNarrator) Name() string { return "plugin" }

func (n *PluginNarrator) CreatePersona(ctx context.Context) (domain.PersonaPayload, error) {
	client, closeFn, err := n.connect()
	if err != nil {
		return domain.PersonaPayload{}, err
	}
	defer closeFn()

	persona, err := client.CreatePersona(ctx)
	if err != nil {
		return domain.PersonaPayload{}, fmt.Errorf("create persona: %w", err)
	}
	return domain.PersonaPayload{Name: persona.Name, Description: persona.Description}, nil
}

func (n *PluginNarrator) CreateTaskNarrative(ctx context.Context, req domain.NarrativeRequest) (domain.NarrativePayload, error) {
	client, closeFn, err := n.connect()
	if err != nil {
		return domain.NarrativePayload{}, err
	}
	defer closeFn()

	response, err := client.CreateTaskNarrative(ctx, &narrativerpc.NarrativeRequest{
		Description: req.Description,
		Persona: narrativerpc.Persona{
			Name:        req.Persona.Name,
			Description: req.Persona.Description,
		},
	})
	if err != nil {
		return domain.NarrativePayload{}, fmt.Errorf("create narrative: %w", err)
	}
	return domain.NarrativePayload{Story: response.Story, Points: response.Points}, nil
}

func (n *PluginNarrator) connect() (narrativerpc.NarratorClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  narrativerpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          narrativerpc.PluginMap(nil),
		Cmd:              exec.Command(n.binary),
		Managed:          true,
		StartTimeout:     defaultStartTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Name: "narrator", Output: n.logOut, Level: hclog.Warn}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start narrator plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(narrativerpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense narrator: %w", err)
	}
	typed, ok := raw.(narrativerpc.NarratorClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("narrator rpc client type mismatch")
	}
	return typed, closeFn, nil
}
