package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/coreframe/trnx/facade"
)

var defValidator = validator.New()

// edgeDef is one requested wire between a producer's output port and a
// consumer's input port.
type edgeDef struct {
	Producer string `json:"producer" validate:"required"`
	Out      string `json:"out" validate:"required"`
	Consumer string `json:"consumer" validate:"required"`
	In       string `json:"in" validate:"required"`
}

// graphDef is the declarative, file-based description of a graph that
// trnxctl replays through the facade on every invocation. There is no
// persisted graph state between invocations (per the engine's no
// state non-goal), so each subcommand reconstructs the graph up to the
// verb it cares about from this same file.
type graphDef struct {
	Name    string    `json:"name" validate:"required"`
	Plugins []string  `json:"plugins" validate:"dive,required"`
	Edges   []edgeDef `json:"edges" validate:"dive"`
}

func loadGraphDef(path string) (graphDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return graphDef{}, fmt.Errorf("read graph definition %q: %w", path, err)
	}
	var def graphDef
	if err := json.Unmarshal(raw, &def); err != nil {
		return graphDef{}, fmt.Errorf("parse graph definition %q: %w", path, err)
	}
	if err := defValidator.Struct(def); err != nil {
		return graphDef{}, fmt.Errorf("graph definition %q: %w", path, err)
	}
	return def, nil
}

// bootstrap replays start_new, every load_plugin, and every connect
// named by def against a freshly constructed facade, stopping there:
// callers that need build or run continue from the returned facade.
func bootstrap(def graphDef, log *logrus.Logger) (*facade.Facade, error) {
	cfg, err := facade.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	f := facade.New(cfg, log, nil)
	if err := f.StartNew(def.Name); err != nil {
		return nil, err
	}
	for _, p := range def.Plugins {
		if err := f.LoadPlugin(p); err != nil {
			return nil, fmt.Errorf("load plugin %q: %w", p, err)
		}
	}
	for _, e := range def.Edges {
		if err := f.Connect(e.Producer, e.Out, e.Consumer, e.In); err != nil {
			return nil, fmt.Errorf("connect %s.%s -> %s.%s: %w", e.Producer, e.Out, e.Consumer, e.In, err)
		}
	}
	return f, nil
}
