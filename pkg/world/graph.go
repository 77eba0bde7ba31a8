package world

import (
	"fmt"
	"sort"

	C "github.com/cfoust/rando/pkg/game/constants"

	"gopkg.in/yaml.v3"
)

type Transformation string

// Flag is a file progress flag, like a switch that has been pressed.
type Flag string

// Requirement is one condition on a path. Exactly one field is set.
type Requirement struct {
	Ability        *C.Ability     `yaml:"ability,omitempty"`
	Transformation Transformation `yaml:"transformation,omitempty"`
	Flag           Flag           `yaml:"flag,omitempty"`
}

func (r Requirement) String() string {
	switch {
	case r.Ability != nil:
		return r.Ability.String()
	case r.Transformation != "":
		return string(r.Transformation)
	}
	return string(r.Flag)
}

type Destination struct {
	To       string        `yaml:"to"`
	Requires []Requirement `yaml:"requires"`
}

// UnmarshalYAML also accepts a bare map name for paths without
// requirements.
func (d *Destination) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.To = node.Value
		return nil
	}

	type plain Destination
	return node.Decode((*plain)(d))
}

// State is the player standing in Map having come in from From. Which paths
// are open depends on both.
type State struct {
	Map  string `yaml:"map"`
	From string `yaml:"from"`
}

type Graph struct {
	Start State `yaml:"start"`
	// map -> entrance -> destinations
	Maps map[string]map[string][]Destination `yaml:"maps"`
}

type Inventory struct {
	Abilities       map[C.Ability]bool
	Transformations map[Transformation]bool
	Flags           map[Flag]bool
}

func NewInventory(abilities ...C.Ability) Inventory {
	inventory := Inventory{
		Abilities:       make(map[C.Ability]bool),
		Transformations: make(map[Transformation]bool),
		Flags:           make(map[Flag]bool),
	}

	for _, ability := range abilities {
		inventory.Abilities[ability] = true
	}

	return inventory
}

func (i Inventory) Satisfies(requirement Requirement) bool {
	switch {
	case requirement.Ability != nil:
		return i.Abilities[*requirement.Ability]
	case requirement.Transformation != "":
		return i.Transformations[requirement.Transformation]
	}
	return i.Flags[requirement.Flag]
}

func (i Inventory) clone() Inventory {
	other := NewInventory()
	for key, value := range i.Abilities {
		other.Abilities[key] = value
	}
	for key, value := range i.Transformations {
		other.Transformations[key] = value
	}
	for key, value := range i.Flags {
		other.Flags[key] = value
	}
	return other
}

func ParseGraph(data []byte) (*Graph, error) {
	var graph Graph
	err := yaml.Unmarshal(data, &graph)
	if err != nil {
		return nil, fmt.Errorf("invalid lair graph: %w", err)
	}

	err = graph.validate()
	if err != nil {
		return nil, err
	}

	return &graph, nil
}

// Every path has to arrive through an entrance the target knows about.
func (g *Graph) validate() error {
	if _, ok := g.Maps[g.Start.Map][g.Start.From]; !ok {
		return fmt.Errorf("start %s from %s is not an entrance", g.Start.Map, g.Start.From)
	}

	for name, entrances := range g.Maps {
		for from, paths := range entrances {
			for _, path := range paths {
				if _, ok := g.Maps[path.To][name]; !ok {
					return fmt.Errorf(
						"%s (from %s) leads to %s, which has no entrance from %s",
						name,
						from,
						path.To,
						name,
					)
				}

				for _, requirement := range path.Requires {
					set := 0
					if requirement.Ability != nil {
						set++
					}
					if requirement.Transformation != "" {
						set++
					}
					if requirement.Flag != "" {
						set++
					}

					if set != 1 {
						return fmt.Errorf("%s to %s has a malformed requirement", name, path.To)
					}
				}
			}
		}
	}

	return nil
}

func (g *Graph) Has(name string) bool {
	_, ok := g.Maps[name]
	return ok
}

func (g *Graph) open(path Destination, inventory Inventory) bool {
	for _, requirement := range path.Requires {
		if !inventory.Satisfies(requirement) {
			return false
		}
	}
	return true
}

// Reachable is every map the player can get to from the start with the
// given inventory.
func (g *Graph) Reachable(inventory Inventory) map[string]bool {
	visited := map[State]bool{g.Start: true}
	maps := map[string]bool{g.Start.Map: true}
	queue := []State{g.Start}

	for len(queue) > 0 {
		state := queue[0]
		queue = queue[1:]

		for _, path := range g.Maps[state.Map][state.From] {
			if !g.open(path, inventory) {
				continue
			}

			next := State{Map: path.To, From: state.Map}
			if visited[next] {
				continue
			}

			visited[next] = true
			maps[next.Map] = true
			queue = append(queue, next)
		}
	}

	return maps
}

// Everything is an inventory with every transformation and flag the graph
// mentions, plus the given abilities.
func (g *Graph) Everything(abilities ...C.Ability) Inventory {
	inventory := NewInventory(abilities...)
	for _, entrances := range g.Maps {
		for _, paths := range entrances {
			for _, path := range paths {
				for _, requirement := range path.Requires {
					if requirement.Transformation != "" {
						inventory.Transformations[requirement.Transformation] = true
					}
					if requirement.Flag != "" {
						inventory.Flags[requirement.Flag] = true
					}
				}
			}
		}
	}
	return inventory
}

// Requires lists the abilities of the inventory that target cannot be
// reached without. It fails if target is not reachable at all.
func (g *Graph) Requires(target string, inventory Inventory) ([]C.Ability, error) {
	if !g.Reachable(inventory)[target] {
		return nil, fmt.Errorf("%s is not reachable", target)
	}

	required := make([]C.Ability, 0)
	for ability, ok := range inventory.Abilities {
		if !ok {
			continue
		}

		without := inventory.clone()
		delete(without.Abilities, ability)
		if !g.Reachable(without)[target] {
			required = append(required, ability)
		}
	}

	sort.Slice(required, func(i, j int) bool {
		return required[i] < required[j]
	})
	return required, nil
}
