package world

import (
	"fmt"
	"sort"

	C "github.com/cfoust/rando/pkg/game/constants"

	"github.com/repeale/fp-go"
)

// Abilities lists every ability the molehills teach in the unmodified
// game, in molehill order.
func (m *Model) Abilities() []C.Ability {
	return fp.Map(func(molehill Molehill) C.Ability {
		return molehill.Ability
	})(m.Molehills(m.WorldLevels()))
}

// slotsTaught counts the molehills in the first n levels of the order.
func (m *Model) slotsTaught(order []LevelID, n int) int {
	if n > len(order) {
		n = len(order)
	}
	return len(m.Molehills(order[:n]))
}

// AcceptsOrder checks that every prefix of the order a gate closes has
// enough molehills to teach all of the abilities due by then.
func (m *Model) AcceptsOrder(order []LevelID) bool {
	for _, gate := range m.Gates {
		due := 0
		for _, other := range m.Gates {
			if other.Level <= gate.Level {
				due++
			}
		}

		if m.slotsTaught(order, gate.Level) < due {
			return false
		}
	}
	return true
}

// AcceptsMolehills checks an assignment of abilities to the molehills of
// the order, as flattened by Molehills.
func (m *Model) AcceptsMolehills(order []LevelID, abilities []C.Ability) bool {
	for _, gate := range m.Gates {
		prefix := m.slotsTaught(order, gate.Level)
		if prefix > len(abilities) {
			return false
		}

		if !fp.Some(func(ability C.Ability) bool {
			return ability == gate.Ability
		})(abilities[:prefix]) {
			return false
		}
	}
	return true
}

// DeriveGates computes the gates from the lair graph: for every ability the
// molehills teach, the first position in the order whose hub slot cannot
// be entered without it.
func (m *Model) DeriveGates() ([]Gate, error) {
	inventory := m.Graph.Everything(m.Abilities()...)
	gates := make([]Gate, 0)
	seen := make(map[C.Ability]bool)

	for k, slot := range m.WorldLevels() {
		target := m.Level(slot).Maps[0]
		required, err := m.Graph.Requires(target, inventory)
		if err != nil {
			return nil, fmt.Errorf("hub slot of %s: %w", m.Level(slot), err)
		}

		for _, ability := range required {
			if seen[ability] {
				continue
			}
			seen[ability] = true
			gates = append(gates, Gate{Level: k, Ability: ability})
		}
	}

	sort.SliceStable(gates, func(i, j int) bool {
		return gates[i].Level < gates[j].Level
	})

	return gates, nil
}

// CheckReachable walks the order and verifies that each hub slot can be
// entered with only what the levels before it teach. abilities is the
// molehill assignment as flattened by Molehills.
func (m *Model) CheckReachable(order []LevelID, abilities []C.Ability) error {
	slots := m.WorldLevels()
	if len(order) != len(slots) {
		return fmt.Errorf("order has %d levels, expected %d", len(order), len(slots))
	}

	for k, slot := range slots {
		prefix := m.slotsTaught(order, k)
		if prefix > len(abilities) {
			return fmt.Errorf("order teaches %d abilities, got %d", prefix, len(abilities))
		}

		inventory := m.Graph.Everything(abilities[:prefix]...)
		target := m.Level(slot).Maps[0]
		if !m.Graph.Reachable(inventory)[target] {
			return fmt.Errorf(
				"%s (slot of %s) cannot be reached with %v",
				m.Level(order[k]),
				m.Level(slot),
				abilities[:prefix],
			)
		}
	}

	return nil
}
