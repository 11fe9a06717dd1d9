package games

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/fairlab/outcome-engine/internal/engine"
)

// Seeds aliases the engine seed material so callers only import games.
type Seeds = engine.Seeds

// GameResult is the raw outcome of a single evaluation. Metric is the
// scalar the verifier compares; Details carries the full game-specific
// outcome for persistence and display.
type GameResult struct {
	Metric      float64        `json:"metric"`
	MetricLabel string         `json:"metric_label"`
	Details     map[string]any `json:"details,omitempty"`
}

// GameSpec describes a registered game.
type GameSpec struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Tag         string `json:"tag"` // mixed into the cursor-zero HMAC message
	MetricLabel string `json:"metric_label"`
	// Continuous reports whether the metric is a continuous multiplier,
	// which verification compares within an epsilon instead of exactly.
	Continuous bool `json:"continuous"`
}

// Game is a pure outcome deriver: identical inputs always produce the
// identical result, and no state is retained between evaluations.
type Game interface {
	Spec() GameSpec

	// FloatCount returns how many normalized floats one evaluation consumes.
	FloatCount(params map[string]any) int

	// Evaluate derives the byte stream for (seeds, nonce) and maps it to a
	// game outcome.
	Evaluate(seeds Seeds, nonce uint64, params map[string]any) (GameResult, error)
}

var registry = map[string]Game{}

// Register adds a game to the registry. Duplicate IDs are a programming
// error and panic at init time.
func Register(game Game) {
	id := game.Spec().ID
	if _, exists := registry[id]; exists {
		panic(fmt.Sprintf("game %q registered twice", id))
	}
	registry[id] = game
}

// Get retrieves a game by ID.
func Get(id string) (Game, bool) {
	game, exists := registry[id]
	return game, exists
}

// List returns the specs of all registered games sorted by ID.
func List() []GameSpec {
	specs := make([]GameSpec, 0, len(registry))
	for _, game := range registry {
		specs = append(specs, game.Spec())
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].ID < specs[j].ID })
	return specs
}

func init() {
	Register(&DiceGame{})
	Register(&LimboGame{})
	Register(&PlinkoGame{})
	Register(&MinesGame{})
	Register(&BlackjackGame{})
}

// intParam coerces a JSON-decoded parameter into an int. Request bodies
// arrive as float64, internal callers pass int.
func intParam(params map[string]any, key string) (int, bool, error) {
	if params == nil {
		return 0, false, nil
	}
	raw, ok := params[key]
	if !ok {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		if math.Mod(v, 1) != 0 {
			return 0, false, fmt.Errorf("%s must be an integer, got %f", key, v)
		}
		return int(v), true, nil
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, false, fmt.Errorf("invalid %s value %q", key, v)
		}
		return parsed, true, nil
	default:
		return 0, false, fmt.Errorf("unsupported type for %s: %T", key, raw)
	}
}

// floatParam coerces a JSON-decoded parameter into a float64.
func floatParam(params map[string]any, key string) (float64, bool, error) {
	if params == nil {
		return 0, false, nil
	}
	raw, ok := params[key]
	if !ok {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false, fmt.Errorf("invalid %s value %q", key, v)
		}
		return parsed, true, nil
	default:
		return 0, false, fmt.Errorf("unsupported type for %s: %T", key, raw)
	}
}
