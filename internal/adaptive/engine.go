// Package adaptive implements the adaptive difficulty engine: a rolling
// ability estimate over recent answers and a probability distribution used
// to pick the difficulty of upcoming questions.
package adaptive

import (
	"context"
	"encoding/json"
	"math"
	"sync"

	"github.com/quantum-quiz/backend/internal/logger"
	"github.com/quantum-quiz/backend/internal/models"
	"github.com/quantum-quiz/backend/internal/random"
	"github.com/quantum-quiz/backend/internal/storage"
)

// StorageKey is the key the engine persists its full state under.
const StorageKey = "quantum_quiz_adaptive"

// Ability estimates are kept away from the extremes so a short streak can
// never pin the learner to 0 or 1.
const (
	minAbility = 0.1
	maxAbility = 0.9
)

// Config holds the engine's tuning constants. Zero values are replaced by
// DefaultConfig at construction.
type Config struct {
	// WindowSize is the rolling-window length used for short-term
	// performance. Twice this many answers are retained in history.
	WindowSize int
	// IncreaseIfAbove and DecreaseIfBelow are success-rate cutoffs over the
	// rolling window that push the distribution harder or easier.
	IncreaseIfAbove float64
	DecreaseIfBelow float64
	// DifficultyWeights weight correctness by tier when updating ability.
	DifficultyWeights map[models.Difficulty]float64
	// DefaultProbabilities is the cold-start selection distribution.
	DefaultProbabilities map[models.Difficulty]float64
	// LearningRate is the exponential-smoothing factor for ability updates.
	LearningRate float64
	// InitialAbility is the estimate assigned before any answers are seen.
	InitialAbility float64
}

// DefaultConfig returns the tuning used by the production quiz.
func DefaultConfig() Config {
	return Config{
		WindowSize:      5,
		IncreaseIfAbove: 0.8,
		DecreaseIfBelow: 0.4,
		DifficultyWeights: map[models.Difficulty]float64{
			models.DifficultyEasy:   1.0,
			models.DifficultyMedium: 1.5,
			models.DifficultyHard:   2.0,
		},
		DefaultProbabilities: map[models.Difficulty]float64{
			models.DifficultyEasy:   0.33,
			models.DifficultyMedium: 0.34,
			models.DifficultyHard:   0.33,
		},
		LearningRate:   0.15,
		InitialAbility: 0.5,
	}
}

// Engine owns the learner's ability state. All mutations go through the
// engine; the state is persisted after every mutation and reloaded at
// construction. Safe for concurrent use from HTTP handlers.
type Engine struct {
	mu    sync.Mutex
	cfg   Config
	state models.AbilityState
	store storage.Store
	src   random.Source
	key   string
	log   *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig overrides the default tuning constants.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg }
}

// WithSource injects the random source used for difficulty draws and
// shuffling. Tests pass a seeded source.
func WithSource(src random.Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithStorageKey overrides the persistence key.
func WithStorageKey(key string) Option {
	return func(e *Engine) { e.key = key }
}

// New creates an Engine backed by store, restoring previously persisted state
// when present. Corrupt or missing state falls back to defaults.
func New(ctx context.Context, store storage.Store, opts ...Option) *Engine {
	e := &Engine{
		cfg:   DefaultConfig(),
		store: store,
		src:   random.NewSource(),
		key:   StorageKey,
		log:   logger.Default().WithPrefix("adaptive"),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = e.loadState(ctx)
	return e
}

func (e *Engine) defaultState() models.AbilityState {
	perf := make(map[models.Difficulty]models.TierCounter, len(models.Difficulties))
	for _, d := range models.Difficulties {
		perf[d] = models.TierCounter{}
	}
	return models.AbilityState{
		RecentAnswers:           []models.AnswerEvent{},
		EstimatedAbility:        e.cfg.InitialAbility,
		SelectionProbabilities:  copyProbs(e.cfg.DefaultProbabilities),
		PerformanceByDifficulty: perf,
		PerformanceByChapter:    map[string]models.TierCounter{},
		Enabled:                 false,
	}
}

func (e *Engine) loadState(ctx context.Context) models.AbilityState {
	state := e.defaultState()

	raw, err := e.store.Load(ctx, e.key)
	if err != nil {
		if err != storage.ErrNotFound {
			e.log.Warn("failed to load state, using defaults: %v", err)
		}
		return state
	}

	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		e.log.Warn("corrupt persisted state, using defaults: %v", err)
		return e.defaultState()
	}

	// Persisted state may predate some fields; restore map defaults so the
	// update paths never hit a nil map.
	if state.SelectionProbabilities == nil {
		state.SelectionProbabilities = copyProbs(e.cfg.DefaultProbabilities)
	}
	if state.PerformanceByDifficulty == nil {
		state.PerformanceByDifficulty = e.defaultState().PerformanceByDifficulty
	}
	if state.PerformanceByChapter == nil {
		state.PerformanceByChapter = map[string]models.TierCounter{}
	}
	if state.RecentAnswers == nil {
		state.RecentAnswers = []models.AnswerEvent{}
	}
	return state
}

func (e *Engine) persist(ctx context.Context) {
	raw, err := json.Marshal(e.state)
	if err != nil {
		e.log.Error("failed to serialize state: %v", err)
		return
	}
	if err := e.store.Save(ctx, e.key, string(raw)); err != nil {
		// In-memory state stays authoritative for the session.
		e.log.Warn("failed to persist state: %v", err)
	}
}

// Enabled reports whether adaptive mode is active.
func (e *Engine) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Enabled
}

// SetEnabled toggles adaptive mode and persists the flag.
func (e *Engine) SetEnabled(ctx context.Context, enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Enabled = enabled
	e.persist(ctx)
}

// RecordAnswer folds one answer observation into the model: history,
// per-difficulty and per-chapter counters, ability estimate, and selection
// probabilities. Unknown difficulties are tolerated and simply not counted.
func (e *Engine) RecordAnswer(ctx context.Context, event models.AnswerEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.RecentAnswers = append(e.state.RecentAnswers, event)
	if max := e.cfg.WindowSize * 2; len(e.state.RecentAnswers) > max {
		e.state.RecentAnswers = e.state.RecentAnswers[len(e.state.RecentAnswers)-max:]
	}

	if counter, ok := e.state.PerformanceByDifficulty[event.Difficulty]; ok {
		counter.Total++
		if event.IsCorrect {
			counter.Correct++
		}
		e.state.PerformanceByDifficulty[event.Difficulty] = counter
	}

	if event.ChapterID != "" {
		counter := e.state.PerformanceByChapter[event.ChapterID]
		counter.Total++
		if event.IsCorrect {
			counter.Correct++
		}
		e.state.PerformanceByChapter[event.ChapterID] = counter
	}

	e.updateAbilityEstimate()
	e.updateSelectionProbabilities()
	e.persist(ctx)
}

func (e *Engine) recentWindow() []models.AnswerEvent {
	answers := e.state.RecentAnswers
	if len(answers) > e.cfg.WindowSize {
		answers = answers[len(answers)-e.cfg.WindowSize:]
	}
	return answers
}

// updateAbilityEstimate smooths the difficulty-weighted success rate of the
// rolling window into the ability estimate.
func (e *Engine) updateAbilityEstimate() {
	recent := e.recentWindow()
	if len(recent) == 0 {
		return
	}

	var weightedScore, totalWeight float64
	for _, answer := range recent {
		weight, ok := e.cfg.DifficultyWeights[answer.Difficulty]
		if !ok {
			weight = 1
		}
		totalWeight += weight
		if answer.IsCorrect {
			weightedScore += weight
		}
	}

	recentPerformance := 0.5
	if totalWeight > 0 {
		recentPerformance = weightedScore / totalWeight
	}

	ability := e.state.EstimatedAbility*(1-e.cfg.LearningRate) + recentPerformance*e.cfg.LearningRate
	e.state.EstimatedAbility = clamp(ability, minAbility, maxAbility)
}

// updateSelectionProbabilities recomputes the tier distribution from the
// rolling window's success rate, normalized to sum to 1.
func (e *Engine) updateSelectionProbabilities() {
	recent := e.recentWindow()
	if len(recent) < 3 {
		// Not enough signal yet, stay on the cold-start distribution.
		e.state.SelectionProbabilities = copyProbs(e.cfg.DefaultProbabilities)
		return
	}

	correct := 0
	for _, answer := range recent {
		if answer.IsCorrect {
			correct++
		}
	}
	successRate := float64(correct) / float64(len(recent))
	ability := e.state.EstimatedAbility

	var probs map[models.Difficulty]float64
	switch {
	case successRate >= e.cfg.IncreaseIfAbove:
		probs = map[models.Difficulty]float64{
			models.DifficultyEasy:   0.1,
			models.DifficultyMedium: 0.3,
			models.DifficultyHard:   0.6,
		}
	case successRate <= e.cfg.DecreaseIfBelow:
		probs = map[models.Difficulty]float64{
			models.DifficultyEasy:   0.6,
			models.DifficultyMedium: 0.3,
			models.DifficultyHard:   0.1,
		}
	default:
		probs = map[models.Difficulty]float64{
			models.DifficultyEasy:   math.Max(0.1, 0.4-ability*0.3),
			models.DifficultyMedium: 0.4,
			models.DifficultyHard:   math.Max(0.1, 0.2+ability*0.3),
		}
	}

	sum := probs[models.DifficultyEasy] + probs[models.DifficultyMedium] + probs[models.DifficultyHard]
	for d := range probs {
		probs[d] /= sum
	}
	e.state.SelectionProbabilities = probs
}

// SelectDifficulty draws the tier for the next question. When adaptive mode
// is off the draw uses a fixed 33/33/34 split, deliberately distinct from
// the cold-start 33/34/33 defaults.
func (e *Engine) SelectDifficulty() models.Difficulty {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectDifficultyLocked()
}

func (e *Engine) selectDifficultyLocked() models.Difficulty {
	r := e.src.Float64()

	if !e.state.Enabled {
		if r < 0.33 {
			return models.DifficultyEasy
		}
		if r < 0.66 {
			return models.DifficultyMedium
		}
		return models.DifficultyHard
	}

	probs := e.state.SelectionProbabilities
	if r < probs[models.DifficultyEasy] {
		return models.DifficultyEasy
	}
	if r < probs[models.DifficultyEasy]+probs[models.DifficultyMedium] {
		return models.DifficultyMedium
	}
	return models.DifficultyHard
}

// Fallback order when the drawn tier has no questions left.
var fallbackOrder = []models.Difficulty{models.DifficultyMedium, models.DifficultyEasy, models.DifficultyHard}

// SelectQuestions picks count questions from pool following the current
// selection distribution. With adaptive mode off, or a pool no larger than
// count, it degrades to a plain shuffled truncation. The result is shuffled
// so tier-draw order is not observable.
func (e *Engine) SelectQuestions(pool []models.Question, count int) []models.Question {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.Enabled || len(pool) <= count {
		shuffled := random.Shuffle(e.src, pool)
		if len(shuffled) > count {
			shuffled = shuffled[:count]
		}
		return shuffled
	}

	byDifficulty := make(map[models.Difficulty][]models.Question, len(models.Difficulties))
	for _, d := range models.Difficulties {
		var tier []models.Question
		for _, q := range pool {
			if q.Difficulty == d {
				tier = append(tier, q)
			}
		}
		byDifficulty[d] = random.Shuffle(e.src, tier)
	}

	selected := make([]models.Question, 0, count)
	for i := 0; i < count; i++ {
		target := e.selectDifficultyLocked()
		if len(byDifficulty[target]) == 0 {
			target = ""
			for _, d := range fallbackOrder {
				if len(byDifficulty[d]) > 0 {
					target = d
					break
				}
			}
			if target == "" {
				break
			}
		}
		selected = append(selected, byDifficulty[target][0])
		byDifficulty[target] = byDifficulty[target][1:]
	}

	return random.Shuffle(e.src, selected)
}

// Stats returns a read-only percentage snapshot for the UI.
func (e *Engine) Stats() models.AdaptiveStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	recent := e.recentWindow()
	correct := 0
	for _, answer := range recent {
		if answer.IsCorrect {
			correct++
		}
	}
	successRate := 0
	if len(recent) > 0 {
		successRate = roundPercent(float64(correct) / float64(len(recent)))
	}

	probs := make(map[models.Difficulty]int, len(e.state.SelectionProbabilities))
	for d, p := range e.state.SelectionProbabilities {
		probs[d] = roundPercent(p)
	}

	perf := make(map[models.Difficulty]int, len(e.state.PerformanceByDifficulty))
	for d, counter := range e.state.PerformanceByDifficulty {
		if counter.Total > 0 {
			perf[d] = roundPercent(float64(counter.Correct) / float64(counter.Total))
		} else {
			perf[d] = 0
		}
	}

	return models.AdaptiveStats{
		Enabled:                 e.state.Enabled,
		EstimatedAbility:        roundPercent(e.state.EstimatedAbility),
		RecentSuccessRate:       successRate,
		SelectionProbabilities:  probs,
		PerformanceByDifficulty: perf,
		TotalAnswers:            len(e.state.RecentAnswers),
	}
}

// Recommendation maps the ability estimate onto a study-level suggestion.
func (e *Engine) Recommendation() models.Recommendation {
	e.mu.Lock()
	ability := e.state.EstimatedAbility
	e.mu.Unlock()

	switch {
	case ability >= 0.7:
		return models.Recommendation{
			Level:      "advanced",
			Message:    "Excellent level! You have a solid grasp of the concepts.",
			Suggestion: "Try the hard questions to challenge yourself.",
		}
	case ability >= 0.5:
		return models.Recommendation{
			Level:      "intermediate",
			Message:    "Good level! Keep making progress.",
			Suggestion: "Mix difficulties to consolidate what you have learned.",
		}
	case ability >= 0.3:
		return models.Recommendation{
			Level:      "beginner",
			Message:    "You are progressing! Keep at it.",
			Suggestion: "Focus on the easy and medium questions.",
		}
	default:
		return models.Recommendation{
			Level:      "review",
			Message:    "Some revision would help.",
			Suggestion: "Reread the course material and start with the easy questions.",
		}
	}
}

// SelectionProbabilities returns a copy of the current tier distribution.
func (e *Engine) SelectionProbabilities() map[models.Difficulty]float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return copyProbs(e.state.SelectionProbabilities)
}

// State returns a deep copy of the full ability state.
func (e *Engine) State() models.AbilityState {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := e.state
	state.RecentAnswers = append([]models.AnswerEvent{}, e.state.RecentAnswers...)
	state.SelectionProbabilities = copyProbs(e.state.SelectionProbabilities)
	state.PerformanceByDifficulty = make(map[models.Difficulty]models.TierCounter, len(e.state.PerformanceByDifficulty))
	for d, c := range e.state.PerformanceByDifficulty {
		state.PerformanceByDifficulty[d] = c
	}
	state.PerformanceByChapter = make(map[string]models.TierCounter, len(e.state.PerformanceByChapter))
	for ch, c := range e.state.PerformanceByChapter {
		state.PerformanceByChapter[ch] = c
	}
	return state
}

// Reset restores the default state while preserving the enabled flag.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	enabled := e.state.Enabled
	e.state = e.defaultState()
	e.state.Enabled = enabled
	e.persist(ctx)
}

func copyProbs(src map[models.Difficulty]float64) map[models.Difficulty]float64 {
	out := make(map[models.Difficulty]float64, len(src))
	for d, p := range src {
		out[d] = p
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundPercent(v float64) int {
	return int(math.Round(v * 100))
}
