package match

import "log/slog"

// DefaultThreshold is the admission similarity used by the scoring
// engine. The permissive 0.15 variant is appropriate when the two lists
// are known to describe the same branch population.
const (
	DefaultThreshold    = 0.3
	PermissiveThreshold = 0.15
)

// Result is the outcome of one matching run. Mapping is a partial
// injective function from feed names to registry names; residual names on
// either side are reported, not errored — an unmatched branch is an
// accepted gap, and it is simply excluded from that cycle's metrics.
type Result struct {
	Mapping           map[string]string  // feed name -> registry name
	Scores            map[string]float64 // feed name -> admitted score
	UnmatchedRegistry []string
	UnmatchedFeed     []string
}

// Matcher builds branch mappings with a greedy two-pass heuristic.
//
// The heuristic is intentionally not globally optimal: each registry
// branch greedily claims the highest-scoring unclaimed feed branch above
// the threshold, then a reverse pass runs over the leftovers. Ambiguous
// inputs can therefore miss the optimal bipartite assignment; this is the
// published behavior and must not be silently upgraded.
type Matcher struct {
	scorer    Scorer
	logger    *slog.Logger
	threshold float64
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithScorer replaces the default TokenSetScorer.
func WithScorer(s Scorer) Option {
	return func(m *Matcher) { m.scorer = s }
}

// WithLogger sets the logger used for per-decision logging.
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) { m.logger = l }
}

// NewMatcher creates a Matcher with the given admission threshold. The
// threshold is always caller-supplied; use DefaultThreshold unless the
// caller has a reason to be more permissive.
func NewMatcher(threshold float64, opts ...Option) *Matcher {
	m := &Matcher{
		threshold: threshold,
		scorer:    TokenSetScorer{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match maps feed branch names onto registry branch names. Both inputs
// are scanned in order; ties go to the earlier element. Empty inputs
// produce an empty mapping with both sides fully unmatched, never an
// error.
func (m *Matcher) Match(registry, feed []string) Result {
	res := Result{
		Mapping: make(map[string]string),
		Scores:  make(map[string]float64),
	}

	claimedFeed := make(map[string]bool, len(feed))
	claimedRegistry := make(map[string]bool, len(registry))

	feedKeys := make([]string, len(feed))
	for i, name := range feed {
		feedKeys[i] = Normalize(name)
	}

	// First pass: each registry branch claims its best unclaimed feed
	// branch. An exact canonical-key match short-circuits the scan.
	for _, regName := range registry {
		regKey := Normalize(regName)

		best := ""
		bestScore := 0.0
		for i, feedName := range feed {
			if claimedFeed[feedName] {
				continue
			}
			if regKey != "" && feedKeys[i] == regKey {
				best = feedName
				bestScore = 1.0
				break
			}
			score := m.scorer.Score(regKey, feedKeys[i])
			if score > bestScore && score > m.threshold {
				bestScore = score
				best = feedName
			}
		}

		if best == "" {
			res.UnmatchedRegistry = append(res.UnmatchedRegistry, regName)
			continue
		}
		res.Mapping[best] = regName
		res.Scores[best] = bestScore
		claimedFeed[best] = true
		claimedRegistry[regName] = true
		m.logger.Info("mapped branch",
			"feed", best, "registry", regName, "score", bestScore)
	}

	// Second pass: leftover feed branches search the leftover registry.
	for i, feedName := range feed {
		if claimedFeed[feedName] {
			continue
		}

		best := ""
		bestScore := 0.0
		for _, regName := range registry {
			if claimedRegistry[regName] {
				continue
			}
			score := m.scorer.Score(feedKeys[i], Normalize(regName))
			if score > bestScore && score > m.threshold {
				bestScore = score
				best = regName
			}
		}

		if best == "" {
			res.UnmatchedFeed = append(res.UnmatchedFeed, feedName)
			continue
		}
		res.Mapping[feedName] = best
		res.Scores[feedName] = bestScore
		claimedFeed[feedName] = true
		claimedRegistry[best] = true
		m.logger.Info("reverse mapped branch",
			"feed", feedName, "registry", best, "score", bestScore)

		// The registry name is no longer unmatched; the first pass
		// recorded it before the reverse pass ran.
		res.UnmatchedRegistry = remove(res.UnmatchedRegistry, best)
	}

	m.logger.Info("branch mapping complete",
		"mapped", len(res.Mapping),
		"unmatched_registry", len(res.UnmatchedRegistry),
		"unmatched_feed", len(res.UnmatchedFeed))

	return res
}

func remove(names []string, name string) []string {
	for i, n := range names {
		if n == name {
			return append(names[:i], names[i+1:]...)
		}
	}
	return names
}
