package packages

import (
	"sort"
	"strings"

	"houseboat/pkg/model"
	"houseboat/pkg/money"
)

const (
	// DefaultUnitCap bounds the combination size. The enumeration visits
	// C(pool, k) combinations, so k is capped at six boats.
	DefaultUnitCap = 6
	// DefaultCapacityBand is how far a package's optimal capacity may exceed
	// the guest count.
	DefaultCapacityBand = 2
	DefaultMaxResults   = 5
	// DefaultMaxPool bounds the work of one search. A pool larger than
	// MaxPool is refused with OutcomePoolTooLarge once C(pool, k) exceeds
	// C(MaxPool, UnitCap), so small k still searches big fleets.
	DefaultMaxPool = 30
)

type Config struct {
	UnitCap      int
	CapacityBand int
	MaxResults   int
	MaxPool      int
}

func DefaultConfig() Config {
	return Config{
		UnitCap:      DefaultUnitCap,
		CapacityBand: DefaultCapacityBand,
		MaxResults:   DefaultMaxResults,
		MaxPool:      DefaultMaxPool,
	}
}

func (c Config) withDefaults() Config {
	if c.UnitCap <= 0 {
		c.UnitCap = DefaultUnitCap
	}
	if c.CapacityBand < 0 {
		c.CapacityBand = DefaultCapacityBand
	}
	if c.MaxResults <= 0 {
		c.MaxResults = DefaultMaxResults
	}
	return c
}

// Token is one free unit in the pool with its class attributes. Price is
// only summed by Search; SearchPriced prices whole compositions instead.
type Token struct {
	UnitID          string
	ClassID         string
	OptimalCapacity int
	MaxCapacity     int
	Price           money.Cents
}

type Match struct {
	Tokens          []Token
	OptimalCapacity int
	MaxCapacity     int
	Price           money.Cents
	// Key is the sorted class composition; two matches with the same key
	// are the same package.
	Key string
}

func (m Match) UnitIDs() []string {
	ids := make([]string, len(m.Tokens))
	for i, t := range m.Tokens {
		ids[i] = t.UnitID
	}
	return ids
}

func (m Match) ClassIDs() []string {
	ids := make([]string, len(m.Tokens))
	for i, t := range m.Tokens {
		ids[i] = t.ClassID
	}
	return ids
}

type Result struct {
	Outcome model.Outcome
	// PoolSize is the number of free tokens, K the combination size used.
	PoolSize int
	K        int
	// Evaluated counts combinations enumerated before any filtering.
	Evaluated int64
	Matches   []Match
}

// PriceFunc prices a match as one package.
type PriceFunc func(m Match) (money.Cents, error)

// Search enumerates size-k combinations of the pool, keeps those whose
// optimal capacity lies in [guests, guests+band], drops duplicate class
// compositions, and ranks by (max capacity - guests, price). A match's
// price is the sum of its token prices.
func Search(pool []Token, guests, requested int, cfg Config) Result {
	res, _ := SearchPriced(pool, guests, requested, cfg, nil)
	return res
}

// SearchPriced is Search with each distinct composition priced by price
// before ranking, so the order follows the package totals callers show.
func SearchPriced(pool []Token, guests, requested int, cfg Config, price PriceFunc) (Result, error) {
	cfg = cfg.withDefaults()
	res := Result{PoolSize: len(pool)}

	if requested <= 0 || len(pool) < requested {
		res.Outcome = model.OutcomeInsufficientPool
		return res, nil
	}
	k := min(requested, len(pool), cfg.UnitCap)
	if cfg.MaxPool > 0 && len(pool) > cfg.MaxPool && combinationsExceed(len(pool), k, Binomial(cfg.MaxPool, cfg.UnitCap)) {
		res.Outcome = model.OutcomePoolTooLarge
		return res, nil
	}
	res.K = k

	seen := make(map[string]struct{})
	var matches []Match
	classIDs := make([]string, k)

	res.Evaluated = Combinations(len(pool), k, func(idx []int) {
		var optimal int
		for _, i := range idx {
			optimal += pool[i].OptimalCapacity
		}
		if optimal < guests || optimal > guests+cfg.CapacityBand {
			return
		}

		for j, i := range idx {
			classIDs[j] = pool[i].ClassID
		}
		sorted := append([]string(nil), classIDs...)
		sort.Strings(sorted)
		key := strings.Join(sorted, "\x00")
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}

		m := Match{
			Tokens:          make([]Token, k),
			OptimalCapacity: optimal,
			Key:             key,
		}
		for j, i := range idx {
			m.Tokens[j] = pool[i]
			m.MaxCapacity += pool[i].MaxCapacity
			m.Price += pool[i].Price
		}
		matches = append(matches, m)
	})

	if price != nil {
		for i := range matches {
			p, err := price(matches[i])
			if err != nil {
				return Result{}, err
			}
			matches[i].Price = p
		}
	}

	Rank(matches, guests)
	if len(matches) > cfg.MaxResults {
		matches = matches[:cfg.MaxResults]
	}
	res.Matches = matches

	if len(matches) == 0 {
		res.Outcome = model.OutcomeNoCapacityMatch
	} else {
		res.Outcome = model.OutcomeFound
	}
	return res, nil
}

// Rank orders tightest fit first, then cheapest, then by composition key so
// the order never depends on map or enumeration accidents.
func Rank(matches []Match, guests int) {
	sort.SliceStable(matches, func(i, j int) bool {
		si, sj := matches[i].MaxCapacity-guests, matches[j].MaxCapacity-guests
		if si != sj {
			return si < sj
		}
		if matches[i].Price != matches[j].Price {
			return matches[i].Price < matches[j].Price
		}
		return matches[i].Key < matches[j].Key
	})
}

// Combinations calls fn with every k-subset of [0, n) in lexicographic order
// and returns how many it visited. The slice passed to fn is reused between
// calls.
func Combinations(n, k int, fn func(idx []int)) int64 {
	if k <= 0 || k > n {
		return 0
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	var count int64
	for {
		fn(idx)
		count++

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return count
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// combinationsExceed reports whether C(n, k) > limit. The partial products
// only grow, so it stops before they can overflow.
func combinationsExceed(n, k int, limit int64) bool {
	if k < 0 || k > n {
		return false
	}
	k = min(k, n-k)
	var r int64 = 1
	for i := 1; i <= k; i++ {
		r = r * int64(n-k+i) / int64(i)
		if r > limit {
			return true
		}
	}
	return false
}

// Binomial returns C(n, k).
func Binomial(n, k int) int64 {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	var r int64 = 1
	for i := 1; i <= k; i++ {
		r = r * int64(n-k+i) / int64(i)
	}
	return r
}
