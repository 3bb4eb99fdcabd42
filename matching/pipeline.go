package matching

import (
	"errors"
	"runtime"
	"sync"
)

// ErrRosterEmpty the voter roll snapshot contained no records. This is a
// run-level failure: emitting a table where every row is Unmatched would be
// indistinguishable from a valid run against a roll the signers simply are
// not on.
var ErrRosterEmpty = errors.New("voter roll snapshot is empty")

// ProgressEvent a structured progress notification emitted while a run is
// in flight
type ProgressEvent struct {
	Stage     string `json:"stage"`
	Processed int    `json:"processed"`
	Total     int    `json:"total"`
	Message   string `json:"message,omitempty"`
}

// Config tunable matching parameters, read once per run
type Config struct {
	// Threshold minimum aggregate score for a match, in [0, 1]
	Threshold float64
	// Epsilon minimum gap between best and second-best score for an
	// unambiguous decision
	Epsilon float64
	// Weights per-field aggregation weights; nil selects DefaultWeights
	Weights Weights
	// Workers number of parallel resolution workers; <= 0 selects NumCPU
	Workers int
}

// Pipeline sequences one matching run: normalize the roll, build the block
// index, resolve every signature, aggregate.
//
// Per-signature resolutions are independent and are fanned out across a
// worker pool; the output table is indexed by input position, so the
// (page, line) order of the result is identical no matter how the workers
// interleave. The block index is built once per run and is read-only
// afterwards, so workers share it without locking.
type Pipeline struct {
	cfg        Config
	normalizer *Normalizer
	resolver   *Resolver
	events     chan<- ProgressEvent
}

// NewPipeline creates a pipeline for the given configuration. events may be
// nil; when non-nil it receives ProgressEvents on a best-effort basis (a
// full sink drops events rather than stalling the run).
func NewPipeline(cfg Config, events chan<- ProgressEvent) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Weights == nil {
		cfg.Weights = DefaultWeights()
	}

	return &Pipeline{
		cfg:        cfg,
		normalizer: NewNormalizer(),
		resolver:   NewResolver(NewFieldScorer(), cfg.Weights, cfg.Threshold, cfg.Epsilon),
		events:     events,
	}
}

// Run matches an ordered OCR batch against a voter roll snapshot.
//
// The roll slice is treated as a snapshot for the duration of the run: the
// pipeline copies it before indexing, so caller-side mutation of the slice
// after Run returns control does not affect an in-flight run. An empty
// signature batch yields an empty table with stats marked ExtractionEmpty;
// an empty roll fails the run with ErrRosterEmpty.
func (p *Pipeline) Run(signatures []ExtractedSignature, roll []VoterRecord) ([]MatchResult, MatchStats, error) {
	if len(roll) == 0 {
		return nil, MatchStats{}, ErrRosterEmpty
	}

	if len(signatures) == 0 {
		p.emit(ProgressEvent{Stage: "done", Message: "no signatures extracted"})
		table, stats := Aggregate(nil)
		return table, stats, nil
	}

	snapshot := make([]VoterRecord, len(roll))
	copy(snapshot, roll)

	p.emit(ProgressEvent{Stage: "indexing", Total: len(snapshot)})
	index := BuildBlockIndex(snapshot, p.normalizer)

	p.emit(ProgressEvent{Stage: "matching", Total: len(signatures)})

	results := make([]MatchResult, len(signatures))
	jobs := make(chan int)

	var wg sync.WaitGroup
	var done int64
	var doneMu sync.Mutex

	workers := p.cfg.Workers
	if workers > len(signatures) {
		workers = len(signatures)
	}

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				sig := signatures[i]
				norm := p.normalizer.Normalize(sig.IdentityRecord)
				results[i] = p.resolver.Resolve(sig, norm, index.Lookup(norm))

				doneMu.Lock()
				done++
				n := done
				doneMu.Unlock()
				if n%100 == 0 {
					p.emit(ProgressEvent{Stage: "matching", Processed: int(n), Total: len(signatures)})
				}
			}
		}()
	}

	for i := range signatures {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	table, stats := Aggregate(results)
	p.emit(ProgressEvent{Stage: "done", Processed: len(signatures), Total: len(signatures)})

	return table, stats, nil
}

// emit sends a progress event without ever blocking the run
func (p *Pipeline) emit(ev ProgressEvent) {
	if p.events == nil {
		return
	}
	select {
	case p.events <- ev:
	default:
	}
}
