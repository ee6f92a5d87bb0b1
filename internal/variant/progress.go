package variant

import (
	"fmt"
	"sync"
)

// Phase identifies where a generation run currently is.
type Phase string

// Generation phases, in order of appearance.
const (
	PhasePreparing  Phase = "preparing"
	PhaseGenerating Phase = "generating"
	PhaseProcessing Phase = "processing"
	PhaseDone       Phase = "done"
)

// Progress is a snapshot of a generation run.
type Progress struct {
	// Phase is the current stage of the run.
	Phase Phase

	// VariantsDone counts finished variants out of VariantsTotal.
	VariantsDone  int
	VariantsTotal int

	// ChunksDone counts rewritten chunks out of ChunksTotal across all
	// variants. Both stay zero for direct (unchunked) runs.
	ChunksDone  int
	ChunksTotal int

	// Message is a short human-readable status line.
	Message string

	// Cost is the accumulated dollar cost so far.
	Cost float64
}

// ProgressFunc receives progress snapshots during generation. Calls are
// serialized. Implementations must return quickly and must not call back
// into the generator.
type ProgressFunc func(Progress)

// runState accumulates the counters shared by all variant goroutines and
// serializes progress callbacks behind one mutex.
type runState struct {
	mu         sync.Mutex
	onProgress ProgressFunc

	variantsTotal int
	variantsDone  int
	chunksTotal   int
	chunksDone    int
	cost          float64
	firstErr      error
}

func newRunState(total int, fn ProgressFunc) *runState {
	return &runState{variantsTotal: total, onProgress: fn}
}

// emitLocked snapshots the counters and invokes the callback.
// Callers must hold mu.
func (s *runState) emitLocked(phase Phase, message string) {
	if s.onProgress == nil {
		return
	}
	s.onProgress(Progress{
		Phase:         phase,
		VariantsDone:  s.variantsDone,
		VariantsTotal: s.variantsTotal,
		ChunksDone:    s.chunksDone,
		ChunksTotal:   s.chunksTotal,
		Message:       message,
		Cost:          s.cost,
	})
}

func (s *runState) emit(phase Phase, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitLocked(phase, message)
}

// addChunks grows the chunk total when a variant takes the chunked path.
func (s *runState) addChunks(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunksTotal += n
}

// chunkDone records one rewritten chunk and its cost.
func (s *runState) chunkDone(cost float64, variant, index, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunksDone++
	s.cost += cost
	s.emitLocked(PhaseGenerating, fmt.Sprintf("variant %d: part %d/%d rewritten", variant+1, index+1, total))
}

// variantDone records one finished variant. extraCost covers the direct
// path; chunked variants already accumulated their cost chunk by chunk.
func (s *runState) variantDone(extraCost float64, variant int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.variantsDone++
	s.cost += extraCost
	s.emitLocked(PhaseGenerating, fmt.Sprintf("variant %d complete", variant+1))
}

// fail records the first error of the run; later errors are dropped.
func (s *runState) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.firstErr == nil {
		s.firstErr = err
	}
}

func (s *runState) firstError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.firstErr
}

func (s *runState) totalCost() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cost
}
