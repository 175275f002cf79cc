package perf

import (
	"time"

	"github.com/rs/zerolog"
)

// DecodePerf records how long each stage of one decode took. A nil
// *DecodePerf is valid and records nothing.
type DecodePerf struct {
	Source string
	Start  time.Time
	End    time.Time
	Blocks []PerfBlock
}

func MakeNewDecodePerf(source string) *DecodePerf {
	return &DecodePerf{
		Start:  time.Now(),
		Source: source,
	}
}

func (dp *DecodePerf) EndDecode() {
	if dp == nil {
		return
	}
	for dp.EndBlock() {
	}
	dp.End = time.Now()
}

func (dp *DecodePerf) StartBlock(category, description string) {
	if dp == nil {
		return
	}
	dp.Blocks = append(dp.Blocks, PerfBlock{
		Start:       time.Now(),
		Category:    category,
		Description: description,
	})
}

// EndBlock closes the most recently opened block and reports whether there
// was one.
func (dp *DecodePerf) EndBlock() bool {
	if dp == nil {
		return false
	}
	for i := len(dp.Blocks) - 1; i >= 0; i -= 1 {
		if dp.Blocks[i].End.Equal(time.Time{}) {
			dp.Blocks[i].End = time.Now()
			return true
		}
	}
	return false
}

func (dp *DecodePerf) Duration() time.Duration {
	return dp.End.Sub(dp.Start)
}

func (dp *DecodePerf) MarshalZerologObject(e *zerolog.Event) {
	e.Str("source", dp.Source)
	for i := range dp.Blocks {
		e.Dur(dp.Blocks[i].Category, dp.Blocks[i].Duration())
	}
	e.Dur("total", dp.Duration())
}

type PerfBlock struct {
	Start       time.Time
	End         time.Time
	Category    string
	Description string
}

func (pb *PerfBlock) Duration() time.Duration {
	return pb.End.Sub(pb.Start)
}

func (pb *PerfBlock) DurationMs() float64 {
	return float64(pb.Duration().Nanoseconds()) / 1000 / 1000
}
