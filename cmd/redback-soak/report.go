package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/redback/ecs"
)

type Report struct {
	// Configuration
	Frames      int
	Duration    time.Duration
	Scenes      int
	SwitchEvery int

	// Results
	TotalFrames    int64
	TotalTime      time.Duration
	Switches       int
	FailedSwitches int
	Quit           bool
	FinalScene     string
	Bindings       int
	Draws          int64
	UpdateTime     Stats
	RenderTime     Stats
	Systems        *ecs.SchedulerStats
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// DrawsPerFrame returns the mean number of draws per rendered frame.
func (r *Report) DrawsPerFrame() float64 {
	if len(r.RenderTime.Samples) == 0 {
		return 0
	}
	return float64(r.Draws) / float64(len(r.RenderTime.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Soak Report

## Configuration
- **Frame Limit:** {{.Frames}}
- **Time Limit:** {{.Duration}}
- **Scenes:** {{.Scenes}}
- **Switch Every:** {{.SwitchEvery}} frames

## Results
- **Frames:** {{.TotalFrames}}
- **Total Time:** {{.TotalTime}}
- **Scene Switches:** {{.Switches}} ({{.FailedSwitches}} failed)
- **Quit By Script:** {{.Quit}}
- **Final Scene:** {{printf "%q" .FinalScene}} with {{.Bindings}} scripts bound
- **Draws Per Frame:** {{printf "%.1f" .DrawsPerFrame}}
- **Update Time:** avg {{.UpdateTime.Avg}}, min {{.UpdateTime.Min}}, max {{.UpdateTime.Max}}
- **Render Time:** avg {{.RenderTime.Avg}}, min {{.RenderTime.Min}}, max {{.RenderTime.Max}}
{{if .Systems}}
## Systems
{{range .Systems.Systems}}- {{.Name}}: {{.ExecutionCount}} runs, avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
