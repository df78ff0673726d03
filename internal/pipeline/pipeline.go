package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// Stage is one step of the pipeline. Stages share state only through object
// storage, so any stage can also run standalone via its subcommand.
type Stage struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pipeline executes stages sequentially under one run ID. The first failing
// stage halts the run; earlier stages' writes are already durable, so a rerun
// picks up from stored state.
type Pipeline struct {
	stages []Stage
}

func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Run executes all stages in order and returns the error of the stage that
// failed, if any.
func (p *Pipeline) Run(ctx context.Context) error {
	runID := uuid.New().String()
	started := time.Now()
	log.Printf("[run %s] starting, %d stages", runID, len(p.stages))

	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run %s cancelled before stage %s: %w", runID, stage.Name, err)
		}
		stageStart := time.Now()
		log.Printf("[run %s] stage %d/%d: %s", runID, i+1, len(p.stages), stage.Name)
		if err := stage.Run(ctx); err != nil {
			log.Printf("[run %s] stage %s failed after %s", runID, stage.Name, time.Since(stageStart).Round(time.Millisecond))
			return fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		log.Printf("[run %s] stage %s done in %s", runID, stage.Name, time.Since(stageStart).Round(time.Millisecond))
	}

	log.Printf("[run %s] completed in %s", runID, time.Since(started).Round(time.Millisecond))
	return nil
}
