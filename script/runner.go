package script

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/solpipe/solpipe-scripts/errormsg"
)

type Result[T any] struct {
	Name    string
	Value   T
	Err     error
	Elapsed time.Duration
}

// Run executes one script body and logs how it went.
func Run[T any](ctx context.Context, name string, fn func(ctx context.Context) (T, error)) Result[T] {
	start := time.Now()
	log.Debugf("%s: start", name)
	value, err := fn(ctx)
	r := Result[T]{Name: name, Value: value, Err: err, Elapsed: time.Since(start)}
	if err != nil {
		log.WithField("elapsed", r.Elapsed).Errorf("%s: %s", name, errormsg.Describe(err))
	} else {
		log.WithField("elapsed", r.Elapsed).Debugf("%s: done", name)
	}
	return r
}
