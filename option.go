// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package handoff

import "time"

// defaultSpin is the number of readiness checks a Park receiver makes,
// yielding between them, before it parks. A worker that answers within a
// scheduler quantum is usually caught by the spin.
const defaultSpin = 16

// Option configures the cells created by [Invoke] or a [Pool].
type Option func(*config)

type config struct {
	strategy    Strategy
	spin        int
	backoffBase time.Duration
	backoffMax  time.Duration
}

func newConfig(opts []Option) config {
	cfg := config{strategy: Park, spin: defaultSpin}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (cfg *config) newSignal() signal {
	switch cfg.strategy {
	case Cond:
		return newCondSignal()
	case Backoff:
		return &backoffSignal{base: cfg.backoffBase, max: cfg.backoffMax}
	default:
		return newParkSignal(cfg.spin)
	}
}

// WithStrategy selects the readiness strategy. The default is [Park].
func WithStrategy(s Strategy) Option {
	return func(cfg *config) { cfg.strategy = s }
}

// WithSpin sets how many times a [Park] receiver checks readiness before
// parking. Zero parks immediately.
func WithSpin(n int) Option {
	return func(cfg *config) {
		if n < 0 {
			n = 0
		}
		cfg.spin = n
	}
}

// WithBackoff sets the iox.Backoff base and ceiling used by the [Backoff]
// strategy. Non-positive values keep the iox defaults.
func WithBackoff(base, max time.Duration) Option {
	return func(cfg *config) {
		cfg.backoffBase = base
		cfg.backoffMax = max
	}
}
