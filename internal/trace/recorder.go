package trace

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/qopher/qopher/ops"
	"github.com/qopher/qopher/state"
)

// BackendName is the registry key of the recording backend.
const BackendName = "recording"

// Recorder is a Simulator backend that executes a circuit element by
// element and writes each step to a run-log store. The final state is
// identical to what the circuit itself would produce; the recording is
// a pure side effect.
type Recorder struct {
	circ   *ops.Circuit
	store  *Store
	tokens TokenGenerator
	logger *slog.Logger
	name   string
	now    func() time.Time
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithTokens replaces the run token generator (default UUIDv7).
func WithTokens(g TokenGenerator) RecorderOption {
	return func(r *Recorder) { r.tokens = g }
}

// WithLogger replaces the structured logger (default slog.Default).
func WithLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = l }
}

// WithCircuitName sets the circuit name stored in run rows.
func WithCircuitName(name string) RecorderOption {
	return func(r *Recorder) { r.name = name }
}

// WithNow replaces the wall clock, for deterministic run rows in tests.
func WithNow(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder wraps a circuit in a recording backend.
func NewRecorder(c *ops.Circuit, store *Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		circ:   c,
		store:  store,
		tokens: UUIDv7Generator{},
		logger: slog.Default(),
		name:   "circuit",
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Factory builds a SimulatorFactory bound to one store, suitable for
// registry registration.
func Factory(store *Store, opts ...RecorderOption) ops.SimulatorFactory {
	return func(c *ops.Circuit) ops.Simulator {
		return NewRecorder(c, store, opts...)
	}
}

func (r *Recorder) Qubits() []state.Qubit { return r.circ.Qubits() }

// Run executes the circuit against a pure state, recording one step per
// element. The recorded norm after each step is the state's norm, which
// stays 1 for unitary elements and exposes projective elements.
func (r *Recorder) Run(k *state.Ket) (*state.Ket, error) {
	ctx := context.Background()
	token := r.tokens.Generate()
	if err := r.store.BeginRun(ctx, token, r.name, BackendName, "run", r.now()); err != nil {
		return nil, err
	}
	r.logger.Info("run started", "token", token, "circuit", r.name, "elements", r.circ.Size())

	clock := NewClock()
	out := k
	for _, el := range r.circ.Elements() {
		next, err := el.Run(out)
		if err != nil {
			return nil, r.fail(ctx, token, el, err)
		}
		out = next
		if err := r.record(ctx, token, clock.Next(), el, out.Norm()); err != nil {
			return nil, err
		}
	}
	if err := r.store.FinishRun(ctx, token, "", r.now()); err != nil {
		return nil, err
	}
	r.logger.Info("run finished", "token", token, "steps", clock.Current())
	return out, nil
}

// Evolve mirrors Run for mixed states.
func (r *Recorder) Evolve(d *state.Density) (*state.Density, error) {
	ctx := context.Background()
	token := r.tokens.Generate()
	if err := r.store.BeginRun(ctx, token, r.name, BackendName, "evolve", r.now()); err != nil {
		return nil, err
	}
	r.logger.Info("evolve started", "token", token, "circuit", r.name, "elements", r.circ.Size())

	clock := NewClock()
	out := d
	for _, el := range r.circ.Elements() {
		next, err := el.Evolve(out)
		if err != nil {
			return nil, r.fail(ctx, token, el, err)
		}
		out = next
		if err := r.record(ctx, token, clock.Next(), el, out.Norm()); err != nil {
			return nil, err
		}
	}
	if err := r.store.FinishRun(ctx, token, "", r.now()); err != nil {
		return nil, err
	}
	r.logger.Info("evolve finished", "token", token, "steps", clock.Current())
	return out, nil
}

func (r *Recorder) record(ctx context.Context, token string, seq int64, el ops.Operation, norm float64) error {
	return r.store.AppendStep(ctx, Step{
		RunToken: token,
		Seq:      seq,
		Op:       el.String(),
		Qubits:   qubitList(el),
		Norm:     norm,
	})
}

// fail marks the run as errored; the store error, if any, is secondary
// to the execution error and only logged.
func (r *Recorder) fail(ctx context.Context, token string, el ops.Operation, err error) error {
	execErr := fmt.Errorf("step %s: %w", el, err)
	if ferr := r.store.FinishRun(ctx, token, execErr.Error(), r.now()); ferr != nil {
		r.logger.Error("failed to record run error", "token", token, "err", ferr)
	}
	r.logger.Error("run failed", "token", token, "err", execErr)
	return execErr
}

func qubitList(el ops.Operation) string {
	qubits := el.Qubits()
	out := ""
	for i, q := range qubits {
		if i > 0 {
			out += ","
		}
		out += string(q)
	}
	return out
}
