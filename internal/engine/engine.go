// Package engine walks a record stream against a report's band tree,
// maintaining accumulator state across group boundaries and emitting
// render instructions for output drivers.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bandkit/bandkit/internal/apperrors"
	"github.com/bandkit/bandkit/internal/domain/report"
	"github.com/bandkit/bandkit/internal/domain/run"
	"github.com/bandkit/bandkit/internal/domain/values"
	"github.com/bandkit/bandkit/internal/format"
	"github.com/bandkit/bandkit/internal/i18n"
	"github.com/bandkit/bandkit/internal/locale"
	"github.com/bandkit/bandkit/internal/params"
	"github.com/bandkit/bandkit/internal/stream"
)

// Engine renders one report definition. An engine is immutable after
// construction: compiled expressions and format specs are shared read-only,
// so concurrent runs of the same engine are safe and share no mutable
// state. Each run owns its own context from creation to completion.
type Engine struct {
	def        *report.Report
	arena      *report.Arena
	specs      map[string]*format.Compiled
	cache      *programCache
	acc        *Accumulator
	localeSvc  locale.Service
	translator i18n.Translator
	reducers   map[string]Reducer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocaleService replaces the default locale service.
func WithLocaleService(svc locale.Service) Option {
	return func(e *Engine) {
		e.localeSvc = svc
	}
}

// WithTranslator supplies the translation lookup used by the t() helper
// in element expressions.
func WithTranslator(tr i18n.Translator) Option {
	return func(e *Engine) {
		e.translator = tr
	}
}

// WithReducer registers the reducer for a custom variable.
func WithReducer(variable string, r Reducer) Option {
	return func(e *Engine) {
		e.reducers[variable] = r
	}
}

// New validates the definition and compiles everything a run needs:
// format specs, group key expressions, variable expressions and element
// sources. Definition problems surface here, before any record exists.
func New(def *report.Report, opts ...Option) (*Engine, error) {
	e := &Engine{
		def:       def,
		localeSvc: locale.NewService(),
		reducers:  make(map[string]Reducer),
		cache:     newProgramCache(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}
	e.arena = def.Flatten()

	e.specs = make(map[string]*format.Compiled, len(def.FormatSpecs))
	for _, spec := range def.FormatSpecs {
		compiled, err := format.Compile(spec)
		if err != nil {
			return nil, apperrors.NewDefinitionError(def.Metadata.Name, err.Error())
		}
		e.specs[spec.Name] = compiled
	}

	acc, err := newAccumulator(def.Variables, e.cache, e.reducers)
	if err != nil {
		return nil, apperrors.NewDefinitionError(def.Metadata.Name, err.Error())
	}
	e.acc = acc

	if err := e.compileExpressions(); err != nil {
		return nil, apperrors.NewDefinitionError(def.Metadata.Name, err.Error())
	}

	return e, nil
}

// compileExpressions compiles every expression in the definition eagerly
// so a typo fails the definition, not record 40000 of a run.
func (e *Engine) compileExpressions() error {
	for _, group := range e.def.Groups {
		if _, err := e.cache.getOrCompile(group.Key); err != nil {
			return fmt.Errorf("group %s key: %w", group.Name, err)
		}
	}
	for _, v := range e.def.Variables {
		if v.Kind == values.VarCount {
			continue
		}
		if _, err := e.cache.getOrCompile(v.Expression); err != nil {
			return fmt.Errorf("variable %s: %w", v.Name, err)
		}
	}
	var compileErr error
	e.arena.Walk(func(node *report.BandNode) bool {
		for _, elem := range node.Elements {
			if _, err := e.cache.getOrCompile(elem.Source); err != nil {
				compileErr = fmt.Errorf("band %s element %s: %w", node.Name, elem.Name, err)
				return false
			}
		}
		return true
	})
	return compileErr
}

// Definition returns the engine's report definition.
func (e *Engine) Definition() *report.Report {
	return e.def
}

// session holds per-run state; it is never shared between runs.
type session struct {
	engine   *Engine
	cfg      RunConfig
	params   map[string]any
	loc      string
	pageH    float64
	runState values.RunState
}

// transition moves the run state machine, refusing illegal transitions.
func (s *session) transition(next values.RunState) {
	if s.runState.CanTransitionTo(next) {
		s.runState = next
	}
}

// Run executes the report against a record stream.
//
// The run result is always one of Completed, Failed or Cancelled; on
// Failed and Cancelled the instructions emitted so far remain on the
// result so the caller can decide what to do with partial output. The
// returned error mirrors the failure for ergonomic call sites and is nil
// only for Completed runs.
func (e *Engine) Run(ctx context.Context, src stream.Source, supplied map[string]any, cfg RunConfig) (*run.Result, error) {
	result := run.NewResult(e.def.Metadata.Name, e.def.Metadata.Version)

	normalized, err := params.Validate(e.def.Parameters, e.def.ParameterSchema, supplied)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		result.Finalize(run.OutcomeFailed, run.NewContext("", values.DirectionLTR))
		return result, err
	}

	loc := locale.Resolve(locale.Fixed(cfg.Locale), locale.Fixed(e.def.Metadata.Locale))
	s := &session{
		engine:   e,
		cfg:      cfg,
		params:   normalized,
		loc:      loc,
		pageH:    cfg.usableHeight(),
		runState: values.StateIdle,
	}

	rctx := run.NewContext(loc, e.localeSvc.TextDirection(loc))
	state := e.acc.Identity()
	rctx = rctx.WithValues(e.acc.Snapshot(state))

	source := stream.WithTimeout(src, cfg.TimeoutPerRecord)

	var prevKeys []any
	var lastRecord map[string]any
	index := 0

	for {
		// Cooperative cancellation between records. Bands fired so far
		// stay on the result as already-emitted instructions.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return s.cancelled(result, rctx, index, ctxErr)
		}

		record, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return s.cancelled(result, rctx, index, err)
			}
			return s.failed(result, rctx, apperrors.NewStreamError(index, err))
		}

		keys, err := s.groupKeys(record, state, index)
		if err != nil {
			return s.failed(result, rctx, err)
		}
		breaks := DetectBreaks(prevKeys, keys)

		if s.runState == values.StateIdle {
			s.transition(values.StateStreamActive)
			env := s.environment(record, e.acc.Snapshot(state), index)
			rctx = rctx.WithRecord(record, index)
			rctx = s.fireKind(rctx, values.BandTitle, env)
			rctx = s.fireKind(rctx, values.BandPageHeader, env)
		} else if len(breaks) > 0 {
			// Close broken groups innermost to outermost. Footers resolve
			// against the pre-reset accumulator state for the group that
			// just ended, positioned on its last record.
			footEnv := s.environment(lastRecord, e.acc.Snapshot(state), index-1)
			for i := len(breaks) - 1; i >= 0; i-- {
				if footer, ok := e.arena.GroupFooter(breaks[i]); ok {
					rctx = s.fireTree(rctx, footer, footEnv)
				}
			}
			// Resetting the outermost broken scope also resets everything
			// narrower than it.
			state = e.acc.ResetScope(state, values.GroupScope(breaks[0]))
		}

		pageBefore := rctx.Cursor.Page
		rctx = rctx.WithRecord(record, index).WithGroupKeys(keys).CountBreaks(len(breaks))

		// Open groups outermost to innermost against the fresh scope state.
		env := s.environment(record, e.acc.Snapshot(state), index)
		rctx = rctx.WithValues(e.acc.Snapshot(state))
		for _, level := range breaks {
			if header, ok := e.arena.GroupHeader(level); ok {
				rctx = s.fireTree(rctx, header, env)
			}
		}

		// Fold the record's contribution before the detail band so detail
		// elements see running totals that include the current record.
		state, err = e.acc.Apply(state, env)
		if err != nil {
			return s.failed(result, rctx, err)
		}
		env = s.environment(record, e.acc.Snapshot(state), index)
		rctx = rctx.WithValues(e.acc.Snapshot(state))

		rctx = s.fireKind(rctx, values.BandDetail, env)

		if rctx.Cursor.Page != pageBefore {
			state = e.acc.ResetScope(state, values.ScopePage)
		}

		prevKeys = keys
		lastRecord = record
		index++
	}

	// Stream exhausted: synthesize a full break to close every open group,
	// innermost to outermost, then fire the report-level bands.
	s.transition(values.StateClosing)

	if prevKeys != nil {
		footEnv := s.environment(lastRecord, e.acc.Snapshot(state), index-1)
		for level := len(e.def.Groups) - 1; level >= 0; level-- {
			if footer, ok := e.arena.GroupFooter(level); ok {
				rctx = s.fireTree(rctx, footer, footEnv)
			}
		}
		rctx = rctx.CountBreaks(len(e.def.Groups))
	}

	// The summary sees report-level totals regardless of variable scopes.
	summaryEnv := s.environment(lastRecord, e.acc.ReportSnapshot(state), index-1)
	rctx = rctx.WithValues(e.acc.ReportSnapshot(state))
	rctx = s.fireKind(rctx, values.BandSummary, summaryEnv)
	rctx = s.fireKind(rctx, values.BandPageFooter, summaryEnv)

	s.transition(values.StateDone)

	result.Finalize(run.OutcomeCompleted, rctx)
	return result, nil
}

// failed finalizes a run that hit an unrecoverable error.
func (s *session) failed(result *run.Result, rctx run.Context, cause error) (*run.Result, error) {
	result.Errors = append(result.Errors, cause.Error())
	result.Finalize(run.OutcomeFailed, rctx)
	return result, cause
}

// cancelled finalizes a caller-cancelled run.
func (s *session) cancelled(result *run.Result, rctx run.Context, index int, cause error) (*run.Result, error) {
	cerr := apperrors.NewCancelledError(index, cause)
	result.Errors = append(result.Errors, cerr.Error())
	result.Finalize(run.OutcomeCancelled, rctx)
	return result, cerr
}

// environment builds the expression environment for one step.
func (s *session) environment(record map[string]any, vals map[string]any, index int) map[string]any {
	loc := s.loc
	tr := s.engine.translator
	return map[string]any{
		"record": record,
		"params": s.params,
		"values": vals,
		"index":  index,
		"locale": loc,
		"t": func(key string) string {
			return i18n.TranslateOrHumanize(tr, key, loc)
		},
	}
}

// groupKeys evaluates every group key expression for a record.
func (s *session) groupKeys(record map[string]any, state State, index int) ([]any, error) {
	if len(s.engine.def.Groups) == 0 {
		return nil, nil
	}
	env := s.environment(record, s.engine.acc.Snapshot(state), index)
	keys := make([]any, len(s.engine.def.Groups))
	for i, group := range s.engine.def.Groups {
		key, err := s.engine.cache.run(group.Key, env)
		if err != nil {
			return nil, fmt.Errorf("group %s key: %w", group.Name, err)
		}
		keys[i] = key
	}
	return keys, nil
}

// fireKind fires every non-group band of a kind in document order.
// Group-bound bands fire on break events, never by kind sweep.
func (s *session) fireKind(rctx run.Context, kind values.BandKind, env map[string]any) run.Context {
	if kind.IsGroupBound() {
		return rctx
	}
	for _, id := range s.engine.arena.ByKind(kind) {
		rctx = s.fireTree(rctx, s.engine.arena.Node(id), env)
	}
	return rctx
}

// fireTree fires a band and its nested children in document order using
// an explicit stack.
func (s *session) fireTree(rctx run.Context, root *report.BandNode, env map[string]any) run.Context {
	stack := []report.BandID{root.ID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := s.engine.arena.Node(id)
		rctx = s.fireBand(rctx, node, env)

		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return rctx
}

// fireBand resolves every element of one band and appends its render
// instructions, then advances the layout cursor by the band height.
func (s *session) fireBand(rctx run.Context, node *report.BandNode, env map[string]any) run.Context {
	rctx = rctx.WithBand(node.Name)

	record, _ := env["record"].(map[string]any)
	vals, _ := env["values"].(map[string]any)
	ectx := format.EvalContext{
		Locale: rctx.Locale,
		Record: record,
		Values: vals,
	}

	for _, elem := range node.Elements {
		text, opts, warnMsg := s.resolveElement(elem, env, ectx)
		if warnMsg != "" {
			rctx = rctx.Warn(run.Warning{
				Band:    node.Name,
				Element: elem.Name,
				Record:  rctx.RecordIndex,
				Message: warnMsg,
			})
		}
		rctx = rctx.Append(run.Instruction{
			Band:    node.Name,
			Element: elem.Name,
			Text:    text,
			Options: opts,
			X:       elem.X,
			Y:       rctx.Cursor.Y + elem.Y,
			Page:    rctx.Cursor.Page,
			Record:  rctx.RecordIndex,
		})
	}

	return rctx.Advance(node.Height, s.pageH)
}

// resolveElement produces the display text for one element. Failures are
// recoverable: the raw stringified value is substituted and the warning
// message is returned for the caller to record. A panicking format spec
// is contained the same way.
func (s *session) resolveElement(elem report.Element, env map[string]any, ectx format.EvalContext) (text string, opts format.Options, warnMsg string) {
	defer func() {
		if r := recover(); r != nil {
			warnMsg = fmt.Sprintf("format resolution panicked: %v", r)
			opts = nil
		}
	}()

	value, err := s.engine.cache.run(elem.Source, env)
	if err != nil {
		return "", nil, fmt.Sprintf("source %q: %v", elem.Source, err)
	}
	text = format.Stringify(value)

	if elem.Format == "" {
		return text, nil, ""
	}

	compiled := s.engine.specs[elem.Format]
	pattern, ruleOpts, err := format.Evaluate(compiled, value, ectx)
	if err != nil {
		return text, nil, fmt.Sprintf("format %q: %v", elem.Format, err)
	}

	rendered, err := format.RenderText(pattern, ruleOpts, value, ectx, s.engine.localeSvc.FormatNumber)
	if err != nil {
		return text, nil, fmt.Sprintf("format %q: %v", elem.Format, err)
	}
	return rendered, ruleOpts, ""
}
