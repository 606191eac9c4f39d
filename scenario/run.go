package scenario

import (
	"fmt"

	"github.com/cs-au-dk/symheap/analysis/explore"
	"github.com/cs-au-dk/symheap/analysis/expr"
	"github.com/cs-au-dk/symheap/analysis/memory"
	"github.com/cs-au-dk/symheap/utils/logging"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrExpectation is reported when a read did not produce its expected value.
var ErrExpectation = errors.New("unexpected read")

var logger = logging.For("scenario")

type frame struct {
	pc   int
	env  env
	path Path
}

func (f *frame) fork() *frame {
	path := f.path
	path.Reads = append([]Read(nil), f.path.Reads...)
	path.Failures = append([]string(nil), f.path.Failures...)
	return &frame{f.pc + 1, f.env.clone(), path}
}

type runner struct {
	s        *Scenario
	model    expr.Model
	hasModel bool
	frames   map[uuid.UUID]*frame
	report   *Report
	err      error
}

// Run executes the scenario on a fresh heap. Paths are scheduled by the
// explorer, which uses breadth-first order if it has no selector. Reads
// that miss their expectation are reported in the result and make Run
// return ErrExpectation.
func Run(s *Scenario, e explore.Explorer) (*Report, error) {
	r := &runner{
		s:      s,
		frames: make(map[uuid.UUID]*frame),
		report: &Report{Scenario: s.Name},
	}

	symbols := make(map[string]expr.Sort, len(s.Symbols))
	for name, str := range s.Symbols {
		sort, err := parseSort(str)
		if err != nil {
			return nil, err
		}
		symbols[name] = sort
	}

	if len(s.Model) > 0 {
		r.model, r.hasModel = expr.NewModel(), true
		consts := env{}
		for name, str := range s.Model {
			v, err := consts.term(str)
			if err != nil {
				return nil, errors.Wrapf(err, "model value of %s", name)
			}
			if v.Sort() != symbols[name] {
				return nil, errors.Errorf("model value %v of %s is not of sort %v", v, name, symbols[name])
			}
			r.model = r.model.WithConst(name, v)
		}
	}

	if e.Selector == nil {
		e.Selector = explore.NewBFS()
	}
	initial := explore.NewState(memory.New())
	r.frames[initial.ID] = &frame{env: env{map[string]expr.Expr{}, symbols}}

	stats, err := e.Run(initial, r.step)
	if r.err != nil {
		return nil, r.err
	}

	r.report.Explored, r.report.Pending = stats.Explored, stats.Pending
	r.report.sort()
	if err != nil {
		return r.report, err
	}
	if n := r.report.Failures(); n > 0 {
		return r.report, errors.Wrapf(ErrExpectation, "%d failed expectations", n)
	}
	return r.report, nil
}

func (r *runner) step(st *explore.State) []*explore.State {
	f := r.frames[st.ID]
	delete(r.frames, st.ID)
	if r.err != nil {
		return nil
	}

	for ; f.pc < len(r.s.Steps); f.pc++ {
		step := r.s.Steps[f.pc]
		if step.Op == opFork {
			return r.fork(st, f, step)
		}
		if err := r.exec(st, f, step); err != nil {
			r.err = errors.Wrapf(err, "step %d (%s)", f.pc, step.Op)
			return nil
		}
	}

	for _, c := range st.Constraints() {
		f.path.Constraints = append(f.path.Constraints, c.String())
	}
	f.path.Aliases = st.Aliases()
	f.path.Memory = st.Memory
	r.report.Paths = append(r.report.Paths, f.path)
	return nil
}

func (r *runner) fork(st *explore.State, f *frame, step Step) []*explore.State {
	cond, err := f.env.term(step.Cond)
	if err != nil {
		r.err = errors.Wrapf(err, "step %d (fork)", f.pc)
		return nil
	}

	succs := []*explore.State{}
	then, els := st.Fork(cond)
	for _, c := range []*explore.State{then, els} {
		if c != nil {
			r.frames[c.ID] = f.fork()
			succs = append(succs, c)
		}
	}
	return succs
}

// lvalue resolves the location named by step. References are replaced by
// the representative of their alias class.
func (r *runner) lvalue(st *explore.State, e env, step Step) (memory.LValue, error) {
	ref, err := e.term(step.Ref)
	if err != nil {
		return nil, err
	}
	ref = st.Canonical(ref)

	sort := expr.BoolSort
	if step.Sort != "" {
		if sort, err = parseSort(step.Sort); err != nil {
			return nil, err
		}
	}

	switch {
	case step.Field != "":
		return memory.FieldLValue{Ref: ref, Field: step.Field, Sort: sort}, nil
	case step.Array != "":
		idx, err := e.term(step.Index)
		if err != nil {
			return nil, err
		}
		return memory.ArrayIndexLValue{Ref: ref, Index: idx, Type: step.Array, Sort: sort}, nil
	case step.Len != "":
		return memory.ArrayLengthLValue{Ref: ref, Type: step.Len}, nil
	case step.Map != "":
		key, err := e.term(step.Key)
		if err != nil {
			return nil, err
		}
		return memory.RefMapLValue{Map: ref, Key: st.Canonical(key), Type: step.Map, Sort: sort}, nil
	case step.Set != "":
		key, err := e.term(step.Key)
		if err != nil {
			return nil, err
		}
		return memory.RefSetLValue{Map: ref, Key: st.Canonical(key), Type: step.Set}, nil
	}
	return nil, errors.New("no location given")
}

// exec runs a single step. The heap reports misuse such as sort mismatches
// by panicking; those panics are turned into errors.
func (r *runner) exec(st *explore.State, f *frame, step Step) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("%v", p)
		}
	}()

	e := f.env
	switch step.Op {
	case opAlloc:
		var addr *expr.Address
		st.Memory, addr = st.Memory.Alloc()
		e.locals[step.Name] = addr

	case opAllocArray:
		n, err := e.term(step.Count)
		if err != nil {
			return err
		}
		var addr *expr.Address
		st.Memory, addr = st.Memory.AllocArray(step.Array, n)
		e.locals[step.Name] = addr

	case opWrite:
		lv, err := r.lvalue(st, e, step)
		if err != nil {
			return err
		}
		xs, err := e.terms(step.Value, orTrue(step.Guard))
		if err != nil {
			return err
		}
		st.Memory = st.Memory.Write(lv, xs[0], xs[1])

	case opRead:
		lv, err := r.lvalue(st, e, step)
		if err != nil {
			return err
		}
		v := st.Memory.Read(lv)
		rd := Read{Step: f.pc, Location: lv.String(), Value: v.String()}
		if r.hasModel {
			rd.Model = r.model.Eval(v).String()
		}
		if step.Expect != "" && step.Expect != rd.Value {
			f.path.Failures = append(f.path.Failures,
				fmt.Sprintf("step %d: %s = %s, expected %s", f.pc, rd.Location, rd.Value, step.Expect))
		}
		f.path.Reads = append(f.path.Reads, rd)

	case opMerge:
		sort, err := parseSort(step.Sort)
		if err != nil {
			return err
		}
		xs, err := e.terms(step.Src, step.Dst, orTrue(step.Guard))
		if err != nil {
			return err
		}
		st.Memory = st.Memory.MapMerge(st.Canonical(xs[0]), st.Canonical(xs[1]), step.Map, sort, xs[2])

	case opCopy:
		sort, err := parseSort(step.Sort)
		if err != nil {
			return err
		}
		xs, err := e.terms(step.Src, step.Dst, step.SrcFrom, step.DstFrom, step.Count, orTrue(step.Guard))
		if err != nil {
			return err
		}
		st.Memory = st.Memory.ArrayCopy(step.Array, sort, st.Canonical(xs[0]), st.Canonical(xs[1]), xs[2], xs[3], xs[4], xs[5])

	case opAssume:
		cond, err := e.term(step.Cond)
		if err != nil {
			return err
		}
		st.Assume(cond)

	case opAlias:
		if len(step.Refs) != 2 {
			return errors.Errorf("alias takes two references, got %d", len(step.Refs))
		}
		xs, err := e.terms(step.Refs...)
		if err != nil {
			return err
		}
		a, aok := xs[0].(*expr.Symbol)
		b, bok := xs[1].(*expr.Symbol)
		if !aok || !bok {
			return errors.Errorf("only symbolic references can alias, got %v and %v", xs[0], xs[1])
		}
		if ev, merged := st.AssumeAlias(a, b); merged {
			logger.Debug("alias", map[string]any{"kept": ev.Kept, "absorbed": ev.Absorbed})
		}

	case opDump:
		f.path.Heap = st.Memory.String()
	}
	return nil
}

func orTrue(guard string) string {
	if guard == "" {
		return "true"
	}
	return guard
}
