package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/clipstage/pkg/geom"
	"github.com/chazu/clipstage/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms scene scripts before passing them to zygomys.
// It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: clip-planes -> clip_planes
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
//  3. Line comments: ; and ;; become //.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a geom.Vec3.
type sexpVec3 struct {
	vec geom.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpQuad wraps the four base vertices.
type sexpQuad struct {
	quad geom.Quad
}

func (q *sexpQuad) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(quad %s %s %s %s)", q.quad[0], q.quad[1], q.quad[2], q.quad[3])
}
func (q *sexpQuad) Type() *zygo.RegisteredType { return nil }

// sexpDomain wraps a parameter interval.
type sexpDomain struct {
	d geom.Domain
}

func (d *sexpDomain) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(domain %g %g)", d.d.Min, d.d.Max)
}
func (d *sexpDomain) Type() *zygo.RegisteredType { return nil }

// sexpLine wraps a parametric line.
type sexpLine struct {
	line geom.ParametricLine
}

func (l *sexpLine) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(line %s %s)", l.line, l.line.Domain)
}
func (l *sexpLine) Type() *zygo.RegisteredType { return nil }

// sexpClipPlanes wraps the pair of clipping facet indexes.
type sexpClipPlanes struct {
	planes [2]int
}

func (c *sexpClipPlanes) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(clip-planes %d %d)", c.planes[0], c.planes[1])
}
func (c *sexpClipPlanes) Type() *zygo.RegisteredType { return nil }

// sexpCamera wraps a camera pose.
type sexpCamera struct {
	cam scene.Camera
}

func (c *sexpCamera) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(camera :phi %g :theta %g :zoom %g)", c.cam.Phi, c.cam.Theta, c.cam.Zoom)
}
func (c *sexpCamera) Type() *zygo.RegisteredType { return nil }

// sexpStep wraps a scene step.
type sexpStep struct {
	step scene.Step
}

func (s *sexpStep) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(step %q :action :%s)", s.step.Name, s.step.Action)
}
func (s *sexpStep) Type() *zygo.RegisteredType { return nil }

// sexpScene is returned by `scene`.
type sexpScene struct {
	spec *scene.Spec
}

func (s *sexpScene) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(scene %q :steps %d)", s.spec.Name, len(s.spec.Steps))
}
func (s *sexpScene) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				if _, next := isKW(args[i+1]); next && isFlag(name) {
					// Flag followed by another keyword.
					result.kw[name] = zygo.SexpNull
					i++
					continue
				}
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value, treat as flag.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// isFlag reports keywords that may appear without a value.
func isFlag(name string) bool {
	return name == "force"
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an integral number.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toBool accepts true/false; a bare flag (nil) counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_plane) and plain strings ("plane").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (geom.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return geom.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toQuad accepts a quad or a list of four vec3.
func toQuad(s zygo.Sexp) (geom.Quad, error) {
	if q, ok := s.(*sexpQuad); ok {
		return q.quad, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return geom.Quad{}, fmt.Errorf("expected quad: %w", err)
	}
	return quadFrom(items)
}

func quadFrom(items []zygo.Sexp) (geom.Quad, error) {
	var q geom.Quad
	if len(items) != 4 {
		return q, fmt.Errorf("quad needs 4 vertices, got %d", len(items))
	}
	for i, it := range items {
		v, err := toVec3(it)
		if err != nil {
			return q, fmt.Errorf("vertex %d: %w", i, err)
		}
		q[i] = v
	}
	return q, nil
}

func toDomain(s zygo.Sexp) (geom.Domain, error) {
	if d, ok := s.(*sexpDomain); ok {
		return d.d, nil
	}
	return geom.Domain{}, fmt.Errorf("expected domain, got %T (%s)", s, s.SexpString(nil))
}

func toLine(s zygo.Sexp) (geom.ParametricLine, error) {
	if l, ok := s.(*sexpLine); ok {
		return l.line, nil
	}
	return geom.ParametricLine{}, fmt.Errorf("expected line, got %T (%s)", s, s.SexpString(nil))
}

func toClipPlanes(s zygo.Sexp) ([2]int, error) {
	if c, ok := s.(*sexpClipPlanes); ok {
		return c.planes, nil
	}
	return [2]int{}, fmt.Errorf("expected clip-planes, got %T (%s)", s, s.SexpString(nil))
}

func toCamera(s zygo.Sexp) (scene.Camera, error) {
	if c, ok := s.(*sexpCamera); ok {
		return c.cam, nil
	}
	return scene.Camera{}, fmt.Errorf("expected camera, got %T (%s)", s, s.SexpString(nil))
}

// toStep accepts a step form or a bare keyword/string naming an action
// (the step is then named after it).
func toStep(s zygo.Sexp) (scene.Step, error) {
	if st, ok := s.(*sexpStep); ok {
		return st.step, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return scene.Step{}, fmt.Errorf("expected step: %w", err)
	}
	return scene.Step{Name: name, Action: name}, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// sceneSink collects the scene defined by a script. A script defines
// exactly one scene.
type sceneSink struct {
	spec *scene.Spec
}

// registerBuiltins installs the scene DSL builtins into a zygomys
// environment.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword syntax and kebab-case names are understood.
func registerBuiltins(env *zygo.Zlisp, sink *sceneSink) {
	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := vec3From("vec3", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (apex 1000 0 0) is a vec3 spelled for readability.
	// -----------------------------------------------------------------------
	env.AddFunction("apex", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := vec3From("apex", args)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (quad (vec3 ...) (vec3 ...) (vec3 ...) (vec3 ...))
	// -----------------------------------------------------------------------
	env.AddFunction("quad", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		q, err := quadFrom(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("quad: %w", err)
		}
		return &sexpQuad{quad: q}, nil
	})

	// -----------------------------------------------------------------------
	// (domain -1 1.5)
	// -----------------------------------------------------------------------
	env.AddFunction("domain", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("domain requires exactly 2 arguments, got %d", len(args))
		}
		lo, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("domain: min: %w", err)
		}
		hi, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("domain: max: %w", err)
		}
		return &sexpDomain{d: geom.Domain{Min: lo, Max: hi}}, nil
	})

	// -----------------------------------------------------------------------
	// (line :origin (vec3 ...) :direction (vec3 ...) :domain (domain -1 1.5))
	// (line :from (vec3 ...) :to (vec3 ...) :domain (domain -1 1.5))
	// -----------------------------------------------------------------------
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		vec := func(key string) (geom.Vec3, bool, error) {
			v, ok := pa.kw[key]
			if !ok {
				return geom.Vec3{}, false, nil
			}
			out, err := toVec3(v)
			if err != nil {
				return geom.Vec3{}, true, fmt.Errorf("line: %s: %w", key, err)
			}
			return out, true, nil
		}

		var l geom.ParametricLine
		origin, hasOrigin, err := vec("origin")
		if err != nil {
			return zygo.SexpNull, err
		}
		dir, hasDir, err := vec("direction")
		if err != nil {
			return zygo.SexpNull, err
		}
		from, hasFrom, err := vec("from")
		if err != nil {
			return zygo.SexpNull, err
		}
		to, hasTo, err := vec("to")
		if err != nil {
			return zygo.SexpNull, err
		}
		switch {
		case hasOrigin && hasDir:
			l = geom.ParametricLine{Origin: origin, Direction: dir}
		case hasFrom && hasTo:
			l = geom.LineThrough(from, to, geom.Domain{})
		default:
			return zygo.SexpNull, fmt.Errorf("line requires :origin and :direction, or :from and :to")
		}

		l.Domain = geom.Domain{Min: 0, Max: 1}
		if v, ok := pa.kw["domain"]; ok {
			d, err := toDomain(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("line: domain: %w", err)
			}
			l.Domain = d
		}
		return &sexpLine{line: l}, nil
	})

	// -----------------------------------------------------------------------
	// (clip-planes 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("clip_planes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("clip-planes requires exactly 2 facet indexes, got %d", len(args))
		}
		var c sexpClipPlanes
		for i, a := range args {
			n, err := toInt(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("clip-planes: facet %d: %w", i, err)
			}
			c.planes[i] = n
		}
		return &c, nil
	})

	// -----------------------------------------------------------------------
	// (camera :phi 80 :theta 45 :zoom 1 :center (vec3 0 0 300))
	// -----------------------------------------------------------------------
	env.AddFunction("camera", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		cam := scene.Camera{Zoom: 1}
		for key, dst := range map[string]*float64{"phi": &cam.Phi, "theta": &cam.Theta, "zoom": &cam.Zoom} {
			if v, ok := pa.kw[key]; ok {
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("camera: %s: %w", key, err)
				}
				*dst = f
			}
		}
		if v, ok := pa.kw["center"]; ok {
			c, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("camera: center: %w", err)
			}
			cam.Center = c
		}
		return &sexpCamera{cam: cam}, nil
	})

	// -----------------------------------------------------------------------
	// (step "facet-normal-0" :action :facet-normal :facet 0 :force)
	// -----------------------------------------------------------------------
	env.AddFunction("step", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("step requires a name argument")
		}
		// The name may itself be a keyword, so it is taken before parsing.
		stepName, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("step: name: %w", err)
		}
		pa := parseArgs(args[1:])
		st := scene.Step{Name: stepName, Action: stepName}

		if v, ok := pa.kw["action"]; ok {
			a, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("step %q: action: %w", stepName, err)
			}
			st.Action = a
		}
		if v, ok := pa.kw["facet"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("step %q: facet: %w", stepName, err)
			}
			st.Facet = n
		}
		if v, ok := pa.kw["force"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("step %q: force: %w", stepName, err)
			}
			st.Force = b
		}
		return &sexpStep{step: st}, nil
	})

	// -----------------------------------------------------------------------
	// (scene "Q1" :quad q :apex a :line l :clip-planes (clip-planes 2 3)
	//        :axes (list (domain ...) (domain ...) (domain ...))
	//        :overview (camera ...) :focus (camera ...)
	//        :steps (list (step ...) ...))
	// -----------------------------------------------------------------------
	env.AddFunction("scene", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if sink.spec != nil {
			return zygo.SexpNull, fmt.Errorf("scene: %q already defined, one scene per script", sink.spec.Name)
		}
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("scene requires a name argument")
		}
		sceneName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scene: name: %w", err)
		}
		spec, err := buildSpec(sceneName, pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("scene %q: %w", sceneName, err)
		}
		sink.spec = spec
		return &sexpScene{spec: spec}, nil
	})
}

// vec3From parses exactly three numeric arguments.
func vec3From(fn string, args []zygo.Sexp) (geom.Vec3, error) {
	if len(args) != 3 {
		return geom.Vec3{}, fmt.Errorf("%s requires exactly 3 arguments, got %d", fn, len(args))
	}
	var c [3]float64
	for i, a := range args {
		f, err := toFloat64(a)
		if err != nil {
			return geom.Vec3{}, fmt.Errorf("%s: %c: %w", fn, "xyz"[i], err)
		}
		c[i] = f
	}
	return geom.V3(c[0], c[1], c[2]), nil
}

// buildSpec assembles a Spec from scene keyword arguments. Axes, cameras
// and clip planes default to the built-in lesson's.
func buildSpec(name string, pa kwArgs) (*scene.Spec, error) {
	def := scene.FrustumClipLesson()
	spec := &scene.Spec{
		Name:       name,
		ClipPlanes: def.ClipPlanes,
		Axes:       def.Axes,
		Overview:   def.Overview,
		Focus:      def.Focus,
	}

	for _, key := range []string{"quad", "apex", "line"} {
		if _, ok := pa.kw[key]; !ok {
			return nil, fmt.Errorf("missing :%s", key)
		}
	}
	var err error
	if spec.Quad, err = toQuad(pa.kw["quad"]); err != nil {
		return nil, fmt.Errorf("quad: %w", err)
	}
	if spec.Apex, err = toVec3(pa.kw["apex"]); err != nil {
		return nil, fmt.Errorf("apex: %w", err)
	}
	if spec.Line, err = toLine(pa.kw["line"]); err != nil {
		return nil, fmt.Errorf("line: %w", err)
	}
	if v, ok := pa.kw["clip-planes"]; ok {
		if spec.ClipPlanes, err = toClipPlanes(v); err != nil {
			return nil, fmt.Errorf("clip-planes: %w", err)
		}
	}
	if v, ok := pa.kw["axes"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return nil, fmt.Errorf("axes: %w", err)
		}
		if len(items) != 3 {
			return nil, fmt.Errorf("axes: need 3 domains, got %d", len(items))
		}
		for i, it := range items {
			if spec.Axes[i], err = toDomain(it); err != nil {
				return nil, fmt.Errorf("axes: %c: %w", "xyz"[i], err)
			}
		}
	}
	if v, ok := pa.kw["overview"]; ok {
		if spec.Overview, err = toCamera(v); err != nil {
			return nil, fmt.Errorf("overview: %w", err)
		}
	}
	if v, ok := pa.kw["focus"]; ok {
		if spec.Focus, err = toCamera(v); err != nil {
			return nil, fmt.Errorf("focus: %w", err)
		}
	}
	if v, ok := pa.kw["steps"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return nil, fmt.Errorf("steps: %w", err)
		}
		for i, it := range items {
			st, err := toStep(it)
			if err != nil {
				return nil, fmt.Errorf("steps: %d: %w", i, err)
			}
			spec.Steps = append(spec.Steps, st)
		}
	}
	return spec, nil
}
