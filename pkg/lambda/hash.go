package lambda

// Term hashes. Both are heuristics: collisions are possible and equal hashes
// are not a proof of semantic equality.

const (
	valueSeed     = "c4lcvlv5"
	structureSeed = "l4mbda"
)

// hash32 is the classic h*31 + c string hash with wrapping arithmetic.
func hash32(s string) int64 {
	var h int64
	for _, c := range s {
		h = (h << 5) - h + int64(c)
	}
	return h
}

// lcg is the seeded pseudo-random stream mixed into every node's hash so the
// traversal order matters.
type lcg struct {
	state uint64
}

func newLCG(seed string) *lcg {
	return &lcg{state: uint64(hash32(seed))}
}

func (r *lcg) next() float64 {
	r.state = r.state*2862933555777941757 + 3037000493
	return float64(uint32(r.state>>32)) / float64(^uint32(0))
}

func (r *lcg) nextInt() int64 {
	return int64(r.next() * 10000)
}

// ValueHash hashes t including the literal variable names.
func ValueHash(t Term) int64 {
	rand := newLCG(valueSeed)
	h, err := Transform(t, TransformFuncs[int64]{
		Abs: func(a *Abs, body int64) int64 {
			return (rand.nextInt() ^ 7919) + (17*hash32(a.Name) + body)
		},
		App: func(_ *App, fun, arg int64) int64 {
			return (rand.nextInt() ^ 7907) + (13*fun + 19*arg)
		},
		Var: func(v *Var) int64 {
			return (rand.nextInt() ^ 7901) + 23*hash32(v.Name)
		},
	})
	if err != nil {
		return 0
	}
	return h
}

// StructureHash hashes t with names replaced by ids local to this traversal,
// assigned in order of first appearance. α-equivalent terms hash equal.
func StructureHash(t Term) int64 {
	rand := newLCG(structureSeed)
	ids := make(map[string]int64)
	idFor := func(name string) int64 {
		if id, ok := ids[name]; ok {
			return id
		}
		id := rand.nextInt()
		ids[name] = id
		return id
	}
	h, err := Transform(t, TransformFuncs[int64]{
		Abs: func(a *Abs, body int64) int64 {
			r := rand.nextInt()
			return (r ^ 7877) + (29*idFor(a.Name) + body)
		},
		App: func(_ *App, fun, arg int64) int64 {
			return (rand.nextInt() ^ 7867) + (31*fun + 37*arg)
		},
		Var: func(v *Var) int64 {
			r := rand.nextInt()
			return (r ^ 7853) + 41*idFor(v.Name)
		},
	})
	if err != nil {
		return 0
	}
	return h
}

// Equivalent reports whether a and b share a structure hash.
func Equivalent(a, b Term) bool {
	return StructureHash(a) == StructureHash(b)
}
