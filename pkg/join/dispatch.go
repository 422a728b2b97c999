package join

// features mirrors HashJoin.cpp's compile-time JoinFeatures struct: a set
// of booleans computed once per (kind, strictness) pair (spec.md §4.3.1)
// rather than re-derived on every probed row. Resolved once in New and
// stored on HashJoin, matching the teacher's pattern of resolving which
// hashmap.Iterator flavor to use once per join instead of per row.
type features struct {
	isAsof bool
	isAll  bool
	isAny  bool
	isSemi bool
	isAnti bool

	left, right, full, inner bool

	needReplication bool
	needFilter      bool
	addMissing      bool
	needFlags       bool
}

func computeFeatures(cfg TableJoin) features {
	f := features{
		isAsof: cfg.Strictness == Asof,
		isAll:  cfg.Strictness == All,
		isAny:  cfg.Strictness == Any || cfg.Strictness == RightAny,
		isSemi: cfg.Strictness == Semi,
		isAnti: cfg.Strictness == Anti,

		left:  cfg.Kind == Left,
		right: cfg.Kind == Right,
		full:  cfg.Kind == Full,
		inner: cfg.Kind == Inner,
	}

	f.needReplication = f.isAll || (f.isAny && f.right) || (f.isSemi && f.right)
	f.needFilter = !f.needReplication && (f.inner || f.right || (f.isSemi && f.left) || (f.isAnti && f.left))
	f.addMissing = (f.left || f.full) && !f.isSemi
	f.needFlags = f.right || f.full || f.isAny || f.isSemi

	return f
}
