// Package joincfg loads a join.TableJoin construction config from TOML,
// grounded on the teacher's generate-config tooling and its
// github.com/BurntSushi/toml dependency (otherwise unused by any
// colexec package in the pack).
package joincfg

import (
	"github.com/BurntSushi/toml"

	"github.com/arenadata/colhashjoin/pkg/common/hashmap/asof"
	"github.com/arenadata/colhashjoin/pkg/join"
)

// File is the TOML document shape: a flat, serialization-friendly
// mirror of join.TableJoin (strictness/kind/inequality spelled as
// strings so config files stay human-editable).
type File struct {
	Kind       string `toml:"kind"`
	Strictness string `toml:"strictness"`

	KeyNamesLeft  [][]string `toml:"key_names_left"`
	KeyNamesRight [][]string `toml:"key_names_right"`

	ForceNullableLeft  bool `toml:"force_nullable_left"`
	ForceNullableRight bool `toml:"force_nullable_right"`

	AsofInequality string `toml:"asof_inequality"`

	MaxJoinedBlockRows int `toml:"max_joined_block_rows"`
	AnyTakeLastRow     bool `toml:"any_take_last_row"`

	SizeLimits struct {
		MaxRows  int64 `toml:"max_rows"`
		MaxBytes int64 `toml:"max_bytes"`
		Throw    bool  `toml:"throw"`
	} `toml:"size_limits"`
}

// Load parses path into a join.TableJoin. DictionaryReader is never
// populated from TOML — it is a runtime callback, wired by the caller
// after Load returns, per spec.md §4.6.
func Load(path string) (join.TableJoin, error) {
	var f File
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return join.TableJoin{}, err
	}
	return f.toTableJoin()
}

// Decode parses TOML text directly, useful for tests and embedded
// default configs where a file path isn't convenient.
func Decode(text string) (join.TableJoin, error) {
	var f File
	if _, err := toml.Decode(text, &f); err != nil {
		return join.TableJoin{}, err
	}
	return f.toTableJoin()
}

func (f File) toTableJoin() (join.TableJoin, error) {
	kind, err := parseKind(f.Kind)
	if err != nil {
		return join.TableJoin{}, err
	}
	strictness, err := parseStrictness(f.Strictness)
	if err != nil {
		return join.TableJoin{}, err
	}
	ineq, err := parseInequality(f.AsofInequality)
	if err != nil {
		return join.TableJoin{}, err
	}

	return join.TableJoin{
		Kind:               kind,
		Strictness:         strictness,
		KeyNamesLeft:       f.KeyNamesLeft,
		KeyNamesRight:      f.KeyNamesRight,
		ForceNullableLeft:  f.ForceNullableLeft,
		ForceNullableRight: f.ForceNullableRight,
		AsofInequality:     ineq,
		MaxJoinedBlockRows: f.MaxJoinedBlockRows,
		AnyTakeLastRow:     f.AnyTakeLastRow,
		SizeLimits: join.SizeLimits{
			MaxRows:  f.SizeLimits.MaxRows,
			MaxBytes: f.SizeLimits.MaxBytes,
			Throw:    f.SizeLimits.Throw,
		},
	}, nil
}

func parseKind(s string) (join.Kind, error) {
	switch s {
	case "", "inner":
		return join.Inner, nil
	case "left":
		return join.Left, nil
	case "right":
		return join.Right, nil
	case "full":
		return join.Full, nil
	case "cross":
		return join.CrossJoin, nil
	default:
		return 0, unknownValue("kind", s)
	}
}

func parseStrictness(s string) (join.Strictness, error) {
	switch s {
	case "", "any":
		return join.Any, nil
	case "all":
		return join.All, nil
	case "asof":
		return join.Asof, nil
	case "semi":
		return join.Semi, nil
	case "anti":
		return join.Anti, nil
	case "right_any":
		return join.RightAny, nil
	default:
		return 0, unknownValue("strictness", s)
	}
}

func parseInequality(s string) (asof.Inequality, error) {
	switch s {
	case "", "less":
		return asof.Less, nil
	case "less_or_equals":
		return asof.LessOrEquals, nil
	case "greater":
		return asof.Greater, nil
	case "greater_or_equals":
		return asof.GreaterOrEquals, nil
	default:
		return 0, unknownValue("asof_inequality", s)
	}
}

func unknownValue(field, val string) error {
	return &unknownValueError{field: field, val: val}
}

type unknownValueError struct {
	field, val string
}

func (e *unknownValueError) Error() string {
	return "joincfg: unknown " + e.field + " value " + e.val
}
