package rules

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every error LoadYAML returns
var ErrInvalidConfig = errors.New("invalid configuration")

type Config map[string]*cfgVal

// NewConfig creates a new configuration object primed with all the
// default values expected by Build and Tree.
func NewConfig() *Config {
	m := make(Config)
	// index of the rule messages must match
	m.SetInt("rules.start", 0)
	// either `combinator` or `exhaustive`
	m.SetString("rules.strategy", StrategyCombinator)
	// replace rules 8 and 11 with their looping versions before
	// building
	m.SetBool("rules.loops", false)
	// how deep Tree descends before giving up on a branch
	m.SetInt("tree.max_depth", 6)
	return &m
}

// Debug writes all the settings, sorted by key, to w
func (c *Config) Debug(w io.Writer) {
	fmt.Fprintln(w, "Configuration")

	keys := c.keys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s : %s\n", k, strings.Repeat(" ", width-len(k)), (*c)[k])
	}
}

// LoadYAML overrides settings with the ones found in a YAML document.
// Keys can be written either flat (`rules.start: 42`) or nested
// (`rules: {start: 42}`).  Keys that don't exist and values of the
// wrong type are reported as errors and leave c untouched.
func (c *Config) LoadYAML(r io.Reader) error {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	values := make(map[string]any)
	flatten("", doc, values)

	updated := make(Config, len(values))
	for key, raw := range values {
		current, ok := (*c)[key]
		if !ok {
			return fmt.Errorf("%w: unknown setting `%s`", ErrInvalidConfig, key)
		}
		val, err := current.typ.convert(raw)
		if err != nil {
			return fmt.Errorf("%w: setting `%s`: %w", ErrInvalidConfig, key, err)
		}
		updated[key] = val
	}
	for key, val := range updated {
		(*c)[key] = val
	}
	return nil
}

func (c *Config) keys() []string {
	keys := make([]string, 0, len(*c))
	for k := range *c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func flatten(prefix string, doc map[string]any, into map[string]any) {
	for k, v := range doc {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]any); ok {
			flatten(key, nested, into)
			continue
		}
		into[key] = v
	}
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

// convert builds a value of type vt out of something decoded from
// YAML
func (vt cfgValType) convert(raw any) (*cfgVal, error) {
	v := &cfgVal{typ: vt}
	ok := false
	switch vt {
	case cfgValType_Bool:
		v.asBool, ok = raw.(bool)
	case cfgValType_Int:
		v.asInt, ok = raw.(int)
	case cfgValType_String:
		v.asString, ok = raw.(string)
	}
	if !ok {
		return nil, fmt.Errorf("expected %s, got %T", vt, raw)
	}
	return v, nil
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

// assignType is mostly for preventing programming errors, it panics
// when a value changes type
func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("Can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("Can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (v *cfgVal) String() string {
	switch v.typ {
	case cfgValType_Bool:
		return fmt.Sprintf("%t (bool)", v.asBool)
	case cfgValType_Int:
		return fmt.Sprintf("%d (int)", v.asInt)
	case cfgValType_String:
		return fmt.Sprintf("%s (string)", v.asString)
	case cfgValType_Undefined:
		return "(undefined)"
	default:
		panic(fmt.Sprintf("unknown cfgVal type: %v", v.typ))
	}
}

func (c *Config) set(path string, vt cfgValType) *cfgVal {
	val, ok := (*c)[path]
	if !ok {
		val = &cfgVal{}
		(*c)[path] = val
	}
	val.assignType(vt)
	return val
}

func (c *Config) SetBool(path string, v bool) {
	c.set(path, cfgValType_Bool).asBool = v
}

func (c *Config) SetInt(path string, v int) {
	c.set(path, cfgValType_Int).asInt = v
}

func (c *Config) SetString(path string, v string) {
	c.set(path, cfgValType_String).asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("Bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("Int setting `%s` does not exist", path))
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("String setting `%s` does not exist", path))
}
