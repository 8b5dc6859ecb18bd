/*package parse reads the "[section]" config files used by every mode.

A config file starts with a "[name]" header and is followed by one
"Variable = value" assignment per line. Variable names are case-insensitive,
'#' starts a comment, and list values are comma-separated. Variables which
are not assigned keep the default value they were registered with.
*/
package parse

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type varType int

const (
	intVar varType = iota
	floatVar
	floatsVar
	stringVar
	boolVar
)

func (v varType) String() string {
	switch v {
	case intVar:
		return "int"
	case floatVar:
		return "float"
	case floatsVar:
		return "float list"
	case stringVar:
		return "string"
	case boolVar:
		return "bool"
	}
	panic("Impossible")
}

// article returns the indefinite article for a type name.
func (v varType) article() string {
	if v.String()[0] == 'i' {
		return "an"
	}
	return "a"
}

type conversionFunc func(string) bool

type variable struct {
	name string
	typ  varType
	conv conversionFunc
}

// ConfigVars is the set of variables which a config file may assign.
type ConfigVars struct {
	name string
	vars []variable
}

// NewConfigVars creates an empty variable set for files with the header
// "[name]".
func NewConfigVars(name string) *ConfigVars {
	return &ConfigVars{name: name}
}

// Name returns the header name of the config file.
func (vars *ConfigVars) Name() string { return vars.name }

func (vars *ConfigVars) add(name string, typ varType, conv conversionFunc) {
	vars.vars = append(vars.vars, variable{strings.ToLower(name), typ, conv})
}

func (vars *ConfigVars) lookup(name string) (variable, bool) {
	for _, v := range vars.vars {
		if v.name == name {
			return v, true
		}
	}
	return variable{}, false
}

func (vars *ConfigVars) Int(ptr *int64, name string, value int64) {
	*ptr = value
	vars.add(name, intVar, intConv(ptr))
}

func (vars *ConfigVars) Float(ptr *float64, name string, value float64) {
	*ptr = value
	vars.add(name, floatVar, floatConv(ptr))
}

func (vars *ConfigVars) String(ptr *string, name string, value string) {
	*ptr = value
	vars.add(name, stringVar, stringConv(ptr))
}

func (vars *ConfigVars) Bool(ptr *bool, name string, value bool) {
	*ptr = value
	vars.add(name, boolVar, boolConv(ptr))
}

func (vars *ConfigVars) Floats(ptr *[]float64, name string, value []float64) {
	*ptr = value
	vars.add(name, floatsVar, floatsConv(ptr))
}

/////////////////
// Conversions //
/////////////////

func intConv(ptr *int64) conversionFunc {
	return func(s string) bool {
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return false
		}
		*ptr = i
		return true
	}
}

func floatConv(ptr *float64) conversionFunc {
	return func(s string) bool {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return false
		}
		*ptr = f
		return true
	}
}

func stringConv(ptr *string) conversionFunc {
	return func(s string) bool {
		*ptr = strings.TrimSpace(s)
		return true
	}
}

func boolConv(ptr *bool) conversionFunc {
	return func(s string) bool {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false
		}
		*ptr = b
		return true
	}
}

// strToList splits a comma-separated list. The empty string is the empty
// list.
func strToList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	toks := strings.Split(s, ",")
	for i := range toks {
		toks[i] = strings.TrimSpace(toks[i])
	}
	return toks
}

// floatsConv only overwrites the target once every element has parsed, so a
// failed conversion leaves the default in place.
func floatsConv(ptr *[]float64) conversionFunc {
	return func(s string) bool {
		toks := strToList(s)
		out := make([]float64, len(toks))
		for i := range toks {
			if !floatConv(&out[i])(toks[i]) {
				return false
			}
		}
		*ptr = out
		return true
	}
}

/////////////
// Parsing //
/////////////

// ReadConfig reads the config file fname and assigns its values to vars.
func ReadConfig(fname string, vars *ConfigVars) error {
	bs, err := os.ReadFile(fname)
	if err != nil {
		return err
	}
	return ParseConfig(string(bs), fname, vars)
}

// ParseConfig is ReadConfig for text which is already in memory. source
// names the text in error messages.
func ParseConfig(text, source string, vars *ConfigVars) error {
	lines, lineNums := removeComments(strings.Split(text, "\n"))

	if len(lines) == 0 || lines[0] != fmt.Sprintf("[%s]", vars.name) {
		return fmt.Errorf(
			"I expected the config file %s to have the header "+
				"[%s] at the top, but didn't find it.", source, vars.name,
		)
	}
	lines, lineNums = lines[1:], lineNums[1:]

	names, vals, errLine := associationList(lines)
	if errLine != -1 {
		return fmt.Errorf(
			"I could not parse line %d of the config file %s because it "+
				"did not take the form of a variable assignment.",
			lineNums[errLine]+1, source,
		)
	}

	if i1, i2 := checkDuplicateNames(names); i1 != -1 {
		return fmt.Errorf(
			"Lines %d and %d of the config file %s both assign a value to "+
				"the variable '%s'.", lineNums[i1]+1, lineNums[i2]+1,
			source, names[i1],
		)
	}

	for i := range names {
		v, ok := vars.lookup(names[i])
		if !ok {
			return fmt.Errorf(
				"Line %d of the config file %s assigns a value to the "+
					"variable '%s', but config files of type %s don't have "+
					"that variable.", lineNums[i]+1, source, names[i],
				vars.name,
			)
		}

		if !v.conv(vals[i]) {
			return fmt.Errorf(
				"I could not parse line %d of the config file %s because "+
					"'%s' expects values of type %s and '%s' cannot be "+
					"converted to %s %s.", lineNums[i]+1, source, v.name,
				v.typ, vals[i], v.typ.article(), v.typ,
			)
		}
	}

	return nil
}

// removeComments strips comments and blank lines. It returns the remaining
// lines and their zero-indexed positions in the input.
func removeComments(lines []string) ([]string, []int) {
	out, lineNums := []string{}, []int{}
	for i, line := range lines {
		if comment := strings.IndexByte(line, '#'); comment != -1 {
			line = line[:comment]
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		out = append(out, line)
		lineNums = append(lineNums, i)
	}
	return out, lineNums
}

// associationList splits "name = value" lines. The index of the first
// malformed line is returned, or -1 if there isn't one.
func associationList(lines []string) ([]string, []string, int) {
	names, vals := []string{}, []string{}
	for i := range lines {
		name, val, ok := strings.Cut(lines[i], "=")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || len(name) == 0 {
			return nil, nil, i
		}
		names = append(names, name)
		vals = append(vals, strings.TrimSpace(val))
	}
	return names, vals, -1
}

func checkDuplicateNames(names []string) (int, int) {
	for i := range names {
		for j := i + 1; j < len(names); j++ {
			if names[i] == names[j] {
				return i, j
			}
		}
	}
	return -1, -1
}
