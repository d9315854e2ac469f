package layout

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// CompileAll compiles every structure under the "structure" field of v,
// in declaration order.
func CompileAll(v cue.Value) ([]*Structure, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	structsVal := v.LookupPath(cue.ParsePath("structure"))
	if !structsVal.Exists() {
		return nil, nil
	}
	iter, err := structsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var out []*Structure
	for iter.Next() {
		s, err := Compile(iter.Value())
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileString compiles the structures in CUE source src.
func CompileString(src, filename string) ([]*Structure, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	return CompileAll(v)
}

// LoadFile compiles the structures in one CUE file.
func LoadFile(path string) ([]*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load structures: %w", err)
	}
	return CompileString(string(data), path)
}

// LoadDir compiles the structures of the CUE package in dir.
func LoadDir(dir string) ([]*Structure, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("load structures: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("load structures: not a directory: %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("load structures: no CUE instances in %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("load structures: %w", inst.Err)
	}
	v := ctx.BuildInstance(inst)
	return CompileAll(v)
}

// Find returns the structure named name, or nil.
func Find(structures []*Structure, name string) *Structure {
	for _, s := range structures {
		if s.Name == name {
			return s
		}
	}
	return nil
}
