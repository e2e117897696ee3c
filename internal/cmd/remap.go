package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"

	"github.com/hoja-dev/hoja/internal/configpaths"
	"github.com/hoja-dev/hoja/remap"
)

// RemapCommand groups remap conversion subcommands.
type RemapCommand struct {
	Pack   RemapPack   `cmd:"" help:"Print the packed word of a remap profile"`
	Unpack RemapUnpack `cmd:"" help:"Print a packed word as a remap profile"`
}

type RemapPack struct {
	Profile string `arg:"" name:"profile" help:"Profile file (.json, .yaml or .toml)" type:"existingfile"`
	Unique  bool   `help:"Reject profiles that send two slots to one output"`
}

func (p *RemapPack) Run() error {
	t, err := ReadProfile(p.Profile)
	if err != nil {
		return err
	}
	policy := remap.PolicyMerge
	if p.Unique {
		policy = remap.PolicyUnique
	}
	if err := t.Validate(policy); err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "0x%016x\n", t.Pack())
	return err
}

type RemapUnpack struct {
	Word   string `arg:"" name:"word" help:"Packed remap word, decimal or 0x-prefixed hex"`
	Format string `help:"Output format" enum:"json,yaml,toml" default:"yaml"`
	All    bool   `help:"List every slot, not only remapped ones"`
}

func (u *RemapUnpack) Run() error {
	v, err := strconv.ParseUint(u.Word, 0, 64)
	if err != nil {
		return fmt.Errorf("parse remap word: %w", err)
	}
	t := remap.Unpack(v)
	if err := t.Validate(remap.PolicyMerge); err != nil {
		return err
	}
	p := remap.TableProfile(t)
	if !u.All {
		for i, c := range t {
			if c == remap.Mapcode(i) {
				delete(p, remap.Mapcode(i).String())
			}
		}
	}
	data, err := encodeProfile(p, u.Format)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

// LoadRemap resolves s as a profile file if one exists, otherwise as a
// packed word.
func LoadRemap(s string) (remap.Table, error) {
	if _, err := os.Stat(s); err == nil {
		return ReadProfile(s)
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return remap.Table{}, fmt.Errorf("remap %q is neither a file nor a packed word", s)
	}
	return remap.Unpack(v), nil
}

// ReadProfile loads a profile, choosing the decoder by file extension.
func ReadProfile(path string) (remap.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return remap.Table{}, err
	}
	p, err := decodeProfile(data, configpaths.Ext(filepath.Ext(path)))
	if err != nil {
		return remap.Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return p.Table()
}

func decodeProfile(data []byte, format string) (remap.Profile, error) {
	p := remap.Profile{}
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, err
		}
	case "toml":
		tree, err := toml.LoadBytes(data)
		if err != nil {
			return nil, err
		}
		for k, v := range tree.ToMap() {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("slot %q: want a string, got %T", k, v)
			}
			p[k] = s
		}
	default:
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func encodeProfile(p remap.Profile, format string) ([]byte, error) {
	switch configpaths.Ext(format) {
	case "yaml":
		return yaml.Marshal(p)
	case "toml":
		m := make(map[string]any, len(p))
		for k, v := range p {
			m[k] = v
		}
		return toml.Marshal(m)
	case "json":
		b, err := json.MarshalIndent(p, "", "  ")
		return append(b, '\n'), err
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
