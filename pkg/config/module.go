// Package config merges YAML or JSON configuration files with the schema
// and defaults compiled into the binary.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	J "cuelang.org/go/encoding/json"
	"cuelang.org/go/encoding/yaml"
)

//go:embed schema.cue
var schemaFile string

//go:embed default.yaml
var DEFAULT []byte

func extract(ctx *cue.Context, name string, data []byte) (*cue.Value, error) {
	switch filepath.Ext(name) {
	case ".json":
		expr, err := J.Extract(name, data)
		if err != nil {
			return nil, err
		}

		value := ctx.BuildExpr(expr)
		if err := value.Err(); err != nil {
			return nil, err
		}
		return &value, nil
	case ".yaml", ".yml":
		file, err := yaml.Extract(name, data)
		if err != nil {
			return nil, err
		}

		value := ctx.BuildFile(file)
		if err := value.Err(); err != nil {
			return nil, err
		}
		return &value, nil
	}

	return nil, fmt.Errorf("not in a valid format")
}

func readFile(ctx *cue.Context, path string) (*cue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return extract(ctx, path, data)
}

// The built-in executable layout has no startup hook to unlock moves from.
var ErrMovesNeedLayout = fmt.Errorf("moves requires paths.layout to name a layout with hooks and moveFlags")

// Process reads the provided configuration files in order, compiles them,
// and unifies them with the configuration file schema. If no configuration
// files are provided, the default configuration is used.
func Process(configPaths []string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaFile)
	err := schema.Err()
	if err != nil {
		return nil, err
	}

	if len(configPaths) == 0 {
		value, err := extract(ctx, "default.yaml", DEFAULT)
		if err != nil {
			return nil, err
		}

		schema = schema.Unify(*value)
		if err := schema.Err(); err != nil {
			return nil, fmt.Errorf(
				"invalid default config file: %v",
				err,
			)
		}
	}

	for _, path := range configPaths {
		value, err := readFile(ctx, path)
		if err != nil {
			return nil, fmt.Errorf(
				"could not process config file %s: %v",
				path,
				err,
			)
		}

		schema = schema.Unify(*value)
		if err := schema.Err(); err != nil {
			return nil, fmt.Errorf(
				"could not merge config file %s: %v",
				path,
				err,
			)
		}

		err = schema.Validate()
		if err != nil {
			return nil, fmt.Errorf(
				"config file %s is not valid: %v",
				path,
				err,
			)
		}
	}

	if err := schema.Validate(); err != nil {
		return nil, err
	}

	data, err := schema.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf(
			"could not aggregate config: %v",
			err,
		)
	}

	config := Config{}
	err = json.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}

	// Catch what the schema cannot
	if _, err := config.Maps(); err != nil {
		return nil, err
	}

	if config.Moves && config.Paths.Layout == "" {
		return nil, ErrMovesNeedLayout
	}

	return &config, nil
}
