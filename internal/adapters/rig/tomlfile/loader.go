// Package tomlfile loads rig static descriptions from TOML files.
//
// The file decides which metric applies when the motion tracker compares two
// snapshots of a joint:
//
//	name = "ur5"
//
//	[[joints]]
//	id = 1
//	name = "shoulder_pan"
//	kind = "revolute"
package tomlfile

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/avass/simstep/internal/domain"
)

type rigSchema struct {
	Name   string        `toml:"name"`
	Joints []jointSchema `toml:"joints"`
}

type jointSchema struct {
	ID   uint32 `toml:"id"`
	Name string `toml:"name"`
	Kind string `toml:"kind"`
}

// Load reads and validates one rig description. Any defect in the file is a
// configuration error: rigs are loaded at startup, never mid-run.
func Load(path string) (domain.Rig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Rig{}, fmt.Errorf("%w: read rig file: %v", domain.ErrConfig, err)
	}

	var schema rigSchema
	if err := toml.Unmarshal(raw, &schema); err != nil {
		return domain.Rig{}, fmt.Errorf("%w: parse rig file %s: %v", domain.ErrConfig, path, err)
	}

	return fromSchema(schema, path)
}

func fromSchema(schema rigSchema, path string) (domain.Rig, error) {
	rig := domain.Rig{
		Name:   schema.Name,
		Joints: make(map[domain.EntityID]domain.JointDescription, len(schema.Joints)),
	}
	for _, j := range schema.Joints {
		kind := domain.JointKind(j.Kind)
		if !kind.Valid() {
			return domain.Rig{}, fmt.Errorf("%w: rig file %s: joint %d has unknown kind %q", domain.ErrConfig, path, j.ID, j.Kind)
		}
		id := domain.EntityID(j.ID)
		if _, dup := rig.Joints[id]; dup {
			return domain.Rig{}, fmt.Errorf("%w: rig file %s: joint id %d declared twice", domain.ErrConfig, path, j.ID)
		}
		rig.Joints[id] = domain.JointDescription{ID: id, Name: j.Name, Kind: kind}
	}
	return rig, nil
}
