package worker

import (
	"fmt"

	"github.com/jzx17/offthread/pkg/codec"
	"github.com/jzx17/offthread/pkg/resource"
	"github.com/jzx17/offthread/pkg/types"
)

// ScriptMediaType is the media type of compiled worker scripts
const ScriptMediaType = "application/vnd.offthread.script+cbor"

// entryInvoke runs the unit once, immediately
const entryInvoke = "invoke"

// Script is the launch descriptor stored in a worker's executable resource
type Script struct {
	Unit  string `cbor:"unit"`
	Entry string `cbor:"entry"`
}

// compile turns a unit into a loadable blob
func compile(u Unit) (resource.Blob, error) {
	data, err := codec.Marshal(Script{Unit: u.Name(), Entry: entryInvoke})
	if err != nil {
		return resource.Blob{}, fmt.Errorf("compile unit %q: %w", u.Name(), err)
	}
	return resource.Blob{Type: ScriptMediaType, Data: data}, nil
}

// loadScript decodes a blob produced by compile
func loadScript(blob resource.Blob) (Script, error) {
	if blob.Type != ScriptMediaType {
		return Script{}, fmt.Errorf("%w: media type %q", types.ErrInvalidScript, blob.Type)
	}

	var script Script
	if err := codec.Unmarshal(blob.Data, &script); err != nil {
		return Script{}, fmt.Errorf("%w: %w", types.ErrInvalidScript, err)
	}
	if script.Entry != entryInvoke {
		return Script{}, fmt.Errorf("%w: entry %q", types.ErrInvalidScript, script.Entry)
	}
	return script, nil
}
