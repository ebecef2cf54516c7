package coastline

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
)

// scriptStep is a single action in an editor script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Tool   string  `json:"tool,omitempty"`
	Src    string  `json:"src,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	DPI    float64 `json:"dpi,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure of an editor script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences injected pointer events, commands and exports
// across frames. Attach it to an Editor with SetScript or run it with
// RunScript.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	err       error
	exports   map[string]*image.NRGBA
}

// LoadScript parses a JSON editor script:
//
//	{"steps": [
//	  {"action": "tool", "tool": "mask"},
//	  {"action": "drag", "fromX": 10, "fromY": 10, "toX": 200, "toY": 120, "frames": 20},
//	  {"action": "export", "label": "coast", "dpi": 150}
//	]}
//
// Actions: tool, asset, press, move, release, click, drag, wheel, wait,
// group, ungroup, delete, resize, export.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, errors.New("parse script: no steps")
	}
	return &ScriptRunner{steps: s.Steps, exports: make(map[string]*image.NRGBA)}, nil
}

// SetScript attaches a runner to the editor. Its steps advance from
// Editor.Update.
func (e *Editor) SetScript(r *ScriptRunner) {
	e.script = r
}

// Done reports whether every step has been executed or a step failed.
func (r *ScriptRunner) Done() bool { return r.done }

// Err returns the error of the failed step, if any.
func (r *ScriptRunner) Err() error { return r.err }

// Export returns the image captured by the export step with the given
// label.
func (r *ScriptRunner) Export(label string) (*image.NRGBA, bool) {
	img, ok := r.exports[label]
	return img, ok
}

// Exports returns the labels of every captured export.
func (r *ScriptRunner) Exports() map[string]*image.NRGBA { return r.exports }

// step advances the runner by one frame.
func (r *ScriptRunner) step(e *Editor) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if e.Injecting() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	if err := r.run(e, st); err != nil {
		r.err = fmt.Errorf("script step %d (%s): %w", r.cursor, st.Action, err)
		r.done = true
		return
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !e.Injecting() {
		r.done = true
	}
}

func (r *ScriptRunner) run(e *Editor, st scriptStep) error {
	switch st.Action {
	case "tool":
		t, err := ParseTool(st.Tool)
		if err != nil {
			return err
		}
		e.SelectTool(t)
	case "asset":
		e.SelectStampAsset(st.Src)
	case "press":
		e.InjectPress(st.X, st.Y)
	case "move":
		e.InjectMove(st.X, st.Y)
	case "release":
		e.InjectRelease(st.X, st.Y)
	case "click":
		e.InjectClick(st.X, st.Y)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case "wheel":
		e.HandleWheel(st.X, st.Y, st.DeltaY)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "group":
		e.GroupSelection()
	case "ungroup":
		e.UngroupSelection()
	case "delete":
		e.DeleteSelection()
	case "resize":
		return e.Resize(st.Width, st.Height)
	case "export":
		dpi := st.DPI
		if dpi == 0 {
			dpi = e.export.DPI
		}
		img, err := e.ExportRaster(dpi)
		if err != nil {
			return err
		}
		r.exports[st.Label] = img
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// RunScript attaches r to e and updates the editor at 60 frames per second
// until the script finishes. It fails if the script has not finished after
// maxFrames frames.
func RunScript(e *Editor, r *ScriptRunner, maxFrames int) error {
	e.SetScript(r)
	defer e.SetScript(nil)
	for range maxFrames {
		e.Update(1.0 / 60)
		if r.Done() {
			return r.Err()
		}
	}
	return fmt.Errorf("run script: not finished after %d frames", maxFrames)
}
