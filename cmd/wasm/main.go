//go:build js && wasm

package main

import (
	"log/slog"
	"os"
	"syscall/js"

	"github.com/rzkyif/webgl2d/internal/editor"
	"github.com/rzkyif/webgl2d/internal/shape"
)

const maxPolygonPoints = 10

var (
	ed       *editor.Editor
	renderFn js.Value
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ed = editor.New(editor.RendererFunc(pushFrame))

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → editor) ---
	api.Set("setRenderer", js.FuncOf(setRenderer))
	api.Set("startDrawLine", js.FuncOf(startDrawLine))
	api.Set("startDrawSquare", js.FuncOf(startDrawSquare))
	api.Set("startDrawPolygon", js.FuncOf(startDrawPolygon))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("selectAt", js.FuncOf(selectAt))
	api.Set("setSelectedColor", js.FuncOf(setSelectedColor))
	api.Set("cancel", js.FuncOf(cancel))
	api.Set("zoom", js.FuncOf(zoom))
	api.Set("resetView", js.FuncOf(resetView))
	api.Set("loadDocument", js.FuncOf(loadDocument))
	api.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))

	// --- Queries (frontend ← editor) ---
	api.Set("saveDocument", js.FuncOf(saveDocument))
	api.Set("render", js.FuncOf(render))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("statusText", js.FuncOf(statusText))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getSelectedColor", js.FuncOf(getSelectedColor))
	api.Set("getMode", js.FuncOf(getMode))

	js.Global().Set("webgl2dEditor", api)
	js.Global().Set("webgl2dWasmReady", js.ValueOf(true))

	select {}
}

func ok() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func fail(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

// pushFrame hands each new frame to the JS renderer callback as JSON.
func pushFrame(frame editor.Frame) {
	if renderFn.Type() != js.TypeFunction {
		return
	}
	text, err := editor.FrameToJSON(frame)
	if err != nil {
		slog.Error("encode frame", "error", err)
		return
	}
	renderFn.Invoke(text)
}

func point(args []js.Value) (float64, float64, bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	return args[0].Float(), args[1].Float(), true
}

// --- Command Handlers ---

func setRenderer(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return fail("renderer must be a function")
	}
	renderFn = args[0]
	ed.SetRenderer(editor.RendererFunc(pushFrame))
	return ok()
}

func startDrawLine(this js.Value, args []js.Value) interface{} {
	ed.StartDrawLine()
	return nil
}

func startDrawSquare(this js.Value, args []js.Value) interface{} {
	ed.StartDrawSquare()
	return nil
}

func startDrawPolygon(this js.Value, args []js.Value) interface{} {
	n := shape.MinPolygonPoints
	if len(args) > 0 && args[0].Type() == js.TypeNumber {
		n = min(max(args[0].Int(), shape.MinPolygonPoints), maxPolygonPoints)
	}
	if err := ed.StartDrawPolygon(n); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func pointerDown(this js.Value, args []js.Value) interface{} {
	if x, y, valid := point(args); valid {
		ed.PointerDown(x, y)
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) interface{} {
	if x, y, valid := point(args); valid {
		ed.PointerMove(x, y)
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) interface{} {
	if x, y, valid := point(args); valid {
		ed.PointerUp(x, y)
	}
	return nil
}

func selectAt(this js.Value, args []js.Value) interface{} {
	x, y, valid := point(args)
	if !valid {
		return js.ValueOf("")
	}
	return js.ValueOf(ed.SelectAt(x, y))
}

func setSelectedColor(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing color")
	}
	if err := ed.SetSelectedColor(args[0].String()); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func cancel(this js.Value, args []js.Value) interface{} {
	ed.Cancel()
	return nil
}

func zoom(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return js.ValueOf(false)
	}
	return js.ValueOf(ed.Zoom(args[0].Float(), args[1].Float(), args[2].Float()))
}

func resetView(this js.Value, args []js.Value) interface{} {
	ed.ResetView()
	return nil
}

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return fail("missing document XML")
	}
	if err := ed.LoadDocument(args[0].String()); err != nil {
		return fail(err.Error())
	}
	return ok()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	ed.LoadSampleDocument()
	return ok()
}

// --- Query Handlers ---

func saveDocument(this js.Value, args []js.Value) interface{} {
	text, err := ed.SaveDocument()
	if err != nil {
		return fail(err.Error())
	}
	return js.ValueOf(text)
}

func render(this js.Value, args []js.Value) interface{} {
	text, err := editor.FrameToJSON(ed.Frame())
	if err != nil {
		slog.Error("encode frame", "error", err)
	}
	return js.ValueOf(text)
}

func hitTest(this js.Value, args []js.Value) interface{} {
	x, y, valid := point(args)
	if !valid {
		return js.ValueOf("")
	}
	return js.ValueOf(ed.HitTest(x, y))
}

func statusText(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.StatusText())
}

func getSelection(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Selection())
}

func getSelectedColor(this js.Value, args []js.Value) interface{} {
	color, selected := ed.SelectedColor()
	return js.ValueOf(map[string]interface{}{"color": color, "selected": selected})
}

func getMode(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(ed.Mode().String())
}
