package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"
)

// scriptState holds profile fields recovered from the page's inline
// bootstrap scripts. The target page embeds a serialized state object
// (window.__PROFILE_STATE__ and historical aliases) that survives layout
// redesigns longer than the markup does, so it serves as a last-resort
// source for the top-card fields when every selector chain misses.
type scriptState struct {
	Name     string
	Headline string
	Company  string
}

var stateGlobals = []string{
	"__PROFILE_STATE__",
	"__INITIAL_STATE__",
	"__APP_STATE__",
}

// extractScriptState evaluates the document's inline scripts in a sandboxed
// JS runtime and pulls known profile fields out of any recognized state
// global. Script errors are expected (most page scripts assume a real DOM)
// and ignored.
func extractScriptState(doc *goquery.Document) scriptState {
	vm := goja.New()

	// Minimal browser shims: enough for assignment-style bootstrap scripts
	// to run, nothing more.
	vm.Set("window", vm.GlobalObject())
	vm.Set("self", vm.GlobalObject())
	vm.Set("console", map[string]interface{}{
		"log":   func(goja.FunctionCall) goja.Value { return nil },
		"warn":  func(goja.FunctionCall) goja.Value { return nil },
		"error": func(goja.FunctionCall) goja.Value { return nil },
	})

	executed := 0
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		if _, external := sel.Attr("src"); external {
			return
		}
		src := sel.Text()
		if src == "" || !looksLikeStateScript(src) {
			return
		}
		if _, err := vm.RunString(src); err == nil {
			executed++
		}
	})

	if executed == 0 {
		return scriptState{}
	}

	for _, global := range stateGlobals {
		val := vm.Get(global)
		if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
			continue
		}
		exported, ok := val.Export().(map[string]interface{})
		if !ok {
			continue
		}
		state := stateFromMap(exported)
		if state != (scriptState{}) {
			log.Debug().Str("global", global).Msg("Recovered profile fields from inline state")
			return state
		}
	}

	return scriptState{}
}

// looksLikeStateScript filters inline scripts down to the ones that assign a
// recognized state global, so the runtime never evaluates unrelated page code.
func looksLikeStateScript(src string) bool {
	for _, global := range stateGlobals {
		if strings.Contains(src, global) {
			return true
		}
	}
	return false
}

func stateFromMap(m map[string]interface{}) scriptState {
	// The state object nests the member record under a handful of known
	// keys depending on page version.
	for _, key := range []string{"profile", "member", "viewee"} {
		if nested, ok := m[key].(map[string]interface{}); ok {
			m = nested
			break
		}
	}

	state := scriptState{
		Headline: stringField(m, "headline"),
		Company:  stringField(m, "companyName"),
	}

	if name := stringField(m, "fullName"); name != "" {
		state.Name = name
	} else {
		first := stringField(m, "firstName")
		last := stringField(m, "lastName")
		state.Name = strings.TrimSpace(first + " " + last)
	}

	return state
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
