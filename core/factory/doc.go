// Package factory maps the module type names found in configuration to
// constructors. A module is a type string plus raw settings; the factory
// registered for the type decodes the settings and builds the module.
// Metrics sinks, report publishers and diagnostics backends all go through a
// Registry.
//
// Example usage:
//
//	reg := factory.NewRegistry[diagnostics.Store]()
//	reg.Register("jsonl", func(conf map[string]any) (diagnostics.Store, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return NewJSONLStore(c.Path)
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "diag.jsonl"}})
package factory
