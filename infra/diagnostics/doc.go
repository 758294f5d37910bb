// Package diagnostics persists diagnostic entries collected during
// predictions. Stores are selected by backend name through Open.
package diagnostics
