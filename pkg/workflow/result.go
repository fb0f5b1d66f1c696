package workflow

import (
	"sort"
	"strconv"
	"strings"
)

type ResultKind string

const (
	TextResultKind   ResultKind = "text"
	NumberResultKind ResultKind = "number"
	MapResultKind    ResultKind = "map"
	ListResultKind   ResultKind = "list"
	ErrorResultKind  ResultKind = "error"
)

// Result is the value produced by a step. Exactly one variant is populated,
// indicated by Kind; the zero Result carries no value.
type Result struct {
	Kind   ResultKind        `json:"kind"`
	Text   string            `json:"text,omitempty"`
	Number float64           `json:"number,omitempty"`
	Fields map[string]Result `json:"fields,omitempty"`
	Items  []Result          `json:"items,omitempty"`
	Err    string            `json:"error,omitempty"`
}

func TextResult(s string) Result {
	return Result{Kind: TextResultKind, Text: s}
}

func NumberResult(n float64) Result {
	return Result{Kind: NumberResultKind, Number: n}
}

func MapResult(fields map[string]Result) Result {
	return Result{Kind: MapResultKind, Fields: fields}
}

func ListResult(items ...Result) Result {
	return Result{Kind: ListResultKind, Items: items}
}

func ErrorResult(msg string) Result {
	return Result{Kind: ErrorResultKind, Err: msg}
}

func (r Result) IsZero() bool {
	return r.Kind == ""
}

func (r Result) AsText() (string, bool) {
	return r.Text, r.Kind == TextResultKind
}

func (r Result) AsNumber() (float64, bool) {
	return r.Number, r.Kind == NumberResultKind
}

func (r Result) AsMap() (map[string]Result, bool) {
	return r.Fields, r.Kind == MapResultKind
}

func (r Result) AsList() ([]Result, bool) {
	return r.Items, r.Kind == ListResultKind
}

func (r Result) AsError() (string, bool) {
	return r.Err, r.Kind == ErrorResultKind
}

// String renders the result as plain text. Map fields are emitted in key
// order so the output is stable.
func (r Result) String() string {
	switch r.Kind {
	case TextResultKind:
		return r.Text
	case NumberResultKind:
		return strconv.FormatFloat(r.Number, 'f', -1, 64)
	case MapResultKind:
		keys := make([]string, 0, len(r.Fields))
		for k := range r.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var b strings.Builder
		for i, k := range keys {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(k)
			b.WriteString(": ")
			b.WriteString(r.Fields[k].String())
		}
		return b.String()
	case ListResultKind:
		var b strings.Builder
		for i, item := range r.Items {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("- ")
			b.WriteString(item.String())
		}
		return b.String()
	case ErrorResultKind:
		return "error: " + r.Err
	default:
		return ""
	}
}

// Context holds the results of completed steps, keyed by step ID. Steps that
// failed or were skipped never appear in it.
type Context map[string]Result

func (c Context) Get(id string) (Result, bool) {
	r, ok := c[id]
	return r, ok
}

// Text returns the rendered result for a step, or "" when the step produced
// nothing.
func (c Context) Text(id string) string {
	r, ok := c[id]
	if !ok {
		return ""
	}
	return r.String()
}

func (c Context) clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
