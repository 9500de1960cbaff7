// Package web carries the default page skeleton, sample schema and client
// assets compiled into the binary.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
)

//go:embed index.html
var Skeleton []byte

//go:embed questions.json
var Questions []byte

//go:embed static
var static embed.FS

//go:embed failure.html
var failureHTML string

var failureTmpl = template.Must(template.New("failure").Parse(failureHTML))

// FailureMessage is the single notice shown when the schema cannot be loaded
const FailureMessage = "Failed to load quiz data."

// Static returns the client assets rooted at static/
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// RenderFailure writes the failure notice page
func RenderFailure(w io.Writer) error {
	return failureTmpl.Execute(w, struct {
		Title   string
		Message string
	}{
		Title:   "Big Five Personality Quiz",
		Message: FailureMessage,
	})
}
