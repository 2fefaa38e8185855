/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package format

import (
	"html/template"
	"strings"

	"github.com/simpleasset/gateway/pkg/ledger"
)

// resultPage is the interactive result fragment. The original application
// patched a static result.html; rendering through html/template keeps the
// same page shape and escapes ledger-supplied values.
const resultPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Result</title></head>
<body>
<div>{{block "result" .}}{{end}}</div>
<a href="/">Back to home</a>
</body>
</html>`

const messageFragment = `{{define "result"}}<p>{{.Message}}</p>{{end}}`

const historyFragment = `{{define "result"}}<p>History for {{.Key}}:</p>
<table class="table table-bordered">
<tr><th>TxId</th><th>Timestamp</th><th>Value</th><th>Deleted</th></tr>
{{range .Records}}<tr><td>{{.TransactionID}}</td><td>{{.Timestamp}}</td><td>{{printf "%s" .Value}}</td><td>{{.IsDelete}}</td></tr>
{{end}}</table>{{end}}`

// Renderer renders the HTML fragments returned to interactive callers.
type Renderer struct {
	message *template.Template
	history *template.Template
}

// NewRenderer parses the result page templates.
func NewRenderer() (*Renderer, error) {
	message, err := template.New("page").Parse(resultPage)
	if err != nil {
		return nil, err
	}
	if _, err := message.Parse(messageFragment); err != nil {
		return nil, err
	}

	history, err := template.New("page").Parse(resultPage)
	if err != nil {
		return nil, err
	}
	if _, err := history.Parse(historyFragment); err != nil {
		return nil, err
	}

	return &Renderer{message: message, history: history}, nil
}

// Message renders a plain acknowledgment or error sentence.
func (r *Renderer) Message(text string) (string, error) {
	var sb strings.Builder
	err := r.message.Execute(&sb, struct{ Message string }{text})
	return sb.String(), err
}

// History renders the per-record table for an asset's history.
func (r *Renderer) History(key string, records []ledger.TransactionRecord) (string, error) {
	var sb strings.Builder
	err := r.history.Execute(&sb, struct {
		Key     string
		Records []ledger.TransactionRecord
	}{key, records})
	return sb.String(), err
}
