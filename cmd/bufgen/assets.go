package main

import (
	"bytes"
	"sync"
	"text/template"
)

var (
	filelistOnce     sync.Once
	filelistTemplate *template.Template
	filelistErr      error
)

const filelistText = `// buffer {{.Buffer}}
{{range .Primitives}}{{.}}
{{end}}{{range .Files}}{{.}}
{{end}}`

type filelistData struct {
	Buffer     string
	Primitives []string
	Files      []string
}

func renderFilelist(data filelistData) ([]byte, error) {
	tmpl, err := loadFilelistTemplate()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func loadFilelistTemplate() (*template.Template, error) {
	filelistOnce.Do(func() {
		filelistTemplate, filelistErr = template.New("filelist").Parse(filelistText)
	})
	return filelistTemplate, filelistErr
}
