package store

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"predtrack/models"
)

const frontmatterDelim = "---"

// parseRecord splits a record file into YAML frontmatter and evidence body.
// The file must open with a "---" line; everything up to the closing "---"
// line is the frontmatter mapping, the remainder is the body.
func parseRecord(path string, data []byte) (*models.Record, error) {
	text := string(data)
	if !strings.HasPrefix(text, frontmatterDelim+"\n") {
		return nil, &models.ParseError{Path: path, Err: fmt.Errorf("missing frontmatter opening %q", frontmatterDelim)}
	}
	rest := text[len(frontmatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelim+"\n")
	var front, body string
	switch {
	case end >= 0:
		front = rest[:end+1]
		body = rest[end+len(frontmatterDelim)+2:]
	case strings.HasSuffix(rest, "\n"+frontmatterDelim):
		front = rest[:len(rest)-len(frontmatterDelim)]
	default:
		return nil, &models.ParseError{Path: path, Err: fmt.Errorf("missing frontmatter closing %q", frontmatterDelim)}
	}

	var rec models.Record
	if err := yaml.Unmarshal([]byte(front), &rec); err != nil {
		return nil, &models.ParseError{Path: path, Err: err}
	}
	if rec.Statement == "" {
		return nil, &models.ParseError{Path: path, Err: fmt.Errorf("statement is required")}
	}
	if err := models.ValidateConfidence(rec.Confidence); err != nil {
		return nil, &models.ParseError{Path: path, Err: err}
	}
	rec.Path = path
	rec.Evidence = strings.Trim(body, "\n")
	return &rec, nil
}

// serializeRecord renders a record back to file bytes. Field order follows
// the Record struct declaration, so repeated save cycles produce minimal
// diffs.
func serializeRecord(rec *models.Record) ([]byte, error) {
	front, err := yaml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelim + "\n")
	buf.Write(front)
	buf.WriteString(frontmatterDelim + "\n")
	if body := strings.TrimRight(rec.Evidence, "\n"); body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}
