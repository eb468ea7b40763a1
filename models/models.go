package models

import "fmt"

// Visibility values for a record.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Status values written when a record is resolved.
const (
	StatusCorrect   = "correct"
	StatusIncorrect = "incorrect"
)

// Market outcome as reported by provider adapters.
const (
	OutcomeYes = "YES"
	OutcomeNo  = "NO"
)

// MarketLink ties a record to an external prediction market. When AutoResolve
// is set the reconciler may finalize the record from the market's settlement;
// otherwise resolution is a human action.
type MarketLink struct {
	Provider    string  `yaml:"provider" json:"provider"`
	Slug        string  `yaml:"slug" json:"slug"`
	AutoResolve bool    `yaml:"autoResolve" json:"autoResolve"`
	ResolvedAt  string  `yaml:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	FinalProb   float64 `yaml:"finalProb,omitempty" json:"finalProb,omitempty"`
	Outcome     string  `yaml:"outcome,omitempty" json:"outcome,omitempty"`
}

// UpdateEntry is one belief revision. Entries are append-only: nothing edits
// or removes an entry once written.
type UpdateEntry struct {
	Timestamp        string `yaml:"timestamp" json:"timestamp"`
	ConfidenceBefore int    `yaml:"confidenceBefore" json:"confidenceBefore"`
	ConfidenceAfter  int    `yaml:"confidenceAfter" json:"confidenceAfter"`
	Reasoning        string `yaml:"reasoning" json:"reasoning"`
	Hash             string `yaml:"hash,omitempty" json:"hash,omitempty"`
	GitCommit        string `yaml:"gitCommit,omitempty" json:"gitCommit,omitempty"`
}

// Record is a single prediction stored as one markdown file: YAML frontmatter
// holding the fields below plus a free-text evidence body. ID and Path are
// derived from file location and never serialized into the file itself.
type Record struct {
	ID   string `yaml:"-" json:"id"`
	Path string `yaml:"-" json:"-"`

	Statement  string   `yaml:"statement" json:"statement"`
	Confidence int      `yaml:"confidence" json:"confidence"`
	Deadline   string   `yaml:"deadline" json:"deadline"`
	Categories []string `yaml:"categories,omitempty" json:"categories,omitempty"`
	Visibility string   `yaml:"visibility,omitempty" json:"visibility,omitempty"`
	Created    string   `yaml:"created" json:"created"`

	Market *MarketLink `yaml:"market,omitempty" json:"market,omitempty"`

	Resolved     bool   `yaml:"resolved,omitempty" json:"resolved,omitempty"`
	ResolvedDate string `yaml:"resolved_date,omitempty" json:"resolved_date,omitempty"`
	Status       string `yaml:"status,omitempty" json:"status,omitempty"`
	Resolution   string `yaml:"resolution,omitempty" json:"resolution,omitempty"`

	Hash         string `yaml:"hash,omitempty" json:"hash,omitempty"`
	GitCommit    string `yaml:"gitCommit,omitempty" json:"gitCommit,omitempty"`
	PGPSignature string `yaml:"pgpSignature,omitempty" json:"pgpSignature,omitempty"`
	Signed       string `yaml:"signed,omitempty" json:"signed,omitempty"`

	Updates []UpdateEntry `yaml:"updates,omitempty" json:"updates,omitempty"`

	Evidence string `yaml:"-" json:"evidence,omitempty"`
}

// IsTerminal reports whether the record has been resolved. Terminal records
// accept no further updates or resolution writes.
func (r *Record) IsTerminal() bool {
	return r.Resolved
}

// IsPublic reports whether the record may appear in public output. Records
// with no visibility field are treated as public.
func (r *Record) IsPublic() bool {
	return r.Visibility != VisibilityPrivate
}

// ValidateConfidence checks the 0-100 bound shared by records and updates.
func ValidateConfidence(c int) error {
	if c < 0 || c > 100 {
		return fmt.Errorf("confidence %d out of range [0, 100]", c)
	}
	return nil
}

// MarketStatus is the uniform settlement shape every provider adapter
// returns: whether the market has settled, the winning outcome, the current
// (or final) YES probability, and the provider's last-update timestamp.
type MarketStatus struct {
	Resolved    bool    `json:"resolved"`
	Outcome     string  `json:"outcome"`
	CurrentProb float64 `json:"currentProb"`
	LastUpdated string  `json:"lastUpdated"`
}

// ConfidenceBuckets partitions records by stated confidence:
// low <= 33, medium 34-66, high > 66.
type ConfidenceBuckets struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// Stats is the read-only aggregate over the full record set. Accuracy and
// BrierScore are nil (JSON null) when no records have resolved.
type Stats struct {
	Total             int               `json:"total"`
	Resolved          int               `json:"resolved"`
	Correct           int               `json:"correct"`
	Incorrect         int               `json:"incorrect"`
	Pending           int               `json:"pending"`
	Accuracy          *float64          `json:"accuracy"`
	BrierScore        *float64          `json:"brierScore"`
	CategoryCounts    map[string]int    `json:"categoryCounts"`
	ConfidenceBuckets ConfidenceBuckets `json:"confidenceBuckets"`
}
