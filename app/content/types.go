package content

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// Status is the article review workflow state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), true
	}
	return "", false
}

func (s Status) Valid() bool {
	_, ok := ParseStatus(string(s))
	return ok
}

// Site is one branded tenant of the platform. Sites are managed out of
// band and read-only here.
type Site struct {
	ID              int64  `json:"id"`
	Slug            string `json:"slug"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Logo            string `json:"logo"`
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	TertiaryColor   string `json:"tertiary_color,omitempty"`
	QuaternaryColor string `json:"quaternary_color,omitempty"`
}

// Source is a citation attached to an article. The wire format is either
// a bare URL string or an attributed {url, title, source} object; both
// forms are decoded once here and never re-branched downstream.
type Source struct {
	URL        string
	Title      string
	SourceName string
	Attributed bool
}

type attributedSource struct {
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
	Source string `json:"source,omitempty"`
}

func (s *Source) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*s = Source{URL: plain}
		return nil
	}

	var attr attributedSource
	if err := json.Unmarshal(data, &attr); err != nil {
		return fmt.Errorf("source is neither a URL string nor an object: %w", err)
	}
	*s = Source{URL: attr.URL, Title: attr.Title, SourceName: attr.Source, Attributed: true}
	return nil
}

// MarshalJSON writes the source back in the form it was decoded from, so
// round trips through CreateArticle preserve historical shapes.
func (s Source) MarshalJSON() ([]byte, error) {
	if !s.Attributed {
		return json.Marshal(s.URL)
	}
	return json.Marshal(attributedSource{URL: s.URL, Title: s.Title, Source: s.SourceName})
}

// Label returns the link text for the source: the title when present,
// falling back to the source name, then to the URL itself.
func (s Source) Label() string {
	if s.Attributed {
		if s.Title != "" {
			return s.Title
		}
		if s.SourceName != "" {
			return s.SourceName
		}
	}
	return s.URL
}

// Article is one piece of content owned by exactly one site.
type Article struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Slug      string    `json:"slug"`
	Body      string    `json:"body"`
	Site      string    `json:"site"`
	Sources   []Source  `json:"sources"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewArticle is the creation payload for POST /api/articles/.
type NewArticle struct {
	Title   string   `json:"title"`
	Body    string   `json:"body"`
	Slug    string   `json:"slug"`
	Site    string   `json:"site"`
	Status  Status   `json:"status"`
	Sources []Source `json:"sources"`
}

// Filters is the ephemeral article query view-model. Its canonical
// representation is the URL query string.
type Filters struct {
	Site     string
	Status   Status
	Search   string
	Category string
}

// Values serializes the filters as query parameters. Absent fields are
// omitted entirely, never sent as empty strings.
func (f Filters) Values() url.Values {
	values := url.Values{}
	if f.Site != "" {
		values.Set("site", f.Site)
	}
	if f.Status != "" {
		values.Set("status", string(f.Status))
	}
	if f.Search != "" {
		values.Set("search", f.Search)
	}
	if f.Category != "" {
		values.Set("category", f.Category)
	}
	return values
}

// TrendingTopic is a backend-computed candidate subject for AI content
// generation. Opaque to this layer beyond display.
type TrendingTopic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Source      string `json:"source"`
	URL         string `json:"url,omitempty"`
	Published   string `json:"published,omitempty"`
}

// SectionType enumerates the block kinds of a structured article.
type SectionType string

const (
	SectionHeading   SectionType = "heading"
	SectionParagraph SectionType = "paragraph"
	SectionList      SectionType = "list"
	SectionMetadata  SectionType = "metadata"
)

// Section is one block of a generated structured article.
type Section struct {
	Type     SectionType `json:"type"`
	Level    int         `json:"level,omitempty"`
	Content  string      `json:"content,omitempty"`
	Items    []string    `json:"items,omitempty"`
	Ordered  bool        `json:"ordered,omitempty"`
	Category string      `json:"category,omitempty"`
	Source   string      `json:"source,omitempty"`
}

// Originality carries the backend's plagiarism-similarity verdict for a
// generated article. Displayed, never interpreted.
type Originality struct {
	Score      float64 `json:"score"`
	Assessment string  `json:"assessment,omitempty"`
}

// StructuredArticle is the generation payload returned by the Content
// API: a title plus ordered content sections and citation metadata.
type StructuredArticle struct {
	Title       string       `json:"title"`
	Sections    []Section    `json:"sections"`
	Sources     []Source     `json:"sources"`
	Originality *Originality `json:"originality,omitempty"`
}

// GenerationResult is the response of the structured content generation
// endpoint. Persisting the article is a separate, independent call.
type GenerationResult struct {
	Message     string            `json:"message"`
	ArticleData StructuredArticle `json:"article_data"`
}
