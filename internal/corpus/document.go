package corpus

// Source identifies which collection a document was loaded from.
type Source string

const (
	SourceBrochure Source = "brochure"
	SourceArticle  Source = "article"
	SourceVideo    Source = "video"
	SourceAbout    Source = "about"
)

// Sources lists every known source in load order.
var Sources = []Source{SourceBrochure, SourceArticle, SourceVideo, SourceAbout}

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceBrochure, SourceArticle, SourceVideo, SourceAbout:
		return true
	}
	return false
}

// Label returns the user-facing label for the source type.
func (s Source) Label() string {
	switch s {
	case SourceBrochure:
		return "โบรชัวร์"
	case SourceArticle:
		return "บทความ"
	case SourceVideo:
		return "วิดีโอ"
	case SourceAbout:
		return "เกี่ยวกับองค์กร"
	}
	return string(s)
}

// Document is a single read-only corpus entry.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content,omitempty"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
	Source      Source    `json:"source"`
	Hashtags    []string  `json:"hashtags,omitempty"`
	Embedding   []float32 `json:"embedding,omitempty"`
}

// Body returns the document's content, falling back to its description.
func (d Document) Body() string {
	if d.Content != "" {
		return d.Content
	}
	return d.Description
}
