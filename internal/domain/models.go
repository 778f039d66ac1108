package domain

// Domain contains core models shared across the pipeline.

// Language codes assigned by the classifier.
const (
	LangKazakh  = "kz"
	LangRussian = "ru"
	LangUnknown = "unknown"
)

// Moderation statuses. An article starts pending and ends approved or rejected.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// NewsArticle is the unit of work and the unit of storage. The generic
// title/description/content fields always carry the detected-language copy;
// only the matching *_kz or *_ru pair is populated, the other stays empty.
type NewsArticle struct {
	ID int `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	ContentText string `json:"content_text"`

	TitleKZ       string `json:"title_kz"`
	DescriptionKZ string `json:"description_kz"`
	ContentTextKZ string `json:"content_text_kz"`

	TitleRU       string `json:"title_ru"`
	DescriptionRU string `json:"description_ru"`
	ContentTextRU string `json:"content_text_ru"`

	PhotoURL string `json:"photo_url"`
	Category string `json:"category"`
	Date     string `json:"date"`

	SourceURL  string `json:"source_url"`
	SourceName string `json:"source_name"`

	Language        string   `json:"language"`
	MatchedKeywords []string `json:"matched_keywords"`
	Status          string   `json:"status"`

	FetchedAt string `json:"fetched_at"`
}

// SetLanguageFields copies the generic fields into the pair matching the
// detected language. Unknown language leaves both pairs empty.
func (a *NewsArticle) SetLanguageFields() {
	switch a.Language {
	case LangKazakh:
		a.TitleKZ = a.Title
		a.DescriptionKZ = a.Description
		a.ContentTextKZ = a.ContentText
	case LangRussian:
		a.TitleRU = a.Title
		a.DescriptionRU = a.Description
		a.ContentTextRU = a.ContentText
	}
}

// CRMRecord is the downstream export view of an article.
type CRMRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentText string `json:"content_text"`

	TitleKZ       string `json:"title_kz"`
	DescriptionKZ string `json:"description_kz"`
	ContentTextKZ string `json:"content_text_kz"`

	TitleRU       string `json:"title_ru"`
	DescriptionRU string `json:"description_ru"`
	ContentTextRU string `json:"content_text_ru"`

	PhotoURL string `json:"photo_url"`
	Category string `json:"category"`
	Date     string `json:"date"`
	ID       int    `json:"id"`
}

// ToCRMRecord converts the article to its CRM export form.
func (a *NewsArticle) ToCRMRecord() CRMRecord {
	return CRMRecord{
		Title:         a.Title,
		Description:   a.Description,
		ContentText:   a.ContentText,
		TitleKZ:       a.TitleKZ,
		DescriptionKZ: a.DescriptionKZ,
		ContentTextKZ: a.ContentTextKZ,
		TitleRU:       a.TitleRU,
		DescriptionRU: a.DescriptionRU,
		ContentTextRU: a.ContentTextRU,
		PhotoURL:      a.PhotoURL,
		Category:      a.Category,
		Date:          a.Date,
		ID:            a.ID,
	}
}
