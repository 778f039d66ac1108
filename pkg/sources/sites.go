package sources

// Concrete extractors for the configured regional sites. Each one pins its
// seed pages and the path patterns that identify article URLs on that site.

// NewStanKZ builds the extractor for stan.kz.
func NewStanKZ(client HTTPClient) Extractor {
	return newSiteExtractor("Stan.kz", "https://stan.kz/",
		[]string{"https://stan.kz/"},
		[]string{`/news/\d+`, `/\d{4}/\d{2}/`},
		client)
}

// NewBaqKZ builds the extractor for baq.kz.
func NewBaqKZ(client HTTPClient) Extractor {
	return newSiteExtractor("Baq.kz", "https://baq.kz/",
		[]string{"https://baq.kz/"},
		[]string{`/kz/news/`, `/news/`},
		client)
}

// NewInformBuro builds the extractor for informburo.kz.
func NewInformBuro(client HTTPClient) Extractor {
	return newSiteExtractor("InformBuro", "https://informburo.kz/",
		[]string{"https://informburo.kz/"},
		[]string{`/novosti/`, `/stati/`},
		client)
}

// NewOrdaKZ builds the extractor for orda.kz. Articles are spread over the
// front page and the posts/news sections, so discovery walks all three.
func NewOrdaKZ(client HTTPClient) Extractor {
	return newSiteExtractor("Orda.kz", "https://orda.kz/",
		[]string{"https://orda.kz/", "https://orda.kz/posts", "https://orda.kz/news"},
		[]string{`/posts/`, `/\d{4}/`},
		client)
}

// NewSputnikKZ builds the extractor for ru.sputnik.kz, whose article URLs
// carry a YYYYMMDD segment.
func NewSputnikKZ(client HTTPClient) Extractor {
	return newSiteExtractor("Sputnik KZ", "https://ru.sputnik.kz/",
		[]string{"https://ru.sputnik.kz/"},
		[]string{`/\d{8}/`},
		client)
}

// NewTwentyFourKZ builds the extractor for 24.kz (Kazakh-language news feed).
func NewTwentyFourKZ(client HTTPClient) Extractor {
	return newSiteExtractor("24.kz", "https://24.kz/",
		[]string{"https://24.kz/kz/zha-aly-tar"},
		[]string{`/kz/.*\d+`},
		client)
}

// NewZakonKZ builds the extractor for kaz.zakon.kz.
func NewZakonKZ(client HTTPClient) Extractor {
	return newSiteExtractor("Zakon.kz", "https://kaz.zakon.kz/",
		[]string{"https://kaz.zakon.kz/"},
		[]string{`/doc/`, `/news/`},
		client)
}
