package portfolio

import (
	"fmt"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/en_GB"
	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/sv"
	"golang.org/x/text/language"
)

// The first entry is the fallback for tags nothing else matches.
var dateLocales = []struct {
	tag        language.Tag
	translator func() locales.Translator
}{
	{language.AmericanEnglish, en_US.New},
	{language.English, en.New},
	{language.BritishEnglish, en_GB.New},
	{language.German, de.New},
	{language.French, fr.New},
	{language.Spanish, es.New},
	{language.Swedish, sv.New},
}

var dateMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(dateLocales))
	for i := range dateLocales {
		tags[i] = dateLocales[i].tag
	}

	return language.NewMatcher(tags)
}()

// FormatBuildDate formats t in the long "weekday, month day, year" form of
// the given BCP 47 language tag, e.g. "Wednesday, January 15, 2020" for
// en-US. The date is taken in t's location. An empty tag means en-US.
func FormatBuildDate(t time.Time, lang string) (string, error) {
	tag := language.AmericanEnglish

	if lang != "" {
		var err error

		tag, err = language.Parse(lang)
		if err != nil {
			return "", fmt.Errorf("invalid language tag %q: %w", lang, err)
		}
	}

	_, idx, _ := dateMatcher.Match(tag)

	return dateLocales[idx].translator().FmtDateFull(t), nil
}
